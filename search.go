package pubsite

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eringen/pubsite/dataset"
	"github.com/eringen/pubsite/views"
)

// searchEntry is one record of /search.json, read by the search box script.
type searchEntry struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Date        string   `json:"date"`
}

func searchIndex(ds *dataset.Dataset) ([]byte, error) {
	entries := make([]searchEntry, 0, ds.Len())
	for _, p := range ds.All() {
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		entries = append(entries, searchEntry{
			Title:       p.Title,
			URL:         views.PostURL(p),
			Description: p.Description,
			Tags:        tags,
			Date:        p.DateString(),
		})
	}
	return json.Marshal(entries)
}

func (a *App) robotsTxt() []byte {
	sitemap := strings.TrimSuffix(views.BuildURL(a.Config.URL), "/") + "/sitemap.xml"
	return []byte(fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", sitemap))
}
