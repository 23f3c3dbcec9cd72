package pubsite

import (
	"bytes"
	"encoding/xml"

	"github.com/eringen/pubsite/dataset"
	"github.com/eringen/pubsite/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemap lists the home, blog, tag, year, series and post pages.
func (a *App) sitemap(ds *dataset.Dataset) ([]byte, error) {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: views.BuildURL(base)},
		{Loc: views.BuildURL(base, "blog")},
		{Loc: views.BuildURL(base, "tags")},
	}
	for _, tag := range ds.Tags() {
		if safeSegment(tag) {
			urls = append(urls, sitemapURL{Loc: views.BuildURL(base, "tags", tag)})
		}
	}
	for _, year := range ds.Years() {
		urls = append(urls, sitemapURL{Loc: views.BuildURL(base, "years", year)})
	}
	for _, slug := range ds.SeriesSlugs() {
		urls = append(urls, sitemapURL{Loc: views.BuildURL(base, "series", slug)})
	}
	for _, p := range ds.All() {
		urls = append(urls, sitemapURL{
			Loc:     views.BuildURL(base, p.Slug),
			LastMod: p.DateString(),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
