package views

import (
	"encoding/json"
	"html/template"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/dataset"
	"github.com/eringen/pubsite/markdown"
)

// ThumbnailDir is the output directory for resized thumbnails.
const ThumbnailDir = "thumbnails"

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PathEscape wraps url.PathEscape for use in templates.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// PostURL is the site-relative URL of a post page.
func PostURL(p content.Post) string {
	return p.Slug + "/"
}

// TagURL is the site-relative URL of a tag page.
func TagURL(tag string) string {
	return "/tags/" + url.PathEscape(tag) + "/"
}

// IsLocalThumbnail reports whether the thumbnail refers to a file in the
// static directory rather than a remote URL.
func IsLocalThumbnail(thumbnail string) bool {
	return strings.HasPrefix(thumbnail, "/") && !strings.HasPrefix(thumbnail, "//")
}

// ThumbnailURL returns the URL of the resized thumbnail for local images and
// the original URL for remote ones.
func ThumbnailURL(p content.Post) string {
	if p.Thumbnail == "" {
		return ""
	}
	if IsLocalThumbnail(p.Thumbnail) {
		return "/" + ThumbnailDir + "/" + p.ID + ".jpg"
	}
	return markdown.SafeURL(p.Thumbnail)
}

// Cards converts posts into list cards. A card shows its thumbnail when the
// post has one and its category is listed in cfg.ThumbnailCategories.
func Cards(cfg SiteConfig, posts []content.Post) []PostCard {
	cards := make([]PostCard, 0, len(posts))
	for _, p := range posts {
		show := p.Thumbnail != "" && slices.Contains(cfg.ThumbnailCategories, p.Category())
		card := PostCard{Post: p, ShowThumbnail: show}
		if show {
			card.ThumbnailURL = ThumbnailURL(p)
		}
		cards = append(cards, card)
	}
	return cards
}

// SeriesCards groups the series posts of ds by series slug. The title of a
// series is the slug with dashes replaced by spaces.
func SeriesCards(ds *dataset.Dataset) []SeriesCard {
	var cards []SeriesCard
	for _, slug := range ds.SeriesSlugs() {
		posts := ds.SeriesBySlug(slug)
		cards = append(cards, SeriesCard{
			Slug:   slug,
			Title:  strings.ReplaceAll(slug, "-", " "),
			Count:  len(posts),
			Latest: posts[0],
		})
	}
	return cards
}

// TOC flattens headings into table of contents items with relative depth.
func TOC(headings []content.Heading) []TOCItem {
	if len(headings) == 0 {
		return nil
	}
	minLevel := headings[0].Level
	for _, h := range headings {
		minLevel = min(minLevel, h.Level)
	}
	items := make([]TOCItem, 0, len(headings))
	for _, h := range headings {
		if h.ID == "" {
			continue
		}
		items = append(items, TOCItem{Text: h.Text, ID: h.ID, Depth: h.Level - minLevel})
	}
	return items
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) template.JS {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return marshalJS(data)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg SiteConfig, post content.Post) template.JS {
	postURL := BuildURL(cfg.URL, post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Description,
		"datePublished": post.DateString(),
		"url":           postURL,
		"wordCount":     post.ReadingTime.Words,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	return marshalJS(data)
}

// marshalJS encodes data for a <script type="application/ld+json"> block.
// json.Marshal escapes <, > and & so the output cannot close the script tag.
func marshalJS(data any) template.JS {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}
