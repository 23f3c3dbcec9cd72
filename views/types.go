package views

import (
	"html/template"

	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/dataset"
)

// SiteConfig holds the site-wide settings templates read.
type SiteConfig struct {
	Name                string
	URL                 string
	Description         string
	Author              string
	AuthorURL           string
	Profile             string   // short bio shown under each post
	ThumbnailCategories []string // categories whose post cards show a thumbnail
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Page is embedded in every page's data.
type Page struct {
	Site   SiteConfig
	Meta   PageMeta
	Nav    string // active navigation entry
	JSONLD template.JS
}

// PostCard is one entry of a post list.
type PostCard struct {
	Post          content.Post
	ShowThumbnail bool
	ThumbnailURL  string
}

// SeriesCard summarizes one series on the blog page.
type SeriesCard struct {
	Slug   string
	Title  string
	Count  int
	Latest content.Post
}

// TOCItem is one line of a post's table of contents. Depth is relative to
// the shallowest heading in the post, starting at 0.
type TOCItem struct {
	Text  string
	ID    string
	Depth int
}

// HomePageData renders the landing page.
type HomePageData struct {
	Page
	Recent []PostCard
	Years  []string
}

// BlogPageData renders the blog index.
type BlogPageData struct {
	Page
	Title       string
	Description string
	Series      []SeriesCard
	Posts       []PostCard
}

// PostPageData renders a single post.
type PostPageData struct {
	Page
	Post    content.Post
	Body    template.HTML
	TOC     []TOCItem
	Prev    *content.Post
	Next    *content.Post
	Related []PostCard
}

// ListPageData renders a filtered post list (tag, year or series).
type ListPageData struct {
	Page
	Heading string
	Kind    string // "tag", "year" or "series"
	Posts   []PostCard
}

// TagsPageData renders the tag overview.
type TagsPageData struct {
	Page
	Tags []dataset.TagCount
}
