package pubsite

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/dataset"
	"github.com/eringen/pubsite/views"
)

// relatedPostCount is the number of related posts shown under a post.
const relatedPostCount = 4

// The view builders below are shared by the preview server and the static
// builder, so both produce identical pages.

func (a *App) basePage(nav string, meta views.PageMeta) views.Page {
	site := a.Config.viewConfig()
	return views.Page{
		Site:   site,
		Meta:   meta,
		Nav:    nav,
		JSONLD: views.WebsiteJsonLD(site),
	}
}

func (a *App) homeView(ds *dataset.Dataset) templ.Component {
	return views.Home(views.HomePageData{
		Page:   a.basePage("home", views.PageMeta{URL: views.BuildURL(a.Config.URL)}),
		Recent: views.Cards(a.Config.viewConfig(), ds.Recent()),
		Years:  ds.Years(),
	})
}

func (a *App) blogView(ds *dataset.Dataset) templ.Component {
	return views.Blog(views.BlogPageData{
		Page: a.basePage("blog", views.PageMeta{
			Title:       a.Config.BlogTitle,
			Description: a.Config.BlogDescription,
			URL:         views.BuildURL(a.Config.URL, "blog"),
		}),
		Title:       a.Config.BlogTitle,
		Description: a.Config.BlogDescription,
		Series:      views.SeriesCards(ds),
		Posts:       views.Cards(a.Config.viewConfig(), ds.All()),
	})
}

func (a *App) postView(ds *dataset.Dataset, p content.Post) templ.Component {
	site := a.Config.viewConfig()
	data := views.PostPageData{
		Page: views.Page{
			Site: site,
			Meta: views.PageMeta{
				Title:       p.Title,
				Description: p.Description,
				URL:         views.BuildURL(a.Config.URL, p.Slug),
				OGType:      "article",
			},
			Nav:    "blog",
			JSONLD: views.BlogPostingJsonLD(site, p),
		},
		Post:    p,
		Body:    template.HTML(p.HTML),
		TOC:     views.TOC(p.Headings),
		Related: views.Cards(site, ds.Related(p, relatedPostCount)),
	}
	if prev, ok := ds.Prev(p.Name()); ok {
		data.Prev = &prev
	}
	if next, ok := ds.Next(p.Name()); ok {
		data.Next = &next
	}
	return views.Post(data)
}

func (a *App) listView(kind, heading string, segments []string, posts []content.Post) templ.Component {
	return views.List(views.ListPageData{
		Page: a.basePage(kind, views.PageMeta{
			Title: heading,
			URL:   views.BuildURL(a.Config.URL, segments...),
		}),
		Heading: heading,
		Kind:    kind,
		Posts:   views.Cards(a.Config.viewConfig(), posts),
	})
}

func (a *App) tagView(ds *dataset.Dataset, tag string) (templ.Component, bool) {
	posts := ds.ByTag(tag)
	if len(posts) == 0 {
		return nil, false
	}
	name := decodeTag(tag)
	return a.listView("tags", "#"+name, []string{"tags", name}, posts), true
}

func (a *App) yearView(ds *dataset.Dataset, year string) (templ.Component, bool) {
	posts := ds.ByYear(year)
	if len(posts) == 0 {
		return nil, false
	}
	return a.listView("year", year, []string{"years", year}, posts), true
}

func (a *App) seriesView(ds *dataset.Dataset, slug string) (templ.Component, bool) {
	posts := ds.SeriesBySlug(slug)
	if len(posts) == 0 {
		return nil, false
	}
	return a.listView("series", slug, []string{"series", slug}, posts), true
}

// searchView lists the posts matching q. It backs the blog search form when
// the search script cannot run. An empty q lists every post, which is also
// the static search/index.html page.
func (a *App) searchView(ds *dataset.Dataset, q string) templ.Component {
	if q == "" {
		return a.listView("search", "Search", []string{"search"}, ds.All())
	}
	return a.listView("search", "Search: "+q, []string{"search"}, ds.Search(q))
}

func (a *App) tagsView(ds *dataset.Dataset) templ.Component {
	return views.Tags(views.TagsPageData{
		Page: a.basePage("tags", views.PageMeta{Title: "Tags", URL: views.BuildURL(a.Config.URL, "tags")}),
		Tags: ds.TagCounts(),
	})
}

func (a *App) notFoundView() templ.Component {
	return views.NotFound(a.basePage("", views.PageMeta{Title: "Not Found"}))
}

func (a *App) serverErrorView() templ.Component {
	return views.ServerError(a.basePage("", views.PageMeta{Title: "Error"}))
}
