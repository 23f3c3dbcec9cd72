// Package views renders the site's pages. Templates are embedded html/template
// files sharing one layout; each page is exposed as a templ.Component so the
// preview server and the static builder render through the same interface.
package views

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed templates
var templateFS embed.FS

var funcs = template.FuncMap{
	"postURL": PostURL,
	"tagURL":  TagURL,
	"pathEsc": PathEscape,
	"indent":  func(depth int) int { return depth * 12 },
}

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"home", "blog", "post", "list", "tagindex", "notfound", "error"} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials/*.html",
			"templates/"+name+".html",
		))
	}
}

func page(name string, data any) templ.Component {
	return templ.FromGoHTML(pages[name].Lookup("layout"), data)
}

// Home renders the landing page with the most recent posts.
func Home(d HomePageData) templ.Component { return page("home", d) }

// Blog renders the blog index: search, series and the full post list.
func Blog(d BlogPageData) templ.Component { return page("blog", d) }

// Post renders a single post with its table of contents.
func Post(d PostPageData) templ.Component { return page("post", d) }

// List renders the posts of one tag, year or series.
func List(d ListPageData) templ.Component { return page("list", d) }

// Tags renders the tag overview.
func Tags(d TagsPageData) templ.Component { return page("tagindex", d) }

// NotFound renders the 404 page.
func NotFound(p Page) templ.Component { return page("notfound", p) }

// ServerError renders the 500 page.
func ServerError(p Page) templ.Component { return page("error", p) }
