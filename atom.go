package pubsite

import (
	"time"

	atom "github.com/thomas11/atomgenerator"
	"go.uber.org/zap"

	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/views"
)

// atomFeed renders an Atom feed with the full rendered body of each post.
func (a *App) atomFeed(posts []content.Post) ([]byte, error) {
	updated := time.Now()
	if len(posts) > 0 {
		updated = posts[0].Date
	}

	feed := atom.Feed{
		Title:   a.Config.Name,
		Link:    views.BuildURL(a.Config.URL),
		PubDate: updated,
	}
	author := a.Config.Author
	if author == "" {
		author = a.Config.Name
	}
	feed.AddAuthor(atom.Author{
		Name: author,
		Uri:  a.Config.AuthorURL,
	})

	for _, p := range posts {
		feed.AddEntry(a.atomEntry(p))
	}

	if errs := feed.Validate(); len(errs) > 0 {
		for _, e := range errs {
			a.Logger.Error("invalid atom feed", zap.Error(e))
		}
		return nil, errs[0]
	}
	return feed.GenXml()
}

func (a *App) atomEntry(p content.Post) *atom.Entry {
	e := &atom.Entry{
		Title:       p.Title,
		Description: p.Description,
		Link:        views.BuildURL(a.Config.URL, p.Slug),
		PubDate:     p.Date,
		Content:     p.HTML,
	}
	for _, tag := range p.Tags {
		e.AddCategory(atom.Category{Term: tag})
	}
	return e
}
