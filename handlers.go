package pubsite

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (a *App) handleHome(c echo.Context) error {
	ds, err := a.Cache.Dataset(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.homeView(ds))
}

func (a *App) handleBlog(c echo.Context) error {
	ds, err := a.Cache.Dataset(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.blogView(ds))
}

// handlePost serves /blog/<slugAsParams>/. Posts are looked up by the last
// path segment, like the post links generated for the list pages.
func (a *App) handlePost(c echo.Context) error {
	ds, err := a.Cache.Dataset(c.Request().Context())
	if err != nil {
		return err
	}
	param := strings.Trim(c.Param("*"), "/")
	name := path.Base(param)
	p, ok := ds.BySlug(name)
	if !ok || param == "" {
		return RenderStatus(c, http.StatusNotFound, a.notFoundView())
	}
	if p.SlugAsParams != param {
		return c.Redirect(http.StatusMovedPermanently, "/blog/"+p.SlugAsParams+"/")
	}
	return Render(c, a.postView(ds, p))
}

func (a *App) handleTags(c echo.Context) error {
	ds, err := a.Cache.Dataset(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.tagsView(ds))
}

func (a *App) handleTag(c echo.Context) error {
	ds, err := a.Cache.Dataset(c.Request().Context())
	if err != nil {
		return err
	}
	// tagView takes the escaped form. Without a RawPath the router hands
	// back an already decoded param, so escape it again.
	tag := c.Param("tag")
	if c.Request().URL.RawPath == "" {
		tag = url.PathEscape(tag)
	}
	cmp, ok := a.tagView(ds, tag)
	if !ok {
		return echo.ErrNotFound
	}
	return Render(c, cmp)
}

func (a *App) handleYear(c echo.Context) error {
	ds, err := a.Cache.Dataset(c.Request().Context())
	if err != nil {
		return err
	}
	cmp, ok := a.yearView(ds, c.Param("year"))
	if !ok {
		return echo.ErrNotFound
	}
	return Render(c, cmp)
}

func (a *App) handleSeries(c echo.Context) error {
	ds, err := a.Cache.Dataset(c.Request().Context())
	if err != nil {
		return err
	}
	cmp, ok := a.seriesView(ds, c.Param("slug"))
	if !ok {
		return echo.ErrNotFound
	}
	return Render(c, cmp)
}

func (a *App) handleSearch(c echo.Context) error {
	ds, err := a.Cache.Dataset(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.searchView(ds, strings.TrimSpace(c.QueryParam("q"))))
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/blog/")
}

// handleStatic serves files from the static directory at the site root.
// Directories are served through their index.html.
func (a *App) handleStatic(c echo.Context) error {
	rel := path.Clean("/" + c.Param("*"))
	file, err := outPath(a.Config.StaticDir, rel)
	if err != nil {
		return echo.ErrNotFound
	}
	info, err := os.Stat(file)
	if err != nil {
		return echo.ErrNotFound
	}
	if info.IsDir() {
		file = filepath.Join(file, "index.html")
		if _, err := os.Stat(file); err != nil {
			return echo.ErrNotFound
		}
	}
	return c.File(file)
}

func (a *App) handleChromaCSS(c echo.Context) error {
	var buf bytes.Buffer
	if err := a.Renderer.WriteCSS(&buf); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", buf.Bytes())
}

func (a *App) handleRobots(c echo.Context) error {
	// A robots.txt in the static dir wins over the generated one.
	if file, err := outPath(a.Config.StaticDir, "robots.txt"); err == nil {
		if _, err := os.Stat(file); err == nil {
			return c.File(file)
		}
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, a.robotsTxt())
}

func (a *App) handleSitemap(c echo.Context) error {
	ds, err := a.Cache.Dataset(c.Request().Context())
	if err != nil {
		return err
	}
	data, err := a.sitemap(ds)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", data)
}

func (a *App) handleFeed(c echo.Context) error {
	ds, err := a.Cache.Dataset(c.Request().Context())
	if err != nil {
		return err
	}
	data, err := a.rssFeed(ds.All())
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", data)
}

func (a *App) handleAtom(c echo.Context) error {
	ds, err := a.Cache.Dataset(c.Request().Context())
	if err != nil {
		return err
	}
	data, err := a.atomFeed(ds.All())
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/atom+xml; charset=utf-8", data)
}

func (a *App) handleSearchIndex(c echo.Context) error {
	ds, err := a.Cache.Dataset(c.Request().Context())
	if err != nil {
		return err
	}
	data, err := searchIndex(ds)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (a *App) handleThumbnail(c echo.Context) error {
	ds, err := a.Cache.Dataset(c.Request().Context())
	if err != nil {
		return err
	}
	p, ok := postByThumbnail(ds, c.Param("file"))
	if !ok {
		return echo.ErrNotFound
	}
	data, err := a.thumbnail(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return echo.ErrNotFound
		}
		return err
	}
	return c.Blob(http.StatusOK, "image/jpeg", data)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.notFoundView())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		_ = RenderStatus(c, code, a.serverErrorView())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
