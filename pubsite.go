// Package pubsite is a static blog generator built with Go, Echo, and templ.
// It loads Markdown/MDX posts with YAML front matter, renders the blog list,
// post pages, tag, year and series archives plus RSS, Atom and sitemap feeds,
// and either writes them to a directory (Build) or serves them live for
// previewing (Start).
package pubsite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/markdown"
)

// App is the central pubsite application. It wires together the content
// source, cache, renderer, handlers and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Cache    *PostCache
	Source   content.Source
	Renderer *markdown.Renderer
	Logger   *zap.Logger

	customRoutes []func(*App)
}

// New creates a new pubsite App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		Renderer: markdown.NewRenderer(cfg.CodeStyle),
		Logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.Source == nil {
		a.Source = content.DirSource{
			Root:          cfg.ContentDir,
			IncludeDrafts: cfg.IncludeDrafts,
			Renderer:      a.Renderer,
			Logger:        a.Logger,
		}
	}
	a.Cache = NewPostCache(a.Source, cfg.PostCacheTTL)
	return a
}

// Start sets up middleware and routes and serves the site until ctx is done.
func (a *App) Start(ctx context.Context) error {
	a.setup()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("shutdown", zap.Error(err))
		}
	}()

	a.Logger.Info("serving site", zap.String("addr", a.Config.Addr), zap.String("content", a.Config.ContentDir))
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("pubsite: serve: %w", err)
	}
	return nil
}

func (a *App) setup() {
	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/assets/*", echo.WrapHandler(http.StripPrefix("/assets/", assetsHandler())))
	e.GET("/chroma.css", a.handleChromaCSS)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/atom.xml", a.handleAtom)
	e.GET("/search.json", a.handleSearchIndex)
	e.GET("/thumbnails/:file", a.handleThumbnail)

	e.GET("/", a.handleHome)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/*", a.handlePost)
	e.GET("/tags/", a.handleTags)
	e.GET("/tags/:tag/", a.handleTag)
	e.GET("/years/:year/", a.handleYear)
	e.GET("/series/:slug/", a.handleSeries)
	e.GET("/search/", a.handleSearch)

	// User's static files live at the site root, as they do in the build output.
	e.GET("/*", a.handleStatic)
}
