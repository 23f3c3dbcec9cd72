package pubsite

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/markdown"
	"github.com/eringen/pubsite/views"
)

// SiteConfig holds all configuration for a pubsite site.
type SiteConfig struct {
	Name            string `mapstructure:"name"`             // Site name (default "Blog")
	URL             string `mapstructure:"url"`              // Canonical URL (default "http://localhost:3000")
	Description     string `mapstructure:"description"`      // Site description for feeds and meta tags
	BlogTitle       string `mapstructure:"blog_title"`       // Heading of /blog/ (default "Blog")
	BlogDescription string `mapstructure:"blog_description"` // Intro of /blog/ (default Description)
	Author          string `mapstructure:"author"`
	AuthorURL       string `mapstructure:"author_url"`
	Profile         string `mapstructure:"profile"` // Bio shown under each post

	ContentDir string `mapstructure:"content_dir"` // Posts (default "content")
	StaticDir  string `mapstructure:"static_dir"`  // Copied verbatim to the site root (default "static")
	OutDir     string `mapstructure:"out_dir"`     // Build output (default "out")
	IndexPath  string `mapstructure:"index_path"`  // SQLite content index (default "data/content.db")

	Addr          string        `mapstructure:"addr"`           // Preview server address (default ":3000")
	PostCacheTTL  time.Duration `mapstructure:"post_cache_ttl"` // Preview cache TTL (default 5min)
	IncludeDrafts bool          `mapstructure:"include_drafts"`

	ThumbnailCategories []string `mapstructure:"thumbnail_categories"`
	ThumbnailWidth      int      `mapstructure:"thumbnail_width"` // default 800
	CodeStyle           string   `mapstructure:"code_style"`      // chroma style (default "github")

	// ConfigDir is the directory of the loaded config file, set by LoadConfig.
	ConfigDir string `mapstructure:"-"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.BlogTitle == "" {
		c.BlogTitle = "Blog"
	}
	if c.BlogDescription == "" {
		c.BlogDescription = c.Description
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.OutDir == "" {
		c.OutDir = "out"
	}
	if c.IndexPath == "" {
		c.IndexPath = "data/content.db"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.ThumbnailWidth == 0 {
		c.ThumbnailWidth = 800
	}
	if c.CodeStyle == "" {
		c.CodeStyle = "github"
	}
	c.ThumbnailCategories = FilterEmpty(c.ThumbnailCategories)
}

// viewConfig is the subset of the configuration templates see.
func (c SiteConfig) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:                c.Name,
		URL:                 c.URL,
		Description:         c.Description,
		Author:              c.Author,
		AuthorURL:           markdown.SafeURL(c.AuthorURL),
		Profile:             c.Profile,
		ThumbnailCategories: c.ThumbnailCategories,
	}
}

var configKeys = []string{
	"name", "url", "description", "blog_title", "blog_description",
	"author", "author_url", "profile",
	"content_dir", "static_dir", "out_dir", "index_path",
	"addr", "post_cache_ttl", "include_drafts",
	"thumbnail_categories", "thumbnail_width", "code_style",
}

// LoadConfig reads the YAML file at path, applies PUBSITE_* environment
// overrides (PUBSITE_URL, PUBSITE_OUT_DIR, ...) and fills in defaults.
// Relative directories are resolved against the directory of the config file,
// so the binary can be run from anywhere. An empty path uses only the
// environment and defaults.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("PUBSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Keys must be known to viper for env-only values to reach Unmarshal.
	for _, key := range configKeys {
		v.SetDefault(key, nil)
	}

	baseDir := "."
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return SiteConfig{}, fmt.Errorf("pubsite: read config %s: %w", path, err)
		}
		baseDir = filepath.Dir(path)
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("pubsite: decode config: %w", err)
	}
	cfg.setDefaults()

	cfg.ContentDir = normalizePath(cfg.ContentDir, baseDir)
	cfg.StaticDir = normalizePath(cfg.StaticDir, baseDir)
	cfg.OutDir = normalizePath(cfg.OutDir, baseDir)
	cfg.IndexPath = normalizePath(cfg.IndexPath, baseDir)
	if path != "" {
		cfg.ConfigDir = baseDir
	}
	return cfg, nil
}

// sourcePaths lists the author's inputs, which a clean build must never delete.
func (c SiteConfig) sourcePaths() []string {
	return []string{c.ContentDir, c.StaticDir, c.IndexPath, c.ConfigDir}
}

func normalizePath(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger sets the structured logger (default zap.NewNop()).
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithSource replaces the default content directory source, for example
// with a Store to serve from a prebuilt content index.
func WithSource(src content.Source) Option {
	return func(a *App) {
		a.Source = src
	}
}
