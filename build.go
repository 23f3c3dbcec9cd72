package pubsite

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/otiai10/copy"
	"go.uber.org/zap"

	"github.com/eringen/pubsite/dataset"
)

// BuildStats summarizes a Build run.
type BuildStats struct {
	Posts      int
	Pages      int
	Thumbnails int
	Duration   time.Duration
}

// Build renders the whole site into Config.OutDir. With clean set the output
// directory is removed first, after the posts have loaded. Page URLs map to
// <path>/index.html so the output can be served by any static file server.
func (a *App) Build(ctx context.Context, clean bool) (BuildStats, error) {
	start := time.Now()
	out := a.Config.OutDir

	posts, err := a.Source.LoadPosts(ctx)
	if err != nil {
		return BuildStats{}, err
	}
	if clean {
		if err := cleanOutDir(out, a.Config.sourcePaths()...); err != nil {
			return BuildStats{}, err
		}
	}
	ds := dataset.New(posts)
	stats := BuildStats{Posts: ds.Len()}

	if err := a.copyStatic(out); err != nil {
		return stats, err
	}
	if err := a.writeAssets(out); err != nil {
		return stats, err
	}

	n, err := a.writePages(ctx, ds, out)
	stats.Pages = n
	if err != nil {
		return stats, err
	}
	if err := a.writeFeeds(ds, out); err != nil {
		return stats, err
	}

	stats.Thumbnails, err = a.writeThumbnails(ctx, ds, out)
	if err != nil {
		return stats, err
	}
	stats.Duration = time.Since(start)
	a.Logger.Info("site built",
		zap.String("out", out),
		zap.Int("posts", stats.Posts),
		zap.Int("pages", stats.Pages),
		zap.Int("thumbnails", stats.Thumbnails),
		zap.Duration("took", stats.Duration),
	)
	return stats, nil
}

// cleanOutDir removes out. It refuses a filesystem root and any directory
// that is or contains one of keep.
func cleanOutDir(out string, keep ...string) error {
	abs, err := filepath.Abs(out)
	if err != nil {
		return err
	}
	if out == "" || abs == filepath.Dir(abs) {
		return fmt.Errorf("pubsite: refusing to clean output dir %q", out)
	}
	for _, k := range keep {
		if k == "" {
			continue
		}
		kAbs, err := filepath.Abs(k)
		if err != nil {
			return err
		}
		if within(abs, kAbs) {
			return fmt.Errorf("pubsite: refusing to clean output dir %q: it contains %s", out, k)
		}
	}
	return os.RemoveAll(abs)
}

// within reports whether path is dir or inside it. Both must be absolute.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// copyStatic copies the static dir to the root of out. A missing static dir
// is not an error.
func (a *App) copyStatic(out string) error {
	src := a.Config.StaticDir
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	a.Logger.Debug("copying static files", zap.String("from", src), zap.String("to", out))
	if err := copy.Copy(src, out); err != nil {
		return fmt.Errorf("copy static files: %w", err)
	}
	return nil
}

// writeAssets writes the embedded stylesheet and script to out/assets along
// with the chroma stylesheet.
func (a *App) writeAssets(out string) error {
	assets := filepath.Join(out, "assets")
	err := fs.WalkDir(assetsFS(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(assetsFS(), p)
		if err != nil {
			return err
		}
		return writeFile(filepath.Join(assets, filepath.FromSlash(p)), data)
	})
	if err != nil {
		return fmt.Errorf("write assets: %w", err)
	}

	var css bytes.Buffer
	if err := a.Renderer.WriteCSS(&css); err != nil {
		return err
	}
	return writeFile(filepath.Join(out, "chroma.css"), css.Bytes())
}

type pageFile struct {
	rel string
	cmp templ.Component
}

// writePages renders every page of the site and reports how many were written.
func (a *App) writePages(ctx context.Context, ds *dataset.Dataset, out string) (int, error) {
	pages := []pageFile{
		{"index.html", a.homeView(ds)},
		{"blog/index.html", a.blogView(ds)},
		{"tags/index.html", a.tagsView(ds)},
		{"search/index.html", a.searchView(ds, "")},
		{"404.html", a.notFoundView()},
	}
	for _, p := range ds.All() {
		pages = append(pages, pageFile{"blog/" + p.SlugAsParams + "/index.html", a.postView(ds, p)})
	}
	for _, tag := range ds.Tags() {
		if !safeSegment(tag) {
			a.Logger.Warn("skip tag page", zap.String("tag", tag))
			continue
		}
		cmp, _ := a.tagView(ds, tag)
		pages = append(pages, pageFile{"tags/" + tag + "/index.html", cmp})
	}
	for _, year := range ds.Years() {
		cmp, _ := a.yearView(ds, year)
		pages = append(pages, pageFile{"years/" + year + "/index.html", cmp})
	}
	for _, slug := range ds.SeriesSlugs() {
		if !safeSegment(slug) {
			a.Logger.Warn("skip series page", zap.String("series", slug))
			continue
		}
		cmp, _ := a.seriesView(ds, slug)
		pages = append(pages, pageFile{"series/" + slug + "/index.html", cmp})
	}

	for i, pf := range pages {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		path, err := outPath(out, pf.rel)
		if err != nil {
			return i, err
		}
		if err := RenderFile(ctx, path, pf.cmp); err != nil {
			return i, err
		}
	}
	return len(pages), nil
}

func (a *App) writeFeeds(ds *dataset.Dataset, out string) error {
	rss, err := a.rssFeed(ds.All())
	if err != nil {
		return fmt.Errorf("rss feed: %w", err)
	}
	atom, err := a.atomFeed(ds.All())
	if err != nil {
		return fmt.Errorf("atom feed: %w", err)
	}
	sitemap, err := a.sitemap(ds)
	if err != nil {
		return fmt.Errorf("sitemap: %w", err)
	}
	search, err := searchIndex(ds)
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}

	files := map[string][]byte{
		"feed.xml":    rss,
		"atom.xml":    atom,
		"sitemap.xml": sitemap,
		"search.json": search,
	}
	// A robots.txt in the static dir has already been copied and wins.
	if _, err := os.Stat(filepath.Join(a.Config.StaticDir, "robots.txt")); os.IsNotExist(err) {
		files["robots.txt"] = a.robotsTxt()
	}
	for name, data := range files {
		if err := writeFile(filepath.Join(out, name), data); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
