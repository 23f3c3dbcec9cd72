package content

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/eringen/pubsite/markdown"
)

// DefaultExtensions are the file extensions DirSource picks up.
var DefaultExtensions = []string{".md", ".mdx"}

// DirSource loads posts from a directory tree such as content/blog/2023/react/hooks.mdx.
// The first path segment under Root becomes the first slug segment ("blog").
type DirSource struct {
	Root          string
	Extensions    []string
	IncludeDrafts bool
	Renderer      *markdown.Renderer
	Logger        *zap.Logger
}

// LoadPosts walks Root in lexical order. Any file that fails to parse fails
// the whole load.
func (d DirSource) LoadPosts(ctx context.Context) ([]Post, error) {
	exts := d.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	r := d.Renderer
	if r == nil {
		r = markdown.NewRenderer("github")
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var posts []Post
	err := filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if path != d.Root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		post, err := NewPost(d.Root, path, raw, r)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if post.Draft && !d.IncludeDrafts {
			logger.Debug("skipping draft", zap.String("path", path))
			return nil
		}
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load content from %s: %w", d.Root, err)
	}

	logger.Info("loaded content", zap.String("root", d.Root), zap.Int("posts", len(posts)))
	return posts, nil
}
