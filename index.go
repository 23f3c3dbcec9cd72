package pubsite

import (
	"context"

	"go.uber.org/zap"

	"github.com/eringen/pubsite/content"
)

// IndexContent renders every post of the content dir and replaces the
// contents of store with them. It returns the number of posts indexed.
func (a *App) IndexContent(ctx context.Context, store *Store) (int, error) {
	src := content.DirSource{
		Root:          a.Config.ContentDir,
		IncludeDrafts: a.Config.IncludeDrafts,
		Renderer:      a.Renderer,
		Logger:        a.Logger,
	}
	posts, err := src.LoadPosts(ctx)
	if err != nil {
		return 0, err
	}
	if err := store.ReplaceAll(ctx, posts); err != nil {
		return 0, err
	}
	a.Logger.Info("content indexed", zap.Int("posts", len(posts)))
	return len(posts), nil
}
