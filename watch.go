package pubsite

import (
	"context"
	"time"

	"github.com/radovskyb/watcher"
	"go.uber.org/zap"
)

// WatchContent polls dir recursively every interval and calls onChange after
// each batch of file changes, until ctx is done. A ctx that is already done
// returns nil once the watcher has started and stopped.
func WatchContent(ctx context.Context, dir string, interval time.Duration, logger *zap.Logger, onChange func()) error {
	if interval <= 0 {
		return watcher.ErrDurationTooShort
	}

	w := watcher.New()
	w.SetMaxEvents(1)

	if err := w.AddRecursive(dir); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case ev := <-w.Event:
				logger.Debug("content changed", zap.String("path", ev.Path), zap.String("op", ev.Op.String()))
				onChange()
			case err := <-w.Error:
				logger.Warn("watch content", zap.Error(err))
			case <-w.Closed:
				return
			case <-done:
				return
			}
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			w.Wait()
			w.Close()
		case <-done:
		}
	}()

	logger.Info("watching content", zap.String("dir", dir))
	return w.Start(interval)
}

// Watch invalidates the preview cache whenever the content dir changes.
func (a *App) Watch(ctx context.Context) error {
	return WatchContent(ctx, a.Config.ContentDir, 500*time.Millisecond, a.Logger, func() {
		a.Cache.Invalidate()
		a.Logger.Info("content reloaded")
	})
}
