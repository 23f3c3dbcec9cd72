package pubsite

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/dataset"
	"github.com/eringen/pubsite/views"
)

const jpegQuality = 80

// resizeImage decodes an image from src, shrinks it to maxWidth if it is wider
// and encodes it as JPEG.
func resizeImage(src io.Reader, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxWidth > 0 && w > maxWidth {
		newH := h * maxWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// thumbnail resizes the local thumbnail image of p found in the static dir.
func (a *App) thumbnail(p content.Post) ([]byte, error) {
	if !views.IsLocalThumbnail(p.Thumbnail) {
		return nil, fmt.Errorf("thumbnail %q of %s is not a local file", p.Thumbnail, p.Slug)
	}
	src, err := outPath(a.Config.StaticDir, p.Thumbnail)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return resizeImage(f, a.Config.ThumbnailWidth)
}

// postByThumbnail finds the post whose resized thumbnail is stored as file.
func postByThumbnail(ds *dataset.Dataset, file string) (content.Post, bool) {
	for _, p := range ds.All() {
		if p.ID+".jpg" == file && views.IsLocalThumbnail(p.Thumbnail) {
			return p, true
		}
	}
	return content.Post{}, false
}

// writeThumbnails writes a resized copy of every local thumbnail into
// out/thumbnails. Images that cannot be read are logged and skipped so one
// broken file does not fail the build.
func (a *App) writeThumbnails(ctx context.Context, ds *dataset.Dataset, out string) (int, error) {
	dir := filepath.Join(out, views.ThumbnailDir)
	n := 0
	for _, p := range ds.All() {
		if !views.IsLocalThumbnail(p.Thumbnail) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		data, err := a.thumbnail(p)
		if err != nil {
			a.Logger.Warn("skip thumbnail", zap.String("post", p.Slug), zap.Error(err))
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return n, err
		}
		if err := os.WriteFile(filepath.Join(dir, p.ID+".jpg"), data, 0o644); err != nil {
			return n, fmt.Errorf("write thumbnail: %w", err)
		}
		n++
	}
	return n, nil
}
