package pubsite

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubsite/content"
)

// testSite is a small site used by the handler and build tests.
//
//	blog/2024/go/channels   2024-01-15  go, concurrency  thumbnail
//	blog/2023/react/state   2023-05-01  react, 프론트엔드  series
//	blog/2023/react/hooks   2023-03-01  react            series
//	blog/2022/me/draft      draft
var testPosts = map[string]string{
	"blog/2024/go/channels.md": `---
title: Channels
date: 2024-01-15
description: Talking between goroutines.
tags: [go, concurrency]
thumbnail: /images/gopher.png
---

## Unbuffered

Sends block until received.

` + "```go\nch := make(chan int)\n```\n",
	"blog/2023/react/state.mdx": `---
title: State
date: 2023-05-01
description: Component state.
tags: [react, 프론트엔드]
isSeries: true
---

State lives in components.
`,
	"blog/2023/react/hooks.md": `---
title: Hooks
date: 2023-03-01
description: Using hooks.
tags: [react]
isSeries: true
---

Hooks & effects.
`,
	"blog/2022/me/draft.md": `---
title: Draft
date: 2022-06-01
draft: true
---

Not yet.
`,
}

func writeTestFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// newTestConfig writes the test site into a temp dir and returns its config.
func newTestConfig(t *testing.T) SiteConfig {
	t.Helper()
	root := t.TempDir()
	for rel, body := range testPosts {
		writeTestFile(t, filepath.Join(root, "content", filepath.FromSlash(rel)), []byte(body))
	}
	writeTestPNG(t, filepath.Join(root, "static", "images", "gopher.png"), 100, 50)
	writeTestFile(t, filepath.Join(root, "static", "favicon.ico"), []byte("icon"))
	writeTestFile(t, filepath.Join(root, "static", "about", "index.html"), []byte("<p>about me</p>"))

	return SiteConfig{
		Name:                "Test Blog",
		URL:                 "https://example.com",
		Description:         "A test blog",
		Author:              "Tester",
		ContentDir:          filepath.Join(root, "content"),
		StaticDir:           filepath.Join(root, "static"),
		OutDir:              filepath.Join(root, "out"),
		IndexPath:           filepath.Join(root, "data", "content.db"),
		ThumbnailCategories: []string{"go"},
		ThumbnailWidth:      40,
	}
}

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	return New(newTestConfig(t), opts...)
}

func TestBuildRejectsPostOutsideBlog(t *testing.T) {
	cfg := newTestConfig(t)
	stray := filepath.Join(cfg.ContentDir, "notes", "stray.md")
	writeTestFile(t, stray, []byte("---\ntitle: Stray\ndate: 2024-01-01\n---\n\nLost.\n"))
	a := New(cfg)

	_, err := a.Build(context.Background(), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, content.ErrOutsideBlog)
	assert.Contains(t, err.Error(), stray)
	assert.NoFileExists(t, filepath.Join(cfg.OutDir, "notes", "stray", "index.html"))
}
