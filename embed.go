package pubsite

import (
	"embed"
	"io/fs"
	"net/http"
)

// EmbeddedAssets contains the stylesheet and scripts shipped with every site:
// site.css, and site.js (theme toggle, reading progress bar, search box).
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

func assetsFS() fs.FS {
	sub, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		panic(err)
	}
	return sub
}

func assetsHandler() http.Handler {
	return http.FileServer(http.FS(assetsFS()))
}
