// Package scaffold provides the embedded starter site written by
// `pubsite new`.
package scaffold

import "embed"

// Templates contains the starter config, a sample post and the static dir.
// Files use Go text/template syntax and have a .tmpl suffix; path segments
// named _year_ are replaced by the current year.
//
//go:embed all:templates
var Templates embed.FS
