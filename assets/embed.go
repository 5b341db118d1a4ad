// Package assets embeds the web gallery served at the site root.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFiles embed.FS

// Static returns the gallery frontend with the static/ prefix stripped, so
// index.html sits at the root of the returned filesystem.
func Static() (fs.FS, error) {
	return fs.Sub(staticFiles, "static")
}
