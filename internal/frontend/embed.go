package frontend

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// StaticFS returns the embedded form assets.
func StaticFS() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
