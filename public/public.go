package public

import (
	"embed"
	"io/fs"
)

//go:embed assets/*.js assets/*.css
var Files embed.FS

// Assets returns the asset files rooted at assets/, for copying into a
// static build output.
func Assets() (fs.FS, error) {
	return fs.Sub(Files, "assets")
}
