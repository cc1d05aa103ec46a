package frontend

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the embedded input form. The form bootstraps itself from
// the schema endpoint, so its controls always carry the schema's bounds and
// defaults; no out-of-range value can be submitted from the UI.
func Handler(staticFS fs.FS) gin.HandlerFunc {
	fileServer := http.FileServer(http.FS(staticFS))

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/" {
			c.Request.URL.Path = "/index.html"
		}
		c.Header("Cache-Control", "no-cache")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
