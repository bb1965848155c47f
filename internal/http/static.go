package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// staticFallback serves files from root for GET and HEAD requests no route
// matched, so the frontend keeps working from the site root. Directories
// and missing files fall through to a JSON 404.
func staticFallback(root string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			// Cleaning against "/" keeps the lookup inside root.
			name := filepath.Join(root, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
			if f, err := os.Open(name); err == nil {
				defer f.Close()
				if info, err := f.Stat(); err == nil && !info.IsDir() {
					http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
					return
				}
			}
		}
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	}
}
