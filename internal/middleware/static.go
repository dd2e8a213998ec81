package middleware

import (
	"net/http"
	"os"
	"path/filepath"
)

const placeholderHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Vendor Payments</title></head>
<body><h1>Vendor Payments</h1><p>Task pane assets are not deployed; the API is available under /api/v1.</p></body>
</html>`

// StaticFileServer serves the task pane assets from dir, falling back to a
// placeholder page when a file is missing so the pane never 404s.
func StaticFileServer(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			http.ServeFile(w, r, path)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err == nil {
			http.ServeFile(w, r, index)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(placeholderHTML))
	})
}
