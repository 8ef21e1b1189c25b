package server

import (
	"net/http"
	"os"
)

// fallbackIndex keeps the dashboard reachable when no template tree ships
// with the binary.
const fallbackIndex = `<!DOCTYPE html>
<html>
<head><title>Flexible Deploy Tool</title></head>
<body>
<h1>Flexible Deploy Tool</h1>
<p>Application is running successfully!</p>
<p><a href="/health">Health</a> &middot; <a href="/get-projects">Projects</a></p>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if page, err := os.ReadFile("templates/index.html"); err == nil {
		w.Write(page)
		return
	}
	w.Write([]byte(fallbackIndex))
}
