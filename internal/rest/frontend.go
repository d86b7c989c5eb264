package rest

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FrontendHandler serves the built single-page frontend: real files are
// served as-is, everything else falls back to index.html so client-side
// routing works.
type FrontendHandler struct {
	dir      string
	index    string
	fallback http.Handler
}

func NewFrontendHandler(dir string, index string) *FrontendHandler {
	return &FrontendHandler{
		dir:      dir,
		index:    index,
		fallback: http.FileServer(http.Dir(dir)),
	}
}

func (h *FrontendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.dir, filepath.Clean(strings.TrimPrefix(r.URL.Path, "/")))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		h.fallback.ServeHTTP(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.dir, h.index))
}
