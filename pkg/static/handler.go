package static

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Handler serves a local file tree under a URL prefix with nginx alias
// semantics: the matched prefix is stripped before the filesystem lookup.
// Requests that do not resolve to a regular file are served the configured
// fallback file, handed to the NotFound handler, or answered with 404, in
// that order of preference.
type Handler struct {
	// Prefix is the URL prefix stripped from request paths.
	Prefix string
	// Root is the filesystem directory to serve from.
	Root string
	// Fallback is a file relative to Root served when the request path
	// does not resolve (e.g. "index.html", "redoc.html"). Optional.
	Fallback string
	// NotFound handles requests that neither resolve nor have a usable
	// fallback. Optional; plain 404 when nil.
	NotFound http.Handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if full, ok := h.resolve(r.URL.Path); ok {
		http.ServeFile(w, r, full)
		return
	}

	if h.Fallback != "" {
		fallback := filepath.Join(h.Root, filepath.FromSlash(h.Fallback))
		if isRegularFile(fallback) {
			http.ServeFile(w, r, fallback)
			return
		}
	}

	if h.NotFound != nil {
		h.NotFound.ServeHTTP(w, r)
		return
	}

	http.NotFound(w, r)
}

// resolve maps a request path to a regular file under Root.
// Returns false for directories, missing files, and traversal attempts.
func (h *Handler) resolve(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(urlPath, h.Prefix)

	// Clean relative to "/" so ".." segments cannot escape the root.
	clean := path.Clean("/" + rel)
	full := filepath.Join(h.Root, filepath.FromSlash(clean))

	if !isRegularFile(full) {
		return "", false
	}
	return full, true
}

func isRegularFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
