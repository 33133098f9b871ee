package static

import (
	"net/http"
	"os"
)

// builtinErrorPage is served when no custom 50x page is configured or the
// configured file is unreadable.
const builtinErrorPage = `<!doctype html>
<html>
<head><title>Service temporarily unavailable</title></head>
<body>
<h1>Service temporarily unavailable</h1>
<p>The server is temporarily unable to handle the request. Please try again later.</p>
</body>
</html>
`

// ErrorPage renders the gateway error page for upstream server errors,
// mirroring nginx's error_page 500 502 503 504 /50x.html.
type ErrorPage struct {
	// Path is the location of the custom error page file. Optional.
	Path string
}

// Covers reports whether the status code is one the error page replaces.
func (p *ErrorPage) Covers(status int) bool {
	switch status {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// Content returns the error page body: the configured file when readable,
// the built-in page otherwise.
func (p *ErrorPage) Content() []byte {
	if p.Path != "" {
		if content, err := os.ReadFile(p.Path); err == nil {
			return content
		}
	}
	return []byte(builtinErrorPage)
}

// Serve writes the error page with the given status code. The upstream's
// status is preserved; only the body is replaced.
func (p *ErrorPage) Serve(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Del("Content-Length")
	w.WriteHeader(status)
	_, _ = w.Write(p.Content())
}
