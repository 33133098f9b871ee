package proxy

import (
	"bytes"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"

	"github.com/foodgram-ops/foodgate/pkg/defaults"
	apperrors "github.com/foodgram-ops/foodgate/pkg/errors"
	"github.com/foodgram-ops/foodgate/pkg/static"
)

// Proxy forwards requests to a fixed upstream, preserving the inbound Host
// header and attaching forwarded-client headers the way the deployment's
// nginx gateway did:
//
//	proxy_set_header Host $host;
//	proxy_set_header X-Real-IP $remote_addr;
//	proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
//	proxy_set_header X-Forwarded-Proto $scheme;
//
// Upstream server errors (500/502/503/504) and dial failures are replaced
// by the configured error page, status preserved.
type Proxy struct {
	target    *url.URL
	rp        *httputil.ReverseProxy
	errorPage *static.ErrorPage
	onError   func(status int)
}

// Option configures a Proxy.
type Option func(*Proxy)

// WithErrorPage sets the error page used for upstream server errors.
func WithErrorPage(page *static.ErrorPage) Option {
	return func(p *Proxy) {
		p.errorPage = page
	}
}

// WithErrorObserver registers a callback invoked with the status code of
// every upstream server error the proxy replaces or synthesizes.
func WithErrorObserver(fn func(status int)) Option {
	return func(p *Proxy) {
		p.onError = fn
	}
}

// WithTransport overrides the upstream transport. Used in tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(p *Proxy) {
		p.rp.Transport = rt
	}
}

// New creates a Proxy forwarding to the given upstream base URL.
func New(upstream string, opts ...Option) (*Proxy, error) {
	target, err := url.Parse(upstream)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
			"invalid upstream URL", err, map[string]any{"upstream": upstream})
	}

	p := &Proxy{
		target: target,
		rp: &httputil.ReverseProxy{
			Transport: defaultTransport(),
		},
	}

	p.rp.Rewrite = p.rewrite
	p.rp.ModifyResponse = p.modifyResponse
	p.rp.ErrorHandler = p.handleError

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Target returns the upstream base URL.
func (p *Proxy) Target() string {
	return p.target.String()
}

// ServeHTTP implements http.Handler.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.rp.ServeHTTP(w, r)
}

func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	pr.SetURL(p.target)

	// nginx forwards the original Host, not the upstream's.
	pr.Out.Host = pr.In.Host

	// SetXForwarded ignores the inbound X-Forwarded-For and only appends
	// to the outbound header, so carry the chain over first. This gives
	// $proxy_add_x_forwarded_for: prior chain, then the client IP.
	if prior := pr.In.Header.Values("X-Forwarded-For"); len(prior) > 0 {
		pr.Out.Header["X-Forwarded-For"] = prior
	}
	pr.SetXForwarded()

	if ip, _, err := net.SplitHostPort(pr.In.RemoteAddr); err == nil {
		pr.Out.Header.Set("X-Real-IP", ip)
	}
}

func (p *Proxy) modifyResponse(resp *http.Response) error {
	if p.errorPage == nil || !p.errorPage.Covers(resp.StatusCode) {
		return nil
	}

	slog.Debug("replacing upstream error response",
		"status", resp.StatusCode,
		"upstream", p.target.Host,
	)

	if p.onError != nil {
		p.onError(resp.StatusCode)
	}

	body := p.errorPage.Content()
	if resp.Body != nil {
		_ = resp.Body.Close()
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	return nil
}

// handleError runs when the upstream cannot be reached at all. nginx maps
// this to 502 and serves the error page.
func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("upstream request failed",
		"error", err,
		"upstream", p.target.Host,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if p.onError != nil {
		p.onError(http.StatusBadGateway)
	}

	if p.errorPage != nil {
		p.errorPage.Serve(w, http.StatusBadGateway)
		return
	}
	http.Error(w, "bad gateway", http.StatusBadGateway)
}

// defaultTransport builds the upstream transport with pooled connections
// and the shared dial/response timeouts.
func defaultTransport() *http.Transport {
	return &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   defaults.UpstreamDialTimeout,
			KeepAlive: defaults.UpstreamKeepAlive,
		}).DialContext,
		ResponseHeaderTimeout: defaults.UpstreamResponseHeaderTimeout,
		IdleConnTimeout:       defaults.UpstreamIdleConnTimeout,
		TLSHandshakeTimeout:   defaults.UpstreamTLSHandshakeTimeout,
		MaxIdleConnsPerHost:   32,
		ForceAttemptHTTP2:     true,
	}
}
