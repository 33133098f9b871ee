package route

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/foodgram-ops/foodgate/pkg/defaults"
	apperrors "github.com/foodgram-ops/foodgate/pkg/errors"
)

// Kind classifies what a routing rule does with a matched request.
type Kind string

const (
	// KindProxy forwards the request to an upstream service.
	KindProxy Kind = "proxy"
	// KindStatic serves files from a local root (nginx alias semantics:
	// the matched prefix is stripped before the filesystem lookup).
	KindStatic Kind = "static"
	// KindSPA serves files from a local root with a fallback file for
	// paths that do not resolve, the single-page-application pattern.
	KindSPA Kind = "spa"
)

// IsValid reports whether the kind is one of the supported values.
func (k Kind) IsValid() bool {
	switch k {
	case KindProxy, KindStatic, KindSPA:
		return true
	default:
		return false
	}
}

// SupportedKinds returns all valid rule kinds.
func SupportedKinds() []string {
	return []string{string(KindProxy), string(KindStatic), string(KindSPA)}
}

// Rule maps a URL path prefix to a behavior. Exactly one of Upstream or
// Root is used, depending on Kind.
type Rule struct {
	// Prefix is the URL path prefix this rule matches. Must start with "/".
	Prefix string `json:"prefix" yaml:"prefix"`

	// Kind selects proxy, static, or spa behavior.
	Kind Kind `json:"kind" yaml:"kind"`

	// Upstream is the base URL of the proxy target (e.g. "http://backend:9090").
	// Required for KindProxy; for KindSPA it is the optional fallback target
	// used when the root has no fallback file.
	Upstream string `json:"upstream,omitempty" yaml:"upstream,omitempty"`

	// Root is the local filesystem directory for static and spa rules.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`

	// Fallback is the file served (relative to Root) when the requested
	// path does not resolve to a file. For the docs rule this is
	// "redoc.html"; for the SPA rule "index.html".
	Fallback string `json:"fallback,omitempty" yaml:"fallback,omitempty"`

	// MaxBodyBytes caps the request body size for this rule. Zero means
	// no per-rule cap.
	MaxBodyBytes int64 `json:"maxBodyBytes,omitempty" yaml:"maxBodyBytes,omitempty"`
}

// Validate checks that the rule is internally consistent.
func (r *Rule) Validate() error {
	if !strings.HasPrefix(r.Prefix, "/") {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"rule prefix must start with /", map[string]any{"prefix": r.Prefix})
	}
	if !r.Kind.IsValid() {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown rule kind, supported: %v", SupportedKinds()),
			map[string]any{"prefix": r.Prefix, "kind": string(r.Kind)})
	}

	switch r.Kind {
	case KindProxy:
		if r.Upstream == "" {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"proxy rule requires an upstream", map[string]any{"prefix": r.Prefix})
		}
	case KindStatic, KindSPA:
		if r.Root == "" {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"static rule requires a root directory", map[string]any{"prefix": r.Prefix})
		}
	}

	if r.Upstream != "" {
		u, err := url.Parse(r.Upstream)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"upstream must be an absolute URL", map[string]any{
					"prefix":   r.Prefix,
					"upstream": r.Upstream,
				})
		}
	}

	if r.MaxBodyBytes < 0 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"maxBodyBytes must not be negative", map[string]any{"prefix": r.Prefix})
	}

	return nil
}

// Table is an ordered routing table. Lookup is longest-prefix match, so
// "/api/docs/" wins over "/api/" regardless of declaration order.
type Table struct {
	rules []Rule
}

// NewTable builds a routing table from rules, validating each one.
// Rules are kept sorted by descending prefix length.
func NewTable(rules []Rule) (*Table, error) {
	if len(rules) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "routing table is empty")
	}

	seen := make(map[string]bool, len(rules))
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)

	for i := range sorted {
		if err := sorted[i].Validate(); err != nil {
			return nil, err
		}
		if seen[sorted[i].Prefix] {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"duplicate rule prefix", map[string]any{"prefix": sorted[i].Prefix})
		}
		seen[sorted[i].Prefix] = true
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})

	return &Table{rules: sorted}, nil
}

// Match returns the most specific rule whose prefix matches path.
func (t *Table) Match(path string) (*Rule, bool) {
	for i := range t.rules {
		if strings.HasPrefix(path, t.rules[i].Prefix) {
			return &t.rules[i], true
		}
	}
	return nil, false
}

// Rules returns the rules in match order (most specific first).
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len returns the number of rules in the table.
func (t *Table) Len() int {
	return len(t.rules)
}

// Default returns the Foodgram deployment routing table: API docs, the
// backend API and admin, uploaded media, and the SPA frontend.
func Default(upstream, staticRoot, mediaRoot, docsRoot string) (*Table, error) {
	return NewTable([]Rule{
		{
			Prefix:   "/api/docs/",
			Kind:     KindStatic,
			Root:     docsRoot,
			Fallback: "redoc.html",
		},
		{
			Prefix:       "/api/",
			Kind:         KindProxy,
			Upstream:     upstream,
			MaxBodyBytes: defaults.MaxUploadBytes,
		},
		{
			Prefix:   "/admin/",
			Kind:     KindProxy,
			Upstream: upstream,
		},
		{
			Prefix:       "/media/",
			Kind:         KindStatic,
			Root:         mediaRoot,
			MaxBodyBytes: defaults.MaxUploadBytes,
		},
		{
			Prefix:   "/",
			Kind:     KindSPA,
			Root:     staticRoot,
			Fallback: "index.html",
			Upstream: upstream,
		},
	})
}
