// Package route defines the gateway routing table: an ordered set of
// path-prefix rules mapping requests to an upstream proxy, a static file
// tree, or a single-page-application tree with fallback.
//
// Matching follows nginx location semantics: the longest matching prefix
// wins, independent of declaration order.
package route
