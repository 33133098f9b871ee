// Package static serves the gateway's local file trees: the SPA frontend
// build, uploaded media, the API docs, and the custom error page.
package static
