// Package proxy implements the reverse proxy half of the gateway: requests
// matched to a proxy rule are forwarded to the backend upstream with the
// original Host and forwarded-client headers, and upstream server errors
// are replaced by the gateway error page.
package proxy
