// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"
)

// ForceHTTPS wraps h.  When enabled and the request is plain HTTP from a
// host other than localhost, it issues a 308 to the HTTPS URL.  A
// TLS-terminating proxy is recognised by X-Forwarded-Proto.
func ForceHTTPS(enabled bool, h http.Handler) http.Handler {
	if !enabled {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS != nil ||
			strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") ||
			stripPort(r.Host) == "localhost" {
			h.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, "https://"+r.Host+r.URL.RequestURI(), http.StatusPermanentRedirect)
	})
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
