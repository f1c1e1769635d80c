// internal/middleware/middleware_test.go
//
// Unit-tests for the HTTP wrappers.
//
//   • Security headers present before the handler writes
//   • ForceHTTPS redirects plain HTTP, skips localhost and proxied HTTPS
//   • AccessLog passes the response through untouched

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestSecurity_HeadersSet(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	rr := httptest.NewRecorder()
	Security(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options"} {
		if rr.Header().Get(h) == "" {
			t.Fatalf("header %s missing", h)
		}
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS set on plain HTTP")
	}
}

func TestForceHTTPS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	cases := []struct {
		name    string
		enabled bool
		host    string
		proto   string
		want    int
	}{
		{"disabled", false, "cards.example.com", "", http.StatusOK},
		{"redirect", true, "cards.example.com", "", http.StatusPermanentRedirect},
		{"localhost", true, "localhost:8080", "", http.StatusOK},
		{"proxied https", true, "cards.example.com", "https", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tables", nil)
			req.Host = tc.host
			if tc.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tc.proto)
			}
			rr := httptest.NewRecorder()
			ForceHTTPS(tc.enabled, ok).ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestAccessLog_PassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	rr := httptest.NewRecorder()
	AccessLog(zap.NewNop().Sugar())(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rr.Code)
	}
}
