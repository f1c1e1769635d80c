// internal/session/session_test.go

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEnsureFormID_IssuesAndReuses(t *testing.T) {
	rr := httptest.NewRecorder()
	id := EnsureFormID(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if id == "" {
		t.Fatalf("no id issued")
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != id || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rr2 := httptest.NewRecorder()
	if got := EnsureFormID(rr2, req); got != id {
		t.Fatalf("id = %q, want %q", got, id)
	}
	if len(rr2.Result().Cookies()) != 0 {
		t.Fatalf("cookie re-issued for known id")
	}
}

func TestFormID_RejectsGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "../../etc"})
	if FormID(req) != "" {
		t.Fatalf("malformed id accepted")
	}
}
