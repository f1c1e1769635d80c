// internal/session/session.go
//
// Form session cookie.
//
// Context
//   Each browser gets one opaque form session id in the "cards_form"
//   cookie.  The HTTP binding keys live CardForm instances by that id plus
//   the table index, so reloads and per-keystroke validation posts reach
//   the same form state.  The id carries no user data.
//
//------------------------------------------------------------------------------

package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	cookieName = "cards_form"
	cookieTTL  = 12 * time.Hour
)

// NewFormID returns a fresh random id.
func NewFormID() string { return uuid.NewString() }

// FormID returns the id from r, or "" when absent or malformed.
func FormID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// EnsureFormID returns the request's id, issuing a new cookie when needed.
func EnsureFormID(w http.ResponseWriter, r *http.Request) string {
	if id := FormID(r); id != "" {
		return id
	}
	id := NewFormID()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(cookieTTL),
	})
	return id
}
