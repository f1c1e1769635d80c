// components/kanban/kanban_test.go
//
// HTTP tests for the kanban component.
//
// Context
// -------
// Each test builds a fresh board, coordinator, and component, mounts the
// routes under /board, and drives them with httptest.  A form session is
// opened through GET …/cards/new and its cookie is replayed on posts.  The
// CSRF token comes from the same Tokens instance the component uses.

package kanban

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/kanban/internal/board"
	"github.com/yanizio/kanban/internal/form"
)

type harness struct {
	t      *testing.T
	store  *board.Store
	tokens *form.Tokens
	router http.Handler
	cookie *http.Cookie
}

func newHarness(t *testing.T, scope form.VerifyScope, opts ...board.Option) *harness {
	t.Helper()
	log := zap.NewNop().Sugar()
	store := board.New([]board.Table{
		{Title: "Todo", Cards: []board.Card{{Title: "Existing"}}},
		{Title: "Done"},
	}, opts...)
	key := base64.RawURLEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	tokens := form.NewTokens(key, 0)

	c := New(Deps{
		Store:       store,
		Coordinator: form.NewCoordinator(store, scope, log),
		Tokens:      tokens,
		Log:         log,
	})
	r := chi.NewRouter()
	r.Mount("/"+c.Name(), c.Routes())

	return &harness{t: t, store: store, tokens: tokens, router: r}
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

func (h *harness) openForm(table string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/board/tables/"+table+"/cards/new", nil)
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	rr := h.do(req)
	for _, c := range rr.Result().Cookies() {
		if c.Name == "cards_form" {
			h.cookie = c
		}
	}
	return rr
}

func (h *harness) post(path string, vals url.Values, asJSON bool) *httptest.ResponseRecorder {
	if vals.Get("csrf_token") == "" {
		tok, err := h.tokens.Generate()
		require.NoError(h.t, err)
		vals.Set("csrf_token", tok)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if asJSON {
		req.Header.Set("Accept", "application/json")
	}
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	return h.do(req)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestTables_JSON(t *testing.T) {
	h := newHarness(t, form.ScopeTarget)
	rr := h.do(httptest.NewRequest(http.MethodGet, "/board/tables", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	snap := decode[board.Snapshot](t, rr)
	require.Len(t, snap.Tables, 2)
	require.Equal(t, "Existing", snap.Tables[0].Cards[0].Title)
}

func TestNewCard_RendersForm(t *testing.T) {
	h := newHarness(t, form.ScopeTarget)
	rr := h.openForm("0")

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, h.cookie, "form session cookie not issued")
	body := rr.Body.String()
	require.Contains(t, body, `<form class="card-form"`)
	require.Contains(t, body, `placeholder="Completed Tasks"`)
	require.Contains(t, body, `<li class="card">Existing</li>`)
}

func TestNewCard_UnknownTable(t *testing.T) {
	h := newHarness(t, form.ScopeTarget)
	require.Equal(t, http.StatusNotFound, h.openForm("7").Code)
	require.Equal(t, http.StatusNotFound, h.openForm("x").Code)
}

func TestValidate_BlurShowsError(t *testing.T) {
	h := newHarness(t, form.ScopeTarget)
	h.openForm("0")

	rr := h.post("/board/tables/0/cards/validate", url.Values{
		"cardName": {"Tasks!"},
		"event":    {"blur"},
	}, true)
	require.Equal(t, http.StatusOK, rr.Code)

	v := decode[form.View](t, rr)
	require.True(t, v.ShowError)
	require.Equal(t, form.MsgNameInvalidChars, v.Error)
	require.False(t, v.CanSubmit)
}

func TestValidate_ChangeOpensGate(t *testing.T) {
	h := newHarness(t, form.ScopeTarget)
	h.openForm("0")

	rr := h.post("/board/tables/0/cards/validate", url.Values{"cardName": {"Completed Tasks"}}, true)
	v := decode[form.View](t, rr)
	require.True(t, v.CanSubmit)
	require.False(t, v.Touched)
}

func TestSubmit_SuccessJSON(t *testing.T) {
	h := newHarness(t, form.ScopeTarget)
	h.openForm("0")

	rr := h.post("/board/tables/0/cards", url.Values{"cardName": {"Completed Tasks"}}, true)
	require.Equal(t, http.StatusCreated, rr.Code)

	resp := decode[submitResponse](t, rr)
	require.Equal(t, "success", resp.Outcome)
	require.False(t, resp.Form.Visible)
	require.Empty(t, resp.Form.Value)

	last, ok := h.store.Snapshot().LastCard(0)
	require.True(t, ok)
	require.Equal(t, "Completed Tasks", last.Title)

	// Re-opening the same session's form shows it in its initial state.
	page := h.openForm("0").Body.String()
	require.Contains(t, page, `<form class="card-form"`)
	require.Contains(t, page, `value=""`)
	require.NotContains(t, page, "form-error")
}

func TestSubmit_SuccessHTMLRedirects(t *testing.T) {
	h := newHarness(t, form.ScopeTarget)
	h.openForm("1")

	rr := h.post("/board/tables/1/cards", url.Values{"cardName": {"Shipped"}}, false)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/board/tables/1", rr.Header().Get("Location"))

	// The table page now shows the toggle instead of the form.
	req := httptest.NewRequest(http.MethodGet, "/board/tables/1", nil)
	req.AddCookie(h.cookie)
	page := h.do(req).Body.String()
	require.Contains(t, page, `class="card-form-toggle"`)
	require.Contains(t, page, `<li class="card">Shipped</li>`)
}

func TestSubmit_EmptyIsBlocked(t *testing.T) {
	h := newHarness(t, form.ScopeTarget)
	h.openForm("0")
	before := h.store.Snapshot().Revision

	rr := h.post("/board/tables/0/cards", url.Values{"cardName": {""}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	resp := decode[submitResponse](t, rr)
	require.Equal(t, "failure", resp.Outcome)
	require.Equal(t, form.MsgNameRequired, resp.Form.Error)
	require.True(t, resp.Form.Visible)
	require.Equal(t, before, h.store.Snapshot().Revision, "blocked submit reached the store")
}

func TestSubmit_UnconfirmedKeepsInput(t *testing.T) {
	noop := func(tables []board.Table, _ board.CreateCard) ([]board.Table, error) { return tables, nil }
	h := newHarness(t, form.ScopeTarget, board.WithReducer(noop))
	h.openForm("0")

	rr := h.post("/board/tables/0/cards", url.Values{"cardName": {"Completed Tasks"}}, false)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), `value="Completed Tasks"`)
	require.Contains(t, rr.Body.String(), `<form class="card-form"`)
}

// With the historical last-table check, a card added to the first table is
// created but reported as unconfirmed.
func TestSubmit_ScopeLastOnFirstTable(t *testing.T) {
	h := newHarness(t, form.ScopeLast)
	h.openForm("0")

	rr := h.post("/board/tables/0/cards", url.Values{"cardName": {"Completed Tasks"}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	last, _ := h.store.Snapshot().LastCard(0)
	require.Equal(t, "Completed Tasks", last.Title)
}

func TestSubmit_BadCSRF(t *testing.T) {
	h := newHarness(t, form.ScopeTarget)
	h.openForm("0")

	rr := h.post("/board/tables/0/cards", url.Values{
		"cardName":   {"Completed Tasks"},
		"csrf_token": {"forged"},
	}, true)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Equal(t, uint64(0), h.store.Snapshot().Revision)
}

func TestSubmit_FormNotOpen(t *testing.T) {
	h := newHarness(t, form.ScopeTarget)

	rr := h.post("/board/tables/0/cards", url.Values{"cardName": {"Completed Tasks"}}, true)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSubmit_HiddenFormConflict(t *testing.T) {
	h := newHarness(t, form.ScopeTarget)
	h.openForm("0")

	rr := h.post("/board/tables/0/cards", url.Values{"cardName": {"First"}}, true)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = h.post("/board/tables/0/cards", url.Values{"cardName": {"Second"}}, true)
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, uint64(1), h.store.Snapshot().Revision)

	view := decode[submitResponse](t, rr).Form
	require.False(t, view.Visible)
	require.Empty(t, view.Value)
	require.False(t, view.CanSubmit)
}

func TestValidate_HiddenFormKeepsResetState(t *testing.T) {
	h := newHarness(t, form.ScopeTarget)
	h.openForm("0")

	rr := h.post("/board/tables/0/cards", url.Values{"cardName": {"First"}}, true)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = h.post("/board/tables/0/cards/validate", url.Values{
		"cardName": {"Typed!"},
		"event":    {"blur"},
	}, true)
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = h.openForm("0")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	require.Contains(t, body, `value=""`)
	require.NotContains(t, body, "Typed!")
	require.NotContains(t, body, form.MsgNameInvalidChars)
}
