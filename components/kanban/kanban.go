// components/kanban/kanban.go
//
// Kanban component – board pages and the new-card form binding.
//
// Context
//   This is the thin HTTP layer over internal/form.  It never decides
//   validity or success itself; it forwards events to the live CardForm and
//   renders whatever View comes back.
//
// Routes (mounted under /board)
//   GET  /tables                         JSON board snapshot
//   GET  /tables/{index}                 table page with this session's form
//   GET  /tables/{index}/cards/new       open or re-show the form
//   POST /tables/{index}/cards/validate  per-keystroke / blur validation
//   POST /tables/{index}/cards           submit
//
//------------------------------------------------------------------------------

package kanban

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/kanban/internal/board"
	"github.com/yanizio/kanban/internal/component"
	"github.com/yanizio/kanban/internal/form"
	"github.com/yanizio/kanban/internal/session"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Deps are the collaborators the component needs.
type Deps struct {
	Store        *board.Store
	Coordinator  *form.Coordinator
	Definition   *form.Definition
	Tokens       *form.Tokens
	MaxLiveForms int
	Log          *zap.SugaredLogger
}

// Component serves the board and its card forms.
type Component struct {
	store  *board.Store
	def    *form.Definition
	tokens *form.Tokens
	forms  *forms
	log    *zap.SugaredLogger
}

// New builds the component.
func New(d Deps) *Component {
	if d.Definition == nil {
		d.Definition = form.DefaultDefinition()
	}
	if d.MaxLiveForms < 1 {
		d.MaxLiveForms = 1024
	}
	if d.Log == nil {
		d.Log = zap.S()
	}
	return &Component{
		store:  d.Store,
		def:    d.Definition,
		tokens: d.Tokens,
		forms:  newForms(d.MaxLiveForms, d.Coordinator, d.Log),
		log:    d.Log,
	}
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key and mount prefix.
func (c *Component) Name() string { return "board" }

// Routes builds the router mounted at “/board”.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/tables", c.handleTables)
	r.Route("/tables/{index}", func(r chi.Router) {
		r.Get("/", c.handleTablePage)
		r.Get("/cards/new", c.handleNewCard)
		r.Post("/cards/validate", c.handleValidate)
		r.Post("/cards", c.handleSubmit)
	})
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleTables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, c.store.Snapshot())
}

func (c *Component) handleTablePage(w http.ResponseWriter, r *http.Request) {
	idx, ok := c.tableIndex(w, r)
	if !ok {
		return
	}
	view := form.View{TableIndex: idx}
	if f, ok := c.forms.get(session.FormID(r), idx); ok {
		view = f.View()
	}
	c.renderPage(w, r, http.StatusOK, idx, view)
}

// handleNewCard is the caller-owned Hidden → Visible toggle.
func (c *Component) handleNewCard(w http.ResponseWriter, r *http.Request) {
	idx, ok := c.tableIndex(w, r)
	if !ok {
		return
	}
	id := session.EnsureFormID(w, r)
	f := c.forms.open(id, idx)
	c.renderPage(w, r, http.StatusOK, idx, f.View())
}

func (c *Component) handleValidate(w http.ResponseWriter, r *http.Request) {
	f, ok := c.postedForm(w, r)
	if !ok {
		return
	}

	f.Change(r.PostForm.Get(form.FieldCardName))
	if r.PostForm.Get("event") == "blur" {
		f.Blur()
	}
	view := f.View()
	status := http.StatusOK
	if !view.Visible {
		status = http.StatusConflict
	}
	writeJSON(w, status, view)
}

func (c *Component) handleSubmit(w http.ResponseWriter, r *http.Request) {
	f, ok := c.postedForm(w, r)
	if !ok {
		return
	}

	f.Change(r.PostForm.Get(form.FieldCardName))
	out, err := f.Submit(r.Context())
	status := submitStatus(out, err)

	if wantsJSON(r) {
		resp := submitResponse{Outcome: out.String(), Form: f.View()}
		if err != nil {
			resp.Error = err.Error()
		}
		writeJSON(w, status, resp)
		return
	}

	if out == form.Success {
		http.Redirect(w, r, tablePath(f.TableIndex()), http.StatusSeeOther)
		return
	}
	c.renderPage(w, r, status, f.TableIndex(), f.View())
}

type submitResponse struct {
	Outcome string    `json:"outcome"`
	Error   string    `json:"error,omitempty"`
	Form    form.View `json:"form"`
}

// submitStatus maps an outcome to an HTTP status.  Refusals that the user
// can fix by editing are 422; refusals caused by form state are 409.
func submitStatus(out form.Outcome, err error) int {
	switch {
	case out == form.Success:
		return http.StatusCreated
	case errors.Is(err, form.ErrSubmitInProgress), errors.Is(err, form.ErrFormHidden):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

/*──────────────────────────── Helpers ──────────────────────────────────────*/

// tableIndex parses {index} and checks it against the current board.
func (c *Component) tableIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || idx < 0 || idx >= len(c.store.Snapshot().Tables) {
		http.NotFound(w, r)
		return 0, false
	}
	return idx, true
}

// postedForm parses the body, checks CSRF, and finds the session's form.
func (c *Component) postedForm(w http.ResponseWriter, r *http.Request) (*form.CardForm, bool) {
	idx, ok := c.tableIndex(w, r)
	if !ok {
		return nil, false
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return nil, false
	}
	if !c.tokens.Verify(r.PostForm.Get("csrf_token")) {
		c.log.Warnw("csrf token rejected", "path", r.URL.Path)
		http.Error(w, "Security token invalid.  Please refresh and try again.", http.StatusForbidden)
		return nil, false
	}
	f, ok := c.forms.get(session.FormID(r), idx)
	if !ok {
		http.Error(w, "Form is not open.  Please reload the page.", http.StatusNotFound)
		return nil, false
	}
	return f, true
}

func (c *Component) renderPage(w http.ResponseWriter, r *http.Request, status, idx int, view form.View) {
	snap := c.store.Snapshot()
	table := snap.Tables[idx]
	titles := make([]string, len(table.Cards))
	for i, card := range table.Cards {
		titles[i] = card.Title
	}

	tok, err := c.tokens.Generate()
	if err != nil {
		c.log.Errorw("csrf token generation failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	base := tablePath(idx)
	body, err := form.Render(c.def, view, form.RenderOptions{
		Action:     base + "/cards",
		ValidateAt: base + "/cards/validate",
		ShowURL:    base + "/cards/new",
		CSRFToken:  tok,
		TableTitle: table.Title,
		Cards:      titles,
	})
	if err != nil {
		c.log.Errorw("render error", "err", err, "path", r.URL.Path)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTpl.Execute(w, map[string]any{"Title": c.def.Title, "Body": body}); err != nil {
		c.log.Errorw("render error", "err", err, "path", r.URL.Path)
	}
}

var pageTpl = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
{{.Body}}
</body>
</html>`))

func tablePath(idx int) string { return "/board/tables/" + strconv.Itoa(idx) }

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("json encode failed", "err", err)
	}
}
