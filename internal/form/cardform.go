// internal/form/cardform.go
//
// Card form – one live form instance.
//
// Context
//   CardForm wires the pieces together for a single table:
//
//     input → ValidateName → Tracker.Record → submit gate
//     submit → Coordinator.Submit → Lifecycle.Resolve → OnVisibilityChange
//
//   Validation is always two explicit steps: compute the Result, then report
//   it to the Tracker.  Both happen on every Change, Blur, and Submit.
//
//   A CardForm may be driven from several HTTP requests, so every method
//   takes the instance mutex.  The mutex is released while the coordinator
//   runs; a second Submit in that window sees the in-flight flag and is
//   refused, the same as clicking a disabled button.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/kanban/internal/metrics"
)

// FieldCardName is the only field of the form.
const FieldCardName = "cardName"

// Refused submits.  Neither constructs a CreateCard intent.
var (
	ErrSubmitBlocked    = errors.New("submit blocked: form is not valid")
	ErrSubmitInProgress = errors.New("submit already in progress")
	ErrFormHidden       = errors.New("form is hidden")
)

// Config is what the caller hands to a new form.
type Config struct {
	TableIndex         int
	OnVisibilityChange func(visible bool)
	Initial            Visibility // zero value is Hidden; callers showing a form pass Visible
}

// View is a read-only projection used by renderers and JSON responses.
type View struct {
	TableIndex int    `json:"tableIndex"`
	Value      string `json:"cardName"`
	Touched    bool   `json:"touched"`
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
	ShowError  bool   `json:"showError"`
	CanSubmit  bool   `json:"canSubmit"`
	Submitting bool   `json:"submitting"`
	Visible    bool   `json:"visible"`
}

// CardForm is safe for concurrent use.
type CardForm struct {
	mu      sync.Mutex
	cfg     Config
	tracker *Tracker
	life    *Lifecycle
	coord   *Coordinator
	log     *zap.SugaredLogger
}

// NewCardForm builds a form for cfg.TableIndex backed by coord.
func NewCardForm(cfg Config, coord *Coordinator) *CardForm {
	return &CardForm{
		cfg:     cfg,
		tracker: NewTracker(FieldCardName),
		life:    NewLifecycle(cfg.Initial),
		coord:   coord,
		log:     coord.log,
	}
}

// TableIndex returns the table the form creates cards in.
func (f *CardForm) TableIndex() int { return f.cfg.TableIndex }

// Change stores a new value and validates it.  A hidden form keeps its
// state; the result is computed for the given value and not recorded.
func (f *CardForm) Change(value string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.life.Visibility() != Visible {
		return ValidateName(value)
	}
	f.life.SetValue(value)
	return f.validateLocked()
}

// Blur marks the field touched and validates it.  No-op on a hidden form.
func (f *CardForm) Blur() Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.life.Visibility() != Visible {
		return ValidateName(f.life.Value())
	}
	f.tracker.Touch(FieldCardName)
	return f.validateLocked()
}

// Validate re-runs validation on the current value.  Only a visible form
// records the result.
func (f *CardForm) Validate() Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.life.Visibility() != Visible {
		return ValidateName(f.life.Value())
	}
	return f.validateLocked()
}

func (f *CardForm) validateLocked() Result {
	r := ValidateName(f.life.Value())
	f.tracker.Record(FieldCardName, r)
	metrics.ValidationsTotal.WithLabelValues(reasonLabel(r)).Inc()
	return r
}

// Submit validates, dispatches, and applies the outcome.  A refused submit
// returns Failure with ErrSubmitBlocked, ErrSubmitInProgress, or
// ErrFormHidden.  Otherwise the coordinator's outcome and error are
// returned as is.
func (f *CardForm) Submit(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	if err := f.admitLocked(); err != nil {
		f.mu.Unlock()
		metrics.SubmitsBlockedTotal.Inc()
		f.log.Debugw("card submit refused", "table", f.cfg.TableIndex, "err", err)
		return Failure, err
	}
	candidate := f.life.Value()
	f.mu.Unlock()

	out, err := f.coord.Submit(ctx, candidate, f.cfg.TableIndex)

	f.mu.Lock()
	hidden := f.life.Resolve(out, f.tracker)
	f.mu.Unlock()

	if hidden && f.cfg.OnVisibilityChange != nil {
		f.cfg.OnVisibilityChange(false)
	}
	return out, err
}

// admitLocked runs the submit-time checks.  On success the lifecycle is
// marked submitting.
func (f *CardForm) admitLocked() error {
	switch {
	case f.life.Visibility() != Visible:
		return ErrFormHidden
	case f.life.Submitting():
		return ErrSubmitInProgress
	}

	// Submitting touches the field and validates it one last time.
	f.tracker.Touch(FieldCardName)
	f.validateLocked()
	if !f.tracker.IsFormValid() {
		return ErrSubmitBlocked
	}

	f.life.BeginSubmit()
	return nil
}

// Show makes a hidden form visible again.  The field state is whatever the
// last Success left behind, i.e. the initial state.
func (f *CardForm) Show() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.life.Show()
}

// View returns the current projection.
func (f *CardForm) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.tracker.State(FieldCardName)
	return View{
		TableIndex: f.cfg.TableIndex,
		Value:      f.life.Value(),
		Touched:    st.Touched,
		Valid:      st.Valid,
		Error:      st.ErrorMessage,
		ShowError:  st.Touched && st.Reported && !st.Valid,
		CanSubmit:  f.tracker.IsFormValid() && !f.life.Submitting(),
		Submitting: f.life.Submitting(),
		Visible:    f.life.Visibility() == Visible,
	}
}

func reasonLabel(r Result) string {
	switch {
	case r.Valid:
		return metrics.ReasonValid
	case errors.Is(r.Err, ErrEmptyName):
		return metrics.ReasonEmpty
	default:
		return metrics.ReasonInvalidChars
	}
}
