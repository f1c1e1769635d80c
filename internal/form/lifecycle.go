// internal/form/lifecycle.go
//
// Card form – visibility and reset lifecycle.
//
// Context
//   The Lifecycle owns the ephemeral UI state of one form: the current
//   field value, whether a submit is in flight, and whether the form is
//   shown.  It moves Visible → Hidden only on a confirmed Success.  Showing
//   the form again belongs to the caller (the "new card" toggle), so Show
//   never reports a transition.
//
//------------------------------------------------------------------------------

package form

// Visibility of a form.
type Visibility int

const (
	Hidden Visibility = iota
	Visible
)

func (v Visibility) String() string {
	if v == Visible {
		return "visible"
	}
	return "hidden"
}

// Lifecycle is not safe for concurrent use.  CardForm serializes access.
type Lifecycle struct {
	visibility Visibility
	submitting bool
	value      string
}

// NewLifecycle starts in the visibility chosen by the caller.
func NewLifecycle(initial Visibility) *Lifecycle {
	return &Lifecycle{visibility: initial}
}

func (l *Lifecycle) Visibility() Visibility { return l.visibility }
func (l *Lifecycle) Submitting() bool { return l.submitting }
func (l *Lifecycle) Value() string { return l.value }

// SetValue replaces the field value.  Ignored while submitting, matching a
// disabled input.
func (l *Lifecycle) SetValue(v string) bool {
	if l.submitting {
		return false
	}
	l.value = v
	return true
}

// BeginSubmit marks a submit in flight.  It returns false when one already
// is, or when the form is hidden.
func (l *Lifecycle) BeginSubmit() bool {
	if l.submitting || l.visibility != Visible {
		return false
	}
	l.submitting = true
	return true
}

// Resolve applies a submission outcome.  On Success the value and the
// tracker are reset and the form hides.  On Failure input and errors stay.
// The submitting flag clears either way.  hidden reports a Visible → Hidden
// transition the caller must be told about.
func (l *Lifecycle) Resolve(o Outcome, t *Tracker) (hidden bool) {
	l.submitting = false
	if o != Success {
		return false
	}
	l.value = ""
	t.Reset()
	if l.visibility == Visible {
		l.visibility = Hidden
		return true
	}
	return false
}

// Show makes the form visible again.  Caller-owned transition.
func (l *Lifecycle) Show() { l.visibility = Visible }
