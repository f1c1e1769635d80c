// internal/form/tracker.go
//
// Card form – per-field validity and the submit gate.
//
// Context
//   The Tracker records what the validator last reported for each field and
//   derives the submit gate from those records.  The gate is never stored.
//   IsFormValid recomputes it from scratch on every call, so it cannot drift
//   from the field states.
//
//   A declared field that has not been reported yet counts as invalid.
//
//   Tracker is not safe for concurrent use.  CardForm serializes access.
//
//------------------------------------------------------------------------------

package form

// FieldState is the per-field record kept by the Tracker.
type FieldState struct {
	Touched      bool   `json:"touched"`
	Reported     bool   `json:"reported"`
	Valid        bool   `json:"valid"`
	ErrorMessage string `json:"error,omitempty"`
}

// Tracker holds FieldState entries keyed by field name.
type Tracker struct {
	fields []string
	states map[string]FieldState
}

// NewTracker declares the fields in scope.  Duplicate names are ignored.
func NewTracker(fields ...string) *Tracker {
	t := &Tracker{states: make(map[string]FieldState, len(fields))}
	for _, f := range fields {
		t.declare(f)
	}
	return t
}

// SetFieldValid records the valid flag for name.
func (t *Tracker) SetFieldValid(name string, valid bool) {
	t.declare(name)
	st := t.states[name]
	st.Reported = true
	st.Valid = valid
	if valid {
		st.ErrorMessage = ""
	}
	t.states[name] = st
}

// Record stores a validation Result for name, including its message.
func (t *Tracker) Record(name string, r Result) {
	t.SetFieldValid(name, r.Valid)
	st := t.states[name]
	st.ErrorMessage = r.Reason
	t.states[name] = st
}

// Touch marks name as touched by the user.
func (t *Tracker) Touch(name string) {
	t.declare(name)
	st := t.states[name]
	st.Touched = true
	t.states[name] = st
}

// State returns the current record for name.
func (t *Tracker) State(name string) FieldState { return t.states[name] }

// IsFormValid is the submit gate.
func (t *Tracker) IsFormValid() bool { return submitGate(t.fields, t.states) }

// Reset returns every declared field to its initial, unreported state.
func (t *Tracker) Reset() {
	for _, f := range t.fields {
		t.states[f] = FieldState{}
	}
}

func (t *Tracker) declare(name string) {
	if _, ok := t.states[name]; ok {
		return
	}
	t.fields = append(t.fields, name)
	t.states[name] = FieldState{}
}

// submitGate is true iff at least one field is declared and every declared
// field has been reported valid.
func submitGate(fields []string, states map[string]FieldState) bool {
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		st := states[f]
		if !st.Reported || !st.Valid {
			return false
		}
	}
	return true
}
