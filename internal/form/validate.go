// internal/form/validate.go
//
// Card form – name validation.
//
// Context
//   A card name is valid when it is non-empty and every rune is an ASCII
//   letter, an ASCII digit, ASCII whitespace, or a colon.  The rules are expressed
//   as go-playground/validator tags ("required,cardname") so they sit beside
//   the config validator and can be reused on struct fields.
//
//   ValidateName is pure.  Reporting the outcome to a Tracker is a separate,
//   explicit step (see CardForm.Validate).
//
//------------------------------------------------------------------------------

package form

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// User-facing messages.  Not translated.
const (
	MsgNameRequired     = "A name is required."
	MsgNameInvalidChars = "Only words, numbers, and spaces are allowed."
)

// Validation causes.
var (
	ErrEmptyName         = errors.New("card name is empty")
	ErrInvalidCharacters = errors.New("card name has invalid characters")
)

// CardNameTag is the validator tag registered for card names.
const CardNameTag = "cardname"

var names = newNameValidator()

func newNameValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation(CardNameTag, func(fl validator.FieldLevel) bool {
		return allowedName(fl.Field().String())
	})
	return v
}

// -----------------------------------------------------------------------------
// Result
// -----------------------------------------------------------------------------

// Result is the outcome of one validation pass.  The zero value is not valid.
type Result struct {
	Valid  bool
	Reason string // user-facing message, empty when Valid
	Err    error  // ErrEmptyName or ErrInvalidCharacters, nil when Valid
}

// Ok returns a valid Result.
func Ok() Result { return Result{Valid: true} }

// Invalid returns a failed Result for cause.
func Invalid(cause error) Result {
	r := Result{Err: cause}
	switch {
	case errors.Is(cause, ErrEmptyName):
		r.Reason = MsgNameRequired
	default:
		r.Reason = MsgNameInvalidChars
	}
	return r
}

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// ValidateName checks a candidate card name.
func ValidateName(name string) Result {
	err := names.Var(name, "required,"+CardNameTag)
	if err == nil {
		return Ok()
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 && ves[0].Tag() == "required" {
		return Invalid(ErrEmptyName)
	}
	return Invalid(ErrInvalidCharacters)
}

// ValidateOptional treats a nil name as absent, which is the same as empty.
func ValidateOptional(name *string) Result {
	if name == nil {
		return Invalid(ErrEmptyName)
	}
	return ValidateName(*name)
}

// allowedName reports whether every rune is [A-Za-z0-9], ASCII whitespace
// (space, \t, \n, \r, \f, \v), or ':'.  Non-ASCII spaces such as NBSP,
// U+0085, and U+FEFF are rejected.
func allowedName(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == ':':
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '\f', r == '\v':
		default:
			return false
		}
	}
	return true
}
