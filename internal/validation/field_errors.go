package validation

import (
	"sort"
	"strings"
)

// FieldErrors maps a form field to its validation message. It implements
// error so services can return it through their normal error path; handlers
// detect it with errors.As and answer 422 with the field map attached.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// OrNil returns the map as an error, or nil when no field failed.
func (e FieldErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

const (
	MsgRequired        = "this field is required"
	MsgEmailInvalid    = "enter a valid email address"
	MsgMismatch        = "the two fields do not match"
	MsgWrongPassword   = "current password is incorrect"
	MsgPasswordReuse   = "new password must differ from the current password"
	MsgPasswordMix     = "password must contain at least one letter and one digit"
	MsgPasswordSimilar = "password is too similar to your email or name"
	MsgFutureDate      = "date must not be in the future"
	MsgTooManyImages   = "a visit can have at most 5 photos"
)
