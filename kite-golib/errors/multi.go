package errors

import (
	"strings"
)

// Errors is a non-empty list of errors. A nil Errors means no errors, so callers
// can compare the result of Append against nil directly.
type Errors interface {
	error
	// Slice returns a copy of the underlying (non-nil) errors.
	Slice() []error
	// Len is always > 0.
	Len() int
}

type errorList []error

func (m errorList) Slice() []error {
	return append([]error(nil), m...)
}

func (m errorList) Len() int {
	return len(m)
}

func (m errorList) Error() string {
	msgs := make([]string, 0, len(m))
	for _, err := range m {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Append adds the (possibly nil) err to the (possibly nil) errs, flattening nested lists.
func Append(errs Errors, err error) Errors {
	if err == nil {
		return errs
	}
	var out errorList
	if errs != nil {
		out = errorList(errs.Slice())
	}
	if nested, ok := err.(Errors); ok {
		return append(out, nested.Slice()...)
	}
	return append(out, err)
}

// Combine merges e and f into a single error, or nil if both are nil.
func Combine(e, f error) error {
	var errs Errors
	errs = Append(errs, e)
	errs = Append(errs, f)
	if errs == nil {
		return nil
	}
	if errs.Len() == 1 {
		return errs.Slice()[0]
	}
	return errs
}

// Defer is a helper for deferring error-returning functions such as Close
func Defer(err *error, f func() error) {
	*err = Combine(*err, f())
}
