package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// Errorf is re-exported from fmt
var Errorf = fmt.Errorf

// New is an alias to Errorf
var New = Errorf

// ErrorfWithStack is Errorf re-exported from github.com/pkg/errors
var ErrorfWithStack = errors.Errorf

// WrapfOrNil is WithMessagef re-exported from github.com/pkg/errors
func WrapfOrNil(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.WithMessage(err, fmt.Sprintf(format, args...))
}

// Wrapf is WrapfOrNil if err != nil, and Errorf otherwise: it never returns nil
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return Errorf(format, args...)
	}
	return WrapfOrNil(err, format, args...)
}

// WithStack is re-exported from github.com/pkg/errors
var WithStack = errors.WithStack

// Cause is re-exported from github.com/pkg/errors
var Cause = errors.Cause

// Is is re-exported from the standard errors package
var Is = stderrors.Is

// Kind classifies a failure, e.g. a bad configuration versus a broken invariant.
type Kind string

// KindUnknown is reported for errors that were never tagged with WithKind.
const KindUnknown Kind = ""

type kindError struct {
	kind Kind
	err  error
}

func (k kindError) Error() string {
	return fmt.Sprintf("%s: %v", k.kind, k.err)
}

// Cause lets github.com/pkg/errors see through the kind
func (k kindError) Cause() error {
	return k.err
}

func (k kindError) Unwrap() error {
	return k.err
}

// WithKind tags err with kind; it returns nil for a nil error.
func WithKind(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	return kindError{kind: kind, err: err}
}

// KindOf returns the outermost kind attached to err, looking through wrapped errors.
func KindOf(err error) Kind {
	for err != nil {
		if k, ok := err.(kindError); ok {
			return k.kind
		}
		switch e := err.(type) {
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		case interface{ Cause() error }:
			err = e.Cause()
		default:
			return KindUnknown
		}
	}
	return KindUnknown
}
