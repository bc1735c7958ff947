package adaptive

import (
	"github.com/kiteco/holdout/kite-golib/errors"
)

// Failure kinds. Every failure aborts the run; none of them leaves a partial result.
const (
	// ConfigurationError marks out-of-range options
	ConfigurationError errors.Kind = "configuration error"
	// InvariantViolation marks a round that broke a structural guarantee of the loop
	InvariantViolation errors.Kind = "invariant violation"
	// CollaboratorFailure marks an error returned by the fitter or the oracle
	CollaboratorFailure errors.Kind = "collaborator failure"
)

func configErrorf(format string, args ...interface{}) error {
	return errors.WithKind(errors.ErrorfWithStack(format, args...), ConfigurationError)
}

func invariantErrorf(format string, args ...interface{}) error {
	return errors.WithKind(errors.ErrorfWithStack(format, args...), InvariantViolation)
}

func collaboratorError(err error, format string, args ...interface{}) error {
	return errors.WithKind(errors.Wrapf(errors.WithStack(err), format, args...), CollaboratorFailure)
}
