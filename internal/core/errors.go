package core

import "github.com/pkg/errors"

// Error kinds the outermost driver surfaces to the process exit (spec §7).
// Solver exhaustion and assignment-retry failures are NOT errors: the
// solver reports them as an empty path / negative beta, and the Manager
// decides whether to skip, retry, or report a task failed.
var (
	// ErrParse marks a malformed map/task/scenario/constraints file.
	ErrParse = errors.New("parse error")

	// ErrInvariant marks a violated core invariant (spec §7): an agent's
	// committed path[0] does not match its current position, or a commit
	// was attempted with inconsistent reservation-table state. Fatal:
	// the caller must abort rather than attempt recovery, because C1
	// integrity cannot be locally re-established.
	ErrInvariant = errors.New("invariant violation")
)

// WrapParse wraps err as an ErrParse with additional context.
func WrapParse(err error, context string) error {
	return errors.Wrapf(ErrParse, "%s: %v", context, err)
}

// NewInvariantViolation builds an ErrInvariant-class error with context.
func NewInvariantViolation(context string) error {
	return errors.Wrap(ErrInvariant, context)
}
