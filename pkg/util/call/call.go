package call

import (
	"context"
	"errors"
)

type (
	// Call is a deferred error-returning function
	Call func() error

	// Stage is a step in a context-aware sequence
	Stage func(context.Context) error
)

// ErrHalt ends a sequence early without reporting a failure
var ErrHalt = errors.New("sequence halted")

// Perform runs calls in order and stops on the first error. A call that
// returns ErrHalt stops the sequence and Perform returns nil
func Perform(calls ...Call) error {
	for _, call := range calls {
		if err := call(); err != nil {
			if errors.Is(err, ErrHalt) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Sequence runs stages in order with the same halting rules as Perform. The
// context is checked before each stage so a cancelled request never issues
// the next call
func Sequence(ctx context.Context, stages ...Stage) error {
	calls := make([]Call, len(stages))
	for i, stage := range stages {
		calls[i] = func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return stage(ctx)
		}
	}
	return Perform(calls...)
}
