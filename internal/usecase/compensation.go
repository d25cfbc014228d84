package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// compensationStack collects the undo actions of a saga. Each step pushes
// its compensating action as it commits; on a later failure the stack is
// unwound in reverse order.
type compensationStack struct {
	logger *zerolog.Logger
	steps  []compensation
}

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

func newCompensationStack(logger *zerolog.Logger) *compensationStack {
	return &compensationStack{logger: logger}
}

// push records an undo action for a step that just committed.
func (s *compensationStack) push(name string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{name: name, undo: undo})
}

// unwind executes the recorded undo actions in reverse order after cause
// made the saga fail. It returns cause wrapped in the saga error sagaErr,
// unless a compensation itself fails, which leaves inconsistent state
// behind and escalates to ErrCompensationFailed instead.
func (s *compensationStack) unwind(ctx context.Context, sagaErr, cause error) error {
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(ctx); err != nil {
			s.logger.Error().Err(err).
				Str("step", step.name).
				AnErr("cause", cause).
				Msg("saga compensation failed; manual reconciliation required")
			return fmt.Errorf("%w: undoing %s: %v (cause: %v)", ErrCompensationFailed, step.name, err, cause)
		}
		s.logger.Debug().Str("step", step.name).Msg("saga step compensated")
	}
	s.steps = nil

	return fmt.Errorf("%w: %v", sagaErr, cause)
}
