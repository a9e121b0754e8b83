package step

import "context"

// ActionStep runs one Action as a single piece of a whole of size one.
type ActionStep struct {
	action Action
}

// NewActionStep wraps a.
func NewActionStep(a Action) *ActionStep {
	return &ActionStep{action: a}
}

// Initializing has nothing to prepare.
func (s *ActionStep) Initializing(context.Context) error { return nil }

// Processing invokes the action once.
func (s *ActionStep) Processing(ctx context.Context, t Tracker) error {
	whole := t.Whole(1)
	defer whole.Release()
	piece := t.Piece()
	defer piece.Release()
	return s.action(ctx)
}
