package step

import (
	"context"

	apperrors "github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/pipe"
)

// PipeStep runs a wired pipe chain by draining its last pipe.
type PipeStep[T any] struct {
	last pipe.LastPipe[T]
}

// NewPipeStep wraps the last pipe of a chain.
func NewPipeStep[T any](last pipe.LastPipe[T]) *PipeStep[T] {
	return &PipeStep[T]{last: last}
}

// Initializing fails when the last pipe has nothing to consume.
func (s *PipeStep[T]) Initializing(context.Context) error {
	if s.last.Consumes() == nil {
		return apperrors.NotWired(s.last.Name())
	}
	return nil
}

// Processing drains the chain as one piece.
func (s *PipeStep[T]) Processing(ctx context.Context, t Tracker) error {
	whole := t.Whole(1)
	defer whole.Release()
	piece := t.Piece()
	defer piece.Release()
	return s.last.Run(ctx)
}
