package step

import "context"

// Chain runs steps in order. Each child is one piece of the chain's whole.
type Chain struct {
	steps []Step
	// initialized marks children whose Initializing has succeeded.
	initialized []bool
}

// NewChain creates a chain of steps.
func NewChain(steps ...Step) *Chain {
	return &Chain{steps: steps, initialized: make([]bool, len(steps))}
}

// Initializing initializes every child in order and stops at the first
// failure. A retry skips children that already initialized.
func (c *Chain) Initializing(ctx context.Context) error {
	for i, s := range c.steps {
		if c.initialized[i] {
			continue
		}
		if err := s.Initializing(ctx); err != nil {
			return err
		}
		c.initialized[i] = true
	}
	return nil
}

// Processing runs every child in order and stops at the first failure.
func (c *Chain) Processing(ctx context.Context, t Tracker) error {
	whole := t.Whole(len(c.steps))
	defer whole.Release()
	for _, s := range c.steps {
		if err := c.process(ctx, t, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) process(ctx context.Context, t Tracker, s Step) error {
	piece := t.Piece()
	defer piece.Release()
	return s.Processing(ctx, t)
}
