package pipe

import (
	"context"
)

// LambdaFirstPipe is a source stage over a sequence.
type LambdaFirstPipe[P any] struct {
	c *core[Nothing, P]
}

// NewLambdaFirstPipe creates a first pipe producing the values of src.
func NewLambdaFirstPipe[P any](src *Sequence[P], opts ...Option) *LambdaFirstPipe[P] {
	o := newOptions("first", opts)
	transform := func(*Sequence[Nothing]) *Sequence[P] { return src }
	return &LambdaFirstPipe[P]{c: newCore(transform, true, o)}
}

// Name returns the pipe name.
func (p *LambdaFirstPipe[P]) Name() string { return p.c.Name() }

// Status returns the current lifecycle status.
func (p *LambdaFirstPipe[P]) Status() Status { return p.c.Status() }

// Produces returns the lazy produced sequence.
func (p *LambdaFirstPipe[P]) Produces() *Sequence[P] { return p.c.Produces() }

// LambdaMidPipe is a transform stage defined by a function over sequences.
type LambdaMidPipe[C, P any] struct {
	*core[C, P]
}

// NewLambdaMidPipe creates a mid pipe whose produced sequence is
// transform(consumed).
func NewLambdaMidPipe[C, P any](transform func(*Sequence[C]) *Sequence[P], opts ...Option) *LambdaMidPipe[C, P] {
	o := newOptions("mid", opts)
	return &LambdaMidPipe[C, P]{core: newCore(transform, false, o)}
}

// LambdaLastPipe is a sink stage defined by a function that drains the
// consumed sequence.
type LambdaLastPipe[T any] struct {
	c *core[T, Nothing]
}

// NewLambdaLastPipe creates a last pipe. drain must consume in fully (or
// return an error) each time it is called.
func NewLambdaLastPipe[T any](drain func(ctx context.Context, in *Sequence[T]) error, opts ...Option) *LambdaLastPipe[T] {
	o := newOptions("last", opts)
	transform := func(in *Sequence[T]) *Sequence[Nothing] {
		return FromFunc(func(_ context.Context) Iterator[Nothing] {
			return &drainIter{run: func(ctx context.Context) error { return drain(ctx, in) }}
		})
	}
	return &LambdaLastPipe[T]{c: newCore(transform, false, o)}
}

// Name returns the pipe name.
func (p *LambdaLastPipe[T]) Name() string { return p.c.Name() }

// Status returns the current lifecycle status.
func (p *LambdaLastPipe[T]) Status() Status { return p.c.Status() }

// Consumes returns the consumed sequence, or nil when it is not set yet.
func (p *LambdaLastPipe[T]) Consumes() *Sequence[T] { return p.c.Consumes() }

// SetConsumes assigns the consumed sequence.
func (p *LambdaLastPipe[T]) SetConsumes(s *Sequence[T]) { p.c.SetConsumes(s) }

// Run drains the consumed sequence and returns the first error, unchanged.
func (p *LambdaLastPipe[T]) Run(ctx context.Context) error {
	it := p.c.Produces().Iter(ctx)
	defer it.Close()
	_, _, err := it.Next(ctx)
	return err
}

// drainIter runs a drain once and then reports exhaustion.
type drainIter struct {
	run  func(ctx context.Context) error
	done bool
}

func (it *drainIter) Next(ctx context.Context) (Nothing, bool, error) {
	if it.done {
		return Nothing{}, false, nil
	}
	it.done = true
	return Nothing{}, false, it.run(ctx)
}

func (it *drainIter) Close() error { return nil }
