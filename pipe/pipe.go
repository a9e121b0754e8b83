package pipe

import (
	"context"
	"fmt"
	"sync/atomic"

	apperrors "github.com/kbukum/pipekit/errors"
)

// Nothing is the produced element type of a last pipe.
type Nothing struct{}

// Pipe is the part every pipe shares: a name and a lifecycle status.
type Pipe interface {
	Name() string
	// Status reports the lifecycle state. Reading it never changes it.
	Status() Status
}

// Producer is a pipe with a lazy, single-pass produced sequence. Every
// cursor opened on Produces re-runs the pipe's transform against its input.
type Producer[P any] interface {
	Pipe
	Produces() *Sequence[P]
}

// Consumer is a pipe fed by an upstream sequence. The consumed sequence is
// assigned after construction so that chains can be wired before they run.
type Consumer[C any] interface {
	Consumes() *Sequence[C]
	SetConsumes(s *Sequence[C])
}

// FirstPipe is a source stage.
type FirstPipe[P any] interface {
	Producer[P]
}

// MidPipe is a transform stage that consumes C and produces P.
type MidPipe[C, P any] interface {
	Producer[P]
	Consumer[C]
}

// LastPipe is a sink stage. Run drains the consumed sequence for its side
// effects under the same status lifecycle as any other pipe.
type LastPipe[T any] interface {
	Pipe
	Consumer[T]
	Run(ctx context.Context) error
}

// core carries the state shared by every concrete pipe: the consumed
// sequence, the status cell and the transform.
type core[C, P any] struct {
	consumes  atomic.Pointer[Sequence[C]]
	status    statusCell
	transform func(*Sequence[C]) *Sequence[P]
	source    bool
}

func newCore[C, P any](transform func(*Sequence[C]) *Sequence[P], source bool, o *options) *core[C, P] {
	c := &core[C, P]{transform: transform, source: source}
	c.status.name = o.name
	c.status.hook = o.hook
	c.status.log = o.log
	return c
}

// Name returns the pipe name.
func (c *core[C, P]) Name() string { return c.status.name }

// Status returns the current lifecycle status.
func (c *core[C, P]) Status() Status { return c.status.load() }

// Consumes returns the consumed sequence, or nil when it is not set yet.
func (c *core[C, P]) Consumes() *Sequence[C] { return c.consumes.Load() }

// SetConsumes assigns the consumed sequence.
func (c *core[C, P]) SetConsumes(s *Sequence[C]) { c.consumes.Store(s) }

// Produces returns the lazy produced sequence. The transform is not invoked
// until the first pull of a cursor.
func (c *core[C, P]) Produces() *Sequence[P] {
	return FromFunc(func(_ context.Context) Iterator[P] {
		return &statusIter[C, P]{core: c}
	})
}

func (c *core[C, P]) open(ctx context.Context) (Iterator[P], error) {
	in := c.consumes.Load()
	if in == nil && !c.source {
		return nil, apperrors.NotWired(c.status.name)
	}
	out := c.transform(in)
	if out == nil {
		return nil, apperrors.Internal(fmt.Errorf("transform of pipe %q returned no sequence", c.status.name))
	}
	return out.Iter(ctx), nil
}

// statusIter is a produced cursor. It drives the owning pipe's status at
// the points where the cursor advances.
type statusIter[C, P any] struct {
	core   *core[C, P]
	source Iterator[P]
	ended  bool
}

func (it *statusIter[C, P]) Next(ctx context.Context) (P, bool, error) {
	var zero P
	if it.ended {
		return zero, false, nil
	}
	defer func() {
		if r := recover(); r != nil {
			it.ended = true
			it.core.status.advance(StatusErrored)
			panic(r)
		}
	}()
	if it.source == nil {
		it.core.status.advance(StatusWorking)
		src, err := it.core.open(ctx)
		if err != nil {
			return it.fail(err)
		}
		it.source = src
	}
	val, ok, err := it.source.Next(ctx)
	if err != nil {
		return it.fail(err)
	}
	if !ok {
		it.ended = true
		it.core.status.advance(StatusFinished)
		return zero, false, nil
	}
	return val, true, nil
}

func (it *statusIter[C, P]) fail(err error) (P, bool, error) {
	var zero P
	it.ended = true
	it.core.status.advance(StatusErrored)
	return zero, false, err
}

func (it *statusIter[C, P]) Close() error {
	it.ended = true
	if it.source != nil {
		return it.source.Close()
	}
	return nil
}
