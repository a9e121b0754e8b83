package pipe

import (
	"context"
	"runtime"

	apperrors "github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/logger"
)

// AsyncPipe decorates a pipe so that its production runs on a separate
// goroutine. The worker pulls the wrapped pipe and pushes into a bounded
// channel; the AsyncPipe's own cursors drain that channel.
//
// Status is the wrapped pipe's status as driven by the worker, so it can
// read Working, Finished or Errored before the consumer has pulled anything.
//
// Of the pipe options only WithName, WithLogger and WithBufferSize apply.
// Status hooks belong on the wrapped pipe, whose status this one reports.
type AsyncPipe[C, P any] struct {
	inner    Producer[P]
	consumer Consumer[C]
	name     string
	size     int
	log      *logger.Logger
}

// Async decorates a mid pipe. SetConsumes on the result wires the wrapped pipe.
func Async[C, P any](p MidPipe[C, P], opts ...Option) *AsyncPipe[C, P] {
	return newAsync[C, P](p, p, opts)
}

// AsyncFirst decorates a first pipe.
func AsyncFirst[P any](p FirstPipe[P], opts ...Option) *AsyncPipe[Nothing, P] {
	return newAsync[Nothing, P](p, nil, opts)
}

func newAsync[C, P any](inner Producer[P], consumer Consumer[C], opts []Option) *AsyncPipe[C, P] {
	o := newOptions(inner.Name(), opts)
	return &AsyncPipe[C, P]{
		inner:    inner,
		consumer: consumer,
		name:     o.name,
		size:     o.bufferSize,
		log:      o.log.WithFields(logger.Fields(logger.FieldPipe, o.name)),
	}
}

// Name returns the name given with WithName, or the wrapped pipe's name.
func (a *AsyncPipe[C, P]) Name() string { return a.name }

// Status returns the wrapped pipe's status.
func (a *AsyncPipe[C, P]) Status() Status { return a.inner.Status() }

// BufferSize returns the bound of the hand-off channel.
func (a *AsyncPipe[C, P]) BufferSize() int { return a.size }

// Consumes returns the wrapped pipe's consumed sequence. It is nil for a
// decorated first pipe.
func (a *AsyncPipe[C, P]) Consumes() *Sequence[C] {
	if a.consumer == nil {
		return nil
	}
	return a.consumer.Consumes()
}

// SetConsumes wires the wrapped pipe. It does nothing for a decorated first pipe.
func (a *AsyncPipe[C, P]) SetConsumes(s *Sequence[C]) {
	if a.consumer != nil {
		a.consumer.SetConsumes(s)
	}
}

// Produces returns a sequence whose cursors each start one worker. Closing a
// cursor, cancelling the context it was opened with, or dropping the cursor
// so that it is garbage collected stops its worker even when the worker is
// blocked on a full channel.
func (a *AsyncPipe[C, P]) Produces() *Sequence[P] {
	return FromFunc(func(ctx context.Context) Iterator[P] {
		workerCtx, cancel := context.WithCancel(ctx)
		ch := make(chan result[P], a.size)
		go a.work(workerCtx, ch)
		it := &channelIter[P]{
			ch: ch,
			closer: func() error {
				cancel()
				return nil
			},
		}
		// The worker only holds ch, so an abandoned cursor is collectable.
		runtime.AddCleanup(it, func(cancel context.CancelFunc) { cancel() }, cancel)
		return it
	})
}

func (a *AsyncPipe[C, P]) work(ctx context.Context, ch chan<- result[P]) {
	defer close(ch)

	it := a.inner.Produces().Iter(ctx)
	defer it.Close()

	defer func() {
		if r := recover(); r != nil {
			err := apperrors.WorkerPanic(a.name, r)
			a.log.Error("async worker panicked", logger.ErrorFields("produce", err))
			send(ctx, ch, result[P]{err: err})
		}
	}()

	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			send(ctx, ch, result[P]{err: err})
			return
		}
		if !ok {
			return
		}
		if !send(ctx, ch, result[P]{val: val}) {
			return
		}
	}
}

// send pushes r unless ctx is cancelled first.
func send[T any](ctx context.Context, ch chan<- result[T], r result[T]) bool {
	select {
	case ch <- r:
		return true
	case <-ctx.Done():
		return false
	}
}
