package pipe

import (
	"context"
	"iter"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Sequence is a lazy source of iterators.
// No work happens until a cursor returned by Iter is pulled.
type Sequence[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// Iter opens a new cursor. The caller must Close() it.
func (s *Sequence[T]) Iter(ctx context.Context) Iterator[T] {
	return s.create(ctx)
}

// All returns a range-over-func view of a fresh cursor. Iteration stops after
// the first error, which is yielded with a zero value.
func (s *Sequence[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := s.create(ctx)
		defer it.Close()
		for {
			val, ok, err := it.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok || !yield(val, nil) {
				return
			}
		}
	}
}

// result carries a value or error through a channel.
type result[T any] struct {
	val T
	err error
}

// --- Constructors ---

// FromSlice creates a restartable sequence over a slice of values.
func FromSlice[T any](items []T) *Sequence[T] {
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			return &sliceIter[T]{items: items}
		},
	}
}

// FromFunc creates a sequence from a factory that opens an Iterator per cursor.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T]) *Sequence[T] {
	return &Sequence[T]{create: fn}
}

// FromIterator creates a single-pass sequence around an existing Iterator.
// Every cursor shares it; once it is exhausted, failed or closed, later
// cursors observe an empty sequence.
func FromIterator[T any](it Iterator[T]) *Sequence[T] {
	shared := &sharedIter[T]{source: it}
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			return shared
		},
	}
}

// FromChannel creates a single-pass sequence that drains ch until it is closed.
func FromChannel[T any](ch <-chan T) *Sequence[T] {
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			return &chanIter[T]{ch: ch}
		},
	}
}

// FromSeq creates a restartable sequence from a range-over-func producer.
// A non-nil error yielded by seq is returned from Next and ends the cursor.
func FromSeq[T any](seq iter.Seq2[T, error]) *Sequence[T] {
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			next, stop := iter.Pull2(seq)
			return &pullIter[T]{next: next, stop: stop}
		},
	}
}

// --- Terminals ---

// Collect opens a cursor on s and returns all values as a slice. Values
// pulled before an error are returned along with it.
func Collect[T any](ctx context.Context, s *Sequence[T]) ([]T, error) {
	it := s.create(ctx)
	defer it.Close()
	var out []T
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, val)
	}
}

// Drain opens a cursor on s and sends each value to sink.
func Drain[T any](ctx context.Context, s *Sequence[T], sink func(context.Context, T) error) error {
	it := s.create(ctx)
	defer it.Close()
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := sink(ctx, val); err != nil {
			return err
		}
	}
}

// --- Internal iterators ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

type sharedIter[T any] struct {
	source Iterator[T]
	ended  bool
}

func (it *sharedIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.ended {
		return zero, false, nil
	}
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		it.end()
		return zero, false, err
	}
	return val, true, nil
}

func (it *sharedIter[T]) Close() error {
	return it.end()
}

func (it *sharedIter[T]) end() error {
	if it.ended {
		return nil
	}
	it.ended = true
	return it.source.Close()
}

type chanIter[T any] struct {
	ch <-chan T
}

func (it *chanIter[T]) Next(ctx context.Context) (T, bool, error) {
	select {
	case val, open := <-it.ch:
		return val, open, nil
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

func (it *chanIter[T]) Close() error { return nil }

type pullIter[T any] struct {
	next  func() (T, error, bool)
	stop  func()
	ended bool
}

func (it *pullIter[T]) Next(_ context.Context) (T, bool, error) {
	var zero T
	if it.ended {
		return zero, false, nil
	}
	val, err, ok := it.next()
	if !ok || err != nil {
		it.ended = true
		it.stop()
		return zero, false, err
	}
	return val, true, nil
}

func (it *pullIter[T]) Close() error {
	it.ended = true
	it.stop()
	return nil
}

// channelIter reads results from a channel fed by a worker goroutine.
type channelIter[T any] struct {
	ch     <-chan result[T]
	closer func() error
	ended  bool
}

func (it *channelIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.ended {
		return zero, false, nil
	}
	select {
	case r, open := <-it.ch:
		if !open {
			it.ended = true
			return zero, false, nil
		}
		if r.err != nil {
			it.ended = true
			return zero, false, r.err
		}
		return r.val, true, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

func (it *channelIter[T]) Close() error {
	it.ended = true
	if it.closer != nil {
		return it.closer()
	}
	return nil
}
