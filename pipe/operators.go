package pipe

import (
	"context"
)

// Operators build new sequences from existing ones. They are the building
// blocks for LambdaMidPipe transforms:
//
//	pipe.NewLambdaMidPipe(func(in *pipe.Sequence[string]) *pipe.Sequence[int] {
//	    return pipe.Map(pipe.Filter(in, nonEmpty), parseInt)
//	})

// Map transforms each value using fn.
func Map[I, O any](s *Sequence[I], fn func(context.Context, I) (O, error)) *Sequence[O] {
	return &Sequence[O]{
		create: func(ctx context.Context) Iterator[O] {
			return &mapIter[I, O]{source: s.create(ctx), fn: fn}
		},
	}
}

// FlatMap transforms each value into a sequence and flattens the results.
func FlatMap[I, O any](s *Sequence[I], fn func(context.Context, I) (*Sequence[O], error)) *Sequence[O] {
	return &Sequence[O]{
		create: func(ctx context.Context) Iterator[O] {
			return &flatMapIter[I, O]{source: s.create(ctx), fn: fn}
		},
	}
}

// Filter keeps only values that satisfy the predicate.
func Filter[T any](s *Sequence[T], fn func(T) bool) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &filterIter[T]{source: s.create(ctx), fn: fn}
		},
	}
}

// Tap calls fn as a side-effect for each value, then passes the value through unchanged.
func Tap[T any](s *Sequence[T], fn func(context.Context, T) error) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &tapIter[T]{source: s.create(ctx), fn: fn}
		},
	}
}

// Concat joins sequences. Each one is opened only after the previous is exhausted.
func Concat[T any](seqs ...*Sequence[T]) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &concatIter[T]{seqs: seqs, ctx: ctx}
		},
	}
}

// --- Iterator implementations ---

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type flatMapIter[I, O any] struct {
	source  Iterator[I]
	fn      func(context.Context, I) (*Sequence[O], error)
	current Iterator[O]
}

func (it *flatMapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				return zero, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = it.current.Close()
			it.current = nil
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		inner, err := it.fn(ctx, in)
		if err != nil {
			return zero, false, err
		}
		it.current = inner.Iter(ctx)
	}
}

func (it *flatMapIter[I, O]) Close() error {
	if it.current != nil {
		_ = it.current.Close()
	}
	return it.source.Close()
}

type filterIter[T any] struct {
	source Iterator[T]
	fn     func(T) bool
}

func (it *filterIter[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return val, false, err
		}
		if it.fn(val) {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

type tapIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T) error
}

func (it *tapIter[T]) Next(ctx context.Context) (T, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if err := it.fn(ctx, val); err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (it *tapIter[T]) Close() error { return it.source.Close() }

type concatIter[T any] struct {
	seqs    []*Sequence[T]
	ctx     context.Context
	current Iterator[T]
}

func (it *concatIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		if it.current == nil {
			if len(it.seqs) == 0 {
				return zero, false, nil
			}
			it.current = it.seqs[0].Iter(it.ctx)
			it.seqs = it.seqs[1:]
		}
		val, ok, err := it.current.Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if ok {
			return val, true, nil
		}
		_ = it.current.Close()
		it.current = nil
	}
}

func (it *concatIter[T]) Close() error {
	it.seqs = nil
	if it.current != nil {
		return it.current.Close()
	}
	return nil
}
