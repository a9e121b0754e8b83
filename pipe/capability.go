package pipe

import "context"

// Mapper produces one value from one consumed value.
type Mapper[C, P any] interface {
	Map(ctx context.Context, in C) (P, error)
}

// MapperFunc adapts a function to Mapper.
type MapperFunc[C, P any] func(ctx context.Context, in C) (P, error)

// Map calls f.
func (f MapperFunc[C, P]) Map(ctx context.Context, in C) (P, error) { return f(ctx, in) }

// Writer consumes values and produces nothing. Close releases whatever the
// writer holds; WritePipe calls it once the pipe's work completes or fails.
type Writer[T any] interface {
	Write(ctx context.Context, v T) error
	Close() error
}

// WriterFunc adapts a function to a Writer with nothing to release.
type WriterFunc[T any] func(ctx context.Context, v T) error

// Write calls f.
func (f WriterFunc[T]) Write(ctx context.Context, v T) error { return f(ctx, v) }

// Close does nothing.
func (f WriterFunc[T]) Close() error { return nil }
