package pipe

import (
	"context"
)

// WritePipe is a last pipe that sends every consumed value to a Writer.
type WritePipe[T any] struct {
	*LambdaLastPipe[T]
}

// NewWritePipe creates a WritePipe. The writer is closed at the end of every
// Run, whether the drain completed or failed. A close error is returned only
// when the drain itself succeeded.
func NewWritePipe[T any](w Writer[T], opts ...Option) *WritePipe[T] {
	opts = append([]Option{WithName("write")}, opts...)
	return &WritePipe[T]{
		LambdaLastPipe: NewLambdaLastPipe(func(ctx context.Context, in *Sequence[T]) (err error) {
			defer func() {
				if cerr := w.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			return Drain(ctx, in, w.Write)
		}, opts...),
	}
}
