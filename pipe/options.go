package pipe

import "github.com/kbukum/pipekit/logger"

// DefaultBufferSize is the bound of an AsyncPipe hand-off channel.
const DefaultBufferSize = 16

// Option configures a pipe.
type Option func(*options)

type options struct {
	name       string
	log        *logger.Logger
	hook       StatusHook
	bufferSize int
}

func newOptions(defaultName string, opts []Option) *options {
	o := &options{name: defaultName, bufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get("pipe")
	}
	if o.bufferSize <= 0 {
		o.bufferSize = 1
	}
	return o
}

// WithName names the pipe in logs, metrics and the progress server.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger used for status transitions.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithStatusHook registers a callback invoked on every status transition.
func WithStatusHook(h StatusHook) Option {
	return func(o *options) { o.hook = h }
}

// WithBufferSize bounds the hand-off channel of an AsyncPipe.
// Values below one are raised to one.
func WithBufferSize(n int) Option {
	return func(o *options) { o.bufferSize = n }
}
