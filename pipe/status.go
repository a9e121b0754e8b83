package pipe

import (
	"fmt"
	"sync/atomic"

	"github.com/kbukum/pipekit/logger"
)

// Status is the lifecycle state of a pipe.
type Status int32

const (
	// StatusCreated means no element has been pulled yet.
	StatusCreated Status = iota
	// StatusWorking means at least one pull has started and more may follow.
	StatusWorking
	// StatusFinished means the produced sequence was exhausted without error.
	StatusFinished
	// StatusErrored means a pull returned an error.
	StatusErrored
)

var statusNames = [...]string{"created", "working", "finished", "errored"}

// String returns the lowercase status name.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int32(s))
	}
	return statusNames[s]
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusErrored
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StatusHook observes status transitions. It is called once per transition,
// on the goroutine that caused it.
type StatusHook func(from, to Status)

// canTransition encodes Created -> Working -> (Finished | Errored).
func canTransition(from, to Status) bool {
	switch to {
	case StatusWorking:
		return from == StatusCreated
	case StatusFinished:
		return from == StatusWorking
	case StatusErrored:
		return from == StatusCreated || from == StatusWorking
	default:
		return false
	}
}

// statusCell holds one pipe's status. Reads are lock-free; transitions are
// compare-and-swap so a worker goroutine and a reader never race.
type statusCell struct {
	v    atomic.Int32
	name string
	hook StatusHook
	log  *logger.Logger
}

func (c *statusCell) load() Status {
	return Status(c.v.Load())
}

// advance moves to the given status if the state machine allows it and
// reports whether it did.
func (c *statusCell) advance(to Status) bool {
	for {
		from := Status(c.v.Load())
		if !canTransition(from, to) {
			return false
		}
		if c.v.CompareAndSwap(int32(from), int32(to)) {
			c.notify(from, to)
			return true
		}
	}
}

func (c *statusCell) notify(from, to Status) {
	if c.log != nil {
		c.log.Debug("pipe status changed", logger.Fields(
			logger.FieldPipe, c.name,
			logger.FieldFrom, from.String(),
			logger.FieldTo, to.String(),
		))
	}
	if c.hook != nil {
		c.hook(from, to)
	}
}
