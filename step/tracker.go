package step

import "sync"

// Tracker hands out progress scopes. A whole announces how many pieces a
// unit of work consists of; each released piece advances the nearest
// enclosing whole by one.
type Tracker interface {
	Whole(size int) *Scope
	Piece() *Scope
}

// Event identifies what a Progress value reports.
type Event string

const (
	EventWholeStarted Event = "whole_started"
	EventPieceDone    Event = "piece_done"
	EventWholeDone    Event = "whole_done"
)

// Progress is one observable change of a tracker.
type Progress struct {
	Tracker string `json:"tracker"`
	Event   Event  `json:"event,omitempty"`
	// Depth is the position of the affected whole among open wholes.
	Depth int `json:"depth"`
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Listener observes tracker progress. Listeners are called in change order
// and may read the tracker but must not acquire scopes on it.
type Listener interface {
	OnProgress(p Progress)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(p Progress)

// OnProgress calls f.
func (f ListenerFunc) OnProgress(p Progress) { f(p) }

type frameKind int

const (
	kindWhole frameKind = iota
	kindPiece
)

type frame struct {
	kind     frameKind
	total    int
	done     int
	released bool
}

// Scope is a releasable tracker acquisition.
type Scope struct {
	tracker *StackTracker
	frame   *frame
}

// Release ends the scope. It is safe to call more than once; only the first
// call that finds the scope still open has any effect. Scopes acquired after
// this one and still open are released first, newest first.
func (s *Scope) Release() {
	if s == nil || s.tracker == nil {
		return
	}
	s.tracker.release(s.frame)
}

// StackTracker is the default Tracker. Scopes form a stack. Its methods may
// be called from several goroutines, but progress is only accurate for one
// logical stream of work: releasing a scope releases every scope opened
// after it, including pieces another goroutine still holds.
type StackTracker struct {
	name string

	mu        sync.Mutex
	stack     []*frame
	listeners []Listener
	// notifyMu keeps listener calls in change order across goroutines.
	notifyMu sync.Mutex
}

// NewTracker creates a named StackTracker.
func NewTracker(name string, listeners ...Listener) *StackTracker {
	return &StackTracker{name: name, listeners: listeners}
}

// Name returns the tracker name.
func (t *StackTracker) Name() string { return t.name }

// AddListener registers a listener for subsequent changes.
func (t *StackTracker) AddListener(l Listener) {
	t.mu.Lock()
	t.listeners = append(t.listeners, l)
	t.mu.Unlock()
}

// Whole opens a scope of size pieces. Negative sizes count as zero.
func (t *StackTracker) Whole(size int) *Scope {
	if size < 0 {
		size = 0
	}
	f := &frame{kind: kindWhole, total: size}

	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	t.mu.Lock()
	t.stack = append(t.stack, f)
	p := t.progress(EventWholeStarted, len(t.wholes())-1, f)
	listeners := t.listeners
	t.mu.Unlock()

	notify(listeners, p)
	return &Scope{tracker: t, frame: f}
}

// Piece opens a scope that advances the nearest enclosing whole when it is
// released.
func (t *StackTracker) Piece() *Scope {
	f := &frame{kind: kindPiece}
	t.mu.Lock()
	t.stack = append(t.stack, f)
	t.mu.Unlock()
	return &Scope{tracker: t, frame: f}
}

// Snapshot returns the open wholes, outermost first.
func (t *StackTracker) Snapshot() []Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	wholes := t.wholes()
	out := make([]Progress, len(wholes))
	for i, f := range wholes {
		out[i] = Progress{Tracker: t.name, Depth: i, Done: f.done, Total: f.total}
	}
	return out
}

// Depth returns the number of open scopes.
func (t *StackTracker) Depth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.stack)
}

func (t *StackTracker) release(f *frame) {
	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	t.mu.Lock()
	if f.released {
		t.mu.Unlock()
		return
	}
	idx := -1
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i] == f {
			idx = i
			break
		}
	}
	events := t.popTo(idx)
	listeners := t.listeners
	t.mu.Unlock()

	notify(listeners, events...)
}

// releaseTo releases every scope above the given depth.
func (t *StackTracker) releaseTo(depth int) {
	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	t.mu.Lock()
	var events []Progress
	if depth < len(t.stack) {
		events = t.popTo(depth)
	}
	listeners := t.listeners
	t.mu.Unlock()

	notify(listeners, events...)
}

// popTo pops and releases frames down to and including index idx.
// Must be called with t.mu held.
func (t *StackTracker) popTo(idx int) []Progress {
	if idx < 0 {
		return nil
	}
	var events []Progress
	for len(t.stack) > idx {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		top.released = true

		switch top.kind {
		case kindPiece:
			wholes := t.wholes()
			if len(wholes) == 0 {
				continue
			}
			w := wholes[len(wholes)-1]
			w.done++
			events = append(events, t.progress(EventPieceDone, len(wholes)-1, w))
		case kindWhole:
			events = append(events, t.progress(EventWholeDone, len(t.wholes()), top))
		}
	}
	return events
}

func (t *StackTracker) wholes() []*frame {
	var out []*frame
	for _, f := range t.stack {
		if f.kind == kindWhole {
			out = append(out, f)
		}
	}
	return out
}

func (t *StackTracker) progress(e Event, depth int, f *frame) Progress {
	return Progress{Tracker: t.name, Event: e, Depth: depth, Done: f.done, Total: f.total}
}

func notify(listeners []Listener, events ...Progress) {
	for _, p := range events {
		for _, l := range listeners {
			l.OnProgress(p)
		}
	}
}

// Discard is a Tracker whose scopes do nothing.
var Discard Tracker = discard{}

type discard struct{}

func (discard) Whole(int) *Scope { return &Scope{} }
func (discard) Piece() *Scope    { return &Scope{} }
