package server

import (
	"sync"
	"time"

	"github.com/kbukum/pipekit/observability"
	"github.com/kbukum/pipekit/pipe"
	"github.com/kbukum/pipekit/step"
	"github.com/kbukum/pipekit/version"
)

// maxRuns bounds how many finished runs the monitor remembers.
const maxRuns = 100

// Run states.
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// PipeState is a pipe's name and current status.
type PipeState struct {
	Name   string      `json:"name"`
	Status pipe.Status `json:"status"`
}

// TrackerState is a tracker's open wholes, outermost first.
type TrackerState struct {
	Name   string          `json:"name"`
	Wholes []step.Progress `json:"wholes"`
}

// Run is one step run seen by the monitor.
type Run struct {
	ID         string     `json:"id"`
	Step       string     `json:"step"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Monitor collects the pipes, trackers and runs the progress server
// reports. It implements step.RunObserver. All methods are safe for
// concurrent use.
type Monitor struct {
	mu       sync.RWMutex
	pipes    []pipe.Pipe
	trackers map[string]*step.StackTracker
	order    []string
	runs     map[string]*Run
	runOrder []string
	now      func() time.Time
}

// NewMonitor creates an empty Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		trackers: make(map[string]*step.StackTracker),
		runs:     make(map[string]*Run),
		now:      time.Now,
	}
}

// AddPipes registers pipes to report on.
func (m *Monitor) AddPipes(ps ...pipe.Pipe) {
	m.mu.Lock()
	m.pipes = append(m.pipes, ps...)
	m.mu.Unlock()
}

// AddTracker registers a tracker under its name. A later tracker with the
// same name replaces the earlier one.
func (m *Monitor) AddTracker(t *step.StackTracker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trackers[t.Name()]; !ok {
		m.order = append(m.order, t.Name())
	}
	m.trackers[t.Name()] = t
}

// Pipes returns every registered pipe's status in registration order.
func (m *Monitor) Pipes() []PipeState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PipeState, len(m.pipes))
	for i, p := range m.pipes {
		out[i] = PipeState{Name: p.Name(), Status: p.Status()}
	}
	return out
}

// Progress returns a snapshot of every registered tracker.
func (m *Monitor) Progress() []TrackerState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]TrackerState, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, TrackerState{Name: name, Wholes: m.trackers[name].Snapshot()})
	}
	return out
}

// Tracker returns a snapshot of the named tracker.
func (m *Monitor) Tracker(name string) (TrackerState, bool) {
	m.mu.RLock()
	t, ok := m.trackers[name]
	m.mu.RUnlock()
	if !ok {
		return TrackerState{}, false
	}
	return TrackerState{Name: name, Wholes: t.Snapshot()}, true
}

// RunStarted records a new running run.
func (m *Monitor) RunStarted(stepName, runID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[runID] = &Run{ID: runID, Step: stepName, Status: RunRunning, StartedAt: m.now()}
	m.runOrder = append(m.runOrder, runID)
	for len(m.runOrder) > maxRuns {
		delete(m.runs, m.runOrder[0])
		m.runOrder = m.runOrder[1:]
	}
}

// RunFinished records the outcome of a run.
func (m *Monitor) RunFinished(_, runID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[runID]
	if !ok {
		return
	}
	finished := m.now()
	r.FinishedAt = &finished
	r.Status = RunSucceeded
	if err != nil {
		r.Status = RunFailed
		r.Error = err.Error()
	}
}

// Runs returns the remembered runs, newest first.
func (m *Monitor) Runs() []Run {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Run, 0, len(m.runOrder))
	for i := len(m.runOrder) - 1; i >= 0; i-- {
		out = append(out, *m.runs[m.runOrder[i]])
	}
	return out
}

// Run returns the run with the given ID.
func (m *Monitor) Run(id string) (Run, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[id]
	if !ok {
		return Run{}, false
	}
	return *r, true
}

// Health reports the service as up with one component per pipe. Errored
// pipes degrade it.
func (m *Monitor) Health(service string) *observability.ServiceHealth {
	health := observability.NewServiceHealth(service, version.GetVersionInfo().Version)
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.pipes {
		health.AddComponent(observability.PipeHealth(p))
	}
	return health
}
