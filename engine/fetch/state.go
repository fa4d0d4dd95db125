package fetch

import (
	"sync"
	"time"
)

// State is the lifecycle of one fetch key: idle → loading → success | error.
// A new call from success or error re-enters loading.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Status is the observable state of one key.
type Status struct {
	State     State
	Err       error
	UpdatedAt time.Time
}

func (s Status) IsLoading() bool {
	return s.State == StateLoading
}

// tracker records per-key status. A key stays loading until its last
// concurrent caller returns.
type tracker struct {
	mu       sync.RWMutex
	statuses map[string]Status
	inflight map[string]int
}

func newTracker() *tracker {
	return &tracker{
		statuses: make(map[string]Status),
		inflight: make(map[string]int),
	}
}

func (t *tracker) begin(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inflight[key]++
	t.statuses[key] = Status{State: StateLoading, UpdatedAt: time.Now()}
}

func (t *tracker) finish(key string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	if t.inflight[key]--; t.inflight[key] > 0 {
		t.statuses[key] = Status{State: StateLoading, UpdatedAt: now}
		return
	}
	delete(t.inflight, key)
	if err != nil {
		t.statuses[key] = Status{State: StateError, Err: err, UpdatedAt: now}
		return
	}
	t.statuses[key] = Status{State: StateSuccess, UpdatedAt: now}
}

func (t *tracker) get(key string) Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if s, ok := t.statuses[key]; ok {
		return s
	}
	return Status{State: StateIdle}
}
