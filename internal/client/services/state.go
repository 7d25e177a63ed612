package services

import "sync"

// tracker is the loading/error state every store embeds. The loading flag
// flips on every operation entry and exit; the last error detail survives
// until the next operation starts.
type tracker struct {
	stateMu sync.RWMutex
	loading bool
	lastErr string
}

func (t *tracker) begin() {
	t.stateMu.Lock()
	t.loading = true
	t.lastErr = ""
	t.stateMu.Unlock()
}

func (t *tracker) finish(err error) {
	t.stateMu.Lock()
	t.loading = false
	if err != nil {
		t.lastErr = err.Error()
	}
	t.stateMu.Unlock()
}

// Loading reports whether an operation is in flight.
func (t *tracker) Loading() bool {
	t.stateMu.RLock()
	defer t.stateMu.RUnlock()
	return t.loading
}

// Err returns the detail of the last failed operation, or "".
func (t *tracker) Err() string {
	t.stateMu.RLock()
	defer t.stateMu.RUnlock()
	return t.lastErr
}
