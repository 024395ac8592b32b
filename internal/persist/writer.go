package persist

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/alimkhann/odin-todo/internal/state"
)

// DefaultSaveDelay is the trailing debounce interval for the writer.
const DefaultSaveDelay = 300 * time.Millisecond

// Writer persists state changes with a trailing debounce: a burst of
// dispatches results in a single save of the latest state once the
// burst has been quiet for the delay. Save failures are logged and
// swallowed; persistence must not take the app down.
type Writer struct {
	backend  Backend
	getState func() state.AppState
	delay    time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	timer  *time.Timer
	dirty  bool
	closed bool

	// saveMu serializes save itself: a fired timer and an explicit
	// Flush may race into save concurrently, and the backend must see
	// one write at a time.
	saveMu sync.Mutex
}

// NewWriter builds a writer over the backend. getState is called at
// save time so the latest state always wins. A delay of zero uses
// DefaultSaveDelay.
func NewWriter(backend Backend, getState func() state.AppState, delay time.Duration, logger *slog.Logger) *Writer {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &Writer{
		backend:  backend,
		getState: getState,
		delay:    delay,
		logger:   logger,
	}
}

// Notify schedules a save, restarting the debounce window. Safe to
// call from store listeners.
func (w *Writer) Notify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.dirty = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.save)
}

// Flush cancels any pending timer and saves unpersisted changes
// immediately. A no-op when nothing changed since the last save.
func (w *Writer) Flush() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	w.save()
}

// Close flushes pending changes and stops the writer. Further Notify
// calls are no-ops.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.closed = true
	w.mu.Unlock()
	w.save()
}

// save persists the current state if there are unpersisted changes. A
// stale timer firing after a Flush already saved finds dirty unset and
// does nothing, so each burst of changes is written exactly once.
func (w *Writer) save() {
	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	w.mu.Lock()
	if !w.dirty {
		w.mu.Unlock()
		return
	}
	w.dirty = false
	w.mu.Unlock()

	data, err := json.Marshal(Serialize(w.getState()))
	if err != nil {
		w.logger.Error("serializing state failed", "err", err)
		return
	}
	if err := w.backend.Save(data); err != nil {
		w.logger.Error("saving state failed", "err", err)
		return
	}
	w.logger.Debug("state saved", "bytes", len(data))
}
