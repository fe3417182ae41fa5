package history

import "time"

// Debounce coalescing: the first record of a debounceable kind parks
// the entry as pending and starts the quiet-period timer; each further
// record of the same kind replaces the pending entry and restarts the
// timer; when the timer fires undisturbed, the last pending entry is
// committed as a single undo step. A record of a different kind ends
// the burst: the pending entry is committed first so both edits stay
// in history in call order.
//
// The generation counter makes cancellation exact: every restart,
// flush, cancel, Clear, and Initialize bumps it, so a timer callback
// that lost the race finds a stale generation and commits nothing.

// restartDebounceLocked parks the entry as pending and (re)starts the
// quiet-period timer. Caller holds e.mu.
func (e *Engine) restartDebounceLocked(entry *Entry) {
	e.pending = entry

	if e.timer != nil {
		e.timer.Stop()
	}
	e.timerGen++
	gen := e.timerGen
	e.timer = time.AfterFunc(e.cfg.Debounce, func() {
		e.commitPending(gen)
	})
}

// commitPending is the timer callback: commit the pending entry unless
// the generation moved on since the timer was armed.
func (e *Engine) commitPending(gen uint64) {
	e.mu.Lock()
	if gen != e.timerGen || e.pending == nil {
		e.mu.Unlock()
		return
	}
	entry := e.pending
	e.pending = nil
	e.timer = nil
	e.recordLocked(entry)
	e.mu.Unlock()

	e.fanout.notify()
}

// flushPendingLocked commits a pending debounced entry immediately,
// preserving causal order ahead of whatever the caller is about to do.
// It reports whether an entry was committed, so callers that can fail
// afterwards know history changed and listeners must still hear about
// it. Caller holds e.mu.
func (e *Engine) flushPendingLocked() bool {
	e.cancelDebounceLocked()
	if e.pending == nil {
		return false
	}
	entry := e.pending
	e.pending = nil
	e.recordLocked(entry)
	return true
}

// cancelDebounceLocked stops the timer and invalidates any in-flight
// callback without touching the pending entry. Caller holds e.mu.
func (e *Engine) cancelDebounceLocked() {
	e.timerGen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// discardPendingLocked cancels the timer and drops the pending entry
// without committing it. Caller holds e.mu.
func (e *Engine) discardPendingLocked() {
	e.cancelDebounceLocked()
	e.pending = nil
}
