package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Engine records reversible edits and exposes undo/redo over them.
// Each editing surface constructs its own Engine; there is no shared
// global instance.
//
// All operations are safe for concurrent use, though the expected
// caller is a single editing session; the mutex exists because the
// debounce timer commits from its own goroutine. Command closures and
// listeners always run outside the lock.
type Engine struct {
	mu sync.Mutex

	cfg          Config
	debounceable map[ActionKind]struct{}
	excluded     map[ActionKind]struct{}

	store      entryStore
	savePoints map[string]struct{}

	// Active compound group; empty when none.
	groupID string

	// Debounce state
	pending  *Entry
	timer    *time.Timer
	timerGen uint64

	fanout fanout
}

// Option configures an Engine.
type Option func(*Engine)

// WithPanicHandler sets a handler for panics recovered from listeners.
// Without one, recovered panics are discarded.
func WithPanicHandler(fn func(recovered any)) Option {
	return func(e *Engine) {
		e.fanout.panicHandler = fn
	}
}

// New creates an engine with the given configuration.
// Zero-value config fields fall back to DefaultConfig values.
func New(cfg Config, opts ...Option) *Engine {
	cfg.normalize()

	e := &Engine{
		cfg:          cfg,
		debounceable: kindSet(cfg.DebounceableKinds),
		excluded:     kindSet(cfg.ExcludedKinds),
		store:        newEntryStore(),
		savePoints:   make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Record adds a data entry for an edit the caller has already applied.
// Excluded kinds are dropped. Debounceable kinds are parked until the
// quiet period elapses; everything else commits immediately, flushing
// any pending debounced entry first so history order matches call
// order. Recording invalidates the redo tail.
func (e *Engine) Record(action ActionKind, description string, undoPayload, redoPayload any, scope string) {
	e.mu.Lock()

	if _, skip := e.excluded[action]; skip {
		e.mu.Unlock()
		return
	}

	entry := newDataEntry(action, description, undoPayload, redoPayload, scope)
	entry.GroupID = e.groupID

	if _, ok := e.debounceable[action]; ok {
		// Only same-kind records coalesce. A pending entry of another
		// kind is committed first so history order matches call order.
		if e.pending != nil && e.pending.Action != entry.Action {
			e.flushPendingLocked()
		}
		e.restartDebounceLocked(entry)
	} else {
		e.flushPendingLocked()
		e.recordLocked(entry)
	}
	e.mu.Unlock()

	e.fanout.notify()
}

// Execute applies the command's forward effect and records it.
// On undo the engine invokes the command's Backward itself; no
// caller-side replay is needed.
func (e *Engine) Execute(cmd Command) error {
	if cmd == nil {
		return ErrNilCommand
	}

	e.mu.Lock()
	flushed := e.flushPendingLocked()
	groupID := e.groupID
	e.mu.Unlock()

	if err := cmd.Forward(); err != nil {
		// The flush above may have committed an entry even though the
		// command itself is not recorded.
		if flushed {
			e.fanout.notify()
		}
		return err
	}

	e.mu.Lock()
	entry := newCommandEntry(cmd, "")
	entry.GroupID = groupID
	e.recordLocked(entry)
	e.mu.Unlock()

	e.fanout.notify()
	return nil
}

// Undo moves the cursor back one entry and returns it. For command
// entries the command's Backward has already been invoked; for data
// entries the caller applies the undo payload. Returns
// ErrNothingToUndo when the cursor is at the bottom.
func (e *Engine) Undo() (*Entry, error) {
	e.mu.Lock()
	e.flushPendingLocked()
	entry, ok := e.store.undo()
	e.mu.Unlock()

	if !ok {
		return nil, ErrNothingToUndo
	}

	// Run the inverse effect outside the lock.
	if err := entry.applyBackward(); err != nil {
		e.mu.Lock()
		e.store.redo() // restore cursor on failure
		e.mu.Unlock()
		return nil, fmt.Errorf("undo %q: %w", entry.Description, err)
	}

	e.fanout.notify()
	return entry, nil
}

// Redo moves the cursor forward one entry and returns it. For command
// entries the command's Forward has already been re-invoked. Returns
// ErrNothingToRedo when no redo tail exists.
func (e *Engine) Redo() (*Entry, error) {
	e.mu.Lock()
	e.flushPendingLocked()
	entry, ok := e.store.redo()
	e.mu.Unlock()

	if !ok {
		return nil, ErrNothingToRedo
	}

	if err := entry.applyForward(); err != nil {
		e.mu.Lock()
		e.store.undo() // restore cursor on failure
		e.mu.Unlock()
		return nil, fmt.Errorf("redo %q: %w", entry.Description, err)
	}

	e.fanout.notify()
	return entry, nil
}

// StartCompound opens a named group: a compound:start marker is
// recorded carrying the fresh group id as its redo payload, and every
// entry recorded until EndCompound is tagged with that id. Nesting is
// a caller error.
func (e *Engine) StartCompound(description string) (string, error) {
	e.mu.Lock()
	if e.groupID != "" {
		e.mu.Unlock()
		return "", ErrCompoundActive
	}

	e.flushPendingLocked()

	id := uuid.New().String()
	marker := newDataEntry(ActionCompoundStart, description, nil, id, "")
	e.recordLocked(marker)
	e.groupID = id
	e.mu.Unlock()

	e.fanout.notify()
	return id, nil
}

// EndCompound closes the open group with a compound:end marker.
// The marker itself is not tagged with the group id, so it delimits
// the group boundary. A pending debounced entry recorded inside the
// group is committed first to keep the group contiguous.
func (e *Engine) EndCompound() error {
	e.mu.Lock()
	if e.groupID == "" {
		e.mu.Unlock()
		return ErrNoCompound
	}

	e.flushPendingLocked()

	id := e.groupID
	e.groupID = ""
	marker := newDataEntry(ActionCompoundEnd, "", id, nil, "")
	e.recordLocked(marker)
	e.mu.Unlock()

	e.fanout.notify()
	return nil
}

// MarkSavePoint marks the entry at the cursor as matching persisted
// state. It reports whether a mark was placed; with empty history it
// is a no-op. Dirty state is computed by the caller from State:
// "cursor does not correspond to any marked save point".
func (e *Engine) MarkSavePoint() bool {
	e.mu.Lock()
	e.flushPendingLocked()
	cur, ok := e.store.current()
	if !ok {
		e.mu.Unlock()
		return false
	}
	e.savePoints[cur.ID] = struct{}{}
	e.mu.Unlock()

	e.fanout.notify()
	return true
}

// Clear resets the engine to the empty state and cancels any pending
// debounce so no commit can occur after Clear returns.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.discardPendingLocked()
	e.store.clear()
	e.savePoints = make(map[string]struct{})
	e.groupID = ""
	e.mu.Unlock()

	e.fanout.notify()
}

// SetConfig applies a partial configuration update. Lowering
// MaxEntries re-trims existing entries to the new bound immediately.
func (e *Engine) SetConfig(p Patch) {
	e.mu.Lock()
	if p.MaxEntries != nil {
		e.cfg.MaxEntries = *p.MaxEntries
		if e.cfg.MaxEntries <= 0 {
			e.cfg.MaxEntries = DefaultMaxEntries
		}
		e.dropSavePointsLocked(e.store.trim(e.cfg.MaxEntries))
	}
	if p.Debounce != nil && *p.Debounce > 0 {
		e.cfg.Debounce = *p.Debounce
	}
	if p.DebounceableKinds != nil {
		e.cfg.DebounceableKinds = append([]ActionKind(nil), p.DebounceableKinds...)
		e.debounceable = kindSet(e.cfg.DebounceableKinds)
	}
	if p.ExcludedKinds != nil {
		e.cfg.ExcludedKinds = append([]ActionKind(nil), p.ExcludedKinds...)
		e.excluded = kindSet(e.cfg.ExcludedKinds)
	}
	e.mu.Unlock()

	e.fanout.notify()
}

// Subscribe registers a listener and invokes it once immediately so a
// newly mounted observer can render current state. The listener runs
// again after every mutating operation. The returned function removes
// the subscription.
func (e *Engine) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	unsubscribe = e.fanout.subscribe(fn)
	e.fanout.safeCall(fn)
	return unsubscribe
}

// CanUndo reports whether an entry is available to undo.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.canUndo()
}

// CanRedo reports whether a redo tail exists.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.canRedo()
}

// UndoDescription returns the label of the entry Undo would return.
func (e *Engine) UndoDescription() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur, ok := e.store.current()
	if !ok {
		return "", false
	}
	return cur.Description, true
}

// RedoDescription returns the label of the entry Redo would return.
func (e *Engine) RedoDescription() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, ok := e.store.next()
	if !ok {
		return "", false
	}
	return next.Description, true
}

// Size returns the number of recorded entries.
// A pending debounced entry is not yet recorded and does not count.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.size()
}

// History returns a most-recent-first snapshot for a history panel.
func (e *Engine) History() []EntryInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]EntryInfo, 0, e.store.size())
	for i := e.store.size() - 1; i >= 0; i-- {
		entry := e.store.entries[i]
		_, saved := e.savePoints[entry.ID]
		out = append(out, entry.info(saved))
	}
	return out
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.clone()
}

// State is a snapshot of the engine for the caller-owned persistence
// layer. Command entries carry closures and do not survive
// serialization; the caller decides what to persist.
type State struct {
	Entries    []Entry
	Cursor     int
	SavePoints []string
}

// State returns a defensive copy of the engine state.
// Save point ids appear in entry order.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := State{
		Entries: make([]Entry, e.store.size()),
		Cursor:  e.store.cursor,
	}
	for i, entry := range e.store.entries {
		s.Entries[i] = *entry
		if _, ok := e.savePoints[entry.ID]; ok {
			s.SavePoints = append(s.SavePoints, entry.ID)
		}
	}
	return s
}

// Initialize loads a previously captured state, or resets to empty
// when given nil. Save points whose entries are absent are dropped;
// the loaded sequence is trimmed to the configured bound.
func (e *Engine) Initialize(s *State) error {
	e.mu.Lock()

	e.discardPendingLocked()
	e.groupID = ""

	if s == nil {
		e.store.clear()
		e.savePoints = make(map[string]struct{})
		e.mu.Unlock()
		e.fanout.notify()
		return nil
	}

	if s.Cursor < -1 || s.Cursor >= len(s.Entries) {
		e.mu.Unlock()
		return fmt.Errorf("%w: cursor %d out of range for %d entries", ErrInvalidState, s.Cursor, len(s.Entries))
	}

	entries := make([]*Entry, len(s.Entries))
	ids := make(map[string]struct{}, len(s.Entries))
	for i := range s.Entries {
		entry := s.Entries[i]
		entries[i] = &entry
		ids[entry.ID] = struct{}{}
	}

	savePoints := make(map[string]struct{})
	for _, id := range s.SavePoints {
		if _, ok := ids[id]; ok {
			savePoints[id] = struct{}{}
		}
	}

	e.store = entryStore{entries: entries, cursor: s.Cursor}
	e.savePoints = savePoints
	e.dropSavePointsLocked(e.store.trim(e.cfg.MaxEntries))
	e.mu.Unlock()

	e.fanout.notify()
	return nil
}

// recordLocked pushes an entry and invalidates save points of every
// entry removed by redo-tail truncation or bound trimming.
// Caller holds e.mu.
func (e *Engine) recordLocked(entry *Entry) {
	e.dropSavePointsLocked(e.store.record(entry, e.cfg.MaxEntries))
}

func (e *Engine) dropSavePointsLocked(removed []*Entry) {
	for _, entry := range removed {
		delete(e.savePoints, entry.ID)
	}
}
