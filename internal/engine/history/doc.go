// Package history provides the action history engine for the editor:
// recording reversible edits and exposing undo/redo over them.
//
// # Entries
//
// An Entry is one recorded unit of undoable work. Entries come in two
// kinds:
//   - Data entries carry opaque undo/redo payloads that the caller
//     interprets to apply the inverse or forward effect. The engine
//     never inspects payload contents.
//   - Command entries carry a Command whose Forward/Backward methods
//     the engine invokes directly on undo/redo.
//
// # Engine
//
// The Engine owns an ordered entry sequence and a cursor. Recording
// truncates the redo tail, appends, and enforces the configured bound
// by dropping the oldest entries:
//
//	eng := history.New(history.DefaultConfig())
//
//	eng.Record("clip:add", "Add clip", before, after, "timeline")
//
//	entry, err := eng.Undo() // caller applies entry.UndoPayload
//	entry, err = eng.Redo()  // caller applies entry.RedoPayload
//
// # Debouncing
//
// Continuous edits (clip drags, resizes) recorded at high frequency are
// coalesced: calls of a debounceable kind replace a pending entry until
// a quiet period elapses, then the last one is committed as a single
// undo step. Recording a non-debounceable kind flushes the pending
// entry first so history order matches call order.
//
// # Compound groups
//
// Several entries can be grouped into one user-visible undo step:
//
//	id, _ := eng.StartCompound("Batch delete")
//	// ... record entries, each tagged with id ...
//	eng.EndCompound()
//
// Grouped entries sit between compound:start and compound:end marker
// entries and share one group id. Consumers walking undo output keep
// popping until they cross the matching marker.
//
// # Save points and observation
//
// MarkSavePoint tags the current cursor position as matching persisted
// state; callers compute the dirty flag from State. Subscribe registers
// a listener invoked once immediately and again after every mutating
// operation, with per-listener panic isolation.
package history
