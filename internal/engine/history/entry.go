package history

import (
	"time"

	"github.com/google/uuid"
)

// ActionKind categorizes an edit (e.g. "clip:add", "clip:resize").
// Kinds are closed tags chosen by the caller; the engine only compares
// them against the configured debounceable and excluded sets.
type ActionKind string

// Marker kinds emitted by the compound grouper.
const (
	ActionCompoundStart ActionKind = "compound:start"
	ActionCompoundEnd   ActionKind = "compound:end"
)

// Well-known editor kinds referenced by the default configuration.
const (
	ActionClipMove        ActionKind = "clip:move"
	ActionClipResize      ActionKind = "clip:resize"
	ActionClipTrim        ActionKind = "clip:trim"
	ActionSelectionChange ActionKind = "selection:change"
)

// EntryKind tags the variant of an Entry.
type EntryKind int

const (
	// EntryData carries undo/redo payloads the caller replays itself.
	EntryData EntryKind = iota

	// EntryCommand carries a Command the engine invokes on undo/redo.
	EntryCommand
)

// String returns the entry kind name.
func (k EntryKind) String() string {
	switch k {
	case EntryData:
		return "data"
	case EntryCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Entry is one recorded unit of undoable history.
// Entries are created by Record/Execute and never mutated afterwards;
// undo and redo only move the cursor across them.
type Entry struct {
	// ID uniquely identifies the entry, assigned at record time.
	ID string

	// Kind selects the variant: data payloads or an executable command.
	Kind EntryKind

	// Action is the category of edit.
	Action ActionKind

	// Description is the human-readable label for undo/redo menus.
	Description string

	// Timestamp is when the entry was created.
	Timestamp time.Time

	// UndoPayload and RedoPayload are opaque blobs supplied by the
	// caller for data entries. The engine never inspects them.
	UndoPayload any
	RedoPayload any

	// Scope partitions entries by editing surface (informational only).
	Scope string

	// GroupID is set when the entry was recorded inside a compound
	// group; all entries of one group share it.
	GroupID string

	command Command
}

func newDataEntry(action ActionKind, description string, undoPayload, redoPayload any, scope string) *Entry {
	return &Entry{
		ID:          uuid.New().String(),
		Kind:        EntryData,
		Action:      action,
		Description: description,
		Timestamp:   time.Now(),
		UndoPayload: undoPayload,
		RedoPayload: redoPayload,
		Scope:       scope,
	}
}

func newCommandEntry(cmd Command, scope string) *Entry {
	return &Entry{
		ID:          uuid.New().String(),
		Kind:        EntryCommand,
		Action:      "command",
		Description: cmd.Description(),
		Timestamp:   time.Now(),
		Scope:       scope,
		command:     cmd,
	}
}

// Command returns the entry's command for command entries.
func (e *Entry) Command() (Command, bool) {
	if e.Kind != EntryCommand || e.command == nil {
		return nil, false
	}
	return e.command, true
}

// IsMarker reports whether the entry is a compound group boundary.
func (e *Entry) IsMarker() bool {
	return e.Action == ActionCompoundStart || e.Action == ActionCompoundEnd
}

// applyForward applies the forward effect for entries that carry one.
// Data entries are the caller's responsibility and apply nothing here.
func (e *Entry) applyForward() error {
	if e.Kind == EntryCommand && e.command != nil {
		return e.command.Forward()
	}
	return nil
}

// applyBackward applies the inverse effect for entries that carry one.
func (e *Entry) applyBackward() error {
	if e.Kind == EntryCommand && e.command != nil {
		return e.command.Backward()
	}
	return nil
}

// EntryInfo is a read-only view of an entry for history panels.
type EntryInfo struct {
	ID          string
	Kind        EntryKind
	Action      ActionKind
	Description string
	Timestamp   time.Time
	Scope       string
	GroupID     string
	SavePoint   bool
}

func (e *Entry) info(savePoint bool) EntryInfo {
	return EntryInfo{
		ID:          e.ID,
		Kind:        e.Kind,
		Action:      e.Action,
		Description: e.Description,
		Timestamp:   e.Timestamp,
		Scope:       e.Scope,
		GroupID:     e.GroupID,
		SavePoint:   savePoint,
	}
}
