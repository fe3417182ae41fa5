package history

import "errors"

// Common errors for history operations.
//
// ErrNothingToUndo and ErrNothingToRedo are soft boundary results, not
// failures: callers typically disable the corresponding affordance when
// CanUndo/CanRedo report false. The compound errors indicate caller
// bugs and should surface during development.
var (
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrNothingToRedo  = errors.New("nothing to redo")
	ErrCompoundActive = errors.New("compound group already active")
	ErrNoCompound     = errors.New("no compound group active")
	ErrNilCommand     = errors.New("nil command")
	ErrInvalidState   = errors.New("invalid engine state")
)
