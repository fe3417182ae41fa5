package history

import "errors"

// CompoundScope provides a defer-friendly way to bracket a compound
// group. Usage:
//
//	func deleteSelection(eng *history.Engine) error {
//	    scope, err := eng.Compound("Delete selection")
//	    if err != nil {
//	        return err
//	    }
//	    defer scope.End()
//	    // ... record entries ...
//	    return nil
//	}
type CompoundScope struct {
	engine *Engine
	id     string
	active bool
}

// Compound starts a compound group and returns its scope.
func (e *Engine) Compound(description string) (*CompoundScope, error) {
	id, err := e.StartCompound(description)
	if err != nil {
		return nil, err
	}
	return &CompoundScope{
		engine: e,
		id:     id,
		active: true,
	}, nil
}

// ID returns the group id shared by entries recorded in this scope.
func (s *CompoundScope) ID() string {
	return s.id
}

// End closes the group. Safe to call more than once; only the first
// call has effect.
func (s *CompoundScope) End() error {
	if !s.active {
		return nil
	}
	s.active = false
	return s.engine.EndCompound()
}

// Transaction records everything fn does as a single compound group.
// The group is closed whether or not fn fails; entries already recorded
// inside it still undo as one step.
func (e *Engine) Transaction(description string, fn func() error) error {
	if _, err := e.StartCompound(description); err != nil {
		return err
	}

	err := fn()
	if endErr := e.EndCompound(); endErr != nil {
		return errors.Join(err, endErr)
	}
	return err
}
