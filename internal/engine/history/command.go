package history

import "fmt"

// Command represents an edit whose forward and inverse effects are
// encapsulated as behavior rather than data payloads. Commands close
// over caller-owned state; the engine only sequences them.
type Command interface {
	// Forward applies the edit.
	Forward() error

	// Backward reverses the edit.
	Backward() error

	// Description returns a human-readable label for undo/redo menus.
	Description() string
}

// FuncCommand adapts a pair of closures into a Command.
// Nil closures are no-ops.
type FuncCommand struct {
	Desc string
	Do   func() error
	Undo func() error
}

// Forward applies the Do closure.
func (c *FuncCommand) Forward() error {
	if c.Do == nil {
		return nil
	}
	return c.Do()
}

// Backward applies the Undo closure.
func (c *FuncCommand) Backward() error {
	if c.Undo == nil {
		return nil
	}
	return c.Undo()
}

// Description returns the command's label.
func (c *FuncCommand) Description() string {
	if c.Desc == "" {
		return "Edit"
	}
	return c.Desc
}

// BatchCommand groups an ordered sequence of commands into one unit.
// Forward applies front-to-back; Backward applies back-to-front. The
// strict reversal matters whenever sub-commands depend on each other
// (undoing "add track" + "add clip" must remove the clip first).
type BatchCommand struct {
	Name     string
	Commands []Command
}

// NewBatchCommand creates a batch over the given commands.
func NewBatchCommand(name string, commands ...Command) *BatchCommand {
	return &BatchCommand{
		Name:     name,
		Commands: commands,
	}
}

// Forward applies all sub-commands in insertion order.
// If one fails, the already-applied prefix is rolled back.
func (c *BatchCommand) Forward() error {
	for i, cmd := range c.Commands {
		if err := cmd.Forward(); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Backward()
			}
			return fmt.Errorf("batch %q step %d: %w", c.Description(), i, err)
		}
	}
	return nil
}

// Backward reverses all sub-commands in strict reverse order.
func (c *BatchCommand) Backward() error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Backward(); err != nil {
			return fmt.Errorf("undo batch %q step %d: %w", c.Description(), i, err)
		}
	}
	return nil
}

// Description returns the batch name, falling back to its contents.
func (c *BatchCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// Add appends a command to the batch.
func (c *BatchCommand) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty reports whether the batch has no commands.
func (c *BatchCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}
