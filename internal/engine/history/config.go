package history

import "time"

// Default configuration values.
const (
	DefaultMaxEntries = 100
	DefaultDebounce   = 300 * time.Millisecond
)

// Config controls an Engine.
type Config struct {
	// MaxEntries bounds the entry sequence; oldest entries are dropped
	// first when exceeded.
	MaxEntries int

	// Debounce is the quiet period for coalescing debounceable kinds.
	Debounce time.Duration

	// DebounceableKinds are coalesced within the quiet period.
	// A nil slice means the defaults; an empty slice disables debouncing.
	DebounceableKinds []ActionKind

	// ExcludedKinds are never recorded at all.
	// A nil slice means the defaults; an empty slice excludes nothing.
	ExcludedKinds []ActionKind
}

// DefaultConfig returns the standard editor configuration: continuous
// clip manipulations debounced, pure selection changes excluded.
func DefaultConfig() Config {
	return Config{
		MaxEntries: DefaultMaxEntries,
		Debounce:   DefaultDebounce,
		DebounceableKinds: []ActionKind{
			ActionClipMove,
			ActionClipResize,
			ActionClipTrim,
		},
		ExcludedKinds: []ActionKind{
			ActionSelectionChange,
		},
	}
}

// normalize fills unset fields with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.MaxEntries <= 0 {
		c.MaxEntries = def.MaxEntries
	}
	if c.Debounce <= 0 {
		c.Debounce = def.Debounce
	}
	if c.DebounceableKinds == nil {
		c.DebounceableKinds = def.DebounceableKinds
	}
	if c.ExcludedKinds == nil {
		c.ExcludedKinds = def.ExcludedKinds
	}
}

// clone returns a defensive copy.
func (c Config) clone() Config {
	out := c
	out.DebounceableKinds = append([]ActionKind(nil), c.DebounceableKinds...)
	out.ExcludedKinds = append([]ActionKind(nil), c.ExcludedKinds...)
	return out
}

// Patch is a partial configuration update for SetConfig.
// Nil fields leave the current value unchanged.
type Patch struct {
	MaxEntries        *int
	Debounce          *time.Duration
	DebounceableKinds []ActionKind
	ExcludedKinds     []ActionKind
}

func kindSet(kinds []ActionKind) map[ActionKind]struct{} {
	set := make(map[ActionKind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return set
}
