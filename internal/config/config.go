package config

import (
	"fmt"
	"time"

	"github.com/reelworks/cutline/internal/engine/history"
)

// Config is the application configuration.
type Config struct {
	History HistoryConfig `toml:"history"`
}

// HistoryConfig configures the action history engine.
type HistoryConfig struct {
	// MaxEntries bounds the undo history.
	MaxEntries int `toml:"max_entries"`

	// DebounceMs is the quiet period for coalescing continuous edits.
	DebounceMs int `toml:"debounce_ms"`

	// DebounceableKinds are coalesced within the quiet period.
	DebounceableKinds []string `toml:"debounceable_kinds"`

	// ExcludedKinds are never recorded.
	ExcludedKinds []string `toml:"excluded_kinds"`
}

// Default returns the standard configuration, mirroring the engine's
// own defaults.
func Default() Config {
	def := history.DefaultConfig()
	return Config{
		History: HistoryConfig{
			MaxEntries:        def.MaxEntries,
			DebounceMs:        int(def.Debounce / time.Millisecond),
			DebounceableKinds: kindsToStrings(def.DebounceableKinds),
			ExcludedKinds:     kindsToStrings(def.ExcludedKinds),
		},
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.History.MaxEntries < 1 {
		return &ValidationError{Path: "history.max_entries", Message: "must be at least 1"}
	}
	if c.History.DebounceMs < 1 {
		return &ValidationError{Path: "history.debounce_ms", Message: "must be at least 1"}
	}
	for i, k := range c.History.DebounceableKinds {
		if k == "" {
			return &ValidationError{Path: fmt.Sprintf("history.debounceable_kinds[%d]", i), Message: "must not be empty"}
		}
	}
	for i, k := range c.History.ExcludedKinds {
		if k == "" {
			return &ValidationError{Path: fmt.Sprintf("history.excluded_kinds[%d]", i), Message: "must not be empty"}
		}
	}
	return nil
}

// EngineConfig converts the section into the engine's configuration.
func (h HistoryConfig) EngineConfig() history.Config {
	return history.Config{
		MaxEntries:        h.MaxEntries,
		Debounce:          time.Duration(h.DebounceMs) * time.Millisecond,
		DebounceableKinds: stringsToKinds(h.DebounceableKinds),
		ExcludedKinds:     stringsToKinds(h.ExcludedKinds),
	}
}

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Path, e.Message)
}

func kindsToStrings(kinds []history.ActionKind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

// stringsToKinds preserves nil, which the engine reads as "use defaults".
func stringsToKinds(kinds []string) []history.ActionKind {
	if kinds == nil {
		return nil
	}
	out := make([]history.ActionKind, len(kinds))
	for i, k := range kinds {
		out[i] = history.ActionKind(k)
	}
	return out
}
