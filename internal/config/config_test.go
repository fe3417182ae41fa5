package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reelworks/cutline/internal/engine/history"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.History.MaxEntries != history.DefaultMaxEntries {
		t.Errorf("MaxEntries = %d", cfg.History.MaxEntries)
	}
	if cfg.History.DebounceMs != 300 {
		t.Errorf("DebounceMs = %d, want 300", cfg.History.DebounceMs)
	}
	if len(cfg.History.DebounceableKinds) == 0 {
		t.Error("defaults should debounce continuous edit kinds")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero max entries", func(c *Config) { c.History.MaxEntries = 0 }, "history.max_entries"},
		{"zero debounce", func(c *Config) { c.History.DebounceMs = 0 }, "history.debounce_ms"},
		{"empty debounceable kind", func(c *Config) { c.History.DebounceableKinds = []string{""} }, "history.debounceable_kinds[0]"},
		{"empty excluded kind", func(c *Config) { c.History.ExcludedKinds = []string{"ok", ""} }, "history.excluded_kinds[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Errorf("path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestEngineConfig(t *testing.T) {
	h := HistoryConfig{
		MaxEntries:        50,
		DebounceMs:        250,
		DebounceableKinds: []string{"clip:move"},
		ExcludedKinds:     []string{},
	}

	ec := h.EngineConfig()

	if ec.MaxEntries != 50 {
		t.Errorf("MaxEntries = %d", ec.MaxEntries)
	}
	if ec.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v", ec.Debounce)
	}
	if len(ec.DebounceableKinds) != 1 || ec.DebounceableKinds[0] != history.ActionKind("clip:move") {
		t.Errorf("DebounceableKinds = %v", ec.DebounceableKinds)
	}
	if ec.ExcludedKinds == nil || len(ec.ExcludedKinds) != 0 {
		t.Error("explicit empty kinds must stay empty, not nil")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.History.MaxEntries != history.DefaultMaxEntries {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutline.toml")
	content := `
[history]
max_entries = 42
debounce_ms = 150
debounceable_kinds = ["clip:move"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.History.MaxEntries != 42 {
		t.Errorf("MaxEntries = %d, want 42", cfg.History.MaxEntries)
	}
	if cfg.History.DebounceMs != 150 {
		t.Errorf("DebounceMs = %d, want 150", cfg.History.DebounceMs)
	}
	if len(cfg.History.DebounceableKinds) != 1 {
		t.Errorf("DebounceableKinds = %v", cfg.History.DebounceableKinds)
	}
	// Keys absent from the file keep their defaults.
	if len(cfg.History.ExcludedKinds) == 0 {
		t.Error("excluded kinds should fall back to defaults")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutline.toml")
	if err := os.WriteFile(path, []byte("[history\nmax_entries = ???"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Path != path {
		t.Errorf("path = %q, want %q", perr.Path, path)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutline.toml")
	if err := os.WriteFile(path, []byte("[history]\nmax_entries = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
