package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// waitFor polls until cond returns true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cutline.toml")
	writeConfig(t, path, "[history]\nmax_entries = 10\n")

	w, err := NewWatcher(path, WithSettleDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	reloaded := make(chan Config, 4)
	w.OnReload(func(cfg Config) { reloaded <- cfg })

	writeConfig(t, path, "[history]\nmax_entries = 77\n")

	ok := waitFor(t, 3*time.Second, func() bool {
		select {
		case cfg := <-reloaded:
			return cfg.History.MaxEntries == 77
		default:
			return false
		}
	})
	if !ok {
		t.Fatal("watcher did not deliver the reloaded config")
	}
}

func TestWatcherReloadsOnReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cutline.toml")
	writeConfig(t, path, "[history]\nmax_entries = 10\n")

	w, err := NewWatcher(path, WithSettleDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	reloaded := make(chan Config, 4)
	w.OnReload(func(cfg Config) { reloaded <- cfg })

	// Editor-style save: write a temp file, rename over the original.
	tmp := filepath.Join(dir, ".cutline.toml.tmp")
	writeConfig(t, tmp, "[history]\nmax_entries = 55\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	ok := waitFor(t, 3*time.Second, func() bool {
		select {
		case cfg := <-reloaded:
			return cfg.History.MaxEntries == 55
		default:
			return false
		}
	})
	if !ok {
		t.Fatal("watcher did not survive replace-on-save")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cutline.toml")
	writeConfig(t, path, "[history]\nmax_entries = 10\n")

	w, err := NewWatcher(path, WithSettleDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	reloads := make(chan struct{}, 4)
	w.OnReload(func(Config) { reloads <- struct{}{} })

	writeConfig(t, filepath.Join(dir, "unrelated.txt"), "noise")

	if waitFor(t, 300*time.Millisecond, func() bool {
		select {
		case <-reloads:
			return true
		default:
			return false
		}
	}) {
		t.Error("unrelated file change triggered a reload")
	}
}

func TestWatcherReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cutline.toml")
	writeConfig(t, path, "[history]\nmax_entries = 10\n")

	errs := make(chan error, 4)
	w, err := NewWatcher(path,
		WithSettleDelay(20*time.Millisecond),
		WithErrorHandler(func(err error) { errs <- err }),
	)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	writeConfig(t, path, "not toml at all [[[")

	ok := waitFor(t, 3*time.Second, func() bool {
		select {
		case <-errs:
			return true
		default:
			return false
		}
	})
	if !ok {
		t.Fatal("watcher did not report the parse error")
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cutline.toml")
	writeConfig(t, path, "[history]\nmax_entries = 10\n")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
