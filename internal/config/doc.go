// Package config loads and validates the application configuration.
//
// Configuration lives in a TOML file with a section per subsystem;
// currently only the history engine is configured here:
//
//	[history]
//	max_entries = 200
//	debounce_ms = 250
//	debounceable_kinds = ["clip:move", "clip:resize", "clip:trim"]
//	excluded_kinds = ["selection:change"]
//
// A missing file is not an error: Load returns the defaults. The
// Watcher reloads the file on change and hands the freshly parsed
// Config to registered handlers, so the application can push updates
// into a running engine via SetConfig.
package config
