// Package config loads the bar configuration from layered sources (file,
// environment, command line), binds it onto typed structs and validates
// the result. Later sources override earlier ones.
package config

import "context"

// Source is one provider of configuration data.
//
// Load must be safe for concurrent use. Watch is optional; sources that
// cannot observe changes return nil immediately.
type Source interface {
	// Load retrieves the source's data as a string-keyed, possibly nested
	// map. Implementations return a copy the caller may own.
	Load(ctx context.Context) (map[string]any, error)

	// Watch sends a change event on ch whenever the source's data
	// changes, until ctx is cancelled. The channel is never closed by the
	// implementation.
	Watch(ctx context.Context, ch chan<- Event) error

	// Name identifies the source in errors and logs, e.g. "file", "env".
	Name() string
}

// Event describes a configuration change detected during a reload.
type Event struct {
	// ChangedKeys lists the top-level struct fields whose values differ
	// between OldConfig and NewConfig.
	ChangedKeys []string
	OldConfig   any
	NewConfig   any
}
