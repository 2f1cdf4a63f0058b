// Package modules holds the factory registry mapping configured module
// types to constructors, plus the concrete module implementations in its
// subpackages. Module packages register themselves from init, so the
// composition root imports them for side effects.
package modules

import (
	"fmt"
	"log/slog"

	"github.com/barkit/barkit/bar"
	"github.com/barkit/barkit/config"
	"github.com/barkit/barkit/core"
	"github.com/barkit/barkit/event"
)

// Deps carries the collaborators every module receives at construction.
type Deps struct {
	Logger *slog.Logger
	Sink   event.Sink
}

// Factory builds one module instance from its configuration.
type Factory func(cfg config.ModuleConfig, deps Deps) (bar.Module, error)

var registry = map[string]Factory{}

// Register binds a module type name to its factory. Called from module
// package init functions; duplicate registration is a programming error.
func Register(typ string, f Factory) {
	if _, dup := registry[typ]; dup {
		panic(fmt.Sprintf("modules: type %q registered twice", typ))
	}
	registry[typ] = f
}

// New constructs the module described by cfg.
func New(cfg config.ModuleConfig, deps Deps) (bar.Module, error) {
	f, ok := registry[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown module type %q for module %q", cfg.Type, cfg.Name)
	}
	return f(cfg, deps)
}

// Formats merges a module's built-in formats with the user's overrides.
func Formats(defaults core.FormatMap, overrides map[string]config.FormatConfig) core.FormatMap {
	out := make(core.FormatMap, len(defaults))
	for name, f := range defaults {
		cp := *f
		out[name] = &cp
	}
	for name, fc := range overrides {
		out[name] = &core.Format{
			Value:   fc.Value,
			Spacing: fc.Spacing,
			Prefix:  fc.Prefix,
			Suffix:  fc.Suffix,
		}
	}
	return out
}
