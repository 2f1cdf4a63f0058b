package config

import "time"

// BarConfig controls the rendered output line.
type BarConfig struct {
	// Separator is placed between non-empty module outputs.
	Separator string `config:"separator"`
}

// IntrospectConfig controls the optional HTTP inspection server.
type IntrospectConfig struct {
	Enabled      bool          `config:"enabled"`
	Addr         string        `config:"addr"`
	ReadTimeout  time.Duration `config:"readTimeout"`
	WriteTimeout time.Duration `config:"writeTimeout"`
}

// LoggingConfig selects the log level: debug, info, warn or error.
type LoggingConfig struct {
	Level string `config:"level" validate:"omitempty,oneof=debug info warn error"`
}

// FormatConfig is one named output format of a module.
type FormatConfig struct {
	Value   string `config:"value" validate:"required"`
	Spacing int    `config:"spacing" validate:"min=0"`
	Prefix  string `config:"prefix"`
	Suffix  string `config:"suffix"`
}

// ModuleConfig declares one module instance on the bar.
type ModuleConfig struct {
	Name string `config:"name" validate:"required"`
	Type string `config:"type" validate:"required"`

	// HandleEvents gates external input routing. Defaults to true when
	// unset, hence the pointer.
	HandleEvents *bool `config:"handleEvents"`

	// Formats overrides the module's built-in formats by name.
	Formats map[string]FormatConfig `config:"formats" validate:"dive"`

	// Options carries module-type-specific settings.
	Options map[string]string `config:"options"`
}

// HandlesEvents resolves the HandleEvents gate with its default.
func (m ModuleConfig) HandlesEvents() bool {
	return m.HandleEvents == nil || *m.HandleEvents
}

// Root is the full bar configuration.
type Root struct {
	Bar        BarConfig        `config:"bar"`
	Introspect IntrospectConfig `config:"introspect"`
	Logging    LoggingConfig    `config:"logging"`
	Modules    []ModuleConfig   `config:"modules" validate:"dive"`
}

// ApplyDefaults fills the fields the sources left empty.
func (r *Root) ApplyDefaults() {
	if r.Bar.Separator == "" {
		r.Bar.Separator = " | "
	}
	if r.Introspect.Addr == "" {
		r.Introspect.Addr = ":9363"
	}
	if r.Introspect.ReadTimeout == 0 {
		r.Introspect.ReadTimeout = 5 * time.Second
	}
	if r.Introspect.WriteTimeout == 0 {
		r.Introspect.WriteTimeout = 10 * time.Second
	}
	if r.Logging.Level == "" {
		r.Logging.Level = "info"
	}
}
