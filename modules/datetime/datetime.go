// Package datetime implements a clock module: it re-renders on a fixed
// interval and toggles between two time layouts on the "toggle" action.
package datetime

import (
	"fmt"
	"sync"
	"time"

	"github.com/barkit/barkit/bar"
	"github.com/barkit/barkit/builder"
	"github.com/barkit/barkit/config"
	"github.com/barkit/barkit/core"
	"github.com/barkit/barkit/modules"
)

const Type = "datetime"

const tagDate = "<date>"

func init() {
	modules.Register(Type, New)
}

type Module struct {
	*core.Base

	interval time.Duration

	mu        sync.Mutex
	layout    string
	altLayout string
	alt       bool

	// now is swapped out in tests.
	now func() time.Time
}

func New(cfg config.ModuleConfig, deps modules.Deps) (bar.Module, error) {
	m := &Module{
		interval:  time.Second,
		layout:    "15:04:05",
		altLayout: "Mon Jan 2 15:04:05",
		now:       time.Now,
	}

	if v := cfg.Options["layout"]; v != "" {
		m.layout = v
	}
	if v := cfg.Options["layoutAlt"]; v != "" {
		m.altLayout = v
	}
	if v := cfg.Options["interval"]; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("module %s: bad interval %q: %w", cfg.Name, v, err)
		}
		m.interval = d
	}

	formats := modules.Formats(core.FormatMap{
		core.DefaultFormat: {Value: tagDate, Spacing: 1},
	}, cfg.Formats)

	m.Base = core.NewBase(core.Options{
		Name:         cfg.Name,
		Type:         Type,
		HandleEvents: cfg.HandlesEvents(),
		Logger:       deps.Logger,
		Sink:         deps.Sink,
		Formats:      formats,
		Builder:      builder.New(),
		Impl:         m,
		Loop:         m.loop,
	})

	m.Router().Register("toggle", m.toggle)
	return m, nil
}

func (m *Module) loop() {
	for m.Running() {
		m.Broadcast()
		m.Sleep(m.interval)
	}
}

func (m *Module) Build(b core.Builder, tag string) bool {
	if tag != tagDate {
		return false
	}
	m.mu.Lock()
	layout := m.layout
	if m.alt {
		layout = m.altLayout
	}
	m.mu.Unlock()
	b.Node(m.now().Format(layout))
	return true
}

func (m *Module) FormatName() string { return core.DefaultFormat }

func (m *Module) Teardown() {}

func (m *Module) toggle() {
	m.mu.Lock()
	m.alt = !m.alt
	m.mu.Unlock()
	m.Broadcast()
}
