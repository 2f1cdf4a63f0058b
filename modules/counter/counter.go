// Package counter implements a minimal action-driven module: a labelled
// integer adjusted through external input. It exists mostly to exercise
// payload-carrying actions end to end.
package counter

import (
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/barkit/barkit/bar"
	"github.com/barkit/barkit/builder"
	"github.com/barkit/barkit/config"
	"github.com/barkit/barkit/core"
	"github.com/barkit/barkit/modules"
)

const Type = "counter"

const (
	tagLabel   = "<label>"
	tagCounter = "<counter>"
)

func init() {
	modules.Register(Type, New)
}

type Module struct {
	*core.Base

	log   *slog.Logger
	label string
	value atomic.Int64
}

func New(cfg config.ModuleConfig, deps modules.Deps) (bar.Module, error) {
	m := &Module{
		log:   deps.Logger,
		label: cfg.Options["label"],
	}

	formats := modules.Formats(core.FormatMap{
		core.DefaultFormat: {Value: tagLabel + tagCounter, Spacing: 1},
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

	m.Router().Register("increment", m.increment)
	m.Router().Register("reset", m.reset)
	m.Router().RegisterWithData("set", m.set)
	return m, nil
}

func (m *Module) loop() {
	for m.Running() {
		m.Idle()
	}
}

func (m *Module) Build(b core.Builder, tag string) bool {
	switch tag {
	case tagLabel:
		if m.label == "" {
			return false
		}
		b.Node(m.label)
		return true
	case tagCounter:
		b.Node(strconv.FormatInt(m.value.Load(), 10))
		return true
	}
	return false
}

func (m *Module) FormatName() string { return core.DefaultFormat }

func (m *Module) Teardown() {}

func (m *Module) increment() {
	m.value.Add(1)
	m.Broadcast()
}

func (m *Module) reset() {
	m.value.Store(0)
	m.Broadcast()
}

func (m *Module) set(data string) {
	v, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		m.log.Warn("ignoring set action with non-numeric data",
			"module", m.Name(), "data", data)
		return
	}
	m.value.Store(v)
	m.Broadcast()
}
