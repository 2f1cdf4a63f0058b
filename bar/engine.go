// Package bar drives the bar: it owns the module set, consumes module
// events, assembles the output line and coordinates shutdown.
package bar

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/barkit/barkit/core"
	"github.com/barkit/barkit/event"
)

// Module is the contract a widget exposes to the engine. *core.Base
// satisfies it.
type Module interface {
	Name() string
	NameRaw() string
	Type() string
	State() core.State
	Running() bool
	HandleEvents() bool
	Start()
	Stop()
	Close()
	Contents() string
	Input(action, data string) bool
}

// Engine runs a set of modules and writes the assembled bar line to out
// whenever a module reports changed content.
type Engine struct {
	log       *slog.Logger
	bus       *event.Bus
	out       io.Writer
	separator string
	modules   []Module

	mu       sync.Mutex
	lastLine string
}

// New validates the module set (names must be unique) and builds an
// engine. Modules render in the given order.
func New(log *slog.Logger, bus *event.Bus, out io.Writer, separator string, mods ...Module) (*Engine, error) {
	seen := make(map[string]bool, len(mods))
	for _, m := range mods {
		if seen[m.Name()] {
			return nil, errors.New("duplicate module name: " + m.Name())
		}
		seen[m.Name()] = true
	}
	return &Engine{
		log:       log,
		bus:       bus,
		out:       out,
		separator: separator,
		modules:   mods,
	}, nil
}

// Modules returns the engine's module set in render order.
func (e *Engine) Modules() []Module {
	return e.modules
}

// Run starts every module and loops over bus events until the context is
// cancelled, a termination signal arrives, or every module has stopped.
// Modules are closed in reverse order on the way out.
func (e *Engine) Run(ctx context.Context) error {
	events := e.bus.Subscribe(64)

	for _, m := range e.modules {
		e.log.Info("starting module", "module", m.Name(), "type", m.Type())
		m.Start()
	}
	e.render()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return ctx.Err()
		case <-stop:
			e.shutdown()
			return nil
		case evt := <-events:
			switch evt.Kind {
			case event.NotifyChange:
				e.render()
			case event.CheckState:
				if !e.anyRunning() {
					e.log.Info("all modules stopped")
					e.shutdown()
					return nil
				}
			}
		}
	}
}

// Dispatch routes an external action to the named module. Returns false
// when the module is unknown, does not handle events, or does not know the
// action.
func (e *Engine) Dispatch(module, action, data string) bool {
	for _, m := range e.modules {
		if m.NameRaw() != module && m.Name() != module {
			continue
		}
		if !m.HandleEvents() {
			e.log.Debug("input ignored", "module", m.Name(), "action", action)
			return false
		}
		return m.Input(action, data)
	}
	return false
}

// render assembles the bar line from non-empty module outputs and writes
// it when it differs from the last rendered line.
func (e *Engine) render() {
	parts := make([]string, 0, len(e.modules))
	for _, m := range e.modules {
		if c := m.Contents(); c != "" {
			parts = append(parts, c)
		}
	}
	line := strings.Join(parts, e.separator)

	e.mu.Lock()
	defer e.mu.Unlock()
	if line == e.lastLine {
		return
	}
	e.lastLine = line
	if _, err := io.WriteString(e.out, line+"\n"); err != nil {
		e.log.Error("write output", "error", err)
	}
}

func (e *Engine) anyRunning() bool {
	for _, m := range e.modules {
		if m.Running() {
			return true
		}
	}
	return false
}

func (e *Engine) shutdown() {
	for i := len(e.modules) - 1; i >= 0; i-- {
		m := e.modules[i]
		e.log.Info("stopping module", "module", m.Name())
		m.Close()
	}
}
