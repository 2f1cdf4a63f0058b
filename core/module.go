// Package core is the runtime base shared by every bar module. It owns the
// domain-independent machinery: lifecycle and goroutine coordination,
// output caching, action routing, and the tag renderer that turns a
// user-configured format string into widget output. Concrete modules embed
// *Base and supply the domain logic through the Renderable interface.
package core

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/barkit/barkit/event"
	"github.com/barkit/barkit/metrics"
)

// State is a module's lifecycle phase. The progression is strictly
// forward: once a module leaves Running it can never return.
type State int32

const (
	StateConstructed State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Renderable is the capability a concrete module hands to its Base so the
// base can invoke module-specific behavior without knowing the concrete
// type.
type Renderable interface {
	// Build renders one <tag> into the accumulator and reports whether it
	// produced output.
	Build(b Builder, tag string) bool
	// FormatName returns the name of the module's active format.
	FormatName() string
	// Teardown releases module-specific resources during the stop
	// sequence. Runs with no render in flight.
	Teardown()
}

// Options configures a Base.
type Options struct {
	// Name is the module's raw instance name, e.g. "date".
	Name string
	// Type is the static per-module-kind identifier, e.g. "datetime".
	Type string
	// HandleEvents gates whether external input should be routed to this
	// module at all.
	HandleEvents bool

	Logger  *slog.Logger
	Sink    event.Sink
	Formats Formatter
	Builder Builder

	// Impl is the concrete module's capability surface.
	Impl Renderable
	// Loop is the module's main loop, spawned by Start. It must exit once
	// Running reports false.
	Loop func()
}

// Base binds lifecycle, output cache, action router and renderer together
// and exposes the module contract to the bar engine.
type Base struct {
	log     *slog.Logger
	sink    event.Sink
	formats Formatter
	impl    Renderable
	loop    func()

	name         string
	nameRaw      string
	typ          string
	handleEvents bool

	router  *Router
	builder Builder

	enabled atomic.Bool
	state   atomic.Int32

	// buildMu serializes rebuilds and guards cache, dirty and the
	// accumulator. The stop sequence holds it while teardown runs so no
	// render is ever in flight during teardown.
	buildMu sync.Mutex
	cache   string
	dirty   bool

	// sleepMu guards the wake channel; Wakeup replaces it after closing,
	// releasing every sleeper parked on the old one.
	sleepMu sync.Mutex
	wake    chan struct{}

	wg sync.WaitGroup
}

func NewBase(opts Options) *Base {
	name := "module/" + opts.Name
	log := opts.Logger.With("module", name)
	return &Base{
		log:          log,
		sink:         opts.Sink,
		formats:      opts.Formats,
		impl:         opts.Impl,
		loop:         opts.Loop,
		name:         name,
		nameRaw:      opts.Name,
		typ:          opts.Type,
		handleEvents: opts.HandleEvents,
		router:       NewRouter(log, name),
		builder:      opts.Builder,
		dirty:        true,
		wake:         make(chan struct{}),
	}
}

// Name returns the qualified module name, "module/" + raw name.
func (b *Base) Name() string { return b.name }

// NameRaw returns the module's raw instance name.
func (b *Base) NameRaw() string { return b.nameRaw }

// Type returns the static module-kind identifier.
func (b *Base) Type() string { return b.typ }

// HandleEvents reports whether external input should be routed here.
func (b *Base) HandleEvents() bool { return b.handleEvents }

// Router exposes the action table for registration during construction.
func (b *Base) Router() *Router { return b.router }

// State returns the current lifecycle phase.
func (b *Base) State() State { return State(b.state.Load()) }

// Running reports whether the module is enabled. Read lock-free; worker
// loops poll it between blocking operations.
func (b *Base) Running() bool { return b.enabled.Load() }

// Start spawns the module's main loop. Only the first call on a
// constructed module has any effect.
func (b *Base) Start() {
	if !b.state.CompareAndSwap(int32(StateConstructed), int32(StateRunning)) {
		return
	}
	b.enabled.Store(true)
	b.log.Info("starting")
	if b.loop != nil {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.loop()
		}()
	}
}

// Spawn runs an auxiliary worker goroutine tracked by the module, so Close
// waits for it. Workers must exit once Running reports false.
func (b *Base) Spawn(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// Stop disables the module and runs the teardown sequence. Idempotent and
// irreversible. Entering the draining phase is a single atomic transition;
// the build lock is then held across wakeup and teardown so no worker is
// mid-render when module resources are released.
func (b *Base) Stop() {
	if !b.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) {
		// A module that never started has nothing to drain.
		b.state.CompareAndSwap(int32(StateConstructed), int32(StateStopped))
		return
	}

	b.log.Info("stopping")
	b.enabled.Store(false)

	b.buildMu.Lock()
	b.Wakeup()
	b.impl.Teardown()
	b.sink.Emit(event.Event{Kind: event.CheckState, Module: b.name})
	b.buildMu.Unlock()

	b.state.Store(int32(StateStopped))
}

// Halt disables the module after an unrecoverable failure. Only this
// module is taken down; the rest of the bar keeps running.
func (b *Base) Halt(message string) {
	b.log.Error(message)
	b.log.Info("stopping after failure")
	metrics.Halts.WithLabelValues(b.name).Inc()
	b.Stop()
}

// Close stops the module if still running and waits for every spawned
// goroutine to finish. Always safe to call, with or without a prior Stop.
func (b *Base) Close() {
	b.Stop()
	b.log.Debug("waiting for workers")
	b.wg.Wait()
}

// Sleep blocks the calling worker until the duration elapses or Wakeup is
// called, whichever comes first. Returns immediately when not running.
func (b *Base) Sleep(d time.Duration) {
	if !b.Running() {
		return
	}
	b.sleepMu.Lock()
	wake := b.wake
	b.sleepMu.Unlock()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-wake:
	}
}

// SleepUntil blocks like Sleep, until the given time point.
func (b *Base) SleepUntil(t time.Time) {
	b.Sleep(time.Until(t))
}

// Wakeup releases every worker currently blocked in Sleep or SleepUntil.
// Safe to call at any time, with or without sleepers.
func (b *Base) Wakeup() {
	b.log.Debug("releasing sleepers")
	b.sleepMu.Lock()
	close(b.wake)
	b.wake = make(chan struct{})
	b.sleepMu.Unlock()
}

// Idle yields the worker for a short fixed interval. Modules without
// timer-driven work call this from their loop.
func (b *Base) Idle() {
	if b.Running() {
		b.Sleep(25 * time.Millisecond)
	}
}

// Contents returns the module's rendered output, rebuilding it only when
// a Broadcast has marked the cache stale since the last rebuild.
func (b *Base) Contents() string {
	b.buildMu.Lock()
	defer b.buildMu.Unlock()

	if b.dirty {
		b.log.Debug("rebuilding cache")
		metrics.Rebuilds.WithLabelValues(b.name).Inc()

		out := b.render()
		// Make sure the accumulator is really empty.
		b.builder.Flush()
		if out != "" {
			// Reset styling after the module so nothing bleeds into
			// whatever the bar renders next.
			b.builder.Control(ControlReset)
			out += b.builder.Flush()
		}
		b.cache = out
		b.dirty = false
	}
	return b.cache
}

// Broadcast marks the cached output stale and notifies the bar engine
// that a redraw may be needed.
func (b *Base) Broadcast() {
	b.buildMu.Lock()
	b.dirty = true
	b.buildMu.Unlock()
	b.sink.Emit(event.Event{Kind: event.NotifyChange, Module: b.name})
}

// Input routes an external action to this module. Unknown actions are
// ignored and reported with a false return.
func (b *Base) Input(action, data string) bool {
	if !b.router.Has(action) {
		return false
	}
	b.router.Invoke(action, data)
	return true
}
