package bar_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barkit/barkit/bar"
	"github.com/barkit/barkit/core"
	"github.com/barkit/barkit/event"
)

type fakeModule struct {
	name         string
	contents     string
	handleEvents bool

	running atomic.Bool
	started atomic.Bool

	mu     sync.Mutex
	inputs []string
}

func (f *fakeModule) Name() string       { return "module/" + f.name }
func (f *fakeModule) NameRaw() string    { return f.name }
func (f *fakeModule) Type() string       { return "fake" }
func (f *fakeModule) Running() bool      { return f.running.Load() }
func (f *fakeModule) HandleEvents() bool { return f.handleEvents }
func (f *fakeModule) Contents() string   { return f.contents }

func (f *fakeModule) State() core.State {
	if f.running.Load() {
		return core.StateRunning
	}
	return core.StateStopped
}

func (f *fakeModule) Start() {
	f.running.Store(true)
	f.started.Store(true)
}

func (f *fakeModule) Stop()  { f.running.Store(false) }
func (f *fakeModule) Close() { f.Stop() }

func (f *fakeModule) Input(action, data string) bool {
	f.mu.Lock()
	f.inputs = append(f.inputs, action+":"+data)
	f.mu.Unlock()
	return action != "unknown"
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_RejectsDuplicateNames(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	_, err := bar.New(testLogger(), bus, io.Discard, " | ",
		&fakeModule{name: "date"},
		&fakeModule{name: "date"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate module name")
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	handled := &fakeModule{name: "cnt", handleEvents: true}
	gated := &fakeModule{name: "mute", handleEvents: false}

	bus := event.NewBus()
	e, err := bar.New(testLogger(), bus, io.Discard, " | ", handled, gated)
	require.NoError(t, err)

	assert.True(t, e.Dispatch("cnt", "increment", ""))
	assert.True(t, e.Dispatch("module/cnt", "set", "5"))
	assert.Equal(t, []string{"increment:", "set:5"}, handled.inputs)

	// Unknown action propagates the module's answer.
	assert.False(t, e.Dispatch("cnt", "unknown", ""))

	// Events gated off never reach the module.
	assert.False(t, e.Dispatch("mute", "increment", ""))
	assert.Empty(t, gated.inputs)

	// Unknown module.
	assert.False(t, e.Dispatch("nope", "increment", ""))
}

func TestRun_RendersAndStopsWhenAllModulesStop(t *testing.T) {
	t.Parallel()

	a := &fakeModule{name: "a", contents: "A"}
	b := &fakeModule{name: "b", contents: "B"}
	empty := &fakeModule{name: "empty"}

	bus := event.NewBus()
	var out bytes.Buffer
	e, err := bar.New(testLogger(), bus, &out, " | ", a, b, empty)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	// Wait for Run to have started the modules; the subscription happens
	// before that, so events emitted from here on are seen.
	require.Eventually(t, func() bool {
		return a.started.Load() && b.started.Load()
	}, 2*time.Second, 5*time.Millisecond)

	a.Stop()
	b.Stop()
	empty.Stop()
	bus.Emit(event.Event{Kind: event.CheckState, Module: a.Name()})

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not exit after all modules stopped")
	}

	// Empty module output is skipped, the rest joined by the separator.
	assert.Contains(t, out.String(), "A | B\n")
}

func TestRun_ContextCancellation(t *testing.T) {
	t.Parallel()

	m := &fakeModule{name: "a", contents: "A"}
	bus := event.NewBus()
	e, err := bar.New(testLogger(), bus, io.Discard, " | ", m)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	require.Eventually(t, func() bool { return m.started.Load() }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not exit on context cancellation")
	}
	assert.False(t, m.Running(), "modules must be closed on the way out")
}
