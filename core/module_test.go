package core_test

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barkit/barkit/builder"
	"github.com/barkit/barkit/core"
	"github.com/barkit/barkit/event"
)

const ansiReset = "\x1b[0m"

// fakeImpl renders fixed strings per tag and counts invocations.
type fakeImpl struct {
	tags      map[string]string
	builds    atomic.Int32
	teardowns atomic.Int32
}

func (f *fakeImpl) Build(b core.Builder, tag string) bool {
	f.builds.Add(1)
	out, ok := f.tags[tag]
	if !ok || out == "" {
		return false
	}
	b.Node(out)
	return true
}

func (f *fakeImpl) FormatName() string { return core.DefaultFormat }

func (f *fakeImpl) Teardown() { f.teardowns.Add(1) }

// fakeSink records emitted events.
type fakeSink struct {
	mu     sync.Mutex
	events []event.Event
}

func (s *fakeSink) Emit(e event.Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *fakeSink) count(k event.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

type testModule struct {
	*core.Base
	impl *fakeImpl
	sink *fakeSink
}

func newTestModule(t *testing.T, format *core.Format, tags map[string]string) *testModule {
	t.Helper()
	m := &testModule{
		impl: &fakeImpl{tags: tags},
		sink: &fakeSink{},
	}
	m.Base = core.NewBase(core.Options{
		Name:         "test",
		Type:         "fake",
		HandleEvents: true,
		Logger:       testLogger(),
		Sink:         m.sink,
		Formats:      core.FormatMap{core.DefaultFormat: format},
		Builder:      builder.New(),
		Impl:         m.impl,
		Loop:         func() {},
	})
	t.Cleanup(m.Close)
	return m
}

func TestBase_Identity(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &core.Format{Value: "<a>"}, nil)
	assert.Equal(t, "module/test", m.Name())
	assert.Equal(t, "test", m.NameRaw())
	assert.Equal(t, "fake", m.Type())
	assert.True(t, m.HandleEvents())
	assert.Equal(t, core.StateConstructed, m.State())
}

func TestBase_CacheIdempotence(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &core.Format{Value: "<a>"}, map[string]string{"<a>": "A"})

	first := m.Contents()
	second := m.Contents()

	assert.Equal(t, first, second)
	// One rebuild means one Build call for the single tag.
	assert.Equal(t, int32(1), m.impl.builds.Load())
}

func TestBase_BroadcastInvalidates(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &core.Format{Value: "<a>"}, map[string]string{"<a>": "A"})

	m.Contents()
	require.Equal(t, int32(1), m.impl.builds.Load())

	m.Broadcast()
	assert.Equal(t, 1, m.sink.count(event.NotifyChange))

	// Rebuild happens even though the output is unchanged.
	m.Contents()
	assert.Equal(t, int32(2), m.impl.builds.Load())
}

func TestBase_ContentsAppendsResetMarker(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &core.Format{Value: "<a>"}, map[string]string{"<a>": "A"})
	out := m.Contents()
	assert.True(t, strings.HasSuffix(out, ansiReset), "styling reset must trail non-empty output, got %q", out)

	empty := newTestModule(t, &core.Format{Value: "<a>"}, nil)
	assert.Equal(t, "", empty.Contents())
}

func TestBase_StopIdempotentAndIrreversible(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &core.Format{Value: "<a>"}, nil)
	m.Start()
	require.True(t, m.Running())
	require.Equal(t, core.StateRunning, m.State())

	m.Stop()
	assert.False(t, m.Running())
	assert.Equal(t, core.StateStopped, m.State())
	assert.Equal(t, int32(1), m.impl.teardowns.Load())
	assert.Equal(t, 1, m.sink.count(event.CheckState))

	// Second stop is a no-op.
	m.Stop()
	assert.Equal(t, int32(1), m.impl.teardowns.Load())
	assert.Equal(t, 1, m.sink.count(event.CheckState))

	// No way back to running.
	m.Start()
	assert.False(t, m.Running())
	assert.Equal(t, core.StateStopped, m.State())
}

func TestBase_StopBeforeStart(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &core.Format{Value: "<a>"}, nil)
	m.Stop()
	assert.Equal(t, core.StateStopped, m.State())
	assert.False(t, m.Running())
	// Teardown only runs for modules that were draining actual work.
	assert.Equal(t, int32(0), m.impl.teardowns.Load())
}

func TestBase_HaltStops(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &core.Format{Value: "<a>"}, nil)
	m.Start()
	m.Halt("resource went away")
	assert.False(t, m.Running())
	assert.Equal(t, core.StateStopped, m.State())
}

func TestBase_WakeupReleasesSleeper(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &core.Format{Value: "<a>"}, nil)
	m.Start()

	released := make(chan time.Duration, 1)
	go func() {
		start := time.Now()
		m.Sleep(10 * time.Second)
		released <- time.Since(start)
	}()

	// Give the sleeper time to park before waking it.
	time.Sleep(50 * time.Millisecond)
	m.Wakeup()

	select {
	case elapsed := <-released:
		assert.Less(t, elapsed, 2*time.Second)
	case <-time.After(2 * time.Second):
		t.Fatal("sleeper was not released by wakeup")
	}
}

func TestBase_SleepSkippedWhenNotRunning(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &core.Format{Value: "<a>"}, nil)

	start := time.Now()
	m.Sleep(5 * time.Second)
	assert.Less(t, time.Since(start), time.Second)
}

func TestBase_CloseWithoutStopQuiesces(t *testing.T) {
	t.Parallel()

	loopExited := make(chan struct{})
	var m *testModule
	m = &testModule{
		impl: &fakeImpl{},
		sink: &fakeSink{},
	}
	m.Base = core.NewBase(core.Options{
		Name:    "test",
		Type:    "fake",
		Logger:  testLogger(),
		Sink:    m.sink,
		Formats: core.FormatMap{core.DefaultFormat: {Value: "<a>"}},
		Builder: builder.New(),
		Impl:    m.impl,
		Loop: func() {
			defer close(loopExited)
			for m.Running() {
				m.Sleep(10 * time.Second)
			}
		},
	})

	m.Start()
	m.Close()

	select {
	case <-loopExited:
	case <-time.After(2 * time.Second):
		t.Fatal("main loop did not exit during close")
	}
}

func TestBase_SpawnedWorkerJoinedOnClose(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &core.Format{Value: "<a>"}, nil)
	m.Start()

	workerExited := make(chan struct{})
	m.Spawn(func() {
		defer close(workerExited)
		for m.Running() {
			m.Idle()
		}
	})

	m.Close()
	select {
	case <-workerExited:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not exit during close")
	}
}

func TestBase_Input(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &core.Format{Value: "<a>"}, nil)

	var got string
	m.Router().Register("toggle", func() { got = "toggled" })
	m.Router().RegisterWithData("set", func(data string) { got = "set:" + data })

	assert.False(t, m.Input("missing", ""))
	assert.True(t, m.Input("toggle", ""))
	assert.Equal(t, "toggled", got)
	assert.True(t, m.Input("set", "42"))
	assert.Equal(t, "set:42", got)
}
