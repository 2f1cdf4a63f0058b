package event

// Kind identifies the two event classes modules emit toward the bar engine.
type Kind int

const (
	// NotifyChange signals that a module's cached output went stale and the
	// bar should re-render.
	NotifyChange Kind = iota + 1
	// CheckState asks the engine to re-evaluate whether any module is still
	// running. Emitted at the end of a module's stop sequence.
	CheckState
)

func (k Kind) String() string {
	switch k {
	case NotifyChange:
		return "notify-change"
	case CheckState:
		return "check-state"
	default:
		return "unknown"
	}
}

// Event is a fire-and-forget notification. Module carries the qualified
// name of the emitter.
type Event struct {
	Kind   Kind
	Module string
}

// Sink receives events. Implementations must not block the caller.
type Sink interface {
	Emit(Event)
}
