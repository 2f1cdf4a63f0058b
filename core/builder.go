package core

// Control is a styling control marker the renderer can append to the
// accumulator. Concrete builders decide how a marker is serialized.
type Control int

const (
	// ControlReset clears any styling a module's tags may have left
	// active, so stray formatting never bleeds into the next module.
	ControlReset Control = iota
)

// Builder is the output accumulator tags render into. The core treats it
// as an opaque, stateful buffer; the concrete implementation lives in the
// builder package.
type Builder interface {
	// Node appends module-visible text content.
	Node(text string)
	// Append appends text verbatim, bypassing any content handling.
	Append(text string)
	// Space appends a gap of n units.
	Space(n int)
	// Control appends a styling control marker.
	Control(c Control)
	// RemoveTrailingSpace retracts a trailing gap of exactly n units, if
	// the accumulated output ends with one.
	RemoveTrailingSpace(n int)
	// Flush returns the accumulated output and resets the builder.
	Flush() string
}
