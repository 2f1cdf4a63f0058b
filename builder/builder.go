// Package builder provides the concrete output accumulator modules render
// into. Output targets a terminal, so control markers serialize to ANSI
// escape sequences and gaps to plain spaces.
package builder

import (
	"strings"

	"github.com/barkit/barkit/core"
)

const ansiReset = "\x1b[0m"

// Builder accumulates styled output segments. The zero value is ready to
// use. Not safe for concurrent use; the owning module serializes access
// under its build lock.
type Builder struct {
	out strings.Builder
}

func New() *Builder {
	return &Builder{}
}

// Node appends text content. Empty text is ignored.
func (b *Builder) Node(text string) {
	if text == "" {
		return
	}
	b.out.WriteString(text)
}

// Append appends text verbatim.
func (b *Builder) Append(text string) {
	b.out.WriteString(text)
}

// Space appends a gap of n space units.
func (b *Builder) Space(n int) {
	for i := 0; i < n; i++ {
		b.out.WriteByte(' ')
	}
}

// Control appends a styling control marker.
func (b *Builder) Control(c core.Control) {
	switch c {
	case core.ControlReset:
		b.out.WriteString(ansiReset)
	}
}

// RemoveTrailingSpace retracts a trailing gap of exactly n units, if the
// accumulated output ends with one.
func (b *Builder) RemoveTrailingSpace(n int) {
	if n <= 0 {
		return
	}
	s := b.out.String()
	if len(s) < n || s[len(s)-n:] != strings.Repeat(" ", n) {
		return
	}
	b.out.Reset()
	b.out.WriteString(s[:len(s)-n])
}

// Flush returns the accumulated output and clears the builder.
func (b *Builder) Flush() string {
	s := b.out.String()
	b.out.Reset()
	return s
}

// Len reports the size of the accumulated output.
func (b *Builder) Len() int {
	return b.out.Len()
}
