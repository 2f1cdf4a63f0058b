package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/barkit/barkit/builder"
	"github.com/barkit/barkit/core"
)

var _ core.Builder = (*builder.Builder)(nil)

func TestBuilder_Accumulates(t *testing.T) {
	t.Parallel()

	b := builder.New()
	b.Node("left")
	b.Space(2)
	b.Append("right")

	assert.Equal(t, "left  right", b.Flush())
	// Flush clears.
	assert.Equal(t, "", b.Flush())
}

func TestBuilder_NodeIgnoresEmpty(t *testing.T) {
	t.Parallel()

	b := builder.New()
	b.Node("")
	assert.Equal(t, 0, b.Len())
}

func TestBuilder_ControlReset(t *testing.T) {
	t.Parallel()

	b := builder.New()
	b.Control(core.ControlReset)
	assert.Equal(t, "\x1b[0m", b.Flush())
}

func TestBuilder_RemoveTrailingSpace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"exact trailing run removed", "x  ", 2, "x"},
		{"shorter run left alone", "x ", 2, "x "},
		{"non-space tail left alone", "xy", 1, "xy"},
		{"zero is a no-op", "x ", 0, "x "},
		{"longer run trimmed by n only", "x   ", 2, "x "},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := builder.New()
			b.Append(tt.in)
			b.RemoveTrailingSpace(tt.n)
			assert.Equal(t, tt.want, b.Flush())
		})
	}
}
