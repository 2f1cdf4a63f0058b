package core

import "fmt"

// DefaultFormat is the format name a module uses unless its Renderable
// reports another one.
const DefaultFormat = "format"

// Format is one user-configured output format: a template of literal text
// and <tag> placeholders, plus decoration applied around the rendered
// result.
type Format struct {
	// Value is the template string.
	Value string
	// Spacing is the minimum gap, in space units, inserted between
	// rendered tags.
	Spacing int
	// Prefix and Suffix wrap non-empty rendered output.
	Prefix string
	Suffix string
}

// Decorate wraps rendered output with the format's prefix and suffix.
// Empty output stays empty so a module that rendered nothing occupies no
// space on the bar.
func (f *Format) Decorate(b Builder, output string) string {
	if output == "" {
		return ""
	}
	b.Append(f.Prefix)
	b.Append(output)
	b.Append(f.Suffix)
	return b.Flush()
}

// Formatter resolves format names to format specifications.
type Formatter interface {
	Get(name string) (*Format, error)
}

// FormatMap is the plain map-backed Formatter used by concrete modules.
type FormatMap map[string]*Format

func (m FormatMap) Get(name string) (*Format, error) {
	f, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("format %q not defined", name)
	}
	return f, nil
}
