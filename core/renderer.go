package core

import "strings"

// render walks the module's active format template and stitches tag output
// together. Called with buildMu held.
//
// The template is literal text interspersed with <tag> placeholders. The
// renderer knows nothing about what a tag means; it asks the module to
// build each one and only normalizes the gaps in between:
//
//   - literal whitespace before the first rendered tag is suppressed, so a
//     leading format gap does not show when the first tag renders nothing
//   - a minimum gap of max(1, spacing) separates consecutively rendered
//     tags
//   - a gap inserted ahead of a tag that then renders nothing is retracted
//
// Malformed or unterminated spans end the scan; the remainder is treated
// as literal text.
func (b *Base) render() string {
	name := b.impl.FormatName()
	format, err := b.formats.Get(name)
	if err != nil {
		b.log.Error("cannot render", "format", name, "error", err)
		return ""
	}

	mingap := max(1, format.Spacing)
	value := format.Value

	tagRendered := false
	// One-shot: set when a non-whitespace literal is emitted before any
	// tag has rendered, so whitespace suppression stops re-triggering.
	literalEmitted := false

	for {
		start := strings.IndexByte(value, '<')
		if start < 0 {
			break
		}
		end := strings.IndexByte(value[start:], '>')
		if end < 0 {
			break
		}
		end += start

		if start > 0 {
			literal := value[:start]
			if tagRendered {
				b.builder.Node(literal)
			} else if trimmed := strings.TrimLeft(literal, " "); trimmed != "" {
				literalEmitted = true
				b.builder.Node(trimmed)
			}
			value = value[start:]
			end -= start
		}

		tag := value[:end+1]
		if tagRendered {
			b.builder.Space(mingap)
		} else if literalEmitted {
			tagRendered = true
		}
		if built := b.impl.Build(b.builder, tag); built {
			tagRendered = true
		} else if tagRendered {
			b.builder.RemoveTrailingSpace(mingap)
		}

		value = value[len(tag):]
	}

	if value != "" {
		b.builder.Append(value)
	}

	return format.Decorate(b.builder, b.builder.Flush())
}
