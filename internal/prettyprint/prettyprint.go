// Package prettyprint lays out macro expansion text by brace depth. It is a
// display heuristic, not a TeX parser: escaped braces and comments are not
// recognised.
package prettyprint

import "strings"

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

type brace struct {
	offset int
	open   bool
}

// Printer formats expansion text. The zero value indents by DefaultIndent.
type Printer struct {
	Indent int // Spaces per level; <= 0 means DefaultIndent.
}

// Format formats text with the given indent width. See [Printer.Format].
func Format(text string, indent int) string {
	return Printer{Indent: indent}.Format(text)
}

// Format puts each '{' at the end of a line and each '}' on its own line,
// indenting the text in between by nesting depth. Text with unbalanced
// braces, or no braces at all, is returned unchanged.
func (p Printer) Format(text string) string {
	braces, ok := scanBraces(text)
	if !ok || len(braces) == 0 {
		return text
	}

	width := p.Indent
	if width <= 0 {
		width = DefaultIndent
	}
	indent := func(level int) string {
		if level <= 0 {
			return ""
		}
		return strings.Repeat(" ", width*level)
	}

	var b strings.Builder
	b.Grow(len(text) + len(braces)*(width+2))
	level, prev := 0, 0
	for _, br := range braces {
		seg := text[prev:br.offset]
		switch {
		case br.open:
			b.WriteString(indent(level))
			b.WriteString(seg)
			b.WriteString("{\n")
			level++
		default:
			if seg != "" {
				b.WriteString(indent(level))
				b.WriteString(seg)
				b.WriteString("\n")
			}
			level--
			b.WriteString(indent(level))
			b.WriteString("}\n")
		}
		prev = br.offset + 1
	}
	if tail := text[prev:]; tail != "" {
		b.WriteString(indent(level))
		b.WriteString(tail)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// scanBraces records every '{' and '}' in order and reports whether the
// open and close counts match.
func scanBraces(text string) ([]brace, bool) {
	var out []brace
	opens, closes := 0, 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			out = append(out, brace{offset: i, open: true})
			opens++
		case '}':
			out = append(out, brace{offset: i})
			closes++
		}
	}
	return out, opens == closes
}
