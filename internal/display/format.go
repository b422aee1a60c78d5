// Package display renders parsed macro records as text, a table or JSON.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/backmassage/latexdef/internal/config"
	"github.com/backmassage/latexdef/internal/prettyprint"
	"github.com/backmassage/latexdef/internal/term"
	"github.com/backmassage/latexdef/internal/transcript"
)

// Definition column width when the terminal size is unknown.
const defaultDefinitionWidth = 60

// Shown for a record whose name line was not recognised.
const unnamed = "(unnamed)"

// Printer writes records in one output format.
type Printer struct {
	w      io.Writer
	styles *term.Styles
	format config.OutputFormat
	pretty bool
	indent int
	width  int // Terminal columns; 0 when unknown.
}

// NewPrinter returns a Printer for w configured from cfg. Colors follow
// the standard output palette set by [term.Configure].
func NewPrinter(w io.Writer, cfg *config.Config) *Printer {
	return &Printer{
		w:      w,
		styles: term.Stdout,
		format: cfg.OutputFormat,
		pretty: cfg.Pretty,
		indent: cfg.Indent,
		width:  term.Width(w),
	}
}

// WithStyles overrides the palette.
func (p *Printer) WithStyles(s *term.Styles) *Printer {
	p.styles = s
	return p
}

// Print writes every record in order.
func (p *Printer) Print(recs []transcript.Record) error {
	switch p.format {
	case config.OutputTable:
		_, err := io.WriteString(p.w, p.Table(recs)+"\n")
		return err
	case config.OutputJSON:
		b, err := JSON(recs)
		if err != nil {
			return err
		}
		_, err = p.w.Write(append(b, '\n'))
		return err
	default:
		for i := range recs {
			if _, err := io.WriteString(p.w, p.Text(&recs[i])+"\n"); err != nil {
				return err
			}
		}
		return nil
	}
}

// Text formats one record:
//
//	\relax is primitive.
//	\foo = #1 -> bar{#1}
//	\nope is undefined.
func (p *Printer) Text(rec *transcript.Record) string {
	s := p.styles
	name := rec.Name
	if name == "" {
		name = unnamed
	}
	switch {
	case rec.Err != nil:
		return fmt.Sprintf("%s %s %s", s.Red.Render(name), s.Red.Render("is malformed:"), rec.Definition)
	case rec.IsPrimitive():
		return s.Magenta.Render(name) + " is primitive."
	case rec.IsUndefined():
		return s.Yellow.Render(name) + " " + s.Faint.Render("is undefined.")
	}

	var b strings.Builder
	b.WriteString(s.Blue.Render(name))
	b.WriteString(s.Faint.Render(" = "))
	if rec.Definition == "" && !rec.HasParameters() && !rec.IsMacro() && rec.Kind != "" {
		// \count@=\count255. carries its meaning in the kind.
		b.WriteString(strings.TrimSuffix(rec.Kind, "."))
		return b.String()
	}
	if rec.HasParameters() {
		b.WriteString(s.Bold.Render(rec.Parameters))
		b.WriteString(s.Faint.Render(" -> "))
	}
	def := p.definition(rec.Definition)
	if strings.Contains(def, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(def)
	return b.String()
}

func (p *Printer) definition(def string) string {
	if !p.pretty {
		return def
	}
	return prettyprint.Format(def, p.indent)
}

// Table renders a summary table. Definitions are shown unformatted and
// wrapped to fit the terminal.
func (p *Printer) Table(recs []transcript.Record) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Kind", "Class", "Parameters", "Definition"})
	for i := range recs {
		rec := &recs[i]
		def := rec.Definition
		if rec.Err != nil {
			def = rec.Err.Error() + ": " + def
		}
		t.AppendRow(table.Row{rec.Name, rec.Kind, rec.Class(), rec.Parameters, def})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Definition", WidthMax: p.definitionWidth()},
	})
	return t.Render()
}

func (p *Printer) definitionWidth() int {
	// Name, kind, class and parameter columns plus borders take roughly 50.
	if w := p.width - 50; w >= 20 {
		return w
	}
	return defaultDefinitionWidth
}

// jsonRecord is the wire form of a record.
type jsonRecord struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Class      string `json:"class"`
	Parameters string `json:"parameters,omitempty"`
	Definition string `json:"definition"`
	Error      string `json:"error,omitempty"`
}

// JSON encodes records as an indented array. Definitions are never
// pretty-printed.
func JSON(recs []transcript.Record) ([]byte, error) {
	out := make([]jsonRecord, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		jr := jsonRecord{
			Name:       rec.Name,
			Kind:       rec.Kind,
			Class:      rec.Class(),
			Parameters: rec.Parameters,
			Definition: rec.Definition,
		}
		if rec.Err != nil {
			jr.Error = rec.Err.Error()
		}
		out = append(out, jr)
	}
	return json.MarshalIndent(out, "", "  ")
}
