// Package term provides color styles and terminal detection.
//
// Styles are resolved once per output stream. [Configure] sets the
// package-level [Stdout] and [Stderr] styles during startup; when colors
// are disabled every style renders its input unchanged.
package term

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	xterm "golang.org/x/term"

	"github.com/backmassage/latexdef/internal/config"
)

// Styles is a palette bound to one output stream.
type Styles struct {
	enabled bool

	Red     lipgloss.Style
	Green   lipgloss.Style
	Yellow  lipgloss.Style
	Blue    lipgloss.Style
	Cyan    lipgloss.Style
	Magenta lipgloss.Style
	Bold    lipgloss.Style
	Faint   lipgloss.Style
}

// Palettes for standard output (records) and standard error (logs).
var (
	Stdout = NewStyles(os.Stdout, config.ColorNever)
	Stderr = NewStyles(os.Stderr, config.ColorNever)
)

// Configure resolves the color mode for both standard streams. Call once
// during startup.
func Configure(mode config.ColorMode) {
	Stdout = NewStyles(os.Stdout, mode)
	Stderr = NewStyles(os.Stderr, mode)
}

// Enabled reports whether colors are active on standard output.
func Enabled() bool { return Stdout.Enabled() }

// NewStyles builds a palette for w. Colors are used when mode is always, or
// when mode is auto and w is a terminal that accepts them.
func NewStyles(w io.Writer, mode config.ColorMode) *Styles {
	r := lipgloss.NewRenderer(w)
	enabled := resolve(w, mode)
	switch {
	case !enabled:
		r.SetColorProfile(termenv.Ascii)
	case mode == config.ColorAlways:
		// Forced colors still pick up a richer profile when one is advertised.
		p := termenv.NewOutput(w).EnvColorProfile()
		if p == termenv.Ascii {
			p = termenv.ANSI
		}
		r.SetColorProfile(p)
	default:
		r.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
	}

	color := func(c string) lipgloss.Style {
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color(c))
	}
	return &Styles{
		enabled: enabled,
		Red:     color("9"),
		Green:   color("10"),
		Yellow:  color("11"),
		Blue:    color("12"),
		Cyan:    color("14"),
		Magenta: color("13"),
		Bold:    r.NewStyle().Bold(true),
		Faint:   r.NewStyle().Faint(true),
	}
}

// Enabled reports whether the palette emits escape sequences.
func (s *Styles) Enabled() bool { return s.enabled }

// resolve honors NO_COLOR (https://no-color.org) and TERM=dumb in auto mode.
func resolve(w io.Writer, mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(w) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether w is a file attached to a TTY.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return xterm.IsTerminal(int(f.Fd()))
}

// Width returns the column count of the terminal behind w, or 0 when w is
// not a terminal.
func Width(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !IsTerminal(f) {
		return 0
	}
	width, _, err := xterm.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
