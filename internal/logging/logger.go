// Package logging provides leveled, optionally colored diagnostics on
// standard error with an optional plain-text file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/backmassage/latexdef/internal/config"
	"github.com/backmassage/latexdef/internal/term"
)

// dumper renders verbose value dumps without pointer addresses so that
// output is stable between runs.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Logger writes leveled lines to standard error and, when configured, to
// a log file. Records themselves go to standard output via display.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	styles  *term.Styles
	verbose bool
	file    *os.File
}

// NewLogger resolves colors from cfg and optionally opens cfg.LogFile for
// appending. Call Close when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	l := New(os.Stderr, term.Stderr, cfg.Verbose)

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		l.file = f
	}
	return l, nil
}

// New returns a Logger writing to out with the given palette.
func New(out io.Writer, styles *term.Styles, verbose bool) *Logger {
	if styles == nil {
		styles = term.NewStyles(out, config.ColorNever)
	}
	return &Logger{out: out, styles: styles, verbose: verbose}
}

// Verbose reports whether debug output is enabled.
func (l *Logger) Verbose() bool { return l.verbose }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level string, style lipgloss.Style, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	tag := "[" + level + "]"
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, ts+" "+style.Render(tag)+" "+text+"\n")
	if l.file != nil {
		_, _ = io.WriteString(l.file, ts+" "+tag+" "+text+"\n")
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", l.styles.Blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", l.styles.Green, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", l.styles.Yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red).
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", l.styles.Red, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) when verbose; no-op otherwise.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.line("DEBUG", l.styles.Cyan, fmt.Sprintf(format, args...))
}

// Block logs a multi-line text under a DEBUG heading, one indented line
// per input line. No-op unless verbose.
func (l *Logger) Block(title, text string) {
	if !l.verbose {
		return
	}
	var b strings.Builder
	b.WriteString(title)
	for _, ln := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString("\n    ")
		b.WriteString(ln)
	}
	l.line("DEBUG", l.styles.Cyan, b.String())
}

// Dump logs a structural dump of v. No-op unless verbose.
func (l *Logger) Dump(title string, v interface{}) {
	if !l.verbose {
		return
	}
	l.Block(title, dumper.Sdump(v))
}
