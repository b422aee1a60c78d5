// Package config holds runtime configuration: defaults, flag registration,
// layered loading (file, environment, flags) and validation.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/backmassage/latexdef/internal/probe"
)

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// OutputFormat selects how records are printed.
type OutputFormat string

const (
	OutputText  OutputFormat = "text"  // One entry per macro (default).
	OutputTable OutputFormat = "table" // Summary table.
	OutputJSON  OutputFormat = "json"  // Indented JSON array.
)

// MathPackages are loaded ahead of user packages by --math.
var MathPackages = []string{"amsmath", "amssymb", "amsthm", "mathtools"}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then layered by [Load] before being passed (by pointer) to the packages
// that need it.
type Config struct {
	// Probe document.
	Engine        string   `koanf:"engine"`        // Default: "latex".
	DocumentClass string   `koanf:"documentclass"` // Default: "article". Empty: none.
	Packages      []string `koanf:"packages"`      // "[opts]name" entries, load order.
	Math          bool     `koanf:"math"`          // Prepend MathPackages.
	Expl3         bool     `koanf:"expl3"`
	InDocument    bool     `koanf:"in_document"` // Probe after \begin{document}.
	Macros        []string `koanf:"-"`           // Positional arguments.

	// Engine process.
	OutputDir  string        `koanf:"output_dir"`  // Default: os.TempDir().
	EngineArgs []string      `koanf:"engine_args"` // Extra engine arguments.
	Timeout    time.Duration `koanf:"timeout"`     // 0 disables.

	// Display.
	Pretty       bool         `koanf:"pretty"` // Default: true. Cleared by --no-pretty.
	Indent       int          `koanf:"indent"` // Default: 2.
	OutputFormat OutputFormat `koanf:"output"` // Default: "text".
	ColorMode    ColorMode    `koanf:"color"`  // Default: "auto".
	ShowSource   bool         `koanf:"show_source"`

	// Logging.
	Verbose bool   `koanf:"verbose"`
	LogFile string `koanf:"log"` // Optional log file path.

	// Modes.
	Interactive bool   `koanf:"interactive"`
	CheckOnly   bool   `koanf:"check"`
	HistoryFile string `koanf:"history_file"` // REPL history; default under the user cache dir.
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		Engine:        "latex",
		DocumentClass: "article",
		Pretty:        true,
		Indent:        2,
		OutputFormat:  OutputText,
		ColorMode:     ColorAuto,
	}
}

// Validate checks enum fields and package syntax. Outside interactive and
// check modes at least one macro name is required.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Engine) == "" {
		return errors.New("engine must not be empty")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	switch c.OutputFormat {
	case OutputText, OutputTable, OutputJSON:
		// valid
	default:
		return fmt.Errorf("invalid output format %q (use 'text', 'table' or 'json')", c.OutputFormat)
	}

	if c.Indent < 1 {
		return fmt.Errorf("indent must be at least 1 (got %d)", c.Indent)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative (got %s)", c.Timeout)
	}

	if _, err := c.ParsedPackages(); err != nil {
		return err
	}

	if c.Interactive || c.CheckOnly {
		return nil
	}
	if len(c.Macros) == 0 {
		return errors.New("need at least one macro name")
	}
	return nil
}

// Context returns the probe context selected by InDocument.
func (c *Config) Context() probe.Context {
	if c.InDocument {
		return probe.ContextDocument
	}
	return probe.ContextPrelude
}

// ParsedPackages returns the packages to load, math packages first.
func (c *Config) ParsedPackages() ([]probe.Package, error) {
	var out []probe.Package
	if c.Math {
		for _, name := range MathPackages {
			out = append(out, probe.Package{Name: name})
		}
	}
	for _, raw := range c.Packages {
		p, err := probe.ParsePackage(raw)
		if err != nil {
			return nil, fmt.Errorf("--packages: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ProbeConfig builds the probe document settings for the given macros.
func (c *Config) ProbeConfig(macros []string) (probe.Config, error) {
	pkgs, err := c.ParsedPackages()
	if err != nil {
		return probe.Config{}, err
	}
	return probe.NewBuilder(c.Engine).
		DocumentClass(c.DocumentClass).
		Packages(pkgs...).
		Expl3(c.Expl3).
		Context(c.Context()).
		Macros(macros...).
		Build()
}
