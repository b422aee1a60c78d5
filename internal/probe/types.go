package probe

import (
	"errors"
	"fmt"
	"strings"
)

// Context selects where in the document the macros are examined.
type Context int

const (
	ContextPrelude  Context = iota // Before \begin{document} (default).
	ContextDocument                // After \begin{document}.
)

// String returns the lowercase context name used in config files and the REPL.
func (c Context) String() string {
	switch c {
	case ContextDocument:
		return "document"
	default:
		return "prelude"
	}
}

// ParseContext converts "prelude" or "document" into a Context.
func ParseContext(s string) (Context, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prelude", "preamble", "":
		return ContextPrelude, nil
	case "document":
		return ContextDocument, nil
	}
	return ContextPrelude, fmt.Errorf("invalid context %q (use 'prelude' or 'document')", s)
}

// Package is a LaTeX package to load, with an optional option list.
type Package struct {
	Name    string
	Options string // Empty when loaded without options.
}

// ParsePackage accepts "name" or "[opts]name", the same shape as the
// \usepackage arguments.
func ParsePackage(s string) (Package, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		if s == "" {
			return Package{}, errors.New("empty package name")
		}
		return Package{Name: s}, nil
	}
	end := strings.Index(s, "]")
	if end < 0 {
		return Package{}, fmt.Errorf("package %q: unclosed option list", s)
	}
	name := strings.TrimSpace(s[end+1:])
	if name == "" {
		return Package{}, fmt.Errorf("package %q: missing name after options", s)
	}
	return Package{Name: name, Options: s[1:end]}, nil
}

// String renders the package in ParsePackage form.
func (p Package) String() string {
	if p.Options == "" {
		return p.Name
	}
	return "[" + p.Options + "]" + p.Name
}

// Config holds everything needed to render one probe document. Build it
// with [NewBuilder]; a built Config shares no slices with its builder.
type Config struct {
	Engine        string
	DocumentClass string    // Empty: no \documentclass line.
	Packages      []Package // Load order.
	Macros        []string  // Query order, without the leading backslash.
	Expl3         bool
	Context       Context
}

// Builder assembles a Config from already-typed fields.
type Builder struct {
	cfg Config
}

// NewBuilder starts a Config for the given engine binary.
func NewBuilder(engine string) *Builder {
	return &Builder{cfg: Config{Engine: engine}}
}

// DocumentClass sets the class; an empty name omits \documentclass.
func (b *Builder) DocumentClass(name string) *Builder {
	b.cfg.DocumentClass = name
	return b
}

// Package appends one package.
func (b *Builder) Package(name, options string) *Builder {
	b.cfg.Packages = append(b.cfg.Packages, Package{Name: name, Options: options})
	return b
}

// Packages appends pkgs in order.
func (b *Builder) Packages(pkgs ...Package) *Builder {
	b.cfg.Packages = append(b.cfg.Packages, pkgs...)
	return b
}

// Macros appends macro names in order. A leading backslash is stripped so
// "\foo" and "foo" query the same control sequence.
func (b *Builder) Macros(names ...string) *Builder {
	for _, n := range names {
		if len(n) > 1 {
			n = strings.TrimPrefix(n, `\`)
		}
		b.cfg.Macros = append(b.cfg.Macros, n)
	}
	return b
}

// Expl3 toggles loading expl3 and turning its syntax on around the probes.
func (b *Builder) Expl3(on bool) *Builder {
	b.cfg.Expl3 = on
	return b
}

// Context sets where the probes run.
func (b *Builder) Context(c Context) *Builder {
	b.cfg.Context = c
	return b
}

// Build validates and returns a copy of the accumulated Config.
func (b *Builder) Build() (Config, error) {
	if strings.TrimSpace(b.cfg.Engine) == "" {
		return Config{}, errors.New("engine must not be empty")
	}
	if len(b.cfg.Macros) == 0 {
		return Config{}, errors.New("no macros to query")
	}
	for _, m := range b.cfg.Macros {
		if m == "" {
			return Config{}, errors.New("empty macro name")
		}
	}
	for _, p := range b.cfg.Packages {
		if p.Name == "" {
			return Config{}, errors.New("empty package name")
		}
	}
	out := b.cfg
	out.Packages = append([]Package(nil), b.cfg.Packages...)
	out.Macros = append([]string(nil), b.cfg.Macros...)
	return out, nil
}
