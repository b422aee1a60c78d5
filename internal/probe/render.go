package probe

import "strings"

// noiseBuffer pushes the engine banner and package log chatter ahead of the
// probes so that the first \show answer starts its own "*>" line.
const noiseBuffer = "\n\n\n\n\n\n\n\n\n"

// Render writes cfg as probe source text. Each macro is queried through
// \csname so names containing '@', ':', '_' or symbols need no catcode
// changes; the blank line after each \show answers the engine's "?" prompt.
//
// In prelude context \begin{document} is deferred until after the probes,
// and \ExplSyntaxOff is deferred past it so expl3 syntax is still active
// while the document opens.
func Render(cfg Config) string {
	var b strings.Builder
	var atEnd []string

	if cfg.DocumentClass != "" {
		b.WriteString(`\documentclass{` + cfg.DocumentClass + "}\n")
	}
	for _, p := range cfg.Packages {
		if p.Options != "" {
			b.WriteString(`\usepackage[` + p.Options + `]{` + p.Name + "}\n")
		} else {
			b.WriteString(`\usepackage{` + p.Name + "}\n")
		}
	}
	if cfg.Expl3 {
		b.WriteString("\\usepackage{expl3}\n\\ExplSyntaxOn\n")
	}

	b.WriteString(noiseBuffer)

	switch cfg.Context {
	case ContextDocument:
		b.WriteString("\\begin{document}\n")
		if cfg.Expl3 {
			atEnd = append(atEnd, "\\ExplSyntaxOff\n")
		}
	default:
		atEnd = append(atEnd, "\\begin{document}\n")
		if cfg.Expl3 {
			atEnd = append(atEnd, "\\ExplSyntaxOff\n")
		}
	}
	atEnd = append(atEnd, "\\end{document}\n")

	for _, name := range cfg.Macros {
		b.WriteString(`\expandafter\show\csname ` + name + "\\endcsname\n\n")
	}
	for _, s := range atEnd {
		b.WriteString(s)
	}
	return b.String()
}
