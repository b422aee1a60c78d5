package transcript

import (
	"errors"
	"strings"
)

// ErrMalformedRecord marks a definition whose last character before the
// terminator was not the '.' the engine appends.
var ErrMalformedRecord = errors.New("malformed record")

// Record is one macro as reported by the engine.
type Record struct {
	Name       string // Including the leading backslash.
	Kind       string // Engine type tag, trailing ':' removed ("macro", `\relax.`).
	Parameters string // e.g. "#1#2"; empty when the macro takes none.
	Definition string // Expansion text, terminating '.' removed.
	Err        error  // Non-nil when the block was malformed.
}

// IsPrimitive reports whether the engine describes the name as itself,
// i.e. a built-in such as \relax or \parskip.
func (r *Record) IsPrimitive() bool {
	return r.Name != "" && r.Name == strings.TrimSuffix(r.Kind, ".")
}

// IsUndefined reports whether the name was undefined before the probe.
// \csname turns undefined names into \relax, so an empty \relax. answer
// for any name other than \relax itself means "undefined".
func (r *Record) IsUndefined() bool {
	return r.Definition == "" && r.Kind == RelaxKind && r.Name != relaxName
}

// IsDefined is the complement of IsUndefined.
func (r *Record) IsDefined() bool {
	return !r.IsUndefined()
}

// IsMacro reports whether the engine called the name a macro, possibly
// with prefixes such as \long or \protected. Registers, chardefs and
// fonts report their meaning in Kind instead.
func (r *Record) IsMacro() bool {
	return strings.HasSuffix(r.Kind, "macro")
}

// HasParameters reports whether the macro takes arguments.
func (r *Record) HasParameters() bool {
	return r.Parameters != ""
}

// Class is a one-word summary: "malformed", "primitive", "undefined" or "macro".
func (r *Record) Class() string {
	switch {
	case r.Err != nil:
		return "malformed"
	case r.IsPrimitive():
		return "primitive"
	case r.IsUndefined():
		return "undefined"
	default:
		return "macro"
	}
}
