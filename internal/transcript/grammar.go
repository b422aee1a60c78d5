package transcript

import (
	"regexp"
	"strings"
)

// Pre-compiled line patterns for the engine transcript. They are built once
// at package init and only read afterwards.
var (
	// *(/tmp/texput.aux)
	reAuxFile = regexp.MustCompile(`^\*\(([^)]+\.aux)\)$`)

	// Transcript written on /tmp/texput.log.
	reLogFile = regexp.MustCompile(`^Transcript written on (.+\.log)\.$`)

	// *> \name=kind   where name is a single escaped character or an escape
	// followed by anything up to the first '='. \csname lets queried names
	// contain digits, spaces and other non-letters.
	reMacroName = regexp.MustCompile(`^\*> (\\.|\\[^=]+)=(.*)$`)
)

const (
	terminatorPrefix = "<recently read>"
	arrow            = "->"

	// RelaxKind is what the engine reports for \relax and for every name
	// that \csname had to create because it was undefined.
	RelaxKind = `\relax.`
	relaxName = `\relax`
)

// AuxFile returns the path from an aux-file announcement line.
func AuxFile(line string) (string, bool) {
	return firstGroup(reAuxFile, line)
}

// LogFile returns the path from a "Transcript written on" line.
func LogFile(line string) (string, bool) {
	return firstGroup(reLogFile, line)
}

// IsTerminator reports whether line closes a definition block.
func IsTerminator(line string) bool {
	return strings.HasPrefix(line, terminatorPrefix)
}

func matchName(line string) (name, kind string, ok bool) {
	m := reMacroName.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSuffix(m[2], ":"), true
}

func firstGroup(re *regexp.Regexp, line string) (string, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}
