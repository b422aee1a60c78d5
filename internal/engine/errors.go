package engine

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrPipeUnavailable means stdin, stdout or stderr of the engine could
	// not be attached or drained.
	ErrPipeUnavailable = errors.New("engine pipe unavailable")

	// ErrEncoding means the engine's stdout was not valid UTF-8.
	ErrEncoding = errors.New("engine output is not valid UTF-8")
)

// StartError reports that the engine binary could not be spawned.
type StartError struct {
	Engine string
	Err    error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start TeX engine %q: %v", e.Engine, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

// StderrError carries everything the engine wrote to stderr.
type StderrError struct {
	Stderr string
}

func (e *StderrError) Error() string {
	return "TeX wrote to stderr: " + e.Stderr
}

// Pre-compiled patterns for engine failures that TeX reports on stdout.
// They do not change the run's outcome; the pipeline uses them to explain
// why fewer records came back than were queried.
var (
	reMissingFile = regexp.MustCompile(
		"(?m)^! LaTeX Error: File `([^']+)' not found\\.")

	reEmergencyStop = regexp.MustCompile(
		`(?m)^! Emergency stop\.|^\*\*\* \(job aborted, no legal \\end found\)`)

	reMissingClass = regexp.MustCompile(
		"(?m)^! LaTeX Error: File `([^']+\\.cls)' not found\\.")
)

// MatchMissingFile returns the first file the engine could not find.
func MatchMissingFile(transcript string) (string, bool) {
	m := reMissingFile.FindStringSubmatch(transcript)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchMissingClass reports whether the document class itself was missing.
func MatchMissingClass(transcript string) bool {
	return reMissingClass.MatchString(transcript)
}

// MatchEmergencyStop reports whether the engine aborted the job.
func MatchEmergencyStop(transcript string) bool {
	return reEmergencyStop.MatchString(transcript)
}
