package pipeline

import "github.com/backmassage/latexdef/internal/transcript"

// Stats counts the records of one run by class.
type Stats struct {
	Total     int // Records returned by the parser.
	Primitive int
	Defined   int // User or package macros (not primitive, not undefined).
	Undefined int
	Malformed int
	Discarded int // Unterminated blocks the parser dropped.
}

func (s *Stats) add(rec *transcript.Record) {
	s.Total++
	switch rec.Class() {
	case "malformed":
		s.Malformed++
	case "primitive":
		s.Primitive++
	case "undefined":
		s.Undefined++
	default:
		s.Defined++
	}
}

// Failed reports whether any record was malformed.
func (s *Stats) Failed() bool {
	return s.Malformed > 0
}
