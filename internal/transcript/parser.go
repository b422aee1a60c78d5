package transcript

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"
)

type state int

const (
	stateIgnoring     state = iota // Outside any definition block.
	stateNameFound                 // Saw "*> \name=kind", waiting for "->" or the terminator.
	stateFirstLine                 // Saw the parameter line.
	stateContinuation              // Appending wrapped definition lines.
)

// Parser scans a transcript once, front to back. Use it like bufio.Scanner:
//
//	p := transcript.NewParser(out)
//	for p.Next() {
//		rec := p.Record()
//	}
//
// A Parser is not safe for concurrent use and cannot be rewound.
type Parser struct {
	rest  string // Unconsumed input.
	state state

	// Accumulator for the record in progress; reset after each emission.
	cur Record
	def strings.Builder

	rec       Record // Last emitted record.
	discarded int
	visible   bool // Whether the last consumed line belonged to a block.

	auxFile string
	logFile string
	onLine  func(line string)
}

// NewParser returns a Parser over the engine's captured stdout.
func NewParser(text string) *Parser {
	return &Parser{rest: text}
}

// OnLine registers fn to be called with every raw line before it is parsed.
func (p *Parser) OnLine(fn func(line string)) *Parser {
	p.onLine = fn
	return p
}

// Next advances to the next complete record. It returns false once the
// input is exhausted; a block still open at that point is discarded.
func (p *Parser) Next() bool {
	for {
		line, ok := p.nextLine()
		if !ok {
			p.drop()
			p.state = stateIgnoring
			return false
		}
		if p.onLine != nil {
			p.onLine(line)
		}
		if p.step(line) {
			return true
		}
	}
}

// Record returns the record produced by the last successful Next.
func (p *Parser) Record() Record {
	return p.rec
}

// All yields the remaining records in transcript order.
func (p *Parser) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for p.Next() {
			if !yield(p.Record()) {
				return
			}
		}
	}
}

// Discarded counts named blocks that were abandoned without a terminator,
// either because another block started or because the input ended.
func (p *Parser) Discarded() int {
	return p.discarded
}

// AuxFile returns the aux path announced by the engine, if seen so far.
func (p *Parser) AuxFile() string { return p.auxFile }

// LogFile returns the log path announced by the engine, if seen so far.
func (p *Parser) LogFile() string { return p.logFile }

// step consumes one line and reports whether it completed a record.
func (p *Parser) step(line string) bool {
	p.visible = true

	if IsTerminator(line) {
		if p.state == stateIgnoring {
			p.visible = false
			return false
		}
		p.finish()
		return true
	}

	if name, kind, ok := matchName(line); ok {
		p.drop()
		p.cur = Record{Name: name, Kind: kind}
		p.state = stateNameFound
		return false
	}

	switch p.state {
	case stateIgnoring, stateNameFound:
		if i := strings.Index(line, arrow); i >= 0 {
			p.cur.Parameters = line[:i]
			p.def.WriteString(line[i+len(arrow):])
			p.state = stateFirstLine
			return false
		}
		if p.state == stateIgnoring {
			p.visible = false
			p.noteFiles(line)
		}
	case stateFirstLine, stateContinuation:
		// The engine hard-wraps long definitions; rejoin without separators.
		p.def.WriteString(line)
		p.state = stateContinuation
	}
	return false
}

// finish strips the engine's terminating '.' and publishes the record.
func (p *Parser) finish() {
	rec := p.cur
	def := p.def.String()
	if def != "" {
		last, size := utf8.DecodeLastRuneInString(def)
		if last == '.' {
			def = def[:len(def)-size]
		} else {
			rec.Err = fmt.Errorf("%w: definition of %s ends with %q, expected '.'",
				ErrMalformedRecord, displayName(rec.Name), last)
		}
	}
	rec.Definition = def
	p.rec = rec
	p.reset()
}

// drop abandons the block in progress, if any.
func (p *Parser) drop() {
	if p.state != stateIgnoring && p.cur.Name != "" {
		p.discarded++
	}
	p.reset()
}

func (p *Parser) reset() {
	p.cur = Record{}
	p.def.Reset()
	p.state = stateIgnoring
}

func (p *Parser) noteFiles(line string) {
	if path, ok := AuxFile(line); ok {
		p.auxFile = path
	} else if path, ok := LogFile(line); ok {
		p.logFile = path
	}
}

// nextLine pops one line, accepting both "\n" and "\r\n" endings. A final
// newline does not produce an extra empty line.
func (p *Parser) nextLine() (string, bool) {
	if p.rest == "" {
		return "", false
	}
	var line string
	if i := strings.IndexByte(p.rest, '\n'); i >= 0 {
		line, p.rest = p.rest[:i], p.rest[i+1:]
	} else {
		line, p.rest = p.rest, ""
	}
	return strings.TrimSuffix(line, "\r"), true
}

func displayName(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return name
}

// Parse collects every record in text.
func Parse(text string) []Record {
	var out []Record
	for rec := range NewParser(text).All() {
		out = append(out, rec)
	}
	return out
}

// VisibleLines returns only the lines of text that belong to definition
// blocks (name, parameter, continuation and terminator lines), dropping
// banner and log noise. Useful for showing the relevant part of a raw
// transcript.
func VisibleLines(text string) []string {
	var out []string
	p := NewParser(text)
	for {
		line, ok := p.nextLine()
		if !ok {
			return out
		}
		p.step(line)
		if p.visible {
			out = append(out, line)
		}
	}
}
