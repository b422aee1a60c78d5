package pipeline

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/backmassage/latexdef/internal/config"
	"github.com/backmassage/latexdef/internal/display"
	"github.com/backmassage/latexdef/internal/engine"
	"github.com/backmassage/latexdef/internal/logging"
	"github.com/backmassage/latexdef/internal/probe"
	"github.com/backmassage/latexdef/internal/transcript"
)

// NewRunner returns the engine runner described by cfg.
func NewRunner(cfg *config.Config) *engine.Exec {
	return &engine.Exec{
		Engine:    cfg.Engine,
		OutputDir: cfg.OutputDir,
		Args:      cfg.EngineArgs,
	}
}

// Run looks up cfg.Macros and prints one entry per record to w. Engine
// failures are returned unchanged; malformed records are counted in Stats
// and logged but do not stop the run. With cfg.ShowSource the probe
// document is written to w and the engine is not started.
func Run(ctx context.Context, cfg *config.Config, runner engine.Runner, log *logging.Logger, w io.Writer) (Stats, error) {
	pc, err := cfg.ProbeConfig(cfg.Macros)
	if err != nil {
		return Stats{}, err
	}
	source := probe.Render(pc)

	if cfg.ShowSource {
		_, err := io.WriteString(w, source)
		return Stats{}, err
	}
	log.Debug("Engine: %s, class: %q, context: %s, expl3: %t", pc.Engine, pc.DocumentClass, pc.Context, pc.Expl3)
	log.Block("Probe source:", source)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	out, err := runner.Run(ctx, source)
	if err != nil {
		return Stats{}, err
	}

	recs, stats := Parse(out, log)
	if stats.Total != len(pc.Macros) {
		logShortfall(log, out, len(pc.Macros), stats.Total)
	}
	nameRecords(recs, pc.Macros, log)

	if err := display.NewPrinter(w, cfg).Print(recs); err != nil {
		return stats, fmt.Errorf("writing output: %w", err)
	}
	logSummary(log, &stats)
	return stats, nil
}

// Parse extracts the records from a transcript and tallies them. Malformed
// records are logged as errors.
func Parse(out string, log *logging.Logger) ([]transcript.Record, Stats) {
	log.Block("Transcript:", strings.Join(transcript.VisibleLines(out), "\n"))

	lines := 0
	p := transcript.NewParser(out).OnLine(func(string) { lines++ })
	recs := slices.Collect(p.All())
	log.Debug("Transcript: %d line(s), %d record(s)", lines, len(recs))

	var stats Stats
	for i := range recs {
		stats.add(&recs[i])
		if recs[i].Err != nil {
			log.Error("%v", recs[i].Err)
		}
	}
	stats.Discarded = p.Discarded()
	if stats.Discarded > 0 {
		log.Warn("Dropped %d unterminated definition block(s)", stats.Discarded)
	}
	if f := p.AuxFile(); f != "" {
		log.Debug("Engine aux: %s", f)
	}
	if f := p.LogFile(); f != "" {
		log.Debug("Engine log: %s", f)
	}
	log.Dump("Records:", recs)
	return recs, stats
}

// nameRecords fills in names the parser could not read from the engine's
// name line. Records follow query order, so when every macro produced a
// record the name comes from its position; otherwise it stays empty.
func nameRecords(recs []transcript.Record, macros []string, log *logging.Logger) {
	aligned := len(recs) == len(macros)
	for i := range recs {
		if recs[i].Name != "" {
			continue
		}
		if aligned {
			recs[i].Name = `\` + macros[i]
			log.Debug("Record %d has no name line; using %s", i+1, recs[i].Name)
		} else {
			log.Warn("Record %d has no name line and cannot be matched to a query", i+1)
		}
	}
}

// logShortfall explains a record count that differs from the query.
func logShortfall(log *logging.Logger, out string, want, got int) {
	log.Warn("Asked for %d macro(s) but the engine reported %d", want, got)
	switch {
	case engine.MatchMissingClass(out):
		name, _ := engine.MatchMissingFile(out)
		log.Warn("Document class file not found: %s", name)
	case engine.MatchEmergencyStop(out):
		if name, ok := engine.MatchMissingFile(out); ok {
			log.Warn("Engine stopped: file %s not found", name)
		} else {
			log.Warn("Engine stopped before all probes ran")
		}
	default:
		if name, ok := engine.MatchMissingFile(out); ok {
			log.Warn("Package file not found: %s", name)
		}
	}
	logTail(log, out)
}

// logTail shows the end of the transcript at debug level.
func logTail(log *logging.Logger, out string) {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	log.Block("Last engine output:", strings.Join(lines[start:], "\n"))
}

func logSummary(log *logging.Logger, stats *Stats) {
	log.Debug("Done: %d record(s): %d primitive, %d defined, %d undefined, %d malformed",
		stats.Total, stats.Primitive, stats.Defined, stats.Undefined, stats.Malformed)
}
