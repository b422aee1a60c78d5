// Package check provides engine diagnostics (--check mode) and the
// pre-run dependency check (CheckEngine).
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/backmassage/latexdef/internal/config"
	"github.com/backmassage/latexdef/internal/engine"
	"github.com/backmassage/latexdef/internal/pipeline"
	"github.com/backmassage/latexdef/internal/probe"
	"github.com/backmassage/latexdef/internal/transcript"
)

// ErrEngineNotFound is returned by CheckEngine when the engine binary is
// not on PATH.
var ErrEngineNotFound = errors.New("engine not found on PATH")

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// RunCheck runs the --check flow: locate the engine, print its version and
// probe \relax with the configured class and packages. It reports whether
// every step passed.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) bool {
	log.Info("=== Engine Check ===")

	path, err := exec.LookPath(cfg.Engine)
	if err != nil {
		log.Error("%s not found on PATH", cfg.Engine)
		return false
	}
	log.Success("%s: %s", cfg.Engine, path)

	runner := pipeline.NewRunner(cfg)
	if v, err := runner.Version(ctx); err != nil {
		log.Warn("%s found but --version failed: %v", cfg.Engine, err)
	} else {
		log.Success("Version: %s", v)
	}

	return checkProbe(ctx, cfg, runner, log)
}

// checkProbe asks the engine for \relax, which must come back primitive.
func checkProbe(ctx context.Context, cfg *config.Config, runner engine.Runner, log Logger) bool {
	pc, err := cfg.ProbeConfig([]string{"relax"})
	if err != nil {
		log.Error("Invalid probe settings: %v", err)
		return false
	}
	log.Info("Probing \\relax (class %q, %d package(s))...", pc.DocumentClass, len(pc.Packages))

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	out, err := runner.Run(ctx, probe.Render(pc))
	if err != nil {
		log.Error("Probe failed: %v", err)
		return false
	}

	recs := transcript.Parse(out)
	switch {
	case len(recs) == 0:
		if name, ok := engine.MatchMissingFile(out); ok {
			log.Error("Probe produced no record: %s not found", name)
		} else {
			log.Error("Probe produced no record")
		}
		return false
	case !recs[0].IsPrimitive():
		log.Error("Unexpected answer for \\relax: %s=%s", recs[0].Name, recs[0].Kind)
		return false
	}
	log.Success("Probe works (\\relax is primitive)")
	return true
}

// CheckEngine is the pre-run validation: the engine binary must be on PATH.
func CheckEngine(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.Engine); err != nil {
		return fmt.Errorf("%w: %s", ErrEngineNotFound, cfg.Engine)
	}
	return nil
}
