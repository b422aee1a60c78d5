// Command latexdef asks a TeX engine how it defines one or more macros.
//
// It loads configuration (defaults, config file, environment, flags), then
// either runs engine diagnostics (--check), an interactive prompt (-i), or
// a single lookup of the macro names given as arguments.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/latexdef/internal/check"
	"github.com/backmassage/latexdef/internal/config"
	"github.com/backmassage/latexdef/internal/display"
	"github.com/backmassage/latexdef/internal/logging"
	"github.com/backmassage/latexdef/internal/pipeline"
	"github.com/backmassage/latexdef/internal/repl"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "0.1.0"
	commit  = "unknown"
)

// errReported marks failures that were already logged.
var errReported = errors.New("reported")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "latexdef: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	def := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "latexdef [flags] MACRO...",
		Short: "Show how a TeX engine defines macros",
		Long: `latexdef runs a TeX engine on a tiny probe document and reports, for each
macro name, whether it is a primitive, a macro (with its parameters and
expansion text), or undefined. Names may be given with or without the
leading backslash.`,
		Example: `  latexdef section
  latexdef -p amsmath -p '[T1]fontenc' '\mathbb' textbf
  latexdef -e --in-document 'tl_set:Nn'
  latexdef -i`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, cfgFile, args)
		},
	}
	cmd.SetVersionTemplate("latexdef {{.Version}}\n")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./latexdef.yaml or the user config dir)")
	config.RegisterFlags(cmd.Flags(), &def)
	return cmd
}

func runRoot(cmd *cobra.Command, cfgFile string, args []string) error {
	// Bootstrap: errors before the logger exists go to stderr via run().
	cfg, used, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	cfg.Macros = args
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()
	if used != "" {
		log.Debug("Config file: %s", used)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if cfg.CheckOnly {
		display.PrintBanner(out, version)
		if !check.RunCheck(ctx, cfg, log) {
			return errReported
		}
		return nil
	}

	if !cfg.ShowSource {
		// Fail fast when the engine is not installed.
		if err := check.CheckEngine(cfg); err != nil {
			log.Error("%v", err)
			return errReported
		}
	}

	runner := pipeline.NewRunner(cfg)

	if cfg.Interactive {
		display.PrintBanner(out, version)
		if err := repl.Run(ctx, cfg, runner, log, out, cmd.ErrOrStderr()); err != nil {
			log.Error("%v", err)
			return errReported
		}
		return nil
	}

	stats, err := pipeline.Run(ctx, cfg, runner, log, out)
	if err != nil {
		log.Error("%v", err)
		return errReported
	}
	if stats.Failed() {
		return errReported
	}
	return nil
}
