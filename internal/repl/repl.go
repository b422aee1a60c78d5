// Package repl implements interactive mode: a readline prompt where each
// line is a list of macro names to look up.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/backmassage/latexdef/internal/config"
	"github.com/backmassage/latexdef/internal/engine"
	"github.com/backmassage/latexdef/internal/logging"
	"github.com/backmassage/latexdef/internal/pipeline"
	"github.com/backmassage/latexdef/internal/probe"
)

const prompt = "latexdef> "

// Session holds the settings a prompt line runs with. Dot commands change
// them for later lines.
type Session struct {
	cfg    config.Config
	runner *engine.Cached
	log    *logging.Logger
	out    io.Writer
	errOut io.Writer
}

// NewSession wraps runner in a result cache and copies cfg so that dot
// commands do not leak back to the caller.
func NewSession(cfg *config.Config, runner engine.Runner, log *logging.Logger, out, errOut io.Writer) (*Session, error) {
	cached, err := engine.NewCached(runner, engine.DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	s := &Session{cfg: *cfg, runner: cached, log: log, out: out, errOut: errOut}
	s.cfg.Packages = append([]string(nil), cfg.Packages...)
	s.cfg.Interactive = false
	s.cfg.ShowSource = false
	return s, nil
}

// Run starts the prompt and returns on EOF, .quit or context cancellation.
func Run(ctx context.Context, cfg *config.Config, runner engine.Runner, log *logging.Logger, out, errOut io.Writer) error {
	s, err := NewSession(cfg, runner, log, out, errOut)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile(cfg),
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize prompt: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(out, "Engine: %s. Type macro names, .help for commands, .quit to exit\n\n", cfg.Engine)

	for ctx.Err() == nil {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if s.Handle(ctx, line) {
			break
		}
	}
	return nil
}

// Handle runs one prompt line and reports whether the session should end.
func (s *Session) Handle(ctx context.Context, line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return s.dot(line)
	}

	cfg := s.cfg
	cfg.Macros = strings.Fields(line)
	stats, err := pipeline.Run(ctx, &cfg, s.runner, s.log, s.out)
	if err != nil {
		s.log.Error("%v", err)
		return false
	}
	if stats.Failed() {
		s.log.Warn("%d malformed record(s)", stats.Malformed)
	}
	return false
}

func (s *Session) dot(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printHelp(s.out)

	case ".packages":
		s.setPackages(args)

	case ".expl3":
		switch {
		case len(args) == 0:
			s.printf("expl3 is %s\n", onOff(s.cfg.Expl3))
		case args[0] == "on" || args[0] == "off":
			s.cfg.Expl3 = args[0] == "on"
		default:
			s.errorf("Usage: .expl3 on|off\n")
		}

	case ".context":
		if len(args) == 0 {
			s.printf("context is %s\n", s.cfg.Context())
			return false
		}
		c, err := probe.ParseContext(args[0])
		if err != nil {
			s.errorf("Usage: .context prelude|document\n")
			return false
		}
		s.cfg.InDocument = c == probe.ContextDocument

	case ".cache":
		s.printf("%d cached transcript(s)\n", s.runner.Len())
		if len(args) > 0 && args[0] == "clear" {
			s.runner.Purge()
		}

	default:
		s.errorf("Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

// setPackages replaces the package list. "none" clears it; no arguments
// prints it.
func (s *Session) setPackages(args []string) {
	if len(args) == 0 {
		if len(s.cfg.Packages) == 0 {
			s.printf("no packages\n")
		} else {
			s.printf("%s\n", strings.Join(s.cfg.Packages, " "))
		}
		return
	}
	if len(args) == 1 && args[0] == "none" {
		s.cfg.Packages = nil
		return
	}
	for _, a := range args {
		if _, err := probe.ParsePackage(a); err != nil {
			s.errorf("%v\n", err)
			return
		}
	}
	s.cfg.Packages = append([]string(nil), args...)
}

// Config returns the session's current settings.
func (s *Session) Config() config.Config { return s.cfg }

func (s *Session) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func (s *Session) errorf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.errOut, format, args...)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// historyFile returns the readline history path, creating its directory.
// An empty result disables history.
func historyFile(cfg *config.Config) string {
	path := cfg.HistoryFile
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return ""
		}
		path = filepath.Join(dir, "latexdef", "history")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ""
	}
	return path
}

func printHelp(w io.Writer) {
	help := `
Commands:
  .help                       Show this help message
  .packages [pkg ...|none]    Show or replace the package list ([opts]name)
  .expl3 [on|off]             Show or toggle expl3 syntax
  .context [prelude|document] Show or set where macros are examined
  .cache [clear]              Show or clear cached engine transcripts
  .quit / .exit               Exit

Any other line is a list of macro names, with or without the backslash.
`
	_, _ = fmt.Fprintln(w, help)
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".packages", readline.PcItem("none")),
		readline.PcItem(".expl3", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem(".context", readline.PcItem("prelude"), readline.PcItem("document")),
		readline.PcItem(".cache", readline.PcItem("clear")),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
