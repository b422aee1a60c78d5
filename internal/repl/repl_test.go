package repl

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/latexdef/internal/config"
	"github.com/backmassage/latexdef/internal/logging"
)

type countingRunner struct {
	calls   int
	sources []string
}

func (r *countingRunner) Run(_ context.Context, source string) (string, error) {
	r.calls++
	r.sources = append(r.sources, source)
	return "*> \\relax=\\relax.\n<recently read> \\relax\n", nil
}

func newSession(t *testing.T) (*Session, *countingRunner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.Interactive = true
	runner := &countingRunner{}
	var out, errOut bytes.Buffer
	s, err := NewSession(&cfg, runner, logging.New(&errOut, nil, false), &out, &errOut)
	require.NoError(t, err)
	return s, runner, &out, &errOut
}

func TestHandle_LooksUpMacros(t *testing.T) {
	s, runner, out, _ := newSession(t)

	assert.False(t, s.Handle(context.Background(), `  \relax  `))
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, "\\relax is primitive.\n", out.String())
}

func TestHandle_CachesRepeatedQueries(t *testing.T) {
	s, runner, _, _ := newSession(t)
	ctx := context.Background()

	s.Handle(ctx, "relax")
	s.Handle(ctx, `\relax`)
	assert.Equal(t, 1, runner.calls, "identical probe should hit the cache")

	s.Handle(ctx, ".expl3 on")
	s.Handle(ctx, "relax")
	assert.Equal(t, 2, runner.calls, "changed settings produce a new probe")
	assert.Contains(t, runner.sources[1], `\ExplSyntaxOn`)
}

func TestHandle_BlankLine(t *testing.T) {
	s, runner, out, _ := newSession(t)
	assert.False(t, s.Handle(context.Background(), "   "))
	assert.Zero(t, runner.calls)
	assert.Empty(t, out.String())
}

func TestDot_Quit(t *testing.T) {
	s, _, _, _ := newSession(t)
	assert.True(t, s.Handle(context.Background(), ".quit"))
	assert.True(t, s.Handle(context.Background(), ".EXIT"))
}

func TestDot_Packages(t *testing.T) {
	s, runner, out, errOut := newSession(t)
	ctx := context.Background()

	s.Handle(ctx, ".packages amsmath [T1]fontenc")
	assert.Equal(t, []string{"amsmath", "[T1]fontenc"}, s.Config().Packages)

	s.Handle(ctx, ".packages")
	assert.Contains(t, out.String(), "amsmath [T1]fontenc")

	s.Handle(ctx, ".packages [broken")
	assert.NotEmpty(t, errOut.String())
	assert.Len(t, s.Config().Packages, 2, "invalid list leaves settings unchanged")

	s.Handle(ctx, "relax")
	require.Len(t, runner.sources, 1)
	assert.Contains(t, runner.sources[0], `\usepackage[T1]{fontenc}`)

	s.Handle(ctx, ".packages none")
	assert.Empty(t, s.Config().Packages)
}

func TestDot_Context(t *testing.T) {
	s, _, out, errOut := newSession(t)
	ctx := context.Background()

	s.Handle(ctx, ".context document")
	assert.True(t, s.Config().InDocument)

	s.Handle(ctx, ".context")
	assert.Contains(t, out.String(), "context is document")

	s.Handle(ctx, ".context nowhere")
	assert.Contains(t, errOut.String(), "Usage: .context")
	assert.True(t, s.Config().InDocument)
}

func TestDot_Expl3Usage(t *testing.T) {
	s, _, out, errOut := newSession(t)
	ctx := context.Background()

	s.Handle(ctx, ".expl3")
	assert.Contains(t, out.String(), "expl3 is off")
	s.Handle(ctx, ".expl3 maybe")
	assert.Contains(t, errOut.String(), "Usage: .expl3")
}

func TestDot_CacheAndUnknown(t *testing.T) {
	s, runner, out, errOut := newSession(t)
	ctx := context.Background()

	s.Handle(ctx, "relax")
	s.Handle(ctx, ".cache clear")
	assert.Contains(t, out.String(), "1 cached transcript(s)")
	s.Handle(ctx, "relax")
	assert.Equal(t, 2, runner.calls, "cleared cache forces a new run")

	s.Handle(ctx, ".bogus")
	assert.Contains(t, errOut.String(), "Unknown command: .bogus")
}

func TestDot_Help(t *testing.T) {
	s, _, out, _ := newSession(t)
	s.Handle(context.Background(), ".help")
	assert.True(t, strings.Contains(out.String(), ".packages"))
}

func TestNewSession_CopiesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Packages = []string{"amsmath"}
	s, err := NewSession(&cfg, &countingRunner{}, logging.New(&bytes.Buffer{}, nil, false), &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	s.Handle(context.Background(), ".packages hyperref")
	assert.Equal(t, []string{"amsmath"}, cfg.Packages)
}

func TestHistoryFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.HistoryFile = filepath.Join(t.TempDir(), "sub", "hist")
	assert.Equal(t, cfg.HistoryFile, historyFile(&cfg))
	assert.DirExists(t, filepath.Dir(cfg.HistoryFile))
}
