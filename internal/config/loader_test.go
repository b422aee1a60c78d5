package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no user config and no
// LATEXDEF_* variables leaking in from the environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	for _, key := range []string{"ENGINE", "DOCUMENTCLASS", "PACKAGES", "EXPL3", "INDENT", "COLOR", "OUTPUT", "TIMEOUT"} {
		t.Setenv(EnvPrefix+key, "")
		require.NoError(t, os.Unsetenv(EnvPrefix+key))
	}
	return dir
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("latexdef", pflag.ContinueOnError)
	def := DefaultConfig()
	RegisterFlags(fs, &def)
	fs.String("config", "", "config file")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, used, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_FileEnvFlagPrecedence(t *testing.T) {
	dir := isolate(t)
	yamlBody := "engine: pdflatex\n" +
		"documentclass: book\n" +
		"packages: [amsmath, \"[T1]fontenc\"]\n" +
		"indent: 4\n" +
		"timeout: 30s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "latexdef.yaml"), []byte(yamlBody), 0o644))
	t.Setenv("LATEXDEF_ENGINE", "xelatex")
	t.Setenv("LATEXDEF_EXPL3", "true")

	cfg, used, err := Load("", newFlags(t, "--indent", "6"))
	require.NoError(t, err)
	assert.Equal(t, "latexdef.yaml", used)

	assert.Equal(t, "xelatex", cfg.Engine, "env beats file")
	assert.Equal(t, "book", cfg.DocumentClass, "file beats default")
	assert.Equal(t, []string{"amsmath", "[T1]fontenc"}, cfg.Packages)
	assert.True(t, cfg.Expl3)
	assert.Equal(t, 6, cfg.Indent, "flag beats file")
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	isolate(t)
	t.Setenv("LATEXDEF_ENGINE", "lualatex")

	cfg, _, err := Load("", newFlags(t, "-e"))
	require.NoError(t, err)
	assert.Equal(t, "lualatex", cfg.Engine)
	assert.True(t, cfg.Expl3)
}

func TestLoad_EnvPackageList(t *testing.T) {
	isolate(t)
	t.Setenv("LATEXDEF_PACKAGES", "amsmath, hyperref,,")

	cfg, _, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"amsmath", "hyperref"}, cfg.Packages)
}

func TestLoad_EnvPackageOptionsKeepCommas(t *testing.T) {
	isolate(t)
	t.Setenv("LATEXDEF_PACKAGES", "[utf8,latin1]inputenc, amsmath,[margin=1in,a4paper]geometry")

	cfg, _, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"[utf8,latin1]inputenc", "amsmath", "[margin=1in,a4paper]geometry"}, cfg.Packages)

	cfg.Macros = []string{"foo"}
	assert.NoError(t, cfg.Validate())
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a,b", []string{"a", "b"}},
		{" a , ,b ,", []string{"a", "b"}},
		{"[x,y]p,q", []string{"[x,y]p", "q"}},
		{"[x,y", []string{"[x,y"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitList(tt.in), "splitList(%q)", tt.in)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LATEXDEF_DOCUMENTCLASS=report\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("LATEXDEF_DOCUMENTCLASS") })

	cfg, _, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "report", cfg.DocumentClass)
}

func TestLoad_NegatedFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantColor ColorMode
		wantPlain bool
	}{
		{"no flags", nil, ColorAuto, false},
		{"force color", []string{"--color"}, ColorAlways, false},
		{"no color", []string{"--no-color"}, ColorNever, false},
		{"no color wins", []string{"--color", "--no-color"}, ColorNever, false},
		{"no pretty", []string{"--no-pretty"}, ColorAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			cfg, _, err := Load("", newFlags(t, tt.args...))
			require.NoError(t, err)
			assert.Equal(t, tt.wantColor, cfg.ColorMode)
			assert.Equal(t, !tt.wantPlain, cfg.Pretty)
		})
	}
}

func TestLoad_RepeatablePackagesFlag(t *testing.T) {
	isolate(t)
	cfg, _, err := Load("", newFlags(t, "-p", "amsmath", "--packages", "[margin=1in,a4paper]geometry", "--in-document"))
	require.NoError(t, err)
	assert.Equal(t, []string{"amsmath", "[margin=1in,a4paper]geometry"}, cfg.Packages)
	assert.True(t, cfg.InDocument)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	dir := isolate(t)
	_, _, err := Load(filepath.Join(dir, "nope.yaml"), nil)
	assert.Error(t, err)
}
