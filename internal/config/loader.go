package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment override, e.g. LATEXDEF_ENGINE.
const EnvPrefix = "LATEXDEF_"

var configNames = []string{"latexdef.yaml", "latexdef.yml"}

// Flags that select modes or files rather than settings.
var nonConfigFlags = map[string]bool{
	"config":  true,
	"help":    true,
	"version": true,
}

// findConfigFile returns the config file to read.
// Priority: explicit path > ./latexdef.yaml > ./latexdef.yml > user config dir.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, name := range configNames {
			candidate := filepath.Join(dir, "latexdef", name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}

// Load builds a Config from, lowest to highest precedence: defaults, the
// YAML config file, a .env file and LATEXDEF_* environment variables, and
// flags that were explicitly set on fs. It returns the config file used
// (empty if none). Positional macro names are not part of Load.
func Load(cfgFile string, fs *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")
	def := DefaultConfig()

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"engine":        def.Engine,
		"documentclass": def.DocumentClass,
		"pretty":        def.Pretty,
		"indent":        def.Indent,
		"output":        string(def.OutputFormat),
		"color":         string(def.ColorMode),
	}, "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment, with .env filling in anything not already exported.
	_ = godotenv.Load()
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Explicitly set flags
	if fs != nil {
		if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || nonConfigFlags[f.Name] {
				return "", nil
			}
			return flagValue(fs, f)
		}), nil); err != nil {
			return nil, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal over the defaults
	cfg := def
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, "", fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, used, nil
}

// envValue maps LATEXDEF_IN_DOCUMENT=1 to in_document, splitting list
// settings on commas.
func envValue(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	switch key {
	case "packages", "engine_args":
		return key, splitList(value)
	}
	return key, value
}

// flagValue maps a changed flag to its config key (kebab-case to
// snake_case) and value, folding negated flags into their positive keys.
func flagValue(fs *pflag.FlagSet, f *pflag.Flag) (string, interface{}) {
	switch f.Name {
	case "no-pretty":
		v, _ := fs.GetBool(f.Name)
		return "pretty", !v
	case "color":
		// --no-color wins when both are given.
		if v, _ := fs.GetBool(f.Name); v && !changed(fs, "no-color") {
			return "color", string(ColorAlways)
		}
		return "", nil
	case "no-color":
		if v, _ := fs.GetBool(f.Name); v {
			return "color", string(ColorNever)
		}
		return "", nil
	case "packages":
		v, _ := fs.GetStringArray(f.Name)
		return "packages", v
	case "engine-arg":
		v, _ := fs.GetStringArray(f.Name)
		return "engine_args", v
	}
	return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
}

func changed(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}

// splitList splits on commas outside square brackets, so package option
// lists such as "[utf8,latin1]inputenc" stay whole.
func splitList(s string) []string {
	var out []string
	add := func(part string) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				add(s[start:i])
				start = i + 1
			}
		}
	}
	add(s[start:])
	return out
}
