package config

// This file registers the command-line flags. Flags are grouped into probe,
// engine, display and utility sets. Negated flags (--no-pretty, --no-color)
// are folded into their config keys by the loader, so Config defaults hold
// unless the user passes the flag.

import (
	"github.com/spf13/pflag"
)

// RegisterFlags defines every flag on fs, using cfg for defaults.
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) {
	defineProbeFlags(fs, cfg)
	defineEngineFlags(fs, cfg)
	defineDisplayFlags(fs, cfg)
	defineUtilityFlags(fs)
}

// defineProbeFlags registers what goes into the probe document.
func defineProbeFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("documentclass", cfg.DocumentClass, "Document class to use (empty for none)")
	fs.BoolP("expl3", "e", false, "Enable LaTeX3 features with the expl3 package")
	fs.Bool("math", false, "Load common math packages (amsmath, amssymb, amsthm, mathtools)")
	fs.StringArrayP("packages", "p", nil, "Package to load, as name or [options]name (repeatable)")
	fs.Bool("in-document", false, "Examine definitions after \\begin{document}")
}

// defineEngineFlags registers engine selection and process settings.
func defineEngineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("engine", cfg.Engine, "TeX engine to run")
	fs.String("output-dir", "", "Writable directory for engine output files (default: system temp dir)")
	fs.StringArray("engine-arg", nil, "Extra argument passed to the engine (repeatable)")
	fs.Duration("timeout", 0, "Abort the engine after this long (0 = no limit)")
}

// defineDisplayFlags registers output shape and logging.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.Int("indent", cfg.Indent, "Spaces per brace level when pretty-printing")
	fs.Bool("no-pretty", false, "Print definitions exactly as the engine reports them")
	fs.StringP("output", "o", string(cfg.OutputFormat), "Output format: text | table | json")
	fs.Bool("color", false, "Force colored output")
	fs.Bool("no-color", false, "Disable colored output")
	fs.BoolP("verbose", "v", false, "Verbose output (probe source, transcript, parsed records)")
	fs.StringP("log", "l", "", "Append logs to file")
	fs.Bool("show-source", false, "Print the generated probe document and exit")
}

// defineUtilityFlags registers mode switches.
func defineUtilityFlags(fs *pflag.FlagSet) {
	fs.BoolP("interactive", "i", false, "Read macro names from an interactive prompt")
	fs.BoolP("check", "c", false, "Check that the engine runs and exit")
	fs.BoolP("version", "V", false, "Print version and exit")
}
