package cytonicgen

import (
	"io"
	"log/slog"

	"github.com/broady/cytonic/cytonicgen/sink"
)

// Config holds the configuration for code generation.
type Config struct {
	// Targets are the backends to run, e.g. "python" or "go".
	// Default: every registered target.
	Targets []string

	// OutDir is the directory generated files are written to.
	// Ignored when Sink is set.
	OutDir string

	// Sink receives the generated files. When nil, files are written
	// below OutDir.
	Sink sink.OutputSink

	// Options are backend options as key/value pairs. A key prefixed with a
	// target name, e.g. "python.package", applies to that target only; an
	// unprefixed key applies to every selected target.
	Options map[string]string

	// Logger receives a record for every written file.
	// Default: slog.Default()
	Logger *slog.Logger
}

// applyConfigDefaults applies default values to Config.
func applyConfigDefaults(cfg *Config) *Config {
	// Make a copy to avoid mutating the input
	result := *cfg

	if len(result.Targets) == 0 {
		result.Targets = TargetNames()
	}
	if result.Logger == nil {
		result.Logger = slog.Default()
	}
	if result.Sink == nil && result.OutDir != "" {
		result.Sink = sink.NewFilesystemSink(result.OutDir)
	}
	return &result
}

// discardLogger drops every record.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
