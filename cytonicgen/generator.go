// Package cytonicgen generates API bindings from cytonic service
// definitions. It runs one or more target backends over a loaded project
// and writes their output to a directory or another sink.
package cytonicgen

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
	"github.com/broady/cytonic/cytonicgen/sink"
)

// Result lists what a run wrote.
type Result struct {
	// Files maps each target to the paths it wrote, in write order.
	Files map[string][]string
}

// Paths returns every written path, sorted.
func (r *Result) Paths() []string {
	var all []string
	for _, paths := range r.Files {
		all = append(all, paths...)
	}
	slices.Sort(all)
	return all
}

// Generate runs every configured target over project.
func Generate(ctx context.Context, project *cytonic.Project, cfg *Config) (*Result, error) {
	if cfg.Sink == nil && cfg.OutDir == "" {
		return nil, errors.Wrap(cytonic.ErrInvalidConfig, "OutDir or Sink is required")
	}
	cfg = applyConfigDefaults(cfg)

	if err := checkOptionScopes(cfg.Options); err != nil {
		return nil, err
	}
	backends := make([]Backend, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		b, err := NewBackend(t, cfg.Options)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}

	result := &Result{Files: make(map[string][]string)}
	for _, b := range backends {
		cfg.Logger.Debug("generating", "target", b.Name(), "modules", project.ModuleNames())
		out := &loggingSink{next: cfg.Sink, logger: cfg.Logger, target: b.Name()}
		if err := b.Generate(ctx, project, out); err != nil {
			return nil, errors.Wrapf(err, "target %s", b.Name())
		}
		result.Files[b.Name()] = out.paths
	}
	return result, nil
}

// Check runs every configured target into memory and discards the output.
// Options a target cannot run without are filled with placeholders, so a
// check needs no options at all.
func Check(ctx context.Context, project *cytonic.Project, cfg *Config) error {
	c := *cfg
	c.Sink = sink.NewMemorySink()
	c.Options = withCheckDefaults(cfg.Options)
	if c.Logger == nil {
		c.Logger = discardLogger()
	}
	_, err := Generate(ctx, project, &c)
	return err
}

func withCheckDefaults(opts map[string]string) map[string]string {
	out := make(map[string]string, len(opts)+2)
	for k, v := range opts {
		out[k] = v
	}
	if !hasAnyOption(out, TargetPython, "module", "package") {
		out[TargetPython+".module"] = "api"
	}
	if !hasAnyOption(out, TargetGo, "import_path") {
		out[TargetGo+".import_path"] = "example.com/api"
	}
	return out
}

func hasAnyOption(opts map[string]string, target string, keys ...string) bool {
	for _, k := range keys {
		if _, ok := opts[k]; ok {
			return true
		}
		if _, ok := opts[target+"."+k]; ok {
			return true
		}
	}
	return false
}

// checkOptionScopes rejects keys prefixed with something that is not a target.
func checkOptionScopes(opts map[string]string) error {
	for k := range opts {
		scope, _, ok := strings.Cut(k, ".")
		if !ok {
			continue
		}
		if _, known := targets[scope]; !known {
			return errors.WithHintf(
				errors.Wrapf(cytonic.ErrInvalidConfig, "option %q is scoped to unknown target %q", k, scope),
				"valid targets: %v", TargetNames())
		}
	}
	return nil
}

// loggingSink records and logs every file written through it.
type loggingSink struct {
	next   sink.OutputSink
	logger *slog.Logger
	target string

	mu    sync.Mutex
	paths []string
}

func (s *loggingSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := s.next.WriteFile(ctx, path, content); err != nil {
		return err
	}
	s.mu.Lock()
	s.paths = append(s.paths, path)
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "wrote file", "target", s.target, "path", path, "bytes", len(content))
	return nil
}

// Generator provides a fluent API for code generation.
// Create with FromProject() or FromFiles() and configure with method chaining.
//
// Example:
//
//	cytonicgen.FromFiles("api/todolist.yaml", "api/users.yaml").
//	    WithTarget(cytonicgen.TargetPython).
//	    WithOption("python.package", "todo.api").
//	    ToDir("./gen")
type Generator struct {
	project *cytonic.Project
	files   []string
	cfg     Config
}

// FromProject creates a Generator for an already loaded project.
func FromProject(project *cytonic.Project) *Generator {
	return &Generator{project: project}
}

// FromFiles creates a Generator for the given definition files. They are
// loaded when generation runs, so every run sees their current content.
func FromFiles(paths ...string) *Generator {
	return &Generator{files: paths}
}

// WithTarget adds targets to run. Without any, every target runs.
func (g *Generator) WithTarget(targets ...string) *Generator {
	g.cfg.Targets = append(g.cfg.Targets, targets...)
	return g
}

// WithOption sets a backend option. See Config.Options.
func (g *Generator) WithOption(key, value string) *Generator {
	if g.cfg.Options == nil {
		g.cfg.Options = make(map[string]string)
	}
	g.cfg.Options[key] = value
	return g
}

// WithLogger sets the logger generation reports to.
func (g *Generator) WithLogger(logger *slog.Logger) *Generator {
	g.cfg.Logger = logger
	return g
}

// Project returns the project to generate from, loading it from the
// generator's files if needed.
func (g *Generator) Project() (*cytonic.Project, error) {
	if g.project != nil {
		return g.project, nil
	}
	if len(g.files) == 0 {
		return nil, errors.Wrap(cytonic.ErrInvalidConfig, "no definition files")
	}
	return cytonic.ProjectFromFiles(g.files...)
}

// ToDir generates files to the specified directory.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(dir string) (*Result, error) {
	cfg := g.cfg
	cfg.OutDir = dir
	return g.run(context.Background(), &cfg)
}

// ToSink generates files into out.
func (g *Generator) ToSink(ctx context.Context, out sink.OutputSink) (*Result, error) {
	cfg := g.cfg
	cfg.Sink = out
	return g.run(ctx, &cfg)
}

// Check validates the project against every configured target without
// writing anything.
func (g *Generator) Check(ctx context.Context) error {
	p, err := g.Project()
	if err != nil {
		return err
	}
	return Check(ctx, p, &g.cfg)
}

func (g *Generator) run(ctx context.Context, cfg *Config) (*Result, error) {
	p, err := g.Project()
	if err != nil {
		return nil, err
	}
	return Generate(ctx, p, cfg)
}
