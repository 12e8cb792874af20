package cytonicgen

import (
	"context"
	"encoding/json"
	"maps"
	"net/url"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
	"github.com/broady/cytonic/cytonicgen/describe"
	"github.com/broady/cytonic/cytonicgen/golang"
	"github.com/broady/cytonic/cytonicgen/python"
	"github.com/broady/cytonic/cytonicgen/sink"
	"github.com/broady/cytonic/cytonicgen/typescript"
)

// Backend generates the files of one target.
type Backend interface {
	Name() string
	Generate(ctx context.Context, project *cytonic.Project, out sink.OutputSink) error
}

// Target names.
const (
	TargetPython     = "python"
	TargetTypeScript = "typescript"
	TargetGo         = "go"
	TargetDiscovery  = "discovery"
)

// targets builds a backend from its decoded options.
var targets = map[string]func(values url.Values) (Backend, error){
	TargetPython: func(values url.Values) (Backend, error) {
		g := &python.Generator{}
		return g, decodeOptions(TargetPython, &g.Options, values)
	},
	TargetTypeScript: func(values url.Values) (Backend, error) {
		g := &typescript.Generator{}
		return g, decodeOptions(TargetTypeScript, &g.Options, values)
	},
	TargetGo: func(values url.Values) (Backend, error) {
		g := &golang.Generator{}
		return g, decodeOptions(TargetGo, &g.Options, values)
	},
	TargetDiscovery: func(values url.Values) (Backend, error) {
		g := &DiscoveryGenerator{}
		return g, decodeOptions(TargetDiscovery, &g.Options, values)
	},
}

// TargetNames returns the registered target names, sorted.
func TargetNames() []string {
	return slices.Sorted(maps.Keys(targets))
}

// NewBackend returns the backend of target configured with opts. See
// Config.Options for how keys are scoped.
func NewBackend(target string, opts map[string]string) (Backend, error) {
	build, ok := targets[target]
	if !ok {
		return nil, errors.WithHintf(
			errors.Wrapf(cytonic.ErrInvalidConfig, "unknown target %q", target),
			"valid targets: %v", TargetNames())
	}
	return build(targetOptions(target, opts))
}

// DiscoveryOptions configure the discovery target.
type DiscoveryOptions struct {
	// Filename is the name of the document (default: cytonic.json).
	Filename string `schema:"filename"`
}

// DiscoveryGenerator writes a JSON document describing every module of the
// project: types, errors and the service with resolved argument kinds.
type DiscoveryGenerator struct {
	Options DiscoveryOptions
}

// Name returns "discovery".
func (g *DiscoveryGenerator) Name() string {
	return TargetDiscovery
}

// Generate writes the discovery document.
func (g *DiscoveryGenerator) Generate(ctx context.Context, project *cytonic.Project, out sink.OutputSink) error {
	modules, err := describe.Discovery(project)
	if err != nil {
		return err
	}
	doc := struct {
		Modules []*describe.ModuleDescription `json:"modules"`
	}{modules}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding discovery document")
	}
	name := g.Options.Filename
	if name == "" {
		name = "cytonic.json"
	}
	return out.WriteFile(ctx, name, append(data, '\n'))
}
