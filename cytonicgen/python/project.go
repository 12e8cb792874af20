package python

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/broady/cytonic/cytonicgen/sink"
)

type pyproject struct {
	BuildSystem buildSystem    `toml:"build-system"`
	Project     projectTable   `toml:"project"`
	Tool        *pyprojectTool `toml:"tool,omitempty"`
}

type buildSystem struct {
	Requires     []string `toml:"requires"`
	BuildBackend string   `toml:"build-backend"`
}

type projectTable struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Authors      []string `toml:"authors"`
	Description  string   `toml:"description"`
	Dependencies []string `toml:"dependencies"`
}

type pyprojectTool struct {
	Flit struct {
		Module struct {
			Name string `toml:"name"`
		} `toml:"module"`
	} `toml:"flit"`
}

// pyprojectFile renders the pyproject.toml of an installable project. opts
// must have defaults applied.
func pyprojectFile(opts Options) ([]byte, error) {
	importName := opts.Module
	if importName == "" {
		importName = opts.Package
	}
	p := pyproject{
		BuildSystem: buildSystem{
			Requires:     []string{"flit_core >=3.2,<4"},
			BuildBackend: "flit_core.buildapi",
		},
		Project: projectTable{
			Name:         importName,
			Version:      opts.Version,
			Authors:      []string{},
			Description:  opts.Description,
			Dependencies: []string{"cytonic ~=" + opts.RuntimeVersion},
		},
	}
	if opts.DistName != "" {
		p.Project.Name = opts.DistName
		p.Tool = &pyprojectTool{}
		p.Tool.Flit.Module.Name = importName
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "encoding pyproject.toml")
	}
	return data, nil
}

func writeProject(ctx context.Context, opts Options, out sink.OutputSink) error {
	data, err := pyprojectFile(opts)
	if err != nil {
		return err
	}
	if err := out.WriteFile(ctx, "pyproject.toml", data); err != nil {
		return err
	}
	if opts.Package != "" {
		return out.WriteFile(ctx, "src/"+modulePath(opts.Package)+"/py.typed", nil)
	}
	return nil
}
