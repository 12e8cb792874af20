package check

import (
	"context"
	"fmt"

	"github.com/broady/cytonic/cytonicgen"
)

type Cmd struct {
	Files  []string `arg:"" type:"existingfile" help:"Module definition files (.yaml, .yml or .json)."`
	Target []string `help:"Targets to check (default: all)." short:"t"`
	Opt    []string `help:"Backend option as key=value. Repeatable." short:"O" sep:"none"`
}

func (c *Cmd) Run() error {
	opts, err := cytonicgen.ParseOptions(c.Opt)
	if err != nil {
		return err
	}
	g := cytonicgen.FromFiles(c.Files...).WithTarget(c.Target...)
	for k, v := range opts {
		g.WithOption(k, v)
	}

	project, err := g.Project()
	if err != nil {
		return err
	}
	var types, endpoints int
	for _, m := range project.Modules() {
		types += m.Types.Len()
		endpoints += m.Endpoints.Len()
	}
	fmt.Printf("✓ %d modules, %d types, %d endpoints\n", project.Len(), types, endpoints)

	if err := g.Check(context.Background()); err != nil {
		return err
	}
	fmt.Println("✓ All types resolvable")
	return nil
}
