package gen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/broady/cytonic/cytonicgen"
	"github.com/broady/cytonic/cytonicgen/sink"
)

// streamIndicators prefix each file name in --stdout output with the
// target's line comment marker.
var streamIndicators = map[string]string{
	cytonicgen.TargetPython:     "#",
	cytonicgen.TargetTypeScript: "//",
	cytonicgen.TargetGo:         "//",
	cytonicgen.TargetDiscovery:  "//",
}

type Cmd struct {
	Files  []string `arg:"" type:"existingfile" help:"Module definition files (.yaml, .yml or .json)."`
	Target []string `help:"Target to generate: python, typescript, go or discovery. Repeatable." short:"t" required:""`
	Out    string   `help:"Output directory for generated files." short:"o" type:"path"`
	Stdout bool     `help:"Write generated files to stdout instead of a directory."`
	Opt    []string `help:"Backend option as key=value, optionally scoped as target.key=value. Repeatable." short:"O" sep:"none"`
	Watch  bool     `help:"Watch the definition files and regenerate on change." short:"w"`
}

func (c *Cmd) Run() error {
	opts, err := cytonicgen.ParseOptions(c.Opt)
	if err != nil {
		return err
	}
	switch {
	case c.Stdout && c.Out != "":
		return fmt.Errorf("--out and --stdout are mutually exclusive")
	case !c.Stdout && c.Out == "":
		return fmt.Errorf("one of --out or --stdout is required")
	case c.Stdout && c.Watch:
		return fmt.Errorf("--watch cannot be used with --stdout")
	}

	g := cytonicgen.FromFiles(c.Files...).WithLogger(slog.Default())
	for k, v := range opts {
		g.WithOption(k, v)
	}

	if c.Watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return g.WithTarget(c.Target...).Watch(ctx, c.Out)
	}

	if !c.Stdout {
		_, err := g.WithTarget(c.Target...).ToDir(c.Out)
		return err
	}

	// Every target streams with its own comment marker.
	ctx := context.Background()
	for _, t := range c.Target {
		indicator, ok := streamIndicators[t]
		if !ok {
			indicator = "#"
		}
		tg := cytonicgen.FromFiles(c.Files...).WithLogger(slog.Default()).WithTarget(t)
		for k, v := range opts {
			tg.WithOption(k, v)
		}
		if _, err := tg.ToSink(ctx, sink.NewStreamSink(os.Stdout, indicator)); err != nil {
			return err
		}
	}
	return nil
}
