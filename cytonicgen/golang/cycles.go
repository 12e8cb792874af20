package golang

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
)

// typeStrings returns every type string a module declares, in no
// particular order.
func typeStrings(m *cytonic.ModuleConfig) []string {
	var out []string
	for _, t := range m.Types.All() {
		if t.Extends != nil {
			out = append(out, *t.Extends)
		}
		for _, f := range t.Fields.All() {
			out = append(out, f.Type)
		}
		for _, v := range t.Union.All() {
			out = append(out, v)
		}
	}
	for _, e := range m.Errors.All() {
		for _, f := range e.Fields.All() {
			out = append(out, f.Type)
		}
	}
	for _, ep := range m.Endpoints.All() {
		for _, a := range ep.Args.All() {
			out = append(out, a.Type)
		}
		if ep.Return != "" {
			out = append(out, ep.Return)
		}
	}
	return out
}

// moduleDeps returns the sorted names of the other modules whose types
// module name refers to. Malformed or unresolved type strings are skipped;
// RenderModule reports them with their declaration.
func moduleDeps(project *cytonic.Project, name string) []string {
	m, ok := project.Module(name)
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	for _, s := range typeStrings(m) {
		dt, err := cytonic.ParseDatatype(s)
		if err != nil {
			continue
		}
		dt.Walk(func(d cytonic.Datatype) {
			if _, builtin := typeTemplates[d.Name]; builtin {
				return
			}
			if loc, ok := project.FindType(d.Name); ok && loc.ModuleName != name {
				seen[loc.ModuleName] = true
			}
		})
	}
	deps := make([]string, 0, len(seen))
	for dep := range seen {
		deps = append(deps, dep)
	}
	slices.Sort(deps)
	return deps
}

// checkImportCycles fails when the packages generated for the project's
// modules would import each other, which the Go compiler rejects.
func checkImportCycles(project *cytonic.Project) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	var stack []string

	var visit func(name string) []string
	visit = func(name string) []string {
		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range moduleDeps(project, name) {
			switch state[dep] {
			case visiting:
				start := slices.Index(stack, dep)
				return append(slices.Clone(stack[start:]), dep)
			case unvisited:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}

	for _, name := range project.ModuleNames() {
		if state[name] != unvisited {
			continue
		}
		if cycle := visit(name); cycle != nil {
			return errors.WithHint(
				errors.Wrapf(cytonic.ErrInvalidConfig, "go: import cycle between modules %s", strings.Join(cycle, " -> ")),
				"Go packages cannot import each other; move the shared types into one module",
			)
		}
	}
	return nil
}
