// Package python generates Python bindings: dataclasses for types and
// errors, enums, annotated unions and abstract service classes in a blocking
// and an async flavor.
package python

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
	"github.com/broady/cytonic/cytonicgen/codewriter"
	"github.com/broady/cytonic/cytonicgen/convert"
	"github.com/broady/cytonic/cytonicgen/sink"
	"github.com/broady/cytonic/internal/ordered"
)

// Runtime modules the generated code imports from.
const (
	runtimeModule     = "cytonic.runtime"
	descriptionModule = "cytonic.description"
	modelModule       = "cytonic.model"
)

// File is one Python module to generate.
type File struct {
	// Path is the output path relative to the sink root.
	Path string
	// Name is the dotted Python module name.
	Name string
	// Modules are the project modules rendered into this file.
	Modules []string
}

// Layout returns the Python files opts produces for project.
func Layout(project *cytonic.Project, opts Options) []File {
	prefix := ""
	if opts.Installable {
		prefix = "src/"
	}
	if opts.Module != "" {
		return []File{{
			Path:    prefix + modulePath(opts.Module) + ".py",
			Name:    opts.Module,
			Modules: project.ModuleNames(),
		}}
	}
	var files []File
	for _, name := range project.ModuleNames() {
		dotted := opts.Package + "." + name
		files = append(files, File{
			Path:    prefix + modulePath(dotted) + ".py",
			Name:    dotted,
			Modules: []string{name},
		})
	}
	return files
}

func modulePath(dotted string) string {
	return strings.ReplaceAll(dotted, ".", "/")
}

// Generate writes Python bindings for every module of project to out.
func Generate(ctx context.Context, project *cytonic.Project, opts Options, out sink.OutputSink) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	opts = opts.withDefaults()
	source := func(module string) string { return opts.Package + "." + module }
	if opts.Module != "" {
		source = func(string) string { return opts.Module }
	}

	for _, f := range Layout(project, opts) {
		content, err := RenderFile(project, f, opts.Indent, source)
		if err != nil {
			return errors.Wrapf(err, "python: %s", f.Name)
		}
		if err := out.WriteFile(ctx, f.Path, content); err != nil {
			return err
		}
	}

	prefix := ""
	if opts.Installable {
		prefix = "src/"
	}
	if opts.Package != "" {
		var pkg codewriter.Writer
		for _, name := range project.ModuleNames() {
			pkg.Linef("from %s.%s import *", opts.Package, name)
		}
		if err := out.WriteFile(ctx, prefix+modulePath(opts.Package)+"/__init__.py", pkg.Bytes()); err != nil {
			return err
		}
	}
	if opts.Installable {
		return writeProject(ctx, opts, out)
	}
	return nil
}

type fileWriter struct {
	project *cytonic.Project
	conv    *convert.Converter[string]
	imports *convert.Imports
	w       *codewriter.Writer
}

// RenderFile renders the project modules of f into one Python module.
// source maps project module names to the dotted Python module defining
// their types.
func RenderFile(project *cytonic.Project, f File, indent int, source func(string) string) ([]byte, error) {
	current := ""
	if len(f.Modules) > 0 {
		current = f.Modules[0]
	}
	backend := &typeBackend{}
	conv, err := convert.New[string](project, current, templates, backend, convert.WithImportSource(source))
	if err != nil {
		return nil, err
	}
	backend.imports = conv.Imports()
	fw := &fileWriter{
		project: project,
		conv:    conv,
		imports: conv.Imports(),
		w:       codewriter.New(strings.Repeat(" ", indent)),
	}

	fw.w.Line("# -*- coding: utf-8 -*-")
	fw.w.Line("# Do not edit; this file was automatically generated by cytonic.")
	if len(f.Modules) == 1 {
		if m, ok := project.Module(f.Modules[0]); ok && m.Docs != "" {
			fw.w.Blank(1)
			writeDocstring(fw.w, m.Docs)
		}
	}
	header := fw.w.Section()

	for _, name := range f.Modules {
		m, _ := project.Module(name)
		if err := fw.module(m); err != nil {
			return nil, errors.Wrapf(err, "module %s", name)
		}
	}

	if mods := fw.imports.Modules(); len(mods) > 0 {
		header.Blank(1)
		for _, mod := range mods {
			header.Linef("import %s", mod)
		}
	}
	if groups := fw.imports.Groups(); len(groups) > 0 {
		header.Blank(1)
		for _, g := range groups {
			header.Linef("from %s import %s", g.Source, strings.Join(g.Symbols, ", "))
		}
	}
	return fw.w.Bytes(), nil
}

func (fw *fileWriter) member(fn func()) {
	fw.w.Blank(2)
	fn()
}

func (fw *fileWriter) module(m *cytonic.ModuleConfig) error {
	for name, e := range m.Errors.All() {
		c, err := fw.errorClass(name, e)
		if err != nil {
			return errors.Wrapf(err, "error %s", name)
		}
		fw.member(func() { writeClass(fw.w, c) })
	}
	for name, t := range m.Types.All() {
		if err := t.Validate(); err != nil {
			return errors.Wrapf(err, "type %s", name)
		}
		if err := fw.typeDecl(name, t); err != nil {
			return errors.Wrapf(err, "type %s", name)
		}
	}
	if m.Endpoints.Len() > 0 {
		for _, async := range []bool{false, true} {
			c, err := fw.serviceClass(m, async)
			if err != nil {
				return err
			}
			fw.member(func() { writeClass(fw.w, c) })
		}
	}
	return nil
}

func (fw *fileWriter) fields(fs *ordered.Map[cytonic.FieldConfig]) ([]field, error) {
	var out []field
	for name, f := range fs.All() {
		hint, err := fw.conv.Convert(f.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", name)
		}
		pf := field{name: name, hint: hint, docs: f.Docs}
		if f.HasDefault {
			pf.value = literal(f.Default)
		}
		out = append(out, pf)
	}
	return out, nil
}

var errorBases = map[cytonic.ErrorCode]string{
	cytonic.CodeNotFound:        "NotFoundError",
	cytonic.CodeUnauthorized:    "UnauthorizedError",
	cytonic.CodeConflict:        "ConflictError",
	cytonic.CodeIllegalArgument: "IllegalArgumentError",
	cytonic.CodeInternal:        "InternalError",
}

func (fw *fileWriter) errorClass(name string, e *cytonic.ErrorConfig) (class, error) {
	base, ok := errorBases[e.Code()]
	if !ok {
		return class{}, errors.Wrapf(cytonic.ErrInvalidConfig, "unknown error code %q", e.ErrorCode)
	}
	fs, err := fw.fields(e.Fields)
	if err != nil {
		return class{}, err
	}
	fw.imports.AddModule("dataclasses")
	fw.imports.Add(runtimeModule, base)
	return class{
		name:       name + "Error",
		docs:       e.Docs,
		decorators: []string{"@dataclasses.dataclass"},
		bases:      []string{base},
		fields:     fs,
		methods: []function{{
			name: "__post_init__",
			args: []string{"self"},
			body: []string{"super().__init__()"},
		}},
	}, nil
}

func (fw *fileWriter) typeDecl(name string, t *cytonic.TypeConfig) error {
	switch t.Kind() {
	case cytonic.TypeUnion:
		var hints, entries []string
		for variant, s := range t.Union.All() {
			hint, err := fw.conv.Convert(s)
			if err != nil {
				return errors.Wrapf(err, "variant %s", variant)
			}
			hints = append(hints, hint)
			entries = append(entries, quote(variant)+": "+hint+",")
		}
		fw.imports.AddModule("typing")
		fw.imports.AddModule("databind.core.annotations")
		fw.member(func() {
			fw.w.Linef("%s = typing.Annotated[", name)
			fw.w.Indented(func() {
				fw.w.Line(strings.Join(hints, " | ") + ",")
				fw.w.Line("databind.core.annotations.union({")
				fw.w.Indented(func() {
					for _, e := range entries {
						fw.w.Line(e)
					}
				})
				fw.w.Line("})")
			})
			fw.w.Line("]")
			writeDocstring(fw.w, t.Docs)
		})
		return nil

	case cytonic.TypeEnum:
		fw.imports.AddModule("enum")
		c := class{name: name, docs: t.Docs, bases: []string{"enum.Enum"}}
		for _, v := range t.Values {
			c.fields = append(c.fields, field{name: v.Name, value: "enum.auto()", docs: v.Docs})
		}
		fw.member(func() { writeClass(fw.w, c) })
		return nil

	default:
		fs, err := fw.fields(t.Fields)
		if err != nil {
			return err
		}
		fw.imports.AddModule("dataclasses")
		c := class{name: name, docs: t.Docs, decorators: []string{"@dataclasses.dataclass"}, fields: fs}
		if t.Extends != nil {
			base, err := fw.conv.Convert(*t.Extends)
			if err != nil {
				return errors.Wrap(err, "extends")
			}
			c.bases = []string{base}
		}
		fw.member(func() { writeClass(fw.w, c) })
		return nil
	}
}

func (fw *fileWriter) authDecorators(auth *cytonic.AuthenticationConfig) []string {
	if auth == nil {
		return nil
	}
	fw.imports.Add(descriptionModule, "authentication")
	fw.imports.Add(modelModule, auth.ClassName())
	return []string{"@authentication(" + auth.String() + ")"}
}

func (fw *fileWriter) serviceClass(m *cytonic.ModuleConfig, async bool) (class, error) {
	name := m.Name + "ServiceBlocking"
	if async {
		name = m.Name + "ServiceAsync"
	}
	fw.imports.AddModule("abc")
	fw.imports.Add(descriptionModule, "service")
	c := class{
		name:       name,
		docs:       m.Docs,
		bases:      []string{"abc.ABC"},
		decorators: append([]string{"@service(" + quote(m.Name) + ")"}, fw.authDecorators(m.Auth)...),
	}
	for epName, ep := range m.Endpoints.All() {
		fn, err := fw.endpoint(m, epName, ep)
		if err != nil {
			return class{}, errors.Wrapf(err, "endpoint %s", epName)
		}
		fn.async = async
		c.methods = append(c.methods, fn)
	}
	return c, nil
}

func (fw *fileWriter) endpoint(m *cytonic.ModuleConfig, name string, ep *cytonic.EndpointConfig) (function, error) {
	fw.imports.Add(descriptionModule, "endpoint")
	decorators := []string{`@endpoint("` + ep.HTTP.String() + `")`}
	decorators = append(decorators, fw.authDecorators(ep.Auth)...)
	decorators = append(decorators, "@abc.abstractmethod")

	args := []string{"self"}
	if m.EndpointAuth(ep) != nil {
		fw.imports.Add(runtimeModule, "Credentials")
		args = append(args, "auth: Credentials")
	}
	for argName, arg := range ep.Args.All() {
		if collides(argName) {
			return function{}, errors.Wrapf(cytonic.ErrArgument, "argument name %q on endpoint %q collides with built-in", argName, name)
		}
		hint, err := fw.conv.Convert(arg.Type)
		if err != nil {
			return function{}, errors.Wrapf(err, "argument %s", argName)
		}
		a := argName + ": " + hint
		if strings.HasPrefix(strings.TrimSpace(arg.Type), "optional[") {
			a += " = None"
		}
		args = append(args, a)
	}

	returns := "None"
	if ep.Return != "" {
		var err error
		if returns, err = fw.conv.Convert(ep.Return); err != nil {
			return function{}, errors.Wrap(err, "return")
		}
	}
	return function{
		name:       name,
		args:       args,
		returns:    returns,
		docs:       ep.Docs,
		decorators: decorators,
		body:       []string{"pass"},
	}, nil
}

// Generator is the Python backend.
type Generator struct {
	Options Options
}

// Name returns "python".
func (g *Generator) Name() string {
	return "python"
}

// Generate writes Python bindings for project to out.
func (g *Generator) Generate(ctx context.Context, project *cytonic.Project, out sink.OutputSink) error {
	return Generate(ctx, project, g.Options, out)
}
