// Package golang generates Go bindings: structs, enums, unions and error
// types for every module, plus a context-aware service interface and a
// function that describes the service for runtime frameworks.
//
// Each project module becomes one package below Options.ImportPath.
package golang

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/imports"

	"github.com/broady/cytonic"
	"github.com/broady/cytonic/cytonicgen/codewriter"
	"github.com/broady/cytonic/cytonicgen/convert"
	"github.com/broady/cytonic/cytonicgen/sink"
	"github.com/broady/cytonic/internal/ordered"
)

// Import paths the generated code depends on.
const (
	RuntimeImport  = "github.com/broady/cytonic"
	DescribeImport = "github.com/broady/cytonic/cytonicgen/describe"
)

// Options configure Go generation.
type Options struct {
	// ImportPath is the import path of the directory the packages are
	// written to, e.g. "example.com/todo/api".
	ImportPath string `schema:"import_path"`
}

// Validate checks that ImportPath is set.
func (o Options) Validate() error {
	if o.ImportPath == "" {
		return errors.WithHint(
			errors.Wrap(cytonic.ErrInvalidConfig, "go: import_path is required"),
			"pass --opt import_path=example.com/your/api")
	}
	return nil
}

// Generator is the Go backend.
type Generator struct {
	Options Options
}

// Name returns "go".
func (g *Generator) Name() string {
	return "go"
}

// Generate writes <pkg>/<pkg>.go for every project module to out.
func (g *Generator) Generate(ctx context.Context, project *cytonic.Project, out sink.OutputSink) error {
	if err := g.Options.Validate(); err != nil {
		return err
	}
	if err := checkImportCycles(project); err != nil {
		return err
	}
	for _, name := range project.ModuleNames() {
		content, err := RenderModule(project, name, g.Options)
		if err != nil {
			return errors.Wrapf(err, "go: module %s", name)
		}
		pkg := packageName(name)
		if err := out.WriteFile(ctx, pkg+"/"+pkg+".go", content); err != nil {
			return err
		}
	}
	return nil
}

type moduleWriter struct {
	module  *cytonic.ModuleConfig
	types   *convert.Converter[string]
	refs    *convert.Converter[string]
	imports *convert.Imports
	w       *codewriter.Writer
}

// RenderModule renders and formats the Go file of one project module.
func RenderModule(project *cytonic.Project, name string, opts Options) ([]byte, error) {
	m, ok := project.Module(name)
	if !ok {
		return nil, errors.Newf("module %q not in project", name)
	}
	source := func(module string) string { return joinImport(opts.ImportPath, module) }

	tb := &typeBackend{current: name}
	types, err := convert.New[string](project, name, typeTemplates, tb, convert.WithImportSource(source))
	if err != nil {
		return nil, err
	}
	tb.imports = types.Imports()
	refs, err := convert.New[string](project, name, refTemplates, refBackend{})
	if err != nil {
		return nil, err
	}

	mw := &moduleWriter{
		module:  m,
		types:   types,
		refs:    refs,
		imports: types.Imports(),
		w:       codewriter.New("\t"),
	}
	mw.w.Line("// Code generated by cytonic. DO NOT EDIT.")
	mw.w.Blank(1)
	mw.w.Linef("// Package %s contains the bindings of the %s module.", packageName(name), name)
	if m.Docs != "" {
		mw.w.Line("//")
		mw.comment(m.Docs)
	}
	mw.w.Linef("package %s", packageName(name))
	header := mw.w.Section()

	if err := mw.write(); err != nil {
		return nil, err
	}

	var paths []string
	paths = append(paths, mw.imports.Modules()...)
	for _, g := range mw.imports.Groups() {
		paths = append(paths, g.Source)
	}
	if len(paths) > 0 {
		header.Blank(1)
		header.Block("import (", func() {
			for _, p := range paths {
				header.Line(strconv.Quote(p))
			}
		}, ")")
	}

	src := mw.w.Bytes()
	formatted, err := imports.Process(packageName(name)+".go", src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "formatting generated code:\n%s", src)
	}
	return formatted, nil
}

// comment writes docs as a line comment wrapped to the current indentation.
func (mw *moduleWriter) comment(docs string) {
	docs = strings.TrimSpace(docs)
	if docs == "" {
		return
	}
	for _, line := range codewriter.Wrap(docs, 77-mw.w.PrefixLen()) {
		if line == "" {
			mw.w.Line("//")
			continue
		}
		mw.w.Line("// " + line)
	}
}

func (mw *moduleWriter) write() error {
	for name, t := range mw.module.Types.All() {
		mw.w.Blank(1)
		if err := mw.typeDecl(name, t); err != nil {
			return errors.Wrapf(err, "type %s", name)
		}
	}
	for name, e := range mw.module.Errors.All() {
		mw.w.Blank(1)
		if err := mw.errorDecl(name, e); err != nil {
			return errors.Wrapf(err, "error %s", name)
		}
	}
	if mw.module.Endpoints.Len() == 0 {
		return nil
	}
	mw.w.Blank(1)
	if err := mw.serviceInterface(); err != nil {
		return err
	}
	mw.w.Blank(1)
	return mw.serviceDescription()
}

type structField struct {
	name, typ, tag, docs string
}

func (mw *moduleWriter) fields(fs *ordered.Map[cytonic.FieldConfig]) ([]structField, error) {
	var out []structField
	for key, f := range fs.All() {
		typ, err := mw.types.Convert(f.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", key)
		}
		tag := key
		if strings.HasPrefix(typ, "*") || strings.HasPrefix(typ, "[]") || strings.HasPrefix(typ, "map[") {
			tag += ",omitempty"
		}
		out = append(out, structField{
			name: exported(key),
			typ:  typ,
			tag:  "`json:" + strconv.Quote(tag) + "`",
			docs: f.Docs,
		})
	}
	return out, nil
}

func (mw *moduleWriter) writeFields(fields []structField) {
	for _, f := range fields {
		mw.comment(f.docs)
		mw.w.Linef("%s %s %s", f.name, f.typ, f.tag)
	}
}

func (mw *moduleWriter) typeDecl(name string, t *cytonic.TypeConfig) error {
	if err := t.Validate(); err != nil {
		return err
	}
	mw.comment(t.Docs)
	switch t.Kind() {
	case cytonic.TypeEnum:
		mw.w.Linef("type %s string", name)
		mw.w.Blank(1)
		mw.w.Block("const (", func() {
			for _, v := range t.Values {
				c := enumConst(name, v.Name)
				mw.comment(v.Docs)
				mw.w.Linef("%s %s = %s", c, name, strconv.Quote(v.Name))
			}
		}, ")")
		return nil

	case cytonic.TypeUnion:
		var fields []structField
		for variant, s := range t.Union.All() {
			typ, err := mw.types.Convert(s)
			if err != nil {
				return errors.Wrapf(err, "variant %s", variant)
			}
			if !strings.HasPrefix(typ, "*") {
				typ = "*" + typ
			}
			fields = append(fields, structField{
				name: exported(variant),
				typ:  typ,
				tag:  "`json:" + strconv.Quote(variant+",omitempty") + "`",
			})
		}
		mw.w.Block("type "+name+" struct {", func() {
			mw.w.Line("// Exactly one of the following is set.")
			mw.writeFields(fields)
		}, "}")
		return nil
	}

	fields, err := mw.fields(t.Fields)
	if err != nil {
		return err
	}
	embed := ""
	if t.Extends != nil {
		if embed, err = mw.types.Convert(*t.Extends); err != nil {
			return errors.Wrap(err, "extends")
		}
	}
	mw.w.Block("type "+name+" struct {", func() {
		if embed != "" {
			mw.w.Line(embed)
			if len(fields) > 0 {
				mw.w.Blank(1)
			}
		}
		mw.writeFields(fields)
	}, "}")
	return nil
}

var errorCodeConsts = map[cytonic.ErrorCode]string{
	cytonic.CodeNotFound:        "CodeNotFound",
	cytonic.CodeUnauthorized:    "CodeUnauthorized",
	cytonic.CodeConflict:        "CodeConflict",
	cytonic.CodeIllegalArgument: "CodeIllegalArgument",
	cytonic.CodeInternal:        "CodeInternal",
}

// errorMethods are the methods generated on every error type. Fields with
// the same Go name get a trailing underscore.
var errorMethods = map[string]struct{}{
	"Error":        {},
	"ServiceError": {},
}

func (mw *moduleWriter) errorDecl(name string, e *cytonic.ErrorConfig) error {
	fields, err := mw.fields(e.Fields)
	if err != nil {
		return err
	}
	for i := range fields {
		if _, clash := errorMethods[fields[i].name]; clash {
			fields[i].name += "_"
		}
	}
	code, ok := errorCodeConsts[e.Code()]
	if !ok {
		return errors.Wrapf(cytonic.ErrInvalidConfig, "unknown error code %q", e.ErrorCode)
	}
	mw.imports.AddModule(RuntimeImport)
	typeName := name + "Error"
	qualified := strconv.Quote(mw.module.Name + ":" + name)

	mw.comment(e.Docs)
	mw.w.Block("type "+typeName+" struct {", func() {
		mw.writeFields(fields)
	}, "}")
	mw.w.Blank(1)
	mw.w.Block("func (e *"+typeName+") Error() string {", func() {
		mw.w.Linef("return %s", qualified)
	}, "}")
	mw.w.Blank(1)
	mw.w.Linef("// ServiceError returns the wire representation of e.")
	mw.w.Block("func (e *"+typeName+") ServiceError() *cytonic.ServiceError {", func() {
		if len(fields) == 0 {
			mw.w.Linef("return cytonic.NewServiceError(cytonic.%s, %s)", code, qualified)
			return
		}
		mw.w.Linef("return cytonic.NewServiceError(cytonic.%s, %s).", code, qualified)
		mw.w.Indented(func() {
			for i, key := range e.Fields.Keys() {
				suffix := "."
				if i == len(fields)-1 {
					suffix = ""
				}
				mw.w.Linef("WithParameter(%s, e.%s)%s", strconv.Quote(key), fields[i].name, suffix)
			}
		})
	}, "}")
	return nil
}

func (mw *moduleWriter) serviceName() string {
	return exported(mw.module.Name) + "Service"
}

func (mw *moduleWriter) serviceInterface() error {
	mw.imports.AddModule("context")
	var methods []string
	var docs []string
	for epName, ep := range mw.module.Endpoints.All() {
		params := []string{"ctx context.Context"}
		if mw.module.EndpointAuth(ep) != nil {
			mw.imports.AddModule(RuntimeImport)
			params = append(params, "auth cytonic.Credentials")
		}
		for argName, arg := range ep.Args.All() {
			typ, err := mw.types.Convert(arg.Type)
			if err != nil {
				return errors.Wrapf(err, "endpoint %s: argument %s", epName, argName)
			}
			params = append(params, unexported(argName)+" "+typ)
		}
		results := "error"
		if ep.Return != "" {
			typ, err := mw.types.Convert(ep.Return)
			if err != nil {
				return errors.Wrapf(err, "endpoint %s: return", epName)
			}
			results = "(" + typ + ", error)"
		}
		methods = append(methods, exported(epName)+"("+strings.Join(params, ", ")+") "+results)
		docs = append(docs, ep.Docs)
	}

	mw.w.Linef("// %s is implemented by %s servers.", mw.serviceName(), mw.module.Name)
	mw.w.Block("type "+mw.serviceName()+" interface {", func() {
		for i, m := range methods {
			if i > 0 && docs[i] != "" {
				mw.w.Blank(1)
			}
			mw.comment(docs[i])
			mw.w.Line(m)
		}
	}, "}")
	return nil
}

func authExpr(auth *cytonic.AuthenticationConfig) string {
	switch auth.Type {
	case cytonic.AuthOAuth2Bearer:
		return "cytonic.OAuth2Bearer(" + strconv.Quote(auth.HeaderName) + ")"
	case cytonic.AuthBasic:
		return "cytonic.BasicAuth()"
	default:
		return "cytonic.NoAuth()"
	}
}

var paramKindConsts = map[cytonic.ParamKind]string{
	cytonic.KindAuth:   "cytonic.KindAuth",
	cytonic.KindBody:   "cytonic.KindBody",
	cytonic.KindCookie: "cytonic.KindCookie",
	cytonic.KindHeader: "cytonic.KindHeader",
	cytonic.KindPath:   "cytonic.KindPath",
	cytonic.KindQuery:  "cytonic.KindQuery",
}

func (mw *moduleWriter) serviceDescription() error {
	mw.imports.AddModule(RuntimeImport)
	mw.imports.AddModule(DescribeImport)

	type endpoint struct {
		name, http, ret, docs string
		auth                  *cytonic.AuthenticationConfig
		withAuth              bool
		args                  []cytonic.Argument
		refs                  []string
	}
	var endpoints []endpoint
	for epName, ep := range mw.module.Endpoints.All() {
		args, err := ep.ResolveArgKinds()
		if err != nil {
			return errors.Wrapf(err, "endpoint %s", epName)
		}
		e := endpoint{
			name:     epName,
			http:     ep.HTTP.String(),
			docs:     ep.Docs,
			auth:     ep.Auth,
			withAuth: mw.module.EndpointAuth(ep) != nil,
			args:     args,
		}
		for _, a := range args {
			ref, err := mw.refs.Convert(a.Type)
			if err != nil {
				return errors.Wrapf(err, "endpoint %s: argument %s", epName, a.Name)
			}
			e.refs = append(e.refs, ref)
		}
		if ep.Return != "" {
			if e.ret, err = mw.refs.Convert(ep.Return); err != nil {
				return errors.Wrapf(err, "endpoint %s: return", epName)
			}
		}
		endpoints = append(endpoints, e)
	}

	fn := mw.serviceName() + "Description"
	mw.w.Linef("// %s describes %s for runtime frameworks.", fn, mw.serviceName())
	mw.w.Block("func "+fn+"() (*describe.ServiceDescription, error) {", func() {
		mw.w.Linef("b := describe.NewServiceBuilder(%s)", strconv.Quote(mw.module.Name))
		if mw.module.Docs != "" {
			mw.w.Linef("b.Docs(%s)", strconv.Quote(mw.module.Docs))
		}
		if mw.module.Auth != nil {
			mw.w.Linef("b.Auth(%s)", authExpr(mw.module.Auth))
		}
		for _, e := range endpoints {
			open := fmt.Sprintf("b.Endpoint(%s, %s)", strconv.Quote(e.name), strconv.Quote(e.http))
			var calls []string
			if e.docs != "" {
				calls = append(calls, "Docs("+strconv.Quote(e.docs)+")")
			}
			if e.auth != nil {
				calls = append(calls, "Auth("+authExpr(e.auth)+")")
			}
			if e.withAuth {
				calls = append(calls, `Arg("auth", describe.Credentials, cytonic.KindAuth)`)
			}
			for i, a := range e.args {
				calls = append(calls, "Arg("+strconv.Quote(a.Name)+", "+e.refs[i]+", "+paramKindConsts[a.Kind]+")")
			}
			if e.ret != "" {
				calls = append(calls, "Returns("+e.ret+")")
			}
			if len(calls) == 0 {
				mw.w.Line(open)
				continue
			}
			mw.w.Line(open + ".")
			mw.w.Indented(func() {
				for i, c := range calls {
					if i < len(calls)-1 {
						c += "."
					}
					mw.w.Line(c)
				}
			})
		}
		mw.w.Line("return b.Build()")
	}, "}")
	return nil
}
