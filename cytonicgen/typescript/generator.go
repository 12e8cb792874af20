// Package typescript generates TypeScript bindings: interfaces and enums for
// types, runtime type descriptors, error interfaces, service interfaces with
// a client factory, and the service descriptor the runtime client consumes.
package typescript

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
	"github.com/broady/cytonic/cytonicgen/codewriter"
	"github.com/broady/cytonic/cytonicgen/convert"
	"github.com/broady/cytonic/cytonicgen/sink"
)

// Options configure TypeScript generation.
type Options struct {
	// Indent is the number of spaces per indentation level (default: 2).
	Indent int `schema:"indent"`

	// LineLength is the column doc comments are wrapped at (default: 120).
	LineLength int `schema:"line_length"`
}

func (o Options) withDefaults() Options {
	if o.Indent <= 0 {
		o.Indent = 2
	}
	if o.LineLength <= 0 {
		o.LineLength = 120
	}
	return o
}

// Generator is the TypeScript backend.
type Generator struct {
	Options Options
}

// Name returns "typescript".
func (g *Generator) Name() string {
	return "typescript"
}

// Generate writes one <module>.ts file per project module to out.
func (g *Generator) Generate(ctx context.Context, project *cytonic.Project, out sink.OutputSink) error {
	opts := g.Options.withDefaults()
	for _, name := range project.ModuleNames() {
		content, err := RenderModule(project, name, opts)
		if err != nil {
			return errors.Wrapf(err, "typescript: module %s", name)
		}
		if err := out.WriteFile(ctx, name+".ts", content); err != nil {
			return err
		}
	}
	return nil
}

func importSource(module string) string {
	return "./" + module
}

type moduleWriter struct {
	opts       Options
	module     *cytonic.ModuleConfig
	types      *convert.Converter[string]
	descriptor *convert.Converter[string]
	imports    *convert.Imports
	w          *codewriter.Writer
}

// RenderModule renders the TypeScript file of one project module.
func RenderModule(project *cytonic.Project, name string, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	m, ok := project.Module(name)
	if !ok {
		return nil, errors.Newf("module %q not in project", name)
	}

	tb := &typeBackend{}
	types, err := convert.New[string](project, name, typeTemplates, tb, convert.WithImportSource(importSource))
	if err != nil {
		return nil, err
	}
	tb.imports = types.Imports()

	db := &descriptorBackend{source: importSource}
	descriptor, err := convert.New[string](project, name, descriptorTemplates, db, convert.WithImportSource(importSource))
	if err != nil {
		return nil, err
	}
	db.imports = descriptor.Imports()

	mw := &moduleWriter{
		opts:       opts,
		module:     m,
		types:      types,
		descriptor: descriptor,
		imports:    convert.NewImports(importSource(name)),
		w:          codewriter.New(strings.Repeat(" ", opts.Indent)),
	}
	header := mw.w.Section()
	if err := mw.write(); err != nil {
		return nil, err
	}

	mw.imports.Merge(types.Imports())
	mw.imports.Merge(descriptor.Imports())
	for _, g := range mw.imports.Groups() {
		header.Linef("import { %s } from %s;", strings.Join(g.Symbols, ", "), strconv.Quote(g.Source))
	}
	if !header.Empty() {
		header.Blank(1)
	}
	return mw.w.Bytes(), nil
}

func (mw *moduleWriter) runtime(symbol string) string {
	mw.imports.Add(RuntimeModule, symbol)
	return symbol
}

func (mw *moduleWriter) docs(docs string) {
	docs = strings.TrimSpace(docs)
	if docs == "" {
		return
	}
	mw.w.Line("/**")
	for _, line := range codewriter.Wrap(docs, mw.opts.LineLength-mw.w.PrefixLen()-3) {
		mw.w.Line(" * " + line)
	}
	mw.w.Line(" */")
}

func (mw *moduleWriter) write() error {
	first := true
	sep := func() {
		if !first {
			mw.w.Blank(1)
		}
		first = false
	}
	for name, t := range mw.module.Types.All() {
		sep()
		if err := mw.typeDecl(name, t); err != nil {
			return errors.Wrapf(err, "type %s", name)
		}
	}
	for name, e := range mw.module.Errors.All() {
		sep()
		if err := mw.errorDecl(name, e); err != nil {
			return errors.Wrapf(err, "error %s", name)
		}
	}
	if mw.module.Endpoints.Len() == 0 {
		return nil
	}
	for _, async := range []bool{true, false} {
		sep()
		if err := mw.serviceInterface(async); err != nil {
			return err
		}
	}
	sep()
	return mw.serviceDescriptor()
}

func (mw *moduleWriter) typeDecl(name string, t *cytonic.TypeConfig) error {
	if err := t.Validate(); err != nil {
		return err
	}
	mw.docs(t.Docs)
	switch t.Kind() {
	case cytonic.TypeEnum:
		mw.w.Block("export enum "+name+" {", func() {
			for _, v := range t.Values {
				mw.docs(v.Docs)
				mw.w.Linef("%s = %s,", propertyName(v.Name), strconv.Quote(v.Name))
			}
		}, "}")
		mw.w.Blank(1)
		mw.w.Linef("export const %s = new %s<%s>(%s, Object.values(%s));",
			descriptorName(name), mw.runtime("EnumType"), name, strconv.Quote(name), name)
		return nil

	case cytonic.TypeUnion:
		var hints, entries []string
		for variant, s := range t.Union.All() {
			hint, err := mw.types.Convert(s)
			if err != nil {
				return errors.Wrapf(err, "variant %s", variant)
			}
			desc, err := mw.descriptor.Convert(s)
			if err != nil {
				return errors.Wrapf(err, "variant %s", variant)
			}
			hints = append(hints, hint)
			entries = append(entries, propertyName(variant)+": "+desc+",")
		}
		mw.w.Linef("export type %s = %s;", name, strings.Join(hints, " | "))
		mw.w.Blank(1)
		mw.w.Block("export const "+descriptorName(name)+" = new "+mw.runtime("UnionType")+"<"+name+">("+strconv.Quote(name)+", {", func() {
			for _, e := range entries {
				mw.w.Line(e)
			}
		}, "});")
		return nil
	}

	type fieldLine struct{ decl, desc string }
	var fields []fieldLine
	for fieldName, f := range t.Fields.All() {
		hint, err := mw.types.Convert(f.Type)
		if err != nil {
			return errors.Wrapf(err, "field %s", fieldName)
		}
		desc, err := mw.descriptor.Convert(f.Type)
		if err != nil {
			return errors.Wrapf(err, "field %s", fieldName)
		}
		fields = append(fields, fieldLine{
			decl: propertyName(fieldName) + ": " + hint + ";",
			desc: propertyName(fieldName) + ": { type: " + desc + " },",
		})
	}
	head := "export interface " + name + " {"
	base := ""
	if t.Extends != nil {
		ext, err := mw.types.Convert(*t.Extends)
		if err != nil {
			return errors.Wrap(err, "extends")
		}
		if base, err = mw.descriptor.Convert(*t.Extends); err != nil {
			return errors.Wrap(err, "extends")
		}
		head = "export interface " + name + " extends " + ext + " {"
	}
	mw.w.Block(head, func() {
		for _, f := range fields {
			mw.w.Line(f.decl)
		}
	}, "}")
	mw.w.Blank(1)
	closing := "});"
	if base != "" {
		closing = "}, " + base + ");"
	}
	mw.w.Block("export const "+descriptorName(name)+" = new "+mw.runtime("StructType")+"<"+name+">("+strconv.Quote(name)+", {", func() {
		for _, f := range fields {
			mw.w.Line(f.desc)
		}
	}, closing)
	return nil
}

func (mw *moduleWriter) errorDecl(name string, e *cytonic.ErrorConfig) error {
	var params []string
	for fieldName, f := range e.Fields.All() {
		hint, err := mw.types.Convert(f.Type)
		if err != nil {
			return errors.Wrapf(err, "field %s", fieldName)
		}
		params = append(params, propertyName(fieldName)+": "+hint+";")
	}
	mw.docs(e.Docs)
	mw.w.Block("export interface "+name+"Error extends "+mw.runtime("ServiceException")+" {", func() {
		mw.w.Linef("error_name: %s;", strconv.Quote(mw.module.Name+":"+name))
		mw.w.Linef("error_code: %s;", strconv.Quote(string(e.Code())))
		if len(params) > 0 {
			mw.w.Block("parameters: {", func() {
				for _, p := range params {
					mw.w.Line(p)
				}
			}, "};")
		}
	}, "}")
	return nil
}

func (mw *moduleWriter) serviceInterface(async bool) error {
	name := mw.module.Name + "ServiceBlocking"
	if async {
		name = mw.module.Name + "ServiceAsync"
	}
	var methods []string
	for epName, ep := range mw.module.Endpoints.All() {
		var args []string
		if mw.module.EndpointAuth(ep) != nil {
			args = append(args, "auth: "+mw.runtime("Credentials"))
		}
		for argName, arg := range ep.Args.All() {
			hint, err := mw.types.Convert(arg.Type)
			if err != nil {
				return errors.Wrapf(err, "endpoint %s: argument %s", epName, argName)
			}
			args = append(args, paramName(argName)+": "+hint)
		}
		ret := "void"
		if ep.Return != "" {
			var err error
			if ret, err = mw.types.Convert(ep.Return); err != nil {
				return errors.Wrapf(err, "endpoint %s: return", epName)
			}
		}
		if async {
			ret = "Promise<" + ret + ">"
		}
		methods = append(methods, epName+"("+strings.Join(args, ", ")+"): "+ret+";")
	}

	mw.docs(mw.module.Docs)
	mw.w.Block("export interface "+name+" {", func() {
		for _, m := range methods {
			mw.w.Line(m)
		}
	}, "}")
	if async {
		mw.w.Blank(1)
		mw.w.Block("export namespace "+name+" {", func() {
			mw.w.Block("export function client(config: "+mw.runtime("ClientConfig")+"): "+name+" {", func() {
				mw.w.Linef("return %s<%s>(%s, config);", mw.runtime("createAsyncClient"), name, mw.serviceDescriptorName())
			}, "}")
		}, "}")
	}
	return nil
}

func (mw *moduleWriter) serviceDescriptorName() string {
	return mw.module.Name + "Service_TYPE"
}

func (mw *moduleWriter) auth(auth *cytonic.AuthenticationConfig) error {
	if auth == nil {
		return nil
	}
	data, err := json.Marshal(auth)
	if err != nil {
		return errors.Wrap(err, "encoding auth")
	}
	mw.w.Linef("auth: %s,", data)
	return nil
}

// paramKinds maps argument kinds to ParamKind enum members of the runtime.
var paramKinds = map[cytonic.ParamKind]string{
	cytonic.KindAuth:   "AUTH",
	cytonic.KindBody:   "BODY",
	cytonic.KindCookie: "COOKIE",
	cytonic.KindHeader: "HEADER",
	cytonic.KindPath:   "PATH",
	cytonic.KindQuery:  "QUERY",
}

func (mw *moduleWriter) serviceDescriptor() error {
	var err error
	mw.w.Block("export const "+mw.serviceDescriptorName()+": "+mw.runtime("Service")+" = {", func() {
		if err = mw.auth(mw.module.Auth); err != nil {
			return
		}
		mw.w.Block("endpoints: {", func() {
			for epName, ep := range mw.module.Endpoints.All() {
				if err = mw.endpointDescriptor(epName, ep); err != nil {
					err = errors.Wrapf(err, "endpoint %s", epName)
					return
				}
			}
		}, "},")
	}, "};")
	return err
}

func (mw *moduleWriter) endpointDescriptor(name string, ep *cytonic.EndpointConfig) error {
	args, err := ep.ResolveArgKinds()
	if err != nil {
		return err
	}
	ret := ""
	if ep.Return != "" {
		if ret, err = mw.descriptor.Convert(ep.Return); err != nil {
			return errors.Wrap(err, "return")
		}
	}
	descs := make([]string, len(args))
	for i, a := range args {
		if descs[i], err = mw.descriptor.Convert(a.Type); err != nil {
			return errors.Wrapf(err, "argument %s", a.Name)
		}
	}

	mw.w.Block(propertyName(name)+": {", func() {
		mw.w.Linef("method: %s,", strconv.Quote(ep.HTTP.Method))
		mw.w.Linef("path: %s,", strconv.Quote(ep.HTTP.Path()))
		if err = mw.auth(ep.Auth); err != nil {
			return
		}
		if ret != "" {
			mw.w.Linef("return: %s,", ret)
		}
		if len(args) == 0 {
			return
		}
		kind := mw.runtime("ParamKind")
		names := make([]string, len(args))
		mw.w.Block("args: {", func() {
			for i, a := range args {
				names[i] = strconv.Quote(a.Name)
				mw.w.Block(propertyName(a.Name)+": {", func() {
					mw.w.Linef("kind: %s.%s,", kind, paramKinds[a.Kind])
					mw.w.Linef("type: %s,", descs[i])
				}, "},")
			}
		}, "},")
		mw.w.Linef("args_ordering: [%s],", strings.Join(names, ", "))
	}, "},")
	return err
}
