package describe

import (
	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
	"github.com/broady/cytonic/internal/ordered"
)

// FieldDescription describes a struct field, error field or union variant.
type FieldDescription struct {
	Name       string
	Type       *TypeRef
	Docs       string
	Default    any
	HasDefault bool
}

// TypeDescription describes a custom type with every reference resolved.
type TypeDescription struct {
	Name    string
	Kind    cytonic.TypeKind
	Docs    string
	Extends *TypeRef
	Fields  []FieldDescription
	Values  []cytonic.ValueConfig
	Union   []FieldDescription
}

// ErrorDescription describes a declared error.
type ErrorDescription struct {
	Name   string
	Code   cytonic.ErrorCode
	Fields []FieldDescription
	Docs   string
}

// ModuleDescription is everything a module declares, resolved against its project.
type ModuleDescription struct {
	Module  string
	Docs    string
	Types   []*TypeDescription
	Errors  []*ErrorDescription
	Service *ServiceDescription
}

// DescribeModule resolves every declaration of a project module.
func DescribeModule(project *cytonic.Project, moduleName string) (*ModuleDescription, error) {
	m, ok := project.Module(moduleName)
	if !ok {
		return nil, errors.Newf("module %q not in project", moduleName)
	}
	conv, err := NewConverter(project, moduleName)
	if err != nil {
		return nil, err
	}
	fields := func(fs *ordered.Map[cytonic.FieldConfig]) ([]FieldDescription, error) {
		var out []FieldDescription
		for name, f := range fs.All() {
			typ, err := conv.Convert(f.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "field %s", name)
			}
			out = append(out, FieldDescription{Name: name, Type: typ, Docs: f.Docs, Default: f.Default, HasDefault: f.HasDefault})
		}
		return out, nil
	}

	md := &ModuleDescription{Module: moduleName, Docs: m.Docs}
	for name, t := range m.Types.All() {
		td := &TypeDescription{Name: name, Kind: t.Kind(), Docs: t.Docs, Values: t.Values}
		if t.Extends != nil {
			if td.Extends, err = conv.Convert(*t.Extends); err != nil {
				return nil, errors.Wrapf(err, "type %s: extends", name)
			}
		}
		if td.Fields, err = fields(t.Fields); err != nil {
			return nil, errors.Wrapf(err, "type %s", name)
		}
		for variant, s := range t.Union.All() {
			typ, err := conv.Convert(s)
			if err != nil {
				return nil, errors.Wrapf(err, "type %s: variant %s", name, variant)
			}
			td.Union = append(td.Union, FieldDescription{Name: variant, Type: typ})
		}
		md.Types = append(md.Types, td)
	}
	for name, e := range m.Errors.All() {
		ed := &ErrorDescription{Name: name, Code: e.Code(), Docs: e.Docs}
		if ed.Fields, err = fields(e.Fields); err != nil {
			return nil, errors.Wrapf(err, "error %s", name)
		}
		md.Errors = append(md.Errors, ed)
	}
	if m.Endpoints.Len() > 0 {
		if md.Service, err = FromModule(project, moduleName); err != nil {
			return nil, err
		}
	}
	return md, nil
}

// Discovery describes every module of a project in project order.
func Discovery(project *cytonic.Project) ([]*ModuleDescription, error) {
	var out []*ModuleDescription
	for _, name := range project.ModuleNames() {
		md, err := DescribeModule(project, name)
		if err != nil {
			return nil, errors.Wrapf(err, "module %s", name)
		}
		out = append(out, md)
	}
	return out, nil
}
