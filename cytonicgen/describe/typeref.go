package describe

import (
	"encoding/json"
	"strings"

	"github.com/broady/cytonic"
	"github.com/broady/cytonic/cytonicgen/convert"
)

// RefKind discriminates TypeRef variants.
type RefKind string

const (
	RefBuiltin     RefKind = "builtin"
	RefCustom      RefKind = "reference"
	RefCredentials RefKind = "credentials"
)

// TypeRef is a resolved type in structured form.
type TypeRef struct {
	Kind RefKind

	// Name is the builtin name ("list", "string") or the custom type name.
	Name string

	// Module is the module defining a custom type.
	Module string

	// Params are the converted type parameters of a generic builtin.
	Params []*TypeRef
}

// Builtin returns a TypeRef for a builtin type.
func Builtin(name string, params ...*TypeRef) *TypeRef {
	return &TypeRef{Kind: RefBuiltin, Name: name, Params: params}
}

// Ref returns a TypeRef for a custom type defined in module.
func Ref(module, name string) *TypeRef {
	return &TypeRef{Kind: RefCustom, Name: name, Module: module}
}

// Credentials is the type of synthesized auth arguments.
var Credentials = &TypeRef{Kind: RefCredentials, Name: "Credentials"}

// IsOptional reports whether the type is optional[...].
func (r *TypeRef) IsOptional() bool {
	return r != nil && r.Kind == RefBuiltin && r.Name == "optional"
}

// String renders the type in definition-file syntax, e.g. "list[users.User]".
func (r *TypeRef) String() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	if r.Module != "" {
		sb.WriteString(r.Module)
		sb.WriteByte('.')
	}
	sb.WriteString(r.Name)
	if len(r.Params) > 0 {
		sb.WriteByte('[')
		for i, p := range r.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteByte(']')
	}
	return sb.String()
}

// MarshalJSON implements json.Marshaler.
func (r *TypeRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind   RefKind    `json:"kind"`
		Name   string     `json:"name"`
		Module string     `json:"module,omitempty"`
		Params []*TypeRef `json:"params,omitempty"`
	}{
		Kind:   r.Kind,
		Name:   r.Name,
		Module: r.Module,
		Params: r.Params,
	})
}

// templates gives every builtin its canonical arity.
var templates = convert.Templates{
	"any":      "any",
	"string":   "string",
	"integer":  "integer",
	"double":   "double",
	"boolean":  "boolean",
	"datetime": "datetime",
	"decimal":  "decimal",
	"list":     "list[?]",
	"set":      "set[?]",
	"map":      "map[?, ?]",
	"optional": "optional[?]",
}

type refBackend struct{}

func (refBackend) Render(name, _ string, params []*TypeRef) *TypeRef {
	return Builtin(name, params...)
}

func (refBackend) Reference(loc cytonic.TypeLocator) *TypeRef {
	return Ref(loc.ModuleName, loc.TypeName)
}

func (refBackend) Visit(r *TypeRef, _ cytonic.Datatype, _ *cytonic.TypeLocator) *TypeRef {
	return r
}

// NewConverter returns a converter producing TypeRefs for types used in module.
func NewConverter(project *cytonic.Project, module string) (*convert.Converter[*TypeRef], error) {
	return convert.New[*TypeRef](project, module, templates, refBackend{})
}
