package cytonic

import (
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/broady/cytonic/internal/ordered"
)

// FieldConfig declares a struct or error field. The type is a raw type
// reference string; it is parsed when the field is converted.
type FieldConfig struct {
	Type string `yaml:"type" validate:"required"`
	Docs string `yaml:"docs,omitempty"`

	// Default is the decoded default value. It is only meaningful when
	// HasDefault is true, since null is a legal default.
	Default    any  `yaml:"default,omitempty"`
	HasDefault bool `yaml:"-"`
}

// UnmarshalYAML accepts either a bare type string or a {type, docs, default} mapping.
func (f *FieldConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*f = FieldConfig{Type: node.Value}
		return nil
	}
	type plain FieldConfig
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = FieldConfig(p)
	f.HasDefault = mappingHasKey(node, "default")
	return nil
}

// ValueConfig declares one enumeration value.
type ValueConfig struct {
	Name string `yaml:"name" validate:"required"`
	Docs string `yaml:"docs,omitempty"`
}

// UnmarshalYAML accepts either a bare value name or a {name, docs} mapping.
func (v *ValueConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*v = ValueConfig{Name: node.Value}
		return nil
	}
	type plain ValueConfig
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*v = ValueConfig(p)
	return nil
}

// TypeConfig declares a custom type. Exactly one shape applies:
// an enumeration (Values), a struct (Fields, optionally Extends another struct)
// or a union (Union, variant name to type string).
type TypeConfig struct {
	Values  []ValueConfig             `yaml:"values,omitempty" validate:"omitempty,dive"`
	Extends *string                   `yaml:"extends,omitempty"`
	Fields  *ordered.Map[FieldConfig] `yaml:"fields,omitempty"`
	Union   *ordered.Map[string]      `yaml:"union,omitempty"`
	Docs    string                    `yaml:"docs,omitempty"`
}

// TypeKind is the shape of a TypeConfig.
type TypeKind int

const (
	TypeStruct TypeKind = iota
	TypeEnum
	TypeUnion
)

func (k TypeKind) String() string {
	switch k {
	case TypeEnum:
		return "enum"
	case TypeUnion:
		return "union"
	default:
		return "struct"
	}
}

// Kind reports the shape of the type. A type declaring nothing is an empty struct.
func (t *TypeConfig) Kind() TypeKind {
	switch {
	case t.Values != nil:
		return TypeEnum
	case t.Union != nil:
		return TypeUnion
	default:
		return TypeStruct
	}
}

// shapeGroups are the mutually exclusive groups of TypeConfig keys.
var shapeGroups = [][]string{{"values"}, {"extends", "fields"}, {"union"}}

func (t *TypeConfig) declares(key string) bool {
	switch key {
	case "values":
		return t.Values != nil
	case "extends":
		return t.Extends != nil
	case "fields":
		return t.Fields != nil
	case "union":
		return t.Union != nil
	}
	return false
}

// Validate fails with an *ExclusivityError when keys from more than one
// shape group are declared.
func (t *TypeConfig) Validate() error {
	for i, g1 := range shapeGroups {
		for _, g2 := range shapeGroups[i+1:] {
			if t.declaresAny(g1) && t.declaresAny(g2) {
				return errors.WithStack(&ExclusivityError{First: g1, Second: g2})
			}
		}
	}
	return nil
}

func (t *TypeConfig) declaresAny(keys []string) bool {
	for _, k := range keys {
		if t.declares(k) {
			return true
		}
	}
	return false
}

// ErrorConfig declares an error that endpoints may raise.
type ErrorConfig struct {
	ErrorCode ErrorCode                 `yaml:"error_code,omitempty"`
	Fields    *ordered.Map[FieldConfig] `yaml:"fields,omitempty"`
	Docs      string                    `yaml:"docs,omitempty"`
}

// Code returns the error code, defaulting to CodeInternal.
func (e *ErrorConfig) Code() ErrorCode {
	if e.ErrorCode == "" {
		return CodeInternal
	}
	return e.ErrorCode
}

// Validate checks the error code against the known vocabulary.
func (e *ErrorConfig) Validate() error {
	if !e.Code().Valid() {
		return errors.Wrapf(ErrInvalidConfig, "unknown error code %q", e.ErrorCode)
	}
	return nil
}

func mappingHasKey(node *yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
