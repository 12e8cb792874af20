// Package convert resolves type reference strings against a project and
// renders them for a target language.
//
// A Converter parses a type string, expands builtin types through the
// backend's Templates and resolves every other name to a custom type in the
// project. Custom types defined outside the file being generated are recorded
// in an Imports tracker, and the backend's Visit hook sees every resolved type
// so it can record imports of its own.
package convert

import (
	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
)

// Backend renders resolved types in a target representation T.
type Backend[T any] interface {
	// Render expands the template of a builtin type with its converted parameters.
	Render(name, template string, params []T) T

	// Reference renders a reference to a custom type.
	Reference(loc cytonic.TypeLocator) T

	// Visit is called with every resolved type before it is returned, the
	// builtin ones with a nil loc. It may record imports or decorate the result.
	Visit(rendered T, dt cytonic.Datatype, loc *cytonic.TypeLocator) T
}

// Converter converts type reference strings for one generated file.
// Converters are not safe for concurrent use; each output file owns one.
type Converter[T any] struct {
	project   *cytonic.Project
	templates Templates
	backend   Backend[T]
	imports   *Imports
	source    func(moduleName string) string
}

// Option configures a Converter.
type Option func(*options)

type options struct {
	source func(string) string
}

// WithImportSource maps module names to the import source recorded for
// custom types, such as "./users" or "todolist.api.users". The default
// records the module name itself.
func WithImportSource(fn func(moduleName string) string) Option {
	return func(o *options) { o.source = fn }
}

// New returns a converter for the file generated from module current.
// Types defined in current are never recorded as imports.
func New[T any](project *cytonic.Project, current string, templates Templates, backend Backend[T], opts ...Option) (*Converter[T], error) {
	if err := templates.Check(); err != nil {
		return nil, err
	}
	o := options{source: func(name string) string { return name }}
	for _, opt := range opts {
		opt(&o)
	}
	return &Converter[T]{
		project:   project,
		templates: templates,
		backend:   backend,
		imports:   NewImports(o.source(current)),
		source:    o.source,
	}, nil
}

// Imports returns the imports recorded so far.
func (c *Converter[T]) Imports() *Imports {
	return c.imports
}

// Project returns the project types are resolved against.
func (c *Converter[T]) Project() *cytonic.Project {
	return c.project
}

// Convert parses s and converts it.
func (c *Converter[T]) Convert(s string) (T, error) {
	dt, err := cytonic.ParseDatatype(s)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := c.ConvertDatatype(dt)
	if err != nil {
		var zero T
		return zero, errors.Wrapf(err, "converting %q", s)
	}
	return v, nil
}

// ConvertDatatype converts a parsed type.
func (c *Converter[T]) ConvertDatatype(dt cytonic.Datatype) (T, error) {
	var zero T
	if template, ok := c.templates[dt.Name]; ok {
		want := c.templates.Arity(dt.Name)
		if got := len(dt.Parameters); got != want {
			return zero, errors.WithStack(&cytonic.ArityError{Type: dt.Name, Expected: want, Actual: got})
		}
		params := make([]T, len(dt.Parameters))
		for i, p := range dt.Parameters {
			v, err := c.ConvertDatatype(p)
			if err != nil {
				return zero, err
			}
			params[i] = v
		}
		return c.backend.Visit(c.backend.Render(dt.Name, template, params), dt, nil), nil
	}

	if dt.IsGeneric() {
		return zero, errors.Wrapf(cytonic.ErrUnresolvedType, "custom type %s cannot take type parameters", dt.Name)
	}
	loc, ok := c.project.FindType(dt.Name)
	if !ok {
		return zero, errors.WithStack(&cytonic.ResolutionError{Type: dt.Name})
	}
	c.imports.Add(c.source(loc.ModuleName), loc.TypeName)
	return c.backend.Visit(c.backend.Reference(loc), dt, &loc), nil
}

// Source returns the import source of a module.
func (c *Converter[T]) Source(moduleName string) string {
	return c.source(moduleName)
}
