package cytonic

import (
	"iter"

	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic/internal/casing"
	"github.com/broady/cytonic/internal/ordered"
)

// TypeLocator points at a custom type in the module that defines it.
type TypeLocator struct {
	ModuleName string
	Module     *ModuleConfig
	TypeName   string
}

// Type returns the located type's declaration.
func (l TypeLocator) Type() *TypeConfig {
	t, _ := l.Module.Types.Get(l.TypeName)
	return t
}

// Project is the set of modules compiled together. Type references resolve
// against all of its modules. A Project is read-only once code generation starts.
type Project struct {
	modules ordered.Map[*ModuleConfig]
}

// NewProject returns an empty project.
func NewProject() *Project {
	return &Project{}
}

// Add registers a module under name. An empty module Name defaults to the
// PascalCase form of name. Adding the same name twice fails with ErrDuplicateModule.
func (p *Project) Add(name string, m *ModuleConfig) error {
	if p.modules.Has(name) {
		return errors.Wrapf(ErrDuplicateModule, "module %q already in project", name)
	}
	if m == nil {
		m = &ModuleConfig{}
	}
	if m.Name == "" {
		m.Name = casing.Pascal(name)
	}
	p.modules.Set(name, m)
	return nil
}

// Module returns the module registered under name.
func (p *Project) Module(name string) (*ModuleConfig, bool) {
	return p.modules.Get(name)
}

// ModuleNames returns the module names in the order they were added.
func (p *Project) ModuleNames() []string {
	return p.modules.Keys()
}

// Modules iterates over modules in the order they were added.
func (p *Project) Modules() iter.Seq2[string, *ModuleConfig] {
	return p.modules.All()
}

// Len returns the number of modules.
func (p *Project) Len() int {
	return p.modules.Len()
}

// FindType returns the first module, in insertion order, that declares a type
// called name.
func (p *Project) FindType(name string) (TypeLocator, bool) {
	for moduleName, m := range p.modules.All() {
		if m.HasType(name) {
			return TypeLocator{ModuleName: moduleName, Module: m, TypeName: name}, true
		}
	}
	return TypeLocator{}, false
}

// Validate validates every module in order and returns the first failure,
// annotated with the module name.
func (p *Project) Validate() error {
	for name, m := range p.modules.All() {
		if err := m.Validate(); err != nil {
			return errors.Wrapf(err, "module %s", name)
		}
	}
	return nil
}
