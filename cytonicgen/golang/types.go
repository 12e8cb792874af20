package golang

import (
	"path"
	"strconv"
	"strings"

	"github.com/broady/cytonic"
	"github.com/broady/cytonic/cytonicgen/convert"
)

var typeTemplates = convert.Templates{
	"any":      "any",
	"string":   "string",
	"integer":  "int64",
	"double":   "float64",
	"boolean":  "bool",
	"datetime": "time.Time",
	"decimal":  "*big.Float",
	"list":     "[]?",
	"set":      "map[?]struct{}",
	"map":      "map[?]?",
	"optional": "*?",
}

// stdlibImports maps package qualifiers used by templates to import paths.
var stdlibImports = map[string]string{
	"time": "time",
	"big":  "math/big",
}

// typeBackend renders Go type expressions. Types from other modules are
// qualified with their package name.
type typeBackend struct {
	imports *convert.Imports
	current string
}

func (b *typeBackend) Render(_, template string, params []string) string {
	return convert.Substitute(template, params)
}

func (b *typeBackend) Reference(loc cytonic.TypeLocator) string {
	if loc.ModuleName == b.current {
		return loc.TypeName
	}
	return packageName(loc.ModuleName) + "." + loc.TypeName
}

// Visit records the standard library import a builtin template needs.
func (b *typeBackend) Visit(rendered string, dt cytonic.Datatype, loc *cytonic.TypeLocator) string {
	if loc != nil {
		return rendered
	}
	qualifier, _, ok := strings.Cut(strings.TrimLeft(typeTemplates[dt.Name], "*[]"), ".")
	if imp, known := stdlibImports[qualifier]; ok && known {
		b.imports.AddModule(imp)
	}
	return rendered
}

// refTemplates render the describe.TypeRef constructor calls that rebuild a
// type at run time.
var refTemplates = convert.Templates{
	"any":      `describe.Builtin("any")`,
	"string":   `describe.Builtin("string")`,
	"integer":  `describe.Builtin("integer")`,
	"double":   `describe.Builtin("double")`,
	"boolean":  `describe.Builtin("boolean")`,
	"datetime": `describe.Builtin("datetime")`,
	"decimal":  `describe.Builtin("decimal")`,
	"list":     `describe.Builtin("list", ?)`,
	"set":      `describe.Builtin("set", ?)`,
	"map":      `describe.Builtin("map", ?, ?)`,
	"optional": `describe.Builtin("optional", ?)`,
}

type refBackend struct{}

func (refBackend) Render(_, template string, params []string) string {
	return convert.Substitute(template, params)
}

func (refBackend) Reference(loc cytonic.TypeLocator) string {
	return "describe.Ref(" + strconv.Quote(loc.ModuleName) + ", " + strconv.Quote(loc.TypeName) + ")"
}

func (refBackend) Visit(rendered string, _ cytonic.Datatype, _ *cytonic.TypeLocator) string {
	return rendered
}

func joinImport(base, module string) string {
	return path.Join(base, packageName(module))
}
