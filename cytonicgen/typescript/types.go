package typescript

import (
	"strings"

	"github.com/broady/cytonic"
	"github.com/broady/cytonic/cytonicgen/convert"
)

// RuntimeModule is the package the generated code imports runtime symbols from.
const RuntimeModule = "@cytonic/runtime"

// runtimePrefix marks template names that live in the runtime package.
const runtimePrefix = "Cytonic."

var typeTemplates = convert.Templates{
	"any":      "any",
	"string":   "string",
	"integer":  "Cytonic.Integer",
	"double":   "Cytonic.Double",
	"boolean":  "boolean",
	"datetime": "Date",
	"decimal":  "Cytonic.Decimal",
	"list":     "?[]",
	"set":      "Set<?>",
	"map":      "Map<?, ?>",
	"optional": "? | undefined",
}

var descriptorTemplates = convert.Templates{
	"any":      "new AnyType()",
	"string":   "new StringType()",
	"integer":  "new IntegerType()",
	"double":   "new DoubleType()",
	"boolean":  "new BooleanType()",
	"datetime": "new DatetimeType()",
	"decimal":  "new DecimalType()",
	"list":     "new ListType(?)",
	"set":      "new SetType(?)",
	"map":      "new MapType(?, ?)",
	"optional": "new OptionalType(?)",
}

// typeBackend renders TypeScript type expressions.
type typeBackend struct {
	imports *convert.Imports
}

func (b *typeBackend) Render(name, template string, params []string) string {
	if name == "list" {
		for i, p := range params {
			if strings.Contains(p, " | ") {
				params[i] = "(" + p + ")"
			}
		}
	}
	template = strings.TrimPrefix(template, runtimePrefix)
	return convert.Substitute(template, params)
}

func (b *typeBackend) Reference(loc cytonic.TypeLocator) string {
	return loc.TypeName
}

// Visit imports the runtime aliases builtins render to.
func (b *typeBackend) Visit(rendered string, dt cytonic.Datatype, loc *cytonic.TypeLocator) string {
	if loc != nil {
		return rendered
	}
	if sym, ok := strings.CutPrefix(typeTemplates[dt.Name], runtimePrefix); ok {
		b.imports.Add(RuntimeModule, sym)
	}
	return rendered
}

// descriptorBackend renders runtime type descriptor expressions. Custom
// types refer to the generated <Name>_TYPE constant of their module.
type descriptorBackend struct {
	imports *convert.Imports
	source  func(string) string
}

func (b *descriptorBackend) Render(_, template string, params []string) string {
	return convert.Substitute(template, params)
}

func (b *descriptorBackend) Reference(loc cytonic.TypeLocator) string {
	return descriptorName(loc.TypeName)
}

func (b *descriptorBackend) Visit(rendered string, dt cytonic.Datatype, loc *cytonic.TypeLocator) string {
	if loc != nil {
		b.imports.Add(b.source(loc.ModuleName), rendered)
		return rendered
	}
	if class, _, ok := strings.Cut(strings.TrimPrefix(descriptorTemplates[dt.Name], "new "), "("); ok {
		b.imports.Add(RuntimeModule, class)
	}
	return rendered
}

func descriptorName(typeName string) string {
	return typeName + "_TYPE"
}
