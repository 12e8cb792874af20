package python

import (
	"strings"

	"github.com/broady/cytonic"
	"github.com/broady/cytonic/cytonicgen/convert"
)

var templates = convert.Templates{
	"any":      "typing.Any",
	"string":   "str",
	"integer":  "int",
	"double":   "float",
	"boolean":  "bool",
	"datetime": "datetime.datetime",
	"decimal":  "decimal.Decimal",
	"list":     "typing.List[?]",
	"set":      "typing.Set[?]",
	"map":      "typing.Dict[?, ?]",
	"optional": "typing.Optional[?]",
}

// typeBackend renders Python type hints. Qualified builtins such as
// typing.List import their module.
type typeBackend struct {
	imports *convert.Imports
}

func (b *typeBackend) Render(_, template string, params []string) string {
	return convert.Substitute(template, params)
}

func (b *typeBackend) Reference(loc cytonic.TypeLocator) string {
	return loc.TypeName
}

func (b *typeBackend) Visit(rendered string, dt cytonic.Datatype, loc *cytonic.TypeLocator) string {
	if loc != nil {
		return rendered
	}
	head, _, _ := strings.Cut(templates[dt.Name], "[")
	if i := strings.LastIndex(head, "."); i > 0 {
		b.imports.AddModule(head[:i])
	}
	return rendered
}
