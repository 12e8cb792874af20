package convert

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
)

// Placeholder marks the position of a type parameter in a template.
const Placeholder = "?"

// Builtins are the builtin type names every backend must provide a template for.
var Builtins = []string{
	"any", "string", "integer", "double", "boolean", "datetime", "decimal",
	"list", "set", "map", "optional",
}

// Templates maps builtin type names to target-language templates. Each
// Placeholder in a template is replaced by one converted type parameter,
// so the arity of a builtin is the number of placeholders in its template.
// For example "list" might map to "List[?]" and "map" to "Map<?, ?>".
type Templates map[string]string

// Arity returns the number of type parameters name takes.
func (t Templates) Arity(name string) int {
	return strings.Count(t[name], Placeholder)
}

// Check verifies that every builtin has a template.
func (t Templates) Check() error {
	var missing []string
	for _, name := range Builtins {
		if _, ok := t[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.Wrapf(cytonic.ErrInvalidConfig, "missing templates for builtin types: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Substitute replaces the placeholders of template with params, in order.
// It is the Render implementation of string backends.
func Substitute(template string, params []string) string {
	if len(params) == 0 {
		return template
	}
	var sb strings.Builder
	i := 0
	for {
		idx := strings.Index(template, Placeholder)
		if idx < 0 || i >= len(params) {
			sb.WriteString(template)
			return sb.String()
		}
		sb.WriteString(template[:idx])
		sb.WriteString(params[i])
		template = template[idx+len(Placeholder):]
		i++
	}
}
