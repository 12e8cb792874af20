package golang

import (
	"go/token"
	"strings"
	"unicode"
)

// initialisms are words written in all caps in Go identifiers.
var initialisms = map[string]bool{
	"API": true, "ASCII": true, "CPU": true, "CSS": true, "DNS": true,
	"EOF": true, "HTML": true, "HTTP": true, "HTTPS": true, "ID": true,
	"IP": true, "JSON": true, "RPC": true, "SQL": true, "TCP": true,
	"TLS": true, "TTL": true, "UI": true, "URI": true, "URL": true,
	"UUID": true, "XML": true,
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
}

// exported converts a definition name such as "list_id" to an exported Go
// identifier such as "ListID".
func exported(s string) string {
	var sb strings.Builder
	for _, w := range words(s) {
		if up := strings.ToUpper(w); initialisms[up] {
			sb.WriteString(up)
			continue
		}
		runes := []rune(w)
		sb.WriteRune(unicode.ToUpper(runes[0]))
		sb.WriteString(string(runes[1:]))
	}
	out := sb.String()
	if out == "" || !unicode.IsLetter([]rune(out)[0]) {
		out = "X" + out
	}
	return out
}

// unexported converts a definition name to a parameter name: "list_id"
// becomes "listID". Keywords get a trailing underscore.
func unexported(s string) string {
	ws := words(s)
	if len(ws) == 0 {
		return "_"
	}
	first := strings.ToLower(ws[0])
	rest := exported(strings.Join(ws[1:], "_"))
	if len(ws) == 1 {
		rest = ""
	}
	name := first + rest
	if token.IsKeyword(name) || predeclared[name] {
		name += "_"
	}
	return name
}

// predeclared are identifiers a parameter must not shadow in generated code.
var predeclared = map[string]bool{
	"ctx": true, "auth": true, "any": true, "error": true, "string": true,
	"bool": true, "int": true, "len": true, "cap": true, "new": true,
	"make": true, "nil": true, "true": true, "false": true,
}

// enumConst returns the constant name of an enum value, e.g. PriorityInProgress.
func enumConst(typeName, value string) string {
	return typeName + exported(strings.ToLower(value))
}

// packageName derives a Go package name from a module name.
func packageName(module string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(module) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	name := sb.String()
	if name == "" || unicode.IsDigit([]rune(name)[0]) || token.IsKeyword(name) {
		name = "api" + name
	}
	return name
}
