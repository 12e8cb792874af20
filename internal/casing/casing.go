// Package casing converts identifiers between naming conventions.
package casing

import (
	"strings"
	"unicode"
)

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == ' '
}

// Pascal converts snake_case, kebab-case or dotted names to PascalCase.
// Letters after the first of each word are kept as written, so "get_HTTPPath"
// becomes "GetHTTPPath".
func Pascal(s string) string {
	var sb strings.Builder
	for _, word := range strings.FieldsFunc(s, isSeparator) {
		runes := []rune(word)
		sb.WriteRune(unicode.ToUpper(runes[0]))
		sb.WriteString(string(runes[1:]))
	}
	return sb.String()
}

// Camel is like Pascal but lowercases the first letter.
func Camel(s string) string {
	p := Pascal(s)
	if p == "" {
		return p
	}
	runes := []rune(p)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// Snake converts PascalCase or camelCase to snake_case. Runs of capitals are
// treated as one word: "HTTPSConnection" becomes "https_connection".
func Snake(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		if isSeparator(r) {
			sb.WriteByte('_')
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			prevUpper := unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !isSeparator(runes[i-1]) && (!prevUpper || nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}
