package cytonic

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Datatype is a parsed type reference as written in a definition file.
// A reference is usually the name of a type, except for generics whose
// parameters are enclosed in brackets and separated by commas, for example
// "User", "list[Book]" or "map[string, set[Author]]".
//
// Parameters is nil for a non-generic type. A Datatype is immutable once parsed.
type Datatype struct {
	Name       string
	Parameters []Datatype
}

// NewDatatype returns a Datatype with the given name and parameters.
func NewDatatype(name string, params ...Datatype) Datatype {
	if len(params) == 0 {
		return Datatype{Name: name}
	}
	return Datatype{Name: name, Parameters: params}
}

// ParseDatatype parses a type reference string.
// Failures match ErrBadTypeFormat and report the complete input string.
func ParseDatatype(s string) (Datatype, error) {
	dt, reason := parseDatatype(s)
	if reason != "" {
		return Datatype{}, errors.WithStack(&DatatypeError{Value: s, Reason: reason})
	}
	return dt, nil
}

// MustParseDatatype is like ParseDatatype but panics on error.
func MustParseDatatype(s string) Datatype {
	dt, err := ParseDatatype(s)
	if err != nil {
		panic(err)
	}
	return dt
}

func parseDatatype(s string) (Datatype, string) {
	name, params, reason := splitTypeString(s)
	if reason != "" {
		return Datatype{}, reason
	}
	if params == nil {
		return Datatype{Name: name}, ""
	}
	dt := Datatype{Name: name, Parameters: make([]Datatype, 0, len(params))}
	for _, p := range params {
		child, reason := parseDatatype(strings.TrimSpace(p))
		if reason != "" {
			return Datatype{}, reason
		}
		dt.Parameters = append(dt.Parameters, child)
	}
	return dt, ""
}

// splitTypeString splits s into its name and raw top-level parameter strings.
// params is nil when s has no bracketed parameter list.
func splitTypeString(s string) (name string, params []string, reason string) {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		if strings.ContainsRune(s, ']') {
			return "", nil, "closing bracket without opening bracket"
		}
		if strings.TrimSpace(s) == "" {
			return "", nil, "empty type name"
		}
		return s, nil, ""
	}
	name = s[:open]
	if strings.TrimSpace(name) == "" {
		return "", nil, "empty type name"
	}
	if strings.ContainsRune(name, ']') {
		return "", nil, "closing bracket without opening bracket"
	}

	depth := 0
	start := open + 1
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
				continue
			}
			params = append(params, s[start:i])
			if i != len(s)-1 {
				return "", nil, "unexpected characters after closing bracket"
			}
			for _, p := range params {
				if strings.TrimSpace(p) == "" {
					return "", nil, "empty type parameter"
				}
			}
			return name, params, ""
		case ',':
			if depth == 0 {
				params = append(params, s[start:i])
				start = i + 1
			}
		}
	}
	return "", nil, "unbalanced brackets"
}

// IsGeneric reports whether the type has a parameter list.
func (d Datatype) IsGeneric() bool {
	return d.Parameters != nil
}

// String renders the type reference in its canonical form, e.g. "map[string, integer]".
func (d Datatype) String() string {
	if len(d.Parameters) == 0 {
		return d.Name
	}
	var sb strings.Builder
	d.writeTo(&sb)
	return sb.String()
}

func (d Datatype) writeTo(sb *strings.Builder) {
	sb.WriteString(d.Name)
	if len(d.Parameters) == 0 {
		return
	}
	sb.WriteByte('[')
	for i, p := range d.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		p.writeTo(sb)
	}
	sb.WriteByte(']')
}

// Equal reports whether d and other are structurally identical.
func (d Datatype) Equal(other Datatype) bool {
	if d.Name != other.Name || d.IsGeneric() != other.IsGeneric() || len(d.Parameters) != len(other.Parameters) {
		return false
	}
	for i := range d.Parameters {
		if !d.Parameters[i].Equal(other.Parameters[i]) {
			return false
		}
	}
	return true
}

// Walk calls fn for d and then for each parameter, depth first.
func (d Datatype) Walk(fn func(Datatype)) {
	fn(d)
	for _, p := range d.Parameters {
		p.Walk(fn)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Datatype) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Datatype) UnmarshalText(text []byte) error {
	parsed, err := ParseDatatype(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
