package cytonic

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// HTTPMethods is the set of accepted HTTP methods.
var HTTPMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"}

var pathParamPattern = regexp.MustCompile(`\{([A-Za-z][A-Za-z0-9_]*)(?::([A-Za-z][A-Za-z0-9_]*))?\}`)

// PathParam is a {name} or {name:hint} placeholder in an HTTP path.
// A non-empty Hint designates special matching such as greedy "path" capture.
type PathParam struct {
	Name string
	Hint string
}

func (p PathParam) String() string {
	if p.Hint != "" {
		return "{" + p.Name + ":" + p.Hint + "}"
	}
	return "{" + p.Name + "}"
}

// pathPart is either a literal run of the path or a parameter.
type pathPart struct {
	literal string
	param   *PathParam
}

func (p pathPart) String() string {
	if p.param != nil {
		return p.param.String()
	}
	return p.literal
}

// HTTPPath is a parametrized HTTP method and path such as "GET /users/{id}".
// String reproduces the parsed input exactly.
type HTTPPath struct {
	Method string
	parts  []pathPart
}

// ParseHTTPPath parses "METHOD /path" strings.
// Failures match ErrBadPath.
func ParseHTTPPath(s string) (HTTPPath, error) {
	method, path, ok := strings.Cut(s, " ")
	if !ok {
		if strings.HasPrefix(s, "/") {
			return HTTPPath{}, errors.Wrapf(ErrBadPath, "missing HTTP method: %q", s)
		}
		return HTTPPath{}, errors.Wrapf(ErrBadPath, "missing HTTP path: %q", s)
	}
	if !isHTTPMethod(method) {
		return HTTPPath{}, errors.Wrapf(ErrBadPath, "invalid HTTP method %q in %q", method, s)
	}
	if !strings.HasPrefix(path, "/") {
		return HTTPPath{}, errors.Wrapf(ErrBadPath, "path needs to begin with a slash, got %q", path)
	}

	p := HTTPPath{Method: method}
	seen := make(map[string]bool)
	offset := 0
	for _, m := range pathParamPattern.FindAllStringSubmatchIndex(path, -1) {
		if m[0] > offset {
			p.parts = append(p.parts, pathPart{literal: path[offset:m[0]]})
		}
		param := &PathParam{Name: path[m[2]:m[3]]}
		if m[4] >= 0 {
			param.Hint = path[m[4]:m[5]]
		}
		if seen[param.Name] {
			return HTTPPath{}, errors.Wrapf(ErrBadPath, "duplicate path parameter %q in %q", param.Name, s)
		}
		seen[param.Name] = true
		p.parts = append(p.parts, pathPart{param: param})
		offset = m[1]
	}
	if offset < len(path) {
		p.parts = append(p.parts, pathPart{literal: path[offset:]})
	}

	if got := p.String(); got != s {
		return HTTPPath{}, errors.AssertionFailedf("http path did not round-trip: %q != %q", got, s)
	}
	return p, nil
}

// MustParseHTTPPath is like ParseHTTPPath but panics on error.
func MustParseHTTPPath(s string) HTTPPath {
	p, err := ParseHTTPPath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func isHTTPMethod(m string) bool {
	for _, known := range HTTPMethods {
		if m == known {
			return true
		}
	}
	return false
}

// Path returns the path portion without the method.
func (p HTTPPath) Path() string {
	var sb strings.Builder
	for _, part := range p.parts {
		sb.WriteString(part.String())
	}
	return sb.String()
}

func (p HTTPPath) String() string {
	return p.Method + " " + p.Path()
}

// IsZero reports whether p was never parsed.
func (p HTTPPath) IsZero() bool {
	return p.Method == "" && len(p.parts) == 0
}

// Params returns the path parameters in the order they appear.
func (p HTTPPath) Params() []PathParam {
	var out []PathParam
	for _, part := range p.parts {
		if part.param != nil {
			out = append(out, *part.param)
		}
	}
	return out
}

// Parameters maps each path parameter name to its hint ("" when there is none).
func (p HTTPPath) Parameters() map[string]string {
	out := make(map[string]string)
	for _, part := range p.parts {
		if part.param != nil {
			out[part.param.Name] = part.param.Hint
		}
	}
	return out
}

// HasParameter reports whether name is a parameter of the path template.
func (p HTTPPath) HasParameter(name string) bool {
	for _, part := range p.parts {
		if part.param != nil && part.param.Name == name {
			return true
		}
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (p HTTPPath) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *HTTPPath) UnmarshalText(text []byte) error {
	parsed, err := ParseHTTPPath(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
