package cytonic

import (
	"slices"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/broady/cytonic/internal/ordered"
)

// ParamKind classifies where an endpoint argument travels in an HTTP request.
type ParamKind string

const (
	KindAuth   ParamKind = "auth"
	KindBody   ParamKind = "body"
	KindCookie ParamKind = "cookie"
	KindHeader ParamKind = "header"
	KindPath   ParamKind = "path"
	KindQuery  ParamKind = "query"
)

// ParamKinds lists every ParamKind in declaration order.
var ParamKinds = []ParamKind{KindAuth, KindBody, KindCookie, KindHeader, KindPath, KindQuery}

// ParseParamKind converts a string to a ParamKind.
func ParseParamKind(s string) (ParamKind, error) {
	k := ParamKind(s)
	if !slices.Contains(ParamKinds, k) {
		return "", errors.Wrapf(ErrArgument, "unknown parameter kind %q", s)
	}
	return k, nil
}

// bodyArgNames are argument names that claim the request body on POST/PUT.
var bodyArgNames = []string{"body", "request"}

// ArgumentConfig declares one endpoint argument. An empty Kind is inferred by
// EndpointConfig.ResolveArgKinds.
type ArgumentConfig struct {
	Type string    `yaml:"type" validate:"required"`
	Kind ParamKind `yaml:"kind,omitempty" validate:"omitempty,oneof=body cookie header path query"`
}

// NewArgument creates an argument config. Kind may be empty. The auth kind is
// always synthesized and cannot be requested explicitly.
func NewArgument(typ string, kind ParamKind) (*ArgumentConfig, error) {
	a := &ArgumentConfig{Type: typ, Kind: kind}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the argument's kind.
func (a *ArgumentConfig) Validate() error {
	if a.Kind == "" {
		return nil
	}
	if a.Kind == KindAuth {
		return errors.WithHint(
			errors.Wrap(ErrArgument, "argument kind cannot be \"auth\""),
			"the auth argument is generated automatically when the endpoint or its service declares auth")
	}
	_, err := ParseParamKind(string(a.Kind))
	return err
}

// UnmarshalYAML accepts either a bare type string or a {type, kind} mapping.
func (a *ArgumentConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		a.Type = node.Value
		a.Kind = ""
		return nil
	}
	type plain ArgumentConfig
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*a = ArgumentConfig(p)
	return a.Validate()
}

// EndpointConfig declares one endpoint of a service.
type EndpointConfig struct {
	// HTTP is the parametrized method and path, e.g. "GET /lists/{list_id}".
	HTTP HTTPPath `yaml:"http"`

	// Auth overrides the service authentication for this endpoint.
	Auth *AuthenticationConfig `yaml:"auth,omitempty"`

	// Args are the endpoint arguments in declaration order.
	Args *ordered.Map[*ArgumentConfig] `yaml:"args,omitempty"`

	// Return is the return type string; empty means no return value.
	Return string `yaml:"return,omitempty"`

	Docs string `yaml:"docs,omitempty"`
}

// Argument is an endpoint argument with its kind resolved.
type Argument struct {
	Name string
	Type string
	Kind ParamKind
}

// ResolveArgKinds returns the endpoint's arguments, in declaration order, with
// every kind set. Untagged arguments are inferred from the path template and
// the HTTP method:
//
//  1. an argument named like a path parameter is a path argument;
//  2. otherwise, on POST and PUT, the first argument that may claim the body
//     becomes the body argument. When an argument is named "body" or "request",
//     only such an argument may claim it;
//  3. everything else is a query argument.
//
// The endpoint itself is not modified.
func (e *EndpointConfig) ResolveArgKinds() ([]Argument, error) {
	if e.Args.Len() == 0 {
		return nil, nil
	}

	var unknown []string
	numBody := 0
	for name, arg := range e.Args.All() {
		if arg.Kind == KindPath && !e.HTTP.HasParameter(name) {
			unknown = append(unknown, name)
		}
		if arg.Kind == KindBody {
			numBody++
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.Wrapf(ErrBadPath,
			"some parameters in %s marked as path parameters but do not appear in the path: %s",
			e.HTTP, strings.Join(unknown, ", "))
	}
	if numBody > 1 {
		return nil, errors.Wrap(ErrArgument, "endpoint cannot have multiple body parameters")
	}

	needsBody := e.HTTP.Method == "POST" || e.HTTP.Method == "PUT"
	hasNamedBody := false
	for _, n := range bodyArgNames {
		if e.Args.Has(n) {
			hasNamedBody = true
		}
	}

	out := make([]Argument, 0, e.Args.Len())
	for name, arg := range e.Args.All() {
		kind := arg.Kind
		if kind == "" {
			switch {
			case e.HTTP.HasParameter(name):
				kind = KindPath
			case numBody == 0 && needsBody && (!hasNamedBody || slices.Contains(bodyArgNames, name)):
				kind = KindBody
				numBody = 1
			default:
				kind = KindQuery
			}
		}
		out = append(out, Argument{Name: name, Type: arg.Type, Kind: kind})
	}
	return out, nil
}

// RequiresAuth reports whether calls need credentials given the owning
// service's auth. The endpoint's own declaration takes precedence.
func (e *EndpointConfig) RequiresAuth(serviceAuth *AuthenticationConfig) bool {
	auth := e.Auth
	if auth == nil {
		auth = serviceAuth
	}
	return auth != nil && auth.Type != AuthNone
}
