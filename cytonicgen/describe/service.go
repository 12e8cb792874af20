// Package describe builds declarative service descriptions.
//
// A ServiceDescription is what a runtime framework needs to serve or call a
// service: its endpoints with their HTTP routes, every argument with its
// resolved kind and type, and the authentication methods that apply.
package describe

import (
	"github.com/broady/cytonic"
)

// ArgumentDescription describes one endpoint argument.
type ArgumentDescription struct {
	Name string
	Kind cytonic.ParamKind
	Type *TypeRef

	// Alias is the name of the parameter in the HTTP request when it differs from Name.
	Alias string

	// Default is used when the parameter is absent. Only meaningful when HasDefault is set.
	Default    any
	HasDefault bool
}

// HTTPName returns the name of the parameter in the HTTP request.
func (a ArgumentDescription) HTTPName() string {
	if a.Alias != "" {
		return a.Alias
	}
	return a.Name
}

// EndpointDescription describes a single endpoint.
type EndpointDescription struct {
	Name string
	HTTP cytonic.HTTPPath

	// Args are the arguments in call order. The auth argument, when present, is first.
	Args []ArgumentDescription

	// Return is nil for endpoints without a return value.
	Return *TypeRef

	Auth []*cytonic.AuthenticationConfig
	Docs string
}

// Arg returns the argument called name.
func (e *EndpointDescription) Arg(name string) (ArgumentDescription, bool) {
	for _, a := range e.Args {
		if a.Name == name {
			return a, true
		}
	}
	return ArgumentDescription{}, false
}

// ArgsOrdering returns the argument names in call order.
func (e *EndpointDescription) ArgsOrdering() []string {
	names := make([]string, len(e.Args))
	for i, a := range e.Args {
		names[i] = a.Name
	}
	return names
}

// ServiceDescription describes a service.
type ServiceDescription struct {
	Name      string
	Auth      []*cytonic.AuthenticationConfig
	Endpoints []*EndpointDescription
	Docs      string
}

// Endpoint returns the endpoint called name.
func (s *ServiceDescription) Endpoint(name string) (*EndpointDescription, bool) {
	for _, e := range s.Endpoints {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Update returns a service combining s and other. Entries of other win:
// authentication methods are keyed by type and endpoints by name. The
// result takes other's name and keeps first-seen order.
func (s *ServiceDescription) Update(other *ServiceDescription) *ServiceDescription {
	out := &ServiceDescription{Name: other.Name, Docs: other.Docs}
	if out.Docs == "" {
		out.Docs = s.Docs
	}

	authIdx := make(map[cytonic.AuthType]int)
	for _, list := range [][]*cytonic.AuthenticationConfig{s.Auth, other.Auth} {
		for _, a := range list {
			if i, ok := authIdx[a.Type]; ok {
				out.Auth[i] = a
				continue
			}
			authIdx[a.Type] = len(out.Auth)
			out.Auth = append(out.Auth, a)
		}
	}

	epIdx := make(map[string]int)
	for _, list := range [][]*EndpointDescription{s.Endpoints, other.Endpoints} {
		for _, e := range list {
			if i, ok := epIdx[e.Name]; ok {
				out.Endpoints[i] = e
				continue
			}
			epIdx[e.Name] = len(out.Endpoints)
			out.Endpoints = append(out.Endpoints, e)
		}
	}
	return out
}
