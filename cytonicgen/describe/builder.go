package describe

import (
	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
	"github.com/broady/cytonic/internal/ordered"
)

// AuthArgName is the name of the synthesized credentials argument.
const AuthArgName = "auth"

// ServiceBuilder assembles a ServiceDescription explicitly. Errors are
// collected and reported by Build.
type ServiceBuilder struct {
	svc       ServiceDescription
	endpoints []*EndpointBuilder
}

// NewServiceBuilder starts a service description.
func NewServiceBuilder(name string) *ServiceBuilder {
	return &ServiceBuilder{svc: ServiceDescription{Name: name}}
}

// Docs sets the service documentation.
func (b *ServiceBuilder) Docs(docs string) *ServiceBuilder {
	b.svc.Docs = docs
	return b
}

// Auth adds a service-wide authentication method. "none" is ignored.
func (b *ServiceBuilder) Auth(auth *cytonic.AuthenticationConfig) *ServiceBuilder {
	if auth != nil && auth.Type != cytonic.AuthNone {
		b.svc.Auth = append(b.svc.Auth, auth)
	}
	return b
}

// Endpoint starts an endpoint routed at http, e.g. "GET /users/{id}".
func (b *ServiceBuilder) Endpoint(name, http string) *EndpointBuilder {
	e := &EndpointBuilder{service: b, desc: &EndpointDescription{Name: name}}
	e.desc.HTTP, e.err = cytonic.ParseHTTPPath(http)
	b.endpoints = append(b.endpoints, e)
	return e
}

// Build validates every endpoint, resolves untagged argument kinds and
// returns the description. An endpoint that requires authentication must
// declare an argument called "auth".
func (b *ServiceBuilder) Build() (*ServiceDescription, error) {
	svc := b.svc
	svc.Endpoints = nil
	seen := make(map[string]bool)
	for _, e := range b.endpoints {
		if seen[e.desc.Name] {
			return nil, errors.Wrapf(cytonic.ErrInvalidConfig, "service %s: duplicate endpoint %s", svc.Name, e.desc.Name)
		}
		seen[e.desc.Name] = true
		desc, err := e.build(svc.Auth)
		if err != nil {
			return nil, errors.Wrapf(err, "endpoint %s.%s", svc.Name, e.desc.Name)
		}
		svc.Endpoints = append(svc.Endpoints, desc)
	}
	return &svc, nil
}

// EndpointBuilder assembles one endpoint of a ServiceBuilder.
type EndpointBuilder struct {
	service *ServiceBuilder
	desc    *EndpointDescription
	err     error
}

// Docs sets the endpoint documentation.
func (e *EndpointBuilder) Docs(docs string) *EndpointBuilder {
	e.desc.Docs = docs
	return e
}

// Auth adds an authentication method to this endpoint only.
func (e *EndpointBuilder) Auth(auth *cytonic.AuthenticationConfig) *EndpointBuilder {
	if auth != nil {
		e.desc.Auth = append(e.desc.Auth, auth)
	}
	return e
}

// Arg adds an argument. An empty kind is resolved by Build. The argument
// called "auth" always has kind auth.
func (e *EndpointBuilder) Arg(name string, typ *TypeRef, kind cytonic.ParamKind) *EndpointBuilder {
	return e.ArgDescription(ArgumentDescription{Name: name, Type: typ, Kind: kind})
}

// ArgDescription adds a fully specified argument.
func (e *EndpointBuilder) ArgDescription(arg ArgumentDescription) *EndpointBuilder {
	if _, dup := e.desc.Arg(arg.Name); dup && e.err == nil {
		e.err = errors.Wrapf(cytonic.ErrArgument, "duplicate argument %q", arg.Name)
	}
	e.desc.Args = append(e.desc.Args, arg)
	return e
}

// Returns sets the return type.
func (e *EndpointBuilder) Returns(typ *TypeRef) *EndpointBuilder {
	e.desc.Return = typ
	return e
}

// Service returns the owning service builder.
func (e *EndpointBuilder) Service() *ServiceBuilder {
	return e.service
}

func (e *EndpointBuilder) build(serviceAuth []*cytonic.AuthenticationConfig) (*EndpointDescription, error) {
	if e.err != nil {
		return nil, e.err
	}
	desc := *e.desc

	// Resolve kinds of everything but the auth argument.
	cfg := &cytonic.EndpointConfig{HTTP: desc.HTTP, Args: ordered.New[*cytonic.ArgumentConfig]()}
	hasAuth := false
	for _, a := range desc.Args {
		if a.Name == AuthArgName {
			hasAuth = true
			continue
		}
		if a.Kind == cytonic.KindAuth {
			return nil, errors.Wrapf(cytonic.ErrArgument, "argument %q cannot have kind auth", a.Name)
		}
		cfg.Args.Set(a.Name, &cytonic.ArgumentConfig{Type: a.Type.String(), Kind: a.Kind})
	}
	resolved, err := cfg.ResolveArgKinds()
	if err != nil {
		return nil, err
	}

	effective := serviceAuth
	if len(desc.Auth) > 0 {
		effective = desc.Auth
	}
	requiresAuth := false
	for _, a := range effective {
		if a.Type != cytonic.AuthNone {
			requiresAuth = true
		}
	}
	if requiresAuth && !hasAuth {
		return nil, errors.WithHint(
			errors.Wrapf(cytonic.ErrArgument, "missing %q parameter in endpoint %s", AuthArgName, desc.HTTP),
			"endpoints that require authentication receive the caller's credentials as their first argument")
	}

	args := make([]ArgumentDescription, 0, len(desc.Args))
	for _, a := range desc.Args {
		if a.Name == AuthArgName {
			a.Kind = cytonic.KindAuth
			args = append(args, a)
		}
	}
	for _, r := range resolved {
		a, _ := desc.Arg(r.Name)
		a.Kind = r.Kind
		args = append(args, a)
	}
	desc.Args = args
	return &desc, nil
}
