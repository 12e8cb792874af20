package describe

import (
	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
)

// FromModule describes the service defined by a project module. Types are
// resolved against the whole project. Endpoints requiring authentication get
// a synthesized auth argument in first position.
func FromModule(project *cytonic.Project, moduleName string) (*ServiceDescription, error) {
	m, ok := project.Module(moduleName)
	if !ok {
		return nil, errors.Newf("module %q not in project", moduleName)
	}
	conv, err := NewConverter(project, moduleName)
	if err != nil {
		return nil, err
	}

	b := NewServiceBuilder(m.Name).Docs(m.Docs).Auth(m.Auth)
	for name, ep := range m.Endpoints.All() {
		e := b.Endpoint(name, ep.HTTP.String()).Docs(ep.Docs)
		if ep.Auth != nil {
			e.Auth(ep.Auth)
		}
		if m.EndpointAuth(ep) != nil {
			e.Arg(AuthArgName, Credentials, cytonic.KindAuth)
		}
		for argName, arg := range ep.Args.All() {
			if argName == AuthArgName {
				return nil, errors.Wrapf(cytonic.ErrArgument, "endpoint %s: argument name %q is reserved", name, AuthArgName)
			}
			typ, err := conv.Convert(arg.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "endpoint %s: argument %s", name, argName)
			}
			e.Arg(argName, typ, arg.Kind)
		}
		if ep.Return != "" {
			typ, err := conv.Convert(ep.Return)
			if err != nil {
				return nil, errors.Wrapf(err, "endpoint %s: return", name)
			}
			e.Returns(typ)
		}
	}
	return b.Build()
}
