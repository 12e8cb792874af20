package cytonic

import (
	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic/internal/ordered"
)

// ModuleConfig is the service definition of one module: its types, errors,
// endpoints and the authentication the endpoints require by default.
type ModuleConfig struct {
	// Name is the service name used in generated identifiers. It defaults to
	// the PascalCase module key when the module is added to a Project.
	Name string `yaml:"name,omitempty"`
	Docs string `yaml:"docs,omitempty"`

	Auth      *AuthenticationConfig         `yaml:"auth,omitempty"`
	Types     *ordered.Map[*TypeConfig]     `yaml:"types,omitempty"`
	Errors    *ordered.Map[*ErrorConfig]    `yaml:"errors,omitempty"`
	Endpoints *ordered.Map[*EndpointConfig] `yaml:"endpoints,omitempty"`
}

// HasType reports whether the module declares a type called name.
func (m *ModuleConfig) HasType(name string) bool {
	return m.Types.Has(name)
}

// HasError reports whether the module declares an error called name.
func (m *ModuleConfig) HasError(name string) bool {
	return m.Errors.Has(name)
}

// Validate checks every declaration that can be checked without resolving
// type references: type shape exclusivity, error codes, auth configs and
// endpoint argument kinds. Errors are annotated with the offending declaration.
func (m *ModuleConfig) Validate() error {
	if m.Auth != nil {
		if err := validateAuth(m.Auth); err != nil {
			return errors.Wrap(err, "auth")
		}
	}
	for name, t := range m.Types.All() {
		if t == nil {
			return errors.Wrapf(ErrInvalidConfig, "type %s: missing definition", name)
		}
		if err := validateStruct(t); err != nil {
			return errors.Wrapf(err, "type %s", name)
		}
		if err := validateFields(t.Fields); err != nil {
			return errors.Wrapf(err, "type %s", name)
		}
		if err := t.Validate(); err != nil {
			var ee *ExclusivityError
			if errors.As(err, &ee) {
				ee.Type = name
				return err
			}
			return errors.Wrapf(err, "type %s", name)
		}
		if t.Extends != nil && *t.Extends == "" {
			return errors.Wrapf(ErrInvalidConfig, "type %s: extends must name a type", name)
		}
	}
	for name, e := range m.Errors.All() {
		if e == nil {
			return errors.Wrapf(ErrInvalidConfig, "error %s: missing definition", name)
		}
		if err := e.Validate(); err != nil {
			return errors.Wrapf(err, "error %s", name)
		}
		if err := validateFields(e.Fields); err != nil {
			return errors.Wrapf(err, "error %s", name)
		}
	}
	for name, ep := range m.Endpoints.All() {
		if ep == nil {
			return errors.Wrapf(ErrInvalidConfig, "endpoint %s: missing definition", name)
		}
		if ep.HTTP.IsZero() {
			return errors.Wrapf(ErrBadPath, "endpoint %s: missing http", name)
		}
		if ep.Auth != nil {
			if err := validateAuth(ep.Auth); err != nil {
				return errors.Wrapf(err, "endpoint %s: auth", name)
			}
		}
		for argName, arg := range ep.Args.All() {
			if arg == nil {
				return errors.Wrapf(ErrArgument, "endpoint %s: argument %s has no type", name, argName)
			}
			if err := arg.Validate(); err != nil {
				return errors.Wrapf(err, "endpoint %s: argument %s", name, argName)
			}
			if err := validateStruct(arg); err != nil {
				return errors.Wrapf(err, "endpoint %s: argument %s", name, argName)
			}
		}
		if _, err := ep.ResolveArgKinds(); err != nil {
			return errors.Wrapf(err, "endpoint %s", name)
		}
	}
	return nil
}

func validateAuth(a *AuthenticationConfig) error {
	if err := validateStruct(a); err != nil {
		return err
	}
	return a.Validate()
}

func validateFields(fields *ordered.Map[FieldConfig]) error {
	for name, f := range fields.All() {
		if err := validateStruct(&f); err != nil {
			return errors.Wrapf(err, "field %s", name)
		}
	}
	return nil
}

// EndpointAuth returns the effective authentication of an endpoint: its own
// declaration when present, otherwise the module's. An explicit "none"
// disables authentication and yields nil.
func (m *ModuleConfig) EndpointAuth(ep *EndpointConfig) *AuthenticationConfig {
	if !ep.RequiresAuth(m.Auth) {
		return nil
	}
	if ep.Auth != nil {
		return ep.Auth
	}
	return m.Auth
}
