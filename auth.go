package cytonic

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// AuthType identifies an authentication method.
type AuthType string

const (
	AuthOAuth2Bearer AuthType = "oauth2_bearer"
	AuthBasic        AuthType = "basic"
	AuthNone         AuthType = "none"
)

// AuthenticationConfig declares how a service or endpoint authenticates.
// HeaderName only applies to AuthOAuth2Bearer.
type AuthenticationConfig struct {
	Type       AuthType `yaml:"type" json:"type" validate:"required,oneof=oauth2_bearer basic none"`
	HeaderName string   `yaml:"header_name,omitempty" json:"header_name,omitempty"`
}

// OAuth2Bearer returns a bearer token authentication config. An empty header
// name means the standard Authorization header.
func OAuth2Bearer(headerName string) *AuthenticationConfig {
	return &AuthenticationConfig{Type: AuthOAuth2Bearer, HeaderName: headerName}
}

// BasicAuth returns a HTTP basic authentication config.
func BasicAuth() *AuthenticationConfig {
	return &AuthenticationConfig{Type: AuthBasic}
}

// NoAuth returns a config that explicitly disables authentication.
func NoAuth() *AuthenticationConfig {
	return &AuthenticationConfig{Type: AuthNone}
}

// Validate checks that the config names a known method.
func (a *AuthenticationConfig) Validate() error {
	switch a.Type {
	case AuthOAuth2Bearer:
		return nil
	case AuthBasic, AuthNone:
		if a.HeaderName != "" {
			return errors.Wrapf(ErrInvalidConfig, "auth type %q does not accept header_name", a.Type)
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown auth type %q", a.Type)
	}
}

// ClassName is the name of the runtime class that represents this method.
func (a *AuthenticationConfig) ClassName() string {
	switch a.Type {
	case AuthOAuth2Bearer:
		return "OAuth2Bearer"
	case AuthBasic:
		return "BasicAuth"
	default:
		return "NoAuth"
	}
}

func (a *AuthenticationConfig) String() string {
	if a.HeaderName != "" {
		return fmt.Sprintf("%s(header_name=%q)", a.ClassName(), a.HeaderName)
	}
	return a.ClassName() + "()"
}

// Credentials carries the credentials extracted from a request by the external
// framework. Exactly one of BearerToken or Basic is set.
type Credentials struct {
	BearerToken string
	Basic       *BasicCredentials
}

// BasicCredentials is a username/password pair.
type BasicCredentials struct {
	Username string
	Password string
}

// GetBearerToken returns the bearer token or an error if the credentials are of another kind.
func (c Credentials) GetBearerToken() (string, error) {
	if c.BearerToken == "" {
		return "", errors.New("not a bearer token in credentials")
	}
	return c.BearerToken, nil
}

// GetBasicAuth returns the basic credentials or an error if the credentials are of another kind.
func (c Credentials) GetBasicAuth() (BasicCredentials, error) {
	if c.Basic == nil {
		return BasicCredentials{}, errors.New("not a basic auth in credentials")
	}
	return *c.Basic, nil
}
