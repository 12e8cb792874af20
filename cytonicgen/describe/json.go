package describe

import (
	"encoding/json"

	"github.com/broady/cytonic"
)

// JSON serialization of descriptions. Field names are snake_case to match
// definition files.

// MarshalJSON implements json.Marshaler for ArgumentDescription.
func (a ArgumentDescription) MarshalJSON() ([]byte, error) {
	var def any
	if a.HasDefault {
		def = &a.Default
	}
	return json.Marshal(&struct {
		Name    string   `json:"name"`
		Kind    string   `json:"kind"`
		Type    *TypeRef `json:"type"`
		Alias   string   `json:"alias,omitempty"`
		Default any      `json:"default,omitempty"`
	}{
		Name:    a.Name,
		Kind:    string(a.Kind),
		Type:    a.Type,
		Alias:   a.Alias,
		Default: def,
	})
}

// MarshalJSON implements json.Marshaler for EndpointDescription.
func (e *EndpointDescription) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name         string                `json:"name"`
		HTTP         string                `json:"http"`
		Args         []ArgumentDescription `json:"args"`
		ArgsOrdering []string              `json:"args_ordering"`
		Return       *TypeRef              `json:"return,omitempty"`
		Auth         any                   `json:"auth,omitempty"`
		Docs         string                `json:"docs,omitempty"`
	}{
		Name:         e.Name,
		HTTP:         e.HTTP.String(),
		Args:         nonNil(e.Args),
		ArgsOrdering: nonNil(e.ArgsOrdering()),
		Return:       e.Return,
		Auth:         authList(e.Auth),
		Docs:         e.Docs,
	})
}

// MarshalJSON implements json.Marshaler for ServiceDescription.
func (s *ServiceDescription) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name      string                 `json:"name"`
		Auth      any                    `json:"auth,omitempty"`
		Endpoints []*EndpointDescription `json:"endpoints"`
		Docs      string                 `json:"docs,omitempty"`
	}{
		Name:      s.Name,
		Auth:      authList(s.Auth),
		Endpoints: nonNil(s.Endpoints),
		Docs:      s.Docs,
	})
}

// MarshalJSON implements json.Marshaler for FieldDescription.
func (f FieldDescription) MarshalJSON() ([]byte, error) {
	var def any
	if f.HasDefault {
		def = &f.Default
	}
	return json.Marshal(&struct {
		Name    string   `json:"name"`
		Type    *TypeRef `json:"type"`
		Docs    string   `json:"docs,omitempty"`
		Default any      `json:"default,omitempty"`
	}{
		Name:    f.Name,
		Type:    f.Type,
		Docs:    f.Docs,
		Default: def,
	})
}

// MarshalJSON implements json.Marshaler for TypeDescription.
func (t *TypeDescription) MarshalJSON() ([]byte, error) {
	type value struct {
		Name string `json:"name"`
		Docs string `json:"docs,omitempty"`
	}
	var values []value
	for _, v := range t.Values {
		values = append(values, value{Name: v.Name, Docs: v.Docs})
	}
	return json.Marshal(&struct {
		Kind    string             `json:"kind"`
		Name    string             `json:"name"`
		Docs    string             `json:"docs,omitempty"`
		Extends *TypeRef           `json:"extends,omitempty"`
		Fields  []FieldDescription `json:"fields,omitempty"`
		Values  []value            `json:"values,omitempty"`
		Union   []FieldDescription `json:"union,omitempty"`
	}{
		Kind:    t.Kind.String(),
		Name:    t.Name,
		Docs:    t.Docs,
		Extends: t.Extends,
		Fields:  t.Fields,
		Values:  values,
		Union:   t.Union,
	})
}

// MarshalJSON implements json.Marshaler for ErrorDescription.
func (e *ErrorDescription) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind   string             `json:"kind"`
		Name   string             `json:"name"`
		Code   string             `json:"error_code"`
		Fields []FieldDescription `json:"fields,omitempty"`
		Docs   string             `json:"docs,omitempty"`
	}{
		Kind:   "error",
		Name:   e.Name,
		Code:   string(e.Code),
		Fields: e.Fields,
		Docs:   e.Docs,
	})
}

// MarshalJSON implements json.Marshaler for ModuleDescription.
func (m *ModuleDescription) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Module  string              `json:"module"`
		Docs    string              `json:"docs,omitempty"`
		Types   []*TypeDescription  `json:"types,omitempty"`
		Errors  []*ErrorDescription `json:"errors,omitempty"`
		Service *ServiceDescription `json:"service,omitempty"`
	}{
		Module:  m.Module,
		Docs:    m.Docs,
		Types:   m.Types,
		Errors:  m.Errors,
		Service: m.Service,
	})
}

func authList(auth []*cytonic.AuthenticationConfig) any {
	if len(auth) == 0 {
		return nil
	}
	return auth
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
