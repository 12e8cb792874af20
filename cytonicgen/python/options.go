package python

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
)

// Options configure Python generation. Exactly one of Module or Package
// must be set.
type Options struct {
	// Module writes every project module into one Python module of this
	// dotted name, e.g. "todo.api".
	Module string `schema:"module"`

	// Package writes one Python module per project module below this
	// dotted package name, plus an __init__.py re-exporting all of them.
	Package string `schema:"package"`

	// Installable lays the output out as a Flit project: sources below
	// src/, a pyproject.toml and, in package mode, a py.typed marker.
	Installable bool `schema:"installable"`

	// DistName, Version and Description go into pyproject.toml.
	DistName    string `schema:"dist_name"`
	Version     string `schema:"version"`
	Description string `schema:"description"`

	// RuntimeVersion is the cytonic runtime version the generated
	// project depends on.
	RuntimeVersion string `schema:"runtime_version"`

	// Indent is the number of spaces per indentation level (default: 2).
	Indent int `schema:"indent"`
}

// Default values for Options.
const (
	DefaultIndent         = 2
	DefaultVersion        = "0.0.0"
	DefaultDescription    = "Auto-generated API bindings."
	DefaultRuntimeVersion = "0.1.0"
)

func (o Options) withDefaults() Options {
	if o.Indent <= 0 {
		o.Indent = DefaultIndent
	}
	if o.Version == "" {
		o.Version = DefaultVersion
	}
	if o.Description == "" {
		o.Description = DefaultDescription
	}
	if o.RuntimeVersion == "" {
		o.RuntimeVersion = DefaultRuntimeVersion
	}
	return o
}

// Validate checks that the options select exactly one layout.
func (o Options) Validate() error {
	switch {
	case o.Module != "" && o.Package != "":
		return errors.Wrap(cytonic.ErrInvalidConfig, "python: module and package cannot be mixed")
	case o.Module == "" && o.Package == "":
		return errors.WithHint(
			errors.Wrap(cytonic.ErrInvalidConfig, "python: one of module or package must be specified"),
			"pass --opt module=NAME or --opt package=NAME")
	}
	if !o.Installable && (o.DistName != "" || o.Version != "" || o.Description != "") {
		return errors.Wrap(cytonic.ErrInvalidConfig, "python: dist_name, version and description require installable")
	}
	for _, name := range []string{o.Module, o.Package} {
		if name == "" {
			continue
		}
		for _, part := range strings.Split(name, ".") {
			if !isIdentifier(part) {
				return errors.Wrapf(cytonic.ErrInvalidConfig, "python: %q is not a valid dotted module name", name)
			}
		}
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" || keywords[s] {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
