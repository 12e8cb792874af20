package cytonic

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ModuleExtensions are the file extensions LoadModule understands. JSON is
// decoded with the YAML decoder, which accepts it as a subset.
var ModuleExtensions = []string{".yaml", ".yml", ".json"}

// DecodeModule decodes and validates a module definition from r.
func DecodeModule(r io.Reader) (*ModuleConfig, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var m ModuleConfig
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		err = errors.Wrap(err, "decoding module")
		if !matchesSentinel(err) {
			err = errors.Mark(err, ErrInvalidConfig)
		}
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadModule reads and validates the module definition at path.
func LoadModule(path string) (*ModuleConfig, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !isModuleExtension(ext) {
		return nil, errors.WithHint(
			errors.Wrapf(ErrInvalidConfig, "%s: unsupported file extension %q", path, ext),
			"module files must end in .yaml, .yml or .json")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading module")
	}
	m, err := DecodeModule(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return m, nil
}

// ModuleName returns the module name for a definition file: its base name
// without extension.
func ModuleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ProjectFromFiles loads every file into a new project, each under its
// ModuleName. Two files with the same stem fail with ErrDuplicateModule.
func ProjectFromFiles(paths ...string) (*Project, error) {
	p := NewProject()
	for _, path := range paths {
		m, err := LoadModule(path)
		if err != nil {
			return nil, err
		}
		if err := p.Add(ModuleName(path), m); err != nil {
			return nil, errors.Wrapf(err, "%s", path)
		}
	}
	return p, nil
}

// sentinels lists every error class a definition can fail with.
var sentinels = []error{
	ErrBadTypeFormat, ErrArity, ErrUnresolvedType, ErrExclusive,
	ErrBadPath, ErrArgument, ErrDuplicateModule, ErrInvalidConfig,
}

func matchesSentinel(err error) bool {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}

func isModuleExtension(ext string) bool {
	for _, e := range ModuleExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
