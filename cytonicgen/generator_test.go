package cytonicgen

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
	"github.com/broady/cytonic/cytonicgen/sink"
)

var testFiles = []string{"../testdata/todolist.yaml", "../testdata/users.json"}

func loadProject(t *testing.T) *cytonic.Project {
	t.Helper()
	p, err := cytonic.ProjectFromFiles(testFiles...)
	if err != nil {
		t.Fatalf("ProjectFromFiles() error = %v", err)
	}
	return p
}

var requiredOptions = map[string]string{
	"python.module":  "api",
	"go.import_path": "example.com/api",
}

func TestApplyConfigDefaults(t *testing.T) {
	tests := []struct {
		name   string
		input  *Config
		check  func(*Config) bool
		errMsg string
	}{
		{
			name:  "empty config gets every target",
			input: &Config{OutDir: "/tmp"},
			check: func(c *Config) bool {
				return slices.Equal(c.Targets, []string{"discovery", "go", "python", "typescript"})
			},
			errMsg: "targets not defaulted",
		},
		{
			name:  "explicit targets preserved",
			input: &Config{OutDir: "/tmp", Targets: []string{"go"}},
			check: func(c *Config) bool {
				return slices.Equal(c.Targets, []string{"go"})
			},
			errMsg: "explicit targets not preserved",
		},
		{
			name:  "logger defaulted",
			input: &Config{OutDir: "/tmp"},
			check: func(c *Config) bool {
				return c.Logger == slog.Default()
			},
			errMsg: "logger not defaulted",
		},
		{
			name:  "OutDir becomes a filesystem sink",
			input: &Config{OutDir: "/tmp"},
			check: func(c *Config) bool {
				_, ok := c.Sink.(*sink.FilesystemSink)
				return ok
			},
			errMsg: "sink not derived from OutDir",
		},
		{
			name:  "explicit sink wins",
			input: &Config{OutDir: "/tmp", Sink: sink.NewMemorySink()},
			check: func(c *Config) bool {
				_, ok := c.Sink.(*sink.MemorySink)
				return ok
			},
			errMsg: "explicit sink replaced",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := applyConfigDefaults(tt.input)
			if !tt.check(result) {
				t.Error(tt.errMsg)
			}
		})
	}
}

func TestApplyConfigDefaults_DoesNotMutateInput(t *testing.T) {
	cfg := &Config{OutDir: "/tmp"}
	applyConfigDefaults(cfg)
	if cfg.Targets != nil || cfg.Logger != nil || cfg.Sink != nil {
		t.Errorf("input mutated: %+v", cfg)
	}
}

func TestGenerate_NoOutput(t *testing.T) {
	_, err := Generate(context.Background(), loadProject(t), &Config{})
	if !errors.Is(err, cytonic.ErrInvalidConfig) {
		t.Errorf("Generate() error = %v, want ErrInvalidConfig", err)
	}
}

func TestGenerate_AllTargets(t *testing.T) {
	outDir := t.TempDir()
	cfg := &Config{OutDir: outDir, Options: requiredOptions, Logger: discardLogger()}

	result, err := Generate(context.Background(), loadProject(t), cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := []string{
		"api.py",
		"cytonic.json",
		"todolist.ts",
		"todolist/todolist.go",
		"users.ts",
		"users/users.go",
	}
	if got := result.Paths(); !slices.Equal(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
	for _, p := range want {
		if _, err := os.Stat(filepath.Join(outDir, p)); err != nil {
			t.Errorf("%s was not written: %v", p, err)
		}
	}
	if got := result.Files["typescript"]; !slices.Equal(got, []string{"todolist.ts", "users.ts"}) {
		t.Errorf("typescript files = %v", got)
	}
}

func TestGenerate_Options(t *testing.T) {
	tests := []struct {
		name    string
		targets []string
		opts    map[string]string
		want    error
		check   func(t *testing.T, mem *sink.MemorySink)
	}{
		{
			name:    "unprefixed applies to every target",
			targets: []string{"python", "typescript"},
			opts:    map[string]string{"indent": "4", "python.module": "api"},
			check: func(t *testing.T, mem *sink.MemorySink) {
				if !strings.Contains(string(mem.Get("api.py")), "\n    id: str\n") {
					t.Error("python output not indented by 4")
				}
				if !strings.Contains(string(mem.Get("users.ts")), "\n    id: string;\n") {
					t.Error("typescript output not indented by 4")
				}
			},
		},
		{
			name:    "prefixed overrides unprefixed",
			targets: []string{"typescript"},
			opts:    map[string]string{"indent": "4", "typescript.indent": "2"},
			check: func(t *testing.T, mem *sink.MemorySink) {
				if !strings.Contains(string(mem.Get("users.ts")), "\n  id: string;\n") {
					t.Error("typescript output not indented by 2")
				}
			},
		},
		{
			name:    "discovery filename",
			targets: []string{"discovery"},
			opts:    map[string]string{"discovery.filename": "api.json"},
			check: func(t *testing.T, mem *sink.MemorySink) {
				if got := strings.Join(mem.Paths(), ","); got != "api.json" {
					t.Errorf("Paths() = %s", got)
				}
			},
		},
		{
			name:    "unknown key",
			targets: []string{"typescript"},
			opts:    map[string]string{"color": "blue"},
			want:    cytonic.ErrInvalidConfig,
		},
		{
			name:    "key known to one target only",
			targets: []string{"python", "typescript"},
			opts:    map[string]string{"module": "api"},
			want:    cytonic.ErrInvalidConfig,
		},
		{
			name:    "malformed value",
			targets: []string{"typescript"},
			opts:    map[string]string{"indent": "wide"},
			want:    cytonic.ErrInvalidConfig,
		},
		{
			name:    "unknown scope",
			targets: []string{"typescript"},
			opts:    map[string]string{"rust.edition": "2021"},
			want:    cytonic.ErrInvalidConfig,
		},
		{
			name:    "unknown target",
			targets: []string{"cobol"},
			want:    cytonic.ErrInvalidConfig,
		},
		{
			name:    "backend validation",
			targets: []string{"go"},
			want:    cytonic.ErrInvalidConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := sink.NewMemorySink()
			cfg := &Config{Targets: tt.targets, Sink: mem, Options: tt.opts, Logger: discardLogger()}
			_, err := Generate(context.Background(), loadProject(t), cfg)
			if tt.want != nil {
				if !errors.Is(err, tt.want) {
					t.Fatalf("Generate() error = %v, want %v", err, tt.want)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			tt.check(t, mem)
		})
	}
}

func TestGenerate_LogsWrittenFiles(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cfg := &Config{Targets: []string{"typescript"}, Sink: sink.NewMemorySink(), Logger: logger}

	if _, err := Generate(context.Background(), loadProject(t), cfg); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	logs := buf.String()
	for _, want := range []string{`msg="wrote file" target=typescript path=todolist.ts`, "path=users.ts"} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %q:\n%s", want, logs)
		}
	}
	if strings.Contains(logs, "level=DEBUG") {
		t.Error("debug records logged at default level")
	}
}

func TestCheck(t *testing.T) {
	if err := Check(context.Background(), loadProject(t), &Config{}); err != nil {
		t.Errorf("Check() error = %v", err)
	}

	// Explicit options replace the placeholders.
	err := Check(context.Background(), loadProject(t), &Config{
		Targets: []string{"python"},
		Options: map[string]string{"package": "todo.api"},
	})
	if err != nil {
		t.Errorf("Check() with package error = %v", err)
	}
}

func TestCheck_ReportsDefinitionErrors(t *testing.T) {
	m, err := cytonic.DecodeModule(strings.NewReader("types:\n  Box:\n    fields:\n      item: Missing\n"))
	if err != nil {
		t.Fatal(err)
	}
	p := cytonic.NewProject()
	if err := p.Add("broken", m); err != nil {
		t.Fatal(err)
	}
	err = Check(context.Background(), p, &Config{})
	if !errors.Is(err, cytonic.ErrUnresolvedType) {
		t.Errorf("Check() error = %v, want ErrUnresolvedType", err)
	}
}

func TestDiscoveryGenerator(t *testing.T) {
	mem := sink.NewMemorySink()
	if err := (&DiscoveryGenerator{}).Generate(context.Background(), loadProject(t), mem); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	var doc struct {
		Modules []struct {
			Module  string `json:"module"`
			Service *struct {
				Name string `json:"name"`
			} `json:"service"`
		} `json:"modules"`
	}
	if err := json.Unmarshal(mem.Get("cytonic.json"), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(doc.Modules) != 2 {
		t.Fatalf("got %d modules, want 2", len(doc.Modules))
	}
	if doc.Modules[0].Module != "todolist" || doc.Modules[0].Service == nil || doc.Modules[0].Service.Name != "TodoList" {
		t.Errorf("unexpected first module: %+v", doc.Modules[0])
	}
}

func TestGenerator_Fluent(t *testing.T) {
	mem := sink.NewMemorySink()
	result, err := FromFiles(testFiles...).
		WithTarget(TargetPython, TargetTypeScript).
		WithOption("python.package", "todo.api").
		WithLogger(discardLogger()).
		ToSink(context.Background(), mem)
	if err != nil {
		t.Fatalf("ToSink() error = %v", err)
	}
	want := []string{"todo/api/__init__.py", "todo/api/todolist.py", "todo/api/users.py", "todolist.ts", "users.ts"}
	if got := mem.Paths(); !slices.Equal(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
	if got := result.Paths(); !slices.Equal(got, want) {
		t.Errorf("Result.Paths() = %v, want %v", got, want)
	}
}

func TestGenerator_ToDir(t *testing.T) {
	outDir := t.TempDir()
	_, err := FromProject(loadProject(t)).
		WithTarget(TargetGo).
		WithOption("import_path", "example.com/api").
		WithLogger(discardLogger()).
		ToDir(outDir)
	if err != nil {
		t.Fatalf("ToDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "users", "users.go")); err != nil {
		t.Error(err)
	}
}

func TestGenerator_NoFiles(t *testing.T) {
	_, err := FromFiles().ToSink(context.Background(), sink.NewMemorySink())
	if !errors.Is(err, cytonic.ErrInvalidConfig) {
		t.Errorf("ToSink() error = %v, want ErrInvalidConfig", err)
	}
}

func TestParseOptions(t *testing.T) {
	got, err := ParseOptions([]string{"python.package=todo.api", "indent=4", "description=a=b"})
	if err != nil {
		t.Fatalf("ParseOptions() error = %v", err)
	}
	want := map[string]string{"python.package": "todo.api", "indent": "4", "description": "a=b"}
	if len(got) != len(want) {
		t.Fatalf("ParseOptions() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}

	for _, bad := range []string{"indent", "=4"} {
		if _, err := ParseOptions([]string{bad}); !errors.Is(err, cytonic.ErrInvalidConfig) {
			t.Errorf("ParseOptions(%q) error = %v, want ErrInvalidConfig", bad, err)
		}
	}
}
