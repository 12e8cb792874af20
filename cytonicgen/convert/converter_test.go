package convert

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
	"github.com/broady/cytonic/internal/ordered"
)

var testTemplates = Templates{
	"any":      "Any",
	"string":   "String",
	"integer":  "Integer",
	"double":   "Double",
	"boolean":  "Boolean",
	"datetime": "DateTime",
	"decimal":  "Decimal",
	"list":     "List[?]",
	"set":      "Set[?]",
	"map":      "Map[?, ?]",
	"optional": "Optional[?]",
}

// stringBackend renders types as strings and remembers what it visited.
type stringBackend struct {
	visited []string
}

func (b *stringBackend) Render(name, template string, params []string) string {
	return Substitute(template, params)
}

func (b *stringBackend) Reference(loc cytonic.TypeLocator) string {
	return loc.ModuleName + "." + loc.TypeName
}

func (b *stringBackend) Visit(rendered string, dt cytonic.Datatype, loc *cytonic.TypeLocator) string {
	b.visited = append(b.visited, rendered)
	return rendered
}

func testProject(t *testing.T) *cytonic.Project {
	t.Helper()
	p := cytonic.NewProject()
	for _, m := range []struct {
		name  string
		types []string
	}{
		{"todolist", []string{"TodoList", "TodoItem"}},
		{"users", []string{"User"}},
	} {
		mc := &cytonic.ModuleConfig{Types: ordered.New[*cytonic.TypeConfig]()}
		for _, typ := range m.types {
			mc.Types.Set(typ, &cytonic.TypeConfig{})
		}
		if err := p.Add(m.name, mc); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

func newTestConverter(t *testing.T, current string, opts ...Option) (*Converter[string], *stringBackend) {
	t.Helper()
	b := &stringBackend{}
	c, err := New[string](testProject(t), current, testTemplates, b, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, b
}

func TestConvert(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"string", "String"},
		{"list[integer]", "List[Integer]"},
		{"map[string, list[double]]", "Map[String, List[Double]]"},
		{"list[map[string,set[optional[integer]]]]", "List[Map[String, Set[Optional[Integer]]]]"},
		{"User", "users.User"},
		{"optional[TodoItem]", "Optional[todolist.TodoItem]"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, _ := newTestConverter(t, "todolist")
			got, err := c.Convert(tt.in)
			if err != nil {
				t.Fatalf("Convert(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Convert(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		in       string
		sentinel error
		message  string
	}{
		{"map[string]", cytonic.ErrArity, "type map requires 2 parameter(s) but got 1"},
		{"string[integer]", cytonic.ErrArity, "type string requires 0 parameter(s) but got 1"},
		{"list[map[string]]", cytonic.ErrArity, "type map requires 2"},
		{"Bogus", cytonic.ErrUnresolvedType, "type Bogus does not exist"},
		{"list[Bogus]", cytonic.ErrUnresolvedType, "type Bogus does not exist"},
		{"User[string]", cytonic.ErrUnresolvedType, "cannot take type parameters"},
		{"list[]", cytonic.ErrBadTypeFormat, "list[]"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, _ := newTestConverter(t, "todolist")
			_, err := c.Convert(tt.in)
			if err == nil {
				t.Fatalf("Convert(%q) succeeded, want error", tt.in)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Convert(%q) error = %v, want %v", tt.in, err, tt.sentinel)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Convert(%q) error = %q, want it to contain %q", tt.in, err, tt.message)
			}
		})
	}
}

func TestConvert_ArityErrorDetails(t *testing.T) {
	c, _ := newTestConverter(t, "todolist")
	_, err := c.Convert("map[string]")
	var ae *cytonic.ArityError
	if !errors.As(err, &ae) {
		t.Fatalf("error %v is not an ArityError", err)
	}
	if ae.Type != "map" || ae.Expected != 2 || ae.Actual != 1 {
		t.Errorf("ArityError = %+v", ae)
	}
}

func TestConvert_RecordsImports(t *testing.T) {
	c, _ := newTestConverter(t, "todolist")
	for _, s := range []string{"TodoList", "list[User]", "map[string, User]", "optional[TodoItem]"} {
		if _, err := c.Convert(s); err != nil {
			t.Fatalf("Convert(%q): %v", s, err)
		}
	}

	want := []Group{{Source: "users", Symbols: []string{"User"}}}
	if got := c.Imports().Groups(); !reflect.DeepEqual(got, want) {
		t.Errorf("Groups() = %+v, want %+v", got, want)
	}
	if c.Imports().Has("todolist", "TodoList") {
		t.Error("recorded an import of the current module")
	}
}

func TestConvert_ImportSource(t *testing.T) {
	c, _ := newTestConverter(t, "todolist", WithImportSource(func(m string) string { return "./" + m }))
	if _, err := c.Convert("list[User]"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Convert("TodoItem"); err != nil {
		t.Fatal(err)
	}
	if !c.Imports().Has("./users", "User") {
		t.Errorf("missing ./users import, got %+v", c.Imports().Groups())
	}
	if c.Imports().Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Imports().Len())
	}
}

func TestConvert_VisitsEveryType(t *testing.T) {
	c, b := newTestConverter(t, "todolist")
	if _, err := c.Convert("map[string, list[User]]"); err != nil {
		t.Fatal(err)
	}
	want := []string{"String", "users.User", "List[users.User]", "Map[String, List[users.User]]"}
	if !reflect.DeepEqual(b.visited, want) {
		t.Errorf("visited = %q, want %q", b.visited, want)
	}
}

func TestNew_MissingTemplates(t *testing.T) {
	templates := Templates{"string": "str", "list": "list[?]"}
	_, err := New[string](cytonic.NewProject(), "", templates, &stringBackend{})
	if !errors.Is(err, cytonic.ErrInvalidConfig) {
		t.Fatalf("New() error = %v, want ErrInvalidConfig", err)
	}
	if !strings.Contains(err.Error(), "any, boolean") {
		t.Errorf("error %q does not list missing builtins", err)
	}
}

func TestTemplates_Arity(t *testing.T) {
	tests := map[string]int{"string": 0, "list": 1, "map": 2, "optional": 1, "unknown": 0}
	for name, want := range tests {
		if got := testTemplates.Arity(name); got != want {
			t.Errorf("Arity(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		template string
		params   []string
		want     string
	}{
		{"List[?]", []string{"int"}, "List[int]"},
		{"Map<?, ?>", []string{"string", "User"}, "Map<string, User>"},
		{"? | undefined", []string{"Date"}, "Date | undefined"},
		{"str", nil, "str"},
		{"map[?]struct{}", []string{"string"}, "map[string]struct{}"},
	}
	for _, tt := range tests {
		if got := Substitute(tt.template, tt.params); got != tt.want {
			t.Errorf("Substitute(%q, %q) = %q, want %q", tt.template, tt.params, got, tt.want)
		}
	}
}
