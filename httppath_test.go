package cytonic

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

func TestParseHTTPPath(t *testing.T) {
	p, err := ParseHTTPPath("GET /foo/{bar}/{spam:path}")
	if err != nil {
		t.Fatalf("ParseHTTPPath() error = %v", err)
	}

	if p.Method != "GET" {
		t.Errorf("Method = %q, want GET", p.Method)
	}
	if got := p.Path(); got != "/foo/{bar}/{spam:path}" {
		t.Errorf("Path() = %q", got)
	}
	if got := p.String(); got != "GET /foo/{bar}/{spam:path}" {
		t.Errorf("String() = %q", got)
	}
	if got, want := p.Parameters(), map[string]string{"bar": "", "spam": "path"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Parameters() = %v, want %v", got, want)
	}
	if got, want := p.Params(), []PathParam{{Name: "bar"}, {Name: "spam", Hint: "path"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("Params() = %v, want %v", got, want)
	}
	if !p.HasParameter("spam") {
		t.Error("HasParameter(spam) = false")
	}
	if p.HasParameter("foo") {
		t.Error("HasParameter(foo) = true")
	}
}

func TestParseHTTPPath_RoundTrip(t *testing.T) {
	for _, s := range []string{
		"GET /",
		"POST /lists",
		"PUT /lists/{list_id}/items/{item_id}",
		"DELETE /a{b}c",
		"HEAD /files/{path:path}",
		"OPTIONS /x/{y}/",
		"GET /literal/{not a param}",
	} {
		t.Run(s, func(t *testing.T) {
			p, err := ParseHTTPPath(s)
			if err != nil {
				t.Fatalf("ParseHTTPPath() error = %v", err)
			}
			if got := p.String(); got != s {
				t.Errorf("String() = %q, want %q", got, s)
			}
		})
	}
}

func TestParseHTTPPath_Errors(t *testing.T) {
	tests := []struct {
		in      string
		message string
	}{
		{"/foo", "missing HTTP method"},
		{"GET", "missing HTTP path"},
		{"FETCH /foo", "invalid HTTP method"},
		{"get /foo", "invalid HTTP method"},
		{"GET foo", "path needs to begin with a slash"},
		{"GET /{a}/{a}", "duplicate path parameter"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseHTTPPath(tt.in)
			if !errors.Is(err, ErrBadPath) {
				t.Fatalf("ParseHTTPPath() error = %v, want %v", err, ErrBadPath)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error = %q, want to contain %q", err, tt.message)
			}
		})
	}
}

func TestHTTPPath_YAML(t *testing.T) {
	var doc struct {
		HTTP HTTPPath `yaml:"http"`
	}
	if err := yaml.Unmarshal([]byte(`http: POST /lists/{list_id}`), &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if doc.HTTP.Method != "POST" || !doc.HTTP.HasParameter("list_id") {
		t.Errorf("decoded %v, want POST with list_id", doc.HTTP)
	}

	if err := yaml.Unmarshal([]byte(`http: /lists`), &doc); !errors.Is(err, ErrBadPath) {
		t.Errorf("Unmarshal(/lists) error = %v, want %v", err, ErrBadPath)
	}
}

func TestHTTPPath_IsZero(t *testing.T) {
	if !(HTTPPath{}).IsZero() {
		t.Error("zero HTTPPath: IsZero() = false")
	}
	if MustParseHTTPPath("GET /").IsZero() {
		t.Error("GET /: IsZero() = true")
	}
}
