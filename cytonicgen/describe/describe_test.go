package describe

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/broady/cytonic"
)

func loadProject(t *testing.T) *cytonic.Project {
	t.Helper()
	p, err := cytonic.ProjectFromFiles("../../testdata/todolist.yaml", "../../testdata/users.json")
	if err != nil {
		t.Fatalf("ProjectFromFiles() error = %v", err)
	}
	return p
}

func TestFromModule(t *testing.T) {
	svc, err := FromModule(loadProject(t), "todolist")
	if err != nil {
		t.Fatalf("FromModule() error = %v", err)
	}

	if svc.Name != "TodoList" {
		t.Errorf("Name = %q, want TodoList", svc.Name)
	}
	if svc.Docs != "A simple todo list API." {
		t.Errorf("Docs = %q", svc.Docs)
	}
	if len(svc.Auth) != 1 || svc.Auth[0].Type != cytonic.AuthOAuth2Bearer {
		t.Fatalf("Auth = %v, want [OAuth2Bearer()]", svc.Auth)
	}

	if len(svc.Endpoints) != 3 {
		t.Fatalf("len(Endpoints) = %d, want 3", len(svc.Endpoints))
	}
	getLists := svc.Endpoints[0]
	if getLists.Name != "get_lists" {
		t.Errorf("Endpoints[0].Name = %q, want get_lists", getLists.Name)
	}
	if got, want := getLists.ArgsOrdering(), []string{"auth"}; !reflect.DeepEqual(got, want) {
		t.Errorf("get_lists ArgsOrdering() = %v, want %v", got, want)
	}
	if got := getLists.Return.String(); got != "list[todolist.TodoList]" {
		t.Errorf("get_lists Return = %q", got)
	}

	getItems, ok := svc.Endpoint("get_items")
	if !ok {
		t.Fatal("Endpoint(get_items) not found")
	}
	if got, want := getItems.ArgsOrdering(), []string{"auth", "list_id", "priority"}; !reflect.DeepEqual(got, want) {
		t.Errorf("get_items ArgsOrdering() = %v, want %v", got, want)
	}
	kinds := make(map[string]cytonic.ParamKind)
	for _, a := range getItems.Args {
		kinds[a.Name] = a.Kind
	}
	wantKinds := map[string]cytonic.ParamKind{
		"auth":     cytonic.KindAuth,
		"list_id":  cytonic.KindPath,
		"priority": cytonic.KindQuery,
	}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Errorf("get_items kinds = %v, want %v", kinds, wantKinds)
	}
	if auth, _ := getItems.Arg("auth"); auth.Type != Credentials {
		t.Errorf("auth arg type = %v, want Credentials", auth.Type)
	}
	if priority, _ := getItems.Arg("priority"); !priority.Type.IsOptional() {
		t.Errorf("priority type = %v, want optional", priority.Type)
	}

	setItems, _ := svc.Endpoint("set_items")
	if items, _ := setItems.Arg("items"); items.Kind != cytonic.KindBody {
		t.Errorf("items kind = %q, want body", items.Kind)
	}
	if setItems.Docs != "Replaces all items of a list." {
		t.Errorf("set_items Docs = %q", setItems.Docs)
	}
}

func TestFromModule_EndpointAuth(t *testing.T) {
	svc, err := FromModule(loadProject(t), "users")
	if err != nil {
		t.Fatalf("FromModule() error = %v", err)
	}

	if svc.Name != "Users" {
		t.Errorf("Name = %q, want Users", svc.Name)
	}
	if len(svc.Auth) != 0 {
		t.Errorf("Auth = %v, want none", svc.Auth)
	}

	getUser, _ := svc.Endpoint("get_user")
	if got, want := getUser.ArgsOrdering(), []string{"auth", "user_id"}; !reflect.DeepEqual(got, want) {
		t.Errorf("get_user ArgsOrdering() = %v, want %v", got, want)
	}
	if len(getUser.Auth) != 1 || getUser.Auth[0].Type != cytonic.AuthBasic {
		t.Errorf("get_user Auth = %v, want [BasicAuth()]", getUser.Auth)
	}
	if got := getUser.Return.String(); got != "users.User" {
		t.Errorf("get_user Return = %q, want users.User", got)
	}

	if ping, _ := svc.Endpoint("ping"); len(ping.Args) != 0 {
		t.Errorf("ping Args = %v, want none", ping.Args)
	}
}

func TestFromModule_UnknownModule(t *testing.T) {
	if _, err := FromModule(loadProject(t), "nope"); err == nil {
		t.Error("FromModule(nope): expected error")
	}
}

func TestServiceBuilder(t *testing.T) {
	svc, err := NewServiceBuilder("Greeter").
		Auth(cytonic.OAuth2Bearer("")).
		Endpoint("greet", "POST /greet/{name}").
		Arg("name", Builtin("string"), "").
		Arg("greeting", Builtin("string"), "").
		Arg("auth", Credentials, "").
		Returns(Builtin("string")).
		Service().
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	greet, ok := svc.Endpoint("greet")
	if !ok {
		t.Fatal("Endpoint(greet) not found")
	}
	if got, want := greet.ArgsOrdering(), []string{"auth", "name", "greeting"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ArgsOrdering() = %v, want %v", got, want)
	}
	wantKinds := []cytonic.ParamKind{cytonic.KindAuth, cytonic.KindPath, cytonic.KindBody}
	for i, want := range wantKinds {
		if got := greet.Args[i].Kind; got != want {
			t.Errorf("Args[%d].Kind = %q, want %q", i, got, want)
		}
	}
}

func TestServiceBuilder_MissingAuth(t *testing.T) {
	b := NewServiceBuilder("Greeter").Auth(cytonic.BasicAuth())
	b.Endpoint("greet", "GET /greet")
	_, err := b.Build()
	if !errors.Is(err, cytonic.ErrArgument) {
		t.Fatalf("Build() error = %v, want %v", err, cytonic.ErrArgument)
	}
	if want := `missing "auth" parameter in endpoint GET /greet`; !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want to contain %q", err, want)
	}
}

func TestServiceBuilder_EndpointDisablesAuth(t *testing.T) {
	b := NewServiceBuilder("Greeter").Auth(cytonic.BasicAuth())
	b.Endpoint("health", "GET /health").Auth(cytonic.NoAuth())
	if _, err := b.Build(); err != nil {
		t.Errorf("Build() error = %v", err)
	}
}

func TestServiceBuilder_Errors(t *testing.T) {
	tests := []struct {
		name     string
		build    func(b *ServiceBuilder)
		sentinel error
	}{
		{
			name: "duplicate argument",
			build: func(b *ServiceBuilder) {
				b.Endpoint("a", "GET /a").Arg("x", Builtin("string"), "").Arg("x", Builtin("string"), "")
			},
			sentinel: cytonic.ErrArgument,
		},
		{
			name:     "bad path",
			build:    func(b *ServiceBuilder) { b.Endpoint("a", "GET a") },
			sentinel: cytonic.ErrBadPath,
		},
		{
			name: "duplicate endpoint",
			build: func(b *ServiceBuilder) {
				b.Endpoint("a", "GET /a")
				b.Endpoint("a", "GET /b")
			},
			sentinel: cytonic.ErrInvalidConfig,
		},
		{
			name: "explicit auth kind",
			build: func(b *ServiceBuilder) {
				b.Endpoint("a", "GET /a").Arg("token", Builtin("string"), cytonic.KindAuth)
			},
			sentinel: cytonic.ErrArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewServiceBuilder("S")
			tt.build(b)
			if _, err := b.Build(); !errors.Is(err, tt.sentinel) {
				t.Errorf("Build() error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestServiceDescription_Update(t *testing.T) {
	base := &ServiceDescription{
		Name: "Old",
		Docs: "Old docs.",
		Auth: []*cytonic.AuthenticationConfig{cytonic.OAuth2Bearer(""), cytonic.BasicAuth()},
		Endpoints: []*EndpointDescription{
			{Name: "a", Docs: "old a"},
			{Name: "b", Docs: "old b"},
		},
	}
	other := &ServiceDescription{
		Name: "New",
		Auth: []*cytonic.AuthenticationConfig{cytonic.OAuth2Bearer("X-Token")},
		Endpoints: []*EndpointDescription{
			{Name: "b", Docs: "new b"},
			{Name: "c", Docs: "new c"},
		},
	}

	got := base.Update(other)
	if got.Name != "New" || got.Docs != "Old docs." {
		t.Errorf("Update() = %q %q, want New with old docs", got.Name, got.Docs)
	}
	if len(got.Auth) != 2 {
		t.Fatalf("len(Auth) = %d, want 2", len(got.Auth))
	}
	if got.Auth[0].HeaderName != "X-Token" || got.Auth[1].Type != cytonic.AuthBasic {
		t.Errorf("Auth = %v, want replaced bearer then basic", got.Auth)
	}

	var docs []string
	for _, e := range got.Endpoints {
		docs = append(docs, e.Docs)
	}
	if want := []string{"old a", "new b", "new c"}; !reflect.DeepEqual(docs, want) {
		t.Errorf("endpoint docs = %v, want %v", docs, want)
	}

	if len(base.Endpoints) != 2 || base.Endpoints[1].Docs != "old b" {
		t.Error("Update() modified the receiver")
	}
}

func TestDiscovery(t *testing.T) {
	mods, err := Discovery(loadProject(t))
	if err != nil {
		t.Fatalf("Discovery() error = %v", err)
	}
	if len(mods) != 2 {
		t.Fatalf("len(Discovery()) = %d, want 2", len(mods))
	}

	todo := mods[0]
	if todo.Module != "todolist" {
		t.Errorf("Module = %q, want todolist", todo.Module)
	}
	if len(todo.Types) != 3 {
		t.Fatalf("len(Types) = %d, want 3", len(todo.Types))
	}
	if todo.Types[2].Kind != cytonic.TypeEnum {
		t.Errorf("Types[2].Kind = %v, want enum", todo.Types[2].Kind)
	}
	owner := todo.Types[0].Fields[2]
	if owner.Name != "owner" || owner.Type.String() != "users.User" {
		t.Errorf("owner field = %s %s, want owner users.User", owner.Name, owner.Type)
	}
	if len(todo.Errors) != 1 || todo.Errors[0].Code != cytonic.CodeNotFound {
		t.Errorf("Errors = %v, want one NOT_FOUND", todo.Errors)
	}

	data, err := json.Marshal(mods)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var doc []map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	svc := doc[0]["service"].(map[string]any)
	getItems := svc["endpoints"].([]any)[1].(map[string]any)
	if getItems["http"] != "GET /lists/{list_id}/items" {
		t.Errorf("http = %v", getItems["http"])
	}
	if want := []any{"auth", "list_id", "priority"}; !reflect.DeepEqual(getItems["args_ordering"], want) {
		t.Errorf("args_ordering = %v, want %v", getItems["args_ordering"], want)
	}

	item := doc[0]["types"].([]any)[1].(map[string]any)
	done := item["fields"].([]any)[1].(map[string]any)
	if done["default"] != false {
		t.Errorf("done default = %v, want false", done["default"])
	}
	if item["kind"] != "struct" {
		t.Errorf("kind = %v, want struct", item["kind"])
	}
}
