package fixture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-ivy/ivy/pkg/binding"
	"github.com/go-ivy/ivy/pkg/dom"
	"github.com/go-ivy/ivy/pkg/reactive"
)

const todos = `
title: Groceries
done: false
owner:
  name: Ada
items:
  - milk
  - name: eggs
    count: 12
`

func TestLoadShapes(t *testing.T) {
	rt := reactive.NewRuntime()
	scope, err := Load(rt, []byte(todos))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, ok := scope.(map[string]any)
	if !ok {
		t.Fatalf("scope is %T, want map", scope)
	}
	if _, ok := m["title"].(*reactive.Attr[any]); !ok {
		t.Errorf("title is %T, want *reactive.Attr[any]", m["title"])
	}
	if _, ok := m["owner"].(map[string]any); !ok {
		t.Errorf("owner is %T, want map", m["owner"])
	}
	items, ok := m["items"].(*reactive.Collection[any])
	if !ok {
		t.Fatalf("items is %T, want *reactive.Collection[any]", m["items"])
	}
	if items.Len() != 2 {
		t.Errorf("items.Len() = %d", items.Len())
	}

	want := map[string]any{
		"title": "Groceries",
		"done":  false,
		"owner": map[string]any{"name": "Ada"},
		"items": []any{"milk", map[string]any{"name": "eggs", "count": 12}},
	}
	if diff := cmp.Diff(want, Plain(scope)); diff != "" {
		t.Errorf("Plain (-want +got):\n%s", diff)
	}
}

func TestLoadEmpty(t *testing.T) {
	scope, err := Load(reactive.NewRuntime(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{}, scope); diff != "" {
		t.Errorf("empty fixture (-want +got):\n%s", diff)
	}
}

func TestLoadMerge(t *testing.T) {
	data := `
base: &base
  color: red
  size: 1
item:
  <<: *base
  size: 2
`
	scope, err := Load(reactive.NewRuntime(), []byte(data))
	if err != nil {
		t.Fatal(err)
	}
	got := Plain(scope).(map[string]any)["item"]
	if diff := cmp.Diff(map[string]any{"color": "red", "size": 2}, got); diff != "" {
		t.Errorf("merged item (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "a: [", "fixture:"},
		{"complex key", "? [a, b]\n: 1\n", "mapping keys must be scalars"},
		{"merge scalar", "a: 1\nb:\n  <<: 5\n", "merge source is not a mapping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(reactive.NewRuntime(), []byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	if err := os.WriteFile(path, []byte("n: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	scope, err := LoadFile(reactive.NewRuntime(), path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"n": 3}, Plain(scope)); diff != "" {
		t.Errorf("LoadFile (-want +got):\n%s", diff)
	}

	if _, err := LoadFile(reactive.NewRuntime(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestSet(t *testing.T) {
	rt := reactive.NewRuntime()
	scope, err := Load(rt, []byte(todos))
	if err != nil {
		t.Fatal(err)
	}

	if err := Set(scope, "owner.name", "Grace"); err != nil {
		t.Fatal(err)
	}
	if err := Set(scope, "done", "true"); err != nil {
		t.Fatal(err)
	}
	if err := Set(scope, "items", "[bread, jam]"); err != nil {
		t.Fatal(err)
	}
	got := Plain(scope).(map[string]any)
	if got["done"] != true || got["owner"].(map[string]any)["name"] != "Grace" {
		t.Errorf("after Set: %v", got)
	}
	if diff := cmp.Diff([]any{"bread", "jam"}, got["items"]); diff != "" {
		t.Errorf("items (-want +got):\n%s", diff)
	}

	if err := Set(scope, "owner", "x"); err == nil {
		t.Error("a mapping should not be writable")
	}
	if err := Set(scope, "../x", "1"); err == nil {
		t.Error("an unresolvable path should fail")
	}
}

func TestFixtureDrivesBindings(t *testing.T) {
	rt := reactive.NewRuntime()
	scope, err := Load(rt, []byte(todos))
	if err != nil {
		t.Fatal(err)
	}
	root, err := dom.ParseString(`<h1 data-bind="text: title"></h1><ul data-bind="each: items"><li data-bind="text: ."></li></ul>`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := binding.NewWalker(rt).Bind(root, binding.NewContext(scope)); err != nil {
		t.Fatal(err)
	}

	if err := Set(scope, "title", "Errands"); err != nil {
		t.Fatal(err)
	}
	scope.(map[string]any)["items"].(*reactive.Collection[any]).Push(reactive.New[any](rt, "jam"))

	out, err := dom.RenderString(root)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<h1 data-bind=\"text: title\">Errands</h1>", "<li data-bind=\"text: .\">milk</li>", ">jam</li>"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}
