package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-ivy/ivy/pkg/binding"
	"github.com/go-ivy/ivy/pkg/dom"
	"github.com/go-ivy/ivy/pkg/errors"
	"github.com/go-ivy/ivy/pkg/reactive"
)

func writeConfig(t *testing.T, dir, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDefaults(t *testing.T) {
	dir := t.TempDir()
	r, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := &Resolved{
		Root:              dir,
		Version:           DefaultVersion,
		Attribute:         binding.DefaultAttribute,
		BooleanAttributes: binding.DefaultBooleanAttributes,
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("Resolve (-want +got):\n%s", diff)
	}
}

func TestResolveFromFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
version: "1.2"
binding:
  attribute: Data-Ivy
  boolean_attributes: [open, " Hidden "]
log:
  verbose: true
`)
	r, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := &Resolved{
		Root:              dir,
		Version:           "v1.2.0",
		Attribute:         "data-ivy",
		BooleanAttributes: []string{"open", "hidden"},
		Verbose:           true,
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("Resolve (-want +got):\n%s", diff)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{"bad yaml", "binding: [", "failed to parse"},
		{"unknown key", "bindings: {}", "failed to parse"},
		{"not semver", `version: "one"`, "not a semantic version"},
		{"major two", `version: "v2.0.0"`, "unsupported config version"},
		{"bad attribute", "binding:\n  attribute: \"data bind\"", "not a valid attribute name"},
		{"empty boolean", "binding:\n  boolean_attributes: [\"\"]", "empty name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.contents)
			_, err := Resolve(dir)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Resolve error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEmptyFile(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("Parse(nil) (-want +got):\n%s", diff)
	}
}

func TestEmptyBooleanListDisablesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("binding:\n  boolean_attributes: []\n"))
	if err != nil {
		t.Fatal(err)
	}
	r, err := cfg.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if len(r.BooleanAttributes) != 0 {
		t.Errorf("BooleanAttributes = %v, want none", r.BooleanAttributes)
	}
}

func TestWalkerOptions(t *testing.T) {
	cfg := &Config{Binding: BindingConfig{Attribute: "data-ivy", BooleanAttributes: []string{"open"}}}
	r, err := cfg.Resolve()
	if err != nil {
		t.Fatal(err)
	}

	w := binding.NewWalker(reactive.NewRuntime(), r.WalkerOptions()...)
	if w.Attribute() != "data-ivy" || !w.IsBoolean("open") || w.IsBoolean("disabled") {
		t.Errorf("walker not configured: attribute %q", w.Attribute())
	}

	root, err := dom.ParseString(`<details data-ivy="attr: open open"></details>`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Bind(root, binding.NewContext(map[string]any{"open": true})); err != nil {
		t.Fatal(err)
	}
	if v, _ := root.Children()[0].Attr("open"); v != "open" {
		t.Errorf("open = %q", v)
	}
}

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	h := (&Resolved{Verbose: true}).Handler(&buf)
	h.HandleError(&errors.IvyError{Op: "binding.Bind", Kind: errors.KindUnknownDirective, Err: &errors.UnknownDirectiveError{Name: "x", Rule: "x:"}})
	if !h.Verbose || !strings.Contains(buf.String(), "[ivy warning]") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	if want, _ := filepath.Abs(root); got != want {
		t.Errorf("FindProjectRoot = %q, want %q", got, want)
	}

	lone := t.TempDir()
	got, err = FindProjectRoot(lone)
	if err != nil {
		t.Fatal(err)
	}
	if want, _ := filepath.Abs(lone); got != want {
		t.Errorf("FindProjectRoot without config = %q, want %q", got, want)
	}
}
