// Package fixture turns YAML data into an observable binding scope.
//
// Mappings become map[string]any, sequences become *reactive.Collection[any]
// and scalars become *reactive.Attr[any], so every leaf of a loaded fixture
// can be watched and written through bindings.
package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-ivy/ivy/pkg/binding"
	"github.com/go-ivy/ivy/pkg/reactive"
)

// Load decodes YAML data and builds a scope on rt. Empty input yields an
// empty mapping.
func Load(rt *reactive.Runtime, data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	if doc.Kind == 0 {
		return map[string]any{}, nil
	}
	return Build(rt, &doc)
}

// LoadFile reads and loads the fixture at path.
func LoadFile(rt *reactive.Runtime, path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	scope, err := Load(rt, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scope, nil
}

// Build converts a decoded YAML node into a scope.
func Build(rt *reactive.Runtime, n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return map[string]any{}, nil
		}
		return Build(rt, n.Content[0])
	case yaml.AliasNode:
		return Build(rt, n.Alias)
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("fixture: line %d: mapping keys must be scalars", key.Line)
			}
			if key.ShortTag() == "!!merge" {
				if err := merge(rt, out, val); err != nil {
					return nil, err
				}
				continue
			}
			v, err := Build(rt, val)
			if err != nil {
				return nil, err
			}
			out[key.Value] = v
		}
		return out, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := Build(rt, c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return reactive.NewCollection(rt, items), nil
	case yaml.ScalarNode:
		v, err := scalar(n)
		if err != nil {
			return nil, err
		}
		return reactive.New(rt, v), nil
	}
	return nil, fmt.Errorf("fixture: line %d: unsupported node", n.Line)
}

// merge applies a "<<" key: the referenced mapping (or list of mappings)
// contributes keys the enclosing mapping has not set yet.
func merge(rt *reactive.Runtime, out map[string]any, n *yaml.Node) error {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	sources := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		sources = n.Content
	}
	for _, src := range sources {
		v, err := Build(rt, src)
		if err != nil {
			return err
		}
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("fixture: line %d: merge source is not a mapping", src.Line)
		}
		for k, v := range m {
			if _, exists := out[k]; !exists {
				out[k] = v
			}
		}
	}
	return nil
}

func scalar(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("fixture: line %d: %w", n.Line, err)
	}
	return v, nil
}

// Set writes a YAML-encoded value to the observable at path in scope.
// Sequences replace a collection's items; anything else is decoded as a
// single value.
func Set(scope any, path, value string) error {
	target, err := binding.NewContext(scope).Resolve(path)
	if err != nil {
		return err
	}
	t := reactive.Classify(target)
	if t.Kind != reactive.KindWritable {
		return fmt.Errorf("fixture: %s is not writable", path)
	}
	var v any
	if err := yaml.Unmarshal([]byte(value), &v); err != nil {
		return fmt.Errorf("fixture: %s: %w", path, err)
	}
	if err := t.Set(v); err != nil {
		return fmt.Errorf("fixture: %s: %w", path, err)
	}
	return nil
}

// Plain returns scope with every observable replaced by its current value,
// recursively. It is the inverse of Build for inspection and output.
func Plain(scope any) any {
	if t := reactive.Classify(scope); t.Kind != reactive.KindPlain {
		scope = t.Value()
	}
	switch v := scope.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Plain(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Plain(e)
		}
		return out
	}
	return scope
}
