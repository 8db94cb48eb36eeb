package binding

import (
	"reflect"
	"strings"

	"github.com/go-ivy/ivy/pkg/errors"
	"github.com/go-ivy/ivy/pkg/reactive"
)

// Namespace is implemented by scopes that resolve their own members.
type Namespace interface {
	Lookup(name string) (any, bool)
}

// Context is a scope value plus a link to the context it was created in.
// Contexts are immutable.
type Context struct {
	scope  any
	parent *Context
}

// NewContext creates a root context over scope.
func NewContext(scope any) *Context {
	return &Context{scope: scope}
}

// Child creates a context over scope whose parent is c.
func (c *Context) Child(scope any) *Context {
	return &Context{scope: scope, parent: c}
}

// Parent returns the enclosing context, or nil at the root.
func (c *Context) Parent() *Context {
	return c.parent
}

// Scope returns the value paths are resolved against.
func (c *Context) Scope() any {
	return c.scope
}

// Depth returns the number of ancestors of c.
func (c *Context) Depth() int {
	n := 0
	for p := c.parent; p != nil; p = p.parent {
		n++
	}
	return n
}

// Resolve evaluates path against c.
//
//	""  or "."     the scope itself
//	".." or "../"  the parent's scope
//	"../rest"      rest resolved against the parent
//	"name"         the scope's member called name
//	"a.b"          member b of member a
//
// Ascending past the root fails with a *errors.LookupError. A member that
// does not exist resolves to nil.
func (c *Context) Resolve(path string) (any, error) {
	return c.resolve(path, path)
}

func (c *Context) resolve(full, path string) (any, error) {
	switch {
	case path == "" || path == ".":
		return c.scope, nil
	case path == ".." || strings.HasPrefix(path, "../"):
		if c.parent == nil {
			return nil, &errors.LookupError{Path: full, Reason: "no parent context"}
		}
		return c.parent.resolve(full, strings.TrimPrefix(strings.TrimPrefix(path, ".."), "/"))
	}
	v := c.scope
	for name := range strings.SplitSeq(path, ".") {
		if name == "" {
			return nil, &errors.LookupError{Path: full, Reason: "empty member name"}
		}
		v = Member(v, name)
	}
	return v, nil
}

// Lookup is Resolve for callers that treat a failed lookup as nil.
func (c *Context) Lookup(path string) any {
	v, err := c.Resolve(path)
	if err != nil {
		return nil
	}
	return v
}

// Member returns the member of scope called name, or nil.
//
// An observable scope is unwrapped to its current value first. Members are
// found through Namespace, string-keyed maps, and exported struct fields
// matched by a `bind:"name"` tag or by field name.
func Member(scope any, name string) any {
	if t := reactive.Classify(scope); t.Kind != reactive.KindPlain {
		scope = t.Value()
	}
	if scope == nil {
		return nil
	}
	if ns, ok := scope.(Namespace); ok {
		v, _ := ns.Lookup(name)
		return v
	}

	rv := reflect.ValueOf(scope)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		mv := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()
	case reflect.Struct:
		t := rv.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if tag, ok := f.Tag.Lookup("bind"); ok {
				if tag == name {
					return rv.Field(i).Interface()
				}
				continue
			}
			if f.Name == name {
				return rv.Field(i).Interface()
			}
		}
	}
	return nil
}
