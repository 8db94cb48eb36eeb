package binding

import (
	stderrors "errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-ivy/ivy/pkg/dom"
	"github.com/go-ivy/ivy/pkg/errors"
	"github.com/go-ivy/ivy/pkg/reactive"
)

const (
	// DefaultAttribute is the node attribute holding binding clauses.
	DefaultAttribute = "data-bind"
	// ErrorAttribute is set on a node whose binding failed.
	ErrorAttribute = "data-bind-error"
)

// DefaultBooleanAttributes are the attributes the attr directive treats as
// present-or-absent rather than valued.
var DefaultBooleanAttributes = []string{"disabled", "checked", "readonly", "hidden", "selected", "required"}

// Directive is a binder registered under a directive name.
type Directive struct {
	// PathArg is the index of the option holding the target path, or -1
	// when the directive takes no target.
	PathArg int
	// Bind wires the node. Errors and panics are annotated with the node
	// and clause and stop the walk.
	Bind func(c *Call) error
}

// Walker binds node trees. A Walker is configured once and may bind any
// number of trees.
type Walker struct {
	rt         *reactive.Runtime
	directives map[string]Directive
	attribute  string
	boolean    map[string]bool
}

// Option configures a Walker.
type Option func(*Walker)

// WithBinder registers d under name, replacing any built-in directive of
// the same name.
func WithBinder(name string, d Directive) Option {
	return func(w *Walker) {
		w.directives[name] = d
	}
}

// WithAttribute changes the attribute binding clauses are read from.
func WithAttribute(name string) Option {
	return func(w *Walker) {
		if name != "" {
			w.attribute = name
		}
	}
}

// WithBooleanAttributes replaces the set of present-or-absent attributes.
func WithBooleanAttributes(names ...string) Option {
	return func(w *Walker) {
		w.boolean = make(map[string]bool, len(names))
		for _, n := range names {
			w.boolean[n] = true
		}
	}
}

// NewWalker creates a walker with the built-in directives. A nil rt means
// the default runtime; diagnostics go to its handler.
func NewWalker(rt *reactive.Runtime, opts ...Option) *Walker {
	if rt == nil {
		rt = reactive.Default()
	}
	w := &Walker{
		rt:         rt,
		directives: builtins(),
		attribute:  DefaultAttribute,
	}
	WithBooleanAttributes(DefaultBooleanAttributes...)(w)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Runtime returns the runtime diagnostics are reported to.
func (w *Walker) Runtime() *reactive.Runtime {
	return w.rt
}

// Attribute returns the name of the binding attribute.
func (w *Walker) Attribute() string {
	return w.attribute
}

// IsBoolean reports whether attr is a present-or-absent attribute.
func (w *Walker) IsBoolean(attr string) bool {
	return w.boolean[attr]
}

// Directives returns the registered directive names, sorted.
func (w *Walker) Directives() []string {
	return slices.Sorted(maps.Keys(w.directives))
}

// HasDirective reports whether name is registered.
func (w *Walker) HasDirective(name string) bool {
	_, ok := w.directives[name]
	return ok
}

// Rules parses the binding attribute of node. It returns nil when the node
// has none.
func (w *Walker) Rules(node dom.Node) ([]Rule, error) {
	if node.Kind() != dom.KindElement {
		return nil, nil
	}
	text, ok := node.Attr(w.attribute)
	if !ok {
		return nil, nil
	}
	return ParseRules(text)
}

// Bind binds node and its descendants against ctx and returns the scope
// owning the resulting subscriptions. On failure the partial bindings are
// released and the returned error is a *errors.BindingError.
func (w *Walker) Bind(node dom.Node, ctx *Context) (*Scope, error) {
	scope := NewScope()
	if err := w.BindScope(node, ctx, scope); err != nil {
		scope.Dispose()
		return nil, err
	}
	return scope, nil
}

// BindScope is Bind with a caller-supplied scope.
func (w *Walker) BindScope(node dom.Node, ctx *Context, scope *Scope) error {
	if ctx == nil {
		ctx = NewContext(nil)
	}
	return w.walk(node, ctx, scope)
}

func (w *Walker) walk(node dom.Node, ctx *Context, scope *Scope) error {
	switch node.Kind() {
	case dom.KindText:
		return nil
	case dom.KindElement:
		managed, err := w.bindNode(node, ctx, scope)
		if err != nil || managed {
			return err
		}
	}
	for _, child := range node.Children() {
		if err := w.walk(child, ctx, scope); err != nil {
			return err
		}
	}
	return nil
}

// bindNode applies the node's own rules and reports whether a directive took
// over its children.
func (w *Walker) bindNode(node dom.Node, ctx *Context, scope *Scope) (bool, error) {
	rules, err := w.Rules(node)
	if err != nil {
		text, _ := node.Attr(w.attribute)
		return false, w.fail(node, text, err)
	}
	managed := false
	for _, r := range rules {
		d, ok := w.directives[r.Name]
		if !ok {
			w.rt.Report(&errors.IvyError{
				Op:   "binding.Bind",
				Kind: errors.KindUnknownDirective,
				Err:  &errors.UnknownDirectiveError{Name: r.Name, Rule: r.Text},
				Node: dom.Describe(node),
			})
			continue
		}
		call := &Call{
			Node:    node,
			Rule:    r,
			Context: ctx,
			Scope:   scope,
			walker:  w,
		}
		if err := w.dispatch(d, call); err != nil {
			return false, err
		}
		managed = managed || call.managed
	}
	return managed, nil
}

func (w *Walker) dispatch(d Directive, c *Call) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = w.fail(c.Node, c.Rule.Text, r)
		}
	}()

	c.Args = c.Rule.Options
	if d.PathArg >= 0 {
		c.Path = c.Rule.Arg(d.PathArg, "")
		if d.PathArg < len(c.Rule.Options) {
			c.Args = slices.Delete(slices.Clone(c.Rule.Options), d.PathArg, d.PathArg+1)
		}
		target, err := c.Context.Resolve(c.Path)
		if err != nil {
			return w.fail(c.Node, c.Rule.Text, err)
		}
		c.Target = reactive.Classify(target)
	}
	if err := d.Bind(c); err != nil {
		return w.fail(c.Node, c.Rule.Text, err)
	}
	return nil
}

// fail annotates cause with the node and clause, marks the node and reports
// the result. A cause that already is a binding error is returned as is.
func (w *Walker) fail(node dom.Node, directive string, cause any) *errors.BindingError {
	if err, ok := cause.(error); ok {
		var be *errors.BindingError
		if stderrors.As(err, &be) {
			return be
		}
	}
	be := &errors.BindingError{
		Node:      dom.Describe(node),
		Directive: directive,
		Timestamp: time.Now(),
	}
	if err, ok := cause.(error); ok {
		be.Err = err
	} else {
		be.Recovered = cause
		be.StackTrace = errors.CaptureStack()
	}
	if node.Kind() == dom.KindElement {
		node.SetAttr(ErrorAttribute, be.Error())
	}
	w.rt.ReportBindingError(be)
	return be
}

// Validate parses every binding attribute under node without binding and
// returns one diagnostic per malformed attribute or unknown directive.
// Descendants of structural directives are checked too.
func (w *Walker) Validate(node dom.Node) []*errors.IvyError {
	var out []*errors.IvyError
	var visit func(n dom.Node)
	visit = func(n dom.Node) {
		rules, err := w.Rules(n)
		if err != nil {
			out = append(out, &errors.IvyError{
				Op:   "binding.Validate",
				Kind: errors.KindSyntax,
				Err:  err,
				Node: dom.Describe(n),
			})
		}
		for _, r := range rules {
			if !w.HasDirective(r.Name) {
				out = append(out, &errors.IvyError{
					Op:   "binding.Validate",
					Kind: errors.KindUnknownDirective,
					Err:  &errors.UnknownDirectiveError{Name: r.Name, Rule: r.Text},
					Node: dom.Describe(n),
				})
			}
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(node)
	return out
}

// Call is one directive application: the node, the parsed rule, the context
// it was found in and the resolved target.
type Call struct {
	Node    dom.Node
	Rule    Rule
	Context *Context
	// Target is the value at Path, classified. It is the zero Target for
	// directives without a path.
	Target reactive.Target
	Path   string
	// Args are the rule options other than the path.
	Args []string
	// Scope owns the subscriptions the directive makes.
	Scope *Scope

	walker  *Walker
	managed bool
}

// Arg returns Args[i], or def when absent.
func (c *Call) Arg(i int, def string) string {
	if i < 0 || i >= len(c.Args) {
		return def
	}
	return c.Args[i]
}

// Walker returns the walker applying the directive.
func (c *Call) Walker() *Walker {
	return c.walker
}

// Manage marks the node's children as owned by the directive; the walker
// will not descend into them.
func (c *Call) Manage() {
	c.managed = true
}

// Watch applies update to the target's current value, then again on every
// change of an observable target until the scope is disposed. The error
// from the first application is returned. A later failure marks the node
// and panics with the *errors.BindingError, since there is no caller to
// return it to.
func (c *Call) Watch(update func(v any) error) error {
	apply := func(v any) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = c.walker.fail(c.Node, c.Rule.Text, r)
			}
		}()
		return update(v)
	}

	var initial error
	first := true
	stop := c.Target.Watch(func(v any) {
		if first {
			first = false
			initial = apply(v)
			return
		}
		if err := apply(v); err != nil {
			panic(c.walker.fail(c.Node, c.Rule.Text, err))
		}
	})
	c.Scope.OnDispose(stop)
	return initial
}

// Listen registers fn for signal on the node until the scope is disposed.
func (c *Call) Listen(signal string, fn func(ev *dom.Event)) {
	c.Scope.OnDispose(c.Node.AddListener(signal, fn))
}

// Report marks the node and reports err without interrupting the caller.
// Directives use it for failures inside node signal handlers.
func (c *Call) Report(err error) {
	if err != nil {
		c.walker.fail(c.Node, c.Rule.Text, fmt.Errorf("%s: %w", c.Rule.Name, err))
	}
}
