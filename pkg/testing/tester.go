package testing

import (
	"errors"
	"testing"

	"github.com/go-ivy/ivy/pkg/binding"
	"github.com/go-ivy/ivy/pkg/dom"
	ivyerrors "github.com/go-ivy/ivy/pkg/errors"
	"github.com/go-ivy/ivy/pkg/reactive"
)

// ErrNotMounted is returned by signal helpers when nothing is mounted.
var ErrNotMounted = errors.New("ivytest: no tree mounted")

// BindingTester mounts markup against a scope on an isolated runtime and
// drives it with simulated input. Diagnostics reported while bound are
// recorded instead of logged.
type BindingTester struct {
	rt       *reactive.Runtime
	recorder *ivyerrors.Recorder
	opts     []binding.Option
	walker   *binding.Walker
	root     *dom.Element
	scope    *binding.Scope
}

// NewBindingTester creates a tester with its own runtime.
// Call Cleanup() when done, or use NewBindingTesterWithT() instead.
func NewBindingTester(opts ...binding.Option) *BindingTester {
	rec := &ivyerrors.Recorder{}
	rt := reactive.NewRuntime(reactive.WithHandler(rec))
	return &BindingTester{
		rt:       rt,
		recorder: rec,
		opts:     opts,
		walker:   binding.NewWalker(rt, opts...),
	}
}

// NewBindingTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewBindingTesterWithT(t *testing.T, opts ...binding.Option) *BindingTester {
	tester := NewBindingTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup releases the bindings of the mounted tree.
func (t *BindingTester) Cleanup() {
	if t.scope != nil {
		t.scope.Dispose()
		t.scope = nil
	}
}

// Runtime returns the tester's runtime. Observables used as scope should
// be created on it so cycle diagnostics reach the recorder.
func (t *BindingTester) Runtime() *reactive.Runtime {
	return t.rt
}

// Walker returns the walker used by Mount.
func (t *BindingTester) Walker() *binding.Walker {
	return t.walker
}

// Recorder returns the diagnostics reported so far.
func (t *BindingTester) Recorder() *ivyerrors.Recorder {
	return t.recorder
}

// Mount parses markup, binds it against scope and keeps the result as the
// tree under test, replacing any previous one. A binding failure is
// returned; the partially bound tree stays mounted for inspection.
func (t *BindingTester) Mount(markup string, scope any) error {
	root, err := dom.ParseString(markup)
	if err != nil {
		return err
	}
	return t.MountNode(root, binding.NewContext(scope))
}

// MountNode binds an existing tree against ctx.
func (t *BindingTester) MountNode(root *dom.Element, ctx *binding.Context) error {
	t.Cleanup()
	t.root = root
	t.scope = binding.NewScope()
	return t.walker.BindScope(root, ctx, t.scope)
}

// Root returns the mounted tree.
func (t *BindingTester) Root() *dom.Element {
	return t.root
}

// Scope returns the scope owning the mounted bindings.
func (t *BindingTester) Scope() *binding.Scope {
	return t.scope
}

// Find evaluates a finder against the mounted tree.
func (t *BindingTester) Find(finder Finder) FinderResult {
	if t.root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{
		nodes:  finder.Evaluate(t.root),
		finder: finder,
	}
}

// Render returns the mounted tree as markup.
func (t *BindingTester) Render() string {
	if t.root == nil {
		return ""
	}
	s, err := dom.RenderString(t.root)
	if err != nil {
		return ""
	}
	return s
}
