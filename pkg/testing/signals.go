package testing

import (
	"github.com/go-ivy/ivy/pkg/dom"
)

// Signal delivers signal to the first node matched by finder.
func (t *BindingTester) Signal(finder Finder, signal string) (*dom.Event, error) {
	n, err := t.first(finder)
	if err != nil {
		return nil, err
	}
	return dom.Dispatch(n, signal), nil
}

// Click delivers a "click" signal.
func (t *BindingTester) Click(finder Finder) (*dom.Event, error) {
	return t.Signal(finder, "click")
}

// Type focuses the matched node, sets its value and delivers signal, or
// "change" when signal is empty. The node keeps focus.
func (t *BindingTester) Type(finder Finder, value, signal string) error {
	n, err := t.first(finder)
	if err != nil {
		return err
	}
	if signal == "" {
		signal = "change"
	}
	n.Focus()
	n.SetValue(value)
	dom.Dispatch(n, signal)
	return nil
}

// Check sets the checked state of the matched node and delivers "change".
func (t *BindingTester) Check(finder Finder, checked bool) error {
	n, err := t.first(finder)
	if err != nil {
		return err
	}
	n.SetChecked(checked)
	dom.Dispatch(n, "change")
	return nil
}

// Focus moves focus to the matched node.
func (t *BindingTester) Focus(finder Finder) error {
	n, err := t.first(finder)
	if err != nil {
		return err
	}
	n.Focus()
	return nil
}

// Blur drops focus from the matched node.
func (t *BindingTester) Blur(finder Finder) error {
	n, err := t.first(finder)
	if err != nil {
		return err
	}
	n.Blur()
	return nil
}

func (t *BindingTester) first(finder Finder) (dom.Node, error) {
	if t.root == nil {
		return nil, ErrNotMounted
	}
	n := t.Find(finder).FirstOrNil()
	if n == nil {
		return nil, &NotFoundError{Finder: finder.Description()}
	}
	return n, nil
}

// NotFoundError is returned when a finder matches nothing.
type NotFoundError struct {
	Finder string
}

func (e *NotFoundError) Error() string {
	return "ivytest: no node matches " + e.Finder
}
