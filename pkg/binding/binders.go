package binding

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-ivy/ivy/pkg/dom"
	"github.com/go-ivy/ivy/pkg/reactive"
)

// EventHandler is a handler value the on directive can call.
type EventHandler interface {
	HandleEvent(ev *dom.Event, scope any)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ev *dom.Event, scope any)

func (f EventHandlerFunc) HandleEvent(ev *dom.Event, scope any) {
	f(ev, scope)
}

var errMissingArg = stderrors.New("missing argument")

func builtins() map[string]Directive {
	focus := Directive{PathArg: 0, Bind: bindFocused}
	return map[string]Directive{
		"value":   {PathArg: 0, Bind: bindValue},
		"checked": {PathArg: 0, Bind: bindChecked},
		"text":    {PathArg: 0, Bind: bindText},
		"attr":    {PathArg: 0, Bind: bindAttr},
		"style":   {PathArg: 0, Bind: bindStyle},
		"class":   {PathArg: 0, Bind: bindClass},
		"show":    {PathArg: 0, Bind: bindShow},
		"focused": focus,
		"focus":   focus,
		"each":    {PathArg: 0, Bind: bindEach},
		"with":    {PathArg: 0, Bind: bindWith},
		"on":      {PathArg: 1, Bind: bindOn},
	}
}

// bindValue keeps the node's value in sync with the target. While the node
// has focus, incoming changes wait until it blurs so typing is not
// overwritten.
func bindValue(c *Call) error {
	signal := c.Arg(0, "change")
	var pending func()
	c.Scope.OnDispose(func() {
		if pending != nil {
			pending()
		}
	})

	err := c.Watch(func(v any) error {
		if !c.Node.Focused() {
			c.Node.SetValue(Format(v))
			return nil
		}
		if pending == nil {
			pending = c.Node.AddListener("blur", func(*dom.Event) {
				pending()
				pending = nil
				c.Node.SetValue(Format(c.Target.Value()))
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if c.Target.Kind == reactive.KindWritable {
		c.Listen(signal, func(*dom.Event) {
			c.Report(c.Target.Set(c.Node.Value()))
		})
	}
	return nil
}

// bindChecked syncs a checkbox with the target's truthiness, or a radio
// button with whether the target equals the button's value.
func bindChecked(c *Call) error {
	signal := c.Arg(0, "change")
	radio := false
	if t, ok := c.Node.Attr("type"); ok && strings.EqualFold(t, "radio") {
		radio = true
	}

	err := c.Watch(func(v any) error {
		if radio {
			c.Node.SetChecked(Format(v) == c.Node.Value())
		} else {
			c.Node.SetChecked(reactive.Truthy(v))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if c.Target.Kind == reactive.KindWritable {
		c.Listen(signal, func(*dom.Event) {
			switch {
			case !radio:
				c.Report(c.Target.Set(c.Node.Checked()))
			case c.Node.Checked():
				c.Report(c.Target.Set(c.Node.Value()))
			}
		})
	}
	return nil
}

func bindText(c *Call) error {
	return c.Watch(func(v any) error {
		c.Node.SetText(Format(v))
		return nil
	})
}

func bindAttr(c *Call) error {
	name := c.Arg(0, "")
	if name == "" {
		return fmt.Errorf("attr: %w: attribute name", errMissingArg)
	}
	boolean := c.Walker().IsBoolean(name)
	return c.Watch(func(v any) error {
		switch {
		case boolean && reactive.Truthy(v):
			c.Node.SetAttr(name, name)
		case boolean || v == nil:
			c.Node.RemoveAttr(name)
		default:
			c.Node.SetAttr(name, Format(v))
		}
		return nil
	})
}

func bindStyle(c *Call) error {
	property := c.Arg(0, "")
	if property == "" {
		return fmt.Errorf("style: %w: property name", errMissingArg)
	}
	return c.Watch(func(v any) error {
		c.Node.SetStyle(property, Format(v))
		return nil
	})
}

// bindClass adds trueClass and removes falseClass when the target is
// truthy, and the reverse otherwise. Other class tokens are kept. An empty
// collection counts as falsy.
func bindClass(c *Call) error {
	trueClass := c.Arg(0, "")
	if trueClass == "" {
		return fmt.Errorf("class: %w: class name", errMissingArg)
	}
	falseClass := c.Arg(1, "")
	return c.Watch(func(v any) error {
		add, remove := trueClass, falseClass
		if !reactive.Truthy(v) {
			add, remove = falseClass, trueClass
		}
		current, _ := c.Node.Attr("class")
		tokens := slices.DeleteFunc(strings.Fields(current), func(t string) bool {
			return t == remove
		})
		if add != "" && !slices.Contains(tokens, add) {
			tokens = append(tokens, add)
		}
		if len(tokens) == 0 {
			c.Node.RemoveAttr("class")
		} else {
			c.Node.SetAttr("class", strings.Join(tokens, " "))
		}
		return nil
	})
}

// bindShow hides the node with display: none while the target is falsy and
// restores the display it was bound with otherwise. An empty collection is
// falsy, so "show: items" hides the node until items has an entry.
func bindShow(c *Call) error {
	display := c.Node.Style("display")
	return c.Watch(func(v any) error {
		if reactive.Truthy(v) {
			c.Node.SetStyle("display", display)
		} else {
			c.Node.SetStyle("display", "none")
		}
		return nil
	})
}

func bindFocused(c *Call) error {
	return c.Watch(func(v any) error {
		switch {
		case reactive.Truthy(v):
			c.Node.Focus()
		case c.Node.Focused():
			c.Node.Blur()
		}
		return nil
	})
}

// bindEach renders the node's original children once per item, each copy
// bound against a child context whose scope is the item.
func bindEach(c *Call) error {
	c.Manage()
	tmpl := c.Node.DetachChildren()
	var content *Scope
	return c.Watch(func(v any) error {
		items, err := Items(v)
		if err != nil {
			return fmt.Errorf("each: %w", err)
		}
		if content != nil {
			content.Dispose()
		}
		content = c.Scope.Child()
		c.Node.ClearChildren()
		for _, item := range items {
			if err := instantiate(c, tmpl, c.Context.Child(item), content); err != nil {
				return err
			}
		}
		return nil
	})
}

// bindWith renders the node's original children bound against a child
// context whose scope is the target's value.
func bindWith(c *Call) error {
	c.Manage()
	tmpl := c.Node.DetachChildren()
	var content *Scope
	return c.Watch(func(v any) error {
		if content != nil {
			content.Dispose()
		}
		content = c.Scope.Child()
		c.Node.ClearChildren()
		return instantiate(c, tmpl, c.Context.Child(v), content)
	})
}

func instantiate(c *Call, tmpl dom.Template, ctx *Context, scope *Scope) error {
	for _, n := range tmpl.Instantiate() {
		if err := c.Walker().BindScope(n, ctx, scope); err != nil {
			return err
		}
		c.Node.AppendChild(n)
	}
	return nil
}

// bindOn calls the handler at the path when the node receives the signal,
// passing the current scope, and marks the signal handled.
func bindOn(c *Call) error {
	signal := c.Arg(0, "")
	if signal == "" {
		return fmt.Errorf("on: %w: signal name", errMissingArg)
	}
	if _, err := handler(c.Target.Value()); err != nil {
		return fmt.Errorf("on: %s: %w", c.Path, err)
	}
	scope := c.Context.Scope()
	c.Listen(signal, func(ev *dom.Event) {
		h, err := handler(c.Target.Value())
		if err != nil {
			c.Report(fmt.Errorf("%s: %w", c.Path, err))
			return
		}
		h.HandleEvent(ev, scope)
		ev.PreventDefault()
	})
	return nil
}

func handler(v any) (EventHandler, error) {
	switch h := v.(type) {
	case EventHandler:
		return h, nil
	case func(*dom.Event, any):
		return EventHandlerFunc(h), nil
	case func(any):
		return EventHandlerFunc(func(_ *dom.Event, scope any) { h(scope) }), nil
	case func():
		return EventHandlerFunc(func(*dom.Event, any) { h() }), nil
	case nil:
		return nil, stderrors.New("no handler")
	}
	return nil, fmt.Errorf("%T is not a handler", v)
}

// Format renders v as node text. nil is the empty string and observables
// format their current value.
func Format(v any) string {
	if t := reactive.Classify(v); t.Kind != reactive.KindPlain {
		v = t.Value()
	}
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}

// Items returns the elements of a slice or array value. nil has no items;
// observables contribute their current value.
func Items(v any) ([]any, error) {
	if t := reactive.Classify(v); t.Kind != reactive.KindPlain {
		v = t.Value()
	}
	if v == nil {
		return nil, nil
	}
	if items, ok := v.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, fmt.Errorf("%T is not a sequence", v)
}
