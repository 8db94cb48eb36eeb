package dom

import (
	"fmt"
	"slices"
	"strings"
)

// Element is the in-memory Node implementation. The zero value is not
// usable; create elements with NewElement, NewText or NewFragment.
//
// Element is not safe for concurrent use.
type Element struct {
	kind      Kind
	tag       string
	data      string
	attrs     []Attribute
	parent    *Element
	children  []*Element
	listeners map[string][]*listener
	focused   bool
	// focus is the current focus holder, tracked on the tree root.
	focus *Element
}

type listener struct {
	fn func(*Event)
}

// NewElement creates an element with the given tag and attributes, given
// as alternating names and values.
func NewElement(tag string, attrs ...string) *Element {
	e := &Element{kind: KindElement, tag: strings.ToLower(tag)}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.SetAttr(attrs[i], attrs[i+1])
	}
	return e
}

// NewText creates a text node.
func NewText(s string) *Element {
	return &Element{kind: KindText, data: s}
}

// NewFragment creates a fragment holding children.
func NewFragment(children ...Node) *Element {
	f := &Element{kind: KindFragment}
	for _, c := range children {
		f.AppendChild(c)
	}
	return f
}

// Append appends children and returns e, for building trees inline.
func (e *Element) Append(children ...Node) *Element {
	for _, c := range children {
		e.AppendChild(c)
	}
	return e
}

func (e *Element) Kind() Kind {
	return e.kind
}

func (e *Element) Tag() string {
	return e.tag
}

func (e *Element) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Element) Children() []Node {
	out := make([]Node, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

func (e *Element) AppendChild(child Node) {
	c := element(child)
	if c.kind == KindFragment {
		for _, gc := range slices.Clone(c.children) {
			e.AppendChild(gc)
		}
		return
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = e
	e.children = append(e.children, c)
	if holder := c.focus; holder != nil {
		c.focus = nil
		root := e.root()
		if root.focus != nil {
			root.focus.Blur()
		}
		root.focus = holder
	}
}

func (e *Element) RemoveChild(child Node) bool {
	c, ok := child.(*Element)
	if !ok {
		return false
	}
	i := slices.Index(e.children, c)
	if i < 0 {
		return false
	}
	e.children = slices.Delete(e.children, i, i+1)
	c.detach()
	return true
}

func (e *Element) ClearChildren() {
	children := e.children
	e.children = nil
	for _, c := range children {
		c.detach()
	}
}

func (e *Element) DetachChildren() Template {
	nodes := e.Children()
	e.ClearChildren()
	return NewTemplate(nodes...)
}

// detach clears the parent link and drops focus that lived in the old tree.
func (e *Element) detach() {
	root := e.root()
	e.parent = nil
	if root.focus != nil && root.focus.contains(e) {
		holder := root.focus
		root.focus = nil
		e.focus = holder
	}
}

func (e *Element) contains(n *Element) bool {
	for p := e; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (e *Element) root() *Element {
	r := e
	for r.parent != nil {
		r = r.parent
	}
	return r
}

func (e *Element) Clone() Node {
	return e.clone()
}

func (e *Element) clone() *Element {
	c := &Element{
		kind:  e.kind,
		tag:   e.tag,
		data:  e.data,
		attrs: slices.Clone(e.attrs),
	}
	for _, child := range e.children {
		cc := child.clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

func (e *Element) Text() string {
	if e.kind == KindText {
		return e.data
	}
	var b strings.Builder
	for _, c := range e.children {
		b.WriteString(c.Text())
	}
	return b.String()
}

func (e *Element) SetText(s string) {
	if e.kind == KindText {
		e.data = s
		return
	}
	e.ClearChildren()
	e.AppendChild(NewText(s))
}

func (e *Element) Attr(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

func (e *Element) SetAttr(name, value string) {
	name = strings.ToLower(name)
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attribute{Name: name, Value: value})
}

func (e *Element) RemoveAttr(name string) {
	name = strings.ToLower(name)
	e.attrs = slices.DeleteFunc(e.attrs, func(a Attribute) bool {
		return a.Name == name
	})
}

func (e *Element) Attrs() []Attribute {
	return slices.Clone(e.attrs)
}

func (e *Element) Style(property string) string {
	s, _ := e.Attr("style")
	return parseStyle(s).get(property)
}

func (e *Element) SetStyle(property, value string) {
	s, _ := e.Attr("style")
	st := parseStyle(s)
	st.set(property, value)
	if st.empty() {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", st.String())
}

// Checked reflects the presence of the "checked" attribute.
func (e *Element) Checked() bool {
	return e.HasAttr("checked")
}

func (e *Element) SetChecked(checked bool) {
	if checked {
		e.SetAttr("checked", "")
	} else {
		e.RemoveAttr("checked")
	}
}

// Value reflects the "value" attribute.
func (e *Element) Value() string {
	v, _ := e.Attr("value")
	return v
}

func (e *Element) SetValue(value string) {
	e.SetAttr("value", value)
}

func (e *Element) Focused() bool {
	return e.focused
}

func (e *Element) Focus() {
	if e.focused {
		return
	}
	root := e.root()
	if prev := root.focus; prev != nil && prev != e {
		prev.Blur()
	}
	e.focused = true
	root.focus = e
	Dispatch(e, "focus")
}

func (e *Element) Blur() {
	if !e.focused {
		return
	}
	e.focused = false
	if root := e.root(); root.focus == e {
		root.focus = nil
	}
	Dispatch(e, "blur")
}

func (e *Element) AddListener(signal string, fn func(*Event)) func() {
	if e.listeners == nil {
		e.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	e.listeners[signal] = append(e.listeners[signal], l)
	return func() {
		e.listeners[signal] = slices.DeleteFunc(e.listeners[signal], func(x *listener) bool {
			return x == l
		})
	}
}

// ListenerCount returns the number of listeners registered for signal.
func (e *Element) ListenerCount(signal string) int {
	return len(e.listeners[signal])
}

func (e *Element) String() string {
	return Describe(e)
}

// Dispatch delivers signal to node's listeners and returns the event.
// Listeners added or removed during delivery take effect on the next
// dispatch.
func Dispatch(node Node, signal string) *Event {
	ev := &Event{Type: signal, Target: node}
	e, ok := node.(*Element)
	if !ok {
		return ev
	}
	for _, l := range slices.Clone(e.listeners[signal]) {
		l.fn(ev)
	}
	return ev
}

// Describe returns a short human-readable form of node for diagnostics,
// such as <input type="checkbox">.
func Describe(node Node) string {
	if node == nil {
		return "<nil>"
	}
	switch node.Kind() {
	case KindText:
		return fmt.Sprintf("#text %q", node.Text())
	case KindFragment:
		return "#fragment"
	}
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(node.Tag())
	for _, a := range node.Attrs() {
		fmt.Fprintf(&b, " %s=%q", a.Name, a.Value)
	}
	b.WriteString(">")
	return b.String()
}

func element(n Node) *Element {
	e, ok := n.(*Element)
	if !ok {
		panic(fmt.Sprintf("dom: cannot attach foreign node %T", n))
	}
	return e
}
