package dom

// Kind identifies what a node is.
type Kind int

const (
	// KindElement is a tagged node with attributes and children.
	KindElement Kind = iota
	// KindText is a leaf holding character data.
	KindText
	// KindFragment groups nodes without contributing markup of its own.
	KindFragment
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindFragment:
		return "fragment"
	default:
		return "element"
	}
}

// Node is the set of operations binders need from a UI node.
type Node interface {
	Kind() Kind
	// Tag returns the lower-case tag name of an element, or "" otherwise.
	Tag() string
	// Parent returns the containing node, or nil for a root.
	Parent() Node
	// Children returns the child nodes in order. The slice is a copy.
	Children() []Node
	// AppendChild moves child to the end of this node's children. A
	// fragment contributes its children instead of itself.
	AppendChild(child Node)
	// RemoveChild detaches child and reports whether it was a child.
	RemoveChild(child Node) bool
	// ClearChildren detaches every child.
	ClearChildren()
	// DetachChildren removes the children and returns them as a template.
	DetachChildren() Template
	// Clone returns a deep copy without parent, listeners or focus.
	Clone() Node

	// Text returns the character data of a text node, or the concatenated
	// text of an element's descendants.
	Text() string
	// SetText replaces a text node's data, or an element's children with a
	// single text node.
	SetText(s string)

	Attr(name string) (string, bool)
	HasAttr(name string) bool
	SetAttr(name, value string)
	RemoveAttr(name string)
	// Attrs returns the attributes in document order.
	Attrs() []Attribute

	// Style returns an inline style property, or "".
	Style(property string) string
	// SetStyle sets an inline style property; an empty value removes it.
	SetStyle(property, value string)

	Checked() bool
	SetChecked(checked bool)
	Value() string
	SetValue(value string)

	// Focused reports whether the node holds focus in its tree.
	Focused() bool
	// Focus moves the tree's focus to this node, blurring the previous
	// holder. It delivers "blur" and "focus" signals.
	Focus()
	// Blur drops focus from this node if it holds it.
	Blur()

	// AddListener registers fn for signal and returns a function that
	// removes it.
	AddListener(signal string, fn func(*Event)) func()
}

// Attribute is a name/value pair on an element.
type Attribute struct {
	Name  string
	Value string
}

// Event is a signal delivered to a node's listeners.
type Event struct {
	Type   string
	Target Node

	prevented bool
}

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// Template is a detached list of nodes that can be stamped out repeatedly.
type Template struct {
	nodes []Node
}

// NewTemplate creates a template from nodes. The nodes are not copied.
func NewTemplate(nodes ...Node) Template {
	return Template{nodes: nodes}
}

// Instantiate returns fresh deep copies of the template's nodes.
func (t Template) Instantiate() []Node {
	out := make([]Node, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Len returns the number of top-level nodes in the template.
func (t Template) Len() int {
	return len(t.nodes)
}
