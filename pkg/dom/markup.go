package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads an HTML fragment and returns it as a fragment node. Comments
// and doctypes are dropped; whitespace-only text between elements is kept.
func Parse(r io.Reader) (*Element, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, fmt.Errorf("dom: parse markup: %w", err)
	}
	root := NewFragment()
	for _, n := range nodes {
		if c := fromHTML(n); c != nil {
			root.AppendChild(c)
		}
	}
	return root, nil
}

// ParseString is Parse over a string.
func ParseString(markup string) (*Element, error) {
	return Parse(strings.NewReader(markup))
}

func fromHTML(n *html.Node) *Element {
	var e *Element
	switch n.Type {
	case html.TextNode:
		return NewText(n.Data)
	case html.ElementNode:
		e = NewElement(n.Data)
		for _, a := range n.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			e.SetAttr(name, a.Val)
		}
	case html.DocumentNode:
		e = NewFragment()
	default:
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := fromHTML(c); child != nil {
			e.AppendChild(child)
		}
	}
	return e
}

// Render writes node as HTML. A fragment renders its children.
func Render(w io.Writer, node Node) error {
	for _, n := range toHTML(node) {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("dom: render markup: %w", err)
		}
	}
	return nil
}

// RenderString returns node rendered as HTML.
func RenderString(node Node) (string, error) {
	var b strings.Builder
	if err := Render(&b, node); err != nil {
		return "", err
	}
	return b.String(), nil
}

func toHTML(node Node) []*html.Node {
	switch node.Kind() {
	case KindText:
		return []*html.Node{{Type: html.TextNode, Data: node.Text()}}
	case KindFragment:
		var out []*html.Node
		for _, c := range node.Children() {
			out = append(out, toHTML(c)...)
		}
		return out
	}
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     node.Tag(),
		DataAtom: atom.Lookup([]byte(node.Tag())),
	}
	for _, a := range node.Attrs() {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
	for _, c := range node.Children() {
		for _, hc := range toHTML(c) {
			n.AppendChild(hc)
		}
	}
	return []*html.Node{n}
}
