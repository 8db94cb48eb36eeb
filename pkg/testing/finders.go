package testing

import (
	"fmt"
	"strings"

	"github.com/go-ivy/ivy/pkg/dom"
)

// Finder locates nodes in the UI tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root dom.Node) []dom.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []dom.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() dom.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() dom.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) dom.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []dom.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Texts returns the text content of every match.
func (r FinderResult) Texts() []string {
	out := make([]string, len(r.nodes))
	for i, n := range r.nodes {
		out[i] = n.Text()
	}
	return out
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

type tagFinder struct {
	tag string
}

func (f *tagFinder) Evaluate(root dom.Node) []dom.Node {
	return collectMatches(root, func(n dom.Node) bool {
		return n.Kind() == dom.KindElement && n.Tag() == f.tag
	})
}

func (f *tagFinder) Description() string {
	return fmt.Sprintf("ByTag(%q)", f.tag)
}

// ByTag returns a finder that matches elements with the given tag.
func ByTag(tag string) Finder {
	return &tagFinder{tag: strings.ToLower(tag)}
}

type attrFinder struct {
	name  string
	value *string
}

func (f *attrFinder) Evaluate(root dom.Node) []dom.Node {
	return collectMatches(root, func(n dom.Node) bool {
		if n.Kind() != dom.KindElement {
			return false
		}
		v, ok := n.Attr(f.name)
		return ok && (f.value == nil || v == *f.value)
	})
}

func (f *attrFinder) Description() string {
	if f.value == nil {
		return fmt.Sprintf("ByAttr(%q)", f.name)
	}
	return fmt.Sprintf("ByAttr(%q=%q)", f.name, *f.value)
}

// ByAttr returns a finder that matches elements carrying the attribute. With
// a value, the attribute must also equal it.
func ByAttr(name string, value ...string) Finder {
	f := &attrFinder{name: name}
	if len(value) > 0 {
		f.value = &value[0]
	}
	return f
}

// ByID returns a finder that matches elements with the given id.
func ByID(id string) Finder {
	return ByAttr("id", id)
}

type textFinder struct {
	text     string
	contains bool
}

func (f *textFinder) Evaluate(root dom.Node) []dom.Node {
	return collectMatches(root, func(n dom.Node) bool {
		if n.Kind() != dom.KindElement {
			return false
		}
		if f.contains {
			return strings.Contains(n.Text(), f.text)
		}
		return n.Text() == f.text
	})
}

func (f *textFinder) Description() string {
	if f.contains {
		return fmt.Sprintf("ByTextContaining(%q)", f.text)
	}
	return fmt.Sprintf("ByText(%q)", f.text)
}

// ByText returns a finder that matches elements whose text content is
// exactly text. Ancestors with the same text match as well.
func ByText(text string) Finder {
	return &textFinder{text: text}
}

// ByTextContaining returns a finder that matches elements whose text
// content contains substring.
func ByTextContaining(substring string) Finder {
	return &textFinder{text: substring, contains: true}
}

type predicateFinder struct {
	fn   func(dom.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root dom.Node) []dom.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(fn func(dom.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds nodes matching 'matching' that are descendants
// of nodes matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root dom.Node) []dom.Node {
	var results []dom.Node
	seen := make(map[dom.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, child := range ancestor.Children() {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching'
// that are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds nodes matching 'matching' that are ancestors of
// nodes matching 'of'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root dom.Node) []dom.Node {
	candidates := make(map[dom.Node]bool)
	for _, n := range f.matching.Evaluate(root) {
		candidates[n] = true
	}
	var results []dom.Node
	seen := make(map[dom.Node]bool)
	for _, desc := range f.of.Evaluate(root) {
		for p := desc.Parent(); p != nil; p = p.Parent() {
			if candidates[p] && !seen[p] {
				seen[p] = true
				results = append(results, p)
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches nodes satisfying 'matching' that
// are ancestors of nodes matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

// collectMatches performs depth-first pre-order traversal, collecting
// nodes that satisfy the predicate.
func collectMatches(root dom.Node, predicate func(dom.Node) bool) []dom.Node {
	var results []dom.Node
	walkTree(root, func(n dom.Node) {
		if predicate(n) {
			results = append(results, n)
		}
	})
	return results
}

func walkTree(root dom.Node, visitor func(dom.Node)) {
	visitor(root)
	for _, child := range root.Children() {
		walkTree(child, visitor)
	}
}
