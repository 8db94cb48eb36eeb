// Package binding connects a tree of UI nodes to observable values.
//
// Nodes carry a binding attribute (data-bind by default) holding one or more
// clauses:
//
//	<li data-bind="text: name; class: done finished; on: click ../remove"></li>
//
// [ParseRules] turns the attribute into [Rule] values. A [Walker] visits the
// tree, resolves each rule's path against the current [Context] and hands the
// node to the directive registered under the rule's name. Directives apply
// the current value once and, when the target is observable, subscribe so
// later changes reach the node. Two-way directives also write node input back
// to the target.
//
// Structural directives (each, with) take over their node's children: the
// original children become a template that is cloned and bound against a
// child context on every change. Subscriptions made for an instantiation are
// owned by a [Scope] and released when the content is replaced.
package binding
