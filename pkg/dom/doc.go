// Package dom defines the UI tree the binding engine drives and provides an
// in-memory implementation of it.
//
// Binders only ever talk to a [Node]: they read and write attributes, text,
// style properties and form state, move focus, replace children and listen
// for named signals. A browser or native toolkit can supply its own Node; the
// [Element] type here keeps the whole tree in memory, which is what the CLI
// renders and what tests drive.
//
// Markup is loaded with [Parse] and written back with [Render]:
//
//	root, err := dom.ParseString(`<ul data-bind="each: items"><li data-bind="text: ."></li></ul>`)
//	...
//	dom.Render(os.Stdout, root)
//
// Signals are delivered synchronously by [Dispatch] to the listeners of the
// target node only; they do not bubble.
package dom
