package binding_test

import (
	"fmt"
	"os"

	"github.com/go-ivy/ivy/pkg/binding"
	"github.com/go-ivy/ivy/pkg/dom"
	"github.com/go-ivy/ivy/pkg/reactive"
)

// This example binds a list to a collection and renders it after a change.
func ExampleWalker_Bind() {
	rt := reactive.NewRuntime()
	todos := reactive.NewCollection(rt, []string{"milk", "eggs"})

	root, err := dom.ParseString(`<ul data-bind="each: todos"><li data-bind="text: ."></li></ul>`)
	if err != nil {
		panic(err)
	}
	scope, err := binding.NewWalker(rt).Bind(root, binding.NewContext(map[string]any{"todos": todos}))
	if err != nil {
		panic(err)
	}
	defer scope.Dispose()

	todos.Push("jam")
	dom.Render(os.Stdout, root)
	fmt.Println()

	// Output:
	// <ul data-bind="each: todos"><li data-bind="text: .">milk</li><li data-bind="text: .">eggs</li><li data-bind="text: .">jam</li></ul>
}

// This example shows the clauses of a binding attribute.
func ExampleParseRules() {
	rules, err := binding.ParseRules("value: name keyup; attr: busy disabled;")
	if err != nil {
		panic(err)
	}
	for _, r := range rules {
		fmt.Printf("%s %q\n", r.Name, r.Options)
	}

	// Output:
	// value ["name" "keyup"]
	// attr ["busy" "disabled"]
}

// This example resolves paths from a nested context.
func ExampleContext_Resolve() {
	root := binding.NewContext(map[string]any{"title": "Todo", "user": map[string]any{"name": "Ada"}})
	item := root.Child("milk")

	for _, path := range []string{".", "../title", "../user.name"} {
		v, _ := item.Resolve(path)
		fmt.Printf("%s = %v\n", path, v)
	}

	// Output:
	// . = milk
	// ../title = Todo
	// ../user.name = Ada
}
