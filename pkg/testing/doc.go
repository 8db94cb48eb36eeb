// Package testing provides a binding test harness for Ivy.
//
// # Quick Start
//
// Create a tester, mount markup against a scope, and make assertions:
//
//	func TestTodo(t *testing.T) {
//	    tester := ivytest.NewBindingTesterWithT(t)
//	    todos := reactive.NewCollection(tester.Runtime(), []string{"milk"})
//	    tester.Mount(`<ul data-bind="each: todos"><li data-bind="text: ."></li></ul>`,
//	        map[string]any{"todos": todos})
//
//	    todos.Push("eggs")
//	    if got := tester.Find(ivytest.ByTag("li")).Count(); got != 2 {
//	        t.Errorf("expected 2 items, got %d", got)
//	    }
//	}
//
// # Signals
//
// Simulate user input with Click, Type, Check and the focus helpers. Each
// delivers the same signals a host UI would.
//
// # Snapshot Testing
//
// Compare rendered markup against golden files:
//
//	tester.CaptureSnapshot().MatchesFile(t, "testdata/todo.snapshot.html")
//
// Update snapshots with:
//
//	IVY_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import ivytest "github.com/go-ivy/ivy/pkg/testing"
package testing
