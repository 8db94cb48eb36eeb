// Package reactive provides observable values for Ivy.
//
// The building blocks are:
//
//   - [Attr], a mutable value that emits "change" when it is set to a
//     different value.
//   - [Collection], an observable slice whose mutations emit the new items
//     together with the [ChangeEntry] records describing the edit.
//   - [Wrapped], a view over another observable through a get/set
//     [Transform].
//   - [Computed], a read-only value derived from one or more sources.
//
// Every observable belongs to a [Runtime]. The runtime hands out identities
// and tracks which observables are currently emitting, so that a listener
// chain that loops back onto an observable mid-emission is dropped and
// reported instead of recursing forever:
//
//	rt := reactive.NewRuntime()
//	price := reactive.New(rt, 15.0)
//	tax := reactive.New(rt, 0.1)
//	total := reactive.Derive2(rt, price, tax, func(p, t float64) float64 {
//	    return p * (1 + t)
//	})
//	total.Get() // 16.5
//	tax.Set(0.05)
//	total.Get() // 15.75
//
// # Change payloads
//
// "change" listeners of values receive the new value as their only
// argument. Collections pass the new items and a []ChangeEntry[T].
//
// # Threading
//
// Listener lists and the runtime's emission table are guarded by mutexes,
// but emission itself is synchronous and meant to run on a single
// goroutine: two goroutines emitting the same observable at once would be
// indistinguishable from a cycle.
package reactive
