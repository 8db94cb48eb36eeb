package reactive

import (
	"slices"
	"sync"

	"github.com/go-ivy/ivy/pkg/errors"
)

// Listener is a subscribable callback. Listeners are compared by identity,
// so the same *Listener passed to On and Off refers to one subscription.
type Listener struct {
	fn func(args ...any)
}

// NewListener wraps fn in a Listener.
func NewListener(fn func(args ...any)) *Listener {
	return &Listener{fn: fn}
}

// Call invokes the listener directly.
func (l *Listener) Call(args ...any) {
	if l != nil && l.fn != nil {
		l.fn(args...)
	}
}

// Emitter keeps per-event listener lists and emits events to them.
// It is embedded by every observable type.
type Emitter struct {
	rt        *Runtime
	id        uint64
	mu        sync.Mutex
	listeners map[string][]*Listener
}

func (e *Emitter) init(rt *Runtime) {
	e.rt = orDefault(rt)
	e.id = e.rt.newID()
	e.listeners = make(map[string][]*Listener)
}

// ID returns the observable's identity within its runtime.
func (e *Emitter) ID() uint64 {
	return e.id
}

// Runtime returns the runtime the observable belongs to.
func (e *Emitter) Runtime() *Runtime {
	return e.rt
}

// On appends l to the listeners of event.
func (e *Emitter) On(event string, l *Listener) {
	if l == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], l)
}

// Off removes the first registration of l from event.
func (e *Emitter) Off(event string, l *Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := e.listeners[event]
	i := slices.Index(list, l)
	if i < 0 {
		return
	}
	e.listeners[event] = slices.Delete(slices.Clone(list), i, i+1)
}

// OffAll removes every listener of event.
func (e *Emitter) OffAll(event string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.listeners, event)
}

// Listeners returns a copy of the listeners registered for event.
func (e *Emitter) Listeners(event string) []*Listener {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.listeners[event])
}

// ListenerCount returns the number of listeners registered for event.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}

// Subscribe registers fn for event and returns a function that removes it.
func (e *Emitter) Subscribe(event string, fn func(args ...any)) func() {
	l := NewListener(fn)
	e.On(event, l)
	return func() { e.Off(event, l) }
}

// Emit calls every listener of event with args, in registration order.
//
// If this observable is already emitting event further up the call stack,
// the nested emission is dropped and a cycle diagnostic is reported.
func (e *Emitter) Emit(event string, args ...any) {
	list := e.Listeners(event)
	if len(list) == 0 {
		return
	}
	if !e.rt.enter(event, e.id) {
		e.rt.Report(&errors.IvyError{
			Op:   "reactive.Emit",
			Kind: errors.KindCycle,
			Err:  &errors.CycleError{Event: event, ID: e.id},
		})
		return
	}
	defer e.rt.leave(event, e.id)
	for _, l := range list {
		l.Call(args...)
	}
}
