package reactive

import (
	stderrors "errors"
	"fmt"
)

// ErrReadOnly is returned when setting a value that cannot be written.
var ErrReadOnly = stderrors.New("reactive: value is read-only")

// Observable is the type-erased view of any observable value.
type Observable interface {
	// ID returns the observable's identity within its runtime.
	ID() uint64
	// Value returns the current value.
	Value() any
	// On registers l for event.
	On(event string, l *Listener)
	// Off removes l from event.
	Off(event string, l *Listener)
	// Listeners returns the listeners registered for event.
	Listeners(event string) []*Listener
}

// Settable is an Observable that accepts untyped writes, converting them to
// its own value type.
type Settable interface {
	Observable
	SetAny(v any) error
}

// Getter is an Observable with a typed current value.
type Getter[T any] interface {
	Observable
	Get() T
}

// Var is a Getter that can be written with a typed value.
type Var[T any] interface {
	Getter[T]
	Set(v T)
}

// Kind distinguishes what a binding target can do.
type Kind int

const (
	// KindPlain is a plain value: read once, never watched.
	KindPlain Kind = iota
	// KindReadOnly is an observable that cannot be written.
	KindReadOnly
	// KindWritable is an observable that accepts writes.
	KindWritable
)

func (k Kind) String() string {
	switch k {
	case KindReadOnly:
		return "read-only"
	case KindWritable:
		return "writable"
	default:
		return "plain"
	}
}

// Target is a classified binding target.
type Target struct {
	Kind     Kind
	plain    any
	obs      Observable
	settable Settable
}

// Classify inspects v and returns the Target variant for it.
func Classify(v any) Target {
	obs, ok := v.(Observable)
	if !ok || isNil(obs) {
		return Target{Kind: KindPlain, plain: v}
	}
	if s, ok := v.(Settable); ok {
		if ro, ok := v.(interface{ ReadOnly() bool }); !ok || !ro.ReadOnly() {
			return Target{Kind: KindWritable, obs: obs, settable: s}
		}
	}
	return Target{Kind: KindReadOnly, obs: obs}
}

// Value returns the target's current value.
func (t Target) Value() any {
	if t.obs != nil {
		return t.obs.Value()
	}
	return t.plain
}

// Observable returns the underlying observable, or nil for plain targets.
func (t Target) Observable() Observable {
	return t.obs
}

// Set writes v to a writable target.
func (t Target) Set(v any) error {
	if t.Kind != KindWritable {
		return fmt.Errorf("%w (%s target)", ErrReadOnly, t.Kind)
	}
	return t.settable.SetAny(v)
}

// Watch calls fn with the current value, then again on every "change" of
// an observable target. It returns a function that stops watching; for plain
// targets it does nothing.
func (t Target) Watch(fn func(v any)) func() {
	fn(t.Value())
	if t.obs == nil {
		return func() {}
	}
	l := NewListener(func(args ...any) {
		fn(first(args))
	})
	t.obs.On(EventChange, l)
	return func() { t.obs.Off(EventChange, l) }
}
