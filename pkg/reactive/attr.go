package reactive

import (
	"encoding/json"
	"fmt"
)

// Attr is an observable value.
//
// Set stores a new value and emits "change" with it, unless the new value is
// equal to the current one. An optional coercion function runs on every Set;
// an optional parse function converts untyped input given to SetAny.
type Attr[T any] struct {
	Emitter
	value  T
	coerce func(T) T
	parse  func(any) (T, error)
	equal  func(a, b T) bool
}

// AttrOption configures an Attr.
type AttrOption[T any] func(*Attr[T])

// WithCoerce applies fn to every value passed to Set. It is not applied to
// the initial value.
func WithCoerce[T any](fn func(T) T) AttrOption[T] {
	return func(a *Attr[T]) {
		a.coerce = fn
	}
}

// WithParse sets the function SetAny uses to turn untyped input into a T.
// Without it, SetAny falls back to Convert.
func WithParse[T any](fn func(any) (T, error)) AttrOption[T] {
	return func(a *Attr[T]) {
		a.parse = fn
	}
}

// WithEqual replaces the equality used to suppress redundant changes.
func WithEqual[T any](fn func(a, b T) bool) AttrOption[T] {
	return func(a *Attr[T]) {
		a.equal = fn
	}
}

// New creates an attribute holding initial.
//
// If rt is nil the default runtime is used.
func New[T any](rt *Runtime, initial T, opts ...AttrOption[T]) *Attr[T] {
	a := &Attr[T]{
		value: initial,
		equal: func(a, b T) bool { return Same(a, b) },
	}
	a.init(rt)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Get returns the current value.
func (a *Attr[T]) Get() T {
	return a.value
}

// Value returns the current value as any.
func (a *Attr[T]) Value() any {
	return a.value
}

// Set coerces v, and if it differs from the current value stores it and
// emits "change".
func (a *Attr[T]) Set(v T) {
	if a.coerce != nil {
		v = a.coerce(v)
	}
	if a.equal(a.value, v) {
		return
	}
	a.value = v
	a.Emit(EventChange, v)
}

// SetAny parses v into a T and sets it.
func (a *Attr[T]) SetAny(v any) error {
	var (
		t   T
		err error
	)
	if a.parse != nil {
		t, err = a.parse(v)
	} else {
		t, err = Convert[T](v)
	}
	if err != nil {
		return err
	}
	a.Set(t)
	return nil
}

// Update sets the attribute to transform applied to its current value.
func (a *Attr[T]) Update(transform func(T) T) {
	a.Set(transform(a.value))
}

// OnChange registers fn for "change" and returns the listener, which can be
// passed to Off.
func (a *Attr[T]) OnChange(fn func(T)) *Listener {
	l := NewListener(func(args ...any) {
		fn(as[T](first(args)))
	})
	a.On(EventChange, l)
	return l
}

func (a *Attr[T]) String() string {
	return fmt.Sprint(a.value)
}

// MarshalJSON encodes the current value, so structs of attributes serialize
// like structs of plain values.
func (a *Attr[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.value)
}
