package reactive

import (
	"encoding/json"
	"fmt"
)

// Computed is a read-only value recomputed from its sources whenever one of
// them changes. It emits "change" only when the result differs.
type Computed[T any] struct {
	Emitter
	value   T
	compute func() T
	equal   func(a, b T) bool
	sources []Observable
	trigger *Listener
}

// Derive creates a Computed from fn applied to the current values of
// sources, in order. A nil rt means the runtime of the first source.
func Derive[T any](rt *Runtime, fn func(values []any) T, sources ...Observable) *Computed[T] {
	return newComputed(rt, func() T {
		values := make([]any, len(sources))
		for i, s := range sources {
			values[i] = s.Value()
		}
		return fn(values)
	}, sources)
}

// Derive1 creates a Computed from one typed source.
func Derive1[A, T any](rt *Runtime, a Getter[A], fn func(A) T) *Computed[T] {
	return newComputed(rt, func() T {
		return fn(a.Get())
	}, []Observable{a})
}

// Derive2 creates a Computed from two typed sources.
func Derive2[A, B, T any](rt *Runtime, a Getter[A], b Getter[B], fn func(A, B) T) *Computed[T] {
	return newComputed(rt, func() T {
		return fn(a.Get(), b.Get())
	}, []Observable{a, b})
}

// Derive3 creates a Computed from three typed sources.
func Derive3[A, B, C, T any](rt *Runtime, a Getter[A], b Getter[B], c Getter[C], fn func(A, B, C) T) *Computed[T] {
	return newComputed(rt, func() T {
		return fn(a.Get(), b.Get(), c.Get())
	}, []Observable{a, b, c})
}

func newComputed[T any](rt *Runtime, compute func() T, sources []Observable) *Computed[T] {
	c := &Computed[T]{
		compute: compute,
		equal:   func(a, b T) bool { return Same(a, b) },
		sources: sources,
	}
	if rt == nil {
		for _, s := range sources {
			if r, ok := s.(interface{ Runtime() *Runtime }); ok {
				rt = r.Runtime()
				break
			}
		}
	}
	c.init(rt)
	c.value = compute()
	c.trigger = NewListener(func(...any) {
		c.recompute()
	})
	for _, s := range sources {
		s.On(EventChange, c.trigger)
	}
	return c
}

func (c *Computed[T]) recompute() {
	v := c.compute()
	if c.equal(c.value, v) {
		return
	}
	c.value = v
	c.Emit(EventChange, v)
}

// Get returns the last computed value.
func (c *Computed[T]) Get() T {
	return c.value
}

// Value returns the last computed value as any.
func (c *Computed[T]) Value() any {
	return c.value
}

// Sources returns the observables the value is computed from.
func (c *Computed[T]) Sources() []Observable {
	return c.sources
}

// OnChange registers fn for "change" and returns the listener.
func (c *Computed[T]) OnChange(fn func(T)) *Listener {
	l := NewListener(func(args ...any) {
		fn(as[T](first(args)))
	})
	c.On(EventChange, l)
	return l
}

// Close unsubscribes from every source. The value stops updating.
func (c *Computed[T]) Close() {
	for _, s := range c.sources {
		s.Off(EventChange, c.trigger)
	}
}

func (c *Computed[T]) String() string {
	return fmt.Sprint(c.value)
}

// MarshalJSON encodes the current value.
func (c *Computed[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.value)
}
