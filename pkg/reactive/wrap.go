package reactive

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Transform is a get/set pair applied by Wrap. A nil Get or Set is the
// identity. Get may only be nil when In is assignable to Out; a nil Set
// across unassignable types makes the wrapper read-only.
type Transform[In, Out any] struct {
	Get func(In) Out
	Set func(Out) In
}

// Wrapped presents an inner observable through a Transform. The inner
// observable stays the source of truth: Set writes through to it, and its
// changes are re-emitted here with the transformed value.
//
//	percent := reactive.New(rt, 0.1)
//	label := reactive.Wrap(percent, reactive.Transform[float64, string]{
//	    Get: func(f float64) string { return fmt.Sprintf("%g%%", f*100) },
//	    Set: func(s string) float64 { f, _ := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64); return f / 100 },
//	})
//	label.Set("17%")
//	percent.Get() // 0.17
type Wrapped[In, Out any] struct {
	Emitter
	inner    Var[In]
	get      func(In) Out
	set      func(Out) In
	writable bool
	proxy    *Listener
}

// Wrap creates a decorator over inner.
func Wrap[In, Out any](inner Var[In], t Transform[In, Out]) *Wrapped[In, Out] {
	w := &Wrapped[In, Out]{
		inner:    inner,
		get:      t.Get,
		set:      t.Set,
		writable: true,
	}
	if w.get == nil {
		in, out := reflect.TypeFor[In](), reflect.TypeFor[Out]()
		if !in.AssignableTo(out) {
			panic(fmt.Sprintf("reactive: Wrap from %s to %s needs a Get transform", in, out))
		}
		w.get = func(v In) Out { return as[Out](any(v)) }
	}
	if w.set == nil {
		w.writable = reflect.TypeFor[Out]().AssignableTo(reflect.TypeFor[In]())
		w.set = func(v Out) In { return as[In](any(v)) }
	}

	var rt *Runtime
	if r, ok := inner.(interface{ Runtime() *Runtime }); ok {
		rt = r.Runtime()
	}
	w.init(rt)

	w.proxy = NewListener(func(args ...any) {
		w.Emit(EventChange, w.get(as[In](first(args))))
	})
	inner.On(EventChange, w.proxy)
	return w
}

// WrapGet creates a decorator that only transforms reads.
func WrapGet[In, Out any](inner Var[In], get func(In) Out) *Wrapped[In, Out] {
	return Wrap(inner, Transform[In, Out]{Get: get})
}

// Inner returns the wrapped observable.
func (w *Wrapped[In, Out]) Inner() Var[In] {
	return w.inner
}

// Get returns the transformed inner value.
func (w *Wrapped[In, Out]) Get() Out {
	return w.get(w.inner.Get())
}

// Value returns the transformed inner value as any.
func (w *Wrapped[In, Out]) Value() any {
	return w.Get()
}

// Set transforms v and writes it to the inner observable, which decides
// whether anything changed.
func (w *Wrapped[In, Out]) Set(v Out) {
	w.inner.Set(w.set(v))
}

// SetAny converts v to Out and sets it.
func (w *Wrapped[In, Out]) SetAny(v any) error {
	if !w.writable {
		return ErrReadOnly
	}
	out, err := Convert[Out](v)
	if err != nil {
		return err
	}
	w.Set(out)
	return nil
}

// ReadOnly reports whether the decorator has no way to write to its inner
// observable.
func (w *Wrapped[In, Out]) ReadOnly() bool {
	return !w.writable
}

// OnChange registers fn for "change" and returns the listener.
func (w *Wrapped[In, Out]) OnChange(fn func(Out)) *Listener {
	l := NewListener(func(args ...any) {
		fn(as[Out](first(args)))
	})
	w.On(EventChange, l)
	return l
}

// Close stops proxying changes from the inner observable.
func (w *Wrapped[In, Out]) Close() {
	w.inner.Off(EventChange, w.proxy)
}

func (w *Wrapped[In, Out]) String() string {
	return fmt.Sprint(w.Get())
}

// MarshalJSON encodes the transformed value.
func (w *Wrapped[In, Out]) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Get())
}
