package reactive

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
)

// Collection is an observable slice.
//
// Every structural mutation emits "change" with the new items and the
// []ChangeEntry[T] describing the edit. The items slice is replaced on every
// mutation, so a slice received from Get or from a listener is never
// modified afterwards; callers must not modify it either.
type Collection[T any] struct {
	Emitter
	items []T
	equal func(a, b T) bool
}

// NewCollection creates a collection holding a copy of items.
func NewCollection[T any](rt *Runtime, items []T) *Collection[T] {
	c := &Collection[T]{
		items: slices.Clone(items),
		equal: func(a, b T) bool { return Same(a, b) },
	}
	if c.items == nil {
		c.items = []T{}
	}
	c.init(rt)
	return c
}

// SetEqual replaces the equality used by Remove to find items.
func (c *Collection[T]) SetEqual(fn func(a, b T) bool) {
	c.equal = fn
}

// Get returns the items.
func (c *Collection[T]) Get() []T {
	return c.items
}

// Value returns the items as any.
func (c *Collection[T]) Value() any {
	return c.items
}

// At returns the item at index i and whether i was in range.
func (c *Collection[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

func (c *Collection[T]) commit(items []T, cs *ChangeSet[T]) {
	c.items = items
	if cs.Len() == 0 {
		return
	}
	c.Emit(EventChange, c.items, cs.Entries())
}

// Set replaces all items. It is the same as Replace.
func (c *Collection[T]) Set(items []T) {
	c.Replace(items)
}

// SetAny replaces all items with v, which must be a []T or a slice whose
// elements convert to T.
func (c *Collection[T]) SetAny(v any) error {
	if items, ok := v.([]T); ok {
		c.Replace(items)
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return fmt.Errorf("reactive: cannot set collection of %s from %T", reflect.TypeFor[T](), v)
	}
	items := make([]T, 0, len(raw))
	for _, r := range raw {
		t, err := Convert[T](r)
		if err != nil {
			return err
		}
		items = append(items, t)
	}
	c.Replace(items)
	return nil
}

// SetAt replaces the item at index i, emitting a remove of the old item
// followed by an add of the new one. It reports false and does nothing when
// i is out of range.
func (c *Collection[T]) SetAt(i int, item T) bool {
	if i < 0 || i >= len(c.items) {
		return false
	}
	old := c.items[i]
	items := slices.Clone(c.items)
	items[i] = item
	c.commit(items, NewChangeSet[T]().Remove(i, []T{old}).Add(i, []T{item}))
	return true
}

// Push appends items to the end.
func (c *Collection[T]) Push(items ...T) {
	if len(items) == 0 {
		return
	}
	index := len(c.items)
	c.commit(append(slices.Clone(c.items), items...), NewChangeSet[T]().Add(index, slices.Clone(items)))
}

// Unshift inserts items at the front.
func (c *Collection[T]) Unshift(items ...T) {
	c.Insert(0, items...)
}

// Insert inserts items before index i. It reports false and does nothing
// when i is outside [0, Len()].
func (c *Collection[T]) Insert(i int, items ...T) bool {
	if i < 0 || i > len(c.items) {
		return false
	}
	if len(items) == 0 {
		return true
	}
	c.commit(slices.Insert(slices.Clone(c.items), i, items...), NewChangeSet[T]().Add(i, slices.Clone(items)))
	return true
}

// Pop removes and returns the last item. It reports false on an empty
// collection.
func (c *Collection[T]) Pop() (T, bool) {
	return c.RemoveAt(len(c.items) - 1)
}

// Shift removes and returns the first item. It reports false on an empty
// collection.
func (c *Collection[T]) Shift() (T, bool) {
	return c.RemoveAt(0)
}

// Replace swaps in a copy of items, emitting a remove of every old item
// followed by an add of every new one. Empty sides are omitted.
func (c *Collection[T]) Replace(items []T) {
	next := slices.Clone(items)
	if next == nil {
		next = []T{}
	}
	cs := NewChangeSet[T]()
	if len(c.items) > 0 {
		cs.Remove(0, c.items)
	}
	if len(next) > 0 {
		cs.Add(0, next)
	}
	c.commit(next, cs)
}

// Remove removes the first item equal to item and returns it.
func (c *Collection[T]) Remove(item T) (T, bool) {
	for i, v := range c.items {
		if c.equal(v, item) {
			return c.RemoveAt(i)
		}
	}
	var zero T
	return zero, false
}

// RemoveMatching removes every item for which pred returns true and returns
// them. All removals are reported in one emission.
func (c *Collection[T]) RemoveMatching(pred func(T) bool) []T {
	items := slices.Clone(c.items)
	cs := NewChangeSet[T]()
	var removed []T
	for i := len(items) - 1; i >= 0; i-- {
		if pred(items[i]) {
			removed = append(removed, items[i])
			cs.Remove(i, []T{items[i]})
			items = slices.Delete(items, i, i+1)
		}
	}
	c.commit(items, cs)
	return removed
}

// RemoveAt removes and returns the item at index i. Out-of-range indices
// are a no-op and report false.
func (c *Collection[T]) RemoveAt(i int) (T, bool) {
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, false
	}
	item := c.items[i]
	items := slices.Delete(slices.Clone(c.items), i, i+1)
	c.commit(items, NewChangeSet[T]().Remove(i, []T{item}))
	return item, true
}

// OnChange registers fn for "change" and returns the listener.
func (c *Collection[T]) OnChange(fn func(items []T, changes []ChangeEntry[T])) *Listener {
	l := NewListener(func(args ...any) {
		var changes []ChangeEntry[T]
		if len(args) > 1 {
			changes = as[[]ChangeEntry[T]](args[1])
		}
		fn(as[[]T](first(args)), changes)
	})
	c.On(EventChange, l)
	return l
}

// OnEach registers l for event on every item, and keeps doing so as items
// are added, removing the registration as items are removed.
//
// The observable of an item is getter(item), or the item itself when getter
// is nil; items without one are skipped. Registrations are counted per
// observable instance, so an item present several times is registered once and
// released when its last occurrence leaves. The returned function stops
// tracking and removes every registration made.
func (c *Collection[T]) OnEach(event string, l *Listener, getter func(T) Observable) func() {
	counts := make(map[Observable]int)

	target := func(item T) Observable {
		var obs Observable
		if getter != nil {
			obs = getter(item)
		} else {
			obs, _ = any(item).(Observable)
		}
		if isNil(obs) {
			return nil
		}
		return obs
	}

	track := func(op Op, items []T) {
		for _, item := range items {
			obs := target(item)
			if obs == nil {
				continue
			}
			switch op {
			case OpAdd:
				counts[obs]++
				if counts[obs] == 1 {
					obs.On(event, l)
				}
			case OpRemove:
				if counts[obs] == 0 {
					continue
				}
				counts[obs]--
				if counts[obs] == 0 {
					obs.Off(event, l)
					delete(counts, obs)
				}
			}
		}
	}

	watcher := c.OnChange(func(_ []T, changes []ChangeEntry[T]) {
		for _, ch := range changes {
			track(ch.Op, ch.Items)
		}
	})
	track(OpAdd, c.items)

	return func() {
		c.Off(EventChange, watcher)
		for obs := range counts {
			obs.Off(event, l)
			delete(counts, obs)
		}
	}
}

func (c *Collection[T]) String() string {
	return fmt.Sprint(c.items)
}

// MarshalJSON encodes the items.
func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.items)
}
