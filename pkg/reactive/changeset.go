package reactive

import "slices"

// Op is the kind of a structural edit.
type Op int

const (
	// OpAdd inserts items at an index.
	OpAdd Op = iota
	// OpRemove removes items starting at an index.
	OpRemove
)

func (o Op) String() string {
	if o == OpRemove {
		return "remove"
	}
	return "add"
}

// ChangeEntry describes one structural edit of a collection.
type ChangeEntry[T any] struct {
	Op    Op
	Index int
	Items []T
}

// ChangeSet builds the ordered list of entries for one emission.
type ChangeSet[T any] struct {
	entries []ChangeEntry[T]
}

// NewChangeSet returns an empty change set.
func NewChangeSet[T any]() *ChangeSet[T] {
	return &ChangeSet[T]{}
}

// Add records items inserted at index.
func (cs *ChangeSet[T]) Add(index int, items []T) *ChangeSet[T] {
	cs.entries = append(cs.entries, ChangeEntry[T]{Op: OpAdd, Index: index, Items: items})
	return cs
}

// Remove records items removed starting at index.
func (cs *ChangeSet[T]) Remove(index int, items []T) *ChangeSet[T] {
	cs.entries = append(cs.entries, ChangeEntry[T]{Op: OpRemove, Index: index, Items: items})
	return cs
}

// Len returns the number of entries.
func (cs *ChangeSet[T]) Len() int {
	return len(cs.entries)
}

// Entries returns the recorded entries in order.
func (cs *ChangeSet[T]) Entries() []ChangeEntry[T] {
	return cs.entries
}

// Apply replays entries on a copy of seq and returns the result. Applying
// the entries of an emission to the previous items yields the new items.
func Apply[T any](seq []T, entries []ChangeEntry[T]) []T {
	out := slices.Clone(seq)
	for _, e := range entries {
		switch e.Op {
		case OpAdd:
			out = slices.Insert(out, e.Index, e.Items...)
		case OpRemove:
			out = slices.Delete(out, e.Index, e.Index+len(e.Items))
		}
	}
	return out
}
