package binding

import (
	"slices"
	"sync"
)

// Scope collects cleanup functions for a set of bindings. Disposing it
// releases every subscription and listener the bindings made.
type Scope struct {
	mu        sync.Mutex
	disposers []*disposer
	disposed  bool
}

type disposer struct {
	fn func()
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// OnDispose registers a cleanup function to run when the scope is disposed.
// It returns a function that unregisters it. If the scope is already
// disposed, cleanup runs immediately.
func (s *Scope) OnDispose(cleanup func()) func() {
	if cleanup == nil {
		return func() {}
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		cleanup()
		return func() {}
	}
	d := &disposer{fn: cleanup}
	s.disposers = append(s.disposers, d)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.disposers = slices.DeleteFunc(s.disposers, func(x *disposer) bool {
			return x == d
		})
	}
}

// Dispose runs the registered cleanup functions in reverse order. Later
// calls do nothing.
func (s *Scope) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	disposers := s.disposers
	s.disposers = nil
	s.mu.Unlock()

	for i := len(disposers) - 1; i >= 0; i-- {
		disposers[i].fn()
	}
}

// IsDisposed reports whether Dispose has been called.
func (s *Scope) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Len returns the number of pending cleanup functions.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.disposers)
}

// Child creates a scope that is disposed along with s. Disposing the child
// first removes it from s.
func (s *Scope) Child() *Scope {
	c := NewScope()
	remove := s.OnDispose(c.Dispose)
	c.OnDispose(remove)
	return c
}
