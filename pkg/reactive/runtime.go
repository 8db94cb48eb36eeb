package reactive

import (
	"sync"

	"github.com/go-ivy/ivy/pkg/errors"
)

// EventChange is the event emitted when an observable's value changes.
const EventChange = "change"

// Runtime owns the state shared by a family of observables: the identity
// counter and the table of emissions currently in progress.
//
// Observables created from different runtimes never see each other's
// emission state.
type Runtime struct {
	mu       sync.Mutex
	nextID   uint64
	emitting map[string]map[uint64]struct{}
	handler  errors.ErrorHandler
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithHandler routes the runtime's diagnostics to h instead of the global
// error handler.
func WithHandler(h errors.ErrorHandler) Option {
	return func(rt *Runtime) {
		rt.handler = h
	}
}

// NewRuntime creates an independent runtime.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		nextID:   1,
		emitting: make(map[string]map[uint64]struct{}),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

var (
	defaultOnce    sync.Once
	defaultRuntime *Runtime
)

// Default returns the process-wide runtime used when a nil runtime is passed
// to a constructor.
func Default() *Runtime {
	defaultOnce.Do(func() {
		defaultRuntime = NewRuntime()
	})
	return defaultRuntime
}

func orDefault(rt *Runtime) *Runtime {
	if rt == nil {
		return Default()
	}
	return rt
}

// Handler returns the handler diagnostics are sent to. A nil result means
// the global handler.
func (rt *Runtime) Handler() errors.ErrorHandler {
	return rt.handler
}

func (rt *Runtime) newID() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	id := rt.nextID
	rt.nextID++
	return id
}

// enter marks id as emitting event. It returns false if it already was.
func (rt *Runtime) enter(event string, id uint64) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	callers := rt.emitting[event]
	if callers == nil {
		callers = make(map[uint64]struct{})
		rt.emitting[event] = callers
	}
	if _, busy := callers[id]; busy {
		return false
	}
	callers[id] = struct{}{}
	return true
}

func (rt *Runtime) leave(event string, id uint64) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	callers := rt.emitting[event]
	delete(callers, id)
	if len(callers) == 0 {
		delete(rt.emitting, event)
	}
}

// Emitting reports whether the observable with the given identity is in the
// middle of emitting event.
func (rt *Runtime) Emitting(event string, id uint64) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	_, busy := rt.emitting[event][id]
	return busy
}

// Report sends a diagnostic to the runtime's handler.
func (rt *Runtime) Report(err *errors.IvyError) {
	errors.ReportTo(rt.handler, err)
}

// ReportBindingError sends a binding failure to the runtime's handler.
func (rt *Runtime) ReportBindingError(err *errors.BindingError) {
	errors.ReportBindingError(rt.handler, err)
}
