package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler is the global error handler.
	// It defaults to LogHandler with verbose=false.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler configures the global error handler.
// Pass nil to restore the default LogHandler.
func SetHandler(h ErrorHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		DefaultHandler = &LogHandler{}
	} else {
		DefaultHandler = h
	}
}

// Handler returns the current global error handler.
func Handler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report sends an error to the global handler.
// If err.Timestamp is zero, it is set to the current time.
func Report(err *IvyError) {
	ReportTo(nil, err)
}

// ReportTo sends an error to h, or to the global handler when h is nil.
func ReportTo(h ErrorHandler, err *IvyError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h == nil {
		h = Handler()
	}
	if h != nil {
		h.HandleError(err)
	}
}

// ReportPanic sends a panic error to the global handler.
func ReportPanic(err *PanicError) {
	ReportPanicTo(nil, err)
}

// ReportPanicTo sends a panic error to h, or to the global handler when h
// is nil.
func ReportPanicTo(h ErrorHandler, err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h == nil {
		h = Handler()
	}
	if h != nil {
		h.HandlePanic(err)
	}
}

// ReportBindingError sends a binding error to h, or to the global handler
// when h is nil.
func ReportBindingError(h ErrorHandler, err *BindingError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h == nil {
		h = Handler()
	}
	if h != nil {
		h.HandleBindingError(err)
	}
}

// Recover is a helper for deferred panic recovery.
// Usage: defer errors.Recover("operation.name")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(newPanicError(op, r))
	}
}

// RecoverTo recovers a panic into *errp. A *BindingError was reported when
// it was raised and is returned as is. Any other value becomes a
// PanicError, reported to h and returned.
// Usage: defer errors.RecoverTo(h, "operation.name", &err)
func RecoverTo(h ErrorHandler, op string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if be, ok := r.(*BindingError); ok {
		*errp = be
		return
	}
	pe := newPanicError(op, r)
	ReportPanicTo(h, pe)
	*errp = pe
}

func newPanicError(op string, v any) *PanicError {
	return &PanicError{
		Op:         op,
		Value:      v,
		StackTrace: stackFrom(4),
		Timestamp:  time.Now(),
	}
}

// CaptureStack returns the current call stack as a string.
// It skips the first few frames to exclude the CaptureStack call itself.
func CaptureStack() string {
	return stackFrom(4)
}

// stackFrom formats the stack starting skip frames up, counting
// runtime.Callers and stackFrom itself.
func stackFrom(skip int) string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}

// Recorder is an ErrorHandler that keeps every report in memory.
// It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	errors   []*IvyError
	panics   []*PanicError
	bindings []*BindingError
}

// HandleError records err.
func (r *Recorder) HandleError(err *IvyError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

// HandlePanic records err.
func (r *Recorder) HandlePanic(err *PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = append(r.panics, err)
}

// HandleBindingError records err.
func (r *Recorder) HandleBindingError(err *BindingError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = append(r.bindings, err)
}

// Errors returns the recorded diagnostics, optionally filtered to the given kinds.
func (r *Recorder) Errors(kinds ...ErrorKind) []*IvyError {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(kinds) == 0 {
		return append([]*IvyError(nil), r.errors...)
	}
	var out []*IvyError
	for _, err := range r.errors {
		for _, k := range kinds {
			if err.Kind == k {
				out = append(out, err)
				break
			}
		}
	}
	return out
}

// Panics returns the recorded panics.
func (r *Recorder) Panics() []*PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*PanicError(nil), r.panics...)
}

// BindingErrors returns the recorded binding failures.
func (r *Recorder) BindingErrors() []*BindingError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*BindingError(nil), r.bindings...)
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors, r.panics, r.bindings = nil, nil, nil
}
