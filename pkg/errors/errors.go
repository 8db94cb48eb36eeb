// Package errors provides structured error handling for Ivy bindings.
//
// Errors fall into the categories named by [ErrorKind]. Syntax and lookup
// failures are returned to the caller, binding failures are annotated with
// the offending node and directive and re-raised, while unknown directives
// and emission cycles are recovered locally and reported to the configured
// [ErrorHandler].
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindSyntax indicates a malformed binding clause.
	KindSyntax
	// KindLookup indicates a path that could not be resolved.
	KindLookup
	// KindUnknownDirective indicates a binding clause naming no registered binder.
	KindUnknownDirective
	// KindBinding indicates a binder that failed during wiring or update.
	KindBinding
	// KindCycle indicates a reentrant emission that was dropped.
	KindCycle
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindLookup:
		return "lookup"
	case KindUnknownDirective:
		return "unknown-directive"
	case KindBinding:
		return "binding"
	case KindCycle:
		return "cycle"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Recoverable reports whether errors of this kind are handled locally and
// only surfaced as diagnostics.
func (k ErrorKind) Recoverable() bool {
	return k == KindUnknownDirective || k == KindCycle
}

// IvyError represents a structured diagnostic reported by the runtime.
type IvyError struct {
	// Op is the operation that failed (e.g., "binding.Walker.Bind").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Node describes the UI node involved, if any.
	Node string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *IvyError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s [%s] node=%s: %v", e.Op, e.Kind, e.Node, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *IvyError) Unwrap() error {
	return e.Err
}

// SyntaxError reports a binding clause that does not match the directive grammar.
type SyntaxError struct {
	// Clause is the offending clause text.
	Clause string
	// Reason explains what is wrong with it.
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid binding syntax %q: %s", e.Clause, e.Reason)
}

// LookupError reports a path that could not be resolved against a context.
type LookupError struct {
	// Path is the full path being resolved.
	Path string
	// Reason explains why resolution stopped.
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("cannot resolve %q: %s", e.Path, e.Reason)
}

// UnknownDirectiveError reports a clause whose directive has no binder.
type UnknownDirectiveError struct {
	// Name is the directive name.
	Name string
	// Rule is the full clause text.
	Rule string
}

func (e *UnknownDirectiveError) Error() string {
	return fmt.Sprintf("unknown binding %q in %q", e.Name, e.Rule)
}

// CycleError reports an emission that re-entered itself.
type CycleError struct {
	// Event is the event being emitted.
	Event string
	// ID is the identity of the emitting observable.
	ID uint64
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected on %d (event %q)", e.ID, e.Event)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "reactive.Emit").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// BindingError represents a binder that failed while wiring a node or while
// applying an update to it.
type BindingError struct {
	// Node describes the node being bound.
	Node string
	// Directive is the clause text that was being applied.
	Directive string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BindingError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic binding %q on %s: %v", e.Directive, e.Node, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("binding %q on %s: %v", e.Directive, e.Node, e.Err)
	}
	return fmt.Sprintf("unknown error binding %q on %s", e.Directive, e.Node)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the Ivy runtime.
type ErrorHandler interface {
	// HandleError is called for diagnostics such as unknown directives and cycles.
	HandleError(err *IvyError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleBindingError is called when a binder fails.
	HandleBindingError(err *BindingError)
}
