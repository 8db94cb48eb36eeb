package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"time"
)

func TestIvyErrorString(t *testing.T) {
	err := &IvyError{
		Op:   "binding.Walker.Bind",
		Kind: KindUnknownDirective,
		Err:  &UnknownDirectiveError{Name: "bogus", Rule: "bogus: x"},
	}
	want := `binding.Walker.Bind [unknown-directive]: unknown binding "bogus" in "bogus: x"`
	if got := err.Error(); got != want {
		t.Errorf("IvyError.Error() = %q, want %q", got, want)
	}
}

func TestIvyErrorWithNode(t *testing.T) {
	err := &IvyError{
		Op:   "binding.Walker.Bind",
		Kind: KindUnknownDirective,
		Node: "<div>",
		Err:  &UnknownDirectiveError{Name: "bogus", Rule: "bogus: x"},
	}
	if !strings.Contains(err.Error(), "node=<div>") {
		t.Errorf("error string %q should contain node", err.Error())
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindSyntax, "syntax"},
		{KindLookup, "lookup"},
		{KindUnknownDirective, "unknown-directive"},
		{KindBinding, "binding"},
		{KindCycle, "cycle"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestErrorKindRecoverable(t *testing.T) {
	if !KindCycle.Recoverable() || !KindUnknownDirective.Recoverable() {
		t.Error("cycle and unknown-directive should be recoverable")
	}
	if KindSyntax.Recoverable() || KindBinding.Recoverable() || KindLookup.Recoverable() {
		t.Error("syntax, binding and lookup should not be recoverable")
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "reactive.Emit"
	if got, want := err.Error(), "panic in reactive.Emit: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestBindingErrorString(t *testing.T) {
	err := &BindingError{Node: "<ul>", Directive: "each: items", Recovered: "boom"}
	if got, want := err.Error(), `panic binding "each: items" on <ul>: boom`; got != want {
		t.Errorf("BindingError.Error() = %q, want %q", got, want)
	}

	inner := &LookupError{Path: "../x", Reason: "no parent context"}
	err2 := &BindingError{Node: "<ul>", Directive: "each: ../x", Err: inner}
	if !strings.Contains(err2.Error(), `binding "each: ../x" on <ul>`) {
		t.Errorf("BindingError.Error() = %q", err2.Error())
	}
	var lookup *LookupError
	if !stderrors.As(err2, &lookup) || lookup != inner {
		t.Error("BindingError should unwrap to its LookupError")
	}

	err3 := &BindingError{Node: "<ul>", Directive: "each: x"}
	if got, want := err3.Error(), `unknown error binding "each: x" on <ul>`; got != want {
		t.Errorf("BindingError.Error() = %q, want %q", got, want)
	}
}

func TestSyntaxErrorString(t *testing.T) {
	err := &SyntaxError{Clause: "show x", Reason: "directive name must end with ':'"}
	want := `invalid binding syntax "show x": directive name must end with ':'`
	if got := err.Error(); got != want {
		t.Errorf("SyntaxError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	rec := &Recorder{}
	oldHandler := Handler()
	SetHandler(rec)
	defer SetHandler(oldHandler)

	Report(&IvyError{
		Op:   "test.op",
		Kind: KindCycle,
		Err:  &CycleError{Event: "change", ID: 3},
	})

	got := rec.Errors()
	if len(got) != 1 {
		t.Fatalf("expected 1 error, got %d", len(got))
	}
	if got[0].Op != "test.op" {
		t.Errorf("Op = %q, want %q", got[0].Op, "test.op")
	}
	if got[0].Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportToPrefersGivenHandler(t *testing.T) {
	global := &Recorder{}
	local := &Recorder{}
	oldHandler := Handler()
	SetHandler(global)
	defer SetHandler(oldHandler)

	ReportTo(local, &IvyError{Op: "x", Kind: KindCycle})
	ReportBindingError(local, &BindingError{Node: "<a>", Directive: "on: click f"})

	if len(global.Errors()) != 0 {
		t.Error("global handler should not receive locally routed errors")
	}
	if len(local.Errors()) != 1 || len(local.BindingErrors()) != 1 {
		t.Errorf("local handler got %d errors, %d binding errors", len(local.Errors()), len(local.BindingErrors()))
	}
}

func TestRecover(t *testing.T) {
	rec := &Recorder{}
	oldHandler := Handler()
	SetHandler(rec)
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	panics := rec.Panics()
	if len(panics) != 1 {
		t.Fatalf("expected panic to be recovered and captured")
	}
	if panics[0].Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", panics[0].Value, "intentional test panic")
	}
	if panics[0].Op != "test.recover" {
		t.Errorf("Op = %q, want %q", panics[0].Op, "test.recover")
	}
}

func TestRecoverTo(t *testing.T) {
	global := &Recorder{}
	oldHandler := Handler()
	SetHandler(global)
	defer SetHandler(oldHandler)

	recoverInto := func(h ErrorHandler, fn func()) (err error) {
		defer RecoverTo(h, "test.recover_to", &err)
		fn()
		return nil
	}

	t.Run("value becomes a reported panic error", func(t *testing.T) {
		local := &Recorder{}
		err := recoverInto(local, func() { panic("no writes") })
		var pe *PanicError
		if !stderrors.As(err, &pe) {
			t.Fatalf("err = %v, want *PanicError", err)
		}
		if pe.Op != "test.recover_to" || pe.Value != "no writes" || pe.StackTrace == "" {
			t.Errorf("PanicError = %+v", pe)
		}
		if got := local.Panics(); len(got) != 1 || got[0] != pe {
			t.Errorf("local panics = %v, want the returned error", got)
		}
		if len(global.Panics()) != 0 {
			t.Error("global handler should not receive a locally routed panic")
		}
	})

	t.Run("binding error passes through unreported", func(t *testing.T) {
		local := &Recorder{}
		be := &BindingError{Node: "<p>", Directive: "text: x", Err: stderrors.New("bad")}
		err := recoverInto(local, func() { panic(be) })
		if err != be {
			t.Errorf("err = %v, want the binding error", err)
		}
		if len(local.Panics()) != 0 || len(local.BindingErrors()) != 0 {
			t.Error("an already reported binding error should not be reported again")
		}
	})

	t.Run("runtime error is wrapped", func(t *testing.T) {
		local := &Recorder{}
		err := recoverInto(local, func() {
			var m map[string]int
			m["x"] = 1
		})
		var pe *PanicError
		if !stderrors.As(err, &pe) || len(local.Panics()) != 1 {
			t.Errorf("err = %v, panics = %d; want one reported PanicError", err, len(local.Panics()))
		}
	})

	t.Run("nil handler falls back to global", func(t *testing.T) {
		global.Reset()
		_ = recoverInto(nil, func() { panic(42) })
		if len(global.Panics()) != 1 {
			t.Errorf("global panics = %d, want 1", len(global.Panics()))
		}
	})

	t.Run("no panic leaves the error alone", func(t *testing.T) {
		if err := recoverInto(nil, func() {}); err != nil {
			t.Errorf("err = %v, want nil", err)
		}
	})
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	oldHandler := Handler()
	defer SetHandler(oldHandler)

	SetHandler(nil)
	if _, ok := Handler().(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", Handler())
	}
}

func TestRecorderFilter(t *testing.T) {
	rec := &Recorder{}
	rec.HandleError(&IvyError{Kind: KindCycle})
	rec.HandleError(&IvyError{Kind: KindUnknownDirective})
	rec.HandleError(&IvyError{Kind: KindCycle})

	if got := len(rec.Errors(KindCycle)); got != 2 {
		t.Errorf("Errors(KindCycle) = %d, want 2", got)
	}
	rec.Reset()
	if got := len(rec.Errors()); got != 0 {
		t.Errorf("Errors() after Reset = %d, want 0", got)
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Out: &buf}

	h.HandleError(&IvyError{Op: "reactive.Emit", Kind: KindCycle, Err: &CycleError{Event: "change", ID: 7}})
	h.HandleError(&IvyError{Op: "binding.Walker.Bind", Kind: KindLookup, Err: &LookupError{Path: "../x", Reason: "no parent context"}})
	h.HandleBindingError(&BindingError{Node: "<ul>", Directive: "each: x", Err: &LookupError{Path: "x", Reason: "nope"}})
	h.HandlePanic(&PanicError{Op: "op", Value: "boom"})

	out := buf.String()
	for _, want := range []string{
		`[ivy warning] cycle detected on 7 (event "change")`,
		`[ivy error] cannot resolve "../x": no parent context`,
		`[ivy binding error] binding "each: x" on <ul>`,
		`[ivy panic] op: boom`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHandlerVerbose(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Out: &buf, Verbose: true}
	h.HandleError(&IvyError{Op: "binding.Walker.Bind", Kind: KindUnknownDirective, Node: "<p>", Err: stderrors.New("x")})
	if want := "[ivy warning] binding.Walker.Bind [unknown-directive] node=<p>: x"; !strings.Contains(buf.String(), want) {
		t.Errorf("verbose output %q should contain %q", buf.String(), want)
	}
}
