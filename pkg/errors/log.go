package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiReset  = "\033[0m"
)

// LogHandler is an ErrorHandler that logs errors to a writer.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Out receives the log lines. Defaults to os.Stderr.
	Out io.Writer
}

func (h *LogHandler) out() io.Writer {
	if h.Out == nil {
		return os.Stderr
	}
	return h.Out
}

// prefix returns the bracketed tag, coloured when the output is a terminal.
func (h *LogHandler) prefix(tag, color string) string {
	f, ok := h.out().(*os.File)
	if ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return color + "[" + tag + "]" + ansiReset
	}
	return "[" + tag + "]"
}

// HandleError logs an IvyError. Recoverable kinds are logged as warnings.
func (h *LogHandler) HandleError(err *IvyError) {
	if err == nil {
		return
	}
	w := h.out()
	tag := h.prefix("ivy error", ansiRed)
	if err.Kind.Recoverable() {
		tag = h.prefix("ivy warning", ansiYellow)
	}
	if h.Verbose {
		fmt.Fprintf(w, "%s %s [%s]", tag, err.Op, err.Kind)
		if err.Node != "" {
			fmt.Fprintf(w, " node=%s", err.Node)
		}
		fmt.Fprintf(w, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(w, "%s %v\n", tag, err.Err)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	w := h.out()
	tag := h.prefix("ivy panic", ansiRed)
	if err.Op != "" {
		fmt.Fprintf(w, "%s %s: %v\n", tag, err.Op, err.Value)
	} else {
		fmt.Fprintf(w, "%s %v\n", tag, err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}

// HandleBindingError logs a BindingError.
func (h *LogHandler) HandleBindingError(err *BindingError) {
	if err == nil {
		return
	}
	w := h.out()
	fmt.Fprintf(w, "%s %s\n", h.prefix("ivy binding error", ansiRed), err.Error())
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}
