// Package errors provides error annotation with slog attributes and source
// locations so that failures can be logged with structured context.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
)

// annotatedError carries a message, an optional wrapped cause, slog attributes
// and the program counter of the call site that created it.
type annotatedError struct {
	msg   string
	cause error
	attrs []slog.Attr
	pc    uintptr
}

func (e *annotatedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.cause
}

// callerPC captures the program counter skip frames above the caller of
// callerPC itself.
func callerPC(skip int) uintptr {
	var pcs [1]uintptr
	// +2 skips runtime.Callers and callerPC.
	runtime.Callers(skip+2, pcs[:])
	return pcs[0]
}

// New creates an annotated error with the given message and attributes.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, attrs: attrs, pc: callerPC(1)}
}

// NewSentinel creates a plain sentinel error suitable for package-level
// declarations and comparison with Is. It carries no source location because
// the declaration site is not a useful place to point at.
func NewSentinel(msg string) error {
	return &annotatedError{msg: msg}
}

// Wrap annotates err with a message and optional slog attributes. It returns
// nil if err is nil so it can be used unconditionally on return paths.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return &annotatedError{msg: msg, cause: err, attrs: attrs, pc: callerPC(1)}
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join wraps a list of errors into a single error, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// SlogError renders err as a structured "error" group attribute containing the
// flattened message, the source location of the innermost annotation, and all
// annotations collected along the wrap chain.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{Key: "error", Value: slog.StringValue("<nil>")}
	}

	var (
		annotations []slog.Attr
		sourcePC    uintptr
	)
	collectAnnotations(err, &annotations, &sourcePC)

	attrs := []slog.Attr{slog.String("message", err.Error())}
	if sourcePC != 0 {
		frames := runtime.CallersFrames([]uintptr{sourcePC})
		frame, _ := frames.Next()
		if frame.File != "" {
			attrs = append(attrs, slog.String("source",
				fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)))
		}
	}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Attr{Key: "annotations", Value: slog.GroupValue(annotations...)})
	}

	return slog.Attr{Key: "error", Value: slog.GroupValue(attrs...)}
}

// collectAnnotations walks the error tree gathering attributes. The source
// location is taken from the deepest annotated error that recorded one, which
// is closest to the root cause.
func collectAnnotations(err error, annotations *[]slog.Attr, sourcePC *uintptr) {
	if err == nil {
		return
	}
	if ae, ok := err.(*annotatedError); ok { //nolint:errorlint // walking one node at a time on purpose.
		*annotations = append(*annotations, ae.attrs...)
		if ae.pc != 0 {
			*sourcePC = ae.pc
		}
	}
	switch unwrapped := err.(type) { //nolint:errorlint // see above.
	case interface{ Unwrap() error }:
		collectAnnotations(unwrapped.Unwrap(), annotations, sourcePC)
	case interface{ Unwrap() []error }:
		for _, e := range unwrapped.Unwrap() {
			collectAnnotations(e, annotations, sourcePC)
		}
	}
}
