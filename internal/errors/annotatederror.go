// Package errors provides error annotation with structured logging attributes.
//
// It wraps the standard library errors package so that callers only need a
// single import. Wrapped errors remember the source location where they were
// created, which SlogError exposes for log correlation.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// annotatedError is an error with slog attributes and the source location of
// the Wrap call.
type annotatedError struct {
	msg    string
	err    error
	attrs  []slog.Attr
	source string
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// Wrap annotates err with a message and optional slog attributes.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:    msg,
		err:    err,
		attrs:  attrs,
		source: callerSource(),
	}
}

// New creates a new error annotated with the caller's source location.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:    msg,
		err:    nil,
		attrs:  attrs,
		source: callerSource(),
	}
}

// NewSentinel creates an error meant to be used with Is checks. It carries no
// source location so that it can be declared as a package-level variable.
func NewSentinel(msg string) error {
	return stderrors.New(msg)
}

// Unwrap delegates to the standard library.
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Is delegates to the standard library.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As delegates to the standard library.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join delegates to the standard library.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// SlogError converts an error into a slog.Attr with the error message, any
// annotations collected from the error chain, and the source location of the
// innermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	var (
		attrs  []slog.Attr
		source string
	)
	for unwrapped := err; unwrapped != nil; unwrapped = Unwrap(unwrapped) {
		var annotated *annotatedError
		if stderrors.As(unwrapped, &annotated) {
			attrs = append(attrs, annotated.attrs...)
			source = annotated.source
			unwrapped = annotated
		}
	}

	group := []any{slog.String("message", err.Error())}
	if source != "" {
		group = append(group, slog.String("source", source))
	}
	if len(attrs) > 0 {
		annotationArgs := make([]any, 0, len(attrs))
		for _, attr := range attrs {
			annotationArgs = append(annotationArgs, attr)
		}
		group = append(group, slog.Group("annotations", annotationArgs...))
	}
	return slog.Group("error", group...)
}

// DecoratePanic converts a recovered panic value into an annotated error
// whose source points at the panic site.
func DecoratePanic(excp any) error {
	var pcs [32]uintptr
	n := runtime.Callers(2, pcs[:]) //nolint:mnd // skip runtime.Callers and DecoratePanic.
	frames := runtime.CallersFrames(pcs[:n])
	var source string
	seenGopanic := false
	for {
		frame, more := frames.Next()
		if strings.HasPrefix(frame.Function, "runtime.gopanic") {
			seenGopanic = true
		} else if seenGopanic && !strings.HasPrefix(frame.Function, "runtime.") {
			source = fmt.Sprintf("%s:%d", shortFile(frame.File), frame.Line)
			break
		}
		if !more {
			break
		}
	}
	return &annotatedError{
		msg:    fmt.Sprintf("panic: %v", excp),
		err:    nil,
		attrs:  nil,
		source: source,
	}
}

// callerSource resolves the file:line of the first caller outside this file.
func callerSource() string {
	var pcs [8]uintptr
	n := runtime.Callers(2, pcs[:]) //nolint:mnd // skip runtime.Callers and callerSource.
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasSuffix(frame.File, "annotatederror.go") {
			return fmt.Sprintf("%s:%d", shortFile(frame.File), frame.Line)
		}
		if !more {
			return ""
		}
	}
}

// shortFile trims the file path to its final element.
func shortFile(file string) string {
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		return file[idx+1:]
	}
	return file
}
