package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// annotatedError includes more context than a plain error that is useful for troubleshooting.
type annotatedError struct {
	// msg is the error message.
	msg string
	// pc is the program counter for the location of the error provided by runtime.Callers.
	pc uintptr
	// attrs are slog attributes that are added to the log event to provide more context for the error.
	attrs []slog.Attr
	// cause is the wrapped error, if any.
	cause error
}

func newAnnotatedError(msg string, cause error, attrs []slog.Attr) *annotatedError {
	var pcs [1]uintptr
	// Skip runtime.Callers, this function and the exported constructor.
	runtime.Callers(3, pcs[:]) //nolint:mnd // see above
	return &annotatedError{
		msg:   msg,
		pc:    pcs[0],
		attrs: attrs,
		cause: cause,
	}
}

// New creates a new error with the given message and attributes. The source location is recorded.
func New(msg string, attrs ...slog.Attr) error {
	return newAnnotatedError(msg, nil, attrs)
}

// NewSentinel creates a plain error without other context that can be used as sentinel error that can be
// detected with errors.Is.
func NewSentinel(msg string) error {
	return errors.New(msg)
}

// Wrap annotates err with a message, the caller's source location and attributes.
//
// The wrapped error is still detectable with [Is] and [As].
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return newAnnotatedError(msg, err, attrs)
}

// Error implements error interface.
func (err *annotatedError) Error() string {
	if err.cause == nil {
		return err.msg
	}
	return fmt.Sprintf("%s: %s", err.msg, err.cause.Error())
}

func (err *annotatedError) Unwrap() error {
	return err.cause
}

func (err *annotatedError) source() string {
	frames := runtime.CallersFrames([]uintptr{err.pc})
	frame, _ := frames.Next()
	return fmt.Sprintf("%s:%d", frame.File, frame.Line)
}

// LogValue formats the error for useful logging.
func (err *annotatedError) LogValue() slog.Value {
	attrs := append(
		[]slog.Attr{slog.String("msg", err.Error()), slog.String("source", err.source())},
		err.attrs...,
	)
	return slog.GroupValue(attrs...)
}

// SlogError collects the message, the innermost source location and the attributes of every annotated error
// in the chain into a single "error" attribute.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	var (
		attrs  []slog.Attr
		source string
	)
	for e := err; e != nil; e = errors.Unwrap(e) {
		var annotated *annotatedError
		if ok := errors.As(e, &annotated); !ok {
			break
		}
		source = annotated.source()
		attrs = append(attrs, annotated.attrs...)
		e = annotated
	}
	group := []any{slog.String("msg", err.Error())}
	if source != "" {
		group = append(group, slog.String("source", source))
	}
	for _, attr := range attrs {
		group = append(group, attr)
	}
	return slog.Group("error", group...)
}

// As exposes stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is exposes stdlib errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Join exposes stdlib errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Unwrap exposes stdlib errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
