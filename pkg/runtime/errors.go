package runtime

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind names an error class. Kinds are themselves errors so callers can
// write errors.Is(err, runtime.ValueError).
type ErrorKind string

const (
	BaseError          ErrorKind = "Error"
	ValueError         ErrorKind = "ValueError"
	TypeError          ErrorKind = "TypeError"
	IndexError         ErrorKind = "IndexError"
	FormatError        ErrorKind = "FormatError"
	ParseError         ErrorKind = "ParseError"
	LoopReferenceError ErrorKind = "LoopReferenceError"
	ArithmeticError    ErrorKind = "ArithmeticError"
	ZeroDivisionError  ErrorKind = "ZeroDivisionError"
	FloatOverflowError ErrorKind = "FloatOverflowError"
	StopIteration      ErrorKind = "StopIteration"
	OutOfMemory        ErrorKind = "OutOfMemory"
	StackOverflow      ErrorKind = "StackOverflow"
)

func (k ErrorKind) Error() string { return string(k) }

// Parent returns the enclosing family, or "" for the root.
func (k ErrorKind) Parent() ErrorKind {
	switch k {
	case BaseError:
		return ""
	case ZeroDivisionError, FloatOverflowError:
		return ArithmeticError
	default:
		return BaseError
	}
}

// IsA reports whether k is family or one of its members.
func (k ErrorKind) IsA(family ErrorKind) bool {
	for cur := k; cur != ""; cur = cur.Parent() {
		if cur == family {
			return true
		}
	}
	return false
}

// Frame is one stack trace entry.
type Frame struct {
	Module   string
	Function string
	Line     int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s:%d in %s", f.Module, f.Line, f.Function)
}

// Error is the runtime's error value. Frames are appended innermost first as
// the engine unwinds.
type Error struct {
	Kind    ErrorKind
	Message string
	trace   []Frame
	cause   error

	self Value
	msg  Value
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrorKind:
		return e.Kind.IsA(t)
	case *Error:
		return e == t
	}
	return false
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Class() *Class { return ErrorClass }

func (e *Error) Describe(*Walker) (string, error) { return e.Error(), nil }

// Finalize drops the heap handle so the next ErrorValue allocates afresh.
// The message is interned and needs no release.
func (e *Error) Finalize(func(Value)) {
	e.self = Null
}

// MessageValue returns the interned message String, or Null before the
// error has been given a heap handle.
func (e *Error) MessageValue() Value { return e.msg }

// ErrorValue returns the heap handle for err, allocating it on first use
// with an interned message. Errors travel as Go values until the engine
// binds one, so only caught or inspected errors occupy a slot. Repeated
// calls return the same handle while it is live. The result is owned.
func (rt *Runtime) ErrorValue(err error) Value {
	e := AsError(err)
	if e == nil {
		return Null
	}
	if e.self != Null && rt.Heap.Get(e.self) == Object(e) {
		return rt.Retain(e.self)
	}
	e.msg = rt.Intern(e.Message)
	e.self = rt.Heap.Alloc(e)
	return e.self
}

// ErrorOf returns the Error behind v.
func (rt *Runtime) ErrorOf(v Value) (*Error, bool) {
	e, ok := rt.Heap.Get(v).(*Error)
	return e, ok
}

// AddFrame appends a trace entry.
func (e *Error) AddFrame(f Frame) {
	e.trace = append(e.trace, f)
}

// Trace returns the frames in unwind order, innermost first.
func (e *Error) Trace() []Frame {
	out := make([]Frame, len(e.trace))
	copy(out, e.trace)
	return out
}

// CallOrder returns the frames outermost call first.
func (e *Error) CallOrder() []Frame {
	out := make([]Frame, len(e.trace))
	for i, f := range e.trace {
		out[len(e.trace)-1-i] = f
	}
	return out
}

// Render formats the error as the driver prints an uncaught error.
func (e *Error) Render() string {
	var b strings.Builder
	b.WriteString(e.Error())
	for _, f := range e.CallOrder() {
		b.WriteString("\n  at ")
		b.WriteString(f.String())
	}
	return b.String()
}

// NewError builds an error of the given kind.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Message: msg}
}

// WrapError builds an error of kind whose Unwrap returns cause.
func WrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	e := NewError(kind, format, args...)
	e.cause = cause
	return e
}

func NewValueError(format string, args ...any) *Error {
	return NewError(ValueError, format, args...)
}

func NewTypeError(format string, args ...any) *Error {
	return NewError(TypeError, format, args...)
}

func NewIndexError(format string, args ...any) *Error {
	return NewError(IndexError, format, args...)
}

func NewFormatError(format string, args ...any) *Error {
	return NewError(FormatError, format, args...)
}

func NewParseError(format string, args ...any) *Error {
	return NewError(ParseError, format, args...)
}

func NewZeroDivisionError() *Error {
	return NewError(ZeroDivisionError, "division by zero")
}

func NewFloatOverflowError(format string, args ...any) *Error {
	return NewError(FloatOverflowError, format, args...)
}

func NewLoopReferenceError(what string) *Error {
	return NewError(LoopReferenceError, "%s contains a reference to itself", what)
}

func NewOutOfMemoryError() *Error {
	return NewError(OutOfMemory, "allocation ceiling exceeded")
}

func NewStackOverflowError() *Error {
	return NewError(StackOverflow, "maximum nesting depth exceeded")
}

// NewStopIteration returns the stop signal.
func NewStopIteration() *Error {
	return NewError(StopIteration, "")
}

// ModifyDuringIteration is raised by structural mutation of a locked collection.
func ModifyDuringIteration(class string) *Error {
	return NewValueError("cannot modify %s during iteration", class)
}

// IsStop reports whether err is the stop signal.
func IsStop(err error) bool {
	return errors.Is(err, StopIteration)
}

// AsError converts any error into a runtime error. Foreign errors become a
// base Error wrapping the original.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return re
	}
	var kind ErrorKind
	if errors.As(err, &kind) {
		return &Error{Kind: kind}
	}
	return &Error{Kind: BaseError, Message: err.Error(), cause: err}
}
