package runtime

import "fmt"

// Phase is the position of an ErrorState in its lifecycle.
type Phase int

const (
	PhaseArmed Phase = iota
	PhaseRaised
	PhaseUnwinding
	PhaseUncaught
)

func (p Phase) String() string {
	switch p {
	case PhaseArmed:
		return "armed"
	case PhaseRaised:
		return "raised"
	case PhaseUnwinding:
		return "unwinding"
	case PhaseUncaught:
		return "uncaught"
	default:
		return fmt.Sprintf("phase_%d", int(p))
	}
}

// ErrorState is the current-error slot the engine drives at call boundaries.
type ErrorState struct {
	phase   Phase
	current *Error
}

// Phase returns the slot's lifecycle position.
func (s *ErrorState) Phase() Phase { return s.phase }

// Pending reports whether an error occupies the slot.
func (s *ErrorState) Pending() bool { return s.current != nil }

// Current returns the error in the slot, or nil.
func (s *ErrorState) Current() *Error { return s.current }

// Raise stores err. Raising over an unhandled error is a fatal inconsistency.
func (s *ErrorState) Raise(err *Error) {
	if err == nil {
		panic("runtime: raise of nil error")
	}
	if s.current != nil {
		panic(fmt.Sprintf("runtime: raise of %s while %s is %s", err.Kind, s.current.Kind, s.phase))
	}
	s.current = err
	s.phase = PhaseRaised
}

// Throw raises a fresh error of kind and returns it.
func (s *ErrorState) Throw(kind ErrorKind, format string, args ...any) *Error {
	err := NewError(kind, format, args...)
	s.Raise(err)
	return err
}

// Capture raises err when it is non-nil and reports whether it did.
func (s *ErrorState) Capture(err error) bool {
	if err == nil {
		return false
	}
	s.Raise(AsError(err))
	return true
}

// Unwind records that the error crossed a call-frame boundary.
func (s *ErrorState) Unwind(module, function string, line int) {
	if s.current == nil {
		panic("runtime: unwind with no pending error")
	}
	s.current.AddFrame(Frame{Module: module, Function: function, Line: line})
	s.phase = PhaseUnwinding
}

// Clear hands the error to a catch site and rearms the slot.
func (s *ErrorState) Clear() *Error {
	err := s.current
	s.current = nil
	s.phase = PhaseArmed
	return err
}

// Uncaught marks the pending error as having reached the driver and returns
// its rendering.
func (s *ErrorState) Uncaught() string {
	if s.current == nil {
		return ""
	}
	s.phase = PhaseUncaught
	return s.current.Render()
}
