package iter

import (
	"ember/core-go/pkg/runtime"
)

// Frame is a suspended body supplied by the execution engine. Resume runs it
// to its next yield and reports yielded=true with an owned value, or
// yielded=false once the body has finished.
type Frame interface {
	Resume() (runtime.Value, bool, error)
}

// Discarder is implemented by frames that hold state to free once the
// generator is closed or finished.
type Discarder interface {
	Discard()
}

// NewGenerator drives frame as an iterator. A StopIteration error ends the
// generator like a normal return; once finished it stays finished.
func NewGenerator(rt *runtime.Runtime, frame Frame) *runtime.IteratorValue {
	finished := false
	return runtime.NewIteratorValue(func() (runtime.Value, bool, error) {
		if finished {
			return runtime.Null, true, nil
		}
		v, yielded, err := frame.Resume()
		if err != nil {
			finished = true
			return end(err)
		}
		if !yielded {
			finished = true
			rt.Release(v)
			return runtime.Null, true, nil
		}
		return v, false, nil
	}, func() {
		if d, ok := frame.(Discarder); ok {
			d.Discard()
		}
	})
}
