package runtime

// Callable is a user closure supplied by the execution engine for
// comparators, predicates and transforms. Arguments are borrowed; the result
// is owned.
type Callable interface {
	Call(args []Value) (Value, error)
}

// NativeFunc adapts a Go function to Callable.
type NativeFunc func(args []Value) (Value, error)

func (f NativeFunc) Call(args []Value) (Value, error) { return f(args) }
