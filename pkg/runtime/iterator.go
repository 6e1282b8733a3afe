package runtime

import "sync"

// Iterator is the uniform iteration protocol. Next returns an owned value;
// the bool result reports exhaustion. Close may be called at any point and
// more than once.
type Iterator interface {
	Next() (Value, bool, error)
	Close()
}

// IteratorValue is the heap-resident form of an iterator.
type IteratorValue struct {
	mu     sync.Mutex
	next   func() (Value, bool, error)
	closer func()
	closed bool
}

// NewIteratorValue constructs an iterator with the provided driver function.
func NewIteratorValue(step func() (Value, bool, error), finalize func()) *IteratorValue {
	if step == nil {
		step = func() (Value, bool, error) { return Null, true, nil }
	}
	return &IteratorValue{next: step, closer: finalize}
}

// WrapIterator adapts any Iterator to an IteratorValue.
func WrapIterator(it Iterator) *IteratorValue {
	if iv, ok := it.(*IteratorValue); ok {
		return iv
	}
	return NewIteratorValue(it.Next, it.Close)
}

func (v *IteratorValue) Class() *Class { return IteratorClass }

// Next advances the iterator. The bool result reports whether iteration has completed.
func (v *IteratorValue) Next() (Value, bool, error) {
	if v == nil {
		return Null, true, nil
	}
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return Null, true, nil
	}
	step := v.next
	v.mu.Unlock()
	val, done, err := step()
	if done || err != nil {
		v.Close()
	}
	return val, done, err
}

// Close releases any resources held by the iterator.
func (v *IteratorValue) Close() {
	if v == nil {
		return
	}
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	closer := v.closer
	v.mu.Unlock()
	if closer != nil {
		closer()
	}
}

func (v *IteratorValue) Finalize(func(Value)) { v.Close() }

// NewIterator places it on the heap. The result is owned.
func (rt *Runtime) NewIterator(it Iterator) Value {
	return rt.Heap.Alloc(WrapIterator(it))
}

// IteratorOf returns the iterator behind v.
func (rt *Runtime) IteratorOf(v Value) (Iterator, error) {
	iv, ok := rt.Heap.Get(v).(*IteratorValue)
	if !ok {
		return nil, NewTypeError("expected an Iterator, got %s", rt.ClassOf(v).Name)
	}
	return iv, nil
}

// Iterable is implemented by objects that can produce an iterator.
type Iterable interface {
	Iterator(rt *Runtime) (Iterator, error)
}

// Iterate returns an iterator over v, which must be Iterable or an Iterator.
func (rt *Runtime) Iterate(v Value) (Iterator, error) {
	switch obj := rt.Heap.Get(v).(type) {
	case *IteratorValue:
		return obj, nil
	case Iterable:
		return obj.Iterator(rt)
	}
	return nil, NewTypeError("%s is not iterable", rt.ClassOf(v).Name)
}
