package runtime

import "strconv"

// Walker carries the active path of a deep hash, equality or to_string
// traversal. A reference met again on its own path is a loop.
type Walker struct {
	rt    *Runtime
	left  map[Value]int
	right map[Value]int
	depth int
}

// NewWalker starts a traversal.
func (rt *Runtime) NewWalker() *Walker {
	return &Walker{rt: rt}
}

// Runtime returns the owning runtime.
func (w *Walker) Runtime() *Runtime { return w.rt }

func (w *Walker) descend() error {
	w.depth++
	if w.depth > w.rt.opts.Limits.MaxDepth {
		w.depth--
		return NewStackOverflowError()
	}
	return nil
}

func (w *Walker) ascend() { w.depth-- }

func enterPath(path *map[Value]int, v Value) bool {
	if *path == nil {
		*path = make(map[Value]int)
	}
	if (*path)[v] > 0 {
		return false
	}
	(*path)[v]++
	return true
}

func leavePath(path map[Value]int, v Value) {
	if path[v] <= 1 {
		delete(path, v)
		return
	}
	path[v]--
}

func (w *Walker) enter(v Value) error {
	if !v.IsRef() {
		return nil
	}
	if err := w.descend(); err != nil {
		return err
	}
	if !enterPath(&w.left, v) {
		w.ascend()
		return NewLoopReferenceError(w.rt.ClassOf(v).Name)
	}
	return nil
}

func (w *Walker) leave(v Value) {
	if !v.IsRef() {
		return
	}
	leavePath(w.left, v)
	w.ascend()
}

// Hash computes the structural hash of v.
func (w *Walker) Hash(v Value) (uint32, error) {
	switch {
	case v.IsNull():
		return NewHasher(w.rt.seed, HashTagNull).Sum32(), nil
	case v.IsBool():
		h := NewHasher(w.rt.seed, HashTagBool)
		h.WriteBool(v.Truth())
		return h.Sum32(), nil
	case v.IsInt():
		return HashInt64(w.rt.seed, int64(v.Int())), nil
	}
	obj := w.rt.Heap.Get(v)
	hv, ok := obj.(Hashable)
	if !ok {
		return 0, NewTypeError("%s is not hashable", w.rt.ClassOf(v).Name)
	}
	if err := w.enter(v); err != nil {
		return 0, err
	}
	defer w.leave(v)
	return hv.HashValue(w)
}

// HashInt64 hashes an integer so that inline and big forms agree.
func HashInt64(seed uint32, n int64) uint32 {
	h := NewHasher(seed, HashTagInteger)
	h.WriteInt64(n)
	return h.Sum32()
}

// Equal reports structural equality. Values of different classes are unequal.
func (w *Walker) Equal(a, b Value) (bool, error) {
	ca, cb := w.rt.ClassOf(a), w.rt.ClassOf(b)
	if a == b && identityDecides(ca) {
		return true, nil
	}
	if ca != cb {
		return false, nil
	}
	if !a.IsRef() && !b.IsRef() {
		return false, nil
	}
	recv, other := a, b
	if !recv.IsRef() {
		recv, other = b, a
	}
	eq, ok := w.rt.Heap.Get(recv).(Equatable)
	if !ok {
		return a == b, nil
	}
	if err := w.descend(); err != nil {
		return false, err
	}
	defer w.ascend()
	if a.IsRef() && b.IsRef() {
		if !enterPath(&w.left, a) {
			return false, NewLoopReferenceError(ca.Name)
		}
		defer leavePath(w.left, a)
		if !enterPath(&w.right, b) {
			return false, NewLoopReferenceError(cb.Name)
		}
		defer leavePath(w.right, b)
	}
	return eq.EqualValue(w, other)
}

// ToString renders v for display.
func (w *Walker) ToString(v Value) (string, error) {
	switch {
	case v.IsNull():
		return "null", nil
	case v.IsBool():
		if v.Truth() {
			return "true", nil
		}
		return "false", nil
	case v.IsInt():
		return strconv.FormatInt(int64(v.Int()), 10), nil
	}
	obj := w.rt.Heap.Get(v)
	if obj == nil {
		return "", NewValueError("stale reference")
	}
	d, ok := obj.(Describable)
	if !ok {
		return "<" + obj.Class().Name + ">", nil
	}
	if err := w.enter(v); err != nil {
		return "", err
	}
	defer w.leave(v)
	return d.Describe(w)
}

// Repr renders v as an element of a container: strings are quoted.
func (w *Walker) Repr(v Value) (string, error) {
	if s, ok := w.rt.Heap.Get(v).(*String); ok {
		return quoteString(s.text), nil
	}
	return w.ToString(v)
}

// Hash computes the structural hash of v.
func (rt *Runtime) Hash(v Value) (uint32, error) {
	return rt.NewWalker().Hash(v)
}

// identityDecides reports whether one handle on both sides settles
// equality. Floats and containers, which may hold a NaN, never take the
// shortcut so NaN stays unequal to itself.
func identityDecides(c *Class) bool {
	switch c.Kind {
	case KindFloat, KindList, KindMap, KindSet, KindRange, KindObject:
		return false
	}
	return true
}

// Equal reports structural equality of a and b.
func (rt *Runtime) Equal(a, b Value) (bool, error) {
	return rt.NewWalker().Equal(a, b)
}

// ToString renders v for display.
func (rt *Runtime) ToString(v Value) (string, error) {
	return rt.NewWalker().ToString(v)
}

// Repr renders v with strings quoted.
func (rt *Runtime) Repr(v Value) (string, error) {
	return rt.NewWalker().Repr(v)
}

// Compare orders two values of the same ordered class: -1, 0 or 1.
func (rt *Runtime) Compare(a, b Value) (int, error) {
	ca, cb := rt.ClassOf(a), rt.ClassOf(b)
	if ca != cb {
		return 0, NewTypeError("cannot compare %s with %s", ca.Name, cb.Name)
	}
	if a.IsInt() && b.IsInt() {
		x, y := a.Int(), b.Int()
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	}
	if a.IsBool() || a.IsNull() {
		return 0, NewTypeError("%s is not ordered", ca.Name)
	}
	if a.IsRef() {
		if ord, ok := rt.Heap.Get(a).(Ordered); ok {
			return ord.CompareValue(rt, b)
		}
	} else if ord, ok := rt.Heap.Get(b).(Ordered); ok {
		c, err := ord.CompareValue(rt, a)
		return -c, err
	}
	return 0, NewTypeError("%s is not ordered", ca.Name)
}
