package collections

import (
	"ember/core-go/pkg/numeric"
	"ember/core-go/pkg/runtime"
)

// Range is an immutable arithmetic progression. A Null end is unbounded.
// Direction is fixed at construction.
type Range struct {
	rt         *runtime.Runtime
	self       runtime.Value
	begin      runtime.Value
	end        runtime.Value
	step       runtime.Value
	openEnded  bool
	decreasing bool
}

func (r *Range) Class() *runtime.Class { return runtime.RangeClass }

func unitStep(rt *runtime.Runtime, class *runtime.Class) (runtime.Value, error) {
	switch class {
	case runtime.IntegerClass:
		return runtime.SmallInt(1), nil
	case runtime.FloatClass:
		return numeric.NewFloat(rt, 1), nil
	case runtime.RationalClass:
		return numeric.NewRational(rt, runtime.SmallInt(1), runtime.SmallInt(1))
	}
	return runtime.Null, runtime.NewTypeError("Range over %s needs an explicit step", class.Name)
}

// NewRange builds begin..end. openEnded excludes end. A Null step means one
// unit of begin's class. The result is owned.
func NewRange(rt *runtime.Runtime, begin, end runtime.Value, openEnded bool, step runtime.Value) (runtime.Value, error) {
	class := rt.ClassOf(begin)
	if !class.Ordered {
		return runtime.Null, runtime.NewTypeError("Range bounds must be ordered, got %s", class.Name)
	}
	if !end.IsNull() && rt.ClassOf(end) != class {
		return runtime.Null, runtime.NewTypeError("Range bounds differ: %s and %s", class.Name, rt.ClassOf(end).Name)
	}
	if step.IsNull() {
		if numeric.IsNumber(rt, begin) {
			s, err := unitStep(rt, class)
			if err != nil {
				return runtime.Null, err
			}
			step = s
		}
	} else {
		if rt.ClassOf(step) != class {
			return runtime.Null, runtime.NewTypeError("Range step must be %s, got %s", class.Name, rt.ClassOf(step).Name)
		}
		zero, err := numeric.Sub(rt, step, step)
		if err != nil {
			return runtime.Null, err
		}
		c, err := rt.Compare(step, zero)
		rt.Release(zero)
		if err != nil {
			return runtime.Null, err
		}
		if c <= 0 {
			return runtime.Null, runtime.NewValueError("Range step must be positive")
		}
		rt.Retain(step)
	}
	decreasing := false
	if !end.IsNull() {
		c, err := rt.Compare(begin, end)
		if err != nil {
			rt.Release(step)
			return runtime.Null, err
		}
		decreasing = c > 0
	}
	r := &Range{
		rt:         rt,
		begin:      rt.Retain(begin),
		end:        rt.Retain(end),
		step:       step,
		openEnded:  openEnded,
		decreasing: decreasing,
	}
	r.self = rt.Heap.Alloc(r)
	return r.self, nil
}

// RangeOf returns the Range behind v.
func RangeOf(rt *runtime.Runtime, v runtime.Value) (*Range, error) {
	r, ok := rt.Heap.Get(v).(*Range)
	if !ok {
		return nil, runtime.NewTypeError("expected Range, got %s", rt.ClassOf(v).Name)
	}
	return r, nil
}

func (r *Range) Finalize(release func(runtime.Value)) {
	release(r.begin)
	release(r.end)
	release(r.step)
}

// Begin, End and Step return the fields, borrowed.
func (r *Range) Begin() runtime.Value { return r.begin }
func (r *Range) End() runtime.Value   { return r.end }
func (r *Range) Step() runtime.Value  { return r.step }
func (r *Range) OpenEnded() bool      { return r.openEnded }
func (r *Range) IsDecreasing() bool   { return r.decreasing }

// inBounds reports whether x has not passed the end.
func (r *Range) inBounds(x runtime.Value) (bool, error) {
	if r.end.IsNull() {
		return true, nil
	}
	c, err := r.rt.Compare(x, r.end)
	if err != nil {
		return false, err
	}
	if r.decreasing {
		c = -c
	}
	if r.openEnded {
		return c < 0, nil
	}
	return c <= 0, nil
}

// Contains reports whether x lies between the bounds.
func (r *Range) Contains(x runtime.Value) (bool, error) {
	if r.rt.ClassOf(x) != r.rt.ClassOf(r.begin) {
		return false, nil
	}
	c, err := r.rt.Compare(x, r.begin)
	if err != nil {
		return false, err
	}
	if (r.decreasing && c > 0) || (!r.decreasing && c < 0) {
		return false, nil
	}
	ok, err := r.inBounds(x)
	if err != nil || !ok {
		return false, err
	}
	if numeric.IsInteger(r.rt, x) {
		diff, err := numeric.Sub(r.rt, x, r.begin)
		if err != nil {
			return false, err
		}
		defer r.rt.Release(diff)
		rem, err := numeric.Mod(r.rt, diff, r.step)
		if err != nil {
			return false, err
		}
		defer r.rt.Release(rem)
		sign, _ := numeric.Sign(r.rt, rem)
		return sign == 0, nil
	}
	return true, nil
}

// Len counts the elements of a bounded Integer range.
func (r *Range) Len() (int, error) {
	if r.end.IsNull() {
		return 0, runtime.NewValueError("unbounded Range has no length")
	}
	b, ok1 := numeric.Int64Of(r.rt, r.begin)
	e, ok2 := numeric.Int64Of(r.rt, r.end)
	s, ok3 := numeric.Int64Of(r.rt, r.step)
	if !ok1 || !ok2 || !ok3 {
		return 0, runtime.NewTypeError("length requires a bounded Integer Range")
	}
	span := e - b
	if r.decreasing {
		span = -span
	}
	if r.openEnded {
		if span <= 0 {
			return 0, nil
		}
		return int((span-1)/s + 1), nil
	}
	if span < 0 {
		return 0, nil
	}
	return int(span/s + 1), nil
}

// Iterator steps from begin toward end.
func (r *Range) Iterator(rt *runtime.Runtime) (runtime.Iterator, error) {
	if !numeric.IsNumber(rt, r.begin) {
		return nil, runtime.NewTypeError("cannot iterate a Range over %s", rt.ClassOf(r.begin).Name)
	}
	advance := numeric.Add
	if r.decreasing {
		advance = numeric.Sub
	}
	rt.Retain(r.self)
	cur := rt.Retain(r.begin)
	return runtime.NewIteratorValue(func() (runtime.Value, bool, error) {
		ok, err := r.inBounds(cur)
		if err != nil || !ok {
			return runtime.Null, true, err
		}
		next, err := advance(rt, cur, r.step)
		if err != nil {
			return runtime.Null, false, err
		}
		out := cur
		cur = next
		return out, false, nil
	}, func() {
		rt.Release(cur)
		rt.Release(r.self)
	}), nil
}

func (r *Range) HashValue(w *runtime.Walker) (uint32, error) {
	h := runtime.NewHasher(w.Runtime().Seed(), runtime.HashTagRange)
	for _, v := range []runtime.Value{r.begin, r.end, r.step} {
		hv, err := w.Hash(v)
		if err != nil {
			return 0, err
		}
		h.WriteUint32(hv)
	}
	h.WriteBool(r.openEnded)
	return h.Sum32(), nil
}

func (r *Range) EqualValue(w *runtime.Walker, other runtime.Value) (bool, error) {
	o, ok := w.Runtime().Heap.Get(other).(*Range)
	if !ok || o.openEnded != r.openEnded {
		return false, nil
	}
	for _, pair := range [][2]runtime.Value{{r.begin, o.begin}, {r.end, o.end}, {r.step, o.step}} {
		eq, err := w.Equal(pair[0], pair[1])
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func (r *Range) Describe(w *runtime.Walker) (string, error) {
	b, err := w.Repr(r.begin)
	if err != nil {
		return "", err
	}
	e := ""
	if !r.end.IsNull() {
		if e, err = w.Repr(r.end); err != nil {
			return "", err
		}
	}
	op := ".."
	if r.openEnded {
		op = "..<"
	}
	s := b + op + e
	if !r.step.IsNull() && !(r.step.IsInt() && r.step.Int() == 1) {
		st, err := w.Repr(r.step)
		if err != nil {
			return "", err
		}
		s += " by " + st
	}
	return s, nil
}
