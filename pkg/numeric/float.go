package numeric

import (
	"math"

	"ember/core-go/pkg/runtime"
)

// Float boxes an IEEE double.
type Float struct {
	f float64
}

func (f *Float) Class() *runtime.Class { return runtime.FloatClass }

// Float64 returns the boxed value.
func (f *Float) Float64() float64 { return f.f }

func (f *Float) HashValue(w *runtime.Walker) (uint32, error) {
	h := runtime.NewHasher(w.Runtime().Seed(), runtime.HashTagFloat)
	h.WriteFloat64(f.f)
	return h.Sum32(), nil
}

func (f *Float) EqualValue(w *runtime.Walker, other runtime.Value) (bool, error) {
	o, ok := w.Runtime().Heap.Get(other).(*Float)
	return ok && o.f == f.f, nil
}

func (f *Float) CompareValue(rt *runtime.Runtime, other runtime.Value) (int, error) {
	o, ok := rt.Heap.Get(other).(*Float)
	if !ok {
		return 0, classOperandError(rt, "<=>", runtime.FloatClass, other)
	}
	switch {
	case math.IsNaN(f.f) || math.IsNaN(o.f):
		return 0, runtime.NewTypeError("NaN is unordered")
	case f.f < o.f:
		return -1, nil
	case f.f > o.f:
		return 1, nil
	}
	return 0, nil
}

func (f *Float) Describe(w *runtime.Walker) (string, error) {
	return formatFloatDefault(f.f, w.Runtime().Locale().Decimal), nil
}

// NewFloat boxes x. The result is owned.
func NewFloat(rt *runtime.Runtime, x float64) runtime.Value {
	return rt.Heap.Alloc(&Float{f: x})
}

// FloatOf returns the value of a Float.
func FloatOf(rt *runtime.Runtime, v runtime.Value) (float64, error) {
	f, ok := rt.Heap.Get(v).(*Float)
	if !ok {
		return 0, runtime.NewTypeError("expected Float, got %s", rt.ClassOf(v).Name)
	}
	return f.f, nil
}

func floatOperands(rt *runtime.Runtime, op string, a, b runtime.Value) (float64, float64, error) {
	x, ok1 := rt.Heap.Get(a).(*Float)
	y, ok2 := rt.Heap.Get(b).(*Float)
	if !ok1 || !ok2 {
		return 0, 0, operandError(rt, op, a, b)
	}
	return x.f, y.f, nil
}

func floatBinary(rt *runtime.Runtime, op string, a, b runtime.Value, fn func(x, y float64) float64) (runtime.Value, error) {
	x, y, err := floatOperands(rt, op, a, b)
	if err != nil {
		return runtime.Null, err
	}
	return NewFloat(rt, fn(x, y)), nil
}

// FloatAdd returns a+b.
func FloatAdd(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	return floatBinary(rt, "+", a, b, func(x, y float64) float64 { return x + y })
}

// FloatSub returns a-b.
func FloatSub(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	return floatBinary(rt, "-", a, b, func(x, y float64) float64 { return x - y })
}

// FloatMul returns a*b.
func FloatMul(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	return floatBinary(rt, "*", a, b, func(x, y float64) float64 { return x * y })
}

// FloatDiv returns a/b with IEEE semantics for a zero divisor.
func FloatDiv(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	return floatBinary(rt, "/", a, b, func(x, y float64) float64 { return x / y })
}

// FloatMod returns the floor modulus, taking the sign of b.
func FloatMod(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	return floatBinary(rt, "%", a, b, floorMod)
}

func floorMod(x, y float64) float64 {
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}

// FloatNeg returns -a.
func FloatNeg(rt *runtime.Runtime, a runtime.Value) (runtime.Value, error) {
	x, err := FloatOf(rt, a)
	if err != nil {
		return runtime.Null, err
	}
	return NewFloat(rt, -x), nil
}
