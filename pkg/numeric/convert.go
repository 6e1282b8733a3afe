package numeric

import (
	"math"
	"math/big"

	"ember/core-go/pkg/runtime"
)

// FromFloat truncates x toward zero. NaN and infinities are ValueErrors.
func FromFloat(rt *runtime.Runtime, x float64) (runtime.Value, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return runtime.Null, runtime.NewValueError("cannot convert %v to Integer", x)
	}
	t := math.Trunc(x)
	if t >= math.MinInt64 && t < math.MaxInt64 {
		return FromInt64(rt, int64(t)), nil
	}
	b, _ := big.NewFloat(t).Int(nil)
	return FromBig(rt, b), nil
}

// FromRational truncates a Rational toward zero.
func FromRational(rt *runtime.Runtime, v runtime.Value) (runtime.Value, error) {
	r, err := RationalOf(rt, v)
	if err != nil {
		return runtime.Null, err
	}
	return FromBig(rt, new(big.Int).Quo(r.num, r.den)), nil
}

// RationalToInteger truncates toward zero.
func RationalToInteger(rt *runtime.Runtime, v runtime.Value) (runtime.Value, error) {
	return FromRational(rt, v)
}

// RationalToFloat converts to the nearest double.
func RationalToFloat(rt *runtime.Runtime, v runtime.Value) (runtime.Value, error) {
	r, err := RationalOf(rt, v)
	if err != nil {
		return runtime.Null, err
	}
	f, _ := r.Rat().Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return runtime.Null, runtime.NewFloatOverflowError("Rational too large for Float")
	}
	return NewFloat(rt, f), nil
}

// IntegerToFloat converts to the nearest double.
func IntegerToFloat(rt *runtime.Runtime, v runtime.Value) (runtime.Value, error) {
	if v.IsInt() {
		return NewFloat(rt, float64(v.Int())), nil
	}
	b, err := BigOf(rt, v)
	if err != nil {
		return runtime.Null, err
	}
	f, _ := new(big.Float).SetInt(b).Float64()
	if math.IsInf(f, 0) {
		return runtime.Null, runtime.NewFloatOverflowError("Integer too large for Float")
	}
	return NewFloat(rt, f), nil
}

// ToFloat converts any number to a Float.
func ToFloat(rt *runtime.Runtime, v runtime.Value) (runtime.Value, error) {
	switch rt.ClassOf(v) {
	case runtime.FloatClass:
		return rt.Retain(v), nil
	case runtime.IntegerClass:
		return IntegerToFloat(rt, v)
	case runtime.RationalClass:
		return RationalToFloat(rt, v)
	}
	return runtime.Null, runtime.NewTypeError("cannot convert %s to Float", rt.ClassOf(v).Name)
}

// ToInteger converts any number to an Integer, truncating toward zero.
func ToInteger(rt *runtime.Runtime, v runtime.Value) (runtime.Value, error) {
	switch rt.ClassOf(v) {
	case runtime.IntegerClass:
		return rt.Retain(v), nil
	case runtime.RationalClass:
		return FromRational(rt, v)
	case runtime.FloatClass:
		f, _ := FloatOf(rt, v)
		return FromFloat(rt, f)
	}
	return runtime.Null, runtime.NewTypeError("cannot convert %s to Integer", rt.ClassOf(v).Name)
}

// ToRational converts any number to an exact Rational. Floats convert to
// their exact binary value.
func ToRational(rt *runtime.Runtime, v runtime.Value) (runtime.Value, error) {
	switch rt.ClassOf(v) {
	case runtime.RationalClass:
		return rt.Retain(v), nil
	case runtime.IntegerClass:
		b, _ := BigOf(rt, v)
		return rt.Heap.Alloc(&Rational{num: new(big.Int).Set(b), den: big.NewInt(1)}), nil
	case runtime.FloatClass:
		f, _ := FloatOf(rt, v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return runtime.Null, runtime.NewValueError("cannot convert %v to Rational", f)
		}
		return RationalFromBig(rt, new(big.Rat).SetFloat64(f)), nil
	}
	return runtime.Null, runtime.NewTypeError("cannot convert %s to Rational", rt.ClassOf(v).Name)
}
