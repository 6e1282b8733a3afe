// Package numeric implements the numeric tower: integers (inline with an
// arbitrary-precision fallback), exact rationals and floats, plus parsing,
// conversion, the format-spec mini-language and marshal codecs.
//
// Binary operators require operands of the same class. Integer results are
// always demoted to the inline form when they fit.
package numeric

import (
	"math/big"

	"ember/core-go/pkg/runtime"
)

// BigInteger holds an Integer outside the inline range. Its value is never
// mutated after construction.
type BigInteger struct {
	v *big.Int
}

func (b *BigInteger) Class() *runtime.Class { return runtime.IntegerClass }

// Big returns the value. Callers must not mutate it.
func (b *BigInteger) Big() *big.Int { return b.v }

func (b *BigInteger) HashValue(w *runtime.Walker) (uint32, error) {
	return hashBig(w.Runtime().Seed(), b.v), nil
}

func (b *BigInteger) EqualValue(w *runtime.Walker, other runtime.Value) (bool, error) {
	o, ok := w.Runtime().Heap.Get(other).(*BigInteger)
	return ok && o.v.Cmp(b.v) == 0, nil
}

func (b *BigInteger) CompareValue(rt *runtime.Runtime, other runtime.Value) (int, error) {
	ob, err := BigOf(rt, other)
	if err != nil {
		return 0, err
	}
	return b.v.Cmp(ob), nil
}

func (b *BigInteger) Describe(*runtime.Walker) (string, error) {
	return b.v.String(), nil
}

func hashBig(seed uint32, n *big.Int) uint32 {
	if n.IsInt64() {
		return runtime.HashInt64(seed, n.Int64())
	}
	h := runtime.NewHasher(seed, runtime.HashTagInteger)
	h.WriteBool(n.Sign() < 0)
	h.WriteBytes(n.Bytes())
	return h.Sum32()
}

// FromInt64 returns n as an Integer value. The result is owned.
func FromInt64(rt *runtime.Runtime, n int64) runtime.Value {
	if v, ok := runtime.IntValue(n); ok {
		return v
	}
	return rt.Heap.Alloc(&BigInteger{v: big.NewInt(n)})
}

// FromBig returns n as an Integer value, demoted when it fits. n is not
// retained. The result is owned.
func FromBig(rt *runtime.Runtime, n *big.Int) runtime.Value {
	if n.IsInt64() {
		if v, ok := runtime.IntValue(n.Int64()); ok {
			return v
		}
	}
	return rt.Heap.Alloc(&BigInteger{v: new(big.Int).Set(n)})
}

// IsInteger reports whether v belongs to the Integer class.
func IsInteger(rt *runtime.Runtime, v runtime.Value) bool {
	return rt.ClassOf(v) == runtime.IntegerClass
}

// BigOf returns v as a big.Int. The result may alias the stored value and
// must not be mutated.
func BigOf(rt *runtime.Runtime, v runtime.Value) (*big.Int, error) {
	if v.IsInt() {
		return big.NewInt(int64(v.Int())), nil
	}
	if b, ok := rt.Heap.Get(v).(*BigInteger); ok {
		return b.v, nil
	}
	return nil, runtime.NewTypeError("expected Integer, got %s", rt.ClassOf(v).Name)
}

// Int64Of returns v when it fits an int64.
func Int64Of(rt *runtime.Runtime, v runtime.Value) (int64, bool) {
	if v.IsInt() {
		return int64(v.Int()), true
	}
	if b, ok := rt.Heap.Get(v).(*BigInteger); ok && b.v.IsInt64() {
		return b.v.Int64(), true
	}
	return 0, false
}

func integerOperands(rt *runtime.Runtime, op string, a, b runtime.Value) (*big.Int, *big.Int, error) {
	x, err := BigOf(rt, a)
	if err != nil {
		return nil, nil, operandError(rt, op, a, b)
	}
	y, err := BigOf(rt, b)
	if err != nil {
		return nil, nil, operandError(rt, op, a, b)
	}
	return x, y, nil
}

func operandError(rt *runtime.Runtime, op string, a, b runtime.Value) error {
	return classOperandError(rt, op, rt.ClassOf(a), b)
}

// classOperandError serves receivers that hold no handle to themselves.
func classOperandError(rt *runtime.Runtime, op string, left *runtime.Class, b runtime.Value) error {
	return runtime.NewTypeError("unsupported operands for %s: %s and %s", op, left.Name, rt.ClassOf(b).Name)
}

// IntAdd returns a+b.
func IntAdd(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	if a.IsInt() && b.IsInt() {
		return FromInt64(rt, int64(a.Int())+int64(b.Int())), nil
	}
	x, y, err := integerOperands(rt, "+", a, b)
	if err != nil {
		return runtime.Null, err
	}
	return FromBig(rt, new(big.Int).Add(x, y)), nil
}

// IntSub returns a-b.
func IntSub(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	if a.IsInt() && b.IsInt() {
		return FromInt64(rt, int64(a.Int())-int64(b.Int())), nil
	}
	x, y, err := integerOperands(rt, "-", a, b)
	if err != nil {
		return runtime.Null, err
	}
	return FromBig(rt, new(big.Int).Sub(x, y)), nil
}

// IntMul returns a*b.
func IntMul(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	if a.IsInt() && b.IsInt() {
		return FromInt64(rt, int64(a.Int())*int64(b.Int())), nil
	}
	x, y, err := integerOperands(rt, "*", a, b)
	if err != nil {
		return runtime.Null, err
	}
	return FromBig(rt, new(big.Int).Mul(x, y)), nil
}

// floorDivMod computes the quotient rounded toward negative infinity and the
// matching remainder, which takes the sign of the divisor.
func floorDivMod(x, y *big.Int) (*big.Int, *big.Int) {
	q, r := new(big.Int).QuoRem(x, y, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) != (y.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
		r.Add(r, y)
	}
	return q, r
}

func floorDivMod64(x, y int64) (int64, int64) {
	q, r := x/y, x%y
	if r != 0 && (r < 0) != (y < 0) {
		q--
		r += y
	}
	return q, r
}

// IntDivMod returns the floor quotient and modulus of a and b.
func IntDivMod(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, runtime.Value, error) {
	if a.IsInt() && b.IsInt() {
		if b.Int() == 0 {
			return runtime.Null, runtime.Null, runtime.NewZeroDivisionError()
		}
		q, r := floorDivMod64(int64(a.Int()), int64(b.Int()))
		return FromInt64(rt, q), FromInt64(rt, r), nil
	}
	x, y, err := integerOperands(rt, "divmod", a, b)
	if err != nil {
		return runtime.Null, runtime.Null, err
	}
	if y.Sign() == 0 {
		return runtime.Null, runtime.Null, runtime.NewZeroDivisionError()
	}
	q, r := floorDivMod(x, y)
	return FromBig(rt, q), FromBig(rt, r), nil
}

// IntDiv returns the floor quotient of a and b.
func IntDiv(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	q, r, err := IntDivMod(rt, a, b)
	rt.Release(r)
	return q, err
}

// IntMod returns a modulo b with the sign of b.
func IntMod(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	q, r, err := IntDivMod(rt, a, b)
	rt.Release(q)
	return r, err
}

func shiftOperands(rt *runtime.Runtime, op string, a, b runtime.Value) (*big.Int, uint, error) {
	x, y, err := integerOperands(rt, op, a, b)
	if err != nil {
		return nil, 0, err
	}
	if x.Sign() < 0 || y.Sign() < 0 {
		return nil, 0, runtime.NewValueError("negative operand for %s", op)
	}
	if !y.IsInt64() || y.Int64() > 1<<31 {
		return nil, 0, runtime.NewValueError("shift count too large")
	}
	return x, uint(y.Int64()), nil
}

// Shl returns a << b. Both operands must be non-negative.
func Shl(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	if a.IsInt() && b.IsInt() && a.Int() >= 0 && b.Int() >= 0 && b.Int() < 32 {
		return FromInt64(rt, int64(a.Int())<<uint(b.Int())), nil
	}
	x, n, err := shiftOperands(rt, "<<", a, b)
	if err != nil {
		return runtime.Null, err
	}
	if err := rt.CheckSize(int(n / 8)); err != nil {
		return runtime.Null, err
	}
	return FromBig(rt, new(big.Int).Lsh(x, n)), nil
}

// Shr returns a >> b. Both operands must be non-negative.
func Shr(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	if a.IsInt() && b.IsInt() && a.Int() >= 0 && b.Int() >= 0 {
		if b.Int() >= 32 {
			return runtime.SmallInt(0), nil
		}
		return runtime.SmallInt(a.Int() >> uint(b.Int())), nil
	}
	x, n, err := shiftOperands(rt, ">>", a, b)
	if err != nil {
		return runtime.Null, err
	}
	return FromBig(rt, new(big.Int).Rsh(x, n)), nil
}

func bitwise(rt *runtime.Runtime, op string, a, b runtime.Value, fast func(x, y int32) int32, slow func(z, x, y *big.Int) *big.Int) (runtime.Value, error) {
	if a.IsInt() && b.IsInt() {
		return runtime.SmallInt(fast(a.Int(), b.Int())), nil
	}
	x, y, err := integerOperands(rt, op, a, b)
	if err != nil {
		return runtime.Null, err
	}
	return FromBig(rt, slow(new(big.Int), x, y)), nil
}

// And returns the two's complement bitwise and.
func And(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	return bitwise(rt, "&", a, b, func(x, y int32) int32 { return x & y }, (*big.Int).And)
}

// Or returns the two's complement bitwise or.
func Or(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	return bitwise(rt, "|", a, b, func(x, y int32) int32 { return x | y }, (*big.Int).Or)
}

// Xor returns the two's complement bitwise exclusive or.
func Xor(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	return bitwise(rt, "^", a, b, func(x, y int32) int32 { return x ^ y }, (*big.Int).Xor)
}

// IntNeg returns -a.
func IntNeg(rt *runtime.Runtime, a runtime.Value) (runtime.Value, error) {
	if a.IsInt() {
		return FromInt64(rt, -int64(a.Int())), nil
	}
	x, err := BigOf(rt, a)
	if err != nil {
		return runtime.Null, err
	}
	return FromBig(rt, new(big.Int).Neg(x)), nil
}

// IntAbs returns |a|.
func IntAbs(rt *runtime.Runtime, a runtime.Value) (runtime.Value, error) {
	if a.IsInt() {
		n := int64(a.Int())
		if n < 0 {
			n = -n
		}
		return FromInt64(rt, n), nil
	}
	x, err := BigOf(rt, a)
	if err != nil {
		return runtime.Null, err
	}
	return FromBig(rt, new(big.Int).Abs(x)), nil
}

// Sign returns -1, 0 or 1.
func Sign(rt *runtime.Runtime, a runtime.Value) (int, error) {
	x, err := BigOf(rt, a)
	if err != nil {
		return 0, err
	}
	return x.Sign(), nil
}

// Pow returns a**b for a non-negative exponent.
func Pow(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	x, y, err := integerOperands(rt, "**", a, b)
	if err != nil {
		return runtime.Null, err
	}
	if y.Sign() < 0 {
		return runtime.Null, runtime.NewValueError("negative exponent")
	}
	if x.BitLen() > 1 && (!y.IsInt64() || int64(x.BitLen())*y.Int64()/8 > int64(rt.Options().Limits.MaxCollectionSize)) {
		return runtime.Null, runtime.NewOutOfMemoryError()
	}
	return FromBig(rt, new(big.Int).Exp(x, y, nil)), nil
}
