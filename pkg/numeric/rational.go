package numeric

import (
	"math/big"

	"ember/core-go/pkg/runtime"
)

// Rational is an exact fraction in lowest terms with a positive denominator.
type Rational struct {
	num *big.Int
	den *big.Int
}

func (r *Rational) Class() *runtime.Class { return runtime.RationalClass }

// Num and Den return the reduced parts. Callers must not mutate them.
func (r *Rational) Num() *big.Int { return r.num }
func (r *Rational) Den() *big.Int { return r.den }

// Rat returns the value as a big.Rat.
func (r *Rational) Rat() *big.Rat {
	return new(big.Rat).SetFrac(r.num, r.den)
}

func (r *Rational) HashValue(w *runtime.Walker) (uint32, error) {
	seed := w.Runtime().Seed()
	h := runtime.NewHasher(seed, runtime.HashTagRational)
	h.WriteUint32(hashBig(seed, r.num))
	h.WriteUint32(hashBig(seed, r.den))
	return h.Sum32(), nil
}

func (r *Rational) EqualValue(w *runtime.Walker, other runtime.Value) (bool, error) {
	o, ok := w.Runtime().Heap.Get(other).(*Rational)
	return ok && o.num.Cmp(r.num) == 0 && o.den.Cmp(r.den) == 0, nil
}

func (r *Rational) CompareValue(rt *runtime.Runtime, other runtime.Value) (int, error) {
	o, ok := rt.Heap.Get(other).(*Rational)
	if !ok {
		return 0, classOperandError(rt, "<=>", runtime.RationalClass, other)
	}
	return compareFractions(r.num, r.den, o.num, o.den), nil
}

func (r *Rational) Describe(*runtime.Walker) (string, error) {
	return "(" + r.num.String() + "/" + r.den.String() + ")", nil
}

func compareFractions(an, ad, bn, bd *big.Int) int {
	left := new(big.Int).Mul(an, bd)
	right := new(big.Int).Mul(bn, ad)
	return left.Cmp(right)
}

// normalizeRatio reduces num/den in place: lowest terms, positive
// denominator, and 0/1 for zero.
func normalizeRatio(num, den *big.Int) error {
	if den.Sign() == 0 {
		return runtime.NewZeroDivisionError()
	}
	if num.Sign() == 0 {
		den.SetInt64(1)
		return nil
	}
	if den.Sign() < 0 {
		num.Neg(num)
		den.Neg(den)
	}
	gcd := new(big.Int).GCD(nil, nil, new(big.Int).Abs(num), den)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		num.Quo(num, gcd)
		den.Quo(den, gcd)
	}
	return nil
}

// ratFromParts takes ownership of num and den.
func ratFromParts(rt *runtime.Runtime, num, den *big.Int) (runtime.Value, error) {
	if err := normalizeRatio(num, den); err != nil {
		return runtime.Null, err
	}
	return rt.Heap.Alloc(&Rational{num: num, den: den}), nil
}

// NewRational builds num/den from two Integers, reduced.
func NewRational(rt *runtime.Runtime, num, den runtime.Value) (runtime.Value, error) {
	n, d, err := integerOperands(rt, "Rational", num, den)
	if err != nil {
		return runtime.Null, err
	}
	return ratFromParts(rt, new(big.Int).Set(n), new(big.Int).Set(d))
}

// RationalFromBig builds a Rational from a big.Rat, which is already reduced.
func RationalFromBig(rt *runtime.Runtime, r *big.Rat) runtime.Value {
	return rt.Heap.Alloc(&Rational{
		num: new(big.Int).Set(r.Num()),
		den: new(big.Int).Set(r.Denom()),
	})
}

// RationalOf returns the Rational behind v.
func RationalOf(rt *runtime.Runtime, v runtime.Value) (*Rational, error) {
	r, ok := rt.Heap.Get(v).(*Rational)
	if !ok {
		return nil, runtime.NewTypeError("expected Rational, got %s", rt.ClassOf(v).Name)
	}
	return r, nil
}

func rationalOperands(rt *runtime.Runtime, op string, a, b runtime.Value) (*Rational, *Rational, error) {
	x, ok1 := rt.Heap.Get(a).(*Rational)
	y, ok2 := rt.Heap.Get(b).(*Rational)
	if !ok1 || !ok2 {
		return nil, nil, operandError(rt, op, a, b)
	}
	return x, y, nil
}

// Numerator returns the reduced numerator as an Integer.
func Numerator(rt *runtime.Runtime, v runtime.Value) (runtime.Value, error) {
	r, err := RationalOf(rt, v)
	if err != nil {
		return runtime.Null, err
	}
	return FromBig(rt, r.num), nil
}

// Denominator returns the reduced, positive denominator as an Integer.
func Denominator(rt *runtime.Runtime, v runtime.Value) (runtime.Value, error) {
	r, err := RationalOf(rt, v)
	if err != nil {
		return runtime.Null, err
	}
	return FromBig(rt, r.den), nil
}

// RatAdd returns a+b.
func RatAdd(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	x, y, err := rationalOperands(rt, "+", a, b)
	if err != nil {
		return runtime.Null, err
	}
	num := new(big.Int).Mul(x.num, y.den)
	num.Add(num, new(big.Int).Mul(y.num, x.den))
	return ratFromParts(rt, num, new(big.Int).Mul(x.den, y.den))
}

// RatSub returns a-b.
func RatSub(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	x, y, err := rationalOperands(rt, "-", a, b)
	if err != nil {
		return runtime.Null, err
	}
	num := new(big.Int).Mul(x.num, y.den)
	num.Sub(num, new(big.Int).Mul(y.num, x.den))
	return ratFromParts(rt, num, new(big.Int).Mul(x.den, y.den))
}

// RatMul returns a*b.
func RatMul(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	x, y, err := rationalOperands(rt, "*", a, b)
	if err != nil {
		return runtime.Null, err
	}
	return ratFromParts(rt, new(big.Int).Mul(x.num, y.num), new(big.Int).Mul(x.den, y.den))
}

// RatDiv returns a/b.
func RatDiv(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	x, y, err := rationalOperands(rt, "/", a, b)
	if err != nil {
		return runtime.Null, err
	}
	return ratFromParts(rt, new(big.Int).Mul(x.num, y.den), new(big.Int).Mul(x.den, y.num))
}

// RatNeg returns -a.
func RatNeg(rt *runtime.Runtime, a runtime.Value) (runtime.Value, error) {
	x, err := RationalOf(rt, a)
	if err != nil {
		return runtime.Null, err
	}
	return rt.Heap.Alloc(&Rational{num: new(big.Int).Neg(x.num), den: new(big.Int).Set(x.den)}), nil
}
