package numeric

import "ember/core-go/pkg/runtime"

type binaryOp func(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error)

type opTable struct {
	name     string
	integer  binaryOp
	rational binaryOp
	float    binaryOp
}

func (t opTable) apply(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	ca, cb := rt.ClassOf(a), rt.ClassOf(b)
	if ca != cb {
		return runtime.Null, operandError(rt, t.name, a, b)
	}
	var fn binaryOp
	switch ca {
	case runtime.IntegerClass:
		fn = t.integer
	case runtime.RationalClass:
		fn = t.rational
	case runtime.FloatClass:
		fn = t.float
	}
	if fn == nil {
		return runtime.Null, operandError(rt, t.name, a, b)
	}
	return fn(rt, a, b)
}

var (
	addOps = opTable{"+", IntAdd, RatAdd, FloatAdd}
	subOps = opTable{"-", IntSub, RatSub, FloatSub}
	mulOps = opTable{"*", IntMul, RatMul, FloatMul}
	divOps = opTable{"/", IntDiv, RatDiv, FloatDiv}
	modOps = opTable{"%", IntMod, nil, FloatMod}
)

// Add returns a+b for two numbers of the same class.
func Add(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	return addOps.apply(rt, a, b)
}

// Sub returns a-b for two numbers of the same class.
func Sub(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	return subOps.apply(rt, a, b)
}

// Mul returns a*b for two numbers of the same class.
func Mul(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	return mulOps.apply(rt, a, b)
}

// Div returns a/b: floor quotient for Integers, exact for Rationals, IEEE
// for Floats.
func Div(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	return divOps.apply(rt, a, b)
}

// Mod returns the floor modulus for Integers and Floats.
func Mod(rt *runtime.Runtime, a, b runtime.Value) (runtime.Value, error) {
	return modOps.apply(rt, a, b)
}

// Neg returns -a.
func Neg(rt *runtime.Runtime, a runtime.Value) (runtime.Value, error) {
	switch rt.ClassOf(a) {
	case runtime.IntegerClass:
		return IntNeg(rt, a)
	case runtime.RationalClass:
		return RatNeg(rt, a)
	case runtime.FloatClass:
		return FloatNeg(rt, a)
	}
	return runtime.Null, runtime.NewTypeError("unsupported operand for unary -: %s", rt.ClassOf(a).Name)
}

// IsNumber reports whether v is an Integer, Rational or Float.
func IsNumber(rt *runtime.Runtime, v runtime.Value) bool {
	switch rt.ClassOf(v) {
	case runtime.IntegerClass, runtime.RationalClass, runtime.FloatClass:
		return true
	}
	return false
}
