package numeric

import (
	"errors"
	"math"
	"testing"

	"ember/core-go/pkg/runtime"
)

func TestRationalReduces(t *testing.T) {
	rt := newRuntime()
	r, err := NewRational(rt, runtime.SmallInt(6), runtime.SmallInt(8))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	num, _ := Numerator(rt, r)
	den, _ := Denominator(rt, r)
	if num.Int() != 3 || den.Int() != 4 {
		t.Fatalf("6/8 reduced to %d/%d", num.Int(), den.Int())
	}
	neg, _ := NewRational(rt, runtime.SmallInt(3), runtime.SmallInt(-9))
	if got := mustString(t, rt, neg); got != "(-1/3)" {
		t.Fatalf("3/-9 = %s", got)
	}
	zero, _ := NewRational(rt, runtime.SmallInt(0), runtime.SmallInt(-5))
	if got := mustString(t, rt, zero); got != "(0/1)" {
		t.Fatalf("0/-5 = %s", got)
	}
	if _, err := NewRational(rt, runtime.SmallInt(1), runtime.SmallInt(0)); !errors.Is(err, runtime.ZeroDivisionError) {
		t.Fatalf("expected ZeroDivisionError, got %v", err)
	}
}

func TestRationalArithmeticStaysReduced(t *testing.T) {
	rt := newRuntime()
	half, _ := NewRational(rt, runtime.SmallInt(1), runtime.SmallInt(2))
	third, _ := NewRational(rt, runtime.SmallInt(1), runtime.SmallInt(3))
	sixth, _ := NewRational(rt, runtime.SmallInt(1), runtime.SmallInt(6))
	cases := []struct {
		name string
		fn   func(*runtime.Runtime, runtime.Value, runtime.Value) (runtime.Value, error)
		a, b runtime.Value
		want string
	}{
		{"add", Add, half, third, "(5/6)"},
		{"sub", Sub, third, half, "(-1/6)"},
		{"mul", Mul, half, third, "(1/6)"},
		{"div", Div, sixth, third, "(1/2)"},
		{"sum to whole", Add, half, half, "(1/1)"},
	}
	for _, tc := range cases {
		v, err := tc.fn(rt, tc.a, tc.b)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got := mustString(t, rt, v); got != tc.want {
			t.Fatalf("%s = %s, want %s", tc.name, got, tc.want)
		}
		r, _ := RationalOf(rt, v)
		if r.Den().Sign() <= 0 {
			t.Fatalf("%s produced a non-positive denominator", tc.name)
		}
		again, _ := NewRational(rt, FromBig(rt, r.Num()), FromBig(rt, r.Den()))
		if eq, _ := rt.Equal(v, again); !eq {
			t.Fatalf("%s: reduction is not idempotent", tc.name)
		}
	}
	zero, _ := Sub(rt, half, half)
	if _, err := Div(rt, half, zero); !errors.Is(err, runtime.ZeroDivisionError) {
		t.Fatalf("expected ZeroDivisionError, got %v", err)
	}
	if c, _ := rt.Compare(third, half); c != -1 {
		t.Fatalf("1/3 <=> 1/2 = %d", c)
	}
}

func TestRationalConversions(t *testing.T) {
	rt := newRuntime()
	r, _ := ParseRational(rt, "(-7/2)")
	i, err := RationalToInteger(rt, r)
	if err != nil || i.Int() != -3 {
		t.Fatalf("trunc(-7/2) = %#v, %v", i, err)
	}
	f, err := RationalToFloat(rt, r)
	if err != nil {
		t.Fatalf("to float: %v", err)
	}
	if x, _ := FloatOf(rt, f); x != -3.5 {
		t.Fatalf("float(-7/2) = %v", x)
	}
	dec, err := ParseRational(rt, "1.25")
	if err != nil || mustString(t, rt, dec) != "(5/4)" {
		t.Fatalf("parse 1.25 = %v", err)
	}
	if _, err := ParseRational(rt, "1/x"); !errors.Is(err, runtime.ParseError) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if _, err := ParseRational(rt, "1e5"); !errors.Is(err, runtime.ParseError) {
		t.Fatalf("expected ParseError for exponent form, got %v", err)
	}
}

func TestFloatSemantics(t *testing.T) {
	rt := newRuntime()
	one, zero := NewFloat(rt, 1), NewFloat(rt, 0)
	inf, err := Div(rt, one, zero)
	if err != nil {
		t.Fatalf("1.0/0.0: %v", err)
	}
	if x, _ := FloatOf(rt, inf); !math.IsInf(x, 1) {
		t.Fatalf("expected +inf, got %v", x)
	}
	nan := NewFloat(rt, math.NaN())
	if eq, _ := rt.Equal(nan, nan); eq {
		t.Fatalf("NaN compared equal to itself")
	}
	if _, err := rt.Compare(nan, one); !errors.Is(err, runtime.TypeError) {
		t.Fatalf("expected TypeError comparing NaN, got %v", err)
	}
	m, _ := Mod(rt, NewFloat(rt, -7), NewFloat(rt, 2))
	if x, _ := FloatOf(rt, m); x != 1 {
		t.Fatalf("-7.0 %% 2.0 = %v", x)
	}
	h1, _ := rt.Hash(NewFloat(rt, 0))
	h2, _ := rt.Hash(NewFloat(rt, math.Copysign(0, -1)))
	if h1 != h2 {
		t.Fatalf("0.0 and -0.0 hash differently")
	}
}

func TestParseFloatWithLocale(t *testing.T) {
	rt := newRuntime()
	de := testLocale(",", ".")
	v, err := ParseFloat(rt, "3,25", de)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if x, _ := FloatOf(rt, v); x != 3.25 {
		t.Fatalf("parsed %v", x)
	}
	if _, err := ParseFloat(rt, "3.25", de); !errors.Is(err, runtime.ParseError) {
		t.Fatalf("expected ParseError for foreign separator, got %v", err)
	}
	if _, err := ParseFloat(rt, "1e999", nil); !errors.Is(err, runtime.FloatOverflowError) {
		t.Fatalf("expected FloatOverflowError, got %v", err)
	}
	if x, _ := FloatOf(rt, LooseFloat(rt, "junk")); x != 0 {
		t.Fatalf("loose junk = %v", x)
	}
}
