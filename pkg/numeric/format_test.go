package numeric

import (
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	"ember/core-go/pkg/locale"
	"ember/core-go/pkg/runtime"
)

func testLocale(decimal, group string) *locale.Locale {
	return &locale.Locale{Name: "test", Decimal: decimal, Group: group, GroupSize: 3}
}

func TestParseSpec(t *testing.T) {
	sp, err := ParseSpec("+#08,.3x")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sp.Sign != '+' || !sp.Alt || !sp.Zero || sp.Width != 8 || !sp.Group || sp.Precision != 3 || sp.Type != 'x' {
		t.Fatalf("unexpected spec %+v", sp)
	}
	sp, err = ParseSpec("r16")
	if err != nil || sp.Type != 'r' || sp.Radix != 16 {
		t.Fatalf("r16 parsed as %+v (%v)", sp, err)
	}
	for _, bad := range []string{".", "5.x", "40000d", ".99999f", "dd", "z", "r1", "r40"} {
		if _, err := ParseSpec(bad); !errors.Is(err, runtime.FormatError) {
			t.Fatalf("ParseSpec(%q): expected FormatError, got %v", bad, err)
		}
	}
}

func TestSpecCacheIsPerRuntime(t *testing.T) {
	rt := newRuntime()
	a, _ := cachedSpec(rt, ",d")
	b, _ := cachedSpec(rt, ",d")
	if a != b {
		t.Fatalf("expected cached spec")
	}
	other := newRuntime()
	c, _ := cachedSpec(other, ",d")
	if c == a {
		t.Fatalf("runtimes share a spec cache")
	}
}

func TestFormatInteger(t *testing.T) {
	rt := newRuntime()
	cases := []struct {
		n    int64
		spec string
		want string
	}{
		{1234567, "", "1234567"},
		{1234567, ",", "1,234,567"},
		{1234567, "n", "1,234,567"},
		{42, "+d", "+42"},
		{42, " d", " 42"},
		{-42, "d", "-42"},
		{-42, "08d", "-0000042"},
		{1234567, "010,d", "01,234,567"},
		{1234567, "012,d", "0,001,234,567"},
		{1234, "08,d", "0,001,234"},
		{-1234, "08,d", "-001,234"},
		{42, "8d", "      42"},
		{255, "#x", "0xff"},
		{255, "X", "FF"},
		{5, "#b", "0b101"},
		{8, "#o", "0o10"},
		{35, "r36", "z"},
		{5, "r2", "101"},
		{999, "s", "999"},
		{1500, "s", "1.5k"},
		{1234567, "s", "1.23M"},
		{1234567, ".3s", "1.235M"},
		{999999, "s", "1M"},
		{1024, "S", "1Ki"},
		{1536, "S", "1.5Ki"},
		{-2048, "S", "-2Ki"},
	}
	for _, tc := range cases {
		got, err := Format(rt, FromInt64(rt, tc.n), tc.spec, nil)
		if err != nil {
			t.Fatalf("Format(%d, %q): %v", tc.n, tc.spec, err)
		}
		if got != tc.want {
			t.Fatalf("Format(%d, %q) = %q, want %q", tc.n, tc.spec, got, tc.want)
		}
	}
	for _, bad := range []string{".2d", "q", "r", "e"} {
		if _, err := Format(rt, runtime.SmallInt(1), bad, nil); !errors.Is(err, runtime.FormatError) {
			t.Fatalf("Format(1, %q): expected FormatError, got %v", bad, err)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	rt := newRuntime()
	cases := []struct {
		f    float64
		spec string
		want string
	}{
		{3, "", "3.0"},
		{0.1, "", "0.1"},
		{1e20, "", "1e+20"},
		{3.14159, ".2f", "3.14"},
		{1.5, "f", "1.500000"},
		{12345.678, "e", "1.234568e+04"},
		{12345.678, ".2E", "1.23E+04"},
		{0.0001, "g", "0.0001"},
		{1234567, "g", "1.23457e+06"},
		{100, "g", "100"},
		{100, "#g", "100.000"},
		{1234.5, ".3g", "1.23e+03"},
		{0.0001, "5g", "1e-04"},
		{1234567.5, ",", "1,234,567.5"},
		{1234.5, "010,.1f", "0,001,234.5"},
		{math.Copysign(0, -1), "", "-0.0"},
		{math.Copysign(0, -1), ".1f", "-0.0"},
		{2, "+.1f", "+2.0"},
		{1, "a", "0x1p+00"},
		{0.0015, "s", "1.5m"},
		{2500000, "s", "2.5M"},
		{math.Inf(1), "", "inf"},
		{math.Inf(-1), "", "-inf"},
		{math.Inf(1), "F", "INF"},
		{math.NaN(), "5f", "  nan"},
	}
	for _, tc := range cases {
		got, err := Format(rt, NewFloat(rt, tc.f), tc.spec, nil)
		if err != nil {
			t.Fatalf("Format(%v, %q): %v", tc.f, tc.spec, err)
		}
		if got != tc.want {
			t.Fatalf("Format(%v, %q) = %q, want %q", tc.f, tc.spec, got, tc.want)
		}
	}
	for _, bad := range []string{"d", "q", "x"} {
		if _, err := Format(rt, NewFloat(rt, 1), bad, nil); !errors.Is(err, runtime.FormatError) {
			t.Fatalf("Format(1.0, %q): expected FormatError, got %v", bad, err)
		}
	}
}

func TestFormatUsesLocale(t *testing.T) {
	rt := newRuntime()
	de := testLocale(",", ".")
	got, err := Format(rt, NewFloat(rt, 1234567.5), ",.2f", de)
	if err != nil || got != "1.234.567,50" {
		t.Fatalf("de float = %q (%v)", got, err)
	}
	got, _ = Format(rt, NewFloat(rt, 1234.5), "n", de)
	if got != "1.234,5" {
		t.Fatalf("de n = %q", got)
	}
	quarter, _ := NewRational(rt, runtime.SmallInt(1), runtime.SmallInt(4))
	got, _ = Format(rt, quarter, "d", de)
	if got != "0,25" {
		t.Fatalf("de rational = %q", got)
	}
	got, _ = Format(rt, runtime.SmallInt(1234567), "n", de)
	if got != "1.234.567" {
		t.Fatalf("de integer = %q", got)
	}
}

func TestFormatRational(t *testing.T) {
	rt := newRuntime()
	rat := func(n, d int32) runtime.Value {
		v, err := NewRational(rt, runtime.SmallInt(n), runtime.SmallInt(d))
		if err != nil {
			t.Fatalf("rational %d/%d: %v", n, d, err)
		}
		return v
	}
	cases := []struct {
		v    runtime.Value
		spec string
		want string
	}{
		{rat(1, 3), "", "(1/3)"},
		{rat(-1, 3), "q", "(-1/3)"},
		{rat(1, 3), "f", "0.333333..."},
		{rat(1, 7), "r", "0.142857142857..."},
		{rat(1, 6), "d", "0.166666..."},
		{rat(1, 12), "d", "0.083333..."},
		{rat(1, 4), "d", "0.25"},
		{rat(7, 1), "d", "7"},
		{rat(-1, 3), "d", "-0.333333..."},
		{rat(2, 3), ".3f", "0.667"},
		{rat(1, 2), ".0f", "1"},
		{rat(-1, 2), ".0f", "-1"},
		{rat(1234567, 2), ",q", "(1,234,567/2)"},
	}
	for _, tc := range cases {
		got, err := Format(rt, tc.v, tc.spec, nil)
		if err != nil {
			t.Fatalf("Format(%q): %v", tc.spec, err)
		}
		if got != tc.want {
			t.Fatalf("Format(%s, %q) = %q, want %q", mustString(t, rt, tc.v), tc.spec, got, tc.want)
		}
	}
	long, _ := Format(rt, rat(1, 97), "d", nil)
	frac := strings.TrimSuffix(strings.TrimPrefix(long, "0."), "...")
	if !strings.HasSuffix(long, "...") || len(frac) != maxRepeatDigits || !strings.HasPrefix(frac, "0103092783") {
		t.Fatalf("1/97 rendered as %q", long)
	}
	if _, err := Format(rt, rat(1, 3), "x", nil); !errors.Is(err, runtime.FormatError) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestDecimalPeriod(t *testing.T) {
	cases := []struct {
		den         int64
		pre, period int
	}{
		{3, 0, 1},
		{7, 0, 6},
		{6, 1, 1},
		{12, 2, 1},
		{8, 3, 0},
		{40, 3, 0},
		{11, 0, 2},
	}
	for _, tc := range cases {
		pre, period := decimalPeriod(big.NewInt(tc.den))
		if pre != tc.pre || period != tc.period {
			t.Fatalf("decimalPeriod(%d) = (%d, %d), want (%d, %d)", tc.den, pre, period, tc.pre, tc.period)
		}
	}
}
