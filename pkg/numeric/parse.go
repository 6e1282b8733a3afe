package numeric

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"ember/core-go/pkg/locale"
	"ember/core-go/pkg/runtime"
)

// ParseInteger parses s in the given radix. An optional sign may lead; no
// other characters are accepted.
func ParseInteger(rt *runtime.Runtime, s string, radix int) (runtime.Value, error) {
	if radix < 2 || radix > 36 {
		return runtime.Null, runtime.NewValueError("radix %d out of range 2..36", radix)
	}
	if n, err := strconv.ParseInt(s, radix, 64); err == nil {
		return FromInt64(rt, n), nil
	}
	body := strings.TrimLeft(s, "+-")
	if body == "" || len(s)-len(body) > 1 {
		return runtime.Null, runtime.NewParseError("invalid Integer literal %q", s)
	}
	b, ok := new(big.Int).SetString(s, radix)
	if !ok {
		return runtime.Null, runtime.NewParseError("invalid Integer literal %q", s)
	}
	return FromBig(rt, b), nil
}

// LooseInteger reads the leading decimal integer of s, ignoring surrounding
// space. It never fails: input with no digits yields 0.
func LooseInteger(rt *runtime.Runtime, s string) runtime.Value {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return runtime.SmallInt(0)
	}
	b, _ := new(big.Int).SetString(s[:end], 10)
	return FromBig(rt, b)
}

// ParseRational accepts "n/d", "(n/d)", an integer or a decimal literal
// such as "-1.25".
func ParseRational(rt *runtime.Runtime, s string) (runtime.Value, error) {
	text := strings.TrimSpace(s)
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		text = text[1 : len(text)-1]
	}
	if num, den, ok := strings.Cut(text, "/"); ok {
		n, okN := new(big.Int).SetString(strings.TrimSpace(num), 10)
		d, okD := new(big.Int).SetString(strings.TrimSpace(den), 10)
		if !okN || !okD {
			return runtime.Null, runtime.NewParseError("invalid Rational literal %q", s)
		}
		return ratFromParts(rt, n, d)
	}
	if !isDecimalLiteral(text) {
		return runtime.Null, runtime.NewParseError("invalid Rational literal %q", s)
	}
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return runtime.Null, runtime.NewParseError("invalid Rational literal %q", s)
	}
	return RationalFromBig(rt, r), nil
}

func isDecimalLiteral(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// ParseFloat parses s using the locale's decimal separator. A nil locale
// uses the runtime's.
func ParseFloat(rt *runtime.Runtime, s string, loc *locale.Locale) (runtime.Value, error) {
	if loc == nil {
		loc = rt.Locale()
	}
	text := strings.TrimSpace(s)
	if loc.Decimal != "." {
		if strings.Contains(text, ".") {
			return runtime.Null, runtime.NewParseError("invalid Float literal %q", s)
		}
		text = strings.Replace(text, loc.Decimal, ".", 1)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && f != 0 {
			return runtime.Null, runtime.NewFloatOverflowError("Float literal %q out of range", s)
		}
		if !errors.Is(err, strconv.ErrRange) {
			return runtime.Null, runtime.NewParseError("invalid Float literal %q", s)
		}
	}
	return NewFloat(rt, f), nil
}

// LooseFloat parses s like ParseFloat, yielding 0.0 on failure.
func LooseFloat(rt *runtime.Runtime, s string) runtime.Value {
	v, err := ParseFloat(rt, s, nil)
	if err != nil {
		return NewFloat(rt, 0)
	}
	return v
}
