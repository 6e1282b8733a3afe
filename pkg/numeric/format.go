package numeric

import (
	"math/big"
	"strings"

	"ember/core-go/pkg/locale"
	"ember/core-go/pkg/runtime"
)

// Format renders v under a format spec. A nil locale uses the runtime's.
func Format(rt *runtime.Runtime, v runtime.Value, spec string, loc *locale.Locale) (string, error) {
	if loc == nil {
		loc = rt.Locale()
	}
	class := rt.ClassOf(v)
	if spec == "" && !IsNumber(rt, v) {
		return rt.ToString(v)
	}
	sp, err := cachedSpec(rt, spec)
	if err != nil {
		return "", err
	}
	switch class {
	case runtime.IntegerClass:
		b, _ := BigOf(rt, v)
		return formatInteger(sp, b, loc)
	case runtime.FloatClass:
		f, _ := FloatOf(rt, v)
		return formatFloat(sp, f, loc)
	case runtime.RationalClass:
		r, _ := RationalOf(rt, v)
		return formatRational(sp, r, loc)
	}
	return "", runtime.NewFormatError("%s does not accept a format spec", class.Name)
}

func unknownType(sp *Spec, class string) error {
	return runtime.NewFormatError("format type %q is not valid for %s", string(sp.Type), class)
}

func formatInteger(sp *Spec, n *big.Int, loc *locale.Locale) (string, error) {
	neg := n.Sign() < 0
	abs := new(big.Int).Abs(n)
	sign := sp.signPrefix(neg)
	var prefix, body string
	switch sp.Type {
	case 0, 'd', 'n':
		if sp.HasPrecision() {
			return "", runtime.NewFormatError("precision is not allowed for Integer type %q", string(sp.Type))
		}
		body = abs.String()
		if sp.Group || sp.Type == 'n' {
			return sp.padGrouped(sign, loc.GroupDigits(body), loc), nil
		}
	case 'b', 'o', 'x', 'X':
		if sp.HasPrecision() {
			return "", runtime.NewFormatError("precision is not allowed for Integer type %q", string(sp.Type))
		}
		base := map[byte]int{'b': 2, 'o': 8, 'x': 16, 'X': 16}[sp.Type]
		body = abs.Text(base)
		if sp.Type == 'X' {
			body = strings.ToUpper(body)
		}
		if sp.Alt {
			prefix = map[byte]string{'b': "0b", 'o': "0o", 'x': "0x", 'X': "0X"}[sp.Type]
		}
	case 'r':
		if sp.Radix == 0 {
			return "", runtime.NewFormatError("radix required for Integer type 'r'")
		}
		body = abs.Text(sp.Radix)
	case 's', 'S':
		body = formatSI(sp, new(big.Rat).SetInt(abs), loc)
	default:
		return "", unknownType(sp, "Integer")
	}
	return sp.pad(sign, prefix, body, true), nil
}

var (
	siDecimal = []string{"", "k", "M", "G", "T", "P", "E", "Z", "Y"}
	siBinary  = []string{"", "Ki", "Mi", "Gi", "Ti", "Pi", "Ei", "Zi", "Yi"}
	siSmall   = []string{"", "m", "µ", "n", "p", "f", "a", "z", "y"}
)

// formatSI scales a non-negative magnitude to an SI prefix. 's' uses powers
// of 1000, 'S' powers of 1024. Without an explicit precision two fractional
// digits are kept and trailing zeros trimmed.
func formatSI(sp *Spec, x *big.Rat, loc *locale.Locale) string {
	base, units := int64(1000), siDecimal
	if sp.Type == 'S' {
		base, units = 1024, siBinary
	}
	prec, trim := 2, true
	if sp.HasPrecision() {
		prec, trim = sp.Precision, false
	}
	step := new(big.Rat).SetInt64(base)
	one := new(big.Rat).SetInt64(1)
	scaled := new(big.Rat).Set(x)
	unit := 0
	if sp.Type == 's' && x.Sign() > 0 && x.Cmp(one) < 0 {
		for unit < len(siSmall)-1 && scaled.Cmp(one) < 0 {
			scaled.Mul(scaled, step)
			unit++
		}
		return siText(scaled, prec, trim, loc) + siSmall[unit]
	}
	for unit < len(units)-1 && scaled.Cmp(step) >= 0 {
		scaled.Quo(scaled, step)
		unit++
	}
	text := siText(scaled, prec, trim, loc)
	// Rounding can carry into the next unit (999.999k -> 1000k).
	if unit < len(units)-1 && roundsUpTo(scaled, prec, step) {
		scaled.Quo(scaled, step)
		unit++
		text = siText(scaled, prec, trim, loc)
	}
	return text + units[unit]
}

func roundsUpTo(x *big.Rat, prec int, limit *big.Rat) bool {
	r, _ := new(big.Rat).SetString(roundedDecimal(x.Num(), x.Denom(), prec))
	return r != nil && r.Cmp(limit) >= 0
}

func siText(x *big.Rat, prec int, trim bool, loc *locale.Locale) string {
	s := roundedDecimal(x.Num(), x.Denom(), prec)
	if trim {
		s = trimFraction(s)
	}
	return localize(s, false, loc)
}

// roundedDecimal renders |num/den| with prec fractional digits, rounding
// half away from zero.
func roundedDecimal(num, den *big.Int, prec int) string {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(prec)), nil)
	scaled := new(big.Int).Mul(new(big.Int).Abs(num), scale)
	q, r := new(big.Int).QuoRem(scaled, den, new(big.Int))
	if new(big.Int).Lsh(r, 1).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	digits := q.String()
	if prec == 0 {
		return digits
	}
	if len(digits) <= prec {
		digits = strings.Repeat("0", prec-len(digits)+1) + digits
	}
	cut := len(digits) - prec
	return digits[:cut] + "." + digits[cut:]
}

// trimFraction drops trailing zeros and a bare decimal point.
func trimFraction(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// padGrouped zero-fills a grouped body to the spec's width, grouping the
// fill along with the digits it extends. The result may overshoot the width
// by one so that it never starts with a separator.
func (s *Spec) padGrouped(sign, body string, loc *locale.Locale) string {
	if !s.Zero || loc.Group == "" || len(sign)+runeCount(body) >= s.Width {
		return s.pad(sign, "", body, true)
	}
	intPart, rest := body, ""
	if i := strings.Index(body, loc.Decimal); i >= 0 {
		intPart, rest = body[:i], body[i:]
	}
	digits := strings.ReplaceAll(intPart, loc.Group, "")
	for {
		grouped := loc.GroupDigits(digits)
		if len(sign)+runeCount(grouped)+runeCount(rest) >= s.Width {
			return sign + grouped + rest
		}
		digits = "0" + digits
	}
}

// localize swaps the decimal point for the locale's separator and, when
// group is set, groups the integer digits.
func localize(s string, group bool, loc *locale.Locale) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if group {
		intPart = loc.GroupDigits(intPart)
	}
	if hasFrac {
		return intPart + loc.Decimal + frac
	}
	return intPart
}
