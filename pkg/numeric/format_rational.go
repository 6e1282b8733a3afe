package numeric

import (
	"math/big"
	"strings"

	"ember/core-go/pkg/locale"
)

const (
	minRepeatDigits = 6
	maxRepeatDigits = 64
)

func formatRational(sp *Spec, r *Rational, loc *locale.Locale) (string, error) {
	neg := r.num.Sign() < 0
	sign := sp.signPrefix(neg)
	var body string
	switch sp.Type {
	case 0, 'q':
		body = new(big.Int).Abs(r.num).String() + "/" + r.den.String()
		if sp.Group {
			num, den, _ := strings.Cut(body, "/")
			body = loc.GroupDigits(num) + "/" + loc.GroupDigits(den)
		}
		if neg {
			body = "(-" + body + ")"
		} else {
			body = "(" + body + ")"
		}
		return sp.pad(sp.signPrefix(false), "", body, false), nil
	case 'f', 'F':
		if sp.HasPrecision() {
			body = roundedDecimal(r.num, r.den, sp.Precision)
		} else {
			body = expandDecimal(r.num, r.den)
		}
	case 'd', 'r':
		if sp.HasPrecision() {
			return "", unknownType(sp, "Rational with precision")
		}
		body = expandDecimal(r.num, r.den)
	default:
		return "", unknownType(sp, "Rational")
	}
	if sp.Group {
		return sp.padGrouped(sign, localize(body, true, loc), loc), nil
	}
	return sp.pad(sign, "", localize(body, false, loc), true), nil
}

// expandDecimal renders |num/den| exactly when the expansion terminates and
// otherwise shows the repeating cycle at least twice, followed by "...".
func expandDecimal(num, den *big.Int) string {
	abs := new(big.Int).Abs(num)
	q, rem := new(big.Int).QuoRem(abs, den, new(big.Int))
	if rem.Sign() == 0 {
		return q.String()
	}
	pre, period := decimalPeriod(den)
	digits := pre
	repeating := period != 0
	switch {
	case !repeating && pre <= maxRepeatDigits:
	case !repeating:
		digits = maxRepeatDigits
		repeating = true
	default:
		k := 2
		for pre+k*period < minRepeatDigits {
			k++
		}
		digits = pre + k*period
	}
	if digits > maxRepeatDigits {
		digits = maxRepeatDigits
	}
	var b strings.Builder
	b.WriteString(q.String())
	b.WriteByte('.')
	ten := big.NewInt(10)
	d := new(big.Int)
	for i := 0; i < digits; i++ {
		rem.Mul(rem, ten)
		d.QuoRem(rem, den, rem)
		b.WriteByte(byte('0' + d.Int64()))
	}
	if repeating {
		b.WriteString("...")
	}
	return b.String()
}

// decimalPeriod returns the length of the non-repeating prefix of 1/den and
// the length of its repeating cycle (0 when the expansion terminates). A
// cycle longer than the rendered window is reported as maxRepeatDigits.
func decimalPeriod(den *big.Int) (int, int) {
	m := new(big.Int).Set(den)
	two, five := big.NewInt(2), big.NewInt(5)
	e2, e5 := 0, 0
	mod := new(big.Int)
	for new(big.Int).Mod(m, two).Sign() == 0 {
		m.Quo(m, two)
		e2++
	}
	for mod.Mod(m, five).Sign() == 0 {
		m.Quo(m, five)
		e5++
	}
	pre := max(e2, e5)
	if m.Cmp(big.NewInt(1)) == 0 {
		return pre, 0
	}
	// Order of 10 modulo m: the smallest k with 10^k = 1 (mod m).
	ten := big.NewInt(10)
	pw := new(big.Int).Mod(ten, m)
	for k := 1; k <= maxRepeatDigits; k++ {
		if pw.Cmp(big.NewInt(1)) == 0 {
			return pre, k
		}
		pw.Mul(pw, ten)
		pw.Mod(pw, m)
	}
	return pre, maxRepeatDigits
}
