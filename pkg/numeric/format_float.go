package numeric

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"ember/core-go/pkg/locale"
	"ember/core-go/pkg/runtime"
)

// formatFloatDefault renders the shortest digits that round-trip. Integral
// values keep a ".0" so they read back as Floats.
func formatFloatDefault(f float64, decimal string) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := shortestFloat(math.Abs(f))
	if math.Signbit(f) {
		s = "-" + s
	}
	if decimal != "." {
		s = strings.Replace(s, ".", decimal, 1)
	}
	return s
}

func shortestFloat(f float64) string {
	if f != 0 {
		if exp := math.Floor(math.Log10(math.Abs(f))); exp < -5 || exp >= 17 {
			return strconv.FormatFloat(f, 'e', -1, 64)
		}
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatFloat(sp *Spec, f float64, loc *locale.Locale) (string, error) {
	upper := sp.Type == 'F' || sp.Type == 'E' || sp.Type == 'G' || sp.Type == 'A'
	if math.IsNaN(f) || math.IsInf(f, 0) {
		switch sp.Type {
		case 0, 'f', 'F', 'e', 'E', 'g', 'G', 'n', 's', 'S', 'a', 'A':
		default:
			return "", unknownType(sp, "Float")
		}
		body := "inf"
		if math.IsNaN(f) {
			body = "nan"
		}
		if upper {
			body = strings.ToUpper(body)
		}
		return sp.pad(sp.signPrefix(math.IsInf(f, -1)), "", body, false), nil
	}
	neg := math.Signbit(f)
	abs := math.Abs(f)
	sign := sp.signPrefix(neg)
	prec := sp.Precision
	grouped := sp.Group && (sp.Type == 0 || strings.IndexByte("fFgG", sp.Type) >= 0)
	var body string
	switch sp.Type {
	case 0:
		if sp.HasPrecision() {
			body = strconv.FormatFloat(abs, 'f', prec, 64)
		} else {
			body = shortestFloat(abs)
		}
		body = localize(body, sp.Group, loc)
	case 'n':
		if sp.HasPrecision() {
			body = strconv.FormatFloat(abs, 'f', prec, 64)
		} else {
			body = shortestFloat(abs)
		}
		body = localize(body, true, loc)
		grouped = true
	case 'f', 'F':
		if prec < 0 {
			prec = 6
		}
		body = localize(strconv.FormatFloat(abs, 'f', prec, 64), sp.Group, loc)
	case 'e', 'E':
		if prec < 0 {
			prec = 6
		}
		body = localize(strconv.FormatFloat(abs, 'e', prec, 64), false, loc)
	case 'g', 'G':
		body = localize(formatGeneral(sp, abs, len(sign)), sp.Group, loc)
	case 's', 'S':
		r := new(big.Rat)
		r.SetFloat64(abs)
		body = formatSI(sp, r, loc)
	case 'a', 'A':
		body = localize(strconv.FormatFloat(abs, 'x', prec, 64), false, loc)
	default:
		return "", unknownType(sp, "Float")
	}
	if upper {
		body = strings.ToUpper(body)
	}
	if grouped {
		return sp.padGrouped(sign, body, loc), nil
	}
	return sp.pad(sign, "", body, true), nil
}

// formatGeneral implements 'g': fixed notation when the decimal exponent X
// satisfies -4 <= X < P, scientific otherwise. Trailing zeros are dropped
// unless '#' is set. When a width is given and only the scientific form
// fits, scientific wins.
func formatGeneral(sp *Spec, f float64, signWidth int) string {
	p := sp.Precision
	if p < 0 {
		p = 6
	}
	if p == 0 {
		p = 1
	}
	sci := strconv.FormatFloat(f, 'e', p-1, 64)
	x := 0
	if i := strings.IndexByte(sci, 'e'); i >= 0 {
		x, _ = strconv.Atoi(sci[i+1:])
	}
	fixed := ""
	if x >= -4 && x < p {
		fixed = strconv.FormatFloat(f, 'f', p-1-x, 64)
	}
	if !sp.Alt {
		sci = trimMantissa(sci)
		fixed = trimFraction(fixed)
	}
	if fixed == "" {
		return sci
	}
	if sp.Width > 0 && signWidth+len(fixed) > sp.Width && signWidth+len(sci) <= sp.Width {
		return sci
	}
	return fixed
}

func trimMantissa(sci string) string {
	mant, exp, ok := strings.Cut(sci, "e")
	if !ok {
		return trimFraction(sci)
	}
	return trimFraction(mant) + "e" + exp
}

// FormatFloat renders a Float with the default spec.
func FormatFloat(rt *runtime.Runtime, f float64) string {
	return formatFloatDefault(f, rt.Locale().Decimal)
}
