package numeric

import (
	"strings"

	"github.com/golang/groupcache/lru"

	"ember/core-go/pkg/runtime"
)

// MaxSpecField bounds width and precision.
const MaxSpecField = 32767

// Spec is a parsed format specification:
//
//	[sign]['#']['0'][width][','][.precision][type]
type Spec struct {
	Sign      byte // '+', '-' or ' '
	Alt       bool
	Zero      bool
	Width     int
	Group     bool
	Precision int // -1 when absent
	Type      byte
	Radix     int // digits after 'r', 0 when absent
}

// HasPrecision reports whether a precision was given.
func (s *Spec) HasPrecision() bool { return s.Precision >= 0 }

// ParseSpec parses a format specification.
func ParseSpec(text string) (*Spec, error) {
	sp := &Spec{Sign: '-', Precision: -1}
	i := 0
	if i < len(text) && strings.IndexByte("+- ", text[i]) >= 0 {
		sp.Sign = text[i]
		i++
	}
	if i < len(text) && text[i] == '#' {
		sp.Alt = true
		i++
	}
	if i < len(text) && text[i] == '0' {
		sp.Zero = true
		i++
	}
	var err error
	if sp.Width, i, err = specNumber(text, i, "width"); err != nil {
		return nil, err
	}
	if i < len(text) && text[i] == ',' {
		sp.Group = true
		i++
	}
	if i < len(text) && text[i] == '.' {
		start := i + 1
		if sp.Precision, i, err = specNumber(text, start, "precision"); err != nil {
			return nil, err
		}
		if i == start {
			return nil, runtime.NewFormatError("missing precision in %q", text)
		}
	}
	if i < len(text) {
		sp.Type = text[i]
		if strings.IndexByte("dnbxXosSfFeEgGaAqr", sp.Type) < 0 {
			return nil, runtime.NewFormatError("unknown format type %q in %q", string(sp.Type), text)
		}
		i++
		if sp.Type == 'r' && i < len(text) {
			start := i
			if sp.Radix, i, err = specNumber(text, i, "radix"); err != nil {
				return nil, err
			}
			if i == start || sp.Radix < 2 || sp.Radix > 36 {
				return nil, runtime.NewFormatError("radix out of range 2..36 in %q", text)
			}
		}
	}
	if i != len(text) {
		return nil, runtime.NewFormatError("malformed format spec %q", text)
	}
	return sp, nil
}

func specNumber(text string, i int, field string) (int, int, error) {
	n := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		n = n*10 + int(text[i]-'0')
		if n > MaxSpecField {
			return 0, i, runtime.NewFormatError("%s exceeds %d", field, MaxSpecField)
		}
		i++
	}
	return n, i, nil
}

type specCacheKey struct{}

const specCacheSize = 256

// cachedSpec parses text through the runtime's spec cache.
func cachedSpec(rt *runtime.Runtime, text string) (*Spec, error) {
	cache := rt.Extension(specCacheKey{}, func() any { return lru.New(specCacheSize) }).(*lru.Cache)
	if hit, ok := cache.Get(text); ok {
		return hit.(*Spec), nil
	}
	sp, err := ParseSpec(text)
	if err != nil {
		return nil, err
	}
	cache.Add(text, sp)
	return sp, nil
}

// signPrefix returns the sign text for a value.
func (s *Spec) signPrefix(negative bool) string {
	switch {
	case negative:
		return "-"
	case s.Sign == '+':
		return "+"
	case s.Sign == ' ':
		return " "
	}
	return ""
}

// pad lays out sign, prefix and body to the spec's width.
func (s *Spec) pad(sign, prefix, body string, numeric bool) string {
	n := len(sign) + len(prefix) + runeCount(body)
	if n >= s.Width {
		return sign + prefix + body
	}
	fill := s.Width - n
	if s.Zero && numeric {
		return sign + prefix + strings.Repeat("0", fill) + body
	}
	return strings.Repeat(" ", fill) + sign + prefix + body
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
