// Package locale describes the number-formatting conventions consumed by the
// numeric tower: decimal separator, digit group separator and group size.
//
// Locales are plain data. They come from YAML packs on disk or are derived
// from CLDR data through golang.org/x/text, and are injected into the runtime
// rather than looked up from ambient global state.
package locale

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gopkg.in/yaml.v3"
)

// Locale holds the separators used when rendering numbers.
type Locale struct {
	Name      string `yaml:"name"`
	Decimal   string `yaml:"decimal"`
	Group     string `yaml:"group"`
	GroupSize int    `yaml:"group_size"`
}

var defaultLocale = Locale{Name: "en", Decimal: ".", Group: ",", GroupSize: 3}

// Default returns the built-in "en" conventions.
func Default() *Locale {
	loc := defaultLocale
	return &loc
}

// Validate reports malformed locale data.
func (l *Locale) Validate() error {
	if l == nil {
		return fmt.Errorf("locale: nil locale")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("locale: missing name")
	}
	if l.Decimal == "" {
		return fmt.Errorf("locale %s: empty decimal separator", l.Name)
	}
	if l.GroupSize < 0 {
		return fmt.Errorf("locale %s: negative group size %d", l.Name, l.GroupSize)
	}
	if l.GroupSize > 0 && l.Group == "" {
		return fmt.Errorf("locale %s: group size set without a group separator", l.Name)
	}
	return nil
}

// GroupDigits inserts the group separator into a run of ASCII digits.
func (l *Locale) GroupDigits(digits string) string {
	if l == nil || l.GroupSize <= 0 || l.Group == "" || len(digits) <= l.GroupSize {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % l.GroupSize
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += l.GroupSize {
		if b.Len() > 0 {
			b.WriteString(l.Group)
		}
		b.WriteString(digits[i : i+l.GroupSize])
	}
	return b.String()
}

// Parse decodes a YAML locale pack.
func Parse(data []byte) (*Locale, error) {
	var loc Locale
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&loc); err != nil {
		return nil, fmt.Errorf("locale: parse: %w", err)
	}
	loc.Name = strings.TrimSpace(loc.Name)
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return &loc, nil
}

// Load reads a YAML locale pack from disk.
func Load(path string) (*Locale, error) {
	if path == "" {
		return nil, fmt.Errorf("locale: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("locale: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	loc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}
	return loc, nil
}

// Marshal encodes the locale as a YAML pack.
func (l *Locale) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return nil, fmt.Errorf("locale: marshal %s: %w", l.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("locale: encoder close: %w", err)
	}
	return buf.Bytes(), nil
}

// CanonicalTag normalises a BCP-47 tag.
func CanonicalTag(tag string) (string, error) {
	parsed, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return "", fmt.Errorf("locale: %q: %w", tag, err)
	}
	return parsed.String(), nil
}

// FromTag derives separators from CLDR data by rendering a probe number and
// reading back the punctuation.
func FromTag(tag string) (*Locale, error) {
	parsed, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return nil, fmt.Errorf("locale: %q: %w", tag, err)
	}
	printer := message.NewPrinter(parsed)
	sample := printer.Sprintf("%v", number.Decimal(1234567.5))
	loc, ok := inferSeparators(sample)
	if !ok {
		return nil, fmt.Errorf("locale: cannot infer separators for %s from %q", parsed, sample)
	}
	loc.Name = parsed.String()
	return loc, nil
}

// inferSeparators reads "<int digits with groups><decimal><fraction digits>".
func inferSeparators(sample string) (*Locale, bool) {
	runes := []rune(sample)
	end := len(runes)
	for end > 0 && unicode.IsDigit(runes[end-1]) {
		end--
	}
	if end == len(runes) || end == 0 {
		return nil, false
	}
	sepEnd := end
	for end > 0 && !unicode.IsDigit(runes[end-1]) {
		end--
	}
	if end == 0 {
		return nil, false
	}
	loc := &Locale{Decimal: string(runes[end:sepEnd])}
	intPart := runes[:end]

	lastRun := 0
	for i := len(intPart) - 1; i >= 0 && unicode.IsDigit(intPart[i]); i-- {
		lastRun++
	}
	start := -1
	for i, r := range intPart {
		if !unicode.IsDigit(r) {
			start = i
			break
		}
	}
	if start < 0 {
		loc.GroupSize = 0
		return loc, true
	}
	stop := start
	for stop < len(intPart) && !unicode.IsDigit(intPart[stop]) {
		stop++
	}
	loc.Group = string(intPart[start:stop])
	loc.GroupSize = lastRun
	if !utf8.ValidString(loc.Group) || loc.GroupSize == 0 {
		return nil, false
	}
	return loc, true
}
