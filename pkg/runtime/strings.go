package runtime

import (
	"strconv"
	"strings"

	"ember/core-go/pkg/intern"
)

// String is an immutable byte string. Interned strings carry their symbol
// and live in immortal slots.
type String struct {
	text string
	sym  *intern.Symbol
}

func (s *String) Class() *Class { return StringClass }

// Text returns the string contents.
func (s *String) Text() string { return s.text }

// Symbol returns the interned identity, or nil for plain strings.
func (s *String) Symbol() *intern.Symbol { return s.sym }

func (s *String) HashValue(w *Walker) (uint32, error) {
	h := NewHasher(w.rt.seed, HashTagString)
	h.WriteString(s.text)
	return h.Sum32(), nil
}

func (s *String) EqualValue(w *Walker, other Value) (bool, error) {
	o, ok := w.rt.Heap.Get(other).(*String)
	if !ok {
		return false, nil
	}
	if s.sym != nil && o.sym != nil {
		return s.sym == o.sym, nil
	}
	return s.text == o.text, nil
}

func (s *String) CompareValue(rt *Runtime, other Value) (int, error) {
	o, ok := rt.Heap.Get(other).(*String)
	if !ok {
		return 0, NewTypeError("cannot compare String with %s", rt.ClassOf(other).Name)
	}
	return strings.Compare(s.text, o.text), nil
}

func (s *String) Describe(*Walker) (string, error) { return s.text, nil }

// NewString allocates a plain string. The result is owned.
func (rt *Runtime) NewString(text string) Value {
	return rt.Heap.Alloc(&String{text: text})
}

// Intern returns the canonical immortal String for text. Repeated calls with
// equal content return the same Value.
func (rt *Runtime) Intern(text string) Value {
	sym := rt.symbols.InternString(text)
	if v, ok := rt.interned[sym]; ok {
		return v
	}
	v := rt.Heap.Alloc(&String{text: sym.String(), sym: sym})
	rt.Heap.Immortalize(v)
	rt.interned[sym] = v
	return v
}

// Symbols exposes the runtime's intern table.
func (rt *Runtime) Symbols() *intern.Table { return rt.symbols }

// StringOf returns the text of a String value.
func (rt *Runtime) StringOf(v Value) (string, bool) {
	s, ok := rt.Heap.Get(v).(*String)
	if !ok {
		return "", false
	}
	return s.text, true
}

func quoteString(text string) string {
	return strconv.Quote(text)
}
