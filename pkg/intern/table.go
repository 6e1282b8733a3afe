// Package intern canonicalizes byte strings into unique, immortal symbols.
//
// A Table hands out one *Symbol per distinct content. Symbols are never
// removed, so pointer equality is content equality for the table's lifetime.
package intern

import (
	"math/rand/v2"
)

const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619

	minBuckets = 16
)

// Symbol is an interned byte string.
type Symbol struct {
	text string
	hash uint32
	id   uint32
	next *Symbol
}

// String returns the symbol's content.
func (s *Symbol) String() string {
	if s == nil {
		return ""
	}
	return s.text
}

// Bytes returns a copy of the symbol's content.
func (s *Symbol) Bytes() []byte {
	if s == nil {
		return nil
	}
	return []byte(s.text)
}

// Len reports the content length in bytes.
func (s *Symbol) Len() int {
	if s == nil {
		return 0
	}
	return len(s.text)
}

// Hash is the table-seeded content hash.
func (s *Symbol) Hash() uint32 {
	if s == nil {
		return 0
	}
	return s.hash
}

// ID is the insertion ordinal, starting at 1.
func (s *Symbol) ID() uint32 {
	if s == nil {
		return 0
	}
	return s.id
}

// Table is an open-chained symbol table. It is not safe for concurrent use.
type Table struct {
	seed    uint32
	buckets []*Symbol
	count   int
}

// NewSeed draws a hash seed. Call it once per process.
func NewSeed() uint32 {
	for {
		if seed := rand.Uint32(); seed != 0 {
			return seed
		}
	}
}

// NewTable constructs a table whose hash is fixed by seed for its lifetime.
func NewTable(seed uint32, capacity int) *Table {
	size := minBuckets
	for size < capacity {
		size <<= 1
	}
	return &Table{
		seed:    seed,
		buckets: make([]*Symbol, size),
	}
}

// Seed returns the hash seed.
func (t *Table) Seed() uint32 {
	return t.seed
}

// Len returns the number of distinct symbols.
func (t *Table) Len() int {
	return t.count
}

// Buckets returns the current bucket count.
func (t *Table) Buckets() int {
	return len(t.buckets)
}

// HashBytes computes the seeded FNV-1a hash used for bucket selection.
func (t *Table) HashBytes(data []byte) uint32 {
	hash := fnvOffset32 ^ t.seed
	for _, b := range data {
		hash ^= uint32(b)
		hash *= fnvPrime32
	}
	return hash
}

func (t *Table) hashString(data string) uint32 {
	hash := fnvOffset32 ^ t.seed
	for i := 0; i < len(data); i++ {
		hash ^= uint32(data[i])
		hash *= fnvPrime32
	}
	return hash
}

// Intern returns the canonical symbol for data, inserting it on first sight.
func (t *Table) Intern(data []byte) *Symbol {
	return t.InternString(string(data))
}

// InternString is Intern for string content.
func (t *Table) InternString(text string) *Symbol {
	hash := t.hashString(text)
	if sym := t.find(hash, text); sym != nil {
		return sym
	}
	t.count++
	sym := &Symbol{text: text, hash: hash, id: uint32(t.count)}
	idx := hash & uint32(len(t.buckets)-1)
	sym.next = t.buckets[idx]
	t.buckets[idx] = sym
	if t.count > len(t.buckets) {
		t.grow()
	}
	return sym
}

// Lookup finds an existing symbol without inserting.
func (t *Table) Lookup(data []byte) (*Symbol, bool) {
	return t.LookupString(string(data))
}

// LookupString is Lookup for string content.
func (t *Table) LookupString(text string) (*Symbol, bool) {
	sym := t.find(t.hashString(text), text)
	return sym, sym != nil
}

func (t *Table) find(hash uint32, text string) *Symbol {
	for sym := t.buckets[hash&uint32(len(t.buckets)-1)]; sym != nil; sym = sym.next {
		if sym.hash == hash && sym.text == text {
			return sym
		}
	}
	return nil
}

func (t *Table) grow() {
	next := make([]*Symbol, len(t.buckets)*2)
	mask := uint32(len(next) - 1)
	for _, head := range t.buckets {
		for sym := head; sym != nil; {
			following := sym.next
			idx := sym.hash & mask
			sym.next = next[idx]
			next[idx] = sym
			sym = following
		}
	}
	t.buckets = next
}

// Each visits every symbol in bucket order.
func (t *Table) Each(fn func(*Symbol) bool) {
	for _, head := range t.buckets {
		for sym := head; sym != nil; sym = sym.next {
			if !fn(sym) {
				return
			}
		}
	}
}
