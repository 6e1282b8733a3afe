package intern

import (
	"fmt"
	"testing"
)

func TestInternReturnsSameSymbolForSameContent(t *testing.T) {
	table := NewTable(42, 0)
	a := table.Intern([]byte("hello"))
	b := table.InternString("hello")
	if a != b {
		t.Fatalf("expected identical symbols, got %p and %p", a, b)
	}
	if table.Len() != 1 {
		t.Fatalf("expected 1 symbol, got %d", table.Len())
	}
}

func TestInternDistinguishesContent(t *testing.T) {
	table := NewTable(7, 0)
	a := table.InternString("abc")
	b := table.InternString("abd")
	empty := table.InternString("")
	if a == b || a == empty || b == empty {
		t.Fatalf("expected distinct symbols for distinct content")
	}
	if empty.Len() != 0 || empty.String() != "" {
		t.Fatalf("unexpected empty symbol %q", empty.String())
	}
}

func TestLookupDoesNotInsert(t *testing.T) {
	table := NewTable(1, 0)
	if _, ok := table.LookupString("missing"); ok {
		t.Fatalf("expected lookup miss")
	}
	if table.Len() != 0 {
		t.Fatalf("lookup inserted a symbol")
	}
	sym := table.InternString("present")
	got, ok := table.Lookup([]byte("present"))
	if !ok || got != sym {
		t.Fatalf("expected lookup hit for interned content")
	}
}

func TestTableGrowsAndKeepsIdentity(t *testing.T) {
	table := NewTable(NewSeed(), 0)
	start := table.Buckets()
	syms := make([]*Symbol, 0, 500)
	for i := 0; i < 500; i++ {
		syms = append(syms, table.InternString(fmt.Sprintf("sym-%d", i)))
	}
	if table.Buckets() <= start {
		t.Fatalf("expected growth past %d buckets, got %d", start, table.Buckets())
	}
	for i, sym := range syms {
		if again := table.InternString(fmt.Sprintf("sym-%d", i)); again != sym {
			t.Fatalf("identity lost for sym-%d after growth", i)
		}
	}
	seen := 0
	table.Each(func(*Symbol) bool { seen++; return true })
	if seen != 500 {
		t.Fatalf("expected 500 symbols in enumeration, got %d", seen)
	}
}

func TestHashIsStableForTableLifetime(t *testing.T) {
	table := NewTable(99, 0)
	sym := table.InternString("stable")
	if table.HashBytes([]byte("stable")) != sym.Hash() {
		t.Fatalf("hash changed between insert and recompute")
	}
	other := NewTable(100, 0)
	if other.HashBytes([]byte("stable")) == sym.Hash() {
		t.Fatalf("expected seed to influence the hash")
	}
}
