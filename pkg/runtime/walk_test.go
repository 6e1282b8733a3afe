package runtime

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeepEqualityAndHash(t *testing.T) {
	rt := newTestRuntime()
	s1, s2 := rt.NewString("a"), rt.NewString("a")
	a := newBox(rt, SmallInt(1), s1)
	b := newBox(rt, SmallInt(1), s2)
	eq, err := rt.Equal(a, b)
	if err != nil || !eq {
		t.Fatalf("expected structural equality (%v)", err)
	}
	ha, _ := rt.Hash(a)
	hb, _ := rt.Hash(b)
	if ha != hb {
		t.Fatalf("equal values hashed differently")
	}
	c := newBox(rt, SmallInt(2), s1)
	if eq, _ := rt.Equal(a, c); eq {
		t.Fatalf("expected inequality")
	}
	if eq, _ := rt.Equal(SmallInt(1), True); eq {
		t.Fatalf("different classes compared equal")
	}
}

func TestSharedNonCyclicStructureIsNotALoop(t *testing.T) {
	rt := newTestRuntime()
	leaf := newBox(rt, SmallInt(1))
	pair := newBox(rt, leaf, leaf)
	s, err := rt.ToString(pair)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "box(box(1), box(1))" {
		t.Fatalf("unexpected rendering %q", s)
	}
	if eq, err := rt.Equal(pair, pair); err != nil || !eq {
		t.Fatalf("self equality failed: %v", err)
	}
}

func TestCycleDetection(t *testing.T) {
	rt := newTestRuntime()
	v := newBox(rt)
	b := rt.Heap.Get(v).(*box)
	b.items = append(b.items, rt.Retain(v))
	if _, err := rt.ToString(v); !errors.Is(err, LoopReferenceError) {
		t.Fatalf("expected LoopReferenceError from to_string, got %v", err)
	}
	if _, err := rt.Hash(v); !errors.Is(err, LoopReferenceError) {
		t.Fatalf("expected LoopReferenceError from hash, got %v", err)
	}
	w := newBox(rt)
	wb := rt.Heap.Get(w).(*box)
	wb.items = append(wb.items, rt.Retain(w))
	if _, err := rt.Equal(v, w); !errors.Is(err, LoopReferenceError) {
		t.Fatalf("expected LoopReferenceError from equal, got %v", err)
	}
}

func TestDepthLimit(t *testing.T) {
	rt := New(Options{HashSeed: 1, Limits: Limits{MaxDepth: 8}})
	cur := SmallInt(0)
	for i := 0; i < 20; i++ {
		cur = newBox(rt, cur)
	}
	if _, err := rt.ToString(cur); !errors.Is(err, StackOverflow) {
		t.Fatalf("expected StackOverflow, got %v", err)
	}
}

func TestCompare(t *testing.T) {
	rt := newTestRuntime()
	if c, _ := rt.Compare(SmallInt(1), SmallInt(2)); c != -1 {
		t.Fatalf("1 <=> 2 = %d", c)
	}
	a, b := rt.NewString("apple"), rt.NewString("banana")
	if c, _ := rt.Compare(b, a); c != 1 {
		t.Fatalf("banana <=> apple = %d", c)
	}
	if _, err := rt.Compare(a, SmallInt(1)); !errors.Is(err, TypeError) {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if _, err := rt.Compare(True, False); !errors.Is(err, TypeError) {
		t.Fatalf("expected TypeError for bools, got %v", err)
	}
}

func TestMarshalScalarsAndStrings(t *testing.T) {
	rt := newTestRuntime()
	var buf bytes.Buffer
	for _, v := range []Value{Null, True, False, rt.NewString("héllo")} {
		buf.Reset()
		if err := rt.Marshal(&buf, v); err != nil {
			t.Fatalf("marshal: %v", err)
		}
		got, err := rt.Unmarshal(&buf)
		if err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if eq, _ := rt.Equal(v, got); !eq {
			t.Fatalf("round trip mismatch for %#v", v)
		}
	}
	buf.Reset()
	rt.Marshal(&buf, rt.NewString("ab"))
	if want := []byte{TagString, 0, 0, 0, 2, 'a', 'b'}; !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("unexpected string frame % x", buf.Bytes())
	}
}

func TestUnmarshalErrors(t *testing.T) {
	rt := New(Options{HashSeed: 1, Limits: Limits{MaxCollectionSize: 4}})
	if _, err := rt.Unmarshal(bytes.NewReader([]byte{0x7f})); !errors.Is(err, ValueError) {
		t.Fatalf("expected ValueError for unknown tag, got %v", err)
	}
	if _, err := rt.Unmarshal(bytes.NewReader([]byte{TagString, 0, 0, 0, 9})); !errors.Is(err, OutOfMemory) {
		t.Fatalf("expected OutOfMemory for oversized string, got %v", err)
	}
	if _, err := rt.Unmarshal(bytes.NewReader([]byte{TagString, 0, 0, 0, 3, 'a'})); err == nil {
		t.Fatalf("expected truncated read error")
	}
	if err := rt.Marshal(&bytes.Buffer{}, newBox(rt)); !errors.Is(err, TypeError) {
		t.Fatalf("expected TypeError for class without codec, got %v", err)
	}
}
