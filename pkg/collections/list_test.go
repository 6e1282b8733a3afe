package collections

import (
	"errors"
	"math"
	"testing"

	"ember/core-go/pkg/numeric"
	"ember/core-go/pkg/runtime"
)

func newRuntime() *runtime.Runtime {
	rt := runtime.New(runtime.Options{HashSeed: 7})
	numeric.Install(rt)
	Install(rt)
	return rt
}

func ints(vs ...int) []runtime.Value {
	out := make([]runtime.Value, len(vs))
	for i, v := range vs {
		out[i] = runtime.SmallInt(int32(v))
	}
	return out
}

func drain(t *testing.T, rt *runtime.Runtime, it runtime.Iterator) []string {
	t.Helper()
	var out []string
	for {
		v, done, err := it.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if done {
			return out
		}
		s, err := rt.Repr(v)
		if err != nil {
			t.Fatalf("repr: %v", err)
		}
		out = append(out, s)
		rt.Release(v)
	}
}

func mustRepr(t *testing.T, rt *runtime.Runtime, v runtime.Value) string {
	t.Helper()
	s, err := rt.Repr(v)
	if err != nil {
		t.Fatalf("repr: %v", err)
	}
	return s
}

func TestListSort(t *testing.T) {
	rt := newRuntime()
	v := NewList(rt, ints(3, 1, 2)...)
	l, _ := ListOf(rt, v)
	if self, err := l.Sort(); err != nil || self != v {
		t.Fatalf("sort = %v, %v", self, err)
	}
	if got := mustRepr(t, rt, v); got != "[1, 2, 3]" {
		t.Fatalf("sorted = %s", got)
	}
	desc := runtime.NativeFunc(func(args []runtime.Value) (runtime.Value, error) {
		return numeric.IntSub(rt, args[1], args[0])
	})
	if _, err := l.SortBy(desc); err != nil {
		t.Fatalf("sort_by: %v", err)
	}
	if got := mustRepr(t, rt, v); got != "[3, 2, 1]" {
		t.Fatalf("sort_by = %s", got)
	}
}

func TestListSortIsStable(t *testing.T) {
	rt := newRuntime()
	var items []runtime.Value
	for i := 0; i < 20; i++ {
		items = append(items, NewList(rt, runtime.SmallInt(int32(i%3)), runtime.SmallInt(int32(i))))
	}
	v := NewList(rt, items...)
	rt.ReleaseAll(items)
	l, _ := ListOf(rt, v)
	byFirst := runtime.NativeFunc(func(args []runtime.Value) (runtime.Value, error) {
		a, _ := ListOf(rt, args[0])
		b, _ := ListOf(rt, args[1])
		x, _ := a.Get(0)
		y, _ := b.Get(0)
		return numeric.IntSub(rt, x, y)
	})
	if _, err := l.SortBy(byFirst); err != nil {
		t.Fatalf("sort_by: %v", err)
	}
	var prevKey, prevSeq int32 = -1, -1
	for i := 0; i < l.Len(); i++ {
		pair, _ := l.Get(i)
		p, _ := ListOf(rt, pair)
		key, _ := p.Get(0)
		seq, _ := p.Get(1)
		if key.Int() < prevKey {
			t.Fatalf("keys out of order at %d", i)
		}
		if key.Int() == prevKey && seq.Int() < prevSeq {
			t.Fatalf("equal keys reordered at %d", i)
		}
		prevKey, prevSeq = key.Int(), seq.Int()
	}
}

func TestListSortComparatorFailureLeavesListUnchanged(t *testing.T) {
	rt := newRuntime()
	v := NewList(rt, ints(5, 4, 3, 2, 1, 9, 8, 7, 6)...)
	l, _ := ListOf(rt, v)
	calls := 0
	boom := runtime.NativeFunc(func(args []runtime.Value) (runtime.Value, error) {
		calls++
		if calls == 4 {
			return runtime.Null, runtime.NewValueError("boom")
		}
		return numeric.IntSub(rt, args[0], args[1])
	})
	if _, err := l.SortBy(boom); !errors.Is(err, runtime.ValueError) {
		t.Fatalf("expected ValueError, got %v", err)
	}
	if got := mustRepr(t, rt, v); got != "[5, 4, 3, 2, 1, 9, 8, 7, 6]" {
		t.Fatalf("list changed: %s", got)
	}
	notInt := runtime.NativeFunc(func([]runtime.Value) (runtime.Value, error) {
		return runtime.True, nil
	})
	if _, err := l.SortBy(notInt); !errors.Is(err, runtime.TypeError) {
		t.Fatalf("expected TypeError, got %v", err)
	}
}

func TestListComparatorCannotMutate(t *testing.T) {
	rt := newRuntime()
	v := NewList(rt, ints(3, 1, 2)...)
	l, _ := ListOf(rt, v)
	var setErr error
	meddle := runtime.NativeFunc(func(args []runtime.Value) (runtime.Value, error) {
		fresh := NewList(rt)
		setErr = l.Set(0, fresh)
		rt.Release(fresh)
		return numeric.IntSub(rt, args[0], args[1])
	})
	if _, err := l.SortBy(meddle); err != nil {
		t.Fatalf("sort_by: %v", err)
	}
	if setErr == nil || setErr.Error() != "ValueError: cannot modify List during iteration" {
		t.Fatalf("Set during sort: %v", setErr)
	}
	if got := mustRepr(t, rt, v); got != "[1, 2, 3]" {
		t.Fatalf("sorted = %s", got)
	}
	if err := l.Set(0, runtime.SmallInt(7)); err != nil {
		t.Fatalf("list still locked after sort: %v", err)
	}
	rt.Release(v)
	if live := rt.Heap.Live(); live != 0 {
		t.Fatalf("%d objects leaked", live)
	}
}

func TestListReverseReturnsReceiver(t *testing.T) {
	rt := newRuntime()
	v := NewList(rt, ints(1, 2, 3)...)
	defer rt.Release(v)
	l, _ := ListOf(rt, v)
	self, err := l.Reverse()
	if err != nil || self != v {
		t.Fatalf("reverse = %v, %v", self, err)
	}
	if got := mustRepr(t, rt, v); got != "[3, 2, 1]" {
		t.Fatalf("reversed = %s", got)
	}
}

func TestListIndexErrorReportsCallerIndex(t *testing.T) {
	rt := newRuntime()
	v := NewList(rt, ints(1, 2)...)
	defer rt.Release(v)
	l, _ := ListOf(rt, v)
	if _, err := l.Get(-5); err == nil || err.Error() != "IndexError: List index -5 out of range" {
		t.Fatalf("Get(-5): %v", err)
	}
	if _, err := l.Splice(-9, 1); err == nil || err.Error() != "IndexError: List index -9 out of range" {
		t.Fatalf("Splice(-9): %v", err)
	}
}

func TestListLockedDuringIteration(t *testing.T) {
	rt := newRuntime()
	v := NewList(rt, ints(1, 2, 3)...)
	l, _ := ListOf(rt, v)
	it, err := l.Iterator(rt)
	if err != nil {
		t.Fatalf("iterator: %v", err)
	}
	first, _, _ := it.Next()
	if first.Int() != 1 {
		t.Fatalf("first = %d", first.Int())
	}
	err = l.Push(runtime.SmallInt(4))
	if !errors.Is(err, runtime.ValueError) || err.Error() != "ValueError: cannot modify List during iteration" {
		t.Fatalf("push during iteration: %v", err)
	}
	if _, err := l.Pop(); err == nil {
		t.Fatalf("pop during iteration succeeded")
	}
	if err := l.Set(0, runtime.SmallInt(10)); err != nil {
		t.Fatalf("set is not structural: %v", err)
	}
	it.Close()
	if l.Locked() {
		t.Fatalf("list still locked after close")
	}
	if err := l.Push(runtime.SmallInt(4)); err != nil {
		t.Fatalf("push after close: %v", err)
	}
	if got := mustRepr(t, rt, v); got != "[10, 2, 3, 4]" {
		t.Fatalf("list = %s", got)
	}
}

func TestListIteratorKeepsListAlive(t *testing.T) {
	rt := newRuntime()
	v := NewList(rt, ints(1, 2)...)
	l, _ := ListOf(rt, v)
	it, _ := l.Iterator(rt)
	rt.Release(v)
	if !rt.Heap.Valid(v) {
		t.Fatalf("list freed under a live iterator")
	}
	if got := drain(t, rt, it); len(got) != 2 {
		t.Fatalf("drained %v", got)
	}
	if rt.Heap.Valid(v) {
		t.Fatalf("list outlived its iterator")
	}
}

func TestListIndexing(t *testing.T) {
	rt := newRuntime()
	v := NewList(rt, ints(1, 2, 3)...)
	l, _ := ListOf(rt, v)
	tests := []struct {
		idx  int
		want int32
		err  bool
	}{
		{0, 1, false},
		{2, 3, false},
		{-1, 3, false},
		{-3, 1, false},
		{3, 0, true},
		{-4, 0, true},
	}
	for _, tt := range tests {
		got, err := l.Get(tt.idx)
		if tt.err {
			if !errors.Is(err, runtime.IndexError) {
				t.Fatalf("Get(%d): expected IndexError, got %v", tt.idx, err)
			}
			continue
		}
		if err != nil || got.Int() != tt.want {
			t.Fatalf("Get(%d) = %d, %v", tt.idx, got.Int(), err)
		}
	}
}

func TestListPushPopShiftUnshift(t *testing.T) {
	rt := newRuntime()
	v := NewList(rt)
	l, _ := ListOf(rt, v)
	if _, err := l.Pop(); !errors.Is(err, runtime.IndexError) {
		t.Fatalf("pop empty: %v", err)
	}
	s := rt.NewString("x")
	if err := l.Push(s); err != nil {
		t.Fatalf("push: %v", err)
	}
	if rt.Heap.RefCount(s) != 2 {
		t.Fatalf("push did not retain: %d", rt.Heap.RefCount(s))
	}
	l.Unshift(runtime.SmallInt(0))
	l.Push(runtime.SmallInt(9))
	if got := mustRepr(t, rt, v); got != `[0, "x", 9]` {
		t.Fatalf("list = %s", got)
	}
	head, _ := l.Shift()
	tail, _ := l.Pop()
	if head.Int() != 0 || tail.Int() != 9 {
		t.Fatalf("shift/pop = %d %d", head.Int(), tail.Int())
	}
	out, _ := l.Pop()
	if out != s || rt.Heap.RefCount(s) != 2 {
		t.Fatalf("pop must transfer the list's reference")
	}
	rt.Release(out)
	rt.Release(s)
	if rt.Heap.Valid(s) {
		t.Fatalf("string leaked")
	}
}

func TestListSplice(t *testing.T) {
	rt := newRuntime()
	tests := []struct {
		start, count int
		repl         []runtime.Value
		list, gone   string
	}{
		{1, 2, ints(7), "[1, 7, 4, 5]", "[2, 3]"},
		{-2, 1, nil, "[1, 2, 3, 5]", "[4]"},
		{5, 0, ints(6, 7), "[1, 2, 3, 4, 5, 6, 7]", "[]"},
		{0, 99, nil, "[]", "[1, 2, 3, 4, 5]"},
	}
	for _, tt := range tests {
		v := NewList(rt, ints(1, 2, 3, 4, 5)...)
		l, _ := ListOf(rt, v)
		removed, err := l.Splice(tt.start, tt.count, tt.repl...)
		if err != nil {
			t.Fatalf("splice(%d, %d): %v", tt.start, tt.count, err)
		}
		if got := mustRepr(t, rt, v); got != tt.list {
			t.Fatalf("splice(%d, %d) list = %s, want %s", tt.start, tt.count, got, tt.list)
		}
		if got := mustRepr(t, rt, removed); got != tt.gone {
			t.Fatalf("splice(%d, %d) removed = %s, want %s", tt.start, tt.count, got, tt.gone)
		}
	}
	v := NewList(rt, ints(1)...)
	l, _ := ListOf(rt, v)
	if _, err := l.Splice(3, 0); !errors.Is(err, runtime.IndexError) {
		t.Fatalf("splice out of range: %v", err)
	}
}

func TestListCycleIsDetected(t *testing.T) {
	rt := newRuntime()
	v := NewList(rt, ints(1)...)
	l, _ := ListOf(rt, v)
	if err := l.Push(v); err != nil {
		t.Fatalf("push self: %v", err)
	}
	if _, err := rt.Hash(v); !errors.Is(err, runtime.LoopReferenceError) {
		t.Fatalf("hash: expected LoopReferenceError, got %v", err)
	}
	if _, err := rt.ToString(v); !errors.Is(err, runtime.LoopReferenceError) {
		t.Fatalf("to_string: expected LoopReferenceError, got %v", err)
	}
	var sink discard
	if err := rt.Marshal(&sink, v); !errors.Is(err, runtime.LoopReferenceError) {
		t.Fatalf("marshal: expected LoopReferenceError, got %v", err)
	}
}

func TestListOutOfMemory(t *testing.T) {
	rt := runtime.New(runtime.Options{HashSeed: 7, Limits: runtime.Limits{MaxCollectionSize: 2}})
	v := NewList(rt, ints(1, 2)...)
	l, _ := ListOf(rt, v)
	if err := l.Push(runtime.SmallInt(3)); !errors.Is(err, runtime.OutOfMemory) {
		t.Fatalf("expected OutOfMemory, got %v", err)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestSelfEqualityRespectsNaN(t *testing.T) {
	rt := newRuntime()
	nan := numeric.NewFloat(rt, math.NaN())
	withNaN := NewList(rt, nan)
	rt.Release(nan)
	plain := NewList(rt, ints(1, 2)...)
	defer rt.Release(withNaN)
	defer rt.Release(plain)
	cases := []struct {
		name string
		v    runtime.Value
		want bool
	}{
		{"list holding NaN", withNaN, false},
		{"list of ints", plain, true},
		{"interned string", rt.Intern("x"), true},
	}
	for _, tc := range cases {
		eq, err := rt.Equal(tc.v, tc.v)
		if err != nil || eq != tc.want {
			t.Fatalf("%s: Equal(v, v) = %v, %v, want %v", tc.name, eq, err, tc.want)
		}
	}
}
