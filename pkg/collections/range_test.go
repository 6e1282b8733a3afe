package collections

import (
	"errors"
	"reflect"
	"testing"

	"ember/core-go/pkg/numeric"
	"ember/core-go/pkg/runtime"
)

func rangeOver(t *testing.T, rt *runtime.Runtime, begin, end runtime.Value, open bool, step runtime.Value) *Range {
	t.Helper()
	v, err := NewRange(rt, begin, end, open, step)
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	r, _ := RangeOf(rt, v)
	return r
}

func TestRangeIteration(t *testing.T) {
	rt := newRuntime()
	tests := []struct {
		name       string
		begin, end int
		open       bool
		step       int
		want       []string
	}{
		{"open", 1, 5, true, 0, []string{"1", "2", "3", "4"}},
		{"closed", 1, 5, false, 0, []string{"1", "2", "3", "4", "5"}},
		{"stepped", 0, 10, false, 3, []string{"0", "3", "6", "9"}},
		{"decreasing", 5, 1, false, 0, []string{"5", "4", "3", "2", "1"}},
		{"decreasing open stepped", 10, 0, true, 4, []string{"10", "6", "2"}},
		{"empty", 3, 3, true, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := runtime.Null
			if tt.step != 0 {
				step = runtime.SmallInt(int32(tt.step))
			}
			r := rangeOver(t, rt, runtime.SmallInt(int32(tt.begin)), runtime.SmallInt(int32(tt.end)), tt.open, step)
			it, err := r.Iterator(rt)
			if err != nil {
				t.Fatalf("iterator: %v", err)
			}
			if got := drain(t, rt, it); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			n, err := r.Len()
			if err != nil || n != len(tt.want) {
				t.Fatalf("Len = %d, %v; want %d", n, err, len(tt.want))
			}
		})
	}
}

func TestRangeValidation(t *testing.T) {
	rt := newRuntime()
	f := numeric.NewFloat(rt, 2.5)
	defer rt.Release(f)
	s := rt.NewString("a")
	defer rt.Release(s)
	list := NewList(rt)
	defer rt.Release(list)
	tests := []struct {
		name       string
		begin, end runtime.Value
		step       runtime.Value
		kind       runtime.ErrorKind
	}{
		{"zero step", runtime.SmallInt(1), runtime.SmallInt(5), runtime.SmallInt(0), runtime.ValueError},
		{"negative step", runtime.SmallInt(1), runtime.SmallInt(5), runtime.SmallInt(-1), runtime.ValueError},
		{"mixed bounds", runtime.SmallInt(1), f, runtime.Null, runtime.TypeError},
		{"unordered", list, list, runtime.Null, runtime.TypeError},
		{"step class", runtime.SmallInt(1), runtime.SmallInt(5), f, runtime.TypeError},
		{"string without step", s, s, runtime.Null, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewRange(rt, tt.begin, tt.end, false, tt.step)
			if tt.kind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				rt.Release(v)
				return
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	rt := newRuntime()
	r := rangeOver(t, rt, runtime.SmallInt(0), runtime.SmallInt(10), true, runtime.SmallInt(2))
	tests := []struct {
		x    int32
		want bool
	}{
		{0, true}, {4, true}, {5, false}, {10, false}, {-2, false}, {8, true},
	}
	for _, tt := range tests {
		got, err := r.Contains(runtime.SmallInt(tt.x))
		if err != nil || got != tt.want {
			t.Fatalf("Contains(%d) = %v, %v", tt.x, got, err)
		}
	}
	down := rangeOver(t, rt, runtime.SmallInt(5), runtime.SmallInt(1), false, runtime.Null)
	if !down.IsDecreasing() {
		t.Fatalf("5..1 is not decreasing")
	}
	if ok, _ := down.Contains(runtime.SmallInt(3)); !ok {
		t.Fatalf("5..1 misses 3")
	}
	if ok, _ := down.Contains(runtime.SmallInt(6)); ok {
		t.Fatalf("5..1 contains 6")
	}
}

func TestRangeUnbounded(t *testing.T) {
	rt := newRuntime()
	r := rangeOver(t, rt, runtime.SmallInt(1), runtime.Null, false, runtime.Null)
	if _, err := r.Len(); !errors.Is(err, runtime.ValueError) {
		t.Fatalf("Len of unbounded range: %v", err)
	}
	it, _ := r.Iterator(rt)
	defer it.Close()
	for want := int32(1); want <= 100; want++ {
		v, done, err := it.Next()
		if err != nil || done || v.Int() != want {
			t.Fatalf("step %d: %d, %v, %v", want, v.Int(), done, err)
		}
	}
}

func TestRangeFloatAndDescribe(t *testing.T) {
	rt := newRuntime()
	b := numeric.NewFloat(rt, 0)
	e := numeric.NewFloat(rt, 1)
	st := numeric.NewFloat(rt, 0.25)
	defer rt.ReleaseAll([]runtime.Value{b, e, st})
	r := rangeOver(t, rt, b, e, true, st)
	it, _ := r.Iterator(rt)
	if got := drain(t, rt, it); !reflect.DeepEqual(got, []string{"0.0", "0.25", "0.5", "0.75"}) {
		t.Fatalf("float range = %v", got)
	}
	v, _ := NewRange(rt, runtime.SmallInt(1), runtime.SmallInt(5), true, runtime.Null)
	if got := mustRepr(t, rt, v); got != "1..<5" {
		t.Fatalf("describe = %s", got)
	}
	w, _ := NewRange(rt, runtime.SmallInt(1), runtime.SmallInt(9), false, runtime.SmallInt(2))
	if got := mustRepr(t, rt, w); got != "1..9 by 2" {
		t.Fatalf("describe = %s", got)
	}
}
