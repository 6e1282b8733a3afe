// Package collections implements List, Map, Set and Range on the runtime
// heap.
//
// Containers retain what they store and release what they drop. Accessors
// return borrowed values; removals hand ownership to the caller. While an
// iterator is live its collection is locked against structural mutation.
package collections

import (
	"strings"

	"ember/core-go/pkg/runtime"
)

// List is a growable sequence.
type List struct {
	rt    *runtime.Runtime
	self  runtime.Value
	items []runtime.Value
	lock  int
}

func (l *List) Class() *runtime.Class { return runtime.ListClass }

// NewList allocates a list holding values, which are retained. The result is
// owned.
func NewList(rt *runtime.Runtime, values ...runtime.Value) runtime.Value {
	items := make([]runtime.Value, len(values))
	for i, v := range values {
		items[i] = rt.Retain(v)
	}
	return adoptList(rt, items)
}

// adoptList allocates a list that takes ownership of items.
func adoptList(rt *runtime.Runtime, items []runtime.Value) runtime.Value {
	l := &List{rt: rt, items: items}
	l.self = rt.Heap.Alloc(l)
	return l.self
}

// ListOf returns the List behind v.
func ListOf(rt *runtime.Runtime, v runtime.Value) (*List, error) {
	l, ok := rt.Heap.Get(v).(*List)
	if !ok {
		return nil, runtime.NewTypeError("expected List, got %s", rt.ClassOf(v).Name)
	}
	return l, nil
}

func (l *List) Finalize(release func(runtime.Value)) {
	for _, v := range l.items {
		release(v)
	}
	l.items = nil
}

// Len returns the element count.
func (l *List) Len() int { return len(l.items) }

// Locked reports whether an iterator is live.
func (l *List) Locked() bool { return l.lock > 0 }

// Values returns the elements, borrowed.
func (l *List) Values() []runtime.Value {
	out := make([]runtime.Value, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) index(i int) (int, error) {
	n := len(l.items)
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, runtime.NewIndexError("List index %d out of range", i)
	}
	return idx, nil
}

func (l *List) mutable() error {
	if l.lock > 0 {
		return runtime.ModifyDuringIteration("List")
	}
	return nil
}

// Get returns the element at i, borrowed. Negative indexes count from the end.
func (l *List) Get(i int) (runtime.Value, error) {
	idx, err := l.index(i)
	if err != nil {
		return runtime.Null, err
	}
	return l.items[idx], nil
}

// Set replaces the element at i.
func (l *List) Set(i int, v runtime.Value) error {
	if err := l.mutable(); err != nil {
		return err
	}
	idx, err := l.index(i)
	if err != nil {
		return err
	}
	old := l.items[idx]
	l.items[idx] = l.rt.Retain(v)
	l.rt.Release(old)
	return nil
}

func (l *List) grow(n int) error {
	return l.rt.CheckSize(len(l.items) + n)
}

// Push appends v.
func (l *List) Push(v runtime.Value) error {
	if err := l.mutable(); err != nil {
		return err
	}
	if err := l.grow(1); err != nil {
		return err
	}
	l.items = append(l.items, l.rt.Retain(v))
	return nil
}

// Pop removes and returns the last element. The result is owned.
func (l *List) Pop() (runtime.Value, error) {
	if err := l.mutable(); err != nil {
		return runtime.Null, err
	}
	n := len(l.items)
	if n == 0 {
		return runtime.Null, runtime.NewIndexError("pop from empty List")
	}
	v := l.items[n-1]
	l.items[n-1] = runtime.Null
	l.items = l.items[:n-1]
	return v, nil
}

// Unshift prepends v.
func (l *List) Unshift(v runtime.Value) error {
	if err := l.mutable(); err != nil {
		return err
	}
	if err := l.grow(1); err != nil {
		return err
	}
	l.items = append(l.items, runtime.Null)
	copy(l.items[1:], l.items)
	l.items[0] = l.rt.Retain(v)
	return nil
}

// Shift removes and returns the first element. The result is owned.
func (l *List) Shift() (runtime.Value, error) {
	if err := l.mutable(); err != nil {
		return runtime.Null, err
	}
	if len(l.items) == 0 {
		return runtime.Null, runtime.NewIndexError("shift from empty List")
	}
	v := l.items[0]
	copy(l.items, l.items[1:])
	l.items[len(l.items)-1] = runtime.Null
	l.items = l.items[:len(l.items)-1]
	return v, nil
}

// Splice removes count elements at start, inserts replacement there and
// returns the removed elements as a new List. start may be negative and may
// equal Len.
func (l *List) Splice(start, count int, replacement ...runtime.Value) (runtime.Value, error) {
	if err := l.mutable(); err != nil {
		return runtime.Null, err
	}
	n := len(l.items)
	at := start
	if at < 0 {
		at += n
	}
	if at < 0 || at > n {
		return runtime.Null, runtime.NewIndexError("List index %d out of range", start)
	}
	start = at
	if count < 0 {
		return runtime.Null, runtime.NewValueError("negative splice count")
	}
	count = min(count, n-start)
	if err := l.grow(len(replacement) - count); err != nil {
		return runtime.Null, err
	}
	removed := make([]runtime.Value, count)
	copy(removed, l.items[start:start+count])
	tail := append([]runtime.Value(nil), l.items[start+count:]...)
	l.items = l.items[:start]
	for _, v := range replacement {
		l.items = append(l.items, l.rt.Retain(v))
	}
	l.items = append(l.items, tail...)
	return adoptList(l.rt, removed), nil
}

// Reverse reverses in place and returns the list, borrowed.
func (l *List) Reverse() (runtime.Value, error) {
	if err := l.mutable(); err != nil {
		return runtime.Null, err
	}
	for i, j := 0, len(l.items)-1; i < j; i, j = i+1, j-1 {
		l.items[i], l.items[j] = l.items[j], l.items[i]
	}
	return l.self, nil
}

// Clear drops every element.
func (l *List) Clear() error {
	if err := l.mutable(); err != nil {
		return err
	}
	items := l.items
	l.items = nil
	l.rt.ReleaseAll(items)
	return nil
}

// Contains reports whether some element equals v.
func (l *List) Contains(v runtime.Value) (bool, error) {
	for _, item := range l.items {
		eq, err := l.rt.Equal(item, v)
		if err != nil || eq {
			return eq, err
		}
	}
	return false, nil
}

// Iterator returns an iterator over the elements. The list is locked until
// the iterator is closed or exhausted.
func (l *List) Iterator(rt *runtime.Runtime) (runtime.Iterator, error) {
	rt.Retain(l.self)
	l.lock++
	i := 0
	return runtime.NewIteratorValue(func() (runtime.Value, bool, error) {
		if i >= len(l.items) {
			return runtime.Null, true, nil
		}
		v := l.items[i]
		i++
		return rt.Retain(v), false, nil
	}, func() {
		l.lock--
		rt.Release(l.self)
	}), nil
}

func (l *List) HashValue(w *runtime.Walker) (uint32, error) {
	h := runtime.NewHasher(w.Runtime().Seed(), runtime.HashTagList)
	for _, v := range l.items {
		hv, err := w.Hash(v)
		if err != nil {
			return 0, err
		}
		h.WriteUint32(hv)
	}
	return h.Sum32(), nil
}

func (l *List) EqualValue(w *runtime.Walker, other runtime.Value) (bool, error) {
	o, ok := w.Runtime().Heap.Get(other).(*List)
	if !ok || len(o.items) != len(l.items) {
		return false, nil
	}
	for i := range l.items {
		eq, err := w.Equal(l.items[i], o.items[i])
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func (l *List) Describe(w *runtime.Walker) (string, error) {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range l.items {
		if i > 0 {
			b.WriteString(", ")
		}
		s, err := w.Repr(v)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	b.WriteByte(']')
	return b.String(), nil
}
