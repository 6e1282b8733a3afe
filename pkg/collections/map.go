package collections

import (
	"strings"

	"ember/core-go/pkg/runtime"
)

// Map is a hash map from values to values.
type Map struct {
	table
	self runtime.Value
}

func (m *Map) Class() *runtime.Class { return runtime.MapClass }

// NewMap allocates an empty map. The result is owned.
func NewMap(rt *runtime.Runtime) runtime.Value {
	m := &Map{table: newTable(rt)}
	m.self = rt.Heap.Alloc(m)
	return m.self
}

// MapOf returns the Map behind v.
func MapOf(rt *runtime.Runtime, v runtime.Value) (*Map, error) {
	m, ok := rt.Heap.Get(v).(*Map)
	if !ok {
		return nil, runtime.NewTypeError("expected Map, got %s", rt.ClassOf(v).Name)
	}
	return m, nil
}

func (m *Map) Finalize(release func(runtime.Value)) { m.finalize(release) }

// Len returns the number of entries.
func (m *Map) Len() int { return m.count }

// Buckets returns the current bucket count.
func (m *Map) Buckets() int { return len(m.buckets) }

// Get returns the value stored under key, borrowed.
func (m *Map) Get(key runtime.Value) (runtime.Value, bool, error) {
	e, _, err := m.find(key)
	if err != nil || e == nil {
		return runtime.Null, false, err
	}
	return e.value, true, nil
}

// Add stores value under key. An existing key is replaced only when
// overwrite is set. The result reports whether the map changed.
func (m *Map) Add(key, value runtime.Value, overwrite bool) (bool, error) {
	return m.put("Map", key, value, overwrite)
}

// Set inserts or replaces.
func (m *Map) Set(key, value runtime.Value) error {
	_, err := m.put("Map", key, value, true)
	return err
}

// HasKey reports whether key is present.
func (m *Map) HasKey(key runtime.Value) (bool, error) {
	e, _, err := m.find(key)
	return e != nil, err
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key runtime.Value) (bool, error) {
	e, err := m.unlink("Map", key)
	if err != nil || e == nil {
		return false, err
	}
	m.rt.Release(e.key)
	m.rt.Release(e.value)
	return true, nil
}

// Remove deletes key and returns its value, owned by the caller.
func (m *Map) Remove(key runtime.Value) (runtime.Value, error) {
	e, err := m.unlink("Map", key)
	if err != nil {
		return runtime.Null, err
	}
	if e == nil {
		s, _ := m.rt.Repr(key)
		return runtime.Null, runtime.NewIndexError("key %s not found", s)
	}
	m.rt.Release(e.key)
	return e.value, nil
}

// Clear removes every entry.
func (m *Map) Clear() error { return m.clear("Map") }

func (m *Map) collect(pick func(e *entry) runtime.Value) runtime.Value {
	items := make([]runtime.Value, 0, m.count)
	m.each(func(e *entry) error {
		items = append(items, pick(e))
		return nil
	})
	return adoptList(m.rt, items)
}

func (m *Map) pickKey(e *entry) runtime.Value   { return m.rt.Retain(e.key) }
func (m *Map) pickValue(e *entry) runtime.Value { return m.rt.Retain(e.value) }
func (m *Map) pickItem(e *entry) runtime.Value  { return NewList(m.rt, e.key, e.value) }

// Keys returns the keys as a new List.
func (m *Map) Keys() runtime.Value { return m.collect(m.pickKey) }

// Values returns the values as a new List.
func (m *Map) Values() runtime.Value { return m.collect(m.pickValue) }

// Items returns [key, value] pairs as a new List.
func (m *Map) Items() runtime.Value { return m.collect(m.pickItem) }

// KeysIter, ValuesIter and ItemsIter iterate lazily; the map is locked until
// the iterator is closed or exhausted.
func (m *Map) KeysIter() runtime.Iterator   { return m.iterator(m.self, m.pickKey) }
func (m *Map) ValuesIter() runtime.Iterator { return m.iterator(m.self, m.pickValue) }
func (m *Map) ItemsIter() runtime.Iterator  { return m.iterator(m.self, m.pickItem) }

// Iterator yields the keys.
func (m *Map) Iterator(*runtime.Runtime) (runtime.Iterator, error) {
	return m.KeysIter(), nil
}

func (m *Map) HashValue(w *runtime.Walker) (uint32, error) {
	return m.hashUnordered(w, runtime.HashTagMap, true)
}

func (m *Map) EqualValue(w *runtime.Walker, other runtime.Value) (bool, error) {
	o, ok := w.Runtime().Heap.Get(other).(*Map)
	if !ok || o.count != m.count {
		return false, nil
	}
	equal := true
	err := m.each(func(e *entry) error {
		ov, found, err := o.Get(e.key)
		if err != nil {
			return err
		}
		if !found {
			equal = false
			return errStopEach
		}
		eq, err := w.Equal(e.value, ov)
		if err != nil {
			return err
		}
		if !eq {
			equal = false
			return errStopEach
		}
		return nil
	})
	if err != nil && err != errStopEach {
		return false, err
	}
	return equal, nil
}

func (m *Map) Describe(w *runtime.Walker) (string, error) {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	err := m.each(func(e *entry) error {
		k, err := w.Repr(e.key)
		if err != nil {
			return err
		}
		v, err := w.Repr(e.value)
		if err != nil {
			return err
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		return nil
	})
	b.WriteByte('}')
	return b.String(), err
}

var errStopEach = runtime.NewStopIteration()

// Set is a hash set of values.
type Set struct {
	table
	self runtime.Value
}

func (s *Set) Class() *runtime.Class { return runtime.SetClass }

// NewSet allocates a set holding values. The result is owned.
func NewSet(rt *runtime.Runtime, values ...runtime.Value) (runtime.Value, error) {
	s := &Set{table: newTable(rt)}
	s.self = rt.Heap.Alloc(s)
	for _, v := range values {
		if _, err := s.Add(v); err != nil {
			rt.Release(s.self)
			return runtime.Null, err
		}
	}
	return s.self, nil
}

// SetOf returns the Set behind v.
func SetOf(rt *runtime.Runtime, v runtime.Value) (*Set, error) {
	s, ok := rt.Heap.Get(v).(*Set)
	if !ok {
		return nil, runtime.NewTypeError("expected Set, got %s", rt.ClassOf(v).Name)
	}
	return s, nil
}

func (s *Set) Finalize(release func(runtime.Value)) { s.finalize(release) }

// Len returns the number of members.
func (s *Set) Len() int { return s.count }

// Add inserts v and reports whether it was new.
func (s *Set) Add(v runtime.Value) (bool, error) {
	return s.put("Set", v, runtime.Null, false)
}

// Has reports membership.
func (s *Set) Has(v runtime.Value) (bool, error) {
	e, _, err := s.find(v)
	return e != nil, err
}

// Delete removes v and reports whether it was present.
func (s *Set) Delete(v runtime.Value) (bool, error) {
	e, err := s.unlink("Set", v)
	if err != nil || e == nil {
		return false, err
	}
	s.rt.Release(e.key)
	return true, nil
}

// Clear removes every member.
func (s *Set) Clear() error { return s.clear("Set") }

// Values returns the members as a new List.
func (s *Set) Values() runtime.Value {
	items := make([]runtime.Value, 0, s.count)
	s.each(func(e *entry) error {
		items = append(items, s.rt.Retain(e.key))
		return nil
	})
	return adoptList(s.rt, items)
}

// Iterator yields the members; the set is locked until it is closed or
// exhausted.
func (s *Set) Iterator(*runtime.Runtime) (runtime.Iterator, error) {
	return s.iterator(s.self, func(e *entry) runtime.Value { return s.rt.Retain(e.key) }), nil
}

func (s *Set) HashValue(w *runtime.Walker) (uint32, error) {
	return s.hashUnordered(w, runtime.HashTagSet, false)
}

func (s *Set) EqualValue(w *runtime.Walker, other runtime.Value) (bool, error) {
	o, ok := w.Runtime().Heap.Get(other).(*Set)
	if !ok || o.count != s.count {
		return false, nil
	}
	equal := true
	err := s.each(func(e *entry) error {
		found, err := o.Has(e.key)
		if err != nil {
			return err
		}
		if !found {
			equal = false
			return errStopEach
		}
		return nil
	})
	if err != nil && err != errStopEach {
		return false, err
	}
	return equal, nil
}

func (s *Set) Describe(w *runtime.Walker) (string, error) {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	err := s.each(func(e *entry) error {
		k, err := w.Repr(e.key)
		if err != nil {
			return err
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(k)
		return nil
	})
	b.WriteByte('}')
	return b.String(), err
}
