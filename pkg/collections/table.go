package collections

import (
	"log/slog"

	"ember/core-go/pkg/runtime"
)

const initialBuckets = 8

type entry struct {
	key   runtime.Value
	value runtime.Value
	hash  uint32
	next  *entry
}

// table is the chained hash table behind Map and Set. The bucket count is a
// power of two and doubles once count exceeds it. Enumeration visits buckets
// in order and each chain front to back.
type table struct {
	rt      *runtime.Runtime
	buckets []*entry
	count   int
	lock    int
}

func newTable(rt *runtime.Runtime) table {
	return table{rt: rt, buckets: make([]*entry, initialBuckets)}
}

func (t *table) mutable(class string) error {
	if t.lock > 0 {
		return runtime.ModifyDuringIteration(class)
	}
	return nil
}

func (t *table) find(key runtime.Value) (*entry, uint32, error) {
	h, err := t.rt.Hash(key)
	if err != nil {
		return nil, 0, err
	}
	for e := t.buckets[h&uint32(len(t.buckets)-1)]; e != nil; e = e.next {
		if e.hash != h {
			continue
		}
		eq, err := t.rt.Equal(e.key, key)
		if err != nil {
			return nil, 0, err
		}
		if eq {
			return e, h, nil
		}
	}
	return nil, h, nil
}

// put inserts or, when overwrite is set, replaces. It reports whether the
// table changed.
func (t *table) put(class string, key, value runtime.Value, overwrite bool) (bool, error) {
	e, h, err := t.find(key)
	if err != nil {
		return false, err
	}
	if e != nil {
		if !overwrite {
			return false, nil
		}
		old := e.value
		e.value = t.rt.Retain(value)
		t.rt.Release(old)
		return true, nil
	}
	if err := t.mutable(class); err != nil {
		return false, err
	}
	if err := t.rt.CheckSize(t.count + 1); err != nil {
		return false, err
	}
	t.link(&entry{key: t.rt.Retain(key), value: t.rt.Retain(value), hash: h})
	t.count++
	if t.count > len(t.buckets) {
		t.rehash(len(t.buckets) * 2)
	}
	return true, nil
}

func (t *table) link(n *entry) {
	slot := &t.buckets[n.hash&uint32(len(t.buckets)-1)]
	for *slot != nil {
		slot = &(*slot).next
	}
	n.next = nil
	*slot = n
}

func (t *table) rehash(size int) {
	old := t.buckets
	t.buckets = make([]*entry, size)
	for _, head := range old {
		for e := head; e != nil; {
			next := e.next
			t.link(e)
			e = next
		}
	}
	t.rt.Logger().Debug("hash table rehash", slog.Int("buckets", size), slog.Int("count", t.count))
}

// unlink removes key and returns its entry, whose references now belong to
// the caller.
func (t *table) unlink(class string, key runtime.Value) (*entry, error) {
	h, err := t.rt.Hash(key)
	if err != nil {
		return nil, err
	}
	slot := &t.buckets[h&uint32(len(t.buckets)-1)]
	for e := *slot; e != nil; e = e.next {
		if e.hash == h {
			eq, err := t.rt.Equal(e.key, key)
			if err != nil {
				return nil, err
			}
			if eq {
				if err := t.mutable(class); err != nil {
					return nil, err
				}
				*slot = e.next
				t.count--
				return e, nil
			}
		}
		slot = &e.next
	}
	return nil, nil
}

func (t *table) each(fn func(e *entry) error) error {
	for _, head := range t.buckets {
		for e := head; e != nil; e = e.next {
			if err := fn(e); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *table) clear(class string) error {
	if err := t.mutable(class); err != nil {
		return err
	}
	old := t.buckets
	t.buckets = make([]*entry, initialBuckets)
	t.count = 0
	for _, head := range old {
		for e := head; e != nil; e = e.next {
			t.rt.Release(e.key)
			t.rt.Release(e.value)
		}
	}
	return nil
}

func (t *table) finalize(release func(runtime.Value)) {
	for _, head := range t.buckets {
		for e := head; e != nil; e = e.next {
			release(e.key)
			release(e.value)
		}
	}
	t.buckets = nil
	t.count = 0
}

// iterator walks a snapshot of the entries while the owner stays locked.
func (t *table) iterator(owner runtime.Value, pick func(e *entry) runtime.Value) runtime.Iterator {
	var entries []*entry
	t.each(func(e *entry) error {
		entries = append(entries, e)
		return nil
	})
	t.rt.Retain(owner)
	t.lock++
	i := 0
	return runtime.NewIteratorValue(func() (runtime.Value, bool, error) {
		if i >= len(entries) {
			return runtime.Null, true, nil
		}
		e := entries[i]
		i++
		return pick(e), false, nil
	}, func() {
		t.lock--
		t.rt.Release(owner)
	})
}

// hashUnordered combines entry hashes independent of bucket order.
func (t *table) hashUnordered(w *runtime.Walker, tag byte, withValues bool) (uint32, error) {
	var sum uint32
	err := t.each(func(e *entry) error {
		kh, err := w.Hash(e.key)
		if err != nil {
			return err
		}
		if withValues {
			vh, err := w.Hash(e.value)
			if err != nil {
				return err
			}
			kh = kh*31 + vh
		}
		sum += kh
		return nil
	})
	if err != nil {
		return 0, err
	}
	h := runtime.NewHasher(w.Runtime().Seed(), tag)
	h.WriteUint32(uint32(t.count))
	h.WriteUint32(sum)
	return h.Sum32(), nil
}
