package collections

import (
	"ember/core-go/pkg/numeric"
	"ember/core-go/pkg/runtime"
)

const insertionSortCutoff = 7

type compareFunc func(a, b runtime.Value) (int, error)

// Sort orders the list ascending with the runtime's Compare and returns the
// list, borrowed.
func (l *List) Sort() (runtime.Value, error) {
	return l.sortWith(l.rt.Compare)
}

// SortBy orders the list with a user comparator returning a negative, zero
// or positive Integer. The list is locked while the comparator runs.
func (l *List) SortBy(cmp runtime.Callable) (runtime.Value, error) {
	return l.sortWith(func(a, b runtime.Value) (int, error) {
		res, err := cmp.Call([]runtime.Value{a, b})
		if err != nil {
			return 0, err
		}
		defer l.rt.Release(res)
		if !numeric.IsInteger(l.rt, res) {
			return 0, runtime.NewTypeError("comparator must return an Integer, got %s", l.rt.ClassOf(res).Name)
		}
		return numeric.Sign(l.rt, res)
	})
}

// sortWith runs a stable merge sort on a working copy so a failing
// comparator leaves the list untouched.
func (l *List) sortWith(cmp compareFunc) (runtime.Value, error) {
	if err := l.mutable(); err != nil {
		return runtime.Null, err
	}
	work := make([]runtime.Value, len(l.items))
	copy(work, l.items)
	scratch := make([]runtime.Value, len(work))
	l.lock++
	err := mergeSort(work, scratch, cmp)
	l.lock--
	if err != nil {
		return runtime.Null, err
	}
	copy(l.items, work)
	return l.self, nil
}

func mergeSort(items, scratch []runtime.Value, cmp compareFunc) error {
	if len(items) < insertionSortCutoff {
		return insertionSort(items, cmp)
	}
	mid := len(items) / 2
	if err := mergeSort(items[:mid], scratch[:mid], cmp); err != nil {
		return err
	}
	if err := mergeSort(items[mid:], scratch[mid:], cmp); err != nil {
		return err
	}
	i, j, k := 0, mid, 0
	for i < mid && j < len(items) {
		c, err := cmp(items[j], items[i])
		if err != nil {
			return err
		}
		if c < 0 {
			scratch[k] = items[j]
			j++
		} else {
			scratch[k] = items[i]
			i++
		}
		k++
	}
	k += copy(scratch[k:], items[i:mid])
	copy(scratch[k:], items[j:])
	copy(items, scratch[:len(items)])
	return nil
}

func insertionSort(items []runtime.Value, cmp compareFunc) error {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0; j-- {
			c, err := cmp(items[j], items[j-1])
			if err != nil {
				return err
			}
			if c >= 0 {
				break
			}
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
	return nil
}
