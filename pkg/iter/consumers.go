package iter

import (
	"strings"

	"ember/core-go/pkg/collections"
	"ember/core-go/pkg/runtime"
)

// each drains it, handing every owned element to fn, and closes it. fn
// returning false stops early. Drawing more elements than the collection
// ceiling allows raises OutOfMemory.
func each(rt *runtime.Runtime, it runtime.Iterator, fn func(v runtime.Value) (bool, error)) error {
	defer it.Close()
	for n := 1; ; n++ {
		v, done, err := it.Next()
		if err != nil {
			if runtime.IsStop(err) {
				return nil
			}
			return err
		}
		if done {
			return nil
		}
		if err := rt.CheckSize(n); err != nil {
			rt.Release(v)
			return err
		}
		more, err := fn(v)
		if err != nil {
			if runtime.IsStop(err) {
				return nil
			}
			return err
		}
		if !more {
			return nil
		}
	}
}

// ToList drains it into a new List.
func ToList(rt *runtime.Runtime, it runtime.Iterator) (runtime.Value, error) {
	var items []runtime.Value
	err := each(rt, it, func(v runtime.Value) (bool, error) {
		items = append(items, v)
		return true, nil
	})
	out := collections.NewList(rt, items...)
	rt.ReleaseAll(items)
	if err != nil {
		rt.Release(out)
		return runtime.Null, err
	}
	return out, nil
}

// ToSet drains it into a new Set.
func ToSet(rt *runtime.Runtime, it runtime.Iterator) (runtime.Value, error) {
	out, _ := collections.NewSet(rt)
	set, _ := collections.SetOf(rt, out)
	err := each(rt, it, func(v runtime.Value) (bool, error) {
		defer rt.Release(v)
		_, err := set.Add(v)
		return err == nil, err
	})
	if err != nil {
		rt.Release(out)
		return runtime.Null, err
	}
	return out, nil
}

// Join renders every element with ToString and joins them with sep.
func Join(rt *runtime.Runtime, it runtime.Iterator, sep string) (runtime.Value, error) {
	var b strings.Builder
	n := 0
	err := each(rt, it, func(v runtime.Value) (bool, error) {
		defer rt.Release(v)
		if n++; n > 1 {
			b.WriteString(sep)
		}
		s, err := rt.ToString(v)
		if err != nil {
			return false, err
		}
		b.WriteString(s)
		if err := rt.CheckSize(b.Len()); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return runtime.Null, err
	}
	return rt.NewString(b.String()), nil
}

// Reduce folds fn(acc, x) over it starting from init.
func Reduce(rt *runtime.Runtime, it runtime.Iterator, fn runtime.Callable, init runtime.Value) (runtime.Value, error) {
	acc := rt.Retain(init)
	err := each(rt, it, func(v runtime.Value) (bool, error) {
		defer rt.Release(v)
		next, err := fn.Call([]runtime.Value{acc, v})
		if err != nil {
			return false, err
		}
		rt.Release(acc)
		acc = next
		return true, nil
	})
	if err != nil {
		rt.Release(acc)
		return runtime.Null, err
	}
	return acc, nil
}

// Count drains it and returns the number of elements.
func Count(rt *runtime.Runtime, it runtime.Iterator) (int, error) {
	n := 0
	err := each(rt, it, func(v runtime.Value) (bool, error) {
		rt.Release(v)
		n++
		return true, nil
	})
	return n, err
}

// All reports whether pred holds for every element. It stops at the first
// failure.
func All(rt *runtime.Runtime, it runtime.Iterator, pred runtime.Callable) (bool, error) {
	result := true
	err := each(rt, it, func(v runtime.Value) (bool, error) {
		defer rt.Release(v)
		ok, err := test(rt, pred, v)
		if err != nil {
			return false, err
		}
		result = ok
		return ok, nil
	})
	if err != nil {
		return false, err
	}
	return result, nil
}

// Any reports whether pred holds for some element. It stops at the first
// match.
func Any(rt *runtime.Runtime, it runtime.Iterator, pred runtime.Callable) (bool, error) {
	found, ok, err := FindIf(rt, it, pred)
	rt.Release(found)
	return ok, err
}

// FindIf returns the first element satisfying pred, owned.
func FindIf(rt *runtime.Runtime, it runtime.Iterator, pred runtime.Callable) (runtime.Value, bool, error) {
	found, hit := runtime.Null, false
	err := each(rt, it, func(v runtime.Value) (bool, error) {
		ok, err := test(rt, pred, v)
		if err != nil {
			rt.Release(v)
			return false, err
		}
		if !ok {
			rt.Release(v)
			return true, nil
		}
		found, hit = v, true
		return false, nil
	})
	if err != nil {
		rt.Release(found)
		return runtime.Null, false, err
	}
	return found, hit, nil
}

// Sorted drains it into a new List ordered by cmp, or by Compare when cmp
// is nil.
func Sorted(rt *runtime.Runtime, it runtime.Iterator, cmp runtime.Callable) (runtime.Value, error) {
	out, err := ToList(rt, it)
	if err != nil {
		return runtime.Null, err
	}
	l, _ := collections.ListOf(rt, out)
	if cmp == nil {
		_, err = l.Sort()
	} else {
		_, err = l.SortBy(cmp)
	}
	if err != nil {
		rt.Release(out)
		return runtime.Null, err
	}
	return out, nil
}
