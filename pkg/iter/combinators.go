// Package iter builds lazy pipelines over runtime.Iterator and drains them
// into collections.
//
// A combinator takes ownership of the iterators it wraps and closes them
// when it is closed or exhausted. Callbacks receive borrowed arguments and
// return owned results. A StopIteration error raised by a callback ends the
// pipeline quietly; every other error is passed through unchanged.
package iter

import (
	"ember/core-go/pkg/collections"
	"ember/core-go/pkg/numeric"
	"ember/core-go/pkg/runtime"
)

// end turns a callback failure into the iterator's final result.
func end(err error) (runtime.Value, bool, error) {
	if runtime.IsStop(err) {
		return runtime.Null, true, nil
	}
	return runtime.Null, true, err
}

// truthy treats everything but Null and False as true.
func truthy(v runtime.Value) bool {
	return !v.IsNull() && v != runtime.False
}

func call(rt *runtime.Runtime, fn runtime.Callable, v runtime.Value) (runtime.Value, error) {
	out, err := fn.Call([]runtime.Value{v})
	rt.Release(v)
	return out, err
}

// test applies pred to v and releases both v and the result.
func test(rt *runtime.Runtime, pred runtime.Callable, v runtime.Value) (bool, error) {
	out, err := pred.Call([]runtime.Value{v})
	if err != nil {
		return false, err
	}
	defer rt.Release(out)
	return truthy(out), nil
}

// Map yields fn(x) for every x of src.
func Map(rt *runtime.Runtime, src runtime.Iterator, fn runtime.Callable) runtime.Iterator {
	return runtime.NewIteratorValue(func() (runtime.Value, bool, error) {
		v, done, err := src.Next()
		if err != nil || done {
			return runtime.Null, true, err
		}
		out, err := call(rt, fn, v)
		if err != nil {
			return end(err)
		}
		return out, false, nil
	}, src.Close)
}

// Filter yields the elements of src for which pred is truthy.
func Filter(rt *runtime.Runtime, src runtime.Iterator, pred runtime.Callable) runtime.Iterator {
	return runtime.NewIteratorValue(func() (runtime.Value, bool, error) {
		for {
			v, done, err := src.Next()
			if err != nil || done {
				return runtime.Null, true, err
			}
			keep, err := test(rt, pred, v)
			if err != nil {
				rt.Release(v)
				return end(err)
			}
			if keep {
				return v, false, nil
			}
			rt.Release(v)
		}
	}, src.Close)
}

// Limit yields at most n elements of src.
func Limit(rt *runtime.Runtime, src runtime.Iterator, n int) runtime.Iterator {
	taken := 0
	return runtime.NewIteratorValue(func() (runtime.Value, bool, error) {
		if taken >= n {
			return runtime.Null, true, nil
		}
		v, done, err := src.Next()
		if err != nil || done {
			return runtime.Null, true, err
		}
		taken++
		return v, false, nil
	}, src.Close)
}

// Skip drops the first n elements of src.
func Skip(rt *runtime.Runtime, src runtime.Iterator, n int) runtime.Iterator {
	skipped := false
	return runtime.NewIteratorValue(func() (runtime.Value, bool, error) {
		if !skipped {
			skipped = true
			for i := 0; i < n; i++ {
				v, done, err := src.Next()
				if err != nil || done {
					return runtime.Null, true, err
				}
				rt.Release(v)
			}
		}
		v, done, err := src.Next()
		if err != nil || done {
			return runtime.Null, true, err
		}
		return v, false, nil
	}, src.Close)
}

// Enumerate yields [index, element] pairs, counting from start.
func Enumerate(rt *runtime.Runtime, src runtime.Iterator, start int64) runtime.Iterator {
	i := start
	return runtime.NewIteratorValue(func() (runtime.Value, bool, error) {
		v, done, err := src.Next()
		if err != nil || done {
			return runtime.Null, true, err
		}
		idx := numeric.FromInt64(rt, i)
		i++
		pair := collections.NewList(rt, idx, v)
		rt.Release(idx)
		rt.Release(v)
		return pair, false, nil
	}, src.Close)
}

// Chain yields every element of each source in turn.
func Chain(rt *runtime.Runtime, srcs ...runtime.Iterator) runtime.Iterator {
	pos := 0
	return runtime.NewIteratorValue(func() (runtime.Value, bool, error) {
		for pos < len(srcs) {
			v, done, err := srcs[pos].Next()
			if err != nil {
				return runtime.Null, true, err
			}
			if !done {
				return v, false, nil
			}
			srcs[pos].Close()
			pos++
		}
		return runtime.Null, true, nil
	}, func() {
		for _, s := range srcs[pos:] {
			s.Close()
		}
	})
}
