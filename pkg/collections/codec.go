package collections

import (
	"ember/core-go/pkg/runtime"
)

const rangeFields = 4

// Install registers the collection marshal codecs on rt.
func Install(rt *runtime.Runtime) {
	rt.RegisterCodec(runtime.ListClass, runtime.Codec{
		Tag:    runtime.TagList,
		Encode: encodeList,
		Decode: decodeList,
	})
	rt.RegisterCodec(runtime.MapClass, runtime.Codec{
		Tag:    runtime.TagMap,
		Encode: encodeMap,
		Decode: decodeMap,
	})
	rt.RegisterCodec(runtime.SetClass, runtime.Codec{
		Tag:    runtime.TagSet,
		Encode: encodeSet,
		Decode: decodeSet,
	})
	rt.RegisterCodec(runtime.RangeClass, runtime.Codec{
		Tag:    runtime.TagRange,
		Encode: encodeRange,
		Decode: decodeRange,
	})
}

func encodeList(e *runtime.Encoder, v runtime.Value) error {
	l, err := ListOf(e.Runtime(), v)
	if err != nil {
		return err
	}
	if err := e.WriteU32(uint32(len(l.items))); err != nil {
		return err
	}
	for _, item := range l.items {
		if err := e.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

func decodeList(d *runtime.Decoder) (runtime.Value, error) {
	rt := d.Runtime()
	n, err := d.ReadCount()
	if err != nil {
		return runtime.Null, err
	}
	items := make([]runtime.Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := d.Decode()
		if err != nil {
			rt.ReleaseAll(items)
			return runtime.Null, err
		}
		items = append(items, v)
	}
	return adoptList(rt, items), nil
}

func encodeMap(e *runtime.Encoder, v runtime.Value) error {
	m, err := MapOf(e.Runtime(), v)
	if err != nil {
		return err
	}
	if err := e.WriteU32(uint32(m.count)); err != nil {
		return err
	}
	return m.each(func(en *entry) error {
		if err := e.Encode(en.key); err != nil {
			return err
		}
		return e.Encode(en.value)
	})
}

func decodeMap(d *runtime.Decoder) (runtime.Value, error) {
	rt := d.Runtime()
	n, err := d.ReadCount()
	if err != nil {
		return runtime.Null, err
	}
	out := NewMap(rt)
	m, _ := MapOf(rt, out)
	for i := 0; i < n; i++ {
		if err := decodePair(d, m); err != nil {
			rt.Release(out)
			return runtime.Null, err
		}
	}
	return out, nil
}

func decodePair(d *runtime.Decoder, m *Map) error {
	rt := d.Runtime()
	k, err := d.Decode()
	if err != nil {
		return err
	}
	defer rt.Release(k)
	v, err := d.Decode()
	if err != nil {
		return err
	}
	defer rt.Release(v)
	return m.Set(k, v)
}

func encodeSet(e *runtime.Encoder, v runtime.Value) error {
	s, err := SetOf(e.Runtime(), v)
	if err != nil {
		return err
	}
	if err := e.WriteU32(uint32(s.count)); err != nil {
		return err
	}
	return s.each(func(en *entry) error { return e.Encode(en.key) })
}

func decodeSet(d *runtime.Decoder) (runtime.Value, error) {
	rt := d.Runtime()
	n, err := d.ReadCount()
	if err != nil {
		return runtime.Null, err
	}
	out, _ := NewSet(rt)
	s, _ := SetOf(rt, out)
	for i := 0; i < n; i++ {
		k, err := d.Decode()
		if err != nil {
			rt.Release(out)
			return runtime.Null, err
		}
		_, err = s.Add(k)
		rt.Release(k)
		if err != nil {
			rt.Release(out)
			return runtime.Null, err
		}
	}
	return out, nil
}

func encodeRange(e *runtime.Encoder, v runtime.Value) error {
	r, err := RangeOf(e.Runtime(), v)
	if err != nil {
		return err
	}
	if err := e.WriteU32(rangeFields); err != nil {
		return err
	}
	for _, f := range []runtime.Value{r.begin, r.end, r.step, runtime.Bool(r.openEnded)} {
		if err := e.Encode(f); err != nil {
			return err
		}
	}
	return nil
}

func decodeRange(d *runtime.Decoder) (runtime.Value, error) {
	rt := d.Runtime()
	n, err := d.ReadU32()
	if err != nil {
		return runtime.Null, err
	}
	if n != rangeFields {
		return runtime.Null, runtime.NewValueError("Range frame has %d fields, want %d", n, rangeFields)
	}
	var fields [rangeFields]runtime.Value
	defer func() {
		for _, f := range fields {
			rt.Release(f)
		}
	}()
	for i := range fields {
		if fields[i], err = d.Decode(); err != nil {
			return runtime.Null, err
		}
	}
	if !fields[3].IsBool() {
		return runtime.Null, runtime.NewValueError("Range open flag must be a Bool")
	}
	return NewRange(rt, fields[0], fields[1], fields[3].Truth(), fields[2])
}
