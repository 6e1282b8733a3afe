package runtime

import (
	"encoding/binary"
	"io"
)

// Marshal tags. Every value is written as one tag byte followed by its
// payload, big-endian.
const (
	TagNull     byte = 0x00
	TagFalse    byte = 0x01
	TagTrue     byte = 0x02
	TagInteger  byte = 0x03
	TagFloat    byte = 0x04
	TagRational byte = 0x05
	TagString   byte = 0x06
	TagList     byte = 0x07
	TagMap      byte = 0x08
	TagSet      byte = 0x09
	TagRange    byte = 0x0A
)

// Codec writes and reads one class's payload. The tag byte is handled by
// the Encoder and Decoder.
type Codec struct {
	Tag    byte
	Encode func(e *Encoder, v Value) error
	Decode func(d *Decoder) (Value, error)
}

// RegisterCodec installs the marshal form for class.
func (rt *Runtime) RegisterCodec(class *Class, c Codec) {
	rt.encoders[class] = c
	rt.decoders[c.Tag] = c
}

// Encoder writes marshal frames to a byte stream.
type Encoder struct {
	rt   *Runtime
	w    io.Writer
	path map[Value]int
	buf  [8]byte
}

// Runtime returns the owning runtime.
func (e *Encoder) Runtime() *Runtime { return e.rt }

func (e *Encoder) write(p []byte) error {
	if _, err := e.w.Write(p); err != nil {
		return WrapError(ValueError, err, "marshal write failed: %v", err)
	}
	return nil
}

func (e *Encoder) WriteByte(b byte) error {
	e.buf[0] = b
	return e.write(e.buf[:1])
}

func (e *Encoder) WriteU16(n uint16) error {
	binary.BigEndian.PutUint16(e.buf[:2], n)
	return e.write(e.buf[:2])
}

func (e *Encoder) WriteU32(n uint32) error {
	binary.BigEndian.PutUint32(e.buf[:4], n)
	return e.write(e.buf[:4])
}

func (e *Encoder) WriteU64(n uint64) error {
	binary.BigEndian.PutUint64(e.buf[:8], n)
	return e.write(e.buf[:8])
}

func (e *Encoder) WriteBytes(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	return e.write(p)
}

// Encode writes v, tag first.
func (e *Encoder) Encode(v Value) error {
	switch {
	case v.IsNull():
		return e.WriteByte(TagNull)
	case v.IsBool():
		if v.Truth() {
			return e.WriteByte(TagTrue)
		}
		return e.WriteByte(TagFalse)
	}
	class := e.rt.ClassOf(v)
	if class == StringClass {
		s, _ := e.rt.StringOf(v)
		if err := e.WriteByte(TagString); err != nil {
			return err
		}
		if err := e.WriteU32(uint32(len(s))); err != nil {
			return err
		}
		return e.WriteBytes([]byte(s))
	}
	codec, ok := e.rt.encoders[class]
	if !ok {
		return NewTypeError("%s cannot be marshaled", class.Name)
	}
	if v.IsRef() {
		if len(e.path) >= e.rt.opts.Limits.MaxDepth {
			return NewStackOverflowError()
		}
		if !enterPath(&e.path, v) {
			return NewLoopReferenceError(class.Name)
		}
		defer leavePath(e.path, v)
	}
	if err := e.WriteByte(codec.Tag); err != nil {
		return err
	}
	return codec.Encode(e, v)
}

// Decoder reads marshal frames from a byte stream.
type Decoder struct {
	rt    *Runtime
	r     io.Reader
	depth int
	buf   [8]byte
}

// Runtime returns the owning runtime.
func (d *Decoder) Runtime() *Runtime { return d.rt }

func (d *Decoder) read(p []byte) error {
	if _, err := io.ReadFull(d.r, p); err != nil {
		return WrapError(ValueError, err, "marshal read failed: %v", err)
	}
	return nil
}

func (d *Decoder) ReadByte() (byte, error) {
	err := d.read(d.buf[:1])
	return d.buf[0], err
}

func (d *Decoder) ReadU16() (uint16, error) {
	if err := d.read(d.buf[:2]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(d.buf[:2]), nil
}

func (d *Decoder) ReadU32() (uint32, error) {
	if err := d.read(d.buf[:4]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(d.buf[:4]), nil
}

func (d *Decoder) ReadU64() (uint64, error) {
	if err := d.read(d.buf[:8]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(d.buf[:8]), nil
}

// ReadBytes reads exactly n bytes.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	p := make([]byte, n)
	if n == 0 {
		return p, nil
	}
	return p, d.read(p)
}

// ReadCount reads a u32 element count and checks it against the collection
// ceiling.
func (d *Decoder) ReadCount() (int, error) {
	n, err := d.ReadU32()
	if err != nil {
		return 0, err
	}
	if err := d.rt.CheckSize(int(n)); err != nil {
		return 0, err
	}
	return int(n), nil
}

// Decode reads one value. The result is owned.
func (d *Decoder) Decode() (Value, error) {
	tag, err := d.ReadByte()
	if err != nil {
		return Null, err
	}
	switch tag {
	case TagNull:
		return Null, nil
	case TagFalse:
		return False, nil
	case TagTrue:
		return True, nil
	case TagString:
		n, err := d.ReadCount()
		if err != nil {
			return Null, err
		}
		p, err := d.ReadBytes(n)
		if err != nil {
			return Null, err
		}
		return d.rt.NewString(string(p)), nil
	}
	codec, ok := d.rt.decoders[tag]
	if !ok {
		return Null, NewValueError("unknown marshal tag 0x%02x", tag)
	}
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > d.rt.opts.Limits.MaxDepth {
		return Null, NewStackOverflowError()
	}
	return codec.Decode(d)
}

// Marshal writes v to w.
func (rt *Runtime) Marshal(w io.Writer, v Value) error {
	return (&Encoder{rt: rt, w: w}).Encode(v)
}

// Unmarshal reads one value from r. The result is owned.
func (rt *Runtime) Unmarshal(r io.Reader) (Value, error) {
	return (&Decoder{rt: rt, r: r}).Decode()
}
