package numeric

import (
	"math"
	"math/big"

	"ember/core-go/pkg/runtime"
)

// Install registers the numeric marshal codecs on rt.
func Install(rt *runtime.Runtime) {
	rt.RegisterCodec(runtime.IntegerClass, runtime.Codec{
		Tag: runtime.TagInteger,
		Encode: func(e *runtime.Encoder, v runtime.Value) error {
			b, err := BigOf(e.Runtime(), v)
			if err != nil {
				return err
			}
			return writeBigInt(e, b)
		},
		Decode: func(d *runtime.Decoder) (runtime.Value, error) {
			b, err := readBigInt(d)
			if err != nil {
				return runtime.Null, err
			}
			return FromBig(d.Runtime(), b), nil
		},
	})
	rt.RegisterCodec(runtime.FloatClass, runtime.Codec{
		Tag: runtime.TagFloat,
		Encode: func(e *runtime.Encoder, v runtime.Value) error {
			f, err := FloatOf(e.Runtime(), v)
			if err != nil {
				return err
			}
			return e.WriteU64(math.Float64bits(f))
		},
		Decode: func(d *runtime.Decoder) (runtime.Value, error) {
			bits, err := d.ReadU64()
			if err != nil {
				return runtime.Null, err
			}
			return NewFloat(d.Runtime(), math.Float64frombits(bits)), nil
		},
	})
	rt.RegisterCodec(runtime.RationalClass, runtime.Codec{
		Tag: runtime.TagRational,
		Encode: func(e *runtime.Encoder, v runtime.Value) error {
			r, err := RationalOf(e.Runtime(), v)
			if err != nil {
				return err
			}
			if err := writeBigInt(e, r.num); err != nil {
				return err
			}
			return writeBigInt(e, r.den)
		},
		Decode: func(d *runtime.Decoder) (runtime.Value, error) {
			num, err := readBigInt(d)
			if err != nil {
				return runtime.Null, err
			}
			den, err := readBigInt(d)
			if err != nil {
				return runtime.Null, err
			}
			return ratFromParts(d.Runtime(), num, den)
		},
	})
}

// writeBigInt writes {sign u8}{count u32}{u16 digits, least significant
// first}. Zero has no digits.
func writeBigInt(e *runtime.Encoder, n *big.Int) error {
	var sign byte
	if n.Sign() < 0 {
		sign = 1
	}
	raw := new(big.Int).Abs(n).Bytes()
	count := (len(raw) + 1) / 2
	if err := e.WriteByte(sign); err != nil {
		return err
	}
	if err := e.WriteU32(uint32(count)); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		lo := len(raw) - 1 - 2*i
		digit := uint16(raw[lo])
		if lo > 0 {
			digit |= uint16(raw[lo-1]) << 8
		}
		if err := e.WriteU16(digit); err != nil {
			return err
		}
	}
	return nil
}

func readBigInt(d *runtime.Decoder) (*big.Int, error) {
	sign, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if sign > 1 {
		return nil, runtime.NewValueError("invalid Integer sign byte %d", sign)
	}
	count, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	raw := make([]byte, 2*count)
	for i := 0; i < count; i++ {
		digit, err := d.ReadU16()
		if err != nil {
			return nil, err
		}
		hi := len(raw) - 2 - 2*i
		raw[hi] = byte(digit >> 8)
		raw[hi+1] = byte(digit)
	}
	if count > 0 && raw[0] == 0 && raw[1] == 0 {
		return nil, runtime.NewValueError("Integer has a leading zero digit")
	}
	n := new(big.Int).SetBytes(raw)
	if sign == 1 {
		n.Neg(n)
	}
	return n, nil
}
