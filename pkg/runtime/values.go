package runtime

import (
	"fmt"
	"math"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindRational
	KindFloat
	KindString
	KindList
	KindMap
	KindSet
	KindRange
	KindIterator
	KindWeakRef
	KindError
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindRational:
		return "Rational"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	case KindSet:
		return "Set"
	case KindRange:
		return "Range"
	case KindIterator:
		return "Iterator"
	case KindWeakRef:
		return "WeakRef"
	case KindError:
		return "Error"
	case KindObject:
		return "Object"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is a tagged 64-bit datum. The low three bits select the form:
//
//	000  null (the zero Value)
//	001  bool, truth in bit 3
//	010  inline integer, int32 payload in the upper 32 bits
//	100  heap reference, slot index in the upper 32 bits, generation in bits 3..31
type Value uint64

const (
	tagMask Value = 0b111
	tagNull Value = 0b000
	tagBool Value = 0b001
	tagInt  Value = 0b010
	tagRef  Value = 0b100

	genBits = 29
	genMask = 1<<genBits - 1
)

// Inline integer range.
const (
	SmallIntMin = math.MinInt32
	SmallIntMax = math.MaxInt32
)

const (
	Null  Value = 0
	False Value = tagBool
	True  Value = tagBool | 1<<3
)

// Bool returns the inline boolean for b.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// SmallInt returns the inline integer for n.
func SmallInt(n int32) Value {
	return Value(uint64(uint32(n))<<32) | tagInt
}

// IntValue returns the inline form of n when it fits the inline range.
func IntValue(n int64) (Value, bool) {
	if n < SmallIntMin || n > SmallIntMax {
		return Null, false
	}
	return SmallInt(int32(n)), true
}

func makeRef(index uint32, gen uint32) Value {
	return Value(uint64(index)<<32) | Value(gen&genMask)<<3 | tagRef
}

func (v Value) IsNull() bool { return v == Null }
func (v Value) IsBool() bool { return v&tagMask == tagBool }
func (v Value) IsInt() bool  { return v&tagMask == tagInt }
func (v Value) IsRef() bool  { return v&tagRef != 0 }

// Truth returns the boolean payload; false for non-bools.
func (v Value) Truth() bool { return v == True }

// Int returns the inline integer payload. Only meaningful when IsInt.
func (v Value) Int() int32 { return int32(uint32(uint64(v) >> 32)) }

func (v Value) index() uint32 { return uint32(uint64(v) >> 32) }
func (v Value) gen() uint32   { return uint32(uint64(v)>>3) & genMask }

// Handle returns a stable identity for a reference (slot index plus one), or
// zero for scalars.
func (v Value) Handle() uint64 {
	if !v.IsRef() {
		return 0
	}
	return uint64(v.index()) + 1
}

// GoString renders the raw form for debugging.
func (v Value) GoString() string {
	switch {
	case v.IsNull():
		return "runtime.Null"
	case v.IsBool():
		return fmt.Sprintf("runtime.Bool(%t)", v.Truth())
	case v.IsInt():
		return fmt.Sprintf("runtime.SmallInt(%d)", v.Int())
	default:
		return fmt.Sprintf("runtime.Ref(#%d gen %d)", v.index(), v.gen())
	}
}
