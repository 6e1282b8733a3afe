package runtime

import (
	"encoding/binary"
	"math"
)

const (
	fnvOffset64 uint64 = 14695981039346656037
	fnvPrime64  uint64 = 1099511628211
)

// HashBytes feeds the FNV-1a state with additional data.
func HashBytes(hash uint64, data []byte) uint64 {
	for _, b := range data {
		hash ^= uint64(b)
		hash *= fnvPrime64
	}
	return hash
}

// Hasher accumulates an FNV-1a digest seeded per runtime.
type Hasher struct {
	state uint64
}

// NewHasher constructs a hasher mixed with seed and a class discriminator.
func NewHasher(seed uint32, tag byte) *Hasher {
	h := &Hasher{state: fnvOffset64}
	h.WriteUint32(seed)
	h.WriteBytes([]byte{tag})
	return h
}

// WriteBytes appends raw bytes to the hasher state.
func (h *Hasher) WriteBytes(data []byte) {
	h.state = HashBytes(h.state, data)
}

// WriteString appends the bytes of the provided string.
func (h *Hasher) WriteString(val string) {
	for i := 0; i < len(val); i++ {
		h.state ^= uint64(val[i])
		h.state *= fnvPrime64
	}
}

// WriteBool appends a single byte representing the boolean value.
func (h *Hasher) WriteBool(val bool) {
	var b byte
	if val {
		b = 1
	}
	h.WriteBytes([]byte{b})
}

func (h *Hasher) WriteUint32(val uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], val)
	h.WriteBytes(buf[:])
}

// WriteUint64 encodes the integer in big-endian order and appends it.
func (h *Hasher) WriteUint64(val uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], val)
	h.WriteBytes(buf[:])
}

// WriteInt64 encodes the signed integer using two's complement big-endian form.
func (h *Hasher) WriteInt64(val int64) {
	h.WriteUint64(uint64(val))
}

// WriteFloat64 appends the IEEE bits, folding -0 onto +0.
func (h *Hasher) WriteFloat64(val float64) {
	if val == 0 {
		val = 0
	}
	h.WriteUint64(math.Float64bits(val))
}

// Finish returns the 64-bit digest.
func (h *Hasher) Finish() uint64 {
	return h.state
}

// Sum32 folds the digest to the 32 bits exposed by hash().
func (h *Hasher) Sum32() uint32 {
	return uint32(h.state>>32) ^ uint32(h.state)
}

// Hash tags for the built-in classes.
const (
	HashTagNull byte = iota
	HashTagBool
	HashTagInteger
	HashTagRational
	HashTagFloat
	HashTagString
	HashTagList
	HashTagMap
	HashTagSet
	HashTagRange
	HashTagObject
)
