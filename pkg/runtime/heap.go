package runtime

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// Immortal is the refcount sentinel for objects that are never freed.
const Immortal int32 = -1

type slot struct {
	obj  Object
	refs int32
	gen  uint32
	weak Value
}

// Heap owns reference-counted objects. Handles are generation-checked so a
// freed slot is never mistaken for its next occupant.
type Heap struct {
	slots  []slot
	free   []uint32
	live   int
	logger *slog.Logger
}

// NewHeap constructs an empty heap.
func NewHeap(logger *slog.Logger) *Heap {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Heap{logger: logger}
}

// Alloc stores obj and returns an owned reference (refcount 1).
func (h *Heap) Alloc(obj Object) Value {
	if obj == nil {
		panic("runtime: alloc of nil object")
	}
	var idx uint32
	if n := len(h.free); n > 0 {
		idx = h.free[n-1]
		h.free = h.free[:n-1]
	} else {
		h.slots = append(h.slots, slot{})
		idx = uint32(len(h.slots) - 1)
	}
	s := &h.slots[idx]
	s.obj = obj
	s.refs = 1
	s.weak = Null
	h.live++
	return makeRef(idx, s.gen)
}

func (h *Heap) lookup(v Value) *slot {
	if !v.IsRef() {
		return nil
	}
	idx := v.index()
	if int(idx) >= len(h.slots) {
		return nil
	}
	s := &h.slots[idx]
	if s.obj == nil || s.gen&genMask != v.gen() {
		return nil
	}
	return s
}

func (h *Heap) mustSlot(v Value, op string) *slot {
	s := h.lookup(v)
	if s == nil {
		panic(fmt.Sprintf("runtime: %s of stale reference %#v", op, v))
	}
	return s
}

// Get returns the object behind v, or nil for scalars and stale handles.
func (h *Heap) Get(v Value) Object {
	if s := h.lookup(v); s != nil {
		return s.obj
	}
	return nil
}

// Valid reports whether v is a live reference.
func (h *Heap) Valid(v Value) bool {
	return h.lookup(v) != nil
}

// Retain adds an owner to v and returns it.
func (h *Heap) Retain(v Value) Value {
	if !v.IsRef() {
		return v
	}
	s := h.mustSlot(v, "retain")
	if s.refs != Immortal {
		s.refs++
	}
	return v
}

// Release drops an owner from v; the object is destroyed when none remain.
func (h *Heap) Release(v Value) {
	if !v.IsRef() {
		return
	}
	s := h.mustSlot(v, "release")
	if s.refs == Immortal {
		return
	}
	s.refs--
	if s.refs > 0 {
		return
	}
	h.invalidateWeak(s)
	h.teardown(v)
}

// RefCount returns the owner count, Immortal, or 0 for scalars.
func (h *Heap) RefCount(v Value) int {
	s := h.lookup(v)
	if s == nil {
		return 0
	}
	return int(s.refs)
}

// Immortalize pins v for the process lifetime.
func (h *Heap) Immortalize(v Value) {
	if !v.IsRef() {
		return
	}
	h.mustSlot(v, "immortalize").refs = Immortal
}

// Live returns the number of allocated objects.
func (h *Heap) Live() int {
	return h.live
}

// teardown destroys root and every owned child whose count drops to zero.
// Children are queued on an explicit stack so deeply nested structures do
// not recurse.
func (h *Heap) teardown(root Value) {
	pending := arraystack.New()
	pending.Push(root)
	freed := 0
	for !pending.Empty() {
		top, _ := pending.Pop()
		v := top.(Value)
		s := h.mustSlot(v, "finalize")
		if fin, ok := s.obj.(Finalizer); ok {
			fin.Finalize(func(child Value) {
				if !child.IsRef() {
					return
				}
				cs := h.mustSlot(child, "release")
				if cs.refs == Immortal {
					return
				}
				cs.refs--
				if cs.refs == 0 {
					h.invalidateWeak(cs)
					pending.Push(child)
				}
			})
		}
		h.freeSlot(v)
		freed++
	}
	if freed > 1 {
		h.logger.Debug("heap teardown", slog.Int("freed", freed), slog.Int("live", h.live))
	}
}

func (h *Heap) freeSlot(v Value) {
	idx := v.index()
	s := &h.slots[idx]
	s.obj = nil
	s.refs = 0
	s.weak = Null
	s.gen = (s.gen + 1) & genMask
	h.free = append(h.free, idx)
	h.live--
}
