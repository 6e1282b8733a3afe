package runtime

// WeakRef observes a heap object without owning it.
type WeakRef struct {
	self     Value
	referent Value
	alive    bool
	heap     *Heap
}

func (w *WeakRef) Class() *Class { return WeakRefClass }

// Alive reports whether the referent still exists.
func (w *WeakRef) Alive() bool { return w.alive }

// Finalize detaches the observer from its referent's cache.
func (w *WeakRef) Finalize(func(Value)) {
	if !w.alive {
		return
	}
	if s := w.heap.lookup(w.referent); s != nil && s.weak == w.self {
		s.weak = Null
	}
	w.alive = false
	w.referent = Null
}

func (w *WeakRef) Describe(*Walker) (string, error) {
	if w.alive {
		return "<weakref alive>", nil
	}
	return "<weakref dead>", nil
}

// MakeWeak returns the cached weak observer of v, creating it on first use.
// The result is owned by the caller.
func (h *Heap) MakeWeak(v Value) (Value, error) {
	if !v.IsRef() {
		return Null, NewTypeError("cannot create a weak reference to a scalar")
	}
	s := h.mustSlot(v, "make_weak")
	if s.weak != Null {
		return h.Retain(s.weak), nil
	}
	w := &WeakRef{referent: v, alive: true, heap: h}
	wv := h.Alloc(w)
	w.self = wv
	// Alloc may have grown the slot table; look the referent up again.
	h.mustSlot(v, "make_weak").weak = wv
	return wv, nil
}

// Upgrade returns an owned reference to the weak referent, or Null once it
// has been destroyed.
func (h *Heap) Upgrade(weak Value) (Value, error) {
	w, ok := h.Get(weak).(*WeakRef)
	if !ok {
		return Null, NewTypeError("expected a WeakRef")
	}
	if !w.alive {
		return Null, nil
	}
	return h.Retain(w.referent), nil
}

func (h *Heap) invalidateWeak(s *slot) {
	if s.weak == Null {
		return
	}
	if w, ok := h.Get(s.weak).(*WeakRef); ok {
		w.alive = false
		w.referent = Null
	}
	s.weak = Null
}
