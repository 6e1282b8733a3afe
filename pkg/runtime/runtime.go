package runtime

import (
	"io"
	"log/slog"

	"ember/core-go/pkg/intern"
	"ember/core-go/pkg/locale"
)

// Limits bounds resource use.
type Limits struct {
	// MaxCollectionSize caps elements produced by draining consumers and
	// counts read by Unmarshal.
	MaxCollectionSize int
	// MaxDepth caps nesting in deep walks and marshal.
	MaxDepth int
}

// Options configure a Runtime.
type Options struct {
	Locale         *locale.Locale
	Limits         Limits
	HashSeed       uint32 // 0 draws a random seed
	InternCapacity int
	Logger         *slog.Logger
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Locale: locale.Default(),
		Limits: Limits{
			MaxCollectionSize: 1 << 24,
			MaxDepth:          10000,
		},
		InternCapacity: 1024,
	}
}

// Runtime owns every piece of process state the core needs: the heap, the
// intern table, the current-error slot and per-runtime caches. Independent
// runtimes share nothing.
type Runtime struct {
	Heap   *Heap
	Errors ErrorState

	opts     Options
	seed     uint32
	logger   *slog.Logger
	symbols  *intern.Table
	interned map[*intern.Symbol]Value
	encoders map[*Class]Codec
	decoders map[byte]Codec
	ext      map[any]any
}

// New constructs a runtime. Zero fields in opts take their defaults.
func New(opts Options) *Runtime {
	def := DefaultOptions()
	if opts.Locale == nil {
		opts.Locale = def.Locale
	}
	if opts.Limits.MaxCollectionSize <= 0 {
		opts.Limits.MaxCollectionSize = def.Limits.MaxCollectionSize
	}
	if opts.Limits.MaxDepth <= 0 {
		opts.Limits.MaxDepth = def.Limits.MaxDepth
	}
	if opts.InternCapacity <= 0 {
		opts.InternCapacity = def.InternCapacity
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	seed := opts.HashSeed
	if seed == 0 {
		seed = intern.NewSeed()
	}
	return &Runtime{
		Heap:     NewHeap(opts.Logger),
		opts:     opts,
		seed:     seed,
		logger:   opts.Logger,
		symbols:  intern.NewTable(seed, opts.InternCapacity),
		interned: make(map[*intern.Symbol]Value),
		encoders: make(map[*Class]Codec),
		decoders: make(map[byte]Codec),
		ext:      make(map[any]any),
	}
}

// Close reports what is still alive. Interned strings and any cycles stay
// allocated for the process lifetime.
func (rt *Runtime) Close() {
	rt.logger.Debug("runtime close",
		slog.Int("live", rt.Heap.Live()),
		slog.Int("interned", rt.symbols.Len()))
}

func (rt *Runtime) Options() Options      { return rt.opts }
func (rt *Runtime) Locale() *locale.Locale { return rt.opts.Locale }
func (rt *Runtime) Logger() *slog.Logger   { return rt.logger }
func (rt *Runtime) Seed() uint32           { return rt.seed }

// Extension returns the per-runtime value stored under key, creating it with
// init on first use. Packages layered on the runtime keep their caches here.
func (rt *Runtime) Extension(key any, init func() any) any {
	if v, ok := rt.ext[key]; ok {
		return v
	}
	v := init()
	rt.ext[key] = v
	return v
}

// ClassOf returns the class of v.
func (rt *Runtime) ClassOf(v Value) *Class {
	switch {
	case v.IsNull():
		return NullClass
	case v.IsBool():
		return BoolClass
	case v.IsInt():
		return IntegerClass
	}
	if obj := rt.Heap.Get(v); obj != nil {
		return obj.Class()
	}
	return NullClass
}

// KindOf returns the kind of v.
func (rt *Runtime) KindOf(v Value) Kind {
	return rt.ClassOf(v).Kind
}

// CheckSize fails with OutOfMemory when n exceeds the collection ceiling.
func (rt *Runtime) CheckSize(n int) error {
	if n < 0 || n > rt.opts.Limits.MaxCollectionSize {
		return NewOutOfMemoryError()
	}
	return nil
}

// Retain and Release forward to the heap.
func (rt *Runtime) Retain(v Value) Value { return rt.Heap.Retain(v) }
func (rt *Runtime) Release(v Value)      { rt.Heap.Release(v) }

// ReleaseAll releases every value in vs.
func (rt *Runtime) ReleaseAll(vs []Value) {
	for _, v := range vs {
		rt.Heap.Release(v)
	}
}
