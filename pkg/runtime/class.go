package runtime

// Class describes a heap object's type. The fixed tower and built-in
// collections dispatch on Kind; user classes share KindObject and are told
// apart by Name.
type Class struct {
	Name    string
	Kind    Kind
	Ordered bool
}

var (
	NullClass     = &Class{Name: "Null", Kind: KindNull}
	BoolClass     = &Class{Name: "Bool", Kind: KindBool}
	IntegerClass  = &Class{Name: "Integer", Kind: KindInteger, Ordered: true}
	RationalClass = &Class{Name: "Rational", Kind: KindRational, Ordered: true}
	FloatClass    = &Class{Name: "Float", Kind: KindFloat, Ordered: true}
	StringClass   = &Class{Name: "String", Kind: KindString, Ordered: true}
	ListClass     = &Class{Name: "List", Kind: KindList}
	MapClass      = &Class{Name: "Map", Kind: KindMap}
	SetClass      = &Class{Name: "Set", Kind: KindSet}
	RangeClass    = &Class{Name: "Range", Kind: KindRange}
	IteratorClass = &Class{Name: "Iterator", Kind: KindIterator}
	WeakRefClass  = &Class{Name: "WeakRef", Kind: KindWeakRef}
	ErrorClass    = &Class{Name: "Error", Kind: KindError}
)

// Object is anything stored in a heap slot.
type Object interface {
	Class() *Class
}

// Finalizer is implemented by objects that own other values. Finalize must
// hand every owned reference to release exactly once.
type Finalizer interface {
	Finalize(release func(Value))
}

// Hashable objects take part in structural hashing.
type Hashable interface {
	HashValue(w *Walker) (uint32, error)
}

// Equatable objects take part in structural equality. other has the same
// class as the receiver and may be an inline scalar of that class.
type Equatable interface {
	EqualValue(w *Walker, other Value) (bool, error)
}

// Ordered objects support three-way comparison with values of the same class.
type Ordered interface {
	CompareValue(rt *Runtime, other Value) (int, error)
}

// Describable objects render themselves for to_string.
type Describable interface {
	Describe(w *Walker) (string, error)
}
