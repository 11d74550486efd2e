package types

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid TypeID
	Void    TypeID
	Label   TypeID
	I1      TypeID
	I8      TypeID
	I16     TypeID
	I32     TypeID
	I64     TypeID
	F32     TypeID
	F64     TypeID
}

var (
	// ErrNotStruct indicates a struct operation on a non-struct TypeID.
	ErrNotStruct = errors.New("not a struct type")
	// ErrRecursiveStruct indicates a struct body that would contain the
	// struct itself by value.
	ErrRecursiveStruct = errors.New("struct contains itself by value")
)

// structBody is the side-table record for one struct identity.
type structBody struct {
	Fields []TypeID
	Opaque bool
}

// Interner provides stable TypeIDs by hashing structural descriptors.
//
// Scalars and derived types are hash-consed. Struct types are not: every
// NewStruct call mints a fresh identity, because layout caches key off the
// identity and a refined struct must stay distinguishable from a
// structurally equal one.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	structs  []structBody
	builtins Builtins

	structChange map[int]func(TypeID)
	nextHook     int
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	in.structs = append(in.structs, structBody{}) // reserve 0 as invalid sentinel
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Label = in.Intern(Type{Kind: KindLabel})
	in.builtins.I1 = in.Intern(MakeInteger(1))
	in.builtins.I8 = in.Intern(MakeInteger(8))
	in.builtins.I16 = in.Intern(MakeInteger(16))
	in.builtins.I32 = in.Intern(MakeInteger(32))
	in.builtins.I64 = in.Intern(MakeInteger(64))
	in.builtins.F32 = in.Intern(Type{Kind: KindFloat32})
	in.builtins.F64 = in.Intern(Type{Kind: KindFloat64})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid || t.Kind == KindStruct {
		return NoTypeID
	}
	key := typeKey{Kind: t.Kind, Elem: t.Elem, Count: t.Count, Bits: t.Bits}
	if id, ok := in.index[key]; ok {
		return id
	}
	id := in.internRaw(t)
	in.index[key] = id
	return id
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// Integer returns the TypeID for an integer of the given bit width.
func (in *Interner) Integer(bits uint32) TypeID {
	return in.Intern(MakeInteger(bits))
}

// Pointer returns the TypeID for a pointer to elem.
func (in *Interner) Pointer(elem TypeID) TypeID {
	return in.Intern(MakePointer(elem))
}

// Array returns the TypeID for an array of count elements.
func (in *Interner) Array(elem TypeID, count uint32) TypeID {
	return in.Intern(MakeArray(elem, count))
}

// Vector returns the TypeID for a vector of lanes scalar elements.
func (in *Interner) Vector(elem TypeID, lanes uint32) TypeID {
	return in.Intern(MakeVector(elem, lanes))
}

// NewStruct mints a fresh struct identity with the given field types.
func (in *Interner) NewStruct(fields []TypeID) TypeID {
	body := structBody{Fields: append([]TypeID(nil), fields...)}
	return in.newStructRaw(body)
}

// OpaqueStruct mints a struct identity with no body yet. It stays unsized
// until SetStructBody gives it a shape.
func (in *Interner) OpaqueStruct() TypeID {
	return in.newStructRaw(structBody{Opaque: true})
}

func (in *Interner) newStructRaw(body structBody) TypeID {
	lenStructs, err := safecast.Conv[uint32](len(in.structs))
	if err != nil {
		panic(fmt.Errorf("len(structs) overflow: %w", err))
	}
	in.structs = append(in.structs, body)
	return in.internRaw(Type{Kind: KindStruct, body: lenStructs})
}

// SetStructBody replaces the field list of a struct identity. Registered
// struct-change hooks fire so that layout caches drop any entry for id;
// without that, a stale layout would survive the refinement.
func (in *Interner) SetStructBody(id TypeID, fields []TypeID) error {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct {
		return ErrNotStruct
	}
	for _, f := range fields {
		if in.containsByValue(f, id) {
			return fmt.Errorf("type#%d: %w", id, ErrRecursiveStruct)
		}
	}
	in.structs[tt.body] = structBody{Fields: append([]TypeID(nil), fields...)}
	for _, fn := range in.structChange {
		fn(id)
	}
	return nil
}

// OnStructChange registers a hook invoked whenever a struct's body changes.
// The returned function unregisters it; a retired subscriber must call it
// so the interner stops holding a reference.
func (in *Interner) OnStructChange(fn func(TypeID)) func() {
	if fn == nil {
		return func() {}
	}
	if in.structChange == nil {
		in.structChange = make(map[int]func(TypeID))
	}
	key := in.nextHook
	in.nextHook++
	in.structChange[key] = fn
	return func() { delete(in.structChange, key) }
}

// FieldTypes returns the ordered field types of a struct identity.
func (in *Interner) FieldTypes(id TypeID) ([]TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct {
		return nil, false
	}
	body := in.structs[tt.body]
	if body.Opaque {
		return nil, false
	}
	return body.Fields, true
}

// IsOpaque reports whether id is a struct with no body.
func (in *Interner) IsOpaque(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct {
		return false
	}
	return in.structs[tt.body].Opaque
}

// containsByValue reports whether needle is reachable from id through
// by-value containment (struct fields, array and vector elements).
func (in *Interner) containsByValue(id, needle TypeID) bool {
	if id == needle {
		return true
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindArray, KindVector:
		return in.containsByValue(tt.Elem, needle)
	case KindStruct:
		fields, ok := in.FieldTypes(id)
		if !ok {
			return false
		}
		for _, f := range fields {
			if in.containsByValue(f, needle) {
				return true
			}
		}
	}
	return false
}

// ScalarBits returns the primitive bit width of an integer or float type.
func (in *Interner) ScalarBits(id TypeID) (uint32, bool) {
	tt, ok := in.Lookup(id)
	if !ok {
		return 0, false
	}
	switch tt.Kind {
	case KindInteger:
		return tt.Bits, true
	case KindFloat32:
		return 32, true
	case KindFloat64:
		return 64, true
	default:
		return 0, false
	}
}

// VectorBits returns the total bit width of a vector type.
func (in *Interner) VectorBits(id TypeID) (uint32, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindVector {
		return 0, false
	}
	elemBits, ok := in.ScalarBits(tt.Elem)
	if !ok {
		return 0, false
	}
	return elemBits * tt.Count, true
}

// IsSized reports whether a type has a defined layout. Opaque structs and
// invalid ids are unsized; a struct is sized when every field is.
func (in *Interner) IsSized(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindInvalid:
		return false
	case KindStruct:
		fields, ok := in.FieldTypes(id)
		if !ok {
			return false
		}
		for _, f := range fields {
			if !in.IsSized(f) {
				return false
			}
		}
		return true
	case KindArray, KindVector:
		return in.IsSized(tt.Elem)
	default:
		return true
	}
}

type typeKey struct {
	Kind  Kind
	Elem  TypeID
	Count uint32
	Bits  uint32
}
