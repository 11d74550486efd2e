package layout

import (
	"fmt"
	"strings"

	"strata/internal/types"
)

// TargetData is a parsed target description: endianness, pointer shape and
// the alignment table, plus a per-target cache of struct layouts.
//
// Construct one per target machine and treat it as immutable; every query
// method is safe for concurrent readers.
type TargetData struct {
	littleEndian bool
	ptrSize      uint32 // bytes
	ptrABIAlign  uint32 // bytes
	ptrPrefAlign uint32 // bytes
	aligns       alignTable

	types *types.Interner
	cache *layoutCache
	unsub func()
}

// New parses a target description string against typesIn. The empty string
// yields the big-endian 64-bit-pointer default target. Malformed tokens are
// skipped, matching the lenient grammar; a description that omits a needed
// alignment entry surfaces as ErrMissingAlignment at query time instead.
//
// New subscribes to struct-body changes on typesIn, so cached layouts for a
// refined struct are dropped before the new shape can be queried.
func New(desc string, typesIn *types.Interner) *TargetData {
	td := &TargetData{
		types: typesIn,
		cache: newLayoutCache(),
	}
	td.parse(desc)
	if typesIn != nil {
		td.unsub = typesIn.OnStructChange(td.InvalidateStructLayout)
	}
	return td
}

// IsLittleEndian reports whether the target stores the low byte first.
func (td *TargetData) IsLittleEndian() bool { return td.littleEndian }

// IsBigEndian reports whether the target stores the high byte first.
func (td *TargetData) IsBigEndian() bool { return !td.littleEndian }

// PointerSize returns the pointer width in bytes.
func (td *TargetData) PointerSize() uint32 { return td.ptrSize }

// PointerABIAlign returns the pointer ABI alignment in bytes.
func (td *TargetData) PointerABIAlign() uint32 { return td.ptrABIAlign }

// PointerPrefAlign returns the pointer preferred alignment in bytes.
func (td *TargetData) PointerPrefAlign() uint32 { return td.ptrPrefAlign }

// Alignments returns a copy of the alignment table, sorted by
// (kind, bit width).
func (td *TargetData) Alignments() []AlignElem {
	return append([]AlignElem(nil), td.aligns.elems...)
}

// SetAlignment overwrites or inserts the alignment entry for (kind, bits).
// Alignment values are bytes. A zero pref falls back to abi.
func (td *TargetData) SetAlignment(kind AlignKind, abi, pref, bits uint32) {
	if pref == 0 {
		pref = abi
	}
	td.aligns.set(kind, abi, pref, bits)
}

// alignment looks up the exact (kind, bits) entry; a miss means the target
// description never covered this width, which is a configuration error.
func (td *TargetData) alignment(kind AlignKind, bits uint32, id types.TypeID) (AlignElem, *Error) {
	elem, ok := td.aligns.get(kind, bits)
	if !ok {
		e := td.errFor(ErrMissingAlignment, id)
		e.Align = kind
		e.Bits = bits
		return AlignElem{}, e
	}
	return elem, nil
}

// IntPtrType returns the integer type with the same width as a pointer.
func (td *TargetData) IntPtrType() types.TypeID {
	if td.types == nil {
		return types.NoTypeID
	}
	return td.types.Integer(td.ptrSize * 8)
}

// InvalidateStructLayout drops the cached layout for one struct identity.
// The type system must arrange for this before a struct's shape changes or
// the struct is thrown away; the interner hook installed by New does it for
// body refinements.
func (td *TargetData) InvalidateStructLayout(id types.TypeID) {
	td.cache.invalidate(id)
}

// PurgeLayouts drops every cached struct layout.
func (td *TargetData) PurgeLayouts() {
	td.cache.purge()
}

// Close retires the TargetData: it unregisters the struct-change hook so
// the interner no longer references it, and drops every cached layout.
// Call it when the interner outlives the target.
func (td *TargetData) Close() {
	if td.unsub != nil {
		td.unsub()
		td.unsub = nil
	}
	td.cache.purge()
}

// Description renders the canonical form of the target description.
// Parsing the result reproduces this TargetData's table exactly.
func (td *TargetData) Description() string {
	var b strings.Builder
	if td.littleEndian {
		b.WriteByte('e')
	} else {
		b.WriteByte('E')
	}
	fmt.Fprintf(&b, "-p:%d:%d:%d", td.ptrSize*8, td.ptrABIAlign*8, td.ptrPrefAlign*8)
	for _, elem := range td.aligns.elems {
		fmt.Fprintf(&b, "-%c%d:%d:%d", elem.Kind.specChar(), elem.BitWidth, elem.ABIAlign*8, elem.PrefAlign*8)
	}
	return b.String()
}
