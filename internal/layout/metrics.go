package layout

import (
	"math/bits"

	"fortio.org/safecast"

	"strata/internal/types"
)

// SizeOf returns the allocated byte size of a type on this target.
func (td *TargetData) SizeOf(id types.TypeID) (uint64, error) {
	s, err := td.sizeOf(id)
	if err != nil {
		return 0, err
	}
	return s, nil
}

// SizeInBits returns the bit size of a type. Integers report their exact
// bit width, everything else its byte size times eight.
func (td *TargetData) SizeInBits(id types.TypeID) (uint64, error) {
	if tt, ok := td.types.Lookup(id); ok && tt.Kind == types.KindInteger {
		return uint64(tt.Bits), nil
	}
	s, err := td.sizeOf(id)
	if err != nil {
		return 0, err
	}
	return s * 8, nil
}

// ABIAlignOf returns the minimum byte alignment the target ABI demands.
func (td *TargetData) ABIAlignOf(id types.TypeID) (uint32, error) {
	a, err := td.alignOf(id, true)
	if err != nil {
		return 0, err
	}
	return a, nil
}

// PrefAlignOf returns the byte alignment used for freestanding objects.
func (td *TargetData) PrefAlignOf(id types.TypeID) (uint32, error) {
	a, err := td.alignOf(id, false)
	if err != nil {
		return 0, err
	}
	return a, nil
}

func (td *TargetData) sizeOf(id types.TypeID) (uint64, *Error) {
	tt, ok := td.types.Lookup(id)
	if !ok || !td.types.IsSized(id) {
		return 0, td.errFor(ErrUnsizedType, id)
	}

	switch tt.Kind {
	case types.KindPointer, types.KindLabel:
		return uint64(td.ptrSize), nil

	case types.KindArray:
		elemSize, err := td.sizeOf(tt.Elem)
		if err != nil {
			return 0, err
		}
		elemAlign, err := td.alignOf(tt.Elem, true)
		if err != nil {
			return 0, err
		}
		// Each element is padded to its own alignment before the
		// count multiplies in, so the array stride is the aligned
		// size, not the raw one.
		return roundUp(elemSize, elemAlign) * uint64(tt.Count), nil

	case types.KindStruct:
		l, err := td.structLayoutOf(id)
		if err != nil {
			return 0, err
		}
		return l.Size, nil

	case types.KindInteger:
		switch {
		case tt.Bits <= 8:
			return 1, nil
		case tt.Bits <= 16:
			return 2, nil
		case tt.Bits <= 32:
			return 4, nil
		case tt.Bits <= 64:
			return 8, nil
		default:
			e := td.errFor(ErrWideInteger, id)
			e.Bits = tt.Bits
			return 0, e
		}

	case types.KindVoid:
		return 1, nil
	case types.KindFloat32:
		return 4, nil
	case types.KindFloat64:
		return 8, nil

	case types.KindVector:
		vbits, ok := td.types.VectorBits(id)
		if !ok {
			return 0, td.errFor(ErrBadKind, id)
		}
		return uint64(vbits) / 8, nil

	default:
		return 0, td.errFor(ErrBadKind, id)
	}
}

// alignOf dispatches on the type kind. abi selects ABI alignment,
// otherwise the preferred one.
func (td *TargetData) alignOf(id types.TypeID, abi bool) (uint32, *Error) {
	tt, ok := td.types.Lookup(id)
	if !ok || !td.types.IsSized(id) {
		return 0, td.errFor(ErrUnsizedType, id)
	}

	var kind AlignKind
	switch tt.Kind {
	case types.KindPointer, types.KindLabel:
		if abi {
			return td.ptrABIAlign, nil
		}
		return td.ptrPrefAlign, nil

	case types.KindArray:
		// Alignment ignores the element count.
		return td.alignOf(tt.Elem, abi)

	case types.KindStruct:
		l, err := td.structLayoutOf(id)
		if err != nil {
			return 0, err
		}
		agg, err := td.alignment(AlignAggregate, 0, id)
		if err != nil {
			return 0, err
		}
		// The aggregate entry may raise the computed structural
		// alignment but never lower it. ABI and preferred values are
		// compared independently.
		if abi {
			if agg.ABIAlign < l.Align {
				return l.Align, nil
			}
			return agg.ABIAlign, nil
		}
		if agg.PrefAlign < l.Align {
			return l.Align, nil
		}
		return agg.PrefAlign, nil

	case types.KindInteger, types.KindVoid:
		kind = AlignInteger
	case types.KindFloat32, types.KindFloat64:
		kind = AlignFloat
	case types.KindVector:
		vbits, ok := td.types.VectorBits(id)
		if !ok {
			return 0, td.errFor(ErrBadKind, id)
		}
		elem, err := td.alignment(AlignVector, vbits, id)
		if err != nil {
			return 0, err
		}
		return pick(elem, abi), nil
	default:
		return 0, td.errFor(ErrBadKind, id)
	}

	// Integer, void and float alignment is keyed by the allocated size in
	// bits, so an i1 resolves through the 8-bit entry.
	size, err := td.sizeOf(id)
	if err != nil {
		return 0, err
	}
	sizeBits, convErr := safecast.Conv[uint32](size * 8)
	if convErr != nil {
		return 0, td.errFor(ErrBadKind, id)
	}
	elem, err := td.alignment(kind, sizeBits, id)
	if err != nil {
		return 0, err
	}
	return pick(elem, abi), nil
}

func pick(elem AlignElem, abi bool) uint32 {
	if abi {
		return elem.ABIAlign
	}
	return elem.PrefAlign
}

// PreferredAlignmentLog returns log2 of the alignment a freestanding
// object of this type should get. An explicit alignment request wins when
// it exceeds the type's preferred alignment, and large initialized objects
// are bumped to 16 bytes.
func (td *TargetData) PreferredAlignmentLog(id types.TypeID, explicitAlign uint32, hasInitializer bool) (uint32, error) {
	pref, err := td.alignOf(id, false)
	if err != nil {
		return 0, err
	}
	alignLog := log2(pref)
	if explicitAlign > uint32(1)<<alignLog {
		alignLog = log2(explicitAlign)
	}
	if hasInitializer && alignLog < 4 {
		size, err := td.sizeOf(id)
		if err != nil {
			return 0, err
		}
		if size > 128 {
			alignLog = 4 // 16-byte alignment
		}
	}
	return alignLog, nil
}

// log2 of a power-of-two alignment; zero maps to zero.
func log2(align uint32) uint32 {
	if align == 0 {
		return 0
	}
	return uint32(bits.Len32(align)) - 1
}
