package layout

import (
	"sort"

	"strata/internal/types"
)

// StructLayout is the computed placement of one struct's fields for a
// specific TargetData: byte offsets per field, total size and alignment.
// Instances come out of the per-target cache; treat them as read-only.
type StructLayout struct {
	Offsets []uint64 // non-decreasing, Offsets[0] == 0 when fields exist
	Size    uint64   // always a multiple of Align
	Align   uint32   // >= 1, 1 for zero-field structs

	id    types.TypeID
	label string
}

// FieldOffset returns the byte offset of field i.
func (l *StructLayout) FieldOffset(i int) (uint64, error) {
	if i < 0 || i >= len(l.Offsets) {
		return 0, &Error{Kind: ErrBadFieldIndex, Type: l.id, Label: l.label, Index: int64(i)}
	}
	return l.Offsets[i], nil
}

// ElementContainingOffset returns the index of the field whose extent
// contains the given byte offset. The end offset resolves to the last
// field; only offsets beyond the size are rejected.
func (l *StructLayout) ElementContainingOffset(offset uint64) (int, error) {
	if offset > l.Size || len(l.Offsets) == 0 {
		return 0, &Error{Kind: ErrOffsetOutOfRange, Type: l.id, Label: l.label, Offset: offset}
	}
	// Upper bound, then one step back to the field that starts at or
	// before the offset.
	i := sort.Search(len(l.Offsets), func(i int) bool {
		return l.Offsets[i] > offset
	})
	return i - 1, nil
}

// StructLayoutOf returns the layout of a struct identity, computing and
// caching it on first use.
func (td *TargetData) StructLayoutOf(id types.TypeID) (*StructLayout, error) {
	l, err := td.structLayoutOf(id)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (td *TargetData) structLayoutOf(id types.TypeID) (*StructLayout, *Error) {
	tt, ok := td.types.Lookup(id)
	if !ok || tt.Kind != types.KindStruct {
		return nil, td.errFor(ErrBadKind, id)
	}
	return td.cache.getOrCompute(id, func() (*StructLayout, *Error) {
		return td.computeStructLayout(id)
	})
}

// computeStructLayout places each field at the next offset compatible with
// its ABI alignment, then pads the total size so array elements of the
// struct stay aligned.
func (td *TargetData) computeStructLayout(id types.TypeID) (*StructLayout, *Error) {
	fields, ok := td.types.FieldTypes(id)
	if !ok {
		return nil, td.errFor(ErrUnsizedType, id)
	}

	offsets := make([]uint64, len(fields))
	var size uint64
	var align uint32
	for i, f := range fields {
		fieldAlign, err := td.alignOf(f, true)
		if err != nil {
			return nil, err
		}
		fieldSize, err := td.sizeOf(f)
		if err != nil {
			return nil, err
		}
		size = roundUp(size, fieldAlign)
		offsets[i] = size
		if fieldAlign > align {
			align = fieldAlign
		}
		size += fieldSize
	}

	// Empty structs have alignment of 1 byte.
	if align == 0 {
		align = 1
	}
	size = roundUp(size, align)
	return &StructLayout{
		Offsets: offsets,
		Size:    size,
		Align:   align,
		id:      id,
		label:   types.Label(td.types, id),
	}, nil
}

func roundUp(n uint64, align uint32) uint64 {
	if align <= 1 {
		return n
	}
	a := uint64(align)
	r := n % a
	if r == 0 {
		return n
	}
	return n + (a - r)
}
