package layout

import (
	"fmt"

	"strata/internal/types"
)

// ErrorKind enumerates types of layout calculation errors.
type ErrorKind uint8

const (
	// ErrMissingAlignment indicates the alignment table has no entry for a
	// required (kind, bit-width) key.
	ErrMissingAlignment ErrorKind = iota + 1
	// ErrUnsizedType indicates a size/alignment query on a type with no
	// defined layout (opaque struct, invalid id).
	ErrUnsizedType
	// ErrWideInteger indicates an integer wider than 64 bits.
	ErrWideInteger
	// ErrBadFieldIndex indicates a struct step with an index outside the
	// field list.
	ErrBadFieldIndex
	// ErrOffsetOutOfRange indicates an offset beyond a struct's sized extent.
	ErrOffsetOutOfRange
	// ErrNotPointer indicates an offset resolution whose base type is not a
	// pointer.
	ErrNotPointer
	// ErrBadKind indicates a type kind the engine cannot measure.
	ErrBadKind
)

// Error reports a failed layout query, carrying the offending type and
// whatever index/offset/width detail the failure has.
type Error struct {
	Kind   ErrorKind
	Type   types.TypeID
	Label  string // spelling of Type at the time of the failure
	Index  int64  // for ErrBadFieldIndex
	Offset uint64 // for ErrOffsetOutOfRange
	Bits   uint32 // for ErrWideInteger and ErrMissingAlignment
	Align  AlignKind
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	label := e.Label
	if label == "" {
		label = fmt.Sprintf("type#%d", e.Type)
	}
	switch e.Kind {
	case ErrMissingAlignment:
		return fmt.Sprintf("no alignment entry for %s width %d (%s)", e.Align, e.Bits, label)
	case ErrUnsizedType:
		return fmt.Sprintf("cannot measure unsized type %s", label)
	case ErrWideInteger:
		return fmt.Sprintf("integer types wider than 64 bits are not supported (i%d)", e.Bits)
	case ErrBadFieldIndex:
		return fmt.Sprintf("field index %d out of range for %s", e.Index, label)
	case ErrOffsetOutOfRange:
		return fmt.Sprintf("offset %d not inside %s", e.Offset, label)
	case ErrNotPointer:
		return fmt.Sprintf("offset resolution requires a pointer base, got %s", label)
	case ErrBadKind:
		return fmt.Sprintf("cannot compute layout for %s", label)
	default:
		return fmt.Sprintf("layout error kind=%d (%s)", e.Kind, label)
	}
}

func (td *TargetData) errFor(kind ErrorKind, id types.TypeID) *Error {
	return &Error{Kind: kind, Type: id, Label: types.Label(td.types, id)}
}
