package layout

import (
	"strata/internal/types"
)

// Step is one link of an indexed access chain: either a fixed struct field
// index or a signed element index into a sequential type.
type Step struct {
	Field bool
	Index int64
}

// FieldStep addresses struct field i.
func FieldStep(i int64) Step { return Step{Field: true, Index: i} }

// ElemStep addresses element i of an array, vector or pointed-to run.
func ElemStep(i int64) Step { return Step{Index: i} }

// ResolveOffset walks an access chain from a pointer base and returns the
// cumulative byte offset. Element indices may be negative and the signed
// 64-bit arithmetic wraps, matching the address math code generators emit;
// no bounds checking against the underlying allocation happens here.
func (td *TargetData) ResolveOffset(base types.TypeID, steps []Step) (int64, error) {
	tt, ok := td.types.Lookup(base)
	if !ok || tt.Kind != types.KindPointer {
		return 0, td.errFor(ErrNotPointer, base)
	}

	cur := tt.Elem
	var offset int64
	for _, step := range steps {
		curT, ok := td.types.Lookup(cur)
		if !ok {
			return 0, td.errFor(ErrUnsizedType, cur)
		}
		switch curT.Kind {
		case types.KindStruct:
			fields, ok := td.types.FieldTypes(cur)
			if !ok {
				return 0, td.errFor(ErrUnsizedType, cur)
			}
			if !step.Field || step.Index < 0 || step.Index >= int64(len(fields)) {
				e := td.errFor(ErrBadFieldIndex, cur)
				e.Index = step.Index
				return 0, e
			}
			l, err := td.structLayoutOf(cur)
			if err != nil {
				return 0, err
			}
			offset += int64(l.Offsets[step.Index])
			cur = fields[step.Index]

		case types.KindArray, types.KindVector, types.KindPointer:
			cur = curT.Elem
			elemSize, err := td.sizeOf(cur)
			if err != nil {
				return 0, err
			}
			offset += step.Index * int64(elemSize)

		default:
			return 0, td.errFor(ErrBadKind, cur)
		}
	}
	return offset, nil
}
