// Package testkit holds invariant checkers shared by tests.
package testkit

import (
	"fmt"

	"strata/internal/layout"
)

// CheckLayoutInvariants runs the structural invariants every computed
// struct layout must satisfy:
// 1) offsets are non-decreasing and start at 0 when fields exist
// 2) alignment is at least 1
// 3) total size is a multiple of the alignment
// 4) every offset lies inside the sized extent
func CheckLayoutInvariants(l *layout.StructLayout) error {
	if l == nil {
		return fmt.Errorf("nil layout")
	}
	if l.Align < 1 {
		return fmt.Errorf("alignment %d < 1", l.Align)
	}
	if l.Size%uint64(l.Align) != 0 {
		return fmt.Errorf("size %d is not a multiple of alignment %d", l.Size, l.Align)
	}
	for i, off := range l.Offsets {
		if i == 0 && off != 0 {
			return fmt.Errorf("first field at offset %d, want 0", off)
		}
		if i > 0 && off < l.Offsets[i-1] {
			return fmt.Errorf("offsets decrease at field %d: %d < %d", i, off, l.Offsets[i-1])
		}
		if off > l.Size {
			return fmt.Errorf("field %d offset %d beyond size %d", i, off, l.Size)
		}
	}
	return nil
}
