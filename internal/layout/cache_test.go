package layout

import (
	"testing"

	"strata/internal/types"
)

// An invalidation that lands while a computation is in flight must not let
// the flight store or return a layout for the old shape.
func TestLayoutCache_InvalidateDuringComputeIsNotStored(t *testing.T) {
	c := newLayoutCache()
	id := types.TypeID(7)

	calls := 0
	got, lerr := c.getOrCompute(id, func() (*StructLayout, *Error) {
		calls++
		if calls == 1 {
			c.invalidate(id)
			return &StructLayout{Offsets: []uint64{0}, Size: 8, Align: 8}, nil
		}
		return &StructLayout{Offsets: []uint64{0, 8, 16}, Size: 24, Align: 8}, nil
	})
	if lerr != nil {
		t.Fatalf("getOrCompute: %v", lerr)
	}
	if calls != 2 {
		t.Fatalf("compute ran %d times, want 2", calls)
	}
	if got.Size != 24 {
		t.Errorf("returned the invalidated result: size %d, want 24", got.Size)
	}

	cached, lerr := c.getOrCompute(id, func() (*StructLayout, *Error) {
		t.Fatal("entry should be cached")
		return nil, nil
	})
	if lerr != nil {
		t.Fatalf("cached lookup: %v", lerr)
	}
	if cached != got {
		t.Error("later lookups should observe the recomputed instance")
	}
}

func TestLayoutCache_PurgeDuringComputeIsNotStored(t *testing.T) {
	c := newLayoutCache()
	id := types.TypeID(3)

	calls := 0
	got, lerr := c.getOrCompute(id, func() (*StructLayout, *Error) {
		calls++
		if calls == 1 {
			c.purge()
		}
		return &StructLayout{Size: uint64(calls) * 16, Align: 8}, nil
	})
	if lerr != nil {
		t.Fatalf("getOrCompute: %v", lerr)
	}
	if calls != 2 || got.Size != 32 {
		t.Errorf("calls %d size %d, want 2 and 32", calls, got.Size)
	}
}
