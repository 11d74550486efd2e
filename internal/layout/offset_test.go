package layout_test

import (
	"errors"
	"testing"

	"strata/internal/layout"
	"strata/internal/types"
)

func TestResolveOffset_StructThenArray(t *testing.T) {
	td, typesIn := newDefaultTarget(t)
	b := typesIn.Builtins()
	st := typesIn.NewStruct([]types.TypeID{typesIn.Array(b.I32, 10), b.I8})
	ptr := typesIn.Pointer(st)

	offset, err := td.ResolveOffset(ptr, []layout.Step{
		layout.FieldStep(0),
		layout.ElemStep(3),
	})
	if err != nil {
		t.Fatalf("ResolveOffset: %v", err)
	}
	if offset != 12 {
		t.Errorf("offset = %d, want 12", offset)
	}
}

func TestResolveOffset_SecondField(t *testing.T) {
	td, typesIn := newDefaultTarget(t)
	b := typesIn.Builtins()
	st := typesIn.NewStruct([]types.TypeID{b.I8, b.I32})
	ptr := typesIn.Pointer(st)

	offset, err := td.ResolveOffset(ptr, []layout.Step{layout.FieldStep(1)})
	if err != nil {
		t.Fatalf("ResolveOffset: %v", err)
	}
	if offset != 4 {
		t.Errorf("offset = %d, want 4", offset)
	}
}

func TestResolveOffset_NegativeIndex(t *testing.T) {
	td, typesIn := newDefaultTarget(t)
	b := typesIn.Builtins()
	ptr := typesIn.Pointer(typesIn.Array(b.I64, 10))

	offset, err := td.ResolveOffset(ptr, []layout.Step{layout.ElemStep(-2)})
	if err != nil {
		t.Fatalf("ResolveOffset: %v", err)
	}
	if offset != -16 {
		t.Errorf("offset = %d, want -16", offset)
	}
}

func TestResolveOffset_ArrayOfStructs(t *testing.T) {
	td, typesIn := newDefaultTarget(t)
	b := typesIn.Builtins()
	st := typesIn.NewStruct([]types.TypeID{b.I8, b.I32})
	ptr := typesIn.Pointer(typesIn.Array(st, 4))

	offset, err := td.ResolveOffset(ptr, []layout.Step{
		layout.ElemStep(2),
		layout.FieldStep(1),
	})
	if err != nil {
		t.Fatalf("ResolveOffset: %v", err)
	}
	// 2*8 (struct stride) + 4 (field 1)
	if offset != 20 {
		t.Errorf("offset = %d, want 20", offset)
	}
}

func TestResolveOffset_ZeroSteps(t *testing.T) {
	td, typesIn := newDefaultTarget(t)
	ptr := typesIn.Pointer(typesIn.Builtins().I32)

	offset, err := td.ResolveOffset(ptr, nil)
	if err != nil {
		t.Fatalf("ResolveOffset: %v", err)
	}
	if offset != 0 {
		t.Errorf("offset = %d, want 0", offset)
	}
}

func TestResolveOffset_NonPointerBase(t *testing.T) {
	td, typesIn := newDefaultTarget(t)

	_, err := td.ResolveOffset(typesIn.Builtins().I32, nil)
	if err == nil {
		t.Fatal("non-pointer base should be rejected")
	}
	var lerr *layout.Error
	if !errors.As(err, &lerr) || lerr.Kind != layout.ErrNotPointer {
		t.Errorf("expected ErrNotPointer, got %v", err)
	}
}

func TestResolveOffset_BadFieldIndex(t *testing.T) {
	td, typesIn := newDefaultTarget(t)
	b := typesIn.Builtins()
	st := typesIn.NewStruct([]types.TypeID{b.I8, b.I32})
	ptr := typesIn.Pointer(st)

	for _, step := range []layout.Step{
		layout.FieldStep(2),
		layout.FieldStep(-1),
		layout.ElemStep(0), // struct point needs a field step
	} {
		_, err := td.ResolveOffset(ptr, []layout.Step{step})
		if err == nil {
			t.Fatalf("step %+v should be rejected", step)
		}
		var lerr *layout.Error
		if !errors.As(err, &lerr) || lerr.Kind != layout.ErrBadFieldIndex {
			t.Errorf("step %+v: expected ErrBadFieldIndex, got %v", step, err)
		}
	}
}
