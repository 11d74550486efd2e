package layout_test

import (
	"errors"
	"testing"

	"strata/internal/layout"
	"strata/internal/types"
)

func TestSizeOf_Scalars(t *testing.T) {
	td, typesIn := newDefaultTarget(t)
	b := typesIn.Builtins()

	cases := []struct {
		name string
		id   types.TypeID
		want uint64
	}{
		{"void", b.Void, 1},
		{"i1", b.I1, 1},
		{"i8", b.I8, 1},
		{"i16", b.I16, 2},
		{"i20", typesIn.Integer(20), 4},
		{"i33", typesIn.Integer(33), 8},
		{"float", b.F32, 4},
		{"double", b.F64, 8},
		{"label", b.Label, 8},
		{"<4 x i32>", typesIn.Vector(b.I32, 4), 16},
		{"<2 x float>", typesIn.Vector(b.F32, 2), 8},
	}
	for _, tc := range cases {
		got, err := td.SizeOf(tc.id)
		if err != nil {
			t.Fatalf("SizeOf(%s): %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("SizeOf(%s) = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestSizeInBits_IntegersReportExactWidth(t *testing.T) {
	td, typesIn := newDefaultTarget(t)

	i20 := typesIn.Integer(20)
	bits, err := td.SizeInBits(i20)
	if err != nil {
		t.Fatalf("SizeInBits(i20): %v", err)
	}
	if bits != 20 {
		t.Errorf("SizeInBits(i20) = %d, want 20", bits)
	}

	f64 := typesIn.Builtins().F64
	bits, err = td.SizeInBits(f64)
	if err != nil {
		t.Fatalf("SizeInBits(double): %v", err)
	}
	if bits != 64 {
		t.Errorf("SizeInBits(double) = %d, want 64", bits)
	}
}

func TestSizeOf_WideIntegerRejected(t *testing.T) {
	td, typesIn := newDefaultTarget(t)

	_, err := td.SizeOf(typesIn.Integer(128))
	if err == nil {
		t.Fatal("i128 should be unsupported")
	}
	var lerr *layout.Error
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *layout.Error, got %T (%v)", err, err)
	}
	if lerr.Kind != layout.ErrWideInteger {
		t.Errorf("Kind = %d, want ErrWideInteger", lerr.Kind)
	}
	if lerr.Bits != 128 {
		t.Errorf("Bits = %d, want 128", lerr.Bits)
	}
}

func TestAlignOf_SmallIntegersShareByteEntry(t *testing.T) {
	td, typesIn := newDefaultTarget(t)
	b := typesIn.Builtins()

	// i1 and void both allocate one byte, so they resolve through the
	// 8-bit integer entry.
	for _, id := range []types.TypeID{b.I1, b.Void, typesIn.Integer(5)} {
		abi, err := td.ABIAlignOf(id)
		if err != nil {
			t.Fatalf("ABIAlignOf(%s): %v", types.Label(typesIn, id), err)
		}
		if abi != 1 {
			t.Errorf("ABIAlignOf(%s) = %d, want 1", types.Label(typesIn, id), abi)
		}
	}
}

func TestAlignOf_VectorUsesTotalBitWidth(t *testing.T) {
	td, typesIn := newDefaultTarget(t)
	b := typesIn.Builtins()

	v64 := typesIn.Vector(b.I32, 2)
	abi, err := td.ABIAlignOf(v64)
	if err != nil {
		t.Fatalf("ABIAlignOf(<2 x i32>): %v", err)
	}
	if abi != 8 {
		t.Errorf("ABIAlignOf(<2 x i32>) = %d, want 8", abi)
	}

	v128 := typesIn.Vector(b.F32, 4)
	abi, err = td.ABIAlignOf(v128)
	if err != nil {
		t.Fatalf("ABIAlignOf(<4 x float>): %v", err)
	}
	if abi != 16 {
		t.Errorf("ABIAlignOf(<4 x float>) = %d, want 16", abi)
	}
}

func TestAlignOf_MissingTableEntry(t *testing.T) {
	td, typesIn := newDefaultTarget(t)

	v256 := typesIn.Vector(typesIn.Builtins().I32, 8)
	_, err := td.ABIAlignOf(v256)
	if err == nil {
		t.Fatal("<8 x i32> has no 256-bit vector entry, expected an error")
	}
	var lerr *layout.Error
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *layout.Error, got %T (%v)", err, err)
	}
	if lerr.Kind != layout.ErrMissingAlignment {
		t.Errorf("Kind = %d, want ErrMissingAlignment", lerr.Kind)
	}
	if lerr.Bits != 256 {
		t.Errorf("Bits = %d, want 256", lerr.Bits)
	}
}

func TestAlignOf_ArrayIgnoresCount(t *testing.T) {
	td, typesIn := newDefaultTarget(t)
	b := typesIn.Builtins()

	for _, n := range []uint32{0, 1, 100} {
		arr := typesIn.Array(b.I64, n)
		abi, err := td.ABIAlignOf(arr)
		if err != nil {
			t.Fatalf("ABIAlignOf([%d x i64]): %v", n, err)
		}
		if abi != 8 {
			t.Errorf("ABIAlignOf([%d x i64]) = %d, want 8", n, abi)
		}
	}
}

func TestAlignOf_UnsizedType(t *testing.T) {
	td, typesIn := newDefaultTarget(t)

	opaque := typesIn.OpaqueStruct()
	_, err := td.ABIAlignOf(opaque)
	if err == nil {
		t.Fatal("opaque struct should fail alignment queries")
	}
	var lerr *layout.Error
	if !errors.As(err, &lerr) || lerr.Kind != layout.ErrUnsizedType {
		t.Errorf("expected ErrUnsizedType, got %v", err)
	}
}

func TestPreferredAlignmentLog(t *testing.T) {
	td, typesIn := newDefaultTarget(t)
	b := typesIn.Builtins()

	// i32 prefers 4 bytes: log 2.
	alignLog, err := td.PreferredAlignmentLog(b.I32, 0, false)
	if err != nil {
		t.Fatalf("PreferredAlignmentLog(i32): %v", err)
	}
	if alignLog != 2 {
		t.Errorf("log = %d, want 2", alignLog)
	}

	// An explicit request beyond the preferred alignment wins.
	alignLog, err = td.PreferredAlignmentLog(b.I32, 16, false)
	if err != nil {
		t.Fatalf("PreferredAlignmentLog(i32, 16): %v", err)
	}
	if alignLog != 4 {
		t.Errorf("log = %d, want 4", alignLog)
	}

	// A smaller explicit request changes nothing.
	alignLog, err = td.PreferredAlignmentLog(b.I64, 2, false)
	if err != nil {
		t.Fatalf("PreferredAlignmentLog(i64, 2): %v", err)
	}
	if alignLog != 3 {
		t.Errorf("log = %d, want 3", alignLog)
	}

	// Large initialized globals get bumped to 16 bytes.
	big := typesIn.Array(b.I8, 200)
	alignLog, err = td.PreferredAlignmentLog(big, 0, true)
	if err != nil {
		t.Fatalf("PreferredAlignmentLog([200 x i8], init): %v", err)
	}
	if alignLog != 4 {
		t.Errorf("log = %d, want 4", alignLog)
	}

	// Same type without an initializer keeps its natural alignment.
	alignLog, err = td.PreferredAlignmentLog(big, 0, false)
	if err != nil {
		t.Fatalf("PreferredAlignmentLog([200 x i8]): %v", err)
	}
	if alignLog != 0 {
		t.Errorf("log = %d, want 0", alignLog)
	}
}

func TestIntPtrType(t *testing.T) {
	typesIn := types.NewInterner()
	td := layout.New("e-p:32:32:32", typesIn)
	if td.IntPtrType() != typesIn.Integer(32) {
		t.Error("32-bit target should map IntPtrType to i32")
	}

	typesIn64 := types.NewInterner()
	td64 := layout.New("", typesIn64)
	if td64.IntPtrType() != typesIn64.Builtins().I64 {
		t.Error("64-bit target should map IntPtrType to i64")
	}
}
