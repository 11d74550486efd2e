package report

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func sampleReport() *Report {
	r := New("x86_64", "e-p:64:64:64")
	r.Add(TypeLayout{Expr: "{i8, i32}", Size: 8, SizeBits: 64, ABIAlign: 4, PrefAlign: 4, Offsets: []uint64{0, 4}})
	r.Add(TypeLayout{Expr: "i64", Size: 8, SizeBits: 64, ABIAlign: 8, PrefAlign: 8})
	return r
}

func TestReport_MsgpackRoundTrip(t *testing.T) {
	r := sampleReport()
	var buf bytes.Buffer
	if err := r.EncodeMsgpack(&buf); err != nil {
		t.Fatalf("EncodeMsgpack: %v", err)
	}
	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, r) {
		t.Errorf("round trip changed the report:\n got %+v\nwant %+v", decoded, r)
	}
}

func TestDecode_RejectsForeignSchema(t *testing.T) {
	r := sampleReport()
	r.Schema = 99
	var buf bytes.Buffer
	if err := r.EncodeMsgpack(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(&buf); err == nil {
		t.Error("schema 99 should be rejected")
	}
}

func TestReport_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().EncodeJSON(&buf); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"target": "x86_64"`, `"abi_align": 4`, `"offsets"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output missing %s:\n%s", want, out)
		}
	}
}
