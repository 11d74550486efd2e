package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the payload format changes.
const schemaVersion uint16 = 1

// TypeLayout is the serializable layout of one queried type.
type TypeLayout struct {
	Expr      string   `json:"expr" msgpack:"expr"`
	Size      uint64   `json:"size" msgpack:"size"`
	SizeBits  uint64   `json:"size_bits" msgpack:"size_bits"`
	ABIAlign  uint32   `json:"abi_align" msgpack:"abi_align"`
	PrefAlign uint32   `json:"pref_align" msgpack:"pref_align"`
	Offsets   []uint64 `json:"offsets,omitempty" msgpack:"offsets,omitempty"`
}

// Report bundles the layouts computed for one target so downstream tools
// can consume them without re-running the engine.
type Report struct {
	Schema uint16       `json:"schema" msgpack:"schema"`
	Target string       `json:"target" msgpack:"target"`
	Layout string       `json:"layout" msgpack:"layout"`
	Types  []TypeLayout `json:"types" msgpack:"types"`
}

// New returns an empty report for the named target and its canonical
// layout string.
func New(target, layout string) *Report {
	return &Report{Schema: schemaVersion, Target: target, Layout: layout}
}

// Add appends one type layout.
func (r *Report) Add(tl TypeLayout) {
	r.Types = append(r.Types, tl)
}

// EncodeJSON writes the report as indented JSON.
func (r *Report) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// EncodeMsgpack writes the report in msgpack framing.
func (r *Report) EncodeMsgpack(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(r)
}

// Decode reads a msgpack report and validates its schema version.
func Decode(rd io.Reader) (*Report, error) {
	var r Report
	if err := msgpack.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	if r.Schema != schemaVersion {
		return nil, fmt.Errorf("report schema %d not supported (want %d)", r.Schema, schemaVersion)
	}
	return &r, nil
}
