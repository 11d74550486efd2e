package layout

import (
	"fmt"
	"sort"
)

// AlignKind selects which alignment family an AlignElem describes.
type AlignKind uint8

const (
	AlignInteger AlignKind = iota
	AlignFloat
	AlignVector
	AlignAggregate
)

func (k AlignKind) String() string {
	switch k {
	case AlignInteger:
		return "integer"
	case AlignFloat:
		return "float"
	case AlignVector:
		return "vector"
	case AlignAggregate:
		return "aggregate"
	default:
		return fmt.Sprintf("AlignKind(%d)", k)
	}
}

// specChar is the description-string character for the kind.
func (k AlignKind) specChar() byte {
	switch k {
	case AlignInteger:
		return 'i'
	case AlignFloat:
		return 'f'
	case AlignVector:
		return 'v'
	default:
		return 'a'
	}
}

// AlignElem is one alignment-table entry: the ABI and preferred byte
// alignment of a type family at a specific bit width.
type AlignElem struct {
	Kind      AlignKind
	BitWidth  uint32
	ABIAlign  uint32 // bytes
	PrefAlign uint32 // bytes
}

// alignTable holds AlignElems sorted by (Kind, BitWidth), at most one entry
// per key, so range lookups stay a binary search.
type alignTable struct {
	elems []AlignElem
}

// lowerBound returns the smallest index whose entry sorts >= (kind, bits).
func (t *alignTable) lowerBound(kind AlignKind, bits uint32) int {
	return sort.Search(len(t.elems), func(i int) bool {
		e := t.elems[i]
		if e.Kind != kind {
			return e.Kind > kind
		}
		return e.BitWidth >= bits
	})
}

// set overwrites the entry for (kind, bits) in place, or inserts it at its
// sorted position when absent.
func (t *alignTable) set(kind AlignKind, abi, pref, bits uint32) {
	i := t.lowerBound(kind, bits)
	if i < len(t.elems) && t.elems[i].Kind == kind && t.elems[i].BitWidth == bits {
		t.elems[i].ABIAlign = abi
		t.elems[i].PrefAlign = pref
		return
	}
	t.elems = append(t.elems, AlignElem{})
	copy(t.elems[i+1:], t.elems[i:])
	t.elems[i] = AlignElem{Kind: kind, BitWidth: bits, ABIAlign: abi, PrefAlign: pref}
}

// get returns the entry for the exact (kind, bits) key.
func (t *alignTable) get(kind AlignKind, bits uint32) (AlignElem, bool) {
	i := t.lowerBound(kind, bits)
	if i < len(t.elems) && t.elems[i].Kind == kind && t.elems[i].BitWidth == bits {
		return t.elems[i], true
	}
	return AlignElem{}, false
}
