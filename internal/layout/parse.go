package layout

import (
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// sentinelAlign is the 0 ABI value installed for i64/f64 defaults; after
// parsing it resolves to the pointer byte size unless a token overrode it.
const sentinelAlign = 0

// parse installs the baseline defaults and then folds the description
// tokens over them. The grammar is deliberately forgiving: unknown leading
// characters and unparsable numbers are treated as zero or skipped, exactly
// like the classic datalayout readers.
func (td *TargetData) parse(desc string) {
	td.littleEndian = false
	td.ptrSize = 8
	td.ptrABIAlign = 8
	td.ptrPrefAlign = td.ptrABIAlign

	// Baseline alignments, bytes.
	td.aligns.set(AlignInteger, 1, 1, 1)
	td.aligns.set(AlignInteger, 1, 1, 8)
	td.aligns.set(AlignInteger, 2, 2, 16)
	td.aligns.set(AlignInteger, 4, 4, 32)
	td.aligns.set(AlignInteger, sentinelAlign, 8, 64)
	td.aligns.set(AlignFloat, 4, 4, 32)
	td.aligns.set(AlignFloat, sentinelAlign, 8, 64)
	td.aligns.set(AlignVector, 8, 8, 64)
	td.aligns.set(AlignVector, 16, 16, 128)
	td.aligns.set(AlignAggregate, 0, 0, 0)

	for _, token := range strings.Split(desc, "-") {
		fields := strings.Split(token, ":")
		head := fields[0]
		if head == "" {
			continue
		}
		switch head[0] {
		case 'E':
			td.littleEndian = false
		case 'e':
			td.littleEndian = true
		case 'p':
			td.ptrSize = bitsField(fields, 1) / 8
			td.ptrABIAlign = bitsField(fields, 2) / 8
			td.ptrPrefAlign = bitsField(fields, 3) / 8
			if td.ptrPrefAlign == 0 {
				td.ptrPrefAlign = td.ptrABIAlign
			}
		case 'i', 'f', 'v', 'a':
			var kind AlignKind
			switch head[0] {
			case 'i':
				kind = AlignInteger
			case 'f':
				kind = AlignFloat
			case 'v':
				kind = AlignVector
			default:
				kind = AlignAggregate
			}
			bits := atoiLenient(head[1:])
			abi := bitsField(fields, 1) / 8
			pref := bitsField(fields, 2) / 8
			if pref == 0 {
				pref = abi
			}
			td.aligns.set(kind, abi, pref, bits)
		default:
			// Unrecognized specifier, skip it.
		}
	}

	// Unless explicitly overridden, long and double alignment is capped at
	// the pointer size.
	if elem, ok := td.aligns.get(AlignInteger, 64); ok && elem.ABIAlign == sentinelAlign {
		td.aligns.set(AlignInteger, td.ptrSize, td.ptrSize, 64)
	}
	if elem, ok := td.aligns.get(AlignFloat, 64); ok && elem.ABIAlign == sentinelAlign {
		td.aligns.set(AlignFloat, td.ptrSize, td.ptrSize, 64)
	}
}

// bitsField reads the i-th colon field of a token as a bit count, zero when
// absent or malformed.
func bitsField(fields []string, i int) uint32 {
	if i >= len(fields) {
		return 0
	}
	return atoiLenient(fields[i])
}

func atoiLenient(s string) uint32 {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	u, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0
	}
	return u
}
