package types

import (
	"fmt"
	"strings"
)

// Label returns a user-friendly spelling for a TypeID.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID || typesIn == nil {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindVoid:
		return "void"
	case KindLabel:
		return "label"
	case KindInteger:
		return fmt.Sprintf("i%d", tt.Bits)
	case KindFloat32:
		return "float"
	case KindFloat64:
		return "double"
	case KindPointer:
		return "*" + labelDepth(typesIn, tt.Elem, depth+1)
	case KindArray:
		return fmt.Sprintf("[%d x %s]", tt.Count, labelDepth(typesIn, tt.Elem, depth+1))
	case KindVector:
		return fmt.Sprintf("<%d x %s>", tt.Count, labelDepth(typesIn, tt.Elem, depth+1))
	case KindStruct:
		fields, ok := typesIn.FieldTypes(id)
		if !ok {
			return "opaque"
		}
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = labelDepth(typesIn, f, depth+1)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "?"
	}
}
