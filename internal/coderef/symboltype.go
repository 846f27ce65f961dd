package coderef

import (
	"strings"

	"coderef/internal/symbolname"
)

// SymbolType is the kind of symbol a reference points at, selected by the
// one-letter specifier before the colon.
type SymbolType string

const (
	SymbolTypeUnknown   SymbolType = "Unknown"
	SymbolTypeAssembly  SymbolType = "Assembly"
	SymbolTypeNamespace SymbolType = "Namespace"
	SymbolTypeType      SymbolType = "Type"
	SymbolTypeField     SymbolType = "Field"
	SymbolTypeProperty  SymbolType = "Property"
	SymbolTypeEvent     SymbolType = "Event"
	SymbolTypeMethod    SymbolType = "Method"
)

var specifiers = map[byte]SymbolType{
	'A': SymbolTypeAssembly,
	'E': SymbolTypeEvent,
	'F': SymbolTypeField,
	'M': SymbolTypeMethod,
	'N': SymbolTypeNamespace,
	'P': SymbolTypeProperty,
	'T': SymbolTypeType,
}

// SymbolTypeFromSpecifier maps a specifier letter to its symbol type
func SymbolTypeFromSpecifier(c byte) (SymbolType, bool) {
	st, ok := specifiers[c]
	return st, ok
}

// Specifier returns the specifier letter for a symbol type, 0 for SymbolTypeUnknown
func Specifier(st SymbolType) byte {
	for c, candidate := range specifiers {
		if candidate == st {
			return c
		}
	}
	return 0
}

// ParseSymbolType parses a symbol type name case-insensitively ("method", "Method", "M")
func ParseSymbolType(s string) (SymbolType, bool) {
	if len(s) == 1 {
		return SymbolTypeFromSpecifier(s[0])
	}
	for _, st := range specifiers {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return SymbolTypeUnknown, false
}

// symbolTypeOf selects the reference kind for a resolved name. Kinds without a
// textual form map to SymbolTypeUnknown.
func symbolTypeOf(k symbolname.Kind) SymbolType {
	switch k {
	case symbolname.KindAssembly:
		return SymbolTypeAssembly
	case symbolname.KindNamespace:
		return SymbolTypeNamespace
	case symbolname.KindType, symbolname.KindArrayType, symbolname.KindByReferenceType,
		symbolname.KindPointerType, symbolname.KindGenericInstanceType, symbolname.KindGenericParameter:
		return SymbolTypeType
	case symbolname.KindField:
		return SymbolTypeField
	case symbolname.KindProperty:
		return SymbolTypeProperty
	case symbolname.KindEvent:
		return SymbolTypeEvent
	case symbolname.KindMethod, symbolname.KindGenericInstanceMethod:
		return SymbolTypeMethod
	default:
		return SymbolTypeUnknown
	}
}
