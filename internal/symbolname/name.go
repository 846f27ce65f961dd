package symbolname

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Name is a resolved symbol name. The set of implementations is closed to this package.
type Name interface {
	Kind() Kind
	FullName() string
	String() string

	symbolName()
}

// Equal reports whether two names denote the same symbol. Two nil names are equal.
func Equal(a, b Name) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	return a.Kind() == b.Kind() && a.FullName() == b.FullName()
}

// Hash returns a stable hash consistent with Equal
func Hash(n Name) uint64 {
	if IsNil(n) {
		return 0
	}
	return xxhash.Sum64String(string(n.Kind()) + ":" + n.FullName())
}

// IsNil reports whether n is nil or a typed nil pointer
func IsNil(n Name) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *TypeName:
		return v == nil
	case *MethodName:
		return v == nil
	case *PropertyName:
		return v == nil
	case *FieldName:
		return v == nil
	case *EventName:
		return v == nil
	case *ParameterName:
		return v == nil
	case *AssemblyName:
		return v == nil
	case *NamespaceName:
		return v == nil
	case *ModuleName:
		return v == nil
	case *OpaqueName:
		return v == nil
	}
	return false
}

// reservedRunes cannot appear inside an identifier segment
const reservedRunes = ".,`{}[]()<>@*~:#"

// ValidIdentifier reports whether s can be used as a single name segment
func ValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r <= ' ' || strings.ContainsRune(reservedRunes, r) {
			return false
		}
	}
	return true
}
