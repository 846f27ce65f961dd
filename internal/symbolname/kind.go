// Package symbolname models the resolved symbol names that code references point at:
// assemblies, namespaces, types and their constructed forms, and type members.
//
// Every name is immutable once constructed. Construction helpers such as MakeArrayType
// or NestedType return new values; MethodBuilder is the only mutable piece and it is
// consumed by Build.
package symbolname

// Kind identifies the shape of a symbol name
type Kind string

const (
	KindUnknown               Kind = "unknown"
	KindAssembly              Kind = "assembly"
	KindNamespace             Kind = "namespace"
	KindType                  Kind = "type"
	KindArrayType             Kind = "array-type"
	KindByReferenceType       Kind = "by-reference-type"
	KindPointerType           Kind = "pointer-type"
	KindGenericInstanceType   Kind = "generic-instance-type"
	KindGenericParameter      Kind = "generic-parameter"
	KindField                 Kind = "field"
	KindProperty              Kind = "property"
	KindEvent                 Kind = "event"
	KindMethod                Kind = "method"
	KindGenericInstanceMethod Kind = "generic-instance-method"
	KindParameter             Kind = "parameter"
	KindModule                Kind = "module"
	KindResource              Kind = "resource"
	KindLocal                 Kind = "local"
	KindAlias                 Kind = "alias"
	KindAttribute             Kind = "attribute"
	KindInternedLocation      Kind = "interned-location"
)

// IsType reports whether the kind is one of the type kinds
func (k Kind) IsType() bool {
	switch k {
	case KindType, KindArrayType, KindByReferenceType, KindPointerType,
		KindGenericInstanceType, KindGenericParameter:
		return true
	default:
		return false
	}
}

// IsMember reports whether the kind names a type member
func (k Kind) IsMember() bool {
	switch k {
	case KindField, KindProperty, KindEvent, KindMethod, KindGenericInstanceMethod:
		return true
	default:
		return false
	}
}
