package symbolname

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeName is a resolved type. Kind selects which fields are meaningful:
//
//   - KindType: namespace or declaringType, name (with arity mangle), arity
//   - KindGenericInstanceType: definition, arguments
//   - KindArrayType, KindPointerType, KindByReferenceType: element (rank for arrays)
//   - KindGenericParameter: position, methodOwned
type TypeName struct {
	kind          Kind
	namespace     string
	name          string
	arity         int
	declaringType *TypeName
	definition    *TypeName
	arguments     []*TypeName
	element       *TypeName
	rank          int
	position      int
	methodOwned   bool
}

// NewTypeName creates a top-level type from a dotted full name. A trailing
// arity mangle on the last segment ("List`1") makes it a generic definition.
func NewTypeName(fullName string) (*TypeName, error) {
	fullName = strings.TrimSpace(fullName)
	ns, simple := "", fullName
	if i := strings.LastIndexByte(fullName, '.'); i >= 0 {
		ns, simple = fullName[:i], fullName[i+1:]
	}
	if ns != "" {
		for _, seg := range strings.Split(ns, ".") {
			if !ValidIdentifier(seg) {
				return nil, fmt.Errorf("invalid namespace segment %q in %q", seg, fullName)
			}
		}
	}
	bare, arity := SplitArity(simple)
	if !ValidIdentifier(bare) {
		return nil, fmt.Errorf("invalid type name %q", fullName)
	}
	return &TypeName{
		kind:      KindType,
		namespace: ns,
		name:      mangled(bare, arity),
		arity:     arity,
	}, nil
}

// NewGenericParameter creates a positional generic parameter owned by a type, or
// by a method when method is true.
func NewGenericParameter(position int, method bool) *TypeName {
	return &TypeName{kind: KindGenericParameter, position: position, methodOwned: method}
}

func (t *TypeName) symbolName() {}

// Kind returns the type kind
func (t *TypeName) Kind() Kind { return t.kind }

// Namespace returns the namespace of the outermost declaring type
func (t *TypeName) Namespace() string {
	switch t.kind {
	case KindType:
		if t.declaringType != nil {
			return t.declaringType.Namespace()
		}
		return t.namespace
	case KindGenericInstanceType:
		return t.definition.Namespace()
	case KindArrayType, KindPointerType, KindByReferenceType:
		return t.element.Namespace()
	default:
		return ""
	}
}

// Name returns the simple name. Generic definitions keep their arity mangle.
func (t *TypeName) Name() string {
	switch t.kind {
	case KindType:
		return t.name
	case KindGenericInstanceType:
		return t.definition.Name()
	case KindGenericParameter:
		return t.FullName()
	default:
		return t.element.Name() + t.suffix()
	}
}

// BareName returns the simple name with any arity mangle removed
func (t *TypeName) BareName() string {
	name, _ := SplitArity(t.Name())
	return name
}

// DeclaringType returns the enclosing type of a nested type
func (t *TypeName) DeclaringType() *TypeName {
	switch t.kind {
	case KindType:
		return t.declaringType
	case KindGenericInstanceType:
		return t.definition.declaringType
	default:
		return nil
	}
}

// IsNested reports whether the type is declared inside another type
func (t *TypeName) IsNested() bool {
	return t.DeclaringType() != nil
}

// GenericArity returns the number of generic parameters the type itself declares
func (t *TypeName) GenericArity() int {
	switch t.kind {
	case KindType:
		return t.arity
	case KindGenericInstanceType:
		return t.definition.arity
	default:
		return 0
	}
}

// IsGenericDefinition reports whether the type is an open generic definition
func (t *TypeName) IsGenericDefinition() bool {
	return t.kind == KindType && t.GenericParameterCount() > 0
}

// GenericParameterCount returns len(t.GenericParameters()) without building
// the list.
func (t *TypeName) GenericParameterCount() int {
	switch t.kind {
	case KindType:
		n := t.arity
		for d := t.declaringType; d != nil; d = d.declaringType {
			if d.kind == KindGenericInstanceType {
				d = d.definition
			}
			n += d.arity
		}
		return n
	case KindGenericInstanceType:
		return t.definition.GenericParameterCount()
	default:
		return 0
	}
}

// GenericParameters returns the generic parameters in scope for the type: those
// inherited from declaring types followed by its own.
func (t *TypeName) GenericParameters() []*TypeName {
	switch t.kind {
	case KindType:
		var inherited []*TypeName
		if t.declaringType != nil {
			inherited = t.declaringType.GenericParameters()
		}
		params := make([]*TypeName, 0, len(inherited)+t.arity)
		params = append(params, inherited...)
		for i := 0; i < t.arity; i++ {
			params = append(params, NewGenericParameter(len(inherited)+i, false))
		}
		return params
	case KindGenericInstanceType:
		return t.definition.GenericParameters()
	default:
		return nil
	}
}

// GenericArguments returns the arguments of a generic instance
func (t *TypeName) GenericArguments() []*TypeName {
	if t.kind != KindGenericInstanceType {
		return nil
	}
	return append([]*TypeName(nil), t.arguments...)
}

// Definition returns the generic definition of a generic instance
func (t *TypeName) Definition() *TypeName {
	if t.kind != KindGenericInstanceType {
		return nil
	}
	return t.definition
}

// ElementType returns the element of an array, pointer or by-reference type
func (t *TypeName) ElementType() *TypeName {
	switch t.kind {
	case KindArrayType, KindPointerType, KindByReferenceType:
		return t.element
	default:
		return nil
	}
}

// ArrayRank returns the number of array dimensions
func (t *TypeName) ArrayRank() int {
	return t.rank
}

// Position returns the index of a generic parameter
func (t *TypeName) Position() int {
	return t.position
}

// IsMethodParameter reports whether a generic parameter belongs to a method
func (t *TypeName) IsMethodParameter() bool {
	return t.kind == KindGenericParameter && t.methodOwned
}

// FullName returns the metadata full name. Nested types are joined with '/',
// generic instances list arguments in angle brackets, generic parameters render
// as !N (type) or !!N (method).
func (t *TypeName) FullName() string {
	switch t.kind {
	case KindType:
		if t.declaringType != nil {
			return t.declaringType.FullName() + "/" + t.name
		}
		if t.namespace != "" {
			return t.namespace + "." + t.name
		}
		return t.name
	case KindGenericInstanceType:
		args := make([]string, len(t.arguments))
		for i, a := range t.arguments {
			args[i] = a.FullName()
		}
		return t.definition.FullName() + "<" + strings.Join(args, ",") + ">"
	case KindGenericParameter:
		if t.methodOwned {
			return "!!" + strconv.Itoa(t.position)
		}
		return "!" + strconv.Itoa(t.position)
	default:
		return t.element.FullName() + t.suffix()
	}
}

func (t *TypeName) suffix() string {
	switch t.kind {
	case KindArrayType:
		return "[" + strings.Repeat(",", t.rank-1) + "]"
	case KindPointerType:
		return "*"
	case KindByReferenceType:
		return "&"
	default:
		return ""
	}
}

// String returns the full name
func (t *TypeName) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.FullName()
}

// WithGenericArity returns a copy of an arity-less definition declaring n generic parameters
func (t *TypeName) WithGenericArity(n int) (*TypeName, error) {
	if t.kind != KindType {
		return nil, fmt.Errorf("cannot set generic arity on %s %s", t.kind, t.FullName())
	}
	if t.arity != 0 {
		return nil, fmt.Errorf("generic arity of %s is already %d", t.FullName(), t.arity)
	}
	if n <= 0 || n > MaxGenericArity {
		return nil, fmt.Errorf("invalid generic arity %d", n)
	}
	out := *t
	out.arity = n
	out.name = mangled(t.name, n)
	return &out, nil
}

// NestedType returns the type named name declared inside t
func (t *TypeName) NestedType(name string) (*TypeName, error) {
	if t.kind != KindType && t.kind != KindGenericInstanceType {
		return nil, fmt.Errorf("%s %s cannot declare nested types", t.kind, t.FullName())
	}
	bare, arity := SplitArity(name)
	if !ValidIdentifier(bare) {
		return nil, fmt.Errorf("invalid nested type name %q", name)
	}
	return &TypeName{
		kind:          KindType,
		name:          mangled(bare, arity),
		arity:         arity,
		declaringType: t,
	}, nil
}

// MakeArrayType returns an array of t with the given number of dimensions
func (t *TypeName) MakeArrayType(rank int) (*TypeName, error) {
	if rank < 1 {
		return nil, fmt.Errorf("invalid array rank %d", rank)
	}
	return &TypeName{kind: KindArrayType, element: t, rank: rank}, nil
}

// MakeByReferenceType returns a by-reference type over t
func (t *TypeName) MakeByReferenceType() *TypeName {
	return &TypeName{kind: KindByReferenceType, element: t}
}

// MakePointerType returns a pointer type over t
func (t *TypeName) MakePointerType() *TypeName {
	return &TypeName{kind: KindPointerType, element: t}
}

// MakeGenericInstance closes the generic definition t over args
func (t *TypeName) MakeGenericInstance(args []*TypeName) (*TypeName, error) {
	if t.kind != KindType {
		return nil, fmt.Errorf("%s %s is not a generic definition", t.kind, t.FullName())
	}
	if t.arity == 0 || len(args) != t.arity {
		return nil, fmt.Errorf("%s expects %d generic arguments, got %d", t.FullName(), t.arity, len(args))
	}
	for i, a := range args {
		if a == nil {
			return nil, fmt.Errorf("generic argument %d of %s is nil", i, t.FullName())
		}
	}
	return &TypeName{
		kind:       KindGenericInstanceType,
		definition: t,
		arguments:  append([]*TypeName(nil), args...),
	}, nil
}
