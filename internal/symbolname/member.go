package symbolname

import (
	"fmt"
	"strconv"
	"strings"
)

// ParameterName is one entry of a method or indexer parameter list. The type may
// be nil for a deliberately blank slot.
type ParameterName struct {
	name      string
	paramType *TypeName
}

// NewParameterName creates a parameter
func NewParameterName(name string, paramType *TypeName) *ParameterName {
	return &ParameterName{name: name, paramType: paramType}
}

func (p *ParameterName) symbolName() {}

// Kind returns KindParameter
func (p *ParameterName) Kind() Kind { return KindParameter }

// Name returns the parameter name, usually empty for parsed references
func (p *ParameterName) Name() string { return p.name }

// ParameterType returns the parameter type
func (p *ParameterName) ParameterType() *TypeName { return p.paramType }

// FullName returns the parameter type's full name
func (p *ParameterName) FullName() string {
	if p.paramType == nil {
		return ""
	}
	return p.paramType.FullName()
}

func (p *ParameterName) String() string {
	if p.name == "" {
		return p.FullName()
	}
	return p.FullName() + " " + p.name
}

func joinParameters(params []*ParameterName) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.FullName()
	}
	return strings.Join(parts, ",")
}

func memberPrefix(declaringType *TypeName) string {
	if declaringType == nil {
		return ""
	}
	return declaringType.FullName() + "::"
}

// validMemberName accepts a bare metadata name. Explicit interface names are
// dotted and each segment may carry an arity mangle. A single leading dot is
// allowed for constructor names such as ".ctor".
func validMemberName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("member name is empty")
	}
	for _, seg := range strings.Split(strings.TrimPrefix(name, "."), ".") {
		if bare, _ := SplitArity(seg); !ValidIdentifier(bare) {
			return fmt.Errorf("invalid member name %q", name)
		}
	}
	return nil
}

// MethodName is a resolved method, optionally generic or instantiated
type MethodName struct {
	declaringType *TypeName
	name          string
	arity         int
	arguments     []*TypeName
	parameters    []*ParameterName
	returnType    *TypeName
}

func (m *MethodName) symbolName() {}

// Kind returns KindGenericInstanceMethod for instantiated methods, KindMethod otherwise
func (m *MethodName) Kind() Kind {
	if len(m.arguments) > 0 {
		return KindGenericInstanceMethod
	}
	return KindMethod
}

// Name returns the bare method name without arity mangle
func (m *MethodName) Name() string { return m.name }

// DeclaringType returns the declaring type, nil for a context-free reference
func (m *MethodName) DeclaringType() *TypeName { return m.declaringType }

// GenericArity returns the number of method generic parameters
func (m *MethodName) GenericArity() int { return m.arity }

// GenericParameters returns the method generic parameters
func (m *MethodName) GenericParameters() []*TypeName {
	return methodGenericParameters(m.arity)
}

// GenericArguments returns the instantiation arguments
func (m *MethodName) GenericArguments() []*TypeName {
	return append([]*TypeName(nil), m.arguments...)
}

// Parameters returns the parameter list
func (m *MethodName) Parameters() []*ParameterName {
	return append([]*ParameterName(nil), m.parameters...)
}

// ReturnType returns the return type, nil when the reference did not name one
func (m *MethodName) ReturnType() *TypeName { return m.returnType }

// FullName renders "Return Declaring::Name``N<Args>(Params)"
func (m *MethodName) FullName() string {
	var b strings.Builder
	if m.returnType != nil {
		b.WriteString(m.returnType.FullName())
		b.WriteByte(' ')
	}
	b.WriteString(memberPrefix(m.declaringType))
	b.WriteString(m.name)
	if m.arity > 0 {
		b.WriteString("``")
		b.WriteString(strconv.Itoa(m.arity))
	}
	if len(m.arguments) > 0 {
		args := make([]string, len(m.arguments))
		for i, a := range m.arguments {
			args[i] = a.FullName()
		}
		b.WriteString("<" + strings.Join(args, ",") + ">")
	}
	b.WriteString("(" + joinParameters(m.parameters) + ")")
	return b.String()
}

func (m *MethodName) String() string { return m.FullName() }

func methodGenericParameters(arity int) []*TypeName {
	if arity <= 0 || arity > MaxGenericArity {
		return nil
	}
	params := make([]*TypeName, arity)
	for i := range params {
		params[i] = NewGenericParameter(i, true)
	}
	return params
}

// MethodBuilder assembles a MethodName. Generic arity must be set before
// parameters and return type are resolved, since those may refer to the method's
// generic parameters.
type MethodBuilder struct {
	m     MethodName
	built bool
}

// NewMethodBuilder starts a method with a bare (unmangled) name
func NewMethodBuilder(declaringType *TypeName, name string) *MethodBuilder {
	return &MethodBuilder{m: MethodName{declaringType: declaringType, name: name}}
}

// SetGenericArity records the number of method generic parameters
func (b *MethodBuilder) SetGenericArity(n int) *MethodBuilder {
	b.m.arity = n
	return b
}

// GenericParameters returns the generic parameters declared so far
func (b *MethodBuilder) GenericParameters() []*TypeName {
	return methodGenericParameters(b.m.arity)
}

// GenericArity returns the arity set by SetGenericArity
func (b *MethodBuilder) GenericArity() int {
	return b.m.arity
}

// DeclaringType returns the declaring type passed to NewMethodBuilder
func (b *MethodBuilder) DeclaringType() *TypeName {
	return b.m.declaringType
}

// SetParameters sets the parameter list
func (b *MethodBuilder) SetParameters(params []*ParameterName) *MethodBuilder {
	b.m.parameters = append([]*ParameterName(nil), params...)
	return b
}

// SetReturnType sets the return type
func (b *MethodBuilder) SetReturnType(t *TypeName) *MethodBuilder {
	b.m.returnType = t
	return b
}

// SetGenericArguments instantiates the method
func (b *MethodBuilder) SetGenericArguments(args []*TypeName) *MethodBuilder {
	b.m.arguments = append([]*TypeName(nil), args...)
	return b
}

// Build validates and returns the finished method. A builder can be built once.
func (b *MethodBuilder) Build() (*MethodName, error) {
	if b.built {
		return nil, fmt.Errorf("method builder already consumed")
	}
	if err := validMemberName(b.m.name); err != nil {
		return nil, err
	}
	if b.m.arity < 0 || b.m.arity > MaxGenericArity {
		return nil, fmt.Errorf("invalid generic arity %d", b.m.arity)
	}
	if len(b.m.arguments) > 0 && len(b.m.arguments) != b.m.arity {
		return nil, fmt.Errorf("method %s expects %d generic arguments, got %d", b.m.name, b.m.arity, len(b.m.arguments))
	}
	for i, a := range b.m.arguments {
		if a == nil {
			return nil, fmt.Errorf("generic argument %d of %s is nil", i, b.m.name)
		}
	}
	b.built = true
	m := b.m
	return &m, nil
}

// PropertyName is a resolved property; indexers carry parameters
type PropertyName struct {
	declaringType *TypeName
	name          string
	parameters    []*ParameterName
}

// NewPropertyName creates a property
func NewPropertyName(declaringType *TypeName, name string, params []*ParameterName) (*PropertyName, error) {
	if err := validMemberName(name); err != nil {
		return nil, err
	}
	return &PropertyName{
		declaringType: declaringType,
		name:          name,
		parameters:    append([]*ParameterName(nil), params...),
	}, nil
}

func (p *PropertyName) symbolName() {}

// Kind returns KindProperty
func (p *PropertyName) Kind() Kind { return KindProperty }

// Name returns the property name
func (p *PropertyName) Name() string { return p.name }

// DeclaringType returns the declaring type
func (p *PropertyName) DeclaringType() *TypeName { return p.declaringType }

// Parameters returns the indexer parameters
func (p *PropertyName) Parameters() []*ParameterName {
	return append([]*ParameterName(nil), p.parameters...)
}

// FullName renders "Declaring::Name" with "(Params)" for indexers
func (p *PropertyName) FullName() string {
	s := memberPrefix(p.declaringType) + p.name
	if len(p.parameters) > 0 {
		s += "(" + joinParameters(p.parameters) + ")"
	}
	return s
}

func (p *PropertyName) String() string { return p.FullName() }

// FieldName is a resolved field
type FieldName struct {
	declaringType *TypeName
	name          string
}

// NewFieldName creates a field
func NewFieldName(declaringType *TypeName, name string) (*FieldName, error) {
	if err := validMemberName(name); err != nil {
		return nil, err
	}
	return &FieldName{declaringType: declaringType, name: name}, nil
}

func (f *FieldName) symbolName() {}

// Kind returns KindField
func (f *FieldName) Kind() Kind { return KindField }

// Name returns the field name
func (f *FieldName) Name() string { return f.name }

// DeclaringType returns the declaring type
func (f *FieldName) DeclaringType() *TypeName { return f.declaringType }

// FullName renders "Declaring::Name"
func (f *FieldName) FullName() string { return memberPrefix(f.declaringType) + f.name }

func (f *FieldName) String() string { return f.FullName() }

// EventName is a resolved event
type EventName struct {
	declaringType *TypeName
	name          string
}

// NewEventName creates an event
func NewEventName(declaringType *TypeName, name string) (*EventName, error) {
	if err := validMemberName(name); err != nil {
		return nil, err
	}
	return &EventName{declaringType: declaringType, name: name}, nil
}

func (e *EventName) symbolName() {}

// Kind returns KindEvent
func (e *EventName) Kind() Kind { return KindEvent }

// Name returns the event name
func (e *EventName) Name() string { return e.name }

// DeclaringType returns the declaring type
func (e *EventName) DeclaringType() *TypeName { return e.declaringType }

// FullName renders "Declaring::Name"
func (e *EventName) FullName() string { return memberPrefix(e.declaringType) + e.name }

func (e *EventName) String() string { return e.FullName() }
