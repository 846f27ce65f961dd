package coderef

import "coderef/internal/symbolname"

// GenericParameterSource is anything that declares method generic
// parameters. Both *symbolname.MethodName and *symbolname.MethodBuilder
// satisfy it, so a method that is still being parsed can serve as context for
// its own parameter types.
type GenericParameterSource interface {
	GenericArity() int
}

// GenericNameContext resolves `N and ``N back-references while parsing. The
// type supplies `N, the method supplies ``N. Either may be absent.
type GenericNameContext struct {
	method GenericParameterSource
	typ    *symbolname.TypeName
}

// EmptyContext resolves nothing
var EmptyContext = GenericNameContext{}

// NewGenericNameContext builds a context from an optional method and type.
// A typed nil method counts as absent.
func NewGenericNameContext(method GenericParameterSource, typ *symbolname.TypeName) GenericNameContext {
	if isNilSource(method) {
		method = nil
	}
	return GenericNameContext{method: method, typ: typ}
}

func isNilSource(method GenericParameterSource) bool {
	switch m := method.(type) {
	case nil:
		return true
	case *symbolname.MethodName:
		return m == nil
	case *symbolname.MethodBuilder:
		return m == nil
	}
	return false
}

// NewMethodContext uses the method's parameters for ``N and its declaring
// type's for `N.
func NewMethodContext(method *symbolname.MethodName) GenericNameContext {
	if method == nil {
		return EmptyContext
	}
	return GenericNameContext{method: method, typ: method.DeclaringType()}
}

// NewTypeContext resolves `N against typ
func NewTypeContext(typ *symbolname.TypeName) GenericNameContext {
	return GenericNameContext{typ: typ}
}

// Method returns the method that resolves ``N, nil when there is none
func (c GenericNameContext) Method() GenericParameterSource { return c.method }

// Type returns the type that resolves `N, nil when there is none
func (c GenericNameContext) Type() *symbolname.TypeName { return c.typ }

// IsEmpty reports whether the context can resolve neither kind of reference
func (c GenericNameContext) IsEmpty() bool {
	return c.method == nil && c.typ == nil
}

// typeParameter resolves `position by bound alone; the parameter list is
// never built.
func (c GenericNameContext) typeParameter(position int) (*symbolname.TypeName, bool) {
	if c.typ == nil || position < 0 || position >= c.typ.GenericParameterCount() {
		return nil, false
	}
	return symbolname.NewGenericParameter(position, false), true
}

func (c GenericNameContext) methodParameter(position int) (*symbolname.TypeName, bool) {
	if c.method == nil || position < 0 || position >= c.method.GenericArity() {
		return nil, false
	}
	return symbolname.NewGenericParameter(position, true), true
}
