package coderef

import (
	"strings"

	"coderef/internal/symbolname"
)

const (
	opExplicit = "op_Explicit"
	opImplicit = "op_Implicit"
)

// parseBody resolves the text after the specifier for the given symbol type
func parseBody(st SymbolType, text string, ctx GenericNameContext, opts Options) (symbolname.Name, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	switch st {
	case SymbolTypeAssembly:
		a, err := symbolname.ParseAssemblyName(text)
		if err != nil {
			return nil, false
		}
		return a, true
	case SymbolTypeNamespace:
		n, err := symbolname.ParseNamespaceName(text)
		if err != nil {
			return nil, false
		}
		return n, true
	case SymbolTypeType:
		t, ok := parseTypeName(text, ctx)
		if !ok {
			return nil, false
		}
		return t, true
	case SymbolTypeField:
		f, ok := parseField(text, ctx)
		if !ok {
			return nil, false
		}
		return f, true
	case SymbolTypeEvent:
		e, ok := parseEvent(text, ctx)
		if !ok {
			return nil, false
		}
		return e, true
	case SymbolTypeProperty:
		p, ok := parseProperty(text, ctx)
		if !ok {
			return nil, false
		}
		return p, true
	case SymbolTypeMethod:
		m, ok := parseMethod(text, ctx, opts)
		if !ok {
			return nil, false
		}
		return m, true
	default:
		return nil, false
	}
}

// memberHead resolves the declaring type and metadata name shared by every
// member kind.
func memberHead(parts memberParts, ctx GenericNameContext) (*symbolname.TypeName, string, bool) {
	var decl *symbolname.TypeName
	if parts.declaringType != "" {
		t, ok := parseTypeName(parts.declaringType, ctx)
		if !ok {
			return nil, "", false
		}
		decl = t
	}
	name, ok := unmangleMemberName(parts.name)
	if !ok {
		return nil, "", false
	}
	return decl, name, true
}

// scopedContext is the context for a member's own signature: the declaring
// type when there is one, otherwise whatever type the caller supplied.
func scopedContext(method GenericParameterSource, decl *symbolname.TypeName, ctx GenericNameContext) GenericNameContext {
	if decl == nil {
		decl = ctx.Type()
	}
	if method == nil {
		method = ctx.Method()
	}
	return NewGenericNameContext(method, decl)
}

func parseField(text string, ctx GenericNameContext) (*symbolname.FieldName, bool) {
	parts, ok := splitMember(text)
	if !ok || parts.hasParameters {
		return nil, false
	}
	decl, name, ok := memberHead(parts, ctx)
	if !ok {
		return nil, false
	}
	f, err := symbolname.NewFieldName(decl, name)
	return f, err == nil
}

func parseEvent(text string, ctx GenericNameContext) (*symbolname.EventName, bool) {
	parts, ok := splitMember(text)
	if !ok || parts.hasParameters {
		return nil, false
	}
	decl, name, ok := memberHead(parts, ctx)
	if !ok {
		return nil, false
	}
	e, err := symbolname.NewEventName(decl, name)
	return e, err == nil
}

func parseProperty(text string, ctx GenericNameContext) (*symbolname.PropertyName, bool) {
	parts, ok := splitMember(text)
	if !ok {
		return nil, false
	}
	decl, name, ok := memberHead(parts, ctx)
	if !ok {
		return nil, false
	}
	slots, ok := splitParameters(parts.parameters, scopedContext(nil, decl, ctx))
	if !ok {
		return nil, false
	}
	params, ok := resolveParameters(slots)
	if !ok {
		return nil, false
	}
	p, err := symbolname.NewPropertyName(decl, name, params)
	return p, err == nil
}

func parseMethod(text string, ctx GenericNameContext, opts Options) (*symbolname.MethodName, bool) {
	text = strings.TrimSpace(text)

	var returnText string
	hasReturn := false
	if tilde := strings.LastIndexByte(text, '~'); tilde >= 0 {
		returnText = strings.TrimSpace(text[tilde+1:])
		text = strings.TrimSpace(text[:tilde])
		if returnText == "" || strings.ContainsRune(text, '~') {
			return nil, false
		}
		hasReturn = true
	}

	parts, ok := splitMember(text)
	if !ok {
		return nil, false
	}

	rawName, argText, instantiated := splitMethodInstance(parts.name)
	parts.name = rawName
	decl, name, ok := memberHead(parts, ctx)
	if !ok {
		return nil, false
	}
	name, arity := symbolname.SplitArity(name)

	b := symbolname.NewMethodBuilder(decl, name).SetGenericArity(arity)
	mctx := scopedContext(b, decl, ctx)

	paramText := parts.parameters
	if !hasReturn && opts.LegacyOperatorSyntax && parts.hasParameters && (name == opExplicit || name == opImplicit) {
		if p, r, ok := splitConversionOperator(paramText); ok {
			paramText, returnText, hasReturn = p, r, true
		}
	}

	if instantiated {
		args, ok := parseTypeList(argText, mctx)
		if !ok {
			return nil, false
		}
		b.SetGenericArguments(args)
	}

	slots, ok := splitParameters(paramText, mctx)
	if !ok {
		return nil, false
	}
	params, ok := resolveParameters(slots)
	if !ok {
		return nil, false
	}
	b.SetParameters(params)

	if hasReturn {
		rt, ok := parseTypeName(returnText, mctx)
		if !ok {
			return nil, false
		}
		b.SetReturnType(rt)
	}

	m, err := b.Build()
	return m, err == nil
}

// parseTypeList parses a comma separated list of types, none of which may be blank
func parseTypeList(text string, ctx GenericNameContext) ([]*symbolname.TypeName, bool) {
	segments, ok := splitOutside(text, ',')
	if !ok {
		return nil, false
	}
	types := make([]*symbolname.TypeName, 0, len(segments))
	for _, seg := range segments {
		t, ok := parseTypeName(seg, ctx)
		if !ok {
			return nil, false
		}
		types = append(types, t)
	}
	return types, true
}
