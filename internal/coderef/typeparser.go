package coderef

import "coderef/internal/symbolname"

// typeParser is a recursive-descent parser over the token stream of a single
// type reference. Every failure surfaces as a nil result; callers turn that
// into an invalid reference.
type typeParser struct {
	tokens []token
	pos    int
	ctx    GenericNameContext
}

// parseTypeName parses text as a complete type reference
func parseTypeName(text string, ctx GenericNameContext) (*symbolname.TypeName, bool) {
	p := &typeParser{tokens: tokenize(text), ctx: ctx}
	t := p.parseType()
	if t == nil || p.peek().kind != tokenEOF {
		return nil, false
	}
	return t, true
}

func (p *typeParser) peek() token {
	return p.peekAt(0)
}

func (p *typeParser) peekAt(offset int) token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *typeParser) next() token {
	t := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *typeParser) parseType() *symbolname.TypeName {
	tok := p.next()
	var t *symbolname.TypeName
	switch tok.kind {
	case tokenMangle:
		param, ok := p.ctx.typeParameter(tok.value)
		if !ok {
			return nil
		}
		t = param
	case tokenMethodMangle:
		param, ok := p.ctx.methodParameter(tok.value)
		if !ok {
			return nil
		}
		t = param
	case tokenIdentifier:
		name := tok.text
		for p.peek().kind == tokenDot && p.peekAt(1).kind == tokenIdentifier {
			p.next()
			name += "." + p.next().text
		}
		root, err := symbolname.NewTypeName(name)
		if err != nil {
			return nil
		}
		t = root
	default:
		return nil
	}
	return p.parseSpecifiers(t)
}

// parseSpecifiers applies the suffixes that follow a type: generic arity,
// generic arguments, array, by-reference, pointer and nested type.
func (p *typeParser) parseSpecifiers(t *symbolname.TypeName) *symbolname.TypeName {
	var err error
	for {
		switch p.peek().kind {
		case tokenMangle:
			t, err = t.WithGenericArity(p.next().value)
		case tokenOpenBrace:
			p.next()
			t, err = p.parseArguments(t)
		case tokenOpenBracket:
			p.next()
			if p.next().kind != tokenCloseBracket {
				return nil
			}
			t, err = t.MakeArrayType(1)
		case tokenAt:
			p.next()
			t = t.MakeByReferenceType()
		case tokenStar:
			p.next()
			t = t.MakePointerType()
		case tokenDot:
			p.next()
			id := p.next()
			if id.kind != tokenIdentifier {
				return nil
			}
			t, err = t.NestedType(id.text)
		default:
			return t
		}
		if err != nil {
			return nil
		}
	}
}

// parseArguments reads "A,B}" after an opening brace and instantiates def.
// A type without an explicit arity takes it from the argument count.
func (p *typeParser) parseArguments(def *symbolname.TypeName) (*symbolname.TypeName, error) {
	var args []*symbolname.TypeName
	for {
		arg := p.parseType()
		if arg == nil {
			return nil, errUnexpectedToken
		}
		args = append(args, arg)
		switch p.next().kind {
		case tokenComma:
			continue
		case tokenCloseBrace:
		default:
			return nil, errUnexpectedToken
		}
		break
	}
	if def.Kind() == symbolname.KindType && def.GenericArity() == 0 {
		var err error
		if def, err = def.WithGenericArity(len(args)); err != nil {
			return nil, err
		}
	}
	return def.MakeGenericInstance(args)
}
