package coderef

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"coderef/internal/symbolname"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenInvalid
	tokenIdentifier
	tokenDot
	tokenComma
	tokenMangle       // `N, a type generic parameter or arity
	tokenMethodMangle // ``N, a method generic parameter
	tokenOpenBrace
	tokenCloseBrace
	tokenOpenBracket
	tokenCloseBracket
	tokenAt
	tokenStar
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "EOF"
	case tokenInvalid:
		return "invalid"
	case tokenIdentifier:
		return "identifier"
	case tokenDot:
		return "'.'"
	case tokenComma:
		return "','"
	case tokenMangle:
		return "'`N'"
	case tokenMethodMangle:
		return "'``N'"
	case tokenOpenBrace:
		return "'{'"
	case tokenCloseBrace:
		return "'}'"
	case tokenOpenBracket:
		return "'['"
	case tokenCloseBracket:
		return "']'"
	case tokenAt:
		return "'@'"
	case tokenStar:
		return "'*'"
	default:
		return "token(" + strconv.Itoa(int(k)) + ")"
	}
}

type token struct {
	kind  tokenKind
	text  string
	value int // mangle number
	pos   int
}

// identifierBreaks are the characters that end an identifier. The ones
// without a token of their own lex as tokenInvalid.
const identifierBreaks = ".,`{}[]()<>@*~:#"

type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func (l *lexer) next() token {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokenEOF, pos: start}
	}

	single := func(k tokenKind) token {
		l.pos++
		return token{kind: k, text: l.src[start:l.pos], pos: start}
	}

	switch l.src[l.pos] {
	case '.':
		return single(tokenDot)
	case ',':
		return single(tokenComma)
	case '{':
		return single(tokenOpenBrace)
	case '}':
		return single(tokenCloseBrace)
	case '[':
		return single(tokenOpenBracket)
	case ']':
		return single(tokenCloseBracket)
	case '@':
		return single(tokenAt)
	case '*':
		return single(tokenStar)
	case '`':
		return l.mangle()
	}

	if strings.IndexByte(identifierBreaks, l.src[l.pos]) >= 0 {
		return single(tokenInvalid)
	}

	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if unicode.IsSpace(r) || (r < utf8.RuneSelf && strings.IndexByte(identifierBreaks, byte(r)) >= 0) {
			break
		}
		l.pos += size
	}
	return token{kind: tokenIdentifier, text: l.src[start:l.pos], pos: start}
}

func (l *lexer) mangle() token {
	start := l.pos
	kind := tokenMangle
	l.pos++
	if l.pos < len(l.src) && l.src[l.pos] == '`' {
		kind = tokenMethodMangle
		l.pos++
	}
	digits := l.pos
	for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
		l.pos++
	}
	if l.pos == digits {
		return token{kind: tokenInvalid, text: l.src[start:l.pos], pos: start}
	}
	n, err := strconv.Atoi(l.src[digits:l.pos])
	if err != nil || n > symbolname.MaxGenericArity {
		return token{kind: tokenInvalid, text: l.src[start:l.pos], pos: start}
	}
	return token{kind: kind, text: l.src[start:l.pos], value: n, pos: start}
}

// tokenize lexes src completely. The result always ends with a tokenEOF or a
// tokenInvalid.
func tokenize(src string) []token {
	l := newLexer(src)
	var tokens []token
	for {
		t := l.next()
		tokens = append(tokens, t)
		if t.kind == tokenEOF || t.kind == tokenInvalid {
			return tokens
		}
	}
}
