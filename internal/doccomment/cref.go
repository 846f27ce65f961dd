// Package doccomment finds cref attributes in C# documentation comments and
// compiled XML documentation files and resolves them as code references.
package doccomment

import (
	"html"
	"strings"
)

// Cref is a cref attribute value with its 1-based position
type Cref struct {
	Value  string
	Line   int
	Column int
}

// ExtractCrefs returns every cref="..." or cref='...' value in text. Lines and
// columns are relative to the start of text; columns count bytes and point at
// the first character of the value. Entity escapes in values are decoded.
func ExtractCrefs(text string) []Cref {
	var crefs []Cref
	line, lineStart := 1, 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			line++
			lineStart = i + 1
			continue
		}
		if !hasAttrAt(text, i, "cref") {
			continue
		}
		j := i + len("cref")
		for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
			j++
		}
		if j >= len(text) || text[j] != '=' {
			continue
		}
		j++
		for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
			j++
		}
		if j >= len(text) || (text[j] != '"' && text[j] != '\'') {
			continue
		}
		quote := text[j]
		start := j + 1
		end := strings.IndexByte(text[start:], quote)
		if end < 0 {
			break
		}
		raw := text[start : start+end]
		if strings.ContainsAny(raw, "\r\n") {
			continue
		}
		crefs = append(crefs, Cref{
			Value:  html.UnescapeString(raw),
			Line:   line,
			Column: start - lineStart + 1,
		})
		i = start + end
	}
	return crefs
}

// hasAttrAt reports whether name starts at text[i] as a whole attribute name.
func hasAttrAt(text string, i int, name string) bool {
	if !strings.HasPrefix(text[i:], name) {
		return false
	}
	if i > 0 && isNameByte(text[i-1]) {
		return false
	}
	next := i + len(name)
	return next >= len(text) || !isNameByte(text[next])
}

func isNameByte(c byte) bool {
	return c == '_' || c == '-' || c == ':' || c == '.' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// IsDocComment reports whether a C# comment is a documentation comment
func IsDocComment(comment string) bool {
	if strings.HasPrefix(comment, "///") {
		return !strings.HasPrefix(comment, "////")
	}
	return strings.HasPrefix(comment, "/**") && !strings.HasPrefix(comment, "/**/")
}

// Comment is a comment in a source file, positioned at its first byte
type Comment struct {
	Text   string
	Line   int
	Column int
}

// lineComments finds doc comments without a syntax tree. It is used when
// tree-sitter is not compiled in. Only comments that start a line are seen:
// "///" lines, and "/** */" blocks which may run over several lines. An
// unterminated block is dropped.
func lineComments(source []byte) []Comment {
	var comments []Comment
	text := string(source)
	lineNo, offset := 0, 0
	for offset < len(text) {
		lineNo++
		line := text[offset:]
		next := len(text)
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
			next = offset + i + 1
		}
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimLeft(line, " \t")
		indent := len(line) - len(trimmed)

		switch {
		case strings.HasPrefix(trimmed, "/**"):
			start := offset + indent
			end := strings.Index(text[start+2:], "*/")
			if end < 0 {
				return comments
			}
			block := text[start : start+2+end+2]
			if IsDocComment(block) {
				comments = append(comments, Comment{Text: block, Line: lineNo, Column: indent + 1})
			}
			consumed := start + len(block)
			lineNo += strings.Count(block, "\n")
			if nl := strings.IndexByte(text[consumed:], '\n'); nl >= 0 {
				next = consumed + nl + 1
			} else {
				next = len(text)
			}
		case IsDocComment(trimmed):
			comments = append(comments, Comment{Text: trimmed, Line: lineNo, Column: indent + 1})
		}
		offset = next
	}
	return comments
}

// commentCrefs maps crefs inside a comment to file positions
func commentCrefs(c Comment) []Cref {
	crefs := ExtractCrefs(c.Text)
	for i := range crefs {
		if crefs[i].Line == 1 {
			crefs[i].Column += c.Column - 1
		}
		crefs[i].Line += c.Line - 1
	}
	return crefs
}
