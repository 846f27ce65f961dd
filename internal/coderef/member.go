package coderef

import (
	"strconv"
	"strings"
)

// memberParts is a member reference body cut into its pieces. Nothing in it
// has been resolved yet.
type memberParts struct {
	declaringType string
	name          string
	parameters    string
	hasParameters bool
}

// splitMember cuts "Decl.Name(params)" at the last '(' and then at the last
// '.' outside any brackets. The declaring type is empty when the name has no
// qualifier.
func splitMember(text string) (memberParts, bool) {
	var parts memberParts
	text = strings.TrimSpace(text)

	if open := strings.LastIndexByte(text, '('); open >= 0 {
		if !strings.HasSuffix(text, ")") {
			return parts, false
		}
		parts.parameters = text[open+1 : len(text)-1]
		parts.hasParameters = true
		text = strings.TrimSpace(text[:open])
		if strings.ContainsAny(parts.parameters, "()") {
			return parts, false
		}
	} else if strings.ContainsRune(text, ')') {
		return parts, false
	}

	dot, ok := lastIndexOutside(text, '.')
	if !ok {
		return parts, false
	}
	if dot < 0 {
		parts.name = text
	} else {
		parts.declaringType = strings.TrimSpace(text[:dot])
		parts.name = strings.TrimSpace(text[dot+1:])
		if parts.declaringType == "" {
			return parts, false
		}
	}
	return parts, parts.name != ""
}

// splitMethodInstance separates "Name``N{A,B}" into "Name``N" and "A,B". The
// braces only count as generic arguments when a method arity mangle precedes
// them; otherwise they belong to an explicit interface name.
func splitMethodInstance(name string) (string, string, bool) {
	open := matchingOpen(name, '{', '}')
	if open <= 0 {
		return name, "", false
	}
	head := name[:open]
	digits := len(head)
	for digits > 0 && head[digits-1] >= '0' && head[digits-1] <= '9' {
		digits--
	}
	if digits == len(head) || !strings.HasSuffix(head[:digits], "``") {
		return name, "", false
	}
	return head, name[open+1 : len(name)-1], true
}

// unmangleMemberName turns the documentation spelling of an explicit
// interface implementation back into its metadata name:
// "System#Collections#Generic#IEnumerable{T}#GetEnumerator" becomes
// "System.Collections.Generic.IEnumerable`1.GetEnumerator". Each brace group
// counts its '@'-separated parameters and must follow a plain identifier.
func unmangleMemberName(name string) (string, bool) {
	if !strings.ContainsAny(name, "#{}") {
		return name, true
	}
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		switch c := name[i]; c {
		case '#':
			b.WriteByte('.')
		case '{':
			if !braceFollowsIdentifier(b.String()) {
				return "", false
			}
			end := strings.IndexByte(name[i:], '}')
			if end < 0 {
				return "", false
			}
			group := name[i+1 : i+end]
			if !validPlaceholderGroup(group) {
				return "", false
			}
			b.WriteByte('`')
			b.WriteString(strconv.Itoa(strings.Count(group, "@") + 1))
			i += end
		case '}':
			return "", false
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), true
}

// braceFollowsIdentifier reports whether a brace group may start after head.
// A group after an arity mangle or another group would stack two arities on
// one name.
func braceFollowsIdentifier(head string) bool {
	end := len(head)
	digits := end
	for digits > 0 && head[digits-1] >= '0' && head[digits-1] <= '9' {
		digits--
	}
	if digits == 0 {
		return false
	}
	switch head[digits-1] {
	case '`':
		return false
	case '.':
		return digits < end
	}
	return true
}

func validPlaceholderGroup(group string) bool {
	for _, entry := range strings.Split(group, "@") {
		if entry == "" || strings.ContainsAny(entry, ".,`{}[]()<>*~: \t") {
			return false
		}
	}
	return true
}

// mangleMemberName is the inverse of unmangleMemberName. Dots become '#' and
// a `N arity mangle becomes a brace group of N placeholder names.
func mangleMemberName(name string) string {
	if !strings.ContainsAny(name, ".`") {
		return name
	}
	var b strings.Builder
	b.Grow(len(name) + 8)
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '.':
			b.WriteByte('#')
		case c == '`' && i+1 < len(name) && name[i+1] == '`':
			b.WriteString("``")
			i++
		case c == '`':
			j := i + 1
			for j < len(name) && name[j] >= '0' && name[j] <= '9' {
				j++
			}
			n, err := strconv.Atoi(name[i+1 : j])
			if err != nil || n <= 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString(placeholderGroup(n))
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func placeholderGroup(n int) string {
	if n == 1 {
		return "{T}"
	}
	names := make([]string, n)
	for i := range names {
		names[i] = "T" + strconv.Itoa(i+1)
	}
	return "{" + strings.Join(names, "@") + "}"
}
