package coderef

// bracketReader walks text a byte at a time while tracking which (), [], {}
// and <> pairs it is inside. Member and parameter splitting use it to find
// separators that are not inside a nested type. A closer that does not match
// the innermost opener marks the text unbalanced.
type bracketReader struct {
	text     string
	pos      int
	open     []byte
	balanced bool
}

func newBracketReader(text string) *bracketReader {
	return &bracketReader{text: text, balanced: true}
}

func (r *bracketReader) done() bool {
	return r.pos >= len(r.text)
}

func (r *bracketReader) peek() byte {
	if r.done() {
		return 0
	}
	return r.text[r.pos]
}

func (r *bracketReader) depth() int {
	return len(r.open)
}

// read consumes one byte and reports the depth it was read at. Openers are
// reported at the outer depth, closers at the outer depth after closing.
func (r *bracketReader) read() (byte, int) {
	c := r.text[r.pos]
	r.pos++
	switch c {
	case '(', '[', '{', '<':
		d := r.depth()
		r.open = append(r.open, c)
		return c, d
	case ')', ']', '}', '>':
		n := len(r.open)
		if n == 0 {
			r.balanced = false
			return c, 0
		}
		if r.open[n-1] != openerFor(c) {
			r.balanced = false
		}
		r.open = r.open[:n-1]
		return c, r.depth()
	}
	return c, r.depth()
}

// ok reports whether every opener seen so far was closed by its own closer
func (r *bracketReader) ok() bool {
	return r.balanced && r.depth() == 0
}

func openerFor(close byte) byte {
	switch close {
	case ')':
		return '('
	case ']':
		return '['
	case '}':
		return '{'
	case '>':
		return '<'
	}
	return 0
}

// lastIndexOutside returns the index of the last sep at depth zero, or -1.
// ok is false when the brackets in text do not balance.
func lastIndexOutside(text string, sep byte) (index int, ok bool) {
	index = -1
	r := newBracketReader(text)
	for !r.done() {
		at := r.pos
		c, depth := r.read()
		if c == sep && depth == 0 {
			index = at
		}
	}
	return index, r.ok()
}

// splitOutside splits text on sep at depth zero
func splitOutside(text string, sep byte) ([]string, bool) {
	var parts []string
	r := newBracketReader(text)
	start := 0
	for !r.done() {
		at := r.pos
		c, depth := r.read()
		if c == sep && depth == 0 {
			parts = append(parts, text[start:at])
			start = at + 1
		}
	}
	parts = append(parts, text[start:])
	return parts, r.ok()
}

// matchingOpen returns the index of the opener matching the closer that ends
// text, or -1 when text does not end in a balanced group.
func matchingOpen(text string, open, close byte) int {
	if len(text) == 0 || text[len(text)-1] != close {
		return -1
	}
	depth := 0
	for i := len(text) - 1; i >= 0; i-- {
		switch text[i] {
		case close:
			depth++
		case open:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
