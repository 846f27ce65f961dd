package symbolname

import "strconv"

// MaxGenericArity is the largest generic arity or generic parameter position
// metadata can encode.
const MaxGenericArity = 65535

// SplitArity strips a trailing generic arity mangle ("`N" or "``N") from raw and
// returns the bare name with the arity. Names without a mangle have arity 0, as
// do names whose mangle is zero, has a leading zero or exceeds
// MaxGenericArity; those keep the mangle in the returned name.
func SplitArity(raw string) (string, int) {
	end := len(raw)
	start := end
	for start > 0 && raw[start-1] >= '0' && raw[start-1] <= '9' {
		start--
	}
	if start == end || start == 0 || raw[start-1] != '`' || raw[start] == '0' {
		return raw, 0
	}
	n, err := strconv.Atoi(raw[start:end])
	if err != nil || n > MaxGenericArity {
		return raw, 0
	}
	cut := start - 1
	if cut > 0 && raw[cut-1] == '`' {
		cut--
	}
	return raw[:cut], n
}

// mangled appends the type arity mangle to a bare name
func mangled(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return name + "`" + strconv.Itoa(arity)
}
