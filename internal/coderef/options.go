package coderef

// Options tune parsing behavior
type Options struct {
	// LegacyOperatorSyntax accepts "M:T.op_Explicit(T to System.Int32)" as a
	// spelling of "M:T.op_Explicit(T)~System.Int32". Only op_Explicit and
	// op_Implicit without a "~" return type are affected.
	LegacyOperatorSyntax bool
}

// DefaultOptions returns the options used by Parse, TryParse and Create
func DefaultOptions() Options {
	return Options{LegacyOperatorSyntax: true}
}
