package coderef

import (
	"encoding/json"
	"testing"

	"coderef/internal/errors"
	"coderef/internal/symbolname"
)

var canonicalReferences = []string{
	"T:System.Int32",
	"T:System.Int32[]",
	"T:System.Int32@",
	"T:System.Int32*",
	"T:System.Int32[][]",
	"T:Foo.Bar`1",
	"T:System.Collections.Generic.List{System.Int32}",
	"T:System.Collections.Generic.Dictionary{System.String,System.Collections.Generic.List{System.Int32[]}}",
	"T:Outer`1.Inner",
	"T:Outer{System.Int32}.Inner{System.String}",
	"M:Foo.Bar.Baz",
	"M:Foo.Bar.Baz(System.String,System.Int32)~System.Boolean",
	"M:Foo.Bar.Convert``1(``0)~``0",
	"M:Foo.Bar`1.Baz(`0,System.Collections.Generic.IEnumerable{`0})",
	"M:Foo.Bar.Baz``1{System.Int32}(``0)",
	"M:Foo.Bar.Baz(System.Int32@,System.Int32*,System.Int32[])",
	"M:Foo.Bar.Baz(,)",
	"M:Foo.System#Collections#Generic#IEnumerable{T}#GetEnumerator~System.Collections.Generic.IEnumerator{System.Object}",
	"M:Foo.System#Collections#Generic#IDictionary{T1@T2}#Add(System.String,System.Int32)",
	"M:Global",
	"P:Foo.Bar.Name",
	"P:Foo.Bar.Item(System.Int32)",
	"P:Foo.Bar`1.Item(`0,System.String)",
	"F:Foo.Bar.count",
	"F:Foo.Bar{System.Int32}.count",
	"E:Foo.Bar.Changed",
	"N:System.Collections.Generic",
	"A:mscorlib",
	"A:mscorlib, Version=4.0.0.0, Culture=neutral",
}

func TestRoundTrip(t *testing.T) {
	for _, s := range canonicalReferences {
		t.Run(s, func(t *testing.T) {
			ref, err := Parse(s)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", s, err)
			}
			if !ref.IsValid() {
				t.Fatalf("Parse(%q) state = %v, want valid", s, ref.State())
			}
			if got := ref.String(); got != s {
				t.Errorf("String() = %q, want %q", got, s)
			}
			if ref.OriginalString() != s {
				t.Errorf("OriginalString() = %q, want %q", ref.OriginalString(), s)
			}
		})
	}
}

func TestIdempotence(t *testing.T) {
	inputs := []string{
		"T:Foo.Bar`1{System.String}",
		"T: System . Int32 [ ]",
		"M:Foo.Bar( System.String , System.Int32 ) ~ System.Boolean",
		"M:Foo.Bar()",
		"M:Foo.op_Explicit(Foo to System.Int32)",
		"M:Foo.Baz`1(``0)",
		"P:Foo.Item( System.Int32 )",
		"A:mscorlib,Version=4.0.0.0",
	}
	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			first, err := Parse(s)
			if err != nil || !first.IsValid() {
				t.Fatalf("Parse(%q) = %v, %v", s, first.State(), err)
			}
			second, err := Parse(first.String())
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", first.String(), err)
			}
			if !second.Equal(first) {
				t.Errorf("Parse(%q) = %q, not equal to %q", first.String(), second.String(), first.String())
			}
			if second.Hash() != first.Hash() {
				t.Errorf("Hash mismatch for %q", s)
			}
			if second.String() != first.String() {
				t.Errorf("String() not stable: %q then %q", first.String(), second.String())
			}
		})
	}
}

// mutations returns every single-byte deletion, duplication and adjacent
// swap of s, plus s with each of the bracket and mangle characters inserted
// at every position.
func mutations(s string) []string {
	const inserts = "{}[]()<>`@#.,~"
	var out []string
	for i := 0; i < len(s); i++ {
		out = append(out, s[:i]+s[i+1:])
		out = append(out, s[:i+1]+s[i:])
		if i+1 < len(s) {
			out = append(out, s[:i]+string(s[i+1])+string(s[i])+s[i+2:])
		}
	}
	for i := 0; i <= len(s); i++ {
		for j := 0; j < len(inserts); j++ {
			out = append(out, s[:i]+string(inserts[j])+s[i:])
		}
	}
	return out
}

func TestIdempotenceUnderMutation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mutation sweep in short mode")
	}
	accepted := 0
	for _, seed := range canonicalReferences {
		for _, s := range mutations(seed) {
			first, ok := TryParse(s)
			if !ok {
				continue
			}
			accepted++
			second, ok := TryParse(first.String())
			if !ok {
				t.Errorf("%q formats as %q, which does not parse", s, first.String())
				continue
			}
			if !second.Equal(first) || second.Hash() != first.Hash() {
				t.Errorf("%q formats as %q, which parses to a different name %q", s, first.String(), second.String())
			}
			if second.String() != first.String() {
				t.Errorf("%q: String() not stable: %q then %q", s, first.String(), second.String())
			}
		}
	}
	if accepted == 0 {
		t.Fatal("no mutation was accepted")
	}
}

func TestLargeArityStaysCheap(t *testing.T) {
	const s = "M:Foo`65535.Bar``65535(`65534,``65534)"
	ref, ok := TryParse(s)
	if !ok {
		t.Fatalf("TryParse(%q) = %v, want valid", s, ref.State())
	}
	if ref.String() != s {
		t.Errorf("String() = %q, want %q", ref.String(), s)
	}

	inputs := []string{
		s,
		"M:Foo.Bar``30000000(``0)",
		"M:Foo`30000000.Bar(`0)",
		"P:Foo`30000000.Item(`0)",
		"T:Outer`65535.Inner`65535{`0}",
	}
	for _, input := range inputs {
		allocs := testing.AllocsPerRun(5, func() {
			TryParse(input)
		})
		if allocs > 2000 {
			t.Errorf("TryParse(%q) made %.0f allocations", input, allocs)
		}
	}
}

func TestCanonicalForms(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"T:Foo.Bar`1{System.String}", "T:Foo.Bar{System.String}"},
		{"M:Foo.Bar()", "M:Foo.Bar"},
		{"M:Foo.op_Explicit(Foo to System.Int32)", "M:Foo.op_Explicit(Foo)~System.Int32"},
		{"M:Foo.op_Implicit(Foo{System.String} to Bar)", "M:Foo.op_Implicit(Foo{System.String})~Bar"},
		{"M:Foo.Baz`1(``0)", "M:Foo.Baz``1(``0)"},
		{"P:Foo.Item( System.Int32 )", "P:Foo.Item(System.Int32)"},
		{"A:mscorlib,Version=4.0.0.0", "A:mscorlib, Version=4.0.0.0"},
		{"N: System.IO ", "N:System.IO"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := Parse(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got := ref.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpecifierTotality(t *testing.T) {
	for c := 0; c < 128; c++ {
		text := string(rune(c)) + ":x"
		ref, ok := TryParse(text)
		_, known := SymbolTypeFromSpecifier(byte(c))
		if known {
			if !ok || !ref.IsValid() {
				t.Errorf("TryParse(%q) = %v, want valid", text, ref.State())
			}
			continue
		}
		if ok || ref.IsValid() {
			t.Errorf("TryParse(%q) = valid, want invalid or unspecified", text)
		}
	}
}

func TestKindSelection(t *testing.T) {
	ref, err := Parse("T:System.Collections.Generic.List{System.Int32}")
	if err != nil {
		t.Fatal(err)
	}
	if ref.SymbolType() != SymbolTypeType {
		t.Errorf("SymbolType() = %v, want Type", ref.SymbolType())
	}
	typ, ok := ref.MetadataName().(*symbolname.TypeName)
	if !ok {
		t.Fatalf("MetadataName() = %T, want *symbolname.TypeName", ref.MetadataName())
	}
	if typ.GenericArity() != 1 {
		t.Errorf("GenericArity() = %d, want 1", typ.GenericArity())
	}
	if ref.Canonical() != "System.Collections.Generic.List{System.Int32}" {
		t.Errorf("Canonical() = %q", ref.Canonical())
	}
}

func TestMethodWithParametersAndReturnType(t *testing.T) {
	const s = "M:Foo.Bar.Baz(System.String,System.Int32)~System.Boolean"
	ref, err := Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := ref.MetadataName().(*symbolname.MethodName)
	if !ok {
		t.Fatalf("MetadataName() = %T, want *symbolname.MethodName", ref.MetadataName())
	}
	if len(m.Parameters()) != 2 {
		t.Errorf("len(Parameters()) = %d, want 2", len(m.Parameters()))
	}
	if m.ReturnType() == nil || m.ReturnType().FullName() != "System.Boolean" {
		t.Errorf("ReturnType() = %v, want System.Boolean", m.ReturnType())
	}
	if m.DeclaringType().FullName() != "Foo.Bar" {
		t.Errorf("DeclaringType() = %v, want Foo.Bar", m.DeclaringType())
	}
	if ref.String() != s {
		t.Errorf("String() = %q, want %q", ref.String(), s)
	}
}

func TestGenericDefinitionAndInstance(t *testing.T) {
	closed, _ := Parse("T:Foo.Bar`1{System.String}")
	typ := closed.MetadataName().(*symbolname.TypeName)
	if typ.Kind() != symbolname.KindGenericInstanceType || len(typ.GenericArguments()) != 1 || typ.GenericArity() != 1 {
		t.Errorf("closed = %v (%v), args %d, arity %d", typ, typ.Kind(), len(typ.GenericArguments()), typ.GenericArity())
	}

	open, _ := Parse("T:Foo.Bar`1")
	typ = open.MetadataName().(*symbolname.TypeName)
	if !typ.IsGenericDefinition() || len(typ.GenericArguments()) != 0 || typ.GenericArity() != 1 {
		t.Errorf("open = %v, definition %v, args %d", typ, typ.IsGenericDefinition(), len(typ.GenericArguments()))
	}
}

func TestConstructedTypes(t *testing.T) {
	tests := []struct {
		input string
		kind  symbolname.Kind
	}{
		{"T:System.Int32[]", symbolname.KindArrayType},
		{"T:System.Int32@", symbolname.KindByReferenceType},
		{"T:System.Int32*", symbolname.KindPointerType},
	}
	for _, tt := range tests {
		ref, err := Parse(tt.input)
		if err != nil {
			t.Fatal(err)
		}
		typ := ref.MetadataName().(*symbolname.TypeName)
		if typ.Kind() != tt.kind {
			t.Errorf("%s: Kind() = %v, want %v", tt.input, typ.Kind(), tt.kind)
		}
		if typ.ElementType().FullName() != "System.Int32" {
			t.Errorf("%s: ElementType() = %v", tt.input, typ.ElementType())
		}
		if ref.String() != tt.input {
			t.Errorf("String() = %q, want %q", ref.String(), tt.input)
		}
	}
}

func TestInvalidReferences(t *testing.T) {
	tests := []struct {
		input string
		kind  SymbolType
	}{
		{"T: ", SymbolTypeType},
		{"T:", SymbolTypeType},
		{"T:Foo{", SymbolTypeType},
		{"T:Foo{System.Int32", SymbolTypeType},
		{"T:Foo[,]", SymbolTypeType},
		{"T:`0", SymbolTypeType},
		{"T:Foo.", SymbolTypeType},
		{"M:Foo.Bar(~", SymbolTypeMethod},
		{"M:Foo.Bar(System.Int32", SymbolTypeMethod},
		{"M:Foo.Bar()~", SymbolTypeMethod},
		{"M:Foo~Bar~Baz", SymbolTypeMethod},
		{"M:Foo.Bar(UnknownThing{)", SymbolTypeMethod},
		{"M:Foo.Bar(``0)", SymbolTypeMethod},
		{"M:Foo.Bar``1{System.Int32,System.String}", SymbolTypeMethod},
		{"M:Foo.op_Implicit(Foo to System.Int32)~System.String", SymbolTypeMethod},
		{"M:Foo.op_Explicit(Foo to Bar to Baz)", SymbolTypeMethod},
		{"F:Foo.Bar(System.Int32)", SymbolTypeField},
		{"E:", SymbolTypeEvent},
		{"E:Foo.Bar()", SymbolTypeEvent},
		{"P:Foo.Bar(System.Int32))", SymbolTypeProperty},
		{"P:Foo.Bar(`0)", SymbolTypeProperty},
		{"N:Foo..Bar", SymbolTypeNamespace},
		{"A:=x", SymbolTypeAssembly},
		{"T:System.List<System.Int32>", SymbolTypeType},
		{"T:Foo`65536", SymbolTypeType},
		{"N:System.List<T>", SymbolTypeNamespace},
		{"F:Foo.Bar{System[Int32}.count]", SymbolTypeField},
		{"F:Foo.Ba]r", SymbolTypeField},
		{"F:Foo.Bar`", SymbolTypeField},
		{"F:Foo.Bar`01", SymbolTypeField},
		{"E:Foo.Ba[r", SymbolTypeEvent},
		{"M:Foo.Bar.Baz``1{System.Int32}``0", SymbolTypeMethod},
		{"M:Foo.Ba[r.Baz`1{System.Int]32}(``0)", SymbolTypeMethod},
		{"M:Foo.Bar(System.Int32]", SymbolTypeMethod},
		{"M:Foo.IFoo`1{T}#Bar", SymbolTypeMethod},
		{"M:Foo.Bar``30000000(``0)", SymbolTypeMethod},
		{"M:Foo`30000000.Bar(`0)", SymbolTypeMethod},
		{"P:Foo`30000000.Item(`0)", SymbolTypeProperty},
		{"P:Foo.Ba`01tem(System.Int32)", SymbolTypeProperty},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, ok := TryParse(tt.input)
			if ok {
				t.Fatalf("TryParse(%q) succeeded with %q", tt.input, ref.String())
			}
			if !ref.IsInvalid() {
				t.Errorf("State() = %v, want invalid", ref.State())
			}
			if ref.SymbolType() != tt.kind {
				t.Errorf("SymbolType() = %v, want %v", ref.SymbolType(), tt.kind)
			}
			if ref.MetadataName() != nil {
				t.Errorf("MetadataName() = %v, want nil", ref.MetadataName())
			}
			if ref.String() != tt.input || ref.OriginalString() != tt.input {
				t.Errorf("String() = %q, want original text", ref.String())
			}

			parsed, err := Parse(tt.input)
			if err != nil {
				t.Errorf("Parse(%q) error = %v, want invalid reference", tt.input, err)
			}
			if !parsed.IsInvalid() {
				t.Errorf("Parse(%q) state = %v", tt.input, parsed.State())
			}
		})
	}
}

func TestUnspecifiedReferences(t *testing.T) {
	for _, input := range []string{"", "   ", "Foo.Bar", "X:Foo", "t:Foo", "TT:Foo", " T:Foo", "T"} {
		t.Run(input, func(t *testing.T) {
			ref, ok := TryParse(input)
			if ok || !ref.IsUnspecified() {
				t.Errorf("TryParse(%q) = %v, %v, want unspecified", input, ref.State(), ok)
			}
			if ref.SymbolType() != SymbolTypeUnknown {
				t.Errorf("SymbolType() = %v", ref.SymbolType())
			}
			if ref.String() != input {
				t.Errorf("String() = %q, want %q", ref.String(), input)
			}

			_, err := Parse(input)
			if errors.CodeOf(err) != errors.UnparsableReference {
				t.Errorf("Parse(%q) error = %v, want %s", input, err, errors.UnparsableReference)
			}
		})
	}
}

func TestMalformedInputNeverPanics(t *testing.T) {
	garbage := []string{
		"T:{", "T:}", "T:{{{{", "T:]]", "T:@", "T:*", "T:`", "T:``", "T:`99999999999999999999",
		"M:(", "M:)", "M:~", "M:~~", "M:.(", "M:A.(B", "M:A{.B(", "M:A.B``1{", "M:A.B``1{}",
		"M:#", "M:A.{@}", "M:A.B{T@}(", "P:(", "P:A.(,,,)", "F:.", "E:..", "N:.", "A:,", "A:a,b",
		"T:\x00", "M:\xff\xfe", "T:A.B`1.C`2{X}{Y}", "M:op_Explicit( to )", "M:op_Explicit(to to to)",
	}
	for _, s := range garbage {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("TryParse(%q) panicked: %v", s, r)
				}
			}()
			ref, _ := TryParse(s)
			_ = ref.String()
			_ = ref.Hash()
		}()
	}
}

func TestLegacyOperatorSyntaxOption(t *testing.T) {
	const s = "M:Foo.op_Explicit(Foo to System.Int32)"

	ref, err := ParseWithOptions(s, Options{LegacyOperatorSyntax: false})
	if err != nil {
		t.Fatal(err)
	}
	if !ref.IsInvalid() {
		t.Errorf("strict parse state = %v, want invalid", ref.State())
	}

	ref, err = ParseWithOptions(s, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	m := ref.MetadataName().(*symbolname.MethodName)
	if m.ReturnType().FullName() != "System.Int32" || len(m.Parameters()) != 1 {
		t.Errorf("method = %v", m)
	}

	// other operators never take the legacy form
	if ref, _ := TryParse("M:Foo.op_Addition(Foo to System.Int32)"); ref.IsValid() {
		t.Errorf("op_Addition accepted legacy syntax: %q", ref.String())
	}
}

func TestEquality(t *testing.T) {
	a, _ := Parse("T:Foo.Bar")
	b := Type(" Foo.Bar ")
	if !a.Equal(b) || a.Hash() != b.Hash() {
		t.Errorf("%q and %q should be equal", a.String(), b.String())
	}

	c, _ := Parse("T:Foo.Baz")
	if a.Equal(c) {
		t.Error("different types should not be equal")
	}

	bad1, _ := Parse("T:Foo{")
	bad2, _ := Parse("T:Foo{")
	bad3, _ := Parse("M:Foo{")
	if !bad1.Equal(bad2) || bad1.Hash() != bad2.Hash() {
		t.Error("identical invalid references should be equal")
	}
	if bad1.Equal(bad3) {
		t.Error("invalid references of different kinds should not be equal")
	}
	if Unspecified("x").Equal(Unspecified("y")) {
		t.Error("unspecified references with different text should not be equal")
	}
	if a.Equal(Unspecified("T:Foo.Bar")) {
		t.Error("valid and unspecified references should not be equal")
	}

	var zero Reference
	if !zero.IsUnspecified() || !zero.Equal(Unspecified("")) {
		t.Error("zero Reference should be an unspecified empty reference")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		ref  Reference
		kind SymbolType
		want string
	}{
		{Assembly("mscorlib"), SymbolTypeAssembly, "A:mscorlib"},
		{Namespace("System.IO"), SymbolTypeNamespace, "N:System.IO"},
		{Type("System.Int32[]"), SymbolTypeType, "T:System.Int32[]"},
		{Field("Foo.count"), SymbolTypeField, "F:Foo.count"},
		{Property("Foo.Item(System.Int32)"), SymbolTypeProperty, "P:Foo.Item(System.Int32)"},
		{Event("Foo.Changed"), SymbolTypeEvent, "E:Foo.Changed"},
		{Method("Foo.Bar(System.Int32)"), SymbolTypeMethod, "M:Foo.Bar(System.Int32)"},
	}
	for _, tt := range tests {
		if !tt.ref.IsValid() || tt.ref.SymbolType() != tt.kind || tt.ref.String() != tt.want {
			t.Errorf("got %v %v %q, want valid %v %q", tt.ref.State(), tt.ref.SymbolType(), tt.ref.String(), tt.kind, tt.want)
		}
	}

	if ref := Type("Foo{"); !ref.IsInvalid() || ref.String() != "Foo{" {
		t.Errorf("Type(\"Foo{\") = %v %q", ref.State(), ref.String())
	}
	if ref := Create(SymbolTypeUnknown, "Foo"); !ref.IsUnspecified() {
		t.Errorf("Create(Unknown) state = %v", ref.State())
	}
}

func TestCreateWithContext(t *testing.T) {
	decl := mustParseType(t, "Foo`1", EmptyContext)

	ref := CreateWithContext(SymbolTypeType, "`0[]", NewTypeContext(decl), DefaultOptions())
	if !ref.IsValid() || ref.Canonical() != "`0[]" {
		t.Errorf("ref = %v %q", ref.State(), ref.Canonical())
	}
	if ref := Type("`0[]"); ref.IsValid() {
		t.Error("`0 should not resolve without a context")
	}

	method, err := Parse("M:Foo`1.Bar``1")
	if err != nil || !method.IsValid() {
		t.Fatalf("Parse method: %v %v", method.State(), err)
	}
	ctx := NewMethodContext(method.MetadataName().(*symbolname.MethodName))
	ref = CreateWithContext(SymbolTypeType, "System.Func{`0,``0}", ctx, DefaultOptions())
	if !ref.IsValid() || ref.Canonical() != "System.Func{`0,``0}" {
		t.Errorf("ref = %v %q", ref.State(), ref.Canonical())
	}

	// members without a declaring type resolve `N against the context type
	ref = CreateWithContext(SymbolTypeMethod, "Bar(`0)", NewTypeContext(decl), DefaultOptions())
	if !ref.IsValid() || ref.Canonical() != "Bar(`0)" {
		t.Errorf("ref = %v %q", ref.State(), ref.Canonical())
	}
}

func TestFromName(t *testing.T) {
	parsed, _ := Parse("M:Foo.Bar.Baz(System.String)~System.Boolean")
	ref, err := FromName(parsed.MetadataName())
	if err != nil {
		t.Fatal(err)
	}
	if !ref.IsValid() || !ref.Equal(parsed) || ref.String() != parsed.String() {
		t.Errorf("FromName = %v %q", ref.State(), ref.String())
	}
	if ref.OriginalString() != parsed.String() {
		t.Errorf("OriginalString() = %q", ref.OriginalString())
	}

	ns, _ := symbolname.ParseNamespaceName("System.IO")
	if ref, err := FromName(ns); err != nil || ref.String() != "N:System.IO" {
		t.Errorf("FromName(namespace) = %q, %v", ref.String(), err)
	}

	tests := []struct {
		name string
		in   symbolname.Name
		want errors.ErrorCode
	}{
		{"nil", nil, errors.InvalidArgument},
		{"typed nil", (*symbolname.TypeName)(nil), errors.InvalidArgument},
		{"module", symbolname.NewModuleName("Foo.dll"), errors.UnsupportedConversion},
		{"local", symbolname.NewOpaqueName(symbolname.KindLocal, "x"), errors.UnsupportedConversion},
		{"parameter", symbolname.NewParameterName("x", nil), errors.UnsupportedConversion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromName(tt.in)
			if errors.CodeOf(err) != tt.want {
				t.Errorf("FromName() error = %v, want %s", err, tt.want)
			}
		})
	}

	elem, _ := symbolname.NewTypeName("System.Int32")
	matrix, _ := elem.MakeArrayType(2)
	if _, err := FromName(matrix); errors.CodeOf(err) != errors.UnsupportedConversion {
		t.Errorf("FromName(rank 2 array) error = %v", err)
	}
}

func TestReferenceJSON(t *testing.T) {
	for _, s := range []string{"T:Foo.Bar{System.Int32}", "M:Foo{", "garbage"} {
		ref, _ := TryParse(s)
		data, err := json.Marshal(ref)
		if err != nil {
			t.Fatal(err)
		}
		var back Reference
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if !back.Equal(ref) || back.State() != ref.State() {
			t.Errorf("JSON round trip of %q = %q (%v)", s, back.String(), back.State())
		}
	}
}

func TestSymbolTypeHelpers(t *testing.T) {
	for c, st := range specifiers {
		if Specifier(st) != c {
			t.Errorf("Specifier(%v) = %c, want %c", st, Specifier(st), c)
		}
	}
	if Specifier(SymbolTypeUnknown) != 0 {
		t.Error("Unknown has no specifier")
	}
	for _, in := range []string{"method", "Method", "M"} {
		if st, ok := ParseSymbolType(in); !ok || st != SymbolTypeMethod {
			t.Errorf("ParseSymbolType(%q) = %v, %v", in, st, ok)
		}
	}
	if _, ok := ParseSymbolType("m"); ok {
		t.Error("lowercase specifier letters are not symbol types")
	}
}

func TestRestore(t *testing.T) {
	ref, err := Restore(StateValid, SymbolTypeType, "Foo.Bar")
	if err != nil || !ref.IsValid() || ref.String() != "T:Foo.Bar" {
		t.Errorf("Restore(body) = %v, %v", ref, err)
	}
	ref, err = Restore(StateInvalid, SymbolTypeMethod, "M:Foo{")
	if err != nil || !ref.IsInvalid() || ref.OriginalString() != "M:Foo{" {
		t.Errorf("Restore(invalid) = %v, %v", ref, err)
	}
	ref, err = Restore(StateUnspecified, SymbolTypeUnknown, "Foo")
	if err != nil || !ref.IsUnspecified() {
		t.Errorf("Restore(unspecified) = %v, %v", ref, err)
	}
	if _, err := Restore(StateValid, SymbolTypeUnknown, "Foo"); errors.CodeOf(err) != errors.InvalidArgument {
		t.Errorf("Restore(unknown kind) error = %v", err)
	}
}

func TestLocationString(t *testing.T) {
	loc := Location{Path: "src/a.cs", Line: 3, Column: 14}
	if got := loc.String(); got != "src/a.cs:3:14" {
		t.Errorf("Location.String() = %q", got)
	}
}
