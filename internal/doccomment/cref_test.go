package doccomment

import (
	"strings"
	"testing"
)

func TestExtractCrefs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Cref
	}{
		{
			name: "double quoted",
			text: `/// <see cref="T:System.String"/>`,
			want: []Cref{{Value: "T:System.String", Line: 1, Column: 16}},
		},
		{
			name: "single quoted with spaces",
			text: `<see cref = 'M:Foo.Bar'/>`,
			want: []Cref{{Value: "M:Foo.Bar", Line: 1, Column: 14}},
		},
		{
			name: "multiple on one line",
			text: `<see cref="A"/> and <see cref="B"/>`,
			want: []Cref{{Value: "A", Line: 1, Column: 12}, {Value: "B", Line: 1, Column: 32}},
		},
		{
			name: "second line",
			text: "/// first\n/// <see cref=\"T:X\"/>",
			want: []Cref{{Value: "T:X", Line: 2, Column: 16}},
		},
		{
			name: "entities decoded",
			text: `cref="M:Foo.op_LessThan(Foo,Foo)&amp;"`,
			want: []Cref{{Value: "M:Foo.op_LessThan(Foo,Foo)&", Line: 1, Column: 7}},
		},
		{
			name: "not an attribute name",
			text: `xcref="A" crefs="B" data-cref="C"`,
			want: nil,
		},
		{
			name: "unterminated",
			text: `cref="T:Foo`,
			want: nil,
		},
		{
			name: "missing quote",
			text: `cref=T:Foo`,
			want: nil,
		},
		{
			name: "empty value",
			text: `cref=""`,
			want: []Cref{{Value: "", Line: 1, Column: 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCrefs(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractCrefs() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("cref %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIsDocComment(t *testing.T) {
	tests := []struct {
		comment string
		want    bool
	}{
		{"/// <summary>", true},
		{"/** <summary> */", true},
		{"// plain", false},
		{"//// divider", false},
		{"/* block */", false},
		{"/**/", false},
	}
	for _, tt := range tests {
		if got := IsDocComment(tt.comment); got != tt.want {
			t.Errorf("IsDocComment(%q) = %v, want %v", tt.comment, got, tt.want)
		}
	}
}

func TestLineComments(t *testing.T) {
	source := []byte("namespace A\n{\n    /// <see cref=\"T:A.B\"/>\n    // not docs\r\n\t/// second\n}\n")
	comments := lineComments(source)
	if len(comments) != 2 {
		t.Fatalf("lineComments() = %+v", comments)
	}
	if comments[0].Line != 3 || comments[0].Column != 5 {
		t.Errorf("first comment at %d:%d, want 3:5", comments[0].Line, comments[0].Column)
	}
	if comments[1].Line != 5 || comments[1].Column != 2 || comments[1].Text != "/// second" {
		t.Errorf("second comment = %+v", comments[1])
	}

	crefs := commentCrefs(comments[0])
	if len(crefs) != 1 || crefs[0].Line != 3 || crefs[0].Column != 20 {
		t.Errorf("commentCrefs() = %+v, want one cref at 3:20", crefs)
	}
}

func TestLineCommentsBlocks(t *testing.T) {
	source := []byte("class A\n{\n  /** <see cref=\"T:A.One\"/> */\n  /**\n   * <see cref=\"M:A.Two\"/>\n   */\n  /**/ int x;\n  //// divider\n  /// <see cref=\"F:A.three\"/>\n  /* plain <see cref=\"T:Skipped\"/> */\n}\n")
	comments := lineComments(source)
	if len(comments) != 3 {
		t.Fatalf("lineComments() = %+v, want 3 comments", comments)
	}

	tests := []struct {
		line, column int
		prefix       string
	}{
		{3, 3, "/** <see"},
		{4, 3, "/**\n"},
		{9, 3, "/// <see"},
	}
	for i, tt := range tests {
		c := comments[i]
		if c.Line != tt.line || c.Column != tt.column || !strings.HasPrefix(c.Text, tt.prefix) {
			t.Errorf("comment %d = %+v, want %q at %d:%d", i, c, tt.prefix, tt.line, tt.column)
		}
	}

	crefs := commentCrefs(comments[1])
	if len(crefs) != 1 || crefs[0].Value != "M:A.Two" || crefs[0].Line != 5 || crefs[0].Column != 17 {
		t.Errorf("commentCrefs() = %+v, want M:A.Two at 5:17", crefs)
	}

	if got := lineComments([]byte("/** never closed\n/// <see cref=\"T:X\"/>\n")); len(got) != 0 {
		t.Errorf("unterminated block: lineComments() = %+v", got)
	}
}
