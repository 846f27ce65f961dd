package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sourcegraph/scip/bindings/go/scip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v3"

	"coderef/internal/coderef"
	"coderef/internal/errors"
)

func occ(path string, line, col int, text string) coderef.Occurrence {
	ref, _ := coderef.TryParse(text)
	return coderef.Occurrence{
		Location:  coderef.Location{Path: path, Line: line, Column: col},
		Reference: ref,
	}
}

func sample() []coderef.Occurrence {
	return []coderef.Occurrence{
		occ("src/b.cs", 3, 20, "T:System.String"),
		occ("src/a.cs", 1, 5, "M:Foo.Bar.Baz(System.Int32)"),
		occ("src/a.cs", 2, 5, "F:Foo.Bar{System.Int32}.count"),
		occ("src/a.cs", 4, 5, "M:Foo{"),
		occ("src/a.cs", 5, 5, "List{T}"),
		occ("src/a.cs", 6, 5, "A:mscorlib"),
	}
}

func testMeta() Meta {
	return Meta{
		Root:        "/repo",
		RunID:       "run-1",
		ToolName:    "coderef",
		ToolVersion: "0.0.0-test",
		Generated:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"jsonl", "YAML", "scip"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("csv")
	assert.Equal(t, errors.ExportFailed, errors.CodeOf(err))
}

func TestJSONLRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		require.NoError(t, WriteJSONL(&buf, sample(), compress))

		if compress {
			assert.True(t, bytes.HasPrefix(buf.Bytes(), zstdMagic), "compressed output should be a zstd frame")
		} else {
			assert.Equal(t, len(sample()), strings.Count(buf.String(), "\n"))
		}

		back, err := ReadJSONL(&buf)
		require.NoError(t, err)
		require.Len(t, back, len(sample()))
		for i, want := range sample() {
			assert.Equal(t, want.Location, back[i].Location)
			assert.True(t, want.Reference.Equal(back[i].Reference), "reference %d", i)
			assert.Equal(t, want.Reference.State(), back[i].Reference.State())
		}
	}
}

func TestJSONLShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, sample()[:1], false))
	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, `"path":"src/b.cs"`)
	assert.Contains(t, line, `"line":3`)
	assert.Contains(t, line, `"reference":"T:System.String"`)
	assert.Contains(t, line, `"state":"valid"`)
}

func TestReadJSONLErrors(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader("{\"path\":\"a\"}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	occs, err := ReadJSONL(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sample(), testMeta()))

	var doc struct {
		Meta struct {
			RunID string `yaml:"runId"`
		} `yaml:"meta"`
		Occurrences []struct {
			Path      string `yaml:"path"`
			Line      int    `yaml:"line"`
			Reference struct {
				Reference string `yaml:"reference"`
				State     string `yaml:"state"`
				Canonical string `yaml:"canonical"`
			} `yaml:"reference"`
		} `yaml:"occurrences"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "run-1", doc.Meta.RunID)
	require.Len(t, doc.Occurrences, len(sample()))
	assert.Equal(t, "src/b.cs", doc.Occurrences[0].Path)
	assert.Equal(t, 3, doc.Occurrences[0].Line)
	assert.Equal(t, "T:System.String", doc.Occurrences[0].Reference.Reference)
	assert.Equal(t, "System.String", doc.Occurrences[0].Reference.Canonical)
	assert.Equal(t, "invalid", doc.Occurrences[3].Reference.State)
}

func TestWriteYAMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, nil, testMeta()))
	assert.Contains(t, buf.String(), "occurrences: []")
}

func TestSymbolFor(t *testing.T) {
	tests := []struct {
		ref  string
		want string
		ok   bool
	}{
		{"T:System.String", "coderef . . . System/String#", true},
		{"T:System.Int32[]", "coderef . . . System/Int32#", true},
		{"T:System.Collections.Generic.List{System.Int32}", "coderef . . . System/Collections/Generic/`List``1`#", true},
		{"T:Outer`1.Inner", "coderef . . . `Outer``1`#Inner#", true},
		{"N:System.IO", "coderef . . . System/IO/", true},
		{"F:Foo.Bar{System.Int32}.count", "coderef . . . Foo/`Bar``1`#count.", true},
		{"P:Foo.Bar.Name", "coderef . . . Foo/Bar#Name.", true},
		{"E:Foo.Bar.Changed", "coderef . . . Foo/Bar#Changed.", true},
		{"M:Foo.Bar.Baz", "coderef . . . Foo/Bar#Baz().", true},
		{"M:Global", "coderef . . . Global().", true},
		{"M:Foo.Bar.#ctor", "coderef . . . Foo/Bar#`.ctor`().", true},
		{"P:Foo.System#Collections#IList#Count", "coderef . . . Foo#`System.Collections.IList.Count`.", true},
		{"A:mscorlib", "", false},
		{"M:Foo{", "", false},
		{"Foo", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			ref, _ := coderef.TryParse(tt.ref)
			got, ok := SymbolFor(ref)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				_, err := scip.ParseSymbol(got)
				assert.NoError(t, err)
			}
		})
	}
}

func TestSymbolForParsesBack(t *testing.T) {
	refs := []string{
		"T:System.Collections.Generic.Dictionary{System.String,System.Int32}",
		"M:Foo.Bar.Convert``1(``0)~``0",
		"M:Foo.System#Collections#Generic#IEnumerable{T}#GetEnumerator",
		"F:Foo.Bar`1.count",
		"N:System.IO",
	}
	for _, s := range refs {
		t.Run(s, func(t *testing.T) {
			ref, ok := coderef.TryParse(s)
			require.True(t, ok)
			symbol, ok := SymbolFor(ref)
			require.True(t, ok)

			parsed, err := scip.ParseSymbol(symbol)
			require.NoError(t, err)
			assert.Equal(t, SymbolScheme, parsed.Scheme)
			require.NotEmpty(t, parsed.Descriptors)
			assert.Equal(t, symbol, scip.VerboseSymbolFormatter.FormatSymbol(parsed))
		})
	}
}

func TestMethodOverloadsGetDistinctSymbols(t *testing.T) {
	a, _ := coderef.TryParse("M:Foo.Bar.Baz(System.Int32)")
	b, _ := coderef.TryParse("M:Foo.Bar.Baz(System.String)")
	c, _ := coderef.TryParse("M:Foo.Bar.Baz( System.Int32 )")

	sa, ok := SymbolFor(a)
	require.True(t, ok)
	sb, _ := SymbolFor(b)
	sc, _ := SymbolFor(c)

	assert.NotEqual(t, sa, sb)
	assert.Equal(t, sa, sc)
	assert.True(t, strings.HasPrefix(sa, "coderef . . . Foo/Bar#Baz("))
	assert.True(t, strings.HasSuffix(sa, ")."))

	_, err := scip.ParseSymbol(sa)
	assert.NoError(t, err)
}

func TestWriteSCIP(t *testing.T) {
	var buf bytes.Buffer
	stats, err := WriteSCIP(&buf, sample(), testMeta())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Written)
	assert.Equal(t, 3, stats.Skipped)

	var index scip.Index
	require.NoError(t, proto.Unmarshal(buf.Bytes(), &index))

	assert.Equal(t, "coderef", index.Metadata.ToolInfo.Name)
	assert.Equal(t, scip.TextEncoding_UTF8, index.Metadata.TextDocumentEncoding)
	assert.True(t, strings.HasPrefix(index.Metadata.ProjectRoot, "file://"))

	require.Len(t, index.Documents, 2)
	assert.Equal(t, "src/a.cs", index.Documents[0].RelativePath)
	assert.Equal(t, "src/b.cs", index.Documents[1].RelativePath)
	assert.Len(t, index.Documents[0].Occurrences, 2)

	stringOcc := index.Documents[1].Occurrences[0]
	assert.Equal(t, "coderef . . . System/String#", stringOcc.Symbol)
	assert.Equal(t, []int32{2, 19, 19 + int32(len("T:System.String"))}, stringOcc.Range)

	require.Len(t, index.ExternalSymbols, 3)
	for i := 1; i < len(index.ExternalSymbols); i++ {
		assert.Less(t, index.ExternalSymbols[i-1].Symbol, index.ExternalSymbols[i].Symbol)
	}
}

func TestWriteDispatch(t *testing.T) {
	for _, f := range []Format{FormatJSONL, FormatYAML, FormatSCIP} {
		var buf bytes.Buffer
		stats, err := Write(&buf, f, sample(), testMeta(), false)
		require.NoError(t, err, f)
		assert.NotZero(t, buf.Len(), f)
		assert.NotZero(t, stats.Written, f)
	}

	_, err := Write(&bytes.Buffer{}, Format("csv"), sample(), testMeta(), false)
	assert.Equal(t, errors.ExportFailed, errors.CodeOf(err))
}
