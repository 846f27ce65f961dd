package doccomment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"coderef/internal/coderef"
)

const fooSource = `namespace Demo
{
    /// <summary>See <see cref="T:Demo.Bar"/>.</summary>
    /// <seealso cref="M:Demo.Bar.Run(System.Int32)"/>
    public class Foo
    {
        // <see cref="T:Ignored"/>
        /// <see cref="M:Demo.Foo{"/>
        public void Baz() { }
    }
}
`

const demoXML = `<?xml version="1.0"?>
<doc>
  <members>
    <member name="T:Demo.Bar"><see cref="F:Demo.Bar.x"/></member>
  </members>
</doc>
`

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func setupTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "src/Foo.cs", fooSource)
	writeFile(t, root, "docs/Demo.xml", demoXML)
	writeFile(t, root, "obj/Gen.cs", `/// <see cref="T:Generated"/>`+"\n")
	writeFile(t, root, "readme.txt", `cref="T:Readme"`)
	return root
}

func TestScanDirectory(t *testing.T) {
	root := setupTree(t)
	s := NewScanner(nil, coderef.DefaultOptions())

	result, err := s.ScanDirectory(context.Background(), root, Filter{
		Extensions: []string{".cs", ".XML"},
		Ignore:     []string{"obj"},
	})
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}

	if result.Files != 2 {
		t.Errorf("Files = %d, want 2", result.Files)
	}

	want := []struct {
		loc   coderef.Location
		text  string
		state coderef.State
	}{
		{coderef.Location{Path: "docs/Demo.xml", Line: 4, Column: 42}, "F:Demo.Bar.x", coderef.StateValid},
		{coderef.Location{Path: "src/Foo.cs", Line: 3, Column: 33}, "T:Demo.Bar", coderef.StateValid},
		{coderef.Location{Path: "src/Foo.cs", Line: 4, Column: 24}, "M:Demo.Bar.Run(System.Int32)", coderef.StateValid},
		{coderef.Location{Path: "src/Foo.cs", Line: 8, Column: 24}, "M:Demo.Foo{", coderef.StateInvalid},
	}
	if len(result.Occurrences) != len(want) {
		t.Fatalf("got %d occurrences: %+v", len(result.Occurrences), result.Occurrences)
	}
	for i, w := range want {
		got := result.Occurrences[i]
		if got.Location != w.loc {
			t.Errorf("occurrence %d at %v, want %v", i, got.Location, w.loc)
		}
		if got.Reference.OriginalString() != w.text || got.Reference.State() != w.state {
			t.Errorf("occurrence %d = %q (%s), want %q (%s)",
				i, got.Reference.OriginalString(), got.Reference.State(), w.text, w.state)
		}
	}
	if result.Invalid() != 1 {
		t.Errorf("Invalid() = %d, want 1", result.Invalid())
	}
}

func TestScanDirectoryNoFilter(t *testing.T) {
	root := setupTree(t)
	s := NewScanner(nil, coderef.DefaultOptions())

	result, err := s.ScanDirectory(context.Background(), root, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	// readme.txt is scanned as source but holds no doc comments.
	if result.Files != 4 {
		t.Errorf("Files = %d, want 4", result.Files)
	}
	found := false
	for _, occ := range result.Occurrences {
		if occ.Reference.OriginalString() == "T:Generated" {
			found = true
		}
	}
	if !found {
		t.Error("obj/Gen.cs should be scanned when nothing is ignored")
	}
}

func TestScanDirectoryIgnorePattern(t *testing.T) {
	root := setupTree(t)
	s := NewScanner(nil, coderef.DefaultOptions())

	result, err := s.ScanDirectory(context.Background(), root, Filter{
		Extensions: []string{".cs"},
		Ignore:     []string{"src/*.cs"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Files != 1 || len(result.Occurrences) != 1 {
		t.Errorf("result = %d files, %d occurrences; want only obj/Gen.cs", result.Files, len(result.Occurrences))
	}
}

func TestScanDirectorySkipsLinksOutsideRoot(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, outside, "Out.cs", `/// <see cref="T:Outside"/>`+"\n")
	writeFile(t, root, "In.cs", `/// <see cref="T:Inside"/>`+"\n")
	if err := os.Symlink(filepath.Join(outside, "Out.cs"), filepath.Join(root, "Link.cs")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "In.cs"), filepath.Join(root, "Alias.cs")); err != nil {
		t.Fatal(err)
	}

	s := NewScanner(nil, coderef.DefaultOptions())
	result, err := s.ScanDirectory(context.Background(), root, Filter{Extensions: []string{".cs"}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Files != 2 {
		t.Errorf("Files = %d, want 2", result.Files)
	}
	for _, occ := range result.Occurrences {
		if occ.Reference.OriginalString() == "T:Outside" {
			t.Errorf("scanned a link leaving the root: %s", occ.Location)
		}
	}
}

func TestScanDirectoryErrors(t *testing.T) {
	s := NewScanner(nil, coderef.DefaultOptions())

	if _, err := s.ScanDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), Filter{}); err == nil {
		t.Error("missing root should fail")
	}

	file := filepath.Join(t.TempDir(), "a.cs")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ScanDirectory(context.Background(), file, Filter{}); err == nil {
		t.Error("file root should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.ScanDirectory(ctx, setupTree(t), Filter{}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled scan error = %v", err)
	}
}

func TestScanSourceUnspecified(t *testing.T) {
	s := NewScanner(nil, coderef.DefaultOptions())
	occs, err := s.ScanSource(context.Background(), "a.cs", []byte("/// <see cref=\"List{T}\"/>\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(occs) != 1 || !occs[0].Reference.IsUnspecified() {
		t.Errorf("ScanSource() = %+v, want one unspecified reference", occs)
	}
}
