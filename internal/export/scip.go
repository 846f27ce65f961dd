package export

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"coderef/internal/coderef"
	"coderef/internal/symbolname"
)

// SymbolScheme is the scheme of every SCIP symbol this package emits
const SymbolScheme = "coderef"

// placeholderPackage leaves manager, name and version as "." since a code
// reference does not say which package declares the symbol.
var placeholderPackage = &scip.Package{Manager: ".", Name: ".", Version: "."}

// WriteSCIP writes a SCIP index for the valid occurrences. Occurrences that
// have no symbol form are skipped and counted.
func WriteSCIP(w io.Writer, occurrences []coderef.Occurrence, meta Meta) (Stats, error) {
	index, stats := BuildSCIPIndex(occurrences, meta)
	data, err := proto.Marshal(index)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to marshal SCIP index: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// BuildSCIPIndex groups occurrences into one document per path. Each
// reference becomes a non-definition occurrence whose range covers the
// original reference text.
func BuildSCIPIndex(occurrences []coderef.Occurrence, meta Meta) (*scip.Index, Stats) {
	var stats Stats
	docs := make(map[string]*scip.Document)
	symbols := make(map[string]*scip.SymbolInformation)

	for _, occ := range occurrences {
		symbol, info, ok := symbolFor(occ.Reference)
		if !ok {
			stats.Skipped++
			continue
		}
		doc, exists := docs[occ.Path]
		if !exists {
			doc = &scip.Document{
				Language:     scip.Language_CSharp.String(),
				RelativePath: occ.Path,
			}
			docs[occ.Path] = doc
		}
		line := int32(occ.Line - 1)
		start := int32(occ.Column - 1)
		doc.Occurrences = append(doc.Occurrences, &scip.Occurrence{
			Range:  []int32{line, start, start + int32(len(occ.Reference.OriginalString()))},
			Symbol: symbol,
		})
		if _, seen := symbols[symbol]; !seen {
			symbols[symbol] = info
		}
		stats.Written++
	}

	index := &scip.Index{
		Metadata: &scip.Metadata{
			Version: scip.ProtocolVersion_UnspecifiedProtocolVersion,
			ToolInfo: &scip.ToolInfo{
				Name:    meta.ToolName,
				Version: meta.ToolVersion,
			},
			ProjectRoot:          projectRoot(meta.Root),
			TextDocumentEncoding: scip.TextEncoding_UTF8,
		},
	}

	paths := make([]string, 0, len(docs))
	for p := range docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		index.Documents = append(index.Documents, docs[p])
	}

	names := make([]string, 0, len(symbols))
	for s := range symbols {
		names = append(names, s)
	}
	sort.Strings(names)
	for _, s := range names {
		index.ExternalSymbols = append(index.ExternalSymbols, symbols[s])
	}

	return index, stats
}

func projectRoot(root string) string {
	if root == "" {
		return ""
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return "file://" + filepath.ToSlash(root)
}

// SymbolFor returns the SCIP symbol string for a reference. Assemblies,
// generic parameters and references that are not valid have none.
func SymbolFor(ref coderef.Reference) (string, bool) {
	symbol, _, ok := symbolFor(ref)
	return symbol, ok
}

func symbolFor(ref coderef.Reference) (string, *scip.SymbolInformation, bool) {
	if !ref.IsValid() {
		return "", nil, false
	}

	var descriptors []*scip.Descriptor
	var kind scip.SymbolInformation_Kind
	var display string

	switch n := ref.MetadataName().(type) {
	case *symbolname.NamespaceName:
		descriptors = namespaceDescriptors(n.FullName())
		kind = scip.SymbolInformation_Namespace
		display = n.Name()
	case *symbolname.TypeName:
		descriptors = typeDescriptors(n)
		kind = scip.SymbolInformation_Type
		if def := typeDefinition(n); def != nil {
			display = def.BareName()
		}
	case *symbolname.MethodName:
		descriptors = memberDescriptors(n.DeclaringType(), &scip.Descriptor{
			Name:          n.Name(),
			Disambiguator: disambiguator(ref, n),
			Suffix:        scip.Descriptor_Method,
		})
		kind = scip.SymbolInformation_Method
		display = n.Name()
	case *symbolname.PropertyName:
		descriptors = memberDescriptors(n.DeclaringType(), term(n.Name()))
		kind = scip.SymbolInformation_Property
		display = n.Name()
	case *symbolname.FieldName:
		descriptors = memberDescriptors(n.DeclaringType(), term(n.Name()))
		kind = scip.SymbolInformation_Field
		display = n.Name()
	case *symbolname.EventName:
		descriptors = memberDescriptors(n.DeclaringType(), term(n.Name()))
		kind = scip.SymbolInformation_Event
		display = n.Name()
	}
	if len(descriptors) == 0 {
		return "", nil, false
	}

	symbol := scip.VerboseSymbolFormatter.FormatSymbol(&scip.Symbol{
		Scheme:      SymbolScheme,
		Package:     placeholderPackage,
		Descriptors: descriptors,
	})
	return symbol, &scip.SymbolInformation{
		Symbol:        symbol,
		Kind:          kind,
		DisplayName:   display,
		Documentation: []string{"`" + ref.String() + "`"},
	}, true
}

func term(name string) *scip.Descriptor {
	return &scip.Descriptor{Name: name, Suffix: scip.Descriptor_Term}
}

func namespaceDescriptors(ns string) []*scip.Descriptor {
	var ds []*scip.Descriptor
	for _, part := range strings.Split(ns, ".") {
		if part != "" {
			ds = append(ds, &scip.Descriptor{Name: part, Suffix: scip.Descriptor_Namespace})
		}
	}
	return ds
}

// typeDefinition strips constructed forms down to the declared type
func typeDefinition(t *symbolname.TypeName) *symbolname.TypeName {
	for t != nil {
		switch t.Kind() {
		case symbolname.KindType:
			return t
		case symbolname.KindGenericInstanceType:
			t = t.Definition()
		case symbolname.KindArrayType, symbolname.KindPointerType, symbolname.KindByReferenceType:
			t = t.ElementType()
		default:
			return nil
		}
	}
	return nil
}

func typeDescriptors(t *symbolname.TypeName) []*scip.Descriptor {
	def := typeDefinition(t)
	if def == nil {
		return nil
	}
	var ds []*scip.Descriptor
	if decl := def.DeclaringType(); decl != nil {
		ds = typeDescriptors(decl)
		if ds == nil {
			return nil
		}
	} else {
		ds = namespaceDescriptors(def.Namespace())
	}
	return append(ds, &scip.Descriptor{Name: def.Name(), Suffix: scip.Descriptor_Type})
}

func memberDescriptors(decl *symbolname.TypeName, member *scip.Descriptor) []*scip.Descriptor {
	if decl == nil {
		return []*scip.Descriptor{member}
	}
	ds := typeDescriptors(decl)
	if ds == nil {
		return nil
	}
	return append(ds, member)
}

// disambiguator separates overloads. A method with no parameters, return
// type or generic arity has none; anything else hashes the canonical form.
func disambiguator(ref coderef.Reference, m *symbolname.MethodName) string {
	if len(m.Parameters()) == 0 && m.ReturnType() == nil && m.GenericArity() == 0 {
		return ""
	}
	return strconv.FormatUint(xxhash.Sum64String(ref.Canonical())&0xffffffff, 16)
}
