// Package coderef parses and formats documentation code references such as
// "M:System.String.Format(System.String,System.Object[])" and resolves them
// into symbolname values.
package coderef

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"coderef/internal/errors"
	"coderef/internal/symbolname"
)

// State is the resolution state of a Reference
type State string

const (
	// StateValid means the text resolved to a name
	StateValid State = "valid"
	// StateInvalid means the kind is known but the text did not resolve
	StateInvalid State = "invalid"
	// StateUnspecified means the text has no recognizable kind
	StateUnspecified State = "unspecified"
)

// Reference is an immutable code reference. The zero value is an unspecified
// reference to the empty string.
type Reference struct {
	state      State
	symbolType SymbolType
	original   string
	canonical  string
	name       symbolname.Name
}

// Parse reads "X:body" where X is a specifier letter. Text with no specifier
// is an error; text whose body does not resolve yields an invalid reference.
func Parse(text string) (Reference, error) {
	return ParseWithOptions(text, DefaultOptions())
}

// ParseWithOptions is Parse with explicit options
func ParseWithOptions(text string, opts Options) (Reference, error) {
	if strings.TrimSpace(text) == "" {
		return Reference{}, errors.New(errors.UnparsableReference, "empty code reference", nil)
	}
	ref := dispatch(text, opts)
	if ref.IsUnspecified() {
		return Reference{}, errors.New(errors.UnparsableReference,
			fmt.Sprintf("%q has no symbol type specifier", text), nil).
			WithDetails(map[string]string{"input": text})
	}
	return ref, nil
}

// TryParse reports whether text is a valid reference. The returned reference
// is always usable, even when ok is false.
func TryParse(text string) (Reference, bool) {
	return TryParseWithOptions(text, DefaultOptions())
}

// TryParseWithOptions is TryParse with explicit options
func TryParseWithOptions(text string, opts Options) (Reference, bool) {
	ref := dispatch(text, opts)
	return ref, ref.IsValid()
}

func dispatch(text string, opts Options) Reference {
	if len(text) < 2 || text[1] != ':' {
		return Unspecified(text)
	}
	st, ok := SymbolTypeFromSpecifier(text[0])
	if !ok {
		return Unspecified(text)
	}
	return create(st, text[2:], text, EmptyContext, opts)
}

// Create resolves body as a reference of kind st, without a specifier prefix
func Create(st SymbolType, body string) Reference {
	return CreateWithContext(st, body, EmptyContext, DefaultOptions())
}

// CreateWithContext resolves body with generic back-references bound to ctx
func CreateWithContext(st SymbolType, body string, ctx GenericNameContext, opts Options) Reference {
	return create(st, body, body, ctx, opts)
}

func create(st SymbolType, body, original string, ctx GenericNameContext, opts Options) Reference {
	if st == SymbolTypeUnknown || Specifier(st) == 0 {
		return Unspecified(original)
	}
	name, ok := parseBody(st, body, ctx, opts)
	if !ok {
		return Reference{state: StateInvalid, symbolType: st, original: original}
	}
	canonical, err := FormatName(name)
	if err != nil {
		return Reference{state: StateInvalid, symbolType: st, original: original}
	}
	return Reference{
		state:      StateValid,
		symbolType: st,
		original:   original,
		canonical:  canonical,
		name:       name,
	}
}

// FromName builds a valid reference for an already resolved name
func FromName(n symbolname.Name) (Reference, error) {
	if symbolname.IsNil(n) {
		return Reference{}, errors.New(errors.InvalidArgument, "nil name", nil)
	}
	st := symbolTypeOf(n.Kind())
	if st == SymbolTypeUnknown {
		return Reference{}, errors.New(errors.UnsupportedConversion,
			fmt.Sprintf("%s names have no code reference form", n.Kind()), nil)
	}
	canonical, err := FormatName(n)
	if err != nil {
		return Reference{}, errors.New(errors.UnsupportedConversion, "cannot format "+n.FullName(), err)
	}
	return Reference{
		state:      StateValid,
		symbolType: st,
		original:   string(Specifier(st)) + ":" + canonical,
		canonical:  canonical,
		name:       n,
	}, nil
}

// Unspecified wraps text that carries no symbol type
func Unspecified(text string) Reference {
	return Reference{state: StateUnspecified, symbolType: SymbolTypeUnknown, original: text}
}

// Assembly creates an "A:" reference from the text after the specifier
func Assembly(body string) Reference { return Create(SymbolTypeAssembly, body) }

// Namespace creates an "N:" reference from the text after the specifier
func Namespace(body string) Reference { return Create(SymbolTypeNamespace, body) }

// Type creates a "T:" reference from the text after the specifier
func Type(body string) Reference { return Create(SymbolTypeType, body) }

// Field creates an "F:" reference from the text after the specifier
func Field(body string) Reference { return Create(SymbolTypeField, body) }

// Property creates a "P:" reference from the text after the specifier
func Property(body string) Reference { return Create(SymbolTypeProperty, body) }

// Event creates an "E:" reference from the text after the specifier
func Event(body string) Reference { return Create(SymbolTypeEvent, body) }

// Method creates an "M:" reference from the text after the specifier
func Method(body string) Reference { return Create(SymbolTypeMethod, body) }

// OriginalString returns the text the reference was created from
func (r Reference) OriginalString() string { return r.original }

// State returns the resolution state
func (r Reference) State() State {
	if r.state == "" {
		return StateUnspecified
	}
	return r.state
}

func (r Reference) IsValid() bool       { return r.State() == StateValid }
func (r Reference) IsInvalid() bool     { return r.State() == StateInvalid }
func (r Reference) IsUnspecified() bool { return r.State() == StateUnspecified }

// SymbolType returns the kind selected by the specifier
func (r Reference) SymbolType() SymbolType {
	if r.symbolType == "" {
		return SymbolTypeUnknown
	}
	return r.symbolType
}

// MetadataName returns the resolved name, nil unless the reference is valid
func (r Reference) MetadataName() symbolname.Name { return r.name }

// Canonical returns the normalized body, empty unless the reference is valid
func (r Reference) Canonical() string { return r.canonical }

// String returns "X:canonical" for a valid reference and the original text otherwise
func (r Reference) String() string {
	if r.IsValid() {
		return string(Specifier(r.symbolType)) + ":" + r.canonical
	}
	return r.original
}

// Equal reports whether two references denote the same thing. Valid
// references compare by resolved name; others by state, kind and text.
func (r Reference) Equal(other Reference) bool {
	if r.State() != other.State() {
		return false
	}
	if r.IsValid() {
		return symbolname.Equal(r.name, other.name)
	}
	return r.SymbolType() == other.SymbolType() && r.original == other.original
}

// Hash returns a hash consistent with Equal
func (r Reference) Hash() uint64 {
	if r.IsValid() {
		return symbolname.Hash(r.name)
	}
	return xxhash.Sum64String(string(r.State()) + ":" + string(r.SymbolType()) + ":" + r.original)
}

type referenceJSON struct {
	Reference  string     `json:"reference" yaml:"reference"`
	Original   string     `json:"original" yaml:"original"`
	State      State      `json:"state" yaml:"state"`
	SymbolType SymbolType `json:"symbolType" yaml:"symbolType"`
	Canonical  string     `json:"canonical,omitempty" yaml:"canonical,omitempty"`
}

func (r Reference) wire() referenceJSON {
	return referenceJSON{
		Reference:  r.String(),
		Original:   r.original,
		State:      r.State(),
		SymbolType: r.SymbolType(),
		Canonical:  r.canonical,
	}
}

// MarshalJSON implements json.Marshaler
func (r Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

// MarshalYAML implements yaml.Marshaler
func (r Reference) MarshalYAML() (interface{}, error) {
	return r.wire(), nil
}

// UnmarshalJSON re-parses the original text with default options
func (r *Reference) UnmarshalJSON(data []byte) error {
	var raw referenceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ref, err := Restore(raw.State, raw.SymbolType, raw.Original)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// Restore rebuilds a reference from a persisted state, symbol type and
// original text. The original is re-parsed with default options.
func Restore(state State, st SymbolType, original string) (Reference, error) {
	if state != StateValid && state != StateInvalid {
		return Unspecified(original), nil
	}
	kind, ok := ParseSymbolType(string(st))
	if !ok || kind == SymbolTypeUnknown {
		return Reference{}, errors.New(errors.InvalidArgument, fmt.Sprintf("unknown symbol type %q", st), nil)
	}
	if strings.HasPrefix(original, string(Specifier(kind))+":") {
		return dispatch(original, DefaultOptions()), nil
	}
	return Create(kind, original), nil
}
