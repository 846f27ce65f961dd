package symbolname

import (
	"fmt"
	"strings"
)

// AssemblyAttribute is one "Key=Value" pair of an assembly display name
type AssemblyAttribute struct {
	Key   string
	Value string
}

// AssemblyName is a parsed assembly display name such as
// "mscorlib, Version=4.0.0.0, Culture=neutral, PublicKeyToken=b77a5c561934e089".
type AssemblyName struct {
	name       string
	attributes []AssemblyAttribute
}

// ParseAssemblyName parses an assembly display name
func ParseAssemblyName(s string) (*AssemblyName, error) {
	parts := strings.Split(s, ",")
	name := strings.TrimSpace(parts[0])
	if name == "" || strings.ContainsAny(name, "=\"") {
		return nil, fmt.Errorf("invalid assembly name %q", s)
	}
	a := &AssemblyName{name: name}
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid assembly attribute %q in %q", strings.TrimSpace(part), s)
		}
		a.attributes = append(a.attributes, AssemblyAttribute{Key: key, Value: value})
	}
	return a, nil
}

func (a *AssemblyName) symbolName() {}

// Kind returns KindAssembly
func (a *AssemblyName) Kind() Kind { return KindAssembly }

// Name returns the simple assembly name
func (a *AssemblyName) Name() string { return a.name }

// Attributes returns the attributes in declaration order
func (a *AssemblyName) Attributes() []AssemblyAttribute {
	return append([]AssemblyAttribute(nil), a.attributes...)
}

// Attribute looks up an attribute value case-insensitively
func (a *AssemblyName) Attribute(key string) (string, bool) {
	for _, attr := range a.attributes {
		if strings.EqualFold(attr.Key, key) {
			return attr.Value, true
		}
	}
	return "", false
}

// Version returns the Version attribute, if any
func (a *AssemblyName) Version() string {
	v, _ := a.Attribute("Version")
	return v
}

// FullName returns the normalised display name
func (a *AssemblyName) FullName() string {
	var b strings.Builder
	b.WriteString(a.name)
	for _, attr := range a.attributes {
		b.WriteString(", ")
		b.WriteString(attr.Key)
		b.WriteByte('=')
		b.WriteString(attr.Value)
	}
	return b.String()
}

func (a *AssemblyName) String() string { return a.FullName() }

// NamespaceName is a dotted namespace
type NamespaceName struct {
	fullName string
}

// ParseNamespaceName validates a dotted namespace name
func ParseNamespaceName(s string) (*NamespaceName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("namespace name is empty")
	}
	for _, seg := range strings.Split(s, ".") {
		if !ValidIdentifier(seg) {
			return nil, fmt.Errorf("invalid namespace segment %q in %q", seg, s)
		}
	}
	return &NamespaceName{fullName: s}, nil
}

func (n *NamespaceName) symbolName() {}

// Kind returns KindNamespace
func (n *NamespaceName) Kind() Kind { return KindNamespace }

// FullName returns the dotted name
func (n *NamespaceName) FullName() string { return n.fullName }

// Name returns the last segment
func (n *NamespaceName) Name() string {
	return n.fullName[strings.LastIndexByte(n.fullName, '.')+1:]
}

func (n *NamespaceName) String() string { return n.fullName }

// ModuleName is a module inside an assembly. Modules have no reference form.
type ModuleName struct {
	name string
}

// NewModuleName creates a module name
func NewModuleName(name string) *ModuleName {
	return &ModuleName{name: name}
}

func (m *ModuleName) symbolName() {}

// Kind returns KindModule
func (m *ModuleName) Kind() Kind { return KindModule }

// FullName returns the module name
func (m *ModuleName) FullName() string { return m.name }

func (m *ModuleName) String() string { return m.name }

// OpaqueName carries the kinds the model knows about but does not structure:
// resources, locals, aliases, attributes and interned locations.
type OpaqueName struct {
	kind Kind
	name string
}

// NewOpaqueName creates an opaque name of the given kind
func NewOpaqueName(kind Kind, name string) *OpaqueName {
	return &OpaqueName{kind: kind, name: name}
}

func (o *OpaqueName) symbolName() {}

// Kind returns the kind given at construction
func (o *OpaqueName) Kind() Kind { return o.kind }

// FullName returns the name given at construction
func (o *OpaqueName) FullName() string { return o.name }

func (o *OpaqueName) String() string { return o.name }
