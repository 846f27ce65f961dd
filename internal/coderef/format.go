package coderef

import (
	"fmt"
	"strconv"
	"strings"

	"coderef/internal/symbolname"
)

// FormatName renders a resolved name as the body of a code reference, the
// part after "X:". Kinds without a reference form return an error.
func FormatName(n symbolname.Name) (string, error) {
	if symbolname.IsNil(n) {
		return "", fmt.Errorf("nil name")
	}
	f := &formatter{}
	if err := f.name(n); err != nil {
		return "", err
	}
	return f.b.String(), nil
}

type formatter struct {
	b strings.Builder
}

func (f *formatter) name(n symbolname.Name) error {
	switch v := n.(type) {
	case *symbolname.TypeName:
		return f.typeName(v)
	case *symbolname.MethodName:
		return f.method(v)
	case *symbolname.PropertyName:
		if err := f.memberBody(v.DeclaringType(), v.Name()); err != nil {
			return err
		}
		if len(v.Parameters()) > 0 {
			return f.parameters(v.Parameters())
		}
		return nil
	case *symbolname.FieldName:
		return f.memberBody(v.DeclaringType(), v.Name())
	case *symbolname.EventName:
		return f.memberBody(v.DeclaringType(), v.Name())
	case *symbolname.NamespaceName:
		f.b.WriteString(v.FullName())
		return nil
	case *symbolname.AssemblyName:
		f.b.WriteString(v.FullName())
		return nil
	default:
		return fmt.Errorf("%s names have no code reference form", n.Kind())
	}
}

func (f *formatter) typeName(t *symbolname.TypeName) error {
	switch t.Kind() {
	case symbolname.KindType:
		if decl := t.DeclaringType(); decl != nil {
			if err := f.typeName(decl); err != nil {
				return err
			}
			f.b.WriteByte('.')
			f.b.WriteString(t.Name())
			return nil
		}
		if ns := t.Namespace(); ns != "" {
			f.b.WriteString(ns)
			f.b.WriteByte('.')
		}
		f.b.WriteString(t.Name())
		return nil

	case symbolname.KindGenericInstanceType:
		def := t.Definition()
		if decl := def.DeclaringType(); decl != nil {
			if err := f.typeName(decl); err != nil {
				return err
			}
			f.b.WriteByte('.')
		} else if ns := def.Namespace(); ns != "" {
			f.b.WriteString(ns)
			f.b.WriteByte('.')
		}
		f.b.WriteString(def.BareName())
		f.b.WriteByte('{')
		for i, arg := range t.GenericArguments() {
			if i > 0 {
				f.b.WriteByte(',')
			}
			if err := f.typeName(arg); err != nil {
				return err
			}
		}
		f.b.WriteByte('}')
		return nil

	case symbolname.KindGenericParameter:
		if t.IsMethodParameter() {
			f.b.WriteString("``")
		} else {
			f.b.WriteByte('`')
		}
		f.b.WriteString(strconv.Itoa(t.Position()))
		return nil

	case symbolname.KindArrayType:
		if t.ArrayRank() != 1 {
			return fmt.Errorf("array of rank %d has no code reference form", t.ArrayRank())
		}
		if err := f.typeName(t.ElementType()); err != nil {
			return err
		}
		f.b.WriteString("[]")
		return nil

	case symbolname.KindPointerType:
		if err := f.typeName(t.ElementType()); err != nil {
			return err
		}
		f.b.WriteByte('*')
		return nil

	case symbolname.KindByReferenceType:
		if err := f.typeName(t.ElementType()); err != nil {
			return err
		}
		f.b.WriteByte('@')
		return nil
	}
	return fmt.Errorf("unexpected type kind %s", t.Kind())
}

func (f *formatter) memberBody(decl *symbolname.TypeName, name string) error {
	if decl != nil {
		if err := f.typeName(decl); err != nil {
			return err
		}
		f.b.WriteByte('.')
	}
	f.b.WriteString(mangleMemberName(name))
	return nil
}

func (f *formatter) method(m *symbolname.MethodName) error {
	if err := f.memberBody(m.DeclaringType(), m.Name()); err != nil {
		return err
	}
	if m.GenericArity() > 0 {
		f.b.WriteString("``")
		f.b.WriteString(strconv.Itoa(m.GenericArity()))
	}
	if args := m.GenericArguments(); len(args) > 0 {
		f.b.WriteByte('{')
		for i, arg := range args {
			if i > 0 {
				f.b.WriteByte(',')
			}
			if err := f.typeName(arg); err != nil {
				return err
			}
		}
		f.b.WriteByte('}')
	}
	if len(m.Parameters()) > 0 {
		if err := f.parameters(m.Parameters()); err != nil {
			return err
		}
	}
	if rt := m.ReturnType(); rt != nil {
		f.b.WriteByte('~')
		return f.typeName(rt)
	}
	return nil
}

func (f *formatter) parameters(params []*symbolname.ParameterName) error {
	f.b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			f.b.WriteByte(',')
		}
		if p == nil {
			continue
		}
		if t := p.ParameterType(); t != nil {
			if err := f.typeName(t); err != nil {
				return err
			}
		}
	}
	f.b.WriteByte(')')
	return nil
}
