package coderef

import (
	"strings"
	"unicode"

	"coderef/internal/symbolname"
)

// parameterData is one parameter slot after splitting. A blank slot has
// neither text nor type. A slot whose type did not resolve keeps its text.
type parameterData struct {
	text      string
	paramType *symbolname.TypeName
}

func (p parameterData) resolved() bool {
	return p.text == "" || p.paramType != nil
}

// splitParameters splits a parameter list on top-level commas and resolves
// each slot against ctx. Empty text is an empty list.
func splitParameters(text string, ctx GenericNameContext) ([]parameterData, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, true
	}
	segments, ok := splitOutside(text, ',')
	if !ok {
		return nil, false
	}
	params := make([]parameterData, len(segments))
	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		params[i].text = seg
		if t, ok := parseTypeName(seg, ctx); ok {
			params[i].paramType = t
		}
	}
	return params, true
}

// resolveParameters converts slots into parameter names, failing on the first
// slot whose type could not be resolved.
func resolveParameters(slots []parameterData) ([]*symbolname.ParameterName, bool) {
	params := make([]*symbolname.ParameterName, 0, len(slots))
	for _, slot := range slots {
		if !slot.resolved() {
			return nil, false
		}
		params = append(params, symbolname.NewParameterName("", slot.paramType))
	}
	return params, true
}

// splitConversionOperator reads the legacy "Source to Target" spelling of a
// conversion operator's parameter list. The word "to" must appear exactly
// once with whitespace on both sides.
func splitConversionOperator(text string) (params, returnType string, ok bool) {
	at := -1
	for i := 0; i+2 <= len(text); i++ {
		if text[i:i+2] != "to" {
			continue
		}
		if i == 0 || i+2 >= len(text) {
			continue
		}
		if !unicode.IsSpace(rune(text[i-1])) || !unicode.IsSpace(rune(text[i+2])) {
			continue
		}
		if at >= 0 {
			return "", "", false
		}
		at = i
	}
	if at < 0 {
		return "", "", false
	}
	params = strings.TrimSpace(text[:at])
	returnType = strings.TrimSpace(text[at+2:])
	if params == "" || returnType == "" {
		return "", "", false
	}
	return params, returnType, true
}
