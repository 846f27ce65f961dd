package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"coderef/internal/coderef"
	"coderef/internal/symbolname"
)

var (
	parseFormat  string
	parseStrict  bool
	parseExplain bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [reference...]",
	Short: "Parse code references and report their state",
	Long: `Parse one or more documentation code references and print their state,
symbol type and canonical form. With no arguments, or "-", references are read
from stdin one per line.

Examples:
  coderef parse "M:System.String.Format(System.String,System.Object[])"
  coderef parse --format json "T:System.Collections.Generic.List{System.Int32}"
  coderef parse --strict - < refs.txt`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "human", "Output format (human, json, yaml)")
	parseCmd.Flags().BoolVar(&parseStrict, "strict", false, "Exit with status 1 when any reference is invalid")
	parseCmd.Flags().BoolVar(&parseExplain, "explain", false, "Describe the resolved name of valid references")
	addLegacyFlag(parseCmd)
	rootCmd.AddCommand(parseCmd)
}

// ParseResult is one parsed reference in parse output
type ParseResult struct {
	Input      string             `json:"input" yaml:"input"`
	State      coderef.State      `json:"state" yaml:"state"`
	SymbolType coderef.SymbolType `json:"symbolType" yaml:"symbolType"`
	Canonical  string             `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Detail     *NameDetail        `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// NameDetail describes the resolved name behind a valid reference
type NameDetail struct {
	Kind          string   `json:"kind" yaml:"kind"`
	DeclaringType string   `json:"declaringType,omitempty" yaml:"declaringType,omitempty"`
	Name          string   `json:"name,omitempty" yaml:"name,omitempty"`
	Arity         int      `json:"arity,omitempty" yaml:"arity,omitempty"`
	Arguments     []string `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Parameters    []string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	ReturnType    string   `json:"returnType,omitempty" yaml:"returnType,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := parseOutputFormat(parseFormat)
	if err != nil {
		return err
	}
	inputs, err := readInputs(args, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("reading references: %w", err)
	}

	opts := parseOptions(cmd)
	results := make([]ParseResult, 0, len(inputs))
	failed := 0
	for _, input := range inputs {
		ref, _ := coderef.TryParseWithOptions(input, opts)
		res := ParseResult{
			Input:      input,
			State:      ref.State(),
			SymbolType: ref.SymbolType(),
			Canonical:  ref.Canonical(),
		}
		if parseExplain && ref.IsValid() {
			res.Detail = describeName(ref.MetadataName())
		}
		if rejected(ref) {
			failed++
		}
		logger.Debug("Parsed reference", "input", input, "state", string(res.State))
		results = append(results, res)
	}

	err = writeOutput(cmd.OutOrStdout(), format, results, func(w io.Writer) error {
		for _, r := range results {
			shown := r.Input
			if r.State == coderef.StateValid {
				shown = string(coderef.Specifier(r.SymbolType)) + ":" + r.Canonical
			}
			fmt.Fprintf(w, "%-11s %-9s %s\n", r.State, r.SymbolType, shown)
			if r.Detail != nil {
				printDetail(w, r.Detail)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if parseStrict && failed > 0 {
		return &exitError{code: 1, msg: fmt.Sprintf("%d of %d references did not resolve", failed, len(inputs))}
	}
	return nil
}

// rejected reports whether ref fails a strict run
func rejected(ref coderef.Reference) bool {
	if ref.IsInvalid() {
		return true
	}
	return ref.IsUnspecified() && cfg != nil && !cfg.Parse.AllowUnspecified
}

func describeName(n symbolname.Name) *NameDetail {
	d := &NameDetail{Kind: string(n.Kind())}
	switch v := n.(type) {
	case *symbolname.TypeName:
		d.DeclaringType = typeFullName(v.DeclaringType())
		d.Name = v.FullName()
		d.Arity = v.GenericArity()
		d.Arguments = typeNames(v.GenericArguments())
	case *symbolname.MethodName:
		d.DeclaringType = typeFullName(v.DeclaringType())
		d.Name = v.Name()
		d.Arity = v.GenericArity()
		d.Arguments = typeNames(v.GenericArguments())
		d.Parameters = parameterNames(v.Parameters())
		d.ReturnType = typeFullName(v.ReturnType())
	case *symbolname.PropertyName:
		d.DeclaringType = typeFullName(v.DeclaringType())
		d.Name = v.Name()
		d.Parameters = parameterNames(v.Parameters())
	case *symbolname.FieldName:
		d.DeclaringType = typeFullName(v.DeclaringType())
		d.Name = v.Name()
	case *symbolname.EventName:
		d.DeclaringType = typeFullName(v.DeclaringType())
		d.Name = v.Name()
	default:
		d.Name = n.FullName()
	}
	return d
}

// typeFullName is t.FullName(), or "" when the reference left t out
func typeFullName(t *symbolname.TypeName) string {
	if t == nil {
		return ""
	}
	return t.FullName()
}

func typeNames(types []*symbolname.TypeName) []string {
	if len(types) == 0 {
		return nil
	}
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = typeFullName(t)
	}
	return out
}

// parameterNames lists parameter types; blank slots such as those in
// "M:Foo.Bar(,)" come out as "".
func parameterNames(params []*symbolname.ParameterName) []string {
	if len(params) == 0 {
		return nil
	}
	out := make([]string, len(params))
	for i, p := range params {
		if p != nil {
			out[i] = typeFullName(p.ParameterType())
		}
	}
	return out
}

func printDetail(w io.Writer, d *NameDetail) {
	fmt.Fprintf(w, "  kind:          %s\n", d.Kind)
	if d.DeclaringType != "" {
		fmt.Fprintf(w, "  declaringType: %s\n", d.DeclaringType)
	}
	if d.Name != "" {
		fmt.Fprintf(w, "  name:          %s\n", d.Name)
	}
	if d.Arity > 0 {
		fmt.Fprintf(w, "  arity:         %d\n", d.Arity)
	}
	for _, a := range d.Arguments {
		fmt.Fprintf(w, "  argument:      %s\n", a)
	}
	for _, p := range d.Parameters {
		fmt.Fprintf(w, "  parameter:     %s\n", p)
	}
	if d.ReturnType != "" {
		fmt.Fprintf(w, "  returnType:    %s\n", d.ReturnType)
	}
}
