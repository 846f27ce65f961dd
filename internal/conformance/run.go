package conformance

import (
	"fmt"
	"strings"

	"coderef/internal/coderef"
)

// Result is the outcome of one case
type Result struct {
	Case   Case   `json:"case" yaml:"case"`
	Passed bool   `json:"passed" yaml:"passed"`
	Got    string `json:"got" yaml:"got"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Report is the outcome of running a suite
type Report struct {
	Suite   string   `json:"suite" yaml:"suite"`
	Path    string   `json:"path,omitempty" yaml:"path,omitempty"`
	Passed  int      `json:"passed" yaml:"passed"`
	Failed  int      `json:"failed" yaml:"failed"`
	Results []Result `json:"results" yaml:"results"`
}

// OK reports whether every case passed
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Failures returns the failed results
func (r *Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.Passed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Run checks every case of suite with opts
func Run(suite *Suite, opts coderef.Options) *Report {
	report := &Report{Suite: suite.Name, Path: suite.path}
	for _, c := range suite.Cases {
		res := runCase(c, opts)
		if res.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, res)
	}
	return report
}

func runCase(c Case, opts coderef.Options) Result {
	ref, _ := coderef.TryParseWithOptions(c.Input, opts)
	res := Result{Case: c, Got: describe(ref)}

	var reasons []string
	if c.State != "" {
		want, _ := parseState(c.State)
		if ref.State() != want {
			reasons = append(reasons, fmt.Sprintf("state is %s, want %s", ref.State(), want))
		}
	} else if ref.IsValid() != c.Valid {
		reasons = append(reasons, fmt.Sprintf("valid is %t, want %t", ref.IsValid(), c.Valid))
	}

	if c.Kind != "" {
		want, ok := coderef.ParseSymbolType(c.Kind)
		if !ok {
			reasons = append(reasons, fmt.Sprintf("unknown kind %q", c.Kind))
		} else if ref.SymbolType() != want {
			reasons = append(reasons, fmt.Sprintf("kind is %s, want %s", ref.SymbolType(), want))
		}
	}

	if c.Canonical != "" && ref.String() != c.Canonical {
		reasons = append(reasons, fmt.Sprintf("canonical is %q, want %q", ref.String(), c.Canonical))
	}

	if ref.IsValid() {
		if reason := checkStable(ref, opts); reason != "" {
			reasons = append(reasons, reason)
		}
	}

	res.Passed = len(reasons) == 0
	res.Reason = strings.Join(reasons, "; ")
	return res
}

// checkStable verifies that the canonical form parses back to an equal
// reference with the same canonical form.
func checkStable(ref coderef.Reference, opts coderef.Options) string {
	again, ok := coderef.TryParseWithOptions(ref.String(), opts)
	switch {
	case !ok:
		return fmt.Sprintf("canonical form %q does not parse", ref.String())
	case !again.Equal(ref):
		return fmt.Sprintf("canonical form %q parses to a different reference", ref.String())
	case again.String() != ref.String():
		return fmt.Sprintf("canonical form is not stable: %q then %q", ref.String(), again.String())
	case again.Hash() != ref.Hash():
		return fmt.Sprintf("hash of %q is not stable", ref.String())
	}
	return ""
}

func describe(ref coderef.Reference) string {
	if ref.IsValid() {
		return ref.String()
	}
	return fmt.Sprintf("%s %s", ref.State(), ref.SymbolType())
}
