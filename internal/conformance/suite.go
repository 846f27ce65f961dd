// Package conformance runs TOML suites of code references against the parser
// and records new suites from observed behavior.
package conformance

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"

	"coderef/internal/coderef"
)

// Case is one expectation. State, when set, takes precedence over Valid.
// Kind and Canonical are only checked when non-empty.
type Case struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Input     string `json:"input" yaml:"input" toml:"input"`
	Valid     bool   `json:"valid" yaml:"valid" toml:"valid"`
	State     string `json:"state,omitempty" yaml:"state,omitempty" toml:"state,omitempty"`
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Canonical string `json:"canonical,omitempty" yaml:"canonical,omitempty" toml:"canonical,omitempty"`
}

// Label names the case in reports
func (c Case) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Input
}

// Suite is a named list of cases
type Suite struct {
	Name        string `toml:"name"`
	Description string `toml:"description,omitempty"`
	Cases       []Case `toml:"case"`

	path string
}

// Path returns the file the suite was loaded from, if any
func (s *Suite) Path() string {
	return s.path
}

// LoadSuite reads a suite file. Unknown keys are rejected so that typos in
// expectations do not silently pass.
func LoadSuite(path string) (*Suite, error) {
	var suite Suite
	md, err := toml.DecodeFile(path, &suite)
	if err != nil {
		return nil, fmt.Errorf("failed to parse suite %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("suite %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	for _, c := range suite.Cases {
		if c.State != "" {
			if _, ok := parseState(c.State); !ok {
				return nil, fmt.Errorf("suite %s: case %q: unknown state %q", path, c.Label(), c.State)
			}
		}
		if c.Kind != "" {
			if _, ok := coderef.ParseSymbolType(c.Kind); !ok {
				return nil, fmt.Errorf("suite %s: case %q: unknown kind %q", path, c.Label(), c.Kind)
			}
		}
	}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	suite.path = path
	return &suite, nil
}

// WriteSuite writes suite as TOML to path
func WriteSuite(path string, suite *Suite) error {
	data, err := gotoml.Marshal(suite)
	if err != nil {
		return fmt.Errorf("failed to encode suite: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Snapshot records the current behavior for inputs as a suite. Duplicate
// inputs are dropped and cases are sorted by input.
func Snapshot(name string, inputs []string, opts coderef.Options) *Suite {
	seen := make(map[string]bool, len(inputs))
	suite := &Suite{Name: name}
	for _, in := range inputs {
		if seen[in] {
			continue
		}
		seen[in] = true

		ref, _ := coderef.TryParseWithOptions(in, opts)
		c := Case{
			Input: in,
			Valid: ref.IsValid(),
			State: string(ref.State()),
		}
		if ref.SymbolType() != coderef.SymbolTypeUnknown {
			c.Kind = string(ref.SymbolType())
		}
		if ref.IsValid() {
			c.Canonical = ref.String()
		}
		suite.Cases = append(suite.Cases, c)
	}
	sort.Slice(suite.Cases, func(i, j int) bool {
		return suite.Cases[i].Input < suite.Cases[j].Input
	})
	return suite
}

func parseState(s string) (coderef.State, bool) {
	switch st := coderef.State(strings.ToLower(s)); st {
	case coderef.StateValid, coderef.StateInvalid, coderef.StateUnspecified:
		return st, true
	}
	return "", false
}
