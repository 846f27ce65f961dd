package coderef

import "fmt"

// Location is a 1-based position in a source file.
type Location struct {
	Path   string `json:"path" yaml:"path"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Column)
}

// Occurrence is a reference found at a location.
type Occurrence struct {
	Location  `yaml:",inline"`
	Reference Reference `json:"reference" yaml:"reference"`
}
