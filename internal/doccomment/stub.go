//go:build !cgo

package doccomment

import (
	"context"
)

// Parser is a stub when CGO is not available.
type Parser struct{}

// NewParser returns a stub parser.
func NewParser() *Parser {
	return &Parser{}
}

// Comments always fails with ErrNoCGO.
func (p *Parser) Comments(ctx context.Context, source []byte) ([]Comment, error) {
	return nil, ErrNoCGO
}

// IsAvailable returns whether tree-sitter parsing is compiled in.
func IsAvailable() bool {
	return false
}
