//go:build cgo

package doccomment

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

// Parser extracts comments from C# source with tree-sitter.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a C# comment parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(csharp.GetLanguage())
	return &Parser{parser: p}
}

// Comments returns the documentation comments of a C# file in source order.
func (p *Parser) Comments(ctx context.Context, source []byte) ([]Comment, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	var comments []Comment
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if node.Type() == "comment" {
			text := node.Content(source)
			if IsDocComment(text) {
				start := node.StartPoint()
				comments = append(comments, Comment{
					Text:   text,
					Line:   int(start.Row) + 1,
					Column: int(start.Column) + 1,
				})
			}
			return
		}
		for i := uint32(0); i < node.ChildCount(); i++ {
			walk(node.Child(int(i)))
		}
	}
	walk(tree.RootNode())
	return comments, nil
}

// IsAvailable returns whether tree-sitter parsing is compiled in.
func IsAvailable() bool {
	return true
}
