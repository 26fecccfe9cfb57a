package document

import (
	"context"
	"fmt"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Parser derives folding ranges from a JSON document.
// A JSON document is a valid parenthesized JavaScript expression, so the javascript grammar is used
// with a single leading parenthesis that shifts columns but never lines.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a document parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	return &Parser{parser: parser}
}

// Parse is a convenience function parsing src with a new Parser
func Parse(ctx context.Context, src []byte) (*Ranges, error) {
	return NewParser().Parse(ctx, src)
}

// Parse returns ranges for every object or array spanning more than one line
func (p *Parser) Parse(ctx context.Context, src []byte) (*Ranges, error) {
	wrapped := make([]byte, 0, len(src)+2)
	wrapped = append(wrapped, '(')
	wrapped = append(wrapped, src...)
	wrapped = append(wrapped, '\n', ')')
	tree, err := p.parser.ParseCtx(ctx, nil, wrapped)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer tree.Close()
	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: syntax error", ErrDecode)
	}
	value := topLevelValue(root)
	if value == nil {
		return nil, fmt.Errorf("%w: no value", ErrDecode)
	}
	var ranges []*Range
	collect(value, wrapped, Path{}, &ranges)
	result := NewRanges(ranges)
	if result.Fingerprint, err = Fingerprint(src); err != nil {
		return nil, err
	}
	return result, nil
}

// topLevelValue unwraps program > expression_statement > parenthesized_expression
func topLevelValue(root *sitter.Node) *sitter.Node {
	node := root
	for node != nil {
		switch node.Type() {
		case "object", "array":
			return node
		case "program", "expression_statement", "parenthesized_expression":
			node = firstNamedChild(node)
		default:
			return nil
		}
	}
	return nil
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		return child
	}
	return nil
}

func collect(node *sitter.Node, src []byte, path Path, ranges *[]*Range) {
	switch node.Type() {
	case "object":
		addRange(node, path, ranges)
		for i := 0; i < int(node.NamedChildCount()); i++ {
			pair := node.NamedChild(i)
			if pair.Type() != "pair" {
				continue
			}
			key := pair.ChildByFieldName("key")
			value := pair.ChildByFieldName("value")
			if key == nil || value == nil {
				continue
			}
			collect(value, src, append(clonePath(path), Property(propertyName(key, src))), ranges)
		}
	case "array":
		addRange(node, path, ranges)
		index := 0
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "comment" {
				continue
			}
			collect(child, src, append(clonePath(path), Index(index)), ranges)
			index++
		}
	}
}

func addRange(node *sitter.Node, path Path, ranges *[]*Range) {
	startLine := int(node.StartPoint().Row)
	closeLine := int(node.EndPoint().Row)
	if closeLine <= startLine {
		return
	}
	*ranges = append(*ranges, &Range{StartLine: startLine, EndLine: closeLine - 1, Path: path})
}

func propertyName(key *sitter.Node, src []byte) string {
	text := key.Content(src)
	if key.Type() == "string" {
		if unquoted, err := strconv.Unquote(text); err == nil {
			return unquoted
		}
		if len(text) >= 2 {
			return text[1 : len(text)-1]
		}
	}
	return text
}

func clonePath(path Path) Path {
	result := make(Path, len(path), len(path)+1)
	copy(result, path)
	return result
}
