// Package markdown pulls code out of fenced blocks in pasted chat output.
package markdown

import (
	"strings"

	"github.com/samber/lo"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence is one fenced code block.
type Fence struct {
	// Lang is the info string's language, e.g. "js" or "diff". Empty for a bare fence.
	Lang string
	// Code is the text between the fences, line endings included.
	Code string
}

// Fences returns every fenced code block in source, in document order.
func Fences(source []byte) ([]Fence, error) {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var fences []Fence
	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		fenced, ok := node.(*ast.FencedCodeBlock)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		fences = append(fences, Fence{
			Lang: string(fenced.Language(source)),
			Code: string(fenced.Lines().Value(source)),
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return fences, nil
}

// ExtractCode returns the code inside content's fenced blocks, joined by a
// blank line. Diff blocks are skipped. Content without any fenced code is
// returned unchanged.
func ExtractCode(content string) (string, error) {
	fences, err := Fences([]byte(content))
	if err != nil {
		return "", err
	}

	parts := lo.FilterMap(fences, func(f Fence, _ int) (string, bool) {
		return strings.TrimRight(f.Code, "\n"), f.Lang != "diff"
	})
	if len(parts) == 0 {
		return content, nil
	}
	return strings.Join(parts, "\n\n"), nil
}
