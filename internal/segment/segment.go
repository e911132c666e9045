// Package segment splits source text into a header and named,
// brace-delimited blocks.
//
// Block boundaries are found textually: a keyword, an identifier, and the
// first '{' after it start a block, and a depth counter over '{' and '}'
// ends it. Braces inside string literals or comments are counted like any
// other brace. That is a known limitation of BraceSegmenter; a
// language-aware Segmenter can replace it without changing callers.
package segment

import (
	"fmt"
	"regexp"

	"github.com/sokinpui/weave/model"
)

// DefaultKeyword starts a block when no keyword is configured.
const DefaultKeyword = "function"

// Span is one keyword match and the extent of its block.
type Span struct {
	Name  string
	Start int
	End   int
	// Truncated is set when the closing brace was never found.
	Truncated bool
}

// Parsed is the result of segmenting one text.
type Parsed struct {
	// Header is everything before the first block, or the whole text if
	// there are no blocks.
	Header string
	// Blocks maps a block name to its full text. Later occurrences of a
	// name overwrite earlier ones.
	Blocks map[string]string
	// Spans lists every match in positional order, overwritten ones included.
	Spans       []Span
	Diagnostics []model.Diagnostic
}

// Segmenter finds blocks in text.
type Segmenter interface {
	// Segment splits text into a header and named blocks.
	Segment(text string) Parsed
	// Order returns every block name occurrence in positional order,
	// without deduplication.
	Order(text string) []string
}

// BraceSegmenter implements Segmenter with a keyword pattern and a brace
// depth counter. It is safe for concurrent use.
type BraceSegmenter struct {
	keyword string
	block   *regexp.Regexp
	name    *regexp.Regexp
}

var _ Segmenter = (*BraceSegmenter)(nil)

// space matches any Unicode whitespace, not just ASCII \s.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

// New returns a BraceSegmenter for keyword, or DefaultKeyword if keyword is empty.
func New(keyword string) *BraceSegmenter {
	if keyword == "" {
		keyword = DefaultKeyword
	}
	quoted := regexp.QuoteMeta(keyword)
	return &BraceSegmenter{
		keyword: keyword,
		block:   regexp.MustCompile(quoted + space + `+([a-zA-Z0-9_]+)` + space + `*.*?\{`),
		name:    regexp.MustCompile(quoted + space + `+([a-zA-Z0-9_]+)`),
	}
}

// Keyword returns the block-start keyword.
func (s *BraceSegmenter) Keyword() string {
	return s.keyword
}

// Segment implements Segmenter.
func (s *BraceSegmenter) Segment(text string) Parsed {
	matches := s.block.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return Parsed{
			Header: text,
			Blocks: map[string]string{},
			Diagnostics: []model.Diagnostic{{
				Kind:    model.DiagNoBlocks,
				Message: fmt.Sprintf("no %q blocks found", s.keyword),
			}},
		}
	}

	p := Parsed{
		Header: text[:matches[0][0]],
		Blocks: make(map[string]string, len(matches)),
		Spans:  make([]Span, 0, len(matches)),
	}
	for _, m := range matches {
		name := text[m[2]:m[3]]
		end, closed := closingBrace(text, m[1])
		span := Span{Name: name, Start: m[0], End: end, Truncated: !closed}

		if span.Truncated {
			p.Diagnostics = append(p.Diagnostics, model.Diagnostic{
				Kind:    model.DiagUnbalanced,
				Block:   name,
				Message: fmt.Sprintf("block %q has unbalanced braces; it runs to end of text", name),
			})
		}
		if _, seen := p.Blocks[name]; seen {
			p.Diagnostics = append(p.Diagnostics, model.Diagnostic{
				Kind:    model.DiagDuplicate,
				Block:   name,
				Message: fmt.Sprintf("block %q appears more than once; the last occurrence wins", name),
			})
		}

		p.Blocks[name] = text[span.Start:span.End]
		p.Spans = append(p.Spans, span)
	}
	return p
}

// Order implements Segmenter.
func (s *BraceSegmenter) Order(text string) []string {
	matches := s.name.FindAllStringSubmatch(text, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// closingBrace scans from pos, just past an opening brace, and returns the
// index after the brace that balances it. If the text ends first, it
// returns len(text) and false.
func closingBrace(text string, pos int) (int, bool) {
	depth := 1
	for ; pos < len(text); pos++ {
		switch text[pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return pos + 1, true
			}
		}
	}
	return len(text), false
}

// Parse splits text into a header and blocks using keyword.
func Parse(text, keyword string) (string, map[string]string) {
	p := New(keyword).Segment(text)
	return p.Header, p.Blocks
}
