// Package diff renders what a merge changed as a unified diff.
package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of context lines around each hunk.
const DefaultContext = 3

// Stat counts changed lines in a unified diff.
type Stat struct {
	Hunks   int
	Added   int
	Removed int
}

func (s Stat) String() string {
	return fmt.Sprintf("%d hunk(s), +%d -%d", s.Hunks, s.Added, s.Removed)
}

// Unified returns a unified diff from before to after, labelled a/name and
// b/name. It returns "" when the texts are equal.
func Unified(name, before, after string, context int) (string, error) {
	if before == after {
		return "", nil
	}
	if context < 0 {
		context = DefaultContext
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(ensureNewline(before)),
		B:        difflib.SplitLines(ensureNewline(after)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  context,
	}
	out, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("failed to render diff for %s: %w", name, err)
	}
	return out, nil
}

// Count tallies hunks and added/removed lines, skipping file headers.
func Count(unified string) Stat {
	var s Stat
	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			continue
		case strings.HasPrefix(line, "@@"):
			s.Hunks++
		case strings.HasPrefix(line, "+"):
			s.Added++
		case strings.HasPrefix(line, "-"):
			s.Removed++
		}
	}
	return s
}

// Merged text is trimmed, so compare whole lines including the last one.
func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
