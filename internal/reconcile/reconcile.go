// Package reconcile merges a patch text into a master text block by block.
package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/sokinpui/weave/internal/segment"
	"github.com/sokinpui/weave/model"
)

// DefaultUnchangedMarker in a patch block means "keep the master's version".
const DefaultUnchangedMarker = "/* Unchanged */"

const blockSeparator = "\n\n"

// Options configures a merge. Zero values select the defaults.
type Options struct {
	Keyword         string
	UnchangedMarker string
	// Segmenter overrides the keyword-based BraceSegmenter.
	Segmenter segment.Segmenter
}

// Result is the merged text plus a record of how it was assembled.
type Result struct {
	Text        string
	HeaderFrom  model.Side
	Blocks      []model.BlockOutcome
	Diagnostics []model.Diagnostic
}

// Replaced returns the names of blocks taken from the patch, in output order.
func (r Result) Replaced() []string {
	return r.namesFrom(model.SidePatch)
}

// Kept returns the names of blocks taken from the master, in output order.
func (r Result) Kept() []string {
	return r.namesFrom(model.SideMaster)
}

// Dropped returns the names of patch-only blocks that were not emitted.
func (r Result) Dropped() []string {
	var names []string
	for _, d := range r.Diagnostics {
		if d.Kind == model.DiagDropped {
			names = append(names, d.Block)
		}
	}
	return names
}

func (r Result) namesFrom(side model.Side) []string {
	names := lo.FilterMap(r.Blocks, func(b model.BlockOutcome, _ int) (string, bool) {
		return b.Name, b.From == side
	})
	return lo.Uniq(names)
}

// Merge rebuilds master with the blocks patch changed.
//
// The output header is the patch header unless it is blank. Blocks are
// emitted in the order their names occur in master. A block comes from the
// patch unless the patch block contains the unchanged marker, in which case
// the master block is used. Blocks that exist only in the patch are dropped.
func Merge(master, patch string, opts Options) Result {
	seg := opts.Segmenter
	if seg == nil {
		seg = segment.New(opts.Keyword)
	}
	marker := opts.UnchangedMarker
	if marker == "" {
		marker = DefaultUnchangedMarker
	}

	m := seg.Segment(master)
	p := seg.Segment(patch)

	res := Result{
		Diagnostics: append(tag(m.Diagnostics, model.SideMaster), tag(p.Diagnostics, model.SidePatch)...),
	}

	var b strings.Builder
	if strings.TrimSpace(p.Header) != "" {
		b.WriteString(p.Header)
		res.HeaderFrom = model.SidePatch
	} else {
		b.WriteString(m.Header)
		res.HeaderFrom = model.SideMaster
	}

	order := seg.Order(master)
	emitted := make(map[string]int, len(order))
	for _, name := range order {
		patchText, inPatch := p.Blocks[name]
		unchanged := inPatch && strings.Contains(patchText, marker)

		var outcome model.BlockOutcome
		switch masterText, inMaster := m.Blocks[name]; {
		case inPatch && !unchanged:
			b.WriteString(patchText)
			outcome = model.BlockOutcome{Name: name, From: model.SidePatch}
		case inMaster:
			b.WriteString(masterText)
			outcome = model.BlockOutcome{Name: name, From: model.SideMaster, Unchanged: unchanged}
		default:
			res.Diagnostics = append(res.Diagnostics, model.Diagnostic{
				Kind:    model.DiagOrphan,
				Side:    model.SideMaster,
				Block:   name,
				Message: fmt.Sprintf("%q is named in master but has no block; skipped", name),
			})
			continue
		}
		b.WriteString(blockSeparator)
		res.Blocks = append(res.Blocks, outcome)

		emitted[name]++
		if emitted[name] == 2 {
			res.Diagnostics = append(res.Diagnostics, model.Diagnostic{
				Kind:    model.DiagRepeated,
				Side:    outcome.From,
				Block:   name,
				Message: fmt.Sprintf("block %q is emitted more than once", name),
			})
		}
	}

	res.Diagnostics = append(res.Diagnostics, droppedBlocks(p.Blocks, order)...)
	res.Text = strings.TrimSpace(b.String())
	return res
}

// MergeText is Merge with only a keyword, returning just the merged text.
func MergeText(master, patch, keyword string) string {
	return Merge(master, patch, Options{Keyword: keyword}).Text
}

func droppedBlocks(patchBlocks map[string]string, order []string) []model.Diagnostic {
	inOrder := lo.SliceToMap(order, func(name string) (string, struct{}) {
		return name, struct{}{}
	})
	names := lo.Filter(lo.Keys(patchBlocks), func(name string, _ int) bool {
		_, ok := inOrder[name]
		return !ok
	})
	sort.Strings(names)

	diags := make([]model.Diagnostic, 0, len(names))
	for _, name := range names {
		diags = append(diags, model.Diagnostic{
			Kind:    model.DiagDropped,
			Side:    model.SidePatch,
			Block:   name,
			Message: fmt.Sprintf("block %q is not in master; dropped", name),
		})
	}
	return diags
}

func tag(diags []model.Diagnostic, side model.Side) []model.Diagnostic {
	out := make([]model.Diagnostic, len(diags))
	for i, d := range diags {
		d.Side = side
		out[i] = d
	}
	return out
}
