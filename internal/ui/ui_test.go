package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/sokinpui/weave/model"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevNoColor := Output, color.NoColor
	Output, color.NoColor = &buf, true
	t.Cleanup(func() {
		Output, color.NoColor = prevOut, prevNoColor
	})
	return &buf
}

func TestPrintMergeSummary(t *testing.T) {
	buf := captureOutput(t)

	PrintMergeSummary(model.Summary{
		Replaced: []string{"foo"},
		Kept:     []string{"bar", "baz"},
		Diagnostics: []model.Diagnostic{
			{Kind: model.DiagDropped, Side: model.SidePatch, Block: "qux", Message: `block "qux" is not in master; dropped`},
		},
	}, true)

	out := buf.String()
	assert.Contains(t, out, "--- Merge Summary ---")
	assert.Contains(t, out, "Replaced 1 block(s) from patch:\n  - foo\n")
	assert.Contains(t, out, "Kept 2 block(s) from master:\n  - bar\n  - baz\n")
	assert.NotContains(t, out, "Dropped")
	assert.Contains(t, out, `[patch] dropped: block "qux" is not in master; dropped`)
}

func TestPrintMergeSummary_HidesDiagnostics(t *testing.T) {
	buf := captureOutput(t)

	PrintMergeSummary(model.Summary{
		Diagnostics: []model.Diagnostic{{Kind: model.DiagNoBlocks, Message: "none"}},
	}, false)

	assert.NotContains(t, buf.String(), "Diagnostics")
}

func TestPrintMergeSummary_Files(t *testing.T) {
	buf := captureOutput(t)

	PrintMergeSummary(model.Summary{
		Created: []string{"out/merged.js"},
		Written: []string{"app.js"},
	}, false)

	out := buf.String()
	assert.Contains(t, out, "Created 1 file(s):\n  - out/merged.js\n")
	assert.Contains(t, out, "Wrote 1 file(s):\n  - app.js\n")
}
