package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/sokinpui/weave/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

// Output receives all log lines. stdout is reserved for merged text.
var Output io.Writer = os.Stderr

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(Output, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(Output, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(Output, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(Output, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(Output, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(Output, "  "+format+"\n", a...)
}

// Diagnostics prints each diagnostic as a warning.
func Diagnostics(diags []model.Diagnostic) {
	for _, d := range diags {
		if d.Side != "" {
			Warning("  [%s] %s: %s", d.Side, d.Kind, d.Message)
		} else {
			Warning("  %s: %s", d.Kind, d.Message)
		}
	}
}

// --- Summaries ---

func PrintMergeSummary(s model.Summary, showDiagnostics bool) {
	Header("\n--- Merge Summary ---")
	if s.Message != "" {
		Info(s.Message)
	}

	printList(SuccessColor, "Replaced %d block(s) from patch:", s.Replaced)
	printList(InfoColor, "Kept %d block(s) from master:", s.Kept)
	printList(WarningColor, "Dropped %d patch-only block(s):", s.Dropped)
	printList(SuccessColor, "Created %d file(s):", s.Created)
	printList(SuccessColor, "Wrote %d file(s):", s.Written)
	printList(InfoColor, "Archived %d file(s):", s.Archived)

	if showDiagnostics && len(s.Diagnostics) > 0 {
		Warning("Diagnostics:")
		Diagnostics(s.Diagnostics)
	}
}

func printList(c *color.Color, title string, items []string) {
	if len(items) == 0 {
		return
	}
	c.Fprintf(Output, title+"\n", len(items))
	for _, item := range items {
		fmt.Fprintf(Output, "  - %s\n", item)
	}
}
