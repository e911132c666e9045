package model

// Side identifies which input a block, header, or diagnostic came from.
type Side string

const (
	SideMaster Side = "master"
	SidePatch  Side = "patch"
)

// DiagnosticKind classifies a non-fatal observation made while parsing or merging.
type DiagnosticKind string

const (
	// DiagUnbalanced: a block's braces never closed, so it runs to end of text.
	DiagUnbalanced DiagnosticKind = "unbalanced"
	// DiagDuplicate: an identifier appeared more than once; the last one won.
	DiagDuplicate DiagnosticKind = "duplicate"
	// DiagNoBlocks: no block-start keyword was found.
	DiagNoBlocks DiagnosticKind = "no-blocks"
	// DiagDropped: a block exists only in the patch and was not emitted.
	DiagDropped DiagnosticKind = "dropped"
	// DiagOrphan: a name from the master order scan has no parsed master block.
	DiagOrphan DiagnosticKind = "orphan"
	// DiagRepeated: a block was emitted more than once.
	DiagRepeated DiagnosticKind = "repeated"
)

// Diagnostic is a warning surfaced alongside a result. It never changes the result.
type Diagnostic struct {
	Kind    DiagnosticKind
	Side    Side
	Block   string
	Message string
}

// BlockOutcome records where one emitted block came from.
type BlockOutcome struct {
	Name string
	From Side
	// Unchanged is set when the patch had the block but marked it unchanged.
	Unchanged bool
}

// Summary holds the results of an operation for display.
type Summary struct {
	Replaced    []string
	Kept        []string
	Dropped     []string
	Created     []string
	Written     []string
	Archived    []string
	Diagnostics []Diagnostic
	Message     string
}
