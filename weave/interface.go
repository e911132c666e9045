package weave

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/sokinpui/weave/internal/markdown"
	"github.com/sokinpui/weave/internal/reconcile"
	"github.com/sokinpui/weave/internal/segment"
)

// ErrEmptyInput is returned when the master or patch text is blank.
var ErrEmptyInput = errors.New("input is empty")

// Result describes a merge: the text plus where each block came from.
type Result = reconcile.Result

// Config for using weave as a library.
type Config struct {
	// Keyword that starts a block. Default "function".
	Keyword string
	// UnchangedMarker keeps the master's version of a patch block. Default "/* Unchanged */".
	UnchangedMarker string
	// Markdown takes the patch's code from its fenced blocks. The master is
	// always used as-is.
	Markdown bool
}

// Merge folds patch into master and returns the merged text.
func Merge(master, patch string, config Config) (string, error) {
	res, err := MergeDetailed(master, patch, config)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// MergeDetailed is Merge with the block outcomes and diagnostics.
func MergeDetailed(master, patch string, config Config) (Result, error) {
	if config.Markdown {
		var err error
		if patch, err = markdown.ExtractCode(patch); err != nil {
			return Result{}, fmt.Errorf("failed to read patch markdown: %w", err)
		}
	}
	if err := validateInputs(master, patch); err != nil {
		return Result{}, err
	}

	return reconcile.Merge(master, patch, reconcile.Options{
		Keyword:         config.Keyword,
		UnchangedMarker: config.UnchangedMarker,
	}), nil
}

// Parse splits text into its header and a map of block name to block text.
func Parse(text, keyword string) (string, map[string]string) {
	return segment.Parse(text, keyword)
}

func validateInputs(master, patch string) error {
	var result *multierror.Error
	if strings.TrimSpace(master) == "" {
		result = multierror.Append(result, fmt.Errorf("master: %w", ErrEmptyInput))
	}
	if strings.TrimSpace(patch) == "" {
		result = multierror.Append(result, fmt.Errorf("patch: %w", ErrEmptyInput))
	}
	return result.ErrorOrNil()
}
