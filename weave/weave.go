package weave

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/samber/lo"

	"github.com/sokinpui/weave/cli"
	"github.com/sokinpui/weave/internal/archive"
	"github.com/sokinpui/weave/internal/config"
	"github.com/sokinpui/weave/internal/diff"
	"github.com/sokinpui/weave/internal/fs"
	"github.com/sokinpui/weave/internal/nvim"
	"github.com/sokinpui/weave/internal/source"
	"github.com/sokinpui/weave/internal/ui"
	"github.com/sokinpui/weave/model"
)

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// editor is the part of the Neovim manager the app uses.
type editor interface {
	LoadBuffers(changes []nvim.BufferChange, progressCb func(int)) (updated, failed []string)
	SaveAllBuffers() error
	Close()
}

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	project          *config.ProjectConfig
	root             string
	sourceProvider   *source.Provider
	progressCallback ProgressUpdate

	stdout     io.Writer
	copyResult func(string) error
	openEditor func() (editor, error)
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance. Project config fills in any setting not
// given explicitly on the command line.
func New(cfg *cli.Config) (*App, error) {
	root, err := fs.FindProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to locate project root: %w", err)
	}

	var project *config.ProjectConfig
	if cfg.ConfigPath != "" {
		project, err = config.LoadFile(cfg.ConfigPath)
	} else {
		project, err = config.Load(root)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}
	applyProjectConfig(cfg, project)

	return &App{
		cfg:            cfg,
		project:        project,
		root:           root,
		sourceProvider: source.New(),
		stdout:         os.Stdout,
		copyResult:     clipboard.WriteAll,
		openEditor: func() (editor, error) {
			return nvim.New()
		},
	}, nil
}

func applyProjectConfig(cfg *cli.Config, project *config.ProjectConfig) {
	if project.Keyword != "" && !cfg.Set["keyword"] {
		cfg.Keyword = project.Keyword
	}
	if project.UnchangedMarker != "" && !cfg.Set["marker"] {
		cfg.UnchangedMarker = project.UnchangedMarker
	}
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// Execute loads both inputs, merges them, and sends the result to every
// sink the flags select.
func (a *App) Execute(ctx context.Context) (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	master, patch, err := a.sourceProvider.Load(ctx, a.cfg.Master, a.cfg.Patch)
	if err != nil {
		return model.Summary{}, err
	}

	res, err := MergeDetailed(master, patch, Config{
		Keyword:         a.cfg.Keyword,
		UnchangedMarker: a.cfg.UnchangedMarker,
		Markdown:        a.cfg.Markdown,
	})
	if err != nil {
		return model.Summary{}, err
	}

	summary = model.Summary{
		Replaced:    res.Replaced(),
		Kept:        res.Kept(),
		Dropped:     res.Dropped(),
		Diagnostics: res.Diagnostics,
	}
	if res.Text == trimmed(master) {
		summary.Message = "Merged result is identical to master."
	}

	if err := a.emit(master, res.Text, &summary); err != nil {
		return summary, err
	}
	summary.Created = fs.Relativize(summary.Created)
	summary.Written = fs.Relativize(summary.Written)
	summary.Archived = fs.Relativize(summary.Archived)
	return summary, nil
}

// emit writes merged to the configured sinks, recording what it touched.
func (a *App) emit(master, merged string, summary *model.Summary) error {
	if a.cfg.Diff {
		if err := a.printDiff(master, merged); err != nil {
			return err
		}
	} else if a.cfg.StdoutOnly() {
		fmt.Fprintln(a.stdout, merged)
	}

	if a.cfg.Output != "" {
		if err := writeFile(a.cfg.Output, merged, summary); err != nil {
			return err
		}
	}

	if a.cfg.Write {
		if err := a.writeMaster(master, merged, summary); err != nil {
			return err
		}
	}

	if a.cfg.Copy {
		if err := a.copyResult(merged); err != nil {
			return fmt.Errorf("failed to copy result to clipboard: %w", err)
		}
		ui.Success("Result copied to clipboard.")
	}

	if a.cfg.Nvim {
		return a.loadIntoEditor(merged, summary)
	}
	return nil
}

func (a *App) printDiff(master, merged string) error {
	contextLines := a.project.DiffContext
	if contextLines == 0 {
		contextLines = diff.DefaultContext
	}
	name := filepath.Base(a.cfg.Master)
	if a.cfg.Master == source.Stdin {
		name = "stdin"
	}

	unified, err := diff.Unified(name, withNewline(trimmed(master)), withNewline(merged), contextLines)
	if err != nil {
		return err
	}
	if unified == "" {
		ui.Info("No changes.")
		return nil
	}
	ui.Info("Diff: %s", diff.Count(unified))
	fmt.Fprint(a.stdout, unified)
	return nil
}

func (a *App) writeMaster(master, merged string, summary *model.Summary) error {
	if withNewline(merged) == master {
		ui.Info("Master is already up to date: %s", a.cfg.Master)
		return nil
	}

	if !a.cfg.NoArchive {
		m, err := archive.New(a.root, a.project.ArchiveDir)
		if err != nil {
			return err
		}
		backup, err := m.Backup(a.cfg.Master)
		if err != nil {
			return err
		}
		if backup != "" {
			summary.Archived = append(summary.Archived, backup)
		}
	}

	return writeFile(a.cfg.Master, merged, summary)
}

// writeFile writes merged to path and files it under Created or Written.
func writeFile(path, merged string, summary *model.Summary) error {
	action, err := fs.WriteText(path, withNewline(merged))
	if err != nil {
		return err
	}
	if action == fs.ActionCreate {
		summary.Created = append(summary.Created, path)
	} else {
		summary.Written = append(summary.Written, path)
	}
	return nil
}

// loadIntoEditor puts merged into the master's Neovim buffer and, unless
// buffer-only mode is on, saves it.
func (a *App) loadIntoEditor(merged string, summary *model.Summary) error {
	ed, err := a.openEditor()
	if err != nil {
		return err
	}
	defer ed.Close()

	changes := []nvim.BufferChange{{Path: a.cfg.Master, Content: merged}}
	total := len(changes)
	var nvimProgressCb func(int)
	if a.progressCallback != nil {
		a.progressCallback(0, total)
		nvimProgressCb = func(current int) {
			a.progressCallback(current, total)
		}
	}

	updated, failed := ed.LoadBuffers(changes, nvimProgressCb)
	if len(failed) > 0 {
		return fmt.Errorf("failed to update Neovim buffer for %s", failed[0])
	}
	if a.cfg.Buffer || len(updated) == 0 {
		return nil
	}
	if err := ed.SaveAllBuffers(); err != nil {
		return err
	}
	for _, p := range updated {
		if !lo.Contains(summary.Written, p) {
			summary.Written = append(summary.Written, p)
		}
	}
	return nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// withNewline terminates file content with a single newline.
func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
