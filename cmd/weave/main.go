package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/sokinpui/weave/cli"
	"github.com/sokinpui/weave/internal/tui"
	"github.com/sokinpui/weave/internal/ui"
	"github.com/sokinpui/weave/weave"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	app, err := weave.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// The result goes to stdout, so the TUI must stay out of the way.
	if cfg.StdoutOnly() || cfg.NoAnimation {
		summary, err := app.Execute(context.Background())
		if err != nil {
			var detailed *weave.DetailedError
			if errors.As(err, &detailed) {
				fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
			}
			ui.Error("Error: %v", err)
			os.Exit(1)
		}
		if !cfg.StdoutOnly() {
			ui.PrintMergeSummary(summary, cfg.Diagnostics)
		} else if cfg.Diagnostics {
			ui.Diagnostics(summary.Diagnostics)
		}
		return
	}

	model := tui.New(app, cfg)
	p := tea.NewProgram(model)
	model.SetProgram(p)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	if model.Err() != nil {
		os.Exit(1)
	}
}
