package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/sync/errgroup"

	"github.com/sokinpui/weave/internal/ui"
)

// Stdin names standard input as a source.
const Stdin = "-"

// ErrBothStdin is returned when master and patch both ask for stdin.
var ErrBothStdin = errors.New("master and patch cannot both be read from stdin")

// Provider reads the master and patch texts.
type Provider struct {
	stdin         io.Reader
	isPiped       func() bool
	readClipboard func() (string, error)
}

// New creates a Provider backed by os.Stdin and the system clipboard.
func New() *Provider {
	return &Provider{
		stdin:         os.Stdin,
		isPiped:       stdinIsPiped,
		readClipboard: clipboard.ReadAll,
	}
}

func stdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// Load reads master and patch concurrently.
//
// masterSrc is a file path or "-". patchSrc is a file path, "-", or empty,
// in which case piped stdin is used when present and the clipboard otherwise.
// Piped stdin already claimed by the master leaves the patch on the clipboard.
func (p *Provider) Load(ctx context.Context, masterSrc, patchSrc string) (master, patch string, err error) {
	if patchSrc == "" && masterSrc != Stdin && p.isPiped() {
		patchSrc = Stdin
	}
	if masterSrc == Stdin && patchSrc == Stdin {
		return "", "", ErrBothStdin
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		master, err = p.read(ctx, "master", masterSrc)
		return err
	})
	g.Go(func() error {
		var err error
		if patchSrc == "" {
			patch, err = p.fromClipboard()
		} else {
			patch, err = p.read(ctx, "patch", patchSrc)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return master, patch, nil
}

func (p *Provider) read(ctx context.Context, role, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if src == Stdin {
		ui.Header("--- Reading %s from stdin ---", role)
		content, err := io.ReadAll(p.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read %s from stdin: %w", role, err)
		}
		return string(content), nil
	}

	ui.Header("--- Reading %s from %s ---", role, src)
	content, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read %s file: %w", role, err)
	}
	return string(content), nil
}

func (p *Provider) fromClipboard() (string, error) {
	ui.Header("--- Reading patch from clipboard ---")
	content, err := p.readClipboard()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	return content, nil
}
