package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
)

// Config holds all the command-line flag values.
type Config struct {
	Master          string
	Patch           string
	Keyword         string
	UnchangedMarker string
	Output          string
	ConfigPath      string
	Write           bool
	NoArchive       bool
	Copy            bool
	Nvim            bool
	Buffer          bool
	Diff            bool
	Markdown        bool
	Diagnostics     bool
	NoAnimation     bool

	// Set records which flags were given explicitly, so project config
	// only fills in the rest.
	Set map[string]bool
}

// StdoutOnly reports whether the merged text (or diff) goes only to stdout.
func (c *Config) StdoutOnly() bool {
	return c.Output == "" && !c.Write && !c.Copy && !c.Nvim
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses args into a Config.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{Set: map[string]bool{}}
	fs := pflag.NewFlagSet("weave", pflag.ContinueOnError)

	// Define flags
	fs.StringVarP(&cfg.Master, "master", "m", "", "Master (original) file. Use '-' to read it from stdin.")
	fs.StringVarP(&cfg.Patch, "patch", "p", "", "Patch (updated) file. Use '-' for stdin. Default: piped stdin unless the master uses it, else the clipboard.")
	fs.StringVarP(&cfg.Keyword, "keyword", "k", "function", "Keyword that starts a block.")
	fs.StringVar(&cfg.UnchangedMarker, "marker", "/* Unchanged */", "Marker that keeps the master's version of a patch block.")
	fs.StringVarP(&cfg.Output, "output", "o", "", "Write the merged result to this file.")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Project config file (default: .weave.yml in the project root).")
	fs.BoolVarP(&cfg.Write, "write", "w", false, "Overwrite the master file with the merged result.")
	fs.BoolVar(&cfg.NoArchive, "no-archive", false, "Do not back up the master file before --write.")
	fs.BoolVarP(&cfg.Copy, "copy", "c", false, "Copy the merged result to the clipboard.")
	fs.BoolVarP(&cfg.Nvim, "nvim", "n", false, "Load the merged result into the master's Neovim buffer and save it.")
	fs.BoolVarP(&cfg.Buffer, "buffer", "b", false, "With --nvim, update the buffer without saving it to disk.")
	fs.BoolVarP(&cfg.Diff, "diff", "d", false, "Print a unified diff from master to the merged result instead of the result.")
	fs.BoolVar(&cfg.Markdown, "markdown", false, "Take the patch code from the fenced blocks of markdown input (e.g., pasted chat replies).")
	fs.BoolVar(&cfg.Diagnostics, "diagnostics", false, "Report unbalanced, duplicate, dropped, and orphan blocks.")
	fs.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the spinner and print a plain summary.")

	fs.Usage = func() {
		fmt.Println("Usage: weave -m master.js [-p patch.js] [flags]")
		fmt.Println("\nMerge the changed blocks of a patch into a master file, keeping the master's block order.")
		fmt.Println("Patch blocks containing the unchanged marker keep the master's version.")
		fmt.Println("\nExample: pbpaste | weave -m app.js --markdown -w")
		fmt.Println("\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *pflag.Flag) {
		cfg.Set[f.Name] = true
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks flag combinations.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Master == "" {
		result = multierror.Append(result, fmt.Errorf("--master is required"))
	}
	if c.Master == "-" && c.Patch == "-" {
		result = multierror.Append(result, fmt.Errorf("--master and --patch cannot both be stdin"))
	}
	if (c.Write || c.Nvim) && c.Master == "-" {
		result = multierror.Append(result, fmt.Errorf("--write and --nvim need a master file, not stdin"))
	}
	if c.Buffer && !c.Nvim {
		result = multierror.Append(result, fmt.Errorf("--buffer requires --nvim"))
	}
	if c.NoArchive && !c.Write {
		result = multierror.Append(result, fmt.Errorf("--no-archive requires --write"))
	}
	if c.Keyword == "" {
		result = multierror.Append(result, fmt.Errorf("--keyword must not be empty"))
	}

	return result.ErrorOrNil()
}
