// Package cmd implements the ivy CLI commands.
//
// Each command registers itself from an init function; NewRootCommand
// assembles a fresh command tree from the registered constructors.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ivy/ivy/pkg/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Commands registered with the CLI, in registration order.
var commands []func() *cobra.Command

// RegisterCommand adds a command constructor to the CLI.
func RegisterCommand(newCmd func() *cobra.Command) {
	commands = append(commands, newCmd)
}

// options holds the global flags.
type options struct {
	configDir string
}

// NewRootCommand builds the ivy command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "ivy <command> [flags]",
		Short: "Ivy - declarative data binding for markup",
		Long: `Ivy binds markup to observable data through data-bind attributes.

The CLI validates binding attributes and renders markup bound against
YAML fixture data, using the settings in ivy.yaml when present.

Use "ivy <command> --help" for more information about a command.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config", "", "Directory holding ivy.yaml (default: nearest parent with one)")
	for _, newCmd := range commands {
		sub := newCmd()
		if sub.PersistentPreRunE != nil {
			root.AddCommand(sub)
			continue
		}
		sub.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			c.SetContext(withConfig(c.Context(), cfg))
			return nil
		}
		root.AddCommand(sub)
	}
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *options) resolve() (*config.Resolved, error) {
	dir := o.configDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if dir, err = config.FindProjectRoot(wd); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Resolve(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return cfg, nil
}

// openInput opens path for reading; "-" is standard input.
func openInput(c *cobra.Command, path string) (io.Reader, func() error, error) {
	if path == "-" {
		return c.InOrStdin(), func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file %s: %w", path, err)
	}
	return f, f.Close, nil
}
