package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	RegisterCommand(func() *cobra.Command {
		return &cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Args:  cobra.NoArgs,
			// Does not need ivy.yaml.
			PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
			Run: func(c *cobra.Command, _ []string) {
				fmt.Fprintf(c.OutOrStdout(), "Ivy CLI version %s (built %s)\n", Version, BuildTime)
			},
		}
	})
}
