package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ivy/ivy/pkg/binding"
	"github.com/go-ivy/ivy/pkg/dom"
	"github.com/go-ivy/ivy/pkg/reactive"
)

func init() {
	RegisterCommand(func() *cobra.Command {
		return &cobra.Command{
			Use:   "check FILE...",
			Short: "Validate binding attributes",
			Long: `Parse each markup file and every binding attribute in it.

Reports malformed binding clauses and directive names no binder is
registered for. Nothing is bound, so no data is needed. Exits non-zero
when any problem is found.`,
			Args: cobra.MinimumNArgs(1),
			RunE: runCheck,
		}
	})
}

func runCheck(c *cobra.Command, args []string) error {
	cfg := configFrom(c.Context())
	w := binding.NewWalker(reactive.NewRuntime(), cfg.WalkerOptions()...)
	out := c.OutOrStdout()

	problems := 0
	for _, path := range args {
		in, closeFn, err := openInput(c, path)
		if err != nil {
			return err
		}
		root, err := dom.Parse(in)
		closeFn()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, d := range w.Validate(root) {
			problems++
			fmt.Fprintf(out, "%s: %s: %s: %v\n", path, d.Kind, d.Node, d.Err)
		}
	}
	if problems > 0 {
		return fmt.Errorf("%d binding problem(s) found", problems)
	}
	fmt.Fprintf(out, "%d file(s) ok\n", len(args))
	return nil
}
