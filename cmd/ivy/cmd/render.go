package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ivy/ivy/pkg/binding"
	"github.com/go-ivy/ivy/pkg/dom"
	ivyerrors "github.com/go-ivy/ivy/pkg/errors"
	"github.com/go-ivy/ivy/pkg/fixture"
	"github.com/go-ivy/ivy/pkg/reactive"
)

type renderOptions struct {
	data string
	sets []string
}

func init() {
	RegisterCommand(func() *cobra.Command {
		opts := &renderOptions{}
		c := &cobra.Command{
			Use:   "render FILE",
			Short: "Bind markup against fixture data and print the result",
			Long: `Bind a markup file against YAML fixture data and print the bound markup.

Fixture mappings become scopes, sequences become observable collections
and scalars become observable values. Each --set writes a YAML value to
a path after binding, so the output shows the bound tree reacting to it.

Use "-" as FILE to read markup from standard input.`,
			Example: `  ivy render todo.html --data todo.yaml
  ivy render todo.html --data todo.yaml --set items="[milk, eggs]"`,
			Args: cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				return runRender(c, args[0], opts)
			},
		}
		c.Flags().StringVarP(&opts.data, "data", "d", "", "YAML fixture providing the root scope")
		c.Flags().StringArrayVar(&opts.sets, "set", nil, "Set PATH=VALUE after binding (repeatable)")
		return c
	})
}

func runRender(c *cobra.Command, path string, opts *renderOptions) error {
	cfg := configFrom(c.Context())
	rt := reactive.NewRuntime(reactive.WithHandler(cfg.Handler(c.ErrOrStderr())))

	var scope any = map[string]any{}
	if opts.data != "" {
		var err error
		if scope, err = fixture.LoadFile(rt, opts.data); err != nil {
			return err
		}
	}

	in, closeFn, err := openInput(c, path)
	if err != nil {
		return err
	}
	root, err := dom.Parse(in)
	closeFn()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	bound, err := binding.NewWalker(rt, cfg.WalkerOptions()...).Bind(root, binding.NewContext(scope))
	if err != nil {
		return err
	}
	defer bound.Dispose()

	for _, s := range opts.sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("--set %q: want PATH=VALUE", s)
		}
		if err := setValue(rt.Handler(), scope, strings.TrimSpace(key), value); err != nil {
			return err
		}
	}

	out := c.OutOrStdout()
	if err := dom.Render(out, root); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}

// setValue applies one --set. A binder failing on the new value panics
// with its binding error, which is returned instead. Any other panic is
// reported to h and returned as a PanicError.
func setValue(h ivyerrors.ErrorHandler, scope any, path, value string) (err error) {
	defer ivyerrors.RecoverTo(h, "ivy render --set "+path, &err)
	return fixture.Set(scope, path, value)
}
