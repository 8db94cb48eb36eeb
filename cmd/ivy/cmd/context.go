package cmd

import (
	"context"

	"github.com/go-ivy/ivy/pkg/config"
)

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Resolved) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFrom returns the configuration resolved for the running command.
func configFrom(ctx context.Context) *config.Resolved {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Resolved); ok {
			return cfg
		}
	}
	cfg, _ := (&config.Config{}).Resolve()
	return cfg
}
