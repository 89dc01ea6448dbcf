// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/widgets/pkg/config"
)

// SourceOptions selects an option source.
type SourceOptions struct {
	Source string
	All    bool
}

// AddSourceArgs registers --source on cmd and its subcommands.
func AddSourceArgs(cmd *cobra.Command, o *SourceOptions) {
	cmd.PersistentFlags().StringVar(&o.Source, "source", "",
		`Option source to use, defaults to the configured "source".`)
}

// AddAllSourcesArg registers flags that operate on every source.
func AddAllSourcesArg(cmd *cobra.Command, o *SourceOptions) {
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Use every source.")
}

// Resolve returns the flag value or the configured default.
func (o *SourceOptions) Resolve(cfg *config.Config) string {
	if o.Source != "" {
		return o.Source
	}
	if cfg != nil && cfg.Source != "" {
		return cfg.Source
	}
	return config.DefaultSource
}
