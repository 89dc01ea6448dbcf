// Package commands wires the widgets CLI.
package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/widgets/pkg/config"
)

var (
	oo  = &base.OutputOptions{}
	cfg = &config.Config{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "widgets",
		Short: base.Wrap80("Terminal combobox and date picker widgets, with an option store they can follow live."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addCombobox(topLevel)
	addDatePicker(topLevel)
	addCalendar(topLevel)
	addOptions(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
