package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/widgets/pkg/commands/options"
	"tableflip.dev/widgets/pkg/keynav"
	"tableflip.dev/widgets/pkg/tui/components/datepicker"
	"tableflip.dev/widgets/pkg/tui/harness"
	"tableflip.dev/widgets/pkg/tui/registry"
	"tableflip.dev/widgets/pkg/tui/theme"
)

func addDatePicker(topLevel *cobra.Command) {
	io := &options.InteractiveOptions{}
	vim := false

	cmd := &cobra.Command{
		Use:   "datepicker",
		Short: base.Wrap80("Pick a date from a calendar. Type a date as 2006-01-02 or browse with the arrow keys; pgup and pgdown page."),
		Example: `
widgets datepicker
widgets datepicker --value 2025-06-15
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTerminal(); err != nil {
				return err
			}
			km := datePickerKeymap(vim)

			reg := registry.New()
			th := theme.Auto()
			w := datepicker.New(datepicker.Options{
				ID:       "datepicker",
				Registry: reg,
				Theme:    th,
				Keymap:   km,
			})
			w.Configure(datepicker.Config{InitialValue: io.Value})
			if err := w.Mount(); err != nil {
				return err
			}
			defer w.Unmount()

			return runHarness(harness.New(w, harness.Options{
				Title:        "Date",
				Registry:     reg,
				Theme:        th,
				QuitOnCommit: !io.Stay,
				ShowEvents:   io.Events,
			}))
		},
	}

	options.AddInteractiveArgs(cmd, io)
	cmd.Flags().BoolVar(&vim, "vim", false, "Also navigate with hjkl and page with [ and ].")

	topLevel.AddCommand(cmd)
}

// datePickerKeymap keeps [ and ] typeable unless vim keys are asked for.
func datePickerKeymap(vim bool) keynav.Keymap {
	km := keynav.DefaultKeymap()
	if vim {
		km = km.WithVim()
	}
	return km
}
