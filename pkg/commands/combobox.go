package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/widgets/pkg/commands/options"
	"tableflip.dev/widgets/pkg/keynav"
	"tableflip.dev/widgets/pkg/source"
	"tableflip.dev/widgets/pkg/store"
	"tableflip.dev/widgets/pkg/tui/components/combobox"
	"tableflip.dev/widgets/pkg/tui/harness"
	"tableflip.dev/widgets/pkg/tui/registry"
	"tableflip.dev/widgets/pkg/tui/theme"
)

func addCombobox(topLevel *cobra.Command) {
	so := &options.SourceOptions{}
	io := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "combobox",
		Short: base.Wrap80("Pick an option from a source with an autocomplete input. The list follows changes made with `widgets options` while it is open."),
		Example: `
widgets combobox --source fruit
widgets combobox --source fruit --value Apple --events
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTerminal(); err != nil {
				return err
			}
			c, err := loadCatalog()
			if err != nil {
				return err
			}
			id := so.Resolve(cfg)
			value := io.Value
			if value == "" {
				value = cfg.Value
			}

			reg := registry.New()
			th := theme.Auto()
			w := combobox.New(combobox.Options{
				ID:       "combobox",
				Resolver: source.NewDirectory(store.NewSource(c, id)),
				Registry: reg,
				Theme:    th,
				Keymap:   keynav.DefaultKeymap(),
			})
			if _, err := w.Configure(combobox.Config{
				OptionSourceID: id,
				InitialValue:   value,
				Name:           id,
				Placeholder:    "Type to filter " + id,
			}); err != nil {
				return err
			}
			start, err := w.Mount()
			if err != nil {
				return err
			}
			defer w.Unmount()

			return runHarness(harness.New(w, harness.Options{
				Title:        id,
				Registry:     reg,
				Theme:        th,
				Start:        start,
				QuitOnCommit: !io.Stay,
				ShowEvents:   io.Events,
			}))
		},
	}

	options.AddSourceArgs(cmd, so)
	_ = cmd.RegisterFlagCompletionFunc("source", sourceCompletions)
	options.AddInteractiveArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
