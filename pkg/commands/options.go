package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/widgets/pkg/commands/options"
	"tableflip.dev/widgets/pkg/config"
	"tableflip.dev/widgets/pkg/store"
)

// loadCatalog opens the catalog named by the configuration, loading it
// first when no command has done so yet.
func loadCatalog() (store.Catalog, error) {
	if cfg.Path == "" {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		*cfg = *loaded
	}
	return store.Load(cfg)
}

func addOptions(topLevel *cobra.Command) {
	so := &options.SourceOptions{}

	cmd := &cobra.Command{
		Use:   "options",
		Short: base.Wrap80("Manage the option sources a combobox can follow. Running comboboxes pick up changes as they happen."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddSourceArgs(cmd, so)
	_ = cmd.RegisterFlagCompletionFunc("source", sourceCompletions)

	cmd.AddCommand(&cobra.Command{
		Use:   "add KEY [LABEL]",
		Short: "Append an option to a source.",
		Example: `
widgets options add Apple
widgets options add apple "Green apple" --source fruit
`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog()
			if err != nil {
				return oo.HandleError(err)
			}
			label := args[0]
			if len(args) > 1 {
				label = args[1]
			}
			_, err = c.Add(so.Resolve(cfg), args[0], label)
			return oo.HandleError(err)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm KEY",
		Aliases: []string{"remove"},
		Short:   "Remove an option from a source.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog()
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(c.Remove(so.Resolve(cfg), args[0]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "relabel OLD NEW [LABEL]",
		Short: "Change the key and label of an option.",
		Example: `
widgets options relabel A A2
`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog()
			if err != nil {
				return oo.HandleError(err)
			}
			label := args[1]
			if len(args) > 2 {
				label = args[2]
			}
			return oo.HandleError(c.Relabel(so.Resolve(cfg), args[0], args[1], label))
		},
	})

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the options of a source, or every source with --all.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog()
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			sources := []string{so.Resolve(cfg)}
			if so.All {
				sources = c.Sources(ctx)
			}
			var all []store.Option
			for _, s := range sources {
				all = append(all, c.List(ctx, s)...)
			}
			return oo.HandleError(printOptions(all, oo.JSON))
		},
	}
	options.AddAllSourcesArg(ls, so)
	base.AddOutputArg(ls, oo)
	cmd.AddCommand(ls)

	topLevel.AddCommand(cmd)
}

func printOptions(all []store.Option, asJSON bool) error {
	if asJSON {
		if all == nil {
			all = []store.Option{}
		}
		b, err := json.Marshal(all)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("SOURCE"), bold.Sprint("KEY"), bold.Sprint("LABEL"), bold.Sprint("ID"))
	for _, o := range all {
		tbl.AddRow(o.Source, o.Key, o.Label, color.New(color.Faint).Sprint(o.ID))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	return nil
}
