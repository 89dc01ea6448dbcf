package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/widgets/pkg/calendar"
)

const layoutMonth = "2006-01"

// MonthOptions selects a month to print.
type MonthOptions struct {
	MonthString string
}

func AddMonthArgs(cmd *cobra.Command, o *MonthOptions) {
	cmd.Flags().StringVar(&o.MonthString, "month", "",
		`Month to show, example: --month="2025-06". Defaults to this month.`)
}

// GetMonth returns the first day of the requested month, or of the month
// containing now.
func (o *MonthOptions) GetMonth(now func() time.Time) (calendar.Date, error) {
	if o.MonthString == "" {
		return calendar.StartOfMonth(calendar.Today(now)), nil
	}
	t, err := time.Parse(layoutMonth, o.MonthString)
	if err != nil {
		return calendar.Date{}, err
	}
	return calendar.FromTime(t), nil
}

// InteractiveOptions configures the interactive widget commands.
type InteractiveOptions struct {
	Value  string
	Events bool
	Stay   bool
}

func AddInteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().StringVar(&o.Value, "value", "",
		`Initial value, defaults to the configured "value".`)
	cmd.Flags().BoolVar(&o.Events, "events", false,
		"Show the widget event log.")
	cmd.Flags().BoolVar(&o.Stay, "stay", false,
		"Keep running after a value is committed; quit with ctrl+c.")
}
