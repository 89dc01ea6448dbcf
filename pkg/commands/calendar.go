package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/widgets/pkg/calendar"
	"tableflip.dev/widgets/pkg/commands/options"
	"tableflip.dev/widgets/pkg/tui/components/datepicker"
)

func addCalendar(topLevel *cobra.Command) {
	mo := &options.MonthOptions{}

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the six week grid of a month.",
		Example: `
widgets calendar
widgets calendar --month 2025-06
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := mo.GetMonth(time.Now)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(color.Output, renderMonth(month, calendar.Today(time.Now), datepicker.DefaultFormatter{}))
			return nil
		},
	}

	options.AddMonthArgs(cmd, mo)
	topLevel.AddCommand(cmd)
}

// renderMonth prints the month grid with days of neighbouring months faint
// and today underlined.
func renderMonth(month, today calendar.Date, f datepicker.Formatter) string {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	mark := color.New(color.Bold, color.Underline)

	var b strings.Builder
	b.WriteString(bold.Sprint(f.MonthYear(month)))
	b.WriteString("\n")

	names := make([]string, 0, calendar.MonthColumns)
	for _, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		names = append(names, fmt.Sprintf("%-2s", f.Weekday(wd)))
	}
	b.WriteString(faint.Sprint(strings.Join(names, " ")))
	b.WriteString("\n")

	cells := calendar.BuildMonthGrid(month, nil, today)
	for row := 0; row < calendar.MonthRows; row++ {
		out := make([]string, 0, calendar.MonthColumns)
		for _, c := range cells[row*calendar.MonthColumns : (row+1)*calendar.MonthColumns] {
			text := fmt.Sprintf("%2d", c.Date.Day)
			switch {
			case c.IsToday:
				text = mark.Sprint(text)
			case !c.InCurrentMonth:
				text = faint.Sprint(text)
			}
			out = append(out, text)
		}
		b.WriteString(strings.Join(out, " "))
		b.WriteString("\n")
	}
	return b.String()
}
