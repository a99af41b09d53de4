package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifedash/lifedash/internal/calendar/domain"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Calendar views",
}

var (
	viewDate     string
	viewCategory string
	viewFrom     string
	viewTo       string
)

var viewMonthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Show the month grid",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}

		now := time.Now()
		year, month := now.Year(), now.Month()
		if len(args) == 1 {
			parsed, err := time.Parse("2006-01", args[0])
			if err != nil {
				return fmt.Errorf("month must be YYYY-MM")
			}
			year, month = parsed.Year(), parsed.Month()
		}

		cells, err := c.CalendarService.MonthView(cmd.Context(), currentUserID(), year, month, viewFilter())
		if err != nil {
			return err
		}

		fmt.Printf("%s %d\n", month, year)
		fmt.Println("Sun        Mon        Tue        Wed        Thu        Fri        Sat")
		for i, cell := range cells {
			marker := " "
			if !cell.InMonth {
				marker = "."
			}
			fmt.Printf("%s%2d(%d)", marker, cell.Day.Day(), len(cell.Events))
			if cell.Overflow > 0 {
				fmt.Printf("+%d", cell.Overflow)
			}
			if (i+1)%7 == 0 {
				fmt.Println()
			} else {
				fmt.Print("   ")
			}
		}
		return nil
	},
}

var viewWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the week around a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		day, err := viewDay()
		if err != nil {
			return err
		}

		columns, err := c.CalendarService.WeekView(cmd.Context(), currentUserID(), day, viewFilter())
		if err != nil {
			return err
		}
		for _, col := range columns {
			printDayColumn(col)
		}
		return nil
	},
}

var viewDayCmd = &cobra.Command{
	Use:   "day",
	Short: "Show a single day",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		day, err := viewDay()
		if err != nil {
			return err
		}

		column, err := c.CalendarService.DayView(cmd.Context(), currentUserID(), day, viewFilter())
		if err != nil {
			return err
		}
		printDayColumn(column)
		return nil
	},
}

var viewAgendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "List upcoming events grouped by day",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}

		from := time.Now()
		if viewFrom != "" {
			parsed, err := time.Parse(time.DateOnly, viewFrom)
			if err != nil {
				return fmt.Errorf("--from must be YYYY-MM-DD")
			}
			from = parsed
		}
		to := from.AddDate(0, 0, 14)
		if viewTo != "" {
			parsed, err := time.Parse(time.DateOnly, viewTo)
			if err != nil {
				return fmt.Errorf("--to must be YYYY-MM-DD")
			}
			to = parsed
		}

		groups, err := c.CalendarService.AgendaView(cmd.Context(), currentUserID(), from, to, viewFilter())
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Println("Nothing scheduled.")
			return nil
		}
		for _, group := range groups {
			fmt.Println(group.Day.Format("Mon Jan 2 2006"))
			for _, event := range group.Events {
				if event.IsAllDay() {
					fmt.Printf("  all day    %s\n", event.Title())
				} else {
					fmt.Printf("  %s-%s  %s\n",
						event.StartAt().Format("15:04"),
						event.EndAt().Format("15:04"),
						event.Title(),
					)
				}
			}
		}
		return nil
	},
}

func printDayColumn(col domain.DayColumn) {
	fmt.Println(col.Day.Format("Mon Jan 2 2006"))
	for _, event := range col.AllDay {
		fmt.Printf("  all day    %s\n", event.Title())
	}
	for hour, events := range col.Hours {
		for _, event := range events {
			fmt.Printf("  %02d:00      %s\n", hour, event.Title())
		}
	}
}

func viewDay() (time.Time, error) {
	if viewDate == "" {
		return time.Now(), nil
	}
	day, err := time.Parse(time.DateOnly, viewDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("--date must be YYYY-MM-DD")
	}
	return day, nil
}

func viewFilter() domain.Filter {
	return domain.Filter{CategoryID: viewCategory}
}

func init() {
	for _, cmd := range []*cobra.Command{viewWeekCmd, viewDayCmd} {
		cmd.Flags().StringVar(&viewDate, "date", "", "date (YYYY-MM-DD), defaults to today")
	}
	viewAgendaCmd.Flags().StringVar(&viewFrom, "from", "", "start date (YYYY-MM-DD)")
	viewAgendaCmd.Flags().StringVar(&viewTo, "to", "", "end date (YYYY-MM-DD)")
	viewCmd.PersistentFlags().StringVar(&viewCategory, "category", "", "filter by category id")

	viewCmd.AddCommand(viewMonthCmd, viewWeekCmd, viewDayCmd, viewAgendaCmd)
	rootCmd.AddCommand(viewCmd)
}
