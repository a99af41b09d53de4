package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifedash/lifedash/internal/calendar/application"
	"github.com/lifedash/lifedash/internal/calendar/domain"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage calendar events",
}

var (
	eventStart      string
	eventEnd        string
	eventAllDay     bool
	eventCategory   string
	eventLocation   string
	eventDesc       string
	eventReminders  []int
	eventRecurrence string
	eventInterval   int
)

var eventAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		start, err := parseWhen(eventStart, eventAllDay)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		end, err := parseWhen(eventEnd, eventAllDay)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}

		command := application.CreateEventCommand{
			UserID:      currentUserID(),
			Title:       args[0],
			Description: eventDesc,
			Location:    eventLocation,
			StartAt:     start,
			EndAt:       end,
			AllDay:      eventAllDay,
			CategoryID:  eventCategory,
			Reminders:   eventReminders,
		}
		if eventRecurrence != "" {
			command.Recurrence = &domain.Recurrence{
				Type:     domain.RecurrenceType(eventRecurrence),
				Interval: eventInterval,
			}
		}

		event, err := c.CalendarService.CreateEvent(cmd.Context(), command)
		if err != nil {
			return err
		}
		fmt.Printf("Created event %s: %s\n", event.ID(), event.Title())
		return nil
	},
}

var eventShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		event, err := c.CalendarService.GetEvent(cmd.Context(), currentUserID(), args[0])
		if err != nil {
			return err
		}
		printEvent(event)
		return nil
	},
}

var eventDeleteCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a local event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		if err := c.CalendarService.DeleteEvent(cmd.Context(), currentUserID(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

var eventRemindCmd = &cobra.Command{
	Use:   "remind <id> <minutes>",
	Short: "Add a reminder to an event",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		var minutes int
		if _, err := fmt.Sscanf(args[1], "%d", &minutes); err != nil {
			return fmt.Errorf("minutes must be a number")
		}
		event, err := c.CalendarService.AddReminder(cmd.Context(), currentUserID(), args[0], minutes)
		if err != nil {
			return err
		}
		fmt.Printf("Reminders: %v\n", event.Reminders())
		return nil
	},
}

func printEvent(event *domain.Event) {
	fmt.Printf("%s  %s\n", event.ID(), event.Title())
	if event.IsAllDay() {
		fmt.Printf("  %s (all day)\n", event.StartAt().Format("Mon Jan 2 2006"))
	} else {
		fmt.Printf("  %s - %s\n",
			event.StartAt().Format("Mon Jan 2 2006 15:04"),
			event.EndAt().Format("15:04"),
		)
	}
	if event.Location() != "" {
		fmt.Printf("  at %s\n", event.Location())
	}
	if event.Description() != "" {
		fmt.Printf("  %s\n", event.Description())
	}
	if event.IsRemote() {
		fmt.Println("  (from Google Calendar, read-only)")
	}
}

// parseWhen accepts a date for all-day events and a date-time otherwise.
func parseWhen(raw string, allDay bool) (time.Time, error) {
	if allDay {
		return time.ParseInLocation(time.DateOnly, raw, time.Local)
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", raw, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.RFC3339, raw, time.Local)
}

func init() {
	eventAddCmd.Flags().StringVar(&eventStart, "start", "", "start time (YYYY-MM-DD HH:MM)")
	eventAddCmd.Flags().StringVar(&eventEnd, "end", "", "end time (YYYY-MM-DD HH:MM)")
	eventAddCmd.Flags().BoolVar(&eventAllDay, "all-day", false, "all-day event")
	eventAddCmd.Flags().StringVar(&eventCategory, "category", "", "category id")
	eventAddCmd.Flags().StringVar(&eventLocation, "location", "", "location")
	eventAddCmd.Flags().StringVar(&eventDesc, "desc", "", "description")
	eventAddCmd.Flags().IntSliceVar(&eventReminders, "remind", nil, "reminder minutes before start")
	eventAddCmd.Flags().StringVar(&eventRecurrence, "repeat", "", "recurrence (daily, weekly, monthly, yearly)")
	eventAddCmd.Flags().IntVar(&eventInterval, "every", 1, "recurrence interval")
	_ = eventAddCmd.MarkFlagRequired("start")
	_ = eventAddCmd.MarkFlagRequired("end")

	eventCmd.AddCommand(eventAddCmd, eventShowCmd, eventDeleteCmd, eventRemindCmd)
	rootCmd.AddCommand(eventCmd)
}
