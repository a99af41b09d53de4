package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lifedash/lifedash/internal/habits/application"
	"github.com/lifedash/lifedash/internal/habits/domain"
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Track recurring habits",
}

var (
	habitFrequency string
	habitDesc      string
	habitAll       bool
	habitLogDay    string
)

var habitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		habit, err := c.HabitService.CreateHabit(cmd.Context(), application.CreateHabitCommand{
			UserID:      currentUserID(),
			Name:        args[0],
			Description: habitDesc,
			Frequency:   domain.Frequency(habitFrequency),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created habit %s: %s (%s)\n", habit.ID(), habit.Name(), habit.Frequency())
		return nil
	},
}

var habitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		habits, err := c.HabitService.ListHabits(cmd.Context(), currentUserID(), !habitAll)
		if err != nil {
			return err
		}
		if len(habits) == 0 {
			fmt.Println("No habits yet.")
			return nil
		}
		for _, habit := range habits {
			status := ""
			if habit.IsArchived() {
				status = " (archived)"
			}
			fmt.Printf("%s  %-24s %-9s streak %d (best %d)%s\n",
				habit.ID(), habit.Name(), habit.Frequency(), habit.Streak(), habit.BestStreak(), status)
		}
		return nil
	},
}

var habitDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List habits still due today",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		habits, err := c.HabitService.DueToday(cmd.Context(), currentUserID())
		if err != nil {
			return err
		}
		if len(habits) == 0 {
			fmt.Println("All done for today.")
			return nil
		}
		for _, habit := range habits {
			fmt.Printf("%s  %s\n", habit.ID(), habit.Name())
		}
		return nil
	},
}

var habitLogCmd = &cobra.Command{
	Use:   "log <id>",
	Short: "Mark a habit done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		habitID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid habit id")
		}
		var day time.Time
		if habitLogDay != "" {
			day, err = time.Parse(time.DateOnly, habitLogDay)
			if err != nil {
				return fmt.Errorf("--day must be YYYY-MM-DD")
			}
		}
		habit, err := c.HabitService.LogCompletion(cmd.Context(), currentUserID(), habitID, day)
		if err != nil {
			return err
		}
		fmt.Printf("%s logged, streak %d\n", habit.Name(), habit.Streak())
		return nil
	},
}

var habitArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		habitID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid habit id")
		}
		if err := c.HabitService.ArchiveHabit(cmd.Context(), currentUserID(), habitID); err != nil {
			return err
		}
		fmt.Println("Archived.")
		return nil
	},
}

func init() {
	habitAddCmd.Flags().StringVar(&habitFrequency, "frequency", "daily", "daily, weekly, weekdays, or weekends")
	habitAddCmd.Flags().StringVar(&habitDesc, "desc", "", "description")
	habitListCmd.Flags().BoolVar(&habitAll, "all", false, "include archived habits")
	habitLogCmd.Flags().StringVar(&habitLogDay, "day", "", "backfill day (YYYY-MM-DD)")

	habitCmd.AddCommand(habitAddCmd, habitListCmd, habitDueCmd, habitLogCmd, habitArchiveCmd)
	rootCmd.AddCommand(habitCmd)
}
