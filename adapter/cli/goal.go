package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lifedash/lifedash/internal/goals/application"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Track measurable goals",
}

var (
	goalTarget float64
	goalUnit   string
	goalDesc   string
	goalDue    string
	goalAll    bool
)

var goalAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		command := application.CreateGoalCommand{
			UserID:      currentUserID(),
			Title:       args[0],
			Description: goalDesc,
			Target:      goalTarget,
			Unit:        goalUnit,
		}
		if goalDue != "" {
			due, err := time.Parse(time.DateOnly, goalDue)
			if err != nil {
				return fmt.Errorf("--due must be YYYY-MM-DD")
			}
			command.DueDate = &due
		}

		goal, err := c.GoalService.CreateGoal(cmd.Context(), command)
		if err != nil {
			return err
		}
		fmt.Printf("Created goal %s: %s (target %g %s)\n", goal.ID(), goal.Title, goal.TargetValue, goal.Unit)
		return nil
	},
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		goals, err := c.GoalService.ListGoals(cmd.Context(), currentUserID(), !goalAll)
		if err != nil {
			return err
		}
		if len(goals) == 0 {
			fmt.Println("No goals yet.")
			return nil
		}
		now := time.Now()
		for _, goal := range goals {
			state := fmt.Sprintf("%.0f%%", goal.Progress())
			if goal.Completed {
				state = "done"
			} else if goal.IsOverdue(now) {
				state += " overdue"
			}
			fmt.Printf("%s  %-28s %g/%g %s  [%s]\n",
				goal.ID(), goal.Title, goal.CurrentValue, goal.TargetValue, goal.Unit, state)
		}
		return nil
	},
}

var goalProgressCmd = &cobra.Command{
	Use:   "progress <id> <amount>",
	Short: "Add progress toward a goal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		goalID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid goal id")
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("amount must be a number")
		}

		goal, err := c.GoalService.AddProgress(cmd.Context(), currentUserID(), goalID, amount)
		if err != nil {
			return err
		}
		if goal.Completed {
			fmt.Printf("%s completed!\n", goal.Title)
		} else {
			fmt.Printf("%s: %g/%g %s (%.0f%%)\n",
				goal.Title, goal.CurrentValue, goal.TargetValue, goal.Unit, goal.Progress())
		}
		return nil
	},
}

func init() {
	goalAddCmd.Flags().Float64Var(&goalTarget, "target", 0, "target value")
	goalAddCmd.Flags().StringVar(&goalUnit, "unit", "", "unit of measure")
	goalAddCmd.Flags().StringVar(&goalDesc, "desc", "", "description")
	goalAddCmd.Flags().StringVar(&goalDue, "due", "", "due date (YYYY-MM-DD)")
	_ = goalAddCmd.MarkFlagRequired("target")
	goalListCmd.Flags().BoolVar(&goalAll, "all", false, "include completed goals")

	goalCmd.AddCommand(goalAddCmd, goalListCmd, goalProgressCmd)
	rootCmd.AddCommand(goalCmd)
}
