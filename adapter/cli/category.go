package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage event categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		categories, err := c.CalendarService.Categories(cmd.Context(), currentUserID())
		if err != nil {
			return err
		}
		for _, category := range categories {
			visible := " "
			if category.IsVisible {
				visible = "x"
			}
			fmt.Printf("[%s] %-12s %s (%s)\n", visible, category.ID, category.Name, category.Color.Value)
		}
		return nil
	},
}

var categoryToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a category's visibility",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		category, err := c.CalendarService.ToggleCategory(cmd.Context(), currentUserID(), args[0])
		if err != nil {
			return err
		}
		state := "hidden"
		if category.IsVisible {
			state = "visible"
		}
		fmt.Printf("%s is now %s\n", category.Name, state)
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(categoryListCmd, categoryToggleCmd)
	rootCmd.AddCommand(categoryCmd)
}
