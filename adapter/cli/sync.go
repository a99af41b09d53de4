package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull events from the connected calendar",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		if c.SyncService == nil {
			return fmt.Errorf("calendar sync is not configured")
		}

		result, err := c.SyncService.Pull(cmd.Context(), currentUserID())
		if err != nil {
			return err
		}
		if !result.Connected {
			fmt.Println("Not connected. Run `lifedash auth connect` first.")
			return nil
		}
		fmt.Printf("Synced %d calendar(s): %d added, %d updated, %d removed, %d unchanged\n",
			result.Calendars, result.Added, result.Updated, result.Removed, result.Unchanged)
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sync connection state",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		if c.SyncService == nil {
			return fmt.Errorf("calendar sync is not configured")
		}

		conn := c.SyncService.Connection(currentUserID())
		if conn == nil {
			fmt.Println("Not connected.")
			return nil
		}
		fmt.Printf("Last synced: %s\n", conn.LastSyncedAt.Format("Mon Jan 2 2006 15:04"))
		for _, cal := range conn.Calendars {
			selected := " "
			if cal.Selected {
				selected = "x"
			}
			fmt.Printf("[%s] %s (%s)\n", selected, cal.Name, cal.ID)
		}
		return nil
	},
}

var syncSelected bool

var syncSelectCmd = &cobra.Command{
	Use:   "select <calendar-id>",
	Short: "Include or exclude a calendar from future pulls",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		if c.SyncService == nil {
			return fmt.Errorf("calendar sync is not configured")
		}
		if err := c.SyncService.SelectCalendar(currentUserID(), args[0], syncSelected); err != nil {
			return err
		}
		fmt.Println("Updated.")
		return nil
	},
}

func init() {
	syncSelectCmd.Flags().BoolVar(&syncSelected, "on", true, "select (true) or deselect (false)")
	syncCmd.AddCommand(syncStatusCmd, syncSelectCmd)
	rootCmd.AddCommand(syncCmd)
}
