package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Connect to the calendar provider",
}

var authConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Print the authorization URL to open in a browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		if c.OAuthService == nil {
			return fmt.Errorf("calendar provider is not configured")
		}

		buf := make([]byte, 16)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		state := hex.EncodeToString(buf)

		fmt.Println("Open this URL in a browser and authorize access:")
		fmt.Println()
		fmt.Println("  " + c.OAuthService.AuthURL(state))
		fmt.Println()
		fmt.Println("Then finish with:")
		fmt.Println("  lifedash auth complete <code>")
		return nil
	},
}

var authCompleteCmd = &cobra.Command{
	Use:   "complete <code>",
	Short: "Exchange the authorization code for a token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		if c.OAuthService == nil {
			return fmt.Errorf("calendar provider is not configured")
		}
		if _, err := c.OAuthService.ExchangeAndStore(cmd.Context(), currentUserID(), args[0]); err != nil {
			return err
		}
		fmt.Println("Connected. Run `lifedash sync` to pull your calendar.")
		return nil
	},
}

var authDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Remove the stored calendar session",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		if c.SyncService != nil {
			if err := c.SyncService.Disconnect(cmd.Context(), currentUserID()); err != nil {
				return err
			}
		} else if c.OAuthService != nil {
			if err := c.OAuthService.Disconnect(cmd.Context(), currentUserID()); err != nil {
				return err
			}
		}
		fmt.Println("Disconnected.")
		return nil
	},
}

func init() {
	authCmd.AddCommand(authConnectCmd, authCompleteCmd, authDisconnectCmd)
	rootCmd.AddCommand(authCmd)
}
