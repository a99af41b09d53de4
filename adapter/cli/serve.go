package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifedash/lifedash/adapter/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}

		cfg := api.DefaultServerConfig()
		if serveAddr != "" {
			cfg.Addr = serveAddr
		} else if c.Config.APIAddr != "" {
			cfg.Addr = c.Config.APIAddr
		}

		handlers := api.Handlers{
			Calendar: api.NewCalendarHandler(c.CalendarService, c.UserID, c.Logger),
			Habits:   api.NewHabitHandler(c.HabitService, c.UserID, c.Logger),
			Goals:    api.NewGoalHandler(c.GoalService, c.UserID, c.Logger),
			Notes:    api.NewNoteHandler(c.NoteService, c.UserID, c.Logger),
			Jobs:     api.NewJobHandler(c.JobService, c.UserID, c.Logger),
		}
		if c.SyncService != nil {
			handlers.Sync = api.NewSyncHandler(c.SyncService, c.OAuthService, c.UserID, c.Logger)
		}

		server := api.NewServer(cfg, handlers, c.Logger)

		errCh := make(chan error, 1)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides API_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
