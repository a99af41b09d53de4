package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lifedash/lifedash/internal/jobs/application"
	"github.com/lifedash/lifedash/internal/jobs/domain"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Track job applications",
}

var (
	jobRole   string
	jobNotes  string
	jobStatus string
)

var jobAddCmd = &cobra.Command{
	Use:   "add <company>",
	Short: "Track a new application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		app, err := c.JobService.CreateApplication(cmd.Context(), application.CreateApplicationCommand{
			UserID:  currentUserID(),
			Company: args[0],
			Role:    jobRole,
			Notes:   jobNotes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Tracking %s at %s (%s)\n", app.Role, app.Company, app.Status)
		return nil
	},
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		apps, err := c.JobService.ListApplications(cmd.Context(), currentUserID(), domain.Status(jobStatus))
		if err != nil {
			return err
		}
		if len(apps) == 0 {
			fmt.Println("No applications.")
			return nil
		}
		for _, app := range apps {
			applied := ""
			if app.AppliedOn != nil {
				applied = "applied " + app.AppliedOn.Format("Jan 2 2006")
			}
			fmt.Printf("%s  %-20s %-24s %-12s %s\n", app.ID(), app.Company, app.Role, app.Status, applied)
		}
		return nil
	},
}

var jobAdvanceCmd = &cobra.Command{
	Use:   "advance <id> <status>",
	Short: "Move an application to the next stage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		appID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid application id")
		}
		app, err := c.JobService.AdvanceApplication(cmd.Context(), currentUserID(), appID, domain.Status(args[1]))
		if err != nil {
			return err
		}
		fmt.Printf("%s at %s is now %s\n", app.Role, app.Company, app.Status)
		return nil
	},
}

var jobSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the pipeline by stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		summary, err := c.JobService.PipelineSummary(cmd.Context(), currentUserID())
		if err != nil {
			return err
		}
		stages := []domain.Status{
			domain.StatusWishlist, domain.StatusApplied, domain.StatusInterviewing,
			domain.StatusOffer, domain.StatusAccepted, domain.StatusRejected, domain.StatusWithdrawn,
		}
		for _, stage := range stages {
			if count := summary[stage]; count > 0 {
				fmt.Printf("%-13s %d\n", stage, count)
			}
		}
		return nil
	},
}

func init() {
	jobAddCmd.Flags().StringVar(&jobRole, "role", "", "role applied for")
	jobAddCmd.Flags().StringVar(&jobNotes, "notes", "", "free-form notes")
	_ = jobAddCmd.MarkFlagRequired("role")
	jobListCmd.Flags().StringVar(&jobStatus, "status", "", "filter by stage")

	jobCmd.AddCommand(jobAddCmd, jobListCmd, jobAdvanceCmd, jobSummaryCmd)
	rootCmd.AddCommand(jobCmd)
}
