package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Keep free-form notes",
}

var (
	noteBody  string
	noteQuery string
)

var noteAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		note, err := c.NoteService.CreateNote(cmd.Context(), currentUserID(), args[0], noteBody)
		if err != nil {
			return err
		}
		fmt.Printf("Created note %s: %s\n", note.ID(), note.Title)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		notes, err := c.NoteService.ListNotes(cmd.Context(), currentUserID(), noteQuery)
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			fmt.Println("No notes found.")
			return nil
		}
		for _, note := range notes {
			fmt.Printf("%s  %-28s %s\n", note.ID(), note.Title, note.UpdatedAt().Format("Jan 2 15:04"))
		}
		return nil
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		noteID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid note id")
		}
		note, err := c.NoteService.GetNote(cmd.Context(), currentUserID(), noteID)
		if err != nil {
			return err
		}
		fmt.Println(note.Title)
		fmt.Println()
		fmt.Println(note.Body)
		return nil
	},
}

var noteRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireContainer()
		if err != nil {
			return err
		}
		noteID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid note id")
		}
		if err := c.NoteService.DeleteNote(cmd.Context(), currentUserID(), noteID); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func init() {
	noteAddCmd.Flags().StringVar(&noteBody, "body", "", "note body")
	noteListCmd.Flags().StringVar(&noteQuery, "search", "", "filter by title or body")

	noteCmd.AddCommand(noteAddCmd, noteListCmd, noteShowCmd, noteRemoveCmd)
	rootCmd.AddCommand(noteCmd)
}
