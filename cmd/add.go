package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"task-board.com/task-board/internal/services"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a task or subtask",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		due, _ := cmd.Flags().GetString("due")
		description, _ := cmd.Flags().GetString("description")
		parent, _ := cmd.Flags().GetString("parent")
		if err := requireOwner(owner); err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		task, err := a.service.Create(cmd.Context(), owner, createInput(args, due, description, parent))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", task.ID)
		return nil
	},
}

// createInput maps the flags onto a CreateInput. Empty flags stay nil so
// Create reports a missing due date instead of guessing one.
func createInput(args []string, due, description, parent string) services.CreateInput {
	in := services.CreateInput{Title: strings.Join(args, " ")}
	if due != "" {
		in.DueDate = &due
	}
	if description != "" {
		in.Description = &description
	}
	if parent != "" {
		in.ParentTaskID = &parent
	}
	return in
}

func init() {
	addCmd.Flags().String("owner", "", "owner id")
	addCmd.Flags().String("due", "", "due date as YYYY-MM-DD (required)")
	addCmd.Flags().String("description", "", "optional description")
	addCmd.Flags().String("parent", "", "id of the main task this is a subtask of")
	rootCmd.AddCommand(addCmd)
}
