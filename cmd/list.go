package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"task-board.com/task-board/internal/services"
	"task-board.com/task-board/internal/view"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print an owner's tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		filterName, _ := cmd.Flags().GetString("filter")
		expand, _ := cmd.Flags().GetBool("expand")
		if err := requireOwner(owner); err != nil {
			return err
		}

		filter, err := view.ParseFilter(filterName)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if expand {
			board, err := a.service.View(ctx, owner, filter)
			if err != nil {
				return err
			}
			for _, row := range board.Rows {
				if row.Expandable {
					if _, err := a.service.ToggleExpand(ctx, owner, row.Task.ID); err != nil {
						return err
					}
				}
			}
		}

		board, err := a.service.View(ctx, owner, filter)
		if err != nil {
			return err
		}

		printBoard(cmd.OutOrStdout(), board)
		return nil
	},
}

// printBoard writes the rows as pending and completed sections followed by
// the summary line. Empty sections are left out.
func printBoard(out io.Writer, board services.Board) {
	pending, completed := view.Group(board.Rows)
	sections := []struct {
		title string
		rows  []view.Row
	}{
		{"Pending", pending},
		{"Completed", completed},
	}
	for _, section := range sections {
		if len(section.rows) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s\n", section.title)
		for _, row := range section.rows {
			fmt.Fprintf(out, "  %s\n", formatRow(row))
		}
		fmt.Fprintln(out)
	}

	s := board.Summary
	fmt.Fprintf(out, "%d tasks, %d pending, %d completed, %d due today, %d overdue\n",
		s.Total, s.Pending, s.Completed, s.DueToday, s.Overdue)
}

func formatRow(row view.Row) string {
	var b strings.Builder
	if row.Kind == view.RowSubtask {
		b.WriteString("    ")
	}
	if row.Task.IsCompleted {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	b.WriteString(row.Task.Title)
	if row.Task.DueDate != nil {
		fmt.Fprintf(&b, " (due %s)", *row.Task.DueDate)
	}
	if row.SubtaskCount > 0 {
		fmt.Fprintf(&b, " %d/%d", row.CompletedSubtasks, row.SubtaskCount)
	}
	fmt.Fprintf(&b, "  %s", row.Task.ID)
	return b.String()
}

func init() {
	listCmd.Flags().String("owner", "", "owner id")
	listCmd.Flags().String("filter", "all", "all, pending or completed")
	listCmd.Flags().Bool("expand", false, "show subtasks under their parent")
	rootCmd.AddCommand(listCmd)
}
