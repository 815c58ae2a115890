package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/optimistic"
	"github.com/spf13/cobra"
)

func newSubtaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage a task's subtasks",
	}

	cmd.AddCommand(
		newSubtaskAddCmd(app),
		newSubtaskToggleCmd(app),
		newSubtaskRenameCmd(app),
		newSubtaskMoveCmd(app),
		newSubtaskRemoveCmd(app),
	)

	return cmd
}

// taskAndSubtaskIDs parses "<task-id> <subtask-id>" and loads the task so
// the subtask edits have a cached entry to work on.
func taskAndSubtaskIDs(cmd *cobra.Command, app *App, args []string) (int64, int64, error) {
	taskID, err := parseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	subtaskID, err := parseID(args[1])
	if err != nil {
		return 0, 0, err
	}
	if _, err := app.Tasks.Open(cmd.Context(), taskID); err != nil {
		return 0, 0, err
	}
	return taskID, subtaskID, nil
}

func runPending(cmd *cobra.Command, p optimistic.Pending, err error) error {
	if err != nil {
		return err
	}
	return p(cmd.Context())
}

func newSubtaskAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task-id> <title|->",
		Short: "Add a subtask, or one per line from stdin with -",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if args[1] == "-" {
				block, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				created, err := app.Subtasks.BulkCreate(cmd.Context(), taskID, string(block))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.SuccessLine(fmt.Sprintf("Added %d subtasks to task #%d", len(created), taskID)))
				return nil
			}

			st, err := app.Subtasks.Create(cmd.Context(), taskID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.SuccessLine(fmt.Sprintf("Added subtask #%d to task #%d", st.ID, taskID)))
			return nil
		},
	}
}

func newSubtaskToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id> <subtask-id>",
		Short: "Mark a subtask done or not done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, subtaskID, err := taskAndSubtaskIDs(cmd, app, args)
			if err != nil {
				return err
			}
			p, err := app.Subtasks.Toggle(taskID, subtaskID)
			if err := runPending(cmd, p, err); err != nil {
				return err
			}
			task, _ := app.View.Task(taskID)
			if i := task.SubtaskIndex(subtaskID); i >= 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.SubtaskLine(task.Subtasks[i]))
			}
			return nil
		},
	}
}

func newSubtaskRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <task-id> <subtask-id> <title>",
		Short: "Rename a subtask",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, subtaskID, err := taskAndSubtaskIDs(cmd, app, args)
			if err != nil {
				return err
			}
			p, err := app.Subtasks.Rename(taskID, subtaskID, args[2])
			if err := runPending(cmd, p, err); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine(fmt.Sprintf("Renamed subtask #%d", subtaskID)))
			return nil
		},
	}
}

func newSubtaskMoveCmd(app *App) *cobra.Command {
	var up, down bool

	cmd := &cobra.Command{
		Use:   "move <task-id> <subtask-id>",
		Short: "Move a subtask one position up or down",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if up == down {
				return fmt.Errorf("pass exactly one of --up or --down")
			}
			taskID, subtaskID, err := taskAndSubtaskIDs(cmd, app, args)
			if err != nil {
				return err
			}
			delta := 1
			if up {
				delta = -1
			}
			p, err := app.Subtasks.Move(taskID, subtaskID, delta)
			if err := runPending(cmd, p, err); err != nil {
				return err
			}
			task, _ := app.View.Task(taskID)
			for i, st := range task.Subtasks {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, formatter.SubtaskLine(st))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&up, "up", false, "Move towards the top")
	cmd.Flags().BoolVar(&down, "down", false, "Move towards the bottom")
	return cmd
}

func newSubtaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id> <subtask-id>",
		Short: "Delete a subtask",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, subtaskID, err := taskAndSubtaskIDs(cmd, app, args)
			if err != nil {
				return err
			}
			p, err := app.Subtasks.Delete(taskID, subtaskID)
			if err := runPending(cmd, p, err); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine(fmt.Sprintf("Deleted subtask #%d", subtaskID)))
			return nil
		},
	}
}
