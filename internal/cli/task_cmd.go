package cli

import (
	"fmt"
	"strings"
	"time"

	taskapp "github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskShowCmd(app),
		newTaskEditCmd(app),
		newTaskMoveCmd(app),
		newTaskApplyTemplateCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

// parseColumn accepts a resolved status value or its board label.
func parseColumn(s string) (domain.ResolvedStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, r := range domain.ResolvedStatuses {
		if norm == string(r) || norm == strings.ToLower(strings.ReplaceAll(r.Label(), " ", "_")) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown column %q", s)
}

func parseDueDate(s string) (*time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: %w", s, err)
	}
	return &d, nil
}

func newTaskAddCmd(app *App) *cobra.Command {
	var in taskapp.TaskInput
	var status, priority, due string
	var templateID int64
	var withTemplate bool

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				in.Title = args[0]
			}
			in.Status = domain.StoredStatus(status)
			in.Priority = domain.Priority(priority)
			if due != "" {
				d, err := parseDueDate(due)
				if err != nil {
					return err
				}
				in.DueDate = d
			}

			var choice *service.TemplateChoice
			if cmd.Flags().Changed("template") {
				choice = &service.TemplateChoice{ID: &templateID}
			} else if withTemplate {
				choice = &service.TemplateChoice{}
			}

			task, err := app.Tasks.Create(cmd.Context(), in, choice)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine(fmt.Sprintf("Created task #%d %s", task.ID, task.Title)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Description, "description", "", "Task description (markdown)")
	f.StringVar(&status, "status", "", "Stored status: scheduled, in_progress or completed")
	f.StringVar(&priority, "priority", "", "Priority: high, medium or low")
	f.StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	f.StringVar(&in.DueTime, "due-time", "", "Due time text, e.g. 14:00")
	f.StringVar(&in.CustomerName, "customer", "", "Customer name")
	f.StringVar(&in.CustomerEmail, "email", "", "Customer email")
	f.StringVar(&in.Company, "company", "", "Company")
	f.StringVar(&in.PONumber, "po", "", "Purchase order number")
	f.StringVar(&in.SONumber, "so", "", "Sales order number")
	f.StringVar(&in.QuoteNumber, "quote", "", "Quote number")
	f.Int64Var(&templateID, "template", 0, "Apply this template after creating")
	f.BoolVar(&withTemplate, "default-template", false, "Apply the default template after creating")

	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task with its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := app.Tasks.Open(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskDetail(*task, app.now(), 80))
			return nil
		},
	}
}

func newTaskEditCmd(app *App) *cobra.Command {
	var title, description, status, priority, due, dueTime string
	var clearDue bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch taskapp.TaskPatch
			f := cmd.Flags()
			if f.Changed("title") {
				patch.Title = &title
			}
			if f.Changed("description") {
				patch.Description = &description
			}
			if f.Changed("status") {
				s := domain.StoredStatus(status)
				patch.Status = &s
			}
			if f.Changed("priority") {
				p := domain.Priority(priority)
				patch.Priority = &p
			}
			if f.Changed("due") {
				d, err := parseDueDate(due)
				if err != nil {
					return err
				}
				patch.DueDate = d
			}
			if f.Changed("due-time") {
				patch.DueTime = &dueTime
			}
			patch.ClearDueDate = clearDue

			task, err := app.Tasks.Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine(fmt.Sprintf("Updated task #%d", task.ID)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&title, "title", "", "New title")
	f.StringVar(&description, "description", "", "New description")
	f.StringVar(&status, "status", "", "Stored status: scheduled, in_progress or completed")
	f.StringVar(&priority, "priority", "", "Priority: high, medium or low")
	f.StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	f.StringVar(&dueTime, "due-time", "", "Due time text")
	f.BoolVar(&clearDue, "clear-due", false, "Remove the due date")

	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <column>",
		Short: "Move a task to a board column",
		Long: "Move a task as if dragged onto a board column. Date-derived columns\n" +
			"(overdue, urgent, upcoming_soon) store scheduled; the due date decides\n" +
			"where the task is shown.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			col, err := parseColumn(args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := app.Tasks.Refresh(ctx); err != nil {
				return err
			}
			if err := app.Drag.Start(id); err != nil {
				return err
			}
			if err := app.Drag.Enter(col); err != nil {
				app.Drag.Cancel()
				return err
			}
			tr, err := app.Drag.Drop(ctx, col)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !tr.NeedsWrite() {
				fmt.Fprintf(out, "Task #%d is already %s\n", id, tr.To)
				return nil
			}
			task, _ := app.View.Task(id)
			fmt.Fprintln(out, formatter.SuccessLine(fmt.Sprintf("Moved task #%d to %s, showing as %s",
				id, tr.To, task.Resolved(app.now()).Label())))
			return nil
		},
	}
}

func newTaskApplyTemplateCmd(app *App) *cobra.Command {
	var templateID int64

	cmd := &cobra.Command{
		Use:   "apply-template <id>",
		Short: "Append a template's steps as subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var tmpl *int64
			if cmd.Flags().Changed("template") {
				tmpl = &templateID
			}
			task, err := app.Tasks.ApplyTemplate(cmd.Context(), id, tmpl)
			if err != nil {
				return err
			}
			done, total := task.Progress()
			fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine(fmt.Sprintf("Task #%d now has %s subtasks done",
				task.ID, formatter.ProgressCount(done, total))))
			return nil
		},
	}
	cmd.Flags().Int64Var(&templateID, "template", 0, "Template ID (default template if omitted)")
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ok, err := confirmAction(app, fmt.Sprintf("Delete task #%d? This cannot be undone.", id), yes)
			if err != nil || !ok {
				return err
			}
			if err := app.Tasks.Delete(cmd.Context(), id, true); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine(fmt.Sprintf("Deleted task #%d", id)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
