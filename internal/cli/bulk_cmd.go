package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/spf13/cobra"
)

func newBulkDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "bulk-delete <id>...",
		Short: "Delete several tasks in one request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Tasks.Refresh(ctx); err != nil {
				return err
			}
			app.View.SetQuery("")

			app.Selection.Enter()
			defer app.Selection.Exit()
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				if !app.Selection.Has(id) && !app.Selection.Toggle(id) {
					return fmt.Errorf("task #%d not found", id)
				}
			}

			ok, err := confirmAction(app, app.Selection.BulkDeletePrompt(), yes)
			if err != nil || !ok {
				return err
			}
			n, err := app.Selection.BulkDelete(ctx, true)
			return reportDeleted(cmd, n, err)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newDeleteAllCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every task and the inbox scan history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Tasks.Refresh(ctx); err != nil {
				return err
			}
			ok, err := confirmAction(app, app.Selection.DeleteAllPrompt(), yes)
			if err != nil || !ok {
				return err
			}
			n, err := app.Selection.DeleteAll(ctx, true)
			return reportDeleted(cmd, n, err)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "List subtask templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := app.Catalog.Templates(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTemplates(templates))
			return nil
		},
	}

	cmd.AddCommand(newTemplateAddCmd(app), newTemplateRemoveCmd(app))
	return cmd
}

func newTemplateAddCmd(app *App) *cobra.Command {
	var steps []string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a template from --step flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := app.Catalog.CreateTemplate(cmd.Context(), args[0], steps)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine(fmt.Sprintf("Created template #%d %s (%d steps)",
				tmpl.ID, tmpl.Name, len(tmpl.Steps))))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&steps, "step", nil, "Step title, repeat for each step")
	return cmd
}

func newTemplateRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Catalog.DeleteTemplate(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine(fmt.Sprintf("Deleted template #%d", id)))
			return nil
		},
	}
}

func newScanLogCmd(app *App) *cobra.Command {
	var limit int
	var clearLog, yes bool

	cmd := &cobra.Command{
		Use:   "scanlog",
		Short: "Show the inbox scanner's history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if clearLog {
				ok, err := confirmAction(app, "Clear the scan history? Scanned messages may be imported again.", yes)
				if err != nil || !ok {
					return err
				}
				if err := app.Catalog.ClearScanLog(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine("Scan history cleared"))
				return nil
			}

			entries, err := app.Catalog.ScanLog(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatScanLog(entries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Number of entries to show")
	cmd.Flags().BoolVar(&clearLog, "clear", false, "Delete the scan history")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

// reportDeleted prints the delete count. A failed refetch after a delete
// that went through is a warning, not a command failure.
func reportDeleted(cmd *cobra.Command, n int, err error) error {
	if err != nil && !errors.Is(err, service.ErrStaleList) {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine(fmt.Sprintf("Deleted %d tasks", n)))
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), formatter.ErrorLine(staleText(err)))
	}
	return nil
}

// staleText describes a failed refetch, keeping the friendly transport
// message when there is one.
func staleText(err error) string {
	if msg := errorText(err); msg != err.Error() {
		return service.ErrStaleList.Error() + ": " + msg
	}
	return err.Error()
}
