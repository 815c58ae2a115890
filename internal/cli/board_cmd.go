package cli

import (
	"fmt"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var query string
	var showCompleted bool

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show tasks grouped by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printBoard(cmd.Context(), cmd.OutOrStdout(), app, query, showCompleted)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only show tasks matching this text")
	cmd.Flags().BoolVar(&showCompleted, "completed", false, "expand the completed column")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks with their resolved status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tasks.Refresh(cmd.Context()); err != nil {
				return err
			}
			app.View.SetQuery(query)
			now := app.now()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatList(app.View.List(now), now))
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only show tasks matching this text")
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tasks.RefreshStats(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStats(app.View.Stats()))
			return nil
		},
	}
}
