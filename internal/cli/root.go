package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/config"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands and
// the TUI.
type App struct {
	Tasks     service.TaskService
	View      service.ViewService
	Subtasks  service.SubtaskService
	Drag      service.DragService
	Selection service.SelectionService
	Catalog   service.CatalogService

	Config config.Config

	// Setup wires the services once the configuration is loaded. It is nil
	// when the services are injected directly.
	Setup func(cfg config.Config) error

	// IsInteractive reports whether stdin is a terminal; the root command
	// starts the TUI only then.
	IsInteractive func() bool

	// Now is the clock used for status resolution. Defaults to time.Now.
	Now func() time.Time

	// Logger receives server request logs. Nil logs to stderr.
	Logger *slog.Logger

	// Clipboard copies text for the TUI. Defaults to the system clipboard.
	Clipboard func(text string) error
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) copyText(text string) error {
	if a.Clipboard != nil {
		return a.Clipboard(text)
	}
	return clipboard.WriteAll(text)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "taskflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskflow",
		Short:         "Task board for order follow-ups",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.configure(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runTUI(cmd.Context(), app)
			}
			return printBoard(cmd.Context(), cmd.OutOrStdout(), app, "", false)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", config.DefaultPath(), "config file")
	flags.String("api-url", "", "record store base URL")
	flags.Duration("timeout", 0, "per-request timeout")
	flags.String("db", "", "SQLite database for serve")
	flags.String("addr", "", "listen address for serve")
	flags.String("theme", "", "colour theme: auto, dark or light")
	flags.Bool("log-calls", false, "log remote calls and use cases")
	flags.String("log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newBoardCmd(app),
		newListCmd(app),
		newStatsCmd(app),
		newTaskCmd(app),
		newSubtaskCmd(app),
		newBulkDeleteCmd(app),
		newDeleteAllCmd(app),
		newTemplatesCmd(app),
		newScanLogCmd(app),
		newServeCmd(app),
		newConfigCmd(app),
	)

	return root
}

// configure loads the layered configuration, applies the theme and wires
// the services.
func (a *App) configure(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}
	a.Config = cfg
	formatter.SetTheme(cfg.Theme)
	if a.Setup != nil {
		if err := a.Setup(cfg); err != nil {
			return fmt.Errorf("starting: %w", err)
		}
	}
	return nil
}

func printBoard(ctx context.Context, w io.Writer, app *App, query string, showCompleted bool) error {
	if err := app.Tasks.Refresh(ctx); err != nil {
		return err
	}
	app.View.SetQuery(query)
	app.View.SetShowCompleted(showCompleted)
	now := app.now()
	fmt.Fprintln(w, formatter.StatsLine(app.View.Stats()))
	fmt.Fprintln(w)
	fmt.Fprint(w, formatter.FormatBoard(app.View.Board(now), now))
	return nil
}
