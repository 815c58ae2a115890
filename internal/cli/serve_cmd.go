package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/repository"
	"github.com/alexanderramin/taskflow/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reference record store on SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			conn, err := db.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer conn.Close()

			logger := app.Logger
			if logger == nil {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			}
			store := repository.NewStore(conn, db.NewSQLiteUnitOfWork(conn))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", cfg.DBPath, cfg.ListenAddr)
			return server.New(store, logger).Run(ctx, cfg.ListenAddr)
		},
	}
}
