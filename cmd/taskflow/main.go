package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexanderramin/taskflow/internal/cache"
	"github.com/alexanderramin/taskflow/internal/cli"
	"github.com/alexanderramin/taskflow/internal/client"
	"github.com/alexanderramin/taskflow/internal/config"
	"github.com/alexanderramin/taskflow/internal/optimistic"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var logFile *os.File
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()

	app := &cli.App{}

	app.Setup = func(cfg config.Config) error {
		var logOut io.Writer = os.Stderr
		if cfg.LogFile != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
				return fmt.Errorf("creating log directory: %w", err)
			}
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			logFile = f
			logOut = f
		}
		app.Logger = slog.New(slog.NewTextHandler(logOut, nil))

		// Remote calls and use cases are logged only on request.
		var callObserver client.Observer = client.NoopObserver{}
		var observers []service.UseCaseObserver
		if cfg.LogCalls {
			callObserver = client.NewLogObserver(logOut)
			observers = append(observers, service.NewLogUseCaseObserver(logOut))
		}

		store := client.New(client.Config{BaseURL: cfg.APIURL, Timeout: cfg.Timeout}, callObserver)
		ws := service.NewWorkspace(cache.New())
		tasks := service.NewTaskService(ws, store, observers...)

		app.Tasks = tasks
		app.View = service.NewViewService(ws)
		app.Subtasks = service.NewSubtaskService(ws, store, optimistic.NewCoordinator(), observers...)
		app.Drag = service.NewDragService(ws, store, observers...)
		app.Selection = service.NewSelectionService(ws, store, tasks, observers...)
		app.Catalog = service.NewCatalogService(store, observers...)
		return nil
	}

	// The bare command opens the board UI only on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
