package cli

import (
	"context"

	taskapp "github.com/alexanderramin/taskflow/internal/app"
	tea "github.com/charmbracelet/bubbletea"
)

// runTUI starts the full-screen board and blocks until the user quits.
func runTUI(ctx context.Context, app *App) error {
	p := tea.NewProgram(newAppModel(app),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

func errorText(err error) string {
	return taskapp.Message(err)
}
