package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/charmbracelet/huh"
)

// confirmAction asks before a destructive action. With --yes it proceeds;
// without a terminal it refuses so scripts fail loudly.
func confirmAction(app *App, prompt string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !app.interactive() {
		return false, fmt.Errorf("%w: pass --yes to confirm", service.ErrNotConfirmed)
	}
	var ok bool
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		WithTheme(taskflowHuhTheme()).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", s)
	}
	return id, nil
}
