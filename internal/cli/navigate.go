package cli

import tea "github.com/charmbracelet/bubbletea"

// Messages views send to appModel, which owns the view stack and the
// flash line.
type (
	pushViewMsg struct{ view View }
	popViewMsg  struct{}

	// wizardCompleteMsg pops a finished wizard and then runs nextCmd, so
	// the follow-up lands on the view underneath.
	wizardCompleteMsg struct{ nextCmd tea.Cmd }

	// refreshViewMsg goes to every view after the cache changed.
	refreshViewMsg struct{}

	// tickMsg fires when a resolved status may have crossed midnight or a
	// due-date threshold.
	tickMsg struct{}

	statusMsg struct {
		text string
		err  error
	}

	// mutationDoneMsg carries the outcome of a store write started by a
	// view. A nil err flashes label.
	mutationDoneMsg struct {
		label string
		err   error
	}

	quitMsg struct{}
)

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func flash(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func flashError(err error) tea.Cmd {
	return func() tea.Msg { return statusMsg{err: err} }
}
