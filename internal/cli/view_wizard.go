package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// wizardView hosts a huh form on the view stack. onSubmit runs once the
// form completes; esc or an aborted form closes it with "Cancelled".
type wizardView struct {
	state    *SharedState
	form     *huh.Form
	title    string
	onSubmit func() tea.Cmd
}

func newWizardView(state *SharedState, title string, form *huh.Form, onSubmit func() tea.Cmd) *wizardView {
	return &wizardView{
		state:    state,
		form:     form.WithWidth(min(state.ContentWidth(), 80)),
		title:    title,
		onSubmit: onSubmit,
	}
}

func (v *wizardView) ID() ViewID    { return ViewForm }
func (v *wizardView) Title() string { return v.title }

func (v *wizardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "back")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (v *wizardView) Init() tea.Cmd {
	return v.form.Init()
}

// close pops the wizard and then runs next.
func (v *wizardView) close(next tea.Cmd) tea.Cmd {
	return func() tea.Msg { return wizardCompleteMsg{nextCmd: next} }
}

func (v *wizardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.form = v.form.WithWidth(min(msg.Width, 80))
		return v, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, v.close(flash("Cancelled"))
		}
	}

	m, cmd := v.form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		v.form = f
	}

	switch v.form.State {
	case huh.StateAborted:
		return v, v.close(flash("Cancelled"))
	case huh.StateCompleted:
		var next tea.Cmd
		if v.onSubmit != nil {
			next = v.onSubmit()
		}
		return v, v.close(tea.Batch(cmd, next))
	}
	return v, cmd
}

func (v *wizardView) View() string {
	return v.form.View()
}

// confirmThen asks prompt as a yes/no question and runs action on yes.
func confirmThen(state *SharedState, prompt string, action func() tea.Cmd) tea.Cmd {
	var yes bool
	return pushView(newWizardView(state, "Confirm", wizardConfirm(prompt, &yes), func() tea.Cmd {
		if yes {
			return action()
		}
		return flash("Cancelled")
	}))
}
