package cli

import (
	"context"
	"fmt"
	"strings"

	taskapp "github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/optimistic"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// taskOpenedMsg signals that the detail view's task was refetched.
type taskOpenedMsg struct {
	err error
}

// detailView shows one task with its checklist. Subtask edits apply to
// the cache immediately and are written in the background.
type detailView struct {
	state  *SharedState
	taskID int64
	cursor int

	loading bool
	err     error

	adding bool
	input  textarea.Model

	vp viewport.Model
}

func newDetailView(state *SharedState, taskID int64) *detailView {
	ta := textarea.New()
	ta.Placeholder = "One subtask per line"
	ta.ShowLineNumbers = false
	ta.SetHeight(5)

	vp := viewport.New(state.ContentWidth(), state.ContentHeight())
	vp.MouseWheelEnabled = true

	return &detailView{state: state, taskID: taskID, loading: true, input: ta, vp: vp}
}

func (v *detailView) ID() ViewID { return ViewDetail }
func (v *detailView) Title() string {
	return fmt.Sprintf("Task #%d", v.taskID)
}

func (v *detailView) ShortHelp() []key.Binding {
	if v.adding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "add all")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename")),
		key.NewBinding(key.WithKeys("J", "K"), key.WithHelp("J/K", "reorder")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete step")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "template")),
		key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy ref")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *detailView) Init() tea.Cmd {
	tasks, id := v.state.App.Tasks, v.taskID
	return func() tea.Msg {
		_, err := tasks.Open(context.Background(), id)
		return taskOpenedMsg{err: err}
	}
}

func (v *detailView) task() (domain.Task, bool) {
	return v.state.App.View.Task(v.taskID)
}

func (v *detailView) currentSubtask() (domain.Subtask, bool) {
	t, ok := v.task()
	if !ok || v.cursor < 0 || v.cursor >= len(t.Subtasks) {
		return domain.Subtask{}, false
	}
	return t.Subtasks[v.cursor], true
}

func (v *detailView) clamp() {
	t, _ := v.task()
	v.cursor = max(min(v.cursor, len(t.Subtasks)-1), 0)
}

func (v *detailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskOpenedMsg:
		v.loading = false
		v.err = msg.err
		v.clamp()
		return v, nil

	case refreshViewMsg, tickMsg:
		v.clamp()
		return v, nil

	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight()
		v.input.SetWidth(max(msg.Width-4, 20))
		return v, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.adding {
			return v, v.handleAddKey(msg)
		}
		return v, v.handleKey(msg)
	}

	if v.adding {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *detailView) handleAddKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.adding = false
		v.input.Blur()
		v.input.Reset()
		return nil
	case "ctrl+s":
		block := v.input.Value()
		v.adding = false
		v.input.Blur()
		v.input.Reset()
		subtasks, id := v.state.App.Subtasks, v.taskID
		return mutation("", func(ctx context.Context) (string, error) {
			created, err := subtasks.BulkCreate(ctx, id, block)
			return fmt.Sprintf("Added %d subtasks", len(created)), err
		})
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

// pendingCmd runs an optimistic write started by a subtask edit.
func pendingCmd(label string, p optimistic.Pending, err error) tea.Cmd {
	if err != nil {
		return flashError(err)
	}
	return mutation(label, func(ctx context.Context) (string, error) {
		return "", p(ctx)
	})
}

func (v *detailView) handleKey(msg tea.KeyMsg) tea.Cmd {
	app := v.state.App
	t, ok := v.task()
	if !ok {
		if msg.String() == "esc" || msg.String() == "q" {
			return popView()
		}
		return nil
	}

	switch msg.String() {
	case "esc", "q":
		return popView()
	case "up", "k":
		v.cursor--
		v.clamp()
	case "down", "j":
		v.cursor++
		v.clamp()
	case " ", "space", "enter":
		if st, ok := v.currentSubtask(); ok {
			p, err := app.Subtasks.Toggle(t.ID, st.ID)
			return pendingCmd("", p, err)
		}
	case "K":
		if st, ok := v.currentSubtask(); ok {
			p, err := app.Subtasks.Move(t.ID, st.ID, -1)
			if err == nil {
				v.cursor--
				v.clamp()
			}
			return pendingCmd("", p, err)
		}
	case "J":
		if st, ok := v.currentSubtask(); ok {
			p, err := app.Subtasks.Move(t.ID, st.ID, 1)
			if err == nil {
				v.cursor++
				v.clamp()
			}
			return pendingCmd("", p, err)
		}
	case "d":
		if st, ok := v.currentSubtask(); ok {
			p, err := app.Subtasks.Delete(t.ID, st.ID)
			v.clamp()
			return pendingCmd("Deleted "+st.Title, p, err)
		}
	case "e":
		if st, ok := v.currentSubtask(); ok {
			var title string
			form := wizardRename(st.Title, &title)
			return pushView(newWizardView(v.state, "Rename", form, func() tea.Cmd {
				p, err := app.Subtasks.Rename(t.ID, st.ID, title)
				return pendingCmd("", p, err)
			}))
		}
	case "a":
		v.adding = true
		return v.input.Focus()
	case "s":
		next := nextStoredStatus(t.Status)
		return mutation("", func(ctx context.Context) (string, error) {
			_, err := app.Tasks.Update(ctx, t.ID, taskapp.TaskPatch{Status: &next})
			return "Status set to " + string(next), err
		})
	case "t":
		return mutation("", func(ctx context.Context) (string, error) {
			updated, err := app.Tasks.ApplyTemplate(ctx, t.ID, nil)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Checklist now has %d steps", len(updated.Subtasks)), nil
		})
	case "y":
		ref := t.Reference()
		return func() tea.Msg {
			if err := app.copyText(ref); err != nil {
				return statusMsg{err: fmt.Errorf("copying to clipboard: %w", err)}
			}
			return statusMsg{text: "Copied " + ref}
		}
	case "x":
		prompt := fmt.Sprintf("Delete task #%d %q? This cannot be undone.", t.ID, t.Title)
		return confirmThen(v.state, prompt, func() tea.Cmd {
			return func() tea.Msg {
				if err := app.Tasks.Delete(context.Background(), t.ID, true); err != nil {
					return statusMsg{err: err}
				}
				return tea.Batch(popView(), flash(fmt.Sprintf("Deleted #%d", t.ID)))()
			}
		})
	}
	return nil
}

// nextStoredStatus cycles scheduled → in progress → completed → scheduled.
func nextStoredStatus(s domain.StoredStatus) domain.StoredStatus {
	switch s {
	case domain.StatusScheduled, "":
		return domain.StatusInProgress
	case domain.StatusInProgress:
		return domain.StatusCompleted
	}
	return domain.StatusScheduled
}

func (v *detailView) View() string {
	t, ok := v.task()
	switch {
	case v.err != nil && !ok:
		return formatter.ErrorLine(errorText(v.err))
	case !ok && v.loading:
		return formatter.Dim("Loading…")
	case !ok:
		return formatter.Dim("This task no longer exists.")
	}

	width := v.state.ContentWidth()
	now := v.state.App.now()

	var b strings.Builder
	b.WriteString(formatter.FormatTaskDetail(t, now, width))
	done, total := t.Progress()
	b.WriteString("\n")
	b.WriteString(formatter.StyleHeader.Render("Checklist"))
	if total > 0 {
		b.WriteString("  " + formatter.RenderProgress(done, total, 20))
	}
	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(formatter.ErrorLine(errorText(v.err)) + "\n")
	}
	top := strings.Count(b.String(), "\n")
	if total == 0 {
		b.WriteString(formatter.Dim("  No steps yet. a to add, t for the default checklist.") + "\n")
	}
	for i, st := range t.Subtasks {
		marker := "  "
		if i == v.cursor {
			marker = formatter.StyleHeader.Render("› ")
		}
		b.WriteString(marker + formatter.SubtaskLine(st) + "\n")
	}
	if v.adding {
		b.WriteString("\n" + v.input.View() + "\n")
	}

	content := b.String()
	if v.state.Height <= 0 {
		return content
	}
	v.vp.SetContent(content)
	if line := top + v.cursor; line < v.vp.YOffset {
		v.vp.SetYOffset(line)
	} else if line >= v.vp.YOffset+v.vp.Height {
		v.vp.SetYOffset(line - v.vp.Height + 1)
	}
	return v.vp.View()
}
