package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Board geometry in cells. The board view renders a stats line and a
// mode line above the columns; each column has a header and a rule.
const (
	colGap      = 1
	minColWidth = 14
	boardTop    = headerLines + 2
	cardTop     = boardTop + 2
)

// tasksLoadedMsg signals that the task list was refetched.
type tasksLoadedMsg struct {
	err error
}

// boardView shows cached tasks grouped by resolved status, or as a flat
// list. It owns drag gestures, search and selection mode.
type boardView struct {
	state *SharedState

	listMode bool
	col, row int
	listRow  int

	searching bool
	search    textinput.Model

	loading bool
	err     error
}

func newBoardView(state *SharedState) *boardView {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "title, customer, PO, SO, quote"
	ti.CharLimit = 120
	return &boardView{state: state, search: ti, loading: true}
}

func (v *boardView) ID() ViewID    { return ViewBoard }
func (v *boardView) Title() string { return "Board" }

func (v *boardView) ShortHelp() []key.Binding {
	app := v.state.App
	switch {
	case v.searching:
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "keep filter")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		}
	case app.Drag.State() != board.DragIdle:
		return []key.Binding{
			key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("←/→", "choose column")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	case app.Selection.Active():
		return []key.Binding{
			key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
			key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
			key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete selected")),
			key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "done")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "select")),
		key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "list/board")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "completed")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (v *boardView) Init() tea.Cmd {
	return tea.Batch(v.load(), v.scheduleTick())
}

func (v *boardView) load() tea.Cmd {
	tasks := v.state.App.Tasks
	return func() tea.Msg {
		return tasksLoadedMsg{err: tasks.Refresh(context.Background())}
	}
}

// scheduleTick wakes the board when statuses may have moved: on the
// refresh interval, or at local midnight if that comes first.
func (v *boardView) scheduleTick() tea.Cmd {
	interval := v.state.App.Config.RefreshInterval
	if interval <= 0 {
		interval = time.Minute
	}
	wait := board.NextRecompute(v.state.App.now(), interval)
	return tea.Tick(wait, func(time.Time) tea.Msg { return tickMsg{} })
}

func (v *boardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		v.loading = false
		v.err = msg.err
		v.clamp()
		return v, nil

	case refreshViewMsg:
		v.clamp()
		return v, nil

	case tickMsg:
		v.clamp()
		return v, v.scheduleTick()

	case tea.MouseMsg:
		return v, v.handleMouse(msg)

	case tea.KeyMsg:
		if v.searching {
			return v, v.handleSearchKey(msg)
		}
		if v.state.App.Drag.State() != board.DragIdle {
			return v, v.handleDragKey(msg)
		}
		return v, v.handleKey(msg)
	}

	if v.searching {
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return v, cmd
	}
	return v, nil
}

// ── keyboard ────────────────────────────────────────────────────────────────

func (v *boardView) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	app := v.state.App
	switch msg.Type {
	case tea.KeyEnter:
		v.searching = false
		v.search.Blur()
		return nil
	case tea.KeyEsc:
		v.searching = false
		v.search.Blur()
		v.search.SetValue("")
		app.View.SetQuery("")
		v.clamp()
		return nil
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	app.View.SetQuery(v.search.Value())
	v.clamp()
	return cmd
}

func (v *boardView) handleDragKey(msg tea.KeyMsg) tea.Cmd {
	app := v.state.App
	cols := v.board().Columns
	switch msg.String() {
	case "left", "h":
		return v.hoverColumn(cols, v.col-1)
	case "right", "l":
		return v.hoverColumn(cols, v.col+1)
	case "enter":
		col, ok := app.Drag.Hovered()
		if !ok {
			col = cols[v.col].Status
		}
		return v.drop(col)
	case "esc":
		app.Drag.Cancel()
		return flash("Move cancelled")
	}
	return nil
}

// hoverColumn moves a keyboard drag onto column i.
func (v *boardView) hoverColumn(cols []board.Column, i int) tea.Cmd {
	if i < 0 || i >= len(cols) || i == v.col {
		return nil
	}
	app := v.state.App
	if over, ok := app.Drag.Hovered(); ok {
		app.Drag.Leave(over, board.Point{X: -1, Y: -1}, v.columnBounds(v.col, len(cols)))
	}
	v.col = i
	if err := app.Drag.Enter(cols[i].Status); err != nil {
		return flashError(err)
	}
	return nil
}

func (v *boardView) handleKey(msg tea.KeyMsg) tea.Cmd {
	app := v.state.App
	selecting := app.Selection.Active()

	switch msg.String() {
	case "q":
		return func() tea.Msg { return quitMsg{} }
	case "esc":
		if selecting {
			app.Selection.Exit()
		}
	case "left", "h":
		if !v.listMode && v.col > 0 {
			v.col--
			v.clamp()
		}
	case "right", "l":
		if !v.listMode {
			v.col++
			v.clamp()
		}
	case "up", "k":
		if v.listMode {
			v.listRow--
		} else {
			v.row--
		}
		v.clamp()
	case "down", "j":
		if v.listMode {
			v.listRow++
		} else {
			v.row++
		}
		v.clamp()
	case "v":
		v.listMode = !v.listMode
		v.clamp()
	case "c":
		app.View.SetShowCompleted(!app.View.ShowCompleted())
		v.clamp()
	case "r":
		v.loading = true
		return v.load()
	case "/":
		v.searching = true
		v.search.SetValue(app.View.Query())
		return v.search.Focus()
	case "n":
		fields := &newTaskFields{}
		return pushView(newWizardView(v.state, "New Task", wizardNewTask(fields), func() tea.Cmd {
			return v.createTask(fields)
		}))
	case "enter":
		if t, ok := v.current(); ok && !selecting {
			return pushView(newDetailView(v.state, t.ID))
		}
	case "m":
		return v.startKeyboardDrag()
	case "x":
		if t, ok := v.current(); ok {
			return v.confirmDeleteTask(t)
		}
	case "X":
		return confirmThen(v.state, app.Selection.DeleteAllPrompt(), func() tea.Cmd {
			return mutation("Deleted all tasks", func(ctx context.Context) (string, error) {
				return deletedOutcome(app.Selection.DeleteAll(ctx, true))
			})
		})
	case "s":
		if selecting {
			app.Selection.Exit()
		} else {
			app.Selection.Enter()
		}
	case " ", "space":
		if t, ok := v.current(); ok && selecting {
			app.Selection.Toggle(t.ID)
		}
	case "a":
		if selecting {
			app.Selection.ToggleAll()
		}
	case "D":
		return v.bulkDelete()
	}
	return nil
}

func (v *boardView) startKeyboardDrag() tea.Cmd {
	app := v.state.App
	t, ok := v.current()
	if !ok || v.listMode {
		return nil
	}
	if err := app.Drag.Start(t.ID); err != nil {
		return flashError(err)
	}
	if err := app.Drag.Enter(v.board().Columns[v.col].Status); err != nil {
		return flashError(err)
	}
	return nil
}

// drop ends the current gesture on col. The store write runs as a command;
// the cache changes only once the canonical record comes back.
func (v *boardView) drop(col domain.ResolvedStatus) tea.Cmd {
	app := v.state.App
	tr, err := app.Drag.PlanDrop(col)
	if err != nil {
		return flashError(err)
	}
	if !tr.NeedsWrite() {
		return nil
	}
	return mutation("", func(ctx context.Context) (string, error) {
		if err := app.Drag.Commit(ctx, tr); err != nil {
			return "", err
		}
		label := fmt.Sprintf("Moved #%d to %s", tr.TaskID, col.Label())
		if t, ok := app.View.Task(tr.TaskID); ok {
			if shown := t.Resolved(app.now()); shown != col {
				label += ", shown as " + shown.Label()
			}
		}
		return label, nil
	})
}

func (v *boardView) createTask(fields *newTaskFields) tea.Cmd {
	app := v.state.App
	in, tmpl := fields.input()
	return mutation("", func(ctx context.Context) (string, error) {
		t, err := app.Tasks.Create(ctx, in, tmpl)
		if t == nil {
			return "", err
		}
		return fmt.Sprintf("Created #%d %s", t.ID, t.Title), err
	})
}

func (v *boardView) confirmDeleteTask(t domain.Task) tea.Cmd {
	app := v.state.App
	prompt := fmt.Sprintf("Delete task #%d %q? This cannot be undone.", t.ID, t.Title)
	return confirmThen(v.state, prompt, func() tea.Cmd {
		return mutation("", func(ctx context.Context) (string, error) {
			return fmt.Sprintf("Deleted #%d", t.ID), app.Tasks.Delete(ctx, t.ID, true)
		})
	})
}

// bulkDelete checks the selection before asking, so an empty selection
// reports an error instead of a pointless prompt.
func (v *boardView) bulkDelete() tea.Cmd {
	app := v.state.App
	_, err := app.Selection.BulkDelete(context.Background(), false)
	if !errors.Is(err, service.ErrNotConfirmed) {
		return flashError(err)
	}
	return confirmThen(v.state, app.Selection.BulkDeletePrompt(), func() tea.Cmd {
		return mutation("", func(ctx context.Context) (string, error) {
			return deletedOutcome(app.Selection.BulkDelete(ctx, true))
		})
	})
}

// deletedOutcome reports a delete that went through as done even when the
// refetch after it failed. The deleted tasks are already gone from the cache.
func deletedOutcome(n int, err error) (string, error) {
	label := fmt.Sprintf("Deleted %d tasks", n)
	if errors.Is(err, service.ErrStaleList) {
		return label + " (" + staleText(err) + ")", nil
	}
	return label, err
}

// mutation runs fn as a command and reports its outcome. A non-empty
// label from fn replaces the default.
func mutation(label string, fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		got, err := fn(context.Background())
		if got != "" {
			label = got
		}
		return mutationDoneMsg{label: label, err: err}
	}
}

// ── mouse ───────────────────────────────────────────────────────────────────

func (v *boardView) colWidth(n int) int {
	if n <= 0 {
		return minColWidth
	}
	return max(minColWidth, (v.state.ContentWidth()-colGap*(n-1))/n)
}

// colAt maps a screen column to a board column index, or -1 for gaps and
// space past the last column.
func (v *boardView) colAt(x, n int) int {
	w := v.colWidth(n)
	i := x / (w + colGap)
	if i >= n || x%(w+colGap) >= w {
		return -1
	}
	return i
}

func (v *boardView) columnBounds(i, n int) board.Rect {
	w := v.colWidth(n)
	bottom := v.state.Height
	if bottom <= 0 {
		bottom = boardTop + 1000
	}
	x0 := i * (w + colGap)
	return board.Rect{Min: board.Point{X: x0, Y: boardTop}, Max: board.Point{X: x0 + w, Y: bottom}}
}

func (v *boardView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if v.listMode || v.searching {
		return nil
	}
	app := v.state.App
	cols := v.board().Columns
	n := len(cols)
	i := v.colAt(msg.X, n)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || i < 0 {
			return nil
		}
		j := msg.Y - cardTop
		tasks := visibleTasks(cols[i])
		if j < 0 || j >= len(tasks) {
			return nil
		}
		v.col, v.row = i, j
		if err := app.Drag.Start(tasks[j].ID); err != nil {
			return flashError(err)
		}
		if err := app.Drag.Enter(cols[i].Status); err != nil {
			return flashError(err)
		}

	case tea.MouseActionMotion:
		if app.Drag.State() == board.DragIdle {
			return nil
		}
		over, hovering := app.Drag.Hovered()
		if hovering {
			if oi := columnIndex(cols, over); oi >= 0 && oi != i {
				app.Drag.Leave(over, board.Point{X: msg.X, Y: msg.Y}, v.columnBounds(oi, n))
			}
		}
		if i >= 0 && (!hovering || over != cols[i].Status) {
			if err := app.Drag.Enter(cols[i].Status); err != nil {
				return flashError(err)
			}
		}

	case tea.MouseActionRelease:
		if app.Drag.State() == board.DragIdle {
			return nil
		}
		col, ok := app.Drag.Hovered()
		if !ok {
			app.Drag.Cancel()
			return nil
		}
		v.col = columnIndex(cols, col)
		return v.drop(col)
	}
	return nil
}

func columnIndex(cols []board.Column, status domain.ResolvedStatus) int {
	for i, c := range cols {
		if c.Status == status {
			return i
		}
	}
	return -1
}

// ── state ───────────────────────────────────────────────────────────────────

func (v *boardView) board() board.Board {
	return v.state.App.View.Board(v.state.App.now())
}

func visibleTasks(c board.Column) []domain.Task {
	if c.Collapsed {
		return nil
	}
	return c.Tasks
}

// current returns the task under the cursor.
func (v *boardView) current() (domain.Task, bool) {
	if v.listMode {
		rows := v.state.App.View.List(v.state.App.now())
		if v.listRow < 0 || v.listRow >= len(rows) {
			return domain.Task{}, false
		}
		return rows[v.listRow].Task, true
	}
	cols := v.board().Columns
	if v.col < 0 || v.col >= len(cols) {
		return domain.Task{}, false
	}
	tasks := visibleTasks(cols[v.col])
	if v.row < 0 || v.row >= len(tasks) {
		return domain.Task{}, false
	}
	return tasks[v.row], true
}

// clamp keeps both cursors inside the current contents.
func (v *boardView) clamp() {
	cols := v.board().Columns
	v.col = min(max(v.col, 0), len(cols)-1)
	if v.col >= 0 {
		v.row = min(v.row, len(visibleTasks(cols[v.col]))-1)
	}
	v.row = max(v.row, 0)

	rows := len(v.state.App.View.List(v.state.App.now()))
	v.listRow = max(min(v.listRow, rows-1), 0)
}

// ── rendering ───────────────────────────────────────────────────────────────

func (v *boardView) View() string {
	app := v.state.App
	now := app.now()

	var b strings.Builder
	b.WriteString(formatter.StatsLine(app.View.Stats()))
	b.WriteString("\n")
	b.WriteString(v.modeLine())
	b.WriteString("\n")

	switch {
	case v.err != nil:
		b.WriteString(formatter.ErrorLine(errorText(v.err)))
	case v.loading:
		b.WriteString(formatter.Dim("Loading tasks…"))
	case v.listMode:
		b.WriteString(v.renderList(now))
	default:
		b.WriteString(v.renderBoard(now))
	}
	return b.String()
}

func (v *boardView) modeLine() string {
	app := v.state.App
	var parts []string
	if v.searching {
		parts = append(parts, v.search.View())
	} else if q := app.View.Query(); q != "" {
		parts = append(parts, formatter.Dim("filter: ")+q)
	}
	if app.Selection.Active() {
		parts = append(parts, formatter.StyleYellow.Render(fmt.Sprintf("selecting (%d)", app.Selection.Count())))
	}
	if app.Drag.State() != board.DragIdle {
		text := fmt.Sprintf("moving #%d", app.Drag.TaskID())
		if over, ok := app.Drag.Hovered(); ok {
			text += " → " + over.Label()
		}
		parts = append(parts, formatter.StyleBlue.Render(text))
	}
	return strings.Join(parts, "  ")
}

func (v *boardView) cardPrefix(t domain.Task) string {
	app := v.state.App
	switch {
	case app.Selection.Active() && app.Selection.Has(t.ID):
		return "[x] "
	case app.Selection.Active():
		return "[ ] "
	case app.Drag.State() != board.DragIdle && app.Drag.TaskID() == t.ID:
		return "⇢ "
	}
	return ""
}

var cursorStyle = lipgloss.NewStyle().Reverse(true)

func (v *boardView) renderBoard(now time.Time) string {
	app := v.state.App
	cols := v.board().Columns
	w := v.colWidth(len(cols))
	over, hovering := app.Drag.Hovered()

	blocks := make([]string, 0, 2*len(cols))
	for i, c := range cols {
		header := fmt.Sprintf("%s (%d)", c.Label(), c.Count())
		if hovering && over == c.Status {
			header = "▸ " + header
		}
		lines := []string{
			formatter.StatusStyle(c.Status).Bold(true).Render(formatter.Truncate(header, w)),
			formatter.Dim(strings.Repeat("─", w)),
		}
		if c.Collapsed {
			lines = append(lines, formatter.Dim(formatter.Truncate("hidden, c to show", w)))
		}
		for j, t := range visibleTasks(c) {
			prefix := v.cardPrefix(t)
			line := prefix + formatter.TaskLine(t, now, w-lipgloss.Width(prefix))
			if i == v.col && j == v.row {
				line = cursorStyle.Render(line)
			}
			lines = append(lines, line)
		}
		if i > 0 {
			blocks = append(blocks, strings.Repeat(" ", colGap))
		}
		blocks = append(blocks, lipgloss.NewStyle().Width(w).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func (v *boardView) renderList(now time.Time) string {
	rows := v.state.App.View.List(now)
	if len(rows) == 0 {
		return formatter.Dim("No tasks.")
	}
	width := v.state.ContentWidth()
	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		pill := formatter.StatusPill(r.Status)
		prefix := v.cardPrefix(r.Task)
		line := fmt.Sprintf("%s%-4s %s ", prefix, fmt.Sprintf("#%d", r.Task.ID), pill)
		line += formatter.TaskLine(r.Task, now, max(width-lipgloss.Width(line), 10))
		if i == v.listRow {
			line = cursorStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
