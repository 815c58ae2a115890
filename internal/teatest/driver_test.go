package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

// recorder logs every message it sees and answers a few with Cmds.
type recorder struct {
	seen []string
}

type pingMsg struct{ n int }

func (r *recorder) Init() tea.Cmd {
	return func() tea.Msg { return pingMsg{n: 1} }
}

func (r *recorder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.seen = append(r.seen, "size")
	case pingMsg:
		r.seen = append(r.seen, "ping")
		if msg.n < 3 {
			return r, func() tea.Msg { return pingMsg{n: msg.n + 1} }
		}
	case tea.KeyMsg:
		r.seen = append(r.seen, msg.String())
		switch msg.String() {
		case "b":
			return r, tea.Batch(
				func() tea.Msg { return pingMsg{n: 3} },
				tea.Tick(time.Hour, func(time.Time) tea.Msg { return pingMsg{n: 3} }),
			)
		case "s":
			return r, tea.Sequence(
				func() tea.Msg { return pingMsg{n: 3} },
				func() tea.Msg { return pingMsg{n: 3} },
			)
		case "q":
			return r, tea.Quit
		}
	case tea.MouseMsg:
		r.seen = append(r.seen, msg.Action.String())
	}
	return r, nil
}

func (r *recorder) View() string { return "" }

func TestDriver_DrainsInitChain(t *testing.T) {
	m := &recorder{}
	d := New(t, m, WithSize(80, 24))
	d.DrainInit()

	assert.Equal(t, []string{"size", "ping", "ping", "ping"}, m.seen)
}

func TestDriver_Keys(t *testing.T) {
	m := &recorder{}
	d := New(t, m)

	d.Type("xy")
	d.PressCtrl('s')
	d.PressEnter()
	d.Key("up")

	assert.Equal(t, []string{"x", "y", "ctrl+s", "enter", "up"}, m.seen)
}

func TestDriver_BatchSkipsTimers(t *testing.T) {
	m := &recorder{}
	d := New(t, m)

	d.PressKey('b')

	assert.Equal(t, []string{"b", "ping"}, m.seen)
}

func TestDriver_SequenceRunsEveryCmd(t *testing.T) {
	m := &recorder{}
	d := New(t, m)

	d.PressKey('s')

	assert.Equal(t, []string{"s", "ping", "ping"}, m.seen)
}

func TestDriver_QuitStopsEvents(t *testing.T) {
	m := &recorder{}
	d := New(t, m)

	d.PressKey('q')
	d.PressKey('x')

	assert.True(t, d.Quitting)
	assert.Equal(t, []string{"q"}, m.seen)
}

func TestDriver_Drag(t *testing.T) {
	m := &recorder{}
	d := New(t, m)

	d.Drag(1, 2, 30, 2)

	assert.Equal(t, []string{"press", "motion", "release"}, m.seen)
}
