// Package teatest runs bubbletea models without a tea.Program.
//
// Each event goes straight to Update and the returned Cmds run to
// completion before Send returns, so a key press and the store writes it
// triggers are observable on the next line of the test. Cmds that wait on
// timers (cursor blink, tea.Tick) are dropped after cmdTimeout.
package teatest

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many Cmd generations one event may spawn.
const MaxDrainDepth = 100

// cmdTimeout separates immediate Cmds from timer-driven ones.
const cmdTimeout = 10 * time.Millisecond

// Driver feeds events to a model and drains the Cmds it returns.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting records that the model returned tea.Quit. Later events are
	// ignored, as they would be by a real program.
	Quitting bool
}

type Option func(*Driver)

func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize delivers a WindowSizeMsg before Init runs, as a terminal would.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// DrainInit runs the model's Init Cmd.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send delivers msg and drains everything it causes.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.drain(cmd, 0)
}

// View renders the model.
func (d *Driver) View() string {
	return d.Model.View()
}

// ── keyboard ────────────────────────────────────────────────────────────────

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"backspace": tea.KeyBackspace,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"ctrl+c":    tea.KeyCtrlC,
}

// Key sends one key by its bubbletea name: "enter", "space", "ctrl+s",
// "up", or a single character.
func (d *Driver) Key(name string) {
	d.T.Helper()
	d.Send(keyMsg(d.T, name))
}

func keyMsg(t *testing.T, name string) tea.KeyMsg {
	t.Helper()
	if k, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: k}
	}
	if name == "space" || name == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	if r, ok := strings.CutPrefix(name, "ctrl+"); ok && len(r) == 1 && r[0] >= 'a' && r[0] <= 'z' {
		return tea.KeyMsg{Type: tea.KeyCtrlA + tea.KeyType(r[0]-'a')}
	}
	if runes := []rune(name); len(runes) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: runes}
	}
	t.Fatalf("teatest: unknown key %q", name)
	return tea.KeyMsg{}
}

func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressEnter()  { d.T.Helper(); d.Key("enter") }
func (d *Driver) PressEsc()    { d.T.Helper(); d.Key("esc") }
func (d *Driver) PressCtrlC()  { d.T.Helper(); d.Key("ctrl+c") }
func (d *Driver) PressSpace()  { d.T.Helper(); d.Key("space") }
func (d *Driver) PressUp()     { d.T.Helper(); d.Key("up") }
func (d *Driver) PressDown()   { d.T.Helper(); d.Key("down") }
func (d *Driver) PressCtrl(r rune) {
	d.T.Helper()
	d.Key("ctrl+" + string(r))
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// ── mouse ───────────────────────────────────────────────────────────────────

func (d *Driver) mouse(x, y int, action tea.MouseAction, button tea.MouseButton) {
	d.T.Helper()
	d.Send(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
}

// MouseDown presses the left button at (x, y).
func (d *Driver) MouseDown(x, y int) {
	d.T.Helper()
	d.mouse(x, y, tea.MouseActionPress, tea.MouseButtonLeft)
}

// MouseMove moves the pointer with the left button held.
func (d *Driver) MouseMove(x, y int) {
	d.T.Helper()
	d.mouse(x, y, tea.MouseActionMotion, tea.MouseButtonLeft)
}

// MouseUp releases the button at (x, y).
func (d *Driver) MouseUp(x, y int) {
	d.T.Helper()
	d.mouse(x, y, tea.MouseActionRelease, tea.MouseButtonNone)
}

// Drag presses at one cell, moves to another and releases there.
func (d *Driver) Drag(fromX, fromY, toX, toY int) {
	d.T.Helper()
	d.MouseDown(fromX, fromY)
	d.MouseMove(toX, toY)
	d.MouseUp(toX, toY)
}

// ── draining ────────────────────────────────────────────────────────────────

var cmdSliceType = reflect.TypeOf([]tea.Cmd(nil))

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: stopped draining at depth %d", depth)
		return
	}

	msg, ok := run(cmd)
	if !ok || msg == nil || isBlink(msg) {
		return
	}

	// tea.Batch and tea.Sequence both yield a slice of Cmds; run them in
	// order.
	if v := reflect.ValueOf(msg); v.Type().ConvertibleTo(cmdSliceType) {
		for _, sub := range v.Convert(cmdSliceType).Interface().([]tea.Cmd) {
			d.drain(sub, depth+1)
		}
		return
	}

	if _, quit := msg.(tea.QuitMsg); quit {
		d.Quitting = true
	}
	var next tea.Cmd
	d.Model, next = d.Model.Update(msg)
	if d.Quitting {
		return
	}
	d.drain(next, depth+1)
}

// run executes cmd, giving up after cmdTimeout.
func run(cmd tea.Cmd) (tea.Msg, bool) {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

// isBlink matches the cursor package's unexported blink messages, which
// would otherwise schedule another timer.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
