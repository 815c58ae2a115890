package cli

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/cache"
	"github.com/alexanderramin/taskflow/internal/config"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/optimistic"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/alexanderramin/taskflow/internal/teatest"
	"github.com/alexanderramin/taskflow/internal/testutil"
)

// testNow is noon so calendar-day comparisons hold in any zone offset
// the fixtures might be read in.
var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// testApp wires a full App over an in-memory fake record store.
func testApp(t *testing.T, tasks ...domain.Task) (*App, *testutil.FakeStore) {
	t.Helper()
	store := testutil.NewFakeStore(tasks...)
	store.Now = func() time.Time { return testNow }

	ws := service.NewWorkspace(cache.New())
	taskSvc := service.NewTaskService(ws, store)
	cfg := config.DefaultConfig()
	cfg.Theme = config.ThemeDark

	app := &App{
		Tasks:     taskSvc,
		View:      service.NewViewService(ws),
		Subtasks:  service.NewSubtaskService(ws, store, optimistic.NewCoordinator()),
		Drag:      service.NewDragService(ws, store),
		Selection: service.NewSelectionService(ws, store, taskSvc),
		Catalog:   service.NewCatalogService(store),
		Config:    cfg,
		Now:       func() time.Time { return testNow },
		Clipboard: func(string) error { return nil },
	}
	return app, store
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func plain(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// TestDriver wraps teatest.Driver with access to appModel internals
// (view stack, flash line) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel, sets the terminal size and drains
// Init, which loads the task list from the fake store.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// Board returns the bottom board view.
func (d *TestDriver) Board() *boardView {
	return d.appModel().viewStack[0].(*boardView)
}

// Detail returns the active detail view, or nil.
func (d *TestDriver) Detail() *detailView {
	m := d.appModel()
	v, _ := m.activeView().(*detailView)
	return v
}

// Flash returns the flash line text and whether it is an error.
func (d *TestDriver) Flash() (string, bool) {
	m := d.appModel()
	return m.flashText, m.flashErr
}

// IsQuitting returns whether the app has signalled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// Plain returns the rendered screen without colour codes.
func (d *TestDriver) Plain() string {
	return plain(d.View())
}

// ConfirmYes answers the pending yes/no wizard with "y".
func (d *TestDriver) ConfirmYes() {
	d.T.Helper()
	d.PressKey('y')
}

// SubmitForm presses Enter until the active wizard closes.
func (d *TestDriver) SubmitForm() {
	d.T.Helper()
	for i := 0; i < 12 && d.ActiveViewID() == ViewForm; i++ {
		d.PressEnter()
	}
}

// columnX returns an x coordinate inside board column i.
func (d *TestDriver) columnX(i int) int {
	b := d.Board()
	w := b.colWidth(len(domain.ResolvedStatuses))
	return i*(w+colGap) + 1
}
