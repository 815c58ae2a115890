package service

import (
	"sync"

	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/cache"
)

// Workspace is the client session state shared by the services: the task
// cache, the search query and the selection.
type Workspace struct {
	Cache *cache.TaskCache

	mu            sync.Mutex
	query         string
	showCompleted bool
	selection     board.Selection
}

func NewWorkspace(c *cache.TaskCache) *Workspace {
	if c == nil {
		c = cache.New()
	}
	return &Workspace{Cache: c}
}

func (w *Workspace) currentQuery() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.query
}

// visibleIDs lists the tasks that pass the current search, in cache order.
func (w *Workspace) visibleIDs() []int64 {
	return board.VisibleIDs(w.Cache.Snapshot(), w.currentQuery())
}

func (w *Workspace) selecting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection.Active()
}

// reconcileSelection keeps the selection a subset of the visible tasks.
func (w *Workspace) reconcileSelection() {
	visible := w.visibleIDs()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selection.Reconcile(visible)
}
