package service

import (
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/domain"
)

type viewService struct {
	ws *Workspace
}

func NewViewService(ws *Workspace) ViewService {
	return &viewService{ws: ws}
}

func (s *viewService) Query() string {
	return s.ws.currentQuery()
}

// SetQuery changes the search text. A changed query clears the selection.
func (s *viewService) SetQuery(q string) {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	if q == s.ws.query {
		return
	}
	s.ws.query = q
	s.ws.selection.Clear()
}

func (s *viewService) ShowCompleted() bool {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	return s.ws.showCompleted
}

func (s *viewService) SetShowCompleted(show bool) {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	s.ws.showCompleted = show
}

func (s *viewService) Board(now time.Time) board.Board {
	return board.Group(s.ws.Cache.Snapshot(), s.Query(), now, board.Options{ShowCompleted: s.ShowCompleted()})
}

func (s *viewService) List(now time.Time) []board.Row {
	return board.ListRows(s.ws.Cache.Snapshot(), s.Query(), now)
}

func (s *viewService) VisibleIDs() []int64 {
	return s.ws.visibleIDs()
}

// Task returns the cached task regardless of the search query.
func (s *viewService) Task(id int64) (domain.Task, bool) {
	return s.ws.Cache.Get(id)
}

func (s *viewService) Stats() app.Stats {
	return s.ws.Cache.Stats()
}
