package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/domain"
)

type dragService struct {
	ws       *Workspace
	store    app.RecordStore
	observer UseCaseObserver

	mu   sync.Mutex
	drag board.DragMachine
}

func NewDragService(ws *Workspace, store app.RecordStore, observers ...UseCaseObserver) DragService {
	return &dragService{ws: ws, store: store, observer: joinObservers(observers)}
}

// Start picks up a task. Dragging is disabled in selection mode.
func (s *dragService) Start(taskID int64) error {
	if s.ws.selecting() {
		return ErrSelectionActive
	}
	if _, ok := s.ws.Cache.Get(taskID); !ok {
		return fmt.Errorf("task %d: %w", taskID, ErrTaskNotLoaded)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Start(taskID)
}

func (s *dragService) Enter(col domain.ResolvedStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Enter(col)
}

func (s *dragService) Leave(col domain.ResolvedStatus, pointer board.Point, bounds board.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag.Leave(col, pointer, bounds)
}

func (s *dragService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag.End()
}

func (s *dragService) State() board.DragState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.State()
}

func (s *dragService) TaskID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.TaskID()
}

func (s *dragService) Hovered() (domain.ResolvedStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Hovered()
}

// PlanDrop ends the gesture on col and returns the resulting transition
// without writing anything.
func (s *dragService) PlanDrop(col domain.ResolvedStatus) (board.Transition, error) {
	s.mu.Lock()
	id, err := s.drag.Drop()
	s.mu.Unlock()
	if err != nil {
		return board.Transition{}, err
	}
	task, ok := s.ws.Cache.Get(id)
	if !ok {
		return board.Transition{}, fmt.Errorf("task %d: %w", id, ErrTaskNotLoaded)
	}
	return board.PlanDrop(task, col), nil
}

// Commit writes the transition's stored status. Transitions that leave the
// status unchanged send nothing. On failure the cache is left as it was.
func (s *dragService) Commit(ctx context.Context, tr board.Transition) (err error) {
	if !tr.NeedsWrite() {
		return nil
	}
	startedAt := time.Now()
	fields := map[string]any{"task_id": tr.TaskID, "from": string(tr.From), "to": string(tr.To)}
	defer func() { observe(ctx, s.observer, "move-task", startedAt, fields, err) }()

	to := tr.To
	task, err := s.store.UpdateTask(ctx, tr.TaskID, app.TaskPatch{Status: &to})
	if err != nil {
		return err
	}
	s.ws.Cache.Put(*task)

	if stats, statsErr := s.store.Stats(ctx); statsErr == nil {
		s.ws.Cache.SetStats(*stats)
	} else {
		fields["stats_error"] = statsErr.Error()
	}
	return nil
}

func (s *dragService) Drop(ctx context.Context, col domain.ResolvedStatus) (board.Transition, error) {
	tr, err := s.PlanDrop(col)
	if err != nil {
		return tr, err
	}
	return tr, s.Commit(ctx, tr)
}
