package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
)

type selectionService struct {
	ws       *Workspace
	store    app.RecordStore
	tasks    TaskService
	observer UseCaseObserver
}

func NewSelectionService(ws *Workspace, store app.RecordStore, tasks TaskService, observers ...UseCaseObserver) SelectionService {
	return &selectionService{ws: ws, store: store, tasks: tasks, observer: joinObservers(observers)}
}

func (s *selectionService) Active() bool {
	return s.ws.selecting()
}

func (s *selectionService) Enter() {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	s.ws.selection.Enter()
}

func (s *selectionService) Exit() {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	s.ws.selection.Exit()
}

func (s *selectionService) Toggle(id int64) bool {
	visible := s.ws.visibleIDs()
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	return s.ws.selection.Toggle(id, visible)
}

func (s *selectionService) ToggleAll() {
	visible := s.ws.visibleIDs()
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	s.ws.selection.ToggleAll(visible)
}

func (s *selectionService) Has(id int64) bool {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	return s.ws.selection.Has(id)
}

func (s *selectionService) Count() int {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	return s.ws.selection.Len()
}

func (s *selectionService) IDs() []int64 {
	visible := s.ws.visibleIDs()
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	return s.ws.selection.IDs(visible)
}

func (s *selectionService) BulkDeletePrompt() string {
	n := s.Count()
	return fmt.Sprintf("Delete %d selected %s? This cannot be undone.", n, plural(n, "task"))
}

// BulkDelete removes the selected tasks in one request. On success the
// selection is cleared, selection mode ends and tasks and stats are
// refetched; if only that refetch fails the count is returned with
// ErrStaleList. On failure mode and selection are left untouched.
func (s *selectionService) BulkDelete(ctx context.Context, confirmed bool) (deleted int, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "bulk-delete", startedAt, fields, err) }()

	if !s.Active() {
		return 0, app.Invalid("selection", "selection mode is off")
	}
	ids := s.IDs()
	fields["selected"] = len(ids)
	if len(ids) == 0 {
		return 0, app.Invalid("selection", "no tasks selected")
	}
	if !confirmed {
		return 0, ErrNotConfirmed
	}

	deleted, err = s.store.BulkDeleteTasks(ctx, ids)
	if err != nil {
		return 0, err
	}
	fields["deleted"] = deleted

	s.Exit()
	s.ws.Cache.Remove(ids...)
	if err = s.tasks.Refresh(ctx); err != nil {
		return deleted, fmt.Errorf("%w: %w", ErrStaleList, err)
	}
	return deleted, nil
}

func (s *selectionService) DeleteAllPrompt() string {
	n := s.ws.Cache.Len()
	return fmt.Sprintf("Delete ALL %d %s? The inbox scan history is cleared too, so scanned messages can be imported again. This cannot be undone.",
		n, plural(n, "task"))
}

// DeleteAll removes every task and the scanner's dedup history, then
// refetches tasks and stats.
func (s *selectionService) DeleteAll(ctx context.Context, confirmed bool) (deleted int, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "delete-all", startedAt, fields, err) }()

	if !confirmed {
		return 0, ErrNotConfirmed
	}
	deleted, err = s.store.DeleteAllTasks(ctx)
	if err != nil {
		return 0, err
	}
	fields["deleted"] = deleted

	s.ws.Cache.Replace(nil)
	s.ws.reconcileSelection()
	if err = s.tasks.Refresh(ctx); err != nil {
		return deleted, fmt.Errorf("%w: %w", ErrStaleList, err)
	}
	return deleted, nil
}
