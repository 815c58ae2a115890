package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/cache"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/optimistic"
)

type subtaskService struct {
	cache    *cache.TaskCache
	store    app.RecordStore
	coord    *optimistic.Coordinator
	observer UseCaseObserver
}

func NewSubtaskService(ws *Workspace, store app.RecordStore, coord *optimistic.Coordinator, observers ...UseCaseObserver) SubtaskService {
	if coord == nil {
		coord = optimistic.NewCoordinator()
	}
	return &subtaskService{
		cache:    ws.Cache,
		store:    store,
		coord:    coord,
		observer: joinObservers(observers),
	}
}

func statusKey(subtaskID int64) string {
	return fmt.Sprintf("subtask:%d:status", subtaskID)
}

func titleKey(subtaskID int64) string {
	return fmt.Sprintf("subtask:%d:title", subtaskID)
}

func listKey(taskID int64) string {
	return fmt.Sprintf("task:%d:subtasks", taskID)
}

// observed wraps a pending write so its outcome is reported.
func (s *subtaskService) observed(name string, fields map[string]any, p optimistic.Pending) optimistic.Pending {
	return func(ctx context.Context) error {
		startedAt := time.Now()
		err := p(ctx)
		observe(ctx, s.observer, name, startedAt, fields, err)
		return err
	}
}

func (s *subtaskService) gone(taskID, subtaskID int64) error {
	return fmt.Errorf("subtask %d of task %d: %w", subtaskID, taskID, ErrTaskNotLoaded)
}

// Toggle flips a subtask between pending and completed.
func (s *subtaskService) Toggle(taskID, subtaskID int64) (optimistic.Pending, error) {
	current, ok := s.cache.Subtask(taskID, subtaskID)
	if !ok {
		return nil, s.gone(taskID, subtaskID)
	}
	m := optimistic.Mutation[domain.SubtaskStatus]{
		Key: statusKey(subtaskID),
		Get: func() (domain.SubtaskStatus, bool) {
			st, ok := s.cache.Subtask(taskID, subtaskID)
			return st.Status, ok
		},
		Set: func(v domain.SubtaskStatus) bool {
			return s.cache.UpdateSubtask(taskID, subtaskID, func(st *domain.Subtask) { st.Status = v })
		},
		Commit: func(ctx context.Context, next domain.SubtaskStatus) (domain.SubtaskStatus, error) {
			updated, err := s.store.UpdateSubtask(ctx, subtaskID, app.SubtaskPatch{Status: &next})
			if err != nil {
				return "", err
			}
			return updated.Status, nil
		},
	}
	p, err := optimistic.Apply(s.coord, m, current.Status.Toggled())
	if err != nil {
		return nil, s.gone(taskID, subtaskID)
	}
	return s.observed("toggle-subtask", map[string]any{"task_id": taskID, "subtask_id": subtaskID}, p), nil
}

func (s *subtaskService) Rename(taskID, subtaskID int64, title string) (optimistic.Pending, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, app.Invalid("title", "subtask title is required")
	}
	m := optimistic.Mutation[string]{
		Key: titleKey(subtaskID),
		Get: func() (string, bool) {
			st, ok := s.cache.Subtask(taskID, subtaskID)
			return st.Title, ok
		},
		Set: func(v string) bool {
			return s.cache.UpdateSubtask(taskID, subtaskID, func(st *domain.Subtask) { st.Title = v })
		},
		Commit: func(ctx context.Context, next string) (string, error) {
			updated, err := s.store.UpdateSubtask(ctx, subtaskID, app.SubtaskPatch{Title: &next})
			if err != nil {
				return "", err
			}
			return updated.Title, nil
		},
	}
	p, err := optimistic.Apply(s.coord, m, title)
	if err != nil {
		return nil, s.gone(taskID, subtaskID)
	}
	return s.observed("rename-subtask", map[string]any{"task_id": taskID, "subtask_id": subtaskID}, p), nil
}

// listMutation edits a task's whole subtask list. A failure restores the
// list captured before the edit; a success keeps the local list, which may
// already carry later edits to individual subtasks.
func (s *subtaskService) listMutation(taskID int64, commit func(ctx context.Context, next []domain.Subtask) error) optimistic.Mutation[[]domain.Subtask] {
	return optimistic.Mutation[[]domain.Subtask]{
		Key: listKey(taskID),
		Get: func() ([]domain.Subtask, bool) {
			return s.cache.Subtasks(taskID)
		},
		Set: func(v []domain.Subtask) bool {
			return s.cache.SetSubtasks(taskID, v)
		},
		Commit: func(ctx context.Context, next []domain.Subtask) ([]domain.Subtask, error) {
			if err := commit(ctx, next); err != nil {
				return nil, err
			}
			return next, nil
		},
		KeepLocal: true,
	}
}

func (s *subtaskService) Delete(taskID, subtaskID int64) (optimistic.Pending, error) {
	list, ok := s.cache.Subtasks(taskID)
	if !ok {
		return nil, s.gone(taskID, subtaskID)
	}
	idx := indexOfSubtask(list, subtaskID)
	if idx < 0 {
		return nil, s.gone(taskID, subtaskID)
	}
	next := make([]domain.Subtask, 0, len(list)-1)
	next = append(next, list[:idx]...)
	next = append(next, list[idx+1:]...)

	m := s.listMutation(taskID, func(ctx context.Context, _ []domain.Subtask) error {
		return s.store.DeleteSubtask(ctx, subtaskID)
	})
	p, err := optimistic.Apply(s.coord, m, next)
	if err != nil {
		return nil, s.gone(taskID, subtaskID)
	}
	return s.observed("delete-subtask", map[string]any{"task_id": taskID, "subtask_id": subtaskID}, p), nil
}

// Move shifts a subtask delta places within its task and persists the order.
func (s *subtaskService) Move(taskID, subtaskID int64, delta int) (optimistic.Pending, error) {
	list, ok := s.cache.Subtasks(taskID)
	if !ok {
		return nil, s.gone(taskID, subtaskID)
	}
	from := indexOfSubtask(list, subtaskID)
	if from < 0 {
		return nil, s.gone(taskID, subtaskID)
	}
	to := from + delta
	if to < 0 {
		to = 0
	}
	if to > len(list)-1 {
		to = len(list) - 1
	}
	if to == from {
		return func(context.Context) error { return nil }, nil
	}

	next := make([]domain.Subtask, 0, len(list))
	moved := list[from]
	rest := append(append([]domain.Subtask{}, list[:from]...), list[from+1:]...)
	next = append(next, rest[:to]...)
	next = append(next, moved)
	next = append(next, rest[to:]...)
	for i := range next {
		next[i].SortOrder = i
	}

	m := s.listMutation(taskID, func(ctx context.Context, order []domain.Subtask) error {
		ids := make([]int64, len(order))
		for i, st := range order {
			ids[i] = st.ID
		}
		_, err := s.store.ReorderSubtasks(ctx, taskID, ids)
		return err
	})
	p, err := optimistic.Apply(s.coord, m, next)
	if err != nil {
		return nil, s.gone(taskID, subtaskID)
	}
	return s.observed("move-subtask", map[string]any{"task_id": taskID, "subtask_id": subtaskID, "to": to}, p), nil
}

// Create adds one subtask and appends the canonical record.
func (s *subtaskService) Create(ctx context.Context, taskID int64, title string) (st *domain.Subtask, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": taskID}
	defer func() { observe(ctx, s.observer, "create-subtask", startedAt, fields, err) }()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, app.Invalid("title", "subtask title is required")
	}
	st, err = s.store.CreateSubtask(ctx, taskID, title)
	if err != nil {
		return nil, err
	}
	s.cache.AppendSubtasks(taskID, *st)
	return st, nil
}

// BulkCreate creates one subtask per non-blank line, in order, one request
// at a time. When line k fails, the subtasks created from lines before it
// stay appended and no later line is attempted.
func (s *subtaskService) BulkCreate(ctx context.Context, taskID int64, block string) (created []domain.Subtask, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": taskID}
	defer func() {
		fields["created"] = len(created)
		observe(ctx, s.observer, "bulk-create-subtasks", startedAt, fields, err)
	}()

	lines := splitLines(block)
	if len(lines) == 0 {
		return nil, app.Invalid("title", "enter at least one subtask")
	}
	fields["lines"] = len(lines)

	for i, title := range lines {
		st, createErr := s.store.CreateSubtask(ctx, taskID, title)
		if createErr != nil {
			return created, fmt.Errorf("creating subtask %d of %d: %w", i+1, len(lines), createErr)
		}
		s.cache.AppendSubtasks(taskID, *st)
		created = append(created, *st)
	}
	return created, nil
}

func indexOfSubtask(list []domain.Subtask, id int64) int {
	for i, st := range list {
		if st.ID == id {
			return i
		}
	}
	return -1
}
