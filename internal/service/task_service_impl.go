package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/domain"
)

type taskService struct {
	ws       *Workspace
	store    app.RecordStore
	observer UseCaseObserver
}

func NewTaskService(ws *Workspace, store app.RecordStore, observers ...UseCaseObserver) TaskService {
	return &taskService{ws: ws, store: store, observer: joinObservers(observers)}
}

func (s *taskService) Reload(ctx context.Context) error {
	s.ws.Cache.Reset()
	return s.Refresh(ctx)
}

// Refresh replaces the cached task list and stats wholesale.
func (s *taskService) Refresh(ctx context.Context) (err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "refresh", startedAt, fields, err) }()

	tasks, err := s.store.ListTasks(ctx, app.ListFilter{})
	if err != nil {
		return err
	}
	s.ws.Cache.Replace(tasks)
	s.ws.reconcileSelection()
	fields["task_count"] = len(tasks)

	return s.RefreshStats(ctx)
}

func (s *taskService) RefreshStats(ctx context.Context) error {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return err
	}
	s.ws.Cache.SetStats(*stats)
	return nil
}

// refreshStatsAfterWrite keeps the stats panel current after a successful
// write. A failure leaves the previous stats in place.
func (s *taskService) refreshStatsAfterWrite(ctx context.Context, fields map[string]any) {
	if err := s.RefreshStats(ctx); err != nil {
		fields["stats_error"] = err.Error()
	}
}

// Open fetches a fresh copy of the task and overwrites the cached entry.
func (s *taskService) Open(ctx context.Context, id int64) (task *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": id}
	defer func() { observe(ctx, s.observer, "open-task", startedAt, fields, err) }()

	task, err = s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	s.ws.Cache.Put(*task)
	return task, nil
}

func (s *taskService) Create(ctx context.Context, in app.TaskInput, tmpl *TemplateChoice) (task *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"with_template": tmpl != nil}
	defer func() { observe(ctx, s.observer, "create-task", startedAt, fields, err) }()

	if err = in.Validate(); err != nil {
		return nil, err
	}
	task, err = s.store.CreateTask(ctx, in)
	if err != nil {
		return nil, err
	}
	s.ws.Cache.Put(*task)
	s.ws.reconcileSelection()
	fields["task_id"] = task.ID

	if tmpl != nil {
		withSteps, applyErr := s.store.ApplyTemplate(ctx, task.ID, tmpl.ID)
		if applyErr != nil {
			// The task exists; only the template step failed.
			err = fmt.Errorf("task %d created, applying template: %w", task.ID, applyErr)
			return task, err
		}
		task = withSteps
		s.ws.Cache.Put(*task)
	}

	s.refreshStatsAfterWrite(ctx, fields)
	return task, nil
}

func (s *taskService) Update(ctx context.Context, id int64, patch app.TaskPatch) (task *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": id}
	defer func() { observe(ctx, s.observer, "update-task", startedAt, fields, err) }()

	if err = patch.Validate(); err != nil {
		return nil, err
	}
	task, err = s.store.UpdateTask(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.ws.Cache.Put(*task)
	s.refreshStatsAfterWrite(ctx, fields)
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id int64, confirmed bool) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": id}
	defer func() { observe(ctx, s.observer, "delete-task", startedAt, fields, err) }()

	if !confirmed {
		return ErrNotConfirmed
	}
	if err = s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.ws.Cache.Remove(id)
	s.ws.reconcileSelection()
	s.refreshStatsAfterWrite(ctx, fields)
	return nil
}

func (s *taskService) ApplyTemplate(ctx context.Context, taskID int64, templateID *int64) (task *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": taskID}
	defer func() { observe(ctx, s.observer, "apply-template", startedAt, fields, err) }()

	task, err = s.store.ApplyTemplate(ctx, taskID, templateID)
	if err != nil {
		return nil, err
	}
	s.ws.Cache.Put(*task)
	fields["subtask_count"] = len(task.Subtasks)
	return task, nil
}
