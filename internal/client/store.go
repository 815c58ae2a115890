package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/domain"
)

func taskPath(id int64) string {
	return "/api/tasks/" + strconv.FormatInt(id, 10)
}

func subtaskPath(id int64) string {
	return "/api/subtasks/" + strconv.FormatInt(id, 10)
}

func (c *Client) ListTasks(ctx context.Context, filter app.ListFilter) ([]domain.Task, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Priority != "" {
		query.Set("priority", string(filter.Priority))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	var records []contract.TaskRecord
	if err := c.call(ctx, "list_tasks", http.MethodGet, "/api/tasks", query, nil, &records); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	tasks := make([]domain.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, r.ToDomain())
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	var rec contract.TaskRecord
	if err := c.call(ctx, "get_task", http.MethodGet, taskPath(id), nil, nil, &rec); err != nil {
		return nil, fmt.Errorf("getting task %d: %w", id, err)
	}
	t := rec.ToDomain()
	return &t, nil
}

func (c *Client) CreateTask(ctx context.Context, in app.TaskInput) (*domain.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var rec contract.TaskRecord
	if err := c.call(ctx, "create_task", http.MethodPost, "/api/tasks", nil, contract.NewCreateTaskRequest(in), &rec); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	t := rec.ToDomain()
	return &t, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, patch app.TaskPatch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var rec contract.TaskRecord
	if err := c.call(ctx, "update_task", http.MethodPut, taskPath(id), nil, contract.NewUpdateTaskRequest(patch), &rec); err != nil {
		return nil, fmt.Errorf("updating task %d: %w", id, err)
	}
	t := rec.ToDomain()
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if err := c.call(ctx, "delete_task", http.MethodDelete, taskPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return nil
}

func (c *Client) BulkDeleteTasks(ctx context.Context, ids []int64) (int, error) {
	var resp contract.MessageResponse
	req := contract.BulkDeleteRequest{TaskIDs: ids}
	if err := c.call(ctx, "bulk_delete_tasks", http.MethodPost, "/api/tasks/bulk-delete", nil, req, &resp); err != nil {
		return 0, fmt.Errorf("deleting %d tasks: %w", len(ids), err)
	}
	return resp.Deleted, nil
}

func (c *Client) DeleteAllTasks(ctx context.Context) (int, error) {
	var resp contract.DeleteAllResponse
	if err := c.call(ctx, "delete_all_tasks", http.MethodPost, "/api/tasks/delete-all", nil, struct{}{}, &resp); err != nil {
		return 0, fmt.Errorf("deleting all tasks: %w", err)
	}
	return resp.DeletedTasks, nil
}

func (c *Client) ApplyTemplate(ctx context.Context, taskID int64, templateID *int64) (*domain.Task, error) {
	var rec contract.TaskRecord
	req := contract.ApplyTemplateRequest{TemplateID: templateID}
	if err := c.call(ctx, "apply_template", http.MethodPost, taskPath(taskID)+"/apply-template", nil, req, &rec); err != nil {
		return nil, fmt.Errorf("applying template to task %d: %w", taskID, err)
	}
	t := rec.ToDomain()
	return &t, nil
}

func (c *Client) CreateSubtask(ctx context.Context, taskID int64, title string) (*domain.Subtask, error) {
	patch := app.SubtaskPatch{Title: &title}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var rec contract.SubtaskRecord
	req := contract.CreateSubtaskRequest{Title: title}
	if err := c.call(ctx, "create_subtask", http.MethodPost, taskPath(taskID)+"/subtasks", nil, req, &rec); err != nil {
		return nil, fmt.Errorf("creating subtask on task %d: %w", taskID, err)
	}
	s := rec.ToDomain()
	return &s, nil
}

func (c *Client) UpdateSubtask(ctx context.Context, id int64, patch app.SubtaskPatch) (*domain.Subtask, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var rec contract.SubtaskRecord
	if err := c.call(ctx, "update_subtask", http.MethodPut, subtaskPath(id), nil, contract.NewUpdateSubtaskRequest(patch), &rec); err != nil {
		return nil, fmt.Errorf("updating subtask %d: %w", id, err)
	}
	s := rec.ToDomain()
	return &s, nil
}

func (c *Client) DeleteSubtask(ctx context.Context, id int64) error {
	if err := c.call(ctx, "delete_subtask", http.MethodDelete, subtaskPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting subtask %d: %w", id, err)
	}
	return nil
}

func (c *Client) ReorderSubtasks(ctx context.Context, taskID int64, order []int64) ([]domain.Subtask, error) {
	var records []contract.SubtaskRecord
	req := contract.ReorderSubtasksRequest{Order: order}
	if err := c.call(ctx, "reorder_subtasks", http.MethodPut, taskPath(taskID)+"/subtasks/reorder", nil, req, &records); err != nil {
		return nil, fmt.Errorf("reordering subtasks of task %d: %w", taskID, err)
	}
	subtasks := make([]domain.Subtask, 0, len(records))
	for _, r := range records {
		subtasks = append(subtasks, r.ToDomain())
	}
	return subtasks, nil
}

func (c *Client) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	var records []contract.TemplateRecord
	if err := c.call(ctx, "list_templates", http.MethodGet, "/api/templates", nil, nil, &records); err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	templates := make([]domain.Template, 0, len(records))
	for _, r := range records {
		templates = append(templates, r.ToDomain())
	}
	return templates, nil
}

func (c *Client) CreateTemplate(ctx context.Context, name string, steps []string) (*domain.Template, error) {
	if name == "" {
		return nil, app.Invalid("name", "template name is required")
	}
	var rec contract.TemplateRecord
	req := contract.CreateTemplateRequest{Name: name, Steps: steps}
	if err := c.call(ctx, "create_template", http.MethodPost, "/api/templates", nil, req, &rec); err != nil {
		return nil, fmt.Errorf("creating template: %w", err)
	}
	t := rec.ToDomain()
	return &t, nil
}

func (c *Client) DeleteTemplate(ctx context.Context, id int64) error {
	path := "/api/templates/" + strconv.FormatInt(id, 10)
	if err := c.call(ctx, "delete_template", http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("deleting template %d: %w", id, err)
	}
	return nil
}

func (c *Client) Stats(ctx context.Context) (*app.Stats, error) {
	var rec contract.StatsRecord
	if err := c.call(ctx, "stats", http.MethodGet, "/api/stats", nil, nil, &rec); err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}
	s := rec.ToApp()
	return &s, nil
}

func (c *Client) ListScanLog(ctx context.Context, limit int) ([]domain.ScanLogEntry, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var records []contract.ScanLogRecord
	if err := c.call(ctx, "list_scan_log", http.MethodGet, "/api/email/logs", query, nil, &records); err != nil {
		return nil, fmt.Errorf("listing scan log: %w", err)
	}
	entries := make([]domain.ScanLogEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, r.ToDomain())
	}
	return entries, nil
}

func (c *Client) ClearScanLog(ctx context.Context) error {
	if err := c.call(ctx, "clear_scan_log", http.MethodDelete, "/api/email/logs", nil, nil, nil); err != nil {
		return fmt.Errorf("clearing scan log: %w", err)
	}
	return nil
}

func (c *Client) Health(ctx context.Context) error {
	if err := c.call(ctx, "health", http.MethodGet, "/api/health", nil, nil, nil); err != nil {
		return fmt.Errorf("checking health: %w", err)
	}
	return nil
}
