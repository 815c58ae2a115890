package testutil

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// Operation names accepted by FakeStore.FailOn and FakeStore.Calls.
const (
	OpListTasks       = "ListTasks"
	OpGetTask         = "GetTask"
	OpCreateTask      = "CreateTask"
	OpUpdateTask      = "UpdateTask"
	OpDeleteTask      = "DeleteTask"
	OpBulkDeleteTasks = "BulkDeleteTasks"
	OpDeleteAllTasks  = "DeleteAllTasks"
	OpApplyTemplate   = "ApplyTemplate"
	OpCreateSubtask   = "CreateSubtask"
	OpUpdateSubtask   = "UpdateSubtask"
	OpDeleteSubtask   = "DeleteSubtask"
	OpReorderSubtasks = "ReorderSubtasks"
	OpListTemplates   = "ListTemplates"
	OpCreateTemplate  = "CreateTemplate"
	OpDeleteTemplate  = "DeleteTemplate"
	OpStats           = "Stats"
	OpListScanLog     = "ListScanLog"
	OpClearScanLog    = "ClearScanLog"
	OpHealth          = "Health"
)

// ErrFakeNetwork is a ready-made network failure.
var ErrFakeNetwork = app.ErrNetwork

// Rejected builds a rejection as the HTTP client would report it.
func Rejected(status int, message string) error {
	return &app.RejectedError{Status: status, Message: message}
}

// FakeStore is an in-memory app.RecordStore with call counting and
// per-call failure injection.
type FakeStore struct {
	Now func() time.Time

	mu          sync.Mutex
	tasks       []domain.Task
	templates   []domain.Template
	scanLog     []domain.ScanLogEntry
	processed   int
	nextID      int64
	calls       map[string]int
	failures    map[string]map[int]error
	deleteCalls [][]int64
}

var _ app.RecordStore = (*FakeStore)(nil)

// NewFakeStore seeds the store with tasks in the given order.
func NewFakeStore(tasks ...domain.Task) *FakeStore {
	f := &FakeStore{
		Now:      time.Now,
		calls:    make(map[string]int),
		failures: make(map[string]map[int]error),
		nextID:   10_000,
	}
	for _, t := range tasks {
		f.tasks = append(f.tasks, t.Clone())
	}
	return f
}

// FailOn makes the nth call (1-based) of op return err.
func (f *FakeStore) FailOn(op string, n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures[op] == nil {
		f.failures[op] = make(map[int]error)
	}
	f.failures[op][n] = err
}

// FailNext makes the next call of op return err.
func (f *FakeStore) FailNext(op string, err error) {
	f.mu.Lock()
	n := f.calls[op] + 1
	f.mu.Unlock()
	f.FailOn(op, n, err)
}

// Calls returns how many times op was invoked.
func (f *FakeStore) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// BulkDeleteRequests returns the id lists sent to BulkDeleteTasks.
func (f *FakeStore) BulkDeleteRequests() [][]int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]int64(nil), f.deleteCalls...)
}

// Task returns the stored copy of a task.
func (f *FakeStore) Task(id int64) (domain.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexOf(id); i >= 0 {
		return f.tasks[i].Clone(), true
	}
	return domain.Task{}, false
}

// AddScanLog appends a scanner log entry and marks one message processed.
func (f *FakeStore) AddScanLog(e domain.ScanLogEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = f.nextID
	f.scanLog = append(f.scanLog, e)
	f.processed++
}

// ProcessedEmails is the size of the scanner's dedup history.
func (f *FakeStore) ProcessedEmails() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.processed
}

// begin counts a call and returns its injected failure. Callers hold f.mu.
func (f *FakeStore) begin(op string) error {
	f.calls[op]++
	if errs := f.failures[op]; errs != nil {
		if err, ok := errs[f.calls[op]]; ok {
			return err
		}
	}
	return nil
}

func (f *FakeStore) indexOf(id int64) int {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *FakeStore) findSubtask(id int64) (int, int) {
	for i := range f.tasks {
		if j := f.tasks[i].SubtaskIndex(id); j >= 0 {
			return i, j
		}
	}
	return -1, -1
}

func notFound() error {
	return Rejected(http.StatusNotFound, "Not found")
}

func (f *FakeStore) ListTasks(_ context.Context, filter app.ListFilter) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpListTasks); err != nil {
		return nil, err
	}
	var out []domain.Task
	q := strings.ToLower(filter.Search)
	for _, t := range f.tasks {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Title), q) {
			continue
		}
		out = append(out, t.Clone())
	}
	return out, nil
}

func (f *FakeStore) GetTask(_ context.Context, id int64) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpGetTask); err != nil {
		return nil, err
	}
	i := f.indexOf(id)
	if i < 0 {
		return nil, notFound()
	}
	t := f.tasks[i].Clone()
	return &t, nil
}

func (f *FakeStore) CreateTask(_ context.Context, in app.TaskInput) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpCreateTask); err != nil {
		return nil, err
	}
	f.nextID++
	now := f.Now().UTC()
	t := domain.Task{
		ID:            f.nextID,
		Title:         in.Title,
		Description:   in.Description,
		Status:        in.Status,
		Priority:      in.Priority,
		DueDate:       in.DueDate,
		DueTime:       in.DueTime,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Company:       in.Company,
		PONumber:      in.PONumber,
		SONumber:      in.SONumber,
		QuoteNumber:   in.QuoteNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if t.Status == "" {
		t.Status = domain.StatusScheduled
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	f.tasks = append([]domain.Task{t}, f.tasks...)
	out := t.Clone()
	return &out, nil
}

func (f *FakeStore) UpdateTask(_ context.Context, id int64, patch app.TaskPatch) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpUpdateTask); err != nil {
		return nil, err
	}
	i := f.indexOf(id)
	if i < 0 {
		return nil, notFound()
	}
	t := &f.tasks[i]
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.ClearDueDate {
		t.DueDate = nil
	} else if patch.DueDate != nil {
		d := *patch.DueDate
		t.DueDate = &d
	}
	if patch.DueTime != nil {
		t.DueTime = *patch.DueTime
	}
	t.UpdatedAt = f.Now().UTC()
	out := t.Clone()
	return &out, nil
}

func (f *FakeStore) DeleteTask(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpDeleteTask); err != nil {
		return err
	}
	i := f.indexOf(id)
	if i < 0 {
		return notFound()
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

func (f *FakeStore) BulkDeleteTasks(_ context.Context, ids []int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, append([]int64(nil), ids...))
	if err := f.begin(OpBulkDeleteTasks); err != nil {
		return 0, err
	}
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := f.tasks[:0]
	deleted := 0
	for _, t := range f.tasks {
		if drop[t.ID] {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	f.tasks = kept
	return deleted, nil
}

func (f *FakeStore) DeleteAllTasks(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpDeleteAllTasks); err != nil {
		return 0, err
	}
	n := len(f.tasks)
	f.tasks = nil
	f.scanLog = nil
	f.processed = 0
	return n, nil
}

func (f *FakeStore) ApplyTemplate(_ context.Context, taskID int64, templateID *int64) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpApplyTemplate); err != nil {
		return nil, err
	}
	i := f.indexOf(taskID)
	if i < 0 {
		return nil, notFound()
	}
	steps := []string{"Default step"}
	if templateID != nil {
		steps = nil
		for _, tmpl := range f.templates {
			if tmpl.ID == *templateID {
				steps = tmpl.Steps
			}
		}
		if steps == nil {
			return nil, notFound()
		}
	}
	for _, step := range steps {
		f.nextID++
		f.tasks[i].Subtasks = append(f.tasks[i].Subtasks, domain.Subtask{
			ID:        f.nextID,
			TaskID:    taskID,
			Title:     step,
			Status:    domain.SubtaskPending,
			SortOrder: len(f.tasks[i].Subtasks) + 1,
		})
	}
	out := f.tasks[i].Clone()
	return &out, nil
}

func (f *FakeStore) CreateSubtask(_ context.Context, taskID int64, title string) (*domain.Subtask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpCreateSubtask); err != nil {
		return nil, err
	}
	i := f.indexOf(taskID)
	if i < 0 {
		return nil, notFound()
	}
	f.nextID++
	st := domain.Subtask{
		ID:        f.nextID,
		TaskID:    taskID,
		Title:     title,
		Status:    domain.SubtaskPending,
		SortOrder: len(f.tasks[i].Subtasks) + 1,
		CreatedAt: f.Now().UTC(),
	}
	f.tasks[i].Subtasks = append(f.tasks[i].Subtasks, st)
	return &st, nil
}

func (f *FakeStore) UpdateSubtask(_ context.Context, id int64, patch app.SubtaskPatch) (*domain.Subtask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpUpdateSubtask); err != nil {
		return nil, err
	}
	i, j := f.findSubtask(id)
	if i < 0 {
		return nil, notFound()
	}
	st := &f.tasks[i].Subtasks[j]
	if patch.Title != nil {
		st.Title = *patch.Title
	}
	if patch.Status != nil {
		st.Status = *patch.Status
	}
	out := *st
	return &out, nil
}

func (f *FakeStore) DeleteSubtask(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpDeleteSubtask); err != nil {
		return err
	}
	i, j := f.findSubtask(id)
	if i < 0 {
		return notFound()
	}
	f.tasks[i].Subtasks = append(f.tasks[i].Subtasks[:j], f.tasks[i].Subtasks[j+1:]...)
	return nil
}

func (f *FakeStore) ReorderSubtasks(_ context.Context, taskID int64, order []int64) ([]domain.Subtask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpReorderSubtasks); err != nil {
		return nil, err
	}
	i := f.indexOf(taskID)
	if i < 0 {
		return nil, notFound()
	}
	byID := make(map[int64]domain.Subtask, len(f.tasks[i].Subtasks))
	for _, st := range f.tasks[i].Subtasks {
		byID[st.ID] = st
	}
	reordered := make([]domain.Subtask, 0, len(order))
	for pos, id := range order {
		if st, ok := byID[id]; ok {
			st.SortOrder = pos
			reordered = append(reordered, st)
			delete(byID, id)
		}
	}
	for _, st := range f.tasks[i].Subtasks {
		if _, ok := byID[st.ID]; ok {
			reordered = append(reordered, st)
		}
	}
	f.tasks[i].Subtasks = reordered
	return append([]domain.Subtask(nil), reordered...), nil
}

func (f *FakeStore) ListTemplates(_ context.Context) ([]domain.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpListTemplates); err != nil {
		return nil, err
	}
	return append([]domain.Template(nil), f.templates...), nil
}

func (f *FakeStore) CreateTemplate(_ context.Context, name string, steps []string) (*domain.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpCreateTemplate); err != nil {
		return nil, err
	}
	f.nextID++
	tmpl := domain.Template{ID: f.nextID, Name: name, Steps: append([]string(nil), steps...), CreatedAt: f.Now().UTC()}
	f.templates = append(f.templates, tmpl)
	return &tmpl, nil
}

func (f *FakeStore) DeleteTemplate(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpDeleteTemplate); err != nil {
		return err
	}
	for i, tmpl := range f.templates {
		if tmpl.ID == id {
			f.templates = append(f.templates[:i], f.templates[i+1:]...)
			return nil
		}
	}
	return notFound()
}

func (f *FakeStore) Stats(_ context.Context) (*app.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpStats); err != nil {
		return nil, err
	}
	now := f.Now()
	var s app.Stats
	for _, t := range f.tasks {
		s.Total++
		switch t.Status {
		case domain.StatusCompleted:
			s.Completed++
			continue
		case domain.StatusInProgress:
			s.InProgress++
		}
		if t.Priority == domain.PriorityHigh {
			s.HighPriority++
		}
		if t.DueDate != nil {
			switch d := domain.DaysUntil(*t.DueDate, now); {
			case d < 0:
				s.Overdue++
			case d == 0:
				s.DueToday++
			}
		}
	}
	s.Pending = s.Total - s.Completed
	return &s, nil
}

func (f *FakeStore) ListScanLog(_ context.Context, limit int) ([]domain.ScanLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpListScanLog); err != nil {
		return nil, err
	}
	out := make([]domain.ScanLogEntry, 0, len(f.scanLog))
	for i := len(f.scanLog) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, f.scanLog[i])
	}
	return out, nil
}

func (f *FakeStore) ClearScanLog(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpClearScanLog); err != nil {
		return err
	}
	f.scanLog = nil
	return nil
}

func (f *FakeStore) Health(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.begin(OpHealth)
}
