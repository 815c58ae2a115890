package contract

import (
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// Wire layouts shared by the client and the reference server.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TaskRecord is the JSON shape of a task on the wire.
type TaskRecord struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	Company       string          `json:"company,omitempty"`
	SONumber      string          `json:"so_number,omitempty"`
	PONumber      string          `json:"po_number,omitempty"`
	QuoteNumber   string          `json:"quote_number,omitempty"`
	Priority      string          `json:"priority"`
	DueDate       *string         `json:"due_date"`
	DueTime       *string         `json:"due_time"`
	Status        string          `json:"status"`
	SourceEmailID string          `json:"source_email_id,omitempty"`
	CreatedAt     string          `json:"created_at,omitempty"`
	UpdatedAt     string          `json:"updated_at,omitempty"`
	Subtasks      []SubtaskRecord `json:"subtasks"`
}

type SubtaskRecord struct {
	ID        int64  `json:"id"`
	TaskID    int64  `json:"task_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	SortOrder int    `json:"sort_order"`
	CreatedAt string `json:"created_at,omitempty"`
}

type TemplateRecord struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Steps     []string `json:"steps"`
	IsDefault bool     `json:"is_default"`
	CreatedAt string   `json:"created_at,omitempty"`
}

type StatsRecord struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	InProgress   int `json:"in_progress"`
	Overdue      int `json:"overdue"`
	DueToday     int `json:"due_today"`
	HighPriority int `json:"high_priority"`
	Pending      int `json:"pending"`
}

type ScanLogRecord struct {
	ID          int64  `json:"id"`
	ScanTime    string `json:"scan_time"`
	MessageID   string `json:"message_id,omitempty"`
	Subject     string `json:"subject,omitempty"`
	FromAddress string `json:"from_address,omitempty"`
	Result      string `json:"result"`
	Reason      string `json:"reason,omitempty"`
	TaskID      *int64 `json:"task_id"`
}

// MessageResponse is the body of writes that return no record.
type MessageResponse struct {
	Message string `json:"message"`
	Deleted int    `json:"deleted,omitempty"`
}

type DeleteAllResponse struct {
	Message                string `json:"message"`
	DeletedTasks           int    `json:"deleted_tasks"`
	ClearedProcessedEmails int    `json:"cleared_processed_emails"`
}

// ErrorResponse is the body of every non-success answer.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func TaskFromDomain(t domain.Task) TaskRecord {
	r := TaskRecord{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		CustomerName:  t.CustomerName,
		CustomerEmail: t.CustomerEmail,
		Company:       t.Company,
		SONumber:      t.SONumber,
		PONumber:      t.PONumber,
		QuoteNumber:   t.QuoteNumber,
		Priority:      string(t.Priority),
		Status:        string(t.Status),
		SourceEmailID: t.SourceEmailID,
		CreatedAt:     formatTimestamp(t.CreatedAt),
		UpdatedAt:     formatTimestamp(t.UpdatedAt),
		Subtasks:      make([]SubtaskRecord, 0, len(t.Subtasks)),
	}
	if t.DueDate != nil {
		d := t.DueDate.Format(DateLayout)
		r.DueDate = &d
	}
	if t.DueTime != "" {
		dt := t.DueTime
		r.DueTime = &dt
	}
	for _, s := range t.Subtasks {
		r.Subtasks = append(r.Subtasks, SubtaskFromDomain(s))
	}
	return r
}

// ToDomain converts the record. Unparseable dates are treated as absent.
func (r TaskRecord) ToDomain() domain.Task {
	t := domain.Task{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Company:       r.Company,
		SONumber:      r.SONumber,
		PONumber:      r.PONumber,
		QuoteNumber:   r.QuoteNumber,
		Priority:      domain.Priority(r.Priority),
		Status:        domain.StoredStatus(r.Status),
		SourceEmailID: r.SourceEmailID,
		DueDate:       ParseDate(r.DueDate),
		CreatedAt:     parseTimestamp(r.CreatedAt),
		UpdatedAt:     parseTimestamp(r.UpdatedAt),
	}
	if r.DueTime != nil {
		t.DueTime = normalizeTime(*r.DueTime)
	}
	if len(r.Subtasks) > 0 {
		t.Subtasks = make([]domain.Subtask, 0, len(r.Subtasks))
		for _, s := range r.Subtasks {
			t.Subtasks = append(t.Subtasks, s.ToDomain())
		}
	}
	return t
}

func SubtaskFromDomain(s domain.Subtask) SubtaskRecord {
	return SubtaskRecord{
		ID:        s.ID,
		TaskID:    s.TaskID,
		Title:     s.Title,
		Status:    string(s.Status),
		SortOrder: s.SortOrder,
		CreatedAt: formatTimestamp(s.CreatedAt),
	}
}

func (r SubtaskRecord) ToDomain() domain.Subtask {
	return domain.Subtask{
		ID:        r.ID,
		TaskID:    r.TaskID,
		Title:     r.Title,
		Status:    domain.SubtaskStatus(r.Status),
		SortOrder: r.SortOrder,
		CreatedAt: parseTimestamp(r.CreatedAt),
	}
}

func TemplateFromDomain(t domain.Template) TemplateRecord {
	steps := t.Steps
	if steps == nil {
		steps = []string{}
	}
	return TemplateRecord{ID: t.ID, Name: t.Name, Steps: steps, IsDefault: t.IsDefault, CreatedAt: formatTimestamp(t.CreatedAt)}
}

func (r TemplateRecord) ToDomain() domain.Template {
	return domain.Template{ID: r.ID, Name: r.Name, Steps: r.Steps, IsDefault: r.IsDefault, CreatedAt: parseTimestamp(r.CreatedAt)}
}

func StatsFromApp(s app.Stats) StatsRecord {
	return StatsRecord{
		Total:        s.Total,
		Completed:    s.Completed,
		InProgress:   s.InProgress,
		Overdue:      s.Overdue,
		DueToday:     s.DueToday,
		HighPriority: s.HighPriority,
		Pending:      s.Pending,
	}
}

func (r StatsRecord) ToApp() app.Stats {
	return app.Stats{
		Total:        r.Total,
		Completed:    r.Completed,
		InProgress:   r.InProgress,
		Overdue:      r.Overdue,
		DueToday:     r.DueToday,
		HighPriority: r.HighPriority,
		Pending:      r.Pending,
	}
}

func ScanLogFromDomain(e domain.ScanLogEntry) ScanLogRecord {
	return ScanLogRecord{
		ID:          e.ID,
		ScanTime:    formatTimestamp(e.ScanTime),
		MessageID:   e.MessageID,
		Subject:     e.Subject,
		FromAddress: e.FromAddress,
		Result:      e.Result,
		Reason:      e.Reason,
		TaskID:      e.TaskID,
	}
}

func (r ScanLogRecord) ToDomain() domain.ScanLogEntry {
	return domain.ScanLogEntry{
		ID:          r.ID,
		ScanTime:    parseTimestamp(r.ScanTime),
		MessageID:   r.MessageID,
		Subject:     r.Subject,
		FromAddress: r.FromAddress,
		Result:      r.Result,
		Reason:      r.Reason,
		TaskID:      r.TaskID,
	}
}

// ParseDate reads an optional YYYY-MM-DD value. Empty or malformed input
// yields nil.
func ParseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	d, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil
	}
	return &d
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	// Timestamps without a zone are UTC.
	if t, err := time.Parse("2006-01-02T15:04:05.999999", s); err == nil {
		return t
	}
	return time.Time{}
}

// normalizeTime trims seconds from HH:MM:SS values.
func normalizeTime(s string) string {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format(TimeLayout)
	}
	return s
}
