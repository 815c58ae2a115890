package contract

import (
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/domain"
)

type CreateTaskRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	CustomerName  string  `json:"customer_name,omitempty"`
	CustomerEmail string  `json:"customer_email,omitempty"`
	Company       string  `json:"company,omitempty"`
	SONumber      string  `json:"so_number,omitempty"`
	PONumber      string  `json:"po_number,omitempty"`
	QuoteNumber   string  `json:"quote_number,omitempty"`
	Priority      string  `json:"priority,omitempty"`
	DueDate       *string `json:"due_date,omitempty"`
	DueTime       *string `json:"due_time,omitempty"`
	Status        string  `json:"status,omitempty"`
}

func NewCreateTaskRequest(in app.TaskInput) CreateTaskRequest {
	req := CreateTaskRequest{
		Title:         in.Title,
		Description:   in.Description,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Company:       in.Company,
		SONumber:      in.SONumber,
		PONumber:      in.PONumber,
		QuoteNumber:   in.QuoteNumber,
		Priority:      string(in.Priority),
		Status:        string(in.Status),
	}
	if in.DueDate != nil {
		d := in.DueDate.Format(DateLayout)
		req.DueDate = &d
	}
	if in.DueTime != "" {
		t := in.DueTime
		req.DueTime = &t
	}
	return req
}

// ToInput converts the request, applying store defaults for omitted fields.
func (r CreateTaskRequest) ToInput() app.TaskInput {
	in := app.TaskInput{
		Title:         strings.TrimSpace(r.Title),
		Description:   r.Description,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Company:       r.Company,
		SONumber:      r.SONumber,
		PONumber:      r.PONumber,
		QuoteNumber:   r.QuoteNumber,
		Priority:      domain.Priority(r.Priority),
		Status:        domain.StoredStatus(r.Status),
		DueDate:       ParseDate(r.DueDate),
	}
	if in.Title == "" {
		in.Title = "Untitled Task"
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if in.Status == "" {
		in.Status = domain.StatusScheduled
	}
	if r.DueTime != nil {
		if t, err := time.Parse(TimeLayout, *r.DueTime); err == nil {
			in.DueTime = t.Format(TimeLayout)
		}
	}
	return in
}

// UpdateTaskRequest is a partial update. An empty due_date or due_time
// clears the value.
type UpdateTaskRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	CustomerName  *string `json:"customer_name,omitempty"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	Company       *string `json:"company,omitempty"`
	SONumber      *string `json:"so_number,omitempty"`
	PONumber      *string `json:"po_number,omitempty"`
	QuoteNumber   *string `json:"quote_number,omitempty"`
	Priority      *string `json:"priority,omitempty"`
	Status        *string `json:"status,omitempty"`
	DueDate       *string `json:"due_date,omitempty"`
	DueTime       *string `json:"due_time,omitempty"`
}

func NewUpdateTaskRequest(p app.TaskPatch) UpdateTaskRequest {
	req := UpdateTaskRequest{
		Title:       p.Title,
		Description: p.Description,
		DueTime:     p.DueTime,
	}
	if p.Status != nil {
		s := string(*p.Status)
		req.Status = &s
	}
	if p.Priority != nil {
		pr := string(*p.Priority)
		req.Priority = &pr
	}
	switch {
	case p.ClearDueDate:
		empty := ""
		req.DueDate = &empty
	case p.DueDate != nil:
		d := p.DueDate.Format(DateLayout)
		req.DueDate = &d
	}
	return req
}

// Apply validates the request and writes it onto t.
func (r UpdateTaskRequest) Apply(t *domain.Task) error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return app.Invalid("title", "title is required")
	}
	if r.Status != nil && !domain.StoredStatus(*r.Status).Valid() {
		return app.Invalid("status", "unknown status "+*r.Status)
	}
	if r.Priority != nil && !domain.Priority(*r.Priority).Valid() {
		return app.Invalid("priority", "unknown priority "+*r.Priority)
	}

	setString(&t.Title, r.Title)
	setString(&t.Description, r.Description)
	setString(&t.CustomerName, r.CustomerName)
	setString(&t.CustomerEmail, r.CustomerEmail)
	setString(&t.Company, r.Company)
	setString(&t.SONumber, r.SONumber)
	setString(&t.PONumber, r.PONumber)
	setString(&t.QuoteNumber, r.QuoteNumber)
	if r.Priority != nil {
		t.Priority = domain.Priority(*r.Priority)
	}
	if r.Status != nil {
		t.Status = domain.StoredStatus(*r.Status)
	}
	if r.DueDate != nil {
		if *r.DueDate == "" {
			t.DueDate = nil
		} else if d := ParseDate(r.DueDate); d != nil {
			t.DueDate = d
		}
	}
	if r.DueTime != nil {
		if *r.DueTime == "" {
			t.DueTime = ""
		} else if tm, err := time.Parse(TimeLayout, *r.DueTime); err == nil {
			t.DueTime = tm.Format(TimeLayout)
		}
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

type BulkDeleteRequest struct {
	TaskIDs []int64 `json:"task_ids"`
}

type ApplyTemplateRequest struct {
	TemplateID *int64 `json:"template_id,omitempty"`
}

type CreateSubtaskRequest struct {
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
}

type UpdateSubtaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Status    *string `json:"status,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

func NewUpdateSubtaskRequest(p app.SubtaskPatch) UpdateSubtaskRequest {
	req := UpdateSubtaskRequest{Title: p.Title}
	if p.Status != nil {
		s := string(*p.Status)
		req.Status = &s
	}
	return req
}

type ReorderSubtasksRequest struct {
	Order []int64 `json:"order"`
}

type CreateTemplateRequest struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}
