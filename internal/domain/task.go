package domain

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type SubtaskStatus string

const (
	SubtaskPending   SubtaskStatus = "pending"
	SubtaskCompleted SubtaskStatus = "completed"
)

// Toggled flips between pending and completed.
func (s SubtaskStatus) Toggled() SubtaskStatus {
	if s == SubtaskCompleted {
		return SubtaskPending
	}
	return SubtaskCompleted
}

func (s SubtaskStatus) Valid() bool {
	return s == SubtaskPending || s == SubtaskCompleted
}

// Task is a unit of tracked work as held by the local cache.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      StoredStatus
	Priority    Priority

	// DueDate carries a calendar date only. DueTime is display text.
	DueDate *time.Time
	DueTime string

	CustomerName  string
	CustomerEmail string
	Company       string
	PONumber      string
	SONumber      string
	QuoteNumber   string
	SourceEmailID string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Subtasks are kept in store order and never re-sorted locally.
	Subtasks []Subtask
}

// Subtask is a checklist step under a task. TaskID is fixed at creation.
type Subtask struct {
	ID        int64
	TaskID    int64
	Title     string
	Status    SubtaskStatus
	SortOrder int
	CreatedAt time.Time
}

// Resolved returns the task's display status at now.
func (t Task) Resolved(now time.Time) ResolvedStatus {
	return Resolve(t.Status, t.DueDate, t.Priority, now)
}

// Progress returns completed and total subtask counts.
func (t Task) Progress() (done, total int) {
	for _, s := range t.Subtasks {
		if s.Status == SubtaskCompleted {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// Clone returns a copy that shares no mutable state with t.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.Subtasks != nil {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(c.Subtasks, t.Subtasks)
	}
	return c
}

// SubtaskIndex returns the position of the subtask with id, or -1.
func (t Task) SubtaskIndex(id int64) int {
	for i, s := range t.Subtasks {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Reference is a short identifier for copying: PO, then SO, then title.
func (t Task) Reference() string {
	var parts []string
	if t.PONumber != "" {
		parts = append(parts, "PO "+t.PONumber)
	}
	if t.SONumber != "" {
		parts = append(parts, "SO "+t.SONumber)
	}
	if len(parts) == 0 {
		return t.Title
	}
	return strings.Join(parts, " / ") + " " + t.Title
}

// Template is a named, ordered list of subtask titles. The store keeps one
// default template, applied when no template is named.
type Template struct {
	ID        int64
	Name      string
	Steps     []string
	IsDefault bool
	CreatedAt time.Time
}

// ScanLogEntry records the inbox scanner's decision for one message.
type ScanLogEntry struct {
	ID          int64
	ScanTime    time.Time
	MessageID   string
	Subject     string
	FromAddress string
	Result      string
	Reason      string
	TaskID      *int64
}
