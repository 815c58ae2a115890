package domain

import "time"

// StoredStatus is the status value persisted by the record store. It is the
// only status type accepted by write paths.
type StoredStatus string

const (
	StatusScheduled  StoredStatus = "scheduled"
	StatusInProgress StoredStatus = "in_progress"
	StatusCompleted  StoredStatus = "completed"
)

// Valid reports whether s is one of the persisted status values.
func (s StoredStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ResolvedStatus is the display status derived from a task's stored status,
// due date, priority and the current time. It is never written back.
type ResolvedStatus string

const (
	ResolvedOverdue      ResolvedStatus = "overdue"
	ResolvedUrgent       ResolvedStatus = "urgent"
	ResolvedUpcomingSoon ResolvedStatus = "upcoming_soon"
	ResolvedInProgress   ResolvedStatus = "in_progress"
	ResolvedScheduled    ResolvedStatus = "scheduled"
	ResolvedCompleted    ResolvedStatus = "completed"
)

// ResolvedStatuses lists every resolved status in board column order.
var ResolvedStatuses = []ResolvedStatus{
	ResolvedOverdue,
	ResolvedUrgent,
	ResolvedUpcomingSoon,
	ResolvedInProgress,
	ResolvedScheduled,
	ResolvedCompleted,
}

// Derived reports whether r only exists as a function of the due date.
func (r ResolvedStatus) Derived() bool {
	switch r {
	case ResolvedOverdue, ResolvedUrgent, ResolvedUpcomingSoon:
		return true
	}
	return false
}

// Label is the human-readable column or badge label.
func (r ResolvedStatus) Label() string {
	switch r {
	case ResolvedOverdue:
		return "Overdue"
	case ResolvedUrgent:
		return "Urgent"
	case ResolvedUpcomingSoon:
		return "Upcoming"
	case ResolvedInProgress:
		return "In Progress"
	case ResolvedScheduled:
		return "Scheduled"
	case ResolvedCompleted:
		return "Completed"
	}
	return string(r)
}

// upcomingWindowDays is the inclusive horizon for upcoming_soon.
const upcomingWindowDays = 2

// Resolve derives the display status. Completed and in_progress always win;
// otherwise the due date decides, compared by calendar day in now's location.
// The time-of-day of both inputs is ignored.
func Resolve(status StoredStatus, due *time.Time, priority Priority, now time.Time) ResolvedStatus {
	switch status {
	case StatusCompleted:
		return ResolvedCompleted
	case StatusInProgress:
		return ResolvedInProgress
	}

	if due != nil {
		diff := DaysUntil(*due, now)
		switch {
		case diff < 0:
			return ResolvedOverdue
		case diff == 0 && priority == PriorityHigh:
			return ResolvedUrgent
		case diff <= upcomingWindowDays:
			return ResolvedUpcomingSoon
		}
	}

	if status == "" {
		return ResolvedScheduled
	}
	return ResolvedStatus(status)
}

// DaysUntil returns the number of calendar days from now's date to due's date.
// The due value is read as a calendar date; only its year, month and day count.
func DaysUntil(due, now time.Time) int {
	y, m, d := due.Date()
	dueDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(today).Hours() / 24)
}

// DueBadge classifies a due date for card colouring.
type DueBadge string

const (
	DueNone    DueBadge = ""
	DueOverdue DueBadge = "overdue"
	DueSoon    DueBadge = "soon"
)

// BadgeFor returns the due-date badge: overdue before today, soon within the
// upcoming window, none otherwise or when the task is completed.
func BadgeFor(t Task, now time.Time) DueBadge {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return DueNone
	}
	diff := DaysUntil(*t.DueDate, now)
	switch {
	case diff < 0:
		return DueOverdue
	case diff <= upcomingWindowDays:
		return DueSoon
	}
	return DueNone
}
