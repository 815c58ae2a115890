package board

import (
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// Column is one board lane. Tasks keep cache order.
type Column struct {
	Status      domain.ResolvedStatus
	Tasks       []domain.Task
	Collapsible bool
	Collapsed   bool
}

func (c Column) Label() string {
	return c.Status.Label()
}

func (c Column) Count() int {
	return len(c.Tasks)
}

// Board is the full set of lanes in display order.
type Board struct {
	Columns []Column
}

// Column returns the lane for status.
func (b Board) Column(status domain.ResolvedStatus) (Column, bool) {
	for _, c := range b.Columns {
		if c.Status == status {
			return c, true
		}
	}
	return Column{}, false
}

// Len is the number of tasks across all lanes.
func (b Board) Len() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Tasks)
	}
	return n
}

// Options controls presentation-only aspects of grouping.
type Options struct {
	// ShowCompleted expands the completed lane, which is collapsed by default.
	ShowCompleted bool
}

// Group filters tasks by q and buckets them by resolved status at now.
func Group(tasks []domain.Task, q string, now time.Time, opts Options) Board {
	byStatus := make(map[domain.ResolvedStatus][]domain.Task, len(domain.ResolvedStatuses))
	for _, t := range tasks {
		if !Matches(t, q) {
			continue
		}
		r := t.Resolved(now)
		byStatus[r] = append(byStatus[r], t)
	}

	b := Board{Columns: make([]Column, 0, len(domain.ResolvedStatuses))}
	for _, status := range domain.ResolvedStatuses {
		col := Column{Status: status, Tasks: byStatus[status]}
		if status == domain.ResolvedCompleted {
			col.Collapsible = true
			col.Collapsed = !opts.ShowCompleted
		}
		b.Columns = append(b.Columns, col)
	}
	return b
}

// Row is one entry of the flat list view.
type Row struct {
	Task   domain.Task
	Status domain.ResolvedStatus
}

func (r Row) Label() string {
	return r.Status.Label()
}

// ListRows filters tasks by q and annotates each with its resolved status.
func ListRows(tasks []domain.Task, q string, now time.Time) []Row {
	var rows []Row
	for _, t := range tasks {
		if Matches(t, q) {
			rows = append(rows, Row{Task: t, Status: t.Resolved(now)})
		}
	}
	return rows
}

// NextRecompute returns how long to wait before regrouping: the regular
// interval, or less when local midnight comes first.
func NextRecompute(now time.Time, interval time.Duration) time.Duration {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	untilMidnight := midnight.Sub(now)
	if untilMidnight > 0 && untilMidnight < interval {
		return untilMidnight
	}
	return interval
}
