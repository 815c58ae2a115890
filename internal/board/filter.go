// Package board derives board columns, list rows, drag transitions and
// selection state from a snapshot of tasks. Nothing here performs I/O.
package board

import (
	"strings"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// Matches reports whether t contains q, case-insensitively, in its title,
// customer name, company, PO number or SO number. An empty q matches.
func Matches(t domain.Task, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, field := range []string{t.Title, t.CustomerName, t.Company, t.PONumber, t.SONumber} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Filter returns the tasks matching q in their original order.
func Filter(tasks []domain.Task, q string) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, q) {
			out = append(out, t)
		}
	}
	return out
}

// VisibleIDs returns the IDs of the tasks matching q in order.
func VisibleIDs(tasks []domain.Task, q string) []int64 {
	var ids []int64
	for _, t := range tasks {
		if Matches(t, q) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
