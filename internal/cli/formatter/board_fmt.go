package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// TaskLine is the one-line card used by the plain board output and the
// TUI: title, due label, priority marker for high priority and progress.
func TaskLine(t domain.Task, now time.Time, width int) string {
	var extras []string
	if due := DueLabel(t, now); due != "" {
		extras = append(extras, due)
	}
	if t.Priority == domain.PriorityHigh {
		extras = append(extras, StyleRed.Render("▲"))
	}
	if done, total := t.Progress(); total > 0 {
		extras = append(extras, ProgressCount(done, total))
	}

	tail := strings.Join(extras, " ")
	title := t.Title
	if width > 0 {
		room := width
		if tail != "" {
			room -= lipgloss.Width(tail) + 1
		}
		title = Truncate(title, max(room, 4))
	}
	if tail == "" {
		return title
	}
	return title + " " + tail
}

// FormatBoard renders the board as stacked sections for non-interactive
// output. A collapsed lane shows only its count.
func FormatBoard(b board.Board, now time.Time) string {
	if b.Len() == 0 {
		return Dim("No tasks.") + "\n"
	}
	var sb strings.Builder
	for _, col := range b.Columns {
		if col.Count() == 0 {
			continue
		}
		sb.WriteString(StatusStyle(col.Status).Bold(true).Render(fmt.Sprintf("%s (%d)", col.Label(), col.Count())))
		sb.WriteString("\n")
		if col.Collapsed {
			sb.WriteString("  " + Dim("hidden, use --completed to show") + "\n\n")
			continue
		}
		for _, t := range col.Tasks {
			sb.WriteString(fmt.Sprintf("  %s %s\n", Dim(fmt.Sprintf("#%-4d", t.ID)), TaskLine(t, now, 0)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatList renders list rows as a table.
func FormatList(rows []board.Row, now time.Time) string {
	if len(rows) == 0 {
		return Dim("No tasks.") + "\n"
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		done, total := r.Task.Progress()
		cells = append(cells, []string{
			Dim(strconv.FormatInt(r.Task.ID, 10)),
			StatusPill(r.Status),
			r.Task.Title,
			PriorityBadge(r.Task.Priority),
			DueLabel(r.Task, now),
			ProgressCount(done, total),
		})
	}
	return RenderTable([]string{"ID", "STATUS", "TITLE", "PRIORITY", "DUE", "STEPS"}, cells)
}

// FormatStats renders the aggregate counters.
func FormatStats(s app.Stats) string {
	rows := []struct {
		label string
		value int
		style func(...string) string
	}{
		{"Total", s.Total, StyleFg.Render},
		{"Overdue", s.Overdue, StyleRed.Render},
		{"Due today", s.DueToday, StyleYellow.Render},
		{"High priority", s.HighPriority, StyleHeader.Render},
		{"In progress", s.InProgress, StyleBlue.Render},
		{"Pending", s.Pending, StyleFg.Render},
		{"Completed", s.Completed, StyleGreen.Render},
	}
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-14s %s\n", r.label, r.style(strconv.Itoa(r.value))))
	}
	return sb.String()
}

// StatsLine is the single-line summary shown above the board.
func StatsLine(s app.Stats) string {
	parts := []string{
		fmt.Sprintf("%d total", s.Total),
		StyleRed.Render(fmt.Sprintf("%d overdue", s.Overdue)),
		StyleYellow.Render(fmt.Sprintf("%d due today", s.DueToday)),
		StyleHeader.Render(fmt.Sprintf("%d high", s.HighPriority)),
		StyleBlue.Render(fmt.Sprintf("%d in progress", s.InProgress)),
		StyleGreen.Render(fmt.Sprintf("%d done", s.Completed)),
	}
	return strings.Join(parts, Dim(" · "))
}
