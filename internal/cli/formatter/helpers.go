package formatter

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// RelativeDue describes a due date in calendar days from now.
func RelativeDue(due, now time.Time) string {
	days := domain.DaysUntil(due, now)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0:
		return due.Format("Jan 2")
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	default:
		return due.Format("Jan 2")
	}
}

// DueLabel renders a task's due date coloured by its badge. Tasks without a
// due date render empty.
func DueLabel(t domain.Task, now time.Time) string {
	if t.DueDate == nil {
		return ""
	}
	text := RelativeDue(*t.DueDate, now)
	if t.DueTime != "" {
		text += " " + t.DueTime
	}
	switch domain.BadgeFor(t, now) {
	case domain.DueOverdue:
		return StyleRed.Render(text)
	case domain.DueSoon:
		return StyleYellow.Render(text)
	}
	return StyleFg.Render(text)
}

// HumanTime renders a timestamp relative to the present, e.g. "3 hours ago".
func HumanTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// Truncate shortens s to at most width cells, ending with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
