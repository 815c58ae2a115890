package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// FormatTaskDetail renders the full task card: header fields, customer
// block, markdown description and timestamps. Subtasks are rendered by the
// caller so they can carry a cursor.
func FormatTaskDetail(t domain.Task, now time.Time, width int) string {
	var sb strings.Builder
	sb.WriteString(Bold(t.Title) + " " + Dim(fmt.Sprintf("#%d", t.ID)) + "\n")
	meta := []string{StatusPill(t.Resolved(now)), PriorityBadge(t.Priority)}
	if due := DueLabel(t, now); due != "" {
		meta = append(meta, "due "+due)
	}
	sb.WriteString(strings.Join(meta, "  ") + "\n")

	fields := []struct{ label, value string }{
		{"Customer", t.CustomerName},
		{"Email", t.CustomerEmail},
		{"Company", t.Company},
		{"PO", t.PONumber},
		{"SO", t.SONumber},
		{"Quote", t.QuoteNumber},
	}
	var lines []string
	for _, f := range fields {
		if f.value != "" {
			lines = append(lines, fmt.Sprintf("%s %s", Dim(fmt.Sprintf("%-9s", f.label)), f.value))
		}
	}
	if len(lines) > 0 {
		sb.WriteString("\n" + strings.Join(lines, "\n") + "\n")
	}

	if desc := RenderMarkdown(t.Description, width); desc != "" {
		sb.WriteString("\n" + desc + "\n")
	}

	sb.WriteString("\n" + Dim(fmt.Sprintf("created %s · updated %s", HumanTime(t.CreatedAt), HumanTime(t.UpdatedAt))) + "\n")
	return sb.String()
}

// SubtaskLine renders one checklist step.
func SubtaskLine(s domain.Subtask) string {
	if s.Status == domain.SubtaskCompleted {
		return StyleGreen.Render("[x]") + " " + Dim(s.Title)
	}
	return Dim("[ ]") + " " + s.Title
}
