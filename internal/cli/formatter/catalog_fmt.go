package formatter

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/taskflow/internal/domain"
)

func FormatTemplates(templates []domain.Template) string {
	if len(templates) == 0 {
		return Dim("No templates.") + "\n"
	}
	var sb strings.Builder
	for _, t := range templates {
		name := Bold(t.Name)
		if t.IsDefault {
			name += " " + StyleGreen.Render("(default)")
		}
		sb.WriteString(Dim("#"+strconv.FormatInt(t.ID, 10)) + " " + name + " " + Dim(plural(len(t.Steps), "step")) + "\n")
		for i, step := range t.Steps {
			sb.WriteString("    " + Dim(strconv.Itoa(i+1)+".") + " " + step + "\n")
		}
	}
	return sb.String()
}

// FormatScanLog renders scanner decisions newest first.
func FormatScanLog(entries []domain.ScanLogEntry) string {
	if len(entries) == 0 {
		return Dim("Scan log is empty.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		task := ""
		if e.TaskID != nil {
			task = "#" + strconv.FormatInt(*e.TaskID, 10)
		}
		rows = append(rows, []string{
			Dim(HumanTime(e.ScanTime)),
			scanResult(e.Result),
			Truncate(e.Subject, 40),
			Truncate(e.FromAddress, 28),
			task,
			Dim(e.Reason),
		})
	}
	return RenderTable([]string{"WHEN", "RESULT", "SUBJECT", "FROM", "TASK", "REASON"}, rows)
}

func scanResult(result string) string {
	switch result {
	case "created", "task_created":
		return StyleGreen.Render(result)
	case "error":
		return StyleRed.Render(result)
	default:
		return Dim(result)
	}
}
