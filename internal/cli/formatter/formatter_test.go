package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/config"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/testutil"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func TestRelativeDue(t *testing.T) {
	tests := []struct {
		name string
		days int
		want string
	}{
		{"today", 0, "Today"},
		{"tomorrow", 1, "Tomorrow"},
		{"yesterday", -1, "Yesterday"},
		{"this week", 5, "In 5d"},
		{"last week", -6, "6d ago"},
		{"far future", 40, "Apr 19"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := fixedNow.AddDate(0, 0, tt.days)
			assert.Equal(t, tt.want, RelativeDue(due, fixedNow))
		})
	}
}

func TestDueLabel_EmptyWithoutDate(t *testing.T) {
	task := testutil.NewTestTask("No date")
	assert.Empty(t, DueLabel(task, fixedNow))
}

func TestDueLabel_IncludesTime(t *testing.T) {
	task := testutil.NewTestTask("Call", testutil.WithDueInDays(fixedNow, 0))
	task.DueTime = "14:30"
	assert.Equal(t, "Today 14:30", stripANSI(DueLabel(task, fixedNow)))
}

func TestRenderProgress(t *testing.T) {
	assert.Empty(t, RenderProgress(0, 0, 8))
	assert.Equal(t, "[████░░░░] 2/4", stripANSI(RenderProgress(2, 4, 8)))
	assert.Equal(t, "[████████] 4/4", stripANSI(RenderProgress(5, 4, 8)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Brack…", Truncate("Bracket order", 6))
	assert.Empty(t, Truncate("anything", 0))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"ID", "TITLE"},
		[][]string{{StyleRed.Render("7"), "Bracket"}, {"12", "Hinge"}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "ID  TITLE", lines[0])
	assert.Equal(t, "7   Bracket", lines[2])
	assert.Equal(t, "12  Hinge", lines[3])
}

func TestFormatBoard(t *testing.T) {
	tasks := []domain.Task{
		testutil.NewTestTask("Late bracket", testutil.WithDueInDays(fixedNow, -2)),
		testutil.NewTestTask("Shipping hinge", testutil.WithStatus(domain.StatusInProgress), testutil.WithSubtasks("a", "b")),
		testutil.NewTestTask("Done thing", testutil.WithStatus(domain.StatusCompleted)),
	}
	b := board.Group(tasks, "", fixedNow, board.Options{})

	out := stripANSI(FormatBoard(b, fixedNow))

	assert.Contains(t, out, "Overdue (1)")
	assert.Contains(t, out, "Late bracket 2d ago")
	assert.Contains(t, out, "In Progress (1)")
	assert.Contains(t, out, "Shipping hinge 0/2")
	assert.Contains(t, out, "Completed (1)")
	assert.NotContains(t, out, "Done thing")
}

func TestFormatBoard_Empty(t *testing.T) {
	out := stripANSI(FormatBoard(board.Group(nil, "", fixedNow, board.Options{}), fixedNow))
	assert.Equal(t, "No tasks.\n", out)
}

func TestFormatList(t *testing.T) {
	tasks := []domain.Task{
		testutil.NewTestTask("Hot order", testutil.WithPriority(domain.PriorityHigh), testutil.WithDueInDays(fixedNow, 0)),
	}
	out := stripANSI(FormatList(board.ListRows(tasks, "", fixedNow), fixedNow))

	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "● Urgent")
	assert.Contains(t, out, "▲ high")
	assert.Contains(t, out, "Hot order")
}

func TestFormatStats(t *testing.T) {
	out := stripANSI(FormatStats(app.Stats{Total: 9, Overdue: 2, Completed: 3, Pending: 6}))

	assert.Contains(t, out, "Total          9")
	assert.Contains(t, out, "Overdue        2")
	assert.Contains(t, out, "Pending        6")
}

func TestFormatTemplates(t *testing.T) {
	out := stripANSI(FormatTemplates([]domain.Template{
		{ID: 1, Name: "Standard", Steps: []string{"Quote", "Ship"}, IsDefault: true},
	}))

	assert.Contains(t, out, "#1 Standard (default) 2 steps")
	assert.Contains(t, out, "2. Ship")
}

func TestFormatScanLog(t *testing.T) {
	id := int64(4)
	out := stripANSI(FormatScanLog([]domain.ScanLogEntry{
		{ScanTime: time.Now().Add(-time.Hour), Subject: "PO 991", Result: "created", TaskID: &id},
	}))

	assert.Contains(t, out, "PO 991")
	assert.Contains(t, out, "#4")
	assert.Contains(t, out, "1 hour ago")
}

func TestHumanTime(t *testing.T) {
	assert.Equal(t, "-", HumanTime(time.Time{}))
	assert.Equal(t, "2 days ago", HumanTime(time.Now().Add(-49*time.Hour)))
}

func TestRenderMarkdown(t *testing.T) {
	assert.Empty(t, RenderMarkdown("   ", 40))

	out := stripANSI(RenderMarkdown("# Notes\n\nShip **before** Friday", 40))
	assert.Contains(t, out, "Notes")
	assert.Contains(t, out, "before")
	assert.Contains(t, out, "Friday")
}

func TestFormatTaskDetail(t *testing.T) {
	task := testutil.NewTestTask("Bracket order",
		testutil.WithCustomer("Dana", "Acme"),
		testutil.WithOrderNumbers("991", ""),
	)

	out := stripANSI(FormatTaskDetail(task, fixedNow, 60))

	assert.Contains(t, out, "Bracket order")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "991")
	assert.NotContains(t, out, "SO ")
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(config.ThemeDark) })

	SetTheme(config.ThemeLight)
	assert.Equal(t, lightPalette.fg, ColorFg)
	assert.Equal(t, "light", markdownStyle)

	SetTheme(config.ThemeDark)
	assert.Equal(t, darkPalette.fg, ColorFg)
	assert.Equal(t, "dark", markdownStyle)
}

func TestStatusPill(t *testing.T) {
	assert.Equal(t, "✔ Completed", stripANSI(StatusPill(domain.ResolvedCompleted)))
	assert.Equal(t, "○ Scheduled", stripANSI(StatusPill(domain.ResolvedScheduled)))
	assert.Equal(t, "● Overdue", stripANSI(StatusPill(domain.ResolvedOverdue)))
}
