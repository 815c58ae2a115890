package cli

import (
	"strings"
	"time"

	taskapp "github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// taskflowHuhTheme returns a huh theme built on the active palette.
func taskflowHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(taskflowHuhTheme()).WithShowHelp(false)
}

// newTaskFields collects the new-task form's values.
type newTaskFields struct {
	Title        string
	Priority     string
	Due          string
	DueTime      string
	Customer     string
	PONumber     string
	WithTemplate bool
}

func validateDue(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := parseDueDate(strings.TrimSpace(s))
	return err
}

func (f *newTaskFields) input() (taskapp.TaskInput, *service.TemplateChoice) {
	in := taskapp.TaskInput{
		Title:        strings.TrimSpace(f.Title),
		Priority:     domain.Priority(f.Priority),
		DueTime:      strings.TrimSpace(f.DueTime),
		CustomerName: strings.TrimSpace(f.Customer),
		PONumber:     strings.TrimSpace(f.PONumber),
	}
	if due := strings.TrimSpace(f.Due); due != "" {
		if d, err := time.ParseInLocation(dateLayout, due, time.Local); err == nil {
			in.DueDate = &d
		}
	}
	var tmpl *service.TemplateChoice
	if f.WithTemplate {
		tmpl = &service.TemplateChoice{}
	}
	return in, tmpl
}

func wizardNewTask(f *newTaskFields) *huh.Form {
	if f.Priority == "" {
		f.Priority = string(domain.PriorityMedium)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return taskapp.Invalid("title", "title is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Medium", string(domain.PriorityMedium)),
					huh.NewOption("High", string(domain.PriorityHigh)),
					huh.NewOption("Low", string(domain.PriorityLow)),
				).
				Value(&f.Priority),
			huh.NewInput().
				Title("Due date").
				Placeholder("YYYY-MM-DD").
				Value(&f.Due).
				Validate(validateDue),
			huh.NewInput().
				Title("Due time").
				Placeholder("optional, e.g. 14:00").
				Value(&f.DueTime),
			huh.NewInput().
				Title("Customer").
				Value(&f.Customer),
			huh.NewInput().
				Title("PO number").
				Value(&f.PONumber),
			huh.NewConfirm().
				Title("Add the default checklist?").
				Affirmative("Yes").
				Negative("No").
				Value(&f.WithTemplate),
		),
	).WithTheme(taskflowHuhTheme()).WithShowHelp(false)
}

func wizardRename(title string, result *string) *huh.Form {
	*result = title
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Subtask title").
				Value(result).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return taskapp.Invalid("title", "subtask title is required")
					}
					return nil
				}),
		),
	).WithTheme(taskflowHuhTheme()).WithShowHelp(false)
}
