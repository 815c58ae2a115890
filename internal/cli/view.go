package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type ViewID int

const (
	ViewBoard ViewID = iota
	ViewDetail
	ViewForm
)

func (id ViewID) String() string {
	switch id {
	case ViewBoard:
		return "board"
	case ViewDetail:
		return "detail"
	case ViewForm:
		return "form"
	}
	return "unknown"
}

// View is one screen on the navigation stack. Title feeds the breadcrumb
// and ShortHelp the footer hints.
type View interface {
	tea.Model
	ID() ViewID
	Title() string
	ShortHelp() []key.Binding
}
