package board

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// DragState is the phase of a drag gesture.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
	DragHovering
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	case DragHovering:
		return "hovering"
	}
	return fmt.Sprintf("DragState(%d)", int(s))
}

var (
	// ErrNoDrag is returned for gestures that need an active drag.
	ErrNoDrag = errors.New("no drag in progress")
	// ErrDragActive is returned when starting a drag over another one.
	ErrDragActive = errors.New("drag already in progress")
)

// Point is a pointer position in cells.
type Point struct {
	X, Y int
}

// Rect is a column's on-screen bounds; Max is exclusive.
type Rect struct {
	Min, Max Point
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// DragMachine tracks one drag gesture from pickup to drop.
type DragMachine struct {
	state  DragState
	taskID int64
	over   domain.ResolvedStatus
}

func (d *DragMachine) State() DragState {
	return d.state
}

// TaskID is the dragged task, or 0 when idle.
func (d *DragMachine) TaskID() int64 {
	return d.taskID
}

// Hovered is the column under the pointer while hovering.
func (d *DragMachine) Hovered() (domain.ResolvedStatus, bool) {
	if d.state != DragHovering {
		return "", false
	}
	return d.over, true
}

// Start picks up a task.
func (d *DragMachine) Start(taskID int64) error {
	if d.state != DragIdle {
		return ErrDragActive
	}
	d.state = DragDragging
	d.taskID = taskID
	d.over = ""
	return nil
}

// Enter marks col as hovered. Entering a column while hovering another
// moves the hover.
func (d *DragMachine) Enter(col domain.ResolvedStatus) error {
	if d.state == DragIdle {
		return ErrNoDrag
	}
	d.state = DragHovering
	d.over = col
	return nil
}

// Leave clears the hover only when col is the hovered column and the
// pointer is outside its bounds. Leave events raised while crossing child
// elements inside the column are ignored.
func (d *DragMachine) Leave(col domain.ResolvedStatus, pointer Point, bounds Rect) {
	if d.state != DragHovering || d.over != col {
		return
	}
	if bounds.Contains(pointer) {
		return
	}
	d.state = DragDragging
	d.over = ""
}

// Drop ends the gesture and returns the dragged task.
func (d *DragMachine) Drop() (int64, error) {
	if d.state == DragIdle {
		return 0, ErrNoDrag
	}
	id := d.taskID
	d.reset()
	return id, nil
}

// End abandons the gesture without a drop.
func (d *DragMachine) End() {
	d.reset()
}

func (d *DragMachine) reset() {
	d.state = DragIdle
	d.taskID = 0
	d.over = ""
}

// DropTarget maps a column to the stored status a drop onto it writes.
// Date-derived columns cannot be stored and fall back to scheduled.
func DropTarget(col domain.ResolvedStatus) domain.StoredStatus {
	switch col {
	case domain.ResolvedCompleted:
		return domain.StatusCompleted
	case domain.ResolvedInProgress:
		return domain.StatusInProgress
	}
	return domain.StatusScheduled
}

// Transition is the outcome of dropping a task onto a column.
type Transition struct {
	TaskID int64
	From   domain.StoredStatus
	To     domain.StoredStatus
}

// NeedsWrite is false when the drop leaves the stored status unchanged.
func (t Transition) NeedsWrite() bool {
	return t.From != t.To
}

// PlanDrop computes the transition for dropping t onto col.
func PlanDrop(t domain.Task, col domain.ResolvedStatus) Transition {
	from := t.Status
	if from == "" {
		from = domain.StatusScheduled
	}
	return Transition{TaskID: t.ID, From: from, To: DropTarget(col)}
}
