// Package drag tracks drag-and-drop reordering of dashboard widgets. The
// Sensor hover flag is visual feedback for a UI adapter; the board only
// consumes drops through Drop and ApplyIntent.
package drag

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDragAlreadyActive rejects a second concurrent drag.
	ErrDragAlreadyActive = errors.New("drag already active")
	// ErrNotDragging is returned by operations that need an active drag.
	ErrNotDragging = errors.New("no drag in progress")
	// ErrUnknownWidget rejects a drag of a widget absent from the order.
	ErrUnknownWidget = errors.New("widget not in current order")
)

// State of the controller.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session is the ephemeral record of one drag gesture.
type Session struct {
	WidgetID    string `json:"widgetId"`
	OriginIndex int    `json:"originIndex"`
}

// Controller allows a single drag at a time.
type Controller struct {
	session *Session
}

// NewController returns an idle controller.
func NewController() *Controller {
	return &Controller{}
}

// State reports whether a drag is in progress.
func (c *Controller) State() State {
	if c.session != nil {
		return Dragging
	}
	return Idle
}

// Session returns the active session, if any.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// BeginDrag starts dragging widgetID, recording its index in order.
func (c *Controller) BeginDrag(widgetID string, order []string) (Session, error) {
	if c.session != nil {
		return Session{}, fmt.Errorf("%w: %s is being dragged", ErrDragAlreadyActive, c.session.WidgetID)
	}
	widgetID = strings.TrimSpace(widgetID)
	origin := indexOf(order, widgetID)
	if origin < 0 {
		return Session{}, fmt.Errorf("%w: %q", ErrUnknownWidget, widgetID)
	}
	c.session = &Session{WidgetID: widgetID, OriginIndex: origin}
	return *c.session, nil
}

// EndDrag returns to idle whether or not a drop happened. Ending while idle
// is a no-op.
func (c *Controller) EndDrag() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	s := *c.session
	c.session = nil
	return s, true
}

func indexOf(order []string, id string) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}
