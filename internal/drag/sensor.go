package drag

import "strings"

// Payload is the data carried by a drag source. WidgetID is empty for
// foreign drags (files, text from other pages).
type Payload struct {
	WidgetID string `json:"widgetId"`
}

// Recognized reports whether the payload names a widget.
func (p Payload) Recognized() bool {
	return strings.TrimSpace(p.WidgetID) != ""
}

// Intent asks the owner of the layout to move WidgetID to TargetIndex in the
// linear widget order.
type Intent struct {
	WidgetID    string `json:"widgetId"`
	TargetIndex int    `json:"targetIndex"`
}

// Sensor is a drop zone. Its hover flag only drives visual feedback.
type Sensor struct {
	Index   int
	hovered bool
}

// NewSensor creates a drop zone at index.
func NewSensor(index int) *Sensor {
	return &Sensor{Index: index}
}

// Hovered reports whether a recognized payload is over the sensor.
func (s *Sensor) Hovered() bool {
	return s.hovered
}

// OnHoverEnter accepts the payload only if it names a widget.
func (s *Sensor) OnHoverEnter(p Payload) bool {
	s.hovered = p.Recognized()
	return s.hovered
}

// OnHoverLeave clears the hover flag.
func (s *Sensor) OnHoverLeave() {
	s.hovered = false
}

// OnDrop converts a drop at the sensor's index into an intent. Payloads with
// no widget id are discarded.
func (s *Sensor) OnDrop(p Payload) (Intent, bool) {
	s.hovered = false
	return Drop(p, s.Index)
}

// Drop converts a drop at targetIndex into an intent.
func Drop(p Payload, targetIndex int) (Intent, bool) {
	if !p.Recognized() {
		return Intent{}, false
	}
	if targetIndex < 0 {
		targetIndex = 0
	}
	return Intent{WidgetID: strings.TrimSpace(p.WidgetID), TargetIndex: targetIndex}, true
}

// ApplyIntent removes the widget from order and reinserts it at the target
// index. Indexes past the end append. The input slice is not modified.
// An intent naming a widget absent from order returns a copy of order.
func ApplyIntent(order []string, in Intent) []string {
	out := make([]string, 0, len(order))
	found := false
	for _, id := range order {
		if id == in.WidgetID {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		return append([]string(nil), order...)
	}
	idx := in.TargetIndex
	if idx < 0 {
		idx = 0
	}
	if idx > len(out) {
		idx = len(out)
	}
	out = append(out, "")
	copy(out[idx+1:], out[idx:])
	out[idx] = in.WidgetID
	return out
}
