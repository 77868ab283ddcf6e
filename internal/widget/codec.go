package widget

import (
	"encoding/json"
	"fmt"
)

func (w *StatusChart) MarshalJSON() ([]byte, error) {
	type alias StatusChart
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindStatusChart, (*alias)(w)})
}

func (w *DataChart) MarshalJSON() ([]byte, error) {
	type alias DataChart
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindDataChart, (*alias)(w)})
}

func (w *BarChart) MarshalJSON() ([]byte, error) {
	type alias BarChart
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindBarChart, (*alias)(w)})
}

func (w *Table) MarshalJSON() ([]byte, error) {
	type alias Table
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindTable, (*alias)(w)})
}

func (w *MetricCard) MarshalJSON() ([]byte, error) {
	type alias MetricCard
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindMetricCard, (*alias)(w)})
}

// Decode parses a single widget, dispatching on its "type" field. The payload
// is rebuilt through the variant constructor so decoded values obey the same
// rules as constructed ones.
func Decode(data []byte) (Widget, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decoding widget: %w", err)
	}

	switch head.Type {
	case KindStatusChart:
		var v StatusChart
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, decodeErr(head.Type, err)
		}
		w, err := NewStatusChart(v.ID, v.Title, v.Points)
		if err != nil {
			return nil, decodeErr(head.Type, err)
		}
		w.Position = v.Position
		return w, nil
	case KindDataChart:
		var v DataChart
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, decodeErr(head.Type, err)
		}
		w, err := NewDataChart(v.ID, v.Title, v.Series)
		if err != nil {
			return nil, decodeErr(head.Type, err)
		}
		w.Position = v.Position
		return w, nil
	case KindBarChart:
		var v BarChart
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, decodeErr(head.Type, err)
		}
		w, err := NewBarChart(v.ID, v.Title, v.Bars)
		if err != nil {
			return nil, decodeErr(head.Type, err)
		}
		w.Position = v.Position
		return w, nil
	case KindTable:
		var v Table
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, decodeErr(head.Type, err)
		}
		w, err := NewTable(v.ID, v.Title, v.Columns, v.Rows)
		if err != nil {
			return nil, decodeErr(head.Type, err)
		}
		w.Position = v.Position
		return w, nil
	case KindMetricCard:
		var v MetricCard
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, decodeErr(head.Type, err)
		}
		w, err := NewMetricCard(v.ID, v.Title, v.Value, v.Unit, v.Trend)
		if err != nil {
			return nil, decodeErr(head.Type, err)
		}
		w.Position = v.Position
		return w, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, head.Type)
	}
}

func decodeErr(k Kind, err error) error {
	return fmt.Errorf("decoding %s widget: %w", k, err)
}

// DecodeList parses a JSON array of widgets.
func DecodeList(data []byte) ([]Widget, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decoding widget list: %w", err)
	}
	out := make([]Widget, 0, len(raws))
	for i, raw := range raws {
		w, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("widget %d: %w", i, err)
		}
		out = append(out, w)
	}
	return out, nil
}
