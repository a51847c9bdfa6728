package strokedata

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Character is the hanzi-writer-data document for one character.
type Character struct {
	Strokes    []string       `json:"strokes"`
	Medians    [][][2]float64 `json:"medians"`
	RadStrokes []int          `json:"radStrokes,omitempty"`
}

// Parse decodes a stroke payload.
func Parse(raw json.RawMessage) (Character, error) {
	var ch Character
	if len(raw) == 0 {
		return ch, fmt.Errorf("empty stroke data")
	}
	if err := json.Unmarshal(raw, &ch); err != nil {
		return ch, fmt.Errorf("failed to decode stroke data: %w", err)
	}
	if len(ch.Medians) != 0 && len(ch.Medians) != len(ch.Strokes) {
		return ch, fmt.Errorf("stroke data has %d strokes but %d medians", len(ch.Strokes), len(ch.Medians))
	}
	return ch, nil
}

// StrokeCount returns the number of strokes in raw, or 0 when it has none.
func StrokeCount(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	return int(gjson.GetBytes(raw, "strokes.#").Int())
}

// IsRadicalStroke reports whether stroke index i belongs to the radical.
func (c Character) IsRadicalStroke(i int) bool {
	for _, idx := range c.RadStrokes {
		if idx == i {
			return true
		}
	}
	return false
}
