package strokedata

import "math"

// Direction is the overall heading of a stroke, from its first median point to its last.
type Direction int

const (
	Right Direction = iota
	UpRight
	Up
	UpLeft
	Left
	DownLeft
	Down
	DownRight
)

var directionArrows = [...]string{"→", "↗", "↑", "↖", "←", "↙", "↓", "↘"}

// numpad layout: 7 8 9 / 4 _ 6 / 1 2 3
var directionKeys = [...]rune{'6', '9', '8', '7', '4', '1', '2', '3'}

// String returns the arrow glyph for d.
func (d Direction) String() string {
	if d < Right || d > DownRight {
		return "?"
	}
	return directionArrows[d]
}

// Key returns the numeric keypad digit pointing in d.
func (d Direction) Key() rune {
	if d < Right || d > DownRight {
		return 0
	}
	return directionKeys[d]
}

// DirectionForKey maps a keypad digit to a Direction.
func DirectionForKey(r rune) (Direction, bool) {
	for i, k := range directionKeys {
		if k == r {
			return Direction(i), true
		}
	}
	return 0, false
}

// Directions returns one heading per stroke. Medians use a y-up coordinate space.
func (c Character) Directions() []Direction {
	out := make([]Direction, 0, len(c.Medians))
	for _, median := range c.Medians {
		out = append(out, headingOf(median))
	}
	return out
}

func headingOf(points [][2]float64) Direction {
	if len(points) < 2 {
		return Right
	}
	first := points[0]
	last := points[len(points)-1]
	dx := last[0] - first[0]
	dy := last[1] - first[1]
	if dx == 0 && dy == 0 {
		return Right
	}
	angle := math.Atan2(dy, dx)
	sector := int(math.Round(angle / (math.Pi / 4)))
	return Direction(((sector % 8) + 8) % 8)
}
