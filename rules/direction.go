package rules

// Direction is a heading on the grid.
type Direction uint8

// Input codes accepted by Tick map directly onto these values.
const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

var directionNames = [...]string{
	DirectionUp:    "up",
	DirectionDown:  "down",
	DirectionLeft:  "left",
	DirectionRight: "right",
}

// Directions lists every heading in input code order.
var Directions = []Direction{DirectionUp, DirectionDown, DirectionLeft, DirectionRight}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "unknown"
}

// Code returns the input code for the direction.
func (d Direction) Code() uint32 { return uint32(d) }

// Reverse returns the opposite heading.
func (d Direction) Reverse() Direction {
	switch d {
	case DirectionUp:
		return DirectionDown
	case DirectionDown:
		return DirectionUp
	case DirectionLeft:
		return DirectionRight
	default:
		return DirectionLeft
	}
}

// DirectionFromCode converts an input code, 0=up 1=down 2=left 3=right. Any
// other value reports false.
func DirectionFromCode(code uint32) (Direction, bool) {
	if code > uint32(DirectionRight) {
		return 0, false
	}
	return Direction(code), true
}

// ParseDirection converts a direction name, as used by the CLI and API.
func ParseDirection(name string) (Direction, bool) {
	for i, n := range directionNames {
		if n == name {
			return Direction(i), true
		}
	}
	return 0, false
}

// resolveHeading applies an input code to the current heading. A snake longer
// than one segment cannot turn back onto its neck.
func resolveHeading(current Direction, input *uint32, length int) Direction {
	if input == nil {
		return current
	}
	requested, ok := DirectionFromCode(*input)
	if !ok {
		return current
	}
	if length > 1 && requested == current.Reverse() {
		return current
	}
	return requested
}
