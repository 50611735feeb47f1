package route

import "strings"

// Direction is a bitmask of the sides a connector may leave or enter an
// anchor from. Y grows downwards, so North is towards negative y.
type Direction uint8

const (
	North Direction = 1 << iota
	East
	South
	West

	None Direction = 0
	All            = North | East | South | West
)

// directions lists the single directions in enumeration order.
var directions = [...]Direction{North, East, South, West}

// Has reports whether every bit of o is set in d.
func (d Direction) Has(o Direction) bool { return o != 0 && d&o == o }

// Opposite returns the direction pointing the other way. Masks are
// reversed bit by bit.
func (d Direction) Opposite() Direction {
	var out Direction
	for _, s := range directions {
		if d&s != 0 {
			out |= s.rotate(2)
		}
	}
	return out
}

// rotate turns a single direction clockwise by quarter turns.
func (d Direction) rotate(quarters int) Direction {
	for i, s := range directions {
		if s == d {
			return directions[(i+quarters)%len(directions)]
		}
	}
	return d
}

func (d Direction) String() string {
	if d == None {
		return "none"
	}
	if d == All {
		return "all"
	}
	var parts []string
	for _, s := range directions {
		if d&s != 0 {
			parts = append(parts, [...]string{"north", "east", "south", "west"}[s.index()])
		}
	}
	return strings.Join(parts, "|")
}

func (d Direction) index() int {
	for i, s := range directions {
		if s == d {
			return i
		}
	}
	return -1
}
