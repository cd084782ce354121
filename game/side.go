package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Side identifies one of the two players in singular canonical form.
type Side string

const (
	Square Side = "square"
	Circle Side = "circle"
)

// Sides lists both sides in seating order.
var Sides = []Side{Square, Circle}

// NormalizeSide converts "squares"/"square" style identifiers to the singular form.
func NormalizeSide(s string) Side {
	return Side(strings.TrimSuffix(s, "s"))
}

// BookKey is the plural form the opening book is keyed by.
func (s Side) BookKey() string {
	return string(NormalizeSide(string(s))) + "s"
}

func (s Side) Opponent() Side {
	switch NormalizeSide(string(s)) {
	case Square:
		return Circle
	case Circle:
		return Square
	}
	return ""
}

// GemType is one of the four placeable gem subtypes.
type GemType string

const (
	Ruby  GemType = "ruby"
	Pearl GemType = "pearl"
	Amber GemType = "amber"
	Jade  GemType = "jade"
)

// Gems lists every gem type.
var Gems = []GemType{Ruby, Pearl, Amber, Jade}

func (g GemType) Valid() bool {
	switch g {
	case Ruby, Pearl, Amber, Jade:
		return true
	}
	return false
}

// Coordinate is a board cell. Its JSON form is a two element array [x, y].
type Coordinate struct {
	X int
	Y int
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.X, c.Y})
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("coordinate must be an [x, y] array: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinate must have 2 components, got %d", len(pair))
	}
	c.X, c.Y = pair[0], pair[1]
	return nil
}
