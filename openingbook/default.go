package openingbook

import "gemduel/game"

// DefaultSetupID names the single setup per side in the built-in book.
const DefaultSetupID = "SETUP-001"

var defaultOrder = []game.GemType{
	game.Amber, game.Pearl, game.Pearl, game.Amber,
	game.Jade, game.Jade, game.Ruby, game.Ruby,
}

var defaultCircles = map[game.GemType][]game.Coordinate{
	game.Amber: {{X: -2, Y: 7}, {X: -2, Y: 9}},
	game.Pearl: {{X: -1, Y: 8}, {X: -3, Y: 8}},
	game.Jade:  {{X: -5, Y: 7}, {X: -5, Y: 8}},
	game.Ruby:  {{X: -4, Y: 8}, {X: -4, Y: 9}},
}

// DefaultBook returns the built-in book used whenever the configured book
// cannot be loaded. Squares mirror the circles setup through the origin.
func DefaultBook() Book {
	circles := Setup{ID: DefaultSetupID, Coords: map[game.GemType][]game.Coordinate{}, Order: defaultOrder}
	squares := Setup{ID: DefaultSetupID, Coords: map[game.GemType][]game.Coordinate{}, Order: defaultOrder}
	for gem, coords := range defaultCircles {
		circles.Coords[gem] = coords
		mirrored := make([]game.Coordinate, len(coords))
		for i, c := range coords {
			mirrored[i] = game.Coordinate{X: -c.X, Y: -c.Y}
		}
		squares.Coords[gem] = mirrored
	}
	return Book{
		game.Circle.BookKey(): {DefaultSetupID: circles.Clone()},
		game.Square.BookKey(): {DefaultSetupID: squares.Clone()},
	}
}
