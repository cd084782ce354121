package game

// Piece is a placed piece. Gem is empty for pieces that are not gems.
type Piece struct {
	Side Side
	Gem  GemType
}

// Board maps occupied coordinates to their pieces. The arena only reads it.
type Board map[Coordinate]Piece

func (b Board) Occupied(c Coordinate) bool {
	_, ok := b[c]
	return ok
}

// CountGems tallies the gems of a side per gem type, and in total.
func (b Board) CountGems(side Side) (map[GemType]int, int) {
	side = NormalizeSide(string(side))
	counts := make(map[GemType]int, len(Gems))
	total := 0
	for _, piece := range b {
		if NormalizeSide(string(piece.Side)) != side || !piece.Gem.Valid() {
			continue
		}
		counts[piece.Gem]++
		total++
	}
	return counts, total
}
