package openingbook

import (
	"encoding/json"
	"fmt"
	"slices"

	"gemduel/errkind"
	"gemduel/game"
)

const orderKey = "order"

// Setup describes where and in which order one side places its gems.
type Setup struct {
	ID     string                             `json:"-"`
	Coords map[game.GemType][]game.Coordinate `json:"-"`
	Order  []game.GemType                     `json:"-"`
}

func (s *Setup) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	s.Coords = make(map[game.GemType][]game.Coordinate, len(game.Gems))
	for key, raw := range fields {
		if key == orderKey {
			if err := json.Unmarshal(raw, &s.Order); err != nil {
				return fmt.Errorf("order: %w", err)
			}
			continue
		}
		gem := game.GemType(key)
		if !gem.Valid() {
			return fmt.Errorf("unknown gem type %q", key)
		}
		var coords []game.Coordinate
		if err := json.Unmarshal(raw, &coords); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		s.Coords[gem] = coords
	}
	return nil
}

func (s Setup) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(s.Coords)+1)
	for gem, coords := range s.Coords {
		fields[string(gem)] = coords
	}
	fields[orderKey] = s.Order
	return json.Marshal(fields)
}

// Validate checks the order length, its tokens, and that every gem type in the
// order has enough coordinates.
func (s Setup) Validate() error {
	if len(s.Order) != game.GemsPerSide {
		return fmt.Errorf("%w: order has %d entries, want %d", errkind.Validation, len(s.Order), game.GemsPerSide)
	}
	needed := make(map[game.GemType]int, len(game.Gems))
	for _, gem := range s.Order {
		if !gem.Valid() {
			return fmt.Errorf("%w: unknown gem %q in order", errkind.Validation, gem)
		}
		needed[gem]++
	}
	for _, gem := range game.Gems {
		if needed[gem] > len(s.Coords[gem]) {
			return &OrderOverflowError{Gem: gem, Needed: needed[gem], Defined: len(s.Coords[gem])}
		}
	}
	return nil
}

func (s Setup) Clone() Setup {
	coords := make(map[game.GemType][]game.Coordinate, len(s.Coords))
	for gem, cs := range s.Coords {
		coords[gem] = slices.Clone(cs)
	}
	return Setup{ID: s.ID, Coords: coords, Order: slices.Clone(s.Order)}
}

// Book maps a side key ("squares", "circles") to its setups by id.
type Book map[string]map[string]Setup

// SetupIDs returns the setup ids of a side in ascending order.
func (b Book) SetupIDs(side string) ([]string, bool) {
	setups, ok := b[game.Side(side).BookKey()]
	if !ok {
		return nil, false
	}
	ids := make([]string, 0, len(setups))
	for id := range setups {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, true
}

// Parse decodes an opening book document. Setups that do not decode or that
// violate the placement invariant are dropped and reported in the returned
// slice.
func Parse(data []byte) (Book, []error, error) {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parse opening book: %w: %w", errkind.Configuration, err)
	}
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("parse opening book: %w: no sides", errkind.Configuration)
	}
	book := make(Book, len(raw))
	var dropped []error
	for side, setups := range raw {
		book[side] = make(map[string]Setup, len(setups))
		for id, doc := range setups {
			var setup Setup
			if err := json.Unmarshal(doc, &setup); err != nil {
				dropped = append(dropped, fmt.Errorf("%s/%s: %w: %w", side, id, errkind.Validation, err))
				continue
			}
			if err := setup.Validate(); err != nil {
				dropped = append(dropped, fmt.Errorf("%s/%s: %w", side, id, err))
				continue
			}
			setup.ID = id
			book[side][id] = setup
		}
	}
	return book, dropped, nil
}
