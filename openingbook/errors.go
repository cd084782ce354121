package openingbook

import (
	"errors"
	"fmt"

	"gemduel/errkind"
	"gemduel/game"
)

var (
	ErrInvalidSide   = fmt.Errorf("side not in opening book: %w", errkind.Validation)
	ErrEmptyBook     = fmt.Errorf("no setups for side: %w", errkind.Validation)
	ErrOrderOverflow = fmt.Errorf("setup order overflow: %w", errkind.Validation)
)

// OrderOverflowError reports a setup whose order needs more coordinates of a
// gem type than the setup defines.
type OrderOverflowError struct {
	Gem     game.GemType
	Needed  int
	Defined int
}

func (e *OrderOverflowError) Error() string {
	return fmt.Sprintf("setup order overflow: order needs %d %s coordinate(s), setup defines %d", e.Needed, e.Gem, e.Defined)
}

func (e *OrderOverflowError) Is(target error) bool {
	return target == ErrOrderOverflow || errors.Is(ErrOrderOverflow, target)
}
