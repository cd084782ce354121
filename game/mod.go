package game

// GemsPerSide is the fixed number of gems each side places at game start.
const GemsPerSide = 8

// Move is an opaque move of the external rules engine. Implementations must be
// comparable: the driver checks a chosen move against LegalMoves with ==.
type Move interface {
	String() string
}

// State is the authoritative game state as seen by the arena. The rules live
// behind it: legal move generation, move application and win detection.
// State should be immutable - Play always returns a new state.
type State interface {
	Player() string // Side to move, singular form
	LegalMoves() []Move
	Play(Move) State
	Winner() string // "" while the game is undecided
}

// WinConditioner is implemented by states that can name how the game was won.
type WinConditioner interface {
	WinCondition() string
}
