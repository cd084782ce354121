package metrics

import (
	"maps"
	"time"

	"github.com/shopspring/decimal"
)

// Players names the two AI versions of a match.
type Players struct {
	PlayerA string `json:"playerA"`
	PlayerB string `json:"playerB"`
}

// Opponent returns the other player of id, or "" when id plays neither seat.
func (p Players) Opponent(id string) string {
	switch id {
	case p.PlayerA:
		return p.PlayerB
	case p.PlayerB:
		return p.PlayerA
	}
	return ""
}

// GameResult is the outcome of one match. Empty Winner means a draw or an
// aborted game; empty WinCondition means none was reported.
type GameResult struct {
	Winner       string        `json:"winnerId,omitempty"`
	WinCondition string        `json:"winConditionType,omitempty"`
	TurnCount    int           `json:"turnCount"`
	Crashed      bool          `json:"crashed"`
	IllegalMove  bool          `json:"illegalMove"`
	Seed         int64         `json:"seed"`
	Players      Players       `json:"aiVersionIds"`
	SquaresID    string        `json:"squares,omitempty"` // AI id seated as squares
	Duration     time.Duration `json:"duration,omitempty"`
}

func (r GameResult) WinnerID() (string, bool) {
	return r.Winner, r.Winner != ""
}

func (r GameResult) IsDraw() bool {
	return r.Winner == "" && !r.Crashed && !r.IllegalMove
}

// MatchStats accumulates game results. Counters only increase, and folding is
// order independent: any permutation of Add/Merge calls yields equal stats.
type MatchStats struct {
	GamesPlayed  int            `json:"gamesPlayed"`
	WinsByAI     map[string]int `json:"winsByAI"`
	LossesByAI   map[string]int `json:"lossesByAI"`
	Draws        int            `json:"draws"`
	Crashes      int            `json:"crashes"`
	IllegalMoves int            `json:"illegalMoves"`
	TotalTurns   int            `json:"totalTurns"`
}

func NewMatchStats() *MatchStats {
	return &MatchStats{
		WinsByAI:   map[string]int{},
		LossesByAI: map[string]int{},
	}
}

func (s *MatchStats) init() {
	if s.WinsByAI == nil {
		s.WinsByAI = map[string]int{}
	}
	if s.LossesByAI == nil {
		s.LossesByAI = map[string]int{}
	}
}

// Add folds a single result into the stats.
func (s *MatchStats) Add(r GameResult) {
	s.init()
	s.GamesPlayed++
	s.TotalTurns += r.TurnCount
	if r.Crashed {
		s.Crashes++
	}
	if r.IllegalMove {
		s.IllegalMoves++
	}
	if winner, ok := r.WinnerID(); ok {
		s.WinsByAI[winner]++
		if loser := r.Players.Opponent(winner); loser != "" {
			s.LossesByAI[loser]++
		}
	} else if r.IsDraw() {
		s.Draws++
	}
}

// Merge folds another accumulator into s.
func (s *MatchStats) Merge(other *MatchStats) {
	if other == nil {
		return
	}
	s.init()
	s.GamesPlayed += other.GamesPlayed
	s.Draws += other.Draws
	s.Crashes += other.Crashes
	s.IllegalMoves += other.IllegalMoves
	s.TotalTurns += other.TotalTurns
	for id, n := range other.WinsByAI {
		s.WinsByAI[id] += n
	}
	for id, n := range other.LossesByAI {
		s.LossesByAI[id] += n
	}
}

func (s *MatchStats) Clone() *MatchStats {
	c := *s
	c.WinsByAI = maps.Clone(s.WinsByAI)
	c.LossesByAI = maps.Clone(s.LossesByAI)
	c.init()
	return &c
}

// Equal compares counters; nil and empty maps are equal.
func (s *MatchStats) Equal(other *MatchStats) bool {
	return s.GamesPlayed == other.GamesPlayed &&
		s.Draws == other.Draws &&
		s.Crashes == other.Crashes &&
		s.IllegalMoves == other.IllegalMoves &&
		s.TotalTurns == other.TotalTurns &&
		maps.Equal(s.WinsByAI, other.WinsByAI) &&
		maps.Equal(s.LossesByAI, other.LossesByAI)
}

// AverageTurns is TotalTurns/GamesPlayed rounded half-up to two decimals, or 0
// when no game was played.
func AverageTurns(s *MatchStats) float64 {
	if s == nil || s.GamesPlayed == 0 {
		return 0
	}
	total := decimal.NewFromInt(int64(s.TotalTurns))
	games := decimal.NewFromInt(int64(s.GamesPlayed))
	return total.DivRound(games, 2).InexactFloat64()
}
