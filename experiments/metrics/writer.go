package metrics

import (
	"encoding/csv"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"
)

type Writer struct {
	baseDir string
}

// NewWriter creates <root>/<name>/<timestamp> for one batch's exports.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000000000Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteGameResults(results []GameResult) error {
	header := []string{"seed", "player_a", "player_b", "squares", "winner", "win_condition", "turns", "crashed", "illegal_move", "duration"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			strconv.FormatInt(r.Seed, 10),
			r.Players.PlayerA,
			r.Players.PlayerB,
			r.SquaresID,
			r.Winner,
			r.WinCondition,
			strconv.Itoa(r.TurnCount),
			strconv.FormatBool(r.Crashed),
			strconv.FormatBool(r.IllegalMove),
			r.Duration.String(),
		})
	}
	return w.write("game_results.csv", header, rows)
}

func (w *Writer) WriteMatchStats(stats *MatchStats) error {
	header := []string{"metric", "ai", "value"}
	rows := [][]string{
		{"games_played", "", strconv.Itoa(stats.GamesPlayed)},
		{"draws", "", strconv.Itoa(stats.Draws)},
		{"crashes", "", strconv.Itoa(stats.Crashes)},
		{"illegal_moves", "", strconv.Itoa(stats.IllegalMoves)},
		{"total_turns", "", strconv.Itoa(stats.TotalTurns)},
		{"average_turns", "", strconv.FormatFloat(AverageTurns(stats), 'f', 2, 64)},
	}
	for _, id := range slices.Sorted(maps.Keys(stats.WinsByAI)) {
		rows = append(rows, []string{"wins", id, strconv.Itoa(stats.WinsByAI[id])})
	}
	for _, id := range slices.Sorted(maps.Keys(stats.LossesByAI)) {
		rows = append(rows, []string{"losses", id, strconv.Itoa(stats.LossesByAI[id])})
	}
	return w.write("match_stats.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
