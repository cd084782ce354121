// Package store persists arena batches in SQLite for downstream reporting.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gemduel/errkind"
	"gemduel/experiments"
	"gemduel/experiments/metrics"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrBatchNotFound = fmt.Errorf("batch not found: %w", errkind.Lookup)

// BatchSummary is the stored header of a batch.
type BatchSummary struct {
	ID          uuid.UUID
	Players     metrics.Players
	GamesPlayed int
	CreatedAt   time.Time
}

// SQLiteDB implements experiments.Recorder.
type SQLiteDB struct {
	db *sql.DB
}

var _ experiments.Recorder = (*SQLiteDB)(nil)

// Open opens the database at path. ":memory:" gives a private in-memory database.
func Open(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" a single database and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist.
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS batches (
			id TEXT PRIMARY KEY,
			player_a TEXT NOT NULL,
			player_b TEXT NOT NULL,
			games_played INTEGER NOT NULL,
			draws INTEGER NOT NULL,
			crashes INTEGER NOT NULL,
			illegal_moves INTEGER NOT NULL,
			total_turns INTEGER NOT NULL,
			wins_by_ai TEXT NOT NULL,
			losses_by_ai TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS game_results (
			batch_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			squares TEXT NOT NULL,
			winner TEXT,
			win_condition TEXT,
			turn_count INTEGER NOT NULL,
			crashed INTEGER NOT NULL,
			illegal_move INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			PRIMARY KEY (batch_id, position),
			FOREIGN KEY (batch_id) REFERENCES batches(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_game_results_seed ON game_results(batch_id, seed)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveBatch stores a report and its results in one transaction.
func (s *SQLiteDB) SaveBatch(ctx context.Context, report experiments.Report) error {
	stats := report.Stats
	if stats == nil {
		stats = metrics.NewMatchStats()
	}
	wins, err := json.Marshal(stats.WinsByAI)
	if err != nil {
		return err
	}
	losses, err := json.Marshal(stats.LossesByAI)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO batches (
		id, player_a, player_b, games_played, draws, crashes, illegal_moves,
		total_turns, wins_by_ai, losses_by_ai, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID.String(), report.Players.PlayerA, report.Players.PlayerB,
		stats.GamesPlayed, stats.Draws, stats.Crashes, stats.IllegalMoves,
		stats.TotalTurns, string(wins), string(losses), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save batch %s: %w", report.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO game_results (
		batch_id, position, seed, squares, winner, win_condition,
		turn_count, crashed, illegal_move, duration_ns
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range report.Results {
		_, err := stmt.ExecContext(ctx,
			report.ID.String(), i, r.Seed, r.SquaresID, nullable(r.Winner), nullable(r.WinCondition),
			r.TurnCount, r.Crashed, r.IllegalMove, int64(r.Duration),
		)
		if err != nil {
			return fmt.Errorf("failed to save result for seed %d: %w", r.Seed, err)
		}
	}

	return tx.Commit()
}

// GetStats returns the stats stored with a batch.
func (s *SQLiteDB) GetStats(ctx context.Context, batchID uuid.UUID) (*metrics.MatchStats, error) {
	var stats metrics.MatchStats
	var wins, losses string
	err := s.db.QueryRowContext(ctx, `SELECT games_played, draws, crashes, illegal_moves,
		total_turns, wins_by_ai, losses_by_ai FROM batches WHERE id = ?`, batchID.String()).Scan(
		&stats.GamesPlayed, &stats.Draws, &stats.Crashes, &stats.IllegalMoves,
		&stats.TotalTurns, &wins, &losses,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(wins), &stats.WinsByAI); err != nil {
		return nil, fmt.Errorf("corrupt wins of batch %s: %w", batchID, err)
	}
	if err := json.Unmarshal([]byte(losses), &stats.LossesByAI); err != nil {
		return nil, fmt.Errorf("corrupt losses of batch %s: %w", batchID, err)
	}
	return stats.Clone(), nil
}

// ListResults returns the results of a batch in the order they were saved.
func (s *SQLiteDB) ListResults(ctx context.Context, batchID uuid.UUID) ([]metrics.GameResult, error) {
	var players metrics.Players
	err := s.db.QueryRowContext(ctx, `SELECT player_a, player_b FROM batches WHERE id = ?`, batchID.String()).
		Scan(&players.PlayerA, &players.PlayerB)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT seed, squares, winner, win_condition,
		turn_count, crashed, illegal_move, duration_ns
		FROM game_results WHERE batch_id = ? ORDER BY position`, batchID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []metrics.GameResult{}
	for rows.Next() {
		r := metrics.GameResult{Players: players}
		var winner, winCondition sql.NullString
		var duration int64
		if err := rows.Scan(&r.Seed, &r.SquaresID, &winner, &winCondition,
			&r.TurnCount, &r.Crashed, &r.IllegalMove, &duration); err != nil {
			return nil, err
		}
		r.Winner = winner.String
		r.WinCondition = winCondition.String
		r.Duration = time.Duration(duration)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListBatches returns every stored batch, newest first.
func (s *SQLiteDB) ListBatches(ctx context.Context) ([]BatchSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, player_a, player_b, games_played, created_at
		FROM batches ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := []BatchSummary{}
	for rows.Next() {
		var b BatchSummary
		var id string
		if err := rows.Scan(&id, &b.Players.PlayerA, &b.Players.PlayerB, &b.GamesPlayed, &b.CreatedAt); err != nil {
			return nil, err
		}
		if b.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("corrupt batch id %q: %w", id, err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
