// Package results keeps finished games in a SQLite file.
package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"patchwork/internal/ports"
)

var ErrDuplicateResult = errors.New("result already recorded")

type Store struct {
	db *sql.DB
}

var _ ports.ResultsPort = (*Store)(nil)

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			game_id TEXT PRIMARY KEY,
			finished_at INTEGER NOT NULL,
			players INTEGER NOT NULL,
			turns INTEGER NOT NULL,
			winner INTEGER NOT NULL,
			first_finisher INTEGER NOT NULL,
			catalog_digest TEXT NOT NULL,
			standings_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS results_finished_at ON results(finished_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordResult inserts one finished game.
func (s *Store) RecordResult(ctx context.Context, result ports.GameResult) error {
	if result.GameID == "" {
		return fmt.Errorf("game id is required")
	}
	standings, err := json.Marshal(result.Standings)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM results WHERE game_id=?`, result.GameID).Scan(&exists)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrDuplicateResult, result.GameID)
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO results(game_id,finished_at,players,turns,winner,first_finisher,catalog_digest,standings_json)
		 VALUES(?,?,?,?,?,?,?,?)`,
		result.GameID,
		result.FinishedAt.UTC().UnixNano(),
		result.Players,
		result.Turns,
		result.Winner,
		result.FirstFinisher,
		result.CatalogDigest,
		string(standings),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ListResults returns up to limit results, newest first. A limit <= 0 returns all.
func (s *Store) ListResults(ctx context.Context, limit int) ([]ports.GameResult, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id,finished_at,players,turns,winner,first_finisher,catalog_digest,standings_json
		 FROM results ORDER BY finished_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.GameResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Get returns one recorded game.
func (s *Store) Get(ctx context.Context, gameID string) (ports.GameResult, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT game_id,finished_at,players,turns,winner,first_finisher,catalog_digest,standings_json
		 FROM results WHERE game_id=?`, gameID)
	res, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.GameResult{}, false, nil
	}
	if err != nil {
		return ports.GameResult{}, false, err
	}
	return res, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (ports.GameResult, error) {
	var (
		res       ports.GameResult
		finished  int64
		standings string
	)
	if err := sc.Scan(&res.GameID, &finished, &res.Players, &res.Turns, &res.Winner,
		&res.FirstFinisher, &res.CatalogDigest, &standings); err != nil {
		return ports.GameResult{}, err
	}
	res.FinishedAt = time.Unix(0, finished).UTC()
	if err := json.Unmarshal([]byte(standings), &res.Standings); err != nil {
		return ports.GameResult{}, fmt.Errorf("game %s standings: %w", res.GameID, err)
	}
	return res, nil
}
