// Package db persists finished matches so they can be fetched, listed,
// and re-validated later without the original peers being online.
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kalepail/zkp-pong/pkg/models"
)

// Store wraps a pgx connection pool for match-log persistence.
type Store struct {
	pool *pgxpool.Pool
}

// Connect initializes the connection pool to PostgreSQL using pgx.
func Connect(connStr string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL for match log storage")
	return &Store{pool: pool}, nil
}

// Close gracefully closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema loads and executes the schema.sql file.
func (s *Store) InitSchema() error {
	schemaBytes, err := os.ReadFile("internal/db/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %v", err)
	}

	_, err = s.pool.Exec(context.Background(), string(schemaBytes))
	if err != nil {
		return fmt.Errorf("failed to execute schema migrations: %v", err)
	}

	log.Println("match log schema initialized")
	return nil
}

// SaveMatch persists a finished CompactLog, satisfying producer.Persister.
// The events/commitments arrays are stored as JSON — they are opaque,
// order-sensitive blobs to the database, never queried column-wise.
func (s *Store) SaveMatch(ctx context.Context, l models.CompactLog) error {
	eventsJSON, err := json.Marshal(l.Events)
	if err != nil {
		return fmt.Errorf("failed to marshal events: %v", err)
	}
	commitmentsJSON, err := json.Marshal(l.Commitments)
	if err != nil {
		return fmt.Errorf("failed to marshal commitments: %v", err)
	}

	sql := `
		INSERT INTO match_logs (game_id, v, events, commitments, player_left_seed, player_right_seed)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id) DO UPDATE
		SET events = EXCLUDED.events, commitments = EXCLUDED.commitments,
		    player_left_seed = EXCLUDED.player_left_seed, player_right_seed = EXCLUDED.player_right_seed;
	`
	_, err = s.pool.Exec(ctx, sql, l.GameID, l.V, eventsJSON, commitmentsJSON, l.PlayerLeftSeed, l.PlayerRightSeed)
	if err != nil {
		return fmt.Errorf("failed to insert match_logs: %v", err)
	}
	return nil
}

// GetMatch fetches a previously saved CompactLog by game ID.
func (s *Store) GetMatch(ctx context.Context, gameID uint32) (models.CompactLog, error) {
	var l models.CompactLog
	var eventsJSON, commitmentsJSON []byte

	sql := `
		SELECT game_id, v, events, commitments, player_left_seed, player_right_seed
		FROM match_logs WHERE game_id = $1
	`
	err := s.pool.QueryRow(ctx, sql, gameID).Scan(
		&l.GameID, &l.V, &eventsJSON, &commitmentsJSON, &l.PlayerLeftSeed, &l.PlayerRightSeed,
	)
	if err != nil {
		return models.CompactLog{}, fmt.Errorf("match %d not found: %v", gameID, err)
	}
	if err := json.Unmarshal(eventsJSON, &l.Events); err != nil {
		return models.CompactLog{}, fmt.Errorf("failed to unmarshal events: %v", err)
	}
	if err := json.Unmarshal(commitmentsJSON, &l.Commitments); err != nil {
		return models.CompactLog{}, fmt.Errorf("failed to unmarshal commitments: %v", err)
	}
	return l, nil
}

// MatchSummary is a listing row, cheap enough to return hundreds at once
// without shipping every match's full event array.
type MatchSummary struct {
	GameID     uint32 `json:"gameId"`
	EventsLen  int    `json:"eventsLen"`
	SavedAt    string `json:"savedAt"`
	FairCached *bool  `json:"fairCached,omitempty"`
}

// ListMatches returns a page of recently saved matches, most recent first.
func (s *Store) ListMatches(ctx context.Context, page, limit int) ([]MatchSummary, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var totalCount int
	countSQL := `SELECT COUNT(*) FROM match_logs`
	if err := s.pool.QueryRow(ctx, countSQL).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	dataSQL := `
		SELECT game_id, jsonb_array_length(events), created_at, fair_cached
		FROM match_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.pool.Query(ctx, dataSQL, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []MatchSummary
	for rows.Next() {
		var row MatchSummary
		var createdAt any
		if err := rows.Scan(&row.GameID, &row.EventsLen, &createdAt, &row.FairCached); err != nil {
			return nil, 0, err
		}
		row.SavedAt = fmt.Sprintf("%v", createdAt)
		out = append(out, row)
	}
	if out == nil {
		out = []MatchSummary{}
	}
	return out, totalCount, nil
}

// SetFairCached records the validator's verdict alongside a saved match so
// repeated status polls don't have to re-run replay.
func (s *Store) SetFairCached(ctx context.Context, gameID uint32, fair bool) error {
	sql := `UPDATE match_logs SET fair_cached = $1 WHERE game_id = $2`
	_, err := s.pool.Exec(ctx, sql, fair, gameID)
	return err
}

// GetPool exposes the connection pool for subsystems that need raw access.
func (s *Store) GetPool() *pgxpool.Pool {
	return s.pool
}
