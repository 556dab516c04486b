// Package history records finished games in Postgres and serves the
// leaderboard. In-progress games are never persisted.
package history

import (
	"context"
	"log/slog"
	"time"

	"harvest/internal/game"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewStore(db *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, log: logger}
}

// EnsureSchema creates the results table if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS game_results (
			id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			game_id       UUID NOT NULL,
			winner_seat   INT NOT NULL,
			winner_is_ai  BOOLEAN NOT NULL,
			country       TEXT NOT NULL,
			crop          TEXT NOT NULL,
			final_money   BIGINT NOT NULL,
			seasons       INT NOT NULL,
			win_reason    TEXT NOT NULL,
			finished_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// RecordResult stores one row for a finished game.
func (s *Store) RecordResult(ctx context.Context, gameID string, st *game.State) error {
	if st == nil || !st.GameOver || st.Winner == nil {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO game_results (game_id, winner_seat, winner_is_ai, country, crop, final_money, seasons, win_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		gameID,
		st.Winner.PlayerNumber,
		st.Winner.IsAI,
		st.Winner.Country,
		st.Winner.SelectedCrop,
		st.Winner.Money,
		st.CurrentSeason,
		st.WinReason,
	)
	return err
}

type Row struct {
	Rank       int64     `json:"rank"`
	Country    string    `json:"country"`
	Crop       string    `json:"crop"`
	FinalMoney int64     `json:"final_money"`
	Seasons    int       `json:"seasons"`
	WinReason  string    `json:"win_reason"`
	FinishedAt time.Time `json:"finished_at"`
}

// Leaderboard returns the richest finishes, newest first among ties.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(ctx, `
		SELECT country, crop, final_money, seasons, win_reason, finished_at
		FROM game_results
		ORDER BY final_money DESC, finished_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Row, 0, limit)
	rank := int64(0)
	for rows.Next() {
		rank++
		r := Row{Rank: rank}
		if err := rows.Scan(&r.Country, &r.Crop, &r.FinalMoney, &r.Seasons, &r.WinReason, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
