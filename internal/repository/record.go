package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-minigame-bot/internal/model"
)

// RecordRepository persists per-player game outcomes and serves the wins
// leaderboard.
type RecordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository creates a new RecordRepository instance.
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// Insert stores one game record.
func (r *RecordRepository) Insert(ctx context.Context, rec *model.GameRecord) error {
	const query = `
		INSERT INTO game_records (chat_id, user_id, username, game, result, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		rec.ChatID, rec.UserID, rec.Username, rec.Game, rec.Result, rec.Score,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert game record: %w", err)
	}
	return nil
}

// Leaderboard returns the top players by win count. The most recent
// username seen for a user labels their row.
func (r *RecordRepository) Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	const query = `
		SELECT user_id,
		       (ARRAY_AGG(username ORDER BY created_at DESC))[1] AS username,
		       COUNT(*) FILTER (WHERE result = 'win') AS wins,
		       COUNT(*) AS played
		FROM game_records
		GROUP BY user_id
		ORDER BY wins DESC, played ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Wins, &e.Played); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	return entries, nil
}

// CountByUser returns how many records a user has, used by tests.
func (r *RecordRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM game_records WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}
