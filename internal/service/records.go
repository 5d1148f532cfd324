// Package service provides application services layered over the
// repositories.
package service

import (
	"context"
	"fmt"

	"telegram-minigame-bot/internal/model"
	"telegram-minigame-bot/internal/session"
)

// RecordStore is the persistence surface the records service needs.
type RecordStore interface {
	Insert(ctx context.Context, rec *model.GameRecord) error
	Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)
}

// RecordsService persists session outcomes and serves the leaderboard.
type RecordsService struct {
	records RecordStore
}

// NewRecordsService creates a new RecordsService instance.
func NewRecordsService(records RecordStore) *RecordsService {
	return &RecordsService{records: records}
}

// RecordOutcome stores one record per player result. It stops at the first
// failure; the caller treats recording as best-effort.
func (s *RecordsService) RecordOutcome(ctx context.Context, chatID int64, game string, results []session.PlayerResult) error {
	for _, res := range results {
		rec := &model.GameRecord{
			ChatID:   chatID,
			UserID:   res.Player.UserID,
			Username: res.Player.DisplayName,
			Game:     game,
			Result:   res.Result,
			Score:    res.Score,
		}
		if err := s.records.Insert(ctx, rec); err != nil {
			return fmt.Errorf("failed to record result for user %d: %w", res.Player.UserID, err)
		}
	}
	return nil
}

// Leaderboard returns the top players by wins.
func (s *RecordsService) Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	return s.records.Leaderboard(ctx, limit)
}
