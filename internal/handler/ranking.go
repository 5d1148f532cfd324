package handler

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"telegram-minigame-bot/internal/service"
)

// DefaultLeaderboardSize is how many rows /top shows.
const DefaultLeaderboardSize = 10

// RankingHandler handles the /top leaderboard command.
type RankingHandler struct {
	records *service.RecordsService
}

// NewRankingHandler creates a new RankingHandler.
func NewRankingHandler(records *service.RecordsService) *RankingHandler {
	return &RankingHandler{records: records}
}

// HandleTop handles the /top command.
func (h *RankingHandler) HandleTop(c tele.Context) error {
	entries, err := h.records.Leaderboard(context.Background(), DefaultLeaderboardSize)
	if err != nil {
		return c.Reply("❌ Failed to load the leaderboard, try again later.")
	}
	if len(entries) == 0 {
		return c.Reply("No games played yet. Start one with /games!")
	}

	var b strings.Builder
	b.WriteString("🏆 Top players by wins:\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s — %d wins (%d played)\n", i+1, e.Username, e.Wins, e.Played)
	}
	return c.Reply(strings.TrimRight(b.String(), "\n"))
}
