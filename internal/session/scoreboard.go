package session

import (
	"sort"

	"telegram-minigame-bot/internal/model"
)

// ScoreBoard accumulates per-player scores for one session. It is owned by
// the session goroutine and never shared, so it needs no locking.
type ScoreBoard struct {
	players []model.Player // join order, fixed at construction
	scores  map[int64]int
}

// Standing is one ranked row of the final scoreboard.
type Standing struct {
	Rank   int
	Player model.Player
	Score  int
}

// NewScoreBoard creates a scoreboard over the finalized player set.
func NewScoreBoard(players []model.Player) *ScoreBoard {
	return &ScoreBoard{
		players: players,
		scores:  make(map[int64]int, len(players)),
	}
}

// Award adds points to a player's score. Unknown players are ignored so the
// scoreboard keys stay a subset of the player set.
func (s *ScoreBoard) Award(userID int64, points int) {
	for _, p := range s.players {
		if p.UserID == userID {
			s.scores[userID] += points
			return
		}
	}
}

// Score returns a player's current score.
func (s *ScoreBoard) Score(userID int64) int {
	return s.scores[userID]
}

// Standings returns all players ranked by score descending. Ties are broken
// by join order, earlier joiner first, so the ranking is deterministic.
// Players sharing a score share a rank.
func (s *ScoreBoard) Standings() []Standing {
	standings := make([]Standing, len(s.players))
	for i, p := range s.players {
		standings[i] = Standing{Player: p, Score: s.scores[p.UserID]}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	for i := range standings {
		if i > 0 && standings[i].Score == standings[i-1].Score {
			standings[i].Rank = standings[i-1].Rank
		} else {
			standings[i].Rank = i + 1
		}
	}
	return standings
}
