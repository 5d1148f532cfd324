package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"telegram-minigame-bot/internal/model"
	"telegram-minigame-bot/internal/session"
)

// Config holds quiz game configuration.
type Config struct {
	DefaultRounds int
	MinRounds     int
	MaxRounds     int
	AnswerTimeout time.Duration
}

// Game implements the trivia quiz. Any number of players may join; each
// round the first player to send an accepted answer scores a point. A round
// with no answer before the stale timeout aborts the whole session.
type Game struct {
	pool []Question
	cfg  Config
	rng  *rand.Rand
}

// New creates a quiz game over the given question pool.
func New(pool []Question, cfg Config) *Game {
	return &Game{
		pool: pool,
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Name returns the game's display name.
func (g *Game) Name() string { return "Quiz" }

// Command returns the command that starts this game.
func (g *Game) Command() string { return "quiz" }

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "Trivia rounds: first correct answer scores a point."
}

// MinPlayers returns 1; a quiz can run with a single player.
func (g *Game) MinPlayers() int { return 1 }

// MaxPlayers returns 0; any number of players may join.
func (g *Game) MaxPlayers() int { return 0 }

// Rounds resolves the round count for one session from the command
// parameter, clamped to the configured bounds.
func (g *Game) Rounds(params map[string]any) int {
	rounds := g.cfg.DefaultRounds
	if v, ok := params["rounds"].(int); ok {
		rounds = v
	}
	if rounds < g.cfg.MinRounds {
		rounds = g.cfg.MinRounds
	}
	if rounds > g.cfg.MaxRounds {
		rounds = g.cfg.MaxRounds
	}
	return rounds
}

// Run plays the quiz: questions are drawn without replacement until the
// round count or the pool is exhausted, whichever comes first.
func (g *Game) Run(ctx context.Context, rt *session.Runtime, players []model.Player, params map[string]any) (*session.Outcome, error) {
	questions := Draw(g.pool, g.Rounds(params), g.rng)
	scores := session.NewScoreBoard(players)
	authors := session.Authors(players...)

	for i, q := range questions {
		if err := g.playRound(ctx, rt, scores, authors, q, i+1, len(questions)); err != nil {
			// Stale timeout or cancellation aborts the session.
			return nil, err
		}
	}

	standings := scores.Standings()
	return &session.Outcome{
		Kind:    session.OutcomeCompleted,
		Summary: summary(standings),
		Results: results(standings),
	}, nil
}

// playRound posts one question and races the first accepted answer against
// the stale timeout. Non-matching replies are ignored and keep the clock
// running.
func (g *Game) playRound(ctx context.Context, rt *session.Runtime, scores *session.ScoreBoard, authors map[int64]bool, q Question, round, total int) error {
	presented := q.Present(g.rng)
	deadline := time.Now().Add(g.cfg.AnswerTimeout)

	filter := rt.OpenFilter(authors)
	defer filter.Close()

	rt.Post(fmt.Sprintf("❓ Round %d/%d\n%s", round, total, presented.Text))
	for {
		in, err := filter.NextBefore(ctx, deadline)
		if err != nil {
			return err
		}
		if !presented.Matches(in.Text) {
			continue
		}
		scores.Award(in.Author.UserID, 1)
		rt.Post(fmt.Sprintf("✅ %s got it!", in.Author.DisplayName))
		return nil
	}
}

// summary renders the final ranked scoreboard.
func summary(standings []session.Standing) string {
	var b strings.Builder
	b.WriteString("🏁 Quiz over! Final scores:\n")
	for _, s := range standings {
		fmt.Fprintf(&b, "%d. %s — %d\n", s.Rank, s.Player.DisplayName, s.Score)
	}
	return strings.TrimRight(b.String(), "\n")
}

// results maps standings to recordable per-player results. Every player
// sharing the top non-zero score counts as a winner.
func results(standings []session.Standing) []session.PlayerResult {
	out := make([]session.PlayerResult, len(standings))
	for i, s := range standings {
		result := model.ResultPlay
		if s.Rank == 1 && s.Score > 0 {
			result = model.ResultWin
		}
		out[i] = session.PlayerResult{Player: s.Player, Result: result, Score: s.Score}
	}
	return out
}
