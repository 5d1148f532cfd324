// Package game defines the minigame interface, the command registry, and
// the manager that drives a session from join phase to final report.
package game

import (
	"context"

	"telegram-minigame-bot/internal/model"
	"telegram-minigame-bot/internal/session"
)

// Game defines the interface every minigame implements. Adding a game only
// requires implementing this interface and registering it.
type Game interface {
	// Name returns the game's display name (e.g. "Quiz").
	Name() string

	// Command returns the command that starts this game (e.g. "quiz").
	Command() string

	// Description returns a brief description of the game.
	Description() string

	// MinPlayers returns the smallest viable roster. Sessions with fewer
	// joiners are cancelled after the join phase.
	MinPlayers() int

	// MaxPlayers returns the roster limit, or 0 for no limit. Extra
	// joiners are dropped by join order.
	MaxPlayers() int

	// Run plays the game with the finalized roster. It returns
	// session.ErrStaleTimeout when a round deadline expires, which
	// aborts the whole session. params carries command arguments such
	// as the quiz round count.
	Run(ctx context.Context, rt *session.Runtime, players []model.Player, params map[string]any) (*session.Outcome, error)
}
