package hangman

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"telegram-minigame-bot/internal/model"
	"telegram-minigame-bot/internal/session"
)

// Config holds hangman configuration.
type Config struct {
	GuessTimeout time.Duration
	MaxAttempts  int
}

// Game implements hangman for a single player. Rounds are driven by a
// plain loop, one guess per iteration, each under its own guess timeout.
type Game struct {
	words []string
	cfg   Config
	rng   *rand.Rand
}

// New creates a hangman game over the given word pool.
func New(words []string, cfg Config) *Game {
	return &Game{
		words: words,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Name returns the game's display name.
func (g *Game) Name() string { return "Hangman" }

// Command returns the command that starts this game.
func (g *Game) Command() string { return "hangman" }

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "Guess the word one letter at a time before your attempts run out."
}

// MinPlayers returns 1.
func (g *Game) MinPlayers() int { return 1 }

// MaxPlayers returns 1.
func (g *Game) MaxPlayers() int { return 1 }

// Run plays one hangman game to a terminal state.
func (g *Game) Run(ctx context.Context, rt *session.Runtime, players []model.Player, params map[string]any) (*session.Outcome, error) {
	if len(g.words) == 0 {
		return nil, errors.New("hangman word pool is empty")
	}
	player := players[0]
	authors := session.Authors(player)
	state := NewState(g.words[g.rng.Intn(len(g.words))], g.cfg.MaxAttempts)

	for state.Status() == Guessing {
		letter, err := g.promptGuess(ctx, rt, authors, state)
		if err != nil {
			return nil, err
		}

		if state.Guess(letter) {
			rt.Post(fmt.Sprintf("✅ %c is in the word!", letter))
		} else {
			rt.Post(fmt.Sprintf("❌ No %c in the word.", letter))
		}
	}

	if state.Status() == Won {
		return &session.Outcome{
			Kind:    session.OutcomeCompleted,
			Summary: fmt.Sprintf("🏆 %s guessed it: %s", player.DisplayName, state.Answer()),
			Results: []session.PlayerResult{{Player: player, Result: model.ResultWin, Score: state.AttemptsRemaining()}},
		}, nil
	}
	return &session.Outcome{
		Kind:    session.OutcomeCompleted,
		Summary: fmt.Sprintf("💀 Out of attempts! The word was %s.", state.Answer()),
		Results: []session.PlayerResult{{Player: player, Result: model.ResultLose}},
	}, nil
}

// promptGuess shows the current state and waits for one valid letter under
// a single guess deadline. Invalid input re-prompts for free: the deadline
// keeps running against the original prompt.
func (g *Game) promptGuess(ctx context.Context, rt *session.Runtime, authors map[int64]bool, state *State) (rune, error) {
	deadline := time.Now().Add(g.cfg.GuessTimeout)

	filter := rt.OpenFilter(authors)
	defer filter.Close()

	rt.Post(fmt.Sprintf("🪢 %s\n❤️ Attempts left: %d\n🔤 Guessed: %s\nSend a letter!",
		state.Masked(), state.AttemptsRemaining(), state.GuessedLetters()))
	for {
		in, err := filter.NextBefore(ctx, deadline)
		if err != nil {
			return 0, err
		}
		letter, err := ParseGuess(in.Text)
		if err != nil {
			rt.Post("🚫 Send a single letter.")
			continue
		}
		return letter, nil
	}
}

// DefaultWords returns the built-in word pool used to seed an empty
// database on first start.
func DefaultWords() []string {
	return []string{
		"GOPHER", "KEYBOARD", "SATELLITE", "VOLCANO", "PYRAMID",
		"LANTERN", "WHISPER", "GLACIER", "COMPASS", "THUNDER",
		"BICYCLE", "ORCHARD", "MOUNTAIN", "TELESCOPE", "HARBOR",
	}
}
