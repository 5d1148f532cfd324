package hangman

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-minigame-bot/internal/model"
	"telegram-minigame-bot/internal/platform"
	"telegram-minigame-bot/internal/session"
)

const testChatID int64 = 7

var alice = model.Player{UserID: 1, DisplayName: "alice"}

type runResult struct {
	outcome *session.Outcome
	err     error
}

func startGame(g *Game, fake *platform.Fake) <-chan runResult {
	done := make(chan runResult, 1)
	go func() {
		rt := session.NewRuntime(fake, testChatID)
		outcome, err := g.Run(context.Background(), rt, []model.Player{alice}, nil)
		done <- runResult{outcome: outcome, err: err}
	}()
	return done
}

// awaitPost waits for a message containing substr at or after index pos and
// returns the index just past it.
func awaitPost(t *testing.T, fake *platform.Fake, pos int, substr string) int {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		texts := fake.SentTexts()
		for i := pos; i < len(texts); i++ {
			if strings.Contains(texts[i], substr) {
				return i + 1
			}
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no message containing %q after index %d; got %q", substr, pos, fake.SentTexts())
	return 0
}

func guess(t *testing.T, fake *platform.Fake, pos int, letter string) int {
	t.Helper()
	pos = awaitPost(t, fake, pos, "Send a letter!")
	fake.Receive(testChatID, alice, letter)
	return pos
}

func TestHangmanWinWithoutMisses(t *testing.T) {
	fake := platform.NewFake()
	g := New([]string{"CAT"}, Config{GuessTimeout: 2 * time.Second, MaxAttempts: 10})
	done := startGame(g, fake)

	pos := 0
	pos = guess(t, fake, pos, "c")
	pos = guess(t, fake, pos, "a")
	guess(t, fake, pos, "t")

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, session.OutcomeCompleted, res.outcome.Kind)
	assert.Contains(t, res.outcome.Summary, "alice guessed it: CAT")
	require.Len(t, res.outcome.Results, 1)
	assert.Equal(t, model.ResultWin, res.outcome.Results[0].Result)
	assert.Equal(t, 10, res.outcome.Results[0].Score)
}

func TestHangmanLossExhaustsAttempts(t *testing.T) {
	fake := platform.NewFake()
	g := New([]string{"CAT"}, Config{GuessTimeout: 2 * time.Second, MaxAttempts: 2})
	done := startGame(g, fake)

	pos := 0
	pos = guess(t, fake, pos, "z")
	pos = awaitPost(t, fake, pos, "No Z")
	pos = guess(t, fake, pos, "q")
	awaitPost(t, fake, pos, "No Q")

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, session.OutcomeCompleted, res.outcome.Kind)
	assert.Contains(t, res.outcome.Summary, "The word was CAT")
	assert.Equal(t, model.ResultLose, res.outcome.Results[0].Result)
}

// A reply that is not a single letter is rejected and the prompt stays open.
func TestHangmanInvalidGuessRejected(t *testing.T) {
	fake := platform.NewFake()
	g := New([]string{"CAT"}, Config{GuessTimeout: 2 * time.Second, MaxAttempts: 10})
	done := startGame(g, fake)

	pos := awaitPost(t, fake, 0, "Send a letter!")
	fake.Receive(testChatID, alice, "cat")
	pos = awaitPost(t, fake, pos, "🚫 Send a single letter.")
	fake.Receive(testChatID, alice, "c")
	pos = awaitPost(t, fake, pos, "C is in the word")
	pos = guess(t, fake, pos, "a")
	guess(t, fake, pos, "t")

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, session.OutcomeCompleted, res.outcome.Kind)
	// The invalid reply cost no attempts.
	assert.Equal(t, 10, res.outcome.Results[0].Score)
}

func TestHangmanGuessTimeoutAborts(t *testing.T) {
	fake := platform.NewFake()
	g := New([]string{"CAT"}, Config{GuessTimeout: 30 * time.Millisecond, MaxAttempts: 10})
	done := startGame(g, fake)

	res := <-done
	assert.ErrorIs(t, res.err, session.ErrStaleTimeout)
	assert.Nil(t, res.outcome)
}

func TestHangmanEmptyWordPool(t *testing.T) {
	fake := platform.NewFake()
	rt := session.NewRuntime(fake, testChatID)
	g := New(nil, Config{GuessTimeout: time.Second, MaxAttempts: 10})

	outcome, err := g.Run(context.Background(), rt, []model.Player{alice}, nil)

	assert.Error(t, err)
	assert.Nil(t, outcome)
}
