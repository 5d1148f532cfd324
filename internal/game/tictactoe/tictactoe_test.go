package tictactoe

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

var (
	alice = model.Player{UserID: 1, DisplayName: "alice"}
	bob   = model.Player{UserID: 2, DisplayName: "bob"}
)

type runResult struct {
	outcome *session.Outcome
	err     error
}

// startGame runs the game in the background so the test can drive the chat.
func startGame(g *Game, fake *platform.Fake) <-chan runResult {
	done := make(chan runResult, 1)
	go func() {
		rt := session.NewRuntime(fake, testChatID)
		outcome, err := g.Run(context.Background(), rt, []model.Player{alice, bob}, nil)
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

// sendMove answers one full turn for p: row prompt, then column prompt.
func sendMove(t *testing.T, fake *platform.Fake, pos int, p model.Player, row, col string) int {
	t.Helper()
	pos = awaitPost(t, fake, pos, p.DisplayName+", send the row")
	fake.Receive(testChatID, p, row)
	pos = awaitPost(t, fake, pos, p.DisplayName+", send the column")
	fake.Receive(testChatID, p, col)
	return pos
}

func TestTicTacToeCircleWins(t *testing.T) {
	fake := platform.NewFake()
	g := New(Config{MoveTimeout: 2 * time.Second})
	done := startGame(g, fake)

	pos := 0
	pos = sendMove(t, fake, pos, alice, "1", "1")
	pos = sendMove(t, fake, pos, bob, "2", "1")
	pos = sendMove(t, fake, pos, alice, "1", "2")
	pos = sendMove(t, fake, pos, bob, "2", "2")
	sendMove(t, fake, pos, alice, "1", "3")

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, session.OutcomeCompleted, res.outcome.Kind)
	assert.Contains(t, res.outcome.Summary, "alice wins")
	require.Len(t, res.outcome.Results, 2)
	assert.Equal(t, model.ResultWin, res.outcome.Results[0].Result)
	assert.Equal(t, "alice", res.outcome.Results[0].Player.DisplayName)
	assert.Equal(t, model.ResultLose, res.outcome.Results[1].Result)
}

// Picking an occupied cell costs nothing: the same player is asked again and
// the turn does not pass.
func TestTicTacToeOccupiedCellRepromptsSamePlayer(t *testing.T) {
	fake := platform.NewFake()
	g := New(Config{MoveTimeout: 200 * time.Millisecond})
	done := startGame(g, fake)

	pos := 0
	pos = sendMove(t, fake, pos, alice, "2", "2")
	pos = sendMove(t, fake, pos, bob, "2", "2")
	pos = awaitPost(t, fake, pos, "cell is taken, bob")
	awaitPost(t, fake, pos, "bob, send the row")

	// Bob walks away; the fresh prompt times out and aborts the session.
	res := <-done
	assert.ErrorIs(t, res.err, session.ErrStaleTimeout)
	assert.Nil(t, res.outcome)
}

// Malformed coordinates are rejected without ending the prompt, and the
// original deadline still applies.
func TestTicTacToeInvalidCoordinateRejected(t *testing.T) {
	fake := platform.NewFake()
	g := New(Config{MoveTimeout: 2 * time.Second})
	done := startGame(g, fake)

	pos := awaitPost(t, fake, 0, "alice, send the row")
	fake.Receive(testChatID, alice, "9")
	pos = awaitPost(t, fake, pos, "between 1 and 3")
	fake.Receive(testChatID, alice, "first")
	pos = awaitPost(t, fake, pos, "between 1 and 3")
	fake.Receive(testChatID, alice, "1")
	pos = awaitPost(t, fake, pos, "alice, send the column")
	fake.Receive(testChatID, alice, "1")

	// The mark lands and play moves to bob.
	sendMove(t, fake, pos, bob, "2", "2")

	// Drain with a timeout so an aborted game fails loudly.
	select {
	case res := <-done:
		t.Fatalf("game ended early: %+v %v", res.outcome, res.err)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTicTacToeMoveTimeoutAborts(t *testing.T) {
	fake := platform.NewFake()
	g := New(Config{MoveTimeout: 30 * time.Millisecond})
	done := startGame(g, fake)

	res := <-done
	assert.ErrorIs(t, res.err, session.ErrStaleTimeout)
	assert.Nil(t, res.outcome)
}
