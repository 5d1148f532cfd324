package handler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"telegram-minigame-bot/internal/game"
	"telegram-minigame-bot/internal/model"
	"telegram-minigame-bot/internal/platform"
	"telegram-minigame-bot/internal/session"
)

const testChatID int64 = 7

// commandContext is a minimal tele.Context for invoking handlers directly.
type commandContext struct {
	tele.Context
	chat    *tele.Chat
	args    []string
	replies []string
}

func (c *commandContext) Chat() *tele.Chat { return c.chat }
func (c *commandContext) Args() []string   { return c.args }
func (c *commandContext) Reply(what interface{}, opts ...interface{}) error {
	if text, ok := what.(string); ok {
		c.replies = append(c.replies, text)
	}
	return nil
}

type stubGame struct{}

func (s *stubGame) Name() string        { return "Hangman" }
func (s *stubGame) Command() string     { return "hangman" }
func (s *stubGame) Description() string { return "Guess the word." }
func (s *stubGame) MinPlayers() int     { return 1 }
func (s *stubGame) MaxPlayers() int     { return 1 }
func (s *stubGame) Run(ctx context.Context, rt *session.Runtime, players []model.Player, params map[string]any) (*session.Outcome, error) {
	return &session.Outcome{Kind: session.OutcomeCompleted}, nil
}

func TestHandleQuizInvalidRounds(t *testing.T) {
	fake := platform.NewFake()
	games := game.NewRegistry()
	manager := game.NewManager(games, session.NewRegistry(), fake, nil, game.JoinTimings{
		Duration:     time.Minute,
		PollInterval: time.Second,
	})
	h := NewGameHandler(context.Background(), manager, games)

	c := &commandContext{chat: &tele.Chat{ID: testChatID}, args: []string{"soon"}}
	require.NoError(t, h.HandleQuiz(c))

	require.Len(t, c.replies, 1)
	assert.Contains(t, c.replies[0], "Usage: /quiz")
	// No session was launched.
	assert.Empty(t, fake.SentTexts())
}

func TestHandleGamesListsRegistry(t *testing.T) {
	games := game.NewRegistry()
	require.NoError(t, games.Register(&stubGame{}))
	h := NewGameHandler(context.Background(), nil, games)

	c := &commandContext{chat: &tele.Chat{ID: testChatID}}
	require.NoError(t, h.HandleGames(c))

	require.Len(t, c.replies, 1)
	assert.Contains(t, c.replies[0], "/hangman")
	assert.Contains(t, c.replies[0], "Guess the word.")
}

// Sessions launched by the handler run under the bot lifetime context: once
// it is cancelled, an in-flight session winds down instead of running out
// its join window.
func TestStartUsesBotLifetimeContext(t *testing.T) {
	fake := platform.NewFake()
	games := game.NewRegistry()
	require.NoError(t, games.Register(&stubGame{}))
	manager := game.NewManager(games, session.NewRegistry(), fake, nil, game.JoinTimings{
		Duration:     time.Minute,
		PollInterval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := NewGameHandler(ctx, manager, games)

	c := &commandContext{chat: &tele.Chat{ID: testChatID}}
	require.NoError(t, h.HandleHangman(c))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(fake.LastText(), "cancelled") {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("session outlived the cancelled context; messages: %q", fake.SentTexts())
}
