package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-minigame-bot/internal/model"
	"telegram-minigame-bot/internal/platform"
	"telegram-minigame-bot/internal/session"
)

const testChatID int64 = 7

var testJoin = JoinTimings{Duration: 60 * time.Millisecond, PollInterval: 10 * time.Millisecond}

// scriptedGame runs a canned Run func; min/max players are fixed at 1/0.
type scriptedGame struct {
	command string
	run     func(players []model.Player) (*session.Outcome, error)
}

func (s *scriptedGame) Name() string        { return s.command }
func (s *scriptedGame) Command() string     { return s.command }
func (s *scriptedGame) Description() string { return "" }
func (s *scriptedGame) MinPlayers() int     { return 1 }
func (s *scriptedGame) MaxPlayers() int     { return 0 }
func (s *scriptedGame) Run(ctx context.Context, rt *session.Runtime, players []model.Player, params map[string]any) (*session.Outcome, error) {
	return s.run(players)
}

type recordedCall struct {
	chatID  int64
	game    string
	results []session.PlayerResult
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
	err   error
}

func (f *fakeRecorder) RecordOutcome(ctx context.Context, chatID int64, game string, results []session.PlayerResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{chatID: chatID, game: game, results: results})
	return f.err
}

func (f *fakeRecorder) recorded() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestManager(t *testing.T, fake *platform.Fake, recorder Recorder, games ...Game) (*Manager, *session.Registry) {
	t.Helper()
	registry := NewRegistry()
	for _, g := range games {
		require.NoError(t, registry.Register(g))
	}
	channels := session.NewRegistry()
	return NewManager(registry, channels, fake, recorder, testJoin), channels
}

func TestManagerCompletedSession(t *testing.T) {
	fake := platform.NewFake()
	recorder := &fakeRecorder{}
	g := &scriptedGame{command: "quiz", run: func(players []model.Player) (*session.Outcome, error) {
		return &session.Outcome{
			Kind:    session.OutcomeCompleted,
			Summary: "🏁 Done!",
			Results: []session.PlayerResult{{Player: players[0], Result: model.ResultWin, Score: 1}},
		}, nil
	}}
	manager, channels := newTestManager(t, fake, recorder, g)
	fake.Join(model.Player{UserID: 1, DisplayName: "alice"})

	outcome := manager.Start(context.Background(), testChatID, "quiz", nil)

	assert.Equal(t, session.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, "🏁 Done!", fake.LastText())

	calls := recorder.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, testChatID, calls[0].chatID)
	assert.Equal(t, "quiz", calls[0].game)
	require.Len(t, calls[0].results, 1)
	assert.Equal(t, model.ResultWin, calls[0].results[0].Result)

	// The channel is free again.
	assert.False(t, channels.Active(testChatID))
}

func TestManagerUnknownGame(t *testing.T) {
	fake := platform.NewFake()
	manager, channels := newTestManager(t, fake, nil)

	outcome := manager.Start(context.Background(), testChatID, "chess", nil)

	assert.Equal(t, session.OutcomeCancelled, outcome.Kind)
	assert.False(t, channels.Active(testChatID))
}

func TestManagerChannelAlreadyActive(t *testing.T) {
	fake := platform.NewFake()
	g := &scriptedGame{command: "quiz", run: func([]model.Player) (*session.Outcome, error) {
		return &session.Outcome{Kind: session.OutcomeCompleted}, nil
	}}
	manager, channels := newTestManager(t, fake, nil, g)

	lease, err := channels.Acquire(testChatID)
	require.NoError(t, err)
	defer lease.Release()

	outcome := manager.Start(context.Background(), testChatID, "quiz", nil)

	assert.Equal(t, session.OutcomeAlreadyActive, outcome.Kind)
	assert.Contains(t, fake.LastText(), "already running")
	// The rejected start must not release the holder's lease.
	assert.True(t, channels.Active(testChatID))
}

func TestManagerNobodyJoins(t *testing.T) {
	fake := platform.NewFake()
	recorder := &fakeRecorder{}
	ran := false
	g := &scriptedGame{command: "quiz", run: func([]model.Player) (*session.Outcome, error) {
		ran = true
		return &session.Outcome{Kind: session.OutcomeCompleted}, nil
	}}
	manager, channels := newTestManager(t, fake, recorder, g)

	outcome := manager.Start(context.Background(), testChatID, "quiz", nil)

	assert.Equal(t, session.OutcomeCancelled, outcome.Kind)
	assert.False(t, ran)
	assert.Contains(t, fake.LastText(), "cancelled")
	assert.Empty(t, recorder.recorded())
	assert.False(t, channels.Active(testChatID))
}

// A stale timeout discards any partial results and frees the channel.
func TestManagerStaleTimeoutAborts(t *testing.T) {
	fake := platform.NewFake()
	recorder := &fakeRecorder{}
	g := &scriptedGame{command: "quiz", run: func([]model.Player) (*session.Outcome, error) {
		return nil, session.ErrStaleTimeout
	}}
	manager, channels := newTestManager(t, fake, recorder, g)
	fake.Join(model.Player{UserID: 1, DisplayName: "alice"})

	outcome := manager.Start(context.Background(), testChatID, "quiz", nil)

	assert.Equal(t, session.OutcomeAborted, outcome.Kind)
	assert.Contains(t, fake.LastText(), "abandoned")
	assert.Empty(t, recorder.recorded())
	assert.False(t, channels.Active(testChatID))
}

// A panicking game must not leave the channel leased.
func TestManagerPanicReleasesChannel(t *testing.T) {
	fake := platform.NewFake()
	g := &scriptedGame{command: "quiz", run: func([]model.Player) (*session.Outcome, error) {
		panic("boom")
	}}
	manager, channels := newTestManager(t, fake, nil, g)
	fake.Join(model.Player{UserID: 1, DisplayName: "alice"})

	assert.Panics(t, func() {
		manager.Start(context.Background(), testChatID, "quiz", nil)
	})
	assert.False(t, channels.Active(testChatID))
}

// Recorder failures are logged, not surfaced: the session still completes.
func TestManagerRecorderFailureNonFatal(t *testing.T) {
	fake := platform.NewFake()
	recorder := &fakeRecorder{err: errors.New("db down")}
	g := &scriptedGame{command: "quiz", run: func(players []model.Player) (*session.Outcome, error) {
		return &session.Outcome{
			Kind:    session.OutcomeCompleted,
			Summary: "🏁 Done!",
			Results: []session.PlayerResult{{Player: players[0], Result: model.ResultWin, Score: 1}},
		}, nil
	}}
	manager, _ := newTestManager(t, fake, recorder, g)
	fake.Join(model.Player{UserID: 1, DisplayName: "alice"})

	outcome := manager.Start(context.Background(), testChatID, "quiz", nil)

	assert.Equal(t, session.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, "🏁 Done!", fake.LastText())
}
