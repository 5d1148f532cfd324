package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"telegram-minigame-bot/internal/platform"
	"telegram-minigame-bot/internal/session"
)

// Recorder persists per-player results of finished sessions. It is optional;
// recording failures never affect the session outcome.
type Recorder interface {
	RecordOutcome(ctx context.Context, chatID int64, game string, results []session.PlayerResult) error
}

// JoinTimings carries the join-phase timing shared by all games.
type JoinTimings struct {
	Duration     time.Duration
	PollInterval time.Duration
}

// Manager runs complete game sessions: it guards the one-game-per-channel
// invariant, drives the join phase, hands control to the game, and posts
// exactly one final message per session.
type Manager struct {
	games    *Registry
	channels *session.Registry
	platform platform.Platform
	recorder Recorder
	join     JoinTimings
}

// NewManager creates a session manager.
func NewManager(games *Registry, channels *session.Registry, p platform.Platform, recorder Recorder, join JoinTimings) *Manager {
	return &Manager{
		games:    games,
		channels: channels,
		platform: p,
		recorder: recorder,
		join:     join,
	}
}

// Start runs one complete session of the named game in the chat and blocks
// until it ends. The returned outcome mirrors the final channel message.
func (m *Manager) Start(ctx context.Context, chatID int64, command string, params map[string]any) *session.Outcome {
	g, ok := m.games.Get(command)
	if !ok {
		return &session.Outcome{Kind: session.OutcomeCancelled, Summary: "Unknown game."}
	}

	rt := session.NewRuntime(m.platform, chatID)

	lease, err := m.channels.Acquire(chatID)
	if err != nil {
		outcome := &session.Outcome{
			Kind:    session.OutcomeAlreadyActive,
			Summary: "⚠️ A game is already running in this chat. Finish it first!",
		}
		rt.Post(outcome.Summary)
		return outcome
	}
	// Covers every exit path, including panics inside game code, so a
	// stuck session can never block the channel forever.
	defer lease.Release()

	players, err := session.CollectPlayers(ctx, rt, session.JoinOptions{
		GameName:     g.Name(),
		Duration:     m.join.Duration,
		PollInterval: m.join.PollInterval,
		MaxPlayers:   g.MaxPlayers(),
	})
	if err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Str("game", command).Msg("Join phase interrupted")
		return m.finish(ctx, rt, command, &session.Outcome{
			Kind:    session.OutcomeCancelled,
			Summary: fmt.Sprintf("🚫 %s cancelled.", g.Name()),
		})
	}
	if len(players) < g.MinPlayers() {
		return m.finish(ctx, rt, command, &session.Outcome{
			Kind: session.OutcomeCancelled,
			Summary: fmt.Sprintf("🚫 %s cancelled: %d player(s) joined, %d needed.",
				g.Name(), len(players), g.MinPlayers()),
		})
	}

	outcome, err := g.Run(ctx, rt, players, params)
	switch {
	case errors.Is(err, session.ErrStaleTimeout):
		// Fail-fast: a silent round ends the whole session and any
		// accumulated scores are discarded, not partially reported.
		outcome = &session.Outcome{
			Kind:    session.OutcomeAborted,
			Summary: fmt.Sprintf("💤 %s abandoned: no reply in time.", g.Name()),
		}
	case err != nil:
		log.Error().Err(err).Int64("chat_id", chatID).Str("game", command).Msg("Game run failed")
		outcome = &session.Outcome{
			Kind:    session.OutcomeCancelled,
			Summary: fmt.Sprintf("🚫 %s ended unexpectedly.", g.Name()),
		}
	}

	return m.finish(ctx, rt, command, outcome)
}

// finish records results best-effort and posts the single final message.
func (m *Manager) finish(ctx context.Context, rt *session.Runtime, command string, outcome *session.Outcome) *session.Outcome {
	if m.recorder != nil && len(outcome.Results) > 0 {
		if err := m.recorder.RecordOutcome(ctx, rt.ChatID(), command, outcome.Results); err != nil {
			log.Warn().Err(err).Str("game", command).Msg("Failed to record game outcome")
		}
	}
	rt.Post(outcome.Summary)
	return outcome
}
