package session

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"telegram-minigame-bot/internal/model"
	"telegram-minigame-bot/internal/platform"
)

// ErrStaleTimeout is returned when no qualifying reply arrives before a
// round deadline. Deadline expiry is terminal for the whole session.
var ErrStaleTimeout = errors.New("no reply before the deadline")

// OutcomeKind classifies how a session ended.
type OutcomeKind int

// Session outcomes.
const (
	OutcomeCompleted OutcomeKind = iota // game reached a terminal result
	OutcomeCancelled                    // join phase produced no viable roster
	OutcomeAborted                      // stale timeout mid-game
	OutcomeAlreadyActive                // channel occupied, nothing started
)

// PlayerResult is one player's recorded result for a finished session.
type PlayerResult struct {
	Player model.Player
	Result string // model.Result* constant
	Score  int
}

// Outcome is the terminal report of a session. Summary is the single final
// message posted to the channel.
type Outcome struct {
	Kind    OutcomeKind
	Summary string
	Results []PlayerResult
}

// Runtime gives one session its view of the chat. A single goroutine owns a
// Runtime end to end; platform failures on sends and edits are logged and
// treated as non-fatal.
type Runtime struct {
	chatID   int64
	platform platform.Platform
	logger   zerolog.Logger
}

// NewRuntime creates a runtime bound to one chat.
func NewRuntime(p platform.Platform, chatID int64) *Runtime {
	return &Runtime{
		chatID:   chatID,
		platform: p,
		logger:   log.With().Int64("chat_id", chatID).Logger(),
	}
}

// ChatID returns the chat this runtime is bound to.
func (rt *Runtime) ChatID() int64 {
	return rt.chatID
}

// Platform exposes the underlying platform for join-signal operations.
func (rt *Runtime) Platform() platform.Platform {
	return rt.platform
}

// Post sends a message best-effort. A failed send is logged and yields a
// zero ref; later edits of that ref are no-ops.
func (rt *Runtime) Post(text string) platform.MessageRef {
	ref, err := rt.platform.Send(rt.chatID, text)
	if err != nil {
		rt.logger.Warn().Err(err).Msg("Failed to send message")
	}
	return ref
}

// Edit updates a previously posted message best-effort.
func (rt *Runtime) Edit(ref platform.MessageRef, text string) {
	if ref.Zero() {
		return
	}
	if err := rt.platform.Edit(ref, text); err != nil {
		rt.logger.Warn().Err(err).Msg("Failed to edit message")
	}
}

// Delete removes a previously posted message best-effort.
func (rt *Runtime) Delete(ref platform.MessageRef) {
	if ref.Zero() {
		return
	}
	if err := rt.platform.Delete(ref); err != nil {
		rt.logger.Debug().Err(err).Msg("Failed to delete message")
	}
}

// Filter is an event filter scoped to one chat and one allowed-author set,
// opened for the duration of a single round prompt. Closing the filter
// discards later events from the same round.
type Filter struct {
	stream  <-chan platform.Incoming
	cancel  func()
	allowed map[int64]bool
}

// OpenFilter subscribes to the chat's message stream filtered down to the
// allowed authors. Callers must Close the filter when the round ends.
func (rt *Runtime) OpenFilter(allowed map[int64]bool) *Filter {
	stream, cancel := rt.platform.Subscribe(rt.chatID)
	return &Filter{stream: stream, cancel: cancel, allowed: allowed}
}

// Close tears the filter down.
func (f *Filter) Close() {
	f.cancel()
}

// NextBefore waits for the next message from an allowed author, racing it
// against the deadline. The first qualifying message wins; expiry returns
// ErrStaleTimeout. Messages from bot accounts never qualify.
//
// The deadline is fixed by the caller: re-invoking after rejecting invalid
// input with the same deadline keeps the original clock running.
func (f *Filter) NextBefore(ctx context.Context, deadline time.Time) (platform.Incoming, error) {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return platform.Incoming{}, ErrStaleTimeout
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return platform.Incoming{}, ctx.Err()
		case <-timer.C:
			return platform.Incoming{}, ErrStaleTimeout
		case in, ok := <-f.stream:
			if !ok {
				return platform.Incoming{}, ErrStaleTimeout
			}
			if in.Author.IsBot || !f.allowed[in.Author.UserID] {
				continue
			}
			return in, nil
		}
	}
}

// Authors builds the allowed-author set for OpenFilter.
func Authors(players ...model.Player) map[int64]bool {
	set := make(map[int64]bool, len(players))
	for _, p := range players {
		set[p.UserID] = true
	}
	return set
}
