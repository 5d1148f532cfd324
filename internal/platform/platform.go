// Package platform defines the chat-platform boundary used by game sessions.
// Sessions talk to the chat exclusively through the Platform interface, which
// keeps the session engine testable and the transport swappable.
package platform

import (
	"errors"

	"telegram-minigame-bot/internal/model"
)

// JoinEmoji is the join signal attached to session announcements.
const JoinEmoji = "🙋"

// Errors returned by platform implementations.
var (
	ErrMessageNotFound = errors.New("message not found")
)

// MessageRef identifies a message previously sent by the bot.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Zero reports whether the ref does not point at a real message,
// e.g. because the original send failed.
func (r MessageRef) Zero() bool {
	return r.MessageID == 0
}

// Incoming is a chat message delivered to a subscriber.
type Incoming struct {
	ChatID int64
	Author model.Player
	Text   string
}

// Platform is the set of chat primitives the session engine consumes.
// All operations are fallible; callers treat failures as non-fatal where
// possible and log them.
type Platform interface {
	// Send posts a plain text message to a chat.
	Send(chatID int64, text string) (MessageRef, error)

	// Edit replaces the text of a previously sent message.
	Edit(ref MessageRef, text string) error

	// Delete removes a previously sent message.
	Delete(ref MessageRef) error

	// AttachJoinSignal attaches the join signal to a message so users
	// can opt into a session.
	AttachJoinSignal(ref MessageRef) error

	// DetachJoinSignal closes the join signal on a message. Presses
	// after detach are rejected and the roster bookkeeping is dropped.
	DetachJoinSignal(ref MessageRef) error

	// JoinRoster returns the users currently holding the join signal on
	// a message, in the order they joined. Bot accounts are included;
	// filtering is the caller's concern.
	JoinRoster(ref MessageRef) ([]model.Player, error)

	// Subscribe returns a stream of new messages in a chat and a cancel
	// function. The stream is closed after cancel.
	Subscribe(chatID int64) (<-chan Incoming, func())
}
