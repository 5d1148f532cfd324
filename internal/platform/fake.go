// In-memory Platform used by session and game tests.
package platform

import (
	"sync"
	"time"

	"telegram-minigame-bot/internal/model"
)

// Fake is an in-memory Platform implementation. Tests press the join button
// with Join and deliver chat messages with Receive.
type Fake struct {
	mu      sync.Mutex
	nextID  int
	texts   map[int]string // messageID -> current text
	sent    []MessageRef
	deleted []MessageRef
	roster  rosterState
	subs    map[int64][]chan Incoming
}

type rosterState struct {
	attached map[int]bool
	order    []model.Player
	seen     map[int64]bool
}

// NewFake creates an empty fake platform.
func NewFake() *Fake {
	return &Fake{
		texts: make(map[int]string),
		roster: rosterState{
			attached: make(map[int]bool),
			seen:     make(map[int64]bool),
		},
		subs: make(map[int64][]chan Incoming),
	}
}

// Send records a message and returns its ref.
func (f *Fake) Send(chatID int64, text string) (MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	ref := MessageRef{ChatID: chatID, MessageID: f.nextID}
	f.texts[ref.MessageID] = text
	f.sent = append(f.sent, ref)
	return ref, nil
}

// Edit replaces the text of a sent message.
func (f *Fake) Edit(ref MessageRef, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.texts[ref.MessageID]; !ok {
		return ErrMessageNotFound
	}
	f.texts[ref.MessageID] = text
	return nil
}

// Delete removes a sent message.
func (f *Fake) Delete(ref MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.texts[ref.MessageID]; !ok {
		return ErrMessageNotFound
	}
	delete(f.texts, ref.MessageID)
	f.deleted = append(f.deleted, ref)
	return nil
}

// AttachJoinSignal marks a message as carrying the join signal.
func (f *Fake) AttachJoinSignal(ref MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.texts[ref.MessageID]; !ok {
		return ErrMessageNotFound
	}
	f.roster.attached[ref.MessageID] = true
	return nil
}

// DetachJoinSignal closes the join signal on a message.
func (f *Fake) DetachJoinSignal(ref MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.roster.attached[ref.MessageID] {
		return ErrMessageNotFound
	}
	f.roster.attached[ref.MessageID] = false
	return nil
}

// JoinRoster returns the joined players in join order.
func (f *Fake) JoinRoster(ref MessageRef) ([]model.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.roster.attached[ref.MessageID] {
		return nil, ErrMessageNotFound
	}
	players := make([]model.Player, len(f.roster.order))
	copy(players, f.roster.order)
	return players, nil
}

// Subscribe returns a stream of messages delivered via Receive.
func (f *Fake) Subscribe(chatID int64) (<-chan Incoming, func()) {
	ch := make(chan Incoming, subscriberBuffer)

	f.mu.Lock()
	f.subs[chatID] = append(f.subs[chatID], ch)
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs := f.subs[chatID]
		for i, sub := range subs {
			if sub == ch {
				f.subs[chatID] = append(subs[:i], subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// Join presses the join button as the given player. Duplicate presses are
// ignored, matching the real adapter.
func (f *Fake) Join(p model.Player) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.roster.seen[p.UserID] {
		return
	}
	f.roster.seen[p.UserID] = true
	f.roster.order = append(f.roster.order, p)
}

// Receive delivers a chat message to subscribers. It waits briefly for a
// subscriber to appear so tests do not race the session's event filter.
func (f *Fake) Receive(chatID int64, from model.Player, text string) {
	in := Incoming{ChatID: chatID, Author: from, Text: text}

	deadline := time.Now().Add(2 * time.Second)
	for {
		// Delivery happens under the lock so it cannot race a
		// subscription being cancelled.
		f.mu.Lock()
		if subs := f.subs[chatID]; len(subs) > 0 {
			for _, sub := range subs {
				select {
				case sub <- in:
				default:
				}
			}
			f.mu.Unlock()
			return
		}
		f.mu.Unlock()

		if time.Now().After(deadline) {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

// JoinOpen reports whether any message currently carries the join signal.
func (f *Fake) JoinOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, open := range f.roster.attached {
		if open {
			return true
		}
	}
	return false
}

// SentTexts returns the current text of every live message in send order.
func (f *Fake) SentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	texts := make([]string, 0, len(f.sent))
	for _, ref := range f.sent {
		if text, ok := f.texts[ref.MessageID]; ok {
			texts = append(texts, text)
		}
	}
	return texts
}

// LastText returns the text of the most recent live message, or "".
func (f *Fake) LastText() string {
	texts := f.SentTexts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}
