// Telegram implementation of the Platform interface on top of telebot.
//
// Telegram bots cannot read message reactions through the Bot API, so the
// join signal is rendered as a single inline button labelled with the join
// emoji; pressing it adds the user to the roster for that message.
package platform

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-minigame-bot/internal/model"
)

// JoinCallbackPrefix marks callback data belonging to join buttons.
const JoinCallbackPrefix = "join_"

// subscriberBuffer is the per-subscriber channel capacity. Messages are
// dropped (and logged) when a subscriber falls this far behind.
const subscriberBuffer = 32

// Telegram adapts a telebot instance to the Platform interface.
type Telegram struct {
	bot *tele.Bot

	mu      sync.Mutex
	rosters map[MessageRef]*roster    // announcement -> join roster
	subs    map[int64][]chan Incoming // chatID -> subscribers
}

type roster struct {
	order []model.Player
	seen  map[int64]bool
}

// NewTelegram creates a Telegram platform adapter around a telebot instance.
func NewTelegram(bot *tele.Bot) *Telegram {
	return &Telegram{
		bot:     bot,
		rosters: make(map[MessageRef]*roster),
		subs:    make(map[int64][]chan Incoming),
	}
}

// Send posts a plain text message to a chat.
func (t *Telegram) Send(chatID int64, text string) (MessageRef, error) {
	msg, err := t.bot.Send(&tele.Chat{ID: chatID}, text)
	if err != nil {
		return MessageRef{}, fmt.Errorf("failed to send message: %w", err)
	}
	return MessageRef{ChatID: chatID, MessageID: msg.ID}, nil
}

// Edit replaces the text of a previously sent message. The join button is
// re-attached when the message carries one, since Telegram drops the markup
// on edit otherwise.
func (t *Telegram) Edit(ref MessageRef, text string) error {
	editable := storedMessage(ref)

	t.mu.Lock()
	_, hasJoin := t.rosters[ref]
	t.mu.Unlock()

	var err error
	if hasJoin {
		_, err = t.bot.Edit(editable, text, joinMarkup(ref))
	} else {
		_, err = t.bot.Edit(editable, text)
	}
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// Delete removes a previously sent message and its join roster, if any.
func (t *Telegram) Delete(ref MessageRef) error {
	t.dropRoster(ref)

	if err := t.bot.Delete(storedMessage(ref)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// trackRoster starts roster bookkeeping for an announcement. Rosters are
// keyed by chat and message ID together; Telegram message IDs are only
// sequential within one chat, so the ID alone can collide across chats.
func (t *Telegram) trackRoster(ref MessageRef) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rosters[ref]; !ok {
		t.rosters[ref] = &roster{seen: make(map[int64]bool)}
	}
}

// dropRoster ends roster bookkeeping for an announcement.
func (t *Telegram) dropRoster(ref MessageRef) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rosters, ref)
}

// AttachJoinSignal attaches the join button to a message and starts
// tracking its roster.
func (t *Telegram) AttachJoinSignal(ref MessageRef) error {
	t.trackRoster(ref)

	if _, err := t.bot.EditReplyMarkup(storedMessage(ref), joinMarkup(ref)); err != nil {
		t.dropRoster(ref)
		return fmt.Errorf("failed to attach join button: %w", err)
	}
	return nil
}

// DetachJoinSignal closes the join window on a message: the roster is
// dropped, the button removed, and later presses are rejected.
func (t *Telegram) DetachJoinSignal(ref MessageRef) error {
	t.dropRoster(ref)

	if _, err := t.bot.EditReplyMarkup(storedMessage(ref), &tele.ReplyMarkup{}); err != nil {
		return fmt.Errorf("failed to remove join button: %w", err)
	}
	return nil
}

// JoinRoster returns the users who pressed the join button, in join order.
func (t *Telegram) JoinRoster(ref MessageRef) ([]model.Player, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.rosters[ref]
	if !ok {
		return nil, ErrMessageNotFound
	}
	players := make([]model.Player, len(r.order))
	copy(players, r.order)
	return players, nil
}

// Subscribe returns a stream of new text messages in a chat.
func (t *Telegram) Subscribe(chatID int64) (<-chan Incoming, func()) {
	ch := make(chan Incoming, subscriberBuffer)

	t.mu.Lock()
	t.subs[chatID] = append(t.subs[chatID], ch)
	t.mu.Unlock()

	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		subs := t.subs[chatID]
		for i, sub := range subs {
			if sub == ch {
				t.subs[chatID] = append(subs[:i], subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// HandleText feeds an incoming text update into the subscriber streams.
// Registered by the bot package for tele.OnText.
func (t *Telegram) HandleText(c tele.Context) error {
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil {
		return nil
	}

	in := Incoming{
		ChatID: chat.ID,
		Author: playerFromUser(sender),
		Text:   c.Text(),
	}

	t.mu.Lock()
	subs := make([]chan Incoming, len(t.subs[chat.ID]))
	copy(subs, t.subs[chat.ID])
	t.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub <- in:
		default:
			log.Debug().
				Int64("chat_id", chat.ID).
				Msg("Dropping message for slow subscriber")
		}
	}
	return nil
}

// HandleJoinCallback records a join button press. Registered by the bot
// package for callbacks with the join prefix.
func (t *Telegram) HandleJoinCallback(c tele.Context) error {
	callback := c.Callback()
	sender := c.Sender()
	if callback == nil || sender == nil {
		return nil
	}

	data := strings.TrimPrefix(callback.Data, "\f")
	ref, err := parseJoinData(data)
	if err != nil {
		return nil
	}

	t.mu.Lock()
	r, ok := t.rosters[ref]
	if ok && !r.seen[sender.ID] {
		r.seen[sender.ID] = true
		r.order = append(r.order, playerFromUser(sender))
	}
	t.mu.Unlock()

	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "This game is no longer open."})
	}
	return c.Respond(&tele.CallbackResponse{Text: "You're in!"})
}

// playerFromUser converts a telebot user to a Player.
func playerFromUser(u *tele.User) model.Player {
	name := u.Username
	if name == "" {
		name = u.FirstName
	}
	return model.Player{
		UserID:      u.ID,
		DisplayName: name,
		IsBot:       u.IsBot,
	}
}

// joinData encodes the announcement ref as callback data, in the form
// "join_<chatID>_<messageID>".
func joinData(ref MessageRef) string {
	return JoinCallbackPrefix + strconv.FormatInt(ref.ChatID, 10) + "_" + strconv.Itoa(ref.MessageID)
}

// parseJoinData is the inverse of joinData.
func parseJoinData(data string) (MessageRef, error) {
	chatPart, msgPart, ok := strings.Cut(strings.TrimPrefix(data, JoinCallbackPrefix), "_")
	if !ok {
		return MessageRef{}, fmt.Errorf("malformed join callback data %q", data)
	}
	chatID, err := strconv.ParseInt(chatPart, 10, 64)
	if err != nil {
		return MessageRef{}, fmt.Errorf("malformed join callback chat id: %w", err)
	}
	msgID, err := strconv.Atoi(msgPart)
	if err != nil {
		return MessageRef{}, fmt.Errorf("malformed join callback message id: %w", err)
	}
	return MessageRef{ChatID: chatID, MessageID: msgID}, nil
}

// joinMarkup builds the single-button join keyboard for a message.
func joinMarkup(ref MessageRef) *tele.ReplyMarkup {
	return &tele.ReplyMarkup{
		InlineKeyboard: [][]tele.InlineButton{{
			{
				Text: JoinEmoji + " Join",
				Data: joinData(ref),
			},
		}},
	}
}

// storedMessage rebuilds a minimal editable message from a ref.
func storedMessage(ref MessageRef) *tele.Message {
	return &tele.Message{
		ID:   ref.MessageID,
		Chat: &tele.Chat{ID: ref.ChatID},
	}
}
