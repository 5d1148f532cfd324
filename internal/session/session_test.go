package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-minigame-bot/internal/model"
	"telegram-minigame-bot/internal/platform"
)

const testChatID int64 = 42

func TestFilter_FirstQualifyingMessageWins(t *testing.T) {
	fake := platform.NewFake()
	rt := NewRuntime(fake, testChatID)
	alice := model.Player{UserID: 1, DisplayName: "alice"}
	bob := model.Player{UserID: 2, DisplayName: "bob"}

	filter := rt.OpenFilter(Authors(alice, bob))
	defer filter.Close()

	go func() {
		fake.Receive(testChatID, alice, "first")
		fake.Receive(testChatID, bob, "second")
	}()

	in, err := filter.NextBefore(context.Background(), time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "first", in.Text)
	assert.Equal(t, alice.UserID, in.Author.UserID)
}

func TestFilter_SkipsDisallowedAuthors(t *testing.T) {
	fake := platform.NewFake()
	rt := NewRuntime(fake, testChatID)
	alice := model.Player{UserID: 1, DisplayName: "alice"}
	stranger := model.Player{UserID: 9, DisplayName: "mallory"}

	filter := rt.OpenFilter(Authors(alice))
	defer filter.Close()

	go func() {
		fake.Receive(testChatID, stranger, "not for you")
		fake.Receive(testChatID, alice, "mine")
	}()

	in, err := filter.NextBefore(context.Background(), time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "mine", in.Text)
}

func TestFilter_SkipsBotAccounts(t *testing.T) {
	fake := platform.NewFake()
	rt := NewRuntime(fake, testChatID)
	bot := model.Player{UserID: 1, DisplayName: "helper", IsBot: true}
	alice := model.Player{UserID: 1, DisplayName: "alice"}

	filter := rt.OpenFilter(Authors(alice))
	defer filter.Close()

	go func() {
		fake.Receive(testChatID, bot, "beep")
		fake.Receive(testChatID, alice, "human")
	}()

	in, err := filter.NextBefore(context.Background(), time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "human", in.Text)
}

func TestFilter_StaleTimeout(t *testing.T) {
	fake := platform.NewFake()
	rt := NewRuntime(fake, testChatID)

	filter := rt.OpenFilter(Authors(model.Player{UserID: 1}))
	defer filter.Close()

	_, err := filter.NextBefore(context.Background(), time.Now().Add(20*time.Millisecond))
	assert.ErrorIs(t, err, ErrStaleTimeout)
}

// A deadline in the past expires immediately: re-invocations after
// rejected input never restart the clock.
func TestFilter_ExpiredDeadline(t *testing.T) {
	fake := platform.NewFake()
	rt := NewRuntime(fake, testChatID)

	filter := rt.OpenFilter(Authors(model.Player{UserID: 1}))
	defer filter.Close()

	_, err := filter.NextBefore(context.Background(), time.Now().Add(-time.Second))
	assert.ErrorIs(t, err, ErrStaleTimeout)
}

func TestFilter_ContextCancelled(t *testing.T) {
	fake := platform.NewFake()
	rt := NewRuntime(fake, testChatID)

	filter := rt.OpenFilter(Authors(model.Player{UserID: 1}))
	defer filter.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := filter.NextBefore(ctx, time.Now().Add(time.Second))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRuntime_ZeroRefOpsAreNoOps(t *testing.T) {
	fake := platform.NewFake()
	rt := NewRuntime(fake, testChatID)

	ref := rt.Post("hello")
	require.False(t, ref.Zero())

	// Editing and deleting a zero ref must be safe no-ops.
	rt.Edit(platform.MessageRef{}, "ignored")
	rt.Delete(platform.MessageRef{})

	assert.Equal(t, []string{"hello"}, fake.SentTexts())
}
