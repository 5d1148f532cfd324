// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-minigame-bot/internal/game"
)

// GameHandler handles the minigame commands. Sessions run for minutes, so
// each one is launched on its own goroutine and the update loop is never
// blocked; all session output goes through the platform, not the reply.
type GameHandler struct {
	manager *game.Manager
	games   *game.Registry
	base    context.Context // session lifetime, cancelled on bot shutdown
}

// NewGameHandler creates a new GameHandler. Sessions launched by the
// handler run under the base context.
func NewGameHandler(base context.Context, manager *game.Manager, games *game.Registry) *GameHandler {
	return &GameHandler{manager: manager, games: games, base: base}
}

// HandleQuiz handles the /quiz [rounds] command.
func (h *GameHandler) HandleQuiz(c tele.Context) error {
	params := map[string]any{}
	if args := c.Args(); len(args) > 0 {
		rounds, err := strconv.Atoi(args[0])
		if err != nil {
			return c.Reply("❌ Usage: /quiz [rounds]\nExample: /quiz 5")
		}
		params["rounds"] = rounds
	}
	return h.start(c, "quiz", params)
}

// HandleHangman handles the /hangman command.
func (h *GameHandler) HandleHangman(c tele.Context) error {
	return h.start(c, "hangman", nil)
}

// HandleTicTacToe handles the /ttt command.
func (h *GameHandler) HandleTicTacToe(c tele.Context) error {
	return h.start(c, "ttt", nil)
}

// HandleGames handles the /games command, listing the registered games.
func (h *GameHandler) HandleGames(c tele.Context) error {
	var b strings.Builder
	b.WriteString("🎮 Available games:\n")
	for _, g := range h.games.List() {
		fmt.Fprintf(&b, "/%s — %s: %s\n", g.Command(), g.Name(), g.Description())
	}
	return c.Reply(strings.TrimRight(b.String(), "\n"))
}

// start launches a session in the background.
func (h *GameHandler) start(c tele.Context, command string, params map[string]any) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	chatID := chat.ID

	go func() {
		outcome := h.manager.Start(h.base, chatID, command, params)
		log.Info().
			Int64("chat_id", chatID).
			Str("game", command).
			Int("outcome", int(outcome.Kind)).
			Msg("Game session finished")
	}()
	return nil
}
