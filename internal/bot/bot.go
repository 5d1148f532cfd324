package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-minigame-bot/internal/config"
	"telegram-minigame-bot/internal/game"
	"telegram-minigame-bot/internal/handler"
	"telegram-minigame-bot/internal/platform"
	"telegram-minigame-bot/internal/service"
	"telegram-minigame-bot/internal/session"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot      *tele.Bot
	cfg      *config.Config
	platform *platform.Telegram
	manager  *game.Manager
	cancel   context.CancelFunc // ends in-flight sessions on shutdown

	gameHandler    *handler.GameHandler
	rankingHandler *handler.RankingHandler
}

// Dependencies holds everything the bot needs to run sessions.
type Dependencies struct {
	Config   *config.Config
	Games    *game.Registry
	Channels *session.Registry
	Records  *service.RecordsService
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	chat := platform.NewTelegram(teleBot)
	manager := game.NewManager(deps.Games, deps.Channels, chat, deps.Records, game.JoinTimings{
		Duration:     deps.Config.Games.Join.Duration,
		PollInterval: deps.Config.Games.Join.PollInterval,
	})

	ctx, cancel := context.WithCancel(context.Background())
	b := &Bot{
		bot:            teleBot,
		cfg:            deps.Config,
		platform:       chat,
		manager:        manager,
		cancel:         cancel,
		gameHandler:    handler.NewGameHandler(ctx, manager, deps.Games),
		rankingHandler: handler.NewRankingHandler(deps.Records),
	}

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(WhitelistMiddleware(b.cfg))
	b.bot.Use(LoggingMiddleware())
	b.bot.Use(RecoveryMiddleware())
}

// registerHandlers registers all command, text, and callback handlers.
func (b *Bot) registerHandlers() {
	b.bot.Handle("/quiz", b.gameHandler.HandleQuiz)
	b.bot.Handle("/hangman", b.gameHandler.HandleHangman)
	b.bot.Handle("/ttt", b.gameHandler.HandleTicTacToe)
	b.bot.Handle("/games", b.gameHandler.HandleGames)
	b.bot.Handle("/top", b.rankingHandler.HandleTop)

	// Plain text feeds the session event streams.
	b.bot.Handle(tele.OnText, b.platform.HandleText)

	// Callbacks carry join button presses.
	b.bot.Handle(tele.OnCallback, b.handleCallback)
}

// handleCallback routes callbacks to the join roster.
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	// Telebot v3 may add a \f prefix to callback data.
	data := strings.TrimPrefix(callback.Data, "\f")
	if strings.HasPrefix(data, platform.JoinCallbackPrefix) {
		return b.platform.HandleJoinCallback(c)
	}
	return nil
}

// Start starts the bot polling.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully, winding down in-flight sessions.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.cancel()
	b.bot.Stop()
}
