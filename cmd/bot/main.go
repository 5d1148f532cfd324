// Package main is the entry point for the Telegram minigame bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"telegram-minigame-bot/internal/bot"
	"telegram-minigame-bot/internal/config"
	"telegram-minigame-bot/internal/game"
	"telegram-minigame-bot/internal/game/hangman"
	"telegram-minigame-bot/internal/game/quiz"
	"telegram-minigame-bot/internal/game/tictactoe"
	"telegram-minigame-bot/internal/pkg/db"
	"telegram-minigame-bot/internal/repository"
	"telegram-minigame-bot/internal/service"
	"telegram-minigame-bot/internal/session"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	questionRepo := repository.NewQuestionRepository(dbPool.Pool)
	wordRepo := repository.NewWordRepository(dbPool.Pool)
	recordRepo := repository.NewRecordRepository(dbPool.Pool)

	if err := seedPools(ctx, questionRepo, wordRepo); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed game pools")
	}

	questions, err := questionRepo.LoadAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load question pool")
	}
	words, err := wordRepo.LoadAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load word pool")
	}
	log.Info().
		Int("questions", len(questions)).
		Int("words", len(words)).
		Msg("Game pools loaded")

	recordsService := service.NewRecordsService(recordRepo)

	// Register the games
	gameRegistry := game.NewRegistry()
	register := func(g game.Game) {
		if err := gameRegistry.Register(g); err != nil {
			log.Fatal().Err(err).Str("game", g.Name()).Msg("Failed to register game")
		}
	}
	register(quiz.New(questions, quiz.Config{
		DefaultRounds: cfg.Games.Quiz.DefaultRounds,
		MinRounds:     cfg.Games.Quiz.MinRounds,
		MaxRounds:     cfg.Games.Quiz.MaxRounds,
		AnswerTimeout: cfg.Games.Quiz.AnswerTimeout,
	}))
	register(hangman.New(words, hangman.Config{
		GuessTimeout: cfg.Games.Hangman.GuessTimeout,
		MaxAttempts:  cfg.Games.Hangman.MaxAttempts,
	}))
	register(tictactoe.New(tictactoe.Config{
		MoveTimeout: cfg.Games.TicTacToe.MoveTimeout,
	}))

	log.Info().
		Int("game_count", gameRegistry.Count()).
		Strs("games", gameRegistry.Commands()).
		Msg("Games registered")

	telegramBot, err := bot.New(&bot.Dependencies{
		Config:   cfg,
		Games:    gameRegistry,
		Channels: session.NewRegistry(),
		Records:  recordsService,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: quiz question pool
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS quiz_questions (
			id BIGSERIAL PRIMARY KEY,
			kind VARCHAR(20) NOT NULL,
			prompt TEXT NOT NULL,
			answers TEXT[] NOT NULL,
			wrong_answers TEXT[] NOT NULL DEFAULT '{}'
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: quiz_questions table created")

	// Migration 2: hangman word pool
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS hangman_words (
			id BIGSERIAL PRIMARY KEY,
			word VARCHAR(64) NOT NULL
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: hangman_words table created")

	// Migration 3: game records
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS game_records (
			id BIGSERIAL PRIMARY KEY,
			chat_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			username VARCHAR(255) NOT NULL,
			game VARCHAR(50) NOT NULL,
			result VARCHAR(20) NOT NULL,
			score INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_game_records_user ON game_records(user_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: game_records table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}

// seedPools populates empty question and word tables with the built-in
// defaults.
func seedPools(ctx context.Context, questions *repository.QuestionRepository, words *repository.WordRepository) error {
	qCount, err := questions.Count(ctx)
	if err != nil {
		return err
	}
	if qCount == 0 {
		if err := questions.Seed(ctx, quiz.DefaultQuestions()); err != nil {
			return err
		}
		log.Info().Msg("Seeded default quiz questions")
	}

	wCount, err := words.Count(ctx)
	if err != nil {
		return err
	}
	if wCount == 0 {
		if err := words.Seed(ctx, hangman.DefaultWords()); err != nil {
			return err
		}
		log.Info().Msg("Seeded default hangman words")
	}
	return nil
}
