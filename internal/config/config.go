// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Whitelist WhitelistConfig `mapstructure:"whitelist"`
	Games     GamesConfig     `mapstructure:"games"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token string `mapstructure:"token"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// WhitelistConfig holds chat whitelist configuration.
type WhitelistConfig struct {
	Chats []int64 `mapstructure:"chats"`
}

// GamesConfig holds game-specific configuration.
type GamesConfig struct {
	Join      JoinConfig      `mapstructure:"join"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	TicTacToe TicTacToeConfig `mapstructure:"tictactoe"`
	Hangman   HangmanConfig   `mapstructure:"hangman"`
}

// JoinConfig holds join-phase timing configuration shared by all games.
type JoinConfig struct {
	Duration     time.Duration `mapstructure:"duration"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// QuizConfig holds quiz game configuration.
type QuizConfig struct {
	DefaultRounds int           `mapstructure:"default_rounds"`
	MinRounds     int           `mapstructure:"min_rounds"`
	MaxRounds     int           `mapstructure:"max_rounds"`
	AnswerTimeout time.Duration `mapstructure:"answer_timeout"`
}

// TicTacToeConfig holds tic-tac-toe game configuration.
type TicTacToeConfig struct {
	MoveTimeout time.Duration `mapstructure:"move_timeout"`
}

// HangmanConfig holds hangman game configuration.
type HangmanConfig struct {
	GuessTimeout time.Duration `mapstructure:"guess_timeout"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. BOT_TOKEN, DATABASE_HOST, GAMES_QUIZ_ANSWER_TIMEOUT.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - env vars can provide all config.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "gamebot")
	v.SetDefault("database.name", "gamebot")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Join phase defaults
	v.SetDefault("games.join.duration", "10s")
	v.SetDefault("games.join.poll_interval", "2s")

	// Quiz defaults
	v.SetDefault("games.quiz.default_rounds", 5)
	v.SetDefault("games.quiz.min_rounds", 2)
	v.SetDefault("games.quiz.max_rounds", 10)
	v.SetDefault("games.quiz.answer_timeout", "30s")

	// Tic-tac-toe defaults
	v.SetDefault("games.tictactoe.move_timeout", "30s")

	// Hangman defaults
	v.SetDefault("games.hangman.guess_timeout", "30s")
	v.SetDefault("games.hangman.max_attempts", 10)
}

// IsChatAllowed checks if a chat ID is in the whitelist.
func (c *Config) IsChatAllowed(chatID int64) bool {
	// Empty whitelist means all chats are allowed
	if len(c.Whitelist.Chats) == 0 {
		return true
	}
	for _, id := range c.Whitelist.Chats {
		if id == chatID {
			return true
		}
	}
	return false
}
