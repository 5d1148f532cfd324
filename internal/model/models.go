// Package model defines the data models shared across the minigame bot.
package model

import "time"

// Player is a chat user participating in a game session.
// The bot flag comes from the chat platform and is used to exclude
// service accounts from the join roster.
type Player struct {
	UserID      int64
	DisplayName string
	IsBot       bool
}

// GameRecord is a persisted per-player outcome of a finished session.
type GameRecord struct {
	ID        int64     `db:"id"`
	ChatID    int64     `db:"chat_id"`
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	Game      string    `db:"game"`
	Result    string    `db:"result"`
	Score     int       `db:"score"`
	CreatedAt time.Time `db:"created_at"`
}

// LeaderboardEntry is one row of the wins leaderboard.
type LeaderboardEntry struct {
	UserID   int64  `db:"user_id"`
	Username string `db:"username"`
	Wins     int64  `db:"wins"`
	Played   int64  `db:"played"`
}

// Game record results.
const (
	ResultWin  = "win"  // player won the session
	ResultLose = "lose" // player lost (hangman out of attempts, tic-tac-toe defeat)
	ResultDraw = "draw" // tic-tac-toe draw
	ResultPlay = "play" // participated without winning (quiz non-winners)
)
