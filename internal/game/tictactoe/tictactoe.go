package tictactoe

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"telegram-minigame-bot/internal/model"
	"telegram-minigame-bot/internal/session"
)

// Config holds tic-tac-toe configuration.
type Config struct {
	MoveTimeout time.Duration
}

// Game implements tic-tac-toe for exactly two players. The first joiner
// plays Circle and moves on even turns. Each turn asks the current player
// for a row and then a column, each under its own move timeout; a timeout
// on either prompt aborts the whole session.
type Game struct {
	cfg Config
}

// New creates a tic-tac-toe game.
func New(cfg Config) *Game {
	return &Game{cfg: cfg}
}

// Name returns the game's display name.
func (g *Game) Name() string { return "Tic-Tac-Toe" }

// Command returns the command that starts this game.
func (g *Game) Command() string { return "ttt" }

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "Two players, 3x3 board: send row then column (1-3) on your turn."
}

// MinPlayers returns 2.
func (g *Game) MinPlayers() int { return 2 }

// MaxPlayers returns 2.
func (g *Game) MaxPlayers() int { return 2 }

// Run plays the game until a win, a draw, or a stale timeout.
func (g *Game) Run(ctx context.Context, rt *session.Runtime, players []model.Player, params map[string]any) (*session.Outcome, error) {
	board := NewBoard()
	marks := [2]Cell{Circle, Cross}

	rt.Post(fmt.Sprintf("⭕ %s vs ❌ %s\n%s",
		players[0].DisplayName, players[1].DisplayName, board.Render()))

	for turn := 0; ; turn++ {
		player := players[turn%2]
		mark := marks[turn%2]

		// Occupied-cell picks re-prompt the same player from scratch
		// without consuming the turn.
		for {
			row, err := g.promptCoordinate(ctx, rt, player, mark, "row")
			if err != nil {
				return nil, err
			}
			col, err := g.promptCoordinate(ctx, rt, player, mark, "column")
			if err != nil {
				return nil, err
			}
			if err := board.Mark(row-1, col-1, mark); err != nil {
				rt.Post(fmt.Sprintf("🚫 That cell is taken, %s. Pick again.", player.DisplayName))
				continue
			}
			break
		}

		switch board.Result() {
		case CircleWin, CrossWin:
			return winOutcome(board, players, turn%2), nil
		case Draw:
			return drawOutcome(board, players), nil
		default:
			rt.Post(board.Render())
		}
	}
}

// promptCoordinate asks the current player for a single coordinate (1-3).
// Invalid input is rejected with a transient message and re-read under the
// original deadline; rejecting input does not restart the clock.
func (g *Game) promptCoordinate(ctx context.Context, rt *session.Runtime, player model.Player, mark Cell, axis string) (int, error) {
	deadline := time.Now().Add(g.cfg.MoveTimeout)

	filter := rt.OpenFilter(session.Authors(player))
	defer filter.Close()

	rt.Post(fmt.Sprintf("%s %s, send the %s (1-3):", mark.Symbol(), player.DisplayName, axis))
	for {
		in, err := filter.NextBefore(ctx, deadline)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(in.Text))
		if err != nil || n < 1 || n > 3 {
			rt.Post(fmt.Sprintf("🚫 Send a number between 1 and 3 for the %s.", axis))
			continue
		}
		return n, nil
	}
}

func winOutcome(board *Board, players []model.Player, winnerIdx int) *session.Outcome {
	winner, loser := players[winnerIdx], players[1-winnerIdx]
	return &session.Outcome{
		Kind:    session.OutcomeCompleted,
		Summary: fmt.Sprintf("%s\n🏆 %s wins!", board.Render(), winner.DisplayName),
		Results: []session.PlayerResult{
			{Player: winner, Result: model.ResultWin, Score: 1},
			{Player: loser, Result: model.ResultLose},
		},
	}
}

func drawOutcome(board *Board, players []model.Player) *session.Outcome {
	return &session.Outcome{
		Kind:    session.OutcomeCompleted,
		Summary: fmt.Sprintf("%s\n🤝 It's a draw!", board.Render()),
		Results: []session.PlayerResult{
			{Player: players[0], Result: model.ResultDraw},
			{Player: players[1], Result: model.ResultDraw},
		},
	}
}
