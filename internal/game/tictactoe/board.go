// Package tictactoe implements the two-player tic-tac-toe minigame.
package tictactoe

import (
	"errors"
	"strings"
)

// Errors returned by board operations. Both are local, non-fatal input
// errors: the caller re-prompts and the board is left unchanged.
var (
	ErrOutOfRange   = errors.New("coordinate out of range")
	ErrCellOccupied = errors.New("cell is already occupied")
)

// Cell is one board cell. Cells only ever transition Empty to a mark.
type Cell int

// Cell states.
const (
	Empty Cell = iota
	Circle
	Cross
)

// Symbol returns the cell's chat rendering.
func (c Cell) Symbol() string {
	switch c {
	case Circle:
		return "⭕"
	case Cross:
		return "❌"
	default:
		return "▫️"
	}
}

// Result is the board's terminal state.
type Result int

// Board results.
const (
	NotOver Result = iota
	CircleWin
	CrossWin
	Draw
)

// Board is a 3x3 tic-tac-toe grid. Coordinates are 0-indexed.
type Board struct {
	cells [3][3]Cell
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Cell returns the mark at the given coordinates.
func (b *Board) Cell(row, col int) Cell {
	return b.cells[row][col]
}

// Mark places a mark. It rejects out-of-range coordinates and occupied
// cells without modifying the board.
func (b *Board) Mark(row, col int, mark Cell) error {
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return ErrOutOfRange
	}
	if b.cells[row][col] != Empty {
		return ErrCellOccupied
	}
	b.cells[row][col] = mark
	return nil
}

// Result checks rows, then columns, then both diagonals for three equal
// non-empty cells, and reports Draw on a full board with no line. Since
// turns place one mark at a time, at most one line can complete per turn.
func (b *Board) Result() Result {
	lines := [][3]Cell{
		{b.cells[0][0], b.cells[0][1], b.cells[0][2]},
		{b.cells[1][0], b.cells[1][1], b.cells[1][2]},
		{b.cells[2][0], b.cells[2][1], b.cells[2][2]},
		{b.cells[0][0], b.cells[1][0], b.cells[2][0]},
		{b.cells[0][1], b.cells[1][1], b.cells[2][1]},
		{b.cells[0][2], b.cells[1][2], b.cells[2][2]},
		{b.cells[0][0], b.cells[1][1], b.cells[2][2]},
		{b.cells[0][2], b.cells[1][1], b.cells[2][0]},
	}
	for _, line := range lines {
		if line[0] != Empty && line[0] == line[1] && line[1] == line[2] {
			if line[0] == Circle {
				return CircleWin
			}
			return CrossWin
		}
	}
	if b.full() {
		return Draw
	}
	return NotOver
}

func (b *Board) full() bool {
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if b.cells[row][col] == Empty {
				return false
			}
		}
	}
	return true
}

// Render returns the board as three lines of symbols.
func (b *Board) Render() string {
	var rows [3]string
	for row := 0; row < 3; row++ {
		rows[row] = b.cells[row][0].Symbol() + b.cells[row][1].Symbol() + b.cells[row][2].Symbol()
	}
	return strings.Join(rows[:], "\n")
}
