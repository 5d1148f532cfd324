// Package hangman implements the single-player hangman minigame.
package hangman

import (
	"errors"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrNotALetter is returned for guesses that are not a single alphabetic
// character. Invalid guesses are free: they change nothing.
var ErrNotALetter = errors.New("guess must be a single letter")

// Status is the state machine's position.
type Status int

// Hangman statuses.
const (
	Guessing Status = iota
	Won             // every letter of the answer has been guessed
	Lost            // attempts exhausted before the word was revealed
)

// State holds one hangman game. The guessed set only grows and the
// remaining attempts only decrease, by exactly one per missed letter.
type State struct {
	answer            string // uppercase
	guessed           map[rune]bool
	attemptsRemaining int
	maxAttempts       int
}

// NewState starts a game over the given answer.
func NewState(answer string, maxAttempts int) *State {
	return &State{
		answer:            strings.ToUpper(answer),
		guessed:           make(map[rune]bool),
		attemptsRemaining: maxAttempts,
		maxAttempts:       maxAttempts,
	}
}

// ParseGuess validates a chat reply as a single-letter guess.
func ParseGuess(text string) (rune, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) != 1 {
		return 0, ErrNotALetter
	}
	r, _ := utf8.DecodeRuneInString(text)
	if !unicode.IsLetter(r) {
		return 0, ErrNotALetter
	}
	return unicode.ToUpper(r), nil
}

// Guess applies a letter and reports whether it appears in the answer.
// Guesses are per-letter: a miss costs one attempt no matter how many
// positions it would have covered, and repeating a letter is harmless and
// never double-penalized.
func (s *State) Guess(letter rune) bool {
	letter = unicode.ToUpper(letter)
	hit := strings.ContainsRune(s.answer, letter)
	if s.guessed[letter] {
		return hit
	}
	s.guessed[letter] = true
	if !hit {
		s.attemptsRemaining--
	}
	return hit
}

// Status returns the current state machine position.
func (s *State) Status() Status {
	if s.revealed() {
		return Won
	}
	if s.attemptsRemaining <= 0 {
		return Lost
	}
	return Guessing
}

func (s *State) revealed() bool {
	for _, r := range s.answer {
		if !s.guessed[r] {
			return false
		}
	}
	return true
}

// Masked returns the answer with unguessed letters hidden.
func (s *State) Masked() string {
	var b strings.Builder
	for _, r := range s.answer {
		if s.guessed[r] {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Answer returns the secret word.
func (s *State) Answer() string {
	return s.answer
}

// AttemptsRemaining returns how many misses are left.
func (s *State) AttemptsRemaining() int {
	return s.attemptsRemaining
}

// GuessedLetters returns the guessed letters in alphabetical order.
func (s *State) GuessedLetters() string {
	letters := make([]rune, 0, len(s.guessed))
	for r := range s.guessed {
		letters = append(letters, r)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return string(letters)
}
