// Package quiz implements the trivia quiz minigame.
package quiz

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Kind discriminates the question variants.
type Kind int

// Question kinds.
const (
	KindFill Kind = iota // free-text answer
	KindMultipleChoice   // one correct option among shuffled choices
)

// Question is a tagged variant: Fill uses Answers, MultipleChoice uses
// Correct and Wrong. Questions are immutable once drawn.
type Question struct {
	Kind    Kind
	Prompt  string
	Answers []string // Fill: accepted answers, matched case-insensitively
	Correct string   // MultipleChoice: the correct option text
	Wrong   []string // MultipleChoice: the distractors
}

// Fill builds a free-text question.
func Fill(prompt string, answers ...string) Question {
	return Question{Kind: KindFill, Prompt: prompt, Answers: answers}
}

// MultipleChoice builds a multiple-choice question.
func MultipleChoice(prompt, correct string, wrong ...string) Question {
	return Question{Kind: KindMultipleChoice, Prompt: prompt, Correct: correct, Wrong: wrong}
}

// FromRecord converts a stored question row into a Question. The stringly
// kind only exists at the persistence boundary.
func FromRecord(kind, prompt string, answers, wrong []string) (Question, error) {
	switch kind {
	case "fill":
		if len(answers) == 0 {
			return Question{}, fmt.Errorf("fill question %q has no answers", prompt)
		}
		return Fill(prompt, answers...), nil
	case "multiple":
		if len(answers) != 1 {
			return Question{}, fmt.Errorf("multiple-choice question %q needs exactly one correct answer", prompt)
		}
		return MultipleChoice(prompt, answers[0], wrong...), nil
	default:
		return Question{}, fmt.Errorf("unknown question kind %q", kind)
	}
}

// Presented is a question as posted to the chat, with its accepted replies
// precomputed. For multiple choice the options are shuffled and the
// presented ordinal of the correct option is accepted alongside its text.
type Presented struct {
	Text     string
	accepted map[string]bool
}

// Present renders the question for posting.
func (q Question) Present(rng *rand.Rand) Presented {
	accepted := make(map[string]bool)

	switch q.Kind {
	case KindFill:
		for _, a := range q.Answers {
			accepted[normalize(a)] = true
		}
		return Presented{Text: q.Prompt, accepted: accepted}
	default:
		options := make([]string, 0, len(q.Wrong)+1)
		options = append(options, q.Correct)
		options = append(options, q.Wrong...)
		rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		var b strings.Builder
		b.WriteString(q.Prompt)
		for i, opt := range options {
			fmt.Fprintf(&b, "\n%d. %s", i+1, opt)
			if opt == q.Correct {
				accepted[normalize(q.Correct)] = true
				accepted[strconv.Itoa(i+1)] = true
			}
		}
		return Presented{Text: b.String(), accepted: accepted}
	}
}

// Matches reports whether a reply answers the question. Matching is
// case-insensitive exact equality; there is no partial credit.
func (p Presented) Matches(reply string) bool {
	return p.accepted[normalize(reply)]
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Draw returns up to n questions from the pool, shuffled, without
// replacement. The pool itself is not modified.
func Draw(pool []Question, n int, rng *rand.Rand) []Question {
	drawn := make([]Question, len(pool))
	copy(drawn, pool)
	rng.Shuffle(len(drawn), func(i, j int) {
		drawn[i], drawn[j] = drawn[j], drawn[i]
	})
	if n < len(drawn) {
		drawn = drawn[:n]
	}
	return drawn
}
