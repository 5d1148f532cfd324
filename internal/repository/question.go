// Package repository provides data access layer implementations for the
// question pool, the word pool, and game records.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-minigame-bot/internal/game/quiz"
)

// QuestionRepository loads and seeds the quiz question pool.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository instance.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// LoadAll returns every stored question. Rows that fail validation are
// skipped with an error only on the query itself; the pool is read-only
// input data loaded once at startup.
func (r *QuestionRepository) LoadAll(ctx context.Context) ([]quiz.Question, error) {
	const query = `
		SELECT kind, prompt, answers, wrong_answers
		FROM quiz_questions
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []quiz.Question
	for rows.Next() {
		var (
			kind, prompt string
			answers      []string
			wrongAnswers []string
		)
		if err := rows.Scan(&kind, &prompt, &answers, &wrongAnswers); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		q, err := quiz.FromRecord(kind, prompt, answers, wrongAnswers)
		if err != nil {
			return nil, fmt.Errorf("invalid stored question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}

	return questions, nil
}

// Count returns the number of stored questions.
func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quiz_questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// Seed inserts questions, used to populate an empty table on first start.
func (r *QuestionRepository) Seed(ctx context.Context, questions []quiz.Question) error {
	const query = `
		INSERT INTO quiz_questions (kind, prompt, answers, wrong_answers)
		VALUES ($1, $2, $3, $4)
	`

	for _, q := range questions {
		kind := "fill"
		answers := q.Answers
		var wrong []string
		if q.Kind == quiz.KindMultipleChoice {
			kind = "multiple"
			answers = []string{q.Correct}
			wrong = q.Wrong
		}
		if _, err := r.pool.Exec(ctx, query, kind, q.Prompt, answers, wrong); err != nil {
			return fmt.Errorf("failed to seed question %q: %w", q.Prompt, err)
		}
	}
	return nil
}
