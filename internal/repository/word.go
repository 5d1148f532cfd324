package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// WordRepository loads and seeds the hangman word pool.
type WordRepository struct {
	pool *pgxpool.Pool
}

// NewWordRepository creates a new WordRepository instance.
func NewWordRepository(pool *pgxpool.Pool) *WordRepository {
	return &WordRepository{pool: pool}
}

// LoadAll returns every stored word.
func (r *WordRepository) LoadAll(ctx context.Context) ([]string, error) {
	const query = `SELECT word FROM hangman_words ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read words: %w", err)
	}

	return words, nil
}

// Count returns the number of stored words.
func (r *WordRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM hangman_words`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return count, nil
}

// Seed inserts words, used to populate an empty table on first start.
func (r *WordRepository) Seed(ctx context.Context, words []string) error {
	const query = `INSERT INTO hangman_words (word) VALUES ($1)`

	for _, word := range words {
		if _, err := r.pool.Exec(ctx, query, word); err != nil {
			return fmt.Errorf("failed to seed word %q: %w", word, err)
		}
	}
	return nil
}
