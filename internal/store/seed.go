package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/playperu/pittrivia/internal/trivia"
)

//go:embed defaults.json
var defaultsJSON []byte

// DefaultCategories returns the built-in question bank.
func DefaultCategories() ([]trivia.Category, error) {
	var cats []trivia.Category
	if err := json.Unmarshal(defaultsJSON, &cats); err != nil {
		return nil, fmt.Errorf("decoding default categories: %w", err)
	}
	return cats, nil
}

// SeedDefaults loads the built-in categories when the bank is empty.
// It does nothing otherwise.
func (s *Store) SeedDefaults(ctx context.Context, logger *slog.Logger) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if n > 0 {
		return nil
	}

	cats, err := DefaultCategories()
	if err != nil {
		return err
	}
	if _, err := s.SaveCategories(ctx, cats); err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}
	logger.Info("default categories seeded", "count", len(cats))
	return nil
}
