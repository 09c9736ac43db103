// Package store persists the question bank and game records in libSQL, using
// one JSONB document per row.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playperu/pittrivia/internal/game"
	"github.com/playperu/pittrivia/internal/trivia"
)

var (
	ErrEmptyCategories = errors.New("category list is empty")
	ErrInvalidCategory = errors.New("invalid category")
)

// SaveResult summarises a category upload.
type SaveResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`
}

// Store implements the category source and the session sink on one database.
type Store struct {
	db *sql.DB
}

// New wraps a migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListCategories returns categories ordered by sort order, then id.
func (s *Store) ListCategories(ctx context.Context, enabledOnly bool) ([]trivia.Category, error) {
	query := `SELECT json(data) FROM categories`
	if enabledOnly {
		query += ` WHERE enabled = 1`
	}
	query += ` ORDER BY sort_order, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	cats := []trivia.Category{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var c trivia.Category
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			return nil, fmt.Errorf("decoding category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// GetCategories returns the categories with the given ids in the order asked
// for. Unknown ids are skipped.
func (s *Store) GetCategories(ctx context.Context, ids []string) ([]trivia.Category, error) {
	if len(ids) == 0 {
		return []trivia.Category{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM categories WHERE id IN (?`+strings.Repeat(", ?", len(ids)-1)+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]trivia.Category, len(ids))
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var c trivia.Category
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			return nil, fmt.Errorf("decoding category: %w", err)
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pick(byID, ids), nil
}

func pick(byID map[string]trivia.Category, ids []string) []trivia.Category {
	out := make([]trivia.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// SaveCategories replaces the question bank with cats. Existing categories
// are updated in place and get a new version; categories missing from cats
// are removed. An empty list is rejected so a bad upload cannot wipe the bank.
func (s *Store) SaveCategories(ctx context.Context, cats []trivia.Category) (SaveResult, error) {
	if len(cats) == 0 {
		return SaveResult{}, ErrEmptyCategories
	}
	if err := validateCategories(cats); err != nil {
		return SaveResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return SaveResult{}, err
	}
	defer tx.Rollback()

	var res SaveResult
	ids := make([]any, 0, len(cats))
	for _, c := range cats {
		c = c.Clone()
		for i := range c.Questions {
			c.Questions[i].IsSolved = false
		}
		data, err := json.Marshal(c)
		if err != nil {
			return SaveResult{}, err
		}

		var exists bool
		err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)`, c.ID).Scan(&exists)
		if err != nil {
			return SaveResult{}, fmt.Errorf("checking category %q: %w", c.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO categories (id, enabled, sort_order, version, data) VALUES (?, ?, ?, 1, jsonb(?))
			 ON CONFLICT(id) DO UPDATE SET enabled = excluded.enabled, sort_order = excluded.sort_order,
			   version = categories.version + 1, data = excluded.data`,
			c.ID, boolInt(c.Enabled), c.SortOrder, string(data),
		)
		if err != nil {
			return SaveResult{}, fmt.Errorf("saving category %q: %w", c.ID, err)
		}
		if exists {
			res.Updated++
		} else {
			res.Created++
		}
		ids = append(ids, c.ID)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM categories WHERE id NOT IN (?`+strings.Repeat(", ?", len(ids)-1)+`)`,
		ids...,
	)
	if err != nil {
		return SaveResult{}, fmt.Errorf("removing stale categories: %w", err)
	}
	n, _ := result.RowsAffected()
	res.Removed = int(n)

	if err := tx.Commit(); err != nil {
		return SaveResult{}, err
	}
	return res, nil
}

func validateCategories(cats []trivia.Category) error {
	seen := make(map[string]struct{}, len(cats))
	for _, c := range cats {
		if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: id and name are required", ErrInvalidCategory)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidCategory, c.ID)
		}
		seen[c.ID] = struct{}{}

		qids := make(map[string]struct{}, len(c.Questions))
		for _, q := range c.Questions {
			if q.ID == "" || !q.Valid() {
				return fmt.Errorf("%w: category %q has a malformed question %q", ErrInvalidCategory, c.ID, q.ID)
			}
			if _, dup := qids[q.ID]; dup {
				return fmt.Errorf("%w: category %q repeats question %q", ErrInvalidCategory, c.ID, q.ID)
			}
			qids[q.ID] = struct{}{}
		}
	}
	return nil
}

// SaveSession stores a game record. Older versions never overwrite newer ones.
func (s *Store) SaveSession(ctx context.Context, rec game.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO game_sessions (id, status, version, updated_at, data) VALUES (?, ?, ?, ?, jsonb(?))
		 ON CONFLICT(id) DO UPDATE SET status = excluded.status, version = excluded.version,
		   updated_at = excluded.updated_at, data = excluded.data
		 WHERE excluded.version > game_sessions.version`,
		rec.ID, string(rec.Status), rec.Version, rec.UpdatedAt.UTC().Format(time.RFC3339Nano), string(data),
	)
	if err != nil {
		return fmt.Errorf("saving game %s: %w", rec.ID, err)
	}
	return nil
}

// GetSession loads a game record.
func (s *Store) GetSession(ctx context.Context, id string) (game.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT json(data) FROM game_sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Record{}, game.ErrGameNotFound
	}
	if err != nil {
		return game.Record{}, err
	}
	var rec game.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return game.Record{}, fmt.Errorf("decoding game %s: %w", id, err)
	}
	return rec, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
