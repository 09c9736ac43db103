// Package game hosts live board games. A Session owns one game's board,
// teams and the question in progress; the Manager keeps sessions by id.
package game

import (
	"context"
	"errors"
	"time"

	"github.com/playperu/pittrivia/internal/round"
	"github.com/playperu/pittrivia/internal/trivia"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrInvalidSelection = errors.New("invalid category selection")
	ErrInvalidTeams     = errors.New("invalid team names")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Settings are the timing and rule parameters shared by every session.
type Settings struct {
	Rules           round.Rules
	TickInterval    time.Duration
	GraceDelay      time.Duration
	BoardCategories int
}

func DefaultSettings() Settings {
	return Settings{
		Rules:           round.DefaultRules(),
		TickInterval:    time.Second,
		GraceDelay:      500 * time.Millisecond,
		BoardCategories: 6,
	}
}

// Record is the persisted form of a session.
type Record struct {
	ID             string         `json:"id"`
	Version        int64          `json:"version"`
	Language       string         `json:"language"`
	Status         Status         `json:"status"`
	Board          trivia.Board   `json:"board"`
	Teams          [2]trivia.Team `json:"teams"`
	CurrentTurn    trivia.TeamID  `json:"currentTurn"`
	PitNoticeShown bool           `json:"pitNoticeShown"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// SessionSink receives a record after every committed change, and returns
// records of games that are no longer live.
type SessionSink interface {
	SaveSession(ctx context.Context, rec Record) error
	GetSession(ctx context.Context, id string) (Record, error)
}

// CategorySource supplies the question bank.
type CategorySource interface {
	GetCategories(ctx context.Context, ids []string) ([]trivia.Category, error)
}

// Cell is one board square as shown to players.
type Cell struct {
	QuestionID string `json:"questionId"`
	Points     int    `json:"points"`
	Solved     bool   `json:"solved"`
}

// Column is one board category as shown to players.
type Column struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	ImageURL   string `json:"imageUrl,omitempty"`
	Cells      []Cell `json:"cells"`
}

// Snapshot is the client-facing state of a game. It never carries answers of
// unasked questions.
type Snapshot struct {
	ID             string         `json:"id"`
	Version        int64          `json:"version"`
	Language       string         `json:"language"`
	Status         Status         `json:"status"`
	Board          []Column       `json:"board"`
	Teams          [2]trivia.Team `json:"teams"`
	CurrentTurn    trivia.TeamID  `json:"currentTurn"`
	SolvedCount    int            `json:"solvedCount"`
	CellCount      int            `json:"cellCount"`
	PitNoticeShown bool           `json:"pitNoticeShown"`
	Question       *round.View    `json:"question,omitempty"`
	Winner         *trivia.TeamID `json:"winner,omitempty"`
	Tie            bool           `json:"tie,omitempty"`
}

// SnapshotOf builds the client view of a stored record.
func SnapshotOf(rec Record) Snapshot {
	snap := Snapshot{
		ID:             rec.ID,
		Version:        rec.Version,
		Language:       rec.Language,
		Status:         rec.Status,
		Board:          make([]Column, 0, len(rec.Board)),
		Teams:          rec.Teams,
		CurrentTurn:    rec.CurrentTurn,
		SolvedCount:    rec.Board.SolvedCount(),
		CellCount:      rec.Board.CellCount(),
		PitNoticeShown: rec.PitNoticeShown,
	}
	for _, c := range rec.Board {
		col := Column{
			CategoryID: c.ID,
			Name:       c.DisplayName(rec.Language),
			ImageURL:   c.ImageURL,
			Cells:      make([]Cell, 0, len(c.Questions)),
		}
		for _, q := range c.Questions {
			col.Cells = append(col.Cells, Cell{QuestionID: q.ID, Points: q.Points, Solved: q.IsSolved})
		}
		snap.Board = append(snap.Board, col)
	}
	if rec.Status == StatusCompleted {
		w, tie := trivia.Winner(rec.Teams)
		snap.Tie = tie
		if !tie {
			snap.Winner = &w
		}
	}
	return snap
}

// Event types published while a game is played.
const (
	EventQuestionSelected = "question_selected"
	EventPitUsed          = "pit_used"
	EventPitSkipped       = "pit_skipped"
	EventPerkUsed         = "perk_used"
	EventTick             = "tick"
	EventTimeUp           = "time_up"
	EventAnswered         = "answered"
	EventAnswerRevealed   = "answer_revealed"
	EventScore            = "score"
	EventSteal            = "steal"
	EventQuestionResolved = "question_resolved"
	EventQuestionClosed   = "question_closed"
	EventPitAvailable     = "pit_available"
	EventGameOver         = "game_over"
	EventGameAbandoned    = "game_abandoned"
)

// Event is a single notification about a game.
type Event struct {
	Type      string         `json:"type"`
	GameID    string         `json:"gameId"`
	Message   string         `json:"message,omitempty"`
	Detail    string         `json:"detail,omitempty"`
	Team      *trivia.TeamID `json:"team,omitempty"`
	Delta     int            `json:"delta,omitempty"`
	Remaining int            `json:"remaining,omitempty"`
	Snapshot  *Snapshot      `json:"snapshot,omitempty"`
}

// Publisher fans events out to clients watching a game. Publish must not
// block.
type Publisher interface {
	Publish(gameID string, ev Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, Event) {}
