package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/playperu/pittrivia/internal/board"
	"github.com/playperu/pittrivia/internal/i18n"
	"github.com/playperu/pittrivia/internal/trivia"
)

const maxTeamNameLen = 40

// Deps are the collaborators of a Manager. Sink and Publisher may be nil.
// Rand must be safe for concurrent use when games are created concurrently.
type Deps struct {
	Categories CategorySource
	Sink       SessionSink
	Publisher  Publisher
	Bundle     *i18n.Bundle
	Logger     *slog.Logger
	Rand       board.Source
}

// Manager keeps the live sessions of this process.
type Manager struct {
	settings Settings
	deps     Deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(settings Settings, deps Deps) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Publisher == nil {
		deps.Publisher = nopPublisher{}
	}
	if deps.Rand == nil {
		deps.Rand = board.DefaultSource()
	}
	return &Manager{
		settings: settings,
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// NewGame is a request to start a game.
type NewGame struct {
	CategoryIDs []string
	Teams       [2]string
	// Language is a language code or an Accept-Language value.
	Language string
}

// Create validates the request, builds a board from the chosen categories and
// starts a session.
func (m *Manager) Create(ctx context.Context, req NewGame) (*Session, error) {
	var names [2]string
	for i, n := range req.Teams {
		n = strings.TrimSpace(n)
		if n == "" || utf8.RuneCountInString(n) > maxTeamNameLen {
			return nil, ErrInvalidTeams
		}
		names[i] = n
	}

	if err := m.validateSelection(req.CategoryIDs); err != nil {
		return nil, err
	}
	cats, err := m.deps.Categories.GetCategories(ctx, req.CategoryIDs)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	if len(cats) != len(req.CategoryIDs) {
		return nil, fmt.Errorf("%w: unknown category", ErrInvalidSelection)
	}
	for _, c := range cats {
		if !c.Enabled {
			return nil, fmt.Errorf("%w: category %q is disabled", ErrInvalidSelection, c.ID)
		}
		if len(c.Questions) == 0 {
			return nil, fmt.Errorf("%w: category %q has no questions", ErrInvalidSelection, c.ID)
		}
	}

	s := newSession(sessionParams{
		id:       uuid.NewString(),
		board:    board.Build(cats, len(cats), m.deps.Rand),
		teams:    trivia.NewTeams(names[0], names[1]),
		tr:       m.deps.Bundle.For(m.deps.Bundle.Match(req.Language)),
		settings: m.settings,
		pub:      m.deps.Publisher,
		logger:   m.deps.Logger,
		persist:  m.persist,
		onEnd:    m.remove,
	})

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	gamesStarted.Inc()
	gamesActive.Inc()
	m.persist(s.Record())
	m.deps.Logger.Info("game started", "game_id", s.ID(), "language", s.lang, "categories", req.CategoryIDs)
	return s, nil
}

func (m *Manager) validateSelection(ids []string) error {
	if len(ids) != m.settings.BoardCategories {
		return fmt.Errorf("%w: want %d categories, got %d", ErrInvalidSelection, m.settings.BoardCategories, len(ids))
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: empty category id", ErrInvalidSelection)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidSelection, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrGameNotFound
	}
	return s, nil
}

// Lookup returns the snapshot of a live game, or of a finished one from the
// sink.
func (m *Manager) Lookup(ctx context.Context, id string) (Snapshot, error) {
	if s, err := m.Get(id); err == nil {
		return s.Snapshot(), nil
	}
	if m.deps.Sink == nil {
		return Snapshot{}, ErrGameNotFound
	}
	rec, err := m.deps.Sink.GetSession(ctx, id)
	if errors.Is(err, ErrGameNotFound) {
		return Snapshot{}, ErrGameNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading game %s: %w", id, err)
	}
	return SnapshotOf(rec), nil
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown abandons every live session, stopping their timers.
func (m *Manager) Shutdown() {
	m.mu.RLock()
	live := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		live = append(live, s)
	}
	m.mu.RUnlock()

	for _, s := range live {
		s.Abandon()
	}
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	_, ok := m.sessions[s.ID()]
	delete(m.sessions, s.ID())
	m.mu.Unlock()
	if !ok {
		return
	}

	status := s.Snapshot().Status
	gamesActive.Dec()
	gamesFinished.WithLabelValues(string(status)).Inc()
}

func (m *Manager) persist(rec Record) {
	if m.deps.Sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.deps.Sink.SaveSession(ctx, rec); err != nil {
		m.deps.Logger.Error("saving game", "game_id", rec.ID, "version", rec.Version, "error", err)
	}
}
