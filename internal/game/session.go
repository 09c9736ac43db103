package game

import (
	"log/slog"
	"sync"
	"time"

	"github.com/playperu/pittrivia/internal/i18n"
	"github.com/playperu/pittrivia/internal/round"
	"github.com/playperu/pittrivia/internal/trivia"
)

// Session is one live game. All methods are safe for concurrent use; every
// change happens under the session lock, and events are published under it
// too so subscribers see them in order.
type Session struct {
	id       string
	lang     string
	settings Settings
	tr       i18n.Translator
	pub      Publisher
	logger   *slog.Logger
	persist  func(Record)
	onEnd    func(*Session)

	mu             sync.Mutex
	version        int64
	status         Status
	board          trivia.Board
	teams          [2]trivia.Team
	turn           trivia.TeamID
	pitNoticeShown bool
	round          *round.Round
	countdown      *round.Countdown
	timerGen       uint64
	pending        []Event
	createdAt      time.Time
	updatedAt      time.Time
}

type sessionParams struct {
	id       string
	board    trivia.Board
	teams    [2]trivia.Team
	tr       i18n.Translator
	settings Settings
	pub      Publisher
	logger   *slog.Logger
	persist  func(Record)
	onEnd    func(*Session)
}

func newSession(p sessionParams) *Session {
	now := time.Now().UTC()
	s := &Session{
		id:        p.id,
		lang:      p.tr.Lang(),
		settings:  p.settings,
		tr:        p.tr,
		pub:       p.pub,
		logger:    p.logger.With("game_id", p.id),
		persist:   p.persist,
		onEnd:     p.onEnd,
		version:   1,
		status:    StatusActive,
		board:     p.board,
		teams:     p.teams,
		turn:      trivia.TeamA,
		createdAt: now,
		updatedAt: now,
	}
	if s.pub == nil {
		s.pub = nopPublisher{}
	}
	if s.persist == nil {
		s.persist = func(Record) {}
	}
	if s.onEnd == nil {
		s.onEnd = func(*Session) {}
	}
	s.checkPitNoticeLocked()
	s.pending = nil
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Record returns the persistable state of the game.
func (s *Session) Record() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordLocked()
}

// SelectQuestion opens the cell at ref for the team whose turn it is. It is a
// no-op while another question is open, or when the cell is missing or solved.
func (s *Session) SelectQuestion(ref trivia.QuestionRef) (Snapshot, bool) {
	return s.mutate(true, func() bool {
		if s.round != nil {
			return false
		}
		q, ok := s.board.Question(ref)
		if !ok || q.IsSolved {
			return false
		}
		s.round = round.New(q, ref, &s.teams[s.turn], s.board.SolvedCount(), s.settings.Rules)
		s.emit(Event{
			Type:    EventQuestionSelected,
			Message: s.tr.T("question_for", s.teams[s.turn].Name),
			Team:    teamRef(s.turn),
		})
		if s.round.Phase() == round.PhaseAnswering {
			s.startCountdownLocked()
		}
		s.logger.Info("question selected", "category_id", ref.CategoryID, "question_id", ref.QuestionID, "team", s.turn)
		return true
	})
}

// Act applies a host action to the open question. Timer actions are reserved
// for the session's own countdown and are rejected here.
func (s *Session) Act(a round.Action) (Snapshot, bool) {
	if a.Kind == round.ActionTick || a.Kind == round.ActionTimeUp {
		return s.Snapshot(), false
	}
	return s.mutate(true, func() bool {
		if s.round == nil || !s.round.Apply(a) {
			return false
		}
		acting := s.round.ActingTeam()
		name := s.teams[acting].Name

		switch a.Kind {
		case round.ActionUsePit:
			perksUsed.WithLabelValues(string(trivia.PerkThePit)).Inc()
			s.emit(Event{Type: EventPitUsed, Message: s.tr.T("pit_activated", name), Team: teamRef(acting)})
			s.startCountdownLocked()
		case round.ActionSkipPit:
			s.emit(Event{Type: EventPitSkipped, Message: s.tr.T("pit_skipped", name), Team: teamRef(acting)})
			s.startCountdownLocked()
		case round.ActionShowOptions:
			perksUsed.WithLabelValues(string(trivia.PerkShowOptions)).Inc()
			s.emit(Event{
				Type:    EventPerkUsed,
				Message: s.tr.T("perk_show_options", name),
				Detail:  string(trivia.PerkShowOptions),
				Team:    teamRef(acting),
			})
		case round.ActionTwoAnswers:
			perksUsed.WithLabelValues(string(trivia.PerkTwoAnswers)).Inc()
			s.emit(Event{
				Type:    EventPerkUsed,
				Message: s.tr.T("perk_two_answers", name),
				Detail:  string(trivia.PerkTwoAnswers),
				Team:    teamRef(acting),
			})
		case round.ActionAnswered:
			s.stopCountdownLocked()
			s.emit(Event{Type: EventAnswered, Message: s.tr.T("team_answered", name), Team: teamRef(acting)})
		case round.ActionReveal:
			s.emit(Event{
				Type:    EventAnswerRevealed,
				Message: s.tr.T("answer_revealed", s.round.Question().CorrectOption()),
			})
		case round.ActionAttribute:
			s.resolveLocked()
		}
		return true
	})
}

// Close dismisses the open question without resolving it. The cell stays
// unsolved and the turn does not pass.
func (s *Session) Close() (Snapshot, bool) {
	return s.mutate(true, func() bool {
		if s.round == nil {
			return false
		}
		s.stopCountdownLocked()
		s.round = nil
		s.emit(Event{Type: EventQuestionClosed})
		return true
	})
}

// Abandon ends the game early.
func (s *Session) Abandon() (Snapshot, bool) {
	return s.mutate(true, func() bool {
		s.stopCountdownLocked()
		s.round = nil
		s.status = StatusAbandoned
		s.emit(Event{Type: EventGameAbandoned, Message: s.tr.T("game_abandoned")})
		s.logger.Info("game abandoned")
		return true
	})
}

// mutate runs fn under the lock while the game is active. When fn reports a
// change, the version is bumped and queued events are published with the new
// snapshot attached.
func (s *Session) mutate(persist bool, fn func() bool) (Snapshot, bool) {
	s.mu.Lock()
	applied := s.status == StatusActive && fn()
	var rec Record
	if applied {
		s.version++
		s.updatedAt = time.Now().UTC()
		rec = s.recordLocked()
	}
	snap := s.snapshotLocked()
	if applied {
		for _, ev := range s.pending {
			ev.GameID = s.id
			ev.Snapshot = &snap
			s.pub.Publish(s.id, ev)
		}
	}
	s.pending = nil
	ended := applied && s.status != StatusActive
	s.mu.Unlock()

	if applied && persist {
		s.persist(rec)
	}
	if ended {
		s.onEnd(s)
	}
	return snap, applied
}

func (s *Session) emit(ev Event) {
	s.pending = append(s.pending, ev)
}

func (s *Session) resolveLocked() {
	res, _ := s.round.Resolution()
	ref := s.round.Ref()
	s.stopCountdownLocked()
	s.round = nil

	out, ok := round.Resolve(round.ResolveInput{
		Board:       s.board,
		Teams:       s.teams,
		Ref:         ref,
		Resolution:  res,
		CurrentTurn: s.turn,
	})
	if !ok {
		s.logger.Warn("question could not be resolved", "category_id", ref.CategoryID, "question_id", ref.QuestionID)
		s.emit(Event{Type: EventQuestionClosed})
		return
	}

	s.board = out.Board
	s.teams = out.Teams
	s.turn = out.NextTurn

	outcome := "none"
	if out.Award != nil {
		outcome = "award"
		s.emit(Event{
			Type:    EventScore,
			Message: s.tr.T("score_award", s.teams[out.Award.Team].Name, out.Award.Delta),
			Team:    teamRef(out.Award.Team),
			Delta:   out.Award.Delta,
		})
	}
	if out.Steal != nil {
		outcome = "steal"
		s.emit(Event{
			Type:    EventSteal,
			Message: s.tr.T("score_steal", s.teams[out.Steal.Team].Name, -out.Steal.Delta),
			Team:    teamRef(out.Steal.Team),
			Delta:   out.Steal.Delta,
		})
	}
	resolved := Event{Type: EventQuestionResolved}
	if out.Award == nil {
		resolved.Message = s.tr.T("no_one_answered")
	}
	s.emit(resolved)
	questionsResolved.WithLabelValues(outcome).Inc()

	if out.GameOver {
		s.status = StatusCompleted
		s.emit(Event{Type: EventGameOver, Message: s.tr.T("game_over"), Detail: s.resultLineLocked()})
		s.logger.Info("game completed", "score_a", s.teams[0].Score, "score_b", s.teams[1].Score)
		return
	}
	s.checkPitNoticeLocked()
}

func (s *Session) resultLineLocked() string {
	w, tie := trivia.Winner(s.teams)
	if tie {
		return s.tr.T("tie", s.teams[0].Score)
	}
	return s.tr.T("winner", s.teams[w].Name, s.teams[w].Score)
}

// checkPitNoticeLocked raises the one-time notice once enough cells are
// solved and no question is open.
func (s *Session) checkPitNoticeLocked() {
	if s.pitNoticeShown || s.round != nil || s.status != StatusActive {
		return
	}
	if s.board.SolvedCount() < s.settings.Rules.PitUnlockSolved {
		return
	}
	s.pitNoticeShown = true
	s.emit(Event{
		Type:    EventPitAvailable,
		Message: s.tr.T("pit_available_title"),
		Detail:  s.tr.T("pit_available_desc"),
	})
}

func (s *Session) startCountdownLocked() {
	s.stopCountdownLocked()
	s.timerGen++
	gen := s.timerGen
	s.countdown = round.StartCountdown(
		s.settings.TickInterval,
		s.round.Remaining(),
		s.settings.GraceDelay,
		func() { s.onTick(gen) },
		func() { s.onExpire(gen) },
	)
}

func (s *Session) stopCountdownLocked() {
	if s.countdown != nil {
		s.countdown.Cancel()
		s.countdown = nil
	}
	s.timerGen++
}

func (s *Session) onTick(gen uint64) {
	s.mutate(false, func() bool {
		if gen != s.timerGen || s.round == nil || !s.round.Apply(round.Action{Kind: round.ActionTick}) {
			return false
		}
		s.emit(Event{Type: EventTick, Remaining: s.round.Remaining()})
		return true
	})
}

func (s *Session) onExpire(gen uint64) {
	s.mutate(true, func() bool {
		if gen != s.timerGen || s.round == nil {
			return false
		}
		s.countdown = nil
		if !s.round.Apply(round.Action{Kind: round.ActionTimeUp}) {
			return false
		}
		s.emit(Event{Type: EventTimeUp, Message: s.tr.T("time_up")})
		return true
	})
}

func (s *Session) recordLocked() Record {
	return Record{
		ID:             s.id,
		Version:        s.version,
		Language:       s.lang,
		Status:         s.status,
		Board:          s.board.Clone(),
		Teams:          s.teams,
		CurrentTurn:    s.turn,
		PitNoticeShown: s.pitNoticeShown,
		CreatedAt:      s.createdAt,
		UpdatedAt:      s.updatedAt,
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := SnapshotOf(Record{
		ID:             s.id,
		Version:        s.version,
		Language:       s.lang,
		Status:         s.status,
		Board:          s.board,
		Teams:          s.teams,
		CurrentTurn:    s.turn,
		PitNoticeShown: s.pitNoticeShown,
	})
	if s.round != nil {
		v := s.round.View()
		snap.Question = &v
	}
	return snap
}

func teamRef(id trivia.TeamID) *trivia.TeamID { return &id }
