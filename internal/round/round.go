// Package round runs a single board question from selection to attribution
// and resolves its effect on the board and the teams.
package round

import "github.com/playperu/pittrivia/internal/trivia"

// Rules are the fixed parameters of a question.
type Rules struct {
	// QuestionTicks is how many timer ticks a team gets to answer.
	QuestionTicks int
	// PitUnlockSolved is the number of solved cells on the board after which
	// the Pit may be offered.
	PitUnlockSolved int
}

func DefaultRules() Rules {
	return Rules{QuestionTicks: 30, PitUnlockSolved: 4}
}

// Resolution is what a closed question hands to Resolve.
type Resolution struct {
	Attribution *trivia.TeamID `json:"attribution"`
	PitActive   bool           `json:"pitActive"`
	PitOwner    *trivia.TeamID `json:"pitOwner"`
}

// Round is the state machine of one question instance. It is not safe for
// concurrent use; the hosting session serialises access.
type Round struct {
	ref      trivia.QuestionRef
	question trivia.Question
	acting   *trivia.Team
	rules    Rules

	phase          Phase
	pitUnlocked    bool
	pitActive      bool
	remaining      int
	expired        bool
	optionsShown   bool
	twoAnswers     bool
	actingAnswered bool
	resolution     *Resolution
}

// New starts a question for the acting team. solvedCount is the number of
// cells solved on the board when the question was selected. The acting team's
// perk record is updated in place as perks are spent.
func New(q trivia.Question, ref trivia.QuestionRef, acting *trivia.Team, solvedCount int, rules Rules) *Round {
	r := &Round{
		ref:      ref,
		question: q,
		acting:   acting,
		rules:    rules,
	}
	r.pitUnlocked = !acting.Perks.ThePit && solvedCount >= rules.PitUnlockSolved
	if r.pitUnlocked {
		r.phase = PhasePreQuestion
	} else {
		r.enterAnswering()
	}
	return r
}

// Apply feeds one action to the machine. It returns false when the action is
// not valid in the current state, in which case nothing changes.
func (r *Round) Apply(a Action) bool {
	switch a.Kind {
	case ActionUsePit:
		return r.usePit()
	case ActionSkipPit:
		if r.phase != PhasePreQuestion {
			return false
		}
		r.enterAnswering()
		return true
	case ActionShowOptions:
		if !r.useRevealPerk(trivia.PerkShowOptions) {
			return false
		}
		r.optionsShown = true
		return true
	case ActionTwoAnswers:
		if !r.useRevealPerk(trivia.PerkTwoAnswers) {
			return false
		}
		r.twoAnswers = true
		return true
	case ActionTick:
		if r.phase != PhaseAnswering || r.remaining <= 0 {
			return false
		}
		r.remaining--
		if r.remaining == 0 {
			r.expired = true
		}
		return true
	case ActionTimeUp:
		if r.phase != PhaseAnswering || !r.expired {
			return false
		}
		r.phase = PhaseShowAnswer
		return true
	case ActionAnswered:
		if r.phase != PhaseAnswering {
			return false
		}
		r.actingAnswered = true
		r.phase = PhaseShowAnswer
		return true
	case ActionReveal:
		if r.phase != PhaseShowAnswer {
			return false
		}
		r.phase = PhaseSelectTeam
		return true
	case ActionAttribute:
		return r.attribute(a.Team)
	}
	return false
}

func (r *Round) enterAnswering() {
	r.phase = PhaseAnswering
	r.remaining = r.rules.QuestionTicks
	if r.remaining <= 0 {
		r.remaining = 0
		r.expired = true
	}
}

func (r *Round) usePit() bool {
	if r.phase != PhasePreQuestion || !r.pitUnlocked {
		return false
	}
	if !r.acting.Perks.Mark(trivia.PerkThePit) {
		return false
	}
	r.pitActive = true
	r.enterAnswering()
	return true
}

// useRevealPerk spends perk for the acting team. Only one of the reveal perks
// may be used per question.
func (r *Round) useRevealPerk(perk trivia.Perk) bool {
	if r.phase != PhaseAnswering || r.optionsShown || r.twoAnswers {
		return false
	}
	return r.acting.Perks.Mark(perk)
}

func (r *Round) attribute(team *trivia.TeamID) bool {
	if r.phase != PhaseSelectTeam || r.resolution != nil {
		return false
	}
	if team != nil && !team.Valid() {
		return false
	}
	res := &Resolution{PitActive: r.pitActive}
	if team != nil {
		t := *team
		res.Attribution = &t
	}
	if r.pitActive {
		owner := r.acting.ID
		res.PitOwner = &owner
	}
	r.resolution = res
	r.phase = PhaseClosed
	return true
}

func (r *Round) Phase() Phase              { return r.phase }
func (r *Round) Ref() trivia.QuestionRef   { return r.ref }
func (r *Round) ActingTeam() trivia.TeamID { return r.acting.ID }
func (r *Round) Remaining() int            { return r.remaining }
func (r *Round) Expired() bool             { return r.expired }
func (r *Round) PitActive() bool           { return r.pitActive }
func (r *Round) TwoAnswersActive() bool    { return r.twoAnswers }
func (r *Round) OptionsShown() bool        { return r.optionsShown }
func (r *Round) Question() trivia.Question { return r.question }
func (r *Round) TimerRunning() bool        { return r.phase == PhaseAnswering && !r.expired }
func (r *Round) Resolution() (Resolution, bool) {
	if r.resolution == nil {
		return Resolution{}, false
	}
	return *r.resolution, true
}

// View is the client-facing picture of the question. Options are only listed
// once revealed, and the correct option only once the answer is shown.
type View struct {
	CategoryID     string         `json:"categoryId"`
	QuestionID     string         `json:"questionId"`
	Text           string         `json:"text"`
	Points         int            `json:"points"`
	ActingTeam     trivia.TeamID  `json:"actingTeam"`
	Phase          Phase          `json:"phase"`
	Remaining      int            `json:"remaining"`
	PitOffered     bool           `json:"pitOffered"`
	PitActive      bool           `json:"pitActive"`
	OptionsShown   bool           `json:"optionsShown"`
	Options        []string       `json:"options,omitempty"`
	TwoAnswers     bool           `json:"twoAnswers"`
	ActingAnswered bool           `json:"actingAnswered"`
	CorrectOption  string         `json:"correctOption,omitempty"`
	Attribution    *trivia.TeamID `json:"attribution,omitempty"`
}

func (r *Round) View() View {
	v := View{
		CategoryID:     r.ref.CategoryID,
		QuestionID:     r.ref.QuestionID,
		Text:           r.question.Text,
		Points:         r.question.Points,
		ActingTeam:     r.acting.ID,
		Phase:          r.phase,
		Remaining:      r.remaining,
		PitOffered:     r.phase == PhasePreQuestion,
		PitActive:      r.pitActive,
		OptionsShown:   r.optionsShown,
		TwoAnswers:     r.twoAnswers,
		ActingAnswered: r.actingAnswered,
	}
	if r.optionsShown {
		v.Options = append([]string(nil), r.question.Options...)
	}
	if r.phase >= PhaseShowAnswer {
		v.CorrectOption = r.question.CorrectOption()
	}
	if r.resolution != nil {
		v.Attribution = r.resolution.Attribution
	}
	return v
}
