package round

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/pittrivia/internal/trivia"
)

func testQuestion() trivia.Question {
	return trivia.Question{
		ID:           "q1",
		Text:         "Capital of Japan?",
		Options:      []string{"Seoul", "Beijing", "Tokyo", "Kyoto"},
		CorrectIndex: 2,
		Points:       400,
	}
}

var testRef = trivia.QuestionRef{CategoryID: "general", QuestionID: "q1"}

func teamPtr(id trivia.TeamID) *trivia.TeamID { return &id }

func newRound(t *testing.T, team *trivia.Team, solved int) *Round {
	t.Helper()
	return New(testQuestion(), testRef, team, solved, DefaultRules())
}

func TestNewStartsInPreQuestionOnlyWhenPitUnlocked(t *testing.T) {
	tests := []struct {
		name    string
		pitUsed bool
		solved  int
		want    Phase
	}{
		{"fresh board", false, 0, PhaseAnswering},
		{"below threshold", false, 3, PhaseAnswering},
		{"at threshold", false, 4, PhasePreQuestion},
		{"above threshold", false, 20, PhasePreQuestion},
		{"pit already used", true, 10, PhaseAnswering},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			team := &trivia.Team{ID: trivia.TeamA, Perks: trivia.PerksUsed{ThePit: tt.pitUsed}}
			r := newRound(t, team, tt.solved)
			assert.Equal(t, tt.want, r.Phase())
			if tt.want == PhaseAnswering {
				assert.Equal(t, 30, r.Remaining())
				assert.True(t, r.TimerRunning())
			}
		})
	}
}

func TestUsePit(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamB}
	r := newRound(t, team, 4)

	require.True(t, r.Apply(Action{Kind: ActionUsePit}))
	assert.Equal(t, PhaseAnswering, r.Phase())
	assert.True(t, r.PitActive())
	assert.True(t, team.Perks.ThePit)

	// Second activation is a no-op.
	assert.False(t, r.Apply(Action{Kind: ActionUsePit}))
	assert.False(t, r.Apply(Action{Kind: ActionSkipPit}))
}

func TestSkipPitLeavesPerkUnused(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamA}
	r := newRound(t, team, 5)

	require.True(t, r.Apply(Action{Kind: ActionSkipPit}))
	assert.Equal(t, PhaseAnswering, r.Phase())
	assert.False(t, r.PitActive())
	assert.False(t, team.Perks.ThePit)
}

func TestUsePitWhenLockedIsNoop(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamA}
	r := newRound(t, team, 2)

	assert.False(t, r.Apply(Action{Kind: ActionUsePit}))
	assert.False(t, team.Perks.ThePit)
	assert.False(t, r.PitActive())
}

func TestRevealPerksAreExclusivePerQuestion(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamA}
	r := newRound(t, team, 0)

	require.True(t, r.Apply(Action{Kind: ActionShowOptions}))
	assert.True(t, r.OptionsShown())
	assert.Equal(t, []string{"Seoul", "Beijing", "Tokyo", "Kyoto"}, r.View().Options)

	assert.False(t, r.Apply(Action{Kind: ActionTwoAnswers}))
	assert.False(t, team.Perks.TwoAnswers)
	assert.True(t, team.Perks.ShowOptions)
}

func TestPerkIdempotence(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamA}
	r := newRound(t, team, 0)

	require.True(t, r.Apply(Action{Kind: ActionTwoAnswers}))
	before := team.Perks
	assert.False(t, r.Apply(Action{Kind: ActionTwoAnswers}))
	assert.Equal(t, before, team.Perks)

	// Next question: the perk stays spent.
	next := newRound(t, team, 0)
	assert.False(t, next.Apply(Action{Kind: ActionTwoAnswers}))
	assert.False(t, next.TwoAnswersActive())
	assert.True(t, next.Apply(Action{Kind: ActionShowOptions}))
}

func TestPerksOnlyWhileAnswering(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamA}
	r := newRound(t, team, 4)

	assert.False(t, r.Apply(Action{Kind: ActionShowOptions}), "not during preQuestion")
	require.True(t, r.Apply(Action{Kind: ActionSkipPit}))
	require.True(t, r.Apply(Action{Kind: ActionAnswered}))
	assert.False(t, r.Apply(Action{Kind: ActionShowOptions}), "not after answering")
	assert.Equal(t, trivia.PerksUsed{}, team.Perks)
}

func TestTimerExpiry(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamA}
	r := New(testQuestion(), testRef, team, 0, Rules{QuestionTicks: 3, PitUnlockSolved: 4})

	assert.False(t, r.Apply(Action{Kind: ActionTimeUp}), "cannot time out before expiry")
	for i := 0; i < 3; i++ {
		require.True(t, r.Apply(Action{Kind: ActionTick}))
	}
	assert.True(t, r.Expired())
	assert.False(t, r.TimerRunning())
	assert.Equal(t, 0, r.Remaining())
	assert.False(t, r.Apply(Action{Kind: ActionTick}))

	require.True(t, r.Apply(Action{Kind: ActionTimeUp}))
	assert.Equal(t, PhaseShowAnswer, r.Phase())
	assert.Equal(t, "Tokyo", r.View().CorrectOption)
}

func TestManualAnswerStopsTimer(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamA}
	r := newRound(t, team, 0)

	require.True(t, r.Apply(Action{Kind: ActionTick}))
	require.True(t, r.Apply(Action{Kind: ActionAnswered}))
	assert.Equal(t, PhaseShowAnswer, r.Phase())
	assert.Equal(t, 29, r.Remaining())
	assert.False(t, r.Apply(Action{Kind: ActionTick}))
	assert.True(t, r.View().ActingAnswered)
}

func TestCorrectOptionHiddenUntilShown(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamA}
	r := newRound(t, team, 0)

	v := r.View()
	assert.Empty(t, v.CorrectOption)
	assert.Empty(t, v.Options)
}

func playToSelectTeam(t *testing.T, r *Round) {
	t.Helper()
	if r.Phase() == PhasePreQuestion {
		require.True(t, r.Apply(Action{Kind: ActionSkipPit}))
	}
	require.True(t, r.Apply(Action{Kind: ActionAnswered}))
	require.True(t, r.Apply(Action{Kind: ActionReveal}))
	require.Equal(t, PhaseSelectTeam, r.Phase())
}

func TestAttributionLatch(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamA}
	r := newRound(t, team, 0)
	playToSelectTeam(t, r)

	require.True(t, r.Apply(Attribute(teamPtr(trivia.TeamB))))
	first, ok := r.Resolution()
	require.True(t, ok)

	assert.False(t, r.Apply(Attribute(teamPtr(trivia.TeamA))))
	assert.False(t, r.Apply(Attribute(nil)))

	second, _ := r.Resolution()
	assert.Equal(t, first, second)
	assert.Equal(t, trivia.TeamB, *second.Attribution)
	assert.Equal(t, PhaseClosed, r.Phase())
}

func TestAttributeNoOne(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamA}
	r := newRound(t, team, 0)
	playToSelectTeam(t, r)

	require.True(t, r.Apply(Attribute(nil)))
	res, ok := r.Resolution()
	require.True(t, ok)
	assert.Nil(t, res.Attribution)
	assert.False(t, res.PitActive)
	assert.Nil(t, res.PitOwner)
}

func TestInvalidAttributionDoesNotConsumeLatch(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamA}
	r := newRound(t, team, 0)
	playToSelectTeam(t, r)

	assert.False(t, r.Apply(Attribute(teamPtr(7))))
	assert.Equal(t, PhaseSelectTeam, r.Phase())
	assert.True(t, r.Apply(Attribute(teamPtr(trivia.TeamA))))
}

func TestAttributionBeforeSelectTeamIsNoop(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamA}
	r := newRound(t, team, 0)

	assert.False(t, r.Apply(Attribute(teamPtr(trivia.TeamA))))
	_, ok := r.Resolution()
	assert.False(t, ok)
}

func TestPitResolutionRecordsOwner(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamB}
	r := newRound(t, team, 6)
	require.True(t, r.Apply(Action{Kind: ActionUsePit}))
	playToSelectTeam(t, r)

	require.True(t, r.Apply(Attribute(teamPtr(trivia.TeamB))))
	res, _ := r.Resolution()
	assert.True(t, res.PitActive)
	require.NotNil(t, res.PitOwner)
	assert.Equal(t, trivia.TeamB, *res.PitOwner)
}

func TestUnknownActionIsNoop(t *testing.T) {
	team := &trivia.Team{ID: trivia.TeamA}
	r := newRound(t, team, 0)
	assert.False(t, r.Apply(Action{Kind: "dance"}))
	assert.Equal(t, PhaseAnswering, r.Phase())
}

func TestPhaseJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Phase{"phase": PhaseSelectTeam})
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"selectTeam"}`, string(b))

	var p Phase
	require.NoError(t, p.UnmarshalText([]byte("showAnswer")))
	assert.Equal(t, PhaseShowAnswer, p)
	assert.Error(t, p.UnmarshalText([]byte("bogus")))
}

func TestParseActionKind(t *testing.T) {
	k, err := ParseActionKind("use_pit")
	require.NoError(t, err)
	assert.Equal(t, ActionUsePit, k)

	_, err = ParseActionKind("tick")
	assert.Error(t, err)
}
