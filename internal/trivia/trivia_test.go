package trivia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBoard() Board {
	return Board{
		{ID: "c1", Name: "One", NameAr: "واحد", Questions: []Question{
			{ID: "q1", Options: []string{"a", "b"}, CorrectIndex: 1, Points: 200},
			{ID: "q2", Options: []string{"a", "b"}, CorrectIndex: 0, Points: 400, IsSolved: true},
		}},
		{ID: "c2", Name: "Two", Questions: []Question{
			{ID: "q1", Options: []string{"x", "y", "z"}, CorrectIndex: 2, Points: 600},
		}},
	}
}

func TestBoardFind(t *testing.T) {
	b := sampleBoard()

	ci, qi, ok := b.Find(QuestionRef{CategoryID: "c2", QuestionID: "q1"})
	require.True(t, ok)
	assert.Equal(t, 1, ci)
	assert.Equal(t, 0, qi)

	_, _, ok = b.Find(QuestionRef{CategoryID: "c1", QuestionID: "missing"})
	assert.False(t, ok)
	_, _, ok = b.Find(QuestionRef{CategoryID: "missing", QuestionID: "q1"})
	assert.False(t, ok)

	q, ok := b.Question(QuestionRef{CategoryID: "c2", QuestionID: "q1"})
	require.True(t, ok)
	assert.Equal(t, "z", q.CorrectOption())
	q.Options[0] = "changed"
	assert.Equal(t, "x", b[1].Questions[0].Options[0], "Question returns a copy")
}

func TestBoardCounts(t *testing.T) {
	b := sampleBoard()
	assert.Equal(t, 3, b.CellCount())
	assert.Equal(t, 1, b.SolvedCount())
	assert.False(t, b.Complete())

	for ci := range b {
		for qi := range b[ci].Questions {
			b[ci].Questions[qi].IsSolved = true
		}
	}
	assert.True(t, b.Complete())
	assert.True(t, Board{}.Complete(), "an empty board has nothing left to play")
}

func TestBoardCloneIsDeep(t *testing.T) {
	b := sampleBoard()
	c := b.Clone()
	c[0].Questions[0].IsSolved = true
	c[0].Questions[0].Options[0] = "changed"

	assert.False(t, b[0].Questions[0].IsSolved)
	assert.Equal(t, "a", b[0].Questions[0].Options[0])
	assert.Nil(t, Board(nil).Clone())
}

func TestQuestionValid(t *testing.T) {
	tests := []struct {
		name string
		q    Question
		want bool
	}{
		{"ok", Question{Options: []string{"a", "b"}, CorrectIndex: 1}, true},
		{"index too large", Question{Options: []string{"a", "b"}, CorrectIndex: 2}, false},
		{"negative index", Question{Options: []string{"a", "b"}, CorrectIndex: -1}, false},
		{"single option", Question{Options: []string{"a"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Valid())
			if !tt.want {
				assert.Empty(t, tt.q.CorrectOption())
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	b := sampleBoard()
	assert.Equal(t, "واحد", b[0].DisplayName("ar"))
	assert.Equal(t, "One", b[0].DisplayName("en"))
	assert.Equal(t, "Two", b[1].DisplayName("ar"), "falls back without an Arabic name")
}

func TestTeams(t *testing.T) {
	assert.Equal(t, TeamB, TeamA.Other())
	assert.Equal(t, TeamA, TeamB.Other())
	assert.False(t, TeamID(2).Valid())
	assert.False(t, TeamID(-1).Valid())

	teams := NewTeams("Falcons", "Eagles")
	assert.Equal(t, TeamB, teams[1].ID)
	assert.Equal(t, "Eagles", teams[1].Name)
}

func TestPerks(t *testing.T) {
	var p PerksUsed
	for _, perk := range []Perk{PerkShowOptions, PerkTwoAnswers, PerkThePit} {
		assert.False(t, p.Used(perk))
		assert.True(t, p.Mark(perk))
		assert.True(t, p.Used(perk))
		assert.False(t, p.Mark(perk), "%s is spent once", perk)
	}
	assert.False(t, p.Mark(Perk("bogus")))

	_, err := ParsePerk("the_pit")
	assert.NoError(t, err)
	_, err = ParsePerk("pit")
	assert.Error(t, err)
}

func TestWinner(t *testing.T) {
	tests := []struct {
		name    string
		a, b    int
		want    TeamID
		wantTie bool
	}{
		{"a leads", 600, 400, TeamA, false},
		{"b leads", 200, 400, TeamB, false},
		{"tie", 400, 400, TeamA, true},
		{"negative scores compare plainly", -200, -600, TeamA, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teams := NewTeams("A", "B")
			teams[0].Score, teams[1].Score = tt.a, tt.b
			w, tie := Winner(teams)
			assert.Equal(t, tt.wantTie, tie)
			if !tt.wantTie {
				assert.Equal(t, tt.want, w)
			}
		})
	}
}
