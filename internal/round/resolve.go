package round

import "github.com/playperu/pittrivia/internal/trivia"

// ResolveInput is everything the resolver needs about the game at the moment a
// question closes.
type ResolveInput struct {
	Board       trivia.Board
	Teams       [2]trivia.Team
	Ref         trivia.QuestionRef
	Resolution  Resolution
	CurrentTurn trivia.TeamID
}

// ScoreDelta is a single score change, reported so a UI can sequence its
// animations (award first, then the steal).
type ScoreDelta struct {
	Team  trivia.TeamID `json:"team"`
	Delta int           `json:"delta"`
}

// Outcome is the new game state after a question was resolved.
type Outcome struct {
	Board    trivia.Board   `json:"-"`
	Teams    [2]trivia.Team `json:"teams"`
	NextTurn trivia.TeamID  `json:"nextTurn"`
	GameOver bool           `json:"gameOver"`
	Points   int            `json:"points"`
	Award    *ScoreDelta    `json:"award,omitempty"`
	Steal    *ScoreDelta    `json:"steal,omitempty"`
}

// Resolve applies a closed question to the board and the teams. The inputs are
// not modified. It returns false, with a zero Outcome, when the referenced
// cell does not exist or is already solved, or when the attribution names a
// team other than 0 or 1.
//
// The attributed team gains the question's points. When the Pit was active and
// the attributed team is the one that opened it, the other team loses the same
// amount. The cell is marked solved whoever answered, and the turn always
// passes to the other team.
func Resolve(in ResolveInput) (Outcome, bool) {
	ci, qi, ok := in.Board.Find(in.Ref)
	if !ok || in.Board[ci].Questions[qi].IsSolved {
		return Outcome{}, false
	}
	attr := in.Resolution.Attribution
	if attr != nil && !attr.Valid() {
		return Outcome{}, false
	}

	board := in.Board.Clone()
	teams := in.Teams
	points := board[ci].Questions[qi].Points
	out := Outcome{Points: points}

	if attr != nil {
		teams[*attr].Score += points
		out.Award = &ScoreDelta{Team: *attr, Delta: points}

		owner := in.Resolution.PitOwner
		if in.Resolution.PitActive && owner != nil && *owner == *attr {
			victim := owner.Other()
			teams[victim].Score -= points
			out.Steal = &ScoreDelta{Team: victim, Delta: -points}
		}
	}

	board[ci].Questions[qi].IsSolved = true

	turn := in.CurrentTurn
	if !turn.Valid() {
		turn = trivia.TeamA
	}
	teams[turn].TurnsTaken++

	out.Board = board
	out.Teams = teams
	out.NextTurn = turn.Other()
	out.GameOver = board.Complete()
	return out, true
}
