package round

import (
	"fmt"

	"github.com/playperu/pittrivia/internal/trivia"
)

type ActionKind string

const (
	ActionUsePit      ActionKind = "use_pit"
	ActionSkipPit     ActionKind = "skip_pit"
	ActionShowOptions ActionKind = "show_options"
	ActionTwoAnswers  ActionKind = "two_answers"
	ActionAnswered    ActionKind = "answered"
	ActionTick        ActionKind = "tick"
	ActionTimeUp      ActionKind = "time_up"
	ActionReveal      ActionKind = "reveal"
	ActionAttribute   ActionKind = "attribute"
)

// Action is one input to the question state machine. Team is only read by
// ActionAttribute, where nil means nobody answered correctly.
type Action struct {
	Kind ActionKind
	Team *trivia.TeamID
}

// Attribute builds the attribution action for team (nil for "no one").
func Attribute(team *trivia.TeamID) Action {
	return Action{Kind: ActionAttribute, Team: team}
}

// ParseActionKind validates a kind received from a client. Timer kinds are
// internal and rejected here.
func ParseActionKind(s string) (ActionKind, error) {
	switch k := ActionKind(s); k {
	case ActionUsePit, ActionSkipPit, ActionShowOptions, ActionTwoAnswers,
		ActionAnswered, ActionReveal, ActionAttribute:
		return k, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}
