package trivia

import "fmt"

// TeamID identifies one of the two teams in a game.
type TeamID int

const (
	TeamA TeamID = 0
	TeamB TeamID = 1
)

// Valid reports whether id is 0 or 1.
func (id TeamID) Valid() bool { return id == TeamA || id == TeamB }

// Other returns the opposing team.
func (id TeamID) Other() TeamID {
	if id == TeamA {
		return TeamB
	}
	return TeamA
}

type Perk string

const (
	PerkShowOptions Perk = "show_options"
	PerkTwoAnswers  Perk = "two_answers"
	PerkThePit      Perk = "the_pit"
)

// ParsePerk maps a wire name to a Perk.
func ParsePerk(s string) (Perk, error) {
	switch p := Perk(s); p {
	case PerkShowOptions, PerkTwoAnswers, PerkThePit:
		return p, nil
	}
	return "", fmt.Errorf("unknown perk %q", s)
}

// PerksUsed records which once-per-game perks a team has spent.
// Entries flip to true exactly once and never reset within a game.
type PerksUsed struct {
	ShowOptions bool `json:"show_options"`
	TwoAnswers  bool `json:"two_answers"`
	ThePit      bool `json:"the_pit"`
}

func (p PerksUsed) Used(perk Perk) bool {
	switch perk {
	case PerkShowOptions:
		return p.ShowOptions
	case PerkTwoAnswers:
		return p.TwoAnswers
	case PerkThePit:
		return p.ThePit
	}
	return false
}

// Mark spends perk. It returns false if the perk was already spent.
func (p *PerksUsed) Mark(perk Perk) bool {
	if p.Used(perk) {
		return false
	}
	switch perk {
	case PerkShowOptions:
		p.ShowOptions = true
	case PerkTwoAnswers:
		p.TwoAnswers = true
	case PerkThePit:
		p.ThePit = true
	default:
		return false
	}
	return true
}

type Team struct {
	ID         TeamID    `json:"id"`
	Name       string    `json:"name"`
	Score      int       `json:"score"`
	TurnsTaken int       `json:"turnsTaken"`
	Perks      PerksUsed `json:"perksUsed"`
}

// NewTeams creates the two teams of a fresh game.
func NewTeams(nameA, nameB string) [2]Team {
	return [2]Team{
		{ID: TeamA, Name: nameA},
		{ID: TeamB, Name: nameB},
	}
}

// Winner compares final scores. tie is true when the scores are equal, in
// which case winner is meaningless. Negative scores compare as plain integers.
func Winner(teams [2]Team) (winner TeamID, tie bool) {
	switch {
	case teams[0].Score > teams[1].Score:
		return TeamA, false
	case teams[1].Score > teams[0].Score:
		return TeamB, false
	}
	return TeamA, true
}
