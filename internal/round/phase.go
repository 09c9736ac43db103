package round

import "fmt"

// Phase is the state of a single question while it is being played.
type Phase int

const (
	PhasePreQuestion Phase = iota
	PhaseAnswering
	PhaseShowAnswer
	PhaseSelectTeam
	PhaseClosed
)

var phaseNames = [...]string{
	PhasePreQuestion: "preQuestion",
	PhaseAnswering:   "answering",
	PhaseShowAnswer:  "showAnswer",
	PhaseSelectTeam:  "selectTeam",
	PhaseClosed:      "closed",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("invalid phase %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}
