// Package trivia defines the core domain types of a two-team trivia board game.
// It does no I/O.
package trivia

// Point tiers a question can be worth on the board.
const (
	Tier200 = 200
	Tier400 = 400
	Tier600 = 600
)

// Tiers lists the point tiers in board order.
var Tiers = []int{Tier200, Tier400, Tier600}

type Question struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Points       int      `json:"points"`
	IsSolved     bool     `json:"isSolved"`
}

// Valid reports whether the question has at least two options and a correct
// index that points into them.
func (q Question) Valid() bool {
	return len(q.Options) >= 2 && q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options)
}

// CorrectOption returns the text of the correct option, or "" for an invalid question.
func (q Question) CorrectOption() string {
	if !q.Valid() {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

func (q Question) clone() Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

type Category struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	NameAr    string     `json:"nameAr,omitempty"`
	Enabled   bool       `json:"enabled"`
	MainKey   string     `json:"mainKey,omitempty"`
	SortOrder int        `json:"sortOrder"`
	ImageURL  string     `json:"imageUrl,omitempty"`
	Questions []Question `json:"questions"`
}

// DisplayName returns the Arabic name for "ar" when one is set.
func (c Category) DisplayName(lang string) string {
	if lang == "ar" && c.NameAr != "" {
		return c.NameAr
	}
	return c.Name
}

// Clone returns a deep copy of the category.
func (c Category) Clone() Category {
	qs := make([]Question, len(c.Questions))
	for i, q := range c.Questions {
		qs[i] = q.clone()
	}
	c.Questions = qs
	return c
}

// QuestionRef points at one cell of the board.
type QuestionRef struct {
	CategoryID string `json:"categoryId"`
	QuestionID string `json:"questionId"`
}

// Board is the ordered set of categories in play for one game.
type Board []Category

// Find returns the category and question indexes of ref.
func (b Board) Find(ref QuestionRef) (ci, qi int, ok bool) {
	for i := range b {
		if b[i].ID != ref.CategoryID {
			continue
		}
		for j := range b[i].Questions {
			if b[i].Questions[j].ID == ref.QuestionID {
				return i, j, true
			}
		}
		return 0, 0, false
	}
	return 0, 0, false
}

// Question returns a copy of the question referenced by ref.
func (b Board) Question(ref QuestionRef) (Question, bool) {
	ci, qi, ok := b.Find(ref)
	if !ok {
		return Question{}, false
	}
	return b[ci].Questions[qi].clone(), true
}

// CellCount returns the number of cells actually present on the board.
func (b Board) CellCount() int {
	n := 0
	for _, c := range b {
		n += len(c.Questions)
	}
	return n
}

// SolvedCount returns how many cells have been played.
func (b Board) SolvedCount() int {
	n := 0
	for _, c := range b {
		for _, q := range c.Questions {
			if q.IsSolved {
				n++
			}
		}
	}
	return n
}

// Complete reports whether every existing cell is solved. Categories may hold
// fewer than six cells, so only the cells present are considered.
func (b Board) Complete() bool {
	for _, c := range b {
		for _, q := range c.Questions {
			if !q.IsSolved {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	out := make(Board, len(b))
	for i, c := range b {
		out[i] = c.Clone()
	}
	return out
}
