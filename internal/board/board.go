// Package board builds the fixed-shape game board from the caller's chosen
// categories.
package board

import (
	"math/rand/v2"

	"github.com/playperu/pittrivia/internal/trivia"
)

// PerTier is how many questions of each point tier a full category holds.
const PerTier = 2

// CellsPerCategory is the number of cells in a full category column.
const CellsPerCategory = PerTier * 3

// Source supplies the randomness used for sampling. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a seeded source, mostly useful for reproducible boards.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource returns the process-wide random source.
func DefaultSource() Source { return globalSource{} }

// Build returns up to count categories, in the order given, each holding the
// questions picked for play. Inputs are not modified.
//
// A category with at least two questions in every tier gets exactly two per
// tier. Otherwise six questions are drawn from the whole bank and their points
// are forced by position: 200, 200, 400, 400, 600, 600. A bank smaller than six
// yields a shorter column.
func Build(src []trivia.Category, count int, rnd Source) []trivia.Category {
	if rnd == nil {
		rnd = DefaultSource()
	}
	if count > len(src) || count < 0 {
		count = len(src)
	}

	out := make([]trivia.Category, 0, count)
	for _, cat := range src[:count] {
		out = append(out, buildCategory(cat, rnd))
	}
	return out
}

func buildCategory(cat trivia.Category, rnd Source) trivia.Category {
	c := cat.Clone()
	for i := range c.Questions {
		c.Questions[i].IsSolved = false
	}

	buckets := make(map[int][]trivia.Question, len(trivia.Tiers))
	for _, q := range c.Questions {
		buckets[q.Points] = append(buckets[q.Points], q)
	}

	if tiersFilled(buckets) {
		chosen := make([]trivia.Question, 0, CellsPerCategory)
		for _, tier := range trivia.Tiers {
			chosen = append(chosen, pickN(buckets[tier], PerTier, rnd)...)
		}
		c.Questions = chosen
		return c
	}

	chosen := pickN(c.Questions, CellsPerCategory, rnd)
	for i := range chosen {
		chosen[i].Points = tierForPosition(i)
	}
	c.Questions = chosen
	return c
}

func tiersFilled(buckets map[int][]trivia.Question) bool {
	for _, tier := range trivia.Tiers {
		if len(buckets[tier]) < PerTier {
			return false
		}
	}
	return true
}

func tierForPosition(i int) int {
	return trivia.Tiers[i/PerTier]
}

// pickN shuffles a copy of qs with Fisher–Yates and returns the first n.
func pickN(qs []trivia.Question, n int, rnd Source) []trivia.Question {
	cp := make([]trivia.Question, len(qs))
	copy(cp, qs)
	for i := len(cp) - 1; i > 0; i-- {
		j := rnd.IntN(i + 1)
		cp[i], cp[j] = cp[j], cp[i]
	}
	if n > len(cp) {
		n = len(cp)
	}
	return cp[:n]
}
