package question

import "math/rand/v2"

// Picker returns a uniformly distributed index in [0, n).
type Picker interface {
	IntN(n int) int
}

type defaultPicker struct{}

func (defaultPicker) IntN(n int) int { return rand.IntN(n) }

// SelectorOptions tunes exam selection.
type SelectorOptions struct {
	PerType int
	Picker  Picker
}

// Selector draws the questions that make up one exam.
type Selector struct {
	perType int
	picker  Picker
}

// NewSelector builds a Selector, filling unset options with defaults.
func NewSelector(opts SelectorOptions) *Selector {
	perType := opts.PerType
	if perType <= 0 {
		perType = DefaultPerType
	}
	picker := opts.Picker
	if picker == nil {
		picker = defaultPicker{}
	}
	return &Selector{perType: perType, picker: picker}
}

// Select returns up to perType MCQs followed by up to perType challenges.
//
// When both pools already fit the target nothing is randomized and the
// result is the MCQ pool followed by the challenge pool, in bank order.
// Otherwise each pool is sampled without replacement; a pool smaller than
// the target contributes all of its items, in draw order.
func (s *Selector) Select(pools Pools) []Question {
	if len(pools.MCQ) <= s.perType && len(pools.Challenges) <= s.perType {
		out := make([]Question, 0, len(pools.MCQ)+len(pools.Challenges))
		out = append(out, pools.MCQ...)
		return append(out, pools.Challenges...)
	}

	mcq := s.draw(pools.MCQ)
	challenges := s.draw(pools.Challenges)
	return append(mcq, challenges...)
}

func (s *Selector) draw(pool []Question) []Question {
	remaining := make([]Question, len(pool))
	copy(remaining, pool)

	n := min(s.perType, len(remaining))
	picked := make([]Question, 0, n)
	for range n {
		i := s.picker.IntN(len(remaining))
		picked = append(picked, remaining[i])
		remaining = append(remaining[:i], remaining[i+1:]...)
	}
	return picked
}
