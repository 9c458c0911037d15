package pool

import (
	"math/rand/v2"
	"time"

	"github.com/abhisek/rhythmiz/internal/catalog"
)

// Selector draws patterns from a weighted pool using cumulative-weight
// sampling. The random source is injectable for deterministic tests.
type Selector struct {
	rnd *rand.Rand
}

// NewSelector creates a selector. A nil source is seeded from the clock.
func NewSelector(rnd *rand.Rand) *Selector {
	if rnd == nil {
		now := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(now, now>>32))
	}
	return &Selector{rnd: rnd}
}

// Pick draws one entry proportionally to its weight. ok is false when the
// pool is empty or carries no positive weight; the caller must treat that
// as the stalled condition.
func (s *Selector) Pick(entries []Entry) (catalog.Pattern, bool) {
	total := 0.0
	for _, e := range entries {
		total += e.Weight
	}
	if total <= 0 {
		return catalog.Pattern{}, false
	}

	r := s.rnd.Float64() * total
	for _, e := range entries {
		r -= e.Weight
		if r <= 0 {
			return e.Pattern, true
		}
	}
	// Floating point residue: fall back to the last entry.
	return entries[len(entries)-1].Pattern, true
}
