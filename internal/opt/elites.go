package opt

import (
	"fmt"
	"sort"
)

// SplitElites sorts pop ascending by fitness and returns the first k entries
// as the hall of fame and the remainder as the breeding pool.
//
// The sort is stable, so equal fitnesses keep their population order. The
// input slice is not reordered. k must be smaller than len(pop), otherwise
// nothing would be left to select from.
func SplitElites(pop Population, k int) (elites, rest Population, err error) {
	if k < 0 || k >= len(pop) {
		return nil, nil, fmt.Errorf("%w: hall of fame size %d, population size %d", ErrEmptyPool, k, len(pop))
	}

	sorted := make(Population, len(pop))
	copy(sorted, pop)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fitness < sorted[j].Fitness
	})

	return sorted[:k:k], sorted[k:], nil
}

// Best returns the lowest-fitness entry, first one wins on ties
func (p Population) Best() (Scored, bool) {
	if len(p) == 0 {
		return Scored{}, false
	}
	best := p[0]
	for _, s := range p[1:] {
		if s.Fitness < best.Fitness {
			best = s
		}
	}
	return best, true
}
