package opt

import (
	"errors"
	"math/rand"
)

// ErrEmptyPool is returned when an operator has nothing to choose from.
// It always points at a configuration problem.
var ErrEmptyPool = errors.New("empty selection pool")

// TournamentSelect fills len(pool) slots, each with the winner of a k-way
// tournament.
//
// Every tournament draws k distinct members uniformly from pool (members may
// win several slots across tournaments) and keeps the lowest fitness. On ties
// the aspirant drawn first wins; the draw order is random, so ties resolve
// uniformly. When k exceeds the pool size it is clamped to len(pool).
//
// Returned individuals alias the pool's genomes; callers must copy before
// modifying them (Recombine does).
func TournamentSelect(rng *rand.Rand, pool Population, k int) ([]Individual, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	if k > len(pool) {
		k = len(pool)
	}
	if k < 1 {
		k = 1
	}

	selected := make([]Individual, len(pool))
	aspirants := make([]int, 0, k)
	for slot := range selected {
		aspirants = sampleDistinct(rng, len(pool), k, aspirants[:0])

		winner := aspirants[0]
		for _, idx := range aspirants[1:] {
			if pool[idx].Fitness < pool[winner].Fitness {
				winner = idx
			}
		}
		selected[slot] = pool[winner].Individual
	}

	return selected, nil
}

// sampleDistinct appends k distinct indices from [0, n) to dst, in draw order
func sampleDistinct(rng *rand.Rand, n, k int, dst []int) []int {
	for len(dst) < k {
		idx := rng.Intn(n)
		if containsIndex(dst, idx) {
			continue
		}
		dst = append(dst, idx)
	}
	return dst
}

func containsIndex(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
