package opt

import "math/rand"

// TwoPointCrossover swaps the segment [cut1, cut2) between two parents.
//
// Cut points satisfy 1 <= cut1 < cut2 <= len-1, so each child keeps a head
// and a tail from one parent and a non-empty middle from the other. Parents
// must have equal length of at least 3. The children never alias the parents.
func TwoPointCrossover(rng *rand.Rand, p1, p2 Individual) (c1, c2 Individual, cut1, cut2 int) {
	size := len(p1)
	cut1 = 1 + rng.Intn(size-2)
	cut2 = cut1 + 1 + rng.Intn(size-1-cut1)

	c1 = make(Individual, size)
	c2 = make(Individual, size)

	copy(c1[:cut1], p1[:cut1])
	copy(c1[cut1:cut2], p2[cut1:cut2])
	copy(c1[cut2:], p1[cut2:])

	copy(c2[:cut1], p2[:cut1])
	copy(c2[cut1:cut2], p1[cut1:cut2])
	copy(c2[cut2:], p2[cut2:])

	return c1, c2, cut1, cut2
}

// Recombine pairs consecutive members of selected and crosses each pair with
// probability pc; otherwise both parents pass through as copies.
//
// With an odd count the last member is paired with selected[0]. That pair's
// second child is dropped, so the result always has len(selected) members.
func Recombine(rng *rand.Rand, selected []Individual, pc float64) []Individual {
	offspring := make([]Individual, 0, len(selected)+1)

	for i := 0; i < len(selected); i += 2 {
		parent1 := selected[i]
		parent2 := selected[0]
		if i+1 < len(selected) {
			parent2 = selected[i+1]
		}

		var child1, child2 Individual
		if rng.Float64() < pc {
			child1, child2, _, _ = TwoPointCrossover(rng, parent1, parent2)
		} else {
			child1, child2 = parent1.Clone(), parent2.Clone()
		}
		offspring = append(offspring, child1, child2)
	}

	return offspring[:len(selected)]
}
