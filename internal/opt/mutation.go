package opt

import "math/rand"

// Mutate returns a copy of ind where each gene is independently resampled
// uniformly from [0, alphabet) with probability indpb. A resampled gene may
// land on its previous value.
func Mutate(rng *rand.Rand, ind Individual, indpb float64, alphabet int) Individual {
	out := ind.Clone()
	for i := range out {
		if rng.Float64() < indpb {
			out[i] = Gene(rng.Intn(alphabet))
		}
	}
	return out
}

// MutatePopulation gates Mutate per individual: with probability 1-pm an
// individual is kept as is and the per-gene pass is skipped entirely.
// offspring is updated in place and returned.
func MutatePopulation(rng *rand.Rand, offspring []Individual, pm, indpb float64, alphabet int) []Individual {
	for i, ind := range offspring {
		if rng.Float64() < pm {
			offspring[i] = Mutate(rng, ind, indpb, alphabet)
		}
	}
	return offspring
}
