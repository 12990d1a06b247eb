package opt

import "math/rand"

// Gene is one discrete symbol of a genome, drawn from [0, alphabet).
// For the mountain car environment it is an action code.
type Gene int

// Individual is a fixed-length sequence of genes.
// Individuals are value-like: operators never share the backing array
// between parents and children.
type Individual []Gene

// Clone returns a copy that does not alias ind
func (ind Individual) Clone() Individual {
	out := make(Individual, len(ind))
	copy(out, ind)
	return out
}

// Equal reports whether both individuals carry the same genes
func (ind Individual) Equal(other Individual) bool {
	if len(ind) != len(other) {
		return false
	}
	for i := range ind {
		if ind[i] != other[i] {
			return false
		}
	}
	return true
}

// Ints converts the genome to a plain int slice (persistence format)
func (ind Individual) Ints() []int {
	out := make([]int, len(ind))
	for i, g := range ind {
		out[i] = int(g)
	}
	return out
}

// FromInts builds an individual from a plain int slice
func FromInts(genes []int) Individual {
	out := make(Individual, len(genes))
	for i, g := range genes {
		out[i] = Gene(g)
	}
	return out
}

// Scored pairs an individual with the fitness it received this generation
type Scored struct {
	Individual Individual `json:"individual"`
	Fitness    float64    `json:"fitness"`
}

// Population is an ordered collection of scored individuals
type Population []Scored

// Individuals returns the genomes in population order
func (p Population) Individuals() []Individual {
	out := make([]Individual, len(p))
	for i, s := range p {
		out[i] = s.Individual
	}
	return out
}

// Fitnesses returns the fitness vector in population order
func (p Population) Fitnesses() []float64 {
	out := make([]float64, len(p))
	for i, s := range p {
		out[i] = s.Fitness
	}
	return out
}

// NewIndividual draws length independent uniform genes from [0, alphabet).
// It consumes exactly length draws from rng.
func NewIndividual(rng *rand.Rand, length, alphabet int) Individual {
	ind := make(Individual, length)
	for i := range ind {
		ind[i] = Gene(rng.Intn(alphabet))
	}
	return ind
}

// NewPopulation creates n random individuals
func NewPopulation(rng *rand.Rand, n, length, alphabet int) []Individual {
	pop := make([]Individual, n)
	for i := range pop {
		pop[i] = NewIndividual(rng, length, alphabet)
	}
	return pop
}
