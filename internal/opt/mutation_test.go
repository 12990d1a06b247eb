package opt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutate_ZeroRateKeepsGenes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ind := NewIndividual(rng, 30, 3)

	out := Mutate(rng, ind, 0, 3)
	assert.True(t, out.Equal(ind))
}

func TestMutate_FullRateResamplesEveryGene(t *testing.T) {
	ind := make(Individual, 40)
	for i := range ind {
		ind[i] = Gene(i % 3)
	}

	out := Mutate(rand.New(rand.NewSource(8)), ind, 1, 3)
	require.Len(t, out, len(ind))

	// Replay the same stream: one gate draw then one uniform alphabet draw per gene
	ref := rand.New(rand.NewSource(8))
	for i := range out {
		ref.Float64()
		expected := Gene(ref.Intn(3))
		assert.Equalf(t, expected, out[i], "gene %d was not resampled from the alphabet draw", i)
	}
}

func TestMutate_ReturnsCopy(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ind := Individual{0, 0, 0, 0, 0, 0}

	out := Mutate(rng, ind, 1, 3)
	out[0] = 2
	assert.Equal(t, Individual{0, 0, 0, 0, 0, 0}, ind)
}

func TestMutatePopulation_GateSkipsGenePass(t *testing.T) {
	offspring := []Individual{{0, 1, 2}, {2, 1, 0}, {1, 1, 1}}
	before := make([]Individual, len(offspring))
	for i, ind := range offspring {
		before[i] = ind.Clone()
	}

	rng := rand.New(rand.NewSource(17))
	MutatePopulation(rng, offspring, 0, 1, 3)

	for i := range offspring {
		assert.True(t, offspring[i].Equal(before[i]))
	}

	// Only the per-individual gates were drawn
	ref := rand.New(rand.NewSource(17))
	for range offspring {
		ref.Float64()
	}
	assert.Equal(t, ref.Int63(), rng.Int63())
}

func TestMutatePopulation_AlwaysMutates(t *testing.T) {
	offspring := []Individual{{0, 0, 0, 0}, {0, 0, 0, 0}}
	original := offspring[0]

	rng := rand.New(rand.NewSource(23))
	MutatePopulation(rng, offspring, 1, 1, 3)

	ref := rand.New(rand.NewSource(23))
	for _, ind := range offspring {
		ref.Float64() // gate
		for i := range ind {
			ref.Float64()
			assert.Equal(t, Gene(ref.Intn(3)), ind[i])
		}
	}
	assert.Equal(t, Individual{0, 0, 0, 0}, original, "input genomes are not modified in place")
}
