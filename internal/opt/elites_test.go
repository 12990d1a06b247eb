package opt

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredPopulation(fitnesses ...float64) Population {
	pop := make(Population, len(fitnesses))
	for i, f := range fitnesses {
		pop[i] = Scored{Individual: Individual{Gene(i % 3), Gene(i / 3 % 3), Gene(i / 9 % 3)}, Fitness: f}
	}
	return pop
}

func TestSplitElites_SortedAscending(t *testing.T) {
	pop := scoredPopulation(5, 1, 4, 0.5, 3, 2)

	elites, rest, err := SplitElites(pop, 2)
	require.NoError(t, err)
	require.Len(t, elites, 2)
	require.Len(t, rest, 4)

	assert.Equal(t, []float64{0.5, 1}, elites.Fitnesses())
	assert.True(t, sort.Float64sAreSorted(append(elites.Fitnesses(), rest.Fitnesses()...)))
}

func TestSplitElites_MultisetPreserved(t *testing.T) {
	pop := scoredPopulation(2, 2, 1, 7, 1, 0)

	elites, rest, err := SplitElites(pop, 3)
	require.NoError(t, err)

	combined := append(append(Population{}, elites...), rest...)
	assert.ElementsMatch(t, pop, combined)
}

func TestSplitElites_StableOnTies(t *testing.T) {
	pop := Population{
		{Individual: Individual{0, 0, 0}, Fitness: 1},
		{Individual: Individual{1, 1, 1}, Fitness: 0},
		{Individual: Individual{2, 2, 2}, Fitness: 1},
		{Individual: Individual{0, 1, 2}, Fitness: 0},
	}

	elites, rest, err := SplitElites(pop, 3)
	require.NoError(t, err)

	assert.True(t, elites[0].Individual.Equal(Individual{1, 1, 1}))
	assert.True(t, elites[1].Individual.Equal(Individual{0, 1, 2}))
	assert.True(t, elites[2].Individual.Equal(Individual{0, 0, 0}))
	assert.True(t, rest[0].Individual.Equal(Individual{2, 2, 2}))
}

func TestSplitElites_DoesNotReorderInput(t *testing.T) {
	pop := scoredPopulation(3, 2, 1)
	_, _, err := SplitElites(pop, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 2, 1}, pop.Fitnesses())
}

func TestSplitElites_AppendToElitesDoesNotClobberRest(t *testing.T) {
	pop := scoredPopulation(3, 2, 1, 0)
	elites, rest, err := SplitElites(pop, 2)
	require.NoError(t, err)

	restBefore := rest.Fitnesses()
	_ = append(elites, Scored{Fitness: 99})
	assert.Equal(t, restBefore, rest.Fitnesses())
}

func TestSplitElites_RejectsFullArchive(t *testing.T) {
	pop := scoredPopulation(1, 2, 3)

	_, _, err := SplitElites(pop, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyPool))

	_, _, err = SplitElites(pop, 4)
	assert.Error(t, err)
}
