package opt

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentSelect_SizeMatchesPool(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pool := scoredPopulation(4, 3, 2, 1, 0, 5, 6)

	selected, err := TournamentSelect(rng, pool, 2)
	require.NoError(t, err)
	assert.Len(t, selected, len(pool))
}

func TestTournamentSelect_WorstNeverWinsBinaryTournament(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	pool := scoredPopulation(1, 2, 3, 4, 5, 6, 7, 8)
	worst := pool[7].Individual

	for round := 0; round < 50; round++ {
		selected, err := TournamentSelect(rng, pool, 2)
		require.NoError(t, err)
		for _, ind := range selected {
			assert.False(t, ind.Equal(worst), "worst member must lose every tournament against a distinct aspirant")
		}
	}
}

func TestTournamentSelect_FullTournamentPicksBest(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	pool := scoredPopulation(3, 1, 2, 0.5)

	selected, err := TournamentSelect(rng, pool, len(pool))
	require.NoError(t, err)
	for _, ind := range selected {
		assert.True(t, ind.Equal(pool[3].Individual))
	}
}

func TestTournamentSelect_ClampsTournamentToPoolSize(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	single := scoredPopulation(0.7)
	selected, err := TournamentSelect(rng, single, 2)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.True(t, selected[0].Equal(single[0].Individual))

	small := scoredPopulation(2, 1, 3)
	selected, err = TournamentSelect(rng, small, 10)
	require.NoError(t, err)
	for _, ind := range selected {
		assert.True(t, ind.Equal(small[1].Individual), "clamped tournament covers the whole pool")
	}
}

func TestTournamentSelect_EmptyPool(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := TournamentSelect(rng, Population{}, 2)
	assert.True(t, errors.Is(err, ErrEmptyPool))
}

func TestTournamentSelect_Deterministic(t *testing.T) {
	pool := scoredPopulation(5, 4, 3, 2, 1, 0, 9, 8, 7)

	a, err := TournamentSelect(rand.New(rand.NewSource(99)), pool, 2)
	require.NoError(t, err)
	b, err := TournamentSelect(rand.New(rand.NewSource(99)), pool, 2)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSampleDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		idx := sampleDistinct(rng, 4, 4, nil)
		assert.ElementsMatch(t, []int{0, 1, 2, 3}, idx)
	}
}
