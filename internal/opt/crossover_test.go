package opt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoPointCrossover_SegmentsComeFromParents(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, length := range []int{3, 4, 5, 10, 200} {
		p1 := make(Individual, length) // all zeros
		p2 := make(Individual, length)
		for i := range p2 {
			p2[i] = 1
		}

		for trial := 0; trial < 200; trial++ {
			c1, c2, cut1, cut2 := TwoPointCrossover(rng, p1, p2)

			require.Len(t, c1, length)
			require.Len(t, c2, length)
			require.True(t, 1 <= cut1 && cut1 < cut2 && cut2 <= length-1,
				"cut points out of range: len=%d cut1=%d cut2=%d", length, cut1, cut2)

			for i := 0; i < length; i++ {
				inMiddle := i >= cut1 && i < cut2
				if inMiddle {
					assert.Equal(t, p2[i], c1[i])
					assert.Equal(t, p1[i], c2[i])
				} else {
					assert.Equal(t, p1[i], c1[i])
					assert.Equal(t, p2[i], c2[i])
				}
			}
		}
	}
}

func TestTwoPointCrossover_CoversAllCutPairs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := map[[2]int]bool{}
	p := make(Individual, 5)

	for i := 0; i < 2000; i++ {
		_, _, cut1, cut2 := TwoPointCrossover(rng, p, p)
		seen[[2]int{cut1, cut2}] = true
	}

	// cut1 in [1,3], cut2 in [cut1+1,4]: (1,2) (1,3) (1,4) (2,3) (2,4) (3,4)
	assert.Len(t, seen, 6)
}

func TestTwoPointCrossover_ChildrenDoNotAliasParents(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p1 := Individual{0, 0, 0, 0}
	p2 := Individual{1, 1, 1, 1}

	c1, c2, _, _ := TwoPointCrossover(rng, p1, p2)
	c1[0], c2[0] = 2, 2

	assert.Equal(t, Gene(0), p1[0])
	assert.Equal(t, Gene(1), p2[0])
}

func TestRecombine_PassThroughCopies(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	shared := Individual{0, 1, 2, 0}
	selected := []Individual{shared, shared}

	offspring := Recombine(rng, selected, 0)
	require.Len(t, offspring, 2)
	assert.True(t, offspring[0].Equal(shared))
	assert.True(t, offspring[1].Equal(shared))

	offspring[0][0] = 2
	assert.Equal(t, Gene(0), offspring[1][0], "siblings must not share storage")
	assert.Equal(t, Gene(0), shared[0], "parents must not be modified")
}

func TestRecombine_OddPoolWrapsToFirst(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	first := Individual{0, 0, 0, 0, 0}
	middle := Individual{1, 1, 1, 1, 1}
	last := Individual{2, 2, 2, 2, 2}

	offspring := Recombine(rng, []Individual{first, middle, last}, 1)
	require.Len(t, offspring, 3)

	// The final child comes from last x first: only genes 0 and 2 may appear
	for _, g := range offspring[2] {
		assert.Contains(t, []Gene{0, 2}, g)
	}
	assert.Equal(t, Gene(2), offspring[2][0], "head of child1 comes from the unpaired parent")
	assert.Contains(t, offspring[2], Gene(0), "middle segment comes from the first selected individual")
}

func TestRecombine_SinglePool(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	only := Individual{2, 1, 0}

	offspring := Recombine(rng, []Individual{only}, 1)
	require.Len(t, offspring, 1)
	assert.True(t, offspring[0].Equal(only), "crossing an individual with itself yields itself")
}

func TestRecombine_Empty(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	assert.Empty(t, Recombine(rng, nil, 0.9))
}
