package opt

import (
	"fmt"

	"github.com/sourcegraph/conc/pool"
)

// evaluatePopulation scores every individual of one generation.
//
// With a single evaluator the calls are sequential and in population order.
// With several, worker w owns evaluator w and the individuals at indices
// w, w+len(evals), ...; results are written by index so the population order
// does not depend on scheduling.
func evaluatePopulation(evals []Evaluator, generation int, individuals []Individual) (Population, error) {
	pop := make(Population, len(individuals))

	if len(evals) == 1 {
		for i, ind := range individuals {
			fitness, err := evals[0].Evaluate(ind)
			if err != nil {
				return nil, evalError(generation, i, err)
			}
			pop[i] = Scored{Individual: ind, Fitness: fitness}
		}
		return pop, nil
	}

	p := pool.New().WithMaxGoroutines(len(evals)).WithErrors().WithFirstError()
	for w, ev := range evals {
		p.Go(func() error {
			for i := w; i < len(individuals); i += len(evals) {
				fitness, err := ev.Evaluate(individuals[i])
				if err != nil {
					return evalError(generation, i, err)
				}
				pop[i] = Scored{Individual: individuals[i], Fitness: fitness}
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return pop, nil
}

func evalError(generation, index int, err error) error {
	return fmt.Errorf("evaluate individual %d of generation %d: %w", index, generation, err)
}
