package opt

// Evaluator scores a single individual. Lower fitness is better.
//
// Implementations may keep mutable simulation state between calls, so an
// Evaluator is not assumed to be safe for concurrent use. The engine calls it
// once per individual per generation, sequentially, unless an
// EvaluatorFactory is supplied (see WithEvaluatorFactory).
type Evaluator interface {
	// Evaluate returns the fitness of ind.
	// Any returned error aborts the whole run.
	Evaluate(ind Individual) (float64, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface
type EvaluatorFunc func(ind Individual) (float64, error)

// Evaluate calls f(ind)
func (f EvaluatorFunc) Evaluate(ind Individual) (float64, error) {
	return f(ind)
}

// EvaluatorFactory creates isolated evaluator instances, one per worker,
// for parallel evaluation of a generation.
type EvaluatorFactory func() (Evaluator, error)

// Observer receives the engine's reporting hooks.
// Both methods are called synchronously from the engine goroutine.
type Observer interface {
	// OnGeneration is called once per generation after evaluation
	OnGeneration(report Report)

	// OnReplay is called every ReplayFrequency generations with the best
	// archived individual
	OnReplay(generation int, best Scored)
}

// Observers fans out hooks to several observers in order
type Observers []Observer

func (o Observers) OnGeneration(report Report) {
	for _, obs := range o {
		obs.OnGeneration(report)
	}
}

func (o Observers) OnReplay(generation int, best Scored) {
	for _, obs := range o {
		obs.OnReplay(generation, best)
	}
}
