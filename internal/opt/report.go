package opt

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Report summarizes one evaluated generation
type Report struct {
	Generation     int     `json:"generation"`
	PopulationSize int     `json:"populationSize"`
	MinFitness     float64 `json:"minFitness"`
	MeanFitness    float64 `json:"meanFitness"`
	StdDev         float64 `json:"stdDev"`
}

// NewReport computes the generation statistics of pop
func NewReport(generation int, pop Population) Report {
	fitnesses := pop.Fitnesses()

	minFit := math.Inf(1)
	for _, f := range fitnesses {
		minFit = math.Min(minFit, f)
	}

	report := Report{
		Generation:     generation,
		PopulationSize: len(pop),
		MinFitness:     minFit,
	}
	if len(fitnesses) > 0 {
		report.MeanFitness = stat.Mean(fitnesses, nil)
	}
	if len(fitnesses) > 1 {
		report.StdDev = stat.StdDev(fitnesses, nil)
	}
	return report
}
