package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/mountaincarga/internal/config"
)

// gaFlags are the engine and environment flags shared by run and resume.
// A flag only overrides the config file when it was set explicitly.
type gaFlags struct {
	popSize      int
	generations  int
	genomeLength int
	hallOfFame   int
	tournament   int
	workers      int
	replayEvery  int
	patience     int

	cxProb      float64
	mutProb     float64
	geneMutProb float64
	minDelta    float64

	seed    int64
	envSeed int64

	replayBackend string
	replayDelay   time.Duration
	storeBackend  string
	dataDir       string
	noSave        bool
}

func (f *gaFlags) register(cmd *cobra.Command) {
	defaults := config.Default()
	ga := defaults.GA

	fs := cmd.Flags()
	fs.IntVar(&f.popSize, "pop", ga.PopulationSize, "Population size")
	fs.IntVar(&f.generations, "generations", ga.MaxGenerations, "Max generations")
	fs.IntVar(&f.genomeLength, "genome-length", ga.GenomeLength, "Actions per individual")
	fs.IntVar(&f.hallOfFame, "hof", ga.HallOfFameSize, "Hall of fame size")
	fs.IntVar(&f.tournament, "tournament", ga.TournamentSize, "Tournament size")
	fs.IntVar(&f.workers, "workers", ga.Workers, "Parallel evaluation workers")
	fs.IntVar(&f.replayEvery, "replay-every", ga.ReplayFrequency, "Replay the best individual every N generations (0 = never)")
	fs.IntVar(&f.patience, "patience", 0, "Stop after N generations without improvement (0 = disabled)")

	fs.Float64Var(&f.cxProb, "cx-prob", ga.CrossoverProb, "Crossover probability")
	fs.Float64Var(&f.mutProb, "mut-prob", ga.MutationProb, "Mutation probability per individual")
	fs.Float64Var(&f.geneMutProb, "gene-mut-prob", 0, "Mutation probability per gene (0 = 1/genome-length)")
	fs.Float64Var(&f.minDelta, "min-delta", 1e-6, "Minimum improvement that resets patience")

	fs.Int64Var(&f.seed, "seed", ga.Seed, "Random seed")
	fs.Int64Var(&f.envSeed, "env-seed", defaults.Environment.Seed, "Environment reset seed")

	fs.StringVar(&f.replayBackend, "replay", defaults.Environment.ReplayBackend, "Replay backend (terminal, log, none)")
	fs.DurationVar(&f.replayDelay, "replay-delay", defaults.Environment.ReplayDelay(), "Pause between replayed steps")
	fs.StringVar(&f.storeBackend, "store", defaults.Store.Backend, "Store backend (fs, sqlite)")
	fs.StringVar(&f.dataDir, "data-dir", defaults.Store.DataDir, "Base directory for stored solutions")
	fs.BoolVar(&f.noSave, "no-save", false, "Do not persist the best solution")
}

// apply copies explicitly set flags onto a copy of cfg and validates it.
func (f *gaFlags) apply(cmd *cobra.Command, base *config.Config) (*config.Config, error) {
	cfg := *base
	fs := cmd.Flags()

	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}

	set("pop", func() { cfg.GA.PopulationSize = f.popSize })
	set("generations", func() { cfg.GA.MaxGenerations = f.generations })
	set("genome-length", func() { cfg.GA.GenomeLength = f.genomeLength })
	set("hof", func() { cfg.GA.HallOfFameSize = f.hallOfFame })
	set("tournament", func() { cfg.GA.TournamentSize = f.tournament })
	set("workers", func() { cfg.GA.Workers = f.workers })
	set("replay-every", func() { cfg.GA.ReplayFrequency = f.replayEvery })
	set("cx-prob", func() { cfg.GA.CrossoverProb = f.cxProb })
	set("mut-prob", func() { cfg.GA.MutationProb = f.mutProb })
	set("gene-mut-prob", func() { cfg.GA.GeneMutationProb = f.geneMutProb })
	set("seed", func() { cfg.GA.Seed = f.seed })
	set("env-seed", func() { cfg.Environment.Seed = f.envSeed })
	set("patience", func() {
		cfg.Convergence.Enabled = f.patience > 0
		cfg.Convergence.Patience = f.patience
	})
	set("min-delta", func() { cfg.Convergence.MinDelta = f.minDelta })
	set("replay", func() { cfg.Environment.ReplayBackend = f.replayBackend })
	set("replay-delay", func() { cfg.Environment.ReplayDelayMs = int(f.replayDelay / time.Millisecond) })
	set("store", func() { cfg.Store.Backend = f.storeBackend })
	set("data-dir", func() { cfg.Store.DataDir = f.dataDir })

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
