package regress

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ForestConfig configures a random-forest regressor.
type ForestConfig struct {
	Trees          int   // number of trees in the ensemble
	MaxDepth       int   // maximum tree depth
	MinSamplesLeaf int   // minimum samples per leaf
	MaxFeatures    int   // features considered per split; 0 means p/3 (min 1)
	Seed           int64 // base seed; tree i is seeded with Seed+i
}

// DefaultForestConfig returns the recommended forecasting configuration:
// a 200-tree seeded ensemble.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:          200,
		MaxDepth:       12,
		MinSamplesLeaf: 1,
		Seed:           42,
	}
}

// Forest is a random-forest regressor: bootstrap-sampled regression trees
// whose predictions are averaged. Fields are exported so a fitted forest
// survives gob round-trips through the model snapshot.
type Forest struct {
	Config ForestConfig
	Trees  []*regressionTree

	mu sync.RWMutex
}

// NewForest creates an unfitted forest with the given configuration.
func NewForest(config ForestConfig) *Forest {
	if config.Trees <= 0 {
		config.Trees = DefaultForestConfig().Trees
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultForestConfig().MaxDepth
	}
	if config.MinSamplesLeaf <= 0 {
		config.MinSamplesLeaf = 1
	}
	return &Forest{Config: config}
}

// Fit trains the ensemble. Each tree draws its own bootstrap sample and
// random feature subsets from a rand.Rand seeded with Seed+treeIndex, so
// training is reproducible regardless of how many trees fit in parallel.
func (f *Forest) Fit(features [][]float64, targets []float64) error {
	if err := validateTrainingData(features, targets); err != nil {
		return fmt.Errorf("fit forest: %w", err)
	}

	maxFeatures := f.Config.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = len(features[0]) / 3
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	params := TreeParams{
		MaxDepth:       f.Config.MaxDepth,
		MinSamplesLeaf: f.Config.MinSamplesLeaf,
		MaxFeatures:    maxFeatures,
	}

	trees := make([]*regressionTree, f.Config.Trees)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for t := 0; t < f.Config.Trees; t++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(f.Config.Seed + int64(t)))

			samples := make([]int, len(features))
			for i := range samples {
				samples[i] = rng.Intn(len(features))
			}

			trees[t] = fitTree(features, targets, samples, params, rng)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("fit forest: %w", err)
	}

	f.mu.Lock()
	f.Trees = trees
	f.mu.Unlock()

	return nil
}

// Predict returns the ensemble-mean prediction for every feature row. A
// forest that was never fitted predicts zero for every row.
func (f *Forest) Predict(features [][]float64) []float64 {
	f.mu.RLock()
	trees := f.Trees
	f.mu.RUnlock()

	predictions := make([]float64, len(features))
	if len(trees) == 0 {
		return predictions
	}

	for i, row := range features {
		var sum float64
		for _, tree := range trees {
			sum += tree.predict(row)
		}
		predictions[i] = sum / float64(len(trees))
	}

	return predictions
}

// Fitted reports whether the forest has been trained.
func (f *Forest) Fitted() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.Trees) > 0
}
