package regress

import (
	"math/rand"
	"sort"
)

// treeNode is one node of a regression tree. Fields are exported so a
// fitted tree survives gob round-trips through the model snapshot.
type treeNode struct {
	Feature   int
	Threshold float64
	Left      *treeNode
	Right     *treeNode
	Value     float64
	Leaf      bool
}

// TreeParams bound the growth of a single regression tree.
type TreeParams struct {
	MaxDepth       int
	MinSamplesLeaf int
	MaxFeatures    int // number of features considered per split
}

// regressionTree is a CART-style regression tree fitted on variance
// reduction.
type regressionTree struct {
	Root *treeNode
}

// fitTree grows a regression tree on the given sample indices. The rng
// drives the per-split feature subsampling.
func fitTree(features [][]float64, targets []float64, samples []int, params TreeParams, rng *rand.Rand) *regressionTree {
	root := growNode(features, targets, samples, params, rng, 0)
	return &regressionTree{Root: root}
}

func growNode(features [][]float64, targets []float64, samples []int, params TreeParams, rng *rand.Rand, depth int) *treeNode {
	mean := meanTarget(targets, samples)

	if depth >= params.MaxDepth || len(samples) < 2*params.MinSamplesLeaf || isConstant(targets, samples) {
		return &treeNode{Leaf: true, Value: mean}
	}

	feature, threshold, ok := bestSplit(features, targets, samples, params, rng)
	if !ok {
		return &treeNode{Leaf: true, Value: mean}
	}

	var left, right []int
	for _, idx := range samples {
		if features[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	if len(left) < params.MinSamplesLeaf || len(right) < params.MinSamplesLeaf {
		return &treeNode{Leaf: true, Value: mean}
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growNode(features, targets, left, params, rng, depth+1),
		Right:     growNode(features, targets, right, params, rng, depth+1),
	}
}

// bestSplit searches a random feature subset for the split with the
// lowest weighted sum of squared errors.
func bestSplit(features [][]float64, targets []float64, samples []int, params TreeParams, rng *rand.Rand) (feature int, threshold float64, ok bool) {
	numFeatures := len(features[0])
	candidates := sampleFeatures(numFeatures, params.MaxFeatures, rng)

	bestSSE := sumSquaredError(targets, samples)
	found := false

	type pair struct {
		value  float64
		target float64
	}
	pairs := make([]pair, len(samples))

	for _, f := range candidates {
		for i, idx := range samples {
			pairs[i] = pair{value: features[idx][f], target: targets[idx]}
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].value < pairs[j].value })

		// Prefix sums let every split position be scored in one pass.
		var leftSum, leftSqSum float64
		var totalSum, totalSqSum float64
		for _, p := range pairs {
			totalSum += p.target
			totalSqSum += p.target * p.target
		}

		for i := 0; i < len(pairs)-1; i++ {
			leftSum += pairs[i].target
			leftSqSum += pairs[i].target * pairs[i].target

			// Only split between distinct feature values.
			if pairs[i].value == pairs[i+1].value {
				continue
			}

			nLeft := float64(i + 1)
			nRight := float64(len(pairs) - i - 1)

			rightSum := totalSum - leftSum
			rightSqSum := totalSqSum - leftSqSum

			sse := (leftSqSum - leftSum*leftSum/nLeft) + (rightSqSum - rightSum*rightSum/nRight)
			if sse < bestSSE {
				bestSSE = sse
				feature = f
				threshold = (pairs[i].value + pairs[i+1].value) / 2
				found = true
			}
		}
	}

	return feature, threshold, found
}

// sampleFeatures picks a random subset of feature indices without
// replacement.
func sampleFeatures(numFeatures, maxFeatures int, rng *rand.Rand) []int {
	if maxFeatures <= 0 || maxFeatures >= numFeatures {
		all := make([]int, numFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}

	perm := rng.Perm(numFeatures)
	return perm[:maxFeatures]
}

// predict walks the tree to the matching leaf.
func (t *regressionTree) predict(row []float64) float64 {
	node := t.Root
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func meanTarget(targets []float64, samples []int) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, idx := range samples {
		sum += targets[idx]
	}
	return sum / float64(len(samples))
}

func isConstant(targets []float64, samples []int) bool {
	for _, idx := range samples[1:] {
		if targets[idx] != targets[samples[0]] {
			return false
		}
	}
	return true
}

func sumSquaredError(targets []float64, samples []int) float64 {
	mean := meanTarget(targets, samples)
	var sse float64
	for _, idx := range samples {
		d := targets[idx] - mean
		sse += d * d
	}
	return sse
}
