package services

import (
	"math"
	"math/rand"
	"sort"
)

// Small regression-tree ensemble backing the iterative imputation
// strategy. Trees split on variance reduction; the forest prediction is
// the mean over trees fit on bootstrap samples.

const (
	forestTrees   = 10
	forestDepth   = 6
	forestMinLeaf = 2
	forestSeed    = 42
)

type treeNode struct {
	feature   int
	threshold float64
	value     float64
	left      *treeNode
	right     *treeNode
}

func (n *treeNode) leaf() bool { return n.left == nil }

func (n *treeNode) predict(x []float64) float64 {
	for !n.leaf() {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

type forest struct {
	trees []*treeNode
}

// fitForest trains the ensemble on X (complete rows, no NaN) against y.
func fitForest(X [][]float64, y []float64, rng *rand.Rand) *forest {
	f := &forest{trees: make([]*treeNode, 0, forestTrees)}
	n := len(y)

	for t := 0; t < forestTrees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.trees = append(f.trees, buildTree(X, y, idx, forestDepth))
	}
	return f
}

func (f *forest) predict(x []float64) float64 {
	sum := 0.0
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}

func buildTree(X [][]float64, y []float64, idx []int, depth int) *treeNode {
	mean, variance := meanVar(y, idx)
	node := &treeNode{value: mean}
	if depth == 0 || len(idx) < 2*forestMinLeaf || variance == 0 {
		return node
	}

	feature, threshold, ok := bestSplit(X, y, idx)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < forestMinLeaf || len(right) < forestMinLeaf {
		return node
	}

	node.feature = feature
	node.threshold = threshold
	node.left = buildTree(X, y, left, depth-1)
	node.right = buildTree(X, y, right, depth-1)
	return node
}

// bestSplit scans every feature for the threshold minimizing the weighted
// sum of squared errors, using prefix sums over the sorted sample.
func bestSplit(X [][]float64, y []float64, idx []int) (int, float64, bool) {
	bestScore := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	order := make([]int, len(idx))
	for f := 0; f < len(X[idx[0]]); f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		var totalSum, totalSq float64
		for _, i := range order {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		var leftSum, leftSq float64
		for pos := 0; pos < len(order)-1; pos++ {
			i := order[pos]
			leftSum += y[i]
			leftSq += y[i] * y[i]

			// No split between equal feature values.
			if X[i][f] == X[order[pos+1]][f] {
				continue
			}

			nl := float64(pos + 1)
			nr := float64(len(order) - pos - 1)
			if int(nl) < forestMinLeaf || int(nr) < forestMinLeaf {
				continue
			}

			sseLeft := leftSq - leftSum*leftSum/nl
			rightSum := totalSum - leftSum
			sseRight := (totalSq - leftSq) - rightSum*rightSum/nr
			score := sseLeft + sseRight

			if score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = (X[i][f] + X[order[pos+1]][f]) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func meanVar(y []float64, idx []int) (float64, float64) {
	if len(idx) == 0 {
		return 0, 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	mean := sum / float64(len(idx))
	var sq float64
	for _, i := range idx {
		d := y[i] - mean
		sq += d * d
	}
	return mean, sq / float64(len(idx))
}
