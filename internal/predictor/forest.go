package predictor

import (
	"math"
	"math/rand"
	"sort"
)

// Random forest hyperparameters. Fixed rather than configurable: the model
// is a single tree ensemble, not a tuning surface.
const (
	forestTrees   = 50
	forestDepth   = 8
	forestMinLeaf = 5
)

type treeNode struct {
	Leaf      bool      `json:"leaf"`
	Prob      float64   `json:"prob,omitempty"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

// forest is a bagged ensemble of binary classification trees. PredictProba
// averages the positive-class leaf probabilities over all trees.
type forest struct {
	Trees       []*treeNode `json:"trees"`
	NumFeatures int         `json:"num_features"`
	// Importances holds normalized impurity-decrease per feature, computed
	// at fit time.
	Importances []float64 `json:"importances"`
}

func fitForest(x [][]float64, y []int, seed int64) *forest {
	numFeatures := 0
	if len(x) > 0 {
		numFeatures = len(x[0])
	}
	f := &forest{NumFeatures: numFeatures, Importances: make([]float64, numFeatures)}
	if len(x) == 0 {
		return f
	}

	r := rand.New(rand.NewSource(seed))
	subset := int(math.Ceil(math.Sqrt(float64(numFeatures))))

	for t := 0; t < forestTrees; t++ {
		bx := make([][]float64, len(x))
		by := make([]int, len(y))
		for i := range x {
			j := r.Intn(len(x))
			bx[i] = x[j]
			by[i] = y[j]
		}
		f.Trees = append(f.Trees, buildTree(bx, by, 0, subset, r, f.Importances))
	}

	total := 0.0
	for _, imp := range f.Importances {
		total += imp
	}
	if total > 0 {
		for i := range f.Importances {
			f.Importances[i] /= total
		}
	}
	return f
}

func buildTree(x [][]float64, y []int, depth, subset int, r *rand.Rand, importances []float64) *treeNode {
	if depth >= forestDepth || len(y) < 2*forestMinLeaf || isPure(y) {
		return &treeNode{Leaf: true, Prob: positiveRate(y)}
	}

	feature, threshold, gain := bestSplit(x, y, subset, r)
	if gain <= 0 {
		return &treeNode{Leaf: true, Prob: positiveRate(y)}
	}
	importances[feature] += gain * float64(len(y))

	var lx, rx [][]float64
	var ly, ry []int
	for i, row := range x {
		if row[feature] <= threshold {
			lx = append(lx, row)
			ly = append(ly, y[i])
		} else {
			rx = append(rx, row)
			ry = append(ry, y[i])
		}
	}
	if len(ly) == 0 || len(ry) == 0 {
		return &treeNode{Leaf: true, Prob: positiveRate(y)}
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildTree(lx, ly, depth+1, subset, r, importances),
		Right:     buildTree(rx, ry, depth+1, subset, r, importances),
	}
}

// bestSplit searches a random feature subset for the threshold with the
// largest gini impurity decrease.
func bestSplit(x [][]float64, y []int, subset int, r *rand.Rand) (feature int, threshold, gain float64) {
	numFeatures := len(x[0])
	parent := gini(y)

	feature = -1
	candidates := r.Perm(numFeatures)
	if subset < len(candidates) {
		candidates = candidates[:subset]
	}

	for _, fi := range candidates {
		values := make([]float64, len(x))
		for i, row := range x {
			values[i] = row[fi]
		}
		sort.Float64s(values)

		for i := 1; i < len(values); i++ {
			if values[i] == values[i-1] {
				continue
			}
			t := (values[i] + values[i-1]) / 2

			var ly, ry []int
			for j, row := range x {
				if row[fi] <= t {
					ly = append(ly, y[j])
				} else {
					ry = append(ry, y[j])
				}
			}
			if len(ly) < forestMinLeaf || len(ry) < forestMinLeaf {
				continue
			}

			weighted := (float64(len(ly))*gini(ly) + float64(len(ry))*gini(ry)) / float64(len(y))
			if g := parent - weighted; g > gain {
				gain = g
				feature = fi
				threshold = t
			}
		}
	}
	if feature < 0 {
		return 0, 0, 0
	}
	return feature, threshold, gain
}

func (f *forest) predictProba(row []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, tree := range f.Trees {
		node := tree
		for !node.Leaf {
			if row[node.Feature] <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		sum += node.Prob
	}
	return sum / float64(len(f.Trees))
}

func gini(y []int) float64 {
	if len(y) == 0 {
		return 0
	}
	p := positiveRate(y)
	return 2 * p * (1 - p)
}

func positiveRate(y []int) float64 {
	if len(y) == 0 {
		return 0
	}
	pos := 0
	for _, v := range y {
		if v == 1 {
			pos++
		}
	}
	return float64(pos) / float64(len(y))
}

func isPure(y []int) bool {
	for _, v := range y[1:] {
		if v != y[0] {
			return false
		}
	}
	return true
}
