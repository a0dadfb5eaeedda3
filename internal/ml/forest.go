package ml

import "fmt"

const KindRandomForest = "random_forest"

const leafNode = -1

// Tree is a fitted binary decision tree in flat array form. Node i is a leaf
// when ChildrenLeft[i] == -1; otherwise samples with x[Feature[i]] <= Threshold[i]
// go left. Value[i] holds the per-class sample weights at that node.
type Tree struct {
	ChildrenLeft  []int        `json:"children_left"`
	ChildrenRight []int        `json:"children_right"`
	Feature       []int        `json:"feature"`
	Threshold     []float64    `json:"threshold"`
	Value         [][2]float64 `json:"value"`
}

func (t *Tree) validate(nFeatures int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree arrays have unequal lengths")
	}
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leafNode {
			if t.Value[i][0]+t.Value[i][1] <= 0 {
				return fmt.Errorf("leaf %d has no samples", i)
			}
			continue
		}
		// children always come after their parent, which rules out cycles
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has out of range children", i)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d outside [0,%d)", i, f, nFeatures)
		}
	}
	return nil
}

// proba walks to the leaf for x and returns the positive-class fraction there.
func (t *Tree) proba(x []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != leafNode {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	v := t.Value[node]
	return v[1] / (v[0] + v[1])
}

// RandomForest averages per-tree leaf probabilities.
type RandomForest struct {
	trees     []Tree
	nFeatures int
}

func NewRandomForest(trees []Tree, nFeatures int) (*RandomForest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("random forest: no trees")
	}
	if nFeatures <= 0 {
		return nil, fmt.Errorf("random forest: n_features must be positive, got %d", nFeatures)
	}
	for i := range trees {
		if err := trees[i].validate(nFeatures); err != nil {
			return nil, fmt.Errorf("random forest: tree %d: %w", i, err)
		}
	}
	return &RandomForest{trees: trees, nFeatures: nFeatures}, nil
}

func (f *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if err := checkWidth(f.nFeatures, x); err != nil {
		return nil, err
	}
	var sum float64
	for i := range f.trees {
		sum += f.trees[i].proba(x)
	}
	p := sum / float64(len(f.trees))
	return []float64{1 - p, p}, nil
}

func (f *RandomForest) NumFeatures() int { return f.nFeatures }

func (f *RandomForest) Kind() string { return KindRandomForest }
