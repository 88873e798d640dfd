package model

import (
	"context"
	"delivery-time-service/internal/domain"
	"errors"
	"fmt"
	"math"
)

type node struct {
	present   bool
	leaf      bool
	value     float64
	feature   int
	threshold float32
	yes       int
	no        int
	missing   int
}

// Nodes indexed by nodeid.
type tree []node

// Model is a compiled gradient-boosted tree ensemble. It is immutable and
// safe for concurrent use.
type Model struct {
	name      string
	version   string
	baseScore float64
	encoder   *Encoder
	trees     []tree
}

func (m *Model) Name() string    { return m.name }
func (m *Model) Version() string { return m.version }
func (m *Model) Trees() int      { return len(m.trees) }

// Predict returns base_score plus the sum of the leaf reached in every tree.
func (m *Model) Predict(ctx context.Context, rec domain.AugmentedRecord) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	x, err := m.encoder.Encode(rec)
	if err != nil {
		return 0, err
	}
	return m.PredictVector(x)
}

// PredictVector evaluates an already encoded input.
func (m *Model) PredictVector(x []float64) (float64, error) {
	if len(x) != m.encoder.Width() {
		return 0, fmt.Errorf("predict: got %d inputs, model expects %d", len(x), m.encoder.Width())
	}

	sum := m.baseScore
	for i, t := range m.trees {
		leaf, err := t.eval(x)
		if err != nil {
			return 0, fmt.Errorf("predict: tree #%d: %w", i, err)
		}
		sum += leaf
	}

	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, errors.New("predict: model produced a non-finite value")
	}
	return sum, nil
}

func (t tree) eval(x []float64) (float64, error) {
	id := 0
	// A well-formed tree reaches a leaf in fewer steps than it has nodes.
	for range len(t) {
		n := t[id]
		if n.leaf {
			return n.value, nil
		}

		v := x[n.feature]
		switch {
		case math.IsNaN(v):
			id = n.missing
		case float32(v) < n.threshold: // XGBoost compares in single precision
			id = n.yes
		default:
			id = n.no
		}
	}
	return 0, errors.New("no leaf reached")
}

func compileTree(root *Node, enc *Encoder) (tree, error) {
	if root == nil {
		return nil, errors.New("empty tree")
	}
	if root.NodeID != 0 {
		return nil, fmt.Errorf("root nodeid is %d, want 0", root.NodeID)
	}

	var flat []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		flat = append(flat, n)
		for _, c := range n.Children {
			if c != nil {
				walk(c)
			}
		}
	}
	walk(root)

	maxID := 0
	for _, n := range flat {
		if n.NodeID < 0 {
			return nil, fmt.Errorf("negative nodeid %d", n.NodeID)
		}
		maxID = max(maxID, n.NodeID)
	}
	// Node ids are dense: 0..len(flat)-1.
	if maxID >= len(flat) {
		return nil, fmt.Errorf("nodeid %d out of range for %d nodes", maxID, len(flat))
	}

	t := make(tree, maxID+1)
	for _, n := range flat {
		if t[n.NodeID].present {
			return nil, fmt.Errorf("duplicate nodeid %d", n.NodeID)
		}

		if n.Leaf != nil {
			if len(n.Children) > 0 {
				return nil, fmt.Errorf("node %d: leaf with children", n.NodeID)
			}
			t[n.NodeID] = node{present: true, leaf: true, value: *n.Leaf}
			continue
		}

		feature, err := resolveSplit(n.Split, enc)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n.NodeID, err)
		}
		t[n.NodeID] = node{
			present:   true,
			feature:   feature,
			threshold: float32(n.SplitCondition),
			yes:       n.Yes,
			no:        n.No,
			missing:   n.Missing,
		}
	}

	for id, n := range t {
		if !n.present {
			return nil, fmt.Errorf("nodeid %d missing", id)
		}
		if n.leaf {
			continue
		}
		for _, next := range []int{n.yes, n.no, n.missing} {
			if next <= 0 || next >= len(t) {
				return nil, fmt.Errorf("node %d: branch to unknown node %d", id, next)
			}
		}
	}

	return t, nil
}
