package treenn

import (
	"github.com/unixpickle/autofunc"
	"github.com/unixpickle/num-analysis/linalg"
)

// Apply composes t and returns an autofunc.Result whose
// output is the root vector.
//
// Back-propagating through the result accumulates
// gradients for the composition parameters, which makes
// it possible to feed tree encodings into other autofunc
// computations.
func (m *Model) Apply(t *Tree) (autofunc.Result, error) {
	vt, err := m.Compose(t)
	if err != nil {
		return nil, err
	}
	return &treeResult{Model: m, Tree: vt}, nil
}

type treeResult struct {
	Model *Model
	Tree  VectorTree
}

func (t *treeResult) Output() linalg.Vector {
	return RootVector(t.Tree)
}

func (t *treeResult) Constant(g autofunc.Gradient) bool {
	p := t.Model.Params
	if _, ok := t.Tree.(*LeafVector); ok {
		return true
	}
	_, hasW := g[p.W]
	_, hasB := g[p.B]
	return !hasW && !hasB
}

func (t *treeResult) PropagateGradient(upstream linalg.Vector, g autofunc.Gradient) {
	if t.Constant(g) {
		return
	}
	if err := t.Model.PropagateTree(t.Tree, upstream, g); err != nil {
		panic(err)
	}
}
