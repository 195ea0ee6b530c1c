package treenn

import (
	"github.com/unixpickle/autofunc"
	"github.com/unixpickle/num-analysis/linalg"
)

// Backward computes the gradient of the cross-entropy
// loss for a VectorTree produced by Forward, given the
// predicted probabilities and the gold class.
//
// The result holds an entry for every parameter.
// Neither prediction nor the model is modified.
func (m *Model) Backward(vt VectorTree, prediction linalg.Vector,
	gold int) (autofunc.Gradient, error) {
	p := m.Params
	if err := checkLen("prediction", prediction, p.OutputDim); err != nil {
		return nil, err
	}
	if err := m.checkLabel(gold); err != nil {
		return nil, err
	}
	if err := checkVectorTree(vt, p.EmbedDim); err != nil {
		return nil, err
	}
	root := RootVector(vt)

	yErr := prediction.Copy()
	yErr[gold] -= 1

	grad := p.Gradient()
	addOuter(grad[p.WHy], root, yErr)
	grad[p.BY].Add(yErr)

	rootGrad := vecMatMulT(yErr, p.WHy.Vector, p.EmbedDim, p.OutputDim)
	m.propagateTree(vt, rootGrad, grad)
	return grad, nil
}

// PropagateTree back-propagates a gradient with respect
// to the root vector of vt through every composition in
// vt, adding the results to the W and B entries of grad.
//
// Parameters which have no entry in grad are skipped.
// The tree is checked before anything is added to grad,
// so grad is left untouched on error.
func (m *Model) PropagateTree(vt VectorTree, rootGrad linalg.Vector,
	grad autofunc.Gradient) error {
	if err := checkVectorTree(vt, m.Params.EmbedDim); err != nil {
		return err
	}
	if err := checkLen("root gradient", rootGrad, m.Params.EmbedDim); err != nil {
		return err
	}
	m.propagateTree(vt, rootGrad, grad)
	return nil
}

func (m *Model) propagateTree(vt VectorTree, rootGrad linalg.Vector,
	grad autofunc.Gradient) {
	node, ok := vt.(*InternalVector)
	if !ok {
		return
	}
	dW := grad[m.Params.W]
	dB := grad[m.Params.B]
	if dW == nil && dB == nil {
		return
	}
	m.propagateNode(node, tanhDeriv(rootGrad, node.Vector), dW, dB)
}

// propagateNode takes the gradient with respect to the
// pre-activation of node.
func (m *Model) propagateNode(node *InternalVector, hErr, dW, dB linalg.Vector) {
	p := m.Params
	if dB != nil {
		dB.Add(hErr)
	}

	leftRoot := RootVector(node.Left)
	rightRoot := RootVector(node.Right)
	if dW != nil {
		addOuter(dW, average(leftRoot, rightRoot), hErr)
	}

	// Each child contributes half of the averaged input.
	childGrad := vecMatMulT(hErr, p.W.Vector, p.HiddenDim, p.EmbedDim).Scale(0.5)
	if left, ok := node.Left.(*InternalVector); ok {
		m.propagateNode(left, tanhDeriv(childGrad, leftRoot), dW, dB)
	}
	if right, ok := node.Right.(*InternalVector); ok {
		m.propagateNode(right, tanhDeriv(childGrad, rightRoot), dW, dB)
	}
}

// checkVectorTree verifies that every node of vt is
// present and holds a vector of length dim.
func checkVectorTree(vt VectorTree, dim int) error {
	switch vt := vt.(type) {
	case *LeafVector:
		if vt == nil {
			return &MalformedTreeError{Reason: "nil vector tree"}
		}
		return checkLen("leaf "+vt.Token, vt.Vector, dim)
	case *InternalVector:
		if vt == nil {
			return &MalformedTreeError{Reason: "nil vector tree"}
		}
		if err := checkLen("node", vt.Vector, dim); err != nil {
			return err
		}
		if err := checkVectorTree(vt.Left, dim); err != nil {
			return err
		}
		return checkVectorTree(vt.Right, dim)
	default:
		return &MalformedTreeError{Reason: "nil vector tree"}
	}
}
