package treenn

import (
	"errors"
	"fmt"
	"math"

	"github.com/unixpickle/autofunc"
	"github.com/unixpickle/num-analysis/linalg"
	"github.com/unixpickle/weakai/neuralnet"
)

// tanh(x) rounds to ±1 in float64 well before |x|
// reaches this bound.
const tanhSaturation = 40

// A Model combines an Embedding for the leaves with the
// Params used to compose and classify trees.
type Model struct {
	Embedding Embedding
	Params    *Params

	// Labels optionally names the output classes.
	Labels Labels

	// MaxDepth limits the depth of input trees.
	// If it is 0, DefaultMaxDepth is used.
	// If it is negative, depth is unlimited.
	MaxDepth int
}

// NewModel creates a Model after checking that the
// embedding and the parameters agree on dimensions.
func NewModel(e Embedding, p *Params) (*Model, error) {
	if e == nil {
		return nil, errors.New("nil embedding")
	}
	if p == nil {
		return nil, errors.New("nil params")
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	if e.Dim() != p.EmbedDim {
		return nil, &ShapeMismatchError{Name: "embedding", Expected: p.EmbedDim,
			Actual: e.Dim()}
	}
	return &Model{Embedding: e, Params: p}, nil
}

// Forward composes a VectorTree for t and computes the
// class probabilities for its root.
//
// Forward does not modify the model.
func (m *Model) Forward(t *Tree) (VectorTree, linalg.Vector, error) {
	vt, err := m.Compose(t)
	if err != nil {
		return nil, nil, err
	}
	return vt, m.Classify(RootVector(vt)), nil
}

// Compose builds the VectorTree for t without applying
// the classifier.
func (m *Model) Compose(t *Tree) (VectorTree, error) {
	maxDepth := m.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	norm, err := t.Normalize(maxDepth)
	if err != nil {
		return nil, err
	}
	return m.compose(norm)
}

// Classify applies the softmax classifier to a root
// vector.
func (m *Model) Classify(root linalg.Vector) linalg.Vector {
	softmax := autofunc.Softmax{}
	return softmax.Apply(&autofunc.Variable{Vector: m.logits(root)}).Output()
}

// Predict returns the most probable class for t.
func (m *Model) Predict(t *Tree) (int, error) {
	_, probs, err := m.Forward(t)
	if err != nil {
		return 0, err
	}
	var best int
	for i, x := range probs {
		if x > probs[best] {
			best = i
		}
	}
	return best, nil
}

// Loss returns the cross-entropy loss of t with respect
// to the gold class.
func (m *Model) Loss(t *Tree, gold int) (float64, error) {
	if err := m.checkLabel(gold); err != nil {
		return 0, err
	}
	vt, err := m.Compose(t)
	if err != nil {
		return 0, err
	}
	return m.crossEntropy(RootVector(vt), gold), nil
}

// logits computes root*W_hy + b_y, shifted so that the
// largest entry is 0.
func (m *Model) logits(root linalg.Vector) linalg.Vector {
	p := m.Params
	res := vecMatMul(root, p.WHy.Vector, p.EmbedDim, p.OutputDim)
	res.Add(p.BY.Vector)
	maxLogit := math.Inf(-1)
	for _, x := range res {
		maxLogit = math.Max(maxLogit, x)
	}
	for i := range res {
		res[i] -= maxLogit
	}
	return res
}

// crossEntropy computes -log(softmax(logits)[gold]) as
// log-sum-exp minus the gold logit, which stays finite
// when the gold probability underflows.
func (m *Model) crossEntropy(root linalg.Vector, gold int) float64 {
	logits := m.logits(root)
	var sum float64
	for _, x := range logits {
		sum += math.Exp(x)
	}
	return math.Log(sum) - logits[gold]
}

func (m *Model) compose(t *Tree) (VectorTree, error) {
	if t.IsLeaf() {
		vec, ok := m.Embedding.Lookup(t.Token)
		if !ok {
			return nil, &MalformedTreeError{
				Reason: fmt.Sprintf("no vector for token %q", t.Token),
			}
		}
		if err := checkLen("leaf "+t.Token, vec, m.Params.EmbedDim); err != nil {
			return nil, err
		}
		return &LeafVector{Token: t.Token, Vector: vec.Copy()}, nil
	}
	left, err := m.compose(t.Children[0])
	if err != nil {
		return nil, err
	}
	right, err := m.compose(t.Children[1])
	if err != nil {
		return nil, err
	}
	combined := average(RootVector(left), RootVector(right))
	return &InternalVector{
		Vector: m.composeVector(combined),
		Left:   left,
		Right:  right,
	}, nil
}

// composeVector computes tanh(combined*W + b).
func (m *Model) composeVector(combined linalg.Vector) linalg.Vector {
	p := m.Params
	pre := vecMatMul(combined, p.W.Vector, p.HiddenDim, p.EmbedDim)
	pre.Add(p.B.Vector)
	for i, x := range pre {
		pre[i] = math.Max(-tanhSaturation, math.Min(tanhSaturation, x))
	}
	activation := neuralnet.HyperbolicTangent{}
	return activation.Apply(&autofunc.Variable{Vector: pre}).Output()
}

func (m *Model) checkLabel(gold int) error {
	if gold < 0 || gold >= m.Params.OutputDim {
		return fmt.Errorf("label %d out of range [0, %d)", gold, m.Params.OutputDim)
	}
	return nil
}

func average(v1, v2 linalg.Vector) linalg.Vector {
	return v1.Copy().Add(v2).Scale(0.5)
}

// vecMatMul multiplies a row vector by a row-major
// rows x cols matrix.
func vecMatMul(v, mat linalg.Vector, rows, cols int) linalg.Vector {
	res := make(linalg.Vector, cols)
	for i := 0; i < rows; i++ {
		x := v[i]
		row := mat[i*cols : (i+1)*cols]
		for j, w := range row {
			res[j] += x * w
		}
	}
	return res
}

// vecMatMulT multiplies a row vector by the transpose of
// a row-major rows x cols matrix.
func vecMatMulT(v, mat linalg.Vector, rows, cols int) linalg.Vector {
	res := make(linalg.Vector, rows)
	for i := range res {
		res[i] = v.Dot(mat[i*cols : (i+1)*cols])
	}
	return res
}

// addOuter adds the outer product of a and b to a
// row-major len(a) x len(b) matrix.
func addOuter(mat, a, b linalg.Vector) {
	for i, x := range a {
		row := mat[i*len(b) : (i+1)*len(b)]
		for j, y := range b {
			row[j] += x * y
		}
	}
}

// tanhDeriv multiplies upstream by the derivative of
// tanh, given the output of tanh.
func tanhDeriv(upstream, out linalg.Vector) linalg.Vector {
	res := make(linalg.Vector, len(upstream))
	for i, u := range upstream {
		res[i] = u * (1 - out[i]*out[i])
	}
	return res
}
