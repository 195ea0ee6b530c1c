package treenn

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/unixpickle/autofunc"
	"github.com/unixpickle/num-analysis/linalg"
	"github.com/unixpickle/serializer"
)

func init() {
	var p Params
	serializer.RegisterTypedDeserializer(p.SerializerType(), DeserializeParams)
}

// Params stores the trainable parameters of a tree
// network.
//
// Matrices are stored in row-major order, and vectors
// are multiplied on the left of them.
type Params struct {
	EmbedDim  int
	HiddenDim int
	OutputDim int

	// W is the HiddenDim x EmbedDim composition matrix.
	W *autofunc.Variable

	// B is the composition bias.
	B *autofunc.Variable

	// WHy is the EmbedDim x OutputDim classifier matrix.
	WHy *autofunc.Variable

	// BY is the classifier bias.
	BY *autofunc.Variable
}

// NewParams creates parameters with Xavier-initialized
// weights and zero biases.
// The same source always yields the same parameters.
func NewParams(embedDim, outputDim int, src rand.Source) *Params {
	if embedDim <= 0 || outputDim <= 0 {
		panic("dimensions must be positive")
	}
	gen := rand.New(src)
	return &Params{
		EmbedDim:  embedDim,
		HiddenDim: embedDim,
		OutputDim: outputDim,
		W:         &autofunc.Variable{Vector: xavierVector(gen, embedDim, embedDim)},
		B:         &autofunc.Variable{Vector: make(linalg.Vector, embedDim)},
		WHy:       &autofunc.Variable{Vector: xavierVector(gen, embedDim, outputDim)},
		BY:        &autofunc.Variable{Vector: make(linalg.Vector, outputDim)},
	}
}

// DeserializeParams deserializes Params.
func DeserializeParams(d []byte) (*Params, error) {
	slice, err := serializer.DeserializeSlice(d)
	if err != nil {
		return nil, err
	}
	if len(slice) != 7 {
		return nil, errors.New("invalid Params slice")
	}
	embed, ok1 := slice[0].(serializer.Int)
	hidden, ok2 := slice[1].(serializer.Int)
	output, ok3 := slice[2].(serializer.Int)
	if !ok1 || !ok2 || !ok3 {
		return nil, errors.New("invalid Params slice")
	}
	res := &Params{
		EmbedDim:  int(embed),
		HiddenDim: int(hidden),
		OutputDim: int(output),
	}
	vars := []**autofunc.Variable{&res.W, &res.B, &res.WHy, &res.BY}
	for i, v := range vars {
		vec, ok := slice[3+i].(serializer.Float64Slice)
		if !ok {
			return nil, fmt.Errorf("invalid Params entry %d: %T", 3+i, slice[3+i])
		}
		*v = &autofunc.Variable{Vector: linalg.Vector(vec)}
	}
	if err := res.validate(); err != nil {
		return nil, fmt.Errorf("deserialize params: %w", err)
	}
	return res, nil
}

// Parameters returns the four trainable variables in the
// order W, B, WHy, BY.
func (p *Params) Parameters() []*autofunc.Variable {
	return []*autofunc.Variable{p.W, p.B, p.WHy, p.BY}
}

// Gradient returns a zero gradient for every parameter.
func (p *Params) Gradient() autofunc.Gradient {
	return autofunc.NewGradient(p.Parameters())
}

// Update performs a gradient descent step, subtracting
// stepSize times each gradient from its parameter.
//
// Gradients are validated before anything is modified,
// so a failed Update leaves p untouched.
func (p *Params) Update(grad autofunc.Gradient, stepSize float64) error {
	names := []string{"dW", "db", "dW_hy", "db_y"}
	for i, v := range p.Parameters() {
		g, ok := grad[v]
		if !ok {
			return fmt.Errorf("missing gradient %s", names[i])
		}
		if err := checkLen(names[i], g, len(v.Vector)); err != nil {
			return err
		}
	}
	for _, v := range p.Parameters() {
		v.Vector.Add(grad[v].Copy().Scale(-stepSize))
	}
	return nil
}

// SerializerType returns the unique ID used to serialize
// Params with the serializer package.
func (p *Params) SerializerType() string {
	return "github.com/unixpickle/treenn.Params"
}

// Serialize encodes the dimensions and parameter values.
func (p *Params) Serialize() ([]byte, error) {
	slice := []serializer.Serializer{
		serializer.Int(p.EmbedDim),
		serializer.Int(p.HiddenDim),
		serializer.Int(p.OutputDim),
	}
	for _, v := range p.Parameters() {
		slice = append(slice, serializer.Float64Slice(v.Vector))
	}
	return serializer.SerializeSlice(slice)
}

func (p *Params) validate() error {
	for _, v := range p.Parameters() {
		if v == nil {
			return errors.New("params: nil variable")
		}
	}
	if p.HiddenDim != p.EmbedDim {
		return &ShapeMismatchError{Name: "hidden_dim", Expected: p.EmbedDim,
			Actual: p.HiddenDim}
	}
	checks := []struct {
		name string
		vec  linalg.Vector
		size int
	}{
		{"W", p.W.Vector, p.HiddenDim * p.EmbedDim},
		{"b", p.B.Vector, p.EmbedDim},
		{"W_hy", p.WHy.Vector, p.EmbedDim * p.OutputDim},
		{"b_y", p.BY.Vector, p.OutputDim},
	}
	for _, c := range checks {
		if err := checkLen(c.name, c.vec, c.size); err != nil {
			return err
		}
	}
	return nil
}

func xavierVector(gen *rand.Rand, fanIn, fanOut int) linalg.Vector {
	bound := math.Sqrt(6 / float64(fanIn+fanOut))
	res := make(linalg.Vector, fanIn*fanOut)
	for i := range res {
		res[i] = bound * (gen.Float64()*2 - 1)
	}
	return res
}
