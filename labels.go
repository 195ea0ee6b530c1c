package treenn

import (
	"fmt"

	"github.com/unixpickle/num-analysis/linalg"
)

// Labels names the output classes of a Model, in order
// of class index.
type Labels []string

// Index returns the class index for a label name.
func (l Labels) Index(name string) (int, error) {
	for i, x := range l {
		if x == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown label: %s", name)
}

// Name returns the label name for a class index.
func (l Labels) Name(idx int) (string, error) {
	if idx < 0 || idx >= len(l) {
		return "", fmt.Errorf("label %d out of range [0, %d)", idx, len(l))
	}
	return l[idx], nil
}

// Probabilities returns the class probabilities for t.
func (m *Model) Probabilities(t *Tree) (linalg.Vector, error) {
	_, probs, err := m.Forward(t)
	return probs, err
}

// PredictLabel returns the name of the most probable
// class for t.
// It fails if m.Labels does not name every class.
func (m *Model) PredictLabel(t *Tree) (string, error) {
	if len(m.Labels) != m.Params.OutputDim {
		return "", &ShapeMismatchError{Name: "labels", Expected: m.Params.OutputDim,
			Actual: len(m.Labels)}
	}
	class, err := m.Predict(t)
	if err != nil {
		return "", err
	}
	return m.Labels[class], nil
}
