package treenn

import (
	"math"
	"testing"
)

func TestLabels(t *testing.T) {
	labels := Labels{"neg", "neutral", "pos"}
	for i, name := range labels {
		idx, err := labels.Index(name)
		if err != nil {
			t.Fatal(err)
		}
		if idx != i {
			t.Errorf("label %s: expected index %d but got %d", name, i, idx)
		}
		actual, err := labels.Name(i)
		if err != nil {
			t.Fatal(err)
		}
		if actual != name {
			t.Errorf("index %d: expected %s but got %s", i, name, actual)
		}
	}
	if _, err := labels.Index("mixed"); err == nil {
		t.Error("expected error for unknown label")
	}
	for _, idx := range []int{-1, 3} {
		if _, err := labels.Name(idx); err == nil {
			t.Errorf("expected error for index %d", idx)
		}
	}
}

func TestPredictLabel(t *testing.T) {
	m := newTestModel(t, 9)
	tree := Node("N", Leaf("a"), Node("N", Leaf("c"), Leaf("d")))

	if _, err := m.PredictLabel(tree); err == nil {
		t.Error("expected error without labels")
	}
	m.Labels = Labels{"neg", "pos"}
	if _, err := m.PredictLabel(tree); err == nil {
		t.Error("expected error for too few labels")
	}

	m.Labels = Labels{"neg", "neutral", "pos"}
	name, err := m.PredictLabel(tree)
	if err != nil {
		t.Fatal(err)
	}
	class, err := m.Predict(tree)
	if err != nil {
		t.Fatal(err)
	}
	if name != m.Labels[class] {
		t.Errorf("expected %s but got %s", m.Labels[class], name)
	}

	probs, err := m.Probabilities(tree)
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for i, p := range probs {
		if p > probs[class] {
			t.Errorf("class %d is more likely than predicted class %d", i, class)
		}
		sum += p
	}
	if len(probs) != testOutputDim || math.Abs(sum-1) > 1e-12 {
		t.Errorf("unexpected probabilities %v", probs)
	}
	if _, err := m.Probabilities(Leaf("")); err == nil {
		t.Error("expected error for empty token")
	}
}
