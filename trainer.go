package treenn

import (
	"crypto/md5"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/unixpickle/sgd"
)

// A Sample is a parse tree with the index of its gold
// class.
type Sample struct {
	Tree  *Tree
	Label int
}

// A SampleSet is an sgd.SampleSet of Samples.
type SampleSet []Sample

// Len returns the number of samples.
func (s SampleSet) Len() int {
	return len(s)
}

// Swap swaps two samples.
func (s SampleSet) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// GetSample returns the Sample at the given index.
func (s SampleSet) GetSample(idx int) interface{} {
	return s[idx]
}

// Copy returns a shallow copy of the set.
func (s SampleSet) Copy() sgd.SampleSet {
	res := make(SampleSet, len(s))
	copy(res, s)
	return res
}

// Subset returns the samples in [start, end).
func (s SampleSet) Subset(start, end int) sgd.SampleSet {
	return s[start:end]
}

// Hash hashes the bracket notation and label of a
// sample.
func (s SampleSet) Hash(idx int) []byte {
	text := s[idx].Tree.String() + "\n" + strconv.Itoa(s[idx].Label)
	sum := md5.Sum([]byte(text))
	return sum[:]
}

// A Trainer fits a Model with plain stochastic gradient
// descent, one tree at a time.
type Trainer struct {
	Model    *Model
	StepSize float64
	Epochs   int

	// Logger, if non-nil, receives a progress line every
	// LogEvery epochs.
	Logger   *log.Logger
	LogEvery int
}

// Train runs t.Epochs passes over a shuffled copy of
// the samples.
//
// Training stops at the first sample which cannot be
// processed. The parameters keep every update applied
// before that sample, but none from it.
func (t *Trainer) Train(samples sgd.SampleSet) error {
	if err := t.validate(); err != nil {
		return err
	}
	logEvery := t.LogEvery
	if logEvery <= 0 {
		logEvery = 1
	}
	for epoch := 1; epoch <= t.Epochs; epoch++ {
		set := samples.Copy()
		sgd.ShuffleSampleSet(set)
		var total float64
		for i := 0; i < set.Len(); i++ {
			sample, ok := set.GetSample(i).(Sample)
			if !ok {
				return fmt.Errorf("epoch %d: unexpected sample type %T", epoch,
					set.GetSample(i))
			}
			loss, err := t.Step(sample)
			if err != nil {
				return fmt.Errorf("epoch %d: tree %s: %w", epoch, sample.Tree, err)
			}
			total += loss
		}
		if t.Logger != nil && epoch%logEvery == 0 {
			t.Logger.Printf("epoch=%d samples=%d loss=%.4f", epoch, set.Len(),
				total/float64(set.Len()))
		}
	}
	return nil
}

// Step performs a forward pass, a backward pass, and an
// update for a single sample.
// It returns the loss measured before the update.
func (t *Trainer) Step(s Sample) (float64, error) {
	if err := t.validateStep(); err != nil {
		return 0, err
	}
	m := t.Model
	vt, probs, err := m.Forward(s.Tree)
	if err != nil {
		return 0, err
	}
	grad, err := m.Backward(vt, probs, s.Label)
	if err != nil {
		return 0, err
	}
	loss := m.crossEntropy(RootVector(vt), s.Label)
	if err := m.Params.Update(grad, t.StepSize); err != nil {
		return 0, err
	}
	return loss, nil
}

// MeanLoss computes the average loss over a set of
// samples without training.
func (t *Trainer) MeanLoss(samples sgd.SampleSet) (float64, error) {
	if t.Model == nil {
		return 0, errors.New("trainer: nil model")
	}
	if samples.Len() == 0 {
		return 0, errors.New("empty sample set")
	}
	var total float64
	for i := 0; i < samples.Len(); i++ {
		sample, ok := samples.GetSample(i).(Sample)
		if !ok {
			return 0, fmt.Errorf("unexpected sample type %T", samples.GetSample(i))
		}
		loss, err := t.Model.Loss(sample.Tree, sample.Label)
		if err != nil {
			return 0, err
		}
		total += loss
	}
	return total / float64(samples.Len()), nil
}

func (t *Trainer) validate() error {
	if err := t.validateStep(); err != nil {
		return err
	}
	if t.Epochs <= 0 {
		return errors.New("trainer: epochs must be > 0")
	}
	return nil
}

func (t *Trainer) validateStep() error {
	if t.Model == nil {
		return errors.New("trainer: nil model")
	}
	if t.StepSize <= 0 {
		return errors.New("trainer: step size must be > 0")
	}
	return nil
}
