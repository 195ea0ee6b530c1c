package treenn

import "fmt"

// A MalformedTreeError indicates that a parse tree
// cannot be composed.
type MalformedTreeError struct {
	Reason string
}

func (m *MalformedTreeError) Error() string {
	return "malformed tree: " + m.Reason
}

// A ShapeMismatchError indicates that a vector did not
// have the length required by the model.
type ShapeMismatchError struct {
	Name     string
	Expected int
	Actual   int
}

func (s *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch for %s: expected %d but got %d",
		s.Name, s.Expected, s.Actual)
}

func checkLen(name string, v []float64, expected int) error {
	if len(v) != expected {
		return &ShapeMismatchError{Name: name, Expected: expected, Actual: len(v)}
	}
	return nil
}
