// Package treenn implements a recursive neural network
// which composes a vector for every node of a binary
// parse tree and classifies the tree from its root.
package treenn

import "github.com/unixpickle/num-analysis/linalg"

// An Embedding maps leaf tokens to vectors.
type Embedding interface {
	// Dim returns the length of every vector produced by
	// Lookup.
	Dim() int

	// Lookup returns the vector for a token.
	// The second return value is false if the token has
	// no vector and the embedding has no fallback.
	//
	// The caller must not modify the returned vector.
	Lookup(token string) (linalg.Vector, bool)
}

// A VectorTree mirrors the effective binary shape of a
// parse tree, with a vector attached to every node.
//
// A VectorTree is either a *LeafVector or an
// *InternalVector.
type VectorTree interface {
	vectorTree()
}

// A LeafVector is the VectorTree of a single token.
type LeafVector struct {
	Token  string
	Vector linalg.Vector
}

func (l *LeafVector) vectorTree() {}

// An InternalVector is the VectorTree of a composition
// site, storing the composed vector and the vector trees
// of both children.
type InternalVector struct {
	Vector linalg.Vector
	Left   VectorTree
	Right  VectorTree
}

func (i *InternalVector) vectorTree() {}

// RootVector returns the vector representing an entire
// VectorTree.
func RootVector(v VectorTree) linalg.Vector {
	switch v := v.(type) {
	case *LeafVector:
		return v.Vector
	case *InternalVector:
		return v.Vector
	default:
		panic("unknown VectorTree type")
	}
}
