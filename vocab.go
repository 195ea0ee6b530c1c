package treenn

import (
	"math/rand"

	"github.com/unixpickle/num-analysis/linalg"
)

// UnknownToken is the vocabulary entry used for tokens
// which are not in a Vocab.
const UnknownToken = "$UNK"

// A Vocab is an Embedding with a fixed vector for each
// known token.
type Vocab struct {
	dim     int
	vectors map[string]linalg.Vector
	unknown linalg.Vector
}

// NewVocab creates a Vocab whose vectors are drawn
// uniformly from [-0.5, 0.5).
//
// If withUnknown is set, tokens outside of the
// vocabulary map to the vector for UnknownToken.
// Otherwise, Lookup fails for them.
func NewVocab(tokens []string, dim int, withUnknown bool, src rand.Source) *Vocab {
	gen := rand.New(src)
	v := &Vocab{dim: dim, vectors: map[string]linalg.Vector{}}
	for _, tok := range tokens {
		if _, ok := v.vectors[tok]; ok {
			continue
		}
		v.vectors[tok] = randomVector(gen, dim)
	}
	if withUnknown {
		if vec, ok := v.vectors[UnknownToken]; ok {
			v.unknown = vec
		} else {
			v.unknown = randomVector(gen, dim)
			v.vectors[UnknownToken] = v.unknown
		}
	}
	return v
}

// Dim returns the vector size.
func (v *Vocab) Dim() int {
	return v.dim
}

// Len returns the number of distinct tokens, including
// UnknownToken when it is present.
func (v *Vocab) Len() int {
	return len(v.vectors)
}

// Lookup returns the vector for a token, falling back
// on the unknown vector if there is one.
func (v *Vocab) Lookup(token string) (linalg.Vector, bool) {
	if vec, ok := v.vectors[token]; ok {
		return vec, true
	}
	if v.unknown != nil {
		return v.unknown, true
	}
	return nil, false
}

func randomVector(gen *rand.Rand, dim int) linalg.Vector {
	res := make(linalg.Vector, dim)
	for i := range res {
		res[i] = gen.Float64() - 0.5
	}
	return res
}
