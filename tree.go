package treenn

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultMaxDepth is the depth limit used when a Model
// does not specify one.
const DefaultMaxDepth = 4096

// A Tree is a parse tree.
//
// Nodes without children are leaves and carry a Token.
// Other nodes have one or two children and an optional
// Label, which is ignored during composition.
// A node with one child means the same thing as its
// child.
type Tree struct {
	Label    string
	Token    string
	Children []*Tree
}

// Leaf creates a leaf node.
func Leaf(token string) *Tree {
	return &Tree{Token: token}
}

// Node creates an internal node.
func Node(label string, children ...*Tree) *Tree {
	return &Tree{Label: label, Children: children}
}

// IsLeaf returns true if t has no children.
func (t *Tree) IsLeaf() bool {
	return len(t.Children) == 0
}

// Normalize returns a copy of t in which every chain of
// single-child nodes has been collapsed into its child,
// leaving only leaves and two-child nodes.
//
// If maxDepth is positive, trees deeper than maxDepth
// are rejected.
func (t *Tree) Normalize(maxDepth int) (*Tree, error) {
	if t == nil {
		return nil, &MalformedTreeError{Reason: "nil tree"}
	}
	return t.normalize(1, maxDepth)
}

func (t *Tree) normalize(depth, maxDepth int) (*Tree, error) {
	if maxDepth > 0 && depth > maxDepth {
		return nil, &MalformedTreeError{
			Reason: fmt.Sprintf("depth exceeds limit of %d", maxDepth),
		}
	}
	for _, c := range t.Children {
		if c == nil {
			return nil, &MalformedTreeError{Reason: "nil child"}
		}
	}
	switch len(t.Children) {
	case 0:
		if t.Token == "" {
			return nil, &MalformedTreeError{Reason: "leaf without a token"}
		}
		return &Tree{Token: t.Token}, nil
	case 1:
		return t.Children[0].normalize(depth+1, maxDepth)
	case 2:
		left, err := t.Children[0].normalize(depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		right, err := t.Children[1].normalize(depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		return &Tree{Label: t.Label, Children: []*Tree{left, right}}, nil
	default:
		return nil, &MalformedTreeError{
			Reason: fmt.Sprintf("node %q has %d children", t.Label, len(t.Children)),
		}
	}
}

// Leaves returns the tokens of t from left to right.
func (t *Tree) Leaves() []string {
	if t.IsLeaf() {
		return []string{t.Token}
	}
	var res []string
	for _, c := range t.Children {
		res = append(res, c.Leaves()...)
	}
	return res
}

// String returns t in bracket notation.
func (t *Tree) String() string {
	if t.IsLeaf() {
		return t.Token
	}
	parts := make([]string, 0, len(t.Children)+1)
	if t.Label != "" {
		parts = append(parts, t.Label)
	}
	for _, c := range t.Children {
		parts = append(parts, c.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// ParseTree reads a tree in bracket notation, such as
// "(N (N 1) (B (F +) (N 1)))".
//
// The first symbol inside each pair of parentheses is
// the node's label; every other symbol is a leaf token.
// A bare symbol with no parentheses is a single leaf.
func ParseTree(s string) (*Tree, error) {
	p := &treeParser{tokens: tokenizeBrackets(s)}
	if len(p.tokens) == 0 {
		return nil, &MalformedTreeError{Reason: "empty input"}
	}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.idx != len(p.tokens) {
		return nil, &MalformedTreeError{
			Reason: fmt.Sprintf("unexpected %q after tree", p.tokens[p.idx]),
		}
	}
	return t, nil
}

type treeParser struct {
	tokens []string
	idx    int
}

func (p *treeParser) parse() (*Tree, error) {
	if p.idx >= len(p.tokens) {
		return nil, &MalformedTreeError{Reason: "unexpected end of input"}
	}
	tok := p.tokens[p.idx]
	p.idx++
	switch tok {
	case ")":
		return nil, &MalformedTreeError{Reason: "unexpected )"}
	case "(":
	default:
		return Leaf(tok), nil
	}

	if p.idx >= len(p.tokens) {
		return nil, &MalformedTreeError{Reason: "unexpected end of input"}
	}
	res := &Tree{}
	if label := p.tokens[p.idx]; label != "(" && label != ")" {
		res.Label = label
		p.idx++
	}
	for {
		if p.idx >= len(p.tokens) {
			return nil, &MalformedTreeError{Reason: "missing )"}
		}
		if p.tokens[p.idx] == ")" {
			p.idx++
			break
		}
		child, err := p.parse()
		if err != nil {
			return nil, err
		}
		res.Children = append(res.Children, child)
	}
	if len(res.Children) == 0 {
		return nil, &MalformedTreeError{Reason: "node without children"}
	}
	return res, nil
}

func tokenizeBrackets(s string) []string {
	var res []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			res = append(res, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			flush()
			res = append(res, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return res
}
