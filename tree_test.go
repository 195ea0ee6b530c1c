package treenn

import (
	"reflect"
	"testing"
)

func TestParseTree(t *testing.T) {
	tree, err := ParseTree("(N (N 1) (B (F +) (N 1)))")
	if err != nil {
		t.Fatal(err)
	}
	expected := Node("N",
		Node("N", Leaf("1")),
		Node("B",
			Node("F", Leaf("+")),
			Node("N", Leaf("1")),
		),
	)
	if !reflect.DeepEqual(tree, expected) {
		t.Errorf("expected %s but got %s", expected, tree)
	}
	if s := tree.String(); s != "(N (N 1) (B (F +) (N 1)))" {
		t.Errorf("unexpected string: %s", s)
	}
	if leaves := tree.Leaves(); !reflect.DeepEqual(leaves, []string{"1", "+", "1"}) {
		t.Errorf("unexpected leaves: %v", leaves)
	}

	leaf, err := ParseTree("  x ")
	if err != nil {
		t.Fatal(err)
	}
	if !leaf.IsLeaf() || leaf.Token != "x" {
		t.Errorf("unexpected leaf: %#v", leaf)
	}
}

func TestParseTreeErrors(t *testing.T) {
	inputs := []string{
		"",
		"(N 1",
		"(N 1))",
		")",
		"(N)",
		"(N 1) (N 2)",
	}
	for _, input := range inputs {
		_, err := ParseTree(input)
		if _, ok := err.(*MalformedTreeError); !ok {
			t.Errorf("input %q: expected MalformedTreeError but got %v", input, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	tree := Node("S",
		Node("A", Node("B", Leaf("x"))),
		Node("C",
			Leaf("y"),
			Node("D", Leaf("z")),
		),
	)
	norm, err := tree.Normalize(0)
	if err != nil {
		t.Fatal(err)
	}
	expected := Node("S", Leaf("x"), Node("C", Leaf("y"), Leaf("z")))
	if !reflect.DeepEqual(norm, expected) {
		t.Errorf("expected %s but got %s", expected, norm)
	}

	// The input must be left alone.
	if len(tree.Children[0].Children) != 1 {
		t.Error("input tree was modified")
	}

	single, err := Node("A", Node("B", Leaf("x"))).Normalize(0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(single, Leaf("x")) {
		t.Errorf("unexpected single leaf: %s", single)
	}
}

func TestNormalizeErrors(t *testing.T) {
	trees := []*Tree{
		Node("S", Leaf("a"), Leaf("b"), Leaf("c")),
		Node("S", Leaf("a"), Leaf("")),
		Node("S", Leaf("a"), nil),
	}
	for i, tree := range trees {
		_, err := tree.Normalize(0)
		if _, ok := err.(*MalformedTreeError); !ok {
			t.Errorf("tree %d: expected MalformedTreeError but got %v", i, err)
		}
	}

	var nilTree *Tree
	if _, err := nilTree.Normalize(0); err == nil {
		t.Error("expected error for nil tree")
	}
}

func TestNormalizeDepth(t *testing.T) {
	tree := Leaf("x")
	for i := 0; i < 9; i++ {
		tree = Node("N", tree, Leaf("y"))
	}
	if _, err := tree.Normalize(10); err != nil {
		t.Errorf("depth 10 should be allowed: %v", err)
	}
	_, err := tree.Normalize(9)
	if _, ok := err.(*MalformedTreeError); !ok {
		t.Errorf("expected MalformedTreeError but got %v", err)
	}
	if _, err := tree.Normalize(-1); err != nil {
		t.Errorf("negative limit should be unlimited: %v", err)
	}
}
