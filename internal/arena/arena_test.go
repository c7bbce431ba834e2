package arena

import (
	"strings"
	"testing"

	"github.com/bruparis/dobf/internal/sign"
)

func TestValidateDetectsFreedChildReference(t *testing.T) {
	a := New()
	root := a.NewNode(sign.None, '+')
	x := a.NewLeaf(sign.None, 'x')
	y := a.NewLeaf(sign.None, 'y')
	if err := a.AppendChildren(root, []int{x, y}); err != nil {
		t.Fatalf("AppendChildren: %v", err)
	}
	a.SetRoot(root)
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate on a well-formed tree: %v", err)
	}

	a.remove(y)
	if err := a.Validate(); err == nil {
		t.Fatal("expected Validate to catch a freed child reference")
	}
}

func TestValidateDetectsSharedIndexAsDAGNotTree(t *testing.T) {
	a := New()
	root := a.NewNode(sign.None, '+')
	shared := a.NewLeaf(sign.None, 'x')
	if err := a.AppendChildren(root, []int{shared}); err != nil {
		t.Fatalf("AppendChildren: %v", err)
	}
	other := a.NewNode(sign.None, '^')
	if err := a.AppendChildren(other, []int{shared}); err != nil {
		t.Fatalf("AppendChildren: %v", err)
	}
	if err := a.AppendChildren(root, []int{other}); err != nil {
		t.Fatalf("AppendChildren: %v", err)
	}
	a.SetRoot(root)

	if err := a.Validate(); err == nil {
		t.Fatal("expected Validate to reject an index reached twice")
	}
}

func TestValidateRejectsBitwiseNodeWithFoldedConstant(t *testing.T) {
	a := New()
	root := a.NewNode(sign.None, '^')
	x := a.NewLeaf(sign.None, 'x')
	y := a.NewLeaf(sign.None, 'y')
	if err := a.AppendChildren(root, []int{x, y}); err != nil {
		t.Fatalf("AppendChildren: %v", err)
	}
	a.SetRoot(root)
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate before folding a constant: %v", err)
	}
	n, _ := a.Node(root)
	if n.Tag != TagBitwise {
		t.Fatalf("expected root tagged Bitwise, got %v", n.Tag)
	}

	// Directly force a constant onto a Bitwise node, bypassing FoldConstant's
	// reclassification, to exercise Validate's own invariant check.
	v := uint32(7)
	n.Cst = &v
	if err := a.Validate(); err == nil {
		t.Fatal("expected Validate to reject a Bitwise node carrying a folded constant")
	}
}

func TestWalkSkipLeaves(t *testing.T) {
	a := New()
	root := a.NewNode(sign.None, '+')
	x := a.NewLeaf(sign.None, 'x')
	y := a.NewLeaf(sign.None, 'y')
	if err := a.AppendChildren(root, []int{x, y}); err != nil {
		t.Fatalf("AppendChildren: %v", err)
	}
	a.SetRoot(root)

	all := a.Walk(root, false)
	if len(all) != 3 {
		t.Fatalf("Walk(skipLeaves=false) len = %d, want 3", len(all))
	}
	nodesOnly := a.Walk(root, true)
	if len(nodesOnly) != 1 || nodesOnly[0] != root {
		t.Fatalf("Walk(skipLeaves=true) = %v, want [%d]", nodesOnly, root)
	}
}

func TestDotEmitsSyntheticConstantNode(t *testing.T) {
	a := New()
	root := a.NewNode(sign.None, '.')
	x := a.NewLeaf(sign.None, 'x')
	if err := a.AppendChildren(root, []int{x}); err != nil {
		t.Fatalf("AppendChildren: %v", err)
	}
	if err := a.FoldConstant(root, 4); err != nil {
		t.Fatalf("FoldConstant: %v", err)
	}
	a.SetRoot(root)

	out := a.Dot()
	if !strings.Contains(out, `"0c"`) {
		t.Fatalf("Dot() missing synthetic constant pseudo-node:\n%s", out)
	}
	if !strings.Contains(out, `0 -> "0c"`) {
		t.Fatalf("Dot() missing edge into the synthetic constant pseudo-node:\n%s", out)
	}
}

func TestIsFreeOutOfRange(t *testing.T) {
	a := New()
	if !a.IsFree(42) {
		t.Fatal("IsFree on an out-of-range index should report true")
	}
}
