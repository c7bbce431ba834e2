package arena

import (
	"fmt"
	"strconv"
	"strings"
)

// Dot renders the arena as a Graphviz digraph: one label line per live
// slot, one edge line per parent→child relation, and one synthetic
// pseudo-node per folded constant, keyed "<idx>c".
func (a *Arena) Dot() string {
	var b strings.Builder
	b.WriteString("digraph Expr {\n")
	b.WriteString("  rankdir=TB;\n")
	b.WriteString("  node [shape=box];\n\n")

	for idx, e := range a.elems {
		switch e.kind {
		case kindLeaf:
			label := string(e.leaf.Sign) + string(e.leaf.Var)
			fmt.Fprintf(&b, "  %d [label=%q];\n", idx, label)
		case kindNode:
			label := string(e.node.Sign) + string(e.node.Op)
			fmt.Fprintf(&b, "  %d [label=%q];\n", idx, label)
			if e.node.Cst != nil {
				fmt.Fprintf(&b, "  \"%dc\" [label=%q, shape=ellipse];\n", idx, strconv.FormatUint(uint64(*e.node.Cst), 10))
			}
		}
	}

	b.WriteString("\n")
	for idx, e := range a.elems {
		if e.kind != kindNode {
			continue
		}
		if e.node.Cst != nil {
			fmt.Fprintf(&b, "  %d -> \"%dc\";\n", idx, idx)
		}
		for _, ch := range e.node.Children {
			fmt.Fprintf(&b, "  %d -> %d;\n", idx, ch)
		}
	}

	b.WriteString("}\n")
	return b.String()
}
