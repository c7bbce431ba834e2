package arena

import (
	"strconv"
	"strings"
)

// String renders the whole arena's canonical, pre-order serialization
// starting at the recorded root.
//
// A node's children are stored in the order the builder happened to append
// them, which — because the builder consumes RPN right-to-left — is the
// reverse of their left-to-right source order. Printing therefore walks
// Children back to front to recover source order.
func (a *Arena) String() string {
	if a.root < 0 {
		return ""
	}
	var b strings.Builder
	a.writeElem(&b, a.root)
	return b.String()
}

func (a *Arena) writeElem(b *strings.Builder, idx int) {
	e := a.get(idx)
	if e.kind == kindLeaf {
		b.WriteString(string(e.leaf.Sign))
		b.WriteByte(e.leaf.Var)
		return
	}
	n := e.node
	var body strings.Builder
	body.WriteByte(n.Op)
	if n.Cst != nil {
		body.WriteString(strconv.FormatUint(uint64(*n.Cst), 10))
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		a.writeElem(&body, n.Children[i])
	}
	body.WriteByte('/')
	if n.Sign != "" {
		b.WriteString(string(n.Sign))
		b.WriteByte('(')
		b.WriteString(body.String())
		b.WriteByte(')')
	} else {
		b.WriteString(body.String())
	}
}
