// Package bitwise extracts the prefix ("polish") token sequence of a
// Bitwise-tagged arena subtree, consumed by internal/truthtable.
package bitwise

import (
	"fmt"

	"github.com/bruparis/dobf/internal/arena"
	"github.com/bruparis/dobf/internal/sign"
)

// Tok is one element of a polish sequence: an operator, a close marker
// ("!"), or a signed variable occurrence.
type Tok struct {
	IsOp    bool
	IsClose bool
	Op      byte
	Var     byte
	Sign    sign.Sign
}

func (t Tok) String() string {
	switch {
	case t.IsClose:
		return "!"
	case t.IsOp:
		return string(t.Op)
	default:
		return string(t.Sign) + string(t.Var)
	}
}

// Polish walks the Bitwise subtree rooted at idx and returns its flat
// pre-order polish sequence: a node's children are visited in left-to-right
// source order (the reverse of the arena's append-order storage, same
// convention as Arena.String), each nested operator child followed by a
// "!" close marker — except any run of "!" immediately trailing the whole
// sequence, which is redundant (the end of the stream closes every
// still-open frame for free) and is trimmed.
func Polish(ar *arena.Arena, idx int) ([]Tok, error) {
	if !ar.IsBitwise(idx) {
		return nil, fmt.Errorf("bitwise: node %d is not classified Bitwise", idx)
	}
	var out []Tok
	if err := emit(ar, idx, &out); err != nil {
		return nil, err
	}
	for len(out) > 0 && out[len(out)-1].IsClose {
		out = out[:len(out)-1]
	}
	return out, nil
}

func emit(ar *arena.Arena, idx int, out *[]Tok) error {
	if ar.IsLeaf(idx) {
		leaf, err := ar.Leaf(idx)
		if err != nil {
			return err
		}
		if !leaf.Sign.Bitwise() {
			return fmt.Errorf("bitwise: leaf %d has non-bitwise sign %q", idx, string(leaf.Sign))
		}
		*out = append(*out, Tok{Var: leaf.Var, Sign: leaf.Sign})
		return nil
	}

	op, s, _ := ar.OpSign(idx)
	if s != sign.None {
		return fmt.Errorf("bitwise: node %d carries sign %q, operators must be unsigned", idx, string(s))
	}
	*out = append(*out, Tok{IsOp: true, Op: op})

	children := ar.Children(idx)
	for i := len(children) - 1; i >= 0; i-- {
		ch := children[i]
		if err := emit(ar, ch, out); err != nil {
			return err
		}
		if !ar.IsLeaf(ch) {
			*out = append(*out, Tok{IsClose: true})
		}
	}
	return nil
}
