// Package truthtable evaluates a Bitwise polish sequence (internal/bitwise)
// over every assignment of its variables, producing the 2^n-row truth table
// consumed by internal/sierpinski.
package truthtable

import (
	"fmt"

	"github.com/bruparis/dobf/internal/bitwise"
)

// MaxVars is the hard cap on distinct variables a single Bitwise subtree may
// reduce over: a 2^n-row table with n>3 is outside this engine's scope.
const MaxVars = 3

// Evaluate computes the truth table of the polish sequence toks over the
// assignments implied by vars (vars[i] occupies bit i of the row index).
// The caller chooses the variable-to-bit-index order; callers should use
// plain alphabetical order absent other context.
func Evaluate(toks []bitwise.Tok, vars []byte) ([]int, error) {
	if len(vars) == 0 || len(vars) > MaxVars {
		return nil, fmt.Errorf("truthtable: variable count %d outside [1,%d]", len(vars), MaxVars)
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("truthtable: empty polish sequence")
	}

	rows := 1 << len(vars)
	table := make([]int, rows)
	for i := 0; i < rows; i++ {
		bit := func(v byte) (bool, error) {
			for idx, cand := range vars {
				if cand == v {
					return (i>>idx)&1 == 1, nil
				}
			}
			return false, fmt.Errorf("truthtable: variable %q not in %v", string(v), string(vars))
		}

		val, err := evalOne(toks, bit)
		if err != nil {
			return nil, err
		}
		if val {
			table[i] = 1
		}
	}
	return table, nil
}

func evalOne(toks []bitwise.Tok, bit func(byte) (bool, error)) (bool, error) {
	if len(toks) == 1 && !toks[0].IsOp && !toks[0].IsClose {
		return leafValue(toks[0], bit)
	}
	val, pos, err := evalFrame(toks, 0, bit)
	if err != nil {
		return false, err
	}
	if pos != len(toks) {
		return false, fmt.Errorf("truthtable: %d trailing token(s) after top-level frame", len(toks)-pos)
	}
	return val, nil
}

func leafValue(t bitwise.Tok, bit func(byte) (bool, error)) (bool, error) {
	v, err := bit(t.Var)
	if err != nil {
		return false, err
	}
	return t.Sign.Bool(v), nil
}

// evalFrame consumes one operator frame starting at toks[pos] (which must be
// an operator token), folding its children left to right until a "!" close
// marker consumes itself and ends the frame, or the stream runs out (which
// implicitly closes every still-open frame). It returns the frame's value
// and the position just past whatever ended it.
func evalFrame(toks []bitwise.Tok, pos int, bit func(byte) (bool, error)) (bool, int, error) {
	if pos >= len(toks) || !toks[pos].IsOp {
		return false, 0, fmt.Errorf("truthtable: expected operator token at position %d", pos)
	}
	op := toks[pos].Op
	pos++

	var acc bool
	have := false

	for pos < len(toks) {
		t := toks[pos]
		if t.IsClose {
			pos++
			break
		}
		var val bool
		var err error
		if t.IsOp {
			val, pos, err = evalFrame(toks, pos, bit)
		} else {
			val, err = leafValue(t, bit)
			pos++
		}
		if err != nil {
			return false, 0, err
		}
		if !have {
			acc, have = val, true
			continue
		}
		acc, err = applyOp(op, acc, val)
		if err != nil {
			return false, 0, err
		}
	}
	if !have {
		return false, 0, fmt.Errorf("truthtable: operator frame with no operands")
	}
	return acc, pos, nil
}

func applyOp(op byte, a, b bool) (bool, error) {
	switch op {
	case '^':
		return a != b, nil
	case '&':
		return a && b, nil
	case '|':
		return a || b, nil
	default:
		return false, fmt.Errorf("truthtable: unrecognized bitwise operator %q", string(op))
	}
}
