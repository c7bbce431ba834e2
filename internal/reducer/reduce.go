// Package reducer drives a pre-order arena walk: MBA-tagged nodes hand
// each Bitwise child (node or leaf) to the polish-izer/truth-table/Sierpiński
// pipeline; a Bitwise node reached any other way is reduced as a whole;
// every other node defers to its children, and leaves reached that way are
// skipped.
package reducer

import (
	"fmt"
	"log/slog"

	"github.com/bruparis/dobf/internal/arena"
	"github.com/bruparis/dobf/internal/bitwise"
	"github.com/bruparis/dobf/internal/sierpinski"
	"github.com/bruparis/dobf/internal/truthtable"
)

// Result is the outcome of reducing one Bitwise subtree: its polish
// sequence, the variable order used to build the truth table, the table
// itself, and the solved Sierpiński coefficient vector.
type Result struct {
	NodeIdx    int
	Vars       []byte
	Polish     []bitwise.Tok
	TruthTable []int
	Coeffs     []int64
}

// Option configures a Reduce run.
type Option func(*options)

type options struct {
	onResult func(Result)
	log      *slog.Logger
}

// WithOnResult registers a callback invoked as each Bitwise subtree is
// reduced, in pre-order visitation order — useful for streaming output
// without buffering the whole run.
func WithOnResult(fn func(Result)) Option {
	return func(o *options) { o.onResult = fn }
}

// WithLogger attaches a structured logger; each reduced subtree is recorded
// at Debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Reduce walks ar from its root and reduces every Bitwise subtree it finds.
func Reduce(ar *arena.Arena, opts ...Option) ([]Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}

	root := ar.Root()
	if root < 0 {
		return nil, fmt.Errorf("reducer: arena has no root")
	}

	var results []Result
	emit := func(idx int) error {
		r, err := reduceOne(ar, idx)
		if err != nil {
			return err
		}
		results = append(results, r)
		o.log.Debug("reduced bitwise subtree", "node", idx, "vars", string(r.Vars), "coeffs", r.Coeffs)
		if o.onResult != nil {
			o.onResult(r)
		}
		return nil
	}

	queue := []int{root}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		if ar.IsLeaf(idx) {
			continue
		}
		if ar.IsBitwise(idx) {
			// Can happen for the root itself, or a Bitwise node reached
			// through a non-MBA ancestor's generic child traversal.
			if err := emit(idx); err != nil {
				return nil, err
			}
			continue
		}

		n, err := ar.Node(idx)
		if err != nil {
			return nil, err
		}
		if ar.IsMBA(idx) {
			for _, ch := range n.Children {
				if ar.IsLeaf(ch) || ar.IsBitwise(ch) {
					if err := emit(ch); err != nil {
						return nil, err
					}
				} else {
					queue = append(queue, ch)
				}
			}
			continue
		}

		// MBATerm or Other: defer to children.
		queue = append(queue, n.Children...)
	}

	return results, nil
}

func reduceOne(ar *arena.Arena, idx int) (Result, error) {
	if !ar.IsLeaf(idx) {
		n, err := ar.Node(idx)
		if err != nil {
			return Result{}, err
		}
		if n.HasCst() {
			return Result{}, fmt.Errorf("reducer: bitwise node %d carries a folded constant, a builder bug", idx)
		}
	}

	vars := firstSeenVars(ar, idx)
	pn, err := bitwise.Polish(ar, idx)
	if err != nil {
		return Result{}, err
	}
	tt, err := truthtable.Evaluate(pn, vars)
	if err != nil {
		return Result{}, err
	}
	coeffs, err := sierpinski.Solve(tt)
	if err != nil {
		return Result{}, err
	}

	return Result{NodeIdx: idx, Vars: vars, Polish: pn, TruthTable: tt, Coeffs: coeffs}, nil
}

// firstSeenVars collects the distinct variable letters under idx in
// left-to-right source order — the reverse of the arena's append-order
// child storage, the same convention Arena.String and bitwise.Polish use.
func firstSeenVars(ar *arena.Arena, idx int) []byte {
	var out []byte
	seen := make(map[byte]bool)
	var walk func(int)
	walk = func(i int) {
		if ar.IsLeaf(i) {
			leaf, err := ar.Leaf(i)
			if err != nil {
				return
			}
			if !seen[leaf.Var] {
				seen[leaf.Var] = true
				out = append(out, leaf.Var)
			}
			return
		}
		children := ar.Children(i)
		for k := len(children) - 1; k >= 0; k-- {
			walk(children[k])
		}
	}
	walk(idx)
	return out
}
