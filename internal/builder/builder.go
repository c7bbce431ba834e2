// Package builder consumes an RPN token stream right-to-left into a
// flattened, classified expression DAG.
package builder

import (
	"fmt"

	"github.com/bruparis/dobf/internal/arena"
	"github.com/bruparis/dobf/internal/sign"
	"github.com/bruparis/dobf/internal/token"
)

// ErrorKind is one of the three ways Build can reject a token stream.
type ErrorKind int

const (
	RPNEmpty ErrorKind = iota
	RPNSyntaxError
	SingleTerm
)

func (k ErrorKind) String() string {
	switch k {
	case RPNEmpty:
		return "RPNEmpty"
	case RPNSyntaxError:
		return "RPNSyntaxError"
	case SingleTerm:
		return "SingleTerm"
	default:
		return "Unknown"
	}
}

// Error reports a build-time failure. It fails only the current line,
// never the whole run.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return "builder: " + e.Kind.String()
	}
	return fmt.Sprintf("builder: %s: %s", e.Kind, e.Detail)
}

// Build consumes rpn right-to-left into a fresh Arena.
func Build(rpn []token.Token) (*arena.Arena, error) {
	if len(rpn) == 0 {
		return nil, &Error{Kind: RPNEmpty}
	}

	ar := arena.New()
	currentNode := -1
	var nodeStack []int
	var signStack []sign.Sign
	pending := sign.None
	prevLeaf := false

	settleAndLeaveOnStack := func(curr int) {
		takeNodeStack(ar, &nodeStack, curr)
	}
	settleAndPop := func(curr int) int {
		takeNodeStack(ar, &nodeStack, curr)
		if len(nodeStack) == 0 {
			return -1
		}
		top := nodeStack[len(nodeStack)-1]
		nodeStack = nodeStack[:len(nodeStack)-1]
		return top
	}

	for i := len(rpn) - 1; i >= 0; i-- {
		t := rpn[i]
		atEnd := i == 0

		switch {
		case t.Kind.IsBinaryOp():
			op := t.Kind.Op()
			if currentNode != -1 {
				curOp, curSign, _ := ar.OpSign(currentNode)
				if curOp == op && curSign == sign.None && pending == sign.None {
					// Coalesce: another occurrence of the same flat operator.
					prevLeaf = false
					continue
				}
			}
			signStack = append(signStack, pending)
			pending = sign.None
			if currentNode != -1 {
				settleAndLeaveOnStack(currentNode)
			}
			popped := signStack[len(signStack)-1]
			signStack = signStack[:len(signStack)-1]
			currentNode = ar.NewNode(popped, op)
			prevLeaf = false

		case t.Kind == token.Sign:
			var err error
			pending, err = pending.Push(t.Marker)
			if err != nil {
				return nil, &Error{Kind: RPNSyntaxError, Detail: err.Error()}
			}

		case t.Kind == token.Int:
			if currentNode == -1 {
				return nil, &Error{Kind: RPNSyntaxError, Detail: "integer literal with no enclosing operator"}
			}
			if err := ar.FoldConstant(currentNode, pending.Value(t.Int)); err != nil {
				return nil, &Error{Kind: RPNSyntaxError, Detail: err.Error()}
			}
			pending = sign.None
			if prevLeaf {
				currentNode = settleAndPop(currentNode)
			}
			prevLeaf = true

		case t.Kind == token.Var:
			leafIdx := ar.NewLeaf(pending, t.Var)
			pending = sign.None
			if currentNode == -1 {
				if !atEnd {
					return nil, &Error{Kind: RPNSyntaxError, Detail: "variable with no enclosing operator"}
				}
				ar.SetRoot(leafIdx)
				prevLeaf = true
				continue
			}
			if err := ar.AppendChildren(currentNode, []int{leafIdx}); err != nil {
				return nil, &Error{Kind: RPNSyntaxError, Detail: err.Error()}
			}
			if prevLeaf {
				currentNode = settleAndPop(currentNode)
			}
			prevLeaf = true

		default:
			return nil, &Error{Kind: RPNSyntaxError, Detail: fmt.Sprintf("unexpected token kind %v in RPN stream", t.Kind)}
		}
	}

	if ar.Root() >= 0 {
		// A lone leaf was set as root directly above.
		return ar, nil
	}

	var root int
	switch {
	case currentNode != -1:
		root = currentNode
	case len(nodeStack) == 1:
		root = nodeStack[0]
	case len(nodeStack) > 1:
		return nil, &Error{Kind: RPNSyntaxError, Detail: "multiple disconnected top-level nodes"}
	default:
		return nil, &Error{Kind: RPNSyntaxError, Detail: "no root node produced"}
	}

	if !ar.IsLeaf(root) && ar.NumTerms(root) < 2 {
		return nil, &Error{Kind: SingleTerm}
	}

	ar.SetRoot(root)
	return ar, nil
}

// takeNodeStack is the "settle" routine: push curr, then repeatedly try to
// attach the top of the stack into the node beneath it, moving children
// across on a matching operator+sign or else pushing the top as a plain
// child. Stops when the top lacks two terms or nothing remains beneath it.
func takeNodeStack(ar *arena.Arena, nodeStack *[]int, curr int) {
	*nodeStack = append(*nodeStack, curr)
	for {
		top := (*nodeStack)[len(*nodeStack)-1]
		if ar.NumTerms(top) < 2 {
			return
		}
		*nodeStack = (*nodeStack)[:len(*nodeStack)-1]
		if len(*nodeStack) == 0 {
			*nodeStack = append(*nodeStack, top)
			return
		}
		below := (*nodeStack)[len(*nodeStack)-1]
		topOp, topSign, _ := ar.OpSign(top)
		belowOp, belowSign, _ := ar.OpSign(below)
		if topOp == belowOp && topSign == belowSign {
			_ = ar.MoveChildren(below, top)
		} else {
			_ = ar.AppendChildren(below, []int{top})
		}
	}
}
