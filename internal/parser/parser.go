// Package parser implements the shunting-yard conversion of an infix MBA
// expression line into the RPN token stream the builder consumes
// right-to-left.
package parser

import (
	"github.com/bruparis/dobf/internal/token"
)

type opInfo struct {
	prec       int
	rightAssoc bool
}

var opTable = map[byte]opInfo{
	'+': {2, false},
	'-': {2, false},
	'.': {5, false},
	'^': {3, false},
	'&': {4, false},
	'|': {4, false},
	'~': {6, true},
}

type charCat int

const (
	catDigit charCat = iota
	catLetter
	catPureOp // + . ^ & |
	catMinus
	catTilde
	catLParen
	catRParen
	catSpace
	catOther
)

func classify(c byte) charCat {
	switch {
	case c >= '0' && c <= '9':
		return catDigit
	case c >= 'a' && c <= 'z':
		return catLetter
	case c == '+' || c == '.' || c == '^' || c == '&' || c == '|':
		return catPureOp
	case c == '-':
		return catMinus
	case c == '~':
		return catTilde
	case c == '(':
		return catLParen
	case c == ')':
		return catRParen
	case c == ' ' || c == '\t':
		return catSpace
	default:
		return catOther
	}
}

// allowedAfterSign is the set of categories legal immediately after a
// unary-sign character ('-' or '~'): a digit, letter, (, ), -, or ~.
// Anything else adjacent to a sign character is a syntax error.
func allowedAfterSign(c charCat) bool {
	switch c {
	case catDigit, catLetter, catLParen, catRParen, catMinus, catTilde:
		return true
	default:
		return false
	}
}

// Parse converts one line of infix text into the RPN token stream the
// builder expects, running the shunting-yard pass and then the
// unary/binary '-' rewrite pass.
func Parse(input string) ([]token.Token, error) {
	naive, err := shuntingYard(input)
	if err != nil {
		return nil, err
	}
	return rewriteMinus(naive), nil
}

func shuntingYard(input string) ([]token.Token, error) {
	var output []token.Token
	var opStack []byte  // operator chars, incl. '(' as a barrier marker
	prevCat := charCat(-1)
	havePrev := false

	popWhile := func(cur byte) {
		curInfo := opTable[cur]
		for len(opStack) > 0 {
			top := opStack[len(opStack)-1]
			if top == '(' {
				break
			}
			topInfo := opTable[top]
			if topInfo.prec > curInfo.prec || (topInfo.prec == curInfo.prec && !curInfo.rightAssoc) {
				output = append(output, opToken(top))
				opStack = opStack[:len(opStack)-1]
				continue
			}
			break
		}
	}

	i := 0
	for i < len(input) {
		c := input[i]
		cat := classify(c)
		if cat == catSpace {
			i++
			continue
		}

		if havePrev {
			if prevCat == catPureOp && cat == catPureOp {
				return nil, newError(WrongSeqChar, input, i, "two operators adjacent: "+string(input[i-1])+"/"+string(c))
			}
			if (prevCat == catMinus || prevCat == catTilde) && !allowedAfterSign(cat) {
				return nil, newError(WrongSeqChar, input, i, "wrong seq of char: "+string(input[i-1])+"/"+string(c))
			}
			if prevCat == catLetter && (cat == catLetter || cat == catLParen) {
				return nil, newError(WrongSeqChar, input, i, "letter followed by "+string(c))
			}
		}

		switch cat {
		case catDigit:
			var v uint32
			for i < len(input) && classify(input[i]) == catDigit {
				v = v*10 + uint32(input[i]-'0')
				i++
			}
			output = append(output, token.IntToken(v))
		case catLetter:
			output = append(output, token.VarToken(c))
			i++
		case catPureOp, catMinus, catTilde:
			if _, ok := opTable[c]; !ok {
				return nil, newError(NotOp, input, i, "unrecognized operator "+string(c))
			}
			popWhile(c)
			opStack = append(opStack, c)
			i++
		case catLParen:
			opStack = append(opStack, '(')
			i++
		case catRParen:
			found := false
			for len(opStack) > 0 {
				top := opStack[len(opStack)-1]
				opStack = opStack[:len(opStack)-1]
				if top == '(' {
					found = true
					break
				}
				output = append(output, opToken(top))
			}
			if !found {
				return nil, newError(MissOpenPar, input, i, "unmatched )")
			}
			if len(opStack) > 0 && opStack[len(opStack)-1] == '~' {
				output = append(output, opToken('~'))
				opStack = opStack[:len(opStack)-1]
			}
			i++
		default:
			return nil, newError(WrongChar, input, i, "unrecognized character")
		}

		prevCat = cat
		havePrev = true
	}

	if havePrev && (prevCat == catTilde) {
		return nil, newError(DanglingNegSign, input, len(input), "trailing ~ decorates nothing")
	}

	for len(opStack) > 0 {
		top := opStack[len(opStack)-1]
		opStack = opStack[:len(opStack)-1]
		if top == '(' {
			return nil, newError(MissClosePar, input, len(input), "unclosed (")
		}
		output = append(output, opToken(top))
	}

	return output, nil
}

func opToken(c byte) token.Token {
	if c == '-' || c == '~' {
		return token.SignToken(c)
	}
	k, _ := token.FromOp(c)
	return token.Operator(k)
}

// rewriteMinus resolves the unary-vs-binary ambiguity on '-' with a
// left-to-right scan over the naive RPN stream: a running operand count,
// reset by any binary operator other than '-' itself, decides whether a
// given '-' is unary (left unchanged) or binary (rewritten in place to the
// pair '-' then '+').
func rewriteMinus(naive []token.Token) []token.Token {
	out := make([]token.Token, 0, len(naive)+2)
	count := 0
	for _, t := range naive {
		switch {
		case t.Kind == token.Var || t.Kind == token.Int:
			count++
			out = append(out, t)
		case t.Kind == token.Sign && t.Marker == '~':
			out = append(out, t)
		case t.Kind == token.Sign && t.Marker == '-':
			if count >= 2 {
				out = append(out, token.SignToken('-'), token.Operator(token.Plus))
				count = 0
			} else {
				out = append(out, t)
			}
		case t.Kind.IsBinaryOp():
			count = 0
			out = append(out, t)
		default:
			out = append(out, t)
		}
	}
	return out
}
