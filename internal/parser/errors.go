package parser

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrorKind is one of the six ways Parse can reject a line.
type ErrorKind int

const (
	MissClosePar ErrorKind = iota
	MissOpenPar
	WrongSeqChar
	WrongChar
	DanglingNegSign
	NotOp
)

func (k ErrorKind) String() string {
	switch k {
	case MissClosePar:
		return "missing close paren"
	case MissOpenPar:
		return "missing open paren"
	case WrongSeqChar:
		return "wrong seq of char"
	case WrongChar:
		return "wrong char"
	case DanglingNegSign:
		return "dangling negation sign"
	case NotOp:
		return "not an operator"
	default:
		return "parse error"
	}
}

// recognizedAlphabet lists every operator character suggest draws
// candidates from.
var recognizedAlphabet = []string{"+", "-", ".", "^", "&", "|", "~", "(", ")"}

// Error is a per-line parse failure: a kind, a message, and a
// caret-pointer snippet into the offending line. The line that produced it
// is reported and then skipped; processing continues with the next line.
type Error struct {
	Kind       ErrorKind
	Input      string
	Pos        int // 0-based byte offset into Input
	Detail     string
	Suggestion string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", e.Kind, e.Detail)
	b.WriteString(e.snippet())
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  did you mean %q?", e.Suggestion)
	}
	return b.String()
}

func (e *Error) snippet() string {
	if e.Input == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("  | ")
	b.WriteString(e.Input)
	b.WriteString("\n  | ")
	if e.Pos >= 0 && e.Pos <= len(e.Input) {
		b.WriteString(strings.Repeat(" ", e.Pos))
		b.WriteByte('^')
	}
	return b.String()
}

func newError(kind ErrorKind, input string, pos int, detail string) *Error {
	e := &Error{Kind: kind, Input: input, Pos: pos, Detail: detail}
	if kind == WrongChar && pos < len(input) {
		e.Suggestion = suggest(string(input[pos]))
	}
	return e
}

// suggest returns the closest recognized operator character to bad, by
// Levenshtein distance; ties go to the earliest entry of recognizedAlphabet.
func suggest(bad string) string {
	best, bestDist := "", -1
	for _, cand := range recognizedAlphabet {
		if d := fuzzy.LevenshteinDistance(bad, cand); bestDist < 0 || d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}
