package main

import (
	"fmt"
	"io"

	"github.com/bruparis/dobf/internal/arena"
	"github.com/bruparis/dobf/internal/builder"
	"github.com/bruparis/dobf/internal/parser"
)

// formatLineError prints err for the given line number, dispatching by
// error type: Parse and Builder failures are reported and the line is
// skipped; an Arena-family error is a programming bug and is fatal,
// reported with no "continuing" framing.
func formatLineError(w io.Writer, lineNo int, err error, useColor bool) (fatal bool) {
	prefix := colorize(fmt.Sprintf("line %d: ", lineNo), colorYellow, useColor)

	switch e := err.(type) {
	case *parser.Error:
		fmt.Fprintf(w, "%s%s%s\n", prefix, colorize("parse error: ", colorRed, useColor), e.Error())
	case *builder.Error:
		fmt.Fprintf(w, "%s%s%s\n", prefix, colorize("build error: ", colorRed, useColor), e.Error())
	case *arena.Error:
		fmt.Fprintf(w, "%s%s%s\n", prefix, colorize("internal error: ", colorRed, useColor), e.Error())
		return true
	case *arena.ValidationError:
		fmt.Fprintf(w, "%s%s%s\n", prefix, colorize("internal error: ", colorRed, useColor), e.Error())
		return true
	default:
		fmt.Fprintf(w, "%s%s%s\n", prefix, colorize("error: ", colorRed, useColor), err.Error())
	}
	return false
}
