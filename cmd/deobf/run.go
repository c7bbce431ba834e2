package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bruparis/dobf/internal/arena"
	"github.com/bruparis/dobf/internal/builder"
	"github.com/bruparis/dobf/internal/cache"
	"github.com/bruparis/dobf/internal/parser"
	"github.com/bruparis/dobf/internal/reducer"
)

// lineResult is one processed line, in the shape emitted by --json.
type lineResult struct {
	Line       string           `json:"line"`
	Canonical  string           `json:"canonical,omitempty"`
	Bitwise    bool             `json:"bitwise"`
	MBA        bool             `json:"mba"`
	Reductions []reducer.Result `json:"reductions,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// runOptions configures one file's worth of processing; cacheDir/dotPath
// empty means "disabled"/"use the default path" respectively.
type runOptions struct {
	cacheDir string
	dotPath  string
	jsonOut  bool
	useColor bool
}

// runFile reads path one line at a time: parses, builds, prints the
// canonical serialization, reduces any Bitwise/MBA subtrees, and (for the
// last successfully-built line) writes a .dot graph. Per-line Parse/Builder
// errors are reported and processing continues; an Arena-family error is
// fatal.
func runFile(w io.Writer, path string, opts runOptions) (exitCode int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 1, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var c *cache.Cache
	if opts.cacheDir != "" {
		c, err = cache.Open(opts.cacheDir)
		if err != nil {
			return 1, err
		}
	}

	dotPath := opts.dotPath
	if dotPath == "" {
		dotPath = "expr_graph.dot"
	}

	var lastDot string
	var results []lineResult

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		lr := lineResult{Line: line}
		reductions, ar, procErr := processLine(line, c)
		if procErr != nil {
			lr.Error = procErr.Error()
			results = append(results, lr)
			if fatal := formatLineError(w, lineNo, procErr, opts.useColor); fatal {
				return 1, procErr
			}
			continue
		}

		lr.Canonical = ar.String()
		lr.Bitwise = ar.IsBitwise(ar.Root())
		lr.MBA = ar.IsMBA(ar.Root())
		lr.Reductions = reductions
		results = append(results, lr)
		lastDot = ar.Dot()

		if !opts.jsonOut {
			fmt.Fprintln(w, lr.Canonical)
			fmt.Fprintf(w, "  bitwise=%v mba=%v\n", lr.Bitwise, lr.MBA)
		}
	}
	if err := scanner.Err(); err != nil {
		return 1, fmt.Errorf("reading %s: %w", path, err)
	}

	if lastDot != "" {
		if err := os.WriteFile(dotPath, []byte(lastDot), 0o644); err != nil {
			return 1, fmt.Errorf("writing %s: %w", dotPath, err)
		}
	}

	if opts.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return 1, fmt.Errorf("encoding JSON output: %w", err)
		}
	}

	return 0, nil
}

// processLine parses, builds, validates, and reduces one line, consulting
// and populating c when non-nil.
func processLine(line string, c *cache.Cache) ([]reducer.Result, *arena.Arena, error) {
	toks, err := parser.Parse(line)
	if err != nil {
		return nil, nil, err
	}
	ar, err := builder.Build(toks)
	if err != nil {
		return nil, nil, err
	}
	if err := ar.Validate(); err != nil {
		return nil, nil, err
	}

	if c != nil {
		if cached, ok, err := c.Get(line); err == nil && ok {
			return cached, ar, nil
		}
	}

	results, err := reducer.Reduce(ar)
	if err != nil {
		return nil, nil, err
	}
	if c != nil {
		_ = c.Put(line, results)
	}
	return results, ar, nil
}
