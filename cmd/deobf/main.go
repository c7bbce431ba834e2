// Command deobf is the CLI entrypoint: it parses, builds, canonically
// serializes, and reduces the MBA expressions in a file, one per line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/bruparis/dobf/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		dotPath  string
		cacheDir string
		jsonOut  bool
		watch    bool
		noColor  bool
	)

	runCmd := &cobra.Command{
		Use:           "run <file>",
		Short:         "Deobfuscate every MBA expression in <file>, one per line",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := runOptions{
				cacheDir: cacheDir,
				dotPath:  dotPath,
				jsonOut:  jsonOut,
				useColor: shouldUseColor(noColor),
			}
			if watch {
				return watchFile(cmd.OutOrStdout(), args[0], opts)
			}
			code, err := runFile(cmd.OutOrStdout(), args[0], opts)
			if err != nil {
				cmd.SilenceUsage = true
				return err
			}
			if code != 0 {
				return fmt.Errorf("completed with errors")
			}
			return nil
		},
	}
	runCmd.Flags().StringVar(&dotPath, "dot", "", "Path to write the .dot graph of the last line (default expr_graph.dot)")
	runCmd.Flags().StringVar(&cacheDir, "cache", "", "Directory to cache reduced results across runs")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "Emit a JSON summary instead of plain text")
	runCmd.Flags().BoolVar(&watch, "watch", false, "Re-run on every change to <file>")
	runCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored error output")

	var batchDotDir string
	batchCmd := &cobra.Command{
		Use:           "batch <config.json>",
		Short:         "Run over every file named by a batch config document",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				cmd.SilenceUsage = true
				return err
			}
			useColor := shouldUseColor(noColor)
			exit := 0
			for _, input := range cfg.Inputs {
				opts := runOptions{
					cacheDir: cfg.CacheDir,
					dotPath:  cfg.DotFile,
					jsonOut:  cfg.JSON,
					useColor: useColor,
				}
				if batchDotDir != "" {
					opts.dotPath = batchDotDir + "/" + input + ".dot"
				}
				code, err := runFile(cmd.OutOrStdout(), input, opts)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", input, err)
				}
				if code != 0 {
					exit = code
				}
			}
			if exit != 0 {
				cmd.SilenceUsage = true
				return fmt.Errorf("one or more inputs completed with errors")
			}
			return nil
		},
	}
	batchCmd.Flags().StringVar(&batchDotDir, "dot-dir", "", "Directory to write one .dot file per input (overrides each config entry)")

	rootCmd := &cobra.Command{
		Use:           "deobf",
		Short:         "MBA (Mixed Boolean-Arithmetic) expression deobfuscator",
		SilenceErrors: true,
	}
	rootCmd.AddCommand(runCmd, batchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", colorize(err.Error(), colorRed, shouldUseColor(noColor)))
		return 1
	}
	return 0
}

// watchFile re-runs runFile every time file changes, per the --watch flag.
func watchFile(w io.Writer, file string, opts runOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(file); err != nil {
		return fmt.Errorf("watching %s: %w", file, err)
	}

	if _, err := runFile(w, file, opts); err != nil {
		fmt.Fprintf(w, "%v\n", err)
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, err := runFile(w, file, opts); err != nil {
				fmt.Fprintf(w, "%v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "watch error: %v\n", err)
		}
	}
}
