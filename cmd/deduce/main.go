// Command deduce exercises the godeduce rewriting engine from the command
// line: it runs a small built-in derivation and prints the deduction trail.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitrdm/godeduce/pkg/deduce"
)

func main() {
	root := &cobra.Command{
		Use:   "deduce",
		Short: "Symbolic rewriting engine for proof-assistant style deduction",
	}
	root.AddCommand(newDemoCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the engine version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), deduce.GetVersion())
		},
	}
}

func newDemoCmd() *cobra.Command {
	var verbose bool
	var toward bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a built-in derivation over a commutativity rule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []deduce.EngineOption
			if verbose {
				logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
					&slog.HandlerOptions{Level: slog.LevelDebug}))
				opts = append(opts, deduce.WithLogger(logger))
			}
			return runDemo(cmd, toward, opts...)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each rule application")
	cmd.Flags().BoolVar(&toward, "toward", false, "search toward a goal instead of enumerating")
	return cmd
}

// runDemo establishes p(plus(a, b)) and applies plus-commutativity.
func runDemo(cmd *cobra.Command, toward bool, opts ...deduce.EngineOption) error {
	out := cmd.OutOrStdout()
	plus := deduce.NewFunction("plus", 2)

	commute := deduce.NewMatcherRule(
		"plus-comm", "plus(A, B) rewrites to plus(B, A)",
		deduce.NewTermMatcher(
			deduce.Ap(plus, deduce.X("A"), deduce.X("B")),
			deduce.Ap(plus, deduce.X("B"), deduce.X("A"))),
		deduce.Rewritten())

	engine := deduce.NewEngine([]deduce.Rule{commute}, opts...)

	start := deduce.Pred("p", deduce.Ap(plus, deduce.C("a"), deduce.C("b")))
	fc := deduce.NewFormulaContext(start)
	fmt.Fprintf(out, "context: %s\n", start)

	if toward {
		goal := deduce.Pred("p", deduce.Ap(plus, deduce.C("b"), deduce.C("a")))
		res, err := engine.StepToward(context.Background(), fc, goal)
		if err != nil {
			return err
		}
		switch res := res.(type) {
		case deduce.Reached:
			fmt.Fprintf(out, "reached %s via %s from %s\n",
				res.Deduction.Conclusion, res.Deduction.Rule.Name(), res.Deduction.Premises[0])
		case deduce.NotReached:
			fmt.Fprintf(out, "goal not reached; %d candidates\n", len(res.Candidates))
		}
		return nil
	}

	ds, err := engine.Step(context.Background(), fc)
	if err != nil {
		return err
	}
	for _, d := range ds {
		fmt.Fprintf(out, "%s: %s  ⊢  %s\n", d.Rule.Name(), d.Premises[0], d.Conclusion)
	}
	return nil
}
