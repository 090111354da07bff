package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/nroux/finagent/render"
)

type analyzeCmd struct {
	showPlan bool
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "answer a natural-language question about the ledger" }
func (*analyzeCmd) Usage() string {
	return `fina analyze [-plan] <question>

  Turns the question into a query plan, runs it over a read-only
  snapshot of the ledger and prints the result. The ledger is never
  modified by a question. Use -plan to also print the plan that was
  executed.

Usage Examples:
$ fina analyze "how much did I spend on food last month?"
$ fina analyze -plan "top 3 spending categories this month"
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.showPlan, "plan", false, "Also print the executed query plan.")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	question := strings.TrimSpace(strings.Join(f.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "Error: a question is required.")
		return subcommands.ExitUsageError
	}

	agent, err := newAgent(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	analysis, err := agent.Analyze(ctx, question)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if c.showPlan && analysis.Plan != "" {
			fmt.Fprintf(os.Stderr, "plan: %s\n", analysis.Plan)
		}
		return subcommands.ExitFailure
	}

	printMarkdown(render.AnalysisMarkdown(analysis))
	if c.showPlan {
		fmt.Printf("plan: %s\n", analysis.Plan)
	}
	return subcommands.ExitSuccess
}
