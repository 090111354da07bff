package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type planCmd struct {
	goal   string
	months int
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "create a saving plan for a target amount" }
func (*planCmd) Usage() string {
	return `fina plan -goal <amount> -months <n>

  Computes the exact monthly contribution needed to reach the goal and
  wraps it in an advisory plan. The contribution figure is computed, not
  estimated.

Usage Examples:
$ fina plan -goal 5000 -months 12
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.goal, "goal", "", "Target amount to save.")
	f.IntVar(&c.months, "months", 0, "Number of months to save over.")
}

func (c *planCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	goal, err := decimal.NewFromString(c.goal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid goal %q: %v\n", c.goal, err)
		return subcommands.ExitUsageError
	}

	agent, err := newAgent(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	plan, err := agent.CreateSavingPlan(ctx, goal, c.months)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(plan)
	return subcommands.ExitSuccess
}
