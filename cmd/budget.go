package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/nroux/finagent"
	"github.com/nroux/finagent/render"
)

type budgetCmd struct {
	set   string
	limit string
	goals bool
}

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "set budget goals and report monthly progress" }
func (*budgetCmd) Usage() string {
	return `fina budget [-set <category> -limit <amount>] [-goals]

  Without flags, reports the current month against every budget goal.
  With -set and -limit, creates or replaces the monthly limit for a
  category. With -goals, lists the configured limits.

Usage Examples:
$ fina budget -set Food -limit 400
$ fina budget -goals
$ fina budget
`
}

func (c *budgetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.set, "set", "", "Category to set a goal for.")
	f.StringVar(&c.limit, "limit", "", "Monthly limit for -set.")
	f.BoolVar(&c.goals, "goals", false, "List configured budget goals.")
}

func (c *budgetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	agent, err := newAgent(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if c.set != "" {
		category, ok := finagent.ParseCategory(c.set)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown category %q.\n", c.set)
			return subcommands.ExitUsageError
		}
		limit, err := decimal.NewFromString(c.limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid limit %q: %v\n", c.limit, err)
			return subcommands.ExitUsageError
		}
		if err := agent.SetBudgetGoal(category, limit); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Budget goal for %s set to %s per month.\n", category, finagent.FormatAmount(limit))
		return subcommands.ExitSuccess
	}

	if c.goals {
		goals := make(map[finagent.Category]string)
		for category, limit := range agent.Goals() {
			goals[category] = finagent.FormatAmount(limit)
		}
		printMarkdown(render.GoalsMarkdown(goals))
		return subcommands.ExitSuccess
	}

	rows, narrative := agent.BudgetProgress()
	printMarkdown(render.BudgetMarkdown(rows, narrative))
	return subcommands.ExitSuccess
}
