package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type recommendCmd struct{}

func (*recommendCmd) Name() string     { return "recommend" }
func (*recommendCmd) Synopsis() string { return "suggest budget limits from recent spending" }
func (*recommendCmd) Usage() string {
	return `fina recommend

  Asks the model for suggested per-category monthly limits based on your
  recent aggregate spending. Requires a configured model.
`
}

func (c *recommendCmd) SetFlags(f *flag.FlagSet) {}

func (c *recommendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	agent, err := newAgent(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	reply, err := agent.BudgetRecommendation(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(reply)
	return subcommands.ExitSuccess
}
