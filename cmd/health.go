package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type healthCmd struct{}

func (*healthCmd) Name() string     { return "health" }
func (*healthCmd) Synopsis() string { return "run a financial health check" }
func (*healthCmd) Usage() string {
	return `fina health

  Produces a model-written review of your overall financial situation:
  income against expenses, budget status and notable spending patterns.
`
}

func (c *healthCmd) SetFlags(f *flag.FlagSet) {}

func (c *healthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	agent, err := newAgent(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	reply, err := agent.HealthCheck(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(reply)
	return subcommands.ExitSuccess
}
