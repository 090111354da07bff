package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type adviseCmd struct{}

func (*adviseCmd) Name() string     { return "advise" }
func (*adviseCmd) Synopsis() string { return "get one-shot financial advice on a topic" }
func (*adviseCmd) Usage() string {
	return `fina advise <topic>

  Produces advisory text on a topic, grounded in your aggregate spending
  and recent insights. Advisory only; nothing is changed.

Usage Examples:
$ fina advise "how can I reduce my food spending?"
`
}

func (c *adviseCmd) SetFlags(f *flag.FlagSet) {}

func (c *adviseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topic := strings.TrimSpace(strings.Join(f.Args(), " "))
	if topic == "" {
		fmt.Fprintln(os.Stderr, "Error: a topic is required.")
		return subcommands.ExitUsageError
	}

	agent, err := newAgent(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	reply, err := agent.Advice(ctx, topic)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(reply)
	return subcommands.ExitSuccess
}
