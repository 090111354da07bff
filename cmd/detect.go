package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/nroux/finagent/render"
)

type detectCmd struct{}

func (*detectCmd) Name() string     { return "detect" }
func (*detectCmd) Synopsis() string { return "flag unusually large expenses" }
func (*detectCmd) Usage() string {
	return `fina detect

  Flags expenses from the last 90 days that are unusually large for
  their category. Detection is statistical; no model is involved, and an
  empty report is a normal outcome.
`
}

func (c *detectCmd) SetFlags(f *flag.FlagSet) {}

func (c *detectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	agent, err := newAgent(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	flagged, narrative := agent.DetectUnusual()
	printMarkdown(render.AnomaliesMarkdown(flagged, narrative))
	return subcommands.ExitSuccess
}
