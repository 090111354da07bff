package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type demoCmd struct{}

func (*demoCmd) Name() string     { return "demo" }
func (*demoCmd) Synopsis() string { return "seed the ledger with demonstration data" }
func (*demoCmd) Usage() string {
	return `fina demo

  Appends a small demonstration dataset to the ledger: a week of typical
  transactions to explore the other commands with.
`
}

func (c *demoCmd) SetFlags(f *flag.FlagSet) {}

func (c *demoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	agent, err := newAgent(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	txs, err := agent.SeedDemoData(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	for _, tx := range txs {
		if err := appendTransaction(tx); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
	}
	fmt.Printf("Seeded %d demonstration transaction(s) into %s.\n", len(txs), *ledgerFile)
	return subcommands.ExitSuccess
}
