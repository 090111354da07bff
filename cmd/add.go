package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/nroux/finagent"
	"github.com/nroux/finagent/date"
)

type addCmd struct {
	date   string
	amount string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction" }
func (*addCmd) Usage() string {
	return `fina add -a <amount> [-d <date>] <description>

  Records one transaction. The amount is negative for an expense,
  positive for income. The category is assigned automatically and
  printed; correct it with 'fina recategorize' if needed.

Usage Examples:
$ fina add -a -52.50 Grocery shopping at Whole Foods
$ fina add -a 2500 -d 2025-04-03 Monthly salary deposit
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date.")
	f.StringVar(&c.amount, "a", "", "Signed amount, negative for expenses.")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	description := strings.TrimSpace(strings.Join(f.Args(), " "))
	if description == "" {
		fmt.Fprintln(os.Stderr, "Error: a description is required.")
		return subcommands.ExitUsageError
	}
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid amount %q: %v\n", c.amount, err)
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	agent, err := newAgent(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	tx, err := agent.AddTransaction(ctx, day, amount, description)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := appendTransaction(tx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Added %s %s as %s (id %s)\n",
		tx.Date, finagent.FormatAmount(tx.Amount), tx.Category, tx.ID)
	return subcommands.ExitSuccess
}
