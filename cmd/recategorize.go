package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/nroux/finagent"
)

type recategorizeCmd struct {
	id       string
	category string
}

func (*recategorizeCmd) Name() string     { return "recategorize" }
func (*recategorizeCmd) Synopsis() string { return "correct the category of a transaction" }
func (*recategorizeCmd) Usage() string {
	return `fina recategorize -id <transaction-id> -category <name>

  Changes the category of a stored transaction. Amount, date and
  description are immutable; delete and re-add to change those.
`
}

func (c *recategorizeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction id to correct.")
	f.StringVar(&c.category, "category", "", "New category.")
}

func (c *recategorizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" || c.category == "" {
		fmt.Fprintln(os.Stderr, "Error: -id and -category are required.")
		return subcommands.ExitUsageError
	}
	category, ok := finagent.ParseCategory(c.category)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown category %q.\n", c.category)
		return subcommands.ExitUsageError
	}

	ledger, err := decodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := ledger.Recategorize(c.id, category); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := saveLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Transaction %s is now %s.\n", c.id, category)
	return subcommands.ExitSuccess
}
