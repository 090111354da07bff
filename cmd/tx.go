package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/nroux/finagent"
	"github.com/nroux/finagent/date"
	"github.com/nroux/finagent/render"
)

type txCmd struct {
	category string
	start    string
	end      string
	head     int
	tail     int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions in the ledger" }
func (*txCmd) Usage() string {
	return `fina tx [-category <name>] [-s <start_date>] [-e <end_date>] [-head <n>] [-tail <n>]

  Lists transactions, with options for filtering and limiting the output.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", "", "Only show this category.")
	f.StringVar(&c.start, "s", "", "Start date of the range.")
	f.StringVar(&c.end, "e", "", "End date of the range.")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail cannot be used together.")
		return subcommands.ExitUsageError
	}

	var category finagent.Category
	if c.category != "" {
		parsed, ok := finagent.ParseCategory(c.category)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown category %q.\n", c.category)
			return subcommands.ExitUsageError
		}
		category = parsed
	}

	var r date.Range
	if c.start != "" || c.end != "" {
		from, to := date.Date{}, date.Today()
		var err error
		if c.start != "" {
			if from, err = date.Parse(c.start); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				return subcommands.ExitUsageError
			}
		}
		if c.end != "" {
			if to, err = date.Parse(c.end); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				return subcommands.ExitUsageError
			}
		}
		if from.IsZero() {
			// Open start, bounded end.
			r = date.Range{From: from, To: to}
		} else {
			r = date.NewRange(from, to)
		}
	}

	agent, err := newAgent(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	txs := agent.Filter(category, r)
	if c.head > 0 && len(txs) > c.head {
		txs = txs[:c.head]
	}
	if c.tail > 0 && len(txs) > c.tail {
		txs = txs[len(txs)-c.tail:]
	}

	printMarkdown(render.TransactionsMarkdown("Transactions", txs))
	return subcommands.ExitSuccess
}
