package finagent

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nroux/finagent/date"
)

// SummarizeLedger produces the category-level summary embedded in
// advisory prompts. Only aggregates appear: raw transaction
// descriptions never leak into a prompt from here.
func SummarizeLedger(l *Ledger, asOf date.Date) string {
	var b strings.Builder
	if l.Len() == 0 {
		return "The ledger is empty: no transactions recorded yet."
	}

	income, expenses, net := l.Totals(date.Range{})
	fmt.Fprintf(&b, "Ledger: %d transactions from %s to %s.\n", l.Len(), l.OldestDate(), l.NewestDate())
	fmt.Fprintf(&b, "All time: income %s, expenses %s, net %s.\n",
		FormatAmount(income), FormatAmount(expenses), FormatAmount(net))

	month := date.MonthOf(asOf)
	mi, me, mn := l.Totals(month)
	fmt.Fprintf(&b, "Current month (%s %d): income %s, expenses %s, net %s.\n",
		asOf.Month(), asOf.Year(), FormatAmount(mi), FormatAmount(me), FormatAmount(mn))

	totals := l.CategoryTotals(date.TrailingDays(asOf, 90))
	if len(totals) > 0 {
		b.WriteString("Spending by category over the last 90 days:\n")
		for _, c := range Categories() {
			if spent, ok := totals[c]; ok {
				fmt.Fprintf(&b, "- %s: %s\n", c, FormatAmount(spent))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// discretionarySpend estimates average monthly non-essential spend over
// the trailing window, used to sanity-check savings plans. Housing,
// utilities and healthcare count as essential.
func discretionarySpend(l *Ledger, asOf date.Date, months int) string {
	if months <= 0 {
		months = 3
	}
	window := date.TrailingDays(asOf, months*30)
	totals := l.CategoryTotals(window)
	sum := totals[Food].Add(totals[Transportation]).
		Add(totals[Entertainment]).Add(totals[Shopping]).
		Add(totals[Education]).Add(totals[Travel]).Add(totals[Other])
	monthly := sum.DivRound(decimal.NewFromInt(int64(months)), 2)
	return FormatAmount(monthly)
}
