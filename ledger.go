package finagent

import (
	"fmt"
	"iter"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nroux/finagent/date"
)

// Ledger is the append-mostly collection of all recorded transactions,
// the source of truth for every downstream computation.
//
// Rows are kept in chronological order; insertion order is irrelevant.
// Rows are never physically deleted: corrections are additive, except
// for explicit recategorization which rewrites a single row's category.
type Ledger struct {
	transactions []Transaction
	byID         map[string]int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		transactions: make([]Transaction, 0),
		byID:         make(map[string]int),
	}
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Append validates and appends transactions, maintaining chronological
// order. The first invalid row aborts the call; callers needing
// partial-failure semantics validate row by row (see Agent.BulkImport).
func (l *Ledger) Append(txs ...Transaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return err
		}
		if _, dup := l.byID[tx.ID]; dup {
			return fmt.Errorf("duplicate transaction id %q", tx.ID)
		}
	}
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
	return nil
}

// stableSort sorts rows by date. Rows on the same day keep their
// relative insertion order. The id index is rebuilt afterwards.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
	for i, tx := range l.transactions {
		l.byID[tx.ID] = i
	}
}

// Get returns the transaction with the given id.
func (l *Ledger) Get(id string) (Transaction, bool) {
	i, ok := l.byID[id]
	if !ok {
		return Transaction{}, false
	}
	return l.transactions[i], true
}

// Recategorize rewrites the category of an existing row. This is the
// only mutation of a recorded transaction.
func (l *Ledger) Recategorize(id string, c Category) error {
	if !c.IsValid() {
		return validationf("category", "%q is not in the taxonomy", c)
	}
	i, ok := l.byID[id]
	if !ok {
		return validationf("id", "unknown transaction %q", id)
	}
	l.transactions[i].Category = c
	return nil
}

// Transactions returns an iterator over rows in chronological order,
// yielding only rows accepted by every given predicate.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
	rows:
		for i, tx := range l.transactions {
			for _, filter := range filters {
				if !filter(tx) {
					continue rows
				}
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// Snapshot returns a copy of all rows in chronological order. Callers
// own the returned slice and cannot mutate the ledger through it.
func (l *Ledger) Snapshot() []Transaction {
	out := make([]Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// Filter returns the rows matching the category (empty matches all) and
// the date range (zero range matches all). Pure, no side effects.
func (l *Ledger) Filter(c Category, r date.Range) []Transaction {
	var out []Transaction
	for _, tx := range l.Transactions(ByCategory(c), InRange(r)) {
		out = append(out, tx)
	}
	return out
}

// OldestDate returns the date of the earliest row, or the zero Date on
// an empty ledger.
func (l *Ledger) OldestDate() date.Date {
	if len(l.transactions) == 0 {
		return date.Date{}
	}
	return l.transactions[0].Date
}

// NewestDate returns the date of the latest row, or the zero Date on an
// empty ledger.
func (l *Ledger) NewestDate() date.Date {
	if len(l.transactions) == 0 {
		return date.Date{}
	}
	return l.transactions[len(l.transactions)-1].Date
}

// Totals computes income, expenses (as a positive figure) and net
// balance over the given range. Arithmetic is exact.
func (l *Ledger) Totals(r date.Range) (income, expenses, net decimal.Decimal) {
	for _, tx := range l.Transactions(InRange(r)) {
		if tx.IsExpense() {
			expenses = expenses.Add(tx.Abs())
		} else {
			income = income.Add(tx.Amount)
		}
	}
	return income, expenses, income.Sub(expenses)
}

// CategoryTotals sums expense amounts (unsigned) per category over the
// given range. Categories with no expense rows are absent from the map.
func (l *Ledger) CategoryTotals(r date.Range) map[Category]decimal.Decimal {
	totals := make(map[Category]decimal.Decimal)
	for _, tx := range l.Transactions(InRange(r), ExpensesOnly) {
		totals[tx.Category] = totals[tx.Category].Add(tx.Abs())
	}
	return totals
}

// ByCategory returns a predicate accepting rows of the given category.
// The empty category accepts everything.
func ByCategory(c Category) func(Transaction) bool {
	return func(tx Transaction) bool { return c == "" || tx.Category == c }
}

// InRange returns a predicate accepting rows inside the range. The zero
// range accepts everything.
func InRange(r date.Range) func(Transaction) bool {
	return func(tx Transaction) bool { return r.Contains(tx.Date) }
}

// ExpensesOnly accepts expense rows.
func ExpensesOnly(tx Transaction) bool { return tx.IsExpense() }

// IncomeOnly accepts income rows.
func IncomeOnly(tx Transaction) bool { return !tx.IsExpense() }
