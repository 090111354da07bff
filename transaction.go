package finagent

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nroux/finagent/date"
)

// Transaction is a single ledger row. Amount is signed: positive for
// income, negative for expenses. Category is assigned at insert and
// mutable only through an explicit recategorization.
type Transaction struct {
	ID          string          `json:"id"`
	Date        date.Date       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
}

// NewTransaction creates a transaction with a fresh id.
func NewTransaction(day date.Date, amount decimal.Decimal, description string, category Category) Transaction {
	return Transaction{
		ID:          uuid.NewString(),
		Date:        day,
		Amount:      amount,
		Description: description,
		Category:    category,
	}
}

// IsExpense reports whether the row is an expense (negative amount).
func (t Transaction) IsExpense() bool { return t.Amount.IsNegative() }

// Abs returns the unsigned amount.
func (t Transaction) Abs() decimal.Decimal { return t.Amount.Abs() }

// Validate checks the ledger invariants for a single row.
func (t Transaction) Validate() error {
	if t.Amount.IsZero() {
		return validationf("amount", "must be non-zero")
	}
	if t.Date.IsZero() {
		return validationf("date", "is missing")
	}
	if !t.Category.IsValid() {
		return validationf("category", "%q is not in the taxonomy", t.Category)
	}
	return nil
}

// MarshalJSON writes the row with a stable field order for JSONL
// persistence.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("date", t.Date)
	w.Append("amount", t.Amount)
	w.Optional("description", t.Description)
	w.Append("category", string(t.Category))
	return w.MarshalJSON()
}
