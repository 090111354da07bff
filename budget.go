package finagent

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/nroux/finagent/date"
)

// BudgetStatus classifies progress against a monthly limit.
type BudgetStatus string

const (
	StatusUnder BudgetStatus = "under"
	StatusNear  BudgetStatus = "near" // >= 80% of the limit
	StatusOver  BudgetStatus = "over" // > 100% of the limit
)

// nearPercent is the threshold at which a budget is reported as "near".
var nearPercent = decimal.NewFromInt(80)

// BudgetRow is one category's progress for the current month.
// Unbounded marks the zero-limit-with-spend case, where a percentage
// would be infinite; Percentage is meaningless when Unbounded is set.
type BudgetRow struct {
	Category   Category
	Limit      decimal.Decimal
	Spent      decimal.Decimal
	Percentage decimal.Decimal
	Unbounded  bool
	Status     BudgetStatus
}

// PercentDisplay renders the percentage for narratives, with a sentinel
// for unbounded rows.
func (r BudgetRow) PercentDisplay() string {
	if r.Unbounded {
		return "n/a"
	}
	return r.Percentage.StringFixed(1) + "%"
}

// ComputeBudgetProgress computes per-category progress over the given
// month. Only categories with a goal produce rows; rows keep taxonomy
// display order. Pure and deterministic.
func ComputeBudgetProgress(l *Ledger, goals map[Category]decimal.Decimal, month date.Range) []BudgetRow {
	totals := l.CategoryTotals(month)
	var rows []BudgetRow
	for _, c := range Categories() {
		limit, ok := goals[c]
		if !ok {
			continue
		}
		spent := totals[c]
		row := BudgetRow{Category: c, Limit: limit, Spent: spent}
		switch {
		case limit.IsZero() && spent.IsPositive():
			row.Unbounded = true
			row.Status = StatusOver
		case limit.IsZero():
			row.Status = StatusUnder
		default:
			row.Percentage = spent.Mul(decimal.NewFromInt(100)).DivRound(limit, 1)
			switch {
			case row.Percentage.GreaterThan(decimal.NewFromInt(100)):
				row.Status = StatusOver
			case row.Percentage.GreaterThanOrEqual(nearPercent):
				row.Status = StatusNear
			default:
				row.Status = StatusUnder
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// budgetNarrativeTmpl renders the deterministic progress summary. No
// model involvement: this path stays reproducible and testable offline.
var budgetNarrativeTmpl = template.Must(template.New("budget").Funcs(template.FuncMap{
	"money": FormatAmount,
}).Parse(`Budget progress for {{.Month}}:
{{- range .Rows}}
- {{.Category}}: {{money .Spent}} of {{money .Limit}} ({{.PercentDisplay}}) - {{.Status}}
{{- end}}
{{- if .Overs}}
Over budget: {{.Overs}}.
{{- else}}
All tracked categories are within budget.
{{- end}}`))

// BudgetNarrative produces the human-readable summary for the rows.
func BudgetNarrative(month date.Date, rows []BudgetRow) string {
	if len(rows) == 0 {
		return "No budget goals set."
	}
	var overs []string
	for _, r := range rows {
		if r.Status == StatusOver {
			overs = append(overs, string(r.Category))
		}
	}
	data := struct {
		Month string
		Rows  []BudgetRow
		Overs string
	}{
		Month: fmt.Sprintf("%s %d", month.Month(), month.Year()),
		Rows:  rows,
		Overs: strings.Join(overs, ", "),
	}
	var b strings.Builder
	if err := budgetNarrativeTmpl.Execute(&b, data); err != nil {
		// The template is static; a failure here is a programming error.
		panic(err)
	}
	return b.String()
}

// RequiredContribution computes the exact monthly contribution for a
// savings goal. The figure is computed here, never by the model, and is
// embedded verbatim in plan text.
func RequiredContribution(goal decimal.Decimal, months int) (decimal.Decimal, error) {
	if months <= 0 {
		return decimal.Zero, validationf("timeframe_months", "must be positive, got %d", months)
	}
	if goal.IsNegative() || goal.IsZero() {
		return decimal.Zero, validationf("goal_amount", "must be positive, got %s", goal)
	}
	return goal.DivRound(decimal.NewFromInt(int64(months)), 2), nil
}
