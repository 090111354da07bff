package finagent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// The analysis engine turns a natural-language question into a query
// plan: a small, closed JSON document the model emits and the core
// interprets against a read-only snapshot. No model-generated code is
// ever executed; the only evaluated artifact is the filter expression,
// run through gval with a fixed set of row bindings and no I/O
// capability. That closed language is the whole sandbox.

// Plan is the query language. Every field is validated against a closed
// set before execution.
type Plan struct {
	Filter    string     `json:"filter,omitempty"`    // gval boolean expression over row bindings
	GroupBy   string     `json:"group_by,omitempty"`  // none | category | month | weekday
	Aggregate string     `json:"aggregate,omitempty"` // sum | count | avg | min | max
	Metric    string     `json:"metric,omitempty"`    // amount | abs_amount
	Sort      string     `json:"sort,omitempty"`      // value_desc | value_asc | key
	Limit     int        `json:"limit,omitempty"`
	Chart     *ChartSpec `json:"chart,omitempty"`
}

// ChartSpec is a declarative chart description passed through to the
// presentation layer; the core renders nothing.
type ChartSpec struct {
	Type  string `json:"type"` // bar | line | pie
	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`
	Title string `json:"title,omitempty"`
}

// AnalysisRow is one line of an analysis result table.
type AnalysisRow struct {
	Label string
	Value decimal.Decimal
}

// Analysis is the full result of a natural-language query. Plan always
// carries the raw model output for audit, on success and on failure.
type Analysis struct {
	Text  string
	Table []AnalysisRow
	Chart *ChartSpec
	Plan  string
}

// planLanguage is the closed expression language for filters:
// arithmetic, comparisons, boolean operators, jsonpath placeholders and
// a case-insensitive contains helper. Nothing in it reaches the
// filesystem, network or process state.
var planLanguage = gval.Full(
	jsonpath.PlaceholderExtension(),
	gval.Function("contains", func(s, substr string) bool {
		return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
	}),
)

// ParsePlan decodes and validates a model reply into a Plan. Markdown
// code fences around the JSON are tolerated; anything outside the
// closed field sets is rejected.
func ParsePlan(reply string) (Plan, error) {
	raw := stripFences(reply)
	var p Plan
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Plan{}, &PlanError{Plan: reply, Reason: "malformed plan JSON", Err: err}
	}
	if err := p.validate(); err != nil {
		return Plan{}, &PlanError{Plan: reply, Reason: err.Error()}
	}
	return p, nil
}

func (p Plan) validate() error {
	switch p.GroupBy {
	case "", "none", "category", "month", "weekday":
	default:
		return fmt.Errorf("unknown group_by %q", p.GroupBy)
	}
	switch p.Aggregate {
	case "", "sum", "count", "avg", "min", "max":
	default:
		return fmt.Errorf("unknown aggregate %q", p.Aggregate)
	}
	switch p.Metric {
	case "", "amount", "abs_amount":
	default:
		return fmt.Errorf("unknown metric %q", p.Metric)
	}
	switch p.Sort {
	case "", "value_desc", "value_asc", "key":
	default:
		return fmt.Errorf("unknown sort %q", p.Sort)
	}
	if p.Limit < 0 || p.Limit > 1000 {
		return fmt.Errorf("limit %d out of range", p.Limit)
	}
	if p.Chart != nil {
		switch p.Chart.Type {
		case "bar", "line", "pie":
		default:
			return fmt.Errorf("unknown chart type %q", p.Chart.Type)
		}
	}
	return nil
}

// stripFences removes a surrounding markdown code fence, which models
// add even when told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// rowBindings is the fixed environment a filter expression sees.
func rowBindings(tx Transaction) map[string]any {
	return map[string]any{
		"date":        tx.Date.String(),
		"month":       fmt.Sprintf("%04d-%02d", tx.Date.Year(), int(tx.Date.Month())),
		"weekday":     tx.Date.Weekday().String(),
		"amount":      tx.Amount.InexactFloat64(),
		"abs_amount":  tx.Abs().InexactFloat64(),
		"description": tx.Description,
		"category":    string(tx.Category),
		"is_expense":  tx.IsExpense(),
	}
}

// ExecutePlan interprets a validated plan over a snapshot. The snapshot
// is never mutated; ctx cancellation aborts between rows so a pathological
// expression cannot run unbounded.
func ExecutePlan(ctx context.Context, snapshot []Transaction, p Plan) ([]AnalysisRow, error) {
	var filter gval.Evaluable
	if p.Filter != "" {
		var err error
		filter, err = planLanguage.NewEvaluable(p.Filter)
		if err != nil {
			return nil, &PlanError{Reason: fmt.Sprintf("invalid filter %q", p.Filter), Err: err}
		}
	}

	aggregate := p.Aggregate
	if aggregate == "" {
		aggregate = "sum"
	}
	metric := p.Metric
	if metric == "" {
		metric = "abs_amount"
	}

	type bucket struct {
		sum      decimal.Decimal
		count    int64
		min, max decimal.Decimal
	}
	buckets := make(map[string]*bucket)

	for _, tx := range snapshot {
		if err := ctx.Err(); err != nil {
			return nil, &PlanError{Reason: "analysis timed out", Err: err}
		}
		if filter != nil {
			v, err := filter(ctx, rowBindings(tx))
			if err != nil {
				return nil, &PlanError{Reason: fmt.Sprintf("filter %q failed", p.Filter), Err: err}
			}
			keep, ok := v.(bool)
			if !ok {
				return nil, &PlanError{Reason: fmt.Sprintf("filter %q is not boolean (got %T)", p.Filter, v)}
			}
			if !keep {
				continue
			}
		}

		key := "total"
		switch p.GroupBy {
		case "category":
			key = string(tx.Category)
		case "month":
			key = fmt.Sprintf("%04d-%02d", tx.Date.Year(), int(tx.Date.Month()))
		case "weekday":
			key = tx.Date.Weekday().String()
		}

		value := tx.Amount
		if metric == "abs_amount" {
			value = tx.Abs()
		}

		b, ok := buckets[key]
		if !ok {
			b = &bucket{min: value, max: value}
			buckets[key] = b
		}
		b.sum = b.sum.Add(value)
		b.count++
		if value.LessThan(b.min) {
			b.min = value
		}
		if value.GreaterThan(b.max) {
			b.max = value
		}
	}

	rows := make([]AnalysisRow, 0, len(buckets))
	for key, b := range buckets {
		var v decimal.Decimal
		switch aggregate {
		case "sum":
			v = b.sum
		case "count":
			v = decimal.NewFromInt(b.count)
		case "avg":
			v = b.sum.DivRound(decimal.NewFromInt(b.count), 2)
		case "min":
			v = b.min
		case "max":
			v = b.max
		}
		rows = append(rows, AnalysisRow{Label: key, Value: v})
	}

	switch p.Sort {
	case "value_asc":
		sort.Slice(rows, func(i, j int) bool { return rows[i].Value.LessThan(rows[j].Value) })
	case "key":
		sort.Slice(rows, func(i, j int) bool { return rows[i].Label < rows[j].Label })
	default: // value_desc
		sort.Slice(rows, func(i, j int) bool { return rows[i].Value.GreaterThan(rows[j].Value) })
	}

	if p.Limit > 0 && len(rows) > p.Limit {
		rows = rows[:p.Limit]
	}
	return rows, nil
}

// SummarizeRows renders the deterministic result text for a table.
func SummarizeRows(p Plan, rows []AnalysisRow) string {
	if len(rows) == 0 {
		return "No matching transactions."
	}
	aggregate := p.Aggregate
	if aggregate == "" {
		aggregate = "sum"
	}
	if len(rows) == 1 && rows[0].Label == "total" {
		if aggregate == "count" {
			return fmt.Sprintf("Result: %s matching transaction(s).", rows[0].Value)
		}
		return fmt.Sprintf("Result: %s.", FormatAmount(rows[0].Value))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Result (%s of %s by %s):\n", aggregate, metricOrDefault(p), p.GroupBy)
	for _, r := range rows {
		if aggregate == "count" {
			fmt.Fprintf(&b, "- %s: %s\n", r.Label, r.Value)
		} else {
			fmt.Fprintf(&b, "- %s: %s\n", r.Label, FormatAmount(r.Value))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func metricOrDefault(p Plan) string {
	if p.Metric == "" {
		return "abs_amount"
	}
	return p.Metric
}
