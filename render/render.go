// Package render turns ledger reports into markdown for terminal
// display.
package render

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/nroux/finagent"
)

// TransactionsMarkdown renders a list of transactions as a markdown table.
func TransactionsMarkdown(title string, txs []finagent.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)

	if len(txs) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
		},
		Header: []string{"Date", "Amount", "Category", "Description"},
		Rows:   [][]string{},
	}
	for _, tx := range txs {
		table.Rows = append(table.Rows, []string{
			tx.Date.String(),
			finagent.FormatAmount(tx.Amount),
			tx.Category.String(),
			tx.Description,
		})
	}
	doc.Table(table)
	return doc.String()
}

// BudgetMarkdown renders budget progress rows with their narrative.
func BudgetMarkdown(rows []finagent.BudgetRow, narrative string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Budget Progress")

	if len(rows) == 0 {
		doc.PlainText("No budget goals set. Use `budget -set` to create one.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Category", "Limit", "Spent", "Used", "Status"},
		Rows:   [][]string{},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Category.String(),
			finagent.FormatAmount(r.Limit),
			finagent.FormatAmount(r.Spent),
			r.PercentDisplay(),
			string(r.Status),
		})
	}
	doc.Table(table)
	doc.PlainText(narrative)
	return doc.String()
}

// AnomaliesMarkdown renders flagged transactions with their statistical
// context.
func AnomaliesMarkdown(flagged []finagent.Anomaly, narrative string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Unusual Transactions")

	if len(flagged) == 0 {
		doc.PlainText(narrative)
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Amount", "Description", "Typical", "Threshold"},
		Rows:   [][]string{},
	}
	for _, a := range flagged {
		table.Rows = append(table.Rows, []string{
			a.Transaction.Date.String(),
			finagent.FormatAmount(a.Transaction.Amount),
			a.Transaction.Description,
			fmt.Sprintf("$%.2f", a.Mean),
			fmt.Sprintf("$%.2f", a.Threshold),
		})
	}
	doc.Table(table)
	doc.PlainText(narrative)
	return doc.String()
}

// AnalysisMarkdown renders an analysis answer with its result table and
// chart hint, when present.
func AnalysisMarkdown(a finagent.Analysis) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Analysis")
	doc.PlainText(a.Text)

	if len(a.Table) > 1 {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Group", "Value"},
			Rows:      [][]string{},
		}
		for _, row := range a.Table {
			table.Rows = append(table.Rows, []string{row.Label, finagent.FormatAmount(row.Value)})
		}
		doc.Table(table)
	}

	if a.Chart != nil {
		doc.PlainTextf("Suggested chart: %s (%s vs %s).", a.Chart.Type, a.Chart.X, a.Chart.Y)
	}
	return doc.String()
}

// GoalsMarkdown renders the configured budget goals.
func GoalsMarkdown(goals map[finagent.Category]string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Budget Goals")

	if len(goals) == 0 {
		doc.PlainText("No budget goals set.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Category", "Monthly Limit"},
		Rows:      [][]string{},
	}
	for _, c := range finagent.Categories() {
		if limit, ok := goals[c]; ok {
			table.Rows = append(table.Rows, []string{c.String(), limit})
		}
	}
	doc.Table(table)
	return doc.String()
}
