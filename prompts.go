package finagent

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nroux/finagent/date"
)

// Prompt builders for every model-backed path. Each prompt carries
// aggregates and schema, never full transaction rows, and every
// consumer has a deterministic fallback when the round trip fails.

// analysisPrompt asks for a query plan. It embeds the row schema, the
// closed plan language and a few question-to-plan examples; asOf keeps
// the examples anchored to the caller's current month.
func analysisPrompt(question string, asOf date.Date) string {
	labels := make([]string, 0, len(Categories()))
	for _, cat := range Categories() {
		labels = append(labels, string(cat))
	}
	month := fmt.Sprintf("%04d-%02d", asOf.Year(), int(asOf.Month()))
	return fmt.Sprintf(`You translate personal-finance questions into ONE JSON query plan.

Each transaction row exposes these bindings:
- date: "YYYY-MM-DD" string
- month: "YYYY-MM" string
- weekday: "Monday".."Sunday"
- amount: signed number, negative means expense
- abs_amount: unsigned number
- description: free text
- category: one of %s
- is_expense: boolean

Plan fields (all optional):
- filter: boolean expression using comparisons, && || !, and contains(description, "text")
- group_by: "none" | "category" | "month" | "weekday"
- aggregate: "sum" | "count" | "avg" | "min" | "max"
- metric: "amount" | "abs_amount"
- sort: "value_desc" | "value_asc" | "key"
- limit: integer
- chart: {"type": "bar"|"line"|"pie", "x": ..., "y": ..., "title": ...}

Examples:
Q: Show my spending by category in the last month
{"filter":"is_expense && month == %q","group_by":"category","aggregate":"sum","metric":"abs_amount","sort":"value_desc","chart":{"type":"pie","x":"category","y":"spent","title":"Spending by category"}}
Q: What are my top 5 largest expenses?
{"filter":"is_expense","aggregate":"max","metric":"abs_amount","group_by":"none","limit":5}
Q: How much am I spending on subscriptions?
{"filter":"is_expense && (contains(description, \"netflix\") || contains(description, \"spotify\") || contains(description, \"subscription\"))","aggregate":"sum","metric":"abs_amount"}
Q: How has my spending changed over time?
{"filter":"is_expense","group_by":"month","aggregate":"sum","metric":"abs_amount","sort":"key","chart":{"type":"line","x":"month","y":"spent","title":"Monthly spending"}}

Question: %s

Answer with the JSON object only, no prose, no code fence.`,
		strings.Join(labels, ", "), month, question)
}

// chatPrompt builds the conversational prompt from a bounded history
// window and the ledger summary.
func chatPrompt(history []ChatMessage, summary, message string) string {
	var b strings.Builder
	b.WriteString("You are a helpful personal-finance assistant. Be concise and practical.\n\n")
	b.WriteString("Current financial context:\n")
	b.WriteString(summary)
	b.WriteString("\n\n")
	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, msg := range history {
			fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "user: %s\nassistant:", message)
	return b.String()
}

// advicePrompt builds a one-shot advisory prompt on a topic.
func advicePrompt(topic, summary string, insights []Insight) string {
	var b strings.Builder
	b.WriteString("You are a pragmatic personal-finance advisor. Give specific, actionable advice in markdown.\n\n")
	b.WriteString("Financial context:\n")
	b.WriteString(summary)
	if len(insights) > 0 {
		b.WriteString("\n\nRecent observations:\n")
		for _, in := range insights {
			fmt.Fprintf(&b, "- %s\n", in.Text)
		}
	}
	fmt.Fprintf(&b, "\nRequest: %s\n", topic)
	return b.String()
}

// recommendationPrompt asks for a budget recommendation from aggregate
// spend and existing goals only.
func recommendationPrompt(summary string, goals map[Category]decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("Recommend monthly budget limits per spending category, in markdown, based only on the aggregates below.\n\n")
	b.WriteString(summary)
	if len(goals) > 0 {
		b.WriteString("\n\nExisting goals:\n")
		for _, c := range Categories() {
			if limit, ok := goals[c]; ok {
				fmt.Fprintf(&b, "- %s: %s per month\n", c, FormatAmount(limit))
			}
		}
	}
	b.WriteString("\nKeep the recommendation short: one line per category with a proposed limit and a one-sentence rationale.\n")
	return b.String()
}

// savingPlanPrompt wraps the precomputed contribution in an advisory
// request. The figure itself is computed by the core and must appear
// verbatim; the model only writes the prose around it.
func savingPlanPrompt(goal decimal.Decimal, months int, contribution, discretionary string) string {
	return fmt.Sprintf(`Write a short, encouraging savings plan in markdown.

Hard facts (do not recompute or alter them):
- Goal: %s over %d months
- Required monthly contribution: exactly %s (quote this figure verbatim)
- Current average monthly discretionary spend: %s

Suggest 2-3 concrete ways to free up the required contribution from the
discretionary spend.`,
		FormatAmount(goal), months, contribution, discretionary)
}

// healthCheckPrompt asks for a comprehensive financial review over
// aggregate data.
func healthCheckPrompt(summary, progress string) string {
	return fmt.Sprintf(`You are a financial health analyst. Based on the aggregates below,
write a financial health check in markdown covering:

1. Income stability and consistency
2. Spending patterns and budget adherence
3. Saving rate
4. Overall financial health score (1-10)
5. Top 3 recommendations for improvement

%s

Budget status:
%s`, summary, progress)
}

// unavailableMessage is the degraded reply for every advisory path.
const unavailableMessage = "The assistant is temporarily unavailable. Your data is safe; please try again in a moment."
