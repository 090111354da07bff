package finagent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
)

// Method records how a category was assigned.
type Method string

const (
	// MethodSign means the amount sign alone decided (income).
	MethodSign Method = "sign"
	// MethodRule means a keyword rule matched. Deterministic, offline.
	MethodRule Method = "rule"
	// MethodModel means the language-model fallback answered with a
	// taxonomy label.
	MethodModel Method = "model"
	// MethodFallback means the model was unreachable or answered
	// outside the taxonomy; the row degraded to Other.
	MethodFallback Method = "fallback"
)

// rule maps a case-insensitive glob pattern over the description to a
// category. First match wins, so narrower patterns come first.
type rule struct {
	pattern  string
	category Category
}

// defaultRules is the curated keyword table. Patterns are matched
// against the lowercased description. Keep "grocery" ahead of
// "shopping": a row like "Grocery shopping at Whole Foods" is Food.
var defaultRules = []rule{
	{"*grocery*", Food},
	{"*groceries*", Food},
	{"*supermarket*", Food},
	{"*restaurant*", Food},
	{"*dinner*", Food},
	{"*lunch*", Food},
	{"*breakfast*", Food},
	{"*coffee*", Food},
	{"*cafe*", Food},
	{"*pizza*", Food},
	{"*takeout*", Food},
	{"*food*", Food},

	{"*uber*", Transportation},
	{"*lyft*", Transportation},
	{"*taxi*", Transportation},
	{"*fuel*", Transportation},
	{"*gas station*", Transportation},
	{"*parking*", Transportation},
	{"*train*", Transportation},
	{"*metro*", Transportation},
	{"*bus ticket*", Transportation},
	{"*car wash*", Transportation},

	{"*rent*", Housing},
	{"*mortgage*", Housing},
	{"*landlord*", Housing},
	{"*furniture*", Housing},

	{"*netflix*", Entertainment},
	{"*spotify*", Entertainment},
	{"*cinema*", Entertainment},
	{"*movie*", Entertainment},
	{"*concert*", Entertainment},
	{"*streaming*", Entertainment},
	{"*subscription*", Entertainment},
	{"*game*", Entertainment},

	{"*amazon*", Shopping},
	{"*clothing*", Shopping},
	{"*clothes*", Shopping},
	{"*shoes*", Shopping},
	{"*mall*", Shopping},
	{"*smartphone*", Shopping},
	{"*electronics*", Shopping},
	{"*shopping*", Shopping},

	{"*electricity*", Utilities},
	{"*electric bill*", Utilities},
	{"*water bill*", Utilities},
	{"*internet*", Utilities},
	{"*phone bill*", Utilities},
	{"*utility*", Utilities},
	{"*utilities*", Utilities},

	{"*pharmacy*", Healthcare},
	{"*doctor*", Healthcare},
	{"*dentist*", Healthcare},
	{"*hospital*", Healthcare},
	{"*clinic*", Healthcare},
	{"*insurance*", Healthcare},

	{"*tuition*", Education},
	{"*course*", Education},
	{"*textbook*", Education},
	{"*udemy*", Education},
	{"*school*", Education},

	{"*flight*", Travel},
	{"*hotel*", Travel},
	{"*airbnb*", Travel},
	{"*airline*", Travel},
	{"*vacation*", Travel},

	{"*salary*", Income},
	{"*payroll*", Income},
	{"*paycheck*", Income},
	{"*dividend*", Income},
	{"*interest earned*", Income},
	{"*refund*", Income},
}

// Categorizer assigns exactly one taxonomy label to a transaction,
// given only its description and amount sign. Deterministic passes run
// first; the language model is consulted only when no rule matches.
type Categorizer struct {
	gen   Generator
	rules []rule
	log   zerolog.Logger
}

// NewCategorizer creates a categorizer with the curated rule table.
// gen may be nil: the fallback then degrades straight to Other.
func NewCategorizer(gen Generator, log zerolog.Logger) *Categorizer {
	return &Categorizer{gen: gen, rules: defaultRules, log: log}
}

// matchRule returns the first rule category matching the description.
func (c *Categorizer) matchRule(description string) (Category, bool) {
	needle := strings.ToLower(description)
	for _, r := range c.rules {
		if glob.Glob(r.pattern, needle) {
			return r.category, true
		}
	}
	return Other, false
}

// Categorize assigns a category. The returned Method tells which pass
// decided; only MethodModel involved a network round trip.
//
// The model pass is idempotent in effect but not exactly reproducible:
// the same unseen description converges to the same category with high
// probability, not with certainty.
func (c *Categorizer) Categorize(ctx context.Context, description string, amount decimal.Decimal) (Category, Method) {
	matched, ok := c.matchRule(description)

	// A non-negative amount with no strong expense keyword is income.
	if !amount.IsNegative() {
		if ok && matched != Income {
			return matched, MethodRule
		}
		return Income, MethodSign
	}

	if ok {
		if matched == Income {
			// An expense row matching an income keyword (e.g. a salary
			// correction) stays out of Income.
			return Other, MethodRule
		}
		return matched, MethodRule
	}

	return c.askModel(ctx, description)
}

// askModel delegates an ambiguous description to the language model
// with a constrained single-label prompt. Any failure degrades to
// Other; ingestion never crashes on a model outage.
func (c *Categorizer) askModel(ctx context.Context, description string) (Category, Method) {
	if c.gen == nil {
		return Other, MethodFallback
	}
	reply, err := c.gen.Generate(ctx, categoryPrompt(description))
	if err != nil {
		c.log.Warn().Err(err).Str("description", description).
			Msg("categorizer model fallback failed, assigning Other")
		return Other, MethodFallback
	}
	label := strings.TrimSpace(reply)
	if i := strings.IndexByte(label, '\n'); i >= 0 {
		label = label[:i]
	}
	cat, known := ParseCategory(label)
	if !known {
		c.log.Debug().Str("label", label).Msg("model label outside taxonomy")
		return Other, MethodFallback
	}
	return cat, MethodModel
}

func categoryPrompt(description string) string {
	labels := make([]string, 0, len(Categories()))
	for _, cat := range Categories() {
		labels = append(labels, string(cat))
	}
	return fmt.Sprintf(`Classify this personal-finance transaction into exactly one category.

Transaction description: %q

Answer with exactly one of these labels and nothing else:
%s`, description, strings.Join(labels, ", "))
}
