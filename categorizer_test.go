package finagent

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func TestCategorizeRules(t *testing.T) {
	c := NewCategorizer(nil, zerolog.Nop())

	tests := []struct {
		description string
		amount      string
		want        Category
		wantMethod  Method
	}{
		{"Grocery shopping at Whole Foods", "-52.50", Food, MethodRule},
		{"Uber rides for the week", "-125.30", Transportation, MethodRule},
		{"Monthly salary deposit", "2500", Income, MethodSign},
		{"Dinner with friends at Italian restaurant", "-85.20", Food, MethodRule},
		{"Netflix and Spotify subscriptions", "-45.99", Entertainment, MethodRule},
		{"New smartphone case and accessories", "-320.50", Shopping, MethodRule},
		{"Monthly rent payment", "-960", Housing, MethodRule},
		{"Electricity and water bill", "-120.30", Utilities, MethodRule},
		// a positive amount with an expense keyword keeps the keyword category
		{"Refunded dinner at restaurant", "85.20", Food, MethodRule},
		// a negative amount matching an income keyword stays out of Income
		{"Salary correction", "-100", Other, MethodRule},
		// no rule and no model degrades to Other
		{"xyzzy", "-10", Other, MethodFallback},
	}
	for _, test := range tests {
		got, method := c.Categorize(context.Background(), test.description, decimal.RequireFromString(test.amount))
		if got != test.want || method != test.wantMethod {
			t.Errorf("Categorize(%q, %s) = (%s, %s), want (%s, %s)",
				test.description, test.amount, got, method, test.want, test.wantMethod)
		}
	}
}

func TestCategorizeRuleOrdering(t *testing.T) {
	// "grocery" must win over "shopping" within the same description.
	c := NewCategorizer(nil, zerolog.Nop())
	got, _ := c.Categorize(context.Background(), "Grocery shopping at Whole Foods", decimal.RequireFromString("-52.50"))
	if got != Food {
		t.Errorf("got %s, want %s", got, Food)
	}
}

func TestCategorizeModelFallback(t *testing.T) {
	answer := func(reply string, err error) Generator {
		return GeneratorFunc(func(context.Context, string) (string, error) { return reply, err })
	}

	tests := []struct {
		name       string
		gen        Generator
		want       Category
		wantMethod Method
	}{
		{"valid label", answer("Healthcare", nil), Healthcare, MethodModel},
		{"label with trailing text", answer("Healthcare\nBecause it is a copay.", nil), Healthcare, MethodModel},
		{"alias label", answer("medical", nil), Healthcare, MethodModel},
		{"outside taxonomy", answer("Gadgets", nil), Other, MethodFallback},
		{"model error", answer("", errors.New("quota exceeded")), Other, MethodFallback},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := NewCategorizer(test.gen, zerolog.Nop())
			got, method := c.Categorize(context.Background(), "mysterious charge", decimal.RequireFromString("-10"))
			if got != test.want || method != test.wantMethod {
				t.Errorf("got (%s, %s), want (%s, %s)", got, method, test.want, test.wantMethod)
			}
		})
	}
}
