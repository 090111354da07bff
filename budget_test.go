package finagent

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nroux/finagent/date"
)

func TestComputeBudgetProgress(t *testing.T) {
	l := testLedger(t,
		tx("2025-04-01", "-52.50", "groceries", Food),
		tx("2025-04-04", "-85.20", "dinner", Food),
		tx("2025-04-10", "-82.30", "more groceries", Food),
		tx("2025-04-02", "-125.30", "uber", Transportation),
		tx("2025-04-05", "-10", "parking", Travel),
		tx("2025-03-20", "-500", "groceries last month", Food),
	)
	goals := map[Category]decimal.Decimal{
		Food:           dec("200"), // 220 spent, over
		Transportation: dec("150"), // 125.30 spent, near
		Entertainment:  dec("100"), // nothing spent, under
		Travel:         dec("0"),   // zero limit with spend, unbounded
	}
	april := date.MonthOf(mustDate("2025-04-15"))

	rows := ComputeBudgetProgress(l, goals, april)
	if len(rows) != 4 {
		t.Fatalf("len = %d, want 4", len(rows))
	}

	// Rows keep taxonomy display order.
	byCat := map[Category]BudgetRow{}
	wantOrder := []Category{Food, Transportation, Entertainment, Travel}
	for i, row := range rows {
		if row.Category != wantOrder[i] {
			t.Errorf("row %d = %s, want %s", i, row.Category, wantOrder[i])
		}
		byCat[row.Category] = row
	}

	food := byCat[Food]
	if food.Status != StatusOver || food.Percentage.StringFixed(1) != "110.0" {
		t.Errorf("Food = %s at %s, want over at 110.0", food.Status, food.Percentage)
	}
	if got := food.Spent.String(); got != "220" {
		t.Errorf("Food spent = %s, want 220", got)
	}

	transport := byCat[Transportation]
	if transport.Status != StatusNear {
		t.Errorf("Transportation = %s, want near", transport.Status)
	}

	entertainment := byCat[Entertainment]
	if entertainment.Status != StatusUnder || !entertainment.Spent.IsZero() {
		t.Errorf("Entertainment = %s, spent %s", entertainment.Status, entertainment.Spent)
	}

	travel := byCat[Travel]
	if !travel.Unbounded || travel.Status != StatusOver {
		t.Errorf("Travel = %+v, want unbounded over", travel)
	}
	if travel.PercentDisplay() != "n/a" {
		t.Errorf("PercentDisplay = %s, want n/a", travel.PercentDisplay())
	}
}

func TestBudgetNearBoundary(t *testing.T) {
	l := testLedger(t, tx("2025-04-01", "-80", "groceries", Food))
	rows := ComputeBudgetProgress(l,
		map[Category]decimal.Decimal{Food: dec("100")},
		date.MonthOf(mustDate("2025-04-15")))
	if rows[0].Status != StatusNear {
		t.Errorf("exactly 80%% = %s, want near", rows[0].Status)
	}
}

func TestBudgetNarrative(t *testing.T) {
	rows := []BudgetRow{
		{Category: Food, Limit: dec("200"), Spent: dec("220"), Percentage: dec("110.0"), Status: StatusOver},
		{Category: Transportation, Limit: dec("150"), Spent: dec("50"), Percentage: dec("33.3"), Status: StatusUnder},
	}
	got := BudgetNarrative(mustDate("2025-04-15"), rows)
	for _, want := range []string{"April 2025", "Food", "110.0%", "Over budget: Food."} {
		if !strings.Contains(got, want) {
			t.Errorf("narrative missing %q:\n%s", want, got)
		}
	}

	if got := BudgetNarrative(mustDate("2025-04-15"), nil); got != "No budget goals set." {
		t.Errorf("empty narrative = %q", got)
	}
}

func TestRequiredContribution(t *testing.T) {
	got, err := RequiredContribution(dec("1200"), 12)
	if err != nil {
		t.Fatal(err)
	}
	if got.StringFixed(2) != "100.00" {
		t.Errorf("contribution = %s, want 100.00", got)
	}

	// Rounding stays at cents.
	got, err = RequiredContribution(dec("1000"), 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.StringFixed(2) != "333.33" {
		t.Errorf("contribution = %s, want 333.33", got)
	}

	if _, err := RequiredContribution(dec("1000"), 0); !IsValidation(err) {
		t.Errorf("months=0 should be a validation error, got %v", err)
	}
	if _, err := RequiredContribution(dec("-5"), 12); !IsValidation(err) {
		t.Errorf("negative goal should be a validation error, got %v", err)
	}
}
