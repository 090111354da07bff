// Package finagent implements a personal-finance analytics agent: a
// transaction ledger, deterministic-first categorization, budget and
// savings tracking, statistical anomaly detection, and a
// natural-language analysis pipeline backed by a language model.
package finagent

import (
	"encoding/json"
	"strings"
)

// Category is one label from the closed spending/income taxonomy.
//
// The taxonomy is fixed: free strings coming from user input or from the
// model are normalized through ParseCategory and collapse to Other when
// they fall outside the set, so no open string ever becomes an
// aggregation key.
type Category string

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Housing        Category = "Housing"
	Entertainment  Category = "Entertainment"
	Shopping       Category = "Shopping"
	Utilities      Category = "Utilities"
	Healthcare     Category = "Healthcare"
	Education      Category = "Education"
	Travel         Category = "Travel"
	Income         Category = "Income"
	Other          Category = "Other"
)

// Categories lists the full taxonomy in display order.
func Categories() []Category {
	return []Category{
		Food, Transportation, Housing, Entertainment, Shopping,
		Utilities, Healthcare, Education, Travel, Income, Other,
	}
}

// aliases maps common loose spellings to taxonomy members.
var aliases = map[string]Category{
	"groceries":      Food,
	"dining":         Food,
	"restaurant":     Food,
	"transport":      Transportation,
	"transit":        Transportation,
	"car":            Transportation,
	"rent":           Housing,
	"home":           Housing,
	"fun":            Entertainment,
	"subscriptions":  Entertainment,
	"clothes":        Shopping,
	"retail":         Shopping,
	"bills":          Utilities,
	"medical":        Healthcare,
	"health":         Healthcare,
	"school":         Education,
	"tuition":        Education,
	"vacation":       Travel,
	"holiday":        Travel,
	"salary":         Income,
	"wages":          Income,
	"misc":           Other,
	"miscellaneous":  Other,
	"uncategorized":  Other,
	"uncategorised":  Other,
	"unknown":        Other,
	"n/a":            Other,
}

// ParseCategory normalizes a free string into a taxonomy member.
// Unrecognized labels map to Other; ok reports whether the input was a
// known label or alias.
func ParseCategory(s string) (c Category, ok bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	needle = strings.Trim(needle, `"'.`)
	for _, cat := range Categories() {
		if needle == strings.ToLower(string(cat)) {
			return cat, true
		}
	}
	if cat, found := aliases[needle]; found {
		return cat, true
	}
	return Other, false
}

// IsValid reports whether c is a member of the taxonomy.
func (c Category) IsValid() bool {
	for _, cat := range Categories() {
		if c == cat {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// MarshalJSON encodes the category as its JSON string label.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

// UnmarshalJSON decodes and normalizes a category label.
func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, _ := ParseCategory(s)
	*c = parsed
	return nil
}
