package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-04-01", want: New(2025, time.April, 1)},
		{in: "2025-4-1", want: New(2025, time.April, 1)},
		{in: "2024-2-29", want: New(2024, time.February, 29)},
		{in: "01/04/2025", wantErr: true},
		{in: "not a date", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) = %v, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMonthBoundaries(t *testing.T) {
	d := New(2025, time.February, 14)
	if got := d.StartOfMonth(); got != New(2025, time.February, 1) {
		t.Errorf("StartOfMonth() = %v", got)
	}
	if got := d.EndOfMonth(); got != New(2025, time.February, 28) {
		t.Errorf("EndOfMonth() = %v", got)
	}
	// leap year
	if got := New(2024, time.February, 10).EndOfMonth(); got != New(2024, time.February, 29) {
		t.Errorf("EndOfMonth() leap = %v", got)
	}
}

func TestAddNormalizes(t *testing.T) {
	d := New(2025, time.January, 31).Add(1)
	if d != New(2025, time.February, 1) {
		t.Errorf("Add(1) = %v, want 2025-02-01", d)
	}
	if got := New(2025, time.March, 1).Add(-1); got != New(2025, time.February, 28) {
		t.Errorf("Add(-1) = %v, want 2025-02-28", got)
	}
}

func TestRangeContains(t *testing.T) {
	r := NewRange(MustParse("2025-04-01"), MustParse("2025-04-30"))
	for _, in := range []string{"2025-04-01", "2025-04-15", "2025-04-30"} {
		if !r.Contains(MustParse(in)) {
			t.Errorf("Contains(%s) = false, want true", in)
		}
	}
	for _, out := range []string{"2025-03-31", "2025-05-01"} {
		if r.Contains(MustParse(out)) {
			t.Errorf("Contains(%s) = true, want false", out)
		}
	}
	// The zero range is unbounded.
	if !(Range{}).Contains(MustParse("1999-01-01")) {
		t.Error("zero range should contain every date")
	}
}

func TestTrailingDays(t *testing.T) {
	r := TrailingDays(MustParse("2025-04-10"), 90)
	if r.To != MustParse("2025-04-10") {
		t.Errorf("To = %v", r.To)
	}
	if r.From != MustParse("2025-01-11") {
		t.Errorf("From = %v", r.From)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := MustParse("2025-04-03")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"2025-04-03"` {
		t.Errorf("Marshal = %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}
