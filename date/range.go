package date

import "fmt"

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange returns the range [from, to]. It panics if to is before from.
func NewRange(from, to Date) Range {
	if to.Before(from) {
		panic(fmt.Sprintf("invalid range: %s is after %s", from, to))
	}
	return Range{From: from, To: to}
}

// MonthOf returns the calendar-month range containing d.
func MonthOf(d Date) Range {
	return Range{From: d.StartOfMonth(), To: d.EndOfMonth()}
}

// TrailingDays returns the range of the n days ending at (and including) end.
func TrailingDays(end Date, n int) Range {
	return Range{From: end.Add(1 - n), To: end}
}

// Contains reports whether d is inside the range, boundaries included.
// A zero range contains every date.
func (r Range) Contains(d Date) bool {
	if r == (Range{}) {
		return true
	}
	return !d.Before(r.From) && !d.After(r.To)
}

// IsZero reports whether the range is unbounded.
func (r Range) IsZero() bool { return r == Range{} }

// String formats the range as "from..to".
func (r Range) String() string {
	if r.IsZero() {
		return "all"
	}
	return fmt.Sprintf("%s..%s", r.From, r.To)
}
