// Package date provides a day-granularity Date type and date ranges for
// ledger computations.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

const readFormat = "2006-1-2" // permissive read format (allows single-digit month/day)

// Format is the canonical ISO-8601 representation used when writing dates.
const Format = "2006-01-02"

// Date represents a calendar day. Time-of-day is never recorded.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month and day.
// Out-of-range values are carried over, like time.Date does.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// time returns the canonical time.Time for that day (midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns the date's year.
func (d Date) Year() int { return d.y }

// Month returns the date's month.
func (d Date) Month() time.Month { return d.time().Month() }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Add returns a new Date with the given number of days added.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date { return New(d.y, d.m, 1) }

// EndOfMonth returns the last day of d's month.
func (d Date) EndOfMonth() Date { return New(d.y, d.m+1, 0) }

// String formats the date in its canonical form.
func (d Date) String() string { return d.time().Format(Format) }

// Parse parses a Date from a string. It is lenient and accepts forms
// like "2025-7-1" alongside "2025-07-01".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, Format, err)
	}
	return New(on.Date()), nil
}

// MustParse is like Parse but panics on error. For tests and literals.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// MarshalJSON encodes the date as a JSON string in canonical form.
func (d Date) MarshalJSON() ([]byte, error) {
	s := d.String()
	return json.Marshal(&s)
}

// UnmarshalJSON decodes the date from a JSON string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
