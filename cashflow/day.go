/*
day.go - Calendar day value type

PURPOSE:
  Every date in the system is a calendar day, never a wall-clock instant.
  Day anchors each date at 12:00 UTC so that comparisons and bucketing
  never drift across daylight-saving boundaries or local timezones: the
  same YYYY-MM-DD always normalizes to the same instant everywhere.

KEY CONVENTIONS:
  - Noon anchoring: constructed from Y/M/D at 12:00:00 UTC
  - Bucketing: Key() returns the YYYY-MM-DD string used as a map key
  - Serialization: marshals as RFC3339; unmarshal is DEFENSIVE - a
    missing, empty, or unparsable date becomes today instead of an error
    (saved-state payloads from older clients carry all kinds of junk)

SEE ALSO:
  - businessday.go: credit-date resolution built on Day
  - snapshot.go: relies on the defensive unmarshal during state loads
*/
package cashflow

import (
	"encoding/json"
	"time"
)

// Day is a calendar date anchored at noon UTC.
type Day struct {
	t time.Time
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 12, 0, 0, 0, time.UTC)}
}

// DayOf truncates an instant to its UTC calendar day.
func DayOf(t time.Time) Day {
	u := t.UTC()
	return NewDay(u.Year(), u.Month(), u.Day())
}

func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, err
	}
	return DayOf(t), nil
}

// =============================================================================
// COMPARISON AND ARITHMETIC
// =============================================================================

func (d Day) Before(other Day) bool        { return d.t.Before(other.t) }
func (d Day) After(other Day) bool         { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool         { return d.t.Equal(other.t) }
func (d Day) BeforeOrEqual(other Day) bool { return !d.After(other) }
func (d Day) AfterOrEqual(other Day) bool  { return !d.Before(other) }

func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// DaysBetween returns the whole days from d to other (negative if earlier).
func DaysBetween(from, to Day) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// =============================================================================
// PROPERTIES
// =============================================================================

func (d Day) Year() int             { return d.t.Year() }
func (d Day) Month() time.Month     { return d.t.Month() }
func (d Day) DayOfMonth() int       { return d.t.Day() }
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }
func (d Day) IsZero() bool          { return d.t.IsZero() }

func (d Day) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Key returns the YYYY-MM-DD form used for bucketing and row lookups.
func (d Day) Key() string    { return d.t.Format("2006-01-02") }
func (d Day) String() string { return d.Key() }

// Time exposes the underlying noon-anchored instant.
func (d Day) Time() time.Time { return d.t }

// =============================================================================
// JSON
// =============================================================================

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.t.Format(time.RFC3339))
}

// UnmarshalJSON never fails: saved-state payloads may carry missing or
// malformed dates, and the load contract substitutes the current day
// rather than rejecting the record.
func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		*d = Today()
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = DayOf(t)
		return nil
	}
	if parsed, err := ParseDay(s); err == nil {
		*d = parsed
		return nil
	}
	*d = Today()
	return nil
}
