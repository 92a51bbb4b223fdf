package ledger

import (
	"time"
)

// =============================================================================
// TIME POINT - Concrete time abstraction for record dates and windows
// =============================================================================

// TimePoint wraps a UTC instant. Record dates and window boundaries are
// always UTC; normalization to day boundaries happens explicitly via
// StartOfDay/EndOfDay rather than implicitly on comparison.
type TimePoint struct {
	Time time.Time
}

// Constructors
func At(t time.Time) TimePoint {
	return TimePoint{Time: t.UTC()}
}

func Date(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Now() TimePoint {
	return TimePoint{Time: time.Now().UTC()}
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }

// Day boundaries
func (tp TimePoint) StartOfDay() TimePoint {
	y, m, d := tp.Time.Date()
	return TimePoint{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// EndOfDay returns the last representable instant of the calendar day, so a
// window ending "today" includes records stamped at any time of day.
func (tp TimePoint) EndOfDay() TimePoint {
	y, m, d := tp.Time.Date()
	return TimePoint{Time: time.Date(y, m, d, 23, 59, 59, 999999999, time.UTC)}
}

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) String() string { return tp.Time.Format(time.RFC3339) }

// =============================================================================
// CALENDAR HELPERS - Used by the window resolver
// =============================================================================

// MostRecentSunday returns the Sunday on or before the given day, at 00:00.
func MostRecentSunday(tp TimePoint) TimePoint {
	day := tp.StartOfDay()
	return day.AddDays(-int(day.Weekday()))
}

func StartOfMonth(tp TimePoint) TimePoint {
	return Date(tp.Year(), tp.Month(), 1)
}

func EndOfMonth(tp TimePoint) TimePoint {
	return Date(tp.Year(), tp.Month(), 1).AddDays(daysInMonth(tp.Year(), tp.Month()) - 1).EndOfDay()
}

// StartOfQuarter returns the first day of the calendar quarter containing tp.
func StartOfQuarter(tp TimePoint) TimePoint {
	q := (int(tp.Month()) - 1) / 3
	return Date(tp.Year(), time.Month(q*3+1), 1)
}

func EndOfQuarter(tp TimePoint) TimePoint {
	next := StartOfQuarter(tp).Time.AddDate(0, 3, 0)
	return TimePoint{Time: next}.AddDays(-1).EndOfDay()
}

func StartOfYear(tp TimePoint) TimePoint {
	return Date(tp.Year(), time.January, 1)
}

func EndOfYear(tp TimePoint) TimePoint {
	return Date(tp.Year(), time.December, 31).EndOfDay()
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
