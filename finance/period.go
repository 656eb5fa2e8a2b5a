package finance

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH PERIOD - The core concept for payment tracking
// =============================================================================

// MonthPeriod is a user-configurable monthly billing cycle. It is defined by
// a start day rather than the calendar month: with start day 15, the March
// cycle runs Mar 15 through Apr 14.
//
// Invariants:
//   - Start is midnight (00:00:00.000) of its calendar day.
//   - End is 23:59:59.999 of the day immediately before the next cycle.
//   - Periods produced by Next/Previous are contiguous and non-overlapping.
//
// Periods are computed on demand and never persisted directly; stores key
// records by Key(period), the ISO date of Start.
type MonthPeriod struct {
	Start time.Time
	End   time.Time
	Label string
}

// Contains returns true if t falls within [Start, End].
func (p MonthPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// String returns a string representation of the period.
func (p MonthPeriod) String() string {
	return "[" + p.Start.Format("2006-01-02") + ", " + p.End.Format("2006-01-02") + "]"
}

// Key returns the canonical identifier for a period: the ISO calendar date
// of its start. Two periods with the same start date produce the same key
// regardless of label or end. This is the persistence join key.
func Key(p MonthPeriod) string {
	return p.Start.Format("2006-01-02")
}

// KeyForStart returns the period key for a raw period-start instant.
func KeyForStart(start time.Time) string {
	return start.Format("2006-01-02")
}

// =============================================================================
// PERIOD CALCULATOR
// =============================================================================

// CurrentPeriod returns the period containing ref for the given month start
// day. If ref's day-of-month is on or after startDay the period begins in
// ref's month, otherwise it began in the previous month. A start day beyond
// the target month's length clamps to the month's last day (start day 31 in
// February yields Feb 28/29).
func CurrentPeriod(startDay int, ref time.Time) MonthPeriod {
	year, month := ref.Year(), ref.Month()
	if ref.Day() < effectiveStartDay(startDay, year, month) {
		year, month = prevMonth(year, month)
	}
	p := periodFrom(year, month, startDay)
	// A clamped anchor month shortens the period (start day 31 anchored in
	// February ends on the 28th of March, not the 30th). A reference in the
	// shortfall belongs to the period that starts on the clamped day.
	if ref.After(p.End) {
		p = Next(p)
	}
	return p
}

// Next returns the period immediately following p, using the start day
// implied by p's start date. Crosses year boundaries.
func Next(p MonthPeriod) MonthPeriod {
	year, month := nextMonth(p.Start.Year(), p.Start.Month())
	return periodFrom(year, month, p.Start.Day())
}

// Previous returns the period immediately preceding p, using the start day
// implied by p's start date. Crosses year boundaries.
func Previous(p MonthPeriod) MonthPeriod {
	year, month := prevMonth(p.Start.Year(), p.Start.Month())
	return periodFrom(year, month, p.Start.Day())
}

// Shift walks offset periods from p (negative offsets walk backwards).
func Shift(p MonthPeriod, offset int) MonthPeriod {
	for ; offset > 0; offset-- {
		p = Next(p)
	}
	for ; offset < 0; offset++ {
		p = Previous(p)
	}
	return p
}

// DueDate resolves a payment's day-of-month to a concrete date inside the
// period. Days on or after the period's start day fall in the start month,
// earlier days fall in the month containing the period end. The day clamps
// to the selected month's last day (April 31 becomes April 30). Time is
// always midnight UTC.
func DueDate(dayOfMonth int, p MonthPeriod) time.Time {
	year, month := p.Start.Year(), p.Start.Month()
	if dayOfMonth < p.Start.Day() {
		year, month = p.End.Year(), p.End.Month()
	}
	return dateClamped(year, month, dayOfMonth)
}

// =============================================================================
// INTERNALS
// =============================================================================

// periodFrom builds the period whose cycle starts on startDay of the given
// month. The end is the start day of the following month minus one day, at
// 23:59:59.999. Once the start has clamped (day 31 in February lands on the
// 28th/29th), the clamped day is the period's effective start day: Next and
// Previous imply it from the start date, and the end must be derived from
// the same day or adjacent periods would overlap or gap.
func periodFrom(year int, month time.Month, startDay int) MonthPeriod {
	start := dateClamped(year, month, startDay)
	ny, nm := nextMonth(year, month)
	nextStart := dateClamped(ny, nm, start.Day())
	endDay := nextStart.AddDate(0, 0, -1)
	end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, 999_000_000, time.UTC)
	return MonthPeriod{Start: start, End: end, Label: label(start, end)}
}

func label(start, end time.Time) string {
	if start.Year() == end.Year() {
		return fmt.Sprintf("%s - %s, %d", start.Format("Jan 2"), end.Format("Jan 2"), end.Year())
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
}

// dateClamped returns midnight UTC of day-of-month in the given month,
// clamped to the month's last day.
func dateClamped(year int, month time.Month, day int) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func effectiveStartDay(startDay, year int, month time.Month) int {
	if last := daysIn(year, month); startDay > last {
		return last
	}
	return startDay
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}
