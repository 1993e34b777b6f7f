package xbrl

import (
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a context date, tolerating a trailing time component.
func ParseDate(s string) (time.Time, bool) {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MonthSpan returns the approximate number of months a duration context
// covers, 0 for instant contexts or unparsable dates.
func (c *Context) MonthSpan() int {
	if !c.IsDuration() {
		return 0
	}
	start, ok := ParseDate(c.StartDate)
	if !ok {
		return 0
	}
	end, ok := ParseDate(c.EndDate)
	if !ok {
		return 0
	}
	days := end.Sub(start).Hours() / 24
	return int(math.Round(days / 30.44))
}

// FullYear classifies a duration context as covering a full fiscal year
// (11 to 13 months, to absorb long and short first years). Instant
// contexts are not subject to this check: any date within the target
// year is acceptable for balance-sheet items, so FullYear is false for
// them and callers must branch on IsDuration first.
func (c *Context) FullYear() bool {
	span := c.MonthSpan()
	return span >= 11 && span <= 13
}

// Year derives the fiscal-year bucket for facts owned by this context:
// the end date of a duration, otherwise the instant date. Returns 0 when
// no date parses.
func (c *Context) Year() int {
	for _, s := range []string{c.EndDate, c.Instant, c.StartDate} {
		if t, ok := ParseDate(s); ok {
			return t.Year()
		}
	}
	return 0
}
