package shipping

import (
	"time"
)

// snapBound caps the shipping-day search so a malformed workday
// configuration can never loop; the date reached at the bound is returned
// as a best-effort estimate.
const snapBound = 14

// Estimate computes the next valid shipping date from a base date, a
// minimum lead time and the tenant's shipping workdays (Monday-first,
// 0=Monday). Returns false when the workday set is empty.
//
// Lead time is counted in Monday-Friday business days regardless of the
// tenant's workday configuration; the result is then advanced to the next
// configured shipping workday. The returned date is normalized to
// midnight UTC.
func Estimate(workdays map[int]bool, minLeadDays int, base time.Time) (time.Time, bool) {
	if len(workdays) == 0 {
		return time.Time{}, false
	}

	d := midnight(base)

	// Phase 1: lead time in business days. Weekends never count.
	counted := 0
	for counted < minLeadDays {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			counted++
		}
	}

	// Phase 2: snap to the next configured shipping workday, weekends
	// included. Callers must not assume the bound-capped date is a
	// configured workday.
	for i := 0; i < snapBound; i++ {
		if workdays[mondayFirst(d.Weekday())] {
			break
		}
		d = d.AddDate(0, 0, 1)
	}

	return d, true
}

// mondayFirst converts Go's Sunday-first weekday to the Monday-first
// tenant encoding (0=Monday .. 6=Sunday)
func mondayFirst(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// midnight discards the time-of-day component
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WireDate formats a date for wire transmission: YYYY-MM-DD, zero-padded,
// proleptic Gregorian, no timezone component.
func WireDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DisplayDate formats a date as a long human-readable string
func DisplayDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}
