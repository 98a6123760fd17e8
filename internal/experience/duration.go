// Package experience computes duration aggregates over structured job
// entries: total years across merged date ranges, per-entry month spans, and
// latest-role selection.
package experience

import (
	"math"
	"sort"
	"time"

	"github.com/dgallion1/cvextract/internal/cv"
)

// parseDate parses "YYYY-MM" or "YYYY" to the first day of the period.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

type span struct {
	start, end time.Time
}

// TotalYears sums the experience entries' date ranges after merging overlaps,
// so concurrent roles are not double-counted. Entries with an unparseable
// start are skipped; a missing end on a non-current entry contributes zero
// duration rather than being guessed. The result is in years, one decimal.
func TotalYears(entries []cv.ExperienceEntry, now time.Time) float64 {
	var spans []span
	for _, e := range entries {
		start, ok := parseDate(e.DateStart)
		if !ok {
			continue
		}
		end := now
		if !e.IsCurrent {
			end, ok = parseDate(e.DateEnd)
			if !ok {
				end = start
			}
		}
		if end.Before(start) {
			end = start
		}
		spans = append(spans, span{start, end})
	}
	if len(spans) == 0 {
		return 0
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })

	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if !s.start.After(last.end) {
			if s.end.After(last.end) {
				last.end = s.end
			}
		} else {
			merged = append(merged, s)
		}
	}

	var days float64
	for _, s := range merged {
		days += s.end.Sub(s.start).Hours() / 24
	}
	return math.Round(days/365.25*10) / 10
}

// Latest returns the most recent entry: current roles win, then the highest
// end date; ties keep the input order. ok is false for an empty list.
func Latest(entries []cv.ExperienceEntry) (latest cv.ExperienceEntry, ok bool) {
	if len(entries) == 0 {
		return cv.ExperienceEntry{}, false
	}
	endOf := func(e cv.ExperienceEntry) time.Time {
		if e.IsCurrent {
			return time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		}
		if t, parsed := parseDate(e.DateEnd); parsed {
			return t
		}
		return time.Time{}
	}
	best := 0
	for i := 1; i < len(entries); i++ {
		if endOf(entries[i]).After(endOf(entries[best])) {
			best = i
		}
	}
	return entries[best], true
}

// DurationMonths is the per-entry display duration in calendar months. Year
// only dates on either side yield 0 (no reliable month arithmetic); anything
// that parses is floored at 1 month, so a job that starts and ends in the
// same month still shows up.
func DurationMonths(start, end string, isCurrent bool, now time.Time) int {
	if start == "" || len(start) == 4 {
		return 0
	}
	s, err := time.Parse("2006-01", start)
	if err != nil {
		return 0
	}

	e := now
	if !isCurrent && end != "" {
		if len(end) == 4 {
			return 0
		}
		var perr error
		e, perr = time.Parse("2006-01", end)
		if perr != nil {
			return 0
		}
	}

	months := (e.Year()-s.Year())*12 + int(e.Month()) - int(s.Month())
	if months == 0 {
		months = 1
	}
	return months
}
