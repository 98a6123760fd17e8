package experience

import (
	"testing"
	"time"

	"github.com/dgallion1/cvextract/internal/cv"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func entry(start, end string, current bool) cv.ExperienceEntry {
	return cv.ExperienceEntry{DateStart: start, DateEnd: end, IsCurrent: current}
}

func TestTotalYears_NonOverlapping(t *testing.T) {
	entries := []cv.ExperienceEntry{
		entry("2018-01", "2019-01", false),
		entry("2020-01", "2021-01", false),
	}
	if got := TotalYears(entries, testNow); got != 2.0 {
		t.Errorf("expected 2.0 years, got %v", got)
	}
}

func TestTotalYears_OverlapMergedOnce(t *testing.T) {
	// Two fully concurrent roles must count once.
	entries := []cv.ExperienceEntry{
		entry("2020-01", "2021-01", false),
		entry("2020-01", "2021-01", false),
	}
	if got := TotalYears(entries, testNow); got != 1.0 {
		t.Errorf("expected 1.0 year for concurrent roles, got %v", got)
	}
}

func TestTotalYears_PartialOverlapExtends(t *testing.T) {
	entries := []cv.ExperienceEntry{
		entry("2018-01", "2020-01", false),
		entry("2019-01", "2021-01", false),
	}
	if got := TotalYears(entries, testNow); got != 3.0 {
		t.Errorf("expected 3.0 merged years, got %v", got)
	}
}

func TestTotalYears_CurrentRunsToNow(t *testing.T) {
	entries := []cv.ExperienceEntry{entry("2024-06", "", true)}
	if got := TotalYears(entries, testNow); got != 1.0 {
		t.Errorf("expected 1.0 year up to now, got %v", got)
	}
}

func TestTotalYears_SkipsUnparseableStart(t *testing.T) {
	entries := []cv.ExperienceEntry{
		entry("", "2020-01", false),
		entry("n/a", "2020-01", false),
	}
	if got := TotalYears(entries, testNow); got != 0 {
		t.Errorf("expected 0 for unparseable starts, got %v", got)
	}
}

func TestTotalYears_MissingEndCountsNothing(t *testing.T) {
	entries := []cv.ExperienceEntry{entry("2020-01", "", false)}
	if got := TotalYears(entries, testNow); got != 0 {
		t.Errorf("expected 0 for a dangling non-current entry, got %v", got)
	}
}

func TestTotalYears_YearOnlyDates(t *testing.T) {
	entries := []cv.ExperienceEntry{entry("2018", "2019", false)}
	if got := TotalYears(entries, testNow); got != 1.0 {
		t.Errorf("expected 1.0 year for 2018-2019, got %v", got)
	}
}

func TestLatest_CurrentWins(t *testing.T) {
	entries := []cv.ExperienceEntry{
		{Title: "Old", DateStart: "2010-01", DateEnd: "2024-12"},
		{Title: "Now", DateStart: "2020-01", IsCurrent: true},
		{Title: "Recent", DateStart: "2022-01", DateEnd: "2023-06"},
	}
	latest, ok := Latest(entries)
	if !ok || latest.Title != "Now" {
		t.Errorf("expected current role to win, got %+v ok=%v", latest, ok)
	}
}

func TestLatest_HighestEndDate(t *testing.T) {
	entries := []cv.ExperienceEntry{
		{Title: "A", DateEnd: "2021-06"},
		{Title: "B", DateEnd: "2023-02"},
		{Title: "C", DateEnd: "2019-11"},
	}
	latest, ok := Latest(entries)
	if !ok || latest.Title != "B" {
		t.Errorf("expected B, got %+v", latest)
	}
}

func TestLatest_TieKeepsInputOrder(t *testing.T) {
	entries := []cv.ExperienceEntry{
		{Title: "First", DateEnd: "2023-02"},
		{Title: "Second", DateEnd: "2023-02"},
	}
	latest, _ := Latest(entries)
	if latest.Title != "First" {
		t.Errorf("tie must keep input order, got %q", latest.Title)
	}
}

func TestLatest_Empty(t *testing.T) {
	if _, ok := Latest(nil); ok {
		t.Error("expected ok=false for empty list")
	}
}

func TestDurationMonths(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		end     string
		current bool
		want    int
	}{
		{"one year", "2020-01", "2021-01", false, 12},
		{"same month floors to one", "2020-03", "2020-03", false, 1},
		{"year only start", "2020", "2021-01", false, 0},
		{"year only end", "2020-01", "2021", false, 0},
		{"empty start", "", "2021-01", false, 0},
		{"current to now", "2024-06", "", true, 12},
		{"garbage start", "soon", "2021-01", false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DurationMonths(tc.start, tc.end, tc.current, testNow); got != tc.want {
				t.Errorf("DurationMonths(%q, %q, %v) = %d, want %d", tc.start, tc.end, tc.current, got, tc.want)
			}
		})
	}
}
