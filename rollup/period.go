// rollup/period.go
package rollup

import (
	"fmt"
	"sort"
	"time"

	"github.com/salesops/commitment_tracker_backend/models"
)

// Window is an inclusive date range. Start and End are date-only values
// in IST.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether a record date falls inside the window. Zero
// dates (unparseable cells) are never contained.
func (w Window) Contains(d time.Time) bool {
	if d.IsZero() {
		return false
	}
	d = DateOnly(d)
	return !d.Before(w.Start) && !d.After(w.End)
}

// DateOnly truncates an instant to its IST calendar date.
func DateOnly(t time.Time) time.Time {
	local := t.In(ist)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, ist)
}

// MonthView fixes the reporting month a dashboard render works against.
// Today/Yesterday/Weekly buckets only exist when the selected month is
// the current calendar month; for a past month the MTD window covers
// the full month instead of stopping at today.
type MonthView struct {
	Start   time.Time // first day of the selected month
	End     time.Time // today for the current month, else the month's last day
	Today   time.Time
	Current bool
}

// NewMonthView parses a YYYY-MM month selection against the given
// clock reading.
func NewMonthView(month string, now time.Time) (MonthView, error) {
	start, err := time.ParseInLocation("2006-01", month, ist)
	if err != nil {
		return MonthView{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	today := DateOnly(now)
	current := start.Year() == today.Year() && start.Month() == today.Month()
	end := today
	if !current {
		end = start.AddDate(0, 1, -1)
	}
	return MonthView{Start: start, End: end, Today: today, Current: current}, nil
}

// TodayWindow returns the single-day window for today. ok is false when
// the selected month is not the current one: those buckets are
// suppressed to zero rather than computed against a stale month.
func (v MonthView) TodayWindow() (Window, bool) {
	if !v.Current {
		return Window{}, false
	}
	return Window{Start: v.Today, End: v.Today}, true
}

// YesterdayWindow returns the single-day window for yesterday, subject
// to the same suppression rule as TodayWindow.
func (v MonthView) YesterdayWindow() (Window, bool) {
	if !v.Current {
		return Window{}, false
	}
	y := v.Today.AddDate(0, 0, -1)
	return Window{Start: y, End: y}, true
}

// WeekWindow returns Monday of the current week through today,
// inclusive, subject to the suppression rule.
func (v MonthView) WeekWindow() (Window, bool) {
	if !v.Current {
		return Window{}, false
	}
	offset := (int(v.Today.Weekday()) + 6) % 7
	return Window{Start: v.Today.AddDate(0, 0, -offset), End: v.Today}, true
}

// MonthWindow returns the month-to-date window. For the current month
// it ends at today; for a past month it covers the full calendar month.
func (v MonthView) MonthWindow() Window {
	return Window{Start: v.Start, End: v.End}
}

// MonthOptions returns the distinct YYYY-MM values present across both
// tables, newest first. Rows with unparseable dates contribute nothing.
func MonthOptions(commits []models.CommitmentRecord, achieves []models.AchievementRecord) []string {
	seen := make(map[string]struct{})
	for _, rec := range commits {
		if !rec.Date.IsZero() {
			seen[rec.Date.In(ist).Format("2006-01")] = struct{}{}
		}
	}
	for _, rec := range achieves {
		if !rec.Date.IsZero() {
			seen[rec.Date.In(ist).Format("2006-01")] = struct{}{}
		}
	}
	options := make([]string, 0, len(seen))
	for m := range seen {
		options = append(options, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(options)))
	return options
}
