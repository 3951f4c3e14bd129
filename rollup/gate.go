// rollup/gate.go
package rollup

import "time"

// Daily commitment entry closes at 11:30 India Standard Time.
const (
	CutoffHour   = 11
	CutoffMinute = 30
)

var ist = loadIST()

func loadIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// tzdata missing on the host; IST has no DST so a fixed
		// offset is equivalent.
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// IST returns the business timezone used for all date bucketing.
func IST() *time.Location {
	return ist
}

// CutoffFor returns today's submission cutoff for the given instant.
func CutoffFor(now time.Time) time.Time {
	local := now.In(ist)
	return time.Date(local.Year(), local.Month(), local.Day(), CutoffHour, CutoffMinute, 0, 0, ist)
}

// SubmissionAllowed reports whether a commitment may still be entered
// today. The gate is a pure time-of-day predicate, re-evaluated on
// every request; there is no persisted lock.
func SubmissionAllowed(now time.Time) bool {
	return now.In(ist).Before(CutoffFor(now))
}
