// rollup/engine.go
package rollup

import (
	"math"
	"sort"
	"strings"

	"github.com/salesops/commitment_tracker_backend/models"
)

// MetricKind selects which column pair a KPI block aggregates.
type MetricKind string

const (
	MetricNOP     MetricKind = "NOP"
	MetricPremium MetricKind = "PREMIUM"
)

// Metric pairs a kind with its display symbol.
type Metric struct {
	Kind   MetricKind
	Symbol string
}

// MetricFor maps a channel to its metric. Unit-based channels compare
// commitment NOP against actual NOP; everything else compares expected
// premium against actual premium. The mapping is fixed, not runtime
// configuration.
func MetricFor(ch models.Channel) Metric {
	switch ch {
	case models.ChannelAssociation, models.ChannelRenewal, models.ChannelAffiliateRenewal:
		return Metric{Kind: MetricNOP, Symbol: ""}
	case models.ChannelCrossSell, models.ChannelAffiliate, models.ChannelCorporate:
		return Metric{Kind: MetricPremium, Symbol: "₹"}
	}
	return Metric{Kind: MetricPremium, Symbol: "₹"}
}

func commitmentValue(rec models.CommitmentRecord, kind MetricKind) float64 {
	if kind == MetricNOP {
		return rec.CommitmentNOP
	}
	return rec.ExpectedPremium
}

func achievementValue(rec models.AchievementRecord, kind MetricKind) float64 {
	if kind == MetricNOP {
		return rec.ActualNOP
	}
	return rec.ActualPremium
}

// SumCommitments totals the metric column over scope-matching rows in
// the window. Values were coerced to numeric at ingestion, so the sum
// never fails and is never negative for well-formed forms.
func SumCommitments(recs []models.CommitmentRecord, scope Scope, kind MetricKind, w Window) float64 {
	var total float64
	for _, rec := range recs {
		if !w.Contains(rec.Date) || !scope.Allows(rec.EmployeeCode) {
			continue
		}
		total += commitmentValue(rec, kind)
	}
	return total
}

// SumAchievements is the achievement-side counterpart of
// SumCommitments.
func SumAchievements(recs []models.AchievementRecord, scope Scope, kind MetricKind, w Window) float64 {
	var total float64
	for _, rec := range recs {
		if !w.Contains(rec.Date) || !scope.Allows(rec.EmployeeCode) {
			continue
		}
		total += achievementValue(rec, kind)
	}
	return total
}

// Pct returns achievement over commitment as a whole percentage,
// defined as 0 when the commitment is 0. That is a deliberate business
// rule (no division-by-zero surprises on empty days), not error
// handling.
func Pct(achievement, commitment float64) int {
	if commitment == 0 {
		return 0
	}
	return int(math.Round(achievement / commitment * 100))
}

// Compute produces one commitment/achievement/ratio triple for a
// window. Pure: empty inputs or empty scope simply yield zeros.
func Compute(commits []models.CommitmentRecord, achieves []models.AchievementRecord, scope Scope, kind MetricKind, w Window) models.Figures {
	c := SumCommitments(commits, scope, kind, w)
	a := SumAchievements(achieves, scope, kind, w)
	return models.Figures{Commitment: c, Achievement: a, PctAchieved: Pct(a, c)}
}

// BuildBlock assembles the four standard buckets for one scope. The
// Today bucket carries commitment only; Today/Yesterday/Weekly are
// zero when the view's month is not the current month.
func BuildBlock(commits []models.CommitmentRecord, achieves []models.AchievementRecord, scope Scope, kind MetricKind, v MonthView) models.PeriodFigures {
	var block models.PeriodFigures
	if w, ok := v.TodayWindow(); ok {
		block.Today = models.Figures{Commitment: SumCommitments(commits, scope, kind, w)}
	}
	if w, ok := v.YesterdayWindow(); ok {
		block.Yesterday = Compute(commits, achieves, scope, kind, w)
	}
	if w, ok := v.WeekWindow(); ok {
		block.Weekly = Compute(commits, achieves, scope, kind, w)
	}
	block.MonthToDate = Compute(commits, achieves, scope, kind, v.MonthWindow())
	return block
}

// BuildMeetingBlock sums meeting counts per bucket, with the same
// month suppression as BuildBlock.
func BuildMeetingBlock(commits []models.CommitmentRecord, scope Scope, v MonthView) models.PeriodCounts {
	sum := func(w Window) int {
		var total float64
		for _, rec := range commits {
			if !w.Contains(rec.Date) || !scope.Allows(rec.EmployeeCode) {
				continue
			}
			total += rec.MeetingCount
		}
		return int(total)
	}
	var block models.PeriodCounts
	if w, ok := v.TodayWindow(); ok {
		block.Today = sum(w)
	}
	if w, ok := v.YesterdayWindow(); ok {
		block.Yesterday = sum(w)
	}
	if w, ok := v.WeekWindow(); ok {
		block.Weekly = sum(w)
	}
	block.MonthToDate = sum(v.MonthWindow())
	return block
}

// countDealCommitments counts rows with a non-blank deals_commitment
// cell. This is a count-of-present predicate, not a numeric sum.
func countDealCommitments(recs []models.CommitmentRecord, scope Scope, w Window) float64 {
	var count float64
	for _, rec := range recs {
		if !w.Contains(rec.Date) || !scope.Allows(rec.EmployeeCode) {
			continue
		}
		if strings.TrimSpace(rec.DealsCommitment) != "" {
			count++
		}
	}
	return count
}

func sumDealsAchieved(recs []models.AchievementRecord, scope Scope, w Window) float64 {
	var total float64
	for _, rec := range recs {
		if !w.Contains(rec.Date) || !scope.Allows(rec.EmployeeCode) {
			continue
		}
		total += rec.DealsAchieved
	}
	return total
}

// BuildDealBlock assembles the deal-commitment variant: counts of
// committed deals against summed deals_achieved. When the achievement
// sheet has no deals_achieved column at all the achieved side degrades
// to zero rather than erroring.
func BuildDealBlock(commits []models.CommitmentRecord, achieves models.AchievementSet, scope Scope, v MonthView) models.PeriodFigures {
	achieved := func(w Window) float64 {
		if !achieves.HasDealsAchieved {
			return 0
		}
		return sumDealsAchieved(achieves.Records, scope, w)
	}
	figures := func(w Window) models.Figures {
		c := countDealCommitments(commits, scope, w)
		a := achieved(w)
		return models.Figures{Commitment: c, Achievement: a, PctAchieved: Pct(a, c)}
	}
	var block models.PeriodFigures
	if w, ok := v.TodayWindow(); ok {
		block.Today = figures(w)
	}
	if w, ok := v.YesterdayWindow(); ok {
		block.Yesterday = figures(w)
	}
	if w, ok := v.WeekWindow(); ok {
		block.Weekly = figures(w)
	}
	block.MonthToDate = figures(v.MonthWindow())
	return block
}

// MeetingListMTD returns the month window's rows that logged at least
// one meeting, newest first, shaped for the meeting list table.
func MeetingListMTD(commits []models.CommitmentRecord, scope Scope, v MonthView) []models.MeetingRow {
	w := v.MonthWindow()
	var rows []models.MeetingRow
	for _, rec := range commits {
		if !w.Contains(rec.Date) || !scope.Allows(rec.EmployeeCode) {
			continue
		}
		if rec.MeetingCount <= 0 {
			continue
		}
		row := models.MeetingRow{
			Date:            rec.Date.In(ist).Format("2006-01-02"),
			EmployeeName:    rec.EmployeeName,
			Team:            rec.Team,
			ClientName:      rec.ClientName,
			CaseType:        rec.CaseType,
			Product:         rec.Product,
			SubProduct:      rec.SubProduct,
			ExpectedPremium: int(rec.ExpectedPremium),
			MeetingCount:    rec.MeetingCount,
			MeetingType:     rec.MeetingType,
			FollowupCount:   rec.Followups,
			ClientMobile:    rec.ClientMobile,
			SubmittedAt:     rec.SubmittedAt,
		}
		if !rec.ClosureDate.IsZero() {
			row.ExpectedClosureDate = rec.ClosureDate.Format("2006-01-02")
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})
	return rows
}

// CommitmentsInChannels filters records to the given channels by the
// row's own channel cell. Used by the management views, which slice
// the whole table rather than resolving per-employee scopes.
func CommitmentsInChannels(recs []models.CommitmentRecord, channels ...models.Channel) []models.CommitmentRecord {
	var out []models.CommitmentRecord
	for _, rec := range recs {
		for _, ch := range channels {
			if rec.Channel == string(ch) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// CommitmentsNotInChannel is the complement filter.
func CommitmentsNotInChannel(recs []models.CommitmentRecord, ch models.Channel) []models.CommitmentRecord {
	var out []models.CommitmentRecord
	for _, rec := range recs {
		if rec.Channel != string(ch) {
			out = append(out, rec)
		}
	}
	return out
}

// AchievementsInChannels filters achievement rows by channel.
func AchievementsInChannels(recs []models.AchievementRecord, channels ...models.Channel) []models.AchievementRecord {
	var out []models.AchievementRecord
	for _, rec := range recs {
		for _, ch := range channels {
			if rec.Channel == string(ch) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// AchievementsNotInChannel is the complement filter.
func AchievementsNotInChannel(recs []models.AchievementRecord, ch models.Channel) []models.AchievementRecord {
	var out []models.AchievementRecord
	for _, rec := range recs {
		if rec.Channel != string(ch) {
			out = append(out, rec)
		}
	}
	return out
}
