// models/achievement.go
package models

import "time"

// AchievementRecord is one row of the daily_achievement sheet. The
// sheet is populated by an external sync process and is read-only here.
type AchievementRecord struct {
	Date          time.Time `json:"date"`
	EmployeeCode  string    `json:"employeeCode"`
	Channel       string    `json:"channel"`
	ActualPremium float64   `json:"actualPremium"`
	ActualNOP     float64   `json:"actualNop"`
	MeetingCount  float64   `json:"meetingCount"`
	DealsAchieved float64   `json:"dealsAchieved"`
}

// AchievementSet is the achievement table plus column metadata. The
// deal rollup needs to know whether the sheet carries a deals_achieved
// column at all, since the fallback behavior differs from a column of
// zeros.
type AchievementSet struct {
	Records          []AchievementRecord `json:"records"`
	HasDealsAchieved bool                `json:"hasDealsAchieved"`
}
