// models/dashboard.go
package models

// Figures is one commitment/achievement pair with its percentage-
// achieved ratio. PctAchieved is 0 whenever Commitment is 0; that is a
// business rule, not an error case.
type Figures struct {
	Commitment  float64 `json:"commitment"`
	Achievement float64 `json:"achievement"`
	PctAchieved int     `json:"pctAchieved"`
}

// PeriodFigures holds the four standard dashboard buckets. The Today
// bucket carries commitment only; achievements for the current day are
// not displayed.
type PeriodFigures struct {
	Today       Figures `json:"today"`
	Yesterday   Figures `json:"yesterday"`
	Weekly      Figures `json:"weekly"`
	MonthToDate Figures `json:"monthToDate"`
}

// PeriodCounts is the meeting-count variant of PeriodFigures.
type PeriodCounts struct {
	Today       int `json:"today"`
	Yesterday   int `json:"yesterday"`
	Weekly      int `json:"weekly"`
	MonthToDate int `json:"monthToDate"`
}

// MeetingRow is one line of the MTD meeting list table.
type MeetingRow struct {
	Date                string  `json:"date"`
	EmployeeName        string  `json:"employeeName"`
	Team                string  `json:"team"`
	ClientName          string  `json:"clientName"`
	CaseType            string  `json:"caseType,omitempty"`
	Product             string  `json:"product"`
	SubProduct          string  `json:"subProduct,omitempty"`
	ExpectedPremium     int     `json:"expectedPremium"`
	MeetingCount        float64 `json:"meetingCount"`
	MeetingType         string  `json:"meetingType,omitempty"`
	FollowupCount       string  `json:"followupCount,omitempty"`
	ExpectedClosureDate string  `json:"expectedClosureDate,omitempty"`
	ClientMobile        string  `json:"clientMobile,omitempty"`
	SubmittedAt         string  `json:"submittedAt,omitempty"`
}

// MemberRef identifies a selectable employee in a drilldown list.
type MemberRef struct {
	EmployeeCode string `json:"employeeCode"`
	EmployeeName string `json:"employeeName"`
}

// Section kinds understood by the dashboard frontend.
const (
	SectionKindKPI         = "kpi"
	SectionKindDeals       = "deals"
	SectionKindMeetings    = "meetings"
	SectionKindMeetingList = "meetingList"
)

// DashboardSection is one rendered block of the dashboard.
type DashboardSection struct {
	Title    string         `json:"title"`
	Kind     string         `json:"kind"`
	Metric   string         `json:"metric,omitempty"`
	Symbol   string         `json:"symbol,omitempty"`
	Team     string         `json:"team,omitempty"`
	Figures  *PeriodFigures `json:"figures,omitempty"`
	Counts   *PeriodCounts  `json:"counts,omitempty"`
	Rows     []MeetingRow   `json:"rows,omitempty"`
	Members  []MemberRef    `json:"members,omitempty"`
	Channel  string         `json:"channel,omitempty"`
}

// DashboardResponse is the full payload for one dashboard render.
type DashboardResponse struct {
	MonthOptions  []string           `json:"monthOptions"`
	SelectedMonth string             `json:"selectedMonth"`
	CurrentMonth  bool               `json:"currentMonth"`
	Sections      []DashboardSection `json:"sections"`
}

// GateStatus tells the frontend whether the commitment form is open.
type GateStatus struct {
	Allowed    bool   `json:"allowed"`
	Cutoff     string `json:"cutoff"`
	ServerTime string `json:"serverTime"`
}
