package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/salesops/commitment_tracker_backend/models"
	"github.com/salesops/commitment_tracker_backend/rollup"
)

type dashboardBody struct {
	Status  int                      `json:"status"`
	Message string                   `json:"message"`
	Data    models.DashboardResponse `json:"data"`
}

func decodeDashboard(t *testing.T, rec *httptest.ResponseRecorder) dashboardBody {
	t.Helper()
	var body dashboardBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode dashboard body: %v: %s", err, rec.Body.String())
	}
	return body
}

func marchDate(t *testing.T, day int) time.Time {
	t.Helper()
	return time.Date(2024, 3, day, 0, 0, 0, 0, rollup.IST())
}

func userView() models.ViewContext {
	return models.ViewContext{
		EmployeeCode: "E1",
		EmployeeName: "Asha",
		Team:         "Alpha",
		Role:         models.RoleUser,
		Channel:      models.ChannelCrossSell,
	}
}

func TestGetDashboardUserPerformance(t *testing.T) {
	t.Parallel()

	store := &stubStore{
		commits: []models.CommitmentRecord{
			{Date: marchDate(t, 1), EmployeeCode: "E1", Channel: "Cross Sell", ExpectedPremium: 1000},
			{Date: marchDate(t, 2), EmployeeCode: "E2", Channel: "Cross Sell", ExpectedPremium: 9999},
		},
		achieves: models.AchievementSet{Records: []models.AchievementRecord{
			{Date: marchDate(t, 1), EmployeeCode: "E1", Channel: "Cross Sell", ActualPremium: 400},
		}},
	}
	dc := &DashboardController{Store: store, Now: marchClock()}

	c, rec := newRequestContext(newTestEcho(), http.MethodGet, "/api/dashboard", "", userView())
	if err := dc.GetDashboard(c); err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	body := decodeDashboard(t, rec)
	if len(body.Data.MonthOptions) != 1 || body.Data.MonthOptions[0] != "2024-03" {
		t.Fatalf("expected one month option, got %#v", body.Data.MonthOptions)
	}
	if body.Data.SelectedMonth != "2024-03" || !body.Data.CurrentMonth {
		t.Fatalf("expected current month selected by default, got %#v", body.Data)
	}
	if len(body.Data.Sections) != 1 {
		t.Fatalf("expected a single KPI section for a plain user, got %#v", body.Data.Sections)
	}

	section := body.Data.Sections[0]
	if section.Kind != models.SectionKindKPI || section.Title != "My Performance" {
		t.Fatalf("unexpected section header: %#v", section)
	}
	if section.Symbol != "₹" {
		t.Fatalf("expected premium symbol for Cross Sell, got %q", section.Symbol)
	}
	mtd := section.Figures.MonthToDate
	want := models.Figures{Commitment: 1000, Achievement: 400, PctAchieved: 40}
	if mtd != want {
		t.Fatalf("expected MTD %#v, got %#v", want, mtd)
	}
}

func TestGetDashboardPastMonthSelection(t *testing.T) {
	t.Parallel()

	store := &stubStore{
		commits: []models.CommitmentRecord{
			{Date: time.Date(2024, 2, 10, 0, 0, 0, 0, rollup.IST()), EmployeeCode: "E1", ExpectedPremium: 500},
			{Date: marchDate(t, 1), EmployeeCode: "E1", ExpectedPremium: 1000},
		},
	}
	dc := &DashboardController{Store: store, Now: marchClock()}

	c, rec := newRequestContext(newTestEcho(), http.MethodGet, "/api/dashboard?month=2024-02", "", userView())
	if err := dc.GetDashboard(c); err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	body := decodeDashboard(t, rec)
	if body.Data.SelectedMonth != "2024-02" || body.Data.CurrentMonth {
		t.Fatalf("expected past month view, got %#v", body.Data)
	}
	figures := body.Data.Sections[0].Figures
	if figures.Today != (models.Figures{}) || figures.Weekly != (models.Figures{}) {
		t.Fatalf("expected suppressed daily buckets for a past month, got %#v", figures)
	}
	if figures.MonthToDate.Commitment != 500 {
		t.Fatalf("expected only February rows aggregated, got %#v", figures.MonthToDate)
	}
}

func TestGetDashboardInvalidMonth(t *testing.T) {
	t.Parallel()

	store := &stubStore{
		commits: []models.CommitmentRecord{
			{Date: marchDate(t, 1), EmployeeCode: "E1", ExpectedPremium: 1000},
		},
	}
	dc := &DashboardController{Store: store, Now: marchClock()}

	c, rec := newRequestContext(newTestEcho(), http.MethodGet, "/api/dashboard?month=March", "", userView())
	if err := dc.GetDashboard(c); err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestGetDashboardEmptyStore(t *testing.T) {
	t.Parallel()

	dc := &DashboardController{Store: &stubStore{}, Now: marchClock()}

	c, rec := newRequestContext(newTestEcho(), http.MethodGet, "/api/dashboard", "", userView())
	if err := dc.GetDashboard(c); err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	body := decodeDashboard(t, rec)
	if body.Message != "No data available for Month selection" {
		t.Fatalf("expected empty-store message, got %q", body.Message)
	}
	if len(body.Data.Sections) != 0 {
		t.Fatalf("expected no sections, got %#v", body.Data.Sections)
	}
}

func TestGetDashboardStoreFailure(t *testing.T) {
	t.Parallel()

	dc := &DashboardController{Store: &stubStore{failReads: true}, Now: marchClock()}

	c, rec := newRequestContext(newTestEcho(), http.MethodGet, "/api/dashboard", "", userView())
	if err := dc.GetDashboard(c); err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	assertStatus(t, rec, http.StatusBadGateway)
}

func TestGetDashboardMissingIdentity(t *testing.T) {
	t.Parallel()

	dc := &DashboardController{Store: &stubStore{}, Now: marchClock()}

	c, rec := newRequestContext(newTestEcho(), http.MethodGet, "/api/dashboard", "", models.ViewContext{})
	if err := dc.GetDashboard(c); err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	assertStatus(t, rec, http.StatusUnauthorized)
}

func TestGetDashboardTeamLead(t *testing.T) {
	t.Parallel()

	store := &stubStore{
		commits: []models.CommitmentRecord{
			{Date: marchDate(t, 1), EmployeeCode: "L1", Channel: "Renewal", CommitmentNOP: 2},
			{Date: marchDate(t, 1), EmployeeCode: "E1", Channel: "Renewal", CommitmentNOP: 3},
			{Date: marchDate(t, 2), EmployeeCode: "E2", Channel: "Renewal", CommitmentNOP: 4},
		},
		achieves: models.AchievementSet{Records: []models.AchievementRecord{
			{Date: marchDate(t, 1), EmployeeCode: "E1", Channel: "Renewal", ActualNOP: 3},
		}},
		users: []models.UserProfile{
			{EmployeeCode: "E1", EmployeeName: "Asha", Team: "Alpha", Role: "User", Channel: "Renewal"},
			{EmployeeCode: "E2", EmployeeName: "Binu", Team: "Alpha", Role: "User", Channel: "Renewal"},
		},
		leadMap: []models.LeadTeamMap{
			{LeadEmployeeCode: "L1", Team: "Alpha"},
		},
	}
	dc := &DashboardController{Store: store, Now: marchClock()}

	view := models.ViewContext{
		EmployeeCode: "L1",
		EmployeeName: "Lekha",
		Team:         "Alpha",
		Role:         models.RoleTeamLead,
		Channel:      models.ChannelRenewal,
	}
	c, rec := newRequestContext(newTestEcho(), http.MethodGet, "/api/dashboard", "", view)
	if err := dc.GetDashboard(c); err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	body := decodeDashboard(t, rec)
	// Renewal renders a KPI block plus a deal block, for both the
	// lead's own scope and the team scope.
	if len(body.Data.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %#v", body.Data.Sections)
	}

	self := body.Data.Sections[0]
	if self.Figures.MonthToDate.Commitment != 2 {
		t.Fatalf("expected the lead's own NOP only, got %#v", self.Figures.MonthToDate)
	}

	team := body.Data.Sections[2]
	if team.Team != "Alpha" || len(team.Members) != 2 {
		t.Fatalf("expected Alpha team header with 2 members, got %#v", team)
	}
	want := models.Figures{Commitment: 7, Achievement: 3, PctAchieved: 43}
	if team.Figures.MonthToDate != want {
		t.Fatalf("expected team MTD %#v, got %#v", want, team.Figures.MonthToDate)
	}
}

func TestGetDashboardTeamLeadDrilldown(t *testing.T) {
	t.Parallel()

	store := &stubStore{
		commits: []models.CommitmentRecord{
			{Date: marchDate(t, 1), EmployeeCode: "E1", Channel: "Renewal", CommitmentNOP: 3},
		},
		users: []models.UserProfile{
			{EmployeeCode: "E1", EmployeeName: "Asha", Team: "Alpha", Role: "User", Channel: "Renewal"},
		},
		leadMap: []models.LeadTeamMap{
			{LeadEmployeeCode: "L1", Team: "Alpha"},
		},
	}
	dc := &DashboardController{Store: store, Now: marchClock()}

	view := models.ViewContext{
		EmployeeCode: "L1",
		EmployeeName: "Lekha",
		Role:         models.RoleTeamLead,
		Channel:      models.ChannelRenewal,
	}
	c, rec := newRequestContext(newTestEcho(), http.MethodGet, "/api/dashboard?user=E1", "", view)
	if err := dc.GetDashboard(c); err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	body := decodeDashboard(t, rec)
	var drill *models.DashboardSection
	for i := range body.Data.Sections {
		if body.Data.Sections[i].Title == "Asha" {
			drill = &body.Data.Sections[i]
			break
		}
	}
	if drill == nil {
		t.Fatalf("expected a drilldown section for Asha, got %#v", body.Data.Sections)
	}
	if drill.Figures.MonthToDate.Commitment != 3 {
		t.Fatalf("expected Asha's own rollup, got %#v", drill.Figures.MonthToDate)
	}
}

func TestGetManagementDashboardRequiresRole(t *testing.T) {
	t.Parallel()

	dc := &DashboardController{Store: &stubStore{}, Now: marchClock()}

	c, rec := newRequestContext(newTestEcho(), http.MethodGet, "/api/dashboard/management", "", userView())
	if err := dc.GetManagementDashboard(c); err != nil {
		t.Fatalf("GetManagementDashboard failed: %v", err)
	}
	assertStatus(t, rec, http.StatusForbidden)
}

func managementView() models.ViewContext {
	return models.ViewContext{
		EmployeeCode: "M1",
		EmployeeName: "Meera",
		Role:         models.RoleManagement,
	}
}

func TestGetDashboardManagementAllChannels(t *testing.T) {
	t.Parallel()

	store := &stubStore{
		commits: []models.CommitmentRecord{
			{Date: marchDate(t, 1), EmployeeCode: "E1", Channel: "Association", CommitmentNOP: 5, ExpectedPremium: 100},
			{Date: marchDate(t, 2), EmployeeCode: "E2", Channel: "Cross Sell", ExpectedPremium: 2000},
			{Date: marchDate(t, 3), EmployeeCode: "E3", Channel: "Affiliate", ExpectedPremium: 3000, MeetingCount: 2},
		},
		achieves: models.AchievementSet{Records: []models.AchievementRecord{
			{Date: marchDate(t, 1), EmployeeCode: "E1", Channel: "Association", ActualNOP: 4},
			{Date: marchDate(t, 2), EmployeeCode: "E2", Channel: "Cross Sell", ActualPremium: 500},
		}},
	}
	dc := &DashboardController{Store: store, Now: marchClock()}

	c, rec := newRequestContext(newTestEcho(), http.MethodGet, "/api/dashboard", "", managementView())
	if err := dc.GetDashboard(c); err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	body := decodeDashboard(t, rec)
	if len(body.Data.Sections) != 4 {
		t.Fatalf("expected 4 management sections, got %#v", body.Data.Sections)
	}

	nop := body.Data.Sections[0]
	if nop.Title != "NOP Dashboard" || nop.Figures.MonthToDate.Commitment != 5 || nop.Figures.MonthToDate.Achievement != 4 {
		t.Fatalf("expected Association NOP rollup, got %#v", nop)
	}

	premium := body.Data.Sections[1]
	if premium.Title != "Premium Dashboard" || premium.Figures.MonthToDate.Commitment != 5000 {
		t.Fatalf("expected non-Association premium rollup, got %#v", premium)
	}

	meetings := body.Data.Sections[2]
	if meetings.Counts.MonthToDate != 2 {
		t.Fatalf("expected 2 meetings MTD, got %#v", meetings.Counts)
	}
}

func TestGetDashboardManagementChannelFilter(t *testing.T) {
	t.Parallel()

	store := &stubStore{
		commits: []models.CommitmentRecord{
			{Date: marchDate(t, 1), EmployeeCode: "E1", Channel: "Association", CommitmentNOP: 5},
			{Date: marchDate(t, 2), EmployeeCode: "E2", Channel: "Cross Sell", ExpectedPremium: 2000},
		},
		users: []models.UserProfile{
			{EmployeeCode: "E1", EmployeeName: "Asha", Role: "User", Channel: "Association"},
			{EmployeeCode: "E2", EmployeeName: "Binu", Role: "User", Channel: "Cross Sell"},
		},
	}
	dc := &DashboardController{Store: store, Now: marchClock()}

	c, rec := newRequestContext(newTestEcho(), http.MethodGet, "/api/dashboard?channel=Association", "", managementView())
	if err := dc.GetDashboard(c); err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	body := decodeDashboard(t, rec)
	section := body.Data.Sections[0]
	if section.Title != "NOP Dashboard" {
		t.Fatalf("expected NOP Dashboard title, got %q", section.Title)
	}
	if section.Figures.MonthToDate.Commitment != 5 {
		t.Fatalf("expected only Association rows aggregated, got %#v", section.Figures.MonthToDate)
	}
	if len(section.Members) != 1 || section.Members[0].EmployeeCode != "E1" {
		t.Fatalf("expected Association members only, got %#v", section.Members)
	}
}

func TestGetDashboardManagementUnknownChannel(t *testing.T) {
	t.Parallel()

	store := &stubStore{
		commits: []models.CommitmentRecord{
			{Date: marchDate(t, 1), EmployeeCode: "E1", Channel: "Association", CommitmentNOP: 5},
		},
	}
	dc := &DashboardController{Store: store, Now: marchClock()}

	c, rec := newRequestContext(newTestEcho(), http.MethodGet, "/api/dashboard?channel=Telecalling", "", managementView())
	if err := dc.GetDashboard(c); err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)
}
