package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/salesops/commitment_tracker_backend/middleware"
	"github.com/salesops/commitment_tracker_backend/models"
	"github.com/salesops/commitment_tracker_backend/rollup"
	"github.com/salesops/commitment_tracker_backend/utils"
)

// AllChannels is the management filter sentinel. It is an explicit
// value, not a fallthrough branch.
const AllChannels = "All Channels"

type DashboardController struct {
	Store DataStore
	// Now is swappable so period windows are testable.
	Now func() time.Time
}

func NewDashboardController(store DataStore) *DashboardController {
	return &DashboardController{Store: store, Now: time.Now}
}

// snapshot bundles one render's view of the record store.
type snapshot struct {
	commits  []models.CommitmentRecord
	achieves models.AchievementSet
	users    []models.UserProfile
	leadMap  []models.LeadTeamMap
}

func (dc *DashboardController) loadSnapshot(ctx context.Context) (*snapshot, error) {
	commits, err := dc.Store.Commitments(ctx)
	if err != nil {
		return nil, err
	}
	achieves, err := dc.Store.Achievements(ctx)
	if err != nil {
		return nil, err
	}
	users, err := dc.Store.Users(ctx)
	if err != nil {
		return nil, err
	}
	leadMap, err := dc.Store.LeadTeamMap(ctx)
	if err != nil {
		return nil, err
	}
	return &snapshot{commits: commits, achieves: achieves, users: users, leadMap: leadMap}, nil
}

// GetDashboard renders the caller's dashboard. Team leads get one
// block set per mapped team after their own; management is routed to
// the channel-filterable view.
func (dc *DashboardController) GetDashboard(c echo.Context) error {
	view, err := middleware.GetViewContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	snap, err := dc.loadSnapshot(ctx)
	if err != nil {
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to read record store: " + err.Error(),
		})
	}

	return dc.renderDashboard(c, view, snap)
}

// GetManagementDashboard is the explicit management route; any
// management-role caller may also land here via GetDashboard.
func (dc *DashboardController) GetManagementDashboard(c echo.Context) error {
	view, err := middleware.GetViewContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: err.Error(),
		})
	}
	if view.Role != models.RoleManagement {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Management role required",
		})
	}
	return dc.GetDashboard(c)
}

func (dc *DashboardController) renderDashboard(c echo.Context, view models.ViewContext, snap *snapshot) error {
	months := rollup.MonthOptions(snap.commits, snap.achieves.Records)
	if len(months) == 0 {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "No data available for Month selection",
			Data:    models.DashboardResponse{MonthOptions: []string{}},
		})
	}

	selected := c.QueryParam("month")
	if selected == "" {
		selected = months[0]
	}
	mv, err := rollup.NewMonthView(selected, dc.Now())
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid month; expected YYYY-MM",
		})
	}

	resp := models.DashboardResponse{
		MonthOptions:  months,
		SelectedMonth: selected,
		CurrentMonth:  mv.Current,
	}

	switch view.Role {
	case models.RoleUser:
		scope := rollup.SelfScope(view.EmployeeCode)
		resp.Sections = dc.performanceSections("My Performance", scope, view.Channel, snap, mv)
	case models.RoleTeamLead:
		resp.Sections = dc.teamLeadSections(c, view, snap, mv)
	case models.RoleManagement:
		selected := c.QueryParam("channel")
		if selected != "" && selected != AllChannels {
			ch, err := models.ParseChannel(selected)
			if err != nil {
				return c.JSON(http.StatusBadRequest, models.Response{
					Status:  http.StatusBadRequest,
					Message: "Unknown channel " + selected,
				})
			}
			resp.Sections = dc.channelSections(c, ch, snap, mv)
		} else {
			resp.Sections = dc.allChannelSections(snap, mv)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard",
		Data:    resp,
	})
}

// performanceSections builds the standard block set for one scope: the
// KPI block, plus a deal block for Renewal and meeting blocks for the
// meeting-driven channels.
func (dc *DashboardController) performanceSections(title string, scope rollup.Scope, ch models.Channel, snap *snapshot, mv rollup.MonthView) []models.DashboardSection {
	metric := rollup.MetricFor(ch)
	block := rollup.BuildBlock(snap.commits, snap.achieves.Records, scope, metric.Kind, mv)
	sections := []models.DashboardSection{{
		Title:   title,
		Kind:    models.SectionKindKPI,
		Metric:  string(metric.Kind),
		Symbol:  metric.Symbol,
		Channel: string(ch),
		Figures: &block,
	}}

	if ch == models.ChannelRenewal {
		deals := rollup.BuildDealBlock(snap.commits, snap.achieves, scope, mv)
		sections = append(sections, models.DashboardSection{
			Title:   title + " – Deal Commitment",
			Kind:    models.SectionKindDeals,
			Figures: &deals,
		})
	}

	if ch == models.ChannelAffiliate || ch == models.ChannelCorporate {
		counts := rollup.BuildMeetingBlock(snap.commits, scope, mv)
		sections = append(sections, models.DashboardSection{
			Title:  title + " – Meeting Count",
			Kind:   models.SectionKindMeetings,
			Counts: &counts,
		})
		sections = append(sections, models.DashboardSection{
			Title: string(ch) + " Meeting List (MTD)",
			Kind:  models.SectionKindMeetingList,
			Rows:  rollup.MeetingListMTD(snap.commits, scope, mv),
		})
	}
	return sections
}

func (dc *DashboardController) teamLeadSections(c echo.Context, view models.ViewContext, snap *snapshot, mv rollup.MonthView) []models.DashboardSection {
	sections := dc.performanceSections("My Performance", rollup.SelfScope(view.EmployeeCode), view.Channel, snap, mv)

	drilldownCode := utils.NormalizeEmployeeCode(c.QueryParam("user"))

	for _, team := range rollup.TeamScopes(view.EmployeeCode, snap.users, snap.leadMap) {
		teamChannel := teamChannelOrPremium(team.Channel)
		teamSections := dc.performanceSections("Team – "+team.Team, team.Codes, teamChannel, snap, mv)
		teamSections[0].Team = team.Team
		teamSections[0].Members = team.Members
		sections = append(sections, teamSections...)

		if drilldownCode == "" {
			continue
		}
		for _, member := range team.Members {
			if member.EmployeeCode != drilldownCode {
				continue
			}
			sections = append(sections, dc.performanceSections(
				member.EmployeeName,
				rollup.SelfScope(member.EmployeeCode),
				teamChannel,
				snap, mv,
			)...)
		}
	}
	return sections
}

// teamChannelOrPremium maps a team's dominant channel string onto the
// enum. Teams whose user_master rows carry a dirty channel value fall
// back to the premium metric rather than breaking the whole render.
func teamChannelOrPremium(raw string) models.Channel {
	ch, err := models.ParseChannel(raw)
	if err != nil {
		return models.ChannelCrossSell
	}
	return ch
}

// channelSections is the management view filtered to one channel.
func (dc *DashboardController) channelSections(c echo.Context, ch models.Channel, snap *snapshot, mv rollup.MonthView) []models.DashboardSection {
	commits := rollup.CommitmentsInChannels(snap.commits, ch)
	achieves := models.AchievementSet{
		Records:          rollup.AchievementsInChannels(snap.achieves.Records, ch),
		HasDealsAchieved: snap.achieves.HasDealsAchieved,
	}
	filtered := &snapshot{commits: commits, achieves: achieves, users: snap.users, leadMap: snap.leadMap}

	metric := rollup.MetricFor(ch)
	title := "Premium Dashboard"
	if metric.Kind == rollup.MetricNOP {
		title = "NOP Dashboard"
		if ch == models.ChannelRenewal {
			title = "Renewal NOP Dashboard"
		}
	}

	sections := dc.performanceSections(title, nil, ch, filtered, mv)
	sections[0].Members = rollup.ChannelMembers(snap.users, ch)

	// Per-user drilldown runs against the unfiltered tables; an
	// employee's own rows are already a single channel in practice.
	if code := utils.NormalizeEmployeeCode(c.QueryParam("user")); code != "" {
		for _, member := range sections[0].Members {
			if member.EmployeeCode != code {
				continue
			}
			sections = append(sections, dc.performanceSections(
				member.EmployeeName,
				rollup.SelfScope(member.EmployeeCode),
				ch,
				snap, mv,
			)...)
		}
	}
	return sections
}

// allChannelSections is the management home view: a NOP block for the
// Association business, a premium block for everything else, and the
// meeting section for the meeting-driven channels.
func (dc *DashboardController) allChannelSections(snap *snapshot, mv rollup.MonthView) []models.DashboardSection {
	nopBlock := rollup.BuildBlock(
		rollup.CommitmentsInChannels(snap.commits, models.ChannelAssociation),
		rollup.AchievementsInChannels(snap.achieves.Records, models.ChannelAssociation),
		nil, rollup.MetricNOP, mv,
	)
	premiumBlock := rollup.BuildBlock(
		rollup.CommitmentsNotInChannel(snap.commits, models.ChannelAssociation),
		rollup.AchievementsNotInChannel(snap.achieves.Records, models.ChannelAssociation),
		nil, rollup.MetricPremium, mv,
	)
	meetingCommits := rollup.CommitmentsInChannels(snap.commits, models.ChannelAffiliate, models.ChannelCorporate)
	counts := rollup.BuildMeetingBlock(meetingCommits, nil, mv)

	return []models.DashboardSection{
		{
			Title:   "NOP Dashboard",
			Kind:    models.SectionKindKPI,
			Metric:  string(rollup.MetricNOP),
			Channel: string(models.ChannelAssociation),
			Figures: &nopBlock,
		},
		{
			Title:   "Premium Dashboard",
			Kind:    models.SectionKindKPI,
			Metric:  string(rollup.MetricPremium),
			Symbol:  "₹",
			Figures: &premiumBlock,
		},
		{
			Title:  "Meeting Count",
			Kind:   models.SectionKindMeetings,
			Counts: &counts,
		},
		{
			Title: "Meeting List (MTD)",
			Kind:  models.SectionKindMeetingList,
			Rows:  rollup.MeetingListMTD(meetingCommits, nil, mv),
		},
	}
}
