// rollup/scope.go
package rollup

import (
	"sort"

	"github.com/salesops/commitment_tracker_backend/models"
	"github.com/salesops/commitment_tracker_backend/utils"
)

// Scope is the set of employee codes aggregated together for one view.
// A nil Scope means unrestricted (the management all-channels view
// slices whole tables); an empty non-nil Scope matches nothing and
// rolls up to zeros.
type Scope map[string]struct{}

// NewScope builds a scope from employee codes, normalizing each.
func NewScope(codes ...string) Scope {
	s := make(Scope, len(codes))
	for _, code := range codes {
		s[utils.NormalizeEmployeeCode(code)] = struct{}{}
	}
	return s
}

// Allows reports whether a record's employee code is in scope.
func (s Scope) Allows(code string) bool {
	if s == nil {
		return true
	}
	_, ok := s[utils.NormalizeEmployeeCode(code)]
	return ok
}

// SelfScope is the individual-contributor scope: just the caller.
func SelfScope(employeeCode string) Scope {
	return NewScope(employeeCode)
}

// TeamScope is one team's aggregation scope for a team lead. Each
// mapped team renders as an independent scope, never merged with the
// lead's other teams. Channel is the team's dominant channel, used to
// pick the metric for the team block.
type TeamScope struct {
	Team    string
	Channel string
	Codes   Scope
	Members []models.MemberRef
}

// TeamScopes expands a team lead's lead_team_map rows into per-team
// scopes. The lead's own code is not added; leads who are also members
// of a team appear through the user_master row like anyone else.
func TeamScopes(leadCode string, users []models.UserProfile, leadTeams []models.LeadTeamMap) []TeamScope {
	leadCode = utils.NormalizeEmployeeCode(leadCode)
	var teams []string
	seen := make(map[string]struct{})
	for _, m := range leadTeams {
		if utils.NormalizeEmployeeCode(m.LeadEmployeeCode) != leadCode {
			continue
		}
		if _, dup := seen[m.Team]; dup {
			continue
		}
		seen[m.Team] = struct{}{}
		teams = append(teams, m.Team)
	}

	var scopes []TeamScope
	for _, team := range teams {
		scope := TeamScope{Team: team, Codes: make(Scope)}
		channelCounts := make(map[string]int)
		for _, u := range users {
			if u.Team != team {
				continue
			}
			code := utils.NormalizeEmployeeCode(u.EmployeeCode)
			scope.Codes[code] = struct{}{}
			scope.Members = append(scope.Members, models.MemberRef{
				EmployeeCode: code,
				EmployeeName: u.EmployeeName,
			})
			channelCounts[u.Channel]++
		}
		scope.Channel = dominantChannel(channelCounts)
		scopes = append(scopes, scope)
	}
	return scopes
}

// dominantChannel picks the most frequent channel among team members,
// breaking ties alphabetically so the result is stable.
func dominantChannel(counts map[string]int) string {
	var best string
	bestCount := -1
	keys := make([]string, 0, len(counts))
	for ch := range counts {
		keys = append(keys, ch)
	}
	sort.Strings(keys)
	for _, ch := range keys {
		if counts[ch] > bestCount {
			best = ch
			bestCount = counts[ch]
		}
	}
	return best
}

// ManagementScope returns every employee, optionally restricted to one
// channel. A nil channel means "All Channels".
func ManagementScope(users []models.UserProfile, channel *models.Channel) Scope {
	s := make(Scope)
	for _, u := range users {
		if channel != nil && u.Channel != string(*channel) {
			continue
		}
		s[utils.NormalizeEmployeeCode(u.EmployeeCode)] = struct{}{}
	}
	return s
}

// ChannelMembers lists the employees on one channel for the management
// drilldown select.
func ChannelMembers(users []models.UserProfile, channel models.Channel) []models.MemberRef {
	var members []models.MemberRef
	for _, u := range users {
		if u.Channel != string(channel) {
			continue
		}
		members = append(members, models.MemberRef{
			EmployeeCode: utils.NormalizeEmployeeCode(u.EmployeeCode),
			EmployeeName: u.EmployeeName,
		})
	}
	return members
}
