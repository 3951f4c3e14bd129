// models/user.go
package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of dashboard roles from the user_master sheet.
// Unknown values are rejected at parse time instead of silently falling
// back to a management-wide view.
type Role string

const (
	RoleUser       Role = "User"
	RoleTeamLead   Role = "Team Lead"
	RoleManagement Role = "Management"
)

// ParseRole validates a raw role string from the user_master sheet.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(s)) {
	case RoleUser:
		return RoleUser, nil
	case RoleTeamLead:
		return RoleTeamLead, nil
	case RoleManagement:
		return RoleManagement, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// UserProfile is one row of the user_master sheet.
type UserProfile struct {
	EmployeeCode string `json:"employeeCode"`
	EmployeeName string `json:"employeeName"`
	Team         string `json:"team"`
	Role         string `json:"role"`
	Channel      string `json:"channel"`
}

// LeadTeamMap associates a team lead with one of the teams they manage.
// A lead may appear on multiple rows, one per team.
type LeadTeamMap struct {
	LeadEmployeeCode string `json:"leadEmployeeCode"`
	Team             string `json:"team"`
}

// ViewContext carries the verified identity and filter selections for a
// single request. It replaces the ambient session state of earlier
// revisions: everything a handler needs to scope a dashboard travels in
// this struct, populated from JWT claims.
type ViewContext struct {
	EmployeeCode string  `json:"employeeCode"`
	EmployeeName string  `json:"employeeName"`
	Team         string  `json:"team"`
	Role         Role    `json:"role"`
	Channel      Channel `json:"channel"`
}

// VerifyRequest is the body of the employee-code verification call.
type VerifyRequest struct {
	EmployeeCode string `json:"employeeCode" validate:"required"`
}

// VerifyResponse is returned on successful verification.
type VerifyResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	Profile      UserProfile `json:"profile"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
