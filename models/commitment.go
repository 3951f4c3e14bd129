// models/commitment.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// Channel is the closed set of sales lines of business. The channel
// decides which form fields are mandatory and whether the dashboard
// aggregates premium or unit counts.
type Channel string

const (
	ChannelAssociation      Channel = "Association"
	ChannelRenewal          Channel = "Renewal"
	ChannelAffiliateRenewal Channel = "Affiliate Renewal"
	ChannelCrossSell        Channel = "Cross Sell"
	ChannelAffiliate        Channel = "Affiliate"
	ChannelCorporate        Channel = "Corporate"
)

// Channels lists every known channel, in the order they appear on the
// management filter.
func Channels() []Channel {
	return []Channel{
		ChannelAssociation,
		ChannelRenewal,
		ChannelAffiliateRenewal,
		ChannelCrossSell,
		ChannelAffiliate,
		ChannelCorporate,
	}
}

// ParseChannel validates a raw channel string from the sheets.
func ParseChannel(s string) (Channel, error) {
	trimmed := Channel(strings.TrimSpace(s))
	for _, ch := range Channels() {
		if trimmed == ch {
			return ch, nil
		}
	}
	return "", fmt.Errorf("unknown channel %q", s)
}

// CommitmentRecord is one row of the daily_commitments sheet. Rows are
// append-only; there is no update or delete path. A zero Date marks a
// row whose date cell did not parse — such rows are kept but never
// aggregated.
type CommitmentRecord struct {
	Date                time.Time `json:"date"`
	EmployeeCode        string    `json:"employeeCode"`
	EmployeeName        string    `json:"employeeName"`
	Team                string    `json:"team"`
	Channel             string    `json:"channel"`
	Association         string    `json:"association,omitempty"`
	ClientName          string    `json:"clientName,omitempty"`
	Product             string    `json:"product"`
	SubProduct          string    `json:"subProduct,omitempty"`
	ExpectedPremium     float64   `json:"expectedPremium"`
	CommitmentNOP       float64   `json:"commitmentNop"`
	MeetingCount        float64   `json:"meetingCount"`
	Followups           string    `json:"followups,omitempty"`
	ClosureDate         time.Time `json:"closureDate"`
	DealID              string    `json:"dealId,omitempty"`
	DealsCommitment     string    `json:"dealsCommitment,omitempty"`
	DealsCreatedProduct string    `json:"dealsCreatedProduct,omitempty"`
	DealAssignedTo      string    `json:"dealAssignedTo,omitempty"`
	CaseType            string    `json:"caseType,omitempty"`
	MeetingType         string    `json:"meetingType,omitempty"`
	ClientMobile        string    `json:"clientMobile,omitempty"`
	SubmissionID        string    `json:"submissionId,omitempty"`
	SubmittedAt         string    `json:"submittedAt,omitempty"`
}
