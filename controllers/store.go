package controllers

import (
	"context"

	"github.com/salesops/commitment_tracker_backend/models"
)

// DataStore is the record-store surface the controllers consume: three
// read-mostly snapshots plus the append sink. services.SheetStore is
// the production implementation.
type DataStore interface {
	Commitments(ctx context.Context) ([]models.CommitmentRecord, error)
	Achievements(ctx context.Context) (models.AchievementSet, error)
	Users(ctx context.Context) ([]models.UserProfile, error)
	LeadTeamMap(ctx context.Context) ([]models.LeadTeamMap, error)
	AppendCommitment(ctx context.Context, rec models.CommitmentRecord) error
}
