package repositories

import (
	"context"
	"errors"

	"github.com/salesops/commitment_tracker_backend/models"
	"github.com/salesops/commitment_tracker_backend/utils"
)

// ErrUserNotFound is returned when no user_master row matches a code.
var ErrUserNotFound = errors.New("employee code not found")

// UserSource is the slice of the store the repository needs.
type UserSource interface {
	Users(ctx context.Context) ([]models.UserProfile, error)
}

type UserRepository struct {
	store UserSource
}

func NewUserRepository(store UserSource) *UserRepository {
	return &UserRepository{store: store}
}

// FindByEmployeeCode looks a profile up by its normalized code.
// Matching is trimmed and case-sensitive.
func (r *UserRepository) FindByEmployeeCode(ctx context.Context, code string) (*models.UserProfile, error) {
	code = utils.NormalizeEmployeeCode(code)
	if code == "" {
		return nil, ErrUserNotFound
	}

	users, err := r.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].EmployeeCode == code {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}
