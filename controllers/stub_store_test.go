package controllers

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/salesops/commitment_tracker_backend/models"
	"github.com/salesops/commitment_tracker_backend/rollup"
)

var errStoreDown = errors.New("record store unreachable")

// stubStore is an in-memory DataStore for handler tests.
type stubStore struct {
	commits   []models.CommitmentRecord
	achieves  models.AchievementSet
	users     []models.UserProfile
	leadMap   []models.LeadTeamMap
	appended  []models.CommitmentRecord
	failReads bool
	failWrite bool
}

func (s *stubStore) Commitments(ctx context.Context) ([]models.CommitmentRecord, error) {
	if s.failReads {
		return nil, errStoreDown
	}
	return s.commits, nil
}

func (s *stubStore) Achievements(ctx context.Context) (models.AchievementSet, error) {
	if s.failReads {
		return models.AchievementSet{}, errStoreDown
	}
	return s.achieves, nil
}

func (s *stubStore) Users(ctx context.Context) ([]models.UserProfile, error) {
	if s.failReads {
		return nil, errStoreDown
	}
	return s.users, nil
}

func (s *stubStore) LeadTeamMap(ctx context.Context) ([]models.LeadTeamMap, error) {
	if s.failReads {
		return nil, errStoreDown
	}
	return s.leadMap, nil
}

func (s *stubStore) AppendCommitment(ctx context.Context, rec models.CommitmentRecord) error {
	if s.failWrite {
		return errStoreDown
	}
	s.appended = append(s.appended, rec)
	return nil
}

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	return e
}

// newRequestContext builds an echo context carrying the claims the JWT
// middleware would have set.
func newRequestContext(e *echo.Echo, method, target, body string, view models.ViewContext) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if view.EmployeeCode != "" {
		c.Set("employeeCode", view.EmployeeCode)
		c.Set("employeeName", view.EmployeeName)
		c.Set("team", view.Team)
		c.Set("role", string(view.Role))
		c.Set("channel", string(view.Channel))
	}
	return c, rec
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func marchClock() func() time.Time {
	// A Friday morning, before the submission cutoff.
	return fixedClock(time.Date(2024, 3, 15, 10, 0, 0, 0, rollup.IST()))
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected HTTP %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
