package controllers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/salesops/commitment_tracker_backend/middleware"
	"github.com/salesops/commitment_tracker_backend/models"
	"github.com/salesops/commitment_tracker_backend/rollup"
	"github.com/salesops/commitment_tracker_backend/websocket"
)

type CommitmentController struct {
	Store DataStore
	Hub   *websocket.Hub
	// Now is swappable so the cutoff gate is testable.
	Now func() time.Time
	// allowMultiple disables the one-commitment-per-day check.
	allowMultiple bool
}

func NewCommitmentController(store DataStore, hub *websocket.Hub) *CommitmentController {
	return &CommitmentController{
		Store:         store,
		Hub:           hub,
		Now:           time.Now,
		allowMultiple: os.Getenv("ALLOW_MULTIPLE_DAILY") == "true",
	}
}

// GateStatus reports whether the commitment form is open right now.
// Evaluated fresh on every call; the cutoff is purely a function of
// the clock.
func (cc *CommitmentController) GateStatus(c echo.Context) error {
	now := cc.Now()
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Gate status",
		Data: models.GateStatus{
			Allowed:    rollup.SubmissionAllowed(now),
			Cutoff:     rollup.CutoffFor(now).Format(time.RFC3339),
			ServerTime: now.In(rollup.IST()).Format(time.RFC3339),
		},
	})
}

// Submit appends one daily commitment for the caller. The row is
// immutable once appended; validation is the only hard-failure path in
// the system.
func (cc *CommitmentController) Submit(c echo.Context) error {
	view, err := middleware.GetViewContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: err.Error(),
		})
	}
	if view.Role == models.RoleManagement {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Management users do not submit commitments",
		})
	}

	now := cc.Now()
	if !rollup.SubmissionAllowed(now) {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Commitment entry closed (11:30 AM crossed)",
		})
	}

	form, err := models.NewSubmissionVariant(view.Channel)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	}
	if err := c.Bind(form); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if msgs := form.Validate(); len(msgs) > 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    map[string][]string{"errors": msgs},
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	today := rollup.DateOnly(now)
	if !cc.allowMultiple {
		commits, err := cc.Store.Commitments(ctx)
		if err != nil {
			return c.JSON(http.StatusBadGateway, models.Response{
				Status:  http.StatusBadGateway,
				Message: "Failed to read record store: " + err.Error(),
			})
		}
		for _, rec := range commits {
			if rec.EmployeeCode == view.EmployeeCode && !rec.Date.IsZero() && rollup.DateOnly(rec.Date).Equal(today) {
				return c.JSON(http.StatusConflict, models.Response{
					Status:  http.StatusConflict,
					Message: "A commitment has already been submitted today",
				})
			}
		}
	}

	rec := models.CommitmentRecord{
		Date:         today,
		EmployeeCode: view.EmployeeCode,
		EmployeeName: view.EmployeeName,
		Team:         view.Team,
		Channel:      string(view.Channel),
		SubmissionID: uuid.NewString(),
		SubmittedAt:  now.In(rollup.IST()).Format("2006-01-02 15:04:05"),
	}
	form.Apply(&rec)

	if err := cc.Store.AppendCommitment(ctx, rec); err != nil {
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: err.Error(),
		})
	}

	if cc.Hub != nil {
		cc.Hub.Broadcast(websocket.Event{
			Type:         websocket.EventTypeCommitmentCreated,
			Message:      view.EmployeeName + " submitted a commitment",
			EmployeeCode: view.EmployeeCode,
			Data: map[string]string{
				"submissionId": rec.SubmissionID,
				"channel":      rec.Channel,
				"team":         rec.Team,
			},
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Commitment submitted successfully at " + now.In(rollup.IST()).Format("02 Jan 2006, 03:04 PM"),
		Data: map[string]string{
			"submissionId": rec.SubmissionID,
			"date":         rec.Date.Format("2006-01-02"),
		},
	})
}
