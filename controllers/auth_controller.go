package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/salesops/commitment_tracker_backend/middleware"
	"github.com/salesops/commitment_tracker_backend/models"
	"github.com/salesops/commitment_tracker_backend/repositories"
)

type AuthController struct {
	Store DataStore
	users *repositories.UserRepository
}

func NewAuthController(store DataStore) *AuthController {
	return &AuthController{
		Store: store,
		users: repositories.NewUserRepository(store),
	}
}

// VerifyEmployee checks an employee code against user_master and
// issues tokens carrying the verified identity. This is the dashboard
// login: there are no passwords, only code membership.
func (ac *AuthController) VerifyEmployee(c echo.Context) error {
	var req models.VerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Employee Code is required",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	profile, err := ac.users.FindByEmployeeCode(ctx, req.EmployeeCode)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Invalid Employee Code",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read user master",
		})
	}

	// Reject misconfigured user_master rows at login instead of
	// letting an unknown role fall through to a global view later.
	if _, err := models.ParseRole(profile.Role); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: "User profile has an unrecognized role; contact the administrator",
		})
	}
	if _, err := models.ParseChannel(profile.Channel); err != nil && profile.Role != string(models.RoleManagement) {
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: "User profile has an unrecognized channel; contact the administrator",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(*profile)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Welcome " + profile.EmployeeName,
		Data: models.VerifyResponse{
			Token:        token,
			RefreshToken: refreshToken,
			Profile:      *profile,
		},
	})
}
