package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/salesops/commitment_tracker_backend/controllers"
	"github.com/salesops/commitment_tracker_backend/middleware"
)

// RegisterDashboardRoutes sets up the JWT-protected routes.
func RegisterDashboardRoutes(e *echo.Echo, dashboardController *controllers.DashboardController, commitmentController *controllers.CommitmentController) {
	api := e.Group("/api")
	api.Use(middleware.JWTMiddleware())

	api.GET("/dashboard", dashboardController.GetDashboard)
	api.GET("/dashboard/management", dashboardController.GetManagementDashboard)
	api.POST("/commitments", commitmentController.Submit)
}
