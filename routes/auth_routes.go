package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/salesops/commitment_tracker_backend/controllers"
	"github.com/salesops/commitment_tracker_backend/websocket"
)

// RegisterAuthRoutes sets up the public routes: employee verification,
// the gate probe and the live-update socket.
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController, commitmentController *controllers.CommitmentController, hub *websocket.Hub) {
	e.POST("/api/auth/verify", authController.VerifyEmployee)
	e.GET("/api/commitments/gate", commitmentController.GateStatus)

	e.GET("/api/ws", func(c echo.Context) error {
		// The employee code is informational; events are broadcast to
		// every connected dashboard.
		return websocket.HandleWebSocket(c, hub, c.QueryParam("empcode"))
	})
}
