package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/salesops/commitment_tracker_backend/config"
	"github.com/salesops/commitment_tracker_backend/controllers"
	"github.com/salesops/commitment_tracker_backend/middleware"
	"github.com/salesops/commitment_tracker_backend/routes"
	"github.com/salesops/commitment_tracker_backend/services"
	"github.com/salesops/commitment_tracker_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (snapshot cache; optional)
	redisClient := config.ConnectRedis()

	// Connect to the Google Sheets record store
	sheetsService, err := config.NewSheetsService(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize Google Sheets client: %v", err)
	}
	store := services.NewSheetStore(sheetsService, redisClient)

	// Create WebSocket hub for live dashboard refresh
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{"*"},
		AllowInlineJS:  true,
		AllowEval:      false,
	}))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Commitment Tracker Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status": "healthy",
			"store":  "connected",
		})
	})

	// Initialize controllers
	authController := controllers.NewAuthController(store)
	dashboardController := controllers.NewDashboardController(store)
	commitmentController := controllers.NewCommitmentController(store, wsHub)

	// Register routes
	routes.RegisterAuthRoutes(e, authController, commitmentController, wsHub)
	routes.RegisterDashboardRoutes(e, dashboardController, commitmentController)

	// Clean out expired blacklisted tokens in the background
	go middleware.CleanupBlacklist()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
