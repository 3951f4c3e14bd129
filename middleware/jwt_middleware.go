// middleware/jwt_middleware.go
package middleware

import (
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/salesops/commitment_tracker_backend/models"
)

// JwtCustomClaims carries the verified employee identity. Role and
// channel ride in the token so every request can rebuild its view
// context without a user_master lookup.
type JwtCustomClaims struct {
	EmployeeCode string `json:"employeeCode"`
	EmployeeName string `json:"employeeName"`
	Team         string `json:"team"`
	Role         string `json:"role"`
	Channel      string `json:"channel"`
	jwt.StandardClaims
}

// Valid implements the Claims interface for Echo's JWT middleware.
func (c JwtCustomClaims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return errors.New("token is expired")
	}
	if c.NotBefore > 0 && time.Now().Unix() < c.NotBefore {
		return errors.New("token used before valid")
	}
	return nil
}

var (
	tokenBlacklist   = make(map[string]time.Time)
	tokenBlacklistMu sync.Mutex
)

// CleanupBlacklist periodically removes expired tokens from blacklist
func CleanupBlacklist() {
	for {
		time.Sleep(1 * time.Hour)
		now := time.Now()
		tokenBlacklistMu.Lock()
		for token, expiry := range tokenBlacklist {
			if now.After(expiry) {
				delete(tokenBlacklist, token)
			}
		}
		tokenBlacklistMu.Unlock()
	}
}

// BlacklistToken adds a token to the blacklist
func BlacklistToken(token string, expiry time.Time) {
	tokenBlacklistMu.Lock()
	tokenBlacklist[token] = expiry
	tokenBlacklistMu.Unlock()
}

// IsTokenBlacklisted checks if a token is blacklisted
func IsTokenBlacklisted(token string) bool {
	tokenBlacklistMu.Lock()
	defer tokenBlacklistMu.Unlock()
	_, exists := tokenBlacklist[token]
	return exists
}

// GetJWTSecret returns the JWT secret from environment variables
func GetJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET environment variable is required")
	}
	return secret
}

// JWTMiddleware returns a configured JWT middleware
func JWTMiddleware() echo.MiddlewareFunc {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Printf("Warning: JWT_SECRET environment variable is not set")
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return echo.NewHTTPError(echo.ErrUnauthorized.Code, "JWT configuration error")
			}
		}
	}

	return echoMiddleware.JWTWithConfig(echoMiddleware.JWTConfig{
		SigningKey: []byte(secret),
		Claims:     &JwtCustomClaims{},
		SuccessHandler: func(c echo.Context) {
			user := c.Get("user").(*jwt.Token)

			if IsTokenBlacklisted(user.Raw) {
				c.Error(echo.NewHTTPError(echo.ErrUnauthorized.Code, "Token has been invalidated"))
				return
			}

			claims := user.Claims.(*JwtCustomClaims)
			c.Set("employeeCode", claims.EmployeeCode)
			c.Set("employeeName", claims.EmployeeName)
			c.Set("team", claims.Team)
			c.Set("role", claims.Role)
			c.Set("channel", claims.Channel)
		},
		ErrorHandler: func(err error) error {
			log.Printf("JWT middleware error: %v", err)
			return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Invalid or expired token")
		},
	})
}

// GenerateJWT issues access and refresh tokens for a verified profile.
func GenerateJWT(profile models.UserProfile) (string, string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", "", errors.New("JWT_SECRET environment variable is required")
	}

	claims := &JwtCustomClaims{
		EmployeeCode: profile.EmployeeCode,
		EmployeeName: profile.EmployeeName,
		Team:         profile.Team,
		Role:         profile.Role,
		Channel:      profile.Channel,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(12 * time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}

	refreshClaims := &JwtCustomClaims{
		EmployeeCode: profile.EmployeeCode,
		EmployeeName: profile.EmployeeName,
		Team:         profile.Team,
		Role:         profile.Role,
		Channel:      profile.Channel,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(7 * 24 * time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}

	return tokenString, refreshTokenString, nil
}

// GetViewContext rebuilds the request's view context from the claims
// the JWT middleware stored. Unknown roles or channels are rejected
// here rather than silently defaulting to a management-wide view.
func GetViewContext(c echo.Context) (models.ViewContext, error) {
	code, _ := c.Get("employeeCode").(string)
	if code == "" {
		return models.ViewContext{}, errors.New("missing employee identity")
	}
	rawRole, _ := c.Get("role").(string)
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return models.ViewContext{}, err
	}
	rawChannel, _ := c.Get("channel").(string)
	channel, err := models.ParseChannel(rawChannel)
	if err != nil {
		// Management profiles may carry no channel of their own.
		if role != models.RoleManagement {
			return models.ViewContext{}, err
		}
		channel = ""
	}
	name, _ := c.Get("employeeName").(string)
	team, _ := c.Get("team").(string)
	return models.ViewContext{
		EmployeeCode: code,
		EmployeeName: name,
		Team:         team,
		Role:         role,
		Channel:      channel,
	}, nil
}
