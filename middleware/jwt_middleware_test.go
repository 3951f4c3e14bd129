package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"

	"github.com/salesops/commitment_tracker_backend/models"
)

func claimsContext(claims map[string]string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	for k, v := range claims {
		c.Set(k, v)
	}
	return c
}

func TestGetViewContext(t *testing.T) {
	t.Parallel()

	c := claimsContext(map[string]string{
		"employeeCode": "E1",
		"employeeName": "Asha",
		"team":         "Alpha",
		"role":         "User",
		"channel":      "Cross Sell",
	})

	view, err := GetViewContext(c)
	if err != nil {
		t.Fatalf("GetViewContext failed: %v", err)
	}
	want := models.ViewContext{
		EmployeeCode: "E1",
		EmployeeName: "Asha",
		Team:         "Alpha",
		Role:         models.RoleUser,
		Channel:      models.ChannelCrossSell,
	}
	if view != want {
		t.Fatalf("expected %#v, got %#v", want, view)
	}
}

func TestGetViewContextMissingIdentity(t *testing.T) {
	t.Parallel()

	if _, err := GetViewContext(claimsContext(nil)); err == nil {
		t.Fatalf("expected error without claims")
	}
}

func TestGetViewContextUnknownRole(t *testing.T) {
	t.Parallel()

	c := claimsContext(map[string]string{
		"employeeCode": "E1",
		"role":         "Superuser",
		"channel":      "Cross Sell",
	})
	if _, err := GetViewContext(c); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestGetViewContextUnknownChannel(t *testing.T) {
	t.Parallel()

	c := claimsContext(map[string]string{
		"employeeCode": "E1",
		"role":         "User",
		"channel":      "Telecalling",
	})
	if _, err := GetViewContext(c); err == nil {
		t.Fatalf("expected error for unknown channel on a non-management role")
	}
}

func TestGetViewContextManagementWithoutChannel(t *testing.T) {
	t.Parallel()

	c := claimsContext(map[string]string{
		"employeeCode": "M1",
		"role":         "Management",
		"channel":      "",
	})
	view, err := GetViewContext(c)
	if err != nil {
		t.Fatalf("GetViewContext failed: %v", err)
	}
	if view.Role != models.RoleManagement || view.Channel != "" {
		t.Fatalf("expected management context with empty channel, got %#v", view)
	}
}

func TestGenerateJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	profile := models.UserProfile{
		EmployeeCode: "E1",
		EmployeeName: "Asha",
		Team:         "Alpha",
		Role:         "User",
		Channel:      "Cross Sell",
	}
	token, refresh, err := GenerateJWT(profile)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	if token == "" || refresh == "" {
		t.Fatalf("expected both tokens issued")
	}

	parsed, err := jwt.ParseWithClaims(token, &JwtCustomClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("failed to parse issued token: %v", err)
	}
	claims, ok := parsed.Claims.(*JwtCustomClaims)
	if !ok || claims.EmployeeCode != "E1" || claims.Role != "User" {
		t.Fatalf("unexpected claims: %#v", parsed.Claims)
	}
}

func TestTokenBlacklist(t *testing.T) {
	t.Parallel()

	token := "blacklist-test-token"
	if IsTokenBlacklisted(token) {
		t.Fatalf("expected token not blacklisted initially")
	}
	BlacklistToken(token, time.Now().Add(time.Hour))
	if !IsTokenBlacklisted(token) {
		t.Fatalf("expected token blacklisted after BlacklistToken")
	}
}
