package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom-server/services/chat-api/internal/config"
	"loom-server/services/chat-api/internal/domain"
	authvalidator "loom-server/services/chat-api/internal/infrastructure/auth"
	middleware "loom-server/services/chat-api/internal/interfaces/httpserver/middlewares"
)

type validatorStub struct {
	claims *authvalidator.Claims
	err    error
}

func (v *validatorStub) Validate(_ context.Context, _ string) (*authvalidator.Claims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func testConfig() *config.Config {
	return &config.Config{
		GuestCookieName: "loom_guest_id",
		GuestCookieTTL:  720 * time.Hour,
	}
}

func resolvePrincipal(t *testing.T, validator middleware.TokenValidator, req *http.Request) (*httptest.ResponseRecorder, domain.Principal) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var resolved domain.Principal
	engine := gin.New()
	engine.Use(middleware.IdentityMiddleware(validator, testConfig(), zerolog.Nop()))
	engine.GET("/v1/threads", func(c *gin.Context) {
		principal, ok := middleware.PrincipalFromContext(c)
		require.True(t, ok)
		resolved = principal
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec, resolved
}

func TestIdentityMiddleware_ValidBearerResolvesAuthenticated(t *testing.T) {
	validator := &validatorStub{claims: &authvalidator.Claims{Subject: "auth0|user-1", Email: "dev@example.com"}}

	req := httptest.NewRequest(http.MethodGet, "/v1/threads", nil)
	req.Header.Set("Authorization", "Bearer token")

	rec, principal := resolvePrincipal(t, validator, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "auth0|user-1", principal.ID)
	assert.Equal(t, domain.AuthMethodJWT, principal.AuthMethod)
	assert.False(t, principal.IsGuest())
}

func TestIdentityMiddleware_InvalidBearerFallsBackToGuestCookie(t *testing.T) {
	validator := &validatorStub{err: errors.New("token expired")}
	guestID := "guest_2d8f4a6c-1e9b-4375-a0d2-5c7e9f1b3a68"

	req := httptest.NewRequest(http.MethodGet, "/v1/threads", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	req.AddCookie(&http.Cookie{Name: "loom_guest_id", Value: guestID})

	rec, principal := resolvePrincipal(t, validator, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, guestID, principal.ID)
	assert.True(t, principal.IsGuest())
}

func TestIdentityMiddleware_InvalidBearerWithoutCookieMintsGuest(t *testing.T) {
	validator := &validatorStub{err: errors.New("signature invalid")}

	req := httptest.NewRequest(http.MethodGet, "/v1/threads", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	rec, principal := resolvePrincipal(t, validator, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, domain.IsGuestID(principal.ID))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "loom_guest_id="+principal.ID)
}

func TestIdentityMiddleware_NoCredentialsMintsGuest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/threads", nil)

	rec, principal := resolvePrincipal(t, &validatorStub{}, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, principal.IsGuest())
}

func TestRequireAuthenticated_RejectsGuestEvenWithStaleBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(middleware.IdentityMiddleware(&validatorStub{err: errors.New("token expired")}, testConfig(), zerolog.Nop()))
	engine.POST("/v1/migrate", middleware.RequireAuthenticated(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/migrate", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	req.AddCookie(&http.Cookie{Name: "loom_guest_id", Value: "guest_2d8f4a6c-1e9b-4375-a0d2-5c7e9f1b3a68"})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
