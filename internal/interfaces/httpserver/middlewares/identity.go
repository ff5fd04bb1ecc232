package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"loom-server/services/chat-api/internal/config"
	"loom-server/services/chat-api/internal/domain"
	"loom-server/services/chat-api/internal/domain/identity"
	authvalidator "loom-server/services/chat-api/internal/infrastructure/auth"
	"loom-server/services/chat-api/internal/interfaces/httpserver/responses"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

const principalContextKey = "principal"

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	Validate(ctx context.Context, rawToken string) (*authvalidator.Claims, error)
}

// IdentityMiddleware resolves every request to a principal. A valid bearer
// token produces an authenticated principal; anything else, including a
// malformed or expired token, falls back to the guest cookie, minting a fresh
// guest id when the cookie is absent or invalid. Routes that need a real
// account reject the guest principal in RequireAuthenticated.
func IdentityMiddleware(validator TokenValidator, cfg *config.Config, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rawToken, hasToken := bearerToken(c); hasToken {
			claims, err := validator.Validate(c.Request.Context(), rawToken)
			if err == nil {
				setPrincipal(c, claims.Principal())
				c.Next()
				return
			}
			logger.Warn().Err(err).Str("path", c.FullPath()).Msg("jwt validation failed, resolving as guest")
		}

		setPrincipal(c, guestPrincipal(c, cfg))
		c.Next()
	}
}

// RequireAuthenticated rejects guest principals. Routes behind it need a real
// account, not a cookie identity.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.IsGuest() {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required")
			return
		}
		c.Next()
	}
}

// PrincipalFromContext returns the resolved principal, if any.
func PrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}

// GuestCookieFromRequest returns the guest id carried by the request cookie,
// if one is present and well formed.
func GuestCookieFromRequest(c *gin.Context, cfg *config.Config) (string, bool) {
	value, err := c.Cookie(cfg.GuestCookieName)
	if err != nil || !domain.IsGuestID(value) {
		return "", false
	}
	return value, true
}

// ClearGuestCookie expires the guest cookie. Called after a successful guest
// data migration so the browser stops presenting the stale guest id.
func ClearGuestCookie(c *gin.Context, cfg *config.Config) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.GuestCookieName, "", -1, "/", "", cfg.GuestCookieSecure, true)
}

func setPrincipal(c *gin.Context, principal domain.Principal) {
	c.Set(principalContextKey, principal)
	c.Set("user_id", principal.ID)
	c.Request.Header.Set("X-Principal-Id", principal.ID)
	c.Request.Header.Set("X-Auth-Method", string(principal.AuthMethod))
	c.Writer.Header().Set("X-Principal-Id", principal.ID)
	c.Writer.Header().Set("X-Auth-Method", string(principal.AuthMethod))
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func guestPrincipal(c *gin.Context, cfg *config.Config) domain.Principal {
	if guestID, ok := GuestCookieFromRequest(c, cfg); ok {
		return identity.GuestPrincipal(guestID)
	}

	guestID := identity.MintGuestID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		cfg.GuestCookieName,
		guestID,
		int(cfg.GuestCookieTTL.Seconds()),
		"/",
		"",
		cfg.GuestCookieSecure,
		true,
	)
	return identity.GuestPrincipal(guestID)
}
