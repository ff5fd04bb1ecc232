package guesthandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/domain/identity"
	"loom-server/services/chat-api/internal/interfaces/httpserver/middlewares"
	"loom-server/services/chat-api/internal/interfaces/httpserver/responses"
	"loom-server/services/chat-api/internal/interfaces/httpserver/responses/migrationres"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// GuestHandler issues guest sessions explicitly. The identity middleware also
// mints one lazily; this endpoint exists so clients can fetch their quota.
type GuestHandler struct {
	identityService *identity.Service
}

// NewGuestHandler creates a new guest handler
func NewGuestHandler(identityService *identity.Service) *GuestHandler {
	return &GuestHandler{identityService: identityService}
}

// GuestSession handles POST /v1/auth/guest-login
// @Summary Start or resume a guest session
// @Description Returns the caller's guest id (minting one and setting the cookie when absent) and the remaining free messages
// @Tags Auth API
// @Produce json
// @Success 200 {object} migrationres.GuestSessionResponse "Guest session"
// @Router /v1/auth/guest-login [post]
func (h *GuestHandler) GuestSession(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	decision := h.identityService.CheckGuestLimit(ctx, principal)

	reqCtx.JSON(http.StatusOK, migrationres.GuestSessionResponse{
		GuestID:           principal.ID,
		RemainingMessages: decision.Remaining,
	})
}
