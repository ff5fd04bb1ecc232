package migrationhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/config"
	"loom-server/services/chat-api/internal/domain"
	"loom-server/services/chat-api/internal/domain/migration"
	"loom-server/services/chat-api/internal/infrastructure/metrics"
	"loom-server/services/chat-api/internal/interfaces/httpserver/middlewares"
	"loom-server/services/chat-api/internal/interfaces/httpserver/requests/migrationreq"
	"loom-server/services/chat-api/internal/interfaces/httpserver/responses"
	"loom-server/services/chat-api/internal/interfaces/httpserver/responses/migrationres"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// MigrationHandler moves guest-owned data to the authenticated caller
type MigrationHandler struct {
	migrationService *migration.Service
	cfg              *config.Config
}

// NewMigrationHandler creates a new migration handler
func NewMigrationHandler(migrationService *migration.Service, cfg *config.Config) *MigrationHandler {
	return &MigrationHandler{
		migrationService: migrationService,
		cfg:              cfg,
	}
}

// Migrate handles POST /v1/migrate
// @Summary Migrate guest data to the authenticated account
// @Description Reassigns every thread and project owned by the guest id to the caller. Idempotent; a second run reports zero counts. The guest id comes from the request body or, when absent, the guest cookie
// @Tags Migration API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body migrationreq.MigrateRequest false "Guest id override"
// @Success 200 {object} migrationres.MigrateResponse "Migration counts"
// @Failure 400 {object} responses.ErrorResponse "No guest id available"
// @Failure 401 {object} responses.ErrorResponse "Authentication required"
// @Router /v1/migrate [post]
func (h *MigrationHandler) Migrate(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok || principal.IsGuest() {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required")
		return
	}

	var req migrationreq.MigrateRequest
	if reqCtx.Request.ContentLength > 0 {
		if err := reqCtx.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body")
			return
		}
	}

	guestID := req.GuestID
	fromCookie := false
	if guestID == "" {
		if cookieID, found := middlewares.GuestCookieFromRequest(reqCtx, h.cfg); found {
			guestID = cookieID
			fromCookie = true
		}
	}
	if guestID == "" {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "no guest id to migrate")
		return
	}
	if !domain.IsGuestID(guestID) {
		// Non-guest ids are a no-op success, matching the service contract.
		reqCtx.JSON(http.StatusOK, migrationres.MigrateResponse{GuestID: guestID})
		return
	}

	result := h.migrationService.Migrate(ctx, guestID, principal.ID)

	if result.ThreadsMoved > 0 || result.ProjectsMoved > 0 {
		metrics.RecordGuestMigration("success")
	} else {
		metrics.RecordGuestMigration("noop")
	}

	if fromCookie {
		middlewares.ClearGuestCookie(reqCtx, h.cfg)
	}

	reqCtx.JSON(http.StatusOK, migrationres.MigrateResponse{
		GuestID:       guestID,
		ThreadsMoved:  result.ThreadsMoved,
		ProjectsMoved: result.ProjectsMoved,
	})
}
