package usagehandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/domain/usage"
	"loom-server/services/chat-api/internal/interfaces/httpserver/middlewares"
	"loom-server/services/chat-api/internal/interfaces/httpserver/responses"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// UsageHandler reports per-owner conversation volume
type UsageHandler struct {
	usageService *usage.Service
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(usageService *usage.Service) *UsageHandler {
	return &UsageHandler{usageService: usageService}
}

// GetUsage handles GET /v1/usage
// @Summary Get the caller's usage report
// @Description Aggregates thread, message and token counts with an estimated cost
// @Tags Usage API
// @Produce json
// @Success 200 {object} usage.Report "Usage report"
// @Router /v1/usage [get]
func (h *UsageHandler) GetUsage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	report, err := h.usageService.ReportForOwner(ctx, principal.ID)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to build usage report")
		return
	}

	reqCtx.JSON(http.StatusOK, report)
}
