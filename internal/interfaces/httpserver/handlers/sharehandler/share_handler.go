package sharehandler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/config"
	"loom-server/services/chat-api/internal/domain/share"
	"loom-server/services/chat-api/internal/infrastructure/metrics"
	"loom-server/services/chat-api/internal/interfaces/httpserver/middlewares"
	sharerequests "loom-server/services/chat-api/internal/interfaces/httpserver/requests/share"
	"loom-server/services/chat-api/internal/interfaces/httpserver/responses"
	shareresponses "loom-server/services/chat-api/internal/interfaces/httpserver/responses/share"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// ShareHandler handles transcript share HTTP requests
type ShareHandler struct {
	shareService *share.Service
	cfg          *config.Config
}

// NewShareHandler creates a new share handler
func NewShareHandler(shareService *share.Service, cfg *config.Config) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		cfg:          cfg,
	}
}

// CreateShare handles POST /v1/shares
// @Summary Share a thread
// @Description Snapshots the thread's current messages behind a public token. Later edits to the thread never reach the snapshot
// @Tags Shares API
// @Accept json
// @Produce json
// @Param request body sharerequests.CreateShareRequest true "Thread to share"
// @Success 201 {object} shareresponses.ShareResponse "Share created"
// @Failure 400 {object} responses.ErrorResponse "Missing thread_id"
// @Failure 404 {object} responses.ErrorResponse "Thread not found"
// @Router /v1/shares [post]
func (h *ShareHandler) CreateShare(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	var req sharerequests.CreateShareRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "thread_id is required")
		return
	}

	output, err := h.shareService.CreateShare(ctx, principal.ID, req.ThreadID)
	if err != nil {
		metrics.RecordShare("create", "error")
		responses.HandleError(reqCtx, err, "failed to create share")
		return
	}

	metrics.RecordShare("create", "success")
	reqCtx.JSON(http.StatusCreated, shareresponses.NewShareResponse(output.Share, h.cfg.ShareBaseURL))
}

// ListShares handles GET /v1/shares
// @Summary List the caller's shares
// @Tags Shares API
// @Produce json
// @Param include_revoked query bool false "Include revoked shares" default(false)
// @Success 200 {object} shareresponses.ShareListResponse "Shares"
// @Router /v1/shares [get]
func (h *ShareHandler) ListShares(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	includeRevoked, _ := strconv.ParseBool(reqCtx.DefaultQuery("include_revoked", "false"))

	shares, err := h.shareService.ListByOwner(ctx, principal.ID, includeRevoked)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to list shares")
		return
	}

	reqCtx.JSON(http.StatusOK, shareresponses.NewShareListResponse(shares, h.cfg.ShareBaseURL))
}

// RevokeShare handles DELETE /v1/shares/:token
// @Summary Revoke a share
// @Description Stamps the share revoked; the public link returns 410 afterwards. Revoking twice returns the original timestamp
// @Tags Shares API
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} shareresponses.ShareRevokedResponse "Share revoked"
// @Failure 404 {object} responses.ErrorResponse "Share not found"
// @Router /v1/shares/{token} [delete]
func (h *ShareHandler) RevokeShare(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	token := reqCtx.Param("token")
	revokedAt, err := h.shareService.Revoke(ctx, principal.ID, token)
	if err != nil {
		metrics.RecordShare("revoke", "error")
		responses.HandleError(reqCtx, err, "failed to revoke share")
		return
	}

	metrics.RecordShare("revoke", "success")
	reqCtx.JSON(http.StatusOK, shareresponses.ShareRevokedResponse{
		Token:     token,
		RevokedAt: revokedAt,
	})
}

// EmailShare handles POST /v1/shares/:token/email
// @Summary Email a share link
// @Description Sends the existing share link to a recipient. The token is never regenerated
// @Tags Shares API
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Param request body sharerequests.EmailShareRequest true "Recipient"
// @Success 200 {object} shareresponses.ShareEmailedResponse "Email sent"
// @Failure 400 {object} responses.ErrorResponse "Invalid recipient"
// @Failure 404 {object} responses.ErrorResponse "Share not found"
// @Failure 410 {object} responses.ErrorResponse "Share has been revoked"
// @Failure 502 {object} responses.ErrorResponse "Email delivery failed"
// @Router /v1/shares/{token}/email [post]
func (h *ShareHandler) EmailShare(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	var req sharerequests.EmailShareRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "a valid recipient email is required")
		return
	}

	token := reqCtx.Param("token")
	if err := h.shareService.EmailShare(ctx, principal.ID, token, req.Recipient); err != nil {
		metrics.RecordShare("email", "error")
		responses.HandleError(reqCtx, err, "failed to email share")
		return
	}

	metrics.RecordShare("email", "success")
	reqCtx.JSON(http.StatusOK, shareresponses.ShareEmailedResponse{
		Token:     token,
		Recipient: req.Recipient,
		Sent:      true,
	})
}

// GetPublicShare handles GET /v1/public/shares/:token
// @Summary Get a shared transcript
// @Description Retrieves the frozen snapshot behind a share token. No authentication; possession of the token is the access model
// @Tags Public Shares API
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} shareresponses.PublicShareResponse "Shared transcript"
// @Failure 404 {object} responses.ErrorResponse "Share not found"
// @Failure 410 {object} responses.ErrorResponse "Share has been revoked"
// @Router /v1/public/shares/{token} [get]
func (h *ShareHandler) GetPublicShare(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	sh, err := h.shareService.GetByToken(ctx, reqCtx.Param("token"))
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeGone) {
			metrics.RecordPublicShareRequest("410")
		} else {
			metrics.RecordPublicShareRequest("404")
		}
		responses.HandleError(reqCtx, err, "share not found")
		return
	}

	metrics.RecordPublicShareRequest("200")
	reqCtx.Header("Cache-Control", "public, max-age=300")
	reqCtx.JSON(http.StatusOK, shareresponses.NewPublicShareResponse(sh))
}

// HeadPublicShare handles HEAD /v1/public/shares/:token
// @Summary Check a shared transcript
// @Description Reports whether a share token is still accessible, for link preloading
// @Tags Public Shares API
// @Param token path string true "Share token"
// @Success 200 "Share exists and is accessible"
// @Failure 404 "Share not found"
// @Failure 410 "Share has been revoked"
// @Router /v1/public/shares/{token} [head]
func (h *ShareHandler) HeadPublicShare(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	_, err := h.shareService.GetByToken(ctx, reqCtx.Param("token"))
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeGone) {
			metrics.RecordPublicShareRequest("410")
			reqCtx.AbortWithStatus(http.StatusGone)
			return
		}
		metrics.RecordPublicShareRequest("404")
		reqCtx.AbortWithStatus(http.StatusNotFound)
		return
	}

	metrics.RecordPublicShareRequest("200")
	reqCtx.Status(http.StatusOK)
}
