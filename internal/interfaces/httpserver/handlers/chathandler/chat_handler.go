package chathandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainchat "loom-server/services/chat-api/internal/domain/chat"
	"loom-server/services/chat-api/internal/infrastructure/metrics"
	"loom-server/services/chat-api/internal/interfaces/httpserver/middlewares"
	chatrequests "loom-server/services/chat-api/internal/interfaces/httpserver/requests/chat"
	"loom-server/services/chat-api/internal/interfaces/httpserver/responses"
	chatresponses "loom-server/services/chat-api/internal/interfaces/httpserver/responses/chat"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// ChatHandler handles chat turn HTTP requests
type ChatHandler struct {
	chatService *domainchat.Service
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *domainchat.Service) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessage handles POST /v1/chat
// @Summary Send a chat message
// @Description Appends the message to the thread (creating it on first use), calls the completion provider and returns the assistant reply
// @Tags Chat API
// @Accept json
// @Produce json
// @Param request body chatrequests.SendMessageRequest true "Chat turn request"
// @Success 200 {object} chatresponses.SendMessageResponse "Assistant reply"
// @Failure 400 {object} responses.ErrorResponse "Missing or invalid fields"
// @Failure 403 {object} responses.ErrorResponse "Guest message limit reached"
// @Failure 502 {object} responses.ErrorResponse "Completion provider failed"
// @Failure 504 {object} responses.ErrorResponse "Completion provider timed out"
// @Router /v1/chat [post]
func (h *ChatHandler) SendMessage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	var req chatrequests.SendMessageRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "thread_id and message are required")
		return
	}

	principalKind := "user"
	if principal.IsGuest() {
		principalKind = "guest"
	}

	result, err := h.chatService.SendMessage(ctx, principal, req.ThreadID, req.Message)
	if err != nil {
		switch {
		case platformerrors.IsErrorType(err, platformerrors.ErrorTypeQuotaExceeded):
			metrics.RecordQuotaRejection()
			metrics.RecordChatTurn(principalKind, "quota_rejected")
		case platformerrors.IsErrorType(err, platformerrors.ErrorTypeTimeout):
			metrics.RecordGatewayError("timeout")
			metrics.RecordChatTurn(principalKind, "error")
		case platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal):
			metrics.RecordGatewayError("upstream")
			metrics.RecordChatTurn(principalKind, "error")
		default:
			metrics.RecordChatTurn(principalKind, "error")
		}
		responses.HandleError(reqCtx, err, "failed to complete chat turn")
		return
	}

	metrics.RecordChatTurn(principalKind, "success")
	reqCtx.JSON(http.StatusOK, chatresponses.NewSendMessageResponse(result, principal.IsGuest()))
}
