package threadhandler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/interfaces/httpserver/middlewares"
	"loom-server/services/chat-api/internal/interfaces/httpserver/requests"
	"loom-server/services/chat-api/internal/interfaces/httpserver/requests/threadreq"
	"loom-server/services/chat-api/internal/interfaces/httpserver/responses"
	"loom-server/services/chat-api/internal/interfaces/httpserver/responses/threadres"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// ThreadHandler handles thread HTTP requests
type ThreadHandler struct {
	threadService *thread.Service
}

// NewThreadHandler creates a new thread handler
func NewThreadHandler(threadService *thread.Service) *ThreadHandler {
	return &ThreadHandler{threadService: threadService}
}

// ListThreads handles GET /v1/threads
// @Summary List the caller's threads
// @Tags Threads API
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Param order query string false "Sort order (asc|desc)" default(desc)
// @Success 200 {object} threadres.ThreadListResponse "Thread summaries"
// @Failure 400 {object} responses.ErrorResponse "Invalid pagination"
// @Router /v1/threads [get]
func (h *ThreadHandler) ListThreads(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	pagination, err := requests.GetPaginationFromQuery(reqCtx)
	if err != nil {
		responses.HandleError(reqCtx, err, "invalid pagination")
		return
	}

	threads, total, err := h.threadService.ListByOwner(ctx, principal.ID, pagination)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to list threads")
		return
	}

	reqCtx.JSON(http.StatusOK, threadres.NewThreadListResponse(threads, total))
}

// SearchThreads handles GET /v1/threads/search
// @Summary Search the caller's threads
// @Description Matches thread titles and message content; title matches rank first
// @Tags Threads API
// @Produce json
// @Param q query string true "Search text"
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} threadres.ThreadListResponse "Matching threads"
// @Failure 400 {object} responses.ErrorResponse "Missing search text"
// @Router /v1/threads/search [get]
func (h *ThreadHandler) SearchThreads(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	text := reqCtx.Query("q")
	if text == "" {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "q is required")
		return
	}

	pagination, err := requests.GetPaginationFromQuery(reqCtx)
	if err != nil {
		responses.HandleError(reqCtx, err, "invalid pagination")
		return
	}

	threads, total, err := h.threadService.Search(ctx, principal.ID, text, pagination)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to search threads")
		return
	}

	reqCtx.JSON(http.StatusOK, threadres.NewThreadListResponse(threads, total))
}

// GetThread handles GET /v1/threads/:thread_id
// @Summary Get a thread with its messages
// @Tags Threads API
// @Produce json
// @Param thread_id path string true "Thread ID"
// @Success 200 {object} threadres.ThreadResponse "Thread"
// @Failure 404 {object} responses.ErrorResponse "Thread not found"
// @Router /v1/threads/{thread_id} [get]
func (h *ThreadHandler) GetThread(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	t, err := h.threadService.GetOwned(ctx, principal.ID, reqCtx.Param("thread_id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "thread not found")
		return
	}

	reqCtx.JSON(http.StatusOK, threadres.NewThreadResponse(t))
}

// UpdateThread handles PATCH /v1/threads/:thread_id
// @Summary Update thread properties
// @Description Applies title, archive, pin and tag changes; omitted fields are untouched
// @Tags Threads API
// @Accept json
// @Produce json
// @Param thread_id path string true "Thread ID"
// @Param request body threadreq.UpdateThreadRequest true "Fields to update"
// @Success 200 {object} threadres.ThreadResponse "Updated thread"
// @Failure 400 {object} responses.ErrorResponse "Invalid fields"
// @Failure 404 {object} responses.ErrorResponse "Thread not found"
// @Router /v1/threads/{thread_id} [patch]
func (h *ThreadHandler) UpdateThread(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	var req threadreq.UpdateThreadRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body")
		return
	}

	t, err := h.threadService.UpdateThread(ctx, principal.ID, reqCtx.Param("thread_id"), thread.UpdateInput{
		Title:      req.Title,
		IsArchived: req.IsArchived,
		IsPinned:   req.IsPinned,
		Tags:       req.Tags,
	})
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to update thread")
		return
	}

	reqCtx.JSON(http.StatusOK, threadres.NewThreadResponse(t))
}

// EditMessage handles PUT /v1/threads/:thread_id/messages/:index
// @Summary Edit a message in place
// @Description Replaces the message content at the index and drops every later message
// @Tags Threads API
// @Accept json
// @Produce json
// @Param thread_id path string true "Thread ID"
// @Param index path int true "Zero-based message index"
// @Param request body threadreq.EditMessageRequest true "New content"
// @Success 200 {object} threadres.ThreadResponse "Truncated thread"
// @Failure 400 {object} responses.ErrorResponse "Invalid index or content"
// @Failure 404 {object} responses.ErrorResponse "Thread or message not found"
// @Router /v1/threads/{thread_id}/messages/{index} [put]
func (h *ThreadHandler) EditMessage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	index, err := strconv.Atoi(reqCtx.Param("index"))
	if err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "index must be an integer")
		return
	}

	var req threadreq.EditMessageRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "content is required")
		return
	}

	t, err := h.threadService.EditMessage(ctx, principal.ID, reqCtx.Param("thread_id"), index, req.Content)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to edit message")
		return
	}

	reqCtx.JSON(http.StatusOK, threadres.NewThreadResponse(t))
}

// DeleteThread handles DELETE /v1/threads/:thread_id
// @Summary Delete a thread
// @Description Removes the thread permanently and detaches it from every project
// @Tags Threads API
// @Produce json
// @Param thread_id path string true "Thread ID"
// @Success 200 {object} threadres.ThreadDeletedResponse "Thread deleted"
// @Failure 404 {object} responses.ErrorResponse "Thread not found"
// @Router /v1/threads/{thread_id} [delete]
func (h *ThreadHandler) DeleteThread(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	threadID := reqCtx.Param("thread_id")
	if err := h.threadService.Delete(ctx, principal.ID, threadID); err != nil {
		responses.HandleError(reqCtx, err, "failed to delete thread")
		return
	}

	reqCtx.JSON(http.StatusOK, threadres.ThreadDeletedResponse{
		ThreadID: threadID,
		Deleted:  true,
	})
}
