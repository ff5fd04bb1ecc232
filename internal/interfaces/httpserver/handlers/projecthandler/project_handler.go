package projecthandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/domain/project"
	"loom-server/services/chat-api/internal/interfaces/httpserver/middlewares"
	"loom-server/services/chat-api/internal/interfaces/httpserver/requests"
	"loom-server/services/chat-api/internal/interfaces/httpserver/requests/projectreq"
	"loom-server/services/chat-api/internal/interfaces/httpserver/responses"
	"loom-server/services/chat-api/internal/interfaces/httpserver/responses/projectres"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectService *project.Service
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *project.Service) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProject handles POST /v1/projects
// @Summary Create a project
// @Description Creates a project under a caller-supplied id, unique across all owners
// @Tags Projects API
// @Accept json
// @Produce json
// @Param request body projectreq.CreateProjectRequest true "Project to create"
// @Success 201 {object} projectres.ProjectResponse "Project created"
// @Failure 400 {object} responses.ErrorResponse "Invalid fields"
// @Failure 409 {object} responses.ErrorResponse "Project id already exists"
// @Router /v1/projects [post]
func (h *ProjectHandler) CreateProject(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	var req projectreq.CreateProjectRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "id and name are required")
		return
	}

	proj, err := h.projectService.Create(ctx, principal.ID, req.ID, req.Name, req.Description)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to create project")
		return
	}

	reqCtx.JSON(http.StatusCreated, projectres.NewProjectResponse(proj))
}

// ListProjects handles GET /v1/projects
// @Summary List the caller's active projects
// @Tags Projects API
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} projectres.ProjectListResponse "Projects"
// @Failure 400 {object} responses.ErrorResponse "Invalid pagination"
// @Router /v1/projects [get]
func (h *ProjectHandler) ListProjects(reqCtx *gin.Context) {
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

	projects, total, err := h.projectService.ListByOwner(ctx, principal.ID, pagination)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to list projects")
		return
	}

	reqCtx.JSON(http.StatusOK, projectres.NewProjectListResponse(projects, total))
}

// GetProject handles GET /v1/projects/:project_id
// @Summary Get a project
// @Tags Projects API
// @Produce json
// @Param project_id path string true "Project ID"
// @Success 200 {object} projectres.ProjectResponse "Project"
// @Failure 404 {object} responses.ErrorResponse "Project not found"
// @Router /v1/projects/{project_id} [get]
func (h *ProjectHandler) GetProject(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	proj, err := h.projectService.GetOwned(ctx, principal.ID, reqCtx.Param("project_id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "project not found")
		return
	}

	reqCtx.JSON(http.StatusOK, projectres.NewProjectResponse(proj))
}

// DeleteProject handles DELETE /v1/projects/:project_id
// @Summary Delete a project
// @Description Soft-deletes by default; pass hard=true for permanent removal
// @Tags Projects API
// @Produce json
// @Param project_id path string true "Project ID"
// @Param hard query bool false "Permanently delete" default(false)
// @Success 200 {object} projectres.ProjectDeletedResponse "Project deleted"
// @Failure 404 {object} responses.ErrorResponse "Project not found"
// @Router /v1/projects/{project_id} [delete]
func (h *ProjectHandler) DeleteProject(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	projectID := reqCtx.Param("project_id")
	hard := reqCtx.Query("hard") == "true"

	if err := h.projectService.Delete(ctx, principal.ID, projectID, hard); err != nil {
		responses.HandleError(reqCtx, err, "failed to delete project")
		return
	}

	reqCtx.JSON(http.StatusOK, projectres.ProjectDeletedResponse{
		ID:      projectID,
		Deleted: true,
		Hard:    hard,
	})
}

// AddChat handles POST /v1/projects/:project_id/chats
// @Summary Add a chat to a project
// @Description Links a thread into the project; re-adding updates the reference in place. A thread held exclusively by another project conflicts unless is_shared is true
// @Tags Projects API
// @Accept json
// @Produce json
// @Param project_id path string true "Project ID"
// @Param request body projectreq.AddChatRequest true "Chat to add"
// @Success 200 {object} projectres.ProjectResponse "Updated project"
// @Failure 400 {object} responses.ErrorResponse "Invalid fields"
// @Failure 404 {object} responses.ErrorResponse "Project or thread not found"
// @Failure 409 {object} responses.ErrorResponse "Thread already belongs to another project"
// @Router /v1/projects/{project_id}/chats [post]
func (h *ProjectHandler) AddChat(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	var req projectreq.AddChatRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "thread_id is required")
		return
	}

	proj, err := h.projectService.AddChat(ctx, principal.ID, reqCtx.Param("project_id"), req.ThreadID, req.Title, req.IsShared)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to add chat to project")
		return
	}

	reqCtx.JSON(http.StatusOK, projectres.NewProjectResponse(proj))
}

// MoveChat handles POST /v1/projects/:project_id/chats/:thread_id/move
// @Summary Move a chat to another project
// @Description Transfers the chat reference to the target project; make_copy keeps the source membership
// @Tags Projects API
// @Accept json
// @Produce json
// @Param project_id path string true "Source project ID"
// @Param thread_id path string true "Thread ID"
// @Param request body projectreq.MoveChatRequest true "Move parameters"
// @Success 200 {object} projectres.ProjectResponse "Target project"
// @Failure 400 {object} responses.ErrorResponse "Invalid fields"
// @Failure 404 {object} responses.ErrorResponse "Project, thread or membership not found"
// @Router /v1/projects/{project_id}/chats/{thread_id}/move [post]
func (h *ProjectHandler) MoveChat(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	var req projectreq.MoveChatRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "target_project_id is required")
		return
	}

	target, err := h.projectService.MoveChat(ctx, principal.ID, reqCtx.Param("project_id"), req.TargetProjectID, reqCtx.Param("thread_id"), req.MakeCopy)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to move chat")
		return
	}

	reqCtx.JSON(http.StatusOK, projectres.NewProjectResponse(target))
}

// RemoveChat handles DELETE /v1/projects/:project_id/chats/:thread_id
// @Summary Remove a chat from a project
// @Description Removes the thread reference from the project. Use project id "ALL" to strip the thread from every project
// @Tags Projects API
// @Produce json
// @Param project_id path string true "Project ID, or ALL"
// @Param thread_id path string true "Thread ID"
// @Success 200 {object} projectres.ChatRemovedResponse "Chat removed"
// @Failure 404 {object} responses.ErrorResponse "Project or membership not found"
// @Router /v1/projects/{project_id}/chats/{thread_id} [delete]
func (h *ProjectHandler) RemoveChat(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "identity not resolved")
		return
	}

	projectID := reqCtx.Param("project_id")
	threadID := reqCtx.Param("thread_id")

	if err := h.projectService.RemoveChat(ctx, principal.ID, projectID, threadID); err != nil {
		responses.HandleError(reqCtx, err, "failed to remove chat from project")
		return
	}

	reqCtx.JSON(http.StatusOK, projectres.ChatRemovedResponse{
		ProjectID: projectID,
		ThreadID:  threadID,
		Removed:   true,
	})
}
