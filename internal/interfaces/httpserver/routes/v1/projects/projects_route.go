package projects

import (
	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/projecthandler"
)

// ProjectsRoute handles routing for project endpoints
type ProjectsRoute struct {
	handler *projecthandler.ProjectHandler
}

// NewProjectsRoute creates a new projects route handler
func NewProjectsRoute(handler *projecthandler.ProjectHandler) *ProjectsRoute {
	return &ProjectsRoute{handler: handler}
}

// RegisterRouter registers project routes
func (route *ProjectsRoute) RegisterRouter(router gin.IRouter) {
	projects := router.Group("/projects")
	projects.POST("", route.handler.CreateProject)
	projects.GET("", route.handler.ListProjects)
	projects.GET("/:project_id", route.handler.GetProject)
	projects.DELETE("/:project_id", route.handler.DeleteProject)
	projects.POST("/:project_id/chats", route.handler.AddChat)
	projects.POST("/:project_id/chats/:thread_id/move", route.handler.MoveChat)
	projects.DELETE("/:project_id/chats/:thread_id", route.handler.RemoveChat)
}
